// Package gateway wraps outbound HTTP calls to the backend: it injects the
// bearer token, and on an authorization failure transparently refreshes the
// token and retries the request exactly once. When recovery is exhausted it
// forces a logout and surfaces ErrSessionExpired.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/Hernannavarro13/psystock-go/apimodel"
	errs "github.com/Hernannavarro13/psystock-go/internal/errors"
)

const defaultHTTPTimeout = 30 * time.Second

// CredentialSource supplies bearer tokens and the recovery actions the
// gateway needs. Implemented by session.Manager.
type CredentialSource interface {
	AccessToken() string
	RefreshAccessToken(ctx context.Context) (string, error)
	Logout()
}

// Gateway dispatches authenticated requests to the backend.
type Gateway struct {
	baseURL string
	client  *http.Client
	creds   CredentialSource
}

// Option defines a function type to modify the Gateway instance.
type Option func(*Gateway)

// WithHTTPClient sets the HTTP client used for dispatch.
func WithHTTPClient(client *http.Client) Option {
	return func(g *Gateway) {
		g.client = client
	}
}

// New creates a Gateway for the given backend base URL.
func New(baseURL string, creds CredentialSource, options ...Option) (*Gateway, error) {
	if baseURL == "" {
		return nil, errors.New("[gateway.New] baseURL is required")
	}
	if creds == nil {
		return nil, errors.New("[gateway.New] credential source is required")
	}

	g := &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultHTTPTimeout},
		creds:   creds,
	}
	for _, opt := range options {
		opt(g)
	}
	return g, nil
}

// Do sends the request and returns the response body. Authorization failures
// are resolved locally with a single refresh-and-retry cycle; every other
// failure propagates to the caller unchanged.
func (g *Gateway) Do(ctx context.Context, req *Request) ([]byte, error) {
	for {
		status, body, err := g.dispatch(ctx, req)
		if err != nil {
			req.state = stateFailed
			return nil, errors.Wrap(err, "[Gateway.Do] dispatch failed")
		}

		if status != http.StatusUnauthorized {
			if status >= 400 {
				req.state = stateFailed
				return nil, &apimodel.APIError{StatusCode: status, Body: apimodel.ParseErrorBody(body)}
			}
			req.state = stateSucceeded
			return body, nil
		}

		switch req.state {
		case statePending:
			req.state = stateAwaitingRefresh
			if _, err := g.creds.RefreshAccessToken(ctx); err != nil {
				log.Warn().Err(err).Str("path", req.Path).Msg("token refresh failed, forcing logout")
				g.creds.Logout()
				req.state = stateFailed
				return nil, errors.Wrap(errs.ErrSessionExpired, "refresh failed")
			}
			req.state = stateRetried
			// loop: resend once with the new token
		case stateRetried:
			log.Warn().Str("path", req.Path).Msg("request unauthorized after refresh, forcing logout")
			g.creds.Logout()
			req.state = stateFailed
			return nil, errors.Wrap(errs.ErrSessionExpired, "unauthorized after refresh")
		default:
			req.state = stateFailed
			return nil, errors.Errorf("[Gateway.Do] unexpected request state %d", req.state)
		}
	}
}

// Get issues an authenticated GET and returns the response body.
func (g *Gateway) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return g.Do(ctx, NewRequest(http.MethodGet, path).WithQuery(query))
}

// Post issues an authenticated POST with a JSON body.
func (g *Gateway) Post(ctx context.Context, path string, body interface{}) ([]byte, error) {
	return g.Do(ctx, NewRequest(http.MethodPost, path).WithBody(body))
}

// Put issues an authenticated PUT with a JSON body.
func (g *Gateway) Put(ctx context.Context, path string, body interface{}) ([]byte, error) {
	return g.Do(ctx, NewRequest(http.MethodPut, path).WithBody(body))
}

// Delete issues an authenticated DELETE.
func (g *Gateway) Delete(ctx context.Context, path string) ([]byte, error) {
	return g.Do(ctx, NewRequest(http.MethodDelete, path))
}

// dispatch performs a single round trip. The bearer token is read at dispatch
// time so a retry observes the token installed by the refresh.
func (g *Gateway) dispatch(ctx context.Context, req *Request) (int, []byte, error) {
	var reqBody io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return 0, nil, errors.Wrap(err, "encoding request body")
		}
		reqBody = bytes.NewReader(data)
	}

	target := g.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, reqBody)
	if err != nil {
		return 0, nil, errors.Wrap(err, "building request")
	}
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token := g.creds.AccessToken(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	httpReq.Header.Set("X-Request-ID", uuid.New().String())

	httpResp, err := g.client.Do(httpReq)
	if err != nil {
		return 0, nil, err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return httpResp.StatusCode, nil, errors.Wrap(err, "reading response body")
	}
	return httpResp.StatusCode, body, nil
}
