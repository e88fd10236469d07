package session

import (
	"context"

	"golang.org/x/oauth2"

	errs "github.com/Hernannavarro13/psystock-go/internal/errors"
)

// TokenSource exposes the session as an oauth2.TokenSource so the SDK can be
// plugged into libraries that speak that interface. An expired access token is
// refreshed through the Manager before being returned.
func (m *Manager) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &tokenSource{ctx: ctx, manager: m}
}

type tokenSource struct {
	ctx     context.Context
	manager *Manager
}

var _ oauth2.TokenSource = (*tokenSource)(nil)

func (ts *tokenSource) Token() (*oauth2.Token, error) {
	sess := ts.manager.Current()
	if !sess.Authenticated() {
		return nil, errs.ErrSessionMissing
	}

	expiry, err := ts.manager.TokenExpiry()
	if err == nil && ts.manager.nowTime().After(expiry) {
		if _, err := ts.manager.RefreshAccessToken(ts.ctx); err != nil {
			return nil, err
		}
		sess = ts.manager.Current()
		expiry, _ = ts.manager.TokenExpiry()
	}

	return &oauth2.Token{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       expiry,
	}, nil
}
