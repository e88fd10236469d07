package session

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/Hernannavarro13/psystock-go/apimodel"
	errs "github.com/Hernannavarro13/psystock-go/internal/errors"
)

// Auth endpoints of the backend. These are a fixed external contract.
const (
	loginPath                = "/api/auth/token/"
	refreshPath              = "/api/auth/token/refresh/"
	registerPath             = "/api/auth/register/"
	profilePath              = "/api/auth/profile/"
	passwordResetPath        = "/api/auth/password-reset/"
	passwordResetConfirmPath = "/api/auth/password-reset-confirm/"
)

const defaultHTTPTimeout = 30 * time.Second

// Credentials are the login payload. The backend accepts the account's
// username; Email is sent too for deployments keyed on email.
type Credentials struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

// Manager is the session store. It owns the credential record exclusively:
// login, registration and refresh are the only operations that populate it,
// and Logout is the only operation that clears it. Reads are local and never
// touch the network.
type Manager struct {
	repo    Repo
	baseURL string
	client  *http.Client
	nowTime func() time.Time // injectable for testing

	lock    sync.RWMutex
	current Session

	// Coalesces concurrent refresh attempts into a single round trip so that
	// several requests failing at once rotate the token only once.
	refreshGroup singleflight.Group
}

// ManagerOption defines a function type to modify the Manager instance.
type ManagerOption func(*Manager)

// WithHTTPClient sets the HTTP client used for auth endpoints.
func WithHTTPClient(client *http.Client) ManagerOption {
	return func(m *Manager) {
		m.client = client
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

// NewManager initializes a session Manager backed by the given credential
// repo. A previously persisted session is loaded if one exists.
func NewManager(repo Repo, baseURL string, options ...ManagerOption) (*Manager, error) {
	if repo == nil {
		return nil, errors.New("[NewManager] repo is required")
	}
	if baseURL == "" {
		return nil, errors.New("[NewManager] baseURL is required")
	}

	m := &Manager{
		repo:    repo,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultHTTPTimeout},
		nowTime: time.Now,
	}

	for _, opt := range options {
		opt(m)
	}

	if stored, err := repo.Get(); err == nil && stored != nil {
		m.current = *stored
	}

	return m, nil
}

// Login exchanges credentials for a token pair and the user record. On
// failure the stored session is left unchanged.
func (m *Manager) Login(ctx context.Context, creds Credentials) (*apimodel.User, error) {
	var authResp apimodel.AuthResponse
	status, body, err := m.postJSON(ctx, loginPath, creds, &authResp)
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.Login] request failed")
	}
	switch {
	case status == http.StatusOK:
		return m.adopt(ctx, authResp), nil
	case status == http.StatusUnauthorized || status == http.StatusBadRequest:
		msg := apimodel.ParseErrorBody(body).FirstMessage("invalid username or password")
		return nil, errors.Wrap(errs.ErrInvalidCredentials, msg)
	default:
		return nil, &apimodel.APIError{StatusCode: status, Body: apimodel.ParseErrorBody(body)}
	}
}

// Register creates a new account and logs it in. Field-level rejections are
// surfaced as ErrValidationFailed carrying the first serializer message.
func (m *Manager) Register(ctx context.Context, reg apimodel.Registration) (*apimodel.User, error) {
	var authResp apimodel.AuthResponse
	status, body, err := m.postJSON(ctx, registerPath, reg, &authResp)
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.Register] request failed")
	}
	switch {
	case status == http.StatusOK || status == http.StatusCreated:
		return m.adopt(ctx, authResp), nil
	case status == http.StatusBadRequest:
		msg := apimodel.ParseErrorBody(body).FirstMessage("registration failed")
		return nil, errors.Wrap(errs.ErrValidationFailed, msg)
	default:
		return nil, &apimodel.APIError{StatusCode: status, Body: apimodel.ParseErrorBody(body)}
	}
}

// Logout clears the stored credentials. It never fails and is safe to call
// when already logged out.
func (m *Manager) Logout() {
	m.lock.Lock()
	m.current = Session{}
	m.lock.Unlock()

	if err := m.repo.Delete(); err != nil {
		log.Debug().Err(err).Msg("clearing stored session")
	}
}

// Current returns a copy of the locally cached session. No network call.
func (m *Manager) Current() Session {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.current
}

// AccessToken returns the current access token, or "" when logged out.
func (m *Manager) AccessToken() string {
	return m.Current().AccessToken
}

// IsAuthenticated reports whether an access token is present locally. It does
// not verify the token with the backend.
func (m *Manager) IsAuthenticated() bool {
	return m.Current().Authenticated()
}

// RefreshAccessToken exchanges the stored refresh token for a new access
// token. Concurrent callers are coalesced; all of them observe the outcome of
// a single refresh round trip.
func (m *Manager) RefreshAccessToken(ctx context.Context) (string, error) {
	token, err, _ := m.refreshGroup.Do("refresh", func() (interface{}, error) {
		return m.doRefresh(ctx)
	})
	if err != nil {
		return "", err
	}
	return token.(string), nil
}

func (m *Manager) doRefresh(ctx context.Context) (interface{}, error) {
	refresh := m.Current().RefreshToken
	if refresh == "" {
		return nil, errors.Wrap(errs.ErrRefreshFailed, errs.ErrNoRefreshToken.Error())
	}

	var resp apimodel.RefreshResponse
	status, body, err := m.postJSON(ctx, refreshPath, map[string]string{"refresh": refresh}, &resp)
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.RefreshAccessToken] request failed")
	}
	if status != http.StatusOK {
		msg := apimodel.ParseErrorBody(body).FirstMessage("refresh token rejected")
		return nil, errors.Wrap(errs.ErrRefreshFailed, msg)
	}

	m.lock.Lock()
	m.current.AccessToken = resp.Access
	if resp.Refresh != "" { // rotated refresh token
		m.current.RefreshToken = resp.Refresh
	}
	sess := m.current
	m.lock.Unlock()
	m.persist(sess)

	log.Debug().Msg("access token refreshed")
	return resp.Access, nil
}

// Profile fetches the current user record and replaces the cached one
// wholesale.
func (m *Manager) Profile(ctx context.Context) (*apimodel.User, error) {
	user, err := m.fetchProfile(ctx, m.AccessToken())
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.Profile]")
	}
	m.setUser(user)
	return user, nil
}

// UpdateProfile applies a partial profile update and replaces the cached user
// record with the backend's response.
func (m *Manager) UpdateProfile(ctx context.Context, update apimodel.ProfileUpdate) (*apimodel.User, error) {
	var user apimodel.User
	status, body, err := m.doJSON(ctx, http.MethodPut, profilePath, update, &user)
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.UpdateProfile] request failed")
	}
	if status != http.StatusOK {
		return nil, &apimodel.APIError{StatusCode: status, Body: apimodel.ParseErrorBody(body)}
	}
	m.setUser(&user)
	return &user, nil
}

// RequestPasswordReset asks the backend to email a reset link.
func (m *Manager) RequestPasswordReset(ctx context.Context, email string) error {
	status, body, err := m.postJSON(ctx, passwordResetPath, map[string]string{"email": email}, nil)
	if err != nil {
		return errors.Wrap(err, "[Manager.RequestPasswordReset] request failed")
	}
	if status != http.StatusOK {
		return &apimodel.APIError{StatusCode: status, Body: apimodel.ParseErrorBody(body)}
	}
	return nil
}

// ConfirmPasswordReset completes a password reset started by
// RequestPasswordReset.
func (m *Manager) ConfirmPasswordReset(ctx context.Context, uid, token, password string) error {
	payload := map[string]string{"uid": uid, "token": token, "password": password}
	status, body, err := m.postJSON(ctx, passwordResetConfirmPath, payload, nil)
	if err != nil {
		return errors.Wrap(err, "[Manager.ConfirmPasswordReset] request failed")
	}
	if status != http.StatusOK {
		return &apimodel.APIError{StatusCode: status, Body: apimodel.ParseErrorBody(body)}
	}
	return nil
}

// TokenExpiry returns the expiry claim of the stored access token. The token
// is parsed without signature verification; the client has no signing key and
// only needs the timestamp.
func (m *Manager) TokenExpiry() (time.Time, error) {
	raw := m.AccessToken()
	if raw == "" {
		return time.Time{}, errs.ErrSessionMissing
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}, errors.Wrap(err, "[Manager.TokenExpiry] parsing access token")
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, errors.New("[Manager.TokenExpiry] token has no exp claim")
	}
	return exp.Time, nil
}

// adopt installs a fresh token pair and user record as the current session.
// When the backend omitted the user, it is fetched from the profile endpoint
// on a best-effort basis.
func (m *Manager) adopt(ctx context.Context, resp apimodel.AuthResponse) *apimodel.User {
	sess := Session{AccessToken: resp.Access, RefreshToken: resp.Refresh, User: resp.User}
	if sess.User == nil {
		user, err := m.fetchProfile(ctx, sess.AccessToken)
		if err != nil {
			log.Warn().Err(err).Msg("profile fetch after login failed")
		} else {
			sess.User = user
		}
	}

	m.lock.Lock()
	m.current = sess
	m.lock.Unlock()
	m.persist(sess)

	return sess.User
}

func (m *Manager) setUser(user *apimodel.User) {
	m.lock.Lock()
	m.current.User = user
	sess := m.current
	m.lock.Unlock()
	m.persist(sess)
}

func (m *Manager) persist(sess Session) {
	if err := m.repo.Upsert(&sess); err != nil {
		log.Error().Err(err).Msg("persisting session failed")
	}
}

func (m *Manager) fetchProfile(ctx context.Context, accessToken string) (*apimodel.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+profilePath, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	httpResp, err := m.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, &apimodel.APIError{StatusCode: httpResp.StatusCode, Body: apimodel.ParseErrorBody(body)}
	}

	var user apimodel.User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, errors.Wrap(err, "decoding user record")
	}
	return &user, nil
}

func (m *Manager) postJSON(ctx context.Context, path string, payload, out interface{}) (int, []byte, error) {
	return m.doJSON(ctx, http.MethodPost, path, payload, out)
}

// doJSON sends a JSON request to an auth endpoint and decodes a 2xx response
// into out. Authenticated auth endpoints (profile) get the current bearer
// token attached; the rest are anonymous by contract.
func (m *Manager) doJSON(ctx context.Context, method, path string, payload, out interface{}) (int, []byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, errors.Wrap(err, "encoding request body")
	}

	req, err := http.NewRequestWithContext(ctx, method, m.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return 0, nil, errors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", "application/json")
	if path == profilePath {
		req.Header.Set("Authorization", "Bearer "+m.AccessToken())
	}

	httpResp, err := m.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return httpResp.StatusCode, nil, errors.Wrap(err, "reading response body")
	}

	if out != nil && httpResp.StatusCode >= 200 && httpResp.StatusCode < 300 {
		if err := json.Unmarshal(body, out); err != nil {
			return httpResp.StatusCode, body, errors.Wrap(err, "decoding response body")
		}
	}
	return httpResp.StatusCode, body, nil
}
