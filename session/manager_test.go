package session_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/Hernannavarro13/psystock-go/apimodel"
	errs "github.com/Hernannavarro13/psystock-go/internal/errors"
	"github.com/Hernannavarro13/psystock-go/session"
	"github.com/Hernannavarro13/psystock-go/session/repofake"
)

const (
	testAccessToken  = "T1"
	testRefreshToken = "R1"
	testUsername     = "a"
	testPassword     = "x"
)

type testFixture struct {
	repo    *repofake.FakeSessionRepo
	server  *httptest.Server
	manager *session.Manager

	requests int64 // total requests seen by the backend
}

func setupTestFixture(t *testing.T, handler http.Handler) *testFixture {
	t.Helper()

	f := &testFixture{repo: repofake.NewFakeSessionRepo()}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&f.requests, 1)
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(f.server.Close)

	manager, err := session.NewManager(f.repo, f.server.URL)
	require.NoError(t, err)
	f.manager = manager
	return f
}

func authHandler(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/token/", func(w http.ResponseWriter, r *http.Request) {
		var creds session.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds.Username != testUsername || creds.Password != testPassword {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"No active account found with the given credentials"}`))
			return
		}
		w.Write([]byte(`{"access":"T1","refresh":"R1","user":{"id":1,"username":"a"}}`))
	})
	mux.HandleFunc("/api/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["refresh"] != testRefreshToken {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"Token is invalid or expired"}`))
			return
		}
		w.Write([]byte(`{"access":"T2"}`))
	})
	return mux
}

func (f *testFixture) login(t *testing.T) *apimodel.User {
	t.Helper()
	user, err := f.manager.Login(context.Background(), session.Credentials{
		Username: testUsername,
		Password: testPassword,
	})
	require.NoError(t, err)
	return user
}

func TestLoginStoresTokensAndUser(t *testing.T) {
	f := setupTestFixture(t, authHandler(t))

	user := f.login(t)
	require.NotNil(t, user)
	require.Equal(t, int64(1), user.ID)
	require.Equal(t, "a", user.Username)

	sess := f.manager.Current()
	require.Equal(t, testAccessToken, sess.AccessToken)
	require.Equal(t, testRefreshToken, sess.RefreshToken)
	require.True(t, f.manager.IsAuthenticated())

	stored, err := f.repo.Get()
	require.NoError(t, err)
	require.Equal(t, testAccessToken, stored.AccessToken)
}

func TestLoginFailureLeavesStoreUnchanged(t *testing.T) {
	f := setupTestFixture(t, authHandler(t))

	_, err := f.manager.Login(context.Background(), session.Credentials{
		Username: testUsername,
		Password: "wrong",
	})
	require.ErrorIs(t, err, errs.ErrInvalidCredentials)
	require.Contains(t, err.Error(), "No active account found")

	require.False(t, f.manager.IsAuthenticated())
	_, repoErr := f.repo.Get()
	require.ErrorIs(t, repoErr, errs.ErrSessionMissing)
}

func TestRegisterErrorExtractionPriority(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{
			name:    "username beats email and detail",
			body:    `{"username":["username taken"],"email":["email taken"],"detail":"bad"}`,
			wantMsg: "username taken",
		},
		{
			name:    "email beats detail",
			body:    `{"email":["enter a valid email"],"detail":"bad"}`,
			wantMsg: "enter a valid email",
		},
		{
			name:    "detail as fallback field",
			body:    `{"detail":"registration closed"}`,
			wantMsg: "registration closed",
		},
		{
			name:    "generic fallback for unrecognized body",
			body:    `{"weird":"shape"}`,
			wantMsg: "registration failed",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := setupTestFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(tc.body))
			}))

			_, err := f.manager.Register(context.Background(), apimodel.Registration{Username: "a"})
			require.ErrorIs(t, err, errs.ErrValidationFailed)
			require.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestRegisterSuccessLogsIn(t *testing.T) {
	f := setupTestFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"access":"T1","refresh":"R1","user":{"id":2,"username":"b"}}`))
	}))

	user, err := f.manager.Register(context.Background(), apimodel.Registration{Username: "b"})
	require.NoError(t, err)
	require.Equal(t, "b", user.Username)
	require.True(t, f.manager.IsAuthenticated())
}

func TestLogoutClearsEverythingAndIsIdempotent(t *testing.T) {
	f := setupTestFixture(t, authHandler(t))
	f.login(t)
	require.True(t, f.manager.IsAuthenticated())

	f.manager.Logout()
	require.False(t, f.manager.IsAuthenticated())
	sess := f.manager.Current()
	require.Empty(t, sess.AccessToken)
	require.Empty(t, sess.RefreshToken)
	require.Nil(t, sess.User)

	// Safe to call when already logged out.
	f.manager.Logout()
	require.False(t, f.manager.IsAuthenticated())
}

func TestIsAuthenticatedIsLocal(t *testing.T) {
	f := setupTestFixture(t, authHandler(t))
	f.login(t)
	before := atomic.LoadInt64(&f.requests)

	require.True(t, f.manager.IsAuthenticated())
	_ = f.manager.Current()
	f.manager.Logout()
	require.False(t, f.manager.IsAuthenticated())

	require.Equal(t, before, atomic.LoadInt64(&f.requests), "local reads must not hit the network")
}

func TestRefreshAccessToken(t *testing.T) {
	f := setupTestFixture(t, authHandler(t))
	f.login(t)

	token, err := f.manager.RefreshAccessToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, "T2", token)
	require.Equal(t, "T2", f.manager.AccessToken())
	require.Equal(t, testRefreshToken, f.manager.Current().RefreshToken, "refresh token kept when not rotated")

	stored, err := f.repo.Get()
	require.NoError(t, err)
	require.Equal(t, "T2", stored.AccessToken)
}

func TestRefreshWithoutRefreshTokenFails(t *testing.T) {
	f := setupTestFixture(t, authHandler(t))

	_, err := f.manager.RefreshAccessToken(context.Background())
	require.ErrorIs(t, err, errs.ErrRefreshFailed)
	require.Zero(t, atomic.LoadInt64(&f.requests), "no network call without a refresh token")
}

func TestRefreshRejectedByBackend(t *testing.T) {
	f := setupTestFixture(t, authHandler(t))
	require.NoError(t, f.repo.Upsert(&session.Session{AccessToken: "stale", RefreshToken: "expired"}))

	manager, err := session.NewManager(f.repo, f.server.URL)
	require.NoError(t, err)

	_, err = manager.RefreshAccessToken(context.Background())
	require.ErrorIs(t, err, errs.ErrRefreshFailed)
	require.Contains(t, err.Error(), "Token is invalid or expired")
}

func TestConcurrentRefreshCoalesced(t *testing.T) {
	var refreshCalls int64
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&refreshCalls, 1)
		time.Sleep(50 * time.Millisecond)
		w.Write([]byte(`{"access":"T2"}`))
	})
	f := setupTestFixture(t, mux)
	require.NoError(t, f.repo.Upsert(&session.Session{AccessToken: "T1", RefreshToken: "R1"}))

	manager, err := session.NewManager(f.repo, f.server.URL)
	require.NoError(t, err)

	const workers = 8
	type result struct {
		token string
		err   error
	}
	results := make(chan result, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token, err := manager.RefreshAccessToken(context.Background())
			results <- result{token: token, err: err}
		}()
	}
	wg.Wait()
	close(results)

	for res := range results {
		require.NoError(t, res.err)
		require.Equal(t, "T2", res.token)
	}

	require.Equal(t, int64(1), atomic.LoadInt64(&refreshCalls))
}

func TestProfileReplacesCachedUser(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/profile/", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer T1", r.Header.Get("Authorization"))
		w.Write([]byte(`{"id":1,"username":"a","email":"a@b.com"}`))
	})
	f := setupTestFixture(t, mux)
	require.NoError(t, f.repo.Upsert(&session.Session{
		AccessToken:  "T1",
		RefreshToken: "R1",
		User:         &apimodel.User{ID: 1, Username: "stale"},
	}))

	manager, err := session.NewManager(f.repo, f.server.URL)
	require.NoError(t, err)

	user, err := manager.Profile(context.Background())
	require.NoError(t, err)
	require.Equal(t, "a@b.com", user.Email)
	require.Equal(t, "a@b.com", manager.Current().User.Email)
}

func signedToken(t *testing.T, expiry time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1,
		"exp":     expiry.Unix(),
	})
	signed, err := token.SignedString([]byte("test-signing-key"))
	require.NoError(t, err)
	return signed
}

func TestTokenExpiryReadFromClaims(t *testing.T) {
	f := setupTestFixture(t, authHandler(t))
	expiry := time.Now().Add(5 * time.Minute).Truncate(time.Second)
	require.NoError(t, f.repo.Upsert(&session.Session{AccessToken: signedToken(t, expiry), RefreshToken: "R1"}))

	manager, err := session.NewManager(f.repo, f.server.URL)
	require.NoError(t, err)

	got, err := manager.TokenExpiry()
	require.NoError(t, err)
	require.True(t, got.Equal(expiry))
}

func TestTokenSourceRefreshesExpiredToken(t *testing.T) {
	f := setupTestFixture(t, authHandler(t))
	expired := signedToken(t, time.Now().Add(-time.Minute))
	require.NoError(t, f.repo.Upsert(&session.Session{AccessToken: expired, RefreshToken: testRefreshToken}))

	manager, err := session.NewManager(f.repo, f.server.URL)
	require.NoError(t, err)

	token, err := manager.TokenSource(context.Background()).Token()
	require.NoError(t, err)
	require.Equal(t, "T2", token.AccessToken)
	require.Equal(t, "Bearer", token.TokenType)
}

func TestTokenSourceWithoutSession(t *testing.T) {
	f := setupTestFixture(t, authHandler(t))

	_, err := f.manager.TokenSource(context.Background()).Token()
	require.ErrorIs(t, err, errs.ErrSessionMissing)
}
