package authn_bearer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/nasa-in-go/pkg/authenticator"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/identity"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/token"
)

var (
	keyOnce sync.Once
	testKey *token.Key
)

func newService(t *testing.T, now func() time.Time) *token.Service {
	t.Helper()
	keyOnce.Do(func() {
		var err error
		testKey, err = token.GenerateKey()
		require.NoError(t, err)
	})
	svc, err := token.New(token.WithKey(testKey), token.WithClock(now))
	require.NoError(t, err)
	return svc
}

func TestBearer_Authenticate(t *testing.T) {
	svc := newService(t, time.Now)
	raw, err := svc.Issue("alice", []string{"ROLE_ADMIN", "employee"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "bearer "+raw)

	id, err := NewBearer(svc).Authenticate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "alice", id.Subject)
	assert.Equal(t, identity.MethodBearer, id.Method)
	assert.Equal(t, []string{"ROLE_ADMIN", "ROLE_EMPLOYEE"}, id.Roles)
	assert.False(t, id.ExpiresAt.IsZero())
}

func TestBearer_NoCredentials(t *testing.T) {
	svc := newService(t, time.Now)
	for _, header := range []string{"", "Basic YWxpY2U6cHc=", "Bearer", "Bearer   "} {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		_, err := NewBearer(svc).Authenticate(context.Background(), req)
		assert.ErrorIs(t, err, authenticator.ErrNoCredentials, "header %q", header)
	}
}

func TestBearer_Rejected(t *testing.T) {
	issuedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	now := issuedAt
	svc := newService(t, func() time.Time { return now })
	raw, err := svc.Issue("alice", []string{"ROLE_EMPLOYEE"})
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		now = issuedAt.Add(token.DefaultTTL)
		t.Cleanup(func() { now = issuedAt })

		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+raw)

		_, err := NewBearer(svc).Authenticate(context.Background(), req)
		assert.ErrorIs(t, err, authenticator.ErrInvalidCredentials)
		assert.ErrorIs(t, err, token.ErrTokenExpired)
	})

	t.Run("tampered", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+raw+"x")

		_, err := NewBearer(svc).Authenticate(context.Background(), req)
		assert.ErrorIs(t, err, authenticator.ErrInvalidCredentials)
		assert.ErrorIs(t, err, token.ErrInvalidToken)
	})
}

func TestSession_Authenticate(t *testing.T) {
	svc := newService(t, time.Now)
	raw, err := svc.Issue("bob", []string{"ROLE_EMPLOYEE"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/nasa/home-page", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: raw})

	id, err := NewSession(svc).Authenticate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "bob", id.Subject)
	assert.Equal(t, identity.MethodSession, id.Method)
}

func TestSession_NoCookie(t *testing.T) {
	svc := newService(t, time.Now)
	req := httptest.NewRequest(http.MethodGet, "/nasa/home-page", nil)

	_, err := NewSession(svc).Authenticate(context.Background(), req)
	assert.ErrorIs(t, err, authenticator.ErrNoCredentials)
}

func TestSession_BadCookie(t *testing.T) {
	svc := newService(t, time.Now)
	req := httptest.NewRequest(http.MethodGet, "/nasa/home-page", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "not-a-token"})

	_, err := NewSession(svc).Authenticate(context.Background(), req)
	assert.ErrorIs(t, err, authenticator.ErrInvalidCredentials)
}

func TestNames(t *testing.T) {
	assert.Equal(t, "bearer", NewBearer(nil).Name())
	assert.Equal(t, "session", NewSession(nil).Name())
}
