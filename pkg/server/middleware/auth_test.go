package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/nasa-in-go/pkg/audit"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/authenticator"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/identity"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/logging"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/policy"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/server/apierror"
)

// headerAuthenticator maps the X-Test-User header to a fixed identity
type headerAuthenticator struct {
	users map[string][]string
}

func (a *headerAuthenticator) Name() string { return "bearer" }

func (a *headerAuthenticator) Authenticate(ctx context.Context, r *http.Request) (*identity.Identity, error) {
	user := r.Header.Get("X-Test-User")
	if user == "" {
		return nil, authenticator.ErrNoCredentials
	}
	roles, ok := a.users[user]
	if !ok {
		return nil, authenticator.ErrInvalidCredentials
	}
	return identity.New(user, roles, identity.MethodBearer), nil
}

type countingRecorder struct {
	outcomes map[string]int
}

func (c *countingRecorder) ObserveAuthentication(method, outcome string) {
	c.outcomes[method+"/"+outcome]++
}

func newGatedRouter(auditBuf *bytes.Buffer) (*mux.Router, *countingRecorder) {
	auditLogger := audit.NewLogger()
	auditLogger.SetWriter(auditBuf)
	recorder := &countingRecorder{outcomes: map[string]int{}}

	gate := &Gate{
		Authenticators: authenticator.NewRegistry(&headerAuthenticator{users: map[string][]string{
			"emma":  {policy.RoleEmployee},
			"alice": {policy.RoleAdmin},
		}}),
		Policy:   policy.Default(),
		Audit:    auditLogger,
		Recorder: recorder,
		Logger:   logging.Discard(),
	}

	ok := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(identity.Subject(r.Context())))
	}
	router := mux.NewRouter()
	router.Use(gate.Middleware)
	router.HandleFunc("/api/apod/{id}", ok).Methods(http.MethodGet, http.MethodDelete, http.MethodPut)
	router.HandleFunc("/nasa/list-apods", ok).Methods(http.MethodGet)
	router.HandleFunc("/nasa/home-page", ok).Methods(http.MethodGet)
	router.HandleFunc("/public-key", ok).Methods(http.MethodGet)
	return router, recorder
}

func serve(router http.Handler, method, path, user string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGate_APIClass(t *testing.T) {
	var auditBuf bytes.Buffer
	router, recorder := newGatedRouter(&auditBuf)

	tests := []struct {
		name   string
		method string
		path   string
		user   string
		want   int
	}{
		{"employee reads", http.MethodGet, "/api/apod/1", "emma", http.StatusOK},
		{"admin reads", http.MethodGet, "/api/apod/1", "alice", http.StatusOK},
		{"employee cannot delete", http.MethodDelete, "/api/apod/1", "emma", http.StatusForbidden},
		{"employee cannot update missing id", http.MethodPut, "/api/apod/99999", "emma", http.StatusForbidden},
		{"admin deletes", http.MethodDelete, "/api/apod/1", "alice", http.StatusOK},
		{"anonymous", http.MethodGet, "/api/apod/1", "", http.StatusUnauthorized},
		{"unknown user", http.MethodGet, "/api/apod/1", "mallory", http.StatusUnauthorized},
		{"public route", http.MethodGet, "/public-key", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, tt.method, tt.path, tt.user)
			assert.Equal(t, tt.want, w.Code)

			if tt.want == http.StatusUnauthorized || tt.want == http.StatusForbidden {
				var record apierror.Record
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
				assert.Equal(t, tt.want, record.Status)
			}
		})
	}

	assert.Equal(t, 1, recorder.outcomes["bearer/failure"])
	assert.Contains(t, auditBuf.String(), "emma denied DELETE /api/apod/{id}: forbidden")
}

func TestGate_IdentityInContext(t *testing.T) {
	router, _ := newGatedRouter(&bytes.Buffer{})

	w := serve(router, http.MethodGet, "/api/apod/1", "alice")
	assert.Equal(t, "alice", w.Body.String())
}

func TestGate_WebClassRedirects(t *testing.T) {
	router, _ := newGatedRouter(&bytes.Buffer{})

	w := serve(router, http.MethodGet, "/nasa/home-page", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, LoginPath, w.Header().Get("Location"))

	w = serve(router, http.MethodGet, "/nasa/list-apods", "emma")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, AccessDeniedPath, w.Header().Get("Location"))

	w = serve(router, http.MethodGet, "/nasa/list-apods", "alice")
	assert.Equal(t, http.StatusOK, w.Code)
}
