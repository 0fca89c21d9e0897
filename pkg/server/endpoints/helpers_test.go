package endpoints

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/doodlesbykumbi/nasa-in-go/pkg/audit"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/config"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/logging"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/model"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/policy"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/server"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/server/store"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/token"
)

const testPassword = "correct horse"

var (
	keyOnce sync.Once
	testKey *token.Key
	keyErr  error

	hashOnce sync.Once
	testHash string
)

// sharedKey generates one signing key for the whole package
func sharedKey(t *testing.T) *token.Key {
	t.Helper()
	keyOnce.Do(func() {
		testKey, keyErr = token.GenerateKey()
	})
	require.NoError(t, keyErr)
	return testKey
}

func passwordHash(t *testing.T) string {
	t.Helper()
	hashOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
		require.NoError(t, err)
		testHash = "{bcrypt}" + string(hash)
	})
	return testHash
}

// testServer is a fully routed server over mocked stores and upstream
type testServer struct {
	*server.Server
	handler  http.Handler
	apods    *MockApodStore
	members  *MockMemberStore
	health   *MockHealthStore
	upstream *MockUpstream
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	tokens, err := token.New(token.WithKey(sharedKey(t)))
	require.NoError(t, err)

	ts := &testServer{
		apods:    &MockApodStore{},
		members:  &MockMemberStore{},
		health:   &MockHealthStore{},
		upstream: &MockUpstream{},
	}
	s, err := server.NewServer(server.Options{
		Config:      &config.NasaConfig{Port: 8080},
		Logger:      logging.Discard(),
		Version:     "test",
		ApodStore:   ts.apods,
		MemberStore: ts.members,
		HealthStore: ts.health,
		Upstream:    ts.upstream,
		Tokens:      tokens,
		Audit:       audit.Discard(),
	})
	require.NoError(t, err)
	RegisterAll(s)

	ts.Server = s
	ts.handler = s.Handler()

	// Members known to every test
	for user, roles := range map[string][]string{
		"alice": {policy.RoleAdmin},
		"emma":  {policy.RoleEmployee},
	} {
		m := &model.Member{UserID: user, Pw: passwordHash(t), Active: true}
		for _, role := range roles {
			m.Roles = append(m.Roles, model.MemberRole{UserID: user, Role: role})
		}
		ts.members.On("FindMember", mock.Anything, user).Return(m, nil).Maybe()
	}
	ts.members.On("FindMember", mock.Anything, mock.Anything).Return(nil, store.ErrMemberNotFound).Maybe()

	t.Cleanup(func() {
		ts.apods.AssertExpectations(t)
		ts.upstream.AssertExpectations(t)
	})
	return ts
}

// bearer issues a token for user with roles
func (ts *testServer) bearer(t *testing.T, user string, roles ...string) string {
	t.Helper()
	signed, err := ts.Tokens.Issue(user, roles)
	require.NoError(t, err)
	return "Bearer " + signed
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	return w
}

// as sends a request authorized as an admin, an employee or nobody
func (ts *testServer) as(t *testing.T, role, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	switch role {
	case policy.RoleAdmin:
		req.Header.Set("Authorization", ts.bearer(t, "alice", policy.RoleAdmin))
	case policy.RoleEmployee:
		req.Header.Set("Authorization", ts.bearer(t, "emma", policy.RoleEmployee))
	}
	return ts.do(req)
}

func formRequest(method, target string, form string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func sampleApod(id int64) *model.Apod {
	return &model.Apod{
		ID:          id,
		Date:        "2024-03-01",
		Title:       "The Horsehead Nebula",
		Explanation: "A dark nebula in Orion.",
		URL:         "https://apod.nasa.gov/apod/image/horsehead.jpg",
		Copyright:   "Jane Doe",
		MediaType:   "image",
	}
}
