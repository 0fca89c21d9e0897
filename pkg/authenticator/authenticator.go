package authenticator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/doodlesbykumbi/nasa-in-go/pkg/identity"
)

var (
	// ErrNoCredentials means the request carries nothing this strategy
	// understands. The next strategy is tried.
	ErrNoCredentials = errors.New("no credentials")

	// ErrInvalidCredentials means credentials were presented and rejected.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Authenticator resolves the principal of a request
type Authenticator interface {
	// Name returns the strategy name (e.g., "basic", "bearer", "session")
	Name() string

	// Authenticate inspects the request and returns the caller identity.
	// Returns ErrNoCredentials when the request has no credentials for
	// this strategy.
	Authenticate(ctx context.Context, r *http.Request) (*identity.Identity, error)
}

// Error reports which strategy rejected a request
type Error struct {
	Strategy string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Strategy, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Registry holds the strategies in resolution order
type Registry struct {
	mu             sync.RWMutex
	authenticators []Authenticator
}

// NewRegistry creates a registry trying the given strategies in order
func NewRegistry(auths ...Authenticator) *Registry {
	r := &Registry{}
	for _, auth := range auths {
		r.Register(auth)
	}
	return r
}

// Register appends a strategy, replacing any registered under the same name
func (r *Registry) Register(auth Authenticator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.authenticators {
		if existing.Name() == auth.Name() {
			r.authenticators[i] = auth
			return
		}
	}
	r.authenticators = append(r.authenticators, auth)
}

// Get returns a strategy by name
func (r *Registry) Get(name string) (Authenticator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, auth := range r.authenticators {
		if auth.Name() == name {
			return auth, true
		}
	}
	return nil, false
}

// Installed returns strategy names in resolution order
func (r *Registry) Installed() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.authenticators))
	for _, auth := range r.authenticators {
		names = append(names, auth.Name())
	}
	return names
}

// Resolve runs the strategies in order. The first one that finds
// credentials decides the outcome, so a bad bearer token is not retried as
// a session cookie. Returns ErrNoCredentials when no strategy applies.
func (r *Registry) Resolve(ctx context.Context, req *http.Request) (*identity.Identity, error) {
	r.mu.RLock()
	auths := make([]Authenticator, len(r.authenticators))
	copy(auths, r.authenticators)
	r.mu.RUnlock()

	for _, auth := range auths {
		id, err := auth.Authenticate(ctx, req)
		if errors.Is(err, ErrNoCredentials) {
			continue
		}
		if err != nil {
			return nil, &Error{Strategy: auth.Name(), Err: err}
		}
		return id, nil
	}
	return nil, ErrNoCredentials
}
