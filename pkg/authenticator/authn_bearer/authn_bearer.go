package authn_bearer

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/doodlesbykumbi/nasa-in-go/pkg/authenticator"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/identity"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/policy"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/token"
)

const (
	// BearerName is the strategy name for Authorization: Bearer tokens
	BearerName = "bearer"
	// SessionName is the strategy name for the session cookie
	SessionName = "session"
	// SessionCookie carries the token of a browser session
	SessionCookie = "NASA_SESSION"
)

// Validator checks a raw token. *token.Service satisfies it.
type Validator interface {
	Validate(raw string) (*token.Claims, error)
}

// Bearer resolves the principal from an Authorization: Bearer header
type Bearer struct {
	tokens Validator
}

// NewBearer creates the header token strategy
func NewBearer(tokens Validator) *Bearer {
	return &Bearer{tokens: tokens}
}

// Name returns the authenticator name
func (a *Bearer) Name() string {
	return BearerName
}

// Authenticate validates the bearer token of r
func (a *Bearer) Authenticate(ctx context.Context, r *http.Request) (*identity.Identity, error) {
	raw, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		return nil, authenticator.ErrNoCredentials
	}
	return resolve(a.tokens, raw, identity.MethodBearer)
}

// Session resolves the principal from the session cookie set at login
type Session struct {
	tokens Validator
}

// NewSession creates the cookie token strategy
func NewSession(tokens Validator) *Session {
	return &Session{tokens: tokens}
}

// Name returns the authenticator name
func (a *Session) Name() string {
	return SessionName
}

// Authenticate validates the session cookie of r
func (a *Session) Authenticate(ctx context.Context, r *http.Request) (*identity.Identity, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return nil, authenticator.ErrNoCredentials
	}
	return resolve(a.tokens, cookie.Value, identity.MethodSession)
}

func resolve(tokens Validator, raw string, method identity.Method) (*identity.Identity, error) {
	claims, err := tokens.Validate(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", authenticator.ErrInvalidCredentials, err)
	}

	id := identity.FromClaims(claims, method)
	id.Roles = policy.NormalizeRoles(id.Roles)
	return id, nil
}

// bearerToken extracts the token from an Authorization header value.
// The scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, raw, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}
