package identity

import (
	"context"
	"net"
	"time"

	"github.com/doodlesbykumbi/nasa-in-go/pkg/token"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Identity.
	Key ContextKey = "identity"
)

// Method names the strategy that resolved an identity.
type Method string

const (
	MethodBasic   Method = "basic"
	MethodBearer  Method = "bearer"
	MethodSession Method = "session"
)

// Identity represents the authenticated principal for a request.
type Identity struct {
	Subject string
	Roles   []string
	Method  Method

	// Zero for identities that were not resolved from a token.
	IssuedAt  time.Time
	ExpiresAt time.Time

	RemoteIP net.IP
}

// New creates an Identity for a principal whose credentials were checked
// directly.
func New(subject string, roles []string, method Method) *Identity {
	return &Identity{
		Subject: subject,
		Roles:   roles,
		Method:  method,
	}
}

// FromClaims creates an Identity from validated token claims.
func FromClaims(claims *token.Claims, method Method) *Identity {
	id := New(claims.Subject, claims.Roles(), method)
	if claims.IssuedAt != nil {
		id.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id
}

// WithRemoteIP sets the remote IP address.
func (i *Identity) WithRemoteIP(ip net.IP) *Identity {
	i.RemoteIP = ip
	return i
}

// Get retrieves Identity from context.
func Get(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(Key).(*Identity)
	return id, ok
}

// Set stores Identity in context.
func Set(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, Key, id)
}

// Subject returns the subject of the identity in ctx, or "" when the request
// is anonymous.
func Subject(ctx context.Context) string {
	if id, ok := Get(ctx); ok {
		return id.Subject
	}
	return ""
}
