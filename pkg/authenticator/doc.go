// Package authenticator defines how a request's principal is resolved.
//
// Each strategy implements the Authenticator interface:
//
//	type Authenticator interface {
//	    Name() string
//	    Authenticate(ctx context.Context, r *http.Request) (*identity.Identity, error)
//	}
//
// # Built-in Strategies
//
//   - basic: HTTP Basic credentials checked against stored members, see
//     [github.com/doodlesbykumbi/nasa-in-go/pkg/authenticator/authn]
//   - bearer and session: tokens from the token service, carried in the
//     Authorization header or the NASA_SESSION cookie, see
//     [github.com/doodlesbykumbi/nasa-in-go/pkg/authenticator/authn_bearer]
//
// A Registry tries the strategies in order and stops at the first one that
// finds credentials. Every strategy produces the same Identity, so the
// access policy is evaluated once regardless of how the caller signed in.
package authenticator
