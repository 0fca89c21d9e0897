// Package identity carries the authenticated principal through a request.
//
// Every principal-resolution strategy (HTTP Basic, bearer token, session
// cookie) produces the same Identity, so the authorization policy and the
// handlers never need to know how the caller signed in.
//
// # Basic Usage
//
//	// Build an identity from validated token claims
//	id := identity.FromClaims(claims, identity.MethodBearer)
//
//	// Add request context
//	id.WithRemoteIP(clientIP)
//
//	// Store in request context
//	ctx = identity.Set(ctx, id)
//
//	// Retrieve from context
//	id, ok := identity.Get(ctx)
package identity
