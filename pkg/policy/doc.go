// Package policy is the gateway's authorization table.
//
// Every route the server registers is looked up here by HTTP method and
// gorilla/mux path template (for example "/api/apod/{id}"). A rule says
// whether the route is public, open to any authenticated principal, or
// restricted to an any-of role set.
//
// # Rules
//
//   - Public: no credentials needed (static assets, docs, sign-in routes)
//   - Authenticated: any valid principal; the default for unlisted routes
//   - Restricted: the principal must hold at least one listed role
//
// ROLE_ADMIN is listed explicitly on every route that ROLE_EMPLOYEE may use,
// so no role hierarchy is needed at evaluation time.
//
// # Usage
//
//	p := policy.Default()
//	switch p.Evaluate("DELETE", "/api/apod/{id}", id.Roles, true) {
//	case policy.Allow:
//	case policy.Unauthenticated:
//	case policy.Forbidden:
//	}
package policy
