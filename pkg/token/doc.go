// Package token issues and validates the gateway's bearer tokens.
//
// Tokens are RS256 JWTs signed with an RSA key that is generated when the
// Service is created and never written anywhere. Restarting the process
// therefore invalidates every token issued before the restart.
//
// # Claims
//
//   - iss: fixed issuer, "self" by default
//   - iat: issue time
//   - exp: iat plus the TTL, 30 minutes by default
//   - sub: principal id
//   - scope: space-separated role list, e.g. "ROLE_EMPLOYEE ROLE_ADMIN"
//   - jti: random id
//
// # Usage
//
//	svc, err := token.New()
//	signed, err := svc.Issue("susan", []string{"ROLE_EMPLOYEE"})
//	claims, err := svc.Validate(signed)
//
// There is no refresh and no revocation: a token is valid until it expires
// or the process restarts.
package token
