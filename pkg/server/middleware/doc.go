// Package middleware holds the HTTP middleware of the gateway: request ids,
// request logging, trusted proxy handling and the authentication and
// authorization gate.
package middleware
