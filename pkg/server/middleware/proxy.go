package middleware

import (
	"net"
	"net/http"

	"github.com/gorilla/handlers"
)

// TrustedProxyHeaders applies X-Forwarded-For, X-Real-IP and
// X-Forwarded-Proto only for requests arriving from a trusted proxy.
// Forwarding headers from any other peer are ignored.
func TrustedProxyHeaders(isTrusted func(ip string) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		proxied := handlers.ProxyHeaders(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}
			if isTrusted != nil && isTrusted(host) {
				proxied.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
