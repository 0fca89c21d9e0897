package endpoints

import (
	"net/http"

	"github.com/doodlesbykumbi/nasa-in-go/pkg/server"
)

// FingerprintHeader carries the SHA-256 fingerprint of the served key
const FingerprintHeader = "X-Key-Fingerprint"

// RegisterPublicKeysEndpoints registers GET /public-key, which serves the
// token verification key so other services can check tokens offline
func RegisterPublicKeysEndpoints(s *server.Server) {
	s.Router.HandleFunc("/public-key", handleGetPublicKey(s)).Methods("GET")
}

func handleGetPublicKey(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-pem-file")
		w.Header().Set(FingerprintHeader, s.Tokens.Fingerprint())
		_, _ = w.Write(s.Tokens.PublicKeyPEM())
	}
}
