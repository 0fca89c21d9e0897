package endpoints

import (
	"net/http"
	"time"

	"github.com/doodlesbykumbi/nasa-in-go/pkg/identity"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/server"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/server/apierror"
)

// WhoamiResponse represents the response from the /whoami endpoint
type WhoamiResponse struct {
	Subject   string     `json:"subject"`
	Roles     []string   `json:"roles"`
	Method    string     `json:"method"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// RegisterWhoamiEndpoint registers the /whoami endpoint
func RegisterWhoamiEndpoint(s *server.Server) {
	s.Router.HandleFunc("/whoami", handleWhoami()).Methods("GET")
}

func handleWhoami() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok || id.Subject == "" {
			apierror.Unauthorized(w)
			return
		}

		response := WhoamiResponse{
			Subject: id.Subject,
			Roles:   id.Roles,
			Method:  string(id.Method),
		}
		if response.Roles == nil {
			response.Roles = []string{}
		}
		if !id.ExpiresAt.IsZero() {
			expires := id.ExpiresAt.UTC()
			response.ExpiresAt = &expires
		}
		respondWithJSON(w, http.StatusOK, response)
	}
}
