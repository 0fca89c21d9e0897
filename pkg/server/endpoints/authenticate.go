package endpoints

import (
	"errors"
	"net/http"

	"github.com/doodlesbykumbi/nasa-in-go/pkg/audit"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/authenticator"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/authenticator/authn"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/identity"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/server"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/server/apierror"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/server/middleware"
)

const basicRealm = `Basic realm="nasa"`

// TokenResponse is the body of POST /authenticate
type TokenResponse struct {
	Token string `json:"token"`
}

// RegisterAuthenticateEndpoint registers the token exchange endpoints.
// Both take HTTP Basic credentials.
func RegisterAuthenticateEndpoint(s *server.Server) {
	s.Router.HandleFunc("/authenticate", handleAuthenticate(s, false)).Methods("POST")
	s.Router.HandleFunc("/get-token", handleAuthenticate(s, true)).Methods("GET")
}

func handleAuthenticate(s *server.Server, plain bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := checkBasic(s, w, r)
		if !ok {
			return
		}

		signed, err := s.Tokens.Issue(id.Subject, id.Roles)
		if err != nil {
			s.Logger.WithError(err).Error("failed to issue token")
			apierror.WriteStatus(w, http.StatusInternalServerError, "Failed to issue token")
			return
		}

		if plain {
			respondWithText(w, http.StatusOK, signed)
			return
		}
		respondWithJSON(w, http.StatusOK, TokenResponse{Token: signed})
	}
}

// checkBasic runs the password strategy against the request and answers
// the request itself when it fails
func checkBasic(s *server.Server, w http.ResponseWriter, r *http.Request) (*identity.Identity, bool) {
	user, _, _ := r.BasicAuth()
	id, err := s.Passwords.Authenticate(r.Context(), r)

	event := audit.AuthenticateEvent{
		User:     user,
		ClientIP: middleware.ClientIP(r).String(),
		Method:   authn.Name,
		Success:  err == nil,
	}
	if err != nil {
		event.ErrorMessage = err.Error()
	}
	if !errors.Is(err, authenticator.ErrNoCredentials) {
		s.Audit.Log(event)
	}

	switch {
	case err == nil:
		s.Metrics.ObserveAuthentication(authn.Name, "success")
		return id, true
	case errors.Is(err, authenticator.ErrNoCredentials), errors.Is(err, authenticator.ErrInvalidCredentials):
		s.Metrics.ObserveAuthentication(authn.Name, "failure")
		w.Header().Set("WWW-Authenticate", basicRealm)
		apierror.Unauthorized(w)
	default:
		s.Logger.WithError(err).Error("credential check failed")
		apierror.WriteStatus(w, http.StatusInternalServerError, "Authentication is unavailable")
	}
	return nil, false
}
