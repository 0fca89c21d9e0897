package endpoints

import (
	"context"
	"net/http"
	"time"

	"github.com/doodlesbykumbi/nasa-in-go/pkg/server"
)

// StatusResponse is the body of GET /
type StatusResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Database string `json:"database"`
}

const statusCheckTimeout = 2 * time.Second

// RegisterStatusEndpoints registers the status and metrics endpoints
func RegisterStatusEndpoints(s *server.Server) {
	s.Router.HandleFunc("/", handleStatus(s)).Methods("GET")
	s.Router.Handle("/metrics", s.Metrics.Handler()).Methods("GET")
}

func handleStatus(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), statusCheckTimeout)
		defer cancel()

		response := StatusResponse{Status: "ok", Version: s.Version, Database: "ok"}
		code := http.StatusOK
		if err := s.HealthStore.CheckConnectivity(ctx); err != nil {
			s.Logger.WithError(err).Warn("database connectivity check failed")
			response.Status = "error"
			response.Database = "error"
			code = http.StatusServiceUnavailable
		}
		respondWithJSON(w, code, response)
	}
}
