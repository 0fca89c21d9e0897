package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/doodlesbykumbi/nasa-in-go/pkg/audit"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/identity"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/server"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/server/middleware"
)

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

func respondWithText(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(body))
}

// parseApodID parses a path or form id. The error text is reported to the
// caller as is.
func parseApodID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("Invalid Apod Id: %q is not an integer", raw)
	}
	return id, nil
}

// auditApod records a change to the stored pictures
func auditApod(s *server.Server, r *http.Request, event audit.ApodEvent, err error) {
	clientIP := middleware.ClientIP(r)
	if id, ok := identity.Get(r.Context()); ok {
		event.User = id.Subject
		if id.RemoteIP != nil {
			clientIP = id.RemoteIP
		}
	}
	event.ClientIP = clientIP.String()
	event.Success = err == nil
	if err != nil {
		event.ErrorMessage = err.Error()
	}
	s.Audit.Log(event)
}

// pathUnescape decodes a path variable. The router keeps paths encoded so
// that values containing "/" still match a single segment.
func pathUnescape(raw string) (string, error) {
	v, err := url.PathUnescape(raw)
	if err != nil {
		return "", fmt.Errorf("Invalid path value %q", raw)
	}
	return v, nil
}
