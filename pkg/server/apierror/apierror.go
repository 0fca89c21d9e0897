package apierror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/doodlesbykumbi/nasa-in-go/pkg/nasa"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/server/store"
)

// Messages for the authorization failures
const (
	MessageUnauthorized = "Full authentication is required to access this resource"
	MessageForbidden    = "Access Denied"
)

// Record is the JSON body of every failed API request
type Record struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// NotFoundError reports a missing record with a caller-facing message
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// NotFound builds a NotFoundError from a format string
func NotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// StatusError carries an explicit status
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return e.Message
}

// WithStatus builds an error reported with status code
func WithStatus(code int, message string) *StatusError {
	return &StatusError{Code: code, Message: message}
}

// now is replaced in tests
var now = time.Now

// NewRecord stamps a record with the current time in epoch milliseconds
func NewRecord(status int, message string) Record {
	return Record{
		Status:    status,
		Message:   message,
		Timestamp: now().UnixMilli(),
	}
}

// Status maps an error to the HTTP status it is reported with
func Status(err error) int {
	var notFound *NotFoundError
	var upstream *nasa.UpstreamError
	var explicit *StatusError
	switch {
	case errors.As(err, &explicit):
		return explicit.Code
	case errors.As(err, &notFound), errors.Is(err, store.ErrApodNotFound):
		return http.StatusNotFound
	case errors.As(err, &upstream):
		return upstream.HTTPStatus()
	default:
		return http.StatusBadRequest
	}
}

// Write reports err as an error record. The message is passed through
// verbatim.
func Write(w http.ResponseWriter, err error) {
	WriteStatus(w, Status(err), err.Error())
}

// WriteStatus writes a record with an explicit status
func WriteStatus(w http.ResponseWriter, status int, message string) {
	body, _ := json.Marshal(NewRecord(status, message))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// Unauthorized writes the 401 record
func Unauthorized(w http.ResponseWriter) {
	WriteStatus(w, http.StatusUnauthorized, MessageUnauthorized)
}

// Forbidden writes the 403 record
func Forbidden(w http.ResponseWriter) {
	WriteStatus(w, http.StatusForbidden, MessageForbidden)
}
