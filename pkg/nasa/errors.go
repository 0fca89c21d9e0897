package nasa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"unicode/utf8"
)

// maxErrorBody bounds how much of an upstream error body is kept.
const maxErrorBody = 512

// UpstreamError is returned when NASA answers with a non-2xx status or cannot
// be reached at all.
type UpstreamError struct {
	Endpoint   string
	StatusCode int // 0 when no response was received
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		if e.Message != "" {
			return fmt.Sprintf("nasa %s returned %d: %s", e.Endpoint, e.StatusCode, e.Message)
		}
		return fmt.Sprintf("nasa %s returned %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("nasa %s request failed: %v", e.Endpoint, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request failed because a deadline passed.
func (e *UpstreamError) Timeout() bool {
	if e.Err == nil {
		return false
	}
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// HTTPStatus is the status the gateway answers with for this failure.
func (e *UpstreamError) HTTPStatus() int {
	if e.Timeout() {
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}

// upstreamMessage extracts a readable message from a NASA error body. NASA
// uses a few different shapes depending on which gateway rejected the call.
func upstreamMessage(body []byte) string {
	var shaped struct {
		Msg   string `json:"msg"`
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &shaped); err == nil {
		if shaped.Msg != "" {
			return shaped.Msg
		}
		if shaped.Error.Message != "" {
			return shaped.Error.Message
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorBody {
		cut := maxErrorBody
		for cut > 0 && !utf8.RuneStart(msg[cut]) {
			cut--
		}
		msg = msg[:cut]
	}
	return msg
}
