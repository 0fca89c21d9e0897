package audit

import (
	"fmt"
	"strconv"
	"strings"
)

// AuthenticateEvent records a credential check by one of the
// authentication strategies
type AuthenticateEvent struct {
	User         string
	ClientIP     string
	Method       string
	Success      bool
	ErrorMessage string
}

func (e AuthenticateEvent) MessageID() string {
	return "authn"
}

func (e AuthenticateEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s successfully authenticated with %s", e.User, e.Method)
	}
	msg := fmt.Sprintf("%s failed to authenticate with %s", e.User, e.Method)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e AuthenticateEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e AuthenticateEvent) Facility() int {
	return FacilityAuthPriv
}

func (e AuthenticateEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"method": e.Method,
			"user":   e.User,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
	}
}

// AccessDeniedEvent records a request stopped by the access policy
type AccessDeniedEvent struct {
	User     string
	ClientIP string
	Method   string
	Path     string
	Required []string
	Reason   string
}

func (e AccessDeniedEvent) MessageID() string {
	return "access"
}

func (e AccessDeniedEvent) Message() string {
	user := e.User
	if user == "" {
		user = "anonymous"
	}
	return fmt.Sprintf("%s denied %s %s: %s", user, e.Method, e.Path, e.Reason)
}

func (e AccessDeniedEvent) Severity() Severity {
	return SeverityWarning
}

func (e AccessDeniedEvent) Facility() int {
	return FacilityAuth
}

func (e AccessDeniedEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAction: {
			"operation": e.Method,
			"path":      e.Path,
			"result":    "denied",
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
	}
	if e.User != "" {
		sd[SDIDSubject] = map[string]string{"user": e.User}
	}
	if len(e.Required) > 0 {
		sd[SDIDAction]["roles"] = strings.Join(e.Required, ",")
	}
	return sd
}

// Apod mutation operations
const (
	OperationSave      = "save"
	OperationUpdate    = "update"
	OperationDelete    = "delete"
	OperationDeleteAll = "delete-all"
)

// ApodEvent records a change to the stored APOD collection
type ApodEvent struct {
	User         string
	ClientIP     string
	Operation    string
	ApodID       int64
	Count        int64
	Success      bool
	ErrorMessage string
}

func (e ApodEvent) MessageID() string {
	return "apod"
}

func (e ApodEvent) target() string {
	if e.Operation == OperationDeleteAll {
		return fmt.Sprintf("%d apods", e.Count)
	}
	return fmt.Sprintf("apod %d", e.ApodID)
}

func (e ApodEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s performed %s on %s", e.User, e.Operation, e.target())
	}
	msg := fmt.Sprintf("%s failed to %s %s", e.User, e.Operation, e.target())
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e ApodEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityWarning
}

func (e ApodEvent) Facility() int {
	return FacilityAuth
}

func (e ApodEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	sd := map[string]map[string]string{
		SDIDSubject: {
			"user": e.User,
		},
		SDIDAction: {
			"operation": e.Operation,
			"result":    result,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
	}
	if e.Operation == OperationDeleteAll {
		sd[SDIDAction]["count"] = strconv.FormatInt(e.Count, 10)
	} else {
		sd[SDIDAction]["apod"] = strconv.FormatInt(e.ApodID, 10)
	}
	return sd
}
