package middleware

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/doodlesbykumbi/nasa-in-go/pkg/audit"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/authenticator"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/identity"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/policy"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/server/apierror"
)

// Pages the web class is redirected to
const (
	LoginPath        = "/login"
	AccessDeniedPath = "/access-denied"
)

// AuthRecorder receives one observation per credential check
type AuthRecorder interface {
	ObserveAuthentication(method, outcome string)
}

// Gate resolves the principal of each request and applies the access
// policy to the matched route
type Gate struct {
	Authenticators *authenticator.Registry
	Policy         *policy.Policy
	Audit          *audit.Logger
	Recorder       AuthRecorder
	Logger         logrus.FieldLogger
}

// Middleware must be installed with Router.Use so the route template is
// known when it runs
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := RouteTemplate(r)
		if route == "" {
			route = r.URL.Path
		}
		method := r.Method
		clientIP := ClientIP(r)

		if g.Policy.IsPublic(method, route) {
			next.ServeHTTP(w, r)
			return
		}

		id, err := g.Authenticators.Resolve(r.Context(), r)
		switch {
		case errors.Is(err, authenticator.ErrNoCredentials):
			id = nil
		case err != nil:
			g.authFailed(w, r, route, err)
			return
		default:
			g.observe(string(id.Method), "success")
			if id.Method == identity.MethodBasic {
				g.Audit.Log(audit.AuthenticateEvent{
					User:     id.Subject,
					ClientIP: clientIP.String(),
					Method:   string(id.Method),
					Success:  true,
				})
			}
		}

		var roles []string
		if id != nil {
			roles = id.Roles
		}
		decision := g.Policy.Evaluate(method, route, roles, id != nil)
		if decision != policy.Allow {
			g.deny(w, r, route, id, decision)
			return
		}

		id.WithRemoteIP(clientIP)
		next.ServeHTTP(w, r.WithContext(identity.Set(r.Context(), id)))
	})
}

func (g *Gate) observe(method, outcome string) {
	if g.Recorder != nil {
		g.Recorder.ObserveAuthentication(method, outcome)
	}
}

// authFailed answers a request whose credentials were presented and
// rejected, or could not be checked
func (g *Gate) authFailed(w http.ResponseWriter, r *http.Request, route string, err error) {
	strategy := "unknown"
	var authErr *authenticator.Error
	if errors.As(err, &authErr) {
		strategy = authErr.Strategy
	}
	g.observe(strategy, "failure")

	user := ""
	if strategy == "basic" {
		user, _, _ = r.BasicAuth()
	}
	g.Audit.Log(audit.AuthenticateEvent{
		User:         user,
		ClientIP:     ClientIP(r).String(),
		Method:       strategy,
		ErrorMessage: err.Error(),
	})

	if !errors.Is(err, authenticator.ErrInvalidCredentials) {
		g.logger(r).WithError(err).Error("credential check failed")
		apierror.WriteStatus(w, http.StatusInternalServerError, "Authentication is unavailable")
		return
	}
	g.logger(r).WithError(err).Debug("credentials rejected")
	Deny(w, r, route, policy.Unauthenticated)
}

func (g *Gate) deny(w http.ResponseWriter, r *http.Request, route string, id *identity.Identity, decision policy.Decision) {
	event := audit.AccessDeniedEvent{
		ClientIP: ClientIP(r).String(),
		Method:   r.Method,
		Path:     route,
		Reason:   decision.String(),
	}
	if id != nil {
		event.User = id.Subject
	}
	if decision == policy.Forbidden {
		event.Required = g.Policy.Rule(r.Method, route).Roles
	}
	g.Audit.Log(event)

	Deny(w, r, route, decision)
}

func (g *Gate) logger(r *http.Request) logrus.FieldLogger {
	logger := g.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return logger.WithField("request_id", GetRequestID(r.Context()))
}

// Deny answers a refused request the way its route class expects. API
// routes get an error record and web routes are redirected.
func Deny(w http.ResponseWriter, r *http.Request, route string, decision policy.Decision) {
	if policy.ClassOf(route) == policy.ClassWeb {
		target := AccessDeniedPath
		if decision == policy.Unauthenticated {
			target = LoginPath
		}
		http.Redirect(w, r, target, http.StatusFound)
		return
	}
	if decision == policy.Unauthenticated {
		apierror.Unauthorized(w)
		return
	}
	apierror.Forbidden(w)
}
