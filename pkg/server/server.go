package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/oklog/run"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/nasa-in-go/pkg/audit"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/authenticator"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/authenticator/authn"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/authenticator/authn_bearer"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/config"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/metrics"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/nasa"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/policy"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/server/apierror"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/server/middleware"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/server/store"
	gormstore "github.com/doodlesbykumbi/nasa-in-go/pkg/server/store/gorm"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/service"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/token"
)

// ShutdownTimeout bounds how long in-flight requests get on shutdown
const ShutdownTimeout = 10 * time.Second

// Options wires a Server. Config is required. Stores default to GORM
// stores over DB, Upstream to a NASA client built from Config, and Tokens
// to a service with a freshly generated key.
type Options struct {
	Config  *config.NasaConfig
	DB      *gorm.DB
	Logger  *logrus.Logger
	Version string

	ApodStore   store.ApodStore
	MemberStore store.MemberStore
	HealthStore store.HealthStore

	Upstream service.Upstream
	Tokens   *token.Service
	Audit    *audit.Logger
	Metrics  *metrics.Metrics
	Policy   *policy.Policy
}

// Server holds everything the endpoints need
type Server struct {
	Config  *config.NasaConfig
	Router  *mux.Router
	DB      *gorm.DB
	Logger  *logrus.Logger
	Version string

	ApodStore   store.ApodStore
	MemberStore store.MemberStore
	HealthStore store.HealthStore

	Nasa           *service.Nasa
	Tokens         *token.Service
	Passwords      *authn.Authenticator
	Authenticators *authenticator.Registry
	Policy         *policy.Policy
	Audit          *audit.Logger
	Metrics        *metrics.Metrics

	srv *http.Server
}

// NewServer builds the router and its middleware. Routes are added by the
// endpoints package.
func NewServer(opts Options) (*Server, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, errors.New("server: config is required")
	}

	s := &Server{
		Config:      cfg,
		DB:          opts.DB,
		Logger:      opts.Logger,
		Version:     opts.Version,
		ApodStore:   opts.ApodStore,
		MemberStore: opts.MemberStore,
		HealthStore: opts.HealthStore,
		Tokens:      opts.Tokens,
		Audit:       opts.Audit,
		Metrics:     opts.Metrics,
		Policy:      opts.Policy,
	}
	if s.Logger == nil {
		s.Logger = logrus.StandardLogger()
	}
	if s.Version == "" {
		s.Version = "dev"
	}
	if s.Metrics == nil {
		s.Metrics = metrics.New(false)
	}
	if s.Policy == nil {
		s.Policy = policy.Default()
	}
	if s.Audit == nil {
		s.Audit = audit.NewLogger()
		s.Audit.SetEnabled(cfg.AuditEnabled)
	}
	if cfg.AuditDatabase {
		if err := s.attachAuditStore(); err != nil {
			return nil, err
		}
	}

	if s.ApodStore == nil || s.MemberStore == nil || s.HealthStore == nil {
		if opts.DB == nil {
			return nil, errors.New("server: a database or all stores are required")
		}
	}
	if s.ApodStore == nil {
		s.ApodStore = gormstore.NewApodStore(opts.DB)
	}
	if s.MemberStore == nil {
		s.MemberStore = gormstore.NewMemberStore(opts.DB)
	}
	if s.HealthStore == nil {
		s.HealthStore = gormstore.NewHealthStore(opts.DB)
	}

	if s.Tokens == nil {
		var tokenOpts []token.Option
		if cfg.TokenIssuer != "" {
			tokenOpts = append(tokenOpts, token.WithIssuer(cfg.TokenIssuer))
		}
		if cfg.TokenTTL > 0 {
			tokenOpts = append(tokenOpts, token.WithTTL(cfg.TokenTTL))
		}
		tokens, err := token.New(tokenOpts...)
		if err != nil {
			return nil, fmt.Errorf("server: token service: %w", err)
		}
		s.Tokens = tokens
	}

	upstream := opts.Upstream
	if upstream == nil {
		upstream = nasa.NewClient(nasa.Config{
			BaseURL:  cfg.NasaBaseURL,
			APIKey:   cfg.NasaAPIKey,
			Timeout:  cfg.UpstreamTimeout,
			Logger:   s.Logger.WithField("component", "nasa-client"),
			Recorder: s.Metrics,
		})
	}
	s.Nasa = service.New(upstream, s.ApodStore, s.Logger)

	s.Passwords = authn.New(s.MemberStore)
	s.Authenticators = authenticator.NewRegistry(
		s.Passwords,
		authn_bearer.NewBearer(s.Tokens),
		authn_bearer.NewSession(s.Tokens),
	)

	gate := &middleware.Gate{
		Authenticators: s.Authenticators,
		Policy:         s.Policy,
		Audit:          s.Audit,
		Recorder:       s.Metrics,
		Logger:         s.Logger,
	}

	router := mux.NewRouter().UseEncodedPath()
	router.Use(
		middleware.RequestLogger(s.Logger),
		s.Metrics.Middleware,
		gate.Middleware,
	)
	// Router.Use middleware is skipped for unmatched requests
	router.NotFoundHandler = middleware.RequestLogger(s.Logger)(gate.Middleware(http.HandlerFunc(notFound)))
	router.MethodNotAllowedHandler = middleware.RequestLogger(s.Logger)(gate.Middleware(http.HandlerFunc(methodNotAllowed)))
	s.Router = router

	s.srv = &http.Server{
		Handler:           s.Handler(),
		Addr:              cfg.ListenAddress(),
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Upstream calls may take up to the upstream timeout
		WriteTimeout: cfg.UpstreamTimeout + 15*time.Second,
	}
	return s, nil
}

// Handler wraps the router in the outer middleware: panic recovery, CORS,
// trusted proxy headers and request ids
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.Router
	h = middleware.RequestID(h)
	h = middleware.TrustedProxyHeaders(s.Config.IsTrustedProxy)(h)
	if len(s.Config.CORSAllowedOrigins) > 0 {
		h = cors.New(cors.Options{
			AllowedOrigins:   s.Config.CORSAllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
			ExposedHeaders:   []string{middleware.RequestIDHeader, "X-Key-Fingerprint"},
			AllowCredentials: true,
			MaxAge:           300,
		}).Handler(h)
	}
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(s.Logger),
		handlers.PrintRecoveryStack(s.Logger.IsLevelEnabled(logrus.DebugLevel)),
	)(h)
}

// Start listens on the configured address and serves until the server
// is shut down
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// Serve serves on an existing listener
func (s *Server) Serve(l net.Listener) error {
	return s.srv.Serve(l)
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// Run serves on l until ctx is cancelled or the server fails, then shuts
// down gracefully
func (s *Server) Run(ctx context.Context, l net.Listener) error {
	var g run.Group
	{
		g.Add(func() error {
			s.Logger.WithField("address", l.Addr().String()).Info("serving")
			if err := s.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}, func(error) {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
			defer cancel()
			if err := s.Shutdown(shutdownCtx); err != nil {
				s.Logger.WithError(err).Warn("graceful shutdown failed")
			}
		})
	}
	{
		gctx, gcancel := context.WithCancel(ctx)
		g.Add(func() error {
			<-gctx.Done()
			return nil
		}, func(error) {
			gcancel()
		})
	}
	return g.Run()
}

func notFound(w http.ResponseWriter, r *http.Request) {
	if policy.ClassOf(r.URL.Path) == policy.ClassWeb {
		http.NotFound(w, r)
		return
	}
	apierror.WriteStatus(w, http.StatusNotFound, "No handler found for "+r.Method+" "+r.URL.Path)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	apierror.WriteStatus(w, http.StatusMethodNotAllowed, "Request method '"+r.Method+"' is not supported")
}

// attachAuditStore persists audit events to the audit_messages table, which
// only the PostgreSQL migrations create.
func (s *Server) attachAuditStore() error {
	if s.DB == nil || s.DB.Dialector.Name() != "postgres" {
		s.Logger.Warn("audit_database requires a PostgreSQL database; audit events will not be stored")
		return nil
	}
	sqlDB, err := s.DB.DB()
	if err != nil {
		return fmt.Errorf("server: audit store: %w", err)
	}
	s.Audit.SetStore(audit.NewStoreWithDB(sqlDB), func(err error) {
		s.Logger.WithError(err).Warn("failed to persist audit event")
	})
	return nil
}
