package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hadfield/catalog/pkg/auth"
	"github.com/hadfield/catalog/pkg/middleware"
	"github.com/hadfield/catalog/pkg/observability"
	"github.com/hadfield/catalog/pkg/storage"
)

// Server is the HTTP front of the catalog service
type Server struct {
	router *mux.Router
	logger *observability.Logger

	authHandlers    *AuthHandlers
	productHandlers *ProductHandlers
	authMiddleware  *middleware.AuthMiddleware
}

// ServerOptions bundles the collaborators wired in at startup.
type ServerOptions struct {
	Users    storage.UserStore
	Products storage.ProductStore
	Tokens   *auth.TokenService
	Hasher   *auth.PasswordHasher
	Logger   *observability.Logger

	// Optional observability surfaces
	Metrics  *observability.Metrics
	Registry *prometheus.Registry
	Health   *observability.HealthChecker
}

// NewServer creates the API server and wires all routes.
func NewServer(opts ServerOptions) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, nil)
	}

	s := &Server{
		router:         mux.NewRouter(),
		logger:         logger,
		authMiddleware: middleware.NewAuthMiddleware(opts.Tokens, opts.Metrics),
	}
	s.authHandlers = NewAuthHandlers(opts.Users, opts.Tokens, opts.Hasher, logger)
	s.productHandlers = NewProductHandlers(opts.Products, logger)

	s.setupRoutes(opts)
	return s
}

// setupRoutes configures all the API routes
func (s *Server) setupRoutes(opts ServerOptions) {
	s.authHandlers.RegisterRoutes(s.router)
	s.productHandlers.RegisterRoutes(s.router, s.authMiddleware)

	if opts.Health != nil {
		s.router.HandleFunc("/healthz", opts.Health.Liveness).Methods("GET")
		s.router.HandleFunc("/readyz", opts.Health.Readiness).Methods("GET")
	}
	if opts.Registry != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})).Methods("GET")
	}
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
