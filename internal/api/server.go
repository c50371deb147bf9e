// Package api provides the HTTP API server and handlers for the catalog.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/listenupapp/catalog-server/internal/auth"
	"github.com/listenupapp/catalog-server/internal/store"
)

// Pinger is implemented by stores that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DocumentCounter is implemented by the bleve item index.
type DocumentCounter interface {
	DocumentCount() (uint64, error)
}

// Options configures optional server behavior.
type Options struct {
	CORSAllowedOrigins []string        // empty allows any origin
	MaxPageSize        int             // listing page-size cap
	ReviewLimiter      *RateLimiter    // per-owner review submissions; nil disables
	SearchIndex        DocumentCounter // reported by /health when set
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store         store.Store
	services      *Services
	tokens        *auth.TokenService
	reviewLimiter *RateLimiter
	searchIndex   DocumentCounter
	maxPageSize   int
	router        *chi.Mux
	api           huma.API
	logger        *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st store.Store, services *Services, tokens *auth.TokenService, opts Options, logger *slog.Logger) *Server {
	s := &Server{
		store:         st,
		services:      services,
		tokens:        tokens,
		reviewLimiter: opts.ReviewLimiter,
		searchIndex:   opts.SearchIndex,
		maxPageSize:   opts.MaxPageSize,
		router:        chi.NewRouter(),
		logger:        logger,
	}

	s.setupMiddleware(opts.CORSAllowedOrigins)

	humaConfig := huma.DefaultConfig("Catalog API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerAssignmentRoutes()
	s.registerReviewRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API returns the huma API, for tests and OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware(allowedOrigins []string) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	corsOptions := cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}
	if len(allowedOrigins) == 0 {
		corsOptions.AllowedOrigins = []string{"*"}
	}
	s.router.Use(cors.Handler(corsOptions))

	s.router.Use(authMiddleware(s.tokens))
}
