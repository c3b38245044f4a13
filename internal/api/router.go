package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/savegress/mobitrace/internal/config"
	"github.com/savegress/mobitrace/internal/scan"
)

// Server represents the API server.
type Server struct {
	config   *config.Config
	router   chi.Router
	handlers *Handlers
}

// NewServer creates a new API server around the scan engine and store.
func NewServer(cfg *config.Config, engine *scan.Engine, store *scan.Store) *Server {
	s := &Server{
		config:   cfg,
		router:   chi.NewRouter(),
		handlers: NewHandlers(cfg, engine, store),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handlers.HealthCheck)

	s.router.Route("/api/v1/mobitrace", func(r chi.Router) {
		r.Route("/scans", func(r chi.Router) {
			r.Get("/", s.handlers.ListScans)
			r.Post("/", s.handlers.CreateScan)
			r.Get("/{id}", s.handlers.GetScan)
			r.Get("/{id}/export", s.handlers.ExportScan)
		})

		r.Get("/config/weights", s.handlers.GetWeights)
	})
}

// Router returns the chi router.
func (s *Server) Router() http.Handler {
	return s.router
}
