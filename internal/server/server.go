// Package server is the wiring layer: it assembles the dependency graph
// (DB → repositories → services → handlers), maps routes, and owns startup
// and graceful shutdown. Keeping this out of main.go makes the whole
// server constructible in tests.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/amferraz/blog-api/internal/auth"
	"github.com/amferraz/blog-api/internal/handler"
	"github.com/amferraz/blog-api/internal/middleware"
	sqliteRepo "github.com/amferraz/blog-api/internal/repository/sqlite"
	"github.com/amferraz/blog-api/internal/service"
)

// Config holds everything the server needs from the environment.
// JWTSecret is mandatory — login is the core of this API, so unlike
// optional integrations there is no degraded mode without it.
type Config struct {
	Port      int
	DBPath    string
	JWTSecret string

	// GitHub OAuth is optional: leave ClientID empty and the /auth/github
	// routes are simply not registered.
	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
}

// Server owns the router and the database connection. The connection is
// closed during graceful shutdown to flush the WAL and release the file
// lock.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain:
//
//	sqlite.DB → AuthService/PostService → handlers → routes
//
// Each layer receives only what it needs: services get repository
// interfaces, handlers get services; nothing below the composition root
// knows the concrete types above it.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and the route table:
//
//	POST /api/usuarios        → register              (public)
//	POST /api/login           → password login        (public)
//	GET  /api/postagens       → list posts            (public)
//	POST /api/postagens       → create post           (bearer token)
//	GET  /api/me              → own profile           (bearer token)
//	GET  /auth/github/login   → OAuth redirect        (public, optional)
//	GET  /auth/github/callback→ OAuth completion      (public, optional)
//	GET  /healthz             → liveness check        (public)
//
// Middleware order matters: RequestID and RealIP first so the logger sees
// them, Recoverer before everything that can panic, then our own logger.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	var github *auth.GitHubProvider
	if s.config.GitHubClientID != "" {
		github = auth.NewGitHubProvider(
			s.config.GitHubClientID,
			s.config.GitHubClientSecret,
			s.config.GitHubCallbackURL,
		)
	}

	authService := service.NewAuthService(s.db.Users(), tokens, auth.NewPasswordService(), s.logger)
	postService := service.NewPostService(s.db.Posts(), s.logger)

	authHandler := handler.NewAuthHandler(authService, github, s.logger)
	postHandler := handler.NewPostHandler(postService, s.logger)

	requireAuth := auth.RequireAuth(tokens)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/usuarios", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Get("/postagens", postHandler.HandleList)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/postagens", postHandler.HandleCreate)
			r.Get("/me", authHandler.HandleMe)
		})
	})

	if github != nil {
		s.router.Get("/auth/github/login", authHandler.HandleGitHubLogin)
		s.router.Get("/auth/github/callback", authHandler.HandleGitHubCallback)
	}

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return nil
}

// Handler exposes the configured router — used by tests to drive the
// server through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database. Start calls it on shutdown; tests that only
// use Handler() should defer it themselves.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting, give in-flight requests 30 seconds, close
// the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
