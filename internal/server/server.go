package server

import (
	"context"
	"net/http"
	"time"

	"github.com/ingenium21/todo-service/internal/auth"
	"github.com/ingenium21/todo-service/internal/config"
	"github.com/ingenium21/todo-service/internal/http/handlers"
	"github.com/ingenium21/todo-service/internal/middleware"
	"github.com/ingenium21/todo-service/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.Store) *Server {
	mux := http.NewServeMux()

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	authn := middleware.NewAuthenticator(tokens)

	handlers.NewHealthHandler(time.Now()).Register(mux)
	handlers.NewAuthHandler(store, tokens).Register(mux)
	handlers.NewTodoHandler(store, authn).Register(mux)
	handlers.NewUserHandler(store, authn).Register(mux)
	handlers.NewAdminHandler(store, authn).Register(mux)

	handler := middleware.CORS(cfg.CORSOrigins, middleware.Logging(mux))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
