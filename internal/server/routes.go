package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
)

// SetupRoutes configures the API routes.
func SetupRoutes(router chi.Router, asker Asker, logger *slog.Logger) {
	handlers := NewHandlers(asker, logger)

	router.Get("/", handlers.Welcome)
	router.Get("/health", handlers.Health)
	router.Post("/api/assistant", handlers.Assistant)
}
