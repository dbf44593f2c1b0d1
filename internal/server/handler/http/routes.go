package http

import (
	"net/http"

	"github.com/avetisov/toolhub/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the
// integration hub API.
//
// Routes:
//
//	GET  /api/settings                                → settingsHandler.Get (identity header required)
//	GET  /api/integrations/{integration}/credentials  → credentialsHandler.Get (identity header required)
//	POST /api/notify                                  → notifyHandler.Notify (worker-facing, identity in body)
//	POST /api/progress                                → notifyHandler.Progress (worker-facing, identity in body)
//
// Middleware chain (applied in order):
//  1. AllowContentType("application/json") — rejects non-JSON bodies
//  2. WithRequestLogging(logger)           — logs incoming requests
//  3. UserAuth (tool group only)           — enforces the X-User-ID header
func NewRouter(
	credentialsHandler *CredentialsHandler,
	settingsHandler *SettingsHandler,
	notifyHandler *NotifyHandler,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	r.Route("/api", func(r chi.Router) {
		// Worker-facing endpoints: the acting user is named in the body.
		r.Post("/notify", notifyHandler.Notify)
		r.Post("/progress", notifyHandler.Progress)

		// Tool endpoints: the acting user comes from the identity header.
		r.Group(func(r chi.Router) {
			r.Use(middleware.UserAuth)
			r.Get("/settings", settingsHandler.Get)
			r.Get("/integrations/{integration}/credentials", credentialsHandler.Get)
		})
	})

	return r
}
