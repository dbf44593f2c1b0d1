// Package http provides HTTP handlers and routing for the integration
// hub: credential retrieval, user settings, and notification dispatch.
package http

import (
	"errors"
	"net/http"

	"github.com/avetisov/toolhub/internal/apperr"
)

// writeError maps a service error to an HTTP status. Strict-path
// errors each get a distinct status so callers can tell a missing
// connection (re-run the connect flow) from corrupted data (operator
// action) without parsing messages.
func writeError(w http.ResponseWriter, err error) {
	var (
		authErr      *apperr.AuthenticationError
		notFound     *apperr.UserNotFoundError
		notConnected *apperr.IntegrationNotConnectedError
		corrupted    *apperr.CredentialCorruptionError
		cfgErr       *apperr.ConfigurationError
	)
	switch {
	case errors.As(err, &authErr):
		http.Error(w, authErr.Error(), http.StatusUnauthorized)
	case errors.As(err, &notFound):
		http.Error(w, notFound.Error(), http.StatusNotFound)
	case errors.As(err, &notConnected):
		http.Error(w, notConnected.Error(), http.StatusConflict)
	case errors.As(err, &corrupted):
		http.Error(w, corrupted.Error(), http.StatusBadGateway)
	case errors.As(err, &cfgErr):
		http.Error(w, "internal configuration error", http.StatusInternalServerError)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
