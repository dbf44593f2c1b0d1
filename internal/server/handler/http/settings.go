package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/avetisov/toolhub/internal/middleware"
	"github.com/avetisov/toolhub/internal/models"
)

// SettingsService defines the interface for settings resolution
// required by the SettingsHandler.
type SettingsService interface {
	// GetUserSettings returns the derived settings for a user, with
	// defaults when no profile exists.
	GetUserSettings(ctx context.Context, userID string) (models.UserSettings, error)
}

// SettingsHandler handles HTTP requests for derived user settings.
type SettingsHandler struct {
	SettingsService SettingsService
}

// Get handles GET /api/settings requests for the authenticated user.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	settings, err := h.SettingsService.GetUserSettings(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(settings)
}
