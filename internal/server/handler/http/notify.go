package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/avetisov/toolhub/internal/models"
	"github.com/avetisov/toolhub/internal/notify"
)

// Dispatcher defines the notification operations required by the
// NotifyHandler.
type Dispatcher interface {
	// NotifyUser dispatches a notification unless the user's
	// preferences suppress it.
	NotifyUser(ctx context.Context, userID, message, taskID, category string, prefs models.Preferences) notify.Outcome
	// PushProgressUpdate forwards a task progress update, best-effort.
	PushProgressUpdate(ctx context.Context, userID, taskID, runID string, message json.RawMessage)
}

// ProfileReader loads the profile document that carries notification
// preferences.
type ProfileReader interface {
	FindByUserID(ctx context.Context, userID string) (*models.UserProfile, error)
}

// NotifyHandler handles worker-facing notification and progress
// endpoints. Unlike the tool endpoints, identity comes from the request
// body: these calls act on behalf of a user, not as one.
type NotifyHandler struct {
	Notifier Dispatcher
	Profiles ProfileReader
}

// NotifyRequest represents the JSON payload for a notification dispatch.
type NotifyRequest struct {
	UserID           string `json:"user_id"`
	Message          string `json:"message"`
	TaskID           string `json:"task_id,omitempty"`
	NotificationType string `json:"notification_type,omitempty"`
}

// Notify handles POST /api/notify requests. It loads the user's
// notification preferences, consults the suppression gate, and
// dispatches best-effort. The response always reports the outcome; a
// failed delivery is not an HTTP error, because notification delivery
// is independent of the task that triggered it.
func (h *NotifyHandler) Notify(w http.ResponseWriter, r *http.Request) {
	var req NotifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" || req.Message == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	category := req.NotificationType
	if category == "" {
		category = models.CategoryGeneral
	}

	var prefs models.Preferences
	profile, err := h.Profiles.FindByUserID(r.Context(), req.UserID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if profile != nil {
		prefs = profile.UserData.Preferences
	}

	outcome := h.Notifier.NotifyUser(r.Context(), req.UserID, req.Message, req.TaskID, category, prefs)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"outcome": string(outcome),
	})
}

// ProgressRequest represents the JSON payload for a progress push.
type ProgressRequest struct {
	UserID  string          `json:"user_id"`
	TaskID  string          `json:"task_id"`
	RunID   string          `json:"run_id"`
	Message json.RawMessage `json:"message,omitempty"`
}

// Progress handles POST /api/progress requests by forwarding the update
// to the main server. Fire-and-forget: the caller always gets 202.
func (h *NotifyHandler) Progress(w http.ResponseWriter, r *http.Request) {
	var req ProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" || req.TaskID == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	h.Notifier.PushProgressUpdate(r.Context(), req.UserID, req.TaskID, req.RunID, req.Message)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
