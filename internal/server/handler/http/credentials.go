package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/avetisov/toolhub/internal/middleware"
	"github.com/avetisov/toolhub/internal/service"
	"github.com/go-chi/chi/v5"
)

// VaultService defines the interface for credential retrieval required
// by the CredentialsHandler.
type VaultService interface {
	// GetCredentials returns the decrypted credential for one of a
	// user's integrations.
	GetCredentials(ctx context.Context, userID, integration string) (*service.Credential, error)
}

// CredentialsHandler handles HTTP requests for materialized integration
// credentials.
type CredentialsHandler struct {
	// VaultService performs the underlying vault operations.
	VaultService VaultService
}

// credentialResponse is the wire shape of a materialized credential.
// Only token material is exposed, never the stored ciphertext.
type credentialResponse struct {
	Integration  string `json:"integration"`
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Expiry       string `json:"expiry,omitempty"`
}

// Get handles GET /api/integrations/{integration}/credentials.
// The acting user comes from the identity middleware; the integration
// name from the URL. Errors map to distinct statuses via writeError.
func (h *CredentialsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	integration := chi.URLParam(r, "integration")

	cred, err := h.VaultService.GetCredentials(r.Context(), userID, integration)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := credentialResponse{
		Integration: cred.Integration,
		AccessToken: cred.AccessToken,
	}
	if cred.Token != nil {
		resp.RefreshToken = cred.Token.RefreshToken
		if !cred.Token.Expiry.IsZero() {
			resp.Expiry = cred.Token.Expiry.Format(time.RFC3339)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
