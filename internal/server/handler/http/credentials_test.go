package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/avetisov/toolhub/internal/apperr"
	"github.com/avetisov/toolhub/internal/models"
	handler "github.com/avetisov/toolhub/internal/server/handler/http"
	"github.com/avetisov/toolhub/internal/service"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// fakeVaultService records calls and returns preconfigured results.
type fakeVaultService struct {
	receivedUserID      string
	receivedIntegration string

	cred *service.Credential
	err  error
}

func (f *fakeVaultService) GetCredentials(ctx context.Context, userID, integration string) (*service.Credential, error) {
	f.receivedUserID = userID
	f.receivedIntegration = integration
	return f.cred, f.err
}

// fakeSettingsService returns fixed settings.
type fakeSettingsService struct {
	settings models.UserSettings
	err      error
}

func (f *fakeSettingsService) GetUserSettings(ctx context.Context, userID string) (models.UserSettings, error) {
	return f.settings, f.err
}

func newTestRouter(vault *fakeVaultService, settings *fakeSettingsService) http.Handler {
	return handler.NewRouter(
		&handler.CredentialsHandler{VaultService: vault},
		&handler.SettingsHandler{SettingsService: settings},
		&handler.NotifyHandler{Notifier: &fakeDispatcher{}, Profiles: &fakeProfileReader{}},
		zap.NewNop(),
	)
}

func TestCredentials_MissingIdentityHeader(t *testing.T) {
	router := newTestRouter(&fakeVaultService{}, &fakeSettingsService{})

	req := httptest.NewRequest(http.MethodGet, "/api/integrations/notion/credentials", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d; want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestCredentials_Success(t *testing.T) {
	fake := &fakeVaultService{cred: &service.Credential{
		Integration: "gcalendar",
		AccessToken: "at-1",
		Token:       &oauth2.Token{AccessToken: "at-1", RefreshToken: "rt-1"},
	}}
	router := newTestRouter(fake, &fakeSettingsService{})

	req := httptest.NewRequest(http.MethodGet, "/api/integrations/gcalendar/credentials", nil)
	req.Header.Set("X-User-ID", "alice")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}
	if fake.receivedUserID != "alice" || fake.receivedIntegration != "gcalendar" {
		t.Errorf("service called with (%q, %q)", fake.receivedUserID, fake.receivedIntegration)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["access_token"] != "at-1" || resp["refresh_token"] != "rt-1" {
		t.Errorf("response = %v", resp)
	}
}

func TestCredentials_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"user not found", &apperr.UserNotFoundError{UserID: "alice"}, http.StatusNotFound},
		{"not connected", &apperr.IntegrationNotConnectedError{UserID: "alice", Integration: "notion"}, http.StatusConflict},
		{"corrupted", &apperr.CredentialCorruptionError{Integration: "notion", Err: errors.New("bad padding")}, http.StatusBadGateway},
		{"configuration", &apperr.ConfigurationError{Reason: "encryption keys not configured"}, http.StatusInternalServerError},
		{"unexpected", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&fakeVaultService{err: tt.err}, &fakeSettingsService{})

			req := httptest.NewRequest(http.MethodGet, "/api/integrations/notion/credentials", nil)
			req.Header.Set("X-User-ID", "alice")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("status = %d; want %d", w.Code, tt.want)
			}
		})
	}
}

func TestCredentials_NotConnectedNamesIntegration(t *testing.T) {
	router := newTestRouter(&fakeVaultService{
		err: &apperr.IntegrationNotConnectedError{UserID: "alice", Integration: "notion"},
	}, &fakeSettingsService{})

	req := httptest.NewRequest(http.MethodGet, "/api/integrations/notion/credentials", nil)
	req.Header.Set("X-User-ID", "alice")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	body := w.Body.String()
	if !strings.Contains(body, "notion") || !strings.Contains(body, "connect flow") {
		t.Errorf("body %q should name the integration and the fix", body)
	}
}

func TestSettings_Success(t *testing.T) {
	router := newTestRouter(&fakeVaultService{}, &fakeSettingsService{
		settings: models.UserSettings{
			Timezone:       "Asia/Kolkata",
			Email:          "u@example.com",
			PrivacyFilters: map[string]models.PrivacyFilter{},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
	req.Header.Set("X-User-ID", "alice")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}
	var resp models.UserSettings
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Timezone != "Asia/Kolkata" || resp.Email != "u@example.com" {
		t.Errorf("settings = %+v", resp)
	}
}

func TestSettings_MissingIdentityHeader(t *testing.T) {
	router := newTestRouter(&fakeVaultService{}, &fakeSettingsService{})

	req := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d; want %d", w.Code, http.StatusUnauthorized)
	}
}
