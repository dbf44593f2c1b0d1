// Package service provides the credential-vault and user-settings
// business logic, delegating persistence to repository interfaces.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/avetisov/toolhub/internal/apperr"
	"github.com/avetisov/toolhub/internal/crypto"
	"github.com/avetisov/toolhub/internal/models"
	"golang.org/x/oauth2"
)

// ProfileRepository defines the persistence operations required by the
// vault service.
type ProfileRepository interface {
	// FindByUserID fetches the full profile document for a user.
	// A missing profile returns (nil, nil).
	FindByUserID(ctx context.Context, userID string) (*models.UserProfile, error)
}

// Credential is a decrypted, materialized credential for one
// integration. It lives only for the duration of a single request and
// is never written back to storage.
type Credential struct {
	// Integration names the integration the credential belongs to.
	Integration string
	// Token is set for Google-backed integrations (gcalendar, gdrive,
	// gmail) and carries the OAuth token set.
	Token *oauth2.Token
	// AccessToken is set for plain-token integrations such as notion.
	AccessToken string
	// Raw is the full decrypted credential object.
	Raw map[string]any
}

// VaultService looks up a user's encrypted integration credentials,
// decrypts them, and materializes a provider credential. It is
// read-only: no token refresh or other mutation is persisted.
type VaultService struct {
	repo   ProfileRepository
	cipher *crypto.Cipher
}

// NewVaultService constructs a VaultService from a profile repository
// and the credential cipher.
func NewVaultService(repo ProfileRepository, cipher *crypto.Cipher) *VaultService {
	return &VaultService{repo: repo, cipher: cipher}
}

// GetCredentials returns the decrypted credential for one of a user's
// integrations.
//
// Error taxonomy: a missing profile is a UserNotFoundError; an absent,
// disconnected, or credential-less integration is an
// IntegrationNotConnectedError (user-actionable, re-run the connect
// flow); a record marked connected that fails to decrypt, parse, or
// validate is a CredentialCorruptionError (operator-actionable).
// Missing crypto configuration surfaces as a ConfigurationError.
func (s *VaultService) GetCredentials(ctx context.Context, userID, integration string) (*Credential, error) {
	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, &apperr.UserNotFoundError{UserID: userID}
	}

	record, ok := profile.UserData.Integrations[integration]
	if !ok || !record.Connected || record.Credentials == "" {
		return nil, &apperr.IntegrationNotConnectedError{UserID: userID, Integration: integration}
	}

	plaintext, err := s.cipher.Decrypt(record.Credentials)
	if err != nil {
		var cfgErr *apperr.ConfigurationError
		if errors.As(err, &cfgErr) {
			return nil, err
		}
		return nil, &apperr.CredentialCorruptionError{Integration: integration, Err: err}
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(plaintext), &raw); err != nil {
		return nil, &apperr.CredentialCorruptionError{
			Integration: integration,
			Err:         errors.New("decrypted credentials are not valid JSON"),
		}
	}

	return buildCredential(integration, raw)
}

// Google-backed integrations share one credential shape: the OAuth
// authorized-user token set.
func isGoogleIntegration(integration string) bool {
	switch integration {
	case "gcalendar", "gdrive", "gmail":
		return true
	}
	return false
}

func buildCredential(integration string, raw map[string]any) (*Credential, error) {
	cred := &Credential{Integration: integration, Raw: raw}

	if isGoogleIntegration(integration) {
		tok := &oauth2.Token{
			AccessToken:  stringField(raw, "token"),
			RefreshToken: stringField(raw, "refresh_token"),
			TokenType:    "Bearer",
		}
		if tok.AccessToken == "" && tok.RefreshToken == "" {
			return nil, &apperr.CredentialCorruptionError{
				Integration: integration,
				Err:         errors.New("credential object has neither 'token' nor 'refresh_token'"),
			}
		}
		if expiry := stringField(raw, "expiry"); expiry != "" {
			if t, err := time.Parse(time.RFC3339, expiry); err == nil {
				tok.Expiry = t
			}
		}
		cred.Token = tok
		cred.AccessToken = tok.AccessToken
		return cred, nil
	}

	// Plain-token integrations (notion and anything unrecognized)
	// must at least carry an access token.
	cred.AccessToken = stringField(raw, "access_token")
	if cred.AccessToken == "" {
		cred.AccessToken = stringField(raw, "token")
	}
	if cred.AccessToken == "" {
		return nil, &apperr.CredentialCorruptionError{
			Integration: integration,
			Err:         errors.New("'access_token' not found in credential object"),
		}
	}
	return cred, nil
}

func stringField(raw map[string]any, key string) string {
	if v, ok := raw[key].(string); ok {
		return v
	}
	return ""
}
