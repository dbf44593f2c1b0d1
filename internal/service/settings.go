package service

import (
	"context"
	"encoding/json"

	"github.com/avetisov/toolhub/internal/crypto"
	"github.com/avetisov/toolhub/internal/models"
)

// SettingsRepository defines the persistence operations required by the
// settings service.
type SettingsRepository interface {
	// FindUserData fetches the personalInfo and privacyFilters fields of
	// a profile document. found is false when no profile exists.
	FindUserData(ctx context.Context, userID string) (personalInfo, privacyFilters json.RawMessage, found bool, err error)
}

// FieldDecryptor applies tolerant field-level decryption to profile
// fields. When encryption is disabled, or a value does not look like
// ciphertext, or decryption fails, the stored value passes through
// unchanged. Integration credentials never go through this path; they
// are unconditionally ciphertext.
type FieldDecryptor struct {
	cipher  *crypto.Cipher
	enabled bool
}

// NewFieldDecryptor constructs a FieldDecryptor. enabled normally comes
// from config.Options.EncryptionEnabled.
func NewFieldDecryptor(cipher *crypto.Cipher, enabled bool) *FieldDecryptor {
	return &FieldDecryptor{cipher: cipher, enabled: enabled}
}

// DecryptField returns the decrypted JSON value of an encrypted profile
// field, or the raw stored value when decryption does not apply or fails.
func (d *FieldDecryptor) DecryptField(raw json.RawMessage) json.RawMessage {
	if !d.enabled || len(raw) == 0 {
		return raw
	}
	// Encrypted fields are stored as JSON strings of base64 ciphertext;
	// anything else is already plaintext.
	var ciphertext string
	if err := json.Unmarshal(raw, &ciphertext); err != nil {
		return raw
	}
	plain, err := d.cipher.Decrypt(ciphertext)
	if err != nil {
		return raw
	}
	if !json.Valid([]byte(plain)) {
		return raw
	}
	return json.RawMessage(plain)
}

// SettingsService resolves derived per-user settings: timezone, email,
// and normalized privacy filters.
type SettingsService struct {
	repo   SettingsRepository
	fields *FieldDecryptor
}

// NewSettingsService constructs a SettingsService.
func NewSettingsService(repo SettingsRepository, fields *FieldDecryptor) *SettingsService {
	return &SettingsService{repo: repo, fields: fields}
}

// GetUserSettings returns the settings for a user. A missing profile is
// not an error: this path backs best-effort personalization, so it
// yields defaults (UTC, no email, no filters) instead of failing.
func (s *SettingsService) GetUserSettings(ctx context.Context, userID string) (models.UserSettings, error) {
	settings := models.UserSettings{
		Timezone:       "UTC",
		PrivacyFilters: map[string]models.PrivacyFilter{},
	}

	personalInfo, privacyFilters, found, err := s.repo.FindUserData(ctx, userID)
	if err != nil {
		return settings, err
	}
	if !found {
		return settings, nil
	}

	personalInfo = s.fields.DecryptField(personalInfo)
	privacyFilters = s.fields.DecryptField(privacyFilters)

	var info models.PersonalInfo
	if err := json.Unmarshal(personalInfo, &info); err == nil {
		if info.Timezone != "" {
			settings.Timezone = info.Timezone
		}
		settings.Email = info.Email
	}

	settings.PrivacyFilters = normalizePrivacyFilters(privacyFilters)
	return settings, nil
}

// normalizePrivacyFilters converts the stored privacyFilters field into
// the canonical per-integration map. The field may be an object keyed
// by integration name (values in either legacy or current shape) or a
// legacy profile-wide keyword list, which lands under GlobalFilterKey.
func normalizePrivacyFilters(raw json.RawMessage) map[string]models.PrivacyFilter {
	out := map[string]models.PrivacyFilter{}
	if len(raw) == 0 {
		return out
	}

	var perIntegration map[string]json.RawMessage
	if err := json.Unmarshal(raw, &perIntegration); err == nil {
		for integration, value := range perIntegration {
			out[integration] = models.NormalizePrivacyFilter(value)
		}
		return out
	}

	var legacy []string
	if err := json.Unmarshal(raw, &legacy); err == nil {
		out[models.GlobalFilterKey] = models.NormalizePrivacyFilter(raw)
	}
	return out
}
