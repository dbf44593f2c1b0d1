package service

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/avetisov/toolhub/internal/crypto"
	"github.com/avetisov/toolhub/internal/models"
)

// fakeSettingsRepository serves fixed raw fields for a single user.
type fakeSettingsRepository struct {
	personalInfo   json.RawMessage
	privacyFilters json.RawMessage
	found          bool
	err            error
}

func (f *fakeSettingsRepository) FindUserData(ctx context.Context, userID string) (json.RawMessage, json.RawMessage, bool, error) {
	return f.personalInfo, f.privacyFilters, f.found, f.err
}

func TestGetUserSettings_Defaults(t *testing.T) {
	svc := NewSettingsService(
		&fakeSettingsRepository{found: false},
		NewFieldDecryptor(crypto.New("", ""), false),
	)

	settings, err := svc.GetUserSettings(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.Timezone != "UTC" {
		t.Errorf("Timezone = %q; want UTC", settings.Timezone)
	}
	if settings.Email != "" {
		t.Errorf("Email = %q; want empty", settings.Email)
	}
	if len(settings.PrivacyFilters) != 0 {
		t.Errorf("PrivacyFilters = %v; want empty", settings.PrivacyFilters)
	}
}

func TestGetUserSettings_Plaintext(t *testing.T) {
	svc := NewSettingsService(
		&fakeSettingsRepository{
			personalInfo:   json.RawMessage(`{"timezone":"Asia/Kolkata","email":"u@example.com"}`),
			privacyFilters: json.RawMessage(`{"gcalendar":{"keywords":["standup"],"emails":["boss@example.com"]}}`),
			found:          true,
		},
		NewFieldDecryptor(crypto.New("", ""), false),
	)

	settings, err := svc.GetUserSettings(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.Timezone != "Asia/Kolkata" {
		t.Errorf("Timezone = %q", settings.Timezone)
	}
	if settings.Email != "u@example.com" {
		t.Errorf("Email = %q", settings.Email)
	}
	want := models.PrivacyFilter{Keywords: []string{"standup"}, Emails: []string{"boss@example.com"}}
	if got := settings.FilterFor("gcalendar"); !reflect.DeepEqual(got, want) {
		t.Errorf("FilterFor(gcalendar) = %+v; want %+v", got, want)
	}
}

func TestGetUserSettings_EncryptedFields(t *testing.T) {
	c := crypto.New(vaultTestKey, vaultTestIV)
	piCipher, err := c.Encrypt(`{"timezone":"Europe/Berlin","email":"enc@example.com"}`)
	if err != nil {
		t.Fatalf("encrypt fixture: %v", err)
	}
	pfCipher, err := c.Encrypt(`{"notion":["internal"]}`)
	if err != nil {
		t.Fatalf("encrypt fixture: %v", err)
	}
	piField, _ := json.Marshal(piCipher)
	pfField, _ := json.Marshal(pfCipher)

	svc := NewSettingsService(
		&fakeSettingsRepository{personalInfo: piField, privacyFilters: pfField, found: true},
		NewFieldDecryptor(c, true),
	)

	settings, err := svc.GetUserSettings(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.Timezone != "Europe/Berlin" {
		t.Errorf("Timezone = %q", settings.Timezone)
	}
	if settings.Email != "enc@example.com" {
		t.Errorf("Email = %q", settings.Email)
	}
	// Per-integration legacy list normalizes to the canonical shape.
	want := models.PrivacyFilter{Keywords: []string{"internal"}, Emails: []string{}}
	if got := settings.FilterFor("notion"); !reflect.DeepEqual(got, want) {
		t.Errorf("FilterFor(notion) = %+v; want %+v", got, want)
	}
}

func TestGetUserSettings_TolerantDecryptFallback(t *testing.T) {
	// The stored value looks like ciphertext but will not decrypt;
	// the raw value must pass through rather than fail the request.
	svc := NewSettingsService(
		&fakeSettingsRepository{
			personalInfo:   json.RawMessage(`"bm90LXJlYWwtY2lwaGVydGV4dA=="`),
			privacyFilters: json.RawMessage(`["spam","promo"]`),
			found:          true,
		},
		NewFieldDecryptor(crypto.New(vaultTestKey, vaultTestIV), true),
	)

	settings, err := svc.GetUserSettings(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Undecipherable personalInfo degrades to defaults.
	if settings.Timezone != "UTC" {
		t.Errorf("Timezone = %q; want UTC", settings.Timezone)
	}
}

func TestGetUserSettings_LegacyGlobalFilterList(t *testing.T) {
	svc := NewSettingsService(
		&fakeSettingsRepository{
			privacyFilters: json.RawMessage(`["spam","promo"]`),
			found:          true,
		},
		NewFieldDecryptor(crypto.New("", ""), false),
	)

	settings, err := svc.GetUserSettings(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := models.PrivacyFilter{Keywords: []string{"spam", "promo"}, Emails: []string{}}
	if got := settings.PrivacyFilters[models.GlobalFilterKey]; !reflect.DeepEqual(got, want) {
		t.Errorf("global filter = %+v; want %+v", got, want)
	}
	// The global filter applies to any integration that lacks its own.
	if got := settings.FilterFor("gcalendar"); !reflect.DeepEqual(got, want) {
		t.Errorf("FilterFor(gcalendar) = %+v; want %+v", got, want)
	}
}

func TestGetUserSettings_RepositoryError(t *testing.T) {
	svc := NewSettingsService(
		&fakeSettingsRepository{err: errors.New("db down")},
		NewFieldDecryptor(crypto.New("", ""), false),
	)

	_, err := svc.GetUserSettings(context.Background(), "u1")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestNormalizePrivacyFilter(t *testing.T) {
	got := models.NormalizePrivacyFilter(json.RawMessage(`["spam","promo"]`))
	want := models.PrivacyFilter{Keywords: []string{"spam", "promo"}, Emails: []string{}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("legacy list = %+v; want %+v", got, want)
	}

	got = models.NormalizePrivacyFilter(json.RawMessage(`{"keywords":["a"],"emails":["b@c.d"]}`))
	want = models.PrivacyFilter{Keywords: []string{"a"}, Emails: []string{"b@c.d"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("current shape = %+v; want %+v", got, want)
	}

	got = models.NormalizePrivacyFilter(json.RawMessage(`42`))
	want = models.PrivacyFilter{Keywords: []string{}, Emails: []string{}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("junk input = %+v; want %+v", got, want)
	}
}
