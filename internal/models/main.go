// Package models defines the core data structures for user profiles,
// integrations, and notification preferences.
package models

import "encoding/json"

// UserProfile is the per-user document held by the external profile
// store. This service only ever reads it.
type UserProfile struct {
	// UserID is the unique identifier for the user.
	UserID string `json:"user_id"`
	// UserData holds the nested profile document.
	UserData UserData `json:"userData"`
}

// UserData is the nested body of a profile document. PersonalInfo and
// PrivacyFilters stay raw because encrypted deployments store them as
// ciphertext strings while plaintext deployments store objects; the
// decision is made at the decrypt boundary, not here.
type UserData struct {
	PersonalInfo   json.RawMessage              `json:"personalInfo,omitempty"`
	PrivacyFilters json.RawMessage              `json:"privacyFilters,omitempty"`
	Integrations   map[string]IntegrationRecord `json:"integrations,omitempty"`
	Preferences    Preferences                  `json:"preferences,omitempty"`
}

// IntegrationRecord tracks a single third-party integration for a user.
type IntegrationRecord struct {
	// Connected reports whether the connect flow completed. False or
	// absent means the integration is not usable.
	Connected bool `json:"connected"`
	// Credentials is the base64-encoded encrypted credential blob.
	Credentials string `json:"credentials,omitempty"`
}

// PersonalInfo is the decrypted shape of UserData.PersonalInfo.
type PersonalInfo struct {
	Name     string `json:"name,omitempty"`
	Timezone string `json:"timezone,omitempty"`
	Email    string `json:"email,omitempty"`
}

// PrivacyFilter is the canonical per-integration filter rule set.
type PrivacyFilter struct {
	Keywords []string `json:"keywords"`
	Emails   []string `json:"emails"`
}

// NormalizePrivacyFilter converts a stored filter value into the
// canonical shape. Legacy records store a flat list of keyword strings;
// current records store a {keywords, emails} object. Unrecognized input
// yields an empty filter.
func NormalizePrivacyFilter(raw json.RawMessage) PrivacyFilter {
	filter := PrivacyFilter{Keywords: []string{}, Emails: []string{}}
	if len(raw) == 0 {
		return filter
	}

	var keywords []string
	if err := json.Unmarshal(raw, &keywords); err == nil {
		filter.Keywords = keywords
		return filter
	}

	var current PrivacyFilter
	if err := json.Unmarshal(raw, &current); err == nil {
		if current.Keywords != nil {
			filter.Keywords = current.Keywords
		}
		if current.Emails != nil {
			filter.Emails = current.Emails
		}
	}
	return filter
}

// GlobalFilterKey is the map key used for a legacy profile-wide filter
// list once it has been normalized. FilterFor falls back to it when an
// integration has no filter of its own.
const GlobalFilterKey = "global"

// UserSettings is the derived per-user view served to tool requests.
type UserSettings struct {
	Timezone       string                   `json:"timezone"`
	Email          string                   `json:"email,omitempty"`
	PrivacyFilters map[string]PrivacyFilter `json:"privacy_filters"`
}

// FilterFor returns the privacy filter that applies to an integration,
// falling back to the profile-wide filter when no per-integration entry
// exists.
func (s UserSettings) FilterFor(integration string) PrivacyFilter {
	if f, ok := s.PrivacyFilters[integration]; ok {
		return f
	}
	if f, ok := s.PrivacyFilters[GlobalFilterKey]; ok {
		return f
	}
	return PrivacyFilter{Keywords: []string{}, Emails: []string{}}
}

// Preferences holds a user's notification preferences.
type Preferences struct {
	QuietHours QuietHours `json:"quietHours"`
	// NotificationControls maps a notification category to an enabled
	// flag. The key set is open: unknown categories are allowed and
	// only an explicit false suppresses.
	NotificationControls map[string]bool `json:"notificationControls,omitempty"`
}

// QuietHours is a daily do-not-disturb window in the user's local time.
// The window may span midnight (start > end).
type QuietHours struct {
	Enabled bool `json:"enabled"`
	// Start and End are local times of day in "15:04" form.
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
	// Timezone is an IANA zone name; invalid or empty falls back to UTC.
	Timezone string `json:"timezone,omitempty"`
}

// Notification categories produced by the task workers.
const (
	// CategoryTaskCompleted marks a task that finished successfully.
	CategoryTaskCompleted = "taskCompleted"
	// CategoryTaskFailed marks a task that finished with an error.
	CategoryTaskFailed = "taskFailed"
	// CategoryProactiveSuggestion marks an unprompted assistant suggestion.
	CategoryProactiveSuggestion = "proactive_suggestion"
	// CategoryGeneral is the default category for uncategorized messages.
	CategoryGeneral = "general"
)
