// Package apperr defines the typed errors surfaced by the credential
// and settings services, so callers can map them to user-facing
// responses without string matching.
package apperr

import "fmt"

// ConfigurationError indicates the process is missing or carrying
// malformed crypto configuration. It is fatal for every encrypt or
// decrypt call; there is no degraded mode.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// AuthenticationError indicates the request carried no usable identity.
type AuthenticationError struct {
	Reason string
}

func (e *AuthenticationError) Error() string {
	return "authentication failed: " + e.Reason
}

// UserNotFoundError indicates no profile exists for the given user on a
// strict (credential) path. Best-effort paths treat a missing profile
// as default settings instead.
type UserNotFoundError struct {
	UserID string
}

func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("user profile not found for user_id: %s", e.UserID)
}

// IntegrationNotConnectedError indicates the integration is absent, not
// connected, or has no stored credentials. This is user-actionable: the
// connect flow needs to be run again.
type IntegrationNotConnectedError struct {
	UserID      string
	Integration string
}

func (e *IntegrationNotConnectedError) Error() string {
	return fmt.Sprintf("%s integration not connected for user %s; re-run the connect flow", e.Integration, e.UserID)
}

// CredentialCorruptionError indicates a record marked connected failed
// to decrypt or validate. Unlike IntegrationNotConnectedError this
// points at a data or key-rotation problem and needs operator action.
type CredentialCorruptionError struct {
	Integration string
	Err         error
}

func (e *CredentialCorruptionError) Error() string {
	return fmt.Sprintf("corrupted credentials for %s integration: %v", e.Integration, e.Err)
}

func (e *CredentialCorruptionError) Unwrap() error {
	return e.Err
}
