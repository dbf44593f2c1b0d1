// Package repository provides read-only persistence access to the user
// profile document store.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/avetisov/toolhub/internal/models"
	"github.com/pkg/errors"
)

// PostgresProfileRepository reads profile documents from a PostgreSQL
// database. Profiles are written by the out-of-scope onboarding/OAuth
// flow; this repository never mutates them.
type PostgresProfileRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresProfileRepository creates a new PostgresProfileRepository
// with the given database connection.
func NewPostgresProfileRepository(db *sql.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{DB: db}
}

// FindByUserID fetches the full profile document for a user. A missing
// profile returns (nil, nil); callers decide whether that is an error
// for their path.
func (r *PostgresProfileRepository) FindByUserID(ctx context.Context, userID string) (*models.UserProfile, error) {
	var raw []byte
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT user_data FROM user_profiles WHERE user_id = $1`,
		userID,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "query user profile")
	}

	var data models.UserData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, errors.Wrap(err, "decode user profile document")
	}
	return &models.UserProfile{UserID: userID, UserData: data}, nil
}

// FindUserData fetches only the personalInfo and privacyFilters fields
// of a profile document, the projection used by the settings path.
// found is false when no profile exists.
func (r *PostgresProfileRepository) FindUserData(ctx context.Context, userID string) (personalInfo, privacyFilters json.RawMessage, found bool, err error) {
	var pi, pf []byte
	err = r.DB.QueryRowContext(
		ctx,
		`SELECT user_data->'personalInfo', user_data->'privacyFilters' FROM user_profiles WHERE user_id = $1`,
		userID,
	).Scan(&pi, &pf)
	if err == sql.ErrNoRows {
		return nil, nil, false, nil
	}
	if err != nil {
		return nil, nil, false, errors.Wrap(err, "query user data projection")
	}
	return json.RawMessage(pi), json.RawMessage(pf), true, nil
}
