// Package settings stores the global site settings document: name,
// description, contact email, and the uploaded logo.
package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/allsetlabs/allset/internal/db"
)

// settingsKey is the constant row key of the singleton document.
const settingsKey = "site_settings"

// Settings is the global site settings document.
type Settings struct {
	SiteName        string `json:"siteName"`
	SiteDescription string `json:"siteDescription"`
	AdminEmail      string `json:"adminEmail,omitempty"`
	LogoPath        string `json:"logoPath,omitempty"`
}

// Store persists the settings document in the site_config table.
type Store struct {
	db       *db.DB
	defaults Settings
}

// NewStore creates a settings store. defaults fills the document when
// none has been saved yet.
func NewStore(database *db.DB, defaults Settings) *Store {
	return &Store{db: database, defaults: defaults}
}

// Get returns the stored settings, or the defaults when none exist.
func (s *Store) Get(ctx context.Context) (*Settings, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM site_config WHERE key = ?", settingsKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		out := s.defaults
		return &out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying site settings: %w", err)
	}

	var st Settings
	if err := json.Unmarshal([]byte(value), &st); err != nil {
		return nil, fmt.Errorf("decoding site settings: %w", err)
	}
	return &st, nil
}

// Save overwrites the settings document.
func (s *Store) Save(ctx context.Context, st Settings) error {
	value, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encoding site settings: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO site_config (key, value, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		settingsKey, string(value),
	)
	if err != nil {
		return fmt.Errorf("upserting site settings: %w", err)
	}
	return nil
}
