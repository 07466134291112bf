package siteconfig

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/allsetlabs/allset/internal/db"
	"github.com/allsetlabs/allset/internal/supabase"
)

// configKey is the constant row key of the singleton document.
const configKey = "site_config"

// Backend is the durable home of the singleton SiteConfig document.
type Backend interface {
	// Fetch reads the document. Returns ErrNotFound when it is missing.
	Fetch(ctx context.Context) (*SiteConfig, error)
	// Persist overwrites the document and stamps its last-modified time.
	Persist(ctx context.Context, cfg SiteConfig) error
}

// DBBackend stores the document in the local SQLite site_config table.
type DBBackend struct {
	db *db.DB
}

// NewDBBackend creates a backend over the given database.
func NewDBBackend(database *db.DB) *DBBackend {
	return &DBBackend{db: database}
}

func (b *DBBackend) Fetch(ctx context.Context) (*SiteConfig, error) {
	var value string
	err := b.db.QueryRowContext(ctx,
		"SELECT value FROM site_config WHERE key = ?", configKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying site config: %w", err)
	}

	var cfg SiteConfig
	if err := json.Unmarshal([]byte(value), &cfg); err != nil {
		return nil, fmt.Errorf("decoding site config: %w", err)
	}
	return &cfg, nil
}

func (b *DBBackend) Persist(ctx context.Context, cfg SiteConfig) error {
	value, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding site config: %w", err)
	}

	_, err = b.db.ExecContext(ctx, `
		INSERT INTO site_config (key, value, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		configKey, string(value),
	)
	if err != nil {
		return fmt.Errorf("upserting site config: %w", err)
	}
	return nil
}

// RestBackend stores the document in the hosted database's site_config
// table, reached over its REST endpoint.
type RestBackend struct {
	client *supabase.Client
}

// NewRestBackend creates a backend over the given REST client.
func NewRestBackend(client *supabase.Client) *RestBackend {
	return &RestBackend{client: client}
}

func (b *RestBackend) Fetch(ctx context.Context) (*SiteConfig, error) {
	raw, err := b.client.SelectSingle(ctx, "site_config", "key", configKey, "value")
	if errors.Is(err, supabase.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var row struct {
		Value SiteConfig `json:"value"`
	}
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, fmt.Errorf("decoding site config row: %w", err)
	}
	return &row.Value, nil
}

// Persist patches the existing row; when no row matched (first write
// against a fresh table) it falls back to an upsert that creates it.
func (b *RestBackend) Persist(ctx context.Context, cfg SiteConfig) error {
	stamp := time.Now().UTC().Format(time.RFC3339)

	n, err := b.client.Update(ctx, "site_config", "key", configKey, map[string]any{
		"value":      cfg,
		"updated_at": stamp,
	})
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	rows := []map[string]any{{
		"key":        configKey,
		"value":      cfg,
		"updated_at": stamp,
	}}
	return b.client.Upsert(ctx, "site_config", rows, "key")
}

// UnavailableBackend is used when the hosted database is not configured:
// reads degrade to the fallback config, writes hard-fail.
type UnavailableBackend struct{}

// ErrRemoteUnconfigured signals that the hosted database env values are
// absent. Read paths treat it like a missing document; write paths
// surface it.
var ErrRemoteUnconfigured = errors.New("hosted database not configured: set ALLSET_SUPABASE_URL and ALLSET_SUPABASE_KEY")

func (UnavailableBackend) Fetch(ctx context.Context) (*SiteConfig, error) {
	return nil, ErrRemoteUnconfigured
}

func (UnavailableBackend) Persist(ctx context.Context, cfg SiteConfig) error {
	return ErrRemoteUnconfigured
}
