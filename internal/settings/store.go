package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Provider is the boundary the pricing core depends on.
type Provider interface {
	Get(ctx context.Context) (Settings, error)
	Save(ctx context.Context, s Settings) (Settings, error)
}

// Store persists the settings as a singleton JSON row in pricing_settings.
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

// NewStore returns a Store backed by db. A nil logger disables logging.
func NewStore(db *sql.DB, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{db: db, log: log}
}

// EnsureDefault inserts the default settings row if none exists.
func (s *Store) EnsureDefault(ctx context.Context) error {
	raw, err := json.Marshal(Default())
	if err != nil {
		return fmt.Errorf("encode default pricing settings: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO pricing_settings (id, version, data_json)
		VALUES (1, 1, ?)
		ON CONFLICT(id) DO NOTHING
	`, string(raw)); err != nil {
		return fmt.Errorf("insert default pricing_settings: %w", err)
	}
	return nil
}

// Get loads the stored settings merged with the defaults.
func (s *Store) Get(ctx context.Context) (Settings, error) {
	if err := s.EnsureDefault(ctx); err != nil {
		return Settings{}, err
	}

	var raw string
	var version int
	err := s.db.QueryRowContext(ctx, `
		SELECT data_json, version
		FROM pricing_settings
		WHERE id = 1
	`).Scan(&raw, &version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Settings{}, fmt.Errorf("pricing_settings singleton not found")
		}
		return Settings{}, fmt.Errorf("query pricing_settings: %w", err)
	}

	merged, err := Merge([]byte(raw))
	if err != nil {
		s.log.Warn("stored pricing settings are unreadable, using defaults", zap.Error(err))
		merged = Default()
	}
	merged.Version = version

	return merged, nil
}

// Save validates next and replaces the stored record, bumping its version.
func (s *Store) Save(ctx context.Context, next Settings) (Settings, error) {
	if err := next.Validate(); err != nil {
		return Settings{}, err
	}
	if err := s.EnsureDefault(ctx); err != nil {
		return Settings{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Settings{}, fmt.Errorf("begin settings transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var version int
	if err := tx.QueryRowContext(ctx, `SELECT version FROM pricing_settings WHERE id = 1`).Scan(&version); err != nil {
		return Settings{}, fmt.Errorf("query pricing_settings version: %w", err)
	}

	saved := next.Clone()
	saved.Version = version + 1
	raw, err := json.Marshal(saved)
	if err != nil {
		return Settings{}, fmt.Errorf("encode pricing settings: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE pricing_settings
		SET
			version = ?,
			data_json = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = 1
	`, saved.Version, string(raw)); err != nil {
		return Settings{}, fmt.Errorf("update pricing_settings: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Settings{}, fmt.Errorf("commit settings transaction: %w", err)
	}

	s.log.Info("pricing settings saved", zap.Int("version", saved.Version))
	return saved, nil
}

// Static serves a fixed settings value. It backs the CLI when no database
// is configured and lets callers preview a draft before saving it.
type Static struct {
	Value Settings
}

// Get returns the wrapped settings.
func (s *Static) Get(context.Context) (Settings, error) {
	return s.Value.Clone(), nil
}

// Save validates next and keeps it in memory.
func (s *Static) Save(_ context.Context, next Settings) (Settings, error) {
	if err := next.Validate(); err != nil {
		return Settings{}, err
	}
	next = next.Clone()
	next.Version = s.Value.Version + 1
	s.Value = next
	return next.Clone(), nil
}
