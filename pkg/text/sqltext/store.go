// Package sqltext persists text entries in a SQL table and preloads them into
// a text.Catalog. Resolution never touches the database.
package sqltext

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-crudmeta/pkg/text"
)

// DefaultTable is the table used when no WithTable option is given.
const DefaultTable = "crud_texts"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Option customises a Store.
type Option func(*Store)

// WithTable overrides the table name.
func WithTable(name string) Option {
	return func(s *Store) {
		s.table = name
	}
}

// WithLogger attaches a structured logger. Defaults to zerolog.Nop().
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// Store reads and writes entries in a (locale, key, value) table.
type Store struct {
	db     *sql.DB
	table  string
	logger zerolog.Logger
}

// New wraps db.
func New(db *sql.DB, options ...Option) (*Store, error) {
	if db == nil {
		return nil, errors.New("sqltext: nil database")
	}
	s := &Store{db: db, table: DefaultTable, logger: zerolog.Nop()}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if !tableName.MatchString(s.table) {
		return nil, fmt.Errorf("sqltext: invalid table name %q", s.table)
	}
	return s, nil
}

// Migrate creates the table when missing.
func (s *Store) Migrate(ctx context.Context) error {
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	locale     TEXT NOT NULL,
	text_key   TEXT NOT NULL,
	text_value TEXT NOT NULL,
	PRIMARY KEY (locale, text_key)
)`, s.table)
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("sqltext: migrate %s: %w", s.table, err)
	}
	return nil
}

// Put inserts or replaces an entry. The locale is normalised.
func (s *Store) Put(ctx context.Context, entry text.Entry) error {
	stmt := fmt.Sprintf(`INSERT INTO %s (locale, text_key, text_value) VALUES (?, ?, ?)
ON CONFLICT (locale, text_key) DO UPDATE SET text_value = excluded.text_value`, s.table)
	if _, err := s.db.ExecContext(ctx, stmt, text.NormalizeLocale(entry.Locale), entry.Key, entry.Value); err != nil {
		return fmt.Errorf("sqltext: put %s/%s: %w", entry.Locale, entry.Key, err)
	}
	return nil
}

// Delete removes an entry; missing entries are not an error.
func (s *Store) Delete(ctx context.Context, locale, key string) error {
	stmt := fmt.Sprintf(`DELETE FROM %s WHERE locale = ? AND text_key = ?`, s.table)
	if _, err := s.db.ExecContext(ctx, stmt, text.NormalizeLocale(locale), key); err != nil {
		return fmt.Errorf("sqltext: delete %s/%s: %w", locale, key, err)
	}
	return nil
}

// List returns every entry ordered by locale and key.
func (s *Store) List(ctx context.Context) ([]text.Entry, error) {
	stmt := fmt.Sprintf(`SELECT locale, text_key, text_value FROM %s ORDER BY locale, text_key`, s.table)
	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("sqltext: list: %w", err)
	}
	defer rows.Close()

	var out []text.Entry
	for rows.Next() {
		var entry text.Entry
		if err := rows.Scan(&entry.Locale, &entry.Key, &entry.Value); err != nil {
			return nil, fmt.Errorf("sqltext: scan: %w", err)
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqltext: list: %w", err)
	}
	return out, nil
}

// Load copies every stored entry into catalog and returns how many were
// loaded.
func (s *Store) Load(ctx context.Context, catalog *text.Catalog) (int, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	for _, entry := range entries {
		catalog.Put(entry)
	}
	s.logger.Debug().Str("table", s.table).Int("entries", len(entries)).Msg("text entries loaded")
	return len(entries), nil
}

// Import writes every entry of catalog into the table inside one
// transaction.
func (s *Store) Import(ctx context.Context, catalog *text.Catalog) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqltext: begin: %w", err)
	}
	stmt := fmt.Sprintf(`INSERT INTO %s (locale, text_key, text_value) VALUES (?, ?, ?)
ON CONFLICT (locale, text_key) DO UPDATE SET text_value = excluded.text_value`, s.table)
	for _, entry := range catalog.All() {
		if _, err := tx.ExecContext(ctx, stmt, entry.Locale, entry.Key, entry.Value); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("sqltext: import %s/%s: %w", entry.Locale, entry.Key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqltext: commit: %w", err)
	}
	return nil
}
