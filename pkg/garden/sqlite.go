package garden

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps entries in a single-file SQLite database. It is the
// durable backend for gardens too large to live comfortably in one YAML
// file.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS entries (
	id       TEXT PRIMARY KEY,
	word     TEXT NOT NULL,
	language TEXT NOT NULL DEFAULT '',
	mode     TEXT NOT NULL DEFAULT '',
	notes    TEXT NOT NULL DEFAULT '',
	saved_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS entries_saved_at ON entries (saved_at DESC);
`

// NewSQLiteStore opens (creating if needed) the database at path. An
// empty path means ~/.config/etymon/garden.db.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		path = filepath.Join(dir, "etymon", "garden.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create garden dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open garden db: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init garden schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, word, language, mode, notes, saved_at FROM entries ORDER BY saved_at DESC, word ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, word, language, mode, notes, saved_at FROM entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	return e, err
}

func (s *SQLiteStore) Save(ctx context.Context, e Entry) error {
	if err := validateEntry(e); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO entries (id, word, language, mode, notes, saved_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			word = excluded.word, language = excluded.language,
			mode = excluded.mode, notes = excluded.notes,
			saved_at = excluded.saved_at`,
		e.ID, e.Word, e.Language, e.Mode, e.Notes, e.SavedAt.UTC().Format(time.RFC3339Nano))
	return err
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

// scanEntry reads one row; saved_at round-trips through RFC 3339 text.
func scanEntry(row interface{ Scan(...any) error }) (Entry, error) {
	var e Entry
	var savedAt string
	if err := row.Scan(&e.ID, &e.Word, &e.Language, &e.Mode, &e.Notes, &savedAt); err != nil {
		return Entry{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, savedAt)
	if err != nil {
		return Entry{}, fmt.Errorf("entry %s: bad saved_at %q: %w", e.ID, savedAt, err)
	}
	e.SavedAt = t
	return e, nil
}

var _ Store = (*SQLiteStore)(nil)
