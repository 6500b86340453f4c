package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS uf_values (
	date       TEXT PRIMARY KEY,
	value      REAL NOT NULL,
	fetched_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_uf_values_fetched_at ON uf_values(fetched_at);
`

const sqliteUpsert = `
INSERT INTO uf_values (date, value, fetched_at) VALUES (?, ?, ?)
ON CONFLICT (date) DO UPDATE SET value = excluded.value, fetched_at = excluded.fetched_at`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, date string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT date, value, fetched_at FROM uf_values WHERE date = ?`,
		date,
	)

	var e Entry
	err := row.Scan(&e.Date, &e.Value, &e.FetchedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get %s", date)
	}
	return &e, nil
}

func (s *SQLiteStore) Put(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx, sqliteUpsert, e.Date, e.Value, fetchedAtOrNow(e))
	return eris.Wrapf(err, "sqlite: put %s", e.Date)
}

func (s *SQLiteStore) PutBatch(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin batch")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, sqliteUpsert)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare batch")
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.Date, e.Value, fetchedAtOrNow(e)); err != nil {
			return eris.Wrapf(err, "sqlite: batch put %s", e.Date)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit batch")
}

func (s *SQLiteStore) All(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, value, fetched_at FROM uf_values ORDER BY date ASC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list values")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Date, &e.Value, &e.FetchedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan value")
		}
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "sqlite: list values iterate")
}

func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM uf_values`).Scan(&n)
	return n, eris.Wrap(err, "sqlite: count values")
}

func fetchedAtOrNow(e Entry) time.Time {
	if e.FetchedAt.IsZero() {
		return time.Now().UTC()
	}
	return e.FetchedAt
}
