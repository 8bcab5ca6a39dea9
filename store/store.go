// Package store persists finished matches and answers the reporting queries.
//
// Three tables are kept: players (win/tie/loss tallies), games (one row per
// finished match) and words (every unique, illegal and shared word of a game,
// keyed by the player's slot so that two players with the same name stay apart).
// SQLite (mattn/go-sqlite3) is the default backend; Postgres (lib/pq) is
// supported with the same schema.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// Supported drivers.
const (
	SQLite   = "sqlite3"
	Postgres = "postgres"
)

// ErrNotFound is returned when a requested game does not exist.
var ErrNotFound = errors.New("not found")

// ErrUnsupportedDriver is returned by Open for drivers other than SQLite and Postgres.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

var schema = []string{
	`CREATE TABLE IF NOT EXISTS players (
		name TEXT PRIMARY KEY,
		won  INTEGER NOT NULL DEFAULT 0,
		tied INTEGER NOT NULL DEFAULT 0,
		lost INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS games (
		id         TEXT PRIMARY KEY,
		player1    TEXT NOT NULL REFERENCES players(name),
		player2    TEXT NOT NULL REFERENCES players(name),
		score1     INTEGER NOT NULL,
		score2     INTEGER NOT NULL,
		board      TEXT NOT NULL,
		time_limit INTEGER NOT NULL,
		played_at  TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS words (
		game_id TEXT NOT NULL REFERENCES games(id),
		slot    INTEGER NOT NULL,
		player  TEXT NOT NULL,
		word    TEXT NOT NULL,
		kind    TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS words_game_id ON words(game_id)`,
}

// Store is a relational result store. It is safe for concurrent use.
type Store struct {
	db     *sql.DB
	driver string
}

// Open connects to the database and creates missing tables.
// For SQLite, dsn is a file path whose parent directory is created if needed.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	var (
		db  *sql.DB
		err error
	)

	switch driver {
	case SQLite:
		db, err = openSQLite(dsn)
	case Postgres:
		db, err = sql.Open(Postgres, dsn)
	default:
		return nil, errors.Wrap(ErrUnsupportedDriver, driver)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", driver)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "ping %s", driver)
	}

	s := &Store{db: db, driver: driver}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func openSQLite(dsn string) (*sql.DB, error) {
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "mkdir %s", dir)
		}
	}

	return sql.Open(SQLite, dsn+"?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on")
}

func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "create schema")
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// rebind rewrites ? placeholders as $1, $2, ... for Postgres.
func (s *Store) rebind(query string) string {
	if s.driver != Postgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
