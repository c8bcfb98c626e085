// Package local implements the identity provider and document store on an
// embedded SQLite database, for running without a hosted backend.
package local

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/crypto/bcrypt"

	// Pure Go SQLite driver, registered as "sqlite".
	_ "modernc.org/sqlite"

	"taskhub/internal/backend/authstate"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	uid           TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	fields     TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (collection, id)
);
`

// Options configures Open.
type Options struct {
	// Path is the SQLite database file.
	Path string

	// SessionPath is where the signed-in session is persisted.
	SessionPath string

	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int

	Logger *slog.Logger
}

// Backend owns the database shared by Store and Identity.
type Backend struct {
	db       *sql.DB
	store    *Store
	identity *Identity
}

// Open opens (creating if needed) the database at opts.Path.
func Open(opts Options) (*Backend, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("local backend: database path required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0700); err != nil {
		return nil, fmt.Errorf("local backend: create dir: %w", err)
	}
	db, err := sql.Open("sqlite", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("local backend: open %s: %w", opts.Path, err)
	}
	// A single connection serializes writers and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("local backend: migrate: %w", err)
	}

	identity, err := newIdentity(db, authstate.File{Path: opts.SessionPath}, cost, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("local backend opened", "path", opts.Path)
	return &Backend{
		db:       db,
		store:    &Store{db: db, log: logger},
		identity: identity,
	}, nil
}

// Store returns the document store.
func (b *Backend) Store() *Store { return b.store }

// Identity returns the identity provider.
func (b *Backend) Identity() *Identity { return b.identity }

// Close closes the database.
func (b *Backend) Close() error {
	return b.db.Close()
}
