// Package schemacache persists downloaded item schema documents in a
// local SQLite database, keyed by schema version, so a restarted
// session does not re-download a multi-megabyte document the server
// already announced.
package schemacache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// Store wraps a SQLite database holding schema documents.
type Store struct {
	mu   sync.Mutex
	db   *sql.DB
	path string
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache %s: %w", dbPath, err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		log.Warn().Err(err).Msg("failed to enable WAL mode")
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("cache ping failed: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	versions, err := s.Versions()
	if err != nil {
		log.Warn().Err(err).Msg("failed to list cached schema versions")
	}
	log.Info().Str("path", dbPath).Uints32("versions", versions).Msg("schema cache opened")
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_documents (
			version    INTEGER PRIMARY KEY,
			url        TEXT NOT NULL,
			fetched_at TIMESTAMP NOT NULL,
			body       BLOB NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("failed to create schema_documents table: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the cached document body for a schema version, or
// (nil, nil) when the version is not cached.
func (s *Store) Get(version uint32) ([]byte, error) {
	var body []byte
	err := s.db.QueryRow(
		"SELECT body FROM schema_documents WHERE version = ?", version,
	).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read schema %d: %w", version, err)
	}
	return body, nil
}

// Put stores a document body for a schema version, replacing any
// previous body for that version.
func (s *Store) Put(version uint32, url string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO schema_documents (version, url, fetched_at, body) VALUES (?, ?, ?, ?)",
		version, url, time.Now().UTC(), body,
	)
	if err != nil {
		return fmt.Errorf("failed to store schema %d: %w", version, err)
	}
	return nil
}

// Prune deletes every cached document except the given version.
func (s *Store) Prune(keep uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM schema_documents WHERE version != ?", keep)
	if err != nil {
		return fmt.Errorf("failed to prune schema cache: %w", err)
	}
	return nil
}

// Versions lists the cached schema versions, newest first.
func (s *Store) Versions() ([]uint32, error) {
	rows, err := s.db.Query("SELECT version FROM schema_documents ORDER BY fetched_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list schema versions: %w", err)
	}
	defer rows.Close()

	var versions []uint32
	for rows.Next() {
		var v uint32
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}
