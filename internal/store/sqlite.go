package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// OpenSQLite opens (creating if needed) the documents database shared by all
// SQLite-backed stores of the process.
func OpenSQLite(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS documents (
			key        TEXT PRIMARY KEY,
			body       TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize database: %w", err)
	}
	return db, nil
}

// SQLiteStore keeps one document as a row in the shared documents table.
type SQLiteStore struct {
	db  *sql.DB
	key string
}

func NewSQLiteStore(db *sql.DB, key string) *SQLiteStore {
	return &SQLiteStore{db: db, key: key}
}

func (s *SQLiteStore) Load() ([]byte, bool, error) {
	var body string
	err := s.db.QueryRow("SELECT body FROM documents WHERE key = ?", s.key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(body), true, nil
}

func (s *SQLiteStore) Save(data []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO documents (key, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at
	`, s.key, string(data), time.Now().UTC().Format(time.RFC3339))
	return err
}
