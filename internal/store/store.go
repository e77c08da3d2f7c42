package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// KV is the persistent on-device key-value store. Each logical entity owns a
// single key holding one JSON-encoded blob; writes are last-writer-wins and
// there is no transactionality across keys.
type KV struct {
	db *sql.DB
}

// Well-known keys. These match the storage keys of the mobile app so both
// clients can describe the same state.
const (
	KeySession      = "auth"
	KeyShoppingList = "shopping_list_local_v1"
)

// Open opens (or creates) the store at path and applies migrations.
func Open(path string) (*KV, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &KV{db: db}
	if err := s.migrate(); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *KV) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(query)
	return err
}

// Close closes the underlying database.
func (s *KV) Close() error {
	return s.db.Close()
}

// Get returns the value stored under key. The second result is false when the
// key has never been written (or has been deleted).
func (s *KV) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set writes value under key, replacing any previous value.
func (s *KV) Set(key, value string) error {
	query := `INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	_, err := s.db.Exec(query, key, value)
	return err
}

// Delete removes key. Deleting an absent key is not an error.
func (s *KV) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return err
}
