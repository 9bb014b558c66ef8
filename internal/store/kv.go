package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// DefaultDBPath is the default database location.
const DefaultDBPath = "~/.mindwell/mindwell.db"

// KV is the host persistence boundary: a synchronous string key-value store
// scoped to the local device. The Store serializes each collection as one
// JSON document under its key, so there is no transactional guarantee
// across keys; collections are independently meaningful.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Close() error
}

// sqliteKV backs KV with a single-table SQLite database.
type sqliteKV struct {
	db *sql.DB
}

// OpenKV opens (or creates) the SQLite-backed KV at path.
// Pass ":memory:" for in-memory databases (testing).
func OpenKV(path string) (KV, error) {
	if path == "" {
		path = ExpandPath(DefaultDBPath)
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	schema := `CREATE TABLE IF NOT EXISTS collections (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &sqliteKV{db: db}, nil
}

func (s *sqliteKV) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM collections WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %q: %w", key, err)
	}
	return value, true, nil
}

func (s *sqliteKV) Set(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO collections (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("writing %q: %w", key, err)
	}
	return nil
}

func (s *sqliteKV) Close() error {
	return s.db.Close()
}

// memoryKV is an in-memory KV for tests and for degraded operation when the
// host store is unavailable: data survives only for the process lifetime.
type memoryKV struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemoryKV returns an empty in-memory KV.
func NewMemoryKV() KV {
	return &memoryKV{data: make(map[string]string)}
}

func (m *memoryKV) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memoryKV) Close() error {
	return nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
