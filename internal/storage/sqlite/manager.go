// Package sqlite implements the storage interfaces on an embedded SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
)

// MemoryPath opens a private in-memory database. Used by tests and the CLI.
const MemoryPath = ":memory:"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id       TEXT PRIMARY KEY,
		email         TEXT NOT NULL DEFAULT '',
		name          TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL DEFAULT '',
		role          TEXT NOT NULL DEFAULT '',
		created_at    TEXT NOT NULL,
		modified_at   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_email ON users (lower(email))`,
	`CREATE TABLE IF NOT EXISTS user_kv (
		user_id  TEXT NOT NULL,
		key      TEXT NOT NULL,
		value    TEXT NOT NULL,
		version  INTEGER NOT NULL DEFAULT 1,
		datetime TEXT NOT NULL,
		PRIMARY KEY (user_id, key)
	)`,
	`CREATE TABLE IF NOT EXISTS system_kv (
		key      TEXT PRIMARY KEY,
		value    TEXT NOT NULL,
		datetime TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_data (
		user_id  TEXT NOT NULL,
		subject  TEXT NOT NULL,
		key      TEXT NOT NULL,
		value    TEXT NOT NULL,
		version  INTEGER NOT NULL DEFAULT 0,
		datetime TEXT NOT NULL,
		PRIMARY KEY (user_id, subject, key)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_user_data_datetime ON user_data (user_id, subject, datetime)`,
}

// Manager implements interfaces.StorageManager using SQLite.
type Manager struct {
	db     *sql.DB
	path   string
	logger *common.Logger

	internalStore *InternalStore
	userStore     *UserStore
}

// NewManager opens (creating if needed) the database at path and applies the schema.
func NewManager(logger *common.Logger, path string) (*Manager, error) {
	dsn := MemoryPath
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection serialises writers and keeps :memory: databases shared.
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	logger.Info().Str("path", path).Msg("SQLite storage manager initialized")

	return &Manager{
		db:            db,
		path:          path,
		logger:        logger,
		internalStore: NewInternalStore(db, logger),
		userStore:     NewUserStore(db, logger),
	}, nil
}

func (m *Manager) InternalStore() interfaces.InternalStore {
	return m.internalStore
}

func (m *Manager) UserDataStore() interfaces.UserDataStore {
	return m.userStore
}

func (m *Manager) Backend() string {
	return common.BackendSQLite
}

// Path returns the database file path.
func (m *Manager) Path() string {
	return m.path
}

func (m *Manager) Close() error {
	return m.db.Close()
}

// timeLayout is fixed width so that text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Compile-time check
var _ interfaces.StorageManager = (*Manager)(nil)
