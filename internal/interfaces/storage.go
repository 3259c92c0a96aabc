// Package interfaces defines service contracts for Folio
package interfaces

import (
	"context"

	"github.com/bobmcallan/folio/internal/models"
)

// StorageManager coordinates all storage backends
type StorageManager interface {
	// Storage accessors
	InternalStore() InternalStore
	UserDataStore() UserDataStore

	// Backend returns the configured backend name ("sqlite" or "surrealdb").
	Backend() string

	// Lifecycle
	Close() error
}

// InternalStore manages user accounts, per-user config, and system-level KV.
type InternalStore interface {
	// User accounts. Lookups of missing users return an error wrapping models.ErrNotFound.
	GetUser(ctx context.Context, userID string) (*models.InternalUser, error)
	GetUserByEmail(ctx context.Context, email string) (*models.InternalUser, error)
	SaveUser(ctx context.Context, user *models.InternalUser) error
	DeleteUser(ctx context.Context, userID string) error
	ListUsers(ctx context.Context) ([]string, error)

	// Per-user key-value config
	GetUserKV(ctx context.Context, userID, key string) (*models.UserKeyValue, error)
	SetUserKV(ctx context.Context, userID, key, value string) error
	DeleteUserKV(ctx context.Context, userID, key string) error
	ListUserKV(ctx context.Context, userID string) ([]*models.UserKeyValue, error)

	// System key-value (non-user-scoped)
	GetSystemKV(ctx context.Context, key string) (string, error)
	SetSystemKV(ctx context.Context, key, value string) error

	Close() error
}

// UserDataStore manages all user domain data via generic records.
// Get returns an error wrapping models.ErrNotFound when the record does not exist.
type UserDataStore interface {
	Get(ctx context.Context, userID, subject, key string) (*models.UserRecord, error)
	Put(ctx context.Context, record *models.UserRecord) error
	Delete(ctx context.Context, userID, subject, key string) error
	List(ctx context.Context, userID, subject string) ([]*models.UserRecord, error)
	Query(ctx context.Context, userID, subject string, opts QueryOptions) ([]*models.UserRecord, error)
	Close() error
}

// QueryOptions configures query behavior for UserDataStore.
type QueryOptions struct {
	Limit   int
	OrderBy string // "datetime_desc" (default), "datetime_asc"
}
