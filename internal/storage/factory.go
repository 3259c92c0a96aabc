// Package storage selects and constructs the configured storage backend.
package storage

import (
	"fmt"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/storage/sqlite"
	"github.com/bobmcallan/folio/internal/storage/surrealdb"
)

// NewStorageManager creates a storage manager based on the configuration.
// Supported backends: "sqlite" (default), "surrealdb".
func NewStorageManager(logger *common.Logger, config *common.Config) (interfaces.StorageManager, error) {
	backend := config.Storage.Backend
	if backend == "" {
		backend = common.BackendSQLite
	}

	switch backend {
	case common.BackendSQLite:
		return sqlite.NewManager(logger, config.Storage.Path)

	case common.BackendSurrealDB:
		return surrealdb.NewManager(logger, config)

	default:
		return nil, fmt.Errorf("unknown storage backend: %s (supported: sqlite, surrealdb)", backend)
	}
}
