package app

import (
	"context"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
)

const schemaVersionKey = "schema_version"

// checkSchemaVersion records the current schema version in system KV.
// Returns true when the stored version differed (or was missing).
func checkSchemaVersion(ctx context.Context, store interfaces.InternalStore, logger *common.Logger) bool {
	stored, err := store.GetSystemKV(ctx, schemaVersionKey)
	if err == nil && stored == common.SchemaVersion {
		logger.Debug().
			Str("version", common.SchemaVersion).
			Msg("Schema version matches")
		return false
	}

	if err != nil {
		logger.Info().
			Str("current", common.SchemaVersion).
			Msg("Schema version not found, initializing")
	} else {
		logger.Warn().
			Str("stored", stored).
			Str("current", common.SchemaVersion).
			Msg("Schema version changed")
	}

	if err := store.SetSystemKV(ctx, schemaVersionKey, common.SchemaVersion); err != nil {
		logger.Error().Err(err).Msg("Failed to store schema version")
	}
	return true
}
