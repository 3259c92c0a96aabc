package app

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

const (
	breakglassUserID = "breakglass-admin"
	breakglassEmail  = "admin@folio.local"
)

// ensureBreakglassAdmin creates the break-glass admin user if it does not already exist.
// Returns the cleartext password if a new user was created, or "" if the user already exists.
func ensureBreakglassAdmin(ctx context.Context, store interfaces.InternalStore, logger *common.Logger) string {
	if _, err := store.GetUser(ctx, breakglassUserID); err == nil {
		logger.Info().Msg("Break-glass admin already exists")
		return ""
	}

	// 18 bytes -> 24 chars in base64
	buf := make([]byte, 18)
	if _, err := rand.Read(buf); err != nil {
		logger.Error().Err(err).Msg("Failed to generate random password for break-glass admin")
		return ""
	}
	password := base64.RawURLEncoding.EncodeToString(buf)

	hash, err := common.HashPassword(password)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to hash break-glass admin password")
		return ""
	}

	user := &models.InternalUser{
		UserID:       breakglassUserID,
		Email:        breakglassEmail,
		Name:         "Break-Glass Admin",
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		CreatedAt:    time.Now(),
	}
	if err := store.SaveUser(ctx, user); err != nil {
		logger.Error().Err(err).Msg("Failed to save break-glass admin user")
		return ""
	}

	logger.Warn().
		Str("email", breakglassEmail).
		Str("password", password).
		Msg("Break-glass admin created")

	return password
}
