package models

import (
	"fmt"
	"time"
)

// Account roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// ValidateRole returns an error unless role is one of the known roles.
func ValidateRole(role string) error {
	switch role {
	case RoleAdmin, RoleUser:
		return nil
	}
	return fmt.Errorf("invalid role %q: must be %q or %q", role, RoleAdmin, RoleUser)
}

// InternalUser represents a user account stored in the internal database.
// Preferences live in UserKeyValue entries.
type InternalUser struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"password_hash"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	ModifiedAt   time.Time `json:"modified_at"`
}
