package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// InternalStore implements interfaces.InternalStore on SQLite.
type InternalStore struct {
	db     *sql.DB
	logger *common.Logger
}

func NewInternalStore(db *sql.DB, logger *common.Logger) *InternalStore {
	return &InternalStore{db: db, logger: logger}
}

const userColumns = "user_id, email, name, password_hash, role, created_at, modified_at"

func scanUser(row *sql.Row) (*models.InternalUser, error) {
	var u models.InternalUser
	var created, modified string
	if err := row.Scan(&u.UserID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &created, &modified); err != nil {
		return nil, err
	}
	u.CreatedAt = parseTime(created)
	u.ModifiedAt = parseTime(modified)
	return &u, nil
}

func (s *InternalStore) GetUser(ctx context.Context, userID string) (*models.InternalUser, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE user_id = ?", userID)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user '%s': %w", userID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user '%s': %w", userID, err)
	}
	return u, nil
}

func (s *InternalStore) GetUserByEmail(ctx context.Context, email string) (*models.InternalUser, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE lower(email) = ? LIMIT 1", strings.ToLower(email))
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user with email '%s': %w", email, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

func (s *InternalStore) SaveUser(ctx context.Context, user *models.InternalUser) error {
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.ModifiedAt = now

	// created_at is preserved across overwrites
	_, err := s.db.ExecContext(ctx, `INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			email = excluded.email,
			name = excluded.name,
			password_hash = excluded.password_hash,
			role = excluded.role,
			modified_at = excluded.modified_at`,
		user.UserID, user.Email, user.Name, user.PasswordHash, user.Role,
		formatTime(user.CreatedAt), formatTime(user.ModifiedAt))
	if err != nil {
		return fmt.Errorf("failed to save user '%s': %w", user.UserID, err)
	}
	s.logger.Debug().Str("user_id", user.UserID).Msg("User saved")
	return nil
}

func (s *InternalStore) DeleteUser(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to delete user '%s': %w", userID, err)
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM user_kv WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to delete config for user '%s': %w", userID, err)
	}
	return nil
}

func (s *InternalStore) ListUsers(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT user_id FROM users ORDER BY user_id")
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// --- Per-user KV ---

func (s *InternalStore) GetUserKV(ctx context.Context, userID, key string) (*models.UserKeyValue, error) {
	kv := models.UserKeyValue{UserID: userID, Key: key}
	var dt string
	err := s.db.QueryRowContext(ctx, "SELECT value, version, datetime FROM user_kv WHERE user_id = ? AND key = ?", userID, key).
		Scan(&kv.Value, &kv.Version, &dt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user kv '%s': %w", key, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user kv '%s': %w", key, err)
	}
	kv.DateTime = parseTime(dt)
	return &kv, nil
}

func (s *InternalStore) SetUserKV(ctx context.Context, userID, key, value string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO user_kv (user_id, key, value, version, datetime) VALUES (?, ?, ?, 1, ?)
		ON CONFLICT (user_id, key) DO UPDATE SET
			value = excluded.value,
			version = user_kv.version + 1,
			datetime = excluded.datetime`,
		userID, key, value, formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("failed to set user kv '%s': %w", key, err)
	}
	return nil
}

func (s *InternalStore) DeleteUserKV(ctx context.Context, userID, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM user_kv WHERE user_id = ? AND key = ?", userID, key); err != nil {
		return fmt.Errorf("failed to delete user kv '%s': %w", key, err)
	}
	return nil
}

func (s *InternalStore) ListUserKV(ctx context.Context, userID string) ([]*models.UserKeyValue, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value, version, datetime FROM user_kv WHERE user_id = ? ORDER BY key", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user kv: %w", err)
	}
	defer rows.Close()

	var out []*models.UserKeyValue
	for rows.Next() {
		kv := &models.UserKeyValue{UserID: userID}
		var dt string
		if err := rows.Scan(&kv.Key, &kv.Value, &kv.Version, &dt); err != nil {
			return nil, fmt.Errorf("failed to scan user kv: %w", err)
		}
		kv.DateTime = parseTime(dt)
		out = append(out, kv)
	}
	return out, rows.Err()
}

// --- System KV ---

func (s *InternalStore) GetSystemKV(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM system_kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("system kv '%s': %w", key, models.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get system kv '%s': %w", key, err)
	}
	return value, nil
}

func (s *InternalStore) SetSystemKV(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO system_kv (key, value, datetime) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, datetime = excluded.datetime`,
		key, value, formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("failed to set system kv '%s': %w", key, err)
	}
	return nil
}

// Close is a no-op; the Manager owns the connection.
func (s *InternalStore) Close() error {
	return nil
}

// Compile-time check
var _ interfaces.InternalStore = (*InternalStore)(nil)
