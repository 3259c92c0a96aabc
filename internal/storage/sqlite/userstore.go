package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// UserStore implements interfaces.UserDataStore on SQLite.
type UserStore struct {
	db     *sql.DB
	logger *common.Logger
}

func NewUserStore(db *sql.DB, logger *common.Logger) *UserStore {
	return &UserStore{db: db, logger: logger}
}

func (s *UserStore) Get(ctx context.Context, userID, subject, key string) (*models.UserRecord, error) {
	rec := models.UserRecord{UserID: userID, Subject: subject, Key: key}
	var dt string
	err := s.db.QueryRowContext(ctx,
		"SELECT value, version, datetime FROM user_data WHERE user_id = ? AND subject = ? AND key = ?",
		userID, subject, key).Scan(&rec.Value, &rec.Version, &dt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user record %s/%s: %w", subject, key, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user record %s/%s: %w", subject, key, err)
	}
	rec.DateTime = parseTime(dt)
	return &rec, nil
}

func (s *UserStore) Put(ctx context.Context, record *models.UserRecord) error {
	if record.DateTime.IsZero() {
		record.DateTime = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO user_data (user_id, subject, key, value, version, datetime) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, subject, key) DO UPDATE SET
			value = excluded.value,
			version = excluded.version,
			datetime = excluded.datetime`,
		record.UserID, record.Subject, record.Key, record.Value, record.Version, formatTime(record.DateTime))
	if err != nil {
		return fmt.Errorf("failed to put user record %s/%s: %w", record.Subject, record.Key, err)
	}
	return nil
}

func (s *UserStore) Delete(ctx context.Context, userID, subject, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM user_data WHERE user_id = ? AND subject = ? AND key = ?", userID, subject, key)
	if err != nil {
		return fmt.Errorf("failed to delete user record %s/%s: %w", subject, key, err)
	}
	return nil
}

func (s *UserStore) List(ctx context.Context, userID, subject string) ([]*models.UserRecord, error) {
	return s.selectRecords(ctx,
		"SELECT user_id, subject, key, value, version, datetime FROM user_data WHERE user_id = ? AND subject = ? ORDER BY key",
		userID, subject)
}

func (s *UserStore) Query(ctx context.Context, userID, subject string, opts interfaces.QueryOptions) ([]*models.UserRecord, error) {
	q := "SELECT user_id, subject, key, value, version, datetime FROM user_data WHERE user_id = ? AND subject = ?"
	if opts.OrderBy == "datetime_asc" {
		q += " ORDER BY datetime ASC, key ASC"
	} else {
		q += " ORDER BY datetime DESC, key DESC"
	}
	args := []any{userID, subject}
	if opts.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, opts.Limit)
	}
	return s.selectRecords(ctx, q, args...)
}

func (s *UserStore) selectRecords(ctx context.Context, q string, args ...any) ([]*models.UserRecord, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query user records: %w", err)
	}
	defer rows.Close()

	var out []*models.UserRecord
	for rows.Next() {
		rec := &models.UserRecord{}
		var dt string
		if err := rows.Scan(&rec.UserID, &rec.Subject, &rec.Key, &rec.Value, &rec.Version, &dt); err != nil {
			return nil, fmt.Errorf("failed to scan user record: %w", err)
		}
		rec.DateTime = parseTime(dt)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close is a no-op; the Manager owns the connection.
func (s *UserStore) Close() error {
	return nil
}

// Compile-time check
var _ interfaces.UserDataStore = (*UserStore)(nil)
