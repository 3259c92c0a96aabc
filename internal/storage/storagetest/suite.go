// Package storagetest holds the behavioural test suites shared by every storage backend.
package storagetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// RunInternalStoreTests exercises an InternalStore implementation.
// newStore must return an empty, isolated store for each call.
func RunInternalStoreTests(t *testing.T, newStore func(t *testing.T) interfaces.InternalStore) {
	t.Run("GetUser", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		user := &models.InternalUser{
			UserID:       "testuser1",
			Email:        "test@example.com",
			Name:         "Test User",
			PasswordHash: "hash123",
			Role:         models.RoleUser,
			CreatedAt:    time.Now().Truncate(time.Second),
		}
		require.NoError(t, store.SaveUser(ctx, user))

		got, err := store.GetUser(ctx, "testuser1")
		require.NoError(t, err)
		assert.Equal(t, "testuser1", got.UserID)
		assert.Equal(t, "test@example.com", got.Email)
		assert.Equal(t, "Test User", got.Name)
		assert.Equal(t, "hash123", got.PasswordHash)
		assert.Equal(t, models.RoleUser, got.Role)
	})

	t.Run("GetUserNotFound", func(t *testing.T) {
		store := newStore(t)
		_, err := store.GetUser(context.Background(), "nonexistent")
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("GetUserByEmail", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.SaveUser(ctx, &models.InternalUser{UserID: "u-email", Email: "Mixed@Example.com", Role: models.RoleUser}))

		got, err := store.GetUserByEmail(ctx, "mixed@example.com")
		require.NoError(t, err)
		assert.Equal(t, "u-email", got.UserID)

		_, err = store.GetUserByEmail(ctx, "other@example.com")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("SaveUserOverwrite", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.SaveUser(ctx, &models.InternalUser{UserID: "ow", Email: "old@test.com", Role: models.RoleUser}))
		require.NoError(t, store.SaveUser(ctx, &models.InternalUser{UserID: "ow", Email: "new@test.com", Role: models.RoleAdmin}))

		got, err := store.GetUser(ctx, "ow")
		require.NoError(t, err)
		assert.Equal(t, "new@test.com", got.Email)
		assert.Equal(t, models.RoleAdmin, got.Role)
	})

	t.Run("DeleteUser", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.SaveUser(ctx, &models.InternalUser{UserID: "gone", Email: "gone@test.com"}))
		require.NoError(t, store.DeleteUser(ctx, "gone"))

		_, err := store.GetUser(ctx, "gone")
		assert.ErrorIs(t, err, models.ErrNotFound)

		// Deleting a missing user is not an error
		assert.NoError(t, store.DeleteUser(ctx, "ghost"))
	})

	t.Run("ListUsers", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		for _, id := range []string{"list_a", "list_b", "list_c"} {
			require.NoError(t, store.SaveUser(ctx, &models.InternalUser{UserID: id, Email: id + "@test.com"}))
		}

		users, err := store.ListUsers(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"list_a", "list_b", "list_c"}, users)
	})

	t.Run("UserKV", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		_, err := store.GetUserKV(ctx, "kvuser", "display_currency")
		assert.ErrorIs(t, err, models.ErrNotFound)

		require.NoError(t, store.SetUserKV(ctx, "kvuser", "display_currency", "USD"))
		require.NoError(t, store.SetUserKV(ctx, "kvuser", "display_currency", "EUR"))
		require.NoError(t, store.SetUserKV(ctx, "kvuser", "theme", "dark"))
		require.NoError(t, store.SetUserKV(ctx, "someone_else", "theme", "light"))

		kv, err := store.GetUserKV(ctx, "kvuser", "display_currency")
		require.NoError(t, err)
		assert.Equal(t, "kvuser", kv.UserID)
		assert.Equal(t, "EUR", kv.Value)

		kvs, err := store.ListUserKV(ctx, "kvuser")
		require.NoError(t, err)
		values := make(map[string]string)
		for _, kv := range kvs {
			values[kv.Key] = kv.Value
		}
		assert.Equal(t, map[string]string{"display_currency": "EUR", "theme": "dark"}, values)

		require.NoError(t, store.DeleteUserKV(ctx, "kvuser", "theme"))
		_, err = store.GetUserKV(ctx, "kvuser", "theme")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("SystemKV", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		_, err := store.GetSystemKV(ctx, "schema_version")
		assert.ErrorIs(t, err, models.ErrNotFound)

		require.NoError(t, store.SetSystemKV(ctx, "schema_version", "1"))
		require.NoError(t, store.SetSystemKV(ctx, "schema_version", "2"))

		val, err := store.GetSystemKV(ctx, "schema_version")
		require.NoError(t, err)
		assert.Equal(t, "2", val)
	})
}

// RunUserDataStoreTests exercises a UserDataStore implementation.
func RunUserDataStoreTests(t *testing.T, newStore func(t *testing.T) interfaces.UserDataStore) {
	t.Run("PutGet", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		record := &models.UserRecord{
			UserID:   "user1",
			Subject:  models.SubjectPortfolio,
			Key:      models.DefaultRecordKey,
			Value:    `{"stocks":[{"symbol":"AAPL","shares":10,"purchasePrice":150}],"investmentGoal":0,"targetDate":""}`,
			Version:  1,
			DateTime: time.Now().Truncate(time.Second),
		}
		require.NoError(t, store.Put(ctx, record))

		got, err := store.Get(ctx, "user1", models.SubjectPortfolio, models.DefaultRecordKey)
		require.NoError(t, err)
		assert.Equal(t, "user1", got.UserID)
		assert.Equal(t, models.SubjectPortfolio, got.Subject)
		assert.Equal(t, models.DefaultRecordKey, got.Key)
		assert.JSONEq(t, record.Value, got.Value)
		assert.Equal(t, 1, got.Version)
	})

	t.Run("GetNotFound", func(t *testing.T) {
		store := newStore(t)
		_, err := store.Get(context.Background(), "nobody", models.SubjectPortfolio, "nokey")
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("PutOverwrite", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		for v := 1; v <= 2; v++ {
			require.NoError(t, store.Put(ctx, &models.UserRecord{
				UserID:  "ow",
				Subject: models.SubjectPortfolio,
				Key:     models.DefaultRecordKey,
				Value:   fmt.Sprintf(`{"investmentGoal":%d}`, v*1000),
				Version: v,
			}))
		}

		got, err := store.Get(ctx, "ow", models.SubjectPortfolio, models.DefaultRecordKey)
		require.NoError(t, err)
		assert.Equal(t, 2, got.Version)
		assert.JSONEq(t, `{"investmentGoal":2000}`, got.Value)
	})

	t.Run("UsersAreIsolated", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.Put(ctx, &models.UserRecord{UserID: "alice", Subject: models.SubjectPortfolio, Key: models.DefaultRecordKey, Value: `{"a":1}`}))

		_, err := store.Get(ctx, "bob", models.SubjectPortfolio, models.DefaultRecordKey)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.Put(ctx, &models.UserRecord{UserID: "del", Subject: models.SubjectPortfolio, Key: models.DefaultRecordKey, Value: `{}`}))
		require.NoError(t, store.Delete(ctx, "del", models.SubjectPortfolio, models.DefaultRecordKey))

		_, err := store.Get(ctx, "del", models.SubjectPortfolio, models.DefaultRecordKey)
		assert.ErrorIs(t, err, models.ErrNotFound)

		assert.NoError(t, store.Delete(ctx, "del", models.SubjectPortfolio, "missing"))
	})

	t.Run("ListAndQuery", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 5; i++ {
			require.NoError(t, store.Put(ctx, &models.UserRecord{
				UserID:   "quser",
				Subject:  "portfolio_history",
				Key:      fmt.Sprintf("v%03d", i+1),
				Value:    fmt.Sprintf(`{"version":%d}`, i+1),
				Version:  i + 1,
				DateTime: base.Add(time.Duration(i) * 24 * time.Hour),
			}))
		}
		require.NoError(t, store.Put(ctx, &models.UserRecord{UserID: "quser", Subject: "other", Key: "x", Value: `{}`}))

		all, err := store.List(ctx, "quser", "portfolio_history")
		require.NoError(t, err)
		assert.Len(t, all, 5)

		desc, err := store.Query(ctx, "quser", "portfolio_history", interfaces.QueryOptions{})
		require.NoError(t, err)
		require.Len(t, desc, 5)
		assert.Equal(t, 5, desc[0].Version)
		assert.Equal(t, 1, desc[4].Version)

		asc, err := store.Query(ctx, "quser", "portfolio_history", interfaces.QueryOptions{OrderBy: "datetime_asc"})
		require.NoError(t, err)
		require.Len(t, asc, 5)
		assert.Equal(t, 1, asc[0].Version)

		limited, err := store.Query(ctx, "quser", "portfolio_history", interfaces.QueryOptions{Limit: 2})
		require.NoError(t, err)
		require.Len(t, limited, 2)
		assert.Equal(t, 5, limited[0].Version)
		assert.Equal(t, 4, limited[1].Version)
	})
}
