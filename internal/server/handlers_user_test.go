package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/folio/internal/models"
)

func TestUserMe_GetAndUpdate(t *testing.T) {
	srv := newTestServer(t)
	token := signup(t, srv, "me@example.com", "longenough")

	rec := do(t, srv, http.MethodGet, "/api/users/me", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	var me map[string]interface{}
	decode(t, rec, &me)
	assert.Equal(t, "me@example.com", me["email"])
	assert.Equal(t, "", me["display_currency"])

	rec = do(t, srv, http.MethodPut, "/api/users/me", jsonBody(t, map[string]string{
		"name":             "Renamed",
		"display_currency": "eur",
	}), token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &me)
	assert.Equal(t, "Renamed", me["name"])
	assert.Equal(t, "EUR", me["display_currency"])

	// The preference flows into computed views
	rec = do(t, srv, http.MethodGet, "/api/portfolio/overview", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	var overview models.PortfolioOverview
	decode(t, rec, &overview)
	assert.Equal(t, "EUR", overview.Currency)

	// Clearing falls back to the market currency
	rec = do(t, srv, http.MethodPut, "/api/users/me", jsonBody(t, map[string]string{"display_currency": ""}), token)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &me)
	assert.Equal(t, "", me["display_currency"])
}

func TestUserMe_UnknownCurrency(t *testing.T) {
	srv := newTestServer(t)
	token := signup(t, srv, "cur@example.com", "longenough")

	rec := do(t, srv, http.MethodPut, "/api/users/me", jsonBody(t, map[string]string{"display_currency": "XYZ"}), token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserMe_RequiresAuth(t *testing.T) {
	srv := newTestServer(t)
	rec := do(t, srv, http.MethodGet, "/api/users/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserMe_DeleteRemovesData(t *testing.T) {
	srv := newTestServer(t)
	token := signup(t, srv, "del@example.com", "longenough")

	rec := do(t, srv, http.MethodPost, "/api/portfolio/holdings", jsonBody(t, models.Holding{Symbol: "AAPL", Shares: 1, PurchasePrice: 100}), token)
	require.Equal(t, http.StatusCreated, rec.Code)

	store := srv.app.Storage.InternalStore()
	user, err := store.GetUserByEmail(context.Background(), "del@example.com")
	require.NoError(t, err)

	rec = do(t, srv, http.MethodDelete, "/api/users/me", nil, token)
	require.Equal(t, http.StatusNoContent, rec.Code)

	_, err = store.GetUser(context.Background(), user.UserID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = srv.app.Storage.UserDataStore().Get(context.Background(), user.UserID, models.SubjectPortfolio, models.DefaultRecordKey)
	assert.ErrorIs(t, err, models.ErrNotFound)

	history, err := srv.app.Storage.UserDataStore().List(context.Background(), user.UserID, models.SubjectPortfolioHistory)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestAdmin_ListUsersAndSetRole(t *testing.T) {
	srv := newTestServer(t)
	userToken := signup(t, srv, "plain@example.com", "longenough")
	adminToken := signup(t, srv, "boss@example.com", "longenough")

	ctx := context.Background()
	store := srv.app.Storage.InternalStore()
	boss, err := store.GetUserByEmail(ctx, "boss@example.com")
	require.NoError(t, err)
	boss.Role = models.RoleAdmin
	require.NoError(t, store.SaveUser(ctx, boss))

	rec := do(t, srv, http.MethodGet, "/api/admin/users", nil, userToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/admin/users", nil, adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var list struct {
		Count int `json:"count"`
	}
	decode(t, rec, &list)
	assert.Equal(t, 2, list.Count)

	plain, err := store.GetUserByEmail(ctx, "plain@example.com")
	require.NoError(t, err)

	rec = do(t, srv, http.MethodPut, "/api/admin/users/"+plain.UserID+"/role", jsonBody(t, map[string]string{"role": "superuser"}), adminToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodPut, "/api/admin/users/"+plain.UserID+"/role", jsonBody(t, map[string]string{"role": models.RoleAdmin}), adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	updated, err := store.GetUser(ctx, plain.UserID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role)

	rec = do(t, srv, http.MethodPut, "/api/admin/users/missing/role", jsonBody(t, map[string]string{"role": models.RoleUser}), adminToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
