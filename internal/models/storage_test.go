package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRecord_CarriesPortfolioDocument(t *testing.T) {
	doc := Portfolio{
		Stocks:         []Holding{{Symbol: "AAPL", Shares: 10, PurchasePrice: 150}},
		InvestmentGoal: 10000,
		TargetDate:     "2030-06-30",
	}
	value, err := json.Marshal(doc)
	require.NoError(t, err)

	rec := UserRecord{
		UserID:   "alice",
		Subject:  SubjectPortfolio,
		Key:      DefaultRecordKey,
		Value:    string(value),
		Version:  3,
		DateTime: time.Date(2025, 1, 1, 9, 30, 0, 0, time.UTC),
	}
	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "portfolio", raw["subject"])
	assert.Equal(t, "default", raw["key"])
	assert.Equal(t, "2025-01-01T09:30:00Z", raw["datetime"])
	assert.IsType(t, "", raw["value"], "document is stored as an encoded string")

	var back UserRecord
	require.NoError(t, json.Unmarshal(data, &back))
	var gotDoc Portfolio
	require.NoError(t, json.Unmarshal([]byte(back.Value), &gotDoc))
	assert.Equal(t, doc, gotDoc)
	assert.Equal(t, 3, back.Version)
}

func TestPortfolioSubjectsAreDistinct(t *testing.T) {
	assert.NotEqual(t, SubjectPortfolio, SubjectPortfolioHistory)
	assert.Equal(t, "portfolio_history", SubjectPortfolioHistory)
}

func TestUserKeyValue_JSONFields(t *testing.T) {
	data, err := json.Marshal(UserKeyValue{UserID: "alice", Key: "display_currency", Value: "EUR", Version: 2})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"user_id":"alice"`)
	assert.Contains(t, string(data), `"key":"display_currency"`)
	assert.Contains(t, string(data), `"value":"EUR"`)
}

func TestValidateRole(t *testing.T) {
	for _, role := range []string{RoleAdmin, RoleUser} {
		assert.NoError(t, ValidateRole(role), role)
	}
	for _, role := range []string{"", "Admin", "USER", "owner", " user"} {
		err := ValidateRole(role)
		require.Error(t, err, "role %q", role)
		assert.Contains(t, err.Error(), `"admin" or "user"`)
	}
}
