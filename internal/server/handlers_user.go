package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/Rhymond/go-money"

	"github.com/bobmcallan/folio/internal/models"
)

// kvDisplayCurrency is the per-user KV key holding the preferred currency code.
const kvDisplayCurrency = "display_currency"

// userResponse builds a safe response from InternalUser + UserKV entries.
func userResponse(user *models.InternalUser, kvs []*models.UserKeyValue) map[string]interface{} {
	kvMap := kvToMap(kvs)
	return map[string]interface{}{
		"user_id":          user.UserID,
		"email":            user.Email,
		"name":             user.Name,
		"role":             user.Role,
		"display_currency": kvMap[kvDisplayCurrency],
		"created_at":       user.CreatedAt,
	}
}

func kvToMap(kvs []*models.UserKeyValue) map[string]string {
	m := make(map[string]string)
	for _, kv := range kvs {
		m[kv.Key] = kv.Value
	}
	return m
}

// handleUserMe handles GET/PUT/DELETE /api/users/me.
func (s *Server) handleUserMe(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete) {
		return
	}
	uc, ok := requireUser(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	store := s.app.Storage.InternalStore()

	user, err := store.GetUser(ctx, uc.UserID)
	if err != nil {
		WriteError(w, http.StatusNotFound, "user not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		kvs, _ := store.ListUserKV(ctx, user.UserID)
		WriteJSON(w, http.StatusOK, userResponse(user, kvs))

	case http.MethodPut:
		var req struct {
			Name            *string `json:"name"`
			DisplayCurrency *string `json:"display_currency"`
		}
		if !DecodeJSON(w, r, &req) {
			return
		}

		if req.DisplayCurrency != nil {
			code := strings.ToUpper(strings.TrimSpace(*req.DisplayCurrency))
			if code == "" {
				if err := store.DeleteUserKV(ctx, user.UserID, kvDisplayCurrency); err != nil {
					s.logger.Error().Err(err).Msg("Failed to clear display currency")
					WriteError(w, http.StatusInternalServerError, "Internal server error")
					return
				}
			} else {
				if money.GetCurrency(code) == nil {
					WriteError(w, http.StatusBadRequest, "unknown currency code: "+code)
					return
				}
				if err := store.SetUserKV(ctx, user.UserID, kvDisplayCurrency, code); err != nil {
					s.logger.Error().Err(err).Msg("Failed to store display currency")
					WriteError(w, http.StatusInternalServerError, "Internal server error")
					return
				}
			}
		}

		if req.Name != nil {
			user.Name = strings.TrimSpace(*req.Name)
			user.ModifiedAt = time.Now()
			if err := store.SaveUser(ctx, user); err != nil {
				s.logger.Error().Err(err).Msg("Failed to update user")
				WriteError(w, http.StatusInternalServerError, "Internal server error")
				return
			}
		}

		kvs, _ := store.ListUserKV(ctx, user.UserID)
		WriteJSON(w, http.StatusOK, userResponse(user, kvs))

	case http.MethodDelete:
		if err := s.app.PortfolioService.DeleteAll(ctx); err != nil {
			s.writeServiceError(w, err, nil)
			return
		}
		kvs, _ := store.ListUserKV(ctx, user.UserID)
		for _, kv := range kvs {
			if err := store.DeleteUserKV(ctx, user.UserID, kv.Key); err != nil {
				s.logger.Warn().Err(err).Str("key", kv.Key).Msg("Failed to delete user KV")
			}
		}
		if err := store.DeleteUser(ctx, user.UserID); err != nil {
			s.logger.Error().Err(err).Msg("Failed to delete user")
			WriteError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		s.logger.Info().Str("user_id", user.UserID).Msg("User deleted")
		w.WriteHeader(http.StatusNoContent)
	}
}
