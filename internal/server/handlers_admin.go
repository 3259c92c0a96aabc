package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bobmcallan/folio/internal/models"
)

// requireAdmin checks that the caller has the admin role.
func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	uc, ok := requireUser(w, r)
	if !ok {
		return false
	}
	if uc.Role != models.RoleAdmin {
		WriteError(w, http.StatusForbidden, "Admin access required")
		return false
	}
	return true
}

// handleAdminListUsers handles GET /api/admin/users.
func (s *Server) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if !s.requireAdmin(w, r) {
		return
	}

	ctx := r.Context()
	store := s.app.Storage.InternalStore()

	ids, err := store.ListUsers(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list users")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	users := make([]map[string]interface{}, 0, len(ids))
	for _, id := range ids {
		user, err := store.GetUser(ctx, id)
		if err != nil {
			continue
		}
		users = append(users, userResponse(user, nil))
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"users": users,
		"count": len(users),
	})
}

// routeAdminUsers dispatches /api/admin/users/{id}/role.
func (s *Server) routeAdminUsers(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/admin/users/")
	userID, action, _ := strings.Cut(path, "/")
	if userID == "" || action != "role" {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}
	s.handleAdminSetRole(w, r, userID)
}

// handleAdminSetRole handles PUT /api/admin/users/{id}/role.
func (s *Server) handleAdminSetRole(w http.ResponseWriter, r *http.Request, userID string) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}
	if !s.requireAdmin(w, r) {
		return
	}

	var req struct {
		Role string `json:"role"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := models.ValidateRole(req.Role); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	store := s.app.Storage.InternalStore()

	user, err := store.GetUser(ctx, userID)
	if err != nil {
		WriteError(w, http.StatusNotFound, "user not found")
		return
	}

	user.Role = req.Role
	user.ModifiedAt = time.Now()
	if err := store.SaveUser(ctx, user); err != nil {
		s.logger.Error().Err(err).Msg("Failed to update role")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.logger.Info().Str("user_id", userID).Str("role", req.Role).Msg("User role updated")
	WriteJSON(w, http.StatusOK, userResponse(user, nil))
}
