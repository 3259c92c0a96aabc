package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
)

const (
	tokenIssuer       = "folio-server"
	minPasswordLength = 8
)

// --- JWT helpers ---

// signJWT creates a signed HMAC-SHA256 JWT for the given user.
func signJWT(user *models.InternalUser, config *common.AuthConfig) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.UserID,
		"email": user.Email,
		"name":  user.Name,
		"role":  user.Role,
		"iss":   tokenIssuer,
		"iat":   now.Unix(),
		"exp":   now.Add(config.GetTokenExpiry()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.JWTSecret))
}

// validateJWT parses and validates a JWT token string using the given secret.
func validateJWT(tokenString string, secret []byte) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// writeTokenResponse returns the token envelope shared by signup and login.
func (s *Server) writeTokenResponse(w http.ResponseWriter, status int, user *models.InternalUser) {
	token, err := signJWT(user, &s.app.Config.Auth)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to sign JWT")
		WriteError(w, http.StatusInternalServerError, "failed to sign token")
		return
	}
	WriteJSON(w, status, map[string]interface{}{
		"status": "ok",
		"data": map[string]interface{}{
			"token":      token,
			"expires_in": int(s.app.Config.Auth.GetTokenExpiry().Seconds()),
			"user":       userResponse(user, nil),
		},
	})
}

// handleAuthSignup handles POST /api/auth/signup.
func (s *Server) handleAuthSignup(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	if !s.limiter.allow(r) {
		WriteError(w, http.StatusTooManyRequests, "too many attempts, try again later")
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		WriteError(w, http.StatusBadRequest, "a valid email is required")
		return
	}
	if len(req.Password) < minPasswordLength {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("password must be at least %d characters", minPasswordLength))
		return
	}

	ctx := r.Context()
	store := s.app.Storage.InternalStore()

	if _, err := store.GetUserByEmail(ctx, email); err == nil {
		WriteError(w, http.StatusConflict, "an account with this email already exists")
		return
	} else if !errors.Is(err, models.ErrNotFound) {
		s.logger.Error().Err(err).Msg("Failed to look up user by email")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	hash, err := common.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	user := &models.InternalUser{
		UserID:       uuid.New().String(),
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		Role:         models.RoleUser,
		CreatedAt:    time.Now(),
	}
	if err := store.SaveUser(ctx, user); err != nil {
		s.logger.Error().Err(err).Msg("Failed to save user")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.logger.Info().Str("user_id", user.UserID).Msg("User signed up")
	s.writeTokenResponse(w, http.StatusCreated, user)
}

// handleAuthLogin handles POST /api/auth/login.
func (s *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	if !s.limiter.allow(r) {
		WriteError(w, http.StatusTooManyRequests, "too many attempts, try again later")
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, err := s.app.Storage.InternalStore().GetUserByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil || !common.CheckPassword(user.PasswordHash, req.Password) {
		WriteError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	s.writeTokenResponse(w, http.StatusOK, user)
}

// handleAuthValidate handles POST /api/auth/validate.
func (s *Server) handleAuthValidate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost, http.MethodGet) {
		return
	}
	uc, ok := requireUser(w, r)
	if !ok {
		return
	}

	user, err := s.app.Storage.InternalStore().GetUser(r.Context(), uc.UserID)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "user not found")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data": map[string]interface{}{
			"valid": true,
			"user":  userResponse(user, nil),
		},
	})
}
