package common

import (
	"context"
	"strings"
)

// UserContext holds the authenticated caller resolved by the HTTP middleware.
// Services read the user scope from here rather than from global state.
type UserContext struct {
	UserID          string
	Email           string
	Role            string
	DisplayCurrency string
}

type contextKey int

const userContextKey contextKey = iota

// WithUserContext stores a UserContext in the request context.
func WithUserContext(ctx context.Context, uc *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, uc)
}

// UserContextFromContext retrieves the UserContext from context, or nil if absent.
func UserContextFromContext(ctx context.Context) *UserContext {
	uc, _ := ctx.Value(userContextKey).(*UserContext)
	return uc
}

// ResolveUserID returns the UserID from context, or "default" when no user context is present.
// Used by services and storage operations that need a user scope.
func ResolveUserID(ctx context.Context) string {
	if uc := UserContextFromContext(ctx); uc != nil && uc.UserID != "" {
		return uc.UserID
	}
	return "default"
}

// ResolveDisplayCurrency returns the user's display currency if set, otherwise fallback.
func ResolveDisplayCurrency(ctx context.Context, fallback string) string {
	if uc := UserContextFromContext(ctx); uc != nil && uc.DisplayCurrency != "" {
		return strings.ToUpper(uc.DisplayCurrency)
	}
	return fallback
}
