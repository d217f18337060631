package common

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// GetUserIDFromContext extracts the authenticated caller's ID from the request
// context. The JWT middleware is the only writer.
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// WithUserID returns a context carrying the authenticated caller's ID.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}
