package repository

import (
	"context"

	"github.com/oksasatya/go-auth-system/internal/domain/entity"
)

// ResetTokenRepository defines the interface for password reset token storage.
//
// Replace and Consume are the two operations that must be atomic: Replace so
// that concurrent issue requests for the same user never leave two live
// tokens, Consume so that two concurrent resets can never both spend the same
// token.
type ResetTokenRepository interface {
	// Replace deletes any existing token for t.UserID and inserts t as the
	// user's single live token, as one atomic unit.
	Replace(ctx context.Context, t *entity.PasswordResetToken) error

	// GetByTokenAndUser looks a token up scoped to its owning user. A token
	// string that exists but belongs to another user yields ErrNotFound.
	GetByTokenAndUser(ctx context.Context, token, userID string) (*entity.PasswordResetToken, error)

	// Consume deletes the (token, user) row only if it has not yet expired.
	// It reports whether a row was actually consumed; false means the token
	// was already spent, replaced, or expired in the meantime.
	Consume(ctx context.Context, token, userID string) (bool, error)

	// DeleteByToken removes a token unconditionally (expired-token cleanup).
	DeleteByToken(ctx context.Context, token string) error

	// DeleteByUser removes the user's token if one exists; no-op otherwise.
	DeleteByUser(ctx context.Context, userID string) error
}
