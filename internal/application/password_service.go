package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-auth-system/internal/domain/entity"
	repo "github.com/oksasatya/go-auth-system/internal/domain/repository"
	"github.com/oksasatya/go-auth-system/pkg/helpers"
)

// PasswordService owns the password lifecycle: change-password for logged-in
// users and the forgot/reset flow with its single-use, time-limited tokens.
// It is the only component that mutates password hashes and reset tokens.
type PasswordService struct {
	Users         repo.UserRepository
	Tokens        repo.ResetTokenRepository
	ResetTokenTTL time.Duration
	Logger        *logrus.Logger
}

func NewPasswordService(users repo.UserRepository, tokens repo.ResetTokenRepository, resetTokenTTL time.Duration, logger *logrus.Logger) *PasswordService {
	return &PasswordService{
		Users:         users,
		Tokens:        tokens,
		ResetTokenTTL: resetTokenTTL,
		Logger:        logger,
	}
}

// ChangePassword updates the password of a logged-in user. Checks run in a
// fixed order: wrong current password, confirmation mismatch, new equals
// current, strength policy. The first failing check is the one reported.
func (s *PasswordService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword, confirmPassword string) error {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	if !helpers.CompareHashAndPassword(u.PasswordHash, currentPassword) {
		return ErrWrongCurrentPassword
	}
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}
	// Plaintext comparison, before hashing: two different hashes of the same
	// password would never match.
	if newPassword == currentPassword {
		return ErrSamePassword
	}
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Info("password changed")
	}
	return nil
}

// GenerateResetToken mints a fresh reset token for the account behind email
// and returns its raw value for out-of-band delivery. Any previous token for
// the same user is invalidated in the same atomic operation, so at most one
// live token exists per user.
func (s *PasswordService) GenerateResetToken(ctx context.Context, email string) (string, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrEmailNotFound
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}

	t := &entity.PasswordResetToken{
		Token:      uuid.NewString(),
		UserID:     u.ID,
		ExpiryDate: time.Now().Add(s.ResetTokenTTL),
	}
	if err := s.Tokens.Replace(ctx, t); err != nil {
		return "", fmt.Errorf("store reset token: %w", err)
	}

	if s.Logger != nil {
		// Token value is a secret; log the owner only.
		s.Logger.WithField("user_id", u.ID).Info("reset token issued")
	}
	return t.Token, nil
}

// ResetPassword sets a new password in exchange for a live reset token. The
// token is scoped to the account behind email: a valid token string presented
// with another user's email never matches. A successful reset consumes the
// token; an expired token is deleted on its first use-attempt so it can never
// linger as consumable.
func (s *PasswordService) ResetPassword(ctx context.Context, email, token, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrEmailNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	t, err := s.Tokens.GetByTokenAndUser(ctx, token, u.ID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("lookup reset token: %w", err)
	}

	if t.Expired(time.Now()) {
		if err := s.Tokens.DeleteByToken(ctx, t.Token); err != nil {
			return fmt.Errorf("delete expired token: %w", err)
		}
		return ErrResetTokenExpired
	}

	// Conditional delete; exactly one concurrent reset can win.
	ok, err := s.Tokens.Consume(ctx, token, u.ID)
	if err != nil {
		return fmt.Errorf("consume reset token: %w", err)
	}
	if !ok {
		return ErrInvalidResetToken
	}

	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Info("password reset completed")
	}
	return nil
}
