package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-auth-system/internal/domain/entity"
	"github.com/oksasatya/go-auth-system/internal/domain/repository"
)

type ResetTokenRepository struct {
	db DB
}

func NewResetTokenRepository(db DB) *ResetTokenRepository {
	return &ResetTokenRepository{db: db}
}

// Replace runs delete-then-insert inside a single transaction so concurrent
// issue requests for the same user cannot leave two live tokens. The UNIQUE
// constraint on user_id backs the same invariant at the schema level.
func (r *ResetTokenRepository) Replace(ctx context.Context, t *entity.PasswordResetToken) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace token: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		DELETE FROM password_reset_tokens WHERE user_id = $1
	`, t.UserID); err != nil {
		return fmt.Errorf("delete stale token: %w", err)
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO password_reset_tokens (token, user_id, expiry_date)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, t.Token, t.UserID, t.ExpiryDate)
	if err := row.Scan(&t.ID, &t.CreatedAt); err != nil {
		return fmt.Errorf("insert token: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace token: %w", err)
	}
	return nil
}

func (r *ResetTokenRepository) GetByTokenAndUser(ctx context.Context, token, userID string) (*entity.PasswordResetToken, error) {
	t := &entity.PasswordResetToken{}

	row := r.db.QueryRow(ctx, `
		SELECT id, token, user_id, expiry_date, created_at
		FROM password_reset_tokens
		WHERE token = $1 AND user_id = $2
	`, token, userID)

	if err := row.Scan(&t.ID, &t.Token, &t.UserID, &t.ExpiryDate, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select token: %w", err)
	}

	return t, nil
}

// Consume is a single conditional delete, so only one of any number of
// concurrent resets can spend the token.
func (r *ResetTokenRepository) Consume(ctx context.Context, token, userID string) (bool, error) {
	res, err := r.db.Exec(ctx, `
		DELETE FROM password_reset_tokens
		WHERE token = $1 AND user_id = $2 AND expiry_date > now()
	`, token, userID)
	if err != nil {
		return false, fmt.Errorf("consume token: %w", err)
	}
	return res.RowsAffected() > 0, nil
}

func (r *ResetTokenRepository) DeleteByToken(ctx context.Context, token string) error {
	if _, err := r.db.Exec(ctx, `
		DELETE FROM password_reset_tokens WHERE token = $1
	`, token); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

func (r *ResetTokenRepository) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.db.Exec(ctx, `
		DELETE FROM password_reset_tokens WHERE user_id = $1
	`, userID); err != nil {
		return fmt.Errorf("delete tokens for user: %w", err)
	}
	return nil
}

var _ repository.ResetTokenRepository = (*ResetTokenRepository)(nil)
