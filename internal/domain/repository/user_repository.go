package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-auth-system/internal/domain/entity"
)

// ErrNotFound is returned by repositories when no row matches the lookup.
// Storage failures (connectivity etc.) are returned as distinct wrapped errors.
var ErrNotFound = errors.New("not found")

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}
