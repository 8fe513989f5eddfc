package application

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-auth-system/internal/domain/entity"
	repo "github.com/oksasatya/go-auth-system/internal/domain/repository"
	"github.com/oksasatya/go-auth-system/pkg/helpers"
)

// RegistrationService creates user accounts with hashed passwords, enforcing
// username and email uniqueness.
type RegistrationService struct {
	Users  repo.UserRepository
	Logger *logrus.Logger
}

func NewRegistrationService(users repo.UserRepository, logger *logrus.Logger) *RegistrationService {
	return &RegistrationService{Users: users, Logger: logger}
}

// Register creates a new account. Username is checked before email, so when
// both are taken only ErrUsernameTaken is reported. The raw password is
// policy-checked, bcrypt-hashed, and never persisted or logged in the clear.
func (s *RegistrationService) Register(ctx context.Context, username, email, rawPassword string) (*entity.User, error) {
	taken, err := s.Users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	taken, err = s.Users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	if err := ValidatePassword(rawPassword); err != nil {
		return nil, err
	}

	hash, err := helpers.HashPassword(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &entity.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "username": u.Username}).Info("user registered")
	}
	return u, nil
}
