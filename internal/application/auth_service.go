package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	repo "github.com/oksasatya/go-auth-system/internal/domain/repository"
	"github.com/oksasatya/go-auth-system/pkg/helpers"
)

// AuthService verifies credentials and issues session tokens.
type AuthService struct {
	Users  repo.UserRepository
	JWT    *helpers.JWTManager
	Redis  *redis.Client
	Logger *logrus.Logger
}

func NewAuthService(users repo.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger) *AuthService {
	return &AuthService{Users: users, JWT: jwt, Redis: rdb, Logger: logger}
}

// Session is the credential returned on successful authentication.
type Session struct {
	Token     string
	ExpiresAt time.Time
	UserID    string
	Username  string
	Email     string
}

func sessionKey(username string) string {
	return "user:session:" + username
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Authenticate checks username/password and, on success, issues a session
// token and records the session in Redis. Any failure — unknown username or
// wrong password — returns ErrInvalidCredentials; a bcrypt comparison runs in
// both paths so the response does not leak which one it was.
func (s *AuthService) Authenticate(ctx context.Context, username, rawPassword string) (*Session, error) {
	u, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			helpers.BurnPasswordCheck(rawPassword)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, rawPassword) {
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.JWT.IssueSessionToken(u.Username)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("issue session token failed")
		}
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	if s.Redis != nil {
		fields := map[string]any{
			"user_id":    u.ID,
			"username":   u.Username,
			"email":      u.Email,
			"logged_in":  true,
			"created_at": nowRFC3339(),
		}
		key := sessionKey(u.Username)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, time.Until(exp))
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return &Session{
		Token:     token,
		ExpiresAt: exp,
		UserID:    u.ID,
		Username:  u.Username,
		Email:     u.Email,
	}, nil
}

// ValidateSession maps a session token back to its username. When Redis is
// configured the session record must still exist, so logout invalidates
// tokens before their expiry.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (string, error) {
	username, err := s.JWT.ValidateSessionToken(token)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if s.Redis != nil {
		n, rErr := s.Redis.Exists(ctx, sessionKey(username)).Result()
		if rErr != nil {
			return "", fmt.Errorf("check session: %w", rErr)
		}
		if n == 0 {
			return "", ErrInvalidCredentials
		}
	}
	return username, nil
}

// Logout drops the server-side session record. The token itself stays valid
// until expiry, but ValidateSession rejects it once the record is gone.
func (s *AuthService) Logout(ctx context.Context, username string) error {
	if s.Redis == nil {
		return nil
	}
	if err := s.Redis.Del(ctx, sessionKey(username)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
