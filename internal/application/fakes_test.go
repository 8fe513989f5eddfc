package application_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-auth-system/internal/domain/entity"
	repo "github.com/oksasatya/go-auth-system/internal/domain/repository"
)

// fakeUserRepo is an in-memory repo.UserRepository for service tests.
type fakeUserRepo struct {
	users map[string]*entity.User // keyed by ID

	createErr error
	lookupErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	if f.lookupErr != nil {
		return false, f.lookupErr
	}
	for _, u := range f.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	if f.lookupErr != nil {
		return false, f.lookupErr
	}
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	u, ok := f.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
	return nil
}

// fakeTokenRepo is an in-memory repo.ResetTokenRepository. Replace and Consume
// mirror the atomic semantics of the Postgres implementation.
type fakeTokenRepo struct {
	tokens map[string]*entity.PasswordResetToken // keyed by token value
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]*entity.PasswordResetToken)}
}

func (f *fakeTokenRepo) Replace(_ context.Context, t *entity.PasswordResetToken) error {
	for v, existing := range f.tokens {
		if existing.UserID == t.UserID {
			delete(f.tokens, v)
		}
	}
	t.ID = uuid.NewString()
	t.CreatedAt = time.Now()
	cp := *t
	f.tokens[t.Token] = &cp
	return nil
}

func (f *fakeTokenRepo) GetByTokenAndUser(_ context.Context, token, userID string) (*entity.PasswordResetToken, error) {
	if t, ok := f.tokens[token]; ok && t.UserID == userID {
		cp := *t
		return &cp, nil
	}
	return nil, repo.ErrNotFound
}

func (f *fakeTokenRepo) Consume(_ context.Context, token, userID string) (bool, error) {
	t, ok := f.tokens[token]
	if !ok || t.UserID != userID || t.Expired(time.Now()) {
		return false, nil
	}
	delete(f.tokens, token)
	return true, nil
}

func (f *fakeTokenRepo) DeleteByToken(_ context.Context, token string) error {
	delete(f.tokens, token)
	return nil
}

func (f *fakeTokenRepo) DeleteByUser(_ context.Context, userID string) error {
	for v, t := range f.tokens {
		if t.UserID == userID {
			delete(f.tokens, v)
		}
	}
	return nil
}
