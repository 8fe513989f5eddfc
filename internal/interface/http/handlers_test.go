package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-auth-system/internal/application"
	"github.com/oksasatya/go-auth-system/internal/domain/entity"
	repo "github.com/oksasatya/go-auth-system/internal/domain/repository"
	handlers "github.com/oksasatya/go-auth-system/internal/interface/http"
	"github.com/oksasatya/go-auth-system/internal/interface/middleware"
	"github.com/oksasatya/go-auth-system/pkg/helpers"
	"github.com/oksasatya/go-auth-system/pkg/validation"
)

type memUserRepo struct {
	users map[string]*entity.User
}

func (m *memUserRepo) Create(_ context.Context, u *entity.User) error {
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repo.ErrNotFound
}

func (m *memUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := m.GetByUsername(ctx, username)
	return err == nil, nil
}

func (m *memUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	return err == nil, nil
}

func (m *memUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	u, ok := m.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

type memTokenRepo struct {
	tokens map[string]*entity.PasswordResetToken
}

func (m *memTokenRepo) Replace(_ context.Context, t *entity.PasswordResetToken) error {
	for v, ex := range m.tokens {
		if ex.UserID == t.UserID {
			delete(m.tokens, v)
		}
	}
	t.ID = uuid.NewString()
	t.CreatedAt = time.Now()
	cp := *t
	m.tokens[t.Token] = &cp
	return nil
}

func (m *memTokenRepo) GetByTokenAndUser(_ context.Context, token, userID string) (*entity.PasswordResetToken, error) {
	if t, ok := m.tokens[token]; ok && t.UserID == userID {
		cp := *t
		return &cp, nil
	}
	return nil, repo.ErrNotFound
}

func (m *memTokenRepo) Consume(_ context.Context, token, userID string) (bool, error) {
	t, ok := m.tokens[token]
	if !ok || t.UserID != userID || t.Expired(time.Now()) {
		return false, nil
	}
	delete(m.tokens, token)
	return true, nil
}

func (m *memTokenRepo) DeleteByToken(_ context.Context, token string) error {
	delete(m.tokens, token)
	return nil
}

func (m *memTokenRepo) DeleteByUser(_ context.Context, userID string) error {
	for v, t := range m.tokens {
		if t.UserID == userID {
			delete(m.tokens, v)
		}
	}
	return nil
}

type testEnv struct {
	router    *gin.Engine
	users     *memUserRepo
	passwords *application.PasswordService
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	users := &memUserRepo{users: make(map[string]*entity.User)}
	tokens := &memTokenRepo{tokens: make(map[string]*entity.PasswordResetToken)}

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	jwt := helpers.NewJWTManager("test-secret", time.Hour)

	registration := application.NewRegistrationService(users, nil)
	auth := application.NewAuthService(users, jwt, rdb, nil)
	passwords := application.NewPasswordService(users, tokens, time.Hour, nil)

	authHandler := handlers.NewAuthHandler(registration, auth, nil, "localhost", false)
	passwordHandler := handlers.NewPasswordHandler(passwords, users, nil, nil, nil)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)
	api.POST("/password/forgot", passwordHandler.Forgot)
	api.POST("/password/reset", passwordHandler.Reset)

	protected := api.Group("/")
	protected.Use(middleware.Auth(rdb, jwt))
	{
		protected.POST("/logout", authHandler.Logout)
		protected.GET("/me", authHandler.Me)
		protected.POST("/password/change", passwordHandler.Change)
	}

	return &testEnv{router: r, users: users, passwords: passwords}
}

func (e *testEnv) do(method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) register(t *testing.T, username, email, password string) {
	t.Helper()
	w := e.do(http.MethodPost, "/api/register", gin.H{
		"username": username, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func (e *testEnv) login(t *testing.T, username, password string) *http.Cookie {
	t.Helper()
	w := e.do(http.MethodPost, "/api/login", gin.H{"username": username, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	for _, c := range w.Result().Cookies() {
		if c.Name == "session_token" {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestRegisterEndpoint(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		e := setup(t)
		w := e.do(http.MethodPost, "/api/register", gin.H{
			"username": "alice", "email": "alice@example.com", "password": "Wonderland1!",
		})
		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"username":"alice"`)
		assert.NotContains(t, w.Body.String(), "Wonderland1!")
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		e := setup(t)
		e.register(t, "alice", "alice@example.com", "Wonderland1!")
		w := e.do(http.MethodPost, "/api/register", gin.H{
			"username": "alice", "email": "new@example.com", "password": "Wonderland1!",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "username already exists")
	})

	t.Run("weak password unprocessable", func(t *testing.T) {
		e := setup(t)
		w := e.do(http.MethodPost, "/api/register", gin.H{
			"username": "alice", "email": "alice@example.com", "password": "abc12345",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "uppercase")
	})

	t.Run("malformed payload", func(t *testing.T) {
		e := setup(t)
		w := e.do(http.MethodPost, "/api/register", gin.H{"username": "alice"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLoginEndpoint(t *testing.T) {
	t.Run("sets session cookie", func(t *testing.T) {
		e := setup(t)
		e.register(t, "alice", "alice@example.com", "Wonderland1!")

		c := e.login(t, "alice", "Wonderland1!")
		assert.NotEmpty(t, c.Value)
		assert.True(t, c.HttpOnly)
	})

	t.Run("wrong password and unknown user get the same answer", func(t *testing.T) {
		e := setup(t)
		e.register(t, "alice", "alice@example.com", "Wonderland1!")

		w1 := e.do(http.MethodPost, "/api/login", gin.H{"username": "alice", "password": "Wrong1!pass"})
		w2 := e.do(http.MethodPost, "/api/login", gin.H{"username": "ghost", "password": "Wrong1!pass"})
		assert.Equal(t, http.StatusUnauthorized, w1.Code)
		assert.Equal(t, http.StatusUnauthorized, w2.Code)
		assert.Contains(t, w1.Body.String(), "invalid username or password")
		assert.Contains(t, w2.Body.String(), "invalid username or password")
	})
}

func TestProtectedEndpoints(t *testing.T) {
	t.Run("me requires a session", func(t *testing.T) {
		e := setup(t)
		w := e.do(http.MethodGet, "/api/me", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("me returns the session identity", func(t *testing.T) {
		e := setup(t)
		e.register(t, "alice", "alice@example.com", "Wonderland1!")
		c := e.login(t, "alice", "Wonderland1!")

		w := e.do(http.MethodGet, "/api/me", nil, c)
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"username":"alice"`)
		assert.Contains(t, w.Body.String(), `"email":"alice@example.com"`)
	})

	t.Run("logout kills the session", func(t *testing.T) {
		e := setup(t)
		e.register(t, "alice", "alice@example.com", "Wonderland1!")
		c := e.login(t, "alice", "Wonderland1!")

		w := e.do(http.MethodPost, "/api/logout", nil, c)
		assert.Equal(t, http.StatusOK, w.Code)

		w = e.do(http.MethodGet, "/api/me", nil, c)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestChangePasswordEndpoint(t *testing.T) {
	e := setup(t)
	e.register(t, "alice", "alice@example.com", "Wonderland1!")
	c := e.login(t, "alice", "Wonderland1!")

	t.Run("wrong current password", func(t *testing.T) {
		w := e.do(http.MethodPost, "/api/password/change", gin.H{
			"current_password": "Wrong1!pass",
			"new_password":     "NewSecret9?",
			"confirm_password": "NewSecret9?",
		}, c)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "current password is incorrect")
	})

	t.Run("success, then the new password logs in", func(t *testing.T) {
		w := e.do(http.MethodPost, "/api/password/change", gin.H{
			"current_password": "Wonderland1!",
			"new_password":     "NewSecret9?",
			"confirm_password": "NewSecret9?",
		}, c)
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = e.do(http.MethodPost, "/api/login", gin.H{"username": "alice", "password": "Wonderland1!"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		e.login(t, "alice", "NewSecret9?")
	})
}

func TestForgotAndResetEndpoints(t *testing.T) {
	t.Run("forgot with unknown email", func(t *testing.T) {
		e := setup(t)
		w := e.do(http.MethodPost, "/api/password/forgot", gin.H{"email": "nobody@example.com"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("forgot queues and never leaks the token", func(t *testing.T) {
		e := setup(t)
		e.register(t, "alice", "alice@example.com", "Wonderland1!")

		w := e.do(http.MethodPost, "/api/password/forgot", gin.H{"email": "alice@example.com"})
		assert.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

		var u *entity.User
		for _, x := range e.users.users {
			u = x
		}
		require.NotNil(t, u)
		// The raw token travels by email only; the body must not contain
		// anything token-shaped beyond the envelope fields.
		assert.NotContains(t, w.Body.String(), "token")
	})

	t.Run("reset with a live token", func(t *testing.T) {
		e := setup(t)
		e.register(t, "alice", "alice@example.com", "Wonderland1!")

		raw, err := e.passwords.GenerateResetToken(context.Background(), "alice@example.com")
		require.NoError(t, err)

		w := e.do(http.MethodPost, "/api/password/reset", gin.H{
			"email":            "alice@example.com",
			"token":            raw,
			"new_password":     "NewSecret9?",
			"confirm_password": "NewSecret9?",
		})
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

		// The token is single-use.
		w = e.do(http.MethodPost, "/api/password/reset", gin.H{
			"email":            "alice@example.com",
			"token":            raw,
			"new_password":     "Another9?x",
			"confirm_password": "Another9?x",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		e.login(t, "alice", "NewSecret9?")
	})

	t.Run("reset with a garbage token", func(t *testing.T) {
		e := setup(t)
		e.register(t, "alice", "alice@example.com", "Wonderland1!")

		w := e.do(http.MethodPost, "/api/password/reset", gin.H{
			"email":            "alice@example.com",
			"token":            "nope",
			"new_password":     "NewSecret9?",
			"confirm_password": "NewSecret9?",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid or expired reset token")
	})
}
