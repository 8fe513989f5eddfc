package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-auth-system/internal/application"
	"github.com/oksasatya/go-auth-system/pkg/helpers"
	"github.com/oksasatya/go-auth-system/pkg/response"
	"github.com/oksasatya/go-auth-system/pkg/validation"
)

type AuthHandler struct {
	Registration *application.RegistrationService
	Auth         *application.AuthService
	Logger       *logrus.Logger
	Cookies      *helpers.CookieManager
}

func NewAuthHandler(reg *application.RegistrationService, auth *application.AuthService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		Registration: reg,
		Auth:         auth,
		Logger:       logger,
		Cookies:      helpers.NewCookie(cookieDomain, cookieSecure),
	}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,alphanum,min=3,max=32"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Registration.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrUsernameTaken), errors.Is(err, application.ErrEmailTaken):
			response.Error[any](c, http.StatusConflict, err.Error(), nil)
		case application.IsPolicyViolation(err):
			response.Error[any](c, http.StatusUnprocessableEntity, err.Error(), nil)
		default:
			helpers.LogError(h.Logger, "register failed", err, logrus.Fields{"username": req.Username})
			response.Error[any](c, http.StatusInternalServerError, "registration failed", nil)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"id":         u.ID,
		"username":   u.Username,
		"email":      u.Email,
		"created_at": u.CreatedAt,
	}, "account created", nil)
}

// Login POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	sess, err := h.Auth.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			response.Error[any](c, http.StatusUnauthorized, application.ErrInvalidCredentials.Error(), nil)
			return
		}
		helpers.LogError(h.Logger, "login failed", err, nil)
		response.Error[any](c, http.StatusInternalServerError, "login failed", nil)
		return
	}

	h.Cookies.SetSession(c, sess.Token, sess.ExpiresAt)
	response.Success(c, http.StatusOK, gin.H{
		"user_id":  sess.UserID,
		"username": sess.Username,
		"email":    sess.Email,
	}, "login successful", map[string]any{"expires_at": sess.ExpiresAt})
}

// Logout POST /api/logout (auth required)
func (h *AuthHandler) Logout(c *gin.Context) {
	username := c.GetString("username")
	if err := h.Auth.Logout(c.Request.Context(), username); err != nil {
		helpers.LogError(h.Logger, "logout failed", err, logrus.Fields{"username": username})
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

// Me GET /api/me (auth required)
func (h *AuthHandler) Me(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"user_id":  c.GetString("userID"),
		"username": c.GetString("username"),
		"email":    c.GetString("userEmail"),
	}, "session identity", nil)
}
