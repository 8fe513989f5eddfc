package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-auth-system/config"
	"github.com/oksasatya/go-auth-system/internal/application"
	repo "github.com/oksasatya/go-auth-system/internal/domain/repository"
	"github.com/oksasatya/go-auth-system/pkg/helpers"
	"github.com/oksasatya/go-auth-system/pkg/mailer"
	tpl "github.com/oksasatya/go-auth-system/pkg/mailer/templates"
	"github.com/oksasatya/go-auth-system/pkg/response"
	"github.com/oksasatya/go-auth-system/pkg/validation"
)

type PasswordHandler struct {
	Passwords *application.PasswordService
	Users     repo.UserRepository
	Logger    *logrus.Logger
	Cfg       *config.Config
	Pub       *helpers.RabbitPublisher
}

func NewPasswordHandler(pw *application.PasswordService, users repo.UserRepository, logger *logrus.Logger, cfg *config.Config, pub *helpers.RabbitPublisher) *PasswordHandler {
	return &PasswordHandler{Passwords: pw, Users: users, Logger: logger, Cfg: cfg, Pub: pub}
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,pwd"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Token           string `json:"token" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,pwd"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// Change POST /api/password/change (auth required)
func (h *PasswordHandler) Change(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	userID := c.GetString("userID")
	err := h.Passwords.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrWrongCurrentPassword),
			errors.Is(err, application.ErrPasswordMismatch),
			errors.Is(err, application.ErrSamePassword):
			response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
		case application.IsPolicyViolation(err):
			response.Error[any](c, http.StatusUnprocessableEntity, err.Error(), nil)
		case errors.Is(err, application.ErrUserNotFound):
			response.Error[any](c, http.StatusNotFound, err.Error(), nil)
		default:
			helpers.LogError(h.Logger, "change password failed", err, logrus.Fields{"user_id": userID})
			response.Error[any](c, http.StatusInternalServerError, "change password failed", nil)
		}
		return
	}

	response.Success[any](c, http.StatusOK, gin.H{"changed": true}, "password updated", nil)
}

// Forgot POST /api/password/forgot
// Issues a fresh reset token and queues the reset email. The raw token leaves
// the system only through the email pipeline, never in the HTTP response.
func (h *PasswordHandler) Forgot(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	token, err := h.Passwords.GenerateResetToken(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, application.ErrEmailNotFound) {
			response.Error[any](c, http.StatusNotFound, err.Error(), nil)
			return
		}
		helpers.LogError(h.Logger, "generate reset token failed", err, nil)
		response.Error[any](c, http.StatusInternalServerError, "reset request failed", nil)
		return
	}

	h.enqueueResetEmail(c, req.Email, token)
	response.Success[any](c, http.StatusAccepted, gin.H{"queued": true}, "reset email queued", nil)
}

// Reset POST /api/password/reset
func (h *PasswordHandler) Reset(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	err := h.Passwords.ResetPassword(c.Request.Context(), req.Email, req.Token, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrPasswordMismatch),
			errors.Is(err, application.ErrInvalidResetToken):
			response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
		case errors.Is(err, application.ErrResetTokenExpired):
			response.Error[any](c, http.StatusGone, err.Error(), nil)
		case application.IsPolicyViolation(err):
			response.Error[any](c, http.StatusUnprocessableEntity, err.Error(), nil)
		case errors.Is(err, application.ErrEmailNotFound):
			response.Error[any](c, http.StatusNotFound, err.Error(), nil)
		default:
			helpers.LogError(h.Logger, "reset password failed", err, nil)
			response.Error[any](c, http.StatusInternalServerError, "reset password failed", nil)
		}
		return
	}

	response.Success[any](c, http.StatusOK, gin.H{"reset": true}, "password updated", nil)
}

func (h *PasswordHandler) enqueueResetEmail(c *gin.Context, email, token string) {
	if h.Pub == nil || h.Cfg == nil || !h.Cfg.MailSendEnabled {
		return
	}

	username := email
	if u, err := h.Users.GetByEmail(c.Request.Context(), email); err == nil {
		username = u.Username
	}

	link := h.Cfg.ResetPasswordURL + "?token=" + token
	job := mailer.EmailJob{
		To:       email,
		Template: tpl.ResetPassword,
		Data: map[string]any{
			"Username":    username,
			"ResetURL":    link,
			"ExpiresAt":   time.Now().Add(h.Cfg.ResetTokenTTL).UTC().Format("02 January 2006, 15:04 MST"),
			"SupportURL":  h.Cfg.SupportURL,
			"CompanyName": h.Cfg.CompanyName,
		},
	}
	if err := h.Pub.PublishJSON(c.Request.Context(), job); err != nil {
		helpers.LogError(h.Logger, "enqueue reset email failed", err, nil)
	}
}
