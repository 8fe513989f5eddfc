package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-auth-system/internal/container"
	handlers "github.com/oksasatya/go-auth-system/internal/interface/http"
	"github.com/oksasatya/go-auth-system/internal/interface/middleware"
	"github.com/oksasatya/go-auth-system/pkg/helpers"
)

// AuthModule wires account and session HTTP handlers into routes
// Public: POST /api/register, POST /api/login
// Protected: POST /api/logout, GET /api/me

type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/register", m.Handler.Register)
	rg.POST("/login", m.Handler.Login)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/me", m.Handler.Me)
	}
}
