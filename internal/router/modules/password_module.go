package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-auth-system/internal/container"
	handlers "github.com/oksasatya/go-auth-system/internal/interface/http"
	"github.com/oksasatya/go-auth-system/internal/interface/middleware"
	"github.com/oksasatya/go-auth-system/pkg/helpers"
)

// PasswordModule wires the password lifecycle endpoints
// Public: POST /api/password/forgot, POST /api/password/reset
// Protected: POST /api/password/change

type PasswordModule struct {
	Handler *handlers.PasswordHandler
	JWT     *helpers.JWTManager
}

func NewPasswordModule(h *handlers.PasswordHandler, jwt *helpers.JWTManager) *PasswordModule {
	return &PasswordModule{Handler: h, JWT: jwt}
}

func (m *PasswordModule) Register(rg *gin.RouterGroup) {
	rg.POST("/password/forgot", m.Handler.Forgot)
	rg.POST("/password/reset", m.Handler.Reset)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	{
		auth.POST("/password/change", m.Handler.Change)
	}
}
