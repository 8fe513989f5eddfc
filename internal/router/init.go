package router

import (
	"github.com/oksasatya/go-auth-system/internal/application"
	"github.com/oksasatya/go-auth-system/internal/container"
	pginfra "github.com/oksasatya/go-auth-system/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/go-auth-system/internal/interface/http"
	"github.com/oksasatya/go-auth-system/internal/router/modules"
)

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()

	users := pginfra.NewUserRepository(container.GetPGPool())
	tokens := pginfra.NewResetTokenRepository(container.GetPGPool())

	registration := application.NewRegistrationService(users, container.GetLogger())
	auth := application.NewAuthService(users, container.GetJWT(), container.GetRedis(), container.GetLogger())
	passwords := application.NewPasswordService(users, tokens, cfg.ResetTokenTTL, container.GetLogger())

	authHandler := handlers.NewAuthHandler(registration, auth, container.GetLogger(), cfg.CookieDomain, cfg.CookieSecure)
	passwordHandler := handlers.NewPasswordHandler(passwords, users, container.GetLogger(), cfg, container.GetRabbitPub())

	r.Add(modules.NewAuthModule(authHandler, container.GetJWT()))
	r.Add(modules.NewPasswordModule(passwordHandler, container.GetJWT()))
}
