package httptransport

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/larabeech/guestgate/internal/ratelimit"
	"github.com/larabeech/guestgate/internal/transport/http/handler"
	"github.com/larabeech/guestgate/internal/transport/http/middleware"
	"github.com/larabeech/guestgate/internal/usecase"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(
	logger *slog.Logger,
	authHandler *handler.AuthHandler,
	guestHandler *handler.GuestHandler,
	settingsHandler *handler.SettingsHandler,
	sessions *usecase.SessionUsecase,
	limiter *ratelimit.Limiter,
	adminJWTKey []byte,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	loginLimit := middleware.RateLimit(limiter)
	sessionMW := middleware.Session(sessions)
	adminMW := middleware.Auth(adminJWTKey)

	// Public guest authentication routes
	auth := r.Group("/guest-auth")
	auth.POST("/email-match", loginLimit, authHandler.EmailMatch)
	auth.POST("/magic-link/request", loginLimit, authHandler.RequestMagicLink)
	auth.GET("/magic-link/verify", loginLimit, authHandler.VerifyMagicLink)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", sessionMW, authHandler.Me)

	// Admin routes
	admin := r.Group("/admin", adminMW)
	admin.POST("/guests", guestHandler.Create)
	admin.GET("/guests/:id", guestHandler.GetByID)
	admin.PATCH("/guests/:id", guestHandler.Update)
	admin.DELETE("/guests/:id", guestHandler.Delete)
	admin.GET("/settings/auth-method", settingsHandler.GetDefaultAuthMethod)
	admin.PUT("/settings/auth-method", settingsHandler.UpdateDefaultAuthMethod)

	return r
}
