package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/whisperbox/whisperbox-backend/internal/common"
	"github.com/whisperbox/whisperbox-backend/internal/config"
	"github.com/whisperbox/whisperbox-backend/internal/handler"
	"github.com/whisperbox/whisperbox-backend/internal/middleware"
	"github.com/whisperbox/whisperbox-backend/pkg/jwt"
)

// Handlers groups the HTTP handlers mounted by Setup
type Handlers struct {
	Message *handler.MessageHandler
	Inbox   *handler.InboxHandler
	Profile *handler.ProfileHandler
	Account *handler.AccountHandler
	Admin   *handler.AdminHandler
	WS      *handler.WSHandler
}

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	h Handlers,
	jwtManager *jwt.Manager,
	roles middleware.RoleChecker,
	redisClient *redis.Client,
	cfg *config.Config,
) {
	api := router.Group("/api/v1")
	requireAuth := middleware.JWTAuth(jwtManager)

	// Public profile pages and message submission
	profiles := api.Group("/profiles")
	profiles.GET("/:username", h.Profile.GetPublic)
	profiles.POST("/:username/messages",
		middleware.OptionalAuth(jwtManager),
		middleware.RateLimit(redisClient, middleware.RateLimitConfig{
			Requests:  cfg.Messages.RateLimit.Requests,
			Window:    cfg.Messages.RateLimit.Window,
			KeyPrefix: "whisperbox:ratelimit:submit:",
			Message:   "Too many messages. Please wait a moment before sending another.",
		}),
		h.Message.Submit,
	)

	// Authentication endpoints (no auth required)
	auth := api.Group("/auth")
	auth.Use(middleware.RateLimit(redisClient, middleware.RateLimitConfig{
		Requests:  20,
		KeyPrefix: "whisperbox:ratelimit:auth:",
	}))
	auth.POST("/signup", h.Account.Signup)
	auth.POST("/login", h.Account.Login)

	// Signed-in account
	me := api.Group("/me", requireAuth)
	me.GET("", h.Account.Me)
	me.PUT("/email", h.Account.ChangeEmail)
	me.PUT("/password", h.Account.ChangePassword)
	me.GET("/onboarding", h.Account.GetOnboarding)
	me.PUT("/onboarding", h.Account.SetOnboarding)

	me.GET("/profile", h.Profile.GetOwn)
	me.PUT("/profile", h.Profile.Update)
	me.GET("/profile-views", h.Profile.ViewCount)

	me.GET("/messages", h.Inbox.List)
	me.PATCH("/messages/:id/favorite", h.Inbox.ToggleFavorite)
	me.PATCH("/messages/:id/archive", h.Inbox.ToggleArchive)
	me.PATCH("/messages/:id/read", h.Inbox.ToggleRead)
	me.DELETE("/messages/:id", h.Inbox.Delete)
	me.GET("/stats", h.Inbox.Stats)

	// Moderation. OptionalAuth so anonymous callers reach the gate and get redirected.
	admin := api.Group("/admin", middleware.OptionalAuth(jwtManager), middleware.RequireAdminRole(roles))
	admin.GET("/messages", h.Admin.ListMessages)
	admin.DELETE("/messages/:id", h.Admin.DeleteMessage)
	admin.GET("/users", h.Admin.ListUsers)
	admin.DELETE("/users/:id", h.Admin.DeleteUser)
	admin.GET("/stats", h.Admin.Stats)

	// Live notifications
	router.GET("/ws", middleware.QueryTokenAuth(jwtManager), h.WS.Connect)

	router.NoRoute(func(c *gin.Context) {
		common.ErrorResponse(c, http.StatusNotFound, "Route not found", nil)
	})
}
