package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/vivemedellin/vivemedellin/config"
	"github.com/vivemedellin/vivemedellin/controllers"
	"github.com/vivemedellin/vivemedellin/middleware"
	"github.com/vivemedellin/vivemedellin/services"
	"github.com/vivemedellin/vivemedellin/utils"
)

// Services bundles what the HTTP layer needs.
type Services struct {
	Groups        *services.Service
	Users         *services.UserService
	Notifications *services.NotificationService
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(cfg config.AppConfig, svc Services) *gin.Engine {
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Request logs go to their own rolling file
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, true))
	} else {
		utils.Sugar.Warnf("gin logger unavailable, using default recovery: %v", err)
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		// credentials cannot be combined with a wildcard origin
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(svc.Users, time.Duration(cfg.TokenTTLHours)*time.Hour)
	groupController := controllers.NewGroupController(svc.Groups)
	postController := controllers.NewPostController(svc.Groups)
	notificationController := controllers.NewNotificationController(svc.Notifications)

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimitMiddleware(cfg.RateLimitPerMinute))

	authGroup := api.Group("/auth")
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	// Reads are open to anonymous callers, who only see public groups
	public := api.Group("")
	public.Use(middleware.OptionalAuth())
	public.GET("/groups", groupController.ListGroups)
	public.GET("/groups/slug/:slug", groupController.GetGroupBySlug)
	public.GET("/groups/:id", groupController.GetGroup)
	public.GET("/groups/:id/posts", postController.ListPosts)
	public.GET("/groups/:id/posts/search", postController.SearchPosts)
	public.GET("/activity", groupController.Activity)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired())
	protected.GET("/groups/mine", groupController.ListMyGroups)
	protected.POST("/groups", groupController.CreateGroup)
	protected.PATCH("/groups/:id", groupController.UpdateGroup)
	protected.DELETE("/groups/:id", groupController.DeleteGroup)
	protected.POST("/groups/:id/join", groupController.JoinGroup)
	protected.POST("/groups/:id/leave", groupController.LeaveGroup)
	protected.PUT("/groups/:id/members/:userId/role", groupController.ChangeRole)
	protected.POST("/groups/:id/posts", postController.CreatePost)
	protected.DELETE("/groups/:id/posts/:postId", postController.DeletePost)
	protected.POST("/groups/:id/posts/:postId/comments", postController.CreateComment)
	protected.DELETE("/groups/:id/posts/:postId/comments/:commentId", postController.DeleteComment)
	protected.GET("/notifications", notificationController.List)
	protected.GET("/notifications/unread-count", notificationController.UnreadCount)
	protected.POST("/notifications/:id/read", notificationController.MarkRead)
	protected.POST("/notifications/read-all", notificationController.MarkAllRead)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
