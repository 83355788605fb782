package router

import (
	"net/http"
	"time"

	"mindhaven/config"
	"mindhaven/internal/handler"
	"mindhaven/internal/middleware"
	"mindhaven/internal/model"
	"mindhaven/internal/repository"
	"mindhaven/internal/service"
	"mindhaven/pkg/jwt"
	"mindhaven/pkg/logger"
	"mindhaven/pkg/metrics"
	"mindhaven/pkg/websocket"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Dependencies 路由依赖，Counter 与 Mailer 可为 nil
// RateLimiter 由调用方创建并负责 Stop，为 nil 时认证接口不限流
type Dependencies struct {
	Config      *config.Config
	DB          *gorm.DB
	JWT         *jwt.JWTService
	Hub         *websocket.Manager
	Counter     service.UnreadCounter
	Mailer      service.PasswordResetMailer
	RateLimiter *middleware.RateLimiter
}

// SetupRouter 初始化中间件、业务路由、/ws、/health 与 /metrics
func SetupRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	store := repository.NewStore(deps.DB)

	var notifier service.Notifier
	if deps.Hub != nil {
		notifier = deps.Hub
	}

	communitySvc := service.NewCommunityService(store)
	membershipSvc := service.NewMembershipService(store)
	communityMsgSvc := service.NewCommunityMessageService(store, notifier)
	directSvc := service.NewDirectMessageService(store, notifier, deps.Counter)
	connectionSvc := service.NewConnectionService(store, notifier)
	authSvc := service.NewAuthService(store, deps.JWT, deps.Mailer)
	journalSvc := service.NewJournalService(store)
	moodSvc := service.NewMoodService(store)

	communityHandler := handler.NewCommunityHandler(communitySvc, membershipSvc, communityMsgSvc)
	directHandler := handler.NewDirectMessageHandler(directSvc)
	connectionHandler := handler.NewConnectionHandler(connectionSvc)
	authHandler := handler.NewAuthHandler(authSvc)
	journalHandler := handler.NewJournalHandler(journalSvc)
	moodHandler := handler.NewMoodHandler(moodSvc)

	r := gin.New()
	r.Use(logger.RequestID())
	r.Use(logger.RequestLogger())
	r.Use(logger.ErrorLoggerMiddleware())
	r.Use(metrics.GinMiddleware())
	r.Use(middleware.CORS(cfg.Server.Mode))

	r.GET("/health", healthHandler(deps.DB))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if deps.Hub != nil {
		ws := websocket.NewHandler(deps.Hub, deps.JWT, cfg.WebSocket, directSvc)
		r.GET("/ws", ws.Serve)
	}

	// 社区、私信与连接
	community := r.Group("/community")
	{
		community.GET("/", communityHandler.List)
		community.POST("/create", communityHandler.Create)
		community.GET("/:id", communityHandler.Get)
		community.DELETE("/:id", communityHandler.Delete)
		community.POST("/:id/join", communityHandler.Join)
		community.POST("/:id/leave", communityHandler.Leave)
		community.GET("/:id/members", communityHandler.Members)
		community.GET("/:id/messages", communityHandler.Messages)
		community.POST("/:id/message", communityHandler.PostMessage)

		community.POST("/message/direct", directHandler.Send)
		community.POST("/message/:id/read", directHandler.MarkRead)
		community.GET("/messages/inbox/:user_id", directHandler.Inbox)
		community.GET("/messages/inbox/:user_id/unread", directHandler.UnreadCount)

		community.POST("/connect", connectionHandler.Connect)
		community.GET("/connections/:user_id", connectionHandler.List)
	}

	// 认证接口按 IP+路由 限流
	auth := r.Group("/auth")
	if deps.RateLimiter != nil {
		auth.Use(deps.RateLimiter.Middleware())
	}
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
		auth.GET("/me", deps.JWT.AuthMiddleware(), authHandler.Me)

		admin := auth.Group("/admin")
		admin.Use(deps.JWT.AuthMiddleware(), jwt.RequireRole(model.RoleAdmin))
		{
			admin.GET("/dashboard", authHandler.Dashboard)
			admin.GET("/users", authHandler.ListUsers)
			admin.PUT("/users/:user_id/promote", authHandler.Promote)
			admin.PUT("/users/:user_id/demote", authHandler.Demote)
			admin.GET("/therapists", authHandler.ListTherapists)
			admin.PUT("/therapists/:therapist_id/verify", authHandler.VerifyTherapist)
		}
	}

	journals := r.Group("/journals")
	journals.Use(deps.JWT.AuthMiddleware())
	{
		journals.GET("/", journalHandler.List)
		journals.POST("/", journalHandler.Create)
		journals.GET("/:id", journalHandler.Get)
		journals.PUT("/:id", journalHandler.Update)
		journals.DELETE("/:id", journalHandler.Delete)
	}

	mood := r.Group("/mood")
	{
		mood.POST("/add-mood", moodHandler.Add)
		mood.GET("/:user_id", moodHandler.List)
	}

	return r
}

// healthHandler 健康检查
func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "ok"
		code := http.StatusOK
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status = "db-down"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status": status,
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}
