package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"mindhaven/config"
	"mindhaven/internal/middleware"
	"mindhaven/internal/model"
	"mindhaven/internal/repository"
	"mindhaven/internal/router"
	"mindhaven/internal/service"
	dbPkg "mindhaven/pkg/db"
	"mindhaven/pkg/jwt"
	"mindhaven/pkg/kafka"
	"mindhaven/pkg/logger"
	"mindhaven/pkg/mail"
	"mindhaven/pkg/redis"
	"mindhaven/pkg/websocket"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	// 1. 加载配置
	cfg := config.LoadConfig()

	// 2. 初始化日志系统
	log := logger.InitLogger(cfg.Log)
	defer log.Sync()

	log.Info("=== mindhaven 启动 ===")
	log.Info("服务器配置信息",
		zap.String("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("database_driver", cfg.Database.Driver),
		zap.String("database_host", cfg.Database.Host),
		zap.Int("database_port", cfg.Database.Port),
		zap.String("database_name", cfg.Database.Database),
		zap.Duration("jwt_expire_time", cfg.JWT.ExpireTime),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
		zap.Bool("kafka_enabled", cfg.Kafka.Enabled),
		zap.Bool("smtp_enabled", cfg.SMTP.Enabled()),
	)

	// 3. 初始化数据库连接
	db, err := dbPkg.InitDB(cfg.Database)
	if err != nil {
		log.Fatal("数据库连接失败", zap.Error(err))
	}
	defer func() {
		if err := dbPkg.CloseDB(); err != nil {
			log.Error("关闭数据库连接失败", zap.Error(err))
		}
	}()
	log.Info("数据库连接成功")

	// 3.1 自动迁移表结构
	if err := dbPkg.AutoMigrate(db, model.All()...); err != nil {
		log.Fatal("自动迁移失败", zap.Error(err))
	}
	log.Info("自动迁移完成")

	// 4. 可选组件：Redis 未读计数、SMTP、Kafka
	var counter *redis.UnreadCounter
	if cfg.Redis.Enabled {
		client, err := redis.InitRedis(cfg.Redis)
		if err != nil {
			log.Warn("Redis不可用，未读计数回退数据库", zap.Error(err))
		} else {
			counter = redis.NewUnreadCounter(client)
			defer redis.Close()
			log.Info("Redis连接成功")
		}
	}

	var mailer service.PasswordResetMailer
	if cfg.SMTP.Enabled() {
		mailer = mail.NewMailer(cfg.SMTP)
	}

	sender := service.LogSender()
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			log.Fatal("Kafka生产者初始化失败", zap.Error(err))
		}
		defer producer.Close()
		sender = service.KafkaSender(producer)
		log.Info("Kafka事件投递已启用", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	relayer := service.NewOutboxRelayer(repository.NewStore(db), sender, cfg.Kafka.RelayInterval, cfg.Kafka.BatchSize)
	go relayer.Run(ctx)

	// 5. 设置Gin模式并创建路由
	gin.SetMode(cfg.Server.Mode)
	// 认证接口按 IP+路由 限流
	limiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst, 2*time.Minute)
	defer limiter.Stop()
	engine := router.SetupRouter(router.Dependencies{
		Config:      cfg,
		DB:          db,
		JWT:         jwt.NewJWTService(cfg.JWT),
		Hub:         websocket.NewManager(),
		Counter:     counter,
		Mailer:      mailer,
		RateLimiter: limiter,
	})

	// 6. 创建HTTP服务器
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP服务器启动", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP服务器启动失败", zap.Error(err))
			stop()
		}
	}()

	// 7. 优雅关闭
	<-ctx.Done()
	log.Info("正在关闭服务器...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP服务器关闭失败", zap.Error(err))
	}

	log.Info("服务器已安全关闭")
}
