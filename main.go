package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"friends-service/internal/config"
	"friends-service/internal/db"
	"friends-service/internal/directory"
	"friends-service/internal/friends"
	"friends-service/internal/handlers"
	"friends-service/internal/logging"
	"friends-service/internal/metrics"
	"friends-service/internal/middleware"
	"friends-service/internal/observability"
	"friends-service/internal/rabbitmq"
	"friends-service/internal/repositories"
	"friends-service/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	publisher := rabbitmq.NewNoopPublisher(logger)
	if cfg.AMQPURL == "" {
		logger.Warn("AMQP_URL not set; event publishing disabled")
	} else {
		pub, err := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.EventsExchange)
		if err != nil {
			logger.Warn("failed to initialize RabbitMQ publisher", zap.Error(err))
		} else {
			publisher = pub
		}
	}
	defer publisher.Close()

	auditPublisher := rabbitmq.NewNoopPublisher(logger)
	if cfg.AMQPURL == "" {
		logger.Warn("AMQP_URL not set; audit publishing disabled")
	} else {
		pub, err := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.LogsExchange)
		if err != nil {
			logger.Warn("failed to initialize RabbitMQ audit publisher", zap.Error(err))
		} else {
			auditPublisher = pub
		}
	}
	defer auditPublisher.Close()

	accountDirectory := directory.NewClient(cfg.DirectoryURL)
	requestRepo := repositories.NewFriendRequestRepository(database)
	friendService := friends.NewService(requestRepo, accountDirectory, publisher, logger)

	auditEmitter := telemetry.NewAuditEmitter(auditPublisher, cfg.ServiceName, cfg.Environment, logger)
	userHandler := handlers.NewUserHandler(accountDirectory, friendService)
	friendHandler := handlers.NewFriendHandler(friendService, auditEmitter, nil)

	metrics.RegisterFriendMetrics()
	observability.InitMetrics(prometheus.DefaultRegisterer)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.RequestID(), middleware.Metrics())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/users/:id", userHandler.GetUserByID)

	auth := r.Group("", middleware.JWTAuth(cfg.JWTSecret))
	auth.GET("/users/me", userHandler.GetMe)
	auth.POST("/friends/requests", friendHandler.SendRequest)
	auth.GET("/friends/requests", friendHandler.ListRequests)
	auth.GET("/friends/requests/:id", friendHandler.GetRequest)
	auth.PATCH("/friends/requests/:id", friendHandler.UpdateRequest)
	auth.POST("/friends/requests/:id/accept", friendHandler.AcceptRequest)
	auth.POST("/friends/requests/:id/cancel", friendHandler.CancelRequest)
	auth.GET("/friends", friendHandler.ListFriends)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	logger.Info("friends-service started", zap.String("port", cfg.Port), zap.String("environment", cfg.Environment))

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown error", zap.Error(err))
	}
}
