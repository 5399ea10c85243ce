package main

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/akaJirt/restaurant-api/config"
	"github.com/akaJirt/restaurant-api/internal/clients"
	"github.com/akaJirt/restaurant-api/internal/delivery"
	"github.com/akaJirt/restaurant-api/internal/metrics"
	"github.com/akaJirt/restaurant-api/internal/middleware"
	"github.com/akaJirt/restaurant-api/internal/repository"
	"github.com/akaJirt/restaurant-api/internal/usecase"
	"github.com/akaJirt/restaurant-api/pkg/db"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("Invalid log level '%s', falling back to info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	conn, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()
	log.Info("Successfully connected to database")

	if err := db.ApplySchema(conn); err != nil {
		log.Fatalf("Failed to apply database schema: %v", err)
	}

	var notifier clients.Notifier
	if cfg.NotifyBaseURL != "" {
		notifier = clients.NewNotifyHTTPClient(cfg.NotifyBaseURL, cfg.NotifyAPIKey, cfg.NotifyTimeout, log)
	} else {
		log.Warn("NOTIFY_BASE_URL not set, verification codes will only be logged")
		notifier = clients.NewNoopNotifier(log)
	}

	userRepo := repository.NewPostgresUserRepository(conn, log)
	sessionRepo := repository.NewPostgresSessionRepository(conn, log)
	categoryRepo := repository.NewPostgresCategoryRepository(conn, log)
	menuRepo := repository.NewPostgresMenuItemRepository(conn, log)
	tableRepo := repository.NewPostgresTableRepository(conn, log)
	orderRepo := repository.NewPostgresOrderRepository(conn, log)

	userUC := usecase.NewUserUseCase(userRepo, sessionRepo, notifier, cfg.SessionTTL, log)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo, log)
	menuUC := usecase.NewMenuItemUseCase(menuRepo, categoryRepo, log)
	tableUC := usecase.NewTableUseCase(tableRepo, cfg.PublicBaseURL, log)
	orderUC := usecase.NewOrderUseCase(orderRepo, menuRepo, tableRepo, log)

	userHandler := delivery.NewUserHandler(userUC, log)
	categoryHandler := delivery.NewCategoryHandler(categoryUC, log)
	menuHandler := delivery.NewMenuItemHandler(menuUC, log)
	tableHandler := delivery.NewTableHandler(tableUC, log)
	orderHandler := delivery.NewOrderHandler(orderUC, log)

	auth := middleware.AuthMiddleware(sessionRepo, userRepo, log)

	router := gin.New()
	router.Use(middleware.RequestLogger(log))
	router.Use(metrics.PrometheusMiddleware())
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	userHandler.RegisterRoutes(v1, auth)
	categoryHandler.RegisterRoutes(v1, auth)
	menuHandler.RegisterRoutes(v1, auth)
	tableHandler.RegisterRoutes(v1, auth)
	orderHandler.RegisterRoutes(v1, auth)

	log.Infof("Starting restaurant API server on %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
