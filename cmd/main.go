package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/shenikar/crisis_response_system/internal/analysis"
	"github.com/shenikar/crisis_response_system/internal/broadcast"
	"github.com/shenikar/crisis_response_system/internal/config"
	v1 "github.com/shenikar/crisis_response_system/internal/handler/http/v1"
	"github.com/shenikar/crisis_response_system/internal/repository"
	"github.com/shenikar/crisis_response_system/internal/service"
	"github.com/shenikar/crisis_response_system/pkg/logger"
	"github.com/shenikar/crisis_response_system/pkg/postgres"
	redisclient "github.com/shenikar/crisis_response_system/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/crisis_response_system/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Crisis Response System API
// @version 1.0
// @description Backend for crisis incident coordination: incidents, force units, dispatch, advisories and AI analysis.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey AdminKeyAuth
// @in header
// @name X-Admin-Key
func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
	}

	m, err := migrate.New(
		"file://migrations",
		migrationURL,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel)

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запуск миграций
	if err := runMigrations(cfg, log); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Подключение к PostgreSQL
	dbpool, err := postgres.NewPostgresDB(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer dbpool.Close()
	log.Info("Successfully connected to PostgreSQL")

	// Инициализация Redis клиента
	redisClient, err := redisclient.NewRedisClient(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Info("Successfully connected to Redis")

	// Инициализация шлюза AI-анализа
	gateway, err := analysis.NewGateway(ctx, cfg, log)
	if err != nil {
		log.Fatalf("Failed to create analysis gateway: %v", err)
	}
	defer gateway.Close()

	// Инициализация хаба живых событий
	hub := broadcast.NewHub(log, cfg.AllowedOrigins)

	// Инициализация репозиториев
	incidentRepo := repository.NewIncidentRepository(dbpool)
	unitRepo := repository.NewUnitRepository(dbpool)
	advisoryRepo := repository.NewAdvisoryRepository(dbpool)
	snapshotCache := repository.NewRedisSnapshotCache(redisClient)

	// Инициализация сервисов
	crisisService := service.NewCrisisService(incidentRepo, unitRepo, advisoryRepo, snapshotCache, gateway, hub, log, cfg)

	// Инициализация хэндлеров
	handler := v1.NewHandler(crisisService, hub, log, cfg)

	// Настройка Gin роутера
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Admin-Key"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api/v1")
	handler.RegisterRoutes(api, v1.NewRedisRateLimiter(redisClient))

	// Добавление маршрута для Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Запуск HTTP-сервера
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	// Запуск сервера в горутине
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	hub.Shutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server gracefully stopped")
}
