package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/asilvr/taskdeck/internal/api"
	"github.com/asilvr/taskdeck/internal/auth"
	"github.com/asilvr/taskdeck/internal/db"
	"github.com/asilvr/taskdeck/internal/tasks"
	"github.com/asilvr/taskdeck/internal/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("config: no .env file loaded: %v", err)
	}

	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("config: failed to load: %v", err)
	}

	logger := utils.MustNewLogger(cfg.Logging)
	defer logger.Sync()

	ctx := context.Background()

	postgres, err := db.NewPostgres(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal("postgres: failed to connect", zap.Error(err))
	}
	defer postgres.Close()

	if err := postgres.Ping(ctx); err != nil {
		logger.Fatal("postgres: ping failed", zap.Error(err))
	}
	if err := postgres.EnsureSchema(ctx); err != nil {
		logger.Fatal("postgres: ensure schema", zap.Error(err))
	}

	authService, err := auth.NewService(db.NewUsers(postgres), cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		logger.Fatal("failed to initialise auth service", zap.Error(err))
	}
	taskService := tasks.NewService(db.NewTasks(postgres))

	router := setupRouter(cfg, logger, authService, taskService)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server crashed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}

	logger.Info("server stopped cleanly")
}

func setupRouter(cfg *utils.Config, logger *zap.Logger, authService *auth.Service, taskService *tasks.Service) *gin.Engine {
	router := gin.New()
	router.Use(api.RequestID(), api.AccessLog(logger), gin.Recovery())
	router.Use(cors.New(corsConfig(cfg.CORS)))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	api.NewHandler(authService, taskService, logger).RegisterRoutes(router)

	return router
}

func corsConfig(cfg utils.CORSConfig) cors.Config {
	config := cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}

	if origins := cfg.Origins(); len(origins) > 0 {
		config.AllowAllOrigins = false
		config.AllowOrigins = origins
	}

	return config
}
