package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ifatinha/ghost-following/backend/internal/export"
	"github.com/ifatinha/ghost-following/backend/internal/ghost"
	"github.com/ifatinha/ghost-following/backend/internal/github"
	"github.com/ifatinha/ghost-following/backend/internal/web"
	"github.com/ifatinha/ghost-following/backend/pkg/config"
	"github.com/ifatinha/ghost-following/backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Env); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting web server...")

	if cfg.GitHubToken == "" {
		log.Warn("GITHUB_TOKEN not set, requests are unauthenticated (60 requests/hour)")
	}

	// Initialize dependencies
	client := github.NewClient(cfg.GitHubAPIURL, cfg.GitHubToken,
		github.WithTimeout(cfg.RequestTimeout),
		github.WithLogger(log),
	)
	service := ghost.NewService(client, log)
	exporter := export.NewExporter(cfg.CSVPath, log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := web.NewRouter(web.NewHandler(service, exporter, log), log)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started",
		zap.String("port", cfg.Port),
		zap.String("api", cfg.GitHubAPIURL),
		zap.String("csv_path", cfg.CSVPath),
	)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
