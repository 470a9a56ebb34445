package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isayev/coinstack-sub001/internal/api"
	"github.com/isayev/coinstack-sub001/internal/config"
	"github.com/isayev/coinstack-sub001/internal/core"
	"github.com/isayev/coinstack-sub001/internal/logger"
	"go.uber.org/zap"
)

func main() {
	src, err := config.Open()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := src.Config()
	zl, level, err := logger.NewLogger(cfg.Log.Env, cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zl.Sync()

	// Changes to config.yml only adjust the log level while running; the
	// rest takes effect on restart.
	src.Watch(func(updated *config.Config) {
		if err := logger.ApplyLevel(level, updated.Log.Level); err != nil {
			zl.Warn("Ignoring log level from reloaded config", zap.Error(err))
			return
		}
		zl.Info("Configuration reloaded", zap.String("log_level", level.String()))
	}, func(err error) {
		zl.Warn("Could not reload configuration", zap.Error(err))
	})

	// Initialize the core application components
	app, err := core.New(cfg, zl)
	if err != nil {
		zl.Fatal("Fatal error during application setup", zap.Error(err))
	}
	defer app.Close()

	app.StartJobs()

	// Setup the API server
	server := api.NewServer(app)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	// --- Graceful Shutdown ---
	// Start the server in a goroutine so it doesn't block.
	go func() {
		zl.Info("Starting web server", zap.String("addr", httpServer.Addr), zap.String("backend", cfg.API.BaseURL))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Fatal("Could not start server", zap.Error(err))
		}
	}()

	// Wait for an interrupt signal.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zl.Info("Shutting down server...")

	// Create a context with a timeout to allow existing connections to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		zl.Error("Server forced to shutdown", zap.Error(err))
	}

	zl.Info("Server exiting.")
}
