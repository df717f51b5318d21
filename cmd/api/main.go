package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ro-service/api/internal/app"
	"github.com/ro-service/api/internal/config"
	"github.com/ro-service/api/internal/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	repos, err := app.NewRepos(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("dynamodb", zap.Error(err))
	}
	api, err := app.NewAPI(ctx, cfg, repos, zl)
	if err != nil {
		zl.Fatal("wiring", zap.Error(err))
	}
	api.Scheduler.Start()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      api.Handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // the manual trigger runs a full check
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zl.Info("server starting", zap.String("port", cfg.AppPort), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	stop()

	zl.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("forced shutdown", zap.Error(err))
	}
	select {
	case <-api.Scheduler.Stop().Done():
	case <-shutdownCtx.Done():
		zl.Warn("due-service check still running at shutdown")
	}
	zl.Info("server stopped")
}
