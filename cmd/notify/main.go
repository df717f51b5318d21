// Command notify runs the due-service check once and prints the result as
// JSON. It exits non-zero when the run fails.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
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
	if cfg.Notify.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Notify.RunTimeout)
		defer cancel()
	}

	repos, err := app.NewRepos(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("dynamodb", zap.Error(err))
	}
	rem, err := app.NewReminder(ctx, cfg, repos, zl)
	if err != nil {
		zl.Fatal("wiring", zap.Error(err))
	}

	res := rem.Run(ctx, time.Now().In(cfg.Timezone))
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		zl.Error("encode result", zap.Error(err))
	}
	if !res.Success {
		_ = zl.Sync()
		os.Exit(1)
	}
}
