package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Adi-Narayan/Hashira/app"
	"github.com/Adi-Narayan/Hashira/config"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	log.Println("✅ Starting application...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application := app.NewApplication(cfg)
	if err := application.Init(ctx); err != nil {
		log.Fatalf("❌ Failed to initialise application: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- application.Start(ctx)
	}()

	select {
	case <-ctx.Done():
		zap.L().Info("shutdown signal received", zap.String("namespace", "app"))
	case err := <-errCh:
		if err != nil {
			zap.L().Error("server failed", zap.String("namespace", "app"), zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	application.Release(shutdownCtx)
}
