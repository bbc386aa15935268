// cmd/hud-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"hudgen/internal/common/config"
	"hudgen/internal/common/logger"
	"hudgen/internal/recordstore"
	"hudgen/internal/resolver"
	"hudgen/internal/server"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting hud-server...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	ctx := context.Background()

	// --- Init record store client, probe the schema catalog with retry ---
	store := recordstore.New(cfg.RecordStore, log)
	err = retryWithBackoff(func() error {
		probeCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		_, err := store.Fields(probeCtx, resolver.EntityDeal)
		return err
	}, 5, 2*time.Second, zapLog, "record store connection")

	if err != nil {
		zapLog.Fatal("record store unreachable after retries", zap.Error(err))
	}
	zapLog.Info("Record store connected successfully",
		zap.String("instance", cfg.RecordStore.InstanceURL),
	)

	res := resolver.New(store, log)

	srv, err := server.New(cfg, res, log)
	if err != nil {
		zapLog.Fatal("server init failed", zap.Error(err))
	}

	go func() {
		addr := cfg.Server.Address()
		zapLog.Info("HTTP server listening", zap.String("addr", addr))
		if err := srv.Start(addr); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zapLog.Info("Shutdown signal received, draining...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
	zapLog.Info("Shutdown complete")
}
