package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/mailrisk/internal/di"
	"github.com/mikey/mailrisk/internal/server"
)

func main() {
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build container: %v\n", err)
		os.Exit(1)
	}

	err = container.Invoke(func(srv *server.Server, logger *zap.Logger) error {
		defer logger.Sync()

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			if err != nil {
				logger.Error("HTTP server failed", zap.Error(err))
				return err
			}
		case sig := <-sigCh:
			logger.Info("Shutting down", zap.String("signal", sig.String()))
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Stop(ctx); err != nil {
				logger.Error("Graceful shutdown failed", zap.Error(err))
				return err
			}
		}
		return nil
	})
	if err != nil {
		fmt.Printf("Fatal: %v\n", err)
		os.Exit(1)
	}
}
