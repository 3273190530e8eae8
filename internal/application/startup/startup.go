// Package startup orchestrates application boot and graceful shutdown.
package startup

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/commonsforge/pagecraft-go/internal/application/container"
	"github.com/commonsforge/pagecraft-go/internal/presentation/http/server"
	"github.com/commonsforge/pagecraft-go/pkg/config"
)

// Run boots the application and blocks until shutdown completes.
func Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, err := container.NewContainer(ctx)
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}

	c.EditorService.StartSweeper(ctx, config.EditorSessionSweep)

	srv := server.New(c)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			c.Logger.System().Error("Server failed", "error", err.Error())
			c.Close(ctx)
			return err
		}
	case sig := <-sigCh:
		c.Logger.Shutdown().Info("Shutdown signal received", "signal", sig.String())
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		c.Logger.Shutdown().Error("Graceful shutdown failed", "error", err.Error())
	}
	cancel()
	c.Close(shutdownCtx)
	return nil
}
