// Command server runs the skill-upcycle BFF: auth proxying, resume uploads,
// dashboards, skill graphs and reports over HTTP and WebSocket.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skill-upcycle/internal/app"
	"skill-upcycle/internal/config"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds)
	if err := run(logger); err != nil {
		logger.Fatalf("[Server] %v", err)
	}
}

func run(logger *log.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	addr, err := app.ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		return err
	}

	srv, closeContainer, err := app.Bootstrap(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeContainer(); err != nil {
			logger.Printf("[Server] releasing backends: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	served := make(chan error, 1)
	go func() {
		logger.Printf("[Server] %s accepting uploads addr=%s env=%s", cfg.App.AppName, addr, cfg.App.Environment)
		served <- srv.Fiber.Listen(addr)
	}()

	select {
	case err := <-served:
		return err
	case <-ctx.Done():
	}

	logger.Printf("[Server] draining in-flight analyses timeout=%s", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Fiber.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
