package server

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// GracefulShutdown waits for SIGINT/SIGTERM, then drains in-flight
// requests for at most timeout before forcing the server down. A
// second signal skips the drain.
func GracefulShutdown(srv *http.Server, logger *zap.Logger, timeout time.Duration, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	logger.Info("Shutdown signal received, draining requests",
		zap.Duration("timeout", timeout))

	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
	done <- true
}
