package server

import (
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-placefinder/internal/pkg/config"
)

// StartPprofServer exposes the pprof endpoints on their own port when
// profiling is enabled. The port must stay off the public listener.
func StartPprofServer(cfg *config.Config, logger *zap.Logger) {
	if !cfg.PprofEnabled {
		logger.Info("Pprof server disabled")
		return
	}

	pprofRouter := gin.New()
	pprof.Register(pprofRouter)

	addr := ":" + cfg.PprofPort
	go func() {
		logger.Info("Starting pprof server", zap.String("addr", addr))
		if err := pprofRouter.Run(addr); err != nil {
			logger.Error("Pprof server stopped", zap.Error(err))
		}
	}()
}
