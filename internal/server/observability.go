package server

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/FACorreiaa/go-placefinder/internal/app/observability/metrics"
	"github.com/FACorreiaa/go-placefinder/internal/app/observability/tracer"
	"github.com/FACorreiaa/go-placefinder/internal/pkg/config"
)

// ObservabilityShutdownFunc flushes and stops the OTEL providers.
type ObservabilityShutdownFunc func(context.Context) error

// InitObservability wires the OTEL tracer and meter providers plus the
// application metric instruments, serving Prometheus scrapes on the
// configured metrics port.
func InitObservability(cfg *config.Config, logger *zap.Logger) (ObservabilityShutdownFunc, error) {
	metricsAddr := ":" + cfg.MetricsPort
	otelShutdown, err := tracer.InitOtelProviders(serviceName, metricsAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics.InitAppMetrics()
	logger.Info("Observability initialized",
		zap.String("metrics_endpoint", metricsAddr+"/metrics"))

	return otelShutdown, nil
}
