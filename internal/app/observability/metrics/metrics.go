package metrics

import (
	"context"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
// Make fields public so they can be accessed from other packages.
type AppMetrics struct {
	HTTPRequestsTotal        metric.Int64Counter
	HTTPRequestDuration      metric.Float64Histogram
	GatewayRequestsTotal     metric.Int64Counter
	GatewayRequestDuration   metric.Float64Histogram
	PagesFetchedTotal        metric.Int64Counter
	WizardAdvancesTotal      metric.Int64Counter
	WizardRejectionsTotal    metric.Int64Counter
	RecommenderRequestsTotal metric.Int64Counter
	ActiveSessionsGauge      metric.Int64Gauge
}

var (
	// Global instance of AppMetrics (initialized once)
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("go-placefinder")
		var err error
		m := &AppMetrics{}

		m.HTTPRequestsTotal, err = meter.Int64Counter(
			"http_requests_total",
			metric.WithDescription("Total number of HTTP requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_requests_total: %v", err)
		}

		m.HTTPRequestDuration, err = meter.Float64Histogram(
			"http_request_duration_seconds",
			metric.WithDescription("Duration of HTTP requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_request_duration_seconds: %v", err)
		}

		m.GatewayRequestsTotal, err = meter.Int64Counter(
			"places_gateway_requests_total",
			metric.WithDescription("Total number of upstream places API requests"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create places_gateway_requests_total: %v", err)
		}

		m.GatewayRequestDuration, err = meter.Float64Histogram(
			"places_gateway_request_duration_seconds",
			metric.WithDescription("Duration of upstream places API requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create places_gateway_request_duration_seconds: %v", err)
		}

		m.PagesFetchedTotal, err = meter.Int64Counter(
			"places_pages_fetched_total",
			metric.WithDescription("Total number of nearby search result pages fetched"),
			metric.WithUnit("{page}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create places_pages_fetched_total: %v", err)
		}

		m.WizardAdvancesTotal, err = meter.Int64Counter(
			"wizard_advances_total",
			metric.WithDescription("Total number of accepted wizard step transitions"),
			metric.WithUnit("{transition}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create wizard_advances_total: %v", err)
		}

		m.WizardRejectionsTotal, err = meter.Int64Counter(
			"wizard_rejections_total",
			metric.WithDescription("Total number of rejected wizard inputs"),
			metric.WithUnit("{rejection}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create wizard_rejections_total: %v", err)
		}

		m.RecommenderRequestsTotal, err = meter.Int64Counter(
			"recommender_requests_total",
			metric.WithDescription("Total number of recommendation model calls"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create recommender_requests_total: %v", err)
		}

		m.ActiveSessionsGauge, err = meter.Int64Gauge(
			"wizard_sessions_active",
			metric.WithDescription("Current number of live wizard sessions"),
			metric.WithUnit("{session}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create wizard_sessions_active: %v", err)
		}

		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance, creating
// it against the current global MeterProvider on first use.
func Get() *AppMetrics {
	if appMetrics == nil {
		InitAppMetrics()
	}
	return appMetrics
}

// RecordGatewayRequest records one upstream call with its outcome.
func (m *AppMetrics) RecordGatewayRequest(ctx context.Context, operation, outcome string, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	)
	m.GatewayRequestsTotal.Add(ctx, 1, attrs)
	m.GatewayRequestDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordWizardTransition records an accepted or rejected step input.
func (m *AppMetrics) RecordWizardTransition(ctx context.Context, step string, accepted bool) {
	attrs := metric.WithAttributes(attribute.String("step", step))
	if accepted {
		m.WizardAdvancesTotal.Add(ctx, 1, attrs)
	} else {
		m.WizardRejectionsTotal.Add(ctx, 1, attrs)
	}
}
