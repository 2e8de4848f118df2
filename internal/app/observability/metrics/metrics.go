package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	HTTPRequestsTotal      metric.Int64Counter
	HTTPRequestDuration    metric.Float64Histogram
	AIRequestDuration      metric.Float64Histogram
	AIRequestErrorsTotal   metric.Int64Counter
	FlowsStartedTotal      metric.Int64Counter
	FlowsCompletedTotal    metric.Int64Counter
	FlowsFailedTotal       metric.Int64Counter
	FlowStaleResultsTotal  metric.Int64Counter
	ActiveSessionsGauge    metric.Int64UpDownCounter
	DBQueryDurationSeconds metric.Float64Histogram
	DBQueryErrorsTotal     metric.Int64Counter
	CacheHitsTotal         metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics creates the instruments once, from the global MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("wander")
		m := &AppMetrics{}

		m.HTTPRequestsTotal = must(meter.Int64Counter(
			"http_requests_total",
			metric.WithDescription("Total number of HTTP requests completed"),
			metric.WithUnit("{request}"),
		))
		m.HTTPRequestDuration = must(meter.Float64Histogram(
			"http_request_duration_seconds",
			metric.WithDescription("Duration of HTTP requests in seconds"),
			metric.WithUnit("s"),
		))
		m.AIRequestDuration = must(meter.Float64Histogram(
			"ai_request_duration_seconds",
			metric.WithDescription("Duration of generative AI calls in seconds"),
			metric.WithUnit("s"),
		))
		m.AIRequestErrorsTotal = must(meter.Int64Counter(
			"ai_request_errors_total",
			metric.WithDescription("Total number of failed generative AI calls"),
			metric.WithUnit("{error}"),
		))
		m.FlowsStartedTotal = must(meter.Int64Counter(
			"flows_started_total",
			metric.WithDescription("Total number of phased flows started"),
			metric.WithUnit("{flow}"),
		))
		m.FlowsCompletedTotal = must(meter.Int64Counter(
			"flows_completed_total",
			metric.WithDescription("Total number of phased flows that reached Complete"),
			metric.WithUnit("{flow}"),
		))
		m.FlowsFailedTotal = must(meter.Int64Counter(
			"flows_failed_total",
			metric.WithDescription("Total number of phased flows that failed"),
			metric.WithUnit("{flow}"),
		))
		m.FlowStaleResultsTotal = must(meter.Int64Counter(
			"flow_stale_results_total",
			metric.WithDescription("Resolver outcomes discarded because a newer flow had started"),
			metric.WithUnit("{result}"),
		))
		m.ActiveSessionsGauge = must(meter.Int64UpDownCounter(
			"souvenir_sessions_active",
			metric.WithDescription("Current number of live souvenir scouting sessions"),
			metric.WithUnit("{session}"),
		))
		m.DBQueryDurationSeconds = must(meter.Float64Histogram(
			"db_query_duration_seconds",
			metric.WithDescription("Duration of database queries in seconds"),
			metric.WithUnit("s"),
		))
		m.DBQueryErrorsTotal = must(meter.Int64Counter(
			"db_query_errors_total",
			metric.WithDescription("Total number of database query errors"),
			metric.WithUnit("{error}"),
		))
		m.CacheHitsTotal = must(meter.Int64Counter(
			"generation_cache_hits_total",
			metric.WithDescription("Generated results served from the in-memory cache"),
			metric.WithUnit("{hit}"),
		))

		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// Get returns the instruments, creating them against whatever MeterProvider
// is installed if InitAppMetrics has not run yet.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}

func must[T any](inst T, err error) T {
	if err != nil {
		log.Fatalf("Metrics: failed to create instrument: %v", err)
	}
	return inst
}
