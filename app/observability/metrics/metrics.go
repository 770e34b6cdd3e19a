package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	LoginAttemptsTotal      metric.Int64Counter
	LoginFailuresTotal      metric.Int64Counter
	RegisterRequestsTotal   metric.Int64Counter
	DonationsRecordedTotal  metric.Int64Counter
	DonationAmountTotal     metric.Float64Counter
	DbQueryDurationSeconds  metric.Float64Histogram
	SessionResolutionDenied metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// Get initializes the global metric instruments on first use and
// returns them. The meter comes from the globally configured
// MeterProvider, so observability.Init must have run first.
func Get() *AppMetrics {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("carelink")
		var err error
		m := &AppMetrics{}

		m.LoginAttemptsTotal, err = meter.Int64Counter(
			"login_attempts_total",
			metric.WithDescription("Total number of login attempts"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create login_attempts_total: %v", err)
		}

		m.LoginFailuresTotal, err = meter.Int64Counter(
			"login_failures_total",
			metric.WithDescription("Login attempts rejected for bad credentials or unknown users"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create login_failures_total: %v", err)
		}

		m.RegisterRequestsTotal, err = meter.Int64Counter(
			"register_requests_total",
			metric.WithDescription("Total number of completed registration requests"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create register_requests_total: %v", err)
		}

		m.DonationsRecordedTotal, err = meter.Int64Counter(
			"donations_recorded_total",
			metric.WithDescription("Total number of donation pledges recorded"),
			metric.WithUnit("{donation}"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create donations_recorded_total: %v", err)
		}

		m.DonationAmountTotal, err = meter.Float64Counter(
			"donation_amount_total",
			metric.WithDescription("Cumulative monetary amount pledged"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create donation_amount_total: %v", err)
		}

		m.DbQueryDurationSeconds, err = meter.Float64Histogram(
			"db_query_duration_seconds",
			metric.WithDescription("Duration of database queries in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create db_query_duration_seconds: %v", err)
		}

		m.SessionResolutionDenied, err = meter.Int64Counter(
			"session_resolution_denied_total",
			metric.WithDescription("Requests carrying a valid token whose live account was missing, disabled or deleted"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create session_resolution_denied_total: %v", err)
		}

		appMetrics = m
	})
	return appMetrics
}
