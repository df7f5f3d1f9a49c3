package metrics

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Registry holds the risk-domain metrics. All recording helpers are safe on
// a nil receiver so the engine can run unmetered.
type Registry struct {
	meter metric.Meter

	AssessmentDuration metric.Float64Histogram
	AssessmentCounter  metric.Int64Counter
	BlockedCounter     metric.Int64Counter
	VelocityViolations metric.Int64Counter
	TransactionsStored metric.Int64Counter
	BlacklistSize      metric.Int64ObservableGauge

	mu            sync.RWMutex
	blacklistSize int64
}

// NewRegistry creates a registry against the named meter.
func NewRegistry(meterName string) (*Registry, error) {
	r := &Registry{meter: otel.Meter(meterName)}

	var err error
	r.AssessmentDuration, err = r.meter.Float64Histogram(
		"risk.assessment.duration",
		metric.WithDescription("Risk assessment duration in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50, 100),
	)
	if err != nil {
		return nil, err
	}

	r.AssessmentCounter, err = r.meter.Int64Counter(
		"risk.assessment.total",
		metric.WithDescription("Total risk assessments by level and action"),
	)
	if err != nil {
		return nil, err
	}

	r.BlockedCounter, err = r.meter.Int64Counter(
		"risk.assessment.blocked_total",
		metric.WithDescription("Total assessments recommending a block"),
	)
	if err != nil {
		return nil, err
	}

	r.VelocityViolations, err = r.meter.Int64Counter(
		"risk.velocity.violation_total",
		metric.WithDescription("Total velocity-limit violations by type"),
	)
	if err != nil {
		return nil, err
	}

	r.TransactionsStored, err = r.meter.Int64Counter(
		"risk.history.transactions_total",
		metric.WithDescription("Total transactions recorded into history"),
	)
	if err != nil {
		return nil, err
	}

	r.BlacklistSize, err = r.meter.Int64ObservableGauge(
		"risk.blacklist.size",
		metric.WithDescription("Current number of blacklisted users"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			r.mu.RLock()
			defer r.mu.RUnlock()
			o.Observe(r.blacklistSize)
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}

	return r, nil
}

// RecordAssessment records one completed assessment.
func (r *Registry) RecordAssessment(ctx context.Context, durationMS float64, level, action string, blocked bool) {
	if r == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("level", level),
		attribute.String("action", action),
	)
	r.AssessmentDuration.Record(ctx, durationMS, attrs)
	r.AssessmentCounter.Add(ctx, 1, attrs)
	if blocked {
		r.BlockedCounter.Add(ctx, 1, attrs)
	}
}

// RecordVelocityViolation counts one velocity-limit violation.
func (r *Registry) RecordVelocityViolation(ctx context.Context, violationType string) {
	if r == nil {
		return
	}
	r.VelocityViolations.Add(ctx, 1, metric.WithAttributes(attribute.String("type", violationType)))
}

// RecordTransactionStored counts one history append.
func (r *Registry) RecordTransactionStored(ctx context.Context) {
	if r == nil {
		return
	}
	r.TransactionsStored.Add(ctx, 1)
}

// SetBlacklistSize updates the observed blacklist size.
func (r *Registry) SetBlacklistSize(size int64) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blacklistSize = size
}
