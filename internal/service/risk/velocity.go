package risk

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/davidleathers/payment-risk-engine/internal/domain/risk"
)

// VelocityLimiter evaluates a user's recent activity against configured
// count and amount ceilings over rolling wall-clock windows. Per-user
// overrides take precedence over the default config.
type VelocityLimiter struct {
	store ActivityStore

	mu        sync.RWMutex
	defaults  risk.VelocityLimitConfig
	overrides map[string]risk.VelocityLimitConfig
}

// NewVelocityLimiter creates a limiter over the given store. Invalid defaults
// fall back to the platform defaults.
func NewVelocityLimiter(store ActivityStore, defaults risk.VelocityLimitConfig) *VelocityLimiter {
	if !defaults.Valid() {
		defaults = risk.DefaultVelocityLimits()
	}
	return &VelocityLimiter{
		store:     store,
		defaults:  defaults,
		overrides: make(map[string]risk.VelocityLimitConfig),
	}
}

// SetLimit installs or replaces the per-user override.
func (v *VelocityLimiter) SetLimit(userID string, cfg risk.VelocityLimitConfig) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.overrides[userID] = cfg
}

// LimitsFor returns the user's effective ceilings.
func (v *VelocityLimiter) LimitsFor(userID string) risk.VelocityLimitConfig {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if cfg, ok := v.overrides[userID]; ok {
		return cfg
	}
	return v.defaults
}

// CheckLimits sums the trailing-24h amounts including the candidate against
// the daily ceiling, then counts stored transactions in the trailing hour.
// The candidate amount may be zero for standalone monitoring checks.
func (v *VelocityLimiter) CheckLimits(ctx context.Context, userID string, candidate decimal.Decimal, now time.Time) (VelocityOutcome, error) {
	limits := v.LimitsFor(userID)

	daily, err := v.store.TransactionsSince(ctx, userID, now.Add(-dailyWindow))
	if err != nil {
		return VelocityOutcome{Result: WithinLimits, Limits: limits}, err
	}

	total := candidate
	hourlyCount := 0
	hourStart := now.Add(-hourlyWindow)
	for _, rec := range daily {
		total = total.Add(rec.Amount)
		if !rec.CreatedAt.Before(hourStart) {
			hourlyCount++
		}
	}

	outcome := VelocityOutcome{
		Result:      WithinLimits,
		HourlyCount: hourlyCount,
		DailyTotal:  total,
		Limits:      limits,
	}

	switch {
	case total.GreaterThan(limits.DailyLimit):
		outcome.Result = DailyLimitExceeded
	case hourlyCount > HourlyFrequencyThreshold:
		outcome.Result = HourlyFrequencyExceeded
	}
	return outcome, nil
}
