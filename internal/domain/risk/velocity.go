package risk

import (
	"time"

	"github.com/shopspring/decimal"
)

// VelocityLimitConfig holds per-scope transaction ceilings. A config is
// read-only during evaluation; administrative writes replace it wholesale.
type VelocityLimitConfig struct {
	DailyLimit       decimal.Decimal `json:"daily_limit"`
	HourlyLimit      decimal.Decimal `json:"hourly_limit"`
	TransactionLimit decimal.Decimal `json:"transaction_limit"`
}

// DefaultVelocityLimits returns the platform-default ceilings applied when a
// user has no override.
func DefaultVelocityLimits() VelocityLimitConfig {
	return VelocityLimitConfig{
		DailyLimit:       decimal.NewFromInt(500000),
		HourlyLimit:      decimal.NewFromInt(100000),
		TransactionLimit: decimal.NewFromInt(50000),
	}
}

// Valid reports whether every ceiling is positive.
func (c VelocityLimitConfig) Valid() bool {
	return c.DailyLimit.IsPositive() && c.HourlyLimit.IsPositive() && c.TransactionLimit.IsPositive()
}

// BlacklistEntry is an explicit deny-list record. While present it
// short-circuits all scoring to maximum risk.
type BlacklistEntry struct {
	UserID    string    `json:"user_id"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}
