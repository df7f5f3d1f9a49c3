package risk

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/davidleathers/payment-risk-engine/internal/domain/risk"
)

// Service is the risk-assessment contract consumed by the payment
// orchestrator. Analyze and the standalone checks are read-only over
// admission-control state; only the recording and administrative methods
// mutate shared state.
type Service interface {
	// Analyze scores a proposed transfer and recommends a policy action.
	// High-risk outcomes are data, never errors.
	Analyze(ctx context.Context, req risk.TransactionRequest) risk.Assessment
	// RecordTransaction appends a completed or attempted transfer to the
	// user's bounded history. Call it once the outcome is known, not before.
	RecordTransaction(ctx context.Context, rec risk.TransactionRecord) error
	// RecordDeviceActivity appends a device sighting for a user.
	RecordDeviceActivity(ctx context.Context, userID string, device risk.DeviceInfo) error
	// Blacklist adds a user to the deny list (idempotent upsert).
	Blacklist(ctx context.Context, userID, reason string) error
	// Unblacklist removes a user from the deny list (no error if absent).
	Unblacklist(ctx context.Context, userID string) error
	// CheckVelocity runs a standalone velocity-only check for out-of-band
	// monitoring, without a candidate transaction.
	CheckVelocity(ctx context.Context, userID string) risk.Assessment
	// ValidateDeviceFingerprint runs a standalone device-history check.
	ValidateDeviceFingerprint(ctx context.Context, deviceID string) risk.Assessment
	// GetUserRiskProfile returns the user's assessment profile; unknown
	// users get a zero profile.
	GetUserRiskProfile(ctx context.Context, userID string) risk.UserRiskProfile
	// ReportSuspiciousActivity files an out-of-band report for the fraud team.
	ReportSuspiciousActivity(ctx context.Context, report risk.SuspiciousActivityReport) error
	// SuspiciousActivity returns the reports filed for a user.
	SuspiciousActivity(ctx context.Context, userID string) []risk.SuspiciousActivityReport
	// SetVelocityLimit installs a per-user velocity override.
	SetVelocityLimit(ctx context.Context, userID string, cfg risk.VelocityLimitConfig) error
}

// ActivityStore keeps the bounded per-key histories of recent events:
// transactions per user, sightings per device. Appends for the same key are
// linearizable; reads return copy-on-read snapshots that never reflect
// concurrent appends.
type ActivityStore interface {
	AppendTransaction(ctx context.Context, rec risk.TransactionRecord) error
	AppendDeviceSighting(ctx context.Context, sighting risk.DeviceSighting) error
	// TransactionsSince returns the user's records with timestamp >= since,
	// in no guaranteed order.
	TransactionsSince(ctx context.Context, userID string, since time.Time) ([]risk.TransactionRecord, error)
	// SightingsSince is the device-keyed analogue of TransactionsSince.
	SightingsSince(ctx context.Context, deviceID string, since time.Time) ([]risk.DeviceSighting, error)
	// AllTransactions returns the user's full capped history.
	AllTransactions(ctx context.Context, userID string) ([]risk.TransactionRecord, error)
	// AllSightings returns the device's full capped history.
	AllSightings(ctx context.Context, deviceID string) ([]risk.DeviceSighting, error)
}

// BlacklistRegistry is the explicit deny list. All operations are idempotent.
type BlacklistRegistry interface {
	Add(ctx context.Context, userID, reason string) error
	Remove(ctx context.Context, userID string) error
	Contains(ctx context.Context, userID string) (bool, error)
	Get(ctx context.Context, userID string) (*risk.BlacklistEntry, error)
	Size(ctx context.Context) (int64, error)
}

// VelocityResult classifies the outcome of a velocity-limit evaluation.
type VelocityResult int

const (
	WithinLimits VelocityResult = iota
	DailyLimitExceeded
	HourlyFrequencyExceeded
)

func (r VelocityResult) String() string {
	switch r {
	case DailyLimitExceeded:
		return "daily_limit_exceeded"
	case HourlyFrequencyExceeded:
		return "hourly_frequency_exceeded"
	default:
		return "within_limits"
	}
}

// VelocityOutcome carries the evaluation result plus the aggregates it was
// derived from.
type VelocityOutcome struct {
	Result      VelocityResult
	HourlyCount int
	DailyTotal  decimal.Decimal
	Limits      risk.VelocityLimitConfig
}
