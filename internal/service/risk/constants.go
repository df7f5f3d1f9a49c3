package risk

import (
	"time"

	"github.com/shopspring/decimal"
)

// Evaluator weight caps. Blacklist aside, the summed partial scores are
// clamped to 1.0 before classification.
const (
	weightAmountHigh      = 0.4
	weightAmountMedium    = 0.2
	weightVelocityDaily   = 0.3
	weightVelocityHourly  = 0.2
	weightDeviceShared    = 0.3
	weightDeviceNew       = 0.2
	deviceCap             = 0.3
	weightUnusualTime     = 0.2
	weightAmountDeviation = 0.3
	weightAmountAnomaly   = 0.2
	weightNewRecipient    = 0.1
	weightNewUser         = 0.1
	behavioralCap         = 0.3
)

// Rolling windows are wall-clock trailing intervals, never calendar-aligned.
const (
	dailyWindow  = 24 * time.Hour
	hourlyWindow = time.Hour

	// HourlyFrequencyThreshold is the stored-transaction count above which
	// the trailing one-hour window is considered too busy.
	HourlyFrequencyThreshold = 10

	// sharedDeviceUserThreshold is the distinct-user count above which a
	// device is treated as shared during transaction analysis.
	sharedDeviceUserThreshold = 3

	// fingerprintSharedUserThreshold is the stricter distinct-user count used
	// by the standalone fingerprint check over the trailing 24 hours.
	fingerprintSharedUserThreshold = 5

	// Transactions stamped at a UTC hour in [unusualHourStart, unusualHourEnd]
	// carry the unusual-time signal.
	unusualHourStart = 2
	unusualHourEnd   = 6

	amountDeviationFactor = 10
	amountAnomalyFactor   = 5
)

// DefaultHistoryCap bounds each per-user and per-device history; the oldest
// entry is evicted first once the cap is exceeded.
const DefaultHistoryCap = 1000

// Risk-profile maintenance.
const (
	profileHistoryCap    = 100
	profileEMAAlpha      = 0.3
	recentHighRiskWindow = 7 * 24 * time.Hour
	highRiskScore        = 0.8
)

// Amount thresholds in minor units.
var (
	highAmountThreshold   = decimal.NewFromInt(500000)
	mediumAmountThreshold = decimal.NewFromInt(100000)
)
