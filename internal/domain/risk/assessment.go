package risk

import "strings"

// Level is the ordinal risk classification derived from a numeric score.
type Level int

const (
	LevelLow Level = iota
	LevelMedium
	LevelHigh
	LevelCritical
)

func (l Level) String() string {
	switch l {
	case LevelLow:
		return "LOW"
	case LevelMedium:
		return "MEDIUM"
	case LevelHigh:
		return "HIGH"
	case LevelCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Classification thresholds are inclusive lower bounds on the score.
const (
	ScoreCritical = 0.8
	ScoreHigh     = 0.6
	ScoreMedium   = 0.4
)

// LevelForScore maps a score in [0,1] to its risk level. The mapping is
// monotonic: a larger score never yields a lower level.
func LevelForScore(score float64) Level {
	switch {
	case score >= ScoreCritical:
		return LevelCritical
	case score >= ScoreHigh:
		return LevelHigh
	case score >= ScoreMedium:
		return LevelMedium
	default:
		return LevelLow
	}
}

// Action is the gating decision recommended to the payment orchestrator.
type Action int

const (
	ActionAllow Action = iota
	ActionMonitor
	ActionRequireAdditionalAuth
	ActionBlock
)

func (a Action) String() string {
	switch a {
	case ActionAllow:
		return "ALLOW_TRANSACTION"
	case ActionMonitor:
		return "MONITOR_TRANSACTION"
	case ActionRequireAdditionalAuth:
		return "REQUIRE_ADDITIONAL_AUTH"
	case ActionBlock:
		return "BLOCK_TRANSACTION"
	default:
		return "UNKNOWN"
	}
}

// RecommendedAction returns the policy action for a risk level.
func (l Level) RecommendedAction() Action {
	switch l {
	case LevelCritical:
		return ActionBlock
	case LevelHigh:
		return ActionRequireAdditionalAuth
	case LevelMedium:
		return ActionMonitor
	default:
		return ActionAllow
	}
}

// Indicator is a named fraud signal explaining why a partial score was added.
type Indicator string

const (
	IndicatorBlacklistedUser    Indicator = "BLACKLISTED_USER"
	IndicatorInvalidUser        Indicator = "INVALID_USER"
	IndicatorHighAmount         Indicator = "HIGH_AMOUNT"
	IndicatorMediumAmount       Indicator = "MEDIUM_AMOUNT"
	IndicatorHighVelocity       Indicator = "HIGH_VELOCITY"
	IndicatorFrequentTxns       Indicator = "FREQUENT_TRANSACTIONS"
	IndicatorNewDevice          Indicator = "NEW_DEVICE"
	IndicatorSharedDevice       Indicator = "SHARED_DEVICE"
	IndicatorCompromisedDevice  Indicator = "COMPROMISED_DEVICE"
	IndicatorUnusualTime        Indicator = "UNUSUAL_TIME"
	IndicatorAmountDeviation    Indicator = "AMOUNT_DEVIATION"
	IndicatorAmountAnomaly      Indicator = "AMOUNT_ANOMALY"
	IndicatorNewRecipient       Indicator = "NEW_RECIPIENT"
	IndicatorNewUser            Indicator = "NEW_USER"
	IndicatorDailyLimitExceeded Indicator = "DAILY_LIMIT_EXCEEDED"
	IndicatorHighFrequencyTxns  Indicator = "HIGH_FREQUENCY_TRANSACTIONS"
	IndicatorSharedDeviceSusp   Indicator = "SHARED_DEVICE_SUSPICIOUS"
)

// Assessment is the immutable outcome of a single risk evaluation. It is
// produced fresh on every call and never stored by the engine; callers persist
// it if they need an audit trail.
type Assessment struct {
	Level             Level       `json:"risk_level"`
	Score             float64     `json:"risk_score"`
	Reason            string      `json:"reason"`
	RecommendedAction Action      `json:"recommended_action"`
	Indicators        []Indicator `json:"fraud_indicators"`
}

// Blocked reports whether the recommended action rejects the transaction.
func (a Assessment) Blocked() bool {
	return a.RecommendedAction == ActionBlock
}

// ReasonFor renders the human-readable reason line for a set of indicators,
// preserving evaluator-run order.
func ReasonFor(indicators []Indicator) string {
	switch len(indicators) {
	case 0:
		return "No risk factors detected"
	case 1:
		return "Risk factor: " + string(indicators[0])
	default:
		names := make([]string, len(indicators))
		for i, ind := range indicators {
			names[i] = string(ind)
		}
		return "Multiple risk factors: " + strings.Join(names, ", ")
	}
}
