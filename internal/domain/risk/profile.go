package risk

import "time"

// ScoreEntry is one historical assessment outcome in a user's risk profile.
type ScoreEntry struct {
	Score     float64   `json:"score"`
	Level     Level     `json:"level"`
	Timestamp time.Time `json:"timestamp"`
}

// UserRiskProfile summarizes a user's assessment history. The current score
// is an exponential moving average of per-assessment scores; the profile is
// observability state and never feeds back into scoring.
type UserRiskProfile struct {
	UserID              string       `json:"user_id"`
	CurrentRiskScore    float64      `json:"current_risk_score"`
	TotalAssessments    int          `json:"total_assessments"`
	HighRiskCount       int          `json:"high_risk_count"`
	RecentHighRiskCount int          `json:"recent_high_risk_count"`
	HistoricalScores    []ScoreEntry `json:"historical_scores"`
	LastAssessedAt      time.Time    `json:"last_assessed_at"`
}

// SuspiciousActivityType categorizes an out-of-band suspicious activity
// report filed by the orchestrator or support tooling.
type SuspiciousActivityType int

const (
	ActivityMultipleFailedAttempts SuspiciousActivityType = iota
	ActivityRapidTransactions
	ActivityUnusualLocation
	ActivityCompromisedDevice
	ActivitySocialEngineering
)

func (t SuspiciousActivityType) String() string {
	switch t {
	case ActivityMultipleFailedAttempts:
		return "multiple_failed_attempts"
	case ActivityRapidTransactions:
		return "rapid_transactions"
	case ActivityUnusualLocation:
		return "unusual_location"
	case ActivityCompromisedDevice:
		return "compromised_device"
	case ActivitySocialEngineering:
		return "social_engineering"
	default:
		return "unknown"
	}
}

// SuspiciousActivityReport records a suspicious activity observation for the
// fraud team. Reports do not alter scoring.
type SuspiciousActivityReport struct {
	UserID       string                 `json:"user_id"`
	ActivityType SuspiciousActivityType `json:"activity_type"`
	Details      string                 `json:"details"`
	ReportedAt   time.Time              `json:"reported_at"`
}
