package risk

import (
	"sync"
	"time"

	"github.com/davidleathers/payment-risk-engine/internal/domain/risk"
)

// profileStore maintains per-user assessment profiles. The current score is
// an exponential moving average; the entry history is capped like the other
// histories. Profiles never feed back into scoring.
type profileStore struct {
	mu       sync.RWMutex
	profiles map[string]*risk.UserRiskProfile
}

func newProfileStore() *profileStore {
	return &profileStore{profiles: make(map[string]*risk.UserRiskProfile)}
}

func (p *profileStore) record(userID string, score float64, level risk.Level, now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	profile, ok := p.profiles[userID]
	if !ok {
		profile = &risk.UserRiskProfile{UserID: userID, CurrentRiskScore: score}
		p.profiles[userID] = profile
	} else {
		profile.CurrentRiskScore = profileEMAAlpha*score + (1-profileEMAAlpha)*profile.CurrentRiskScore
	}

	profile.TotalAssessments++
	if score >= highRiskScore {
		profile.HighRiskCount++
	}
	profile.HistoricalScores = append(profile.HistoricalScores, risk.ScoreEntry{
		Score:     score,
		Level:     level,
		Timestamp: now,
	})
	if len(profile.HistoricalScores) > profileHistoryCap {
		trimmed := make([]risk.ScoreEntry, profileHistoryCap)
		copy(trimmed, profile.HistoricalScores[len(profile.HistoricalScores)-profileHistoryCap:])
		profile.HistoricalScores = trimmed
	}
	profile.LastAssessedAt = now
}

// get returns a snapshot copy; unknown users get a zero profile.
func (p *profileStore) get(userID string, now time.Time) risk.UserRiskProfile {
	p.mu.RLock()
	defer p.mu.RUnlock()

	profile, ok := p.profiles[userID]
	if !ok {
		return risk.UserRiskProfile{UserID: userID}
	}

	out := *profile
	out.HistoricalScores = make([]risk.ScoreEntry, len(profile.HistoricalScores))
	copy(out.HistoricalScores, profile.HistoricalScores)

	recentStart := now.Add(-recentHighRiskWindow)
	recent := 0
	for _, entry := range out.HistoricalScores {
		if entry.Score >= highRiskScore && !entry.Timestamp.Before(recentStart) {
			recent++
		}
	}
	out.RecentHighRiskCount = recent
	return out
}

// reportStore keeps the suspicious-activity reports filed per user, capped
// like the other histories.
type reportStore struct {
	mu      sync.RWMutex
	cap     int
	reports map[string][]risk.SuspiciousActivityReport
}

func newReportStore(cap int) *reportStore {
	if cap <= 0 {
		cap = DefaultHistoryCap
	}
	return &reportStore{cap: cap, reports: make(map[string][]risk.SuspiciousActivityReport)}
}

func (r *reportStore) add(report risk.SuspiciousActivityReport) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reports := append(r.reports[report.UserID], report)
	if len(reports) > r.cap {
		trimmed := make([]risk.SuspiciousActivityReport, r.cap)
		copy(trimmed, reports[len(reports)-r.cap:])
		reports = trimmed
	}
	r.reports[report.UserID] = reports
}

func (r *reportStore) forUser(userID string) []risk.SuspiciousActivityReport {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reports := r.reports[userID]
	out := make([]risk.SuspiciousActivityReport, len(reports))
	copy(out, reports)
	return out
}
