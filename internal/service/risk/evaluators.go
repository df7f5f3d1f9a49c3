package risk

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/davidleathers/payment-risk-engine/internal/domain/risk"
)

// signal is one evaluator's contribution: a partial score within the
// evaluator's weight cap plus the indicators that fired.
type signal struct {
	score      float64
	indicators []risk.Indicator
}

func (s signal) with(weight float64, ind risk.Indicator) signal {
	s.score += weight
	s.indicators = append(s.indicators, ind)
	return s
}

// evaluateAmount scores the raw magnitude of the transfer. Larger amounts
// never score lower than smaller ones.
func evaluateAmount(amount decimal.Decimal) signal {
	var s signal
	switch {
	case amount.GreaterThanOrEqual(highAmountThreshold):
		s = s.with(weightAmountHigh, risk.IndicatorHighAmount)
	case amount.GreaterThanOrEqual(mediumAmountThreshold):
		s = s.with(weightAmountMedium, risk.IndicatorMediumAmount)
	}
	return s
}

// evaluateVelocity converts a limiter outcome into a partial score.
func evaluateVelocity(outcome VelocityOutcome) signal {
	var s signal
	switch outcome.Result {
	case DailyLimitExceeded:
		s = s.with(weightVelocityDaily, risk.IndicatorHighVelocity)
	case HourlyFrequencyExceeded:
		s = s.with(weightVelocityHourly, risk.IndicatorFrequentTxns)
	}
	return s
}

// evaluateDevice scores device-sharing and device-novelty signals over the
// device's full sighting history. A compromised trust signal raises the
// output to the evaluator cap; an absent or unknown signal is neutral.
func evaluateDevice(device *risk.DeviceInfo, sightings []risk.DeviceSighting) signal {
	var s signal
	if device == nil {
		return s
	}

	users := make(map[string]struct{}, len(sightings))
	for _, sighting := range sightings {
		users[sighting.UserID] = struct{}{}
	}

	switch {
	case len(users) > sharedDeviceUserThreshold:
		s = s.with(weightDeviceShared, risk.IndicatorSharedDevice)
	case len(sightings) == 0:
		s = s.with(weightDeviceNew, risk.IndicatorNewDevice)
	}

	if device.Trust.Compromised() {
		s.score = deviceCap
		s.indicators = append(s.indicators, risk.IndicatorCompromisedDevice)
	}
	return s
}

// evaluateTimeOfDay flags transactions stamped in the small hours, UTC.
func evaluateTimeOfDay(ts time.Time) signal {
	var s signal
	hour := ts.UTC().Hour()
	if hour >= unusualHourStart && hour <= unusualHourEnd {
		s = s.with(weightUnusualTime, risk.IndicatorUnusualTime)
	}
	return s
}

// evaluateBehavior compares the candidate against the user's historical
// spending. A user with no history scores the new-user signal instead; the
// combined output is capped at the evaluator's weight cap.
func evaluateBehavior(req risk.TransactionRequest, history []risk.TransactionRecord) signal {
	var s signal
	if len(history) == 0 {
		return s.with(weightNewUser, risk.IndicatorNewUser)
	}

	sum := decimal.Zero
	knownRecipient := false
	for _, rec := range history {
		sum = sum.Add(rec.Amount)
		if rec.Recipient == req.Recipient {
			knownRecipient = true
		}
	}
	mean := sum.Div(decimal.NewFromInt(int64(len(history))))

	switch {
	case req.Amount.GreaterThan(mean.Mul(decimal.NewFromInt(amountDeviationFactor))):
		s = s.with(weightAmountDeviation, risk.IndicatorAmountDeviation)
	case req.Amount.GreaterThan(mean.Mul(decimal.NewFromInt(amountAnomalyFactor))):
		s = s.with(weightAmountAnomaly, risk.IndicatorAmountAnomaly)
	}

	if !knownRecipient {
		s = s.with(weightNewRecipient, risk.IndicatorNewRecipient)
	}

	if s.score > behavioralCap {
		s.score = behavioralCap
	}
	return s
}
