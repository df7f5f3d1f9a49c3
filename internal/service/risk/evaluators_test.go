package risk

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/davidleathers/payment-risk-engine/internal/domain/risk"
)

func TestEvaluateAmount(t *testing.T) {
	tests := []struct {
		amount    int64
		wantScore float64
		wantInd   []risk.Indicator
	}{
		{0, 0, nil},
		{99999, 0, nil},
		{100000, 0.2, []risk.Indicator{risk.IndicatorMediumAmount}},
		{499999, 0.2, []risk.Indicator{risk.IndicatorMediumAmount}},
		{500000, 0.4, []risk.Indicator{risk.IndicatorHighAmount}},
		{10000000, 0.4, []risk.Indicator{risk.IndicatorHighAmount}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("amount_%d", tt.amount), func(t *testing.T) {
			s := evaluateAmount(decimal.NewFromInt(tt.amount))
			assert.InDelta(t, tt.wantScore, s.score, 1e-9)
			assert.Equal(t, tt.wantInd, s.indicators)
		})
	}
}

func TestEvaluateAmount_Monotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		a := rng.Int63n(1000000)
		b := a + rng.Int63n(1000000)

		lower := evaluateAmount(decimal.NewFromInt(a))
		higher := evaluateAmount(decimal.NewFromInt(b))
		assert.LessOrEqual(t, lower.score, higher.score,
			"amount %d scored above amount %d", a, b)
	}
}

func TestEvaluateVelocity(t *testing.T) {
	tests := []struct {
		name      string
		result    VelocityResult
		wantScore float64
		wantInd   []risk.Indicator
	}{
		{"within limits", WithinLimits, 0, nil},
		{"daily exceeded", DailyLimitExceeded, 0.3, []risk.Indicator{risk.IndicatorHighVelocity}},
		{"hourly exceeded", HourlyFrequencyExceeded, 0.2, []risk.Indicator{risk.IndicatorFrequentTxns}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := evaluateVelocity(VelocityOutcome{Result: tt.result})
			assert.InDelta(t, tt.wantScore, s.score, 1e-9)
			assert.Equal(t, tt.wantInd, s.indicators)
		})
	}
}

func sightingsForUsers(deviceID string, userIDs ...string) []risk.DeviceSighting {
	out := make([]risk.DeviceSighting, 0, len(userIDs))
	for _, userID := range userIDs {
		out = append(out, risk.DeviceSighting{
			UserID:    userID,
			DeviceID:  deviceID,
			Timestamp: time.Now(),
		})
	}
	return out
}

func TestEvaluateDevice(t *testing.T) {
	device := &risk.DeviceInfo{DeviceID: "device-1", Trust: risk.TrustUnknown}

	t.Run("nil device is neutral", func(t *testing.T) {
		s := evaluateDevice(nil, nil)
		assert.Zero(t, s.score)
		assert.Empty(t, s.indicators)
	})

	t.Run("unseen device", func(t *testing.T) {
		s := evaluateDevice(device, nil)
		assert.InDelta(t, 0.2, s.score, 1e-9)
		assert.Equal(t, []risk.Indicator{risk.IndicatorNewDevice}, s.indicators)
	})

	t.Run("known device with few users", func(t *testing.T) {
		s := evaluateDevice(device, sightingsForUsers("device-1", "u1", "u2", "u1"))
		assert.Zero(t, s.score)
		assert.Empty(t, s.indicators)
	})

	t.Run("exactly three users is not shared", func(t *testing.T) {
		s := evaluateDevice(device, sightingsForUsers("device-1", "u1", "u2", "u3"))
		assert.Zero(t, s.score)
	})

	t.Run("four users is shared", func(t *testing.T) {
		s := evaluateDevice(device, sightingsForUsers("device-1", "u1", "u2", "u3", "u4"))
		assert.InDelta(t, 0.3, s.score, 1e-9)
		assert.Equal(t, []risk.Indicator{risk.IndicatorSharedDevice}, s.indicators)
	})

	t.Run("compromised trust raises to cap", func(t *testing.T) {
		rooted := &risk.DeviceInfo{DeviceID: "device-1", Trust: risk.TrustRooted}
		s := evaluateDevice(rooted, sightingsForUsers("device-1", "u1"))
		assert.InDelta(t, 0.3, s.score, 1e-9)
		assert.Contains(t, s.indicators, risk.IndicatorCompromisedDevice)
	})
}

func TestEvaluateTimeOfDay(t *testing.T) {
	tests := []struct {
		hour      int
		wantScore float64
	}{
		{0, 0}, {1, 0}, {2, 0.2}, {4, 0.2}, {6, 0.2}, {7, 0}, {14, 0}, {23, 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("hour_%d", tt.hour), func(t *testing.T) {
			ts := time.Date(2025, 6, 1, tt.hour, 30, 0, 0, time.UTC)
			s := evaluateTimeOfDay(ts)
			assert.InDelta(t, tt.wantScore, s.score, 1e-9)
		})
	}
}

func TestEvaluateTimeOfDay_UsesUTC(t *testing.T) {
	// 03:00 UTC expressed in a +05:00 zone is still unusual.
	zone := time.FixedZone("UTC+5", 5*3600)
	ts := time.Date(2025, 6, 1, 8, 0, 0, 0, zone)

	s := evaluateTimeOfDay(ts)
	assert.InDelta(t, 0.2, s.score, 1e-9)
	assert.Equal(t, []risk.Indicator{risk.IndicatorUnusualTime}, s.indicators)
}

func behaviorRequest(amount int64, recipient string) risk.TransactionRequest {
	return risk.TransactionRequest{
		UserID:    "user-1",
		Amount:    decimal.NewFromInt(amount),
		Currency:  "USD",
		Recipient: recipient,
	}
}

func behaviorHistory(amounts []int64, recipient string) []risk.TransactionRecord {
	now := time.Now()
	out := make([]risk.TransactionRecord, 0, len(amounts))
	for _, amount := range amounts {
		rec := testRecord("user-1", amount, now)
		rec.Recipient = recipient
		out = append(out, rec)
	}
	return out
}

func TestEvaluateBehavior(t *testing.T) {
	tests := []struct {
		name      string
		req       risk.TransactionRequest
		history   []risk.TransactionRecord
		wantScore float64
		wantInd   []risk.Indicator
	}{
		{
			name:      "no history scores new user",
			req:       behaviorRequest(100, "merchant-1"),
			history:   nil,
			wantScore: 0.1,
			wantInd:   []risk.Indicator{risk.IndicatorNewUser},
		},
		{
			name:      "typical amount known recipient is neutral",
			req:       behaviorRequest(100, "merchant-1"),
			history:   behaviorHistory([]int64{100, 100, 100}, "merchant-1"),
			wantScore: 0,
			wantInd:   nil,
		},
		{
			name:      "over ten times mean",
			req:       behaviorRequest(1001, "merchant-1"),
			history:   behaviorHistory([]int64{100, 100}, "merchant-1"),
			wantScore: 0.3,
			wantInd:   []risk.Indicator{risk.IndicatorAmountDeviation},
		},
		{
			name:      "exactly ten times mean is not a deviation",
			req:       behaviorRequest(1000, "merchant-1"),
			history:   behaviorHistory([]int64{100, 100}, "merchant-1"),
			wantScore: 0.2,
			wantInd:   []risk.Indicator{risk.IndicatorAmountAnomaly},
		},
		{
			name:      "over five times mean",
			req:       behaviorRequest(501, "merchant-1"),
			history:   behaviorHistory([]int64{100, 100}, "merchant-1"),
			wantScore: 0.2,
			wantInd:   []risk.Indicator{risk.IndicatorAmountAnomaly},
		},
		{
			name:      "new recipient alone",
			req:       behaviorRequest(100, "merchant-9"),
			history:   behaviorHistory([]int64{100, 100}, "merchant-1"),
			wantScore: 0.1,
			wantInd:   []risk.Indicator{risk.IndicatorNewRecipient},
		},
		{
			name:      "deviation plus new recipient capped",
			req:       behaviorRequest(5000, "merchant-9"),
			history:   behaviorHistory([]int64{100, 100}, "merchant-1"),
			wantScore: 0.3,
			wantInd:   []risk.Indicator{risk.IndicatorAmountDeviation, risk.IndicatorNewRecipient},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := evaluateBehavior(tt.req, tt.history)
			assert.InDelta(t, tt.wantScore, s.score, 1e-9)
			assert.Equal(t, tt.wantInd, s.indicators)
		})
	}
}
