package risk

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/davidleathers/payment-risk-engine/internal/domain/risk"
)

var errStoreDown = errors.New("store unavailable")

// failingStore simulates a backing store outage.
type failingStore struct{}

func (failingStore) AppendTransaction(context.Context, risk.TransactionRecord) error { return errStoreDown }
func (failingStore) AppendDeviceSighting(context.Context, risk.DeviceSighting) error { return errStoreDown }
func (failingStore) TransactionsSince(context.Context, string, time.Time) ([]risk.TransactionRecord, error) {
	return nil, errStoreDown
}
func (failingStore) SightingsSince(context.Context, string, time.Time) ([]risk.DeviceSighting, error) {
	return nil, errStoreDown
}
func (failingStore) AllTransactions(context.Context, string) ([]risk.TransactionRecord, error) {
	return nil, errStoreDown
}
func (failingStore) AllSightings(context.Context, string) ([]risk.DeviceSighting, error) {
	return nil, errStoreDown
}

// failingBlacklist simulates a registry outage.
type failingBlacklist struct{}

func (failingBlacklist) Add(context.Context, string, string) error { return errStoreDown }
func (failingBlacklist) Remove(context.Context, string) error      { return errStoreDown }
func (failingBlacklist) Contains(context.Context, string) (bool, error) {
	return false, errStoreDown
}
func (failingBlacklist) Get(context.Context, string) (*risk.BlacklistEntry, error) {
	return nil, errStoreDown
}
func (failingBlacklist) Size(context.Context) (int64, error) { return 0, errStoreDown }

func TestScore_DegradesToNeutralWhenStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	store := failingStore{}
	engine := NewScoringEngine(store, NewBlacklistRegistry(),
		NewVelocityLimiter(store, risk.DefaultVelocityLimits()), zaptest.NewLogger(t))

	req := daytimeRequest("user-1", 1000)
	req.Device = &risk.DeviceInfo{DeviceID: "device-1"}

	assessment := engine.Score(ctx, req)

	// Velocity, device, and behavioral signals all drop out; the request
	// itself carries no amount or time signal either.
	assert.Equal(t, risk.LevelLow, assessment.Level)
	assert.Zero(t, assessment.Score)
	assert.Equal(t, "No risk factors detected", assessment.Reason)
	assert.Equal(t, risk.ActionAllow, assessment.RecommendedAction)
}

func TestScore_AmountSignalSurvivesStoreOutage(t *testing.T) {
	ctx := context.Background()
	store := failingStore{}
	engine := NewScoringEngine(store, NewBlacklistRegistry(),
		NewVelocityLimiter(store, risk.DefaultVelocityLimits()), zaptest.NewLogger(t))

	assessment := engine.Score(ctx, daytimeRequest("user-1", 600000))

	assert.Equal(t, []risk.Indicator{risk.IndicatorHighAmount}, assessment.Indicators)
	assert.InDelta(t, 0.4, assessment.Score, 1e-9)
}

func TestScore_BlacklistOutageFailsOpen(t *testing.T) {
	ctx := context.Background()
	store := NewActivityStore(DefaultHistoryCap)
	engine := NewScoringEngine(store, failingBlacklist{},
		NewVelocityLimiter(store, risk.DefaultVelocityLimits()), zaptest.NewLogger(t))

	assessment := engine.Score(ctx, daytimeRequest("user-1", 100))

	// The lookup failure is not treated as a blacklist hit.
	require.NotContains(t, assessment.Indicators, risk.IndicatorBlacklistedUser)
	assert.NotEqual(t, 1.0, assessment.Score)
}

func TestScore_EvaluatorRunOrderInReason(t *testing.T) {
	ctx := context.Background()
	store := NewActivityStore(DefaultHistoryCap)
	engine := NewScoringEngine(store, NewBlacklistRegistry(),
		NewVelocityLimiter(store, risk.DefaultVelocityLimits()), zaptest.NewLogger(t))

	req := risk.TransactionRequest{
		UserID:    "user-1",
		Amount:    decimal.NewFromInt(600000),
		Currency:  "USD",
		Recipient: "acme-corp",
		CreatedAt: time.Date(2025, 6, 2, 3, 0, 0, 0, time.UTC),
	}

	assessment := engine.Score(ctx, req)

	// Amount before velocity before time before behavioral.
	assert.Equal(t, []risk.Indicator{
		risk.IndicatorHighAmount,
		risk.IndicatorHighVelocity,
		risk.IndicatorUnusualTime,
		risk.IndicatorNewUser,
	}, assessment.Indicators)
	assert.Equal(t,
		"Multiple risk factors: HIGH_AMOUNT, HIGH_VELOCITY, UNUSUAL_TIME, NEW_USER",
		assessment.Reason)
}
