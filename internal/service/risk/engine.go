package risk

import (
	"context"

	"go.uber.org/zap"

	"github.com/davidleathers/payment-risk-engine/internal/domain/risk"
)

// ScoringEngine orchestrates the blacklist short-circuit and the signal
// evaluators, aggregates the weighted partial scores, and classifies the
// total into a level and recommended action.
type ScoringEngine struct {
	store     ActivityStore
	blacklist BlacklistRegistry
	velocity  *VelocityLimiter
	logger    *zap.Logger
}

// NewScoringEngine wires an engine over the given shared state.
func NewScoringEngine(store ActivityStore, blacklist BlacklistRegistry, velocity *VelocityLimiter, logger *zap.Logger) *ScoringEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScoringEngine{
		store:     store,
		blacklist: blacklist,
		velocity:  velocity,
		logger:    logger,
	}
}

// Score evaluates one transaction request. It never returns an error:
// unavailable signals degrade to neutral, invalid requests degrade to
// maximal risk, and a blacklisted user short-circuits every other evaluator.
func (e *ScoringEngine) Score(ctx context.Context, req risk.TransactionRequest) risk.Assessment {
	if req.UserID == "" {
		return risk.Assessment{
			Level:             risk.LevelCritical,
			Score:             1.0,
			Reason:            "User identifier is required",
			RecommendedAction: risk.ActionBlock,
			Indicators:        []risk.Indicator{risk.IndicatorInvalidUser},
		}
	}

	blacklisted, err := e.blacklist.Contains(ctx, req.UserID)
	if err != nil {
		e.logger.Warn("blacklist lookup failed, continuing without it",
			zap.String("user_id", req.UserID), zap.Error(err))
	}
	if blacklisted {
		return risk.Assessment{
			Level:             risk.LevelCritical,
			Score:             1.0,
			Reason:            "User is blacklisted",
			RecommendedAction: risk.ActionBlock,
			Indicators:        []risk.Indicator{risk.IndicatorBlacklistedUser},
		}
	}

	now := req.Timestamp()
	signals := make([]signal, 0, 5)

	signals = append(signals, evaluateAmount(req.Amount))

	outcome, err := e.velocity.CheckLimits(ctx, req.UserID, req.Amount, now)
	if err != nil {
		e.logger.Warn("velocity check unavailable, treating as neutral",
			zap.String("user_id", req.UserID), zap.Error(err))
	} else {
		signals = append(signals, evaluateVelocity(outcome))
	}

	if req.Device != nil {
		sightings, err := e.store.AllSightings(ctx, req.Device.DeviceID)
		if err != nil {
			e.logger.Warn("device history unavailable, treating as neutral",
				zap.String("device_id", req.Device.DeviceID), zap.Error(err))
		} else {
			signals = append(signals, evaluateDevice(req.Device, sightings))
		}
	}

	signals = append(signals, evaluateTimeOfDay(now))

	history, err := e.store.AllTransactions(ctx, req.UserID)
	if err != nil {
		e.logger.Warn("transaction history unavailable, treating as neutral",
			zap.String("user_id", req.UserID), zap.Error(err))
	} else {
		signals = append(signals, evaluateBehavior(req, history))
	}

	total := 0.0
	var indicators []risk.Indicator
	for _, s := range signals {
		total += s.score
		indicators = append(indicators, s.indicators...)
	}
	if total > 1.0 {
		total = 1.0
	}
	if total < 0.0 {
		total = 0.0
	}

	level := risk.LevelForScore(total)
	return risk.Assessment{
		Level:             level,
		Score:             total,
		Reason:            risk.ReasonFor(indicators),
		RecommendedAction: level.RecommendedAction(),
		Indicators:        indicators,
	}
}
