package risk

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/davidleathers/payment-risk-engine/internal/domain/errors"
	"github.com/davidleathers/payment-risk-engine/internal/domain/risk"
	"github.com/davidleathers/payment-risk-engine/internal/metrics"
)

const tracerName = "github.com/davidleathers/payment-risk-engine/internal/service/risk"

// service implements the Service interface.
type service struct {
	store     ActivityStore
	blacklist BlacklistRegistry
	velocity  *VelocityLimiter
	engine    *ScoringEngine
	profiles  *profileStore
	reports   *reportStore
	logger    *zap.Logger
	registry  *metrics.Registry
	tracer    trace.Tracer
}

// NewService wires the risk-assessment facade over the given shared state.
// The metrics registry may be nil.
func NewService(store ActivityStore, blacklist BlacklistRegistry, defaults risk.VelocityLimitConfig, logger *zap.Logger, registry *metrics.Registry) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	velocity := NewVelocityLimiter(store, defaults)
	return &service{
		store:     store,
		blacklist: blacklist,
		velocity:  velocity,
		engine:    NewScoringEngine(store, blacklist, velocity, logger),
		profiles:  newProfileStore(),
		reports:   newReportStore(DefaultHistoryCap),
		logger:    logger,
		registry:  registry,
		tracer:    otel.Tracer(tracerName),
	}
}

// Analyze scores a proposed transfer. It is a pure read of admission-control
// state and is safe to call repeatedly for the same request.
func (s *service) Analyze(ctx context.Context, req risk.TransactionRequest) risk.Assessment {
	ctx, span := s.tracer.Start(ctx, "risk.Analyze")
	defer span.End()
	start := time.Now()

	assessment := s.engine.Score(ctx, req)

	if req.UserID != "" {
		s.profiles.record(req.UserID, assessment.Score, assessment.Level, req.Timestamp())
	}

	span.SetAttributes(
		attribute.String("risk.level", assessment.Level.String()),
		attribute.Float64("risk.score", assessment.Score),
		attribute.String("risk.action", assessment.RecommendedAction.String()),
	)
	s.registry.RecordAssessment(ctx,
		float64(time.Since(start).Microseconds())/1000.0,
		assessment.Level.String(),
		assessment.RecommendedAction.String(),
		assessment.Blocked(),
	)

	s.logger.Debug("transaction analyzed",
		zap.String("user_id", req.UserID),
		zap.String("level", assessment.Level.String()),
		zap.Float64("score", assessment.Score),
		zap.String("action", assessment.RecommendedAction.String()),
	)
	return assessment
}

// RecordTransaction appends a known-outcome transfer to the user's history.
func (s *service) RecordTransaction(ctx context.Context, rec risk.TransactionRecord) error {
	if rec.UserID == "" {
		return errors.ErrMissingUserID
	}
	if !rec.Amount.IsPositive() {
		return errors.NewValidationError("INVALID_AMOUNT", "Transaction amount must be positive")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	if err := s.store.AppendTransaction(ctx, rec); err != nil {
		return errors.Wrap(err, "recording transaction")
	}
	s.registry.RecordTransactionStored(ctx)
	return nil
}

// RecordDeviceActivity appends a device sighting for a user.
func (s *service) RecordDeviceActivity(ctx context.Context, userID string, device risk.DeviceInfo) error {
	if userID == "" {
		return errors.ErrMissingUserID
	}
	if device.DeviceID == "" {
		return errors.ErrMissingDeviceID
	}

	sighting := risk.DeviceSighting{
		UserID:    userID,
		DeviceID:  device.DeviceID,
		IPAddress: device.IPAddress,
		Location:  device.Location,
		Timestamp: time.Now(),
	}
	if err := s.store.AppendDeviceSighting(ctx, sighting); err != nil {
		return errors.Wrap(err, "recording device activity")
	}
	return nil
}

// Blacklist adds a user to the deny list.
func (s *service) Blacklist(ctx context.Context, userID, reason string) error {
	if userID == "" {
		return errors.ErrMissingUserID
	}
	if err := s.blacklist.Add(ctx, userID, reason); err != nil {
		return errors.Wrap(err, "blacklisting user")
	}
	s.updateBlacklistGauge(ctx)
	s.logger.Info("user blacklisted", zap.String("user_id", userID), zap.String("reason", reason))
	return nil
}

// Unblacklist removes a user from the deny list.
func (s *service) Unblacklist(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.ErrMissingUserID
	}
	if err := s.blacklist.Remove(ctx, userID); err != nil {
		return errors.Wrap(err, "unblacklisting user")
	}
	s.updateBlacklistGauge(ctx)
	s.logger.Info("user removed from blacklist", zap.String("user_id", userID))
	return nil
}

// CheckVelocity runs the standalone velocity-only check used for
// out-of-band monitoring.
func (s *service) CheckVelocity(ctx context.Context, userID string) risk.Assessment {
	if userID == "" {
		return risk.Assessment{
			Level:             risk.LevelCritical,
			Score:             1.0,
			Reason:            "User identifier is required",
			RecommendedAction: risk.ActionBlock,
			Indicators:        []risk.Indicator{risk.IndicatorInvalidUser},
		}
	}

	outcome, err := s.velocity.CheckLimits(ctx, userID, decimal.Zero, time.Now())
	if err != nil {
		s.logger.Warn("standalone velocity check unavailable",
			zap.String("user_id", userID), zap.Error(err))
	}

	switch outcome.Result {
	case DailyLimitExceeded:
		s.registry.RecordVelocityViolation(ctx, outcome.Result.String())
		return risk.Assessment{
			Level:             risk.LevelHigh,
			Score:             0.8,
			Reason:            "Daily transaction limit exceeded",
			RecommendedAction: risk.ActionBlock,
			Indicators:        []risk.Indicator{risk.IndicatorDailyLimitExceeded},
		}
	case HourlyFrequencyExceeded:
		s.registry.RecordVelocityViolation(ctx, outcome.Result.String())
		return risk.Assessment{
			Level:             risk.LevelHigh,
			Score:             0.7,
			Reason:            "Too many transactions in short time",
			RecommendedAction: risk.ActionRequireAdditionalAuth,
			Indicators:        []risk.Indicator{risk.IndicatorHighFrequencyTxns},
		}
	default:
		return risk.Assessment{
			Level:             risk.LevelLow,
			Score:             0.1,
			Reason:            "Velocity checks passed",
			RecommendedAction: risk.ActionAllow,
			Indicators:        []risk.Indicator{},
		}
	}
}

// ValidateDeviceFingerprint runs the standalone device-history check.
func (s *service) ValidateDeviceFingerprint(ctx context.Context, deviceID string) risk.Assessment {
	all, err := s.store.AllSightings(ctx, deviceID)
	if err != nil {
		s.logger.Warn("device fingerprint check unavailable",
			zap.String("device_id", deviceID), zap.Error(err))
		all = nil
	}

	if len(all) == 0 {
		return risk.Assessment{
			Level:             risk.LevelMedium,
			Score:             0.5,
			Reason:            "New device detected",
			RecommendedAction: risk.ActionRequireAdditionalAuth,
			Indicators:        []risk.Indicator{risk.IndicatorNewDevice},
		}
	}

	recent, err := s.store.SightingsSince(ctx, deviceID, time.Now().Add(-dailyWindow))
	if err != nil {
		s.logger.Warn("device fingerprint check degraded",
			zap.String("device_id", deviceID), zap.Error(err))
	}
	users := make(map[string]struct{}, len(recent))
	for _, sighting := range recent {
		users[sighting.UserID] = struct{}{}
	}
	if len(users) > fingerprintSharedUserThreshold {
		return risk.Assessment{
			Level:             risk.LevelHigh,
			Score:             0.9,
			Reason:            "Device used by multiple users",
			RecommendedAction: risk.ActionBlock,
			Indicators:        []risk.Indicator{risk.IndicatorSharedDeviceSusp},
		}
	}

	return risk.Assessment{
		Level:             risk.LevelLow,
		Score:             0.1,
		Reason:            "Device fingerprint validated",
		RecommendedAction: risk.ActionAllow,
		Indicators:        []risk.Indicator{},
	}
}

// GetUserRiskProfile returns the user's profile snapshot.
func (s *service) GetUserRiskProfile(_ context.Context, userID string) risk.UserRiskProfile {
	return s.profiles.get(userID, time.Now())
}

// ReportSuspiciousActivity files an out-of-band report.
func (s *service) ReportSuspiciousActivity(_ context.Context, report risk.SuspiciousActivityReport) error {
	if report.UserID == "" || report.Details == "" {
		return errors.ErrNilReport
	}
	if report.ReportedAt.IsZero() {
		report.ReportedAt = time.Now()
	}
	s.reports.add(report)
	s.logger.Warn("suspicious activity reported",
		zap.String("user_id", report.UserID),
		zap.String("activity_type", report.ActivityType.String()),
	)
	return nil
}

// SuspiciousActivity returns the reports filed for a user.
func (s *service) SuspiciousActivity(_ context.Context, userID string) []risk.SuspiciousActivityReport {
	return s.reports.forUser(userID)
}

// SetVelocityLimit installs a per-user velocity override.
func (s *service) SetVelocityLimit(_ context.Context, userID string, cfg risk.VelocityLimitConfig) error {
	if userID == "" {
		return errors.ErrMissingUserID
	}
	if !cfg.Valid() {
		return errors.ErrInvalidLimits
	}
	s.velocity.SetLimit(userID, cfg)
	s.logger.Info("velocity limits overridden",
		zap.String("user_id", userID),
		zap.String("daily_limit", cfg.DailyLimit.String()),
	)
	return nil
}

func (s *service) updateBlacklistGauge(ctx context.Context) {
	size, err := s.blacklist.Size(ctx)
	if err != nil {
		return
	}
	s.registry.SetBlacklistSize(size)
}
