package risk

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  Level
	}{
		{0.0, LevelLow},
		{0.39, LevelLow},
		{0.4, LevelMedium},
		{0.59, LevelMedium},
		{0.6, LevelHigh},
		{0.79, LevelHigh},
		{0.8, LevelCritical},
		{1.0, LevelCritical},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("score_%v", tt.score), func(t *testing.T) {
			assert.Equal(t, tt.want, LevelForScore(tt.score))
		})
	}
}

func TestLevelForScore_Monotonic(t *testing.T) {
	prev := LevelLow
	for i := 0; i <= 100; i++ {
		level := LevelForScore(float64(i) / 100)
		assert.GreaterOrEqual(t, level, prev)
		prev = level
	}
}

func TestLevelStrings(t *testing.T) {
	assert.Equal(t, "LOW", LevelLow.String())
	assert.Equal(t, "MEDIUM", LevelMedium.String())
	assert.Equal(t, "HIGH", LevelHigh.String())
	assert.Equal(t, "CRITICAL", LevelCritical.String())
}

func TestRecommendedAction(t *testing.T) {
	tests := []struct {
		level Level
		want  Action
	}{
		{LevelLow, ActionAllow},
		{LevelMedium, ActionMonitor},
		{LevelHigh, ActionRequireAdditionalAuth},
		{LevelCritical, ActionBlock},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.level.RecommendedAction())
		})
	}
}

func TestActionStrings(t *testing.T) {
	assert.Equal(t, "ALLOW_TRANSACTION", ActionAllow.String())
	assert.Equal(t, "MONITOR_TRANSACTION", ActionMonitor.String())
	assert.Equal(t, "REQUIRE_ADDITIONAL_AUTH", ActionRequireAdditionalAuth.String())
	assert.Equal(t, "BLOCK_TRANSACTION", ActionBlock.String())
}

func TestReasonFor(t *testing.T) {
	tests := []struct {
		name       string
		indicators []Indicator
		want       string
	}{
		{"none", nil, "No risk factors detected"},
		{"single", []Indicator{IndicatorHighAmount}, "Risk factor: HIGH_AMOUNT"},
		{
			"multiple",
			[]Indicator{IndicatorHighAmount, IndicatorUnusualTime},
			"Multiple risk factors: HIGH_AMOUNT, UNUSUAL_TIME",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReasonFor(tt.indicators))
		})
	}
}

func TestAssessmentBlocked(t *testing.T) {
	assert.True(t, Assessment{RecommendedAction: ActionBlock}.Blocked())
	assert.False(t, Assessment{RecommendedAction: ActionAllow}.Blocked())
	assert.False(t, Assessment{RecommendedAction: ActionRequireAdditionalAuth}.Blocked())
}

func TestDeviceTrustCompromised(t *testing.T) {
	assert.False(t, TrustUnknown.Compromised())
	assert.False(t, TrustTrusted.Compromised())
	assert.True(t, TrustRooted.Compromised())
	assert.True(t, TrustDebuggerAttached.Compromised())
	assert.True(t, TrustTampered.Compromised())
}
