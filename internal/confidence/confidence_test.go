package confidence

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		c    float64
		want Level
	}{
		{0.0, LevelVeryLow},
		{0.20, LevelVeryLow},
		{0.2001, LevelLow},
		{0.40, LevelLow},
		{0.4001, LevelMedium},
		{0.60, LevelMedium},
		{0.6001, LevelHigh},
		{0.80, LevelHigh},
		{0.8001, LevelVeryHigh},
		{1.0, LevelVeryHigh},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v", tt.c), func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.c))
		})
	}
}

func TestNeedsReviewThresholdTable(t *testing.T) {
	tests := []struct {
		name string
		c    float64
		k    Criticality
		want bool
	}{
		{"critical always", 1.0, CriticalityCritical, true},
		{"critical low conf", 0.1, CriticalityCritical, true},
		{"high at 0.90", 0.90, CriticalityHigh, false},
		{"high just below 0.90", 0.8999, CriticalityHigh, true},
		{"high at 0.80", 0.80, CriticalityHigh, true},
		{"medium at 0.80", 0.80, CriticalityMedium, false},
		{"medium just below 0.80", 0.7999, CriticalityMedium, true},
		{"low at 0.70", 0.70, CriticalityLow, false},
		{"low just below 0.70", 0.6999, CriticalityLow, true},
		{"none never", 0.0, CriticalityNone, false},
		{"unknown criticality", 0.0, Criticality("BOGUS"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NeedsReview(tt.c, tt.k))
		})
	}
}

func TestEffective(t *testing.T) {
	assert.Equal(t, 1.0, Effective(nil))
	c := 0.42
	assert.Equal(t, 0.42, Effective(&c))
}

func TestParseCriticality(t *testing.T) {
	k, ok := ParseCriticality(" high ")
	assert.True(t, ok)
	assert.Equal(t, CriticalityHigh, k)

	_, ok = ParseCriticality("severe")
	assert.False(t, ok)
}

func TestMaxAndRank(t *testing.T) {
	assert.Equal(t, CriticalityCritical, Max(CriticalityLow, CriticalityCritical))
	assert.Equal(t, CriticalityMedium, Max(CriticalityMedium, CriticalityNone))
	assert.Less(t, CriticalityHigh.Rank(), CriticalityCritical.Rank())
}

func TestInRange(t *testing.T) {
	assert.True(t, InRange(0))
	assert.True(t, InRange(1))
	assert.False(t, InRange(1.01))
	assert.False(t, InRange(-0.1))
}
