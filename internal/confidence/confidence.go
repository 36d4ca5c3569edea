// Package confidence maps detector confidence onto discrete levels and decides
// whether an object must be reviewed by a human before it can be trusted.
package confidence

import "strings"

// Level is the discrete band a confidence value falls in.
type Level string

const (
	LevelVeryLow  Level = "very_low"
	LevelLow      Level = "low"
	LevelMedium   Level = "medium"
	LevelHigh     Level = "high"
	LevelVeryHigh Level = "very_high"
)

// Criticality is the safety-importance tier of an object.
type Criticality string

const (
	CriticalityNone     Criticality = "NONE"
	CriticalityLow      Criticality = "LOW"
	CriticalityMedium   Criticality = "MEDIUM"
	CriticalityHigh     Criticality = "HIGH"
	CriticalityCritical Criticality = "CRITICAL"
)

// DefaultConfidence is used for objects without a detector confidence
// (manually placed objects).
const DefaultConfidence = 1.0

// Classify maps c onto a level. Upper bounds are closed, so a value exactly
// on a boundary belongs to the lower band.
func Classify(c float64) Level {
	switch {
	case c <= 0.20:
		return LevelVeryLow
	case c <= 0.40:
		return LevelLow
	case c <= 0.60:
		return LevelMedium
	case c <= 0.80:
		return LevelHigh
	default:
		return LevelVeryHigh
	}
}

// NeedsReview reports whether an object with confidence c and criticality k
// requires manual review.
func NeedsReview(c float64, k Criticality) bool {
	switch k {
	case CriticalityCritical:
		return true
	case CriticalityHigh:
		return c < 0.90
	case CriticalityMedium:
		return c < 0.80
	case CriticalityLow:
		return c < 0.70
	default:
		return false
	}
}

// Effective returns *c, or DefaultConfidence when c is nil.
func Effective(c *float64) float64 {
	if c == nil {
		return DefaultConfidence
	}
	return *c
}

// InRange reports whether c is a valid confidence value.
func InRange(c float64) bool {
	return c >= 0 && c <= 1
}

// IsValid reports whether k is a known criticality.
func (k Criticality) IsValid() bool {
	switch k {
	case CriticalityNone, CriticalityLow, CriticalityMedium, CriticalityHigh, CriticalityCritical:
		return true
	}
	return false
}

// Rank orders criticalities from NONE (0) to CRITICAL (4). Unknown values rank 0.
func (k Criticality) Rank() int {
	switch k {
	case CriticalityLow:
		return 1
	case CriticalityMedium:
		return 2
	case CriticalityHigh:
		return 3
	case CriticalityCritical:
		return 4
	}
	return 0
}

// ParseCriticality accepts any letter case.
func ParseCriticality(s string) (Criticality, bool) {
	k := Criticality(strings.ToUpper(strings.TrimSpace(s)))
	return k, k.IsValid()
}

// Max returns the higher of two criticalities.
func Max(a, b Criticality) Criticality {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}
