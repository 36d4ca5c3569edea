// Package quality derives the 0-100 quality score of an object and the
// aggregate statistics shown on dashboards. Everything here is read-only.
package quality

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"infra-object-service/internal/models"
)

// ConflictPenalty is subtracted per recorded conflict.
const ConflictPenalty = 10

func validationContribution(r models.ValidationResult) (float64, bool) {
	if r.Score != nil {
		return *r.Score, true
	}
	switch r.Status {
	case models.ValidationPassed:
		return 100, true
	case models.ValidationFailed:
		return 0, true
	case models.ValidationPending, models.ValidationInProgress:
		return 50, true
	}
	return 0, false
}

// Score averages the present factors (confidence and mean validation
// contribution), subtracts the conflict penalty, rounds and clamps to [0,100].
func Score(o *models.ObjectRecord) int {
	var factors []float64

	if o.Confidence != nil {
		factors = append(factors, *o.Confidence*100)
	}

	var contributions []float64
	for _, r := range o.ValidationResults {
		if v, ok := validationContribution(r); ok {
			contributions = append(contributions, v)
		}
	}
	if len(contributions) > 0 {
		factors = append(factors, stat.Mean(contributions, nil))
	}

	var base float64
	if len(factors) > 0 {
		base = stat.Mean(factors, nil)
	}

	// Resolved conflicts are penalised too: an object that was ever in
	// conflict keeps a lower score than one that never was.
	raw := math.Round(base - float64(ConflictPenalty*len(o.Conflicts)))
	return int(math.Max(0, math.Min(100, raw)))
}

// Statistics summarises a set of objects.
type Statistics struct {
	Total          int            `json:"total"`
	Active         int            `json:"active"`
	ByStatus       map[string]int `json:"by_status"`
	ByCategory     map[string]int `json:"by_category"`
	ByCriticality  map[string]int `json:"by_criticality"`
	RequiresReview int            `json:"requires_review"`
	WithConflicts  int            `json:"with_open_conflicts"`
	Validated      int            `json:"manually_validated"`

	QualityMean    float64 `json:"quality_mean"`
	QualityStdDev  float64 `json:"quality_stddev"`
	QualityMedian  float64 `json:"quality_median"`
	ConfidenceMean float64 `json:"confidence_mean"`
}

// ComputeStatistics aggregates counts and score distributions. Confidence
// is averaged over objects that carry one.
func ComputeStatistics(objects []*models.ObjectRecord) *Statistics {
	s := &Statistics{
		ByStatus:      make(map[string]int),
		ByCategory:    make(map[string]int),
		ByCriticality: make(map[string]int),
	}
	if len(objects) == 0 {
		return s
	}

	scores := make([]float64, 0, len(objects))
	var confidences []float64

	for _, o := range objects {
		s.Total++
		if o.IsActive {
			s.Active++
		}
		s.ByStatus[string(o.Status)]++
		s.ByCategory[o.Category]++
		s.ByCriticality[string(o.Criticality)]++
		if o.RequiresReview {
			s.RequiresReview++
		}
		if o.HasUnresolvedConflicts() {
			s.WithConflicts++
		}
		if o.ManuallyValidated {
			s.Validated++
		}

		scores = append(scores, float64(Score(o)))
		if o.Confidence != nil {
			confidences = append(confidences, *o.Confidence)
		}
	}

	s.QualityMean, s.QualityStdDev = stat.MeanStdDev(scores, nil)
	if len(scores) < 2 {
		s.QualityStdDev = 0
	}
	sort.Float64s(scores)
	s.QualityMedian = stat.Quantile(0.5, stat.Empirical, scores, nil)
	if len(confidences) > 0 {
		s.ConfidenceMean = stat.Mean(confidences, nil)
	}
	return s
}
