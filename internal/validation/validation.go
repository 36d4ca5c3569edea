// Package validation aggregates per-type validation results on an object
// and fires the lifecycle completion event when the required set is met.
package validation

import (
	"log/slog"
	"slices"
	"time"

	"infra-object-service/internal/apperrors"
	"infra-object-service/internal/catalog"
	"infra-object-service/internal/lifecycle"
	"infra-object-service/internal/models"
)

// Outcome reports what a submission did to the object's lifecycle.
type Outcome struct {
	Completed bool
	From      lifecycle.Status
	To        lifecycle.Status
}

// Changed reports whether the status moved.
func (o Outcome) Changed() bool {
	return o.From != o.To
}

// Aggregator applies validation submissions to object records.
type Aggregator struct {
	catalog *catalog.Catalog
	machine *lifecycle.Machine
	logger  *slog.Logger
}

func NewAggregator(c *catalog.Catalog, m *lifecycle.Machine, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{catalog: c, machine: m, logger: logger.With("module", "validation")}
}

// IsComplete reports whether every required validation type has passed. An
// object without requirements is complete.
func IsComplete(o *models.ObjectRecord) bool {
	return complete(o.RequiredValidations, o.ValidationResults)
}

func complete(required []string, results []models.ValidationResult) bool {
	for _, t := range required {
		passed := false
		for _, r := range results {
			if r.Type == t {
				passed = r.Status == models.ValidationPassed
				break
			}
		}
		if !passed {
			return false
		}
	}
	return true
}

// Submit records sub on o, replacing any earlier result of the same type.
// When the submission turns an incomplete object complete the object is
// marked validated and receives the validation_completed event. The first
// submission on a DETECTED or PENDING_REVIEW object that does not complete
// it starts the review. Nothing is changed when an error is returned.
func (a *Aggregator) Submit(o *models.ObjectRecord, sub models.ValidationSubmission, actor string) (Outcome, error) {
	const op = "validation.submit"
	out := Outcome{From: o.Status, To: o.Status}

	if !a.catalog.KnownValidation(sub.Type) {
		return out, apperrors.InvalidInput(op, "unknown validation type %q", sub.Type)
	}
	if !sub.Status.IsValid() {
		return out, apperrors.InvalidInput(op, "unknown validation status %q", sub.Status)
	}
	if sub.Score != nil && (*sub.Score < 0 || *sub.Score > 100) {
		return out, apperrors.InvalidInput(op, "score %v must be within [0,100]", *sub.Score)
	}

	result := models.ValidationResult{
		Type:        sub.Type,
		Status:      sub.Status,
		Actor:       actor,
		Timestamp:   time.Now().UTC(),
		Notes:       sub.Notes,
		Score:       sub.Score,
		Attachments: slices.Clone(sub.Attachments),
	}

	after := slices.Clone([]models.ValidationResult(o.ValidationResults))
	replaced := false
	for i := range after {
		if after[i].Type == result.Type {
			after[i] = result
			replaced = true
		}
	}
	if !replaced {
		after = append(after, result)
	}

	wasComplete := IsComplete(o)
	nowComplete := complete(o.RequiredValidations, after)

	// Decide the transition before touching the record so an illegal
	// transition leaves it unchanged.
	var (
		event lifecycle.Event
		next  = o.Status
	)
	switch {
	case !wasComplete && nowComplete:
		event = lifecycle.EventValidationCompleted
	case !nowComplete && (o.Status == lifecycle.StatusDetected || o.Status == lifecycle.StatusPendingReview):
		event = lifecycle.EventReviewStarted
	}
	if event != "" {
		var err error
		next, err = a.machine.Next(o.Status, event, o.ManuallyValidated)
		if err != nil {
			return out, err
		}
	}

	var before map[string]any
	if prev, ok := o.ValidationResultFor(sub.Type); ok {
		before = map[string]any{"validation": prev}
	}
	o.PutValidationResult(result)
	o.AddModification(models.Modification{
		Action: models.ActionPropertiesChanged,
		Actor:  actor,
		Before: before,
		After:  map[string]any{"validation": result},
		Reason: "validation submitted: " + sub.Type,
	})

	if event == lifecycle.EventValidationCompleted {
		o.MarkValidated(actor)
		out.Completed = true
	}
	o.SetStatus(next, actor, string(event), event == lifecycle.EventReviewStarted)
	out.To = o.Status

	a.logger.Debug("validation submitted",
		"object_id", o.ID.String(),
		"type", sub.Type,
		"status", string(sub.Status),
		"completed", out.Completed)
	return out, nil
}

// SetRequirements replaces the required validation types. Requirement
// changes never move the object's status.
func (a *Aggregator) SetRequirements(o *models.ObjectRecord, types []string, actor string) error {
	unique := []string{}
	for _, t := range types {
		if !a.catalog.KnownValidation(t) {
			return apperrors.InvalidInput("validation.set_requirements", "unknown validation type %q", t)
		}
		if !slices.Contains(unique, t) {
			unique = append(unique, t)
		}
	}

	before := slices.Clone([]string(o.RequiredValidations))
	o.RequiredValidations = unique
	o.AddModification(models.Modification{
		Action: models.ActionPropertiesChanged,
		Actor:  actor,
		Before: map[string]any{"required_validations": before},
		After:  map[string]any{"required_validations": slices.Clone(unique)},
		Reason: "required validations changed",
	})
	return nil
}
