package models

import "time"

// ValidationStatus is the outcome of one validation type.
type ValidationStatus string

const (
	ValidationPending       ValidationStatus = "pending"
	ValidationInProgress    ValidationStatus = "in_progress"
	ValidationPassed        ValidationStatus = "passed"
	ValidationFailed        ValidationStatus = "failed"
	ValidationNotApplicable ValidationStatus = "not_applicable"
)

// IsValid reports whether s is a known validation status.
func (s ValidationStatus) IsValid() bool {
	switch s {
	case ValidationPending, ValidationInProgress, ValidationPassed, ValidationFailed, ValidationNotApplicable:
		return true
	}
	return false
}

// ValidationResult is the latest result recorded for a validation type.
type ValidationResult struct {
	Type        string           `json:"type"`
	Status      ValidationStatus `json:"status"`
	Actor       string           `json:"actor"`
	Timestamp   time.Time        `json:"timestamp"`
	Notes       string           `json:"notes,omitempty"`
	Score       *float64         `json:"score,omitempty"`
	Attachments []string         `json:"attachments,omitempty"`
}

// ValidationResultFor returns the result recorded for validation type t.
func (o *ObjectRecord) ValidationResultFor(t string) (ValidationResult, bool) {
	for _, r := range o.ValidationResults {
		if r.Type == t {
			return r, true
		}
	}
	return ValidationResult{}, false
}

// PutValidationResult stores r, replacing any earlier result of the same type.
func (o *ObjectRecord) PutValidationResult(r ValidationResult) {
	for i := range o.ValidationResults {
		if o.ValidationResults[i].Type == r.Type {
			o.ValidationResults[i] = r
			return
		}
	}
	o.ValidationResults = append(o.ValidationResults, r)
}
