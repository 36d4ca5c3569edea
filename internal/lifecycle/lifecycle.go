// Package lifecycle is the authoritative status model of an infrastructure
// object. Legal transitions live in one lookup table; anything not listed is
// either rejected (strict mode) or logged and ignored.
package lifecycle

import (
	"log/slog"

	"infra-object-service/internal/apperrors"
)

// Status is the review status of an object.
type Status string

const (
	StatusDetected      Status = "DETECTED"
	StatusPendingReview Status = "PENDING_REVIEW"
	StatusUnderReview   Status = "UNDER_REVIEW"
	StatusApproved      Status = "APPROVED"
	StatusRejected      Status = "REJECTED"
	StatusModified      Status = "MODIFIED"
	StatusConflicted    Status = "CONFLICTED"
	StatusArchived      Status = "ARCHIVED"
)

// AllStatuses lists every status in declaration order.
var AllStatuses = []Status{
	StatusDetected, StatusPendingReview, StatusUnderReview, StatusApproved,
	StatusRejected, StatusModified, StatusConflicted, StatusArchived,
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Event triggers a transition.
type Event string

const (
	EventConflictDetected    Event = "conflict_detected"
	EventConflictsResolved   Event = "conflicts_resolved"
	EventValidationCompleted Event = "validation_completed"
	EventManualApproval      Event = "manual_approval"
	EventRejected            Event = "rejected"
	EventArchived            Event = "archived"
	EventReviewStarted       Event = "review_started"
	EventEdited              Event = "edited"
)

// InitialStatus is the status assigned at creation.
func InitialStatus(needsReview bool) Status {
	if needsReview {
		return StatusPendingReview
	}
	return StatusDetected
}

type table map[Status]map[Event]Status

// transitions is the full legal-transition graph. The target recorded for
// EventConflictsResolved is the unvalidated outcome; Next substitutes
// APPROVED for manually validated objects.
var transitions = buildTable()

func buildTable() table {
	t := table{}
	add := func(from Status, ev Event, to Status) {
		if t[from] == nil {
			t[from] = map[Event]Status{}
		}
		t[from][ev] = to
	}

	for _, s := range AllStatuses {
		if s == StatusArchived {
			continue
		}
		add(s, EventConflictDetected, StatusConflicted)
		add(s, EventRejected, StatusRejected)
		if s == StatusConflicted {
			// held until the last conflict is resolved
			add(s, EventValidationCompleted, StatusConflicted)
			continue
		}
		add(s, EventValidationCompleted, StatusApproved)
		add(s, EventManualApproval, StatusApproved)
	}

	add(StatusConflicted, EventConflictsResolved, StatusDetected)

	add(StatusApproved, EventArchived, StatusArchived)
	add(StatusRejected, EventArchived, StatusArchived)

	add(StatusDetected, EventReviewStarted, StatusUnderReview)
	add(StatusPendingReview, EventReviewStarted, StatusUnderReview)
	add(StatusModified, EventReviewStarted, StatusUnderReview)

	add(StatusDetected, EventEdited, StatusModified)
	for _, s := range []Status{
		StatusPendingReview, StatusUnderReview, StatusApproved,
		StatusRejected, StatusModified, StatusConflicted,
	} {
		add(s, EventEdited, s)
	}
	return t
}

// Machine applies events against the transition table.
type Machine struct {
	strict bool
	logger *slog.Logger
}

// NewMachine returns a machine. In strict mode illegal transitions are
// errors; otherwise they are logged and the status is left unchanged.
func NewMachine(strict bool, logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{strict: strict, logger: logger.With("module", "lifecycle")}
}

// Allowed reports whether ev is legal from status from.
func Allowed(from Status, ev Event) bool {
	_, ok := transitions[from][ev]
	return ok
}

// Next returns the status reached from `from` on ev. manuallyValidated only
// matters for EventConflictsResolved.
func (m *Machine) Next(from Status, ev Event, manuallyValidated bool) (Status, error) {
	to, ok := transitions[from][ev]
	if !ok {
		if m.strict {
			return from, apperrors.StateViolation("lifecycle.transition",
				"event %s is not allowed in status %s", ev, from)
		}
		m.logger.Warn("ignoring illegal transition",
			"from", string(from), "event", string(ev))
		return from, nil
	}
	if ev == EventConflictsResolved && manuallyValidated {
		to = StatusApproved
	}
	return to, nil
}

// Strict reports whether the machine rejects illegal transitions.
func (m *Machine) Strict() bool {
	return m.strict
}
