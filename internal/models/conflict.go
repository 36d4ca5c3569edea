package models

import (
	"slices"
	"time"

	"infra-object-service/internal/apperrors"
	"infra-object-service/internal/confidence"
)

// ConflictType classifies a conflict between objects.
type ConflictType string

const (
	ConflictDuplicate         ConflictType = "duplicate"
	ConflictOverlap           ConflictType = "overlap"
	ConflictInconsistency     ConflictType = "inconsistency"
	ConflictMissingDependency ConflictType = "missing_dependency"
)

// IsValid reports whether t is a known conflict type.
func (t ConflictType) IsValid() bool {
	switch t {
	case ConflictDuplicate, ConflictOverlap, ConflictInconsistency, ConflictMissingDependency:
		return true
	}
	return false
}

// Conflict is a conflict entry stored on each involved object. ObjectIDs
// lists the other objects only.
type Conflict struct {
	ID             string                 `json:"id"`
	Type           ConflictType           `json:"type"`
	ObjectIDs      []string               `json:"object_ids"`
	Severity       confidence.Criticality `json:"severity"`
	AutoResolvable bool                   `json:"auto_resolvable"`
	DetectedAt     time.Time              `json:"detected_at"`
	ResolvedAt     *time.Time             `json:"resolved_at,omitempty"`
	ResolvedBy     string                 `json:"resolved_by,omitempty"`
	Resolution     string                 `json:"resolution,omitempty"`
}

// Resolved reports whether the conflict has been resolved.
func (c Conflict) Resolved() bool {
	return c.ResolvedAt != nil
}

// UnresolvedConflicts returns the conflicts still open on the object.
func (o *ObjectRecord) UnresolvedConflicts() []Conflict {
	var open []Conflict
	for _, c := range o.Conflicts {
		if !c.Resolved() {
			open = append(open, c)
		}
	}
	return open
}

// HasUnresolvedConflicts reports whether any conflict is still open.
func (o *ObjectRecord) HasUnresolvedConflicts() bool {
	for _, c := range o.Conflicts {
		if !c.Resolved() {
			return true
		}
	}
	return false
}

// AddConflict records c unless an unresolved conflict of the same type over
// the same set of objects is already present. It reports whether c was added.
func (o *ObjectRecord) AddConflict(c Conflict) bool {
	for _, existing := range o.Conflicts {
		if existing.Resolved() || existing.Type != c.Type {
			continue
		}
		if sameIDs(existing.ObjectIDs, c.ObjectIDs) {
			return false
		}
	}
	o.Conflicts = append(o.Conflicts, c)
	return true
}

// ResolveConflict marks the conflict with the given id as resolved and
// returns the number of conflicts still open.
func (o *ObjectRecord) ResolveConflict(id, actor, resolution string) (int, error) {
	idx := -1
	for i := range o.Conflicts {
		if o.Conflicts[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, apperrors.NotFound("object.resolve_conflict", "conflict %s not found on object %s", id, o.ID)
	}
	if o.Conflicts[idx].Resolved() {
		return 0, apperrors.StateViolation("object.resolve_conflict", "conflict %s is already resolved", id)
	}

	now := time.Now().UTC()
	o.Conflicts[idx].ResolvedAt = &now
	o.Conflicts[idx].ResolvedBy = actor
	o.Conflicts[idx].Resolution = resolution

	return len(o.UnresolvedConflicts()), nil
}

func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	x := slices.Clone(a)
	y := slices.Clone(b)
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(x, y)
}
