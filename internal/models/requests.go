package models

import (
	"github.com/google/uuid"

	"infra-object-service/internal/geometry"
)

// CreateObjectInput describes a new object. Center defaults to the box
// center; Criticality and RequiredValidations default to the catalog entry.
type CreateObjectInput struct {
	PlanID              uuid.UUID            `json:"plan_id"`
	DetectionJobID      *uuid.UUID           `json:"detection_job_id,omitempty"`
	Category            string               `json:"category"`
	Type                string               `json:"type"`
	Subtype             string               `json:"subtype,omitempty"`
	BoundingBox         geometry.BoundingBox `json:"bounding_box"`
	Center              *geometry.Point      `json:"center,omitempty"`
	Rotation            *float64             `json:"rotation,omitempty"`
	Points              []geometry.PathPoint `json:"points,omitempty"`
	Area                *float64             `json:"area,omitempty"`
	Perimeter           *float64             `json:"perimeter,omitempty"`
	Source              Source               `json:"source"`
	Confidence          *float64             `json:"confidence,omitempty"`
	Criticality         string               `json:"criticality,omitempty"`
	RequiredValidations []string             `json:"required_validations,omitempty"`
	Properties          map[string]any       `json:"properties,omitempty"`
	DetectionMetadata   map[string]any       `json:"detection_metadata,omitempty"`
	ParentID            *uuid.UUID           `json:"parent_id,omitempty"`
	RelatedObjectIDs    []string             `json:"related_object_ids,omitempty"`
}

// ObjectPatch lists the non-geometric fields UpdateObject may change. Nil
// fields are left untouched. Properties are merged key by key.
type ObjectPatch struct {
	Subtype          *string        `json:"subtype,omitempty"`
	Properties       map[string]any `json:"properties,omitempty"`
	Confidence       *float64       `json:"confidence,omitempty"`
	Criticality      *string        `json:"criticality,omitempty"`
	ParentID         *uuid.UUID     `json:"parent_id,omitempty"`
	RelatedObjectIDs []string       `json:"related_object_ids,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p ObjectPatch) Empty() bool {
	return p.Subtype == nil && p.Properties == nil && p.Confidence == nil &&
		p.Criticality == nil && p.ParentID == nil && p.RelatedObjectIDs == nil
}

// ValidationSubmission is one validation result reported by a reviewer.
type ValidationSubmission struct {
	Type        string           `json:"type"`
	Status      ValidationStatus `json:"status"`
	Notes       string           `json:"notes,omitempty"`
	Score       *float64         `json:"score,omitempty"`
	Attachments []string         `json:"attachments,omitempty"`
}

// AnalysisRequest selects the objects and passes of a conflict analysis run.
// An empty ObjectIDs list analyses every active object of the plan.
type AnalysisRequest struct {
	PlanID             uuid.UUID      `json:"plan_id"`
	ObjectIDs          []uuid.UUID    `json:"object_ids,omitempty"`
	Types              []ConflictType `json:"types,omitempty"`
	DuplicateTolerance *float64       `json:"duplicate_tolerance,omitempty"`
	OverlapTolerance   *float64       `json:"overlap_tolerance,omitempty"`
	AutoResolve        bool           `json:"auto_resolve"`
}
