package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"infra-object-service/internal/apperrors"
	"infra-object-service/internal/confidence"
	"infra-object-service/internal/geometry"
	"infra-object-service/internal/lifecycle"
)

// MaxHistory is the number of modification entries kept per object.
const MaxHistory = 50

// Source records how an object entered the system.
type Source string

const (
	SourceAIDetection Source = "AI_DETECTION"
	SourceManual      Source = "MANUAL"
	SourceImported    Source = "IMPORTED"
	SourceTemplate    Source = "TEMPLATE"
	SourceDuplicated  Source = "DUPLICATED"
)

// IsValid reports whether s is a known source.
func (s Source) IsValid() bool {
	switch s {
	case SourceAIDetection, SourceManual, SourceImported, SourceTemplate, SourceDuplicated:
		return true
	}
	return false
}

// ObjectRecord is an infrastructure object placed on a floor plan.
type ObjectRecord struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	TenantID       string     `json:"tenant_id" gorm:"not null;index:idx_infra_objects_scope"`
	PlanID         uuid.UUID  `json:"plan_id" gorm:"type:uuid;not null;index:idx_infra_objects_scope"`
	DetectionJobID *uuid.UUID `json:"detection_job_id,omitempty" gorm:"type:uuid"`

	Category string `json:"category" gorm:"not null;index"`
	Type     string `json:"type" gorm:"not null"`
	Subtype  string `json:"subtype,omitempty"`

	BoundingBox geometry.BoundingBox                    `json:"bounding_box" gorm:"embedded;embedded_prefix:bbox_"`
	Center      geometry.Point                          `json:"center" gorm:"embedded;embedded_prefix:center_"`
	Rotation    *float64                                `json:"rotation,omitempty"`
	Points      datatypes.JSONSlice[geometry.PathPoint] `json:"points"`
	Area        *float64                                `json:"area,omitempty"`
	Perimeter   *float64                                `json:"perimeter,omitempty"`
	Placement   datatypes.JSONType[geometry.Placement]  `json:"-"`

	Status            lifecycle.Status       `json:"status" gorm:"not null;index"`
	Source            Source                 `json:"source" gorm:"not null"`
	Confidence        *float64               `json:"confidence,omitempty"`
	ConfidenceLevel   confidence.Level       `json:"confidence_level"`
	Criticality       confidence.Criticality `json:"criticality" gorm:"not null;index"`
	RequiresReview    bool                   `json:"requires_review"`
	ManuallyValidated bool                   `json:"manually_validated"`
	ValidatedAt       *time.Time             `json:"validated_at,omitempty"`
	ValidatedBy       string                 `json:"validated_by,omitempty"`

	RequiredValidations datatypes.JSONSlice[string]           `json:"required_validations"`
	ValidationResults   datatypes.JSONSlice[ValidationResult] `json:"validation_results"`
	Conflicts           datatypes.JSONSlice[Conflict]         `json:"conflicts"`
	Annotations         datatypes.JSONSlice[Annotation]       `json:"annotations"`
	ModificationHistory datatypes.JSONSlice[Modification]     `json:"modification_history"`

	ParentID         *uuid.UUID                  `json:"parent_id,omitempty" gorm:"type:uuid"`
	RelatedObjectIDs datatypes.JSONSlice[string] `json:"related_object_ids"`

	Properties        datatypes.JSONMap `json:"properties"`
	DetectionMetadata datatypes.JSONMap `json:"detection_metadata"`

	Version       int64      `json:"version" gorm:"not null"`
	IsActive      bool       `json:"is_active" gorm:"index"`
	DeactivatedAt *time.Time `json:"deactivated_at,omitempty"`
	CreatedBy     string     `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (ObjectRecord) TableName() string {
	return "infra_objects"
}

// BeforeCreate assigns an id and the initial version.
func (o *ObjectRecord) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.Version == 0 {
		o.Version = 1
	}
	if !o.Placement.Data().Pinned() {
		o.pin()
	}
	return nil
}

// pin captures the current geometry as the reference for later moves.
func (o *ObjectRecord) pin() {
	o.Placement = datatypes.NewJSONType(geometry.NewPlacement(o.Center, o.BoundingBox, o.Points))
}

// EffectiveConfidence is the confidence used for scoring and triage.
func (o *ObjectRecord) EffectiveConfidence() float64 {
	return confidence.Effective(o.Confidence)
}

// RefreshTriage recomputes the confidence level and the review flag. It must
// run after every confidence or criticality change.
func (o *ObjectRecord) RefreshTriage() {
	c := o.EffectiveConfidence()
	o.ConfidenceLevel = confidence.Classify(c)
	o.RequiresReview = confidence.NeedsReview(c, o.Criticality)
}

// MoveTo places the center at (x, y). The box and every point keep their
// offset from the center. Positions are derived from the pinned placement,
// so moving back to an earlier center restores its origin and points exactly.
func (o *ObjectRecord) MoveTo(x, y float64, actor string) {
	before := o.geometrySnapshot()
	if !o.Placement.Data().Pinned() {
		o.pin()
	}

	center := geometry.Point{X: x, Y: y}
	origin, points := o.Placement.Data().PlaceAt(center)
	o.BoundingBox.X, o.BoundingBox.Y = origin.X, origin.Y
	if o.Points != nil {
		o.Points = points
	}
	o.Center = center

	o.AddModification(Modification{
		Action: ActionMoved,
		Actor:  actor,
		Before: before,
		After:  o.geometrySnapshot(),
	})
}

// Resize replaces width and height. The center is left where it is; area and
// perimeter are recomputed only when they were already present.
func (o *ObjectRecord) Resize(width, height float64, actor string) error {
	if width <= 0 || height <= 0 {
		return apperrors.InvalidInput("object.resize", "size %vx%v must be positive", width, height)
	}
	before := o.geometrySnapshot()

	o.BoundingBox.Width = width
	o.BoundingBox.Height = height
	o.pin()
	if o.Area != nil {
		a := o.BoundingBox.Area()
		o.Area = &a
	}
	if o.Perimeter != nil {
		p := o.BoundingBox.Perimeter()
		o.Perimeter = &p
	}

	o.AddModification(Modification{
		Action: ActionResized,
		Actor:  actor,
		Before: before,
		After:  o.geometrySnapshot(),
	})
	return nil
}

// SetStatus moves the record to status `to` and records the change. It does
// not consult the lifecycle table; callers obtain `to` from a lifecycle.Machine.
func (o *ObjectRecord) SetStatus(to lifecycle.Status, actor, reason string, automatic bool) {
	if o.Status == to {
		return
	}
	from := o.Status
	o.Status = to
	o.AddModification(Modification{
		Action:    ActionStatusChanged,
		Actor:     actor,
		Before:    map[string]any{"status": string(from)},
		After:     map[string]any{"status": string(to)},
		Reason:    reason,
		Automatic: automatic,
	})
}

// MarkValidated sets the manual validation flag and clears the review flag.
func (o *ObjectRecord) MarkValidated(actor string) {
	now := time.Now().UTC()
	o.ManuallyValidated = true
	o.ValidatedAt = &now
	o.ValidatedBy = actor
	o.RequiresReview = false
}

// ClearValidation drops the manual validation flag.
func (o *ObjectRecord) ClearValidation() {
	o.ManuallyValidated = false
	o.ValidatedAt = nil
	o.ValidatedBy = ""
}

// Deactivate soft-deletes the record. Records are never removed from storage.
func (o *ObjectRecord) Deactivate(actor, reason string, automatic bool) error {
	if !o.IsActive {
		return apperrors.StateViolation("object.deactivate", "object %s is already inactive", o.ID)
	}
	now := time.Now().UTC()
	o.IsActive = false
	o.DeactivatedAt = &now
	o.AddModification(Modification{
		Action:    ActionDeleted,
		Actor:     actor,
		Before:    map[string]any{"is_active": true},
		After:     map[string]any{"is_active": false},
		Reason:    reason,
		Automatic: automatic,
	})
	return nil
}

func (o *ObjectRecord) geometrySnapshot() map[string]any {
	points := make([]geometry.PathPoint, len(o.Points))
	copy(points, o.Points)
	return map[string]any{
		"bounding_box": o.BoundingBox,
		"center":       o.Center,
		"points":       points,
	}
}
