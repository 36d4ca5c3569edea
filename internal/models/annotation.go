package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"infra-object-service/internal/apperrors"
	"infra-object-service/internal/geometry"
)

// AnnotationType classifies a reviewer note.
type AnnotationType string

const (
	AnnotationComment  AnnotationType = "comment"
	AnnotationIssue    AnnotationType = "issue"
	AnnotationNote     AnnotationType = "note"
	AnnotationReminder AnnotationType = "reminder"
)

// IsValid reports whether t is a known annotation type.
func (t AnnotationType) IsValid() bool {
	switch t {
	case AnnotationComment, AnnotationIssue, AnnotationNote, AnnotationReminder:
		return true
	}
	return false
}

// Annotation is a note attached to an object.
type Annotation struct {
	ID         string          `json:"id"`
	Type       AnnotationType  `json:"type"`
	Text       string          `json:"text"`
	Position   *geometry.Point `json:"position,omitempty"`
	Priority   string          `json:"priority,omitempty"`
	CreatedBy  string          `json:"created_by"`
	CreatedAt  time.Time       `json:"created_at"`
	Resolved   bool            `json:"resolved"`
	ResolvedAt *time.Time      `json:"resolved_at,omitempty"`
	ResolvedBy string          `json:"resolved_by,omitempty"`
}

// AddAnnotation attaches a new annotation and returns its id.
func (o *ObjectRecord) AddAnnotation(t AnnotationType, text, actor string, position *geometry.Point, priority string) (string, error) {
	if !t.IsValid() {
		return "", apperrors.InvalidInput("object.annotate", "unknown annotation type %q", t)
	}
	if strings.TrimSpace(text) == "" {
		return "", apperrors.InvalidInput("object.annotate", "annotation text is empty")
	}

	a := Annotation{
		ID:        uuid.NewString(),
		Type:      t,
		Text:      text,
		Position:  position,
		Priority:  priority,
		CreatedBy: actor,
		CreatedAt: time.Now().UTC(),
	}
	o.Annotations = append(o.Annotations, a)
	return a.ID, nil
}

// ResolveAnnotation marks an annotation resolved.
func (o *ObjectRecord) ResolveAnnotation(id, actor string) error {
	for i := range o.Annotations {
		if o.Annotations[i].ID != id {
			continue
		}
		if o.Annotations[i].Resolved {
			return apperrors.StateViolation("object.resolve_annotation", "annotation %s is already resolved", id)
		}
		now := time.Now().UTC()
		o.Annotations[i].Resolved = true
		o.Annotations[i].ResolvedAt = &now
		o.Annotations[i].ResolvedBy = actor
		return nil
	}
	return apperrors.NotFound("object.resolve_annotation", "annotation %s not found on object %s", id, o.ID)
}
