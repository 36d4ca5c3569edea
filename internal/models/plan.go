package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Plan is a floor plan objects are placed on. Width and Height are optional;
// when both are set, object centers must lie within [0,Width]x[0,Height].
type Plan struct {
	ID          uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	TenantID    string    `json:"tenant_id" gorm:"not null;index"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	Width       *float64  `json:"width,omitempty"`
	Height      *float64  `json:"height,omitempty"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (p *Plan) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// HasBounds reports whether the plan constrains object positions.
func (p *Plan) HasBounds() bool {
	return p.Width != nil && p.Height != nil
}

// DetectionJob is one run of a detection model over a plan.
type DetectionJob struct {
	ID           uuid.UUID         `json:"id" gorm:"primaryKey;type:uuid"`
	TenantID     string            `json:"tenant_id" gorm:"not null;index"`
	PlanID       uuid.UUID         `json:"plan_id" gorm:"type:uuid;not null;index"`
	ModelName    string            `json:"model_name"`
	ModelVersion string            `json:"model_version"`
	StartedAt    time.Time         `json:"started_at"`
	FinishedAt   *time.Time        `json:"finished_at,omitempty"`
	Metadata     datatypes.JSONMap `json:"metadata"`
	CreatedAt    time.Time         `json:"created_at" gorm:"autoCreateTime"`
}

func (j *DetectionJob) BeforeCreate(*gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}
