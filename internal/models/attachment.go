package models

import (
	"time"

	"github.com/google/uuid"
)

// Attachment is the metadata of a file uploaded as evidence for a validation.
// The blob itself lives in object storage under StorageKey.
type Attachment struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ObjectID         uuid.UUID `gorm:"type:uuid;not null;index" json:"object_id"`
	ValidationType   string    `json:"validation_type"`
	OriginalFilename string    `json:"original_filename"`
	ContentType      string    `json:"content_type"`
	Size             int64     `json:"size"`
	UploadedBy       string    `json:"uploaded_by"`
	UploadedAt       time.Time `json:"uploaded_at"`
	StorageKey       string    `json:"storage_key"`
}
