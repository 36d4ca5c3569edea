package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"infra-object-service/internal/models"
)

// PlanRepository provides methods to interact with the Plan model in the database.
type PlanRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new PlanRepository instance with the provided GORM database connection.
func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// Create creates a new Plan in the database.
func (r *PlanRepository) Create(ctx context.Context, plan *models.Plan) error {
	return translate("repository.plan.create", r.db.WithContext(ctx).Create(plan).Error, "plan %s", plan.ID)
}

// GetByID retrieves a Plan of the tenant by its ID.
func (r *PlanRepository) GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*models.Plan, error) {
	var plan models.Plan
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&plan, "id = ?", id).Error
	if err != nil {
		return nil, translate("repository.plan.get", err, "plan %s not found", id)
	}
	return &plan, nil
}

// Update saves an existing Plan.
func (r *PlanRepository) Update(ctx context.Context, plan *models.Plan) error {
	return translate("repository.plan.update", r.db.WithContext(ctx).Save(plan).Error, "plan %s", plan.ID)
}

// List retrieves all Plans of a tenant.
func (r *PlanRepository) List(ctx context.Context, tenantID string) ([]models.Plan, error) {
	var plans []models.Plan
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Order("created_at ASC").Find(&plans).Error
	if err != nil {
		return nil, translate("repository.plan.list", err, "plans")
	}
	return plans, nil
}

// DetectionJobRepository stores detection job records.
type DetectionJobRepository struct {
	db *gorm.DB
}

func NewDetectionJobRepository(db *gorm.DB) *DetectionJobRepository {
	return &DetectionJobRepository{db: db}
}

func (r *DetectionJobRepository) Create(ctx context.Context, job *models.DetectionJob) error {
	return translate("repository.detection_job.create", r.db.WithContext(ctx).Create(job).Error, "detection job %s", job.ID)
}

func (r *DetectionJobRepository) GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*models.DetectionJob, error) {
	var job models.DetectionJob
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&job, "id = ?", id).Error
	if err != nil {
		return nil, translate("repository.detection_job.get", err, "detection job %s not found", id)
	}
	return &job, nil
}

// AttachmentRepository stores validation attachment metadata.
type AttachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

func (r *AttachmentRepository) Create(ctx context.Context, a *models.Attachment) error {
	return translate("repository.attachment.create", r.db.WithContext(ctx).Create(a).Error, "attachment %s", a.ID)
}

func (r *AttachmentRepository) ListByObject(ctx context.Context, objectID uuid.UUID) ([]models.Attachment, error) {
	var out []models.Attachment
	err := r.db.WithContext(ctx).Where("object_id = ?", objectID).Order("uploaded_at ASC").Find(&out).Error
	if err != nil {
		return nil, translate("repository.attachment.list", err, "attachments")
	}
	return out, nil
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Plan{},
		&models.DetectionJob{},
		&models.ObjectRecord{},
		&models.Attachment{},
	)
}
