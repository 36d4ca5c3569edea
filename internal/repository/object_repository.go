package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"infra-object-service/internal/apperrors"
	"infra-object-service/internal/geometry"
	"infra-object-service/internal/lifecycle"
	"infra-object-service/internal/models"
	"infra-object-service/internal/utils"
)

// ObjectFilter narrows List and Count. Zero values do not filter.
type ObjectFilter struct {
	TenantID       string
	PlanID         *uuid.UUID
	Statuses       []lifecycle.Status
	Category       string
	Criticality    string
	Active         *bool
	RequiresReview *bool
	Limit          int
	Offset         int
}

// ObjectRepository defines persistence operations for object records.
type ObjectRepository interface {
	Create(ctx context.Context, o *models.ObjectRecord) error
	GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*models.ObjectRecord, error)
	GetByIDs(ctx context.Context, tenantID string, ids []uuid.UUID) ([]*models.ObjectRecord, error)
	List(ctx context.Context, f ObjectFilter) ([]*models.ObjectRecord, error)
	Count(ctx context.Context, f ObjectFilter) (int64, error)
	Update(ctx context.Context, o *models.ObjectRecord) error
	FindWithinRadius(ctx context.Context, tenantID string, planID uuid.UUID, center geometry.Point, radius float64) ([]*models.ObjectRecord, error)
}

// ObjectRepositoryImpl provides methods to interact with the ObjectRecord model in the database.
type ObjectRepositoryImpl struct {
	db *gorm.DB
}

// NewObjectRepository creates a new ObjectRepositoryImpl instance with the provided GORM database connection.
func NewObjectRepository(db *gorm.DB) *ObjectRepositoryImpl {
	return &ObjectRepositoryImpl{db: db}
}

// Create inserts a new record at version 1.
func (r *ObjectRepositoryImpl) Create(ctx context.Context, o *models.ObjectRecord) error {
	o.Version = 1
	if err := r.db.WithContext(ctx).Create(o).Error; err != nil {
		return translate("repository.object.create", err, "object %s", o.ID)
	}
	return nil
}

// GetByID loads one record of the tenant, active or not.
func (r *ObjectRepositoryImpl) GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*models.ObjectRecord, error) {
	var o models.ObjectRecord
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&o, "id = ?", id).Error
	if err != nil {
		return nil, translate("repository.object.get", err, "object %s not found", id)
	}
	return &o, nil
}

// GetByIDs loads the given records in the order of ids. Missing ids are a
// NotFound error.
func (r *ObjectRepositoryImpl) GetByIDs(ctx context.Context, tenantID string, ids []uuid.UUID) ([]*models.ObjectRecord, error) {
	var found []*models.ObjectRecord
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&found).Error
	if err != nil {
		return nil, translate("repository.object.get_many", err, "objects")
	}

	byID := make(map[uuid.UUID]*models.ObjectRecord, len(found))
	for _, o := range found {
		byID[o.ID] = o
	}
	out := make([]*models.ObjectRecord, 0, len(ids))
	seen := map[uuid.UUID]bool{}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		o, ok := byID[id]
		if !ok {
			return nil, apperrors.NotFound("repository.object.get_many", "object %s not found", id)
		}
		seen[id] = true
		out = append(out, o)
	}
	return out, nil
}

func (r *ObjectRepositoryImpl) scoped(ctx context.Context, f ObjectFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.ObjectRecord{}).Where("tenant_id = ?", f.TenantID)
	if f.PlanID != nil {
		q = q.Where("plan_id = ?", *f.PlanID)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Criticality != "" {
		q = q.Where("criticality = ?", f.Criticality)
	}
	if f.Active != nil {
		q = q.Where("is_active = ?", *f.Active)
	}
	if f.RequiresReview != nil {
		q = q.Where("requires_review = ?", *f.RequiresReview)
	}
	return q
}

// List returns matching records ordered by creation time.
func (r *ObjectRepositoryImpl) List(ctx context.Context, f ObjectFilter) ([]*models.ObjectRecord, error) {
	q := r.scoped(ctx, f).Order("created_at ASC").Order("id ASC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	var out []*models.ObjectRecord
	if err := q.Find(&out).Error; err != nil {
		return nil, translate("repository.object.list", err, "objects")
	}
	return out, nil
}

// Count returns the number of matching records, ignoring Limit and Offset.
func (r *ObjectRepositoryImpl) Count(ctx context.Context, f ObjectFilter) (int64, error) {
	var n int64
	if err := r.scoped(ctx, f).Count(&n).Error; err != nil {
		return 0, translate("repository.object.count", err, "objects")
	}
	return n, nil
}

// Update writes every column of o if the stored version still equals
// o.Version, then bumps the version. A lost race is a stale-write error and
// leaves o.Version unchanged.
func (r *ObjectRepositoryImpl) Update(ctx context.Context, o *models.ObjectRecord) error {
	expected := o.Version
	o.Version = expected + 1

	res := r.db.WithContext(ctx).
		Model(o).
		Where("version = ?", expected).
		Select("*").
		Omit("created_at").
		Updates(o)
	if res.Error != nil {
		o.Version = expected
		return translate("repository.object.update", res.Error, "object %s", o.ID)
	}
	if res.RowsAffected == 0 {
		o.Version = expected
		return apperrors.StaleWrite("repository.object.update")
	}
	return nil
}

// FindWithinRadius returns active records of the plan whose center lies
// within radius of center. A window query narrows the rows before the exact
// distance test.
func (r *ObjectRepositoryImpl) FindWithinRadius(ctx context.Context, tenantID string, planID uuid.UUID, center geometry.Point, radius float64) ([]*models.ObjectRecord, error) {
	minX, maxX, minY, maxY := utils.SearchWindow(center, radius)

	var candidates []*models.ObjectRecord
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND plan_id = ? AND is_active = ?", tenantID, planID, true).
		Where("center_x BETWEEN ? AND ?", minX, maxX).
		Where("center_y BETWEEN ? AND ?", minY, maxY).
		Order("created_at ASC").
		Find(&candidates).Error
	if err != nil {
		return nil, translate("repository.object.radius", err, "objects")
	}

	var out []*models.ObjectRecord
	for _, o := range candidates {
		if geometry.Distance(center, o.Center) <= radius {
			out = append(out, o)
		}
	}
	return out, nil
}
