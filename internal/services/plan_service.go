package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"infra-object-service/internal/apperrors"
	"infra-object-service/internal/models"
	"infra-object-service/internal/repository"
)

// PlanProvider supplies the plan an object is placed on.
type PlanProvider interface {
	GetPlan(ctx context.Context, tenantID string, id uuid.UUID) (*models.Plan, error)
}

// DetectionJobProvider supplies the detection job an object came from.
type DetectionJobProvider interface {
	GetDetectionJob(ctx context.Context, tenantID string, id uuid.UUID) (*models.DetectionJob, error)
}

// PlanService manages plans and detection jobs. Plans are read on every
// object creation, so lookups go through a short-lived cache.
type PlanService struct {
	repo   *repository.PlanRepository
	jobs   *repository.DetectionJobRepository
	cache  *cache.Cache
	logger *slog.Logger
}

// NewPlanService creates a PlanService caching plans for ttl.
func NewPlanService(repo *repository.PlanRepository, jobs *repository.DetectionJobRepository, ttl time.Duration, logger *slog.Logger) *PlanService {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &PlanService{
		repo:   repo,
		jobs:   jobs,
		cache:  cache.New(ttl, 2*ttl),
		logger: logger.With("module", "plans"),
	}
}

func planKey(tenantID string, id uuid.UUID) string {
	return tenantID + "/" + id.String()
}

func validatePlan(p *models.Plan) error {
	if p.TenantID == "" {
		return apperrors.InvalidInput("plans.validate", "tenant is required")
	}
	if p.Name == "" {
		return apperrors.InvalidInput("plans.validate", "plan name is required")
	}
	if (p.Width == nil) != (p.Height == nil) {
		return apperrors.InvalidInput("plans.validate", "width and height must be given together")
	}
	if p.HasBounds() && (*p.Width <= 0 || *p.Height <= 0) {
		return apperrors.InvalidInput("plans.validate", "plan bounds must be positive")
	}
	return nil
}

func (s *PlanService) CreatePlan(ctx context.Context, plan *models.Plan) error {
	if err := validatePlan(plan); err != nil {
		return err
	}
	return s.repo.Create(ctx, plan)
}

// GetPlan returns the plan, serving repeated lookups from the cache.
func (s *PlanService) GetPlan(ctx context.Context, tenantID string, id uuid.UUID) (*models.Plan, error) {
	key := planKey(tenantID, id)
	if cached, ok := s.cache.Get(key); ok {
		plan := *cached.(*models.Plan)
		return &plan, nil
	}

	plan, err := s.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	stored := *plan
	s.cache.SetDefault(key, &stored)
	return plan, nil
}

// UpdatePlan stores plan and drops its cached copy.
func (s *PlanService) UpdatePlan(ctx context.Context, plan *models.Plan) error {
	if err := validatePlan(plan); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, plan); err != nil {
		return err
	}
	s.cache.Delete(planKey(plan.TenantID, plan.ID))
	s.logger.Debug("plan updated", "plan_id", plan.ID.String())
	return nil
}

func (s *PlanService) ListPlans(ctx context.Context, tenantID string) ([]models.Plan, error) {
	return s.repo.List(ctx, tenantID)
}

// CreateDetectionJob registers a detection run on an existing plan.
func (s *PlanService) CreateDetectionJob(ctx context.Context, job *models.DetectionJob) error {
	if _, err := s.GetPlan(ctx, job.TenantID, job.PlanID); err != nil {
		return err
	}
	if job.StartedAt.IsZero() {
		job.StartedAt = time.Now().UTC()
	}
	return s.jobs.Create(ctx, job)
}

func (s *PlanService) GetDetectionJob(ctx context.Context, tenantID string, id uuid.UUID) (*models.DetectionJob, error) {
	return s.jobs.GetByID(ctx, tenantID, id)
}
