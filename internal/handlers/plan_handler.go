package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"infra-object-service/internal/models"
	"infra-object-service/internal/services"
)

// PlanHandler manages plans and detection jobs.
type PlanHandler struct {
	planService *services.PlanService
	logger      *slog.Logger
}

func NewPlanHandler(planService *services.PlanService, logger *slog.Logger) *PlanHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlanHandler{planService: planService, logger: logger.With("module", "http")}
}

// CreatePlan creates a new plan
// @Summary Create a plan
// @Description Create a floor plan with optional width and height bounds
// @Tags plans
// @Accept json
// @Produce json
// @Param X-Tenant-ID header string true "Tenant"
// @Param plan body models.Plan true "Plan data"
// @Success 201 {object} models.Plan "Plan successfully created"
// @Failure 400 {object} map[string]interface{} "Bad request - Invalid plan data"
// @Router /plans [post]
func (h *PlanHandler) CreatePlan(c *fiber.Ctx) error {
	var plan models.Plan
	if err := c.BodyParser(&plan); err != nil {
		return badRequest(c, InvalidBodyError, err)
	}
	plan.TenantID = currentActor(c).TenantID
	if err := h.planService.CreatePlan(c.UserContext(), &plan); err != nil {
		return respondError(c, h.logger, err)
	}
	h.logger.Info("plan created", "plan_id", plan.ID.String(), "tenant", plan.TenantID)
	return c.Status(fiber.StatusCreated).JSON(plan)
}

// GetPlan returns a plan by ID
// @Summary Get a plan by ID
// @Tags plans
// @Produce json
// @Param X-Tenant-ID header string true "Tenant"
// @Param id path string true "Plan ID" Format(uuid)
// @Success 200 {object} models.Plan "Plan found"
// @Failure 400 {object} map[string]interface{} "Invalid UUID"
// @Failure 404 {object} map[string]interface{} "Plan not found"
// @Router /plans/{id} [get]
func (h *PlanHandler) GetPlan(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, InvalidUuidError, err)
	}
	plan, err := h.planService.GetPlan(c.UserContext(), currentActor(c).TenantID, id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(plan)
}

// UpdatePlan updates an existing plan
// @Summary Update a plan
// @Tags plans
// @Accept json
// @Produce json
// @Param X-Tenant-ID header string true "Tenant"
// @Param id path string true "Plan ID" Format(uuid)
// @Param plan body models.Plan true "Updated plan data"
// @Success 200 {object} models.Plan "Plan successfully updated"
// @Failure 404 {object} map[string]interface{} "Plan not found"
// @Router /plans/{id} [put]
func (h *PlanHandler) UpdatePlan(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, InvalidUuidError, err)
	}
	tenant := currentActor(c).TenantID
	existing, err := h.planService.GetPlan(c.UserContext(), tenant, id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	var update models.Plan
	if err := c.BodyParser(&update); err != nil {
		return badRequest(c, InvalidBodyError, err)
	}
	update.ID = existing.ID
	update.TenantID = tenant
	update.CreatedAt = existing.CreatedAt
	if err := h.planService.UpdatePlan(c.UserContext(), &update); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(update)
}

// ListPlans lists the plans of the tenant
// @Summary List plans
// @Tags plans
// @Produce json
// @Param X-Tenant-ID header string true "Tenant"
// @Success 200 {array} models.Plan "List of plans"
// @Router /plans [get]
func (h *PlanHandler) ListPlans(c *fiber.Ctx) error {
	plans, err := h.planService.ListPlans(c.UserContext(), currentActor(c).TenantID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(plans)
}

// CreateDetectionJob registers a detection run on a plan
// @Summary Register a detection job
// @Tags plans
// @Accept json
// @Produce json
// @Param X-Tenant-ID header string true "Tenant"
// @Param id path string true "Plan ID" Format(uuid)
// @Param job body models.DetectionJob true "Detection job"
// @Success 201 {object} models.DetectionJob
// @Failure 404 {object} map[string]interface{} "Plan not found"
// @Router /plans/{id}/detection-jobs [post]
func (h *PlanHandler) CreateDetectionJob(c *fiber.Ctx) error {
	planID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, InvalidUuidError, err)
	}
	var job models.DetectionJob
	if err := c.BodyParser(&job); err != nil {
		return badRequest(c, InvalidBodyError, err)
	}
	job.PlanID = planID
	job.TenantID = currentActor(c).TenantID
	if err := h.planService.CreateDetectionJob(c.UserContext(), &job); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(job)
}

// GetDetectionJob returns a detection job by ID
// @Summary Get a detection job
// @Tags plans
// @Produce json
// @Param X-Tenant-ID header string true "Tenant"
// @Param id path string true "Detection job ID" Format(uuid)
// @Success 200 {object} models.DetectionJob
// @Failure 404 {object} map[string]interface{} "Detection job not found"
// @Router /detection-jobs/{id} [get]
func (h *PlanHandler) GetDetectionJob(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, InvalidUuidError, err)
	}
	job, err := h.planService.GetDetectionJob(c.UserContext(), currentActor(c).TenantID, id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(job)
}
