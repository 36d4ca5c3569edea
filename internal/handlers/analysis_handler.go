package handlers

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"infra-object-service/internal/models"
	"infra-object-service/internal/services"
)

// AnalysisHandler exposes conflict analysis runs.
type AnalysisHandler struct {
	Service *services.ConflictService
	logger  *slog.Logger
}

func NewAnalysisHandler(service *services.ConflictService, logger *slog.Logger) *AnalysisHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisHandler{Service: service, logger: logger.With("module", "http")}
}

// AnalyzeConflicts handles POST /analysis/conflicts.
// @Summary Run conflict analysis
// @Description Detects duplicates and overlaps on a plan. With auto_resolve set, low-confidence duplicates are deactivated.
// @Tags conflicts
// @Accept json
// @Produce json
// @Param X-Tenant-ID header string true "Tenant"
// @Param request body models.AnalysisRequest true "Analysis request"
// @Success 200 {object} services.AnalysisReport
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 403 {object} map[string]interface{} "Forbidden"
// @Router /analysis/conflicts [post]
func (h *AnalysisHandler) AnalyzeConflicts(c *fiber.Ctx) error {
	var req models.AnalysisRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, InvalidBodyError, err)
	}
	report, err := h.Service.AnalyzeConflicts(c.UserContext(), req, currentActor(c))
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			h.logger.Warn("analysis interrupted", "plan_id", req.PlanID.String(), "error", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": true, "message": "analysis interrupted", "report": report,
			})
		}
		return respondError(c, h.logger, err)
	}
	return c.JSON(report)
}
