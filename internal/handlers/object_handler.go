package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"infra-object-service/internal/geometry"
	"infra-object-service/internal/lifecycle"
	"infra-object-service/internal/models"
	"infra-object-service/internal/repository"
	"infra-object-service/internal/services"
	"infra-object-service/internal/utils"
)

// ObjectHandler defines handlers for the object lifecycle API.
type ObjectHandler struct {
	Service *services.ObjectService
	logger  *slog.Logger
}

// NewObjectHandler creates a new ObjectHandler with the given ObjectService.
func NewObjectHandler(service *services.ObjectService, logger *slog.Logger) *ObjectHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ObjectHandler{Service: service, logger: logger.With("module", "http")}
}

// ObjectList is the body of a list response.
type ObjectList struct {
	Items []*models.ObjectRecord `json:"items"`
	Total int64                  `json:"total"`
}

type moveRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type resizeRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

type resolutionRequest struct {
	Resolution string `json:"resolution"`
}

type requirementsRequest struct {
	Types []string `json:"types"`
}

func objectFilter(c *fiber.Ctx) (repository.ObjectFilter, error) {
	f := repository.ObjectFilter{
		Category:    c.Query("category"),
		Criticality: strings.ToUpper(c.Query("criticality")),
		Limit:       c.QueryInt("limit", 0),
		Offset:      c.QueryInt("offset", 0),
	}
	if planStr := c.Query("plan_id"); planStr != "" {
		planID, err := uuid.Parse(planStr)
		if err != nil {
			return f, err
		}
		f.PlanID = &planID
	}
	if statuses := c.Query("status"); statuses != "" {
		for _, s := range strings.Split(statuses, ",") {
			f.Statuses = append(f.Statuses, lifecycle.Status(strings.ToUpper(strings.TrimSpace(s))))
		}
	}
	if c.Query("active") != "" {
		active := c.QueryBool("active")
		f.Active = &active
	}
	if c.Query("requires_review") != "" {
		review := c.QueryBool("requires_review")
		f.RequiresReview = &review
	}
	return f, nil
}

// ListObjects handles GET /objects.
// @Summary List objects
// @Description Lists the objects of the caller's tenant with optional filters
// @Tags objects
// @Produce json
// @Param X-Tenant-ID header string true "Tenant"
// @Param plan_id query string false "Plan ID" Format(uuid)
// @Param status query string false "Comma separated statuses"
// @Param category query string false "Category"
// @Param criticality query string false "Criticality"
// @Param active query bool false "Only active or inactive objects"
// @Param requires_review query bool false "Review flag"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} ObjectList
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Router /objects [get]
func (h *ObjectHandler) ListObjects(c *fiber.Ctx) error {
	f, err := objectFilter(c)
	if err != nil {
		return badRequest(c, InvalidUuidError, err)
	}
	objects, total, err := h.Service.ListObjects(c.UserContext(), f, currentActor(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(ObjectList{Items: objects, Total: total})
}

// CreateObject handles POST /objects.
// @Summary Create an object
// @Description Places a new object on a plan. Category and type must exist in the catalog.
// @Tags objects
// @Accept json
// @Produce json
// @Param X-Tenant-ID header string true "Tenant"
// @Param X-Actor-ID header string true "Actor"
// @Param X-Actor-Role header string true "Role"
// @Param object body models.CreateObjectInput true "Object data"
// @Success 201 {object} models.ObjectRecord
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 403 {object} map[string]interface{} "Forbidden"
// @Failure 404 {object} map[string]interface{} "Plan not found"
// @Router /objects [post]
func (h *ObjectHandler) CreateObject(c *fiber.Ctx) error {
	var in models.CreateObjectInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, InvalidBodyError, err)
	}
	object, err := h.Service.CreateObject(c.UserContext(), in, currentActor(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(object)
}

// GetObject handles GET /objects/:id.
// @Summary Get an object
// @Tags objects
// @Produce json
// @Param X-Tenant-ID header string true "Tenant"
// @Param id path string true "Object ID" Format(uuid)
// @Success 200 {object} models.ObjectRecord
// @Failure 400 {object} map[string]interface{} "Invalid UUID"
// @Failure 404 {object} map[string]interface{} "Object not found"
// @Router /objects/{id} [get]
func (h *ObjectHandler) GetObject(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, InvalidUuidError, err)
	}
	object, err := h.Service.GetObject(c.UserContext(), id, currentActor(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(object)
}

// FindNearby handles GET /objects/nearby.
// @Summary Find objects near a point
// @Tags objects
// @Produce json
// @Param X-Tenant-ID header string true "Tenant"
// @Param plan_id query string true "Plan ID" Format(uuid)
// @Param x query number true "X"
// @Param y query number true "Y"
// @Param radius query number true "Radius"
// @Success 200 {array} models.ObjectRecord
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Router /objects/nearby [get]
func (h *ObjectHandler) FindNearby(c *fiber.Ctx) error {
	planID, err := uuid.Parse(c.Query("plan_id"))
	if err != nil {
		return badRequest(c, InvalidUuidError, err)
	}
	center := geometry.Point{X: c.QueryFloat("x", 0), Y: c.QueryFloat("y", 0)}
	objects, err := h.Service.FindNearby(c.UserContext(), planID, center, c.QueryFloat("radius", 0), currentActor(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if objects == nil {
		objects = []*models.ObjectRecord{}
	}
	return c.JSON(objects)
}

// GetStatistics handles GET /objects/statistics.
// @Summary Object statistics
// @Description Counts and quality distribution of the active objects
// @Tags objects
// @Produce json
// @Param X-Tenant-ID header string true "Tenant"
// @Param plan_id query string false "Plan ID" Format(uuid)
// @Success 200 {object} quality.Statistics
// @Router /objects/statistics [get]
func (h *ObjectHandler) GetStatistics(c *fiber.Ctx) error {
	var planID *uuid.UUID
	if planStr := c.Query("plan_id"); planStr != "" {
		id, err := uuid.Parse(planStr)
		if err != nil {
			return badRequest(c, InvalidUuidError, err)
		}
		planID = &id
	}
	stats, err := h.Service.ComputeStatistics(c.UserContext(), planID, currentActor(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(stats)
}

// GetQuality handles GET /objects/:id/quality.
// @Summary Quality score of an object
// @Tags objects
// @Produce json
// @Param X-Tenant-ID header string true "Tenant"
// @Param id path string true "Object ID" Format(uuid)
// @Success 200 {object} map[string]interface{}
// @Router /objects/{id}/quality [get]
func (h *ObjectHandler) GetQuality(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, InvalidUuidError, err)
	}
	score, err := h.Service.ComputeQualityScore(c.UserContext(), id, currentActor(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"id": id, "quality_score": score})
}

// UpdateObject handles PATCH /objects/:id.
// @Summary Update object properties
// @Tags objects
// @Accept json
// @Produce json
// @Param X-Tenant-ID header string true "Tenant"
// @Param id path string true "Object ID" Format(uuid)
// @Param patch body models.ObjectPatch true "Changed fields"
// @Success 200 {object} models.ObjectRecord
// @Failure 409 {object} map[string]interface{} "Concurrent modification"
// @Router /objects/{id} [patch]
func (h *ObjectHandler) UpdateObject(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, InvalidUuidError, err)
	}
	var patch models.ObjectPatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, InvalidBodyError, err)
	}
	return h.reply(c)(h.Service.UpdateObject(c.UserContext(), id, patch, currentActor(c)))
}

// MoveObject handles POST /objects/:id/move.
// @Summary Move an object
// @Tags objects
// @Accept json
// @Produce json
// @Param X-Tenant-ID header string true "Tenant"
// @Param id path string true "Object ID" Format(uuid)
// @Param position body moveRequest true "New center"
// @Success 200 {object} models.ObjectRecord
// @Router /objects/{id}/move [post]
func (h *ObjectHandler) MoveObject(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, InvalidUuidError, err)
	}
	var req moveRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, InvalidBodyError, err)
	}
	return h.reply(c)(h.Service.MoveObject(c.UserContext(), id, req.X, req.Y, currentActor(c)))
}

// ResizeObject handles POST /objects/:id/resize.
// @Summary Resize an object
// @Tags objects
// @Accept json
// @Produce json
// @Param X-Tenant-ID header string true "Tenant"
// @Param id path string true "Object ID" Format(uuid)
// @Param size body resizeRequest true "New size"
// @Success 200 {object} models.ObjectRecord
// @Router /objects/{id}/resize [post]
func (h *ObjectHandler) ResizeObject(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, InvalidUuidError, err)
	}
	var req resizeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, InvalidBodyError, err)
	}
	return h.reply(c)(h.Service.ResizeObject(c.UserContext(), id, req.Width, req.Height, currentActor(c)))
}

// AddAnnotation handles POST /objects/:id/annotations.
// @Summary Annotate an object
// @Tags annotations
// @Accept json
// @Produce json
// @Param X-Tenant-ID header string true "Tenant"
// @Param id path string true "Object ID" Format(uuid)
// @Param annotation body services.AnnotationInput true "Annotation"
// @Success 201 {object} map[string]interface{}
// @Router /objects/{id}/annotations [post]
func (h *ObjectHandler) AddAnnotation(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, InvalidUuidError, err)
	}
	var in services.AnnotationInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, InvalidBodyError, err)
	}
	annotationID, object, err := h.Service.AddAnnotation(c.UserContext(), id, in, currentActor(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"annotation_id": annotationID, "object": object})
}

// ResolveAnnotation handles POST /objects/:id/annotations/:annotationId/resolve.
// @Summary Resolve an annotation
// @Tags annotations
// @Produce json
// @Param X-Tenant-ID header string true "Tenant"
// @Param id path string true "Object ID" Format(uuid)
// @Param annotationId path string true "Annotation ID"
// @Success 200 {object} models.ObjectRecord
// @Router /objects/{id}/annotations/{annotationId}/resolve [post]
func (h *ObjectHandler) ResolveAnnotation(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, InvalidUuidError, err)
	}
	return h.reply(c)(h.Service.ResolveAnnotation(c.UserContext(), id, c.Params("annotationId"), currentActor(c)))
}

// SubmitValidation handles POST /objects/:id/validations. JSON bodies carry
// the submission directly; multipart bodies carry it in the "payload" field
// and attachments in "attachments" files.
// @Summary Submit a validation result
// @Tags validations
// @Accept json,mpfd
// @Produce json
// @Param X-Tenant-ID header string true "Tenant"
// @Param id path string true "Object ID" Format(uuid)
// @Param submission body models.ValidationSubmission true "Validation"
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{} "Illegal transition"
// @Router /objects/{id}/validations [post]
func (h *ObjectHandler) SubmitValidation(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, InvalidUuidError, err)
	}

	var (
		sub     models.ValidationSubmission
		uploads []services.AttachmentUpload
	)
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return badRequest(c, InvalidBodyError, err)
		}
		payload := form.Value["payload"]
		if len(payload) == 0 {
			return badRequest(c, "missing payload field", nil)
		}
		if err := json.Unmarshal([]byte(payload[0]), &sub); err != nil {
			return badRequest(c, InvalidBodyError, err)
		}
		for _, fh := range form.File["attachments"] {
			f, err := fh.Open()
			if err != nil {
				return badRequest(c, "could not read attachment", err)
			}
			defer f.Close()
			uploads = append(uploads, services.AttachmentUpload{
				Filename:    fh.Filename,
				ContentType: fh.Header.Get(fiber.HeaderContentType),
				Size:        fh.Size,
				Reader:      f,
			})
		}
	} else if err := c.BodyParser(&sub); err != nil {
		return badRequest(c, InvalidBodyError, err)
	}

	object, outcome, err := h.Service.SubmitValidation(c.UserContext(), id, sub, uploads, currentActor(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"object":    object,
		"completed": outcome.Completed,
		"from":      outcome.From,
		"to":        outcome.To,
	})
}

// ListAttachments handles GET /objects/:id/attachments.
// @Summary List validation attachments
// @Tags validations
// @Produce json
// @Param X-Tenant-ID header string true "Tenant"
// @Param id path string true "Object ID" Format(uuid)
// @Success 200 {array} models.Attachment
// @Router /objects/{id}/attachments [get]
func (h *ObjectHandler) ListAttachments(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, InvalidUuidError, err)
	}
	attachments, err := h.Service.ListAttachments(c.UserContext(), id, currentActor(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(attachments)
}

// DownloadAttachment handles GET /objects/:id/attachments/:attachmentId/content.
// @Summary Download a validation attachment
// @Tags validations
// @Produce octet-stream
// @Param X-Tenant-ID header string true "Tenant"
// @Param id path string true "Object ID" Format(uuid)
// @Param attachmentId path string true "Attachment ID" Format(uuid)
// @Success 200 {file} file
// @Failure 404 {object} map[string]interface{} "Attachment not found"
// @Router /objects/{id}/attachments/{attachmentId}/content [get]
func (h *ObjectHandler) DownloadAttachment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, InvalidUuidError, err)
	}
	attachmentID, err := parseID(c, "attachmentId")
	if err != nil {
		return badRequest(c, InvalidUuidError, err)
	}
	meta, rc, err := h.Service.OpenAttachment(c.UserContext(), id, attachmentID, currentActor(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	contentType := meta.ContentType
	if contentType == "" {
		contentType = fiber.MIMEOctetStream
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", path.Base(meta.OriginalFilename)))

	logger, service := h.logger, h.Service
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer rc.Close()
		tw := utils.NewThroughputWriter(w)
		if _, err := io.Copy(tw, rc); err != nil {
			logger.Warn("attachment stream interrupted", "attachment_id", meta.ID.String(), "error", err)
		}
		if err := w.Flush(); err != nil {
			logger.Debug("attachment flush failed", "attachment_id", meta.ID.String(), "error", err)
		}
		service.RecordAttachmentServed(tw.Bytes())
		logger.Debug("attachment served",
			"attachment_id", meta.ID.String(),
			"bytes", tw.Bytes(),
			"first_byte_ms", tw.FirstByteLatency().Milliseconds(),
			"bytes_per_second", tw.BytesPerSecond())
	})
	return nil
}

// SetRequiredValidations handles PUT /objects/:id/required-validations.
// @Summary Replace required validations
// @Tags validations
// @Accept json
// @Produce json
// @Param X-Tenant-ID header string true "Tenant"
// @Param id path string true "Object ID" Format(uuid)
// @Param types body requirementsRequest true "Validation types"
// @Success 200 {object} models.ObjectRecord
// @Router /objects/{id}/required-validations [put]
func (h *ObjectHandler) SetRequiredValidations(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, InvalidUuidError, err)
	}
	var req requirementsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, InvalidBodyError, err)
	}
	return h.reply(c)(h.Service.SetRequiredValidations(c.UserContext(), id, req.Types, currentActor(c)))
}

// StartReview handles POST /objects/:id/review.
// @Summary Start the review of an object
// @Tags lifecycle
// @Produce json
// @Param X-Tenant-ID header string true "Tenant"
// @Param id path string true "Object ID" Format(uuid)
// @Success 200 {object} models.ObjectRecord
// @Router /objects/{id}/review [post]
func (h *ObjectHandler) StartReview(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, InvalidUuidError, err)
	}
	return h.reply(c)(h.Service.StartReview(c.UserContext(), id, currentActor(c)))
}

// ApproveObject handles POST /objects/:id/approve.
// @Summary Approve an object
// @Tags lifecycle
// @Produce json
// @Param X-Tenant-ID header string true "Tenant"
// @Param id path string true "Object ID" Format(uuid)
// @Success 200 {object} models.ObjectRecord
// @Failure 422 {object} map[string]interface{} "Object is conflicted or archived"
// @Router /objects/{id}/approve [post]
func (h *ObjectHandler) ApproveObject(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, InvalidUuidError, err)
	}
	return h.reply(c)(h.Service.ApproveObject(c.UserContext(), id, currentActor(c)))
}

// RejectObject handles POST /objects/:id/reject.
// @Summary Reject an object
// @Tags lifecycle
// @Accept json
// @Produce json
// @Param X-Tenant-ID header string true "Tenant"
// @Param id path string true "Object ID" Format(uuid)
// @Param reason body reasonRequest true "Reason"
// @Success 200 {object} models.ObjectRecord
// @Router /objects/{id}/reject [post]
func (h *ObjectHandler) RejectObject(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, InvalidUuidError, err)
	}
	var req reasonRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, InvalidBodyError, err)
	}
	return h.reply(c)(h.Service.RejectObject(c.UserContext(), id, req.Reason, currentActor(c)))
}

// ArchiveObject handles POST /objects/:id/archive.
// @Summary Archive an object
// @Tags lifecycle
// @Produce json
// @Param X-Tenant-ID header string true "Tenant"
// @Param id path string true "Object ID" Format(uuid)
// @Success 200 {object} models.ObjectRecord
// @Router /objects/{id}/archive [post]
func (h *ObjectHandler) ArchiveObject(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, InvalidUuidError, err)
	}
	return h.reply(c)(h.Service.ArchiveObject(c.UserContext(), id, currentActor(c)))
}

// DeactivateObject handles DELETE /objects/:id. Objects are soft-deleted.
// @Summary Deactivate an object
// @Tags objects
// @Produce json
// @Param X-Tenant-ID header string true "Tenant"
// @Param id path string true "Object ID" Format(uuid)
// @Param reason query string false "Reason"
// @Success 200 {object} models.ObjectRecord
// @Router /objects/{id} [delete]
func (h *ObjectHandler) DeactivateObject(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, InvalidUuidError, err)
	}
	return h.reply(c)(h.Service.DeactivateObject(c.UserContext(), id, c.Query("reason"), currentActor(c)))
}

// ResolveConflict handles POST /objects/:id/conflicts/:conflictId/resolve.
// @Summary Resolve a conflict
// @Tags conflicts
// @Accept json
// @Produce json
// @Param X-Tenant-ID header string true "Tenant"
// @Param id path string true "Object ID" Format(uuid)
// @Param conflictId path string true "Conflict ID"
// @Param resolution body resolutionRequest false "Resolution note"
// @Success 200 {object} models.ObjectRecord
// @Router /objects/{id}/conflicts/{conflictId}/resolve [post]
func (h *ObjectHandler) ResolveConflict(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, InvalidUuidError, err)
	}
	var req resolutionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, InvalidBodyError, err)
		}
	}
	return h.reply(c)(h.Service.ResolveConflict(c.UserContext(), id, c.Params("conflictId"), req.Resolution, currentActor(c)))
}

// reply renders the result of a single-object operation.
func (h *ObjectHandler) reply(c *fiber.Ctx) func(*models.ObjectRecord, error) error {
	return func(object *models.ObjectRecord, err error) error {
		if err != nil {
			return respondError(c, h.logger, err)
		}
		return c.JSON(object)
	}
}
