package handlers

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"infra-object-service/internal/apperrors"
	"infra-object-service/internal/permissions"
)

const (
	HeaderTenantID  = "X-Tenant-ID"
	HeaderActorID   = "X-Actor-ID"
	HeaderActorRole = "X-Actor-Role"

	InvalidUuidError   = "invalid UUID"
	InvalidBodyError   = "invalid request format"
	MissingTenantError = "missing " + HeaderTenantID + " header"
)

// statusOf maps an error kind to its HTTP status.
func statusOf(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound:
		return fiber.StatusNotFound
	case apperrors.KindInvalidInput:
		return fiber.StatusBadRequest
	case apperrors.KindForbidden:
		return fiber.StatusForbidden
	case apperrors.KindConflict:
		return fiber.StatusConflict
	case apperrors.KindStateViolation:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes err as a JSON error body. Internal errors are logged
// with their cause and answered with a generic message.
func respondError(c *fiber.Ctx, logger *slog.Logger, err error) error {
	status := statusOf(err)
	message := err.Error()
	if status == fiber.StatusInternalServerError {
		logger.Error("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"error", err)
		message = "internal server error"
	} else {
		logger.Debug("request rejected",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"error", err)
	}
	return c.Status(status).JSON(fiber.Map{
		"error": true, "message": message,
	})
}

func badRequest(c *fiber.Ctx, message string, details error) error {
	body := fiber.Map{"error": true, "message": message}
	if details != nil {
		body["details"] = details.Error()
	}
	return c.Status(fiber.StatusBadRequest).JSON(body)
}

// actorFrom reads the caller from the request headers. Authentication
// happens upstream; the headers are trusted.
func actorFrom(c *fiber.Ctx) (permissions.Actor, bool) {
	tenant := strings.TrimSpace(c.Get(HeaderTenantID))
	if tenant == "" {
		return permissions.Actor{}, false
	}
	return permissions.Actor{
		ID:       strings.TrimSpace(c.Get(HeaderActorID)),
		Role:     permissions.ParseRole(c.Get(HeaderActorRole)),
		TenantID: tenant,
	}, true
}

// RequireActor rejects requests without a tenant header and stores the
// actor in the request locals.
func RequireActor(c *fiber.Ctx) error {
	actor, ok := actorFrom(c)
	if !ok {
		return badRequest(c, MissingTenantError, nil)
	}
	c.Locals("actor", actor)
	return c.Next()
}

func currentActor(c *fiber.Ctx) permissions.Actor {
	if actor, ok := c.Locals("actor").(permissions.Actor); ok {
		return actor
	}
	actor, _ := actorFrom(c)
	return actor
}

func parseID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(param))
}
