package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// Register mounts the API routes on router. Every route requires the
// tenant header.
func Register(router fiber.Router, objects *ObjectHandler, analysis *AnalysisHandler, plans *PlanHandler) {
	api := router.Group("", RequireActor)

	api.Get("/objects", objects.ListObjects)
	api.Post("/objects", objects.CreateObject)
	api.Get("/objects/nearby", objects.FindNearby)
	api.Get("/objects/statistics", objects.GetStatistics)
	api.Get("/objects/:id", objects.GetObject)
	api.Patch("/objects/:id", objects.UpdateObject)
	api.Delete("/objects/:id", objects.DeactivateObject)
	api.Get("/objects/:id/quality", objects.GetQuality)
	api.Post("/objects/:id/move", objects.MoveObject)
	api.Post("/objects/:id/resize", objects.ResizeObject)
	api.Post("/objects/:id/annotations", objects.AddAnnotation)
	api.Post("/objects/:id/annotations/:annotationId/resolve", objects.ResolveAnnotation)
	api.Post("/objects/:id/validations", objects.SubmitValidation)
	api.Get("/objects/:id/attachments", objects.ListAttachments)
	api.Get("/objects/:id/attachments/:attachmentId/content", objects.DownloadAttachment)
	api.Put("/objects/:id/required-validations", objects.SetRequiredValidations)
	api.Post("/objects/:id/review", objects.StartReview)
	api.Post("/objects/:id/approve", objects.ApproveObject)
	api.Post("/objects/:id/reject", objects.RejectObject)
	api.Post("/objects/:id/archive", objects.ArchiveObject)
	api.Post("/objects/:id/conflicts/:conflictId/resolve", objects.ResolveConflict)

	api.Post("/analysis/conflicts", analysis.AnalyzeConflicts)

	api.Get("/plans", plans.ListPlans)
	api.Post("/plans", plans.CreatePlan)
	api.Get("/plans/:id", plans.GetPlan)
	api.Put("/plans/:id", plans.UpdatePlan)
	api.Post("/plans/:id/detection-jobs", plans.CreateDetectionJob)
	api.Get("/detection-jobs/:id", plans.GetDetectionJob)
}
