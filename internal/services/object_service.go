package services

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"infra-object-service/internal/apperrors"
	"infra-object-service/internal/catalog"
	"infra-object-service/internal/confidence"
	"infra-object-service/internal/events"
	"infra-object-service/internal/geometry"
	"infra-object-service/internal/lifecycle"
	"infra-object-service/internal/models"
	"infra-object-service/internal/permissions"
	"infra-object-service/internal/quality"
	"infra-object-service/internal/repository"
	"infra-object-service/internal/storage"
	"infra-object-service/internal/utils"
	"infra-object-service/internal/validation"
)

// AttachmentStore holds the blobs of validation attachments.
type AttachmentStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (int64, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
}

// AttachmentIndex persists attachment metadata.
type AttachmentIndex interface {
	Create(ctx context.Context, a *models.Attachment) error
	ListByObject(ctx context.Context, objectID uuid.UUID) ([]models.Attachment, error)
}

// AttachmentUpload is a file sent along with a validation submission.
type AttachmentUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// AnnotationInput describes a new annotation.
type AnnotationInput struct {
	Type     models.AnnotationType `json:"type"`
	Text     string                `json:"text"`
	Position *geometry.Point       `json:"position,omitempty"`
	Priority string                `json:"priority,omitempty"`
}

// ObjectServiceConfig wires the collaborators of an ObjectService. Only Repo
// and Plans are mandatory.
type ObjectServiceConfig struct {
	Repo            repository.ObjectRepository
	Plans           PlanProvider
	Jobs            DetectionJobProvider
	Catalog         *catalog.Catalog
	Oracle          permissions.Oracle
	Machine         *lifecycle.Machine
	Attachments     AttachmentStore
	AttachmentIndex AttachmentIndex
	Publisher       events.Publisher
	Metrics         *utils.Metrics
	Logger          *slog.Logger
}

// ObjectService runs the lifecycle operations on single objects. Every
// mutating operation is one read-modify-write: load, check permissions,
// mutate in memory, write back with the version check.
type ObjectService struct {
	repo        repository.ObjectRepository
	plans       PlanProvider
	jobs        DetectionJobProvider
	catalog     *catalog.Catalog
	oracle      permissions.Oracle
	machine     *lifecycle.Machine
	validator   *validation.Aggregator
	attachments AttachmentStore
	index       AttachmentIndex
	publisher   events.Publisher
	metrics     *utils.Metrics
	logger      *slog.Logger
}

// NewObjectService creates an ObjectService, filling unset collaborators
// with defaults: the built-in catalog, the role oracle, a strict machine,
// in-memory attachments and no event publication.
func NewObjectService(cfg ObjectServiceConfig) *ObjectService {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.Default()
	}
	if cfg.Oracle == nil {
		cfg.Oracle = permissions.RoleOracle{}
	}
	if cfg.Machine == nil {
		cfg.Machine = lifecycle.NewMachine(true, cfg.Logger)
	}
	if cfg.Attachments == nil {
		cfg.Attachments = storage.NewMemoryStore()
	}
	if cfg.Publisher == nil {
		cfg.Publisher = events.Nop{}
	}
	if cfg.Metrics == nil {
		cfg.Metrics = utils.NewMetrics(prometheus.NewRegistry())
	}
	return &ObjectService{
		repo:        cfg.Repo,
		plans:       cfg.Plans,
		jobs:        cfg.Jobs,
		catalog:     cfg.Catalog,
		oracle:      cfg.Oracle,
		machine:     cfg.Machine,
		validator:   validation.NewAggregator(cfg.Catalog, cfg.Machine, cfg.Logger),
		attachments: cfg.Attachments,
		index:       cfg.AttachmentIndex,
		publisher:   cfg.Publisher,
		metrics:     cfg.Metrics,
		logger:      cfg.Logger.With("module", "objects"),
	}
}

// Catalog returns the type catalog the service validates against.
func (s *ObjectService) Catalog() *catalog.Catalog {
	return s.catalog
}

// CreateObject validates in against the catalog and the plan, classifies the
// object and stores it. Nothing is written when validation fails.
func (s *ObjectService) CreateObject(ctx context.Context, in models.CreateObjectInput, actor permissions.Actor) (*models.ObjectRecord, error) {
	const op = "objects.create"

	if err := permissions.Require(s.oracle, permissions.ActionCreate, actor, nil); err != nil {
		return nil, err
	}

	entry, err := s.catalog.Lookup(in.Category, in.Type)
	if err != nil {
		return nil, err
	}

	source := in.Source
	if source == "" {
		source = models.SourceManual
		if in.DetectionJobID != nil {
			source = models.SourceAIDetection
		}
	}
	if !source.IsValid() {
		return nil, apperrors.InvalidInput(op, "unknown source %q", source)
	}

	if !in.BoundingBox.Valid() {
		return nil, apperrors.InvalidInput(op, "size %vx%v must be positive", in.BoundingBox.Width, in.BoundingBox.Height)
	}
	for _, p := range in.Points {
		if !p.Kind.IsValid() {
			return nil, apperrors.InvalidInput(op, "unknown point kind %q", p.Kind)
		}
	}

	if in.Confidence != nil && !confidence.InRange(*in.Confidence) {
		return nil, apperrors.InvalidInput(op, "confidence %v must be within [0,1]", *in.Confidence)
	}
	if in.Confidence == nil && source == models.SourceAIDetection {
		return nil, apperrors.InvalidInput(op, "detected objects must carry a confidence")
	}

	criticality := entry.Criticality
	if in.Criticality != "" {
		k, ok := confidence.ParseCriticality(in.Criticality)
		if !ok {
			return nil, apperrors.InvalidInput(op, "unknown criticality %q", in.Criticality)
		}
		criticality = k
	}

	required := entry.RequiredValidations
	if in.RequiredValidations != nil {
		required = nil
		for _, t := range in.RequiredValidations {
			if !s.catalog.KnownValidation(t) {
				return nil, apperrors.InvalidInput(op, "unknown validation type %q", t)
			}
			if !slices.Contains(required, t) {
				required = append(required, t)
			}
		}
	}

	center := in.BoundingBox.Center()
	if in.Center != nil {
		center = *in.Center
	}

	plan, err := s.plans.GetPlan(ctx, actor.TenantID, in.PlanID)
	if err != nil {
		return nil, err
	}
	if plan.HasBounds() && !geometry.Within(center, *plan.Width, *plan.Height) {
		return nil, apperrors.InvalidInput(op, "center (%v,%v) lies outside plan %s", center.X, center.Y, plan.ID)
	}

	if in.DetectionJobID != nil {
		if s.jobs == nil {
			return nil, apperrors.InvalidInput(op, "detection jobs are not available")
		}
		job, err := s.jobs.GetDetectionJob(ctx, actor.TenantID, *in.DetectionJobID)
		if err != nil {
			return nil, err
		}
		if job.PlanID != in.PlanID {
			return nil, apperrors.InvalidInput(op, "detection job %s belongs to another plan", job.ID)
		}
	}

	o := &models.ObjectRecord{
		ID:                  uuid.New(),
		TenantID:            actor.TenantID,
		PlanID:              in.PlanID,
		DetectionJobID:      in.DetectionJobID,
		Category:            in.Category,
		Type:                in.Type,
		Subtype:             in.Subtype,
		BoundingBox:         in.BoundingBox,
		Center:              center,
		Rotation:            in.Rotation,
		Points:              slices.Clone(in.Points),
		Area:                in.Area,
		Perimeter:           in.Perimeter,
		Source:              source,
		Confidence:          in.Confidence,
		Criticality:         criticality,
		RequiredValidations: slices.Clone(required),
		Properties:          maps.Clone(in.Properties),
		DetectionMetadata:   maps.Clone(in.DetectionMetadata),
		ParentID:            in.ParentID,
		RelatedObjectIDs:    slices.Clone(in.RelatedObjectIDs),
		IsActive:            true,
		CreatedBy:           actor.ID,
	}
	o.RefreshTriage()
	o.Status = lifecycle.InitialStatus(o.RequiresReview)
	o.AddModification(models.Modification{
		Action: models.ActionCreated,
		Actor:  actor.ID,
		After: map[string]any{
			"status":      string(o.Status),
			"category":    o.Category,
			"type":        o.Type,
			"criticality": string(o.Criticality),
		},
	})

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	s.metrics.ObjectCreated(string(source))
	s.logger.Info("object created",
		"object_id", o.ID.String(),
		"plan_id", o.PlanID.String(),
		"type", o.Type,
		"status", string(o.Status),
		"requires_review", o.RequiresReview)
	s.publish(ctx, events.TypeCreated, o, actor, nil)
	return o, nil
}

// GetObject returns an object of the actor's tenant, active or not.
func (s *ObjectService) GetObject(ctx context.Context, id uuid.UUID, actor permissions.Actor) (*models.ObjectRecord, error) {
	return s.repo.GetByID(ctx, actor.TenantID, id)
}

// ListObjects returns the objects of the actor's tenant matching f.
func (s *ObjectService) ListObjects(ctx context.Context, f repository.ObjectFilter, actor permissions.Actor) ([]*models.ObjectRecord, int64, error) {
	f.TenantID = actor.TenantID
	objects, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	f.Limit, f.Offset = 0, 0
	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return objects, total, nil
}

// FindNearby returns the active objects of a plan whose center lies within
// radius of center.
func (s *ObjectService) FindNearby(ctx context.Context, planID uuid.UUID, center geometry.Point, radius float64, actor permissions.Actor) ([]*models.ObjectRecord, error) {
	if radius < 0 {
		return nil, apperrors.InvalidInput("objects.nearby", "radius must not be negative")
	}
	return s.repo.FindWithinRadius(ctx, actor.TenantID, planID, center, radius)
}

// UpdateObject applies a non-geometric patch.
func (s *ObjectService) UpdateObject(ctx context.Context, id uuid.UUID, patch models.ObjectPatch, actor permissions.Actor) (*models.ObjectRecord, error) {
	const op = "objects.update"
	if patch.Empty() {
		return nil, apperrors.InvalidInput(op, "patch changes nothing")
	}

	o, err := s.loadForChange(ctx, id, permissions.ActionEdit, actor)
	if err != nil {
		return nil, err
	}

	var criticality confidence.Criticality
	if patch.Criticality != nil {
		if !actor.Role.Elevated() {
			return nil, apperrors.Forbidden(op, "actor %s (%s) may not change criticality", actor.ID, actor.Role)
		}
		k, ok := confidence.ParseCriticality(*patch.Criticality)
		if !ok {
			return nil, apperrors.InvalidInput(op, "unknown criticality %q", *patch.Criticality)
		}
		criticality = k
	}
	if patch.Confidence != nil && !confidence.InRange(*patch.Confidence) {
		return nil, apperrors.InvalidInput(op, "confidence %v must be within [0,1]", *patch.Confidence)
	}
	if patch.ParentID != nil && *patch.ParentID == o.ID {
		return nil, apperrors.InvalidInput(op, "an object cannot be its own parent")
	}

	next, err := s.machine.Next(o.Status, lifecycle.EventEdited, o.ManuallyValidated)
	if err != nil {
		return nil, err
	}

	from := o.Status
	before, after := map[string]any{}, map[string]any{}
	if patch.Subtype != nil {
		before["subtype"], after["subtype"] = o.Subtype, *patch.Subtype
		o.Subtype = *patch.Subtype
	}
	if patch.Properties != nil {
		before["properties"] = maps.Clone(o.Properties)
		if o.Properties == nil {
			o.Properties = map[string]any{}
		}
		maps.Copy(o.Properties, patch.Properties)
		after["properties"] = maps.Clone(o.Properties)
	}
	if patch.Confidence != nil {
		before["confidence"], after["confidence"] = o.Confidence, *patch.Confidence
		c := *patch.Confidence
		o.Confidence = &c
	}
	if patch.Criticality != nil {
		before["criticality"], after["criticality"] = string(o.Criticality), string(criticality)
		o.Criticality = criticality
	}
	if patch.ParentID != nil {
		before["parent_id"], after["parent_id"] = o.ParentID, *patch.ParentID
		parent := *patch.ParentID
		o.ParentID = &parent
	}
	if patch.RelatedObjectIDs != nil {
		before["related_object_ids"] = slices.Clone([]string(o.RelatedObjectIDs))
		o.RelatedObjectIDs = slices.Clone(patch.RelatedObjectIDs)
		after["related_object_ids"] = slices.Clone(patch.RelatedObjectIDs)
	}
	if patch.Confidence != nil || patch.Criticality != nil {
		o.RefreshTriage()
	}

	o.AddModification(models.Modification{
		Action: models.ActionPropertiesChanged,
		Actor:  actor.ID,
		Before: before,
		After:  after,
	})
	o.SetStatus(next, actor.ID, string(lifecycle.EventEdited), false)

	if err := s.commit(ctx, o, from, op, actor, events.TypeUpdated); err != nil {
		return nil, err
	}
	return o, nil
}

// MoveObject moves the object's center to (x, y).
func (s *ObjectService) MoveObject(ctx context.Context, id uuid.UUID, x, y float64, actor permissions.Actor) (*models.ObjectRecord, error) {
	const op = "objects.move"
	o, err := s.loadForChange(ctx, id, permissions.ActionEdit, actor)
	if err != nil {
		return nil, err
	}

	plan, err := s.plans.GetPlan(ctx, o.TenantID, o.PlanID)
	if err != nil {
		return nil, err
	}
	if plan.HasBounds() && !geometry.Within(geometry.Point{X: x, Y: y}, *plan.Width, *plan.Height) {
		return nil, apperrors.InvalidInput(op, "center (%v,%v) lies outside plan %s", x, y, plan.ID)
	}

	next, err := s.machine.Next(o.Status, lifecycle.EventEdited, o.ManuallyValidated)
	if err != nil {
		return nil, err
	}

	from := o.Status
	o.MoveTo(x, y, actor.ID)
	o.SetStatus(next, actor.ID, string(lifecycle.EventEdited), false)

	if err := s.commit(ctx, o, from, op, actor, events.TypeUpdated); err != nil {
		return nil, err
	}
	return o, nil
}

// ResizeObject replaces the object's width and height.
func (s *ObjectService) ResizeObject(ctx context.Context, id uuid.UUID, width, height float64, actor permissions.Actor) (*models.ObjectRecord, error) {
	const op = "objects.resize"
	if width <= 0 || height <= 0 {
		return nil, apperrors.InvalidInput(op, "size %vx%v must be positive", width, height)
	}
	o, err := s.loadForChange(ctx, id, permissions.ActionEdit, actor)
	if err != nil {
		return nil, err
	}

	next, err := s.machine.Next(o.Status, lifecycle.EventEdited, o.ManuallyValidated)
	if err != nil {
		return nil, err
	}

	from := o.Status
	if err := o.Resize(width, height, actor.ID); err != nil {
		return nil, err
	}
	o.SetStatus(next, actor.ID, string(lifecycle.EventEdited), false)

	if err := s.commit(ctx, o, from, op, actor, events.TypeUpdated); err != nil {
		return nil, err
	}
	return o, nil
}

// AddAnnotation attaches a note to the object and returns its id.
func (s *ObjectService) AddAnnotation(ctx context.Context, id uuid.UUID, in AnnotationInput, actor permissions.Actor) (string, *models.ObjectRecord, error) {
	o, err := s.loadForChange(ctx, id, permissions.ActionCreate, actor)
	if err != nil {
		return "", nil, err
	}
	annotationID, err := o.AddAnnotation(in.Type, in.Text, actor.ID, in.Position, in.Priority)
	if err != nil {
		return "", nil, err
	}
	if err := s.commit(ctx, o, o.Status, "objects.annotate", actor, events.TypeUpdated); err != nil {
		return "", nil, err
	}
	return annotationID, o, nil
}

// ResolveAnnotation marks an annotation resolved.
func (s *ObjectService) ResolveAnnotation(ctx context.Context, id uuid.UUID, annotationID string, actor permissions.Actor) (*models.ObjectRecord, error) {
	o, err := s.loadForChange(ctx, id, permissions.ActionCreate, actor)
	if err != nil {
		return nil, err
	}
	if err := o.ResolveAnnotation(annotationID, actor.ID); err != nil {
		return nil, err
	}
	if err := s.commit(ctx, o, o.Status, "objects.resolve_annotation", actor, events.TypeUpdated); err != nil {
		return nil, err
	}
	return o, nil
}

// SubmitValidation records a validation result. Uploaded attachments are
// stored first and their keys recorded on the result; they are removed
// again when the submission is rejected or the write fails.
func (s *ObjectService) SubmitValidation(ctx context.Context, id uuid.UUID, sub models.ValidationSubmission, uploads []AttachmentUpload, actor permissions.Actor) (*models.ObjectRecord, validation.Outcome, error) {
	const op = "objects.validate"

	o, err := s.loadForChange(ctx, id, permissions.ActionValidate, actor)
	if err != nil {
		return nil, validation.Outcome{}, err
	}
	if !s.catalog.KnownValidation(sub.Type) {
		return nil, validation.Outcome{}, apperrors.InvalidInput(op, "unknown validation type %q", sub.Type)
	}

	stored, err := s.storeAttachments(ctx, o.ID, sub.Type, uploads, actor)
	if err != nil {
		return nil, validation.Outcome{}, err
	}
	for _, a := range stored {
		sub.Attachments = append(sub.Attachments, a.StorageKey)
	}

	from := o.Status
	out, err := s.validator.Submit(o, sub, actor.ID)
	if err != nil {
		s.removeAttachments(ctx, stored)
		return nil, out, err
	}
	if err := s.commit(ctx, o, from, op, actor, events.TypeUpdated); err != nil {
		s.removeAttachments(ctx, stored)
		return nil, out, err
	}

	if s.index != nil {
		for i := range stored {
			if err := s.index.Create(ctx, &stored[i]); err != nil {
				s.logger.Warn("failed to index attachment",
					"object_id", o.ID.String(),
					"key", stored[i].StorageKey,
					"error", err)
			}
		}
	}
	s.metrics.ValidationSubmitted(sub.Type, string(sub.Status))
	return o, out, nil
}

func (s *ObjectService) storeAttachments(ctx context.Context, objectID uuid.UUID, validationType string, uploads []AttachmentUpload, actor permissions.Actor) ([]models.Attachment, error) {
	stored := make([]models.Attachment, 0, len(uploads))
	for _, u := range uploads {
		key := storage.AttachmentKey(objectID, validationType, u.Filename)
		n, err := s.attachments.Put(ctx, key, u.Reader, u.Size, u.ContentType)
		if err != nil {
			s.removeAttachments(ctx, stored)
			return nil, apperrors.Internal("objects.attachment", err, "failed to store attachment")
		}
		s.metrics.AttachmentBytes(n)
		stored = append(stored, models.Attachment{
			ID:               uuid.New(),
			ObjectID:         objectID,
			ValidationType:   validationType,
			OriginalFilename: u.Filename,
			ContentType:      u.ContentType,
			Size:             n,
			UploadedBy:       actor.ID,
			UploadedAt:       time.Now().UTC(),
			StorageKey:       key,
		})
	}
	return stored, nil
}

func (s *ObjectService) removeAttachments(ctx context.Context, stored []models.Attachment) {
	for _, a := range stored {
		if err := s.attachments.Remove(ctx, a.StorageKey); err != nil {
			s.logger.Warn("failed to remove orphaned attachment", "key", a.StorageKey, "error", err)
		}
	}
}

// ListAttachments returns the attachment metadata of an object.
func (s *ObjectService) ListAttachments(ctx context.Context, id uuid.UUID, actor permissions.Actor) ([]models.Attachment, error) {
	if _, err := s.repo.GetByID(ctx, actor.TenantID, id); err != nil {
		return nil, err
	}
	if s.index == nil {
		return []models.Attachment{}, nil
	}
	return s.index.ListByObject(ctx, id)
}

// OpenAttachment returns the metadata and content of one attachment of an
// object. The caller closes the reader.
func (s *ObjectService) OpenAttachment(ctx context.Context, id, attachmentID uuid.UUID, actor permissions.Actor) (*models.Attachment, io.ReadCloser, error) {
	const op = "objects.attachment.open"
	attachments, err := s.ListAttachments(ctx, id, actor)
	if err != nil {
		return nil, nil, err
	}
	idx := slices.IndexFunc(attachments, func(a models.Attachment) bool { return a.ID == attachmentID })
	if idx < 0 {
		return nil, nil, apperrors.NotFound(op, "attachment %s not found on object %s", attachmentID, id)
	}
	a := attachments[idx]
	rc, err := s.attachments.Get(ctx, a.StorageKey)
	if err != nil {
		return nil, nil, apperrors.Internal(op, err, "failed to read attachment")
	}
	return &a, rc, nil
}

// RecordAttachmentServed counts n bytes of attachment content delivered to a
// client.
func (s *ObjectService) RecordAttachmentServed(n int64) {
	s.metrics.AttachmentServed(n)
}

// SetRequiredValidations replaces the validation types the object needs.
// The status is never changed by a requirement change.
func (s *ObjectService) SetRequiredValidations(ctx context.Context, id uuid.UUID, types []string, actor permissions.Actor) (*models.ObjectRecord, error) {
	o, err := s.loadForChange(ctx, id, permissions.ActionApprove, actor)
	if err != nil {
		return nil, err
	}
	if err := s.validator.SetRequirements(o, types, actor.ID); err != nil {
		return nil, err
	}
	if err := s.commit(ctx, o, o.Status, "objects.set_requirements", actor, events.TypeUpdated); err != nil {
		return nil, err
	}
	return o, nil
}

// StartReview moves the object to UNDER_REVIEW.
func (s *ObjectService) StartReview(ctx context.Context, id uuid.UUID, actor permissions.Actor) (*models.ObjectRecord, error) {
	return s.transition(ctx, id, "objects.start_review", permissions.ActionEdit, lifecycle.EventReviewStarted, "", actor, nil)
}

// ApproveObject approves the object by hand. Approval counts as manual
// validation.
func (s *ObjectService) ApproveObject(ctx context.Context, id uuid.UUID, actor permissions.Actor) (*models.ObjectRecord, error) {
	return s.transition(ctx, id, "objects.approve", permissions.ActionApprove, lifecycle.EventManualApproval, "", actor,
		func(o *models.ObjectRecord) { o.MarkValidated(actor.ID) })
}

// RejectObject rejects the object. A reason is required and any manual
// validation is withdrawn.
func (s *ObjectService) RejectObject(ctx context.Context, id uuid.UUID, reason string, actor permissions.Actor) (*models.ObjectRecord, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.InvalidInput("objects.reject", "a rejection reason is required")
	}
	return s.transition(ctx, id, "objects.reject", permissions.ActionApprove, lifecycle.EventRejected, reason, actor,
		func(o *models.ObjectRecord) { o.ClearValidation() })
}

// ArchiveObject archives an approved or rejected object.
func (s *ObjectService) ArchiveObject(ctx context.Context, id uuid.UUID, actor permissions.Actor) (*models.ObjectRecord, error) {
	return s.transition(ctx, id, "objects.archive", permissions.ActionApprove, lifecycle.EventArchived, "", actor, nil)
}

// transition applies a single lifecycle event. apply runs after the
// transition is known to be legal and before the status is set.
func (s *ObjectService) transition(ctx context.Context, id uuid.UUID, op string, action permissions.Action, ev lifecycle.Event, reason string, actor permissions.Actor, apply func(*models.ObjectRecord)) (*models.ObjectRecord, error) {
	o, err := s.loadForChange(ctx, id, action, actor)
	if err != nil {
		return nil, err
	}
	next, err := s.machine.Next(o.Status, ev, o.ManuallyValidated)
	if err != nil {
		return nil, err
	}
	if next == o.Status && !s.machine.Strict() {
		return o, nil
	}

	from := o.Status
	if apply != nil {
		apply(o)
	}
	if reason == "" {
		reason = string(ev)
	}
	o.SetStatus(next, actor.ID, reason, false)

	if err := s.commit(ctx, o, from, op, actor, ""); err != nil {
		return nil, err
	}
	return o, nil
}

// DeactivateObject soft-deletes the object.
func (s *ObjectService) DeactivateObject(ctx context.Context, id uuid.UUID, reason string, actor permissions.Actor) (*models.ObjectRecord, error) {
	o, err := s.repo.GetByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if err := permissions.Require(s.oracle, permissions.ActionDeactivate, actor, o); err != nil {
		return nil, err
	}
	if err := o.Deactivate(actor.ID, strings.TrimSpace(reason), false); err != nil {
		return nil, err
	}
	if err := s.commit(ctx, o, o.Status, "objects.deactivate", actor, events.TypeDeactivated); err != nil {
		return nil, err
	}
	return o, nil
}

// ResolveConflict resolves one conflict entry by hand. When it was the last
// open conflict the object leaves CONFLICTED: to APPROVED when it was
// manually validated, to DETECTED otherwise.
func (s *ObjectService) ResolveConflict(ctx context.Context, id uuid.UUID, conflictID, resolution string, actor permissions.Actor) (*models.ObjectRecord, error) {
	const op = "objects.resolve_conflict"
	o, err := s.loadForChange(ctx, id, permissions.ActionEdit, actor)
	if err != nil {
		return nil, err
	}

	from := o.Status
	remaining, err := o.ResolveConflict(conflictID, actor.ID, strings.TrimSpace(resolution))
	if err != nil {
		return nil, err
	}
	if remaining == 0 && o.Status == lifecycle.StatusConflicted {
		next, err := s.machine.Next(o.Status, lifecycle.EventConflictsResolved, o.ManuallyValidated)
		if err != nil {
			return nil, err
		}
		o.SetStatus(next, actor.ID, string(lifecycle.EventConflictsResolved), false)
	}

	if err := s.commit(ctx, o, from, op, actor, events.TypeUpdated); err != nil {
		return nil, err
	}
	return o, nil
}

// ComputeQualityScore returns the quality score of an object.
func (s *ObjectService) ComputeQualityScore(ctx context.Context, id uuid.UUID, actor permissions.Actor) (int, error) {
	o, err := s.repo.GetByID(ctx, actor.TenantID, id)
	if err != nil {
		return 0, err
	}
	return quality.Score(o), nil
}

// ComputeStatistics summarises the active objects of the actor's tenant,
// optionally restricted to one plan.
func (s *ObjectService) ComputeStatistics(ctx context.Context, planID *uuid.UUID, actor permissions.Actor) (*quality.Statistics, error) {
	active := true
	objects, err := s.repo.List(ctx, repository.ObjectFilter{
		TenantID: actor.TenantID,
		PlanID:   planID,
		Active:   &active,
	})
	if err != nil {
		return nil, err
	}
	return quality.ComputeStatistics(objects), nil
}

// loadForChange loads an active object and checks that actor may perform
// action on it.
func (s *ObjectService) loadForChange(ctx context.Context, id uuid.UUID, action permissions.Action, actor permissions.Actor) (*models.ObjectRecord, error) {
	o, err := s.repo.GetByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if err := permissions.Require(s.oracle, action, actor, o); err != nil {
		return nil, err
	}
	if !o.IsActive {
		return nil, apperrors.StateViolation("objects."+string(action), "object %s is inactive", o.ID)
	}
	return o, nil
}

// commit writes o back and reports the change. evType is published in
// addition to status_changed when it is set.
func (s *ObjectService) commit(ctx context.Context, o *models.ObjectRecord, from lifecycle.Status, op string, actor permissions.Actor, evType events.Type) error {
	if err := s.repo.Update(ctx, o); err != nil {
		if apperrors.Is(err, apperrors.KindConflict) {
			s.metrics.StaleWrite(op)
			s.logger.Warn("stale write rejected", "op", op, "object_id", o.ID.String(), "version", o.Version)
		}
		return err
	}

	if o.Status != from {
		s.metrics.Transition(string(from), string(o.Status))
		s.logger.Info("object status changed",
			"object_id", o.ID.String(),
			"from", string(from),
			"to", string(o.Status),
			"actor", actor.ID)
		s.publish(ctx, events.TypeStatusChanged, o, actor, map[string]any{"from": string(from)})
	}
	if evType != "" {
		s.publish(ctx, evType, o, actor, nil)
	}
	return nil
}

func (s *ObjectService) publish(ctx context.Context, t events.Type, o *models.ObjectRecord, actor permissions.Actor, data map[string]any) {
	err := s.publisher.Publish(ctx, events.Event{
		Type:     t,
		TenantID: o.TenantID,
		PlanID:   o.PlanID.String(),
		ObjectID: o.ID.String(),
		Status:   string(o.Status),
		Actor:    actor.ID,
		Data:     data,
	})
	if err != nil {
		s.logger.Warn("event publication failed", "type", string(t), "object_id", o.ID.String(), "error", err)
	}
}
