package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"infra-object-service/internal/apperrors"
	"infra-object-service/internal/conflicts"
	"infra-object-service/internal/events"
	"infra-object-service/internal/lifecycle"
	"infra-object-service/internal/metrics"
	"infra-object-service/internal/models"
	"infra-object-service/internal/permissions"
	"infra-object-service/internal/repository"
	"infra-object-service/internal/utils"
)

// ConflictServiceConfig wires the collaborators of a ConflictService.
type ConflictServiceConfig struct {
	Repo      repository.ObjectRepository
	Machine   *lifecycle.Machine
	Oracle    permissions.Oracle
	Publisher events.Publisher
	Metrics   *utils.Metrics
	Logger    *slog.Logger
	// Defaults are the tolerances used when a request does not set them.
	Defaults conflicts.Options
}

// ConflictService runs conflict analysis over the objects of a plan.
type ConflictService struct {
	repo      repository.ObjectRepository
	detector  *conflicts.Detector
	oracle    permissions.Oracle
	publisher events.Publisher
	metrics   *utils.Metrics
	defaults  conflicts.Options
	logger    *slog.Logger
}

// AnalysisReport is the outcome of AnalyzeConflicts.
type AnalysisReport struct {
	*conflicts.Result
	PlanID   uuid.UUID   `json:"plan_id"`
	Analyzed int         `json:"analyzed"`
	Written  int         `json:"written"`
	Skipped  []uuid.UUID `json:"skipped,omitempty"`
	Summary  string      `json:"summary"`
}

func NewConflictService(cfg ConflictServiceConfig) *ConflictService {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Machine == nil {
		cfg.Machine = lifecycle.NewMachine(true, cfg.Logger)
	}
	if cfg.Oracle == nil {
		cfg.Oracle = permissions.RoleOracle{}
	}
	if cfg.Publisher == nil {
		cfg.Publisher = events.Nop{}
	}
	if cfg.Metrics == nil {
		cfg.Metrics = utils.NewMetrics(prometheus.NewRegistry())
	}
	if cfg.Defaults.DuplicateTolerance <= 0 {
		cfg.Defaults.DuplicateTolerance = conflicts.DefaultDuplicateTolerance
	}
	if cfg.Defaults.OverlapTolerance <= 0 {
		cfg.Defaults.OverlapTolerance = conflicts.DefaultOverlapTolerance
	}
	return &ConflictService{
		repo:      cfg.Repo,
		detector:  conflicts.NewDetector(cfg.Machine, cfg.Logger),
		oracle:    cfg.Oracle,
		publisher: cfg.Publisher,
		metrics:   cfg.Metrics,
		defaults:  cfg.Defaults,
		logger:    cfg.Logger.With("module", "analysis"),
	}
}

func (s *ConflictService) options(req models.AnalysisRequest) (conflicts.Options, error) {
	const op = "analysis.options"
	opts := conflicts.Options{
		Types:              req.Types,
		DuplicateTolerance: s.defaults.DuplicateTolerance,
		OverlapTolerance:   s.defaults.OverlapTolerance,
	}
	if len(opts.Types) == 0 {
		opts.Types = []models.ConflictType{models.ConflictDuplicate, models.ConflictOverlap}
	}
	for _, t := range opts.Types {
		if t != models.ConflictDuplicate && t != models.ConflictOverlap {
			return opts, apperrors.InvalidInput(op, "conflict type %q cannot be detected", t)
		}
	}
	if req.DuplicateTolerance != nil {
		if *req.DuplicateTolerance < 0 {
			return opts, apperrors.InvalidInput(op, "duplicate tolerance must not be negative")
		}
		opts.DuplicateTolerance = *req.DuplicateTolerance
	}
	if req.OverlapTolerance != nil {
		if *req.OverlapTolerance < 0 {
			return opts, apperrors.InvalidInput(op, "overlap tolerance must not be negative")
		}
		opts.OverlapTolerance = *req.OverlapTolerance
	}
	return opts, nil
}

// snapshot loads the objects a run works on: the requested ids, or every
// object of the plan. Inactive and archived objects never take part.
func (s *ConflictService) snapshot(ctx context.Context, req models.AnalysisRequest, tenantID string) ([]*models.ObjectRecord, error) {
	var (
		loaded []*models.ObjectRecord
		err    error
	)
	if len(req.ObjectIDs) > 0 {
		loaded, err = s.repo.GetByIDs(ctx, tenantID, req.ObjectIDs)
		if err != nil {
			return nil, err
		}
		for _, o := range loaded {
			if o.PlanID != req.PlanID {
				return nil, apperrors.InvalidInput("analysis.snapshot", "object %s is not on plan %s", o.ID, req.PlanID)
			}
		}
	} else {
		active := true
		planID := req.PlanID
		loaded, err = s.repo.List(ctx, repository.ObjectFilter{TenantID: tenantID, PlanID: &planID, Active: &active})
		if err != nil {
			return nil, err
		}
	}

	out := make([]*models.ObjectRecord, 0, len(loaded))
	for _, o := range loaded {
		if o.IsActive && o.Status != lifecycle.StatusArchived {
			out = append(out, o)
		}
	}
	return out, nil
}

// AnalyzeConflicts detects duplicates and overlaps on a plan, auto-resolves
// duplicates when asked to and records the remaining findings on the
// objects. Records are written one by one; ctx is checked before each write
// and records already written stay written when the run is cancelled.
// A record that lost an optimistic race is skipped and listed in the report.
func (s *ConflictService) AnalyzeConflicts(ctx context.Context, req models.AnalysisRequest, actor permissions.Actor) (*AnalysisReport, error) {
	if err := permissions.Require(s.oracle, permissions.ActionCreate, actor, nil); err != nil {
		return nil, err
	}
	if req.AutoResolve {
		if err := permissions.Require(s.oracle, permissions.ActionApprove, actor, nil); err != nil {
			return nil, err
		}
	}
	if req.PlanID == uuid.Nil {
		return nil, apperrors.InvalidInput("analysis.run", "plan id is required")
	}
	opts, err := s.options(req)
	if err != nil {
		return nil, err
	}

	run := metrics.NewRunMetrics(req.PlanID.String())
	run.StartPhase("snapshot")
	objects, err := s.snapshot(ctx, req, actor.TenantID)
	if err != nil {
		return nil, err
	}
	run.EndPhase("snapshot")
	run.ObjectCount = len(objects)

	before := make(map[uuid.UUID]lifecycle.Status, len(objects))
	byID := make(map[uuid.UUID]*models.ObjectRecord, len(objects))
	for _, o := range objects {
		before[o.ID] = o.Status
		byID[o.ID] = o
	}

	res := s.detector.Detect(objects, opts)
	var deactivated []*models.ObjectRecord
	if req.AutoResolve {
		deactivated = s.detector.AutoResolve(res, byID, actor.ID)
	}
	touched, err := s.detector.Record(res, objects, actor.ID)
	if err != nil {
		return nil, err
	}
	run.RecordPhase("duplicates", res.Timings.Duplicates)
	run.RecordPhase("overlaps", res.Timings.Overlaps)
	run.RecordPhase("resolution", res.Timings.Resolution)
	run.RecordPhase("recording", res.Timings.Recording)
	run.FindingCount = len(res.Findings)

	dirty := make(map[uuid.UUID]bool, len(touched)+len(deactivated))
	for _, o := range deactivated {
		dirty[o.ID] = true
	}
	for _, o := range touched {
		dirty[o.ID] = true
	}

	report := &AnalysisReport{Result: res, PlanID: req.PlanID, Analyzed: len(objects)}

	run.StartPhase("write")
	for _, o := range objects {
		if !dirty[o.ID] {
			continue
		}
		if err := ctx.Err(); err != nil {
			run.Cancelled = true
			s.finish(ctx, run, report, actor)
			return report, err
		}
		if err := s.repo.Update(ctx, o); err != nil {
			if apperrors.Is(err, apperrors.KindConflict) {
				s.metrics.StaleWrite("analysis.write")
				s.logger.Warn("skipping object modified during analysis", "object_id", o.ID.String())
				report.Skipped = append(report.Skipped, o.ID)
				continue
			}
			s.finish(ctx, run, report, actor)
			return report, err
		}
		report.Written++
		s.committed(ctx, o, before[o.ID], actor)
	}
	run.EndPhase("write")

	for _, f := range res.Findings {
		s.metrics.ConflictsFound(string(f.Type), 1)
	}
	s.metrics.ConflictsAutoResolved(res.AutoResolvedCount)
	s.finish(ctx, run, report, actor)
	return report, nil
}

func (s *ConflictService) committed(ctx context.Context, o *models.ObjectRecord, from lifecycle.Status, actor permissions.Actor) {
	base := events.Event{
		TenantID: o.TenantID,
		PlanID:   o.PlanID.String(),
		ObjectID: o.ID.String(),
		Status:   string(o.Status),
		Actor:    actor.ID,
	}
	if !o.IsActive {
		e := base
		e.Type = events.TypeDeactivated
		e.Data = map[string]any{"reason": conflicts.AutoRemovalReason}
		s.emit(ctx, e)
	}
	if o.Status != from {
		s.metrics.Transition(string(from), string(o.Status))
		e := base
		e.Type = events.TypeStatusChanged
		e.Data = map[string]any{"from": string(from)}
		s.emit(ctx, e)
	}
}

func (s *ConflictService) finish(ctx context.Context, run *metrics.RunMetrics, report *AnalysisReport, actor permissions.Actor) {
	run.WrittenCount = report.Written
	run.Finalize()
	report.Summary = run.GetSummary()
	s.metrics.RecordAnalysisLatency(run.TotalLatencyMs)

	s.logger.Info("conflict analysis finished",
		"plan_id", report.PlanID.String(),
		"objects", report.Analyzed,
		"findings", len(report.Findings),
		"auto_resolved", report.AutoResolvedCount,
		"manual_review", report.ManualReviewCount,
		"written", report.Written,
		"skipped", len(report.Skipped),
		"cancelled", run.Cancelled,
		"duration_ms", run.TotalLatencyMs)

	s.emit(context.WithoutCancel(ctx), events.Event{
		Type:     events.TypeConflictsAnalyzed,
		TenantID: actor.TenantID,
		PlanID:   report.PlanID.String(),
		Actor:    actor.ID,
		Data: map[string]any{
			"findings":      len(report.Findings),
			"auto_resolved": report.AutoResolvedCount,
			"manual_review": report.ManualReviewCount,
			"written":       report.Written,
			"cancelled":     run.Cancelled,
		},
	})
}

func (s *ConflictService) emit(ctx context.Context, e events.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Warn("event publication failed", "type", string(e.Type), "error", err)
	}
}
