package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infra-object-service/internal/apperrors"
	"infra-object-service/internal/conflicts"
	"infra-object-service/internal/events"
	"infra-object-service/internal/geometry"
	"infra-object-service/internal/lifecycle"
	"infra-object-service/internal/models"
	"infra-object-service/internal/repository"
)

func TestAnalyzeAutoResolvesLowConfidenceDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	keep := f.create(t, f.input("ARCHITECTURAL", "WINDOW", 100, 100, ptr(0.95)), admin)
	dupA := f.create(t, f.input("ARCHITECTURAL", "WINDOW", 103, 100, ptr(0.5)), admin)
	dupB := f.create(t, f.input("ARCHITECTURAL", "WINDOW", 100, 104, ptr(0.6)), admin)

	report, err := f.conflicts.AnalyzeConflicts(ctx, models.AnalysisRequest{
		PlanID:      f.plan.ID,
		Types:       []models.ConflictType{models.ConflictDuplicate},
		AutoResolve: true,
	}, admin)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Analyzed)
	assert.Equal(t, 1, report.AutoResolvedCount)
	assert.Zero(t, report.ManualReviewCount)
	assert.ElementsMatch(t, []uuid.UUID{dupA.ID, dupB.ID}, report.Deactivated)
	assert.Equal(t, 2, report.Written)
	require.Len(t, report.Findings, 1)
	assert.Equal(t, keep.ID, *report.Findings[0].SurvivorID)
	assert.NotEmpty(t, report.Summary)

	active := true
	remaining, _, err := f.objects.ListObjects(ctx, repository.ObjectFilter{Active: &active}, admin)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, keep.ID, remaining[0].ID)
	assert.Equal(t, keep.Status, remaining[0].Status, "the survivor's status is untouched")

	gone := f.reload(t, dupA)
	assert.False(t, gone.IsActive)
	last := gone.ModificationHistory[len(gone.ModificationHistory)-1]
	assert.Equal(t, models.ActionDeleted, last.Action)
	assert.True(t, last.Automatic)
	assert.Equal(t, conflicts.AutoRemovalReason, last.Reason)

	assert.Len(t, f.events.OfType(events.TypeDeactivated), 2)
	assert.Len(t, f.events.OfType(events.TypeConflictsAnalyzed), 1)
}

func TestAutoResolveRequiresElevatedRole(t *testing.T) {
	f := newFixture(t)
	_, err := f.conflicts.AnalyzeConflicts(context.Background(), models.AnalysisRequest{
		PlanID: f.plan.ID, AutoResolve: true,
	}, technician)
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden))

	_, err = f.conflicts.AnalyzeConflicts(context.Background(), models.AnalysisRequest{PlanID: f.plan.ID}, viewer)
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden))
}

func TestAnalyzeRecordsOverlapsAndManualResolution(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.create(t, models.CreateObjectInput{
		PlanID: f.plan.ID, Category: "ARCHITECTURAL", Type: "DOOR", Source: models.SourceManual,
		BoundingBox: geometry.BoundingBox{X: 0, Y: 0, Width: 10, Height: 10},
	}, admin)
	b := f.create(t, models.CreateObjectInput{
		PlanID: f.plan.ID, Category: "ARCHITECTURAL", Type: "DOOR", Source: models.SourceManual,
		BoundingBox: geometry.BoundingBox{X: 9, Y: 9, Width: 10, Height: 10},
	}, admin)

	req := models.AnalysisRequest{PlanID: f.plan.ID, OverlapTolerance: ptr(0.0)}
	report, err := f.conflicts.AnalyzeConflicts(ctx, req, admin)
	require.NoError(t, err)
	require.Len(t, report.Findings, 1)
	assert.Equal(t, models.ConflictOverlap, report.Findings[0].Type)
	assert.Equal(t, 1, report.ManualReviewCount)
	assert.Equal(t, 2, report.Written)

	storedA, storedB := f.reload(t, a), f.reload(t, b)
	assert.Equal(t, lifecycle.StatusConflicted, storedA.Status)
	assert.Equal(t, lifecycle.StatusConflicted, storedB.Status)
	require.Len(t, storedA.Conflicts, 1)
	assert.Equal(t, []string{b.ID.String()}, storedA.Conflicts[0].ObjectIDs)

	_, err = f.objects.ApproveObject(ctx, a.ID, admin)
	assert.True(t, apperrors.Is(err, apperrors.KindStateViolation), "conflicted objects cannot be approved")

	again, err := f.conflicts.AnalyzeConflicts(ctx, req, admin)
	require.NoError(t, err)
	assert.Zero(t, again.Written, "identical open conflicts are not recorded twice")
	assert.Len(t, f.reload(t, a).Conflicts, 1)

	resolved, err := f.objects.ResolveConflict(ctx, a.ID, storedA.Conflicts[0].ID, "separate doors", admin)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusDetected, resolved.Status)
	assert.Equal(t, "alice", resolved.Conflicts[0].ResolvedBy)

	_, err = f.objects.ResolveConflict(ctx, a.ID, storedA.Conflicts[0].ID, "", admin)
	assert.True(t, apperrors.Is(err, apperrors.KindStateViolation))
}

func TestValidationCompletedWhileConflicted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.create(t, f.input("ARCHITECTURAL", "DOOR", 100, 100, ptr(0.95)), admin)
	f.create(t, f.input("ARCHITECTURAL", "DOOR", 104, 100, ptr(0.95)), admin)

	_, err := f.conflicts.AnalyzeConflicts(ctx, models.AnalysisRequest{
		PlanID: f.plan.ID, Types: []models.ConflictType{models.ConflictDuplicate},
	}, admin)
	require.NoError(t, err)
	require.Equal(t, lifecycle.StatusConflicted, f.reload(t, a).Status)

	held, out, err := f.objects.SubmitValidation(ctx, a.ID,
		models.ValidationSubmission{Type: "visual", Status: models.ValidationPassed}, nil, admin)
	require.NoError(t, err)
	assert.True(t, out.Completed)
	assert.True(t, held.ManuallyValidated)
	assert.Equal(t, lifecycle.StatusConflicted, held.Status, "approval waits for the conflict")

	resolved, err := f.objects.ResolveConflict(ctx, a.ID, held.Conflicts[0].ID, "kept", admin)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusApproved, resolved.Status)
}

func TestAnalyzeSkipsArchivedAndValidatesRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.create(t, f.input("ARCHITECTURAL", "DOOR", 100, 100, ptr(0.95)), admin)
	b := f.create(t, f.input("ARCHITECTURAL", "DOOR", 102, 100, ptr(0.95)), admin)
	_, err := f.objects.RejectObject(ctx, b.ID, "not a door", admin)
	require.NoError(t, err)
	_, err = f.objects.ArchiveObject(ctx, b.ID, admin)
	require.NoError(t, err)

	report, err := f.conflicts.AnalyzeConflicts(ctx, models.AnalysisRequest{PlanID: f.plan.ID}, admin)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Analyzed)
	assert.Empty(t, report.Findings)

	_, err = f.conflicts.AnalyzeConflicts(ctx, models.AnalysisRequest{
		PlanID: f.plan.ID, Types: []models.ConflictType{models.ConflictInconsistency},
	}, admin)
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidInput))

	_, err = f.conflicts.AnalyzeConflicts(ctx, models.AnalysisRequest{
		PlanID: f.plan.ID, DuplicateTolerance: ptr(-1.0),
	}, admin)
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidInput))

	_, err = f.conflicts.AnalyzeConflicts(ctx, models.AnalysisRequest{}, admin)
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidInput))

	other := &models.Plan{TenantID: tenant, Name: "Roof"}
	require.NoError(t, f.plans.CreatePlan(ctx, other))
	_, err = f.conflicts.AnalyzeConflicts(ctx, models.AnalysisRequest{
		PlanID: other.ID, ObjectIDs: []uuid.UUID{a.ID},
	}, admin)
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidInput), "ids must belong to the plan")
}

func TestAnalyzeExplicitSubset(t *testing.T) {
	f := newFixture(t)
	a := f.create(t, f.input("ARCHITECTURAL", "DOOR", 100, 100, ptr(0.95)), admin)
	f.create(t, f.input("ARCHITECTURAL", "DOOR", 102, 100, ptr(0.95)), admin)

	report, err := f.conflicts.AnalyzeConflicts(context.Background(), models.AnalysisRequest{
		PlanID: f.plan.ID, ObjectIDs: []uuid.UUID{a.ID},
	}, admin)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Analyzed)
	assert.Empty(t, report.Findings)
}

// cancellingRepo cancels the run's context after the first successful write.
type cancellingRepo struct {
	repository.ObjectRepository
	cancel context.CancelFunc
}

func (r *cancellingRepo) Update(ctx context.Context, o *models.ObjectRecord) error {
	err := r.ObjectRepository.Update(ctx, o)
	r.cancel()
	return err
}

func TestAnalyzeStopsWritingWhenCancelled(t *testing.T) {
	f := newFixture(t)
	a := f.create(t, f.input("ARCHITECTURAL", "DOOR", 100, 100, ptr(0.95)), admin)
	b := f.create(t, f.input("ARCHITECTURAL", "DOOR", 104, 100, ptr(0.95)), admin)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc := NewConflictService(ConflictServiceConfig{
		Repo:      &cancellingRepo{ObjectRepository: f.repo, cancel: cancel},
		Publisher: f.events,
	})

	report, err := svc.AnalyzeConflicts(ctx, models.AnalysisRequest{
		PlanID: f.plan.ID, Types: []models.ConflictType{models.ConflictDuplicate},
	}, admin)
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Equal(t, 1, report.Written)

	assert.Equal(t, lifecycle.StatusConflicted, f.reload(t, a).Status, "written records stay written")
	assert.Empty(t, f.reload(t, b).Conflicts)
	assert.Len(t, f.events.OfType(events.TypeConflictsAnalyzed), 1)
}

// staleRepo fails every update as if another writer won the race.
type staleRepo struct {
	repository.ObjectRepository
}

func (staleRepo) Update(context.Context, *models.ObjectRecord) error {
	return apperrors.StaleWrite("test.update")
}

func TestAnalyzeSkipsStaleRecords(t *testing.T) {
	f := newFixture(t)
	a := f.create(t, f.input("ARCHITECTURAL", "DOOR", 100, 100, ptr(0.95)), admin)
	b := f.create(t, f.input("ARCHITECTURAL", "DOOR", 104, 100, ptr(0.95)), admin)

	svc := NewConflictService(ConflictServiceConfig{Repo: staleRepo{f.repo}})
	report, err := svc.AnalyzeConflicts(context.Background(), models.AnalysisRequest{PlanID: f.plan.ID}, admin)
	require.NoError(t, err)
	assert.Zero(t, report.Written)
	assert.ElementsMatch(t, []uuid.UUID{a.ID, b.ID}, report.Skipped)
}
