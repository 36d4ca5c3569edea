package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infra-object-service/internal/apperrors"
	"infra-object-service/internal/confidence"
	"infra-object-service/internal/events"
	"infra-object-service/internal/geometry"
	"infra-object-service/internal/lifecycle"
	"infra-object-service/internal/models"
	"infra-object-service/internal/repository"
)

func TestFireExtinguisherScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := f.input("FIRE_SAFETY", "FIRE_EXTINGUISHER", 100, 100, ptr(0.95))
	in.Criticality = "CRITICAL"
	o := f.create(t, in, technician)

	assert.Equal(t, lifecycle.StatusPendingReview, o.Status)
	assert.True(t, o.RequiresReview)
	assert.Equal(t, confidence.LevelVeryHigh, o.ConfidenceLevel)
	assert.Equal(t, []string{"fire_safety", "compliance"}, []string(o.RequiredValidations))

	o, out, err := f.objects.SubmitValidation(ctx, o.ID,
		models.ValidationSubmission{Type: "fire_safety", Status: models.ValidationPassed}, nil, admin)
	require.NoError(t, err)
	assert.False(t, out.Completed)
	assert.Equal(t, lifecycle.StatusUnderReview, o.Status)

	o, out, err = f.objects.SubmitValidation(ctx, o.ID,
		models.ValidationSubmission{Type: "compliance", Status: models.ValidationPassed}, nil, admin)
	require.NoError(t, err)
	assert.True(t, out.Completed)

	stored := f.reload(t, o)
	assert.Equal(t, lifecycle.StatusApproved, stored.Status)
	assert.True(t, stored.ManuallyValidated)
	assert.NotNil(t, stored.ValidatedAt)
	assert.Equal(t, "alice", stored.ValidatedBy)
	assert.False(t, stored.RequiresReview)
	assert.Len(t, stored.ValidationResults, 2)
	assert.Equal(t, int64(3), stored.Version)

	assert.Len(t, f.events.OfType(events.TypeCreated), 1)
	assert.Len(t, f.events.OfType(events.TypeStatusChanged), 2)
}

func TestCreateObjectRejectsInvalidInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		edit func(*models.CreateObjectInput)
		kind apperrors.Kind
	}{
		{name: "unknown type", edit: func(in *models.CreateObjectInput) { in.Type = "TOASTER" }, kind: apperrors.KindInvalidInput},
		{name: "zero width", edit: func(in *models.CreateObjectInput) { in.BoundingBox.Width = 0 }, kind: apperrors.KindInvalidInput},
		{name: "outside plan", edit: func(in *models.CreateObjectInput) { in.Center = &geometry.Point{X: 1200, Y: 10} }, kind: apperrors.KindInvalidInput},
		{name: "confidence out of range", edit: func(in *models.CreateObjectInput) { in.Confidence = ptr(1.5) }, kind: apperrors.KindInvalidInput},
		{name: "detection without confidence", edit: func(in *models.CreateObjectInput) { in.Confidence = nil }, kind: apperrors.KindInvalidInput},
		{name: "unknown criticality", edit: func(in *models.CreateObjectInput) { in.Criticality = "SEVERE" }, kind: apperrors.KindInvalidInput},
		{name: "unknown validation", edit: func(in *models.CreateObjectInput) { in.RequiredValidations = []string{"smell"} }, kind: apperrors.KindInvalidInput},
		{name: "missing plan", edit: func(in *models.CreateObjectInput) { in.PlanID = uuid.New() }, kind: apperrors.KindNotFound},
		{name: "bad point kind", edit: func(in *models.CreateObjectInput) {
			in.Points = []geometry.PathPoint{{X: 1, Y: 1, Kind: "spline"}}
		}, kind: apperrors.KindInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := f.input("ARCHITECTURAL", "DOOR", 50, 50, ptr(0.9))
			tt.edit(&in)
			_, err := f.objects.CreateObject(ctx, in, admin)
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperrors.KindOf(err))
		})
	}

	_, err := f.objects.CreateObject(ctx, f.input("ARCHITECTURAL", "DOOR", 50, 50, ptr(0.9)), viewer)
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden))

	count, err := f.repo.Count(ctx, repository.ObjectFilter{TenantID: tenant})
	require.NoError(t, err)
	assert.Zero(t, count, "rejected requests write nothing")
}

func TestCreateManualObjectUsesCatalogDefaults(t *testing.T) {
	f := newFixture(t)

	in := f.input("ARCHITECTURAL", "DOOR", 50, 50, nil)
	in.Source = ""
	in.Properties = map[string]any{"fire_rating": "EI30"}
	o := f.create(t, in, technician)

	assert.Equal(t, models.SourceManual, o.Source)
	assert.Nil(t, o.Confidence)
	assert.Equal(t, confidence.CriticalityMedium, o.Criticality)
	assert.False(t, o.RequiresReview, "effective confidence is 1.0")
	assert.Equal(t, lifecycle.StatusDetected, o.Status)
	assert.Equal(t, []string{"visual"}, []string(o.RequiredValidations))
	assert.Equal(t, geometry.Point{X: 50, Y: 50}, o.Center)

	stored := f.reload(t, o)
	assert.Equal(t, "EI30", stored.Properties["fire_rating"])
	require.Len(t, stored.ModificationHistory, 1)
	assert.Equal(t, models.ActionCreated, stored.ModificationHistory[0].Action)
	assert.Equal(t, "tom", stored.CreatedBy)
}

func TestCreateWithDetectionJob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	job := &models.DetectionJob{TenantID: tenant, PlanID: f.plan.ID, ModelName: "yolo", ModelVersion: "8"}
	require.NoError(t, f.plans.CreateDetectionJob(ctx, job))

	in := f.input("ELECTRICAL", "OUTLET", 10, 10, ptr(0.5))
	in.Source = ""
	in.DetectionJobID = &job.ID
	o := f.create(t, in, admin)
	assert.Equal(t, models.SourceAIDetection, o.Source)
	assert.Equal(t, job.ID, *o.DetectionJobID)

	other := &models.Plan{TenantID: tenant, Name: "First floor"}
	require.NoError(t, f.plans.CreatePlan(ctx, other))
	in.PlanID = other.ID
	_, err := f.objects.CreateObject(ctx, in, admin)
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidInput), "job belongs to another plan")
}

func TestMoveAndResize(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.create(t, f.input("ARCHITECTURAL", "WINDOW", 100, 100, ptr(0.95)), technician)
	require.Equal(t, lifecycle.StatusDetected, o.Status)

	moved, err := f.objects.MoveObject(ctx, o.ID, 200, 150, technician)
	require.NoError(t, err)
	assert.Equal(t, geometry.Point{X: 200, Y: 150}, moved.Center)
	assert.Equal(t, geometry.BoundingBox{X: 195, Y: 145, Width: 10, Height: 10}, moved.BoundingBox)
	assert.Equal(t, lifecycle.StatusModified, moved.Status)

	_, err = f.objects.MoveObject(ctx, o.ID, 2000, 150, technician)
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidInput))

	resized, err := f.objects.ResizeObject(ctx, o.ID, 20, 4, technician)
	require.NoError(t, err)
	assert.Equal(t, geometry.Point{X: 200, Y: 150}, resized.Center)
	assert.Equal(t, 20.0, resized.BoundingBox.Width)

	_, err = f.objects.ResizeObject(ctx, o.ID, -1, 4, technician)
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidInput))

	stranger := technician
	stranger.ID = "someone-else"
	_, err = f.objects.MoveObject(ctx, o.ID, 10, 10, stranger)
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden))

	stored := f.reload(t, o)
	actions := make([]models.ModificationAction, 0, len(stored.ModificationHistory))
	for _, m := range stored.ModificationHistory {
		actions = append(actions, m.Action)
	}
	assert.Equal(t, []models.ModificationAction{
		models.ActionCreated, models.ActionMoved, models.ActionStatusChanged, models.ActionResized,
	}, actions)
}

func TestMoveBackRestoresStoredGeometry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := f.input("ARCHITECTURAL", "WINDOW", 0, 0, ptr(0.95))
	in.BoundingBox = geometry.BoundingBox{X: 100.1, Y: 40.3, Width: 0.2, Height: 0.7}
	in.Points = []geometry.PathPoint{{X: 100.1, Y: 40.3, Kind: geometry.PointAnchor}}
	o := f.create(t, in, technician)
	start := o.Center

	for _, c := range []geometry.Point{{X: 0.7, Y: 0.9}, {X: 333.3, Y: 12.01}, start} {
		_, err := f.objects.MoveObject(ctx, o.ID, c.X, c.Y, technician)
		require.NoError(t, err)
	}
	back := f.reload(t, o)
	assert.Equal(t, in.BoundingBox, back.BoundingBox)
	assert.Equal(t, in.Points, []geometry.PathPoint(back.Points))
}

func TestTechnicianCannotEditCriticalObjects(t *testing.T) {
	f := newFixture(t)
	o := f.create(t, f.input("FIRE_SAFETY", "FIRE_ALARM", 100, 100, ptr(0.99)), technician)

	_, err := f.objects.MoveObject(context.Background(), o.ID, 120, 120, technician)
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden))
	assert.Equal(t, int64(1), f.reload(t, o).Version)
}

func TestUpdateObject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := f.input("ARCHITECTURAL", "DOOR", 100, 100, ptr(0.85))
	in.Properties = map[string]any{"material": "wood"}
	o := f.create(t, in, technician)
	require.False(t, o.RequiresReview)

	_, err := f.objects.UpdateObject(ctx, o.ID, models.ObjectPatch{Criticality: ptr("CRITICAL")}, technician)
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden), "only elevated roles change criticality")

	_, err = f.objects.UpdateObject(ctx, o.ID, models.ObjectPatch{}, admin)
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidInput))

	updated, err := f.objects.UpdateObject(ctx, o.ID, models.ObjectPatch{
		Criticality: ptr("high"),
		Properties:  map[string]any{"width_mm": 900.0},
		Subtype:     ptr("fire door"),
	}, admin)
	require.NoError(t, err)
	assert.Equal(t, confidence.CriticalityHigh, updated.Criticality)
	assert.True(t, updated.RequiresReview, "0.85 is below the HIGH threshold")
	assert.Equal(t, lifecycle.StatusModified, updated.Status)

	stored := f.reload(t, o)
	assert.Equal(t, "wood", stored.Properties["material"])
	assert.Equal(t, 900.0, stored.Properties["width_mm"])
	assert.Equal(t, "fire door", stored.Subtype)

	updated, err = f.objects.UpdateObject(ctx, o.ID, models.ObjectPatch{Confidence: ptr(0.95)}, admin)
	require.NoError(t, err)
	assert.False(t, updated.RequiresReview)
	assert.Equal(t, lifecycle.StatusModified, updated.Status)
}

func TestApproveRejectArchive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.create(t, f.input("ARCHITECTURAL", "WINDOW", 100, 100, ptr(0.95)), technician)

	_, err := f.objects.ApproveObject(ctx, o.ID, technician)
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden))

	approved, err := f.objects.ApproveObject(ctx, o.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusApproved, approved.Status)
	assert.True(t, approved.ManuallyValidated)

	_, err = f.objects.RejectObject(ctx, o.ID, "  ", admin)
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidInput), "reason is required")

	rejected, err := f.objects.RejectObject(ctx, o.ID, "wrong symbol", admin)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusRejected, rejected.Status)
	assert.False(t, rejected.ManuallyValidated)
	assert.Nil(t, rejected.ValidatedAt)
	last := rejected.ModificationHistory[len(rejected.ModificationHistory)-1]
	assert.Equal(t, "wrong symbol", last.Reason)

	archived, err := f.objects.ArchiveObject(ctx, o.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusArchived, archived.Status)

	_, err = f.objects.MoveObject(ctx, o.ID, 50, 50, admin)
	assert.True(t, apperrors.Is(err, apperrors.KindStateViolation))
	_, err = f.objects.ApproveObject(ctx, o.ID, admin)
	assert.True(t, apperrors.Is(err, apperrors.KindStateViolation))
}

func TestStartReview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.create(t, f.input("ARCHITECTURAL", "DOOR", 100, 100, ptr(0.5)), technician)
	require.Equal(t, lifecycle.StatusPendingReview, o.Status)

	reviewed, err := f.objects.StartReview(ctx, o.ID, technician)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusUnderReview, reviewed.Status)

	_, err = f.objects.StartReview(ctx, o.ID, technician)
	assert.True(t, apperrors.Is(err, apperrors.KindStateViolation))
}

func TestSetRequiredValidationsKeepsStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.create(t, f.input("ARCHITECTURAL", "DOOR", 100, 100, ptr(0.95)), technician)

	_, err := f.objects.SetRequiredValidations(ctx, o.ID, []string{"structural"}, technician)
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden))

	updated, err := f.objects.SetRequiredValidations(ctx, o.ID, []string{"structural", "visual", "structural"}, admin)
	require.NoError(t, err)
	assert.Equal(t, []string{"structural", "visual"}, []string(updated.RequiredValidations))
	assert.Equal(t, lifecycle.StatusDetected, updated.Status)

	updated, err = f.objects.SetRequiredValidations(ctx, o.ID, nil, admin)
	require.NoError(t, err)
	assert.Empty(t, updated.RequiredValidations)
	assert.Equal(t, lifecycle.StatusDetected, updated.Status, "an emptied requirement set never approves")
}

func TestSubmitValidationStoresAttachments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.create(t, f.input("ARCHITECTURAL", "DOOR", 100, 100, ptr(0.95)), technician)

	uploads := []AttachmentUpload{{
		Filename:    "../photo.jpg",
		ContentType: "image/jpeg",
		Size:        5,
		Reader:      strings.NewReader("jpeg!"),
	}}
	updated, out, err := f.objects.SubmitValidation(ctx, o.ID,
		models.ValidationSubmission{Type: "visual", Status: models.ValidationPassed, Notes: "looks right"}, uploads, technician)
	require.NoError(t, err)
	assert.True(t, out.Completed)
	assert.Equal(t, lifecycle.StatusApproved, updated.Status)

	result, ok := updated.ValidationResultFor("visual")
	require.True(t, ok)
	require.Len(t, result.Attachments, 1)
	assert.True(t, strings.HasPrefix(result.Attachments[0], "validations/"+o.ID.String()+"/visual/"))
	assert.True(t, strings.HasSuffix(result.Attachments[0], "-photo.jpg"))
	assert.Equal(t, []string{result.Attachments[0]}, f.store.Keys())

	attachments, err := f.objects.ListAttachments(ctx, o.ID, technician)
	require.NoError(t, err)
	require.Len(t, attachments, 1)
	assert.Equal(t, int64(5), attachments[0].Size)
	assert.Equal(t, "tom", attachments[0].UploadedBy)

	meta, rc, err := f.objects.OpenAttachment(ctx, o.ID, attachments[0].ID, viewer)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "jpeg!", string(data))
	assert.Equal(t, "image/jpeg", meta.ContentType)

	_, _, err = f.objects.OpenAttachment(ctx, o.ID, uuid.New(), viewer)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestRejectedSubmissionStoresNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.create(t, f.input("ARCHITECTURAL", "DOOR", 100, 100, ptr(0.95)), technician)

	upload := []AttachmentUpload{{Filename: "a.pdf", Reader: strings.NewReader("pdf"), Size: 3}}

	_, _, err := f.objects.SubmitValidation(ctx, o.ID,
		models.ValidationSubmission{Type: "smell", Status: models.ValidationPassed}, upload, technician)
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidInput))

	upload = []AttachmentUpload{{Filename: "a.pdf", Reader: strings.NewReader("pdf"), Size: 3}}
	_, _, err = f.objects.SubmitValidation(ctx, o.ID,
		models.ValidationSubmission{Type: "visual", Status: "great"}, upload, technician)
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidInput))

	assert.Empty(t, f.store.Keys(), "uploads of rejected submissions are removed")
	assert.Equal(t, int64(1), f.reload(t, o).Version)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestAttachmentFailureAbortsSubmission(t *testing.T) {
	f := newFixture(t)
	o := f.create(t, f.input("ARCHITECTURAL", "DOOR", 100, 100, ptr(0.95)), technician)

	_, _, err := f.objects.SubmitValidation(context.Background(), o.ID,
		models.ValidationSubmission{Type: "visual", Status: models.ValidationPassed},
		[]AttachmentUpload{{Filename: "x.jpg", Reader: failingReader{}}}, technician)
	assert.True(t, apperrors.Is(err, apperrors.KindInternal))
	assert.Empty(t, f.reload(t, o).ValidationResults)
}

func TestAnnotations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.create(t, f.input("ARCHITECTURAL", "DOOR", 100, 100, ptr(0.95)), admin)

	id, updated, err := f.objects.AddAnnotation(ctx, o.ID, AnnotationInput{
		Type:     models.AnnotationIssue,
		Text:     "hinge side unclear",
		Position: &geometry.Point{X: 101, Y: 99},
		Priority: "high",
	}, technician)
	require.NoError(t, err)
	require.Len(t, updated.Annotations, 1)

	_, _, err = f.objects.AddAnnotation(ctx, o.ID, AnnotationInput{Type: models.AnnotationNote, Text: "x"}, viewer)
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden))

	resolved, err := f.objects.ResolveAnnotation(ctx, o.ID, id, admin)
	require.NoError(t, err)
	assert.True(t, resolved.Annotations[0].Resolved)
	assert.Equal(t, "alice", resolved.Annotations[0].ResolvedBy)

	_, err = f.objects.ResolveAnnotation(ctx, o.ID, "missing", admin)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestDeactivateObject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.create(t, f.input("ARCHITECTURAL", "DOOR", 100, 100, ptr(0.95)), technician)

	_, err := f.objects.DeactivateObject(ctx, o.ID, "dup", viewer)
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden))

	gone, err := f.objects.DeactivateObject(ctx, o.ID, "drawn twice", technician)
	require.NoError(t, err)
	assert.False(t, gone.IsActive)

	_, err = f.objects.DeactivateObject(ctx, o.ID, "again", admin)
	assert.True(t, apperrors.Is(err, apperrors.KindStateViolation))
	_, err = f.objects.MoveObject(ctx, o.ID, 10, 10, admin)
	assert.True(t, apperrors.Is(err, apperrors.KindStateViolation))

	active := true
	objects, total, err := f.objects.ListObjects(ctx, repository.ObjectFilter{Active: &active}, admin)
	require.NoError(t, err)
	assert.Empty(t, objects)
	assert.Zero(t, total)

	stored := f.reload(t, o)
	assert.False(t, stored.IsActive, "records are kept after deactivation")
	assert.Len(t, f.events.OfType(events.TypeDeactivated), 1)
}

func TestTenantIsolation(t *testing.T) {
	f := newFixture(t)
	o := f.create(t, f.input("ARCHITECTURAL", "DOOR", 100, 100, ptr(0.95)), admin)

	outsider := admin
	outsider.TenantID = "tenant-b"
	_, err := f.objects.GetObject(context.Background(), o.ID, outsider)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
	_, err = f.objects.CreateObject(context.Background(), f.input("ARCHITECTURAL", "DOOR", 10, 10, ptr(0.9)), outsider)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound), "plans are tenant scoped too")
}

func TestPublishFailureDoesNotFailOperation(t *testing.T) {
	f := newFixture(t)
	f.events.Err = errors.New("nats down")

	o, err := f.objects.CreateObject(context.Background(), f.input("ARCHITECTURAL", "DOOR", 100, 100, ptr(0.95)), admin)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusDetected, f.reload(t, o).Status)
}

func TestQualityAndStatistics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	door := f.create(t, f.input("ARCHITECTURAL", "DOOR", 100, 100, ptr(0.9)), admin)
	_, _, err := f.objects.SubmitValidation(ctx, door.ID,
		models.ValidationSubmission{Type: "visual", Status: models.ValidationPassed, Score: ptr(80.0)}, nil, admin)
	require.NoError(t, err)
	f.create(t, f.input("ELECTRICAL", "OUTLET", 300, 300, ptr(0.5)), admin)

	score, err := f.objects.ComputeQualityScore(ctx, door.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, 85, score)

	stats, err := f.objects.ComputeStatistics(ctx, &f.plan.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.ByCategory["ELECTRICAL"])
	assert.Equal(t, 1, stats.ByStatus[string(lifecycle.StatusApproved)])
	assert.Equal(t, 1, stats.RequiresReview)
	assert.InDelta(t, 0.7, stats.ConfidenceMean, 1e-9)
}

func TestFindNearby(t *testing.T) {
	f := newFixture(t)
	near := f.create(t, f.input("ARCHITECTURAL", "DOOR", 100, 100, ptr(0.9)), admin)
	f.create(t, f.input("ARCHITECTURAL", "DOOR", 400, 400, ptr(0.9)), admin)

	found, err := f.objects.FindNearby(context.Background(), f.plan.ID, geometry.Point{X: 103, Y: 104}, 5, admin)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, near.ID, found[0].ID)

	_, err = f.objects.FindNearby(context.Background(), f.plan.ID, geometry.Point{}, -1, admin)
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidInput))
}
