package models

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infra-object-service/internal/apperrors"
	"infra-object-service/internal/confidence"
	"infra-object-service/internal/geometry"
	"infra-object-service/internal/lifecycle"
)

func newRecord() *ObjectRecord {
	box := geometry.BoundingBox{X: 10, Y: 20, Width: 4, Height: 6}
	return &ObjectRecord{
		Category:    "FIRE_SAFETY",
		Type:        "FIRE_EXTINGUISHER",
		BoundingBox: box,
		Center:      box.Center(),
		Points: []geometry.PathPoint{
			{X: 10, Y: 20, Kind: geometry.PointAnchor},
			{X: 14, Y: 26, Kind: geometry.PointControl},
		},
		Status:      lifecycle.StatusDetected,
		Criticality: confidence.CriticalityMedium,
		IsActive:    true,
	}
}

func TestMoveToRoundTrip(t *testing.T) {
	o := newRecord()
	original := *o
	originalPoints := append([]geometry.PathPoint(nil), o.Points...)

	o.MoveTo(100, 200, "alice")
	assert.Equal(t, geometry.Point{X: 100, Y: 200}, o.Center)
	assert.Equal(t, geometry.BoundingBox{X: 98, Y: 197, Width: 4, Height: 6}, o.BoundingBox)
	assert.Equal(t, geometry.PathPoint{X: 98, Y: 197, Kind: geometry.PointAnchor}, o.Points[0])

	o.MoveTo(original.Center.X, original.Center.Y, "alice")
	assert.Equal(t, original.BoundingBox, o.BoundingBox)
	assert.Equal(t, original.Center, o.Center)
	assert.Equal(t, originalPoints, []geometry.PathPoint(o.Points))

	require.Len(t, o.ModificationHistory, 2)
	m := o.ModificationHistory[0]
	assert.Equal(t, ActionMoved, m.Action)
	assert.Equal(t, "alice", m.Actor)
	assert.Equal(t, original.Center, m.Before["center"])
	assert.Equal(t, geometry.Point{X: 100, Y: 200}, m.After["center"])
}

func TestMoveToRoundTripFractional(t *testing.T) {
	box := geometry.BoundingBox{X: 0.1, Y: 0.3, Width: 0.2, Height: 0.1}
	o := &ObjectRecord{
		BoundingBox: box,
		Center:      box.Center(),
		Points: []geometry.PathPoint{
			{X: 0.1, Y: 0.3, Kind: geometry.PointAnchor},
			{X: 0.3, Y: 0.4, Kind: geometry.PointReference},
		},
		IsActive: true,
	}
	require.NoError(t, o.BeforeCreate(nil))
	start := o.Center
	originalPoints := append([]geometry.PathPoint(nil), o.Points...)

	for _, c := range []geometry.Point{{X: 0.7, Y: 1.1}, {X: 3.3, Y: 0.01}, start} {
		o.MoveTo(c.X, c.Y, "alice")
	}
	assert.Equal(t, box, o.BoundingBox)
	assert.Equal(t, start, o.Center)
	assert.Equal(t, originalPoints, []geometry.PathPoint(o.Points))

	o.MoveTo(0.7, 1.1, "alice")
	first := o.BoundingBox
	o.MoveTo(0.2, 0.2, "alice")
	o.MoveTo(0.7, 1.1, "alice")
	assert.Equal(t, first, o.BoundingBox, "a position depends only on its center")
}

func TestResizeRepinsPlacement(t *testing.T) {
	o := newRecord()
	require.NoError(t, o.BeforeCreate(nil))
	require.NoError(t, o.Resize(0.3, 0.7, "bob"))
	resized, center := o.BoundingBox, o.Center

	o.MoveTo(50.5, 60.25, "bob")
	o.MoveTo(center.X, center.Y, "bob")
	assert.Equal(t, resized, o.BoundingBox)
}

func TestResizeKeepsCenter(t *testing.T) {
	o := newRecord()
	center := o.Center

	require.NoError(t, o.Resize(8, 2, "bob"))
	assert.Equal(t, center, o.Center)
	assert.Equal(t, 8.0, o.BoundingBox.Width)
	assert.Equal(t, 2.0, o.BoundingBox.Height)
	assert.Equal(t, 10.0, o.BoundingBox.X)
	assert.Nil(t, o.Area, "area is only recomputed when present")
	assert.Equal(t, ActionResized, o.ModificationHistory[0].Action)
}

func TestResizeRecomputesPresentMeasures(t *testing.T) {
	o := newRecord()
	area, perimeter := 24.0, 20.0
	o.Area, o.Perimeter = &area, &perimeter

	require.NoError(t, o.Resize(5, 5, "bob"))
	assert.Equal(t, 25.0, *o.Area)
	assert.Equal(t, 20.0, *o.Perimeter)
}

func TestResizeRejectsNonPositive(t *testing.T) {
	o := newRecord()
	err := o.Resize(0, 5, "bob")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidInput))
	assert.Empty(t, o.ModificationHistory)
	assert.Equal(t, 4.0, o.BoundingBox.Width)
}

func TestHistoryIsCappedFIFO(t *testing.T) {
	o := newRecord()
	for i := 0; i < MaxHistory+5; i++ {
		o.AddModification(Modification{Action: ActionPropertiesChanged, Actor: fmt.Sprintf("u%d", i)})
	}
	require.Len(t, o.ModificationHistory, MaxHistory)
	assert.Equal(t, "u5", o.ModificationHistory[0].Actor)
	assert.Equal(t, fmt.Sprintf("u%d", MaxHistory+4), o.ModificationHistory[MaxHistory-1].Actor)
	assert.False(t, o.ModificationHistory[0].Timestamp.IsZero())
}

func TestRefreshTriage(t *testing.T) {
	o := newRecord()
	c := 0.75
	o.Confidence = &c
	o.RefreshTriage()
	assert.True(t, o.RequiresReview)
	assert.Equal(t, confidence.LevelHigh, o.ConfidenceLevel)

	o.Criticality = confidence.CriticalityLow
	o.RefreshTriage()
	assert.False(t, o.RequiresReview)

	o.Confidence = nil
	o.Criticality = confidence.CriticalityHigh
	o.RefreshTriage()
	assert.False(t, o.RequiresReview)
	assert.Equal(t, confidence.LevelVeryHigh, o.ConfidenceLevel)
}

func TestAddConflictSkipsIdenticalOpenConflict(t *testing.T) {
	o := newRecord()
	assert.True(t, o.AddConflict(Conflict{ID: "c1", Type: ConflictDuplicate, ObjectIDs: []string{"a", "b"}}))
	assert.False(t, o.AddConflict(Conflict{ID: "c2", Type: ConflictDuplicate, ObjectIDs: []string{"b", "a"}}))
	assert.True(t, o.AddConflict(Conflict{ID: "c3", Type: ConflictOverlap, ObjectIDs: []string{"a", "b"}}))
	assert.Len(t, o.Conflicts, 2)

	_, err := o.ResolveConflict("c1", "carol", "kept both")
	require.NoError(t, err)
	assert.True(t, o.AddConflict(Conflict{ID: "c4", Type: ConflictDuplicate, ObjectIDs: []string{"a", "b"}}),
		"a resolved conflict does not block a new finding")
}

func TestResolveConflict(t *testing.T) {
	o := newRecord()
	o.AddConflict(Conflict{ID: "c1", Type: ConflictDuplicate, ObjectIDs: []string{"x"}})
	o.AddConflict(Conflict{ID: "c2", Type: ConflictOverlap, ObjectIDs: []string{"y"}})

	remaining, err := o.ResolveConflict("c1", "carol", "false positive")
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)
	assert.Equal(t, "carol", o.Conflicts[0].ResolvedBy)
	assert.True(t, o.HasUnresolvedConflicts())

	_, err = o.ResolveConflict("c1", "carol", "again")
	assert.True(t, apperrors.Is(err, apperrors.KindStateViolation))

	_, err = o.ResolveConflict("missing", "carol", "")
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))

	remaining, err = o.ResolveConflict("c2", "carol", "moved")
	require.NoError(t, err)
	assert.Zero(t, remaining)
	assert.False(t, o.HasUnresolvedConflicts())
}

func TestAnnotations(t *testing.T) {
	o := newRecord()
	pos := &geometry.Point{X: 1, Y: 2}

	id, err := o.AddAnnotation(AnnotationIssue, "label missing", "dave", pos, "high")
	require.NoError(t, err)
	require.Len(t, o.Annotations, 1)
	assert.Equal(t, pos, o.Annotations[0].Position)

	_, err = o.AddAnnotation(AnnotationType("shout"), "x", "dave", nil, "")
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidInput))
	_, err = o.AddAnnotation(AnnotationNote, "  ", "dave", nil, "")
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidInput))

	require.NoError(t, o.ResolveAnnotation(id, "erin"))
	assert.True(t, o.Annotations[0].Resolved)
	assert.Equal(t, "erin", o.Annotations[0].ResolvedBy)
	assert.Error(t, o.ResolveAnnotation(id, "erin"))
	assert.True(t, apperrors.Is(o.ResolveAnnotation("nope", "erin"), apperrors.KindNotFound))
}

func TestDeactivate(t *testing.T) {
	o := newRecord()
	require.NoError(t, o.Deactivate("system", "auto-removed by duplication", true))
	assert.False(t, o.IsActive)
	assert.NotNil(t, o.DeactivatedAt)

	last := o.ModificationHistory[len(o.ModificationHistory)-1]
	assert.Equal(t, ActionDeleted, last.Action)
	assert.True(t, last.Automatic)
	assert.Equal(t, "auto-removed by duplication", last.Reason)

	assert.True(t, apperrors.Is(o.Deactivate("system", "", false), apperrors.KindStateViolation))
}

func TestSetStatusRecordsChange(t *testing.T) {
	o := newRecord()
	o.SetStatus(lifecycle.StatusConflicted, "system", "duplicate", true)
	o.SetStatus(lifecycle.StatusConflicted, "system", "duplicate", true)

	require.Len(t, o.ModificationHistory, 1)
	m := o.ModificationHistory[0]
	assert.Equal(t, ActionStatusChanged, m.Action)
	assert.Equal(t, "DETECTED", m.Before["status"])
	assert.Equal(t, "CONFLICTED", m.After["status"])
}

func TestValidationResultsUniquePerType(t *testing.T) {
	o := newRecord()
	o.PutValidationResult(ValidationResult{Type: "fire_safety", Status: ValidationFailed})
	o.PutValidationResult(ValidationResult{Type: "compliance", Status: ValidationPassed})
	o.PutValidationResult(ValidationResult{Type: "fire_safety", Status: ValidationPassed})

	require.Len(t, o.ValidationResults, 2)
	r, ok := o.ValidationResultFor("fire_safety")
	require.True(t, ok)
	assert.Equal(t, ValidationPassed, r.Status)
}
