package services

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infra-object-service/internal/apperrors"
	"infra-object-service/internal/models"
	"infra-object-service/internal/repository"
)

const floorDoc = `[
  {"category": "ARCHITECTURAL", "type": "DOOR", "bounding_box": {"x": 10, "y": 10, "width": 5, "height": 8}},
  {"category": "ARCHITECTURAL", "type": "WINDOW", "bounding_box": {"x": 40, "y": 10, "width": 6, "height": 2}},
  {"category": "ARCHITECTURAL", "type": "SPACESHIP", "bounding_box": {"x": 90, "y": 10, "width": 6, "height": 2}},
  {"category": "ARCHITECTURAL", "type": "DOOR", "bounding_box": {"x": 5000, "y": 10, "width": 5, "height": 8}}
]`

func writeDoc(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestImportFilesCountsPerEntry(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()
	good := writeDoc(t, dir, "floor.json", floorDoc)
	broken := writeDoc(t, dir, "broken.json", `{"not": "an array"`)

	im, err := f.imports.ImportFiles(context.Background(), []string{good, broken},
		ImportOptions{PlanID: f.plan.ID}, admin)
	require.NoError(t, err)

	assert.Equal(t, 2, im.FileCount)
	assert.Equal(t, 2, im.CreatedCount)
	assert.Equal(t, 3, im.ErrorCount)

	floor := im.Files["floor.json"]
	require.NotNil(t, floor)
	assert.Equal(t, 2, floor.CreatedCount)
	assert.Equal(t, 2, floor.FailedCount)
	require.Len(t, floor.Errors, 2)
	assert.Contains(t, floor.Errors[0], "#2:")
	assert.Contains(t, floor.Errors[1], "#3:")
	assert.Equal(t, 1, im.Files["broken.json"].FailedCount)

	objects, total, err := f.objects.ListObjects(context.Background(), repository.ObjectFilter{}, admin)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	for _, o := range objects {
		assert.Equal(t, models.SourceImported, o.Source)
		assert.Equal(t, f.plan.ID, o.PlanID)
	}
	assert.NotEmpty(t, im.GetSummary())
}

func TestImportArchive(t *testing.T) {
	f := newFixture(t)
	archive := filepath.Join(t.TempDir(), "survey.zip")
	out, err := os.Create(archive)
	require.NoError(t, err)
	zw := zip.NewWriter(out)
	for name, body := range map[string]string{
		"level-0/floor.json": floorDoc,
		"README.txt":         "not imported",
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, out.Close())

	im, err := f.imports.ImportArchive(context.Background(), archive, ImportOptions{PlanID: f.plan.ID}, admin)
	require.NoError(t, err)
	assert.Equal(t, 1, im.FileCount)
	assert.Equal(t, 2, im.CreatedCount)
	assert.Contains(t, im.Files, "level-0/floor.json")
}

func TestImportRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.imports.ImportArchive(ctx, filepath.Join(t.TempDir(), "missing.zip"), ImportOptions{PlanID: f.plan.ID}, admin)
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidInput))

	doc := writeDoc(t, t.TempDir(), "floor.json", floorDoc)
	_, err = f.imports.ImportFiles(ctx, []string{doc}, ImportOptions{PlanID: f.plan.ID}, viewer)
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden))
}

func TestImportStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	doc := writeDoc(t, t.TempDir(), "floor.json", floorDoc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	im, err := f.imports.ImportFiles(ctx, []string{doc}, ImportOptions{PlanID: f.plan.ID}, admin)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, im.CreatedCount)
}
