package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"infra-object-service/internal/apperrors"
	"infra-object-service/internal/extraction"
	"infra-object-service/internal/metrics"
	"infra-object-service/internal/models"
	"infra-object-service/internal/permissions"
)

// ImportOptions fill fields the imported documents leave empty.
type ImportOptions struct {
	PlanID         uuid.UUID
	DetectionJobID *uuid.UUID
}

// ImportService creates objects in bulk from archives of JSON documents.
// Each document is a JSON array of object inputs.
type ImportService struct {
	objects *ObjectService
	logger  *slog.Logger
}

func NewImportService(objects *ObjectService, logger *slog.Logger) *ImportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImportService{objects: objects, logger: logger.With("module", "import")}
}

// ImportArchive extracts the archive and imports every JSON document in it.
func (s *ImportService) ImportArchive(ctx context.Context, archivePath string, opts ImportOptions, actor permissions.Actor) (*metrics.ImportMetrics, error) {
	files, dir, err := extraction.ExtractArchive(ctx, archivePath)
	if err != nil {
		return nil, apperrors.InvalidInput("import.archive", "could not read archive: %v", err)
	}
	defer os.RemoveAll(dir)

	if len(files) == 0 {
		return nil, apperrors.InvalidInput("import.archive", "archive contains no JSON documents")
	}
	return s.importFiles(ctx, files, dir, opts, actor)
}

// ImportFiles imports the given JSON documents.
func (s *ImportService) ImportFiles(ctx context.Context, files []string, opts ImportOptions, actor permissions.Actor) (*metrics.ImportMetrics, error) {
	return s.importFiles(ctx, files, "", opts, actor)
}

func (s *ImportService) importFiles(ctx context.Context, files []string, root string, opts ImportOptions, actor permissions.Actor) (*metrics.ImportMetrics, error) {
	if err := permissions.Require(s.objects.oracle, permissions.ActionCreate, actor, nil); err != nil {
		return nil, err
	}

	im := metrics.NewImportMetrics()
	defer func() {
		im.Finalize()
		s.objects.metrics.ImportedObjects("created", im.CreatedCount)
		s.objects.metrics.ImportedObjects("failed", im.ErrorCount)
		s.logger.Info("import finished",
			"files", im.FileCount,
			"created", im.CreatedCount,
			"failed", im.ErrorCount,
			"duration_ms", im.TotalLatencyMs)
	}()

	for _, path := range files {
		name := filepath.Base(path)
		if root != "" {
			if rel, err := filepath.Rel(root, path); err == nil {
				name = filepath.ToSlash(rel)
			}
		}
		if err := s.importFile(ctx, path, im.File(name), opts, actor); err != nil {
			return im, err
		}
	}
	return im, nil
}

// importFile returns an error only when ctx is done; per-object failures
// are counted on fm.
func (s *ImportService) importFile(ctx context.Context, path string, fm *metrics.ImportFileMetrics, opts ImportOptions, actor permissions.Actor) error {
	started := time.Now()
	defer func() {
		fm.LatencyMs = float64(time.Since(started).Microseconds()) / 1000.0
	}()

	data, err := os.ReadFile(path)
	if err != nil {
		fm.FailedCount++
		fm.Errors = append(fm.Errors, errors.Wrap(err, "read").Error())
		return nil
	}
	var inputs []models.CreateObjectInput
	if err := json.Unmarshal(data, &inputs); err != nil {
		fm.FailedCount++
		fm.Errors = append(fm.Errors, errors.Wrap(err, "decode").Error())
		return nil
	}

	for i, in := range inputs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if in.PlanID == uuid.Nil {
			in.PlanID = opts.PlanID
		}
		if in.DetectionJobID == nil {
			in.DetectionJobID = opts.DetectionJobID
		}
		if in.Source == "" {
			in.Source = models.SourceImported
			if in.DetectionJobID != nil {
				in.Source = models.SourceAIDetection
			}
		}

		if _, err := s.objects.CreateObject(ctx, in, actor); err != nil {
			fm.FailedCount++
			fm.Errors = append(fm.Errors, fmt.Sprintf("#%d: %v", i, err))
			s.logger.Debug("import entry rejected", "file", fm.FileName, "index", i, "error", err)
			continue
		}
		fm.CreatedCount++
	}
	return nil
}
