package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"infra-object-service/internal/events"
	"infra-object-service/internal/geometry"
	"infra-object-service/internal/lifecycle"
	"infra-object-service/internal/logging"
	"infra-object-service/internal/models"
	"infra-object-service/internal/permissions"
	"infra-object-service/internal/repository"
	"infra-object-service/internal/repository/repotest"
	"infra-object-service/internal/storage"
)

const tenant = "tenant-a"

var (
	admin      = permissions.Actor{ID: "alice", Role: permissions.RoleAdmin, TenantID: tenant}
	technician = permissions.Actor{ID: "tom", Role: permissions.RoleTechnician, TenantID: tenant}
	viewer     = permissions.Actor{ID: "vic", Role: permissions.RoleViewer, TenantID: tenant}
)

type fixture struct {
	repo      *repository.ObjectRepositoryImpl
	plans     *PlanService
	objects   *ObjectService
	conflicts *ConflictService
	imports   *ImportService
	events    *events.Recorder
	store     *storage.MemoryStore
	plan      *models.Plan
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := repotest.OpenDB(t)
	logger := logging.Discard()

	repo := repository.NewObjectRepository(db)
	plans := NewPlanService(repository.NewPlanRepository(db), repository.NewDetectionJobRepository(db), time.Minute, logger)
	recorder := &events.Recorder{}
	store := storage.NewMemoryStore()
	machine := lifecycle.NewMachine(true, logger)

	objects := NewObjectService(ObjectServiceConfig{
		Repo:            repo,
		Plans:           plans,
		Jobs:            plans,
		Machine:         machine,
		Attachments:     store,
		AttachmentIndex: repository.NewAttachmentRepository(db),
		Publisher:       recorder,
		Logger:          logger,
	})
	conflictService := NewConflictService(ConflictServiceConfig{
		Repo:      repo,
		Machine:   machine,
		Publisher: recorder,
		Logger:    logger,
	})

	width, height := 1000.0, 800.0
	plan := &models.Plan{TenantID: tenant, Name: "Ground floor", Width: &width, Height: &height}
	require.NoError(t, plans.CreatePlan(context.Background(), plan))

	return &fixture{
		repo:      repo,
		plans:     plans,
		objects:   objects,
		conflicts: conflictService,
		imports:   NewImportService(objects, logger),
		events:    recorder,
		store:     store,
		plan:      plan,
	}
}

func ptr[T any](v T) *T { return &v }

// input returns a create request for a box of size 10x10 centred on (x, y).
func (f *fixture) input(category, typ string, x, y float64, conf *float64) models.CreateObjectInput {
	return models.CreateObjectInput{
		PlanID:      f.plan.ID,
		Category:    category,
		Type:        typ,
		BoundingBox: geometry.BoundingBox{X: x - 5, Y: y - 5, Width: 10, Height: 10},
		Source:      models.SourceAIDetection,
		Confidence:  conf,
	}
}

func (f *fixture) create(t *testing.T, in models.CreateObjectInput, actor permissions.Actor) *models.ObjectRecord {
	t.Helper()
	o, err := f.objects.CreateObject(context.Background(), in, actor)
	require.NoError(t, err)
	return o
}

func (f *fixture) reload(t *testing.T, o *models.ObjectRecord) *models.ObjectRecord {
	t.Helper()
	fresh, err := f.objects.GetObject(context.Background(), o.ID, admin)
	require.NoError(t, err)
	return fresh
}
