package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/minio/minio-go/v7"
	"gorm.io/gorm"

	"infra-object-service/internal/catalog"
	"infra-object-service/internal/config"
	"infra-object-service/internal/conflicts"
	"infra-object-service/internal/events"
	"infra-object-service/internal/lifecycle"
	"infra-object-service/internal/logging"
	"infra-object-service/internal/repository"
	"infra-object-service/internal/services"
	"infra-object-service/internal/storage"
	"infra-object-service/internal/utils"
)

func main() {
	if err := RootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds the wired services shared by every command.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	db        *gorm.DB
	plans     *services.PlanService
	objects   *services.ObjectService
	conflicts *services.ConflictService
	imports   *services.ImportService
	closers   []io.Closer
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
}

func InitConfig() *config.Config {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	return cfg
}

func InitLogger(cfg *config.Config) (*slog.Logger, io.Closer) {
	logger, closer, err := logging.New(cfg.LogOptions())
	if err != nil {
		log.Fatalf("Logger initialization failed: %v", err)
	}
	slog.SetDefault(logger)
	return logger, closer
}

func ConnectDatabase(cfg *config.Config, logger *slog.Logger) *gorm.DB {
	db, err := config.ConnectDatabase(cfg, logger)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	return db
}

func MigrateDatabase(db *gorm.DB) {
	if err := repository.Migrate(db); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}
}

func InitMinIOClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) *minio.Client {
	minioClient, err := storage.NewMinioClient(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("MinIO client initialization failed: %v", err)
	}
	return minioClient
}

func LoadCatalog(cfg *config.Config) *catalog.Catalog {
	if cfg.CatalogPath == "" {
		return catalog.Default()
	}
	c, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("Catalog load failed: %v", err)
	}
	return c
}

// setup wires configuration, storage and services. Attachments go to MinIO,
// behind a read cache, when it is configured and to memory otherwise. Events
// go to NATS when a URL is set.
func setup(ctx context.Context) *app {
	cfg := InitConfig()
	logger, logCloser := InitLogger(cfg)
	a := &app{cfg: cfg, logger: logger, closers: []io.Closer{logCloser}}

	a.db = ConnectDatabase(cfg, logger)
	MigrateDatabase(a.db)

	appMetrics := utils.NewMetrics(nil)

	var attachments services.AttachmentStore
	if cfg.MinioEnabled() {
		attachments = storage.NewMinioStore(InitMinIOClient(ctx, cfg, logger), cfg.MinioBucket, logger)
		if cfg.AttachmentCacheBytes > 0 {
			attachments = storage.NewCachedStore(attachments, cfg.AttachmentCacheBytes, cfg.AttachmentCacheTTL, appMetrics, logger)
		}
	} else {
		logger.Warn("MINIO_ENDPOINT not set, keeping attachments in memory")
		attachments = storage.NewMemoryStore()
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.NATSURL != "" {
		nats, err := events.Connect(cfg.NATSURL, logger)
		if err != nil {
			log.Fatalf("NATS connection failed: %v", err)
		}
		a.closers = append(a.closers, nats)
		publisher = nats
	}

	machine := lifecycle.NewMachine(cfg.LifecycleStrict, logger)
	objectRepo := repository.NewObjectRepository(a.db)

	a.plans = services.NewPlanService(
		repository.NewPlanRepository(a.db),
		repository.NewDetectionJobRepository(a.db),
		cfg.PlanCacheTTL, logger)
	a.objects = services.NewObjectService(services.ObjectServiceConfig{
		Repo:            objectRepo,
		Plans:           a.plans,
		Jobs:            a.plans,
		Catalog:         LoadCatalog(cfg),
		Machine:         machine,
		Attachments:     attachments,
		AttachmentIndex: repository.NewAttachmentRepository(a.db),
		Publisher:       publisher,
		Metrics:         appMetrics,
		Logger:          logger,
	})
	a.conflicts = services.NewConflictService(services.ConflictServiceConfig{
		Repo:      objectRepo,
		Machine:   machine,
		Publisher: publisher,
		Metrics:   appMetrics,
		Logger:    logger,
		Defaults: conflicts.Options{
			DuplicateTolerance: cfg.DuplicateTolerance,
			OverlapTolerance:   cfg.OverlapTolerance,
		},
	})
	a.imports = services.NewImportService(a.objects, logger)
	return a
}
