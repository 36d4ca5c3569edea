package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"infra-object-service/internal/logging"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all configuration values from the environment.
type Config struct {
	AppPort string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	SQLitePath string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioSSL       bool

	// Attachment read cache; zero bytes disables it
	AttachmentCacheBytes int64
	AttachmentCacheTTL   time.Duration

	NATSURL     string
	CatalogPath string

	// Conflict analysis defaults, in plan units
	DuplicateTolerance float64
	OverlapTolerance   float64

	LifecycleStrict bool
	PlanCacheTTL    time.Duration

	LogLevel  string
	LogFormat string
	LogFile   string
}

// MinioEnabled reports whether attachment storage is configured.
func (c *Config) MinioEnabled() bool {
	return c.MinioEndpoint != ""
}

// LogOptions returns the logger options of c.
func (c *Config) LogOptions() logging.Options {
	return logging.Options{Level: c.LogLevel, Format: c.LogFormat, File: c.LogFile}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("STORAGE_PORT", "8080")
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("SQLITE_PATH", "infra-objects.db")
	v.SetDefault("MINIO_BUCKET", "infra-attachments")
	v.SetDefault("MINIO_SSL", false)
	v.SetDefault("ATTACHMENT_CACHE_BYTES", 64*1024*1024)
	v.SetDefault("ATTACHMENT_CACHE_TTL", "10m")
	v.SetDefault("DUPLICATE_TOLERANCE", 10.0)
	v.SetDefault("OVERLAP_TOLERANCE", 5.0)
	v.SetDefault("LIFECYCLE_STRICT", true)
	v.SetDefault("PLAN_CACHE_TTL", "5m")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
}

// LoadConfig loads configuration from a .env file (when present) and the
// environment. Environment variables win over .env entries.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:              v.GetString("STORAGE_PORT"),
		DBDriver:             strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:               v.GetString("DB_HOST"),
		DBPort:               v.GetString("DB_PORT"),
		DBUser:               v.GetString("DB_USER"),
		DBPassword:           v.GetString("DB_PASSWORD"),
		DBName:               v.GetString("DB_NAME"),
		SQLitePath:           v.GetString("SQLITE_PATH"),
		MinioEndpoint:        v.GetString("MINIO_ENDPOINT"),
		MinioAccessKey:       v.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey:       v.GetString("MINIO_SECRET_KEY"),
		MinioBucket:          v.GetString("MINIO_BUCKET"),
		MinioSSL:             v.GetBool("MINIO_SSL"),
		AttachmentCacheBytes: v.GetInt64("ATTACHMENT_CACHE_BYTES"),
		AttachmentCacheTTL:   v.GetDuration("ATTACHMENT_CACHE_TTL"),
		NATSURL:              v.GetString("NATS_URL"),
		CatalogPath:          v.GetString("CATALOG_PATH"),
		DuplicateTolerance:   v.GetFloat64("DUPLICATE_TOLERANCE"),
		OverlapTolerance:     v.GetFloat64("OVERLAP_TOLERANCE"),
		LifecycleStrict:      v.GetBool("LIFECYCLE_STRICT"),
		PlanCacheTTL:         v.GetDuration("PLAN_CACHE_TTL"),
		LogLevel:             v.GetString("LOG_LEVEL"),
		LogFormat:            v.GetString("LOG_FORMAT"),
		LogFile:              v.GetString("LOG_FILE"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required settings are present and consistent.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres:
		if c.DBHost == "" || c.DBUser == "" || c.DBName == "" {
			return fmt.Errorf("database configuration is incomplete")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.MinioEnabled() && (c.MinioAccessKey == "" || c.MinioSecretKey == "" || c.MinioBucket == "") {
		return fmt.Errorf("minio configuration is incomplete")
	}
	if c.DuplicateTolerance <= 0 || c.OverlapTolerance < 0 {
		return fmt.Errorf("invalid conflict tolerances: duplicate=%v overlap=%v", c.DuplicateTolerance, c.OverlapTolerance)
	}
	if c.AttachmentCacheBytes < 0 {
		return fmt.Errorf("ATTACHMENT_CACHE_BYTES must not be negative")
	}
	if c.PlanCacheTTL <= 0 {
		return fmt.Errorf("PLAN_CACHE_TTL must be positive")
	}
	return nil
}

// ConnectDatabase opens the configured database through GORM.
func ConnectDatabase(cfg *Config, logger *slog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case DriverSQLite:
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
		dialector = postgres.Open(dsn)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logging.NewGormLogger(logger, 200*time.Millisecond),
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}
