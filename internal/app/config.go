package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/neurofocus-backend/internal/data/db"
	"github.com/yungbote/neurofocus-backend/internal/data/docstore"
	"github.com/yungbote/neurofocus-backend/internal/http/middleware"
	"github.com/yungbote/neurofocus-backend/internal/observability"
	"github.com/yungbote/neurofocus-backend/internal/platform/envutil"
	"github.com/yungbote/neurofocus-backend/internal/platform/logger"
	"github.com/yungbote/neurofocus-backend/internal/realtime/bus"
)

const (
	DocStoreSQL   = "sql"
	DocStoreMongo = "mongo"
)

type Config struct {
	Port         string
	JWTSecretKey string
	JWTTTL       time.Duration
	CookieSecure bool
	CORSOrigins  []string
	// StreakTZ is the IANA zone whose calendar days count toward streaks.
	StreakTZ string

	DB db.Config
	// DocStore selects where sessions, progress and preferences live: "sql" or "mongo".
	DocStore string
	Mongo    docstore.Config

	Redis bus.RedisConfig
	Otel  observability.OtelConfig

	// UploadMaxBytes caps one multipart upload.
	UploadMaxBytes int64
}

func (c Config) Addr() string {
	return ":" + c.Port
}

// StreakLocation resolves StreakTZ, falling back to UTC. Validate rejects
// unknown zones before this is reached.
func (c Config) StreakLocation() *time.Location {
	if c.StreakTZ == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.StreakTZ)
	if err != nil {
		return time.UTC
	}
	return loc
}

func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := Config{
		Port:         envutil.String("PORT", "8080", log),
		JWTSecretKey: envutil.String("JWT_SECRET_KEY", "", log),
		JWTTTL:       envutil.Duration("JWT_TTL", 7*24*time.Hour, log),
		CookieSecure: envutil.Bool("COOKIE_SECURE", false, log),
		CORSOrigins:  envutil.List("CORS_ORIGINS", middleware.DefaultCORSOrigins, log),
		StreakTZ:     envutil.String("STREAK_TZ", "UTC", log),
		DocStore:     strings.ToLower(envutil.String("DOC_STORE", DocStoreSQL, log)),
		Mongo: docstore.Config{
			URI:      envutil.String("MONGO_URI", "", log),
			Database: envutil.String("MONGO_DB", "neurofocus", log),
		},
		Redis: bus.RedisConfig{
			Addr:     envutil.String("REDIS_ADDR", "", log),
			Password: envutil.String("REDIS_PASSWORD", "", log),
			Channel:  envutil.String("REDIS_CHANNEL", "neurofocus:events", log),
		},
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false, log),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "neurofocus-api", log),
			Environment: envutil.String("APP_ENV", "development", log),
			Version:     envutil.String("APP_VERSION", "dev", log),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
			Headers:     observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "", log)),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false, log),
			SampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 0.1, log),
		},
	}

	cfg.UploadMaxBytes = int64(envutil.Int("UPLOAD_MAX_BYTES", 100<<20, log))

	cfg.DB = db.Config{
		Driver:     strings.ToLower(envutil.String("DB_DRIVER", "postgres", log)),
		SQLitePath: envutil.String("SQLITE_PATH", "neurofocus.db", log),
	}
	if dsn := envutil.String("POSTGRES_DSN", "", log); dsn != "" {
		cfg.DB.PostgresDSN = dsn
	} else {
		cfg.DB.PostgresDSN = db.PostgresHostConfig{
			Host:     envutil.String("POSTGRES_HOST", "localhost", log),
			Port:     envutil.String("POSTGRES_PORT", "5432", log),
			User:     envutil.String("POSTGRES_USER", "postgres", log),
			Password: envutil.String("POSTGRES_PASSWORD", "", log),
			Name:     envutil.String("POSTGRES_NAME", "neurofocus", log),
			SSLMode:  envutil.String("POSTGRES_SSLMODE", "disable", log),
		}.DSN()
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.JWTSecretKey == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.StreakTZ != "" {
		if _, err := time.LoadLocation(c.StreakTZ); err != nil {
			return fmt.Errorf("invalid STREAK_TZ=%q: %w", c.StreakTZ, err)
		}
	}
	switch c.DocStore {
	case DocStoreSQL:
	case DocStoreMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("DOC_STORE=mongo requires MONGO_URI")
		}
	default:
		return fmt.Errorf("invalid DOC_STORE=%q (allowed: %q, %q)", c.DocStore, DocStoreSQL, DocStoreMongo)
	}
	switch c.DB.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("invalid DB_DRIVER=%q (allowed: postgres, sqlite)", c.DB.Driver)
	}
	return nil
}
