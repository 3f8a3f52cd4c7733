package app

import (
	"strings"
	"testing"
	"time"

	"github.com/yungbote/neurofocus-backend/internal/platform/logger"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DOC_STORE", "")
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("STREAK_TZ", "")

	cfg, err := LoadConfig(logger.NewNop())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Addr() != ":8080" {
		t.Fatalf("addr: want=:8080 got=%s", cfg.Addr())
	}
	if cfg.JWTTTL != 7*24*time.Hour {
		t.Fatalf("jwt ttl: want=%s got=%s", 7*24*time.Hour, cfg.JWTTTL)
	}
	if cfg.DocStore != DocStoreSQL || cfg.DB.Driver != "postgres" {
		t.Fatalf("stores: want=sql/postgres got=%s/%s", cfg.DocStore, cfg.DB.Driver)
	}
	if !strings.Contains(cfg.DB.PostgresDSN, "@db.internal:5432/neurofocus") {
		t.Fatalf("dsn: got=%s", cfg.DB.PostgresDSN)
	}
	if cfg.Otel.Enabled {
		t.Fatalf("otel: want disabled by default")
	}
	if cfg.StreakLocation() != time.UTC {
		t.Fatalf("streak zone: want=UTC got=%s", cfg.StreakLocation())
	}
}

func TestLoadConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "missing secret", env: map[string]string{"JWT_SECRET_KEY": ""}, want: "JWT_SECRET_KEY"},
		{name: "mongo without uri", env: map[string]string{"DOC_STORE": "mongo", "MONGO_URI": ""}, want: "MONGO_URI"},
		{name: "unknown doc store", env: map[string]string{"DOC_STORE": "dynamo"}, want: "DOC_STORE"},
		{name: "unknown driver", env: map[string]string{"DB_DRIVER": "mysql"}, want: "DB_DRIVER"},
		{name: "unknown streak zone", env: map[string]string{"STREAK_TZ": "Mars/Olympus"}, want: "STREAK_TZ"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET_KEY", "test-secret")
			t.Setenv("DOC_STORE", "")
			t.Setenv("DB_DRIVER", "")
			t.Setenv("STREAK_TZ", "")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig(logger.NewNop())
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err: want mention of %s got=%v", tc.want, err)
			}
		})
	}
}

func TestLoadConfigSQLiteAndOtel(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DOC_STORE", "")
	t.Setenv("SQLITE_PATH", "/tmp/focus.db")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_SAMPLER_RATIO", "0.5")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "x-team=focus")
	t.Setenv("CORS_ORIGINS", "https://app.example.com")

	cfg, err := LoadConfig(logger.NewNop())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.DB.Driver != "sqlite" || cfg.DB.SQLitePath != "/tmp/focus.db" {
		t.Fatalf("sqlite: got=%+v", cfg.DB)
	}
	if !cfg.Otel.Enabled || cfg.Otel.SampleRatio != 0.5 || cfg.Otel.Headers["x-team"] != "focus" {
		t.Fatalf("otel: got=%+v", cfg.Otel)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "https://app.example.com" {
		t.Fatalf("cors: got=%v", cfg.CORSOrigins)
	}
}
