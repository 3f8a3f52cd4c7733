package gcp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/yungbote/neurofocus-backend/internal/platform/envutil"
	"github.com/yungbote/neurofocus-backend/internal/platform/logger"
)

type ObjectStorageMode string

const (
	ObjectStorageModeGCS         ObjectStorageMode = "gcs"
	ObjectStorageModeGCSEmulator ObjectStorageMode = "gcs_emulator"
)

type ObjectStorageConfig struct {
	Mode          ObjectStorageMode
	EmulatorHost  string
	DefaultBucket string
	// PublicBaseURL overrides the host in emulator download links, for
	// browsers that cannot reach the emulator's internal address.
	PublicBaseURL string
}

func (cfg ObjectStorageConfig) IsEmulatorMode() bool {
	return cfg.Mode == ObjectStorageModeGCSEmulator
}

// ResolveObjectStorageConfigFromEnv reads OBJECT_STORAGE_MODE,
// STORAGE_EMULATOR_HOST, CONTENT_BUCKET and OBJECT_STORAGE_PUBLIC_BASE_URL.
// With no explicit mode a set emulator host selects the emulator.
func ResolveObjectStorageConfigFromEnv(log *logger.Logger) (ObjectStorageConfig, error) {
	cfg := ObjectStorageConfig{
		EmulatorHost:  envutil.String("STORAGE_EMULATOR_HOST", "", log),
		DefaultBucket: envutil.String("CONTENT_BUCKET", "", log),
		PublicBaseURL: strings.TrimRight(envutil.String("OBJECT_STORAGE_PUBLIC_BASE_URL", "", log), "/"),
	}
	rawMode := envutil.String("OBJECT_STORAGE_MODE", "", log)
	switch ObjectStorageMode(strings.ToLower(rawMode)) {
	case "":
		cfg.Mode = ObjectStorageModeGCS
		if cfg.EmulatorHost != "" {
			cfg.Mode = ObjectStorageModeGCSEmulator
		}
	case ObjectStorageModeGCS:
		cfg.Mode = ObjectStorageModeGCS
	case ObjectStorageModeGCSEmulator:
		cfg.Mode = ObjectStorageModeGCSEmulator
	default:
		return cfg, fmt.Errorf("invalid OBJECT_STORAGE_MODE=%q (allowed: %q, %q)", rawMode, ObjectStorageModeGCS, ObjectStorageModeGCSEmulator)
	}
	return cfg, ValidateObjectStorageConfig(cfg)
}

func ValidateObjectStorageConfig(cfg ObjectStorageConfig) error {
	if cfg.PublicBaseURL != "" {
		u, err := url.Parse(cfg.PublicBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid OBJECT_STORAGE_PUBLIC_BASE_URL=%q; expected absolute URL like http://localhost:4443", cfg.PublicBaseURL)
		}
	}
	switch cfg.Mode {
	case ObjectStorageModeGCS:
		return nil
	case ObjectStorageModeGCSEmulator:
	default:
		return fmt.Errorf("invalid object storage mode %q", cfg.Mode)
	}
	if cfg.EmulatorHost == "" {
		return fmt.Errorf("OBJECT_STORAGE_MODE=%q requires STORAGE_EMULATOR_HOST to be set", ObjectStorageModeGCSEmulator)
	}
	u, err := url.Parse(cfg.EmulatorHost)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid STORAGE_EMULATOR_HOST=%q; expected absolute URL like http://fake-gcs:4443", cfg.EmulatorHost)
	}
	return nil
}
