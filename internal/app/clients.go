package app

import (
	"context"
	"fmt"

	"github.com/yungbote/neurofocus-backend/internal/platform/gcp"
	"github.com/yungbote/neurofocus-backend/internal/platform/groq"
	"github.com/yungbote/neurofocus-backend/internal/platform/logger"
	"github.com/yungbote/neurofocus-backend/internal/realtime/bus"
)

type Clients struct {
	Bus   bus.Bus
	LLM   groq.Client
	Blobs gcp.BlobStore
}

// wireClients builds the external clients. Groq and GCS are optional: without
// credentials the quiz, storage and processed-blob endpoints answer 503.
func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	// Redis
	if cfg.Redis.Addr != "" {
		b, err := bus.NewRedisBus(log, cfg.Redis)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis bus: %w", err)
		}
		out.Bus = b
	} else {
		log.Warn("REDIS_ADDR not set, realtime events stay in-process")
		out.Bus = bus.NewMemoryBus(log)
	}

	// Groq
	groqCfg := groq.ConfigFromEnv(log)
	if groqCfg.APIKey != "" {
		llm, err := groq.NewClient(log, groqCfg)
		if err != nil {
			out.Close()
			return Clients{}, fmt.Errorf("init groq client: %w", err)
		}
		out.LLM = llm
	} else {
		log.Warn("GROQ_API_KEY not set, quiz generation disabled")
	}

	// Gcs
	storageCfg, err := gcp.ResolveObjectStorageConfigFromEnv(log)
	if err != nil {
		out.Close()
		return Clients{}, err
	}
	if storageCfg.DefaultBucket != "" || storageCfg.IsEmulatorMode() {
		blobs, err := gcp.NewBlobStore(ctx, log, storageCfg)
		if err != nil {
			out.Close()
			return Clients{}, fmt.Errorf("init blob store: %w", err)
		}
		out.Blobs = blobs
	} else {
		log.Warn("CONTENT_BUCKET not set, uploads and processed content downloads disabled")
	}

	return out, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Bus != nil {
		_ = c.Bus.Close()
	}
	if c.Blobs != nil {
		_ = c.Blobs.Close()
	}
}
