package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/facebookgo/clock"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/neurofocus-backend/internal/data/db"
	"github.com/yungbote/neurofocus-backend/internal/data/docstore"
	"github.com/yungbote/neurofocus-backend/internal/http"
	"github.com/yungbote/neurofocus-backend/internal/observability"
	"github.com/yungbote/neurofocus-backend/internal/platform/logger"
	"github.com/yungbote/neurofocus-backend/internal/realtime"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *http.Server
	Cfg      Config
	Repos    Repos
	Services Services
	Clients  Clients
	SSEHub   *realtime.SSEHub

	sqlDB        *db.Service
	docStore     *docstore.Store
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New(ctx context.Context) (*App, error) {
	// A missing .env is fine; deployments set the environment directly.
	_ = godotenv.Load()

	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("load config: %w", err)
	}

	a := &App{Log: log, Cfg: cfg}
	a.otelShutdown = observability.InitOTel(ctx, log, cfg.Otel)

	a.sqlDB, err = db.Open(log, cfg.DB)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := a.sqlDB.AutoMigrateAll(); err != nil {
		a.Close()
		return nil, fmt.Errorf("database automigrate: %w", err)
	}
	a.DB = a.sqlDB.DB()

	a.docStore, err = openDocStore(ctx, log, cfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init document store: %w", err)
	}

	a.Clients, err = wireClients(ctx, log, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.SSEHub = realtime.NewSSEHub(log)
	a.Repos = wireRepos(a.DB, a.docStore, log)
	a.Services = wireServices(log, cfg, clock.New(), a.Repos, a.Clients)
	handlers := wireHandlers(log, cfg, a.Services, a.SSEHub)
	middleware := wireMiddleware(log, a.Services)
	a.Server = wireServer(log, cfg, handlers, middleware)
	return a, nil
}

// Start launches background work: the bus forwarder that feeds published
// events into this instance's SSE hub.
func (a *App) Start(ctx context.Context) error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	if err := a.Clients.Bus.StartForwarder(ctx, a.SSEHub.Broadcast); err != nil {
		return fmt.Errorf("start event forwarder: %w", err)
	}
	return nil
}

// Run serves HTTP until ctx is cancelled or the listener fails, then shuts
// the server down gracefully.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Log.Info("HTTP server listening", "addr", a.Cfg.Addr())
		return a.Server.Run(a.Cfg.Addr())
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.Log.Info("HTTP server shutting down")
		return a.Server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.Clients.Close()
	if a.docStore != nil {
		if err := a.docStore.Close(ctx); err != nil {
			a.Log.Warn("Failed to close document store", "error", err)
		}
	}
	if a.sqlDB != nil {
		if err := a.sqlDB.Close(); err != nil {
			a.Log.Warn("Failed to close database", "error", err)
		}
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
