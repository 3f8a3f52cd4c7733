package app

import (
	"github.com/yungbote/neurofocus-backend/internal/http"
	"github.com/yungbote/neurofocus-backend/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *http.Server {
	otelService := ""
	if cfg.Otel.Enabled {
		otelService = cfg.Otel.ServiceName
	}
	return http.NewServer(http.RouterConfig{
		Log:                  log,
		CORSOrigins:          cfg.CORSOrigins,
		OtelService:          otelService,
		AuthMiddleware:       middleware.Auth,
		AuthHandler:          handlers.Auth,
		SessionHandler:       handlers.Session,
		ProgressHandler:      handlers.Progress,
		QuizHandler:          handlers.Quiz,
		ContentOutputHandler: handlers.ContentOutput,
		PreferencesHandler:   handlers.Preferences,
		StorageHandler:       handlers.Storage,
		RealtimeHandler:      handlers.Realtime,
		HealthHandler:        handlers.Health,
	})
}
