package app

import (
	httpH "github.com/yungbote/neurofocus-backend/internal/http/handlers"
	"github.com/yungbote/neurofocus-backend/internal/platform/logger"
	"github.com/yungbote/neurofocus-backend/internal/realtime"
)

type Handlers struct {
	Health        *httpH.HealthHandler
	Auth          *httpH.AuthHandler
	Session       *httpH.SessionHandler
	Progress      *httpH.ProgressHandler
	Quiz          *httpH.QuizHandler
	ContentOutput *httpH.ContentOutputHandler
	Preferences   *httpH.PreferencesHandler
	Storage       *httpH.StorageHandler
	Realtime      *httpH.RealtimeHandler
}

func wireHandlers(log *logger.Logger, cfg Config, services Services, hub *realtime.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:        httpH.NewHealthHandler(),
		Auth:          httpH.NewAuthHandler(services.Auth, cfg.CookieSecure),
		Session:       httpH.NewSessionHandler(services.Session),
		Progress:      httpH.NewProgressHandler(services.Progress),
		Quiz:          httpH.NewQuizHandler(services.Quiz),
		ContentOutput: httpH.NewContentOutputHandler(services.ContentOutput),
		Preferences:   httpH.NewPreferencesHandler(services.Preferences),
		Storage:       httpH.NewStorageHandler(services.Storage, cfg.UploadMaxBytes),
		Realtime:      httpH.NewRealtimeHandler(log, hub),
	}
}
