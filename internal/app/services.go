package app

import (
	"github.com/facebookgo/clock"

	"github.com/yungbote/neurofocus-backend/internal/platform/logger"
	"github.com/yungbote/neurofocus-backend/internal/services"
)

type Services struct {
	Auth          services.AuthService
	Session       services.SessionService
	Progress      services.ProgressService
	Quiz          services.QuizService
	ContentOutput services.ContentOutputService
	Preferences   services.PreferencesService
	Storage       services.StorageService
}

func wireServices(log *logger.Logger, cfg Config, clk clock.Clock, repos Repos, clients Clients) Services {
	log.Info("Wiring services...")
	emitter := &services.BusEmitter{Bus: clients.Bus, Log: log}
	var evaluator services.PreferenceEvaluator
	if clients.LLM != nil {
		evaluator = services.NewGroqPreferenceEvaluator(clients.LLM)
	}
	return Services{
		Auth:          services.NewAuthService(log, repos.User, cfg.JWTSecretKey, cfg.JWTTTL),
		Session:       services.NewSessionService(log, clk, repos.Session, repos.Progress, emitter),
		Progress:      services.NewProgressService(log, clk, cfg.StreakLocation(), repos.Progress, emitter),
		Quiz:          services.NewQuizService(log, clients.LLM),
		ContentOutput: services.NewContentOutputService(log, clk, repos.ContentOutput, clients.Blobs),
		Preferences:   services.NewPreferencesService(log, clk, repos.Preferences, evaluator, emitter),
		Storage:       services.NewStorageService(log, clk, clients.Blobs),
	}
}
