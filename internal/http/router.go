package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/neurofocus-backend/internal/http/handlers"
	httpMW "github.com/yungbote/neurofocus-backend/internal/http/middleware"
	"github.com/yungbote/neurofocus-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	CORSOrigins []string
	// OtelService names the otelgin span source; empty disables request spans.
	OtelService string

	AuthMiddleware *httpMW.AuthMiddleware
	AuthHandler    *httpH.AuthHandler

	SessionHandler       *httpH.SessionHandler
	ProgressHandler      *httpH.ProgressHandler
	QuizHandler          *httpH.QuizHandler
	ContentOutputHandler *httpH.ContentOutputHandler
	PreferencesHandler   *httpH.PreferencesHandler
	StorageHandler       *httpH.StorageHandler
	RealtimeHandler      *httpH.RealtimeHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Log
	if log == nil {
		log = logger.NewNop()
	}
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.OtelService != "" {
		r.Use(otelgin.Middleware(cfg.OtelService))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	// Auth (public)
	if cfg.AuthHandler != nil {
		r.POST("/auth/register", cfg.AuthHandler.Register)
		r.POST("/auth/login", cfg.AuthHandler.Login)
		r.POST("/auth/logout", cfg.AuthHandler.Logout)
	}

	protected := r.Group("/")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.AuthHandler != nil {
			protected.GET("/auth/me", cfg.AuthHandler.Me)
		}

		// Sessions
		if cfg.SessionHandler != nil {
			protected.POST("/session/createOrUpdateSession", cfg.SessionHandler.CreateOrUpdate)
			protected.POST("/session/endSession", cfg.SessionHandler.End)
			protected.GET("/session/history", cfg.SessionHandler.History)
		}

		// Progress
		if cfg.ProgressHandler != nil {
			protected.GET("/progress/me", cfg.ProgressHandler.GetMe)
			protected.POST("/progress/skills", cfg.ProgressHandler.AddSkill)
		}

		// Preferences
		if cfg.PreferencesHandler != nil {
			protected.GET("/preferences/get", cfg.PreferencesHandler.Get)
			protected.POST("/preferences/save", cfg.PreferencesHandler.Save)
			protected.PUT("/preferences/update", cfg.PreferencesHandler.Save)
		}

		// Storage
		if cfg.StorageHandler != nil {
			protected.POST("/storage/upload", cfg.StorageHandler.Upload)
			protected.GET("/storage/download_url", cfg.StorageHandler.DownloadURL)
		}

		// Quiz
		if cfg.QuizHandler != nil {
			protected.POST("/quiz/generate-quiz", cfg.QuizHandler.Generate)
		}

		// Content outputs
		if cfg.ContentOutputHandler != nil {
			protected.POST("/content_outputs", cfg.ContentOutputHandler.Create)
			protected.GET("/content_outputs/:contentId", cfg.ContentOutputHandler.Get)
			protected.PATCH("/content_outputs/:contentId", cfg.ContentOutputHandler.Patch)
			protected.GET("/content_outputs/:contentId/processed", cfg.ContentOutputHandler.Processed)
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			protected.GET("/events/stream", cfg.RealtimeHandler.SSEStream)
		}
	}

	return r
}
