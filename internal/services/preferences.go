package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"

	"github.com/yungbote/neurofocus-backend/internal/data/repos"
	types "github.com/yungbote/neurofocus-backend/internal/domain"
	"github.com/yungbote/neurofocus-backend/internal/platform/apierr"
	"github.com/yungbote/neurofocus-backend/internal/platform/ctxutil"
	"github.com/yungbote/neurofocus-backend/internal/platform/dbctx"
	"github.com/yungbote/neurofocus-backend/internal/platform/groq"
	"github.com/yungbote/neurofocus-backend/internal/platform/logger"
	"github.com/yungbote/neurofocus-backend/internal/realtime"
)

var (
	ErrPreferencesNotFound  = apierr.NotFound("not_found", errors.New("Preferences not found"))
	ErrPreferenceEvaluation = apierr.New(http.StatusBadGateway, "evaluation_failed", errors.New("Failed to evaluate preferences"))
)

const preferenceSystemPrompt = `You analyse ADHD study habits. Return a JSON object ONLY with this schema: { "adhdLevel": number (1-5), "focusIntensity": "low" | "moderate" | "high", "sensoryNeeds": string[], "recommendedPomodoro": number, "personalizedInsight": string }`

// PreferenceEvaluator turns raw settings into a focus profile.
type PreferenceEvaluator interface {
	Evaluate(ctx context.Context, settings types.PreferenceSettings) (*types.FocusProfile, error)
}

type groqPreferenceEvaluator struct {
	llm groq.Client
}

func NewGroqPreferenceEvaluator(llm groq.Client) PreferenceEvaluator {
	return &groqPreferenceEvaluator{llm: llm}
}

func (e *groqPreferenceEvaluator) Evaluate(ctx context.Context, settings types.PreferenceSettings) (*types.FocusProfile, error) {
	raw, err := json.Marshal(settings)
	if err != nil {
		return nil, err
	}
	var profile types.FocusProfile
	if err := e.llm.GenerateJSON(ctx, preferenceSystemPrompt, "Data: "+string(raw), &profile); err != nil {
		return nil, err
	}
	profile.Clamp()
	return &profile, nil
}

type PreferencesService interface {
	Get(ctx context.Context) (*types.Preferences, error)
	// Save upserts the caller's settings. With an evaluator configured the
	// record carries its focus profile, and a failed evaluation saves nothing.
	Save(ctx context.Context, settings types.PreferenceSettings) (*types.Preferences, error)
}

type preferencesService struct {
	log       *logger.Logger
	clk       clock.Clock
	prefs     repos.PreferencesRepo
	evaluator PreferenceEvaluator
	emitter   SSEEmitter
}

// NewPreferencesService accepts a nil evaluator; records are then saved
// without a focus profile.
func NewPreferencesService(log *logger.Logger, clk clock.Clock, prefs repos.PreferencesRepo, evaluator PreferenceEvaluator, emitter SSEEmitter) PreferencesService {
	if emitter == nil {
		emitter = NopEmitter{}
	}
	return &preferencesService{
		log:       log.With("service", "PreferencesService"),
		clk:       clk,
		prefs:     prefs,
		evaluator: evaluator,
		emitter:   emitter,
	}
}

func (s *preferencesService) Get(ctx context.Context) (*types.Preferences, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	p, err := s.prefs.GetByUserID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	if p == nil {
		return nil, ErrPreferencesNotFound
	}
	return p, nil
}

func (s *preferencesService) Save(ctx context.Context, settings types.PreferenceSettings) (*types.Preferences, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	var profile *types.FocusProfile
	if s.evaluator != nil {
		p, err := s.evaluator.Evaluate(ctx, settings)
		if err != nil {
			s.log.Warn("Preference evaluation failed", "user_id", userID, "error", err)
			return nil, ErrPreferenceEvaluation
		}
		profile = p
	}

	dbc := dbctx.Context{Ctx: ctx}
	if err := s.prefs.Upsert(dbc, types.NewPreferences(userID, settings, profile, s.clk.Now())); err != nil {
		return nil, fmt.Errorf("save preferences: %w", err)
	}
	saved, err := s.prefs.GetByUserID(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("reload preferences: %w", err)
	}
	if saved == nil {
		return nil, ErrPreferencesNotFound
	}
	s.log.Info("Saved preferences", "user_id", userID, "evaluated", profile != nil)
	s.emitter.Emit(ctx, realtime.SSEMessage{Channel: UserChannel(userID), Event: realtime.SSEEventPreferencesSaved, Data: saved})
	return saved, nil
}
