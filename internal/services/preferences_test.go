package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/neurofocus-backend/internal/domain"
	"github.com/yungbote/neurofocus-backend/internal/realtime"
)

func TestPreferencesSaveEvaluatesAndUpserts(t *testing.T) {
	env := newServiceEnv(t)
	llm := &fakeLLM{profile: types.FocusProfile{ADHDLevel: 9, FocusIntensity: "extreme", RecommendedPomodoro: 25}}
	svc := NewPreferencesService(env.log, env.clk, env.prefs, NewGroqPreferenceEvaluator(llm), env.emitter)
	ctx := userCtx(uuid.New())

	_, err := svc.Get(ctx)
	wantStatus(t, err, http.StatusNotFound)

	saved, err := svc.Save(ctx, types.PreferenceSettings{FocusSessionLength: "25", FocusBreakers: []string{"phone"}})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.Contains(llm.user, `"focusSessionLength":"25"`) {
		t.Fatalf("prompt: want settings json got=%q", llm.user)
	}
	profile := saved.Profile()
	if profile == nil || profile.ADHDLevel != 5 || profile.FocusIntensity != "moderate" || profile.RecommendedPomodoro != 25 {
		t.Fatalf("profile: want clamped 5/moderate/25 got %+v", profile)
	}
	if !saved.LastEdit.Equal(env.clk.Now().UTC()) {
		t.Fatalf("lastEdit: want=%s got=%s", env.clk.Now().UTC(), saved.LastEdit)
	}

	env.clk.Add(time.Hour)
	if _, err := svc.Save(ctx, types.PreferenceSettings{FocusSessionLength: "50"}); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	got, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Settings.Data().FocusSessionLength != "50" || !got.LastEdit.Equal(env.clk.Now().UTC()) {
		t.Fatalf("after update: got settings=%+v lastEdit=%s", got.Settings.Data(), got.LastEdit)
	}
	if got.ID != got.UserID {
		t.Fatalf("record must be keyed by user: id=%s user=%s", got.ID, got.UserID)
	}

	events := env.emitter.events()
	if len(events) != 2 || events[0] != realtime.SSEEventPreferencesSaved {
		t.Fatalf("events: got %v", events)
	}
}

func TestPreferencesSaveEvaluationFailureSavesNothing(t *testing.T) {
	env := newServiceEnv(t)
	svc := NewPreferencesService(env.log, env.clk, env.prefs, NewGroqPreferenceEvaluator(&fakeLLM{err: errors.New("rate limited")}), nil)
	ctx := userCtx(uuid.New())

	_, err := svc.Save(ctx, types.PreferenceSettings{ColorTheme: "dark"})
	wantStatus(t, err, http.StatusBadGateway)

	_, err = svc.Get(ctx)
	wantStatus(t, err, http.StatusNotFound)
}

func TestPreferencesSaveWithoutEvaluator(t *testing.T) {
	env := newServiceEnv(t)
	svc := NewPreferencesService(env.log, env.clk, env.prefs, nil, nil)

	saved, err := svc.Save(userCtx(uuid.New()), types.PreferenceSettings{ColorTheme: "dark"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.Profile() != nil || saved.Settings.Data().ColorTheme != "dark" {
		t.Fatalf("saved: got profile=%+v settings=%+v", saved.Profile(), saved.Settings.Data())
	}

	_, err = svc.Save(context.Background(), types.PreferenceSettings{})
	wantStatus(t, err, http.StatusUnauthorized)
}
