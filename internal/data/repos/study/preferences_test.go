package study

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/neurofocus-backend/internal/data/repos/testutil"
	types "github.com/yungbote/neurofocus-backend/internal/domain"
	"github.com/yungbote/neurofocus-backend/internal/platform/dbctx"
)

func TestPreferencesRepoUpsertKeepsOneRecordPerUser(t *testing.T) {
	db := testutil.DB(t)
	repo := NewPreferencesRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}
	userID := uuid.New()

	missing, err := repo.GetByUserID(dbc, userID)
	if err != nil || missing != nil {
		t.Fatalf("GetByUserID missing: want nil,nil got %+v,%v", missing, err)
	}

	first := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	if err := repo.Upsert(dbc, types.NewPreferences(userID, types.PreferenceSettings{ColorTheme: "dark"}, nil, first)); err != nil {
		t.Fatalf("Upsert insert: %v", err)
	}
	got, err := repo.GetByUserID(dbc, userID)
	if err != nil || got == nil {
		t.Fatalf("GetByUserID: got %+v err=%v", got, err)
	}
	if got.Settings.Data().ColorTheme != "dark" || got.Profile() != nil {
		t.Fatalf("first save: got settings=%+v profile=%+v", got.Settings.Data(), got.Profile())
	}

	second := first.Add(48 * time.Hour)
	profile := &types.FocusProfile{ADHDLevel: 3, FocusIntensity: "high", SensoryNeeds: []string{"quiet"}, RecommendedPomodoro: 20}
	settings := types.PreferenceSettings{ColorTheme: "light", FocusBreakers: []string{"phone", "noise"}}
	if err := repo.Upsert(dbc, types.NewPreferences(userID, settings, profile, second)); err != nil {
		t.Fatalf("Upsert update: %v", err)
	}

	var count int64
	if err := db.Model(&types.Preferences{}).Where("user_id = ?", userID).Count(&count).Error; err != nil || count != 1 {
		t.Fatalf("rows: want=1 got=%d err=%v", count, err)
	}
	got, err = repo.GetByUserID(dbc, userID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if got.Settings.Data().ColorTheme != "light" || len(got.Settings.Data().FocusBreakers) != 2 {
		t.Fatalf("settings: got %+v", got.Settings.Data())
	}
	if p := got.Profile(); p == nil || p.ADHDLevel != 3 || p.FocusIntensity != "high" {
		t.Fatalf("profile: got %+v", p)
	}
	if !got.LastEdit.Equal(second) {
		t.Fatalf("lastEdit: want=%s got=%s", second, got.LastEdit)
	}
	if !got.CreatedAt.Equal(first) {
		t.Fatalf("createdAt: want=%s got=%s", first, got.CreatedAt)
	}
}
