package docstore

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/neurofocus-backend/internal/data/repos/testutil"
	types "github.com/yungbote/neurofocus-backend/internal/domain"
	"github.com/yungbote/neurofocus-backend/internal/platform/dbctx"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	s, err := Open(ctx, testutil.Logger(t), Config{URI: uri, Database: "neurofocus_test_" + uuid.NewString()[:8]})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Database().Drop(context.Background())
		_ = s.Close(context.Background())
	})
	return s
}

func TestMongoSessionRepoSingleOpenSession(t *testing.T) {
	s := openTestStore(t)
	repo := NewSessionRepo(s, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}
	userID := uuid.New()
	now := time.Now().UTC().Truncate(time.Millisecond)

	first := types.NewSession(userID, "a", now)
	if err := repo.Create(dbc, first); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(dbc, types.NewSession(userID, "b", now)); !errors.Is(err, types.ErrConflict) {
		t.Fatalf("Create second open: want ErrConflict got %v", err)
	}

	replaced, err := repo.Replace(dbc, first.ID, "b", now.Add(time.Minute))
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if replaced.ContentID != "b" || replaced.Version != 2 {
		t.Fatalf("Replace: got content=%s version=%d", replaced.ContentID, replaced.Version)
	}

	closed, err := repo.Close(dbc, first.ID, now.Add(2*time.Minute), 64)
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if closed.EndTime == nil || closed.FocusScore == nil || *closed.FocusScore != 64 {
		t.Fatalf("Close: got %+v", closed)
	}
	if _, err := repo.Close(dbc, first.ID, now, 1); !errors.Is(err, types.ErrNoActiveSession) {
		t.Fatalf("Close twice: want ErrNoActiveSession got %v", err)
	}
	if err := repo.Create(dbc, types.NewSession(userID, "c", now)); err != nil {
		t.Fatalf("Create after close: %v", err)
	}
}

func TestMongoProgressRepo(t *testing.T) {
	s := openTestStore(t)
	repo := NewProgressRepo(s, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}
	userID := uuid.New()

	p := types.NewProgress(userID, time.Now())
	if err := repo.Create(dbc, p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.IncrementCompletedSessions(dbc, userID); err != nil {
		t.Fatalf("IncrementCompletedSessions: %v", err)
	}
	p.FocusStreak, p.MaxStreak = 3, 3
	if err := repo.SaveStreak(dbc, p); err != nil {
		t.Fatalf("SaveStreak: %v", err)
	}
	p.AddSkillXP("math", 5, []string{"algebra"})
	if err := repo.SaveSkills(dbc, p); err != nil {
		t.Fatalf("SaveSkills: %v", err)
	}

	got, err := repo.GetByUserID(dbc, userID)
	if err != nil || got == nil {
		t.Fatalf("GetByUserID: got %+v, %v", got, err)
	}
	if got.FocusStreak != 3 || got.CompletedSessions != 1 || got.Skills.Data()["math"].XP != 5 {
		t.Fatalf("progress: got %+v", got)
	}
}

func TestMongoPreferencesRepoUpsert(t *testing.T) {
	s := openTestStore(t)
	repo := NewPreferencesRepo(s, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}
	userID := uuid.New()
	first := time.Now().UTC().Truncate(time.Millisecond)

	profile := &types.FocusProfile{ADHDLevel: 2, FocusIntensity: "low", SensoryNeeds: []string{"music"}}
	if err := repo.Upsert(dbc, types.NewPreferences(userID, types.PreferenceSettings{DetailLevel: "brief"}, profile, first)); err != nil {
		t.Fatalf("Upsert insert: %v", err)
	}
	second := first.Add(time.Hour)
	if err := repo.Upsert(dbc, types.NewPreferences(userID, types.PreferenceSettings{DetailLevel: "deep"}, nil, second)); err != nil {
		t.Fatalf("Upsert update: %v", err)
	}

	got, err := repo.GetByUserID(dbc, userID)
	if err != nil || got == nil {
		t.Fatalf("GetByUserID: got %+v, %v", got, err)
	}
	if got.Settings.Data().DetailLevel != "deep" || got.Profile() != nil {
		t.Fatalf("preferences: got settings=%+v profile=%+v", got.Settings.Data(), got.Profile())
	}
	if !got.LastEdit.Equal(second) || !got.CreatedAt.Equal(first) {
		t.Fatalf("stamps: want lastEdit=%s createdAt=%s got %s/%s", second, first, got.LastEdit, got.CreatedAt)
	}
}
