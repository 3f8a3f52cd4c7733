package study

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/neurofocus-backend/internal/data/repos/testutil"
	types "github.com/yungbote/neurofocus-backend/internal/domain"
	"github.com/yungbote/neurofocus-backend/internal/platform/dbctx"
)

func TestProgressRepo(t *testing.T) {
	db := testutil.DB(t)
	repo := NewProgressRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}
	userID := uuid.New()

	missing, err := repo.GetByUserID(dbc, userID)
	if err != nil || missing != nil {
		t.Fatalf("GetByUserID missing: want nil,nil got %+v,%v", missing, err)
	}

	p := types.NewProgress(userID, time.Now())
	if err := repo.Create(dbc, p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(dbc, types.NewProgress(userID, time.Now())); !errors.Is(err, types.ErrConflict) {
		t.Fatalf("Create duplicate: want ErrConflict got %v", err)
	}

	if err := repo.IncrementCompletedSessions(dbc, userID); err != nil {
		t.Fatalf("IncrementCompletedSessions: %v", err)
	}
	if err := repo.IncrementCompletedSessions(dbc, uuid.New()); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("IncrementCompletedSessions missing: want ErrRecordNotFound got %v", err)
	}

	p.FocusStreak = 4
	p.MaxStreak = 6
	p.LastStreakDate = "2026-05-01"
	if err := repo.SaveStreak(dbc, p); err != nil {
		t.Fatalf("SaveStreak: %v", err)
	}
	p.AddSkillXP("biology", 20, []string{"cells"})
	if err := repo.SaveSkills(dbc, p); err != nil {
		t.Fatalf("SaveSkills: %v", err)
	}

	got, err := repo.GetByUserID(dbc, userID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if got.FocusStreak != 4 || got.MaxStreak != 6 || got.LastStreakDate != "2026-05-01" {
		t.Fatalf("streak columns: got %+v", got)
	}
	if got.CompletedSessions != 1 {
		t.Fatalf("completedSessions: want=1 got=%d", got.CompletedSessions)
	}
	if skill := got.Skills.Data()["biology"]; skill.XP != 20 || len(skill.Topics) != 1 {
		t.Fatalf("skills: got %+v", got.Skills.Data())
	}
}
