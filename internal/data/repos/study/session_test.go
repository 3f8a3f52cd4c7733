package study

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/neurofocus-backend/internal/data/repos/testutil"
	types "github.com/yungbote/neurofocus-backend/internal/domain"
	"github.com/yungbote/neurofocus-backend/internal/platform/dbctx"
)

func TestSessionRepoLifecycle(t *testing.T) {
	db := testutil.DB(t)
	repo := NewSessionRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}
	userID := uuid.New()
	start := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)

	s := types.NewSession(userID, "content-a", start)
	if err := repo.Create(dbc, s); err != nil {
		t.Fatalf("Create: %v", err)
	}

	open, err := repo.ListOpen(dbc, userID)
	if err != nil {
		t.Fatalf("ListOpen: %v", err)
	}
	if len(open) != 1 || open[0].ID != s.ID {
		t.Fatalf("ListOpen: want [%s] got %+v", s.ID, open)
	}

	restart := start.Add(10 * time.Minute)
	replaced, err := repo.Replace(dbc, s.ID, "content-b", restart)
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if replaced.ContentID != "content-b" || !replaced.StartTime.Equal(restart) {
		t.Fatalf("Replace: got content=%s start=%s", replaced.ContentID, replaced.StartTime)
	}
	if replaced.Version != 2 {
		t.Fatalf("Replace: version want=2 got=%d", replaced.Version)
	}

	end := restart.Add(20 * time.Minute)
	closed, err := repo.Close(dbc, s.ID, end, 72)
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if closed.EndTime == nil || !closed.EndTime.Equal(end) {
		t.Fatalf("Close: endTime want=%s got=%v", end, closed.EndTime)
	}
	if closed.FocusScore == nil || *closed.FocusScore != 72 {
		t.Fatalf("Close: focusScore want=72 got=%v", closed.FocusScore)
	}

	if _, err := repo.Close(dbc, s.ID, end, 10); !errors.Is(err, types.ErrNoActiveSession) {
		t.Fatalf("Close closed session: want ErrNoActiveSession got %v", err)
	}
	if _, err := repo.Replace(dbc, s.ID, "content-c", end); !errors.Is(err, types.ErrNoActiveSession) {
		t.Fatalf("Replace closed session: want ErrNoActiveSession got %v", err)
	}

	open, err = repo.ListOpen(dbc, userID)
	if err != nil {
		t.Fatalf("ListOpen after close: %v", err)
	}
	if len(open) != 0 {
		t.Fatalf("ListOpen after close: want 0 got %d", len(open))
	}

	history, err := repo.ListByUser(dbc, userID, 10)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("ListByUser: want 1 got %d", len(history))
	}
}

func TestSessionRepoRejectsSecondOpenSession(t *testing.T) {
	db := testutil.DB(t)
	repo := NewSessionRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}
	userID := uuid.New()
	now := time.Now()

	if err := repo.Create(dbc, types.NewSession(userID, "a", now)); err != nil {
		t.Fatalf("Create first: %v", err)
	}
	err := repo.Create(dbc, types.NewSession(userID, "b", now))
	if !errors.Is(err, types.ErrConflict) {
		t.Fatalf("Create second open: want ErrConflict got %v", err)
	}

	first, _ := repo.ListOpen(dbc, userID)
	if _, err := repo.Close(dbc, first[0].ID, now, 50); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := repo.Create(dbc, types.NewSession(userID, "c", now)); err != nil {
		t.Fatalf("Create after close: %v", err)
	}
	if err := repo.Create(dbc, types.NewSession(uuid.New(), "d", now)); err != nil {
		t.Fatalf("Create for other user: %v", err)
	}
}
