package services

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/neurofocus-backend/internal/data/repos"
	types "github.com/yungbote/neurofocus-backend/internal/domain"
	"github.com/yungbote/neurofocus-backend/internal/platform/dbctx"
	"github.com/yungbote/neurofocus-backend/internal/realtime"
)

func TestSessionStartCreatesThenUpdatesInPlace(t *testing.T) {
	env := newServiceEnv(t)
	svc := NewSessionService(env.log, env.clk, env.sessions, env.progress, env.emitter)
	userID := uuid.New()
	ctx := userCtx(userID)

	first, created, err := svc.Start(ctx, "lecture-1")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !created || first.EndTime != nil || first.FocusScore != nil {
		t.Fatalf("first start: created=%v session=%+v", created, first)
	}

	env.clk.Add(5 * time.Minute)
	for _, content := range []string{"lecture-2", "lecture-3"} {
		s, created, err := svc.Start(ctx, content)
		if err != nil {
			t.Fatalf("Start %s: %v", content, err)
		}
		if created || s.ID != first.ID {
			t.Fatalf("Start %s: want update of %s got created=%v id=%s", content, first.ID, created, s.ID)
		}
	}

	open, err := env.sessions.ListOpen(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		t.Fatalf("ListOpen: %v", err)
	}
	if len(open) != 1 || open[0].ContentID != "lecture-3" {
		t.Fatalf("open sessions: want one with lecture-3 got %+v", open)
	}
	if !open[0].StartTime.Equal(env.clk.Now().UTC()) {
		t.Fatalf("startTime: want=%s got=%s", env.clk.Now().UTC(), open[0].StartTime)
	}

	events := env.emitter.events()
	if len(events) != 3 || events[0] != realtime.SSEEventSessionStarted || events[2] != realtime.SSEEventSessionUpdated {
		t.Fatalf("events: got %v", events)
	}
}

func TestSessionEndPersistsScoreAndCountsCompletion(t *testing.T) {
	env := newServiceEnv(t)
	svc := NewSessionService(env.log, env.clk, env.sessions, env.progress, env.emitter)
	progress := NewProgressService(env.log, env.clk, nil, env.progress, nil)
	userID := uuid.New()
	ctx := userCtx(userID)

	if _, _, err := progress.Touch(ctx); err != nil {
		t.Fatalf("Touch: %v", err)
	}
	if _, _, err := svc.Start(ctx, "lecture"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	env.clk.Add(25 * time.Minute)

	ended, err := svc.End(ctx, 85)
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if ended.EndTime == nil || !ended.EndTime.Equal(env.clk.Now().UTC()) {
		t.Fatalf("endTime: want=%s got=%v", env.clk.Now().UTC(), ended.EndTime)
	}
	if ended.FocusScore == nil || *ended.FocusScore != 85 {
		t.Fatalf("focusScore: want=85 got=%v", ended.FocusScore)
	}

	p, err := env.progress.GetByUserID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil || p == nil {
		t.Fatalf("GetByUserID: %+v %v", p, err)
	}
	if p.CompletedSessions != 1 {
		t.Fatalf("completedSessions: want=1 got=%d", p.CompletedSessions)
	}

	_, err = svc.End(ctx, 50)
	if !errors.Is(err, types.ErrNoActiveSession) {
		t.Fatalf("End twice: want ErrNoActiveSession got %v", err)
	}
	wantStatus(t, err, http.StatusNotFound)
}

func TestSessionEndWithoutProgressStillSucceeds(t *testing.T) {
	env := newServiceEnv(t)
	svc := NewSessionService(env.log, env.clk, env.sessions, env.progress, nil)
	ctx := userCtx(uuid.New())

	if _, _, err := svc.Start(ctx, "c"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := svc.End(ctx, 40); err != nil {
		t.Fatalf("End without progress record: %v", err)
	}
}

func TestSessionValidation(t *testing.T) {
	env := newServiceEnv(t)
	svc := NewSessionService(env.log, env.clk, env.sessions, env.progress, nil)

	_, _, err := svc.Start(userCtx(uuid.Nil), "c")
	wantStatus(t, err, http.StatusUnauthorized)

	_, _, err = svc.Start(userCtx(uuid.New()), "")
	wantStatus(t, err, http.StatusBadRequest)

	for _, score := range []int{-1, 101} {
		_, err = svc.End(userCtx(uuid.New()), score)
		wantStatus(t, err, http.StatusBadRequest)
	}

	_, err = svc.End(userCtx(uuid.New()), 70)
	wantStatus(t, err, http.StatusNotFound)
}

// duplicateOpenRepo reports two open sessions, which a store without a
// uniqueness guard can produce.
type duplicateOpenRepo struct {
	repos.SessionRepo
	open     []*types.Session
	replaced []uuid.UUID
	closed   []uuid.UUID
}

func (r *duplicateOpenRepo) ListOpen(dbctx.Context, uuid.UUID) ([]*types.Session, error) {
	return r.open, nil
}

func (r *duplicateOpenRepo) Replace(_ dbctx.Context, id uuid.UUID, contentID string, start time.Time) (*types.Session, error) {
	r.replaced = append(r.replaced, id)
	return &types.Session{ID: id, ContentID: contentID, StartTime: start}, nil
}

func (r *duplicateOpenRepo) Close(_ dbctx.Context, id uuid.UUID, end time.Time, score int) (*types.Session, error) {
	r.closed = append(r.closed, id)
	return &types.Session{ID: id, EndTime: &end, FocusScore: &score}, nil
}

func TestSessionOperatesOnFirstOfDuplicateOpenSessions(t *testing.T) {
	env := newServiceEnv(t)
	userID := uuid.New()
	now := env.clk.Now()
	repo := &duplicateOpenRepo{open: []*types.Session{
		types.NewSession(userID, "older", now.Add(-time.Hour)),
		types.NewSession(userID, "newer", now),
	}}
	svc := NewSessionService(env.log, env.clk, repo, env.progress, nil)
	ctx := userCtx(userID)

	if _, created, err := svc.Start(ctx, "next"); err != nil || created {
		t.Fatalf("Start: created=%v err=%v", created, err)
	}
	if _, err := svc.End(ctx, 90); err != nil {
		t.Fatalf("End: %v", err)
	}
	if len(repo.replaced) != 1 || repo.replaced[0] != repo.open[0].ID {
		t.Fatalf("replaced: want first session got %v", repo.replaced)
	}
	if len(repo.closed) != 1 || repo.closed[0] != repo.open[0].ID {
		t.Fatalf("closed: want first session got %v", repo.closed)
	}
}

// racingCreateRepo loses the insert race once: Create reports a conflict and
// the winner's session becomes visible to ListOpen.
type racingCreateRepo struct {
	repos.SessionRepo
	winner   *types.Session
	conflict bool
}

func (r *racingCreateRepo) ListOpen(dbctx.Context, uuid.UUID) ([]*types.Session, error) {
	if r.conflict {
		return []*types.Session{r.winner}, nil
	}
	return nil, nil
}

func (r *racingCreateRepo) Create(dbctx.Context, *types.Session) error {
	r.conflict = true
	return types.ErrConflict
}

func (r *racingCreateRepo) Replace(_ dbctx.Context, id uuid.UUID, contentID string, start time.Time) (*types.Session, error) {
	s := *r.winner
	s.ContentID = contentID
	s.StartTime = start
	return &s, nil
}

func TestSessionStartRetriesAsUpdateAfterConflict(t *testing.T) {
	env := newServiceEnv(t)
	userID := uuid.New()
	repo := &racingCreateRepo{winner: types.NewSession(userID, "winner", env.clk.Now())}
	svc := NewSessionService(env.log, env.clk, repo, env.progress, nil)

	s, created, err := svc.Start(userCtx(userID), "mine")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if created || s.ID != repo.winner.ID || s.ContentID != "mine" {
		t.Fatalf("Start: want update of winner got created=%v %+v", created, s)
	}
}
