package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"

	"github.com/yungbote/neurofocus-backend/internal/data/repos"
	"github.com/yungbote/neurofocus-backend/internal/data/repos/testutil"
	"github.com/yungbote/neurofocus-backend/internal/platform/apierr"
	"github.com/yungbote/neurofocus-backend/internal/platform/ctxutil"
	"github.com/yungbote/neurofocus-backend/internal/platform/logger"
	"github.com/yungbote/neurofocus-backend/internal/realtime"
)

type recordingEmitter struct {
	mu   sync.Mutex
	msgs []realtime.SSEMessage
}

func (e *recordingEmitter) Emit(_ context.Context, msg realtime.SSEMessage) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.msgs = append(e.msgs, msg)
}

func (e *recordingEmitter) events() []realtime.SSEEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]realtime.SSEEvent, 0, len(e.msgs))
	for _, m := range e.msgs {
		out = append(out, m.Event)
	}
	return out
}

type serviceEnv struct {
	log      *logger.Logger
	clk      *clock.Mock
	sessions repos.SessionRepo
	progress repos.ProgressRepo
	outputs  repos.ContentOutputRepo
	users    repos.UserRepo
	prefs    repos.PreferencesRepo
	emitter  *recordingEmitter
}

func newServiceEnv(t *testing.T) *serviceEnv {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	clk := clock.NewMock()
	clk.Add(time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC).Sub(clk.Now()))
	return &serviceEnv{
		log:      log,
		clk:      clk,
		sessions: repos.NewSessionRepo(db, log),
		progress: repos.NewProgressRepo(db, log),
		outputs:  repos.NewContentOutputRepo(db, log),
		users:    repos.NewUserRepo(db, log),
		prefs:    repos.NewPreferencesRepo(db, log),
		emitter:  &recordingEmitter{},
	}
}

func userCtx(userID uuid.UUID) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: userID})
}

func wantStatus(t *testing.T, err error, status int) {
	t.Helper()
	var ae *apierr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("error: want apierr with status %d got %v", status, err)
	}
	if ae.Status != status {
		t.Fatalf("status: want=%d got=%d (%v)", status, ae.Status, err)
	}
}
