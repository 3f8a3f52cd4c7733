package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/neurofocus-backend/internal/data/repos"
	types "github.com/yungbote/neurofocus-backend/internal/domain"
	"github.com/yungbote/neurofocus-backend/internal/observability"
	"github.com/yungbote/neurofocus-backend/internal/platform/apierr"
	"github.com/yungbote/neurofocus-backend/internal/platform/ctxutil"
	"github.com/yungbote/neurofocus-backend/internal/platform/dbctx"
	"github.com/yungbote/neurofocus-backend/internal/platform/logger"
	"github.com/yungbote/neurofocus-backend/internal/realtime"
)

var (
	ErrUnauthenticated   = apierr.Unauthorized("unauthorized", errors.New("missing or invalid token"))
	ErrContentIDRequired = apierr.BadRequest("invalid_request", errors.New("contentId is required"))
	ErrInvalidFocusScore = apierr.BadRequest("invalid_request", errors.New("focusScore must be between 0 and 100"))
	ErrNoActiveSession   = apierr.NotFound("no_active_session", types.ErrNoActiveSession).WithMessage("No active session found")
)

// startAttempts bounds the update-or-create loop when a concurrent request
// closes or opens the user's session between the lookup and the write.
const startAttempts = 3

var tracer = observability.Tracer("services")

type SessionService interface {
	// Start opens a session for contentID, or repoints the user's open
	// session at it. created reports whether a new record was written.
	Start(ctx context.Context, contentID string) (session *types.Session, created bool, err error)
	// End closes the open session with the final focus score.
	End(ctx context.Context, focusScore int) (*types.Session, error)
	History(ctx context.Context, limit int) ([]*types.Session, error)
}

type sessionService struct {
	log      *logger.Logger
	clk      clock.Clock
	sessions repos.SessionRepo
	progress repos.ProgressRepo
	emitter  SSEEmitter
}

func NewSessionService(
	log *logger.Logger,
	clk clock.Clock,
	sessions repos.SessionRepo,
	progress repos.ProgressRepo,
	emitter SSEEmitter,
) SessionService {
	if emitter == nil {
		emitter = NopEmitter{}
	}
	return &sessionService{
		log:      log.With("service", "SessionService"),
		clk:      clk,
		sessions: sessions,
		progress: progress,
		emitter:  emitter,
	}
}

func (s *sessionService) Start(ctx context.Context, contentID string) (*types.Session, bool, error) {
	ctx, span := tracer.Start(ctx, "SessionService.Start")
	defer span.End()

	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, false, ErrUnauthenticated
	}
	if contentID == "" {
		return nil, false, ErrContentIDRequired
	}
	dbc := dbctx.Context{Ctx: ctx}

	for attempt := 0; attempt < startAttempts; attempt++ {
		now := s.clk.Now().UTC()
		open, err := s.openSession(dbc, userID)
		if err != nil {
			return nil, false, err
		}
		if open != nil {
			updated, err := s.sessions.Replace(dbc, open.ID, contentID, now)
			if errors.Is(err, types.ErrNoActiveSession) {
				s.log.Debug("Open session closed during start, retrying", "user_id", userID, "session_id", open.ID)
				continue
			}
			if err != nil {
				return nil, false, fmt.Errorf("update open session: %w", err)
			}
			span.SetAttributes(attribute.Bool("session.created", false), attribute.Int("session.attempt", attempt))
			s.emit(ctx, userID, realtime.SSEEventSessionUpdated, updated)
			return updated, false, nil
		}

		session := types.NewSession(userID, contentID, now)
		err = s.sessions.Create(dbc, session)
		if errors.Is(err, types.ErrConflict) {
			s.log.Debug("Concurrent session start, retrying as update", "user_id", userID)
			continue
		}
		if err != nil {
			return nil, false, fmt.Errorf("create session: %w", err)
		}
		span.SetAttributes(attribute.Bool("session.created", true), attribute.Int("session.attempt", attempt))
		s.emit(ctx, userID, realtime.SSEEventSessionStarted, session)
		return session, true, nil
	}
	return nil, false, fmt.Errorf("start session: %w", types.ErrConflict)
}

func (s *sessionService) End(ctx context.Context, focusScore int) (*types.Session, error) {
	ctx, span := tracer.Start(ctx, "SessionService.End")
	defer span.End()

	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	if focusScore < 0 || focusScore > 100 {
		return nil, ErrInvalidFocusScore
	}
	dbc := dbctx.Context{Ctx: ctx}

	open, err := s.openSession(dbc, userID)
	if err != nil {
		return nil, err
	}
	if open == nil {
		return nil, ErrNoActiveSession
	}
	closed, err := s.sessions.Close(dbc, open.ID, s.clk.Now().UTC(), focusScore)
	if errors.Is(err, types.ErrNoActiveSession) {
		return nil, ErrNoActiveSession
	}
	if err != nil {
		return nil, fmt.Errorf("close session: %w", err)
	}

	if err := s.progress.IncrementCompletedSessions(dbc, userID); err != nil {
		s.log.Warn("Failed to count completed session", "user_id", userID, "session_id", closed.ID, "error", err)
	}
	s.emit(ctx, userID, realtime.SSEEventSessionEnded, closed)
	return closed, nil
}

func (s *sessionService) History(ctx context.Context, limit int) ([]*types.Session, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	return s.sessions.ListByUser(dbctx.Context{Ctx: ctx}, userID, limit)
}

// openSession returns the oldest open session. More than one open record is
// tolerated and logged.
func (s *sessionService) openSession(dbc dbctx.Context, userID uuid.UUID) (*types.Session, error) {
	open, err := s.sessions.ListOpen(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("find open session: %w", err)
	}
	if len(open) == 0 {
		return nil, nil
	}
	if len(open) > 1 {
		s.log.Warn("Multiple open sessions for user, using the first", "user_id", userID, "count", len(open))
	}
	return open[0], nil
}

func (s *sessionService) emit(ctx context.Context, userID uuid.UUID, event realtime.SSEEvent, data any) {
	s.emitter.Emit(ctx, realtime.SSEMessage{Channel: UserChannel(userID), Event: event, Data: data})
}
