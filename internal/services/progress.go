package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"

	"github.com/yungbote/neurofocus-backend/internal/data/repos"
	types "github.com/yungbote/neurofocus-backend/internal/domain"
	"github.com/yungbote/neurofocus-backend/internal/platform/apierr"
	"github.com/yungbote/neurofocus-backend/internal/platform/ctxutil"
	"github.com/yungbote/neurofocus-backend/internal/platform/dbctx"
	"github.com/yungbote/neurofocus-backend/internal/platform/logger"
	"github.com/yungbote/neurofocus-backend/internal/realtime"
)

var (
	ErrTopicRequired = apierr.BadRequest("invalid_request", errors.New("topic is required"))
	ErrNegativeXP    = apierr.BadRequest("invalid_request", errors.New("xp must not be negative"))
)

type ProgressService interface {
	// Touch loads the caller's progress, recomputing the daily streak.
	// created reports a first-ever load.
	Touch(ctx context.Context) (progress *types.Progress, created bool, err error)
	AddSkillXP(ctx context.Context, topic string, xp int, topics []string) (*types.Progress, error)
}

type progressService struct {
	log      *logger.Logger
	clk      clock.Clock
	progress repos.ProgressRepo
	emitter  SSEEmitter
	// loc decides which calendar day a load falls on. Defaults to UTC.
	loc *time.Location
}

func NewProgressService(log *logger.Logger, clk clock.Clock, loc *time.Location, progress repos.ProgressRepo, emitter SSEEmitter) ProgressService {
	if emitter == nil {
		emitter = NopEmitter{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &progressService{
		log:      log.With("service", "ProgressService"),
		clk:      clk,
		progress: progress,
		emitter:  emitter,
		loc:      loc,
	}
}

func (s *progressService) Touch(ctx context.Context) (*types.Progress, bool, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, false, ErrUnauthenticated
	}
	dbc := dbctx.Context{Ctx: ctx}
	now := s.clk.Now().In(s.loc)

	current, err := s.progress.GetByUserID(dbc, userID)
	if err != nil {
		return nil, false, fmt.Errorf("load progress: %w", err)
	}
	if current == nil {
		fresh := types.NewProgress(userID, now)
		err := s.progress.Create(dbc, fresh)
		if err == nil {
			s.log.Info("Created progress record", "user_id", userID)
			s.emit(ctx, userID, fresh)
			return fresh, true, nil
		}
		if !errors.Is(err, types.ErrConflict) {
			return nil, false, fmt.Errorf("create progress: %w", err)
		}
		// a concurrent first load won the insert; fall through to the update path
		if current, err = s.progress.GetByUserID(dbc, userID); err != nil {
			return nil, false, fmt.Errorf("reload progress: %w", err)
		}
		if current == nil {
			return nil, false, fmt.Errorf("reload progress: %w", types.ErrConflict)
		}
	}

	next := types.ApplyStreak(*current, now)
	if err := s.progress.SaveStreak(dbc, &next); err != nil {
		return nil, false, fmt.Errorf("save streak: %w", err)
	}
	if next.FocusStreak != current.FocusStreak {
		s.log.Debug("Streak changed", "user_id", userID, "from", current.FocusStreak, "to", next.FocusStreak)
	}
	s.emit(ctx, userID, &next)
	return &next, false, nil
}

func (s *progressService) AddSkillXP(ctx context.Context, topic string, xp int, topics []string) (*types.Progress, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrTopicRequired
	}
	if xp < 0 {
		return nil, ErrNegativeXP
	}
	p, _, err := s.Touch(ctx)
	if err != nil {
		return nil, err
	}
	p.AddSkillXP(topic, xp, topics)
	if err := s.progress.SaveSkills(dbctx.Context{Ctx: ctx}, p); err != nil {
		return nil, fmt.Errorf("save skills: %w", err)
	}
	s.emit(ctx, p.UserID, p)
	return p, nil
}

func (s *progressService) emit(ctx context.Context, userID uuid.UUID, p *types.Progress) {
	s.emitter.Emit(ctx, realtime.SSEMessage{Channel: UserChannel(userID), Event: realtime.SSEEventProgressUpdated, Data: p})
}
