package study

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/neurofocus-backend/internal/domain"
	"github.com/yungbote/neurofocus-backend/internal/platform/dbctx"
	"github.com/yungbote/neurofocus-backend/internal/platform/logger"
)

type SessionRepo interface {
	// ListOpen returns the user's sessions with no end time, oldest first.
	ListOpen(dbc dbctx.Context, userID uuid.UUID) ([]*types.Session, error)
	// Create inserts an open session. A second open session for the same user
	// fails with types.ErrConflict.
	Create(dbc dbctx.Context, s *types.Session) error
	// Replace points an open session at new content. It fails with
	// types.ErrNoActiveSession when the row was closed in the meantime.
	Replace(dbc dbctx.Context, id uuid.UUID, contentID string, startTime time.Time) (*types.Session, error)
	// Close finalises an open session, same failure mode as Replace.
	Close(dbc dbctx.Context, id uuid.UUID, endTime time.Time, focusScore int) (*types.Session, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Session, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.Session, error)
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return &sessionRepo{
		db:  db,
		log: baseLog.With("repo", "SessionRepo"),
	}
}

func (r *sessionRepo) ListOpen(dbc dbctx.Context, userID uuid.UUID) ([]*types.Session, error) {
	var out []*types.Session
	if userID == uuid.Nil {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("user_id = ? AND end_time IS NULL", userID).
		Order("start_time ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sessionRepo) Create(dbc dbctx.Context, s *types.Session) error {
	if s == nil {
		return errors.New("nil session")
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if err := dbc.DB(r.db).Create(s).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return types.ErrConflict
		}
		return err
	}
	return nil
}

func (r *sessionRepo) Replace(dbc dbctx.Context, id uuid.UUID, contentID string, startTime time.Time) (*types.Session, error) {
	return r.updateOpen(dbc, id, map[string]any{
		"content_id": contentID,
		"start_time": startTime.UTC(),
		"updated_at": time.Now().UTC(),
		"version":    gorm.Expr("version + 1"),
	})
}

func (r *sessionRepo) Close(dbc dbctx.Context, id uuid.UUID, endTime time.Time, focusScore int) (*types.Session, error) {
	return r.updateOpen(dbc, id, map[string]any{
		"end_time":    endTime.UTC(),
		"focus_score": focusScore,
		"updated_at":  time.Now().UTC(),
		"version":     gorm.Expr("version + 1"),
	})
}

// updateOpen applies updates only while the row is still open, so a
// concurrent end or replace cannot be silently overwritten.
func (r *sessionRepo) updateOpen(dbc dbctx.Context, id uuid.UUID, updates map[string]any) (*types.Session, error) {
	res := dbc.DB(r.db).
		Model(&types.Session{}).
		Where("id = ? AND end_time IS NULL", id).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, types.ErrNoActiveSession
	}
	return r.GetByID(dbc, id)
}

func (r *sessionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Session, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Session
	if err := dbc.DB(r.db).
		Where("id = ?", id).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *sessionRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.Session, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var out []*types.Session
	if err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Order("start_time DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
