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

type ProgressRepo interface {
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.Progress, error)
	// Create fails with types.ErrConflict when the user already has a record.
	Create(dbc dbctx.Context, p *types.Progress) error
	// SaveStreak writes the streak columns only, leaving counters that other
	// requests increment untouched.
	SaveStreak(dbc dbctx.Context, p *types.Progress) error
	SaveSkills(dbc dbctx.Context, p *types.Progress) error
	IncrementCompletedSessions(dbc dbctx.Context, userID uuid.UUID) error
}

type progressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProgressRepo(db *gorm.DB, baseLog *logger.Logger) ProgressRepo {
	return &progressRepo{
		db:  db,
		log: baseLog.With("repo", "ProgressRepo"),
	}
}

func (r *progressRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.Progress, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	var row types.Progress
	if err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *progressRepo) Create(dbc dbctx.Context, p *types.Progress) error {
	if p == nil {
		return errors.New("nil progress")
	}
	if err := dbc.DB(r.db).Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return types.ErrConflict
		}
		return err
	}
	return nil
}

func (r *progressRepo) SaveStreak(dbc dbctx.Context, p *types.Progress) error {
	if p == nil {
		return errors.New("nil progress")
	}
	p.UpdatedAt = time.Now().UTC()
	return r.update(dbc, p.UserID, map[string]any{
		"focus_streak":     p.FocusStreak,
		"max_streak":       p.MaxStreak,
		"last_active":      p.LastActive,
		"last_streak_date": p.LastStreakDate,
		"updated_at":       p.UpdatedAt,
	})
}

func (r *progressRepo) SaveSkills(dbc dbctx.Context, p *types.Progress) error {
	if p == nil {
		return errors.New("nil progress")
	}
	p.UpdatedAt = time.Now().UTC()
	return r.update(dbc, p.UserID, map[string]any{
		"skills":     p.Skills,
		"updated_at": p.UpdatedAt,
	})
}

func (r *progressRepo) IncrementCompletedSessions(dbc dbctx.Context, userID uuid.UUID) error {
	return r.update(dbc, userID, map[string]any{
		"completed_sessions": gorm.Expr("completed_sessions + 1"),
		"updated_at":         time.Now().UTC(),
	})
}

func (r *progressRepo) update(dbc dbctx.Context, userID uuid.UUID, updates map[string]any) error {
	res := dbc.DB(r.db).
		Model(&types.Progress{}).
		Where("user_id = ?", userID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
