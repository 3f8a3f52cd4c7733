package study

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/neurofocus-backend/internal/domain"
	"github.com/yungbote/neurofocus-backend/internal/platform/dbctx"
	"github.com/yungbote/neurofocus-backend/internal/platform/logger"
)

type PreferencesRepo interface {
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.Preferences, error)
	// Upsert inserts the user's record or replaces its settings and
	// evaluation, keeping the original CreatedAt.
	Upsert(dbc dbctx.Context, p *types.Preferences) error
}

type preferencesRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPreferencesRepo(db *gorm.DB, baseLog *logger.Logger) PreferencesRepo {
	return &preferencesRepo{
		db:  db,
		log: baseLog.With("repo", "PreferencesRepo"),
	}
}

func (r *preferencesRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.Preferences, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	var row types.Preferences
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

func (r *preferencesRepo) Upsert(dbc dbctx.Context, p *types.Preferences) error {
	if p == nil {
		return errors.New("nil preferences")
	}
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"settings", "evaluation", "last_edit", "updated_at"}),
		}).
		Create(p).Error
}
