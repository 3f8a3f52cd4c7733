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

type ContentOutputRepo interface {
	Create(dbc dbctx.Context, c *types.ContentOutput) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ContentOutput, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error
}

type contentOutputRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContentOutputRepo(db *gorm.DB, baseLog *logger.Logger) ContentOutputRepo {
	return &contentOutputRepo{db: db, log: baseLog.With("repo", "ContentOutputRepo")}
}

func (r *contentOutputRepo) Create(dbc dbctx.Context, c *types.ContentOutput) error {
	if c == nil {
		return errors.New("nil content output")
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return dbc.DB(r.db).Create(c).Error
}

func (r *contentOutputRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ContentOutput, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.ContentOutput
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *contentOutputRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error {
	if id == uuid.Nil {
		return nil
	}
	if updates == nil {
		updates = map[string]any{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	res := dbc.DB(r.db).
		Model(&types.ContentOutput{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
