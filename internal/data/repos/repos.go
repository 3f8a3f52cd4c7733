package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/neurofocus-backend/internal/data/repos/study"
	"github.com/yungbote/neurofocus-backend/internal/data/repos/user"
	"github.com/yungbote/neurofocus-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo

type SessionRepo = study.SessionRepo
type ProgressRepo = study.ProgressRepo
type ContentOutputRepo = study.ContentOutputRepo
type PreferencesRepo = study.PreferencesRepo

func NewUserRepo(db *gorm.DB, log *logger.Logger) UserRepo { return user.NewUserRepo(db, log) }

func NewSessionRepo(db *gorm.DB, log *logger.Logger) SessionRepo {
	return study.NewSessionRepo(db, log)
}

func NewProgressRepo(db *gorm.DB, log *logger.Logger) ProgressRepo {
	return study.NewProgressRepo(db, log)
}

func NewContentOutputRepo(db *gorm.DB, log *logger.Logger) ContentOutputRepo {
	return study.NewContentOutputRepo(db, log)
}

func NewPreferencesRepo(db *gorm.DB, log *logger.Logger) PreferencesRepo {
	return study.NewPreferencesRepo(db, log)
}
