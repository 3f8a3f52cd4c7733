package app

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/neurofocus-backend/internal/data/docstore"
	"github.com/yungbote/neurofocus-backend/internal/data/repos"
	"github.com/yungbote/neurofocus-backend/internal/platform/logger"
)

type Repos struct {
	User          repos.UserRepo
	Session       repos.SessionRepo
	Progress      repos.ProgressRepo
	ContentOutput repos.ContentOutputRepo
	Preferences   repos.PreferencesRepo
}

// wireRepos backs sessions, progress and preferences with Mongo when store is
// non-nil. Users and content outputs always live in the SQL database.
func wireRepos(db *gorm.DB, store *docstore.Store, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	out := Repos{
		User:          repos.NewUserRepo(db, log),
		Session:       repos.NewSessionRepo(db, log),
		Progress:      repos.NewProgressRepo(db, log),
		ContentOutput: repos.NewContentOutputRepo(db, log),
		Preferences:   repos.NewPreferencesRepo(db, log),
	}
	if store != nil {
		out.Session = docstore.NewSessionRepo(store, log)
		out.Progress = docstore.NewProgressRepo(store, log)
		out.Preferences = docstore.NewPreferencesRepo(store, log)
	}
	return out
}

func openDocStore(ctx context.Context, log *logger.Logger, cfg Config) (*docstore.Store, error) {
	if cfg.DocStore != DocStoreMongo {
		return nil, nil
	}
	return docstore.Open(ctx, log, cfg.Mongo)
}
