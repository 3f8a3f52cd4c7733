package docstore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yungbote/neurofocus-backend/internal/platform/logger"
)

const (
	sessionCollection     = "sessions"
	progressCollection    = "progress"
	preferencesCollection = "preferences"
)

type Config struct {
	URI      string
	Database string
}

// Store holds the Mongo client backing the session, progress and preference
// documents.
type Store struct {
	log    *logger.Logger
	client *mongo.Client
	db     *mongo.Database
}

func Open(ctx context.Context, log *logger.Logger, cfg Config) (*Store, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("missing MONGO_URI")
	}
	if cfg.Database == "" {
		cfg.Database = "neurofocus"
	}
	storeLog := log.With("service", "DocStore")

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	storeLog.Info("Connected to MongoDB", "database", cfg.Database)

	s := &Store{log: storeLog, client: client, db: client.Database(cfg.Database)}
	if err := s.EnsureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// EnsureIndexes creates the partition and uniqueness indexes. At most one
// session per user may carry open=true.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(sessionCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "startTime", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().
				SetName("one_open_session").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"open": true}),
		},
	})
	if err != nil {
		return fmt.Errorf("session indexes: %w", err)
	}
	_, err = s.db.Collection(progressCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("progress indexes: %w", err)
	}
	return nil
}

func (s *Store) Database() *mongo.Database { return s.db }

func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
