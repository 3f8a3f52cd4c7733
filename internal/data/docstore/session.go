package docstore

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yungbote/neurofocus-backend/internal/data/repos"
	types "github.com/yungbote/neurofocus-backend/internal/domain"
	"github.com/yungbote/neurofocus-backend/internal/platform/dbctx"
	"github.com/yungbote/neurofocus-backend/internal/platform/logger"
)

type sessionDoc struct {
	ID         string     `bson:"_id"`
	UserID     string     `bson:"userId"`
	ContentID  string     `bson:"contentId"`
	StartTime  time.Time  `bson:"startTime"`
	EndTime    *time.Time `bson:"endTime"`
	FocusScore *int       `bson:"focusScore"`
	Open       bool       `bson:"open"`
	Version    int        `bson:"version"`
	CreatedAt  time.Time  `bson:"createdAt"`
	UpdatedAt  time.Time  `bson:"updatedAt"`
}

func toSessionDoc(s *types.Session) sessionDoc {
	return sessionDoc{
		ID:         s.ID.String(),
		UserID:     s.UserID.String(),
		ContentID:  s.ContentID,
		StartTime:  s.StartTime.UTC(),
		EndTime:    s.EndTime,
		FocusScore: s.FocusScore,
		Open:       s.EndTime == nil,
		Version:    s.Version,
		CreatedAt:  s.CreatedAt.UTC(),
		UpdatedAt:  s.UpdatedAt.UTC(),
	}
}

func (d sessionDoc) session() (*types.Session, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(d.UserID)
	if err != nil {
		return nil, err
	}
	return &types.Session{
		ID:         id,
		UserID:     userID,
		ContentID:  d.ContentID,
		StartTime:  d.StartTime.UTC(),
		EndTime:    d.EndTime,
		FocusScore: d.FocusScore,
		Version:    d.Version,
		CreatedAt:  d.CreatedAt.UTC(),
		UpdatedAt:  d.UpdatedAt.UTC(),
	}, nil
}

type sessionRepo struct {
	coll *mongo.Collection
	log  *logger.Logger
}

// NewSessionRepo stores sessions partitioned by userId.
func NewSessionRepo(s *Store, baseLog *logger.Logger) repos.SessionRepo {
	return &sessionRepo{
		coll: s.db.Collection(sessionCollection),
		log:  baseLog.With("repo", "MongoSessionRepo"),
	}
}

func (r *sessionRepo) ListOpen(dbc dbctx.Context, userID uuid.UUID) ([]*types.Session, error) {
	return r.find(dbc, bson.M{"userId": userID.String(), "open": true},
		options.Find().SetSort(bson.D{{Key: "startTime", Value: 1}}))
}

func (r *sessionRepo) Create(dbc dbctx.Context, s *types.Session) error {
	if s == nil {
		return errors.New("nil session")
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Version == 0 {
		s.Version = 1
	}
	if _, err := r.coll.InsertOne(dbc.Context(), toSessionDoc(s)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return types.ErrConflict
		}
		return err
	}
	return nil
}

func (r *sessionRepo) Replace(dbc dbctx.Context, id uuid.UUID, contentID string, startTime time.Time) (*types.Session, error) {
	return r.updateOpen(dbc, id, bson.M{
		"contentId": contentID,
		"startTime": startTime.UTC(),
		"updatedAt": time.Now().UTC(),
	})
}

func (r *sessionRepo) Close(dbc dbctx.Context, id uuid.UUID, endTime time.Time, focusScore int) (*types.Session, error) {
	return r.updateOpen(dbc, id, bson.M{
		"endTime":    endTime.UTC(),
		"focusScore": focusScore,
		"open":       false,
		"updatedAt":  time.Now().UTC(),
	})
}

func (r *sessionRepo) updateOpen(dbc dbctx.Context, id uuid.UUID, set bson.M) (*types.Session, error) {
	var doc sessionDoc
	err := r.coll.FindOneAndUpdate(
		dbc.Context(),
		bson.M{"_id": id.String(), "open": true},
		bson.M{"$set": set, "$inc": bson.M{"version": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, types.ErrNoActiveSession
	}
	if err != nil {
		return nil, err
	}
	return doc.session()
}

func (r *sessionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Session, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var doc sessionDoc
	err := r.coll.FindOne(dbc.Context(), bson.M{"_id": id.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.session()
}

func (r *sessionRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.Session, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return r.find(dbc, bson.M{"userId": userID.String()},
		options.Find().SetSort(bson.D{{Key: "startTime", Value: -1}}).SetLimit(int64(limit)))
}

func (r *sessionRepo) find(dbc dbctx.Context, filter bson.M, opts *options.FindOptions) ([]*types.Session, error) {
	cur, err := r.coll.Find(dbc.Context(), filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []sessionDoc
	if err := cur.All(dbc.Context(), &docs); err != nil {
		return nil, err
	}
	out := make([]*types.Session, 0, len(docs))
	for _, d := range docs {
		s, err := d.session()
		if err != nil {
			r.log.Warn("Skipping malformed session document", "session_id", d.ID, "error", err)
			continue
		}
		out = append(out, s)
	}
	return out, nil
}
