package docstore

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/datatypes"

	"github.com/yungbote/neurofocus-backend/internal/data/repos"
	types "github.com/yungbote/neurofocus-backend/internal/domain"
	"github.com/yungbote/neurofocus-backend/internal/platform/dbctx"
	"github.com/yungbote/neurofocus-backend/internal/platform/logger"
)

type skillDoc struct {
	XP     int      `bson:"xp"`
	Topics []string `bson:"topics"`
}

type progressDoc struct {
	ID                string              `bson:"_id"`
	UserID            string              `bson:"userId"`
	FocusStreak       int                 `bson:"focusStreak"`
	MaxStreak         int                 `bson:"maxStreak"`
	CompletedSessions int                 `bson:"completedSessions"`
	Skills            map[string]skillDoc `bson:"skills"`
	LastActive        time.Time           `bson:"lastActive"`
	LastStreakDate    string              `bson:"lastStreakDate"`
	CreatedAt         time.Time           `bson:"createdAt"`
	UpdatedAt         time.Time           `bson:"updatedAt"`
}

func skillsToDoc(s types.Skills) map[string]skillDoc {
	out := make(map[string]skillDoc, len(s))
	for k, v := range s {
		out[k] = skillDoc{XP: v.XP, Topics: v.Topics}
	}
	return out
}

func (d progressDoc) progress() (*types.Progress, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(d.UserID)
	if err != nil {
		return nil, err
	}
	skills := types.Skills{}
	for k, v := range d.Skills {
		skills[k] = types.Skill{XP: v.XP, Topics: v.Topics}
	}
	return &types.Progress{
		ID:                id,
		UserID:            userID,
		FocusStreak:       d.FocusStreak,
		MaxStreak:         d.MaxStreak,
		CompletedSessions: d.CompletedSessions,
		Skills:            datatypes.NewJSONType(skills),
		LastActive:        d.LastActive.UTC(),
		LastStreakDate:    d.LastStreakDate,
		CreatedAt:         d.CreatedAt.UTC(),
		UpdatedAt:         d.UpdatedAt.UTC(),
	}, nil
}

type progressRepo struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewProgressRepo(s *Store, baseLog *logger.Logger) repos.ProgressRepo {
	return &progressRepo{
		coll: s.db.Collection(progressCollection),
		log:  baseLog.With("repo", "MongoProgressRepo"),
	}
}

func (r *progressRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.Progress, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	var doc progressDoc
	err := r.coll.FindOne(dbc.Context(), bson.M{"userId": userID.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.progress()
}

func (r *progressRepo) Create(dbc dbctx.Context, p *types.Progress) error {
	if p == nil {
		return errors.New("nil progress")
	}
	doc := progressDoc{
		ID:                p.ID.String(),
		UserID:            p.UserID.String(),
		FocusStreak:       p.FocusStreak,
		MaxStreak:         p.MaxStreak,
		CompletedSessions: p.CompletedSessions,
		Skills:            skillsToDoc(p.Skills.Data()),
		LastActive:        p.LastActive.UTC(),
		LastStreakDate:    p.LastStreakDate,
		CreatedAt:         p.CreatedAt.UTC(),
		UpdatedAt:         p.UpdatedAt.UTC(),
	}
	if _, err := r.coll.InsertOne(dbc.Context(), doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return types.ErrConflict
		}
		return err
	}
	return nil
}

func (r *progressRepo) SaveStreak(dbc dbctx.Context, p *types.Progress) error {
	return r.update(dbc, p.UserID, bson.M{"$set": bson.M{
		"focusStreak":    p.FocusStreak,
		"maxStreak":      p.MaxStreak,
		"lastActive":     p.LastActive.UTC(),
		"lastStreakDate": p.LastStreakDate,
		"updatedAt":      time.Now().UTC(),
	}})
}

func (r *progressRepo) SaveSkills(dbc dbctx.Context, p *types.Progress) error {
	return r.update(dbc, p.UserID, bson.M{"$set": bson.M{
		"skills":    skillsToDoc(p.Skills.Data()),
		"updatedAt": time.Now().UTC(),
	}})
}

func (r *progressRepo) IncrementCompletedSessions(dbc dbctx.Context, userID uuid.UUID) error {
	return r.update(dbc, userID, bson.M{
		"$inc": bson.M{"completedSessions": 1},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (r *progressRepo) update(dbc dbctx.Context, userID uuid.UUID, update bson.M) error {
	res, err := r.coll.UpdateOne(dbc.Context(), bson.M{"userId": userID.String()}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
