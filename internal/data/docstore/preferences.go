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

type focusProfileDoc struct {
	ADHDLevel           int      `bson:"adhdLevel"`
	FocusIntensity      string   `bson:"focusIntensity"`
	SensoryNeeds        []string `bson:"sensoryNeeds"`
	RecommendedPomodoro int      `bson:"recommendedPomodoro"`
	PersonalizedInsight string   `bson:"personalizedInsight"`
}

type settingsDoc struct {
	FocusSessionLength string   `bson:"focusSessionLength"`
	BreakLength        string   `bson:"breakLength"`
	FocusBreakers      []string `bson:"focusBreakers"`
	PreferredOutput    string   `bson:"preferredOutput"`
	DetailLevel        string   `bson:"detailLevel"`
	ColorTheme         string   `bson:"colorTheme"`
	AudioSpeed         string   `bson:"audioSpeed"`
	VideoSpeed         string   `bson:"videoSpeed"`
	SessionStyle       string   `bson:"sessionStyle"`
	ProgressTracking   string   `bson:"progressTracking"`
	EnergyLevel        string   `bson:"energyLevel"`
	ScrollSpeed        string   `bson:"scrollSpeed"`
}

// preferencesDoc uses the user id as _id so an upsert can never duplicate.
type preferencesDoc struct {
	ID           string           `bson:"_id"`
	UserID       string           `bson:"userId"`
	Settings     settingsDoc      `bson:"settings"`
	AIEvaluation *focusProfileDoc `bson:"aiEvaluation,omitempty"`
	LastEdit     time.Time        `bson:"lastEdit"`
	CreatedAt    time.Time        `bson:"createdAt"`
	UpdatedAt    time.Time        `bson:"updatedAt"`
}

func (d preferencesDoc) preferences() (*types.Preferences, error) {
	userID, err := uuid.Parse(d.UserID)
	if err != nil {
		return nil, err
	}
	var profile *types.FocusProfile
	if ev := d.AIEvaluation; ev != nil {
		profile = &types.FocusProfile{
			ADHDLevel:           ev.ADHDLevel,
			FocusIntensity:      ev.FocusIntensity,
			SensoryNeeds:        ev.SensoryNeeds,
			RecommendedPomodoro: ev.RecommendedPomodoro,
			PersonalizedInsight: ev.PersonalizedInsight,
		}
	}
	p := types.NewPreferences(userID, types.PreferenceSettings(d.Settings), profile, d.LastEdit)
	p.CreatedAt = d.CreatedAt.UTC()
	p.UpdatedAt = d.UpdatedAt.UTC()
	return p, nil
}

type preferencesRepo struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewPreferencesRepo(s *Store, baseLog *logger.Logger) repos.PreferencesRepo {
	return &preferencesRepo{
		coll: s.db.Collection(preferencesCollection),
		log:  baseLog.With("repo", "MongoPreferencesRepo"),
	}
}

func (r *preferencesRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.Preferences, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	var doc preferencesDoc
	err := r.coll.FindOne(dbc.Context(), bson.M{"_id": userID.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.preferences()
}

func (r *preferencesRepo) Upsert(dbc dbctx.Context, p *types.Preferences) error {
	if p == nil {
		return errors.New("nil preferences")
	}
	set := bson.M{
		"userId":    p.UserID.String(),
		"settings":  settingsDoc(p.Settings.Data()),
		"lastEdit":  p.LastEdit.UTC(),
		"updatedAt": p.UpdatedAt.UTC(),
	}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"createdAt": p.CreatedAt.UTC()},
	}
	if f := p.Profile(); f != nil {
		set["aiEvaluation"] = focusProfileDoc(*f)
	} else {
		update["$unset"] = bson.M{"aiEvaluation": ""}
	}
	_, err := r.coll.UpdateOne(dbc.Context(), bson.M{"_id": p.UserID.String()}, update, options.Update().SetUpsert(true))
	return err
}
