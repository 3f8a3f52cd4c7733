package study

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PreferenceSettings are the study habits a user fills in on the dashboard.
type PreferenceSettings struct {
	FocusSessionLength string   `json:"focusSessionLength"`
	BreakLength        string   `json:"breakLength"`
	FocusBreakers      []string `json:"focusBreakers"`
	PreferredOutput    string   `json:"preferredOutput"`
	DetailLevel        string   `json:"detailLevel"`
	ColorTheme         string   `json:"colorTheme"`
	AudioSpeed         string   `json:"audioSpeed"`
	VideoSpeed         string   `json:"videoSpeed"`
	SessionStyle       string   `json:"sessionStyle"`
	ProgressTracking   string   `json:"progressTracking"`
	EnergyLevel        string   `json:"energyLevel"`
	ScrollSpeed        string   `json:"scrollSpeed"`
}

// FocusProfile is the model's reading of a user's settings.
type FocusProfile struct {
	ADHDLevel           int      `json:"adhdLevel"`
	FocusIntensity      string   `json:"focusIntensity"`
	SensoryNeeds        []string `json:"sensoryNeeds"`
	RecommendedPomodoro int      `json:"recommendedPomodoro"`
	PersonalizedInsight string   `json:"personalizedInsight"`
}

// Clamp pulls model output into the documented ranges.
func (f *FocusProfile) Clamp() {
	if f == nil {
		return
	}
	if f.ADHDLevel < 1 {
		f.ADHDLevel = 1
	}
	if f.ADHDLevel > 5 {
		f.ADHDLevel = 5
	}
	switch f.FocusIntensity {
	case "low", "moderate", "high":
	default:
		f.FocusIntensity = "moderate"
	}
	if f.RecommendedPomodoro < 0 {
		f.RecommendedPomodoro = 0
	}
	if f.SensoryNeeds == nil {
		f.SensoryNeeds = []string{}
	}
}

// Preferences is keyed by user: one record per user, replaced on every save.
type Preferences struct {
	ID         uuid.UUID                              `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID                              `gorm:"type:uuid;not null;uniqueIndex" json:"userId"`
	Settings   datatypes.JSONType[PreferenceSettings] `json:"settings"`
	Evaluation datatypes.JSONType[*FocusProfile]      `json:"aiEvaluation"`
	LastEdit   time.Time                              `gorm:"not null" json:"lastEdit"`
	CreatedAt  time.Time                              `gorm:"not null" json:"createdAt"`
	UpdatedAt  time.Time                              `gorm:"not null" json:"updatedAt"`
}

func (Preferences) TableName() string { return "user_preferences" }

// NewPreferences stamps a fresh record for userID. A nil profile leaves the
// evaluation empty.
func NewPreferences(userID uuid.UUID, settings PreferenceSettings, profile *FocusProfile, now time.Time) *Preferences {
	now = now.UTC()
	return &Preferences{
		ID:         userID,
		UserID:     userID,
		Settings:   datatypes.NewJSONType(settings),
		Evaluation: datatypes.NewJSONType(profile),
		LastEdit:   now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Profile returns the stored evaluation, or nil.
func (p *Preferences) Profile() *FocusProfile {
	if p == nil {
		return nil
	}
	return p.Evaluation.Data()
}
