package study

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Skill struct {
	XP     int      `json:"xp"`
	Topics []string `json:"topics"`
}

type Skills map[string]Skill

// Progress is the per-user streak and activity record.
type Progress struct {
	ID                uuid.UUID                  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            uuid.UUID                  `gorm:"type:uuid;not null;uniqueIndex" json:"userId"`
	FocusStreak       int                        `gorm:"not null;default:1" json:"focusStreak"`
	MaxStreak         int                        `gorm:"not null;default:1" json:"maxStreak"`
	CompletedSessions int                        `gorm:"not null;default:0" json:"completedSessions"`
	Skills            datatypes.JSONType[Skills] `json:"skills"`
	LastActive        time.Time                  `gorm:"not null" json:"lastActive"`
	LastStreakDate    string                     `gorm:"type:varchar(10);not null" json:"lastStreakDate"`
	CreatedAt         time.Time                  `gorm:"not null" json:"createdAt"`
	UpdatedAt         time.Time                  `gorm:"not null" json:"updatedAt"`
}

func (Progress) TableName() string { return "progress" }

// NewProgress is the record written on a user's first dashboard load.
func NewProgress(userID uuid.UUID, now time.Time) *Progress {
	return &Progress{
		ID:             userID,
		UserID:         userID,
		FocusStreak:    1,
		MaxStreak:      1,
		Skills:         datatypes.NewJSONType(Skills{}),
		LastActive:     now.UTC(),
		LastStreakDate: DateOf(now),
		CreatedAt:      now.UTC(),
		UpdatedAt:      now.UTC(),
	}
}

// AddSkillXP credits xp to topic and merges any new sub-topics.
func (p *Progress) AddSkillXP(topic string, xp int, topics []string) {
	skills := Skills{}
	for k, v := range p.Skills.Data() {
		skills[k] = v
	}
	entry := skills[topic]
	if xp > 0 {
		entry.XP += xp
	}
	seen := make(map[string]bool, len(entry.Topics))
	for _, t := range entry.Topics {
		seen[t] = true
	}
	for _, t := range topics {
		if t != "" && !seen[t] {
			entry.Topics = append(entry.Topics, t)
			seen[t] = true
		}
	}
	skills[topic] = entry
	p.Skills = datatypes.NewJSONType(skills)
}
