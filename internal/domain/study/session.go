package study

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNoActiveSession is returned when a user has no session with end_time IS NULL.
	ErrNoActiveSession = errors.New("no active session")
	// ErrConflict is returned by stores when a uniqueness guard rejects a write.
	ErrConflict = errors.New("conflicting write")
)

// Session is one continuous content-viewing interval. At most one row per user
// has a nil EndTime.
type Session struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_study_session_user;uniqueIndex:idx_one_open_session,where:end_time IS NULL" json:"userId"`
	ContentID  string     `gorm:"not null;column:content_id" json:"contentId"`
	StartTime  time.Time  `gorm:"not null;column:start_time" json:"startTime"`
	EndTime    *time.Time `gorm:"column:end_time" json:"endTime"`
	FocusScore *int       `gorm:"column:focus_score" json:"focusScore"`
	Version    int        `gorm:"not null;default:1" json:"-"`
	CreatedAt  time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt  time.Time  `gorm:"not null" json:"updatedAt"`
}

func (Session) TableName() string { return "study_session" }

func (s *Session) IsOpen() bool { return s != nil && s.EndTime == nil }

// NewSession builds an open session starting at now.
func NewSession(userID uuid.UUID, contentID string, now time.Time) *Session {
	now = now.UTC()
	return &Session{
		ID:        uuid.New(),
		UserID:    userID,
		ContentID: contentID,
		StartTime: now,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
