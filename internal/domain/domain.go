package domain

import (
	"github.com/yungbote/neurofocus-backend/internal/domain/study"
	"github.com/yungbote/neurofocus-backend/internal/domain/user"
)

type User = user.User

type Session = study.Session
type Progress = study.Progress
type Skill = study.Skill
type Skills = study.Skills
type ContentOutput = study.ContentOutput
type ContentOutputView = study.ContentOutputView
type ContentStatus = study.ContentStatus
type ProcessedRef = study.ProcessedRef
type Quiz = study.Quiz
type QuizQuestion = study.QuizQuestion
type QuizOption = study.QuizOption
type Preferences = study.Preferences
type PreferenceSettings = study.PreferenceSettings
type FocusProfile = study.FocusProfile

const (
	ContentStatusUploaded   = study.ContentStatusUploaded
	ContentStatusProcessing = study.ContentStatusProcessing
	ContentStatusReady      = study.ContentStatusReady
	ContentStatusFailed     = study.ContentStatusFailed
)

var (
	NewSession  = study.NewSession
	NewProgress = study.NewProgress
	ApplyStreak = study.ApplyStreak

	NewPreferences = study.NewPreferences
)

var (
	ErrNoActiveSession = study.ErrNoActiveSession
	ErrConflict        = study.ErrConflict
)

// Models lists every GORM-managed table, in migration order.
func Models() []interface{} {
	return []interface{}{
		&User{},
		&Session{},
		&Progress{},
		&ContentOutput{},
		&Preferences{},
	}
}
