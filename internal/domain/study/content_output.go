package study

import (
	"time"

	"github.com/google/uuid"
)

type ContentStatus string

const (
	ContentStatusUploaded   ContentStatus = "UPLOADED"
	ContentStatusProcessing ContentStatus = "PROCESSING"
	ContentStatusReady      ContentStatus = "READY"
	ContentStatusFailed     ContentStatus = "FAILED"
)

func (s ContentStatus) Valid() bool {
	switch s {
	case ContentStatusUploaded, ContentStatusProcessing, ContentStatusReady, ContentStatusFailed:
		return true
	}
	return false
}

// ContentOutput tracks an uploaded study artifact and where its processed
// result lives in blob storage.
type ContentOutput struct {
	ID                 uuid.UUID     `gorm:"type:uuid;primaryKey" json:"contentId"`
	UserID             uuid.UUID     `gorm:"type:uuid;not null;index" json:"userId"`
	InputType          string        `gorm:"not null" json:"inputType"`
	RawStorageRef      string        `gorm:"not null" json:"rawStorageRef"`
	Status             ContentStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	OutputFormat       string        `json:"outputFormat,omitempty"`
	ProcessedBlobName  string        `json:"-"`
	ProcessedContainer string        `json:"-"`
	ErrorMessage       string        `json:"errorMessage,omitempty"`
	CreatedAt          time.Time     `gorm:"not null" json:"createdAt"`
	UpdatedAt          time.Time     `gorm:"not null" json:"updatedAt"`
}

func (ContentOutput) TableName() string { return "content_output" }

type ProcessedRef struct {
	BlobName  string `json:"blobName"`
	Container string `json:"container"`
}

// ContentOutputView is the public shape of a content output. Processed is only
// set once the output is READY.
type ContentOutputView struct {
	ContentID    uuid.UUID     `json:"contentId"`
	Status       ContentStatus `json:"status"`
	OutputFormat string        `json:"outputFormat"`
	Processed    *ProcessedRef `json:"processed,omitempty"`
	ErrorMessage string        `json:"errorMessage,omitempty"`
}

func (c *ContentOutput) View() ContentOutputView {
	v := ContentOutputView{
		ContentID:    c.ID,
		Status:       c.Status,
		OutputFormat: c.OutputFormat,
		ErrorMessage: c.ErrorMessage,
	}
	if c.Status == ContentStatusReady && c.ProcessedBlobName != "" {
		v.Processed = &ProcessedRef{BlobName: c.ProcessedBlobName, Container: c.ProcessedContainer}
	}
	return v
}
