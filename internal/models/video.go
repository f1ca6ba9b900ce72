package models

import (
	"time"
)

// MentoringVideo is an uploaded teaching video shown on profiles
type MentoringVideo struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Title       string    `gorm:"not null;size:100" json:"title"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	FilePath    string    `gorm:"not null;size:512" json:"file_path"`
	UploadedAt  time.Time `gorm:"autoCreateTime" json:"uploaded_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for MentoringVideo
func (MentoringVideo) TableName() string {
	return "mentoring_videos"
}
