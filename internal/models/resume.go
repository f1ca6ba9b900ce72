package models

import (
	"time"
)

// ResumeEntry stores one generated resume together with the language
// model that produced it and the rendered PDF, if any
type ResumeEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	ModelUsed string    `gorm:"size:64" json:"model_used,omitempty"`
	PDFPath   string    `gorm:"size:512" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for ResumeEntry
func (ResumeEntry) TableName() string {
	return "resume_entries"
}
