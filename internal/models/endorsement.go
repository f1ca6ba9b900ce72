package models

import (
	"time"
)

// Endorsement is given by one user to another, optionally tied to a
// specific contribution. The same endorser cannot endorse the same user
// for the same contribution twice.
type Endorsement struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	EndorsedUserID uint      `gorm:"not null;uniqueIndex:idx_endorsement;index" json:"endorsed_user_id"`
	EndorsedByID   uint      `gorm:"not null;uniqueIndex:idx_endorsement" json:"endorsed_by_id"`
	ContributionID *uint     `gorm:"uniqueIndex:idx_endorsement" json:"contribution_id,omitempty"`
	Message        string    `gorm:"type:text" json:"message,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	EndorsedUser User          `gorm:"foreignKey:EndorsedUserID;constraint:OnDelete:CASCADE" json:"-"`
	EndorsedBy   User          `gorm:"foreignKey:EndorsedByID;constraint:OnDelete:CASCADE" json:"-"`
	Contribution *Contribution `gorm:"foreignKey:ContributionID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for Endorsement
func (Endorsement) TableName() string {
	return "endorsements"
}
