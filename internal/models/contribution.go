package models

import (
	"time"
)

// ContributionType is the closed set of work categories a user may log
type ContributionType string

const (
	ContributionTypeCode       ContributionType = "code"
	ContributionTypeBugfix     ContributionType = "bugfix"
	ContributionTypeDocs       ContributionType = "docs"
	ContributionTypeMentorship ContributionType = "mentorship"
	ContributionTypeResume     ContributionType = "resume"
	ContributionTypeCommunity  ContributionType = "community"
	ContributionTypeCodeReview ContributionType = "codereview"
)

// ValidContributionTypes maps every allowed contribution type
var ValidContributionTypes = map[ContributionType]bool{
	ContributionTypeCode:       true,
	ContributionTypeBugfix:     true,
	ContributionTypeDocs:       true,
	ContributionTypeMentorship: true,
	ContributionTypeResume:     true,
	ContributionTypeCommunity:  true,
	ContributionTypeCodeReview: true,
}

// Contribution is a logged work item. Creation is gated: the owner must
// hold an unused accepted contribution request, which is consumed in the
// same transaction that inserts the row.
type Contribution struct {
	ID               uint             `gorm:"primaryKey" json:"id"`
	UserID           uint             `gorm:"not null;index" json:"user_id"`
	Title            string           `gorm:"not null;size:255" json:"title"`
	Description      string           `gorm:"type:text" json:"description,omitempty"`
	ContributionType ContributionType `gorm:"not null;size:32" json:"contribution_type"`
	ProofURL         string           `gorm:"size:512" json:"proof_url,omitempty"`
	IsPublic         bool             `gorm:"default:true" json:"is_public"`
	CreatedAt        time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for Contribution
func (Contribution) TableName() string {
	return "contributions"
}

// ContributionRequest is a directed permission grant: once the recipient
// has accepted it, they may log exactly one contribution against it.
// The (sender, recipient) pair is unique so the message-accept upsert
// always targets a single row.
type ContributionRequest struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SenderID    uint      `gorm:"not null;uniqueIndex:idx_request_pair" json:"sender_id"`
	RecipientID uint      `gorm:"not null;uniqueIndex:idx_request_pair;index" json:"recipient_id"`
	Accepted    bool      `gorm:"default:false" json:"accepted"`
	Used        bool      `gorm:"default:false" json:"used"`
	ViaMessage  bool      `gorm:"default:false" json:"via_message"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Sender    User `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"-"`
	Recipient User `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for ContributionRequest
func (ContributionRequest) TableName() string {
	return "contribution_requests"
}
