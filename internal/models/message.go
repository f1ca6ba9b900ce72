package models

import (
	"time"
)

// MessageStatus is the recipient's decision on a message
type MessageStatus string

const (
	MessageStatusPending  MessageStatus = "pending"
	MessageStatusAccepted MessageStatus = "accepted"
	MessageStatusRejected MessageStatus = "rejected"
)

// Message represents a direct message between two users. Accepting or
// rejecting a message drives the contribution-request ledger; only the
// recipient may change Read or Status.
type Message struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	SenderID       uint          `gorm:"not null;index" json:"sender_id"`
	RecipientID    uint          `gorm:"not null;index" json:"recipient_id"`
	Body           string        `gorm:"type:text" json:"body"`
	AttachmentPath string        `gorm:"size:512" json:"attachment_path,omitempty"`
	Read           bool          `gorm:"default:false" json:"read"`
	Status         MessageStatus `gorm:"size:10;default:pending" json:"status"`
	CreatedAt      time.Time     `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Sender    User `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"-"`
	Recipient User `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for Message
func (Message) TableName() string {
	return "messages"
}

// ConversationPartner is a user the current user has exchanged messages with
type ConversationPartner struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}
