package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/devcred/devcred-backend/internal/models"
	"gorm.io/gorm"
)

// MessageRepository defines the interface for message data access
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id uint) (*models.Message, error)
	ListForUser(ctx context.Context, userID uint, limit, offset int) ([]models.Message, int64, error)
	MarkAsRead(ctx context.Context, id, actorID uint) error
	Delete(ctx context.Context, id, actorID uint) error
	CountUnread(ctx context.Context, userID uint) (int64, error)
	ListConversationPartners(ctx context.Context, userID uint) ([]models.ConversationPartner, error)

	// ApplyAction is the bridge between messages and the contribution-
	// request ledger: accepting a message upserts a message-originated
	// grant for the (sender, recipient) pair, rejecting one deauthorizes
	// any such grant. Status change and ledger write share a transaction.
	ApplyAction(ctx context.Context, id, actorID uint, action models.RequestAction) (*models.Message, error)
}

// messageRepository implements MessageRepository using GORM
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository instance
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create creates a new message
func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	if message.SenderID == message.RecipientID {
		return ErrSelfRequest
	}
	result := r.db.WithContext(ctx).Create(message)
	if result.Error != nil {
		return fmt.Errorf("failed to create message: %w", result.Error)
	}
	return nil
}

// GetByID retrieves a message by its ID
func (r *messageRepository) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	var message models.Message
	result := r.db.WithContext(ctx).First(&message, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get message by ID: %w", result.Error)
	}
	return &message, nil
}

// ListForUser retrieves messages the user sent or received, newest first
func (r *messageRepository) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]models.Message, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	var messages []models.Message
	result := r.db.WithContext(ctx).
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages)
	if result.Error != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", result.Error)
	}
	return messages, total, nil
}

// MarkAsRead marks a message as read; only the recipient may do this
func (r *messageRepository) MarkAsRead(ctx context.Context, id, actorID uint) error {
	var message models.Message
	if err := r.db.WithContext(ctx).First(&message, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load message: %w", err)
	}
	if message.RecipientID != actorID {
		return ErrForbidden
	}

	result := r.db.WithContext(ctx).Model(&models.Message{}).Where("id = ?", id).Update("read", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark message as read: %w", result.Error)
	}
	return nil
}

// Delete removes a message; only a participant may do this
func (r *messageRepository) Delete(ctx context.Context, id, actorID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND (sender_id = ? OR recipient_id = ?)", id, actorID, actorID).
		Delete(&models.Message{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete message: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountUnread counts unread messages addressed to the user
func (r *messageRepository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("recipient_id = ? AND read = ?", userID, false).
		Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", result.Error)
	}
	return count, nil
}

// ListConversationPartners returns the distinct users the given user has
// exchanged messages with
func (r *messageRepository) ListConversationPartners(ctx context.Context, userID uint) ([]models.ConversationPartner, error) {
	var partners []models.ConversationPartner

	query := `
		SELECT DISTINCT u.id, u.username
		FROM users u
		JOIN messages m
		  ON (m.sender_id = u.id AND m.recipient_id = ?)
		  OR (m.recipient_id = u.id AND m.sender_id = ?)
		ORDER BY u.username ASC
	`

	if err := r.db.WithContext(ctx).Raw(query, userID, userID).Scan(&partners).Error; err != nil {
		return nil, fmt.Errorf("failed to list conversation partners: %w", err)
	}
	return partners, nil
}

// ApplyAction applies the recipient's accept/reject decision to a message
// and mirrors it into the contribution-request ledger
func (r *messageRepository) ApplyAction(ctx context.Context, id, actorID uint, action models.RequestAction) (*models.Message, error) {
	if !action.Valid() {
		return nil, ErrInvalidInput
	}

	var message models.Message
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&message, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load message: %w", err)
		}
		if message.RecipientID != actorID {
			return ErrForbidden
		}

		switch action {
		case models.RequestActionAccept:
			message.Status = models.MessageStatusAccepted
			if err := tx.Model(&models.Message{}).Where("id = ?", id).
				Update("status", models.MessageStatusAccepted).Error; err != nil {
				return fmt.Errorf("failed to accept message: %w", err)
			}
			if _, err := upsertRequestFromMessage(tx, message.SenderID, message.RecipientID, true); err != nil {
				return err
			}

		case models.RequestActionReject:
			message.Status = models.MessageStatusRejected
			if err := tx.Model(&models.Message{}).Where("id = ?", id).
				Update("status", models.MessageStatusRejected).Error; err != nil {
				return fmt.Errorf("failed to reject message: %w", err)
			}
			if err := deauthorizeMessageGrants(tx, message.SenderID, message.RecipientID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &message, nil
}
