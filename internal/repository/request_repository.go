package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/devcred/devcred-backend/internal/models"
	"gorm.io/gorm"
)

// ContributionRequestRepository defines data access for the ledger of
// directed permission grants. A user may log a contribution only while
// they hold at least one accepted, unused entry.
type ContributionRequestRepository interface {
	// Send creates a direct request. It is deliberately non-idempotent:
	// a second send for the same (sender, recipient) pair fails with
	// ErrDuplicateEntry regardless of the existing entry's state.
	Send(ctx context.Context, senderID, recipientID uint) (*models.ContributionRequest, error)

	// Respond applies an accept or reject by the entry's recipient.
	// Accept sets accepted=true. Reject deletes direct entries but only
	// deauthorizes message-originated ones, so a later message accept
	// can re-enable them. Returns nil entry when the reject deleted it.
	Respond(ctx context.Context, id, actorID uint, action models.RequestAction) (*models.ContributionRequest, error)

	// UpsertFromMessage creates or updates the (sender, recipient)
	// entry, marking it message-originated. Idempotent; used only by
	// the message-action bridge.
	UpsertFromMessage(ctx context.Context, senderID, recipientID uint, accepted bool) (*models.ContributionRequest, error)

	// HasUnusedGrant reports whether the user currently holds an
	// accepted, unused entry. Pure read.
	HasUnusedGrant(ctx context.Context, userID uint) (bool, error)

	ListIncoming(ctx context.Context, userID uint) ([]models.ContributionRequest, error)
	ListOutgoing(ctx context.Context, userID uint) ([]models.ContributionRequest, error)
}

// requestRepository implements ContributionRequestRepository using GORM
type requestRepository struct {
	db *gorm.DB
}

// NewContributionRequestRepository creates a new ContributionRequestRepository instance
func NewContributionRequestRepository(db *gorm.DB) ContributionRequestRepository {
	return &requestRepository{db: db}
}

// Send creates a direct contribution request
func (r *requestRepository) Send(ctx context.Context, senderID, recipientID uint) (*models.ContributionRequest, error) {
	if senderID == recipientID {
		return nil, ErrSelfRequest
	}

	request := &models.ContributionRequest{
		SenderID:    senderID,
		RecipientID: recipientID,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.ContributionRequest
		err := tx.Where("sender_id = ? AND recipient_id = ?", senderID, recipientID).First(&existing).Error
		if err == nil {
			return ErrDuplicateEntry
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check for existing request: %w", err)
		}

		if err := tx.Create(request).Error; err != nil {
			// Unique index backstop for two concurrent sends
			if isDuplicateKeyError(err) {
				return ErrDuplicateEntry
			}
			return fmt.Errorf("failed to create request: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

// Respond applies the recipient's decision to a ledger entry
func (r *requestRepository) Respond(ctx context.Context, id, actorID uint, action models.RequestAction) (*models.ContributionRequest, error) {
	if !action.Valid() {
		return nil, ErrInvalidInput
	}

	var request models.ContributionRequest
	var deleted bool

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Scoping the lookup by recipient keeps entry ownership
		// unguessable: responding to someone else's entry is a 404
		err := tx.Where("id = ? AND recipient_id = ?", id, actorID).First(&request).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load request: %w", err)
		}

		switch action {
		case models.RequestActionAccept:
			request.Accepted = true
			if err := tx.Model(&request).Update("accepted", true).Error; err != nil {
				return fmt.Errorf("failed to accept request: %w", err)
			}

		case models.RequestActionReject:
			if request.ViaMessage {
				// Message-originated grants are retained so a later
				// message accept can re-authorize them
				request.Accepted = false
				if err := tx.Model(&request).Update("accepted", false).Error; err != nil {
					return fmt.Errorf("failed to reject request: %w", err)
				}
			} else {
				if err := tx.Delete(&request).Error; err != nil {
					return fmt.Errorf("failed to delete request: %w", err)
				}
				deleted = true
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if deleted {
		return nil, nil
	}
	return &request, nil
}

// UpsertFromMessage creates or updates the pair's ledger entry on behalf
// of the message-action bridge
func (r *requestRepository) UpsertFromMessage(ctx context.Context, senderID, recipientID uint, accepted bool) (*models.ContributionRequest, error) {
	var request *models.ContributionRequest
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		request, txErr = upsertRequestFromMessage(tx, senderID, recipientID, accepted)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

// upsertRequestFromMessage is shared with the message repository so the
// bridge can run inside the message-status transaction
func upsertRequestFromMessage(tx *gorm.DB, senderID, recipientID uint, accepted bool) (*models.ContributionRequest, error) {
	var request models.ContributionRequest
	err := tx.Where("sender_id = ? AND recipient_id = ?", senderID, recipientID).First(&request).Error
	if err == nil {
		request.Accepted = accepted
		request.ViaMessage = true
		if err := tx.Model(&request).Updates(map[string]interface{}{
			"accepted":    accepted,
			"via_message": true,
		}).Error; err != nil {
			return nil, fmt.Errorf("failed to update ledger entry: %w", err)
		}
		return &request, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up ledger entry: %w", err)
	}

	request = models.ContributionRequest{
		SenderID:    senderID,
		RecipientID: recipientID,
		Accepted:    accepted,
		ViaMessage:  true,
	}
	if err := tx.Create(&request).Error; err != nil {
		return nil, fmt.Errorf("failed to create ledger entry: %w", err)
	}
	return &request, nil
}

// deauthorizeMessageGrants flips accepted off on any message-originated
// entry for the pair. A no-op when none exists.
func deauthorizeMessageGrants(tx *gorm.DB, senderID, recipientID uint) error {
	result := tx.Model(&models.ContributionRequest{}).
		Where("sender_id = ? AND recipient_id = ? AND via_message = ?", senderID, recipientID, true).
		Update("accepted", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deauthorize ledger entry: %w", result.Error)
	}
	return nil
}

// HasUnusedGrant reports whether the user may currently log a contribution
func (r *requestRepository) HasUnusedGrant(ctx context.Context, userID uint) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.ContributionRequest{}).
		Where("recipient_id = ? AND accepted = ? AND used = ?", userID, true, false).
		Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("failed to check for unused grant: %w", result.Error)
	}
	return count > 0, nil
}

// ListIncoming retrieves entries addressed to the user, newest first
func (r *requestRepository) ListIncoming(ctx context.Context, userID uint) ([]models.ContributionRequest, error) {
	var requests []models.ContributionRequest
	result := r.db.WithContext(ctx).
		Where("recipient_id = ?", userID).
		Order("created_at DESC").
		Find(&requests)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list incoming requests: %w", result.Error)
	}
	return requests, nil
}

// ListOutgoing retrieves entries sent by the user, newest first
func (r *requestRepository) ListOutgoing(ctx context.Context, userID uint) ([]models.ContributionRequest, error) {
	var requests []models.ContributionRequest
	result := r.db.WithContext(ctx).
		Where("sender_id = ?", userID).
		Order("created_at DESC").
		Find(&requests)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list outgoing requests: %w", result.Error)
	}
	return requests, nil
}
