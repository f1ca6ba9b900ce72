package repository

import (
	"context"
	"fmt"

	"github.com/devcred/devcred-backend/internal/models"
	"gorm.io/gorm"
)

// EndorsementRepository defines the interface for endorsement data access
type EndorsementRepository interface {
	Create(ctx context.Context, endorsement *models.Endorsement) error
	ListForUser(ctx context.Context, userID uint) ([]models.Endorsement, error)
	CountForUser(ctx context.Context, userID uint) (int64, error)
}

// endorsementRepository implements EndorsementRepository using GORM
type endorsementRepository struct {
	db *gorm.DB
}

// NewEndorsementRepository creates a new EndorsementRepository instance
func NewEndorsementRepository(db *gorm.DB) EndorsementRepository {
	return &endorsementRepository{db: db}
}

// Create creates an endorsement; self-endorsement and duplicates are
// rejected. The explicit duplicate check covers general endorsements,
// whose NULL contribution_id the unique index treats as distinct.
func (r *endorsementRepository) Create(ctx context.Context, endorsement *models.Endorsement) error {
	if endorsement.EndorsedUserID == endorsement.EndorsedByID {
		return ErrSelfRequest
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&models.Endorsement{}).
			Where("endorsed_user_id = ? AND endorsed_by_id = ?", endorsement.EndorsedUserID, endorsement.EndorsedByID)
		if endorsement.ContributionID == nil {
			query = query.Where("contribution_id IS NULL")
		} else {
			query = query.Where("contribution_id = ?", *endorsement.ContributionID)
		}

		var count int64
		if err := query.Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check for existing endorsement: %w", err)
		}
		if count > 0 {
			return ErrDuplicateEntry
		}

		if err := tx.Create(endorsement).Error; err != nil {
			if isDuplicateKeyError(err) {
				return ErrDuplicateEntry
			}
			return fmt.Errorf("failed to create endorsement: %w", err)
		}
		return nil
	})
}

// ListForUser retrieves endorsements the user gave or received, newest first
func (r *endorsementRepository) ListForUser(ctx context.Context, userID uint) ([]models.Endorsement, error) {
	var endorsements []models.Endorsement
	result := r.db.WithContext(ctx).
		Where("endorsed_user_id = ? OR endorsed_by_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&endorsements)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list endorsements: %w", result.Error)
	}
	return endorsements, nil
}

// CountForUser counts endorsements received (the endorsement score)
func (r *endorsementRepository) CountForUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Endorsement{}).
		Where("endorsed_user_id = ?", userID).
		Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count endorsements: %w", result.Error)
	}
	return count, nil
}
