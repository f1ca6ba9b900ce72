package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/devcred/devcred-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContributionRepository defines data access for logged contributions
type ContributionRepository interface {
	// CreateGated inserts the contribution and consumes the owner's
	// oldest unused accepted request in one transaction. Fails with
	// ErrNoGrant, creating nothing, when no such request exists.
	CreateGated(ctx context.Context, contribution *models.Contribution) error

	GetByID(ctx context.Context, id uint) (*models.Contribution, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Contribution, int64, error)
	Update(ctx context.Context, contribution *models.Contribution) error
	Delete(ctx context.Context, id, ownerID uint) error
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

// contributionRepository implements ContributionRepository using GORM
type contributionRepository struct {
	db *gorm.DB
}

// NewContributionRepository creates a new ContributionRepository instance
func NewContributionRepository(db *gorm.DB) ContributionRepository {
	return &contributionRepository{db: db}
}

// CreateGated re-checks the gate, inserts the contribution, and marks the
// consumed ledger entry used, atomically. Two concurrent calls with one
// eligible entry cannot both succeed: on PostgreSQL the candidate row is
// locked with FOR UPDATE, and the guarded update below rolls the loser
// back even without the lock.
func (r *contributionRepository) CreateGated(ctx context.Context, contribution *models.Contribution) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.
			Where("recipient_id = ? AND accepted = ? AND used = ?", contribution.UserID, true, false).
			Order("created_at ASC, id ASC")
		if tx.Dialector.Name() == "postgres" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var grant models.ContributionRequest
		if err := query.First(&grant).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoGrant
			}
			return fmt.Errorf("failed to find eligible request: %w", err)
		}

		if err := tx.Create(contribution).Error; err != nil {
			return fmt.Errorf("failed to create contribution: %w", err)
		}

		result := tx.Model(&models.ContributionRequest{}).
			Where("id = ? AND used = ?", grant.ID, false).
			Update("used", true)
		if result.Error != nil {
			return fmt.Errorf("failed to consume request: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			// Another transaction consumed the entry first; roll the
			// contribution back rather than create it unconsumed
			return ErrNoGrant
		}
		return nil
	})
}

// GetByID retrieves a contribution by its ID
func (r *contributionRepository) GetByID(ctx context.Context, id uint) (*models.Contribution, error) {
	var contribution models.Contribution
	result := r.db.WithContext(ctx).First(&contribution, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get contribution by ID: %w", result.Error)
	}
	return &contribution, nil
}

// ListByUser retrieves a user's contributions with pagination, newest first
func (r *contributionRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Contribution, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Contribution{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count contributions: %w", err)
	}

	var contributions []models.Contribution
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&contributions)
	if result.Error != nil {
		return nil, 0, fmt.Errorf("failed to list contributions: %w", result.Error)
	}
	return contributions, total, nil
}

// Update saves changes to an existing contribution
func (r *contributionRepository) Update(ctx context.Context, contribution *models.Contribution) error {
	result := r.db.WithContext(ctx).Save(contribution)
	if result.Error != nil {
		return fmt.Errorf("failed to update contribution: %w", result.Error)
	}
	return nil
}

// Delete removes a contribution owned by the given user
func (r *contributionRepository) Delete(ctx context.Context, id, ownerID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&models.Contribution{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete contribution: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByUser counts a user's contributions (their contribution score)
func (r *contributionRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Contribution{}).Where("user_id = ?", userID).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count contributions: %w", result.Error)
	}
	return count, nil
}
