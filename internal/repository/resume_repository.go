package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/devcred/devcred-backend/internal/models"
	"gorm.io/gorm"
)

// ResumeRepository defines the interface for resume-entry data access
type ResumeRepository interface {
	Create(ctx context.Context, entry *models.ResumeEntry) error
	GetOwned(ctx context.Context, id, ownerID uint) (*models.ResumeEntry, error)
	ListByUser(ctx context.Context, userID uint) ([]models.ResumeEntry, error)
	ExistsForUser(ctx context.Context, userID uint) (bool, error)
}

// resumeRepository implements ResumeRepository using GORM
type resumeRepository struct {
	db *gorm.DB
}

// NewResumeRepository creates a new ResumeRepository instance
func NewResumeRepository(db *gorm.DB) ResumeRepository {
	return &resumeRepository{db: db}
}

// Create stores a generated resume
func (r *resumeRepository) Create(ctx context.Context, entry *models.ResumeEntry) error {
	result := r.db.WithContext(ctx).Create(entry)
	if result.Error != nil {
		return fmt.Errorf("failed to create resume entry: %w", result.Error)
	}
	return nil
}

// GetOwned retrieves a resume entry belonging to the given user
func (r *resumeRepository) GetOwned(ctx context.Context, id, ownerID uint) (*models.ResumeEntry, error) {
	var entry models.ResumeEntry
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).First(&entry)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get resume entry: %w", result.Error)
	}
	return &entry, nil
}

// ListByUser retrieves a user's resume entries, newest first
func (r *resumeRepository) ListByUser(ctx context.Context, userID uint) ([]models.ResumeEntry, error) {
	var entries []models.ResumeEntry
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&entries)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list resume entries: %w", result.Error)
	}
	return entries, nil
}

// ExistsForUser reports whether the user has ever generated a resume
func (r *resumeRepository) ExistsForUser(ctx context.Context, userID uint) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.ResumeEntry{}).Where("user_id = ?", userID).Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("failed to check resume entries: %w", result.Error)
	}
	return count > 0, nil
}
