package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/devcred/devcred-backend/internal/models"
	"github.com/devcred/devcred-backend/internal/storage"
	"gorm.io/gorm"
)

// VideoRepository defines the interface for mentoring-video data access
type VideoRepository interface {
	Create(ctx context.Context, video *models.MentoringVideo) error
	GetByID(ctx context.Context, id uint) (*models.MentoringVideo, error)
	List(ctx context.Context, limit, offset int) ([]models.MentoringVideo, int64, error)
	ListByUser(ctx context.Context, userID uint) ([]models.MentoringVideo, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
	Delete(ctx context.Context, id, ownerID uint) error
}

// videoRepository implements VideoRepository using GORM; deletes also
// remove the stored file
type videoRepository struct {
	db      *gorm.DB
	storage storage.FileStorage
}

// NewVideoRepository creates a new VideoRepository instance
func NewVideoRepository(db *gorm.DB, fileStorage storage.FileStorage) VideoRepository {
	return &videoRepository{db: db, storage: fileStorage}
}

// Create records an uploaded video
func (r *videoRepository) Create(ctx context.Context, video *models.MentoringVideo) error {
	result := r.db.WithContext(ctx).Create(video)
	if result.Error != nil {
		return fmt.Errorf("failed to create video: %w", result.Error)
	}
	return nil
}

// GetByID retrieves a video by its ID
func (r *videoRepository) GetByID(ctx context.Context, id uint) (*models.MentoringVideo, error) {
	var video models.MentoringVideo
	result := r.db.WithContext(ctx).First(&video, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get video by ID: %w", result.Error)
	}
	return &video, nil
}

// List retrieves all videos with pagination, newest first
func (r *videoRepository) List(ctx context.Context, limit, offset int) ([]models.MentoringVideo, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.MentoringVideo{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count videos: %w", err)
	}

	var videos []models.MentoringVideo
	result := r.db.WithContext(ctx).
		Order("uploaded_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&videos)
	if result.Error != nil {
		return nil, 0, fmt.Errorf("failed to list videos: %w", result.Error)
	}
	return videos, total, nil
}

// ListByUser retrieves a user's videos, newest first
func (r *videoRepository) ListByUser(ctx context.Context, userID uint) ([]models.MentoringVideo, error) {
	var videos []models.MentoringVideo
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("uploaded_at DESC").
		Find(&videos)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list videos: %w", result.Error)
	}
	return videos, nil
}

// CountByUser counts a user's uploaded videos
func (r *videoRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.MentoringVideo{}).Where("user_id = ?", userID).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count videos: %w", result.Error)
	}
	return count, nil
}

// Delete removes a video owned by the given user along with its file
func (r *videoRepository) Delete(ctx context.Context, id, ownerID uint) error {
	var video models.MentoringVideo
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).First(&video).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load video: %w", err)
	}

	if err := r.db.WithContext(ctx).Delete(&video).Error; err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}

	// The row is gone; a stale file on disk is not worth failing over
	if video.FilePath != "" && r.storage != nil {
		_ = r.storage.Delete(video.FilePath)
	}
	return nil
}
