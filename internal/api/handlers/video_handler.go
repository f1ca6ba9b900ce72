package handlers

import (
	"errors"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/devcred/devcred-backend/internal/api/middleware"
	"github.com/devcred/devcred-backend/internal/api/response"
	"github.com/devcred/devcred-backend/internal/logger"
	"github.com/devcred/devcred-backend/internal/models"
	"github.com/devcred/devcred-backend/internal/repository"
	"github.com/devcred/devcred-backend/internal/storage"
	"github.com/devcred/devcred-backend/internal/validator"
	"github.com/labstack/echo/v4"
)

// VideoHandler handles mentoring video uploads and streaming
type VideoHandler struct {
	videoRepo repository.VideoRepository
	storage   storage.FileStorage
	secLog    *logger.SecurityLogger
}

// NewVideoHandler creates a new VideoHandler
func NewVideoHandler(videoRepo repository.VideoRepository, fileStorage storage.FileStorage, secLog *logger.SecurityLogger) *VideoHandler {
	return &VideoHandler{
		videoRepo: videoRepo,
		storage:   fileStorage,
		secLog:    secLog,
	}
}

// Upload handles POST /api/videos (multipart form)
func (h *VideoHandler) Upload(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	title := validator.SanitizeString(c.FormValue("title"), 100)
	if title == "" {
		return response.BadRequest(c, "title is required")
	}
	description := validator.SanitizeString(c.FormValue("description"), 10000)

	file, err := c.FormFile("video")
	if err != nil {
		return response.BadRequest(c, "video file is required")
	}

	if err := storage.ValidateVideo(file.Filename, file.Size); err != nil {
		if h.secLog != nil {
			h.secLog.BlockedFileUpload(c.RealIP(), file.Filename, err.Error())
		}
		return response.BadRequest(c, "video rejected: "+err.Error())
	}

	src, err := file.Open()
	if err != nil {
		return response.InternalError(c, "failed to read upload")
	}
	defer src.Close()

	path, err := h.storage.Save(validator.SanitizeFilename(file.Filename), src)
	if err != nil {
		return response.InternalError(c, "failed to store video")
	}

	video := &models.MentoringVideo{
		UserID:      userID,
		Title:       title,
		Description: description,
		FilePath:    path,
	}

	if err := h.videoRepo.Create(c.Request().Context(), video); err != nil {
		// Don't orphan the stored file
		_ = h.storage.Delete(path)
		return response.InternalError(c, "failed to save video")
	}

	return response.Created(c, video)
}

// List handles GET /api/videos
func (h *VideoHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = validator.ValidatePagination(limit, offset)

	videos, total, err := h.videoRepo.List(c.Request().Context(), limit, offset)
	if err != nil {
		return response.InternalError(c, "failed to list videos")
	}

	return response.Paginated(c, videos, total, limit, offset)
}

// Get handles GET /api/videos/:id
func (h *VideoHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid video ID")
	}

	video, err := h.videoRepo.GetByID(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "video not found")
		}
		return response.InternalError(c, "failed to get video")
	}

	return response.Success(c, video)
}

// Stream handles GET /api/videos/:id/stream
func (h *VideoHandler) Stream(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid video ID")
	}

	video, err := h.videoRepo.GetByID(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "video not found")
		}
		return response.InternalError(c, "failed to get video")
	}

	reader, err := h.storage.Get(video.FilePath)
	if err != nil {
		if errors.Is(err, storage.ErrPathTraversal) && h.secLog != nil {
			h.secLog.PathTraversalAttempt(c.RealIP(), c.Path(), video.FilePath)
		}
		return response.NotFound(c, "video file not found")
	}
	defer reader.Close()

	contentType := storage.VideoContentTypes[strings.ToLower(filepath.Ext(video.FilePath))]
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return c.Stream(200, contentType, reader)
}

// Delete handles DELETE /api/videos/:id
func (h *VideoHandler) Delete(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid video ID")
	}

	if err := h.videoRepo.Delete(c.Request().Context(), uint(id), userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "video not found")
		}
		return response.InternalError(c, "failed to delete video")
	}

	return response.NoContent(c)
}
