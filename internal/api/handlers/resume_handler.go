package handlers

import (
	"errors"
	"strconv"

	"github.com/devcred/devcred-backend/internal/api/middleware"
	"github.com/devcred/devcred-backend/internal/api/response"
	"github.com/devcred/devcred-backend/internal/repository"
	"github.com/devcred/devcred-backend/internal/services"
	"github.com/devcred/devcred-backend/internal/storage"
	"github.com/labstack/echo/v4"
)

// ResumeHandler handles resume generation and retrieval
type ResumeHandler struct {
	resumeService *services.ResumeService
	resumeRepo    repository.ResumeRepository
	storage       storage.FileStorage
}

// NewResumeHandler creates a new ResumeHandler
func NewResumeHandler(resumeService *services.ResumeService, resumeRepo repository.ResumeRepository, fileStorage storage.FileStorage) *ResumeHandler {
	return &ResumeHandler{
		resumeService: resumeService,
		resumeRepo:    resumeRepo,
		storage:       fileStorage,
	}
}

// Generate handles POST /api/resumes
func (h *ResumeHandler) Generate(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	entry, err := h.resumeService.Generate(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrResumeUnavailable) {
			return c.JSON(503, map[string]string{
				"error": "resume generation is not configured",
				"code":  "SERVICE_UNAVAILABLE",
			})
		}
		return response.InternalError(c, "failed to generate resume")
	}

	return response.Created(c, entry)
}

// List handles GET /api/resumes
func (h *ResumeHandler) List(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	entries, err := h.resumeRepo.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return response.InternalError(c, "failed to list resumes")
	}

	return response.Success(c, entries)
}

// Download handles GET /api/resumes/:id/pdf
func (h *ResumeHandler) Download(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid resume ID")
	}

	entry, err := h.resumeRepo.GetOwned(c.Request().Context(), uint(id), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "resume not found")
		}
		return response.InternalError(c, "failed to get resume")
	}

	if entry.PDFPath == "" {
		return response.NotFound(c, "resume has no PDF")
	}

	reader, err := h.storage.Get(entry.PDFPath)
	if err != nil {
		return response.NotFound(c, "resume PDF not found")
	}
	defer reader.Close()

	c.Response().Header().Set("Content-Disposition", `attachment; filename="resume.pdf"`)
	return c.Stream(200, "application/pdf", reader)
}
