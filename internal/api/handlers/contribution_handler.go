package handlers

import (
	"errors"
	"strconv"

	"github.com/devcred/devcred-backend/internal/api/middleware"
	"github.com/devcred/devcred-backend/internal/api/response"
	"github.com/devcred/devcred-backend/internal/logger"
	"github.com/devcred/devcred-backend/internal/models"
	"github.com/devcred/devcred-backend/internal/repository"
	"github.com/devcred/devcred-backend/internal/validator"
	"github.com/labstack/echo/v4"
)

// ContributionHandler handles contribution HTTP requests. Creation is
// gated on the contribution-request ledger.
type ContributionHandler struct {
	contributionRepo repository.ContributionRepository
	userRepo         repository.UserRepository
	secLog           *logger.SecurityLogger
}

// NewContributionHandler creates a new ContributionHandler
func NewContributionHandler(
	contributionRepo repository.ContributionRepository,
	userRepo repository.UserRepository,
	secLog *logger.SecurityLogger,
) *ContributionHandler {
	return &ContributionHandler{
		contributionRepo: contributionRepo,
		userRepo:         userRepo,
		secLog:           secLog,
	}
}

// CreateContributionRequest represents the request body for logging a contribution
type CreateContributionRequest struct {
	Title            string `json:"title" validate:"required"`
	Description      string `json:"description"`
	ContributionType string `json:"contribution_type" validate:"required"`
	ProofURL         string `json:"proof_url"`
	IsPublic         *bool  `json:"is_public"`
}

// UpdateContributionRequest represents the request body for editing a contribution
type UpdateContributionRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	ProofURL    *string `json:"proof_url"`
	IsPublic    *bool   `json:"is_public"`
}

// Create handles POST /api/contributions. The insert consumes the
// caller's oldest unused accepted grant; without one it fails.
func (h *ContributionHandler) Create(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	var req CreateContributionRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	req.Title = validator.SanitizeString(req.Title, 255)
	if req.Title == "" {
		return response.BadRequest(c, "title is required")
	}
	if err := validator.ValidateContributionType(req.ContributionType); err != nil {
		return response.BadRequest(c, err.Error())
	}

	contribution := &models.Contribution{
		UserID:           userID,
		Title:            req.Title,
		Description:      validator.SanitizeString(req.Description, 10000),
		ContributionType: models.ContributionType(req.ContributionType),
		ProofURL:         validator.SanitizeString(req.ProofURL, 512),
		IsPublic:         true,
	}
	if req.IsPublic != nil {
		contribution.IsPublic = *req.IsPublic
	}

	if err := h.contributionRepo.CreateGated(c.Request().Context(), contribution); err != nil {
		if errors.Is(err, repository.ErrNoGrant) {
			if h.secLog != nil {
				h.secLog.GateDenied(c.RealIP(), userID, 0)
			}
			return response.Error(c, err)
		}
		return response.InternalError(c, "failed to create contribution")
	}

	return response.Created(c, contribution)
}

// List handles GET /api/contributions and GET /api/users/:username/contributions
func (h *ContributionHandler) List(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	ctx := c.Request().Context()

	// Default to the caller's own contributions
	targetID := userID
	if username := c.Param("username"); username != "" {
		user, err := h.userRepo.GetByUsername(ctx, username)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return response.NotFound(c, "user not found")
			}
			return response.InternalError(c, "failed to look up user")
		}
		targetID = user.ID
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = validator.ValidatePagination(limit, offset)

	contributions, total, err := h.contributionRepo.ListByUser(ctx, targetID, limit, offset)
	if err != nil {
		return response.InternalError(c, "failed to list contributions")
	}

	// Hide private items from everyone but the owner
	if targetID != userID {
		public := make([]models.Contribution, 0, len(contributions))
		for _, contribution := range contributions {
			if contribution.IsPublic {
				public = append(public, contribution)
			}
		}
		contributions = public
	}

	return response.Paginated(c, contributions, total, limit, offset)
}

// Get handles GET /api/contributions/:id
func (h *ContributionHandler) Get(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid contribution ID")
	}

	contribution, err := h.contributionRepo.GetByID(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "contribution not found")
		}
		return response.InternalError(c, "failed to get contribution")
	}

	if !contribution.IsPublic && contribution.UserID != userID {
		return response.NotFound(c, "contribution not found")
	}

	return response.Success(c, contribution)
}

// Update handles PATCH /api/contributions/:id
func (h *ContributionHandler) Update(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid contribution ID")
	}

	var req UpdateContributionRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	ctx := c.Request().Context()

	contribution, err := h.contributionRepo.GetByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "contribution not found")
		}
		return response.InternalError(c, "failed to get contribution")
	}

	if contribution.UserID != userID {
		return response.NotFound(c, "contribution not found")
	}

	if req.Title != nil {
		title := validator.SanitizeString(*req.Title, 255)
		if title == "" {
			return response.BadRequest(c, "title cannot be empty")
		}
		contribution.Title = title
	}
	if req.Description != nil {
		contribution.Description = validator.SanitizeString(*req.Description, 10000)
	}
	if req.ProofURL != nil {
		contribution.ProofURL = validator.SanitizeString(*req.ProofURL, 512)
	}
	if req.IsPublic != nil {
		contribution.IsPublic = *req.IsPublic
	}

	if err := h.contributionRepo.Update(ctx, contribution); err != nil {
		return response.InternalError(c, "failed to update contribution")
	}

	return response.Success(c, contribution)
}

// Delete handles DELETE /api/contributions/:id
func (h *ContributionHandler) Delete(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid contribution ID")
	}

	if err := h.contributionRepo.Delete(c.Request().Context(), uint(id), userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "contribution not found")
		}
		return response.InternalError(c, "failed to delete contribution")
	}

	return response.NoContent(c)
}
