package handlers

import (
	"errors"
	"strconv"

	"github.com/devcred/devcred-backend/internal/api/middleware"
	"github.com/devcred/devcred-backend/internal/api/response"
	"github.com/devcred/devcred-backend/internal/models"
	"github.com/devcred/devcred-backend/internal/repository"
	"github.com/devcred/devcred-backend/internal/services"
	"github.com/devcred/devcred-backend/internal/validator"
	"github.com/labstack/echo/v4"
)

// UserHandler handles user profile and dashboard HTTP requests
type UserHandler struct {
	userRepo         repository.UserRepository
	contributionRepo repository.ContributionRepository
	endorsementRepo  repository.EndorsementRepository
	videoRepo        repository.VideoRepository
	resumeRepo       repository.ResumeRepository
	messageRepo      repository.MessageRepository
	github           *services.GitHubService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(
	userRepo repository.UserRepository,
	contributionRepo repository.ContributionRepository,
	endorsementRepo repository.EndorsementRepository,
	videoRepo repository.VideoRepository,
	resumeRepo repository.ResumeRepository,
	messageRepo repository.MessageRepository,
	github *services.GitHubService,
) *UserHandler {
	return &UserHandler{
		userRepo:         userRepo,
		contributionRepo: contributionRepo,
		endorsementRepo:  endorsementRepo,
		videoRepo:        videoRepo,
		resumeRepo:       resumeRepo,
		messageRepo:      messageRepo,
		github:           github,
	}
}

// UpdateProfileRequest represents the request body for profile updates
type UpdateProfileRequest struct {
	Bio            *string `json:"bio"`
	GitHubUsername *string `json:"github_username"`
}

// Me handles GET /api/users/me
func (h *UserHandler) Me(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	user, err := h.userRepo.GetByID(c.Request().Context(), userID)
	if err != nil {
		return response.InternalError(c, "failed to load user")
	}

	return response.Success(c, user)
}

// UpdateMe handles PATCH /api/users/me
func (h *UserHandler) UpdateMe(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	user, err := h.userRepo.GetByID(c.Request().Context(), userID)
	if err != nil {
		return response.InternalError(c, "failed to load user")
	}

	if req.Bio != nil {
		user.Bio = validator.SanitizeString(*req.Bio, 1000)
	}
	if req.GitHubUsername != nil {
		user.GitHubUsername = validator.SanitizeString(*req.GitHubUsername, 50)
	}

	if err := h.userRepo.Update(c.Request().Context(), user); err != nil {
		return response.InternalError(c, "failed to update profile")
	}

	return response.Success(c, user)
}

// List handles GET /api/users
func (h *UserHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = validator.ValidatePagination(limit, offset)

	users, total, err := h.userRepo.List(c.Request().Context(), limit, offset)
	if err != nil {
		return response.InternalError(c, "failed to list users")
	}

	return response.Paginated(c, users, total, limit, offset)
}

// Profile handles GET /api/users/:username
func (h *UserHandler) Profile(c echo.Context) error {
	username := c.Param("username")
	if username == "" {
		return response.BadRequest(c, "username is required")
	}

	ctx := c.Request().Context()

	user, err := h.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "user not found")
		}
		return response.InternalError(c, "failed to load user")
	}

	endorsementScore, err := h.endorsementRepo.CountForUser(ctx, user.ID)
	if err != nil {
		return response.InternalError(c, "failed to load profile")
	}

	contributionScore, err := h.contributionRepo.CountByUser(ctx, user.ID)
	if err != nil {
		return response.InternalError(c, "failed to load profile")
	}

	videos, err := h.videoRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return response.InternalError(c, "failed to load profile")
	}

	return response.Success(c, models.UserProfile{
		ID:                user.ID,
		Username:          user.Username,
		Bio:               user.Bio,
		GitHubUsername:    user.GitHubUsername,
		ProfileImagePath:  user.ProfileImagePath,
		EndorsementScore:  endorsementScore,
		ContributionScore: contributionScore,
		Videos:            videos,
	})
}

// Dashboard handles GET /api/users/me/dashboard
func (h *UserHandler) Dashboard(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	ctx := c.Request().Context()

	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil {
		return response.InternalError(c, "failed to load user")
	}

	contributionScore, err := h.contributionRepo.CountByUser(ctx, userID)
	if err != nil {
		return response.InternalError(c, "failed to load dashboard")
	}

	endorsementScore, err := h.endorsementRepo.CountForUser(ctx, userID)
	if err != nil {
		return response.InternalError(c, "failed to load dashboard")
	}

	videoCount, err := h.videoRepo.CountByUser(ctx, userID)
	if err != nil {
		return response.InternalError(c, "failed to load dashboard")
	}

	resumeGenerated, err := h.resumeRepo.ExistsForUser(ctx, userID)
	if err != nil {
		return response.InternalError(c, "failed to load dashboard")
	}

	unread, err := h.messageRepo.CountUnread(ctx, userID)
	if err != nil {
		return response.InternalError(c, "failed to load dashboard")
	}

	repoCount := 0
	if h.github != nil {
		repoCount = h.github.RepoCount(ctx, user.GitHubUsername)
	}

	return response.Success(c, models.Dashboard{
		Username:           user.Username,
		Email:              user.Email,
		GitHubUsername:     user.GitHubUsername,
		ContributionScore:  contributionScore,
		EndorsementScore:   endorsementScore,
		VideoContributions: videoCount,
		ResumeGenerated:    resumeGenerated,
		GitHubRepoCount:    repoCount,
		UnreadCount:        unread,
	})
}
