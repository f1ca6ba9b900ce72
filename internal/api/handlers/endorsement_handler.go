package handlers

import (
	"errors"
	"strings"

	"github.com/devcred/devcred-backend/internal/api/middleware"
	"github.com/devcred/devcred-backend/internal/api/response"
	"github.com/devcred/devcred-backend/internal/models"
	"github.com/devcred/devcred-backend/internal/repository"
	"github.com/devcred/devcred-backend/internal/validator"
	"github.com/devcred/devcred-backend/internal/websocket"
	"github.com/labstack/echo/v4"
)

// EndorsementHandler handles endorsement HTTP requests
type EndorsementHandler struct {
	endorsementRepo repository.EndorsementRepository
	userRepo        repository.UserRepository
	hub             *websocket.Hub
}

// NewEndorsementHandler creates a new EndorsementHandler
func NewEndorsementHandler(
	endorsementRepo repository.EndorsementRepository,
	userRepo repository.UserRepository,
	hub *websocket.Hub,
) *EndorsementHandler {
	return &EndorsementHandler{
		endorsementRepo: endorsementRepo,
		userRepo:        userRepo,
		hub:             hub,
	}
}

// CreateEndorsementRequest represents the request body for endorsing a user
type CreateEndorsementRequest struct {
	Username       string `json:"username" validate:"required"`
	ContributionID *uint  `json:"contribution_id"`
	Message        string `json:"message"`
}

// Create handles POST /api/endorsements
func (h *EndorsementHandler) Create(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	var req CreateEndorsementRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	username := strings.TrimSpace(strings.ToLower(req.Username))
	if username == "" {
		return response.BadRequest(c, "username is required")
	}

	ctx := c.Request().Context()

	endorsed, err := h.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "user not found")
		}
		return response.InternalError(c, "failed to look up user")
	}

	endorsement := &models.Endorsement{
		EndorsedUserID: endorsed.ID,
		EndorsedByID:   userID,
		ContributionID: req.ContributionID,
		Message:        validator.SanitizeString(req.Message, 1000),
	}

	if err := h.endorsementRepo.Create(ctx, endorsement); err != nil {
		switch {
		case errors.Is(err, repository.ErrSelfRequest):
			return response.BadRequest(c, "cannot endorse yourself")
		case errors.Is(err, repository.ErrDuplicateEntry):
			return response.Conflict(c, "you have already endorsed this user for this contribution")
		}
		return response.InternalError(c, "failed to create endorsement")
	}

	if h.hub != nil {
		endorserUsername, _ := c.Get(middleware.ContextUsername).(string)
		h.hub.NotifyEndorsement(endorsed.ID, &websocket.EndorsementPayload{
			ID:               endorsement.ID,
			EndorserUsername: endorserUsername,
			Message:          endorsement.Message,
		})
	}

	return response.Created(c, endorsement)
}

// ListForUser handles GET /api/users/:username/endorsements
func (h *EndorsementHandler) ListForUser(c echo.Context) error {
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
		return response.InternalError(c, "failed to look up user")
	}

	endorsements, err := h.endorsementRepo.ListForUser(ctx, user.ID)
	if err != nil {
		return response.InternalError(c, "failed to list endorsements")
	}

	return response.Success(c, endorsements)
}
