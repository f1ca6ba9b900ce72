package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/devcred/devcred-backend/internal/api/middleware"
	"github.com/devcred/devcred-backend/internal/api/response"
	"github.com/devcred/devcred-backend/internal/models"
	"github.com/devcred/devcred-backend/internal/repository"
	"github.com/devcred/devcred-backend/internal/validator"
	"github.com/labstack/echo/v4"
)

// RequestHandler handles contribution-request ledger HTTP requests
type RequestHandler struct {
	requestRepo repository.ContributionRequestRepository
	userRepo    repository.UserRepository
}

// NewRequestHandler creates a new RequestHandler
func NewRequestHandler(requestRepo repository.ContributionRequestRepository, userRepo repository.UserRepository) *RequestHandler {
	return &RequestHandler{
		requestRepo: requestRepo,
		userRepo:    userRepo,
	}
}

// SendRequestRequest represents the request body for sending a request
type SendRequestRequest struct {
	RecipientUsername string `json:"recipient_username" validate:"required"`
}

// RespondRequestRequest represents the request body for responding
type RespondRequestRequest struct {
	Action string `json:"action" validate:"required"`
}

// Send handles POST /api/requests
func (h *RequestHandler) Send(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	var req SendRequestRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	username := strings.TrimSpace(strings.ToLower(req.RecipientUsername))
	if username == "" {
		return response.BadRequest(c, "recipient_username is required")
	}

	ctx := c.Request().Context()

	recipient, err := h.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "recipient not found")
		}
		return response.InternalError(c, "failed to look up recipient")
	}

	entry, err := h.requestRepo.Send(ctx, userID, recipient.ID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSelfRequest):
			return response.BadRequest(c, "cannot send a request to yourself")
		case errors.Is(err, repository.ErrDuplicateEntry):
			return response.Conflict(c, "a request for this recipient already exists")
		}
		return response.InternalError(c, "failed to send request")
	}

	return response.Created(c, entry)
}

// Respond handles POST /api/requests/:id/respond
func (h *RequestHandler) Respond(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid request ID")
	}

	var req RespondRequestRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	if err := validator.ValidateAction(req.Action); err != nil {
		return response.BadRequest(c, err.Error())
	}

	entry, err := h.requestRepo.Respond(c.Request().Context(), uint(id), userID, models.RequestAction(req.Action))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			// Also covers entries owned by someone else
			return response.NotFound(c, "request not found")
		case errors.Is(err, repository.ErrInvalidInput):
			return response.BadRequest(c, "invalid action")
		}
		return response.InternalError(c, "failed to respond to request")
	}

	if entry == nil {
		// Reject deleted the direct request
		return response.SuccessWithMessage(c, nil, "request rejected")
	}

	return response.Success(c, entry)
}

// Incoming handles GET /api/requests/incoming
func (h *RequestHandler) Incoming(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	entries, err := h.requestRepo.ListIncoming(c.Request().Context(), userID)
	if err != nil {
		return response.InternalError(c, "failed to list incoming requests")
	}

	return response.Success(c, entries)
}

// Outgoing handles GET /api/requests/outgoing
func (h *RequestHandler) Outgoing(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	entries, err := h.requestRepo.ListOutgoing(c.Request().Context(), userID)
	if err != nil {
		return response.InternalError(c, "failed to list outgoing requests")
	}

	return response.Success(c, entries)
}

// Allowed handles GET /api/requests/allowed. It reports whether the
// caller currently holds an unused accepted grant; the answer is
// advisory, the gate itself is enforced at contribution creation.
func (h *RequestHandler) Allowed(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	allowed, err := h.requestRepo.HasUnusedGrant(c.Request().Context(), userID)
	if err != nil {
		return response.InternalError(c, "failed to check permission")
	}

	return response.Success(c, map[string]bool{"allowed": allowed})
}
