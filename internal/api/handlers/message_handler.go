package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/devcred/devcred-backend/internal/api/middleware"
	"github.com/devcred/devcred-backend/internal/api/response"
	"github.com/devcred/devcred-backend/internal/logger"
	"github.com/devcred/devcred-backend/internal/models"
	"github.com/devcred/devcred-backend/internal/repository"
	"github.com/devcred/devcred-backend/internal/storage"
	"github.com/devcred/devcred-backend/internal/validator"
	"github.com/devcred/devcred-backend/internal/websocket"
	"github.com/labstack/echo/v4"
)

// MessageHandler handles direct-message HTTP requests, including the
// accept/reject action that drives the contribution-request ledger.
type MessageHandler struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	storage     storage.FileStorage
	hub         *websocket.Hub
	secLog      *logger.SecurityLogger
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	fileStorage storage.FileStorage,
	hub *websocket.Hub,
	secLog *logger.SecurityLogger,
) *MessageHandler {
	return &MessageHandler{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		storage:     fileStorage,
		hub:         hub,
		secLog:      secLog,
	}
}

// MessageActionRequest represents the request body for accept/reject
type MessageActionRequest struct {
	Action string `json:"action" validate:"required"`
}

// Create handles POST /api/messages. The body is a multipart form so an
// attachment can ride along with the text.
func (h *MessageHandler) Create(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	recipientUsername := strings.TrimSpace(strings.ToLower(c.FormValue("recipient_username")))
	body := validator.SanitizeString(c.FormValue("body"), 10000)

	if recipientUsername == "" {
		return response.BadRequest(c, "recipient_username is required")
	}
	if body == "" {
		return response.BadRequest(c, "body is required")
	}

	ctx := c.Request().Context()

	recipient, err := h.userRepo.GetByUsername(ctx, recipientUsername)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "recipient not found")
		}
		return response.InternalError(c, "failed to look up recipient")
	}

	message := &models.Message{
		SenderID:    userID,
		RecipientID: recipient.ID,
		Body:        body,
	}

	// Optional attachment
	if file, err := c.FormFile("attachment"); err == nil && file != nil {
		if err := storage.ValidateAttachment(file.Filename, file.Size); err != nil {
			if h.secLog != nil {
				h.secLog.BlockedFileUpload(c.RealIP(), file.Filename, err.Error())
			}
			return response.BadRequest(c, "attachment rejected: "+err.Error())
		}

		src, err := file.Open()
		if err != nil {
			return response.InternalError(c, "failed to read attachment")
		}
		defer src.Close()

		path, err := h.storage.Save(validator.SanitizeFilename(file.Filename), src)
		if err != nil {
			return response.InternalError(c, "failed to store attachment")
		}
		message.AttachmentPath = path
	}

	if err := h.messageRepo.Create(ctx, message); err != nil {
		if errors.Is(err, repository.ErrSelfRequest) {
			return response.BadRequest(c, "cannot message yourself")
		}
		return response.InternalError(c, "failed to send message")
	}

	if h.hub != nil {
		senderUsername, _ := c.Get(middleware.ContextUsername).(string)
		h.hub.NotifyNewMessage(recipient.ID, &websocket.NewMessagePayload{
			ID:             message.ID,
			SenderUsername: senderUsername,
			SentAt:         message.CreatedAt.Format(time.RFC3339),
		})
	}

	return response.Created(c, message)
}

// List handles GET /api/messages
func (h *MessageHandler) List(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = validator.ValidatePagination(limit, offset)

	messages, total, err := h.messageRepo.ListForUser(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return response.InternalError(c, "failed to list messages")
	}

	return response.Paginated(c, messages, total, limit, offset)
}

// Get handles GET /api/messages/:id
func (h *MessageHandler) Get(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid message ID")
	}

	message, err := h.messageRepo.GetByID(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "message not found")
		}
		return response.InternalError(c, "failed to get message")
	}

	if message.SenderID != userID && message.RecipientID != userID {
		// Non-participants learn nothing, not even existence
		return response.NotFound(c, "message not found")
	}

	return response.Success(c, message)
}

// Attachment handles GET /api/messages/:id/attachment
func (h *MessageHandler) Attachment(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid message ID")
	}

	message, err := h.messageRepo.GetByID(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "message not found")
		}
		return response.InternalError(c, "failed to get message")
	}

	if message.SenderID != userID && message.RecipientID != userID {
		return response.NotFound(c, "message not found")
	}

	if message.AttachmentPath == "" {
		return response.NotFound(c, "message has no attachment")
	}

	reader, err := h.storage.Get(message.AttachmentPath)
	if err != nil {
		if errors.Is(err, storage.ErrPathTraversal) && h.secLog != nil {
			h.secLog.PathTraversalAttempt(c.RealIP(), c.Path(), message.AttachmentPath)
		}
		return response.NotFound(c, "attachment not found")
	}
	defer reader.Close()

	return c.Stream(200, "application/octet-stream", reader)
}

// MarkRead handles POST /api/messages/:id/read
func (h *MessageHandler) MarkRead(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid message ID")
	}

	if err := h.messageRepo.MarkAsRead(c.Request().Context(), uint(id), userID); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return response.NotFound(c, "message not found")
		case errors.Is(err, repository.ErrForbidden):
			return response.Forbidden(c, "only the recipient can mark a message read")
		}
		return response.InternalError(c, "failed to mark message read")
	}

	return response.SuccessWithMessage(c, nil, "message marked read")
}

// Action handles POST /api/messages/:id/action. Accepting grants the
// recipient permission to log one contribution; rejecting revokes any
// message-originated grant for the pair.
func (h *MessageHandler) Action(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid message ID")
	}

	var req MessageActionRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	if err := validator.ValidateAction(req.Action); err != nil {
		return response.BadRequest(c, err.Error())
	}

	message, err := h.messageRepo.ApplyAction(c.Request().Context(), uint(id), userID, models.RequestAction(req.Action))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return response.NotFound(c, "message not found")
		case errors.Is(err, repository.ErrForbidden):
			return response.Forbidden(c, "only the recipient can act on a message")
		case errors.Is(err, repository.ErrInvalidInput):
			return response.BadRequest(c, "invalid action")
		}
		return response.InternalError(c, "failed to apply action")
	}

	if h.hub != nil {
		recipientUsername, _ := c.Get(middleware.ContextUsername).(string)
		h.hub.NotifyMessageStatus(message.SenderID, &websocket.MessageStatusPayload{
			MessageID:         message.ID,
			Status:            string(message.Status),
			RecipientUsername: recipientUsername,
		})
	}

	return response.Success(c, message)
}

// Delete handles DELETE /api/messages/:id
func (h *MessageHandler) Delete(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid message ID")
	}

	if err := h.messageRepo.Delete(c.Request().Context(), uint(id), userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "message not found")
		}
		return response.InternalError(c, "failed to delete message")
	}

	return response.NoContent(c)
}

// UnreadCount handles GET /api/messages/unread-count
func (h *MessageHandler) UnreadCount(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	count, err := h.messageRepo.CountUnread(c.Request().Context(), userID)
	if err != nil {
		return response.InternalError(c, "failed to count unread messages")
	}

	return response.Success(c, map[string]int64{"unread": count})
}

// Conversations handles GET /api/messages/conversations
func (h *MessageHandler) Conversations(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	partners, err := h.messageRepo.ListConversationPartners(c.Request().Context(), userID)
	if err != nil {
		return response.InternalError(c, "failed to list conversations")
	}

	return response.Success(c, partners)
}
