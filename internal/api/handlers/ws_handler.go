package handlers

import (
	"log/slog"
	"strings"

	gorilla "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/devcred/devcred-backend/internal/api/response"
	"github.com/devcred/devcred-backend/internal/auth"
	"github.com/devcred/devcred-backend/internal/websocket"
)

// WSHandler upgrades authenticated connections onto the notification hub
type WSHandler struct {
	hub      *websocket.Hub
	tokens   *auth.TokenManager
	upgrader gorilla.Upgrader
	logger   *slog.Logger
}

// NewWSHandler creates a new WSHandler
func NewWSHandler(hub *websocket.Hub, tokens *auth.TokenManager, logger *slog.Logger) *WSHandler {
	return &WSHandler{
		hub:      hub,
		tokens:   tokens,
		upgrader: websocket.NewSecureUpgrader(logger),
		logger:   logger,
	}
}

// Serve handles GET /ws. Browsers cannot set headers on WebSocket
// requests, so the access token is also accepted as a query parameter.
func (h *WSHandler) Serve(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		header := c.Request().Header.Get("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			token = strings.TrimPrefix(header, "Bearer ")
		}
	}
	if token == "" {
		return response.Unauthorized(c, "authentication required")
	}

	claims, err := h.tokens.ParseAccess(token)
	if err != nil {
		return response.Unauthorized(c, "invalid or expired token")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade writes its own error response
		h.logger.Warn("websocket upgrade failed",
			slog.String("remote_ip", c.RealIP()),
			slog.String("error", err.Error()))
		return nil
	}

	client := websocket.NewClient(h.hub, conn, claims.UserID, h.logger)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	return nil
}
