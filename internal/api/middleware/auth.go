// Package middleware provides HTTP middleware for the DevCred API.
package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/devcred/devcred-backend/internal/auth"
	"github.com/labstack/echo/v4"
)

// Context keys set by JWTAuth for downstream handlers
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
)

// JWTAuth validates the access token from the Authorization header
// and stores the authenticated user's identity in the echo context.
func JWTAuth(tokens *auth.TokenManager, logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				if logger != nil {
					logger.Warn("missing authorization header",
						slog.String("ip", c.RealIP()),
						slog.String("path", c.Path()))
				}
				return echo.NewHTTPError(http.StatusUnauthorized, map[string]string{
					"error": "missing authorization header",
					"code":  "UNAUTHORIZED",
				})
			}

			// Extract token from "Bearer <token>" format
			token := strings.TrimPrefix(authHeader, "Bearer ")
			token = strings.TrimSpace(token)

			claims, err := tokens.ParseAccess(token)
			if err != nil {
				if logger != nil {
					logger.Warn("invalid access token",
						slog.String("ip", c.RealIP()),
						slog.String("path", c.Path()))
				}
				return echo.NewHTTPError(http.StatusUnauthorized, map[string]string{
					"error": "invalid or expired token",
					"code":  "UNAUTHORIZED",
				})
			}

			c.Set(ContextUserID, claims.UserID)
			c.Set(ContextUsername, claims.Username)

			return next(c)
		}
	}
}

// UserID returns the authenticated user ID stored by JWTAuth.
// The second return value is false if the request is unauthenticated.
func UserID(c echo.Context) (uint, bool) {
	id, ok := c.Get(ContextUserID).(uint)
	return id, ok
}
