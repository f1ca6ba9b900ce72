package handlers

import (
	"errors"
	"strings"

	"github.com/devcred/devcred-backend/internal/api/response"
	"github.com/devcred/devcred-backend/internal/auth"
	"github.com/devcred/devcred-backend/internal/models"
	"github.com/devcred/devcred-backend/internal/repository"
	"github.com/devcred/devcred-backend/internal/validator"
	"github.com/labstack/echo/v4"
)

// AuthHandler handles signup, login, and token refresh
type AuthHandler struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repository.UserRepository, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// SignupRequest represents the request body for registration
type SignupRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents the request body for token refresh
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse carries the token pair and the authenticated user
type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

// Signup handles POST /api/auth/signup
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	req.Username = strings.TrimSpace(strings.ToLower(req.Username))
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if err := validator.ValidateUsername(req.Username); err != nil {
		return response.BadRequest(c, "invalid username: "+err.Error())
	}
	if err := validator.ValidateEmail(req.Email); err != nil {
		return response.BadRequest(c, "invalid email: "+err.Error())
	}
	if err := validator.ValidatePassword(req.Password); err != nil {
		return response.BadRequest(c, "invalid password: "+err.Error())
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return response.InternalError(c, "failed to process password")
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}

	if err := h.userRepo.Create(c.Request().Context(), user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return response.Conflict(c, "username or email already taken")
		}
		return response.InternalError(c, "failed to create user")
	}

	pair, err := h.tokens.IssuePair(user.ID, user.Username)
	if err != nil {
		return response.InternalError(c, "failed to issue tokens")
	}

	return response.Created(c, AuthResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	if req.Username == "" || req.Password == "" {
		return response.BadRequest(c, "username and password are required")
	}

	user, err := h.userRepo.GetByUsername(c.Request().Context(), strings.ToLower(req.Username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Same response as a bad password so usernames cannot be probed
			return response.Unauthorized(c, "invalid credentials")
		}
		return response.InternalError(c, "failed to look up user")
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		return response.Unauthorized(c, "invalid credentials")
	}

	pair, err := h.tokens.IssuePair(user.ID, user.Username)
	if err != nil {
		return response.InternalError(c, "failed to issue tokens")
	}

	return response.Success(c, AuthResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Refresh handles POST /api/auth/refresh
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	if req.RefreshToken == "" {
		return response.BadRequest(c, "refresh_token is required")
	}

	claims, err := h.tokens.ParseRefresh(req.RefreshToken)
	if err != nil {
		return response.Unauthorized(c, "invalid refresh token")
	}

	// The user may have been deleted since the token was issued
	user, err := h.userRepo.GetByID(c.Request().Context(), claims.UserID)
	if err != nil {
		return response.Unauthorized(c, "invalid refresh token")
	}

	pair, err := h.tokens.IssuePair(user.ID, user.Username)
	if err != nil {
		return response.InternalError(c, "failed to issue tokens")
	}

	return response.Success(c, AuthResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}
