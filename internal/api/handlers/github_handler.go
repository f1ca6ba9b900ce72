package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/devcred/devcred-backend/internal/api/middleware"
	"github.com/devcred/devcred-backend/internal/api/response"
	"github.com/devcred/devcred-backend/internal/repository"
	"github.com/devcred/devcred-backend/internal/services"
	"github.com/labstack/echo/v4"
)

const oauthStateCookie = "gh_oauth_state"

// GitHubHandler handles GitHub profile proxying and account linking
type GitHubHandler struct {
	github      *services.GitHubService
	userRepo    repository.UserRepository
	frontendURL string
}

// NewGitHubHandler creates a new GitHubHandler
func NewGitHubHandler(github *services.GitHubService, userRepo repository.UserRepository, frontendURL string) *GitHubHandler {
	return &GitHubHandler{
		github:      github,
		userRepo:    userRepo,
		frontendURL: frontendURL,
	}
}

// Login handles GET /api/github/login
func (h *GitHubHandler) Login(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	state := randomState()

	url, err := h.github.AuthURL(state)
	if err != nil {
		if errors.Is(err, services.ErrGitHubUnavailable) {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"error": "github integration is not configured",
				"code":  "SERVICE_UNAVAILABLE",
			})
		}
		return response.InternalError(c, "failed to build authorization URL")
	}

	// The callback arrives as a browser redirect with no Authorization
	// header, so the acting user rides in the state cookie.
	c.SetCookie(&http.Cookie{
		Name:     oauthStateCookie,
		Value:    fmt.Sprintf("%s.%d", state, userID),
		Path:     "/",
		MaxAge:   int(10 * time.Minute / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return response.Success(c, map[string]string{"authorize_url": url})
}

// Callback handles GET /api/github/callback. GitHub redirects the
// user's browser here, which carries cookies but no bearer token; the
// unguessable state nonce in the HttpOnly cookie both blocks CSRF and
// identifies the user who started the flow.
func (h *GitHubHandler) Callback(c echo.Context) error {
	code := c.QueryParam("code")
	state := c.QueryParam("state")
	if code == "" || state == "" {
		return response.BadRequest(c, "code and state are required")
	}

	cookie, err := c.Cookie(oauthStateCookie)
	if err != nil {
		return response.BadRequest(c, "state mismatch")
	}
	nonce, userID, ok := parseStateCookie(cookie.Value)
	if !ok || nonce != state {
		return response.BadRequest(c, "state mismatch")
	}

	// The nonce is single-use
	c.SetCookie(&http.Cookie{
		Name:     oauthStateCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	ctx := c.Request().Context()

	login, err := h.github.Exchange(ctx, code)
	if err != nil {
		if errors.Is(err, services.ErrGitHubUnavailable) {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"error": "github integration is not configured",
				"code":  "SERVICE_UNAVAILABLE",
			})
		}
		return response.BadRequest(c, "authorization code exchange failed")
	}

	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil {
		return response.InternalError(c, "failed to load user")
	}

	user.GitHubUsername = login
	if err := h.userRepo.Update(ctx, user); err != nil {
		return response.InternalError(c, "failed to link github account")
	}

	return c.Redirect(http.StatusFound, h.frontendURL+"/settings?github=linked")
}

// Profile handles GET /api/github/profile
func (h *GitHubHandler) Profile(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	ctx := c.Request().Context()

	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil {
		return response.InternalError(c, "failed to load user")
	}

	profile, err := h.github.Profile(ctx, user.GitHubUsername)
	if err != nil {
		if errors.Is(err, services.ErrGitHubUserNotSet) {
			return response.BadRequest(c, "no github account linked")
		}
		return response.InternalError(c, "failed to fetch github profile")
	}

	return response.Success(c, profile)
}

// Repos handles GET /api/github/repos
func (h *GitHubHandler) Repos(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	ctx := c.Request().Context()

	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil {
		return response.InternalError(c, "failed to load user")
	}

	repos, err := h.github.Repos(ctx, user.GitHubUsername)
	if err != nil {
		if errors.Is(err, services.ErrGitHubUserNotSet) {
			return response.BadRequest(c, "no github account linked")
		}
		return response.InternalError(c, "failed to fetch github repos")
	}

	return response.Success(c, repos)
}

// randomState returns an unguessable OAuth state value
func randomState() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

// parseStateCookie splits a "<nonce>.<userID>" cookie value
func parseStateCookie(value string) (string, uint, bool) {
	i := strings.LastIndex(value, ".")
	if i <= 0 {
		return "", 0, false
	}
	id, err := strconv.ParseUint(value[i+1:], 10, 32)
	if err != nil {
		return "", 0, false
	}
	return value[:i], uint(id), true
}
