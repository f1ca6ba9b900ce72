package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/devcred/devcred-backend/internal/auth"
	"github.com/devcred/devcred-backend/internal/models"
	"github.com/devcred/devcred-backend/internal/repository"
	"github.com/devcred/devcred-backend/tests/mocks"
)

func newTestTokenManager() *auth.TokenManager {
	return auth.NewTokenManager("test-secret-that-is-long-enough-0", 15*time.Minute, 24*time.Hour)
}

func newJSONContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Signup_CreatesUserAndReturnsTokens(t *testing.T) {
	userRepo := new(mocks.MockUserRepository)
	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Username == "alice" && u.Email == "alice@example.com" && u.PasswordHash != ""
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.User).ID = 1
	}).Return(nil)

	handler := NewAuthHandler(userRepo, newTestTokenManager())

	c, rec := newJSONContext(t, http.MethodPost, "/api/auth/signup",
		`{"username":"Alice","email":"Alice@Example.com","password":"correct horse"}`)

	require.NoError(t, handler.Signup(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"access_token"`)
	assert.Contains(t, rec.Body.String(), `"refresh_token"`)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)
	assert.NotContains(t, rec.Body.String(), "password")
	userRepo.AssertExpectations(t)
}

func TestAuthHandler_Signup_RejectsInvalidUsername(t *testing.T) {
	handler := NewAuthHandler(new(mocks.MockUserRepository), newTestTokenManager())

	c, rec := newJSONContext(t, http.MethodPost, "/api/auth/signup",
		`{"username":"a","email":"a@example.com","password":"correct horse"}`)

	require.NoError(t, handler.Signup(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_Signup_RejectsWeakPassword(t *testing.T) {
	handler := NewAuthHandler(new(mocks.MockUserRepository), newTestTokenManager())

	c, rec := newJSONContext(t, http.MethodPost, "/api/auth/signup",
		`{"username":"alice","email":"a@example.com","password":"short"}`)

	require.NoError(t, handler.Signup(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_Signup_ReturnsConflictOnDuplicate(t *testing.T) {
	userRepo := new(mocks.MockUserRepository)
	userRepo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicateEntry)

	handler := NewAuthHandler(userRepo, newTestTokenManager())

	c, rec := newJSONContext(t, http.MethodPost, "/api/auth/signup",
		`{"username":"alice","email":"a@example.com","password":"correct horse"}`)

	require.NoError(t, handler.Signup(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already taken")
}

func TestAuthHandler_Login_ReturnsTokenPair(t *testing.T) {
	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)

	userRepo := new(mocks.MockUserRepository)
	userRepo.On("GetByUsername", mock.Anything, "alice").
		Return(&models.User{ID: 1, Username: "alice", PasswordHash: hash}, nil)

	handler := NewAuthHandler(userRepo, newTestTokenManager())

	c, rec := newJSONContext(t, http.MethodPost, "/api/auth/login",
		`{"username":"alice","password":"correct horse"}`)

	require.NoError(t, handler.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"access_token"`)
}

func TestAuthHandler_Login_SameErrorForUnknownUserAndBadPassword(t *testing.T) {
	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)

	userRepo := new(mocks.MockUserRepository)
	userRepo.On("GetByUsername", mock.Anything, "ghost").Return(nil, repository.ErrNotFound)
	userRepo.On("GetByUsername", mock.Anything, "alice").
		Return(&models.User{ID: 1, Username: "alice", PasswordHash: hash}, nil)

	handler := NewAuthHandler(userRepo, newTestTokenManager())

	c1, rec1 := newJSONContext(t, http.MethodPost, "/api/auth/login",
		`{"username":"ghost","password":"whatever12"}`)
	require.NoError(t, handler.Login(c1))

	c2, rec2 := newJSONContext(t, http.MethodPost, "/api/auth/login",
		`{"username":"alice","password":"wrong password"}`)
	require.NoError(t, handler.Login(c2))

	assert.Equal(t, http.StatusUnauthorized, rec1.Code)
	assert.Equal(t, http.StatusUnauthorized, rec2.Code)
	assert.JSONEq(t, rec1.Body.String(), rec2.Body.String())
}

func TestAuthHandler_Refresh_IssuesNewPair(t *testing.T) {
	tokens := newTestTokenManager()
	pair, err := tokens.IssuePair(1, "alice")
	require.NoError(t, err)

	userRepo := new(mocks.MockUserRepository)
	userRepo.On("GetByID", mock.Anything, uint(1)).
		Return(&models.User{ID: 1, Username: "alice"}, nil)

	handler := NewAuthHandler(userRepo, tokens)

	body, err := json.Marshal(map[string]string{"refresh_token": pair.RefreshToken})
	require.NoError(t, err)

	c, rec := newJSONContext(t, http.MethodPost, "/api/auth/refresh", string(body))

	require.NoError(t, handler.Refresh(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"access_token"`)
}

func TestAuthHandler_Refresh_RejectsAccessTokenAsRefresh(t *testing.T) {
	tokens := newTestTokenManager()
	pair, err := tokens.IssuePair(1, "alice")
	require.NoError(t, err)

	handler := NewAuthHandler(new(mocks.MockUserRepository), tokens)

	body, err := json.Marshal(map[string]string{"refresh_token": pair.AccessToken})
	require.NoError(t, err)

	c, rec := newJSONContext(t, http.MethodPost, "/api/auth/refresh", string(body))

	require.NoError(t, handler.Refresh(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_Refresh_RejectsDeletedUser(t *testing.T) {
	tokens := newTestTokenManager()
	pair, err := tokens.IssuePair(7, "gone")
	require.NoError(t, err)

	userRepo := new(mocks.MockUserRepository)
	userRepo.On("GetByID", mock.Anything, uint(7)).Return(nil, repository.ErrNotFound)

	handler := NewAuthHandler(userRepo, tokens)

	body, err := json.Marshal(map[string]string{"refresh_token": pair.RefreshToken})
	require.NoError(t, err)

	c, rec := newJSONContext(t, http.MethodPost, "/api/auth/refresh", string(body))

	require.NoError(t, handler.Refresh(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
