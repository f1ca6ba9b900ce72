package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/devcred/devcred-backend/internal/models"
	"github.com/devcred/devcred-backend/internal/repository"
	"github.com/devcred/devcred-backend/tests/mocks"
)

type userHandlerMocks struct {
	users         *mocks.MockUserRepository
	contributions *mocks.MockContributionRepository
	endorsements  *mocks.MockEndorsementRepository
	videos        *mocks.MockVideoRepository
	resumes       *mocks.MockResumeRepository
	messages      *mocks.MockMessageRepository
}

func newUserHandler() (*UserHandler, *userHandlerMocks) {
	m := &userHandlerMocks{
		users:         new(mocks.MockUserRepository),
		contributions: new(mocks.MockContributionRepository),
		endorsements:  new(mocks.MockEndorsementRepository),
		videos:        new(mocks.MockVideoRepository),
		resumes:       new(mocks.MockResumeRepository),
		messages:      new(mocks.MockMessageRepository),
	}
	handler := NewUserHandler(m.users, m.contributions, m.endorsements, m.videos, m.resumes, m.messages, nil)
	return handler, m
}

func TestUserHandler_Me_ReturnsCurrentUser(t *testing.T) {
	handler, m := newUserHandler()
	m.users.On("GetByID", mock.Anything, uint(1)).
		Return(&models.User{ID: 1, Username: "alice", Email: "alice@example.com"}, nil)

	c, rec := newJSONContext(t, http.MethodGet, "/api/users/me", "")
	authenticate(c, 1, "alice")

	require.NoError(t, handler.Me(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)
}

func TestUserHandler_UpdateMe_UpdatesBioAndGitHub(t *testing.T) {
	handler, m := newUserHandler()
	m.users.On("GetByID", mock.Anything, uint(1)).
		Return(&models.User{ID: 1, Username: "alice"}, nil)
	m.users.On("Update", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Bio == "Go developer" && u.GitHubUsername == "alice-dev"
	})).Return(nil)

	c, rec := newJSONContext(t, http.MethodPatch, "/api/users/me",
		`{"bio":"Go developer","github_username":"alice-dev"}`)
	authenticate(c, 1, "alice")

	require.NoError(t, handler.UpdateMe(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	m.users.AssertExpectations(t)
}

func TestUserHandler_UpdateMe_LeavesOmittedFieldsAlone(t *testing.T) {
	handler, m := newUserHandler()
	m.users.On("GetByID", mock.Anything, uint(1)).
		Return(&models.User{ID: 1, Username: "alice", Bio: "original bio"}, nil)
	m.users.On("Update", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Bio == "original bio" && u.GitHubUsername == "alice-dev"
	})).Return(nil)

	c, rec := newJSONContext(t, http.MethodPatch, "/api/users/me",
		`{"github_username":"alice-dev"}`)
	authenticate(c, 1, "alice")

	require.NoError(t, handler.UpdateMe(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	m.users.AssertExpectations(t)
}

func TestUserHandler_List_ReturnsPaginatedUsers(t *testing.T) {
	handler, m := newUserHandler()
	m.users.On("List", mock.Anything, 20, 0).
		Return([]models.User{{ID: 1, Username: "alice"}, {ID: 2, Username: "bob"}}, int64(2), nil)

	c, rec := newJSONContext(t, http.MethodGet, "/api/users", "")
	authenticate(c, 1, "alice")

	require.NoError(t, handler.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":2`)
}

func TestUserHandler_Profile_IncludesScoresAndVideos(t *testing.T) {
	handler, m := newUserHandler()
	m.users.On("GetByUsername", mock.Anything, "bob").
		Return(&models.User{ID: 2, Username: "bob", Bio: "mentor"}, nil)
	m.endorsements.On("CountForUser", mock.Anything, uint(2)).Return(int64(4), nil)
	m.contributions.On("CountByUser", mock.Anything, uint(2)).Return(int64(7), nil)
	m.videos.On("ListByUser", mock.Anything, uint(2)).
		Return([]models.MentoringVideo{{ID: 1, UserID: 2, Title: "Intro to testing"}}, nil)

	c, rec := newJSONContext(t, http.MethodGet, "/api/users/bob", "")
	c.SetParamNames("username")
	c.SetParamValues("bob")

	require.NoError(t, handler.Profile(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"endorsement_score":4`)
	assert.Contains(t, rec.Body.String(), `"contribution_score":7`)
	assert.Contains(t, rec.Body.String(), "Intro to testing")
	assert.NotContains(t, rec.Body.String(), `"email"`)
}

func TestUserHandler_Profile_UnknownUserIs404(t *testing.T) {
	handler, m := newUserHandler()
	m.users.On("GetByUsername", mock.Anything, "ghost").Return(nil, repository.ErrNotFound)

	c, rec := newJSONContext(t, http.MethodGet, "/api/users/ghost", "")
	c.SetParamNames("username")
	c.SetParamValues("ghost")

	require.NoError(t, handler.Profile(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserHandler_Dashboard_AggregatesCounters(t *testing.T) {
	handler, m := newUserHandler()
	m.users.On("GetByID", mock.Anything, uint(1)).
		Return(&models.User{ID: 1, Username: "alice", Email: "alice@example.com"}, nil)
	m.contributions.On("CountByUser", mock.Anything, uint(1)).Return(int64(7), nil)
	m.endorsements.On("CountForUser", mock.Anything, uint(1)).Return(int64(4), nil)
	m.videos.On("CountByUser", mock.Anything, uint(1)).Return(int64(2), nil)
	m.resumes.On("ExistsForUser", mock.Anything, uint(1)).Return(true, nil)
	m.messages.On("CountUnread", mock.Anything, uint(1)).Return(int64(5), nil)

	c, rec := newJSONContext(t, http.MethodGet, "/api/users/me/dashboard", "")
	authenticate(c, 1, "alice")

	require.NoError(t, handler.Dashboard(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"contribution_score":7`)
	assert.Contains(t, rec.Body.String(), `"endorsement_score":4`)
	assert.Contains(t, rec.Body.String(), `"video_contributions":2`)
	assert.Contains(t, rec.Body.String(), `"resume_generated":true`)
	assert.Contains(t, rec.Body.String(), `"unread_count":5`)
}
