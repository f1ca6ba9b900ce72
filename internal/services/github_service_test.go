package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-github/v66/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newGitHubTestService points the API client at a local test server
func newGitHubTestService(t *testing.T, handler http.Handler) *GitHubService {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := github.NewClient(nil).WithEnterpriseURLs(srv.URL, srv.URL)
	require.NoError(t, err)

	return NewGitHubServiceWithClient(client, nil, nil)
}

func TestGitHubService_Profile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/users/alice-dev", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"login": "alice-dev",
			"name": "Alice",
			"bio": "Backend engineer",
			"avatar_url": "https://example.com/avatar.png",
			"html_url": "https://github.com/alice-dev",
			"public_repos": 12,
			"followers": 34
		}`))
	})

	svc := newGitHubTestService(t, mux)

	profile, err := svc.Profile(context.Background(), "alice-dev")
	require.NoError(t, err)

	assert.Equal(t, "alice-dev", profile.Login)
	assert.Equal(t, "Alice", profile.Name)
	assert.Equal(t, "Backend engineer", profile.Bio)
	assert.Equal(t, 12, profile.PublicRepos)
	assert.Equal(t, 34, profile.Followers)
}

func TestGitHubService_Profile_EmptyUsername(t *testing.T) {
	svc := NewGitHubService("", "", "", nil)

	_, err := svc.Profile(context.Background(), "")
	assert.ErrorIs(t, err, ErrGitHubUserNotSet)
}

func TestGitHubService_Repos(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/users/alice-dev/repos", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{
				"name": "devcred",
				"description": "Developer credibility platform",
				"language": "Go",
				"stargazers_count": 5,
				"forks_count": 2,
				"html_url": "https://github.com/alice-dev/devcred"
			},
			{
				"name": "dotfiles",
				"language": "Shell",
				"stargazers_count": 1,
				"forks_count": 0,
				"html_url": "https://github.com/alice-dev/dotfiles"
			}
		]`))
	})

	svc := newGitHubTestService(t, mux)

	repos, err := svc.Repos(context.Background(), "alice-dev")
	require.NoError(t, err)
	require.Len(t, repos, 2)

	assert.Equal(t, "devcred", repos[0].Name)
	assert.Equal(t, "Go", repos[0].Language)
	assert.Equal(t, 5, repos[0].Stars)
	assert.Equal(t, "dotfiles", repos[1].Name)
}

func TestGitHubService_Repos_APIError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/users/alice-dev/repos", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "rate limited"}`, http.StatusForbidden)
	})

	svc := newGitHubTestService(t, mux)

	_, err := svc.Repos(context.Background(), "alice-dev")
	assert.Error(t, err)
}

func TestGitHubService_RepoCount_DegradesToZero(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/users/alice-dev", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "not found"}`, http.StatusNotFound)
	})

	svc := newGitHubTestService(t, mux)

	assert.Equal(t, 0, svc.RepoCount(context.Background(), "alice-dev"))
	assert.Equal(t, 0, svc.RepoCount(context.Background(), ""))
}

func TestGitHubService_OAuthDisabled(t *testing.T) {
	svc := NewGitHubService("", "", "", nil)

	assert.False(t, svc.OAuthEnabled())

	_, err := svc.AuthURL("state123")
	assert.ErrorIs(t, err, ErrGitHubUnavailable)

	_, err = svc.Exchange(context.Background(), "code123")
	assert.ErrorIs(t, err, ErrGitHubUnavailable)
}

func TestGitHubService_AuthURL(t *testing.T) {
	svc := NewGitHubService("client-id", "client-secret", "http://localhost:8080/api/github/callback", nil)

	require.True(t, svc.OAuthEnabled())

	url, err := svc.AuthURL("state123")
	require.NoError(t, err)

	assert.Contains(t, url, "client_id=client-id")
	assert.Contains(t, url, "state=state123")
	assert.Contains(t, url, "github.com")
}
