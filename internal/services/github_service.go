package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"
)

// GitHub integration errors
var (
	ErrGitHubUnavailable = errors.New("github integration is not configured")
	ErrGitHubUserNotSet  = errors.New("no github username on profile")
)

// GitHubProfile is the subset of a GitHub user shown on profiles
type GitHubProfile struct {
	Login       string `json:"login"`
	Name        string `json:"name,omitempty"`
	Bio         string `json:"bio,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	HTMLURL     string `json:"html_url"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
}

// GitHubRepo is the subset of a repository shown on profiles
type GitHubRepo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Language    string `json:"language,omitempty"`
	Stars       int    `json:"stars"`
	Forks       int    `json:"forks"`
	HTMLURL     string `json:"html_url"`
}

// GitHubService proxies public GitHub profile data and drives the
// OAuth flow that links a GitHub account to a DevCred profile.
type GitHubService struct {
	client *github.Client
	oauth  *oauth2.Config
	logger *slog.Logger
}

// NewGitHubService creates a GitHubService. Empty OAuth credentials
// leave account linking disabled; public profile lookups still work.
func NewGitHubService(clientID, clientSecret, redirectURL string, logger *slog.Logger) *GitHubService {
	var oauthCfg *oauth2.Config
	if clientID != "" && clientSecret != "" {
		oauthCfg = &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"read:user"},
			Endpoint:     githuboauth.Endpoint,
		}
	}
	return &GitHubService{
		client: github.NewClient(nil),
		oauth:  oauthCfg,
		logger: logger,
	}
}

// NewGitHubServiceWithClient creates a GitHubService with a custom API client
func NewGitHubServiceWithClient(client *github.Client, oauthCfg *oauth2.Config, logger *slog.Logger) *GitHubService {
	return &GitHubService{
		client: client,
		oauth:  oauthCfg,
		logger: logger,
	}
}

// OAuthEnabled reports whether OAuth credentials were configured
func (s *GitHubService) OAuthEnabled() bool {
	return s.oauth != nil
}

// AuthURL returns the GitHub authorization URL for the given state
func (s *GitHubService) AuthURL(state string) (string, error) {
	if s.oauth == nil {
		return "", ErrGitHubUnavailable
	}
	return s.oauth.AuthCodeURL(state), nil
}

// Exchange trades an authorization code for a token and resolves the
// GitHub login it belongs to.
func (s *GitHubService) Exchange(ctx context.Context, code string) (string, error) {
	if s.oauth == nil {
		return "", ErrGitHubUnavailable
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("oauth exchange failed: %w", err)
	}

	authed := github.NewClient(s.oauth.Client(ctx, token))
	user, _, err := authed.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("failed to fetch authenticated user: %w", err)
	}

	return user.GetLogin(), nil
}

// Profile fetches the public profile for a GitHub username
func (s *GitHubService) Profile(ctx context.Context, username string) (*GitHubProfile, error) {
	if username == "" {
		return nil, ErrGitHubUserNotSet
	}

	user, _, err := s.client.Users.Get(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch github profile: %w", err)
	}

	return &GitHubProfile{
		Login:       user.GetLogin(),
		Name:        user.GetName(),
		Bio:         user.GetBio(),
		AvatarURL:   user.GetAvatarURL(),
		HTMLURL:     user.GetHTMLURL(),
		PublicRepos: user.GetPublicRepos(),
		Followers:   user.GetFollowers(),
	}, nil
}

// Repos fetches the user's public repositories, most recently pushed first
func (s *GitHubService) Repos(ctx context.Context, username string) ([]GitHubRepo, error) {
	if username == "" {
		return nil, ErrGitHubUserNotSet
	}

	opts := &github.RepositoryListByUserOptions{
		Type:        "owner",
		Sort:        "pushed",
		ListOptions: github.ListOptions{PerPage: 30},
	}

	repos, _, err := s.client.Repositories.ListByUser(ctx, username, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch github repos: %w", err)
	}

	result := make([]GitHubRepo, 0, len(repos))
	for _, r := range repos {
		result = append(result, GitHubRepo{
			Name:        r.GetName(),
			Description: r.GetDescription(),
			Language:    r.GetLanguage(),
			Stars:       r.GetStargazersCount(),
			Forks:       r.GetForksCount(),
			HTMLURL:     r.GetHTMLURL(),
		})
	}

	return result, nil
}

// RepoCount returns the number of public repositories for the username.
// Errors degrade to zero so dashboards never fail on GitHub outages.
func (s *GitHubService) RepoCount(ctx context.Context, username string) int {
	if username == "" {
		return 0
	}

	profile, err := s.Profile(ctx, username)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("github repo count lookup failed",
				slog.String("username", username),
				slog.Any("error", err))
		}
		return 0
	}

	return profile.PublicRepos
}
