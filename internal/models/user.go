package models

import (
	"time"
)

// User represents a registered member of the platform
type User struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Username         string    `gorm:"uniqueIndex;not null;size:150" json:"username"`
	Email            string    `gorm:"uniqueIndex;not null;size:255" json:"email"`
	PasswordHash     string    `gorm:"not null" json:"-"`
	Bio              string    `json:"bio,omitempty"`
	GitHubUsername   string    `gorm:"size:50" json:"github_username,omitempty"`
	ProfileImagePath string    `gorm:"size:512" json:"profile_image_path,omitempty"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for User
func (User) TableName() string {
	return "users"
}

// UserProfile is the public-facing projection of a user, enriched with
// the scores the frontend shows on profile pages
type UserProfile struct {
	ID                uint             `json:"id"`
	Username          string           `json:"username"`
	Bio               string           `json:"bio,omitempty"`
	GitHubUsername    string           `json:"github_username,omitempty"`
	ProfileImagePath  string           `json:"profile_image_path,omitempty"`
	EndorsementScore  int64            `json:"endorsement_score"`
	ContributionScore int64            `json:"contribution_score"`
	Videos            []MentoringVideo `json:"videos"`
}

// Dashboard aggregates the counters shown on the signed-in landing page
type Dashboard struct {
	Username           string `json:"username"`
	Email              string `json:"email"`
	GitHubUsername     string `json:"github_username,omitempty"`
	ContributionScore  int64  `json:"contribution_score"`
	EndorsementScore   int64  `json:"endorsement_score"`
	VideoContributions int64  `json:"video_contributions"`
	ResumeGenerated    bool   `json:"resume_generated"`
	GitHubRepoCount    int    `json:"github_repo_count"`
	UnreadCount        int64  `json:"unread_count"`
}
