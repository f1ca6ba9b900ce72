package fixtures

import (
	"time"

	"github.com/devcred/devcred-backend/internal/models"
)

// UserBuilder creates test User instances with fluent API
type UserBuilder struct {
	user models.User
}

// NewUserBuilder creates a new UserBuilder with sensible defaults
func NewUserBuilder() *UserBuilder {
	now := time.Now()
	return &UserBuilder{
		user: models.User{
			ID:           1,
			Username:     "alice",
			Email:        "alice@example.com",
			PasswordHash: "$2a$10$notarealhashnotarealhashnotarealhash",
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}
}

// WithID sets the user ID
func (b *UserBuilder) WithID(id uint) *UserBuilder {
	b.user.ID = id
	return b
}

// WithUsername sets the username and derives the email from it
func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.user.Username = username
	b.user.Email = username + "@example.com"
	return b
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.user.Email = email
	return b
}

// WithBio sets the bio
func (b *UserBuilder) WithBio(bio string) *UserBuilder {
	b.user.Bio = bio
	return b
}

// WithGitHubUsername sets the linked GitHub account
func (b *UserBuilder) WithGitHubUsername(username string) *UserBuilder {
	b.user.GitHubUsername = username
	return b
}

// Build returns the constructed User
func (b *UserBuilder) Build() *models.User {
	return &b.user
}

// BuildValue returns the constructed User as a value (not pointer)
func (b *UserBuilder) BuildValue() models.User {
	return b.user
}

// MessageBuilder creates test Message instances with fluent API
type MessageBuilder struct {
	message models.Message
}

// NewMessageBuilder creates a new MessageBuilder with sensible defaults
func NewMessageBuilder() *MessageBuilder {
	return &MessageBuilder{
		message: models.Message{
			ID:          1,
			SenderID:    1,
			RecipientID: 2,
			Body:        "Hi, I would like to log a contribution for the review you did.",
			Status:      models.MessageStatusPending,
			CreatedAt:   time.Now(),
		},
	}
}

// WithID sets the message ID
func (b *MessageBuilder) WithID(id uint) *MessageBuilder {
	b.message.ID = id
	return b
}

// WithParticipants sets the sender and recipient
func (b *MessageBuilder) WithParticipants(senderID, recipientID uint) *MessageBuilder {
	b.message.SenderID = senderID
	b.message.RecipientID = recipientID
	return b
}

// WithBody sets the message body
func (b *MessageBuilder) WithBody(body string) *MessageBuilder {
	b.message.Body = body
	return b
}

// WithAttachmentPath sets the stored attachment path
func (b *MessageBuilder) WithAttachmentPath(path string) *MessageBuilder {
	b.message.AttachmentPath = path
	return b
}

// WithRead sets the read flag
func (b *MessageBuilder) WithRead(read bool) *MessageBuilder {
	b.message.Read = read
	return b
}

// WithStatus sets the recipient's decision
func (b *MessageBuilder) WithStatus(status models.MessageStatus) *MessageBuilder {
	b.message.Status = status
	return b
}

// Build returns the constructed Message
func (b *MessageBuilder) Build() *models.Message {
	return &b.message
}

// BuildValue returns the constructed Message as a value (not pointer)
func (b *MessageBuilder) BuildValue() models.Message {
	return b.message
}

// RequestBuilder creates test ContributionRequest instances with fluent API
type RequestBuilder struct {
	request models.ContributionRequest
}

// NewRequestBuilder creates a new RequestBuilder with sensible defaults
func NewRequestBuilder() *RequestBuilder {
	now := time.Now()
	return &RequestBuilder{
		request: models.ContributionRequest{
			ID:          1,
			SenderID:    1,
			RecipientID: 2,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}

// WithID sets the request ID
func (b *RequestBuilder) WithID(id uint) *RequestBuilder {
	b.request.ID = id
	return b
}

// WithPair sets the sender and recipient
func (b *RequestBuilder) WithPair(senderID, recipientID uint) *RequestBuilder {
	b.request.SenderID = senderID
	b.request.RecipientID = recipientID
	return b
}

// WithAccepted sets the accepted flag
func (b *RequestBuilder) WithAccepted(accepted bool) *RequestBuilder {
	b.request.Accepted = accepted
	return b
}

// WithUsed sets the used flag
func (b *RequestBuilder) WithUsed(used bool) *RequestBuilder {
	b.request.Used = used
	return b
}

// WithViaMessage marks the grant as originating from a message accept
func (b *RequestBuilder) WithViaMessage(via bool) *RequestBuilder {
	b.request.ViaMessage = via
	return b
}

// Build returns the constructed ContributionRequest
func (b *RequestBuilder) Build() *models.ContributionRequest {
	return &b.request
}

// BuildValue returns the constructed ContributionRequest as a value (not pointer)
func (b *RequestBuilder) BuildValue() models.ContributionRequest {
	return b.request
}

// ContributionBuilder creates test Contribution instances with fluent API
type ContributionBuilder struct {
	contribution models.Contribution
}

// NewContributionBuilder creates a new ContributionBuilder with sensible defaults
func NewContributionBuilder() *ContributionBuilder {
	now := time.Now()
	return &ContributionBuilder{
		contribution: models.Contribution{
			ID:               1,
			UserID:           1,
			Title:            "Fixed race in scheduler",
			Description:      "Tracked down a double-close on the worker channel.",
			ContributionType: models.ContributionTypeBugfix,
			IsPublic:         true,
			CreatedAt:        now,
			UpdatedAt:        now,
		},
	}
}

// WithID sets the contribution ID
func (b *ContributionBuilder) WithID(id uint) *ContributionBuilder {
	b.contribution.ID = id
	return b
}

// WithUserID sets the owner
func (b *ContributionBuilder) WithUserID(userID uint) *ContributionBuilder {
	b.contribution.UserID = userID
	return b
}

// WithTitle sets the title
func (b *ContributionBuilder) WithTitle(title string) *ContributionBuilder {
	b.contribution.Title = title
	return b
}

// WithType sets the contribution type
func (b *ContributionBuilder) WithType(t models.ContributionType) *ContributionBuilder {
	b.contribution.ContributionType = t
	return b
}

// WithPublic sets the visibility flag
func (b *ContributionBuilder) WithPublic(public bool) *ContributionBuilder {
	b.contribution.IsPublic = public
	return b
}

// WithProofURL sets the proof link
func (b *ContributionBuilder) WithProofURL(url string) *ContributionBuilder {
	b.contribution.ProofURL = url
	return b
}

// Build returns the constructed Contribution
func (b *ContributionBuilder) Build() *models.Contribution {
	return &b.contribution
}

// BuildValue returns the constructed Contribution as a value (not pointer)
func (b *ContributionBuilder) BuildValue() models.Contribution {
	return b.contribution
}

// Helper functions for creating multiple test entities

// CreateUsers creates a slice of users with sequential IDs
func CreateUsers(count int) []models.User {
	users := make([]models.User, count)
	for i := 0; i < count; i++ {
		users[i] = NewUserBuilder().
			WithID(uint(i + 1)).
			WithUsername(generateUsername(i)).
			BuildValue()
	}
	return users
}

// CreateMessages creates a slice of messages between two users
func CreateMessages(senderID, recipientID uint, count int) []models.Message {
	messages := make([]models.Message, count)
	for i := 0; i < count; i++ {
		messages[i] = NewMessageBuilder().
			WithID(uint(i + 1)).
			WithParticipants(senderID, recipientID).
			WithBody(generateBody(i)).
			BuildValue()
	}
	return messages
}

// CreateContributions creates a slice of contributions for a user
func CreateContributions(userID uint, count int) []models.Contribution {
	contributions := make([]models.Contribution, count)
	for i := 0; i < count; i++ {
		contributions[i] = NewContributionBuilder().
			WithID(uint(i + 1)).
			WithUserID(userID).
			WithTitle(generateTitle(i)).
			BuildValue()
	}
	return contributions
}

func generateUsername(index int) string {
	names := []string{"alice", "bob", "carol", "dave", "erin"}
	if index < len(names) {
		return names[index]
	}
	return names[index%len(names)] + string(rune('0'+index/len(names)))
}

func generateBody(index int) string {
	bodies := []string{
		"Hi, may I log a contribution for the review you did?",
		"Thanks for pairing on the migration last week.",
		"Following up on the docs sprint.",
		"Could you take a look at my endorsement request?",
	}
	return bodies[index%len(bodies)]
}

func generateTitle(index int) string {
	titles := []string{
		"Fixed race in scheduler",
		"Wrote onboarding docs",
		"Mentored a new contributor",
		"Reviewed the storage refactor",
		"Triaged flaky CI failures",
	}
	return titles[index%len(titles)]
}
