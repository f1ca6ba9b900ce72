package mocks

import (
	"context"

	"github.com/devcred/devcred-backend/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository implements repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]models.User, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockMessageRepository implements repository.MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, message *models.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockMessageRepository) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockMessageRepository) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]models.Message, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.Message), args.Get(1).(int64), args.Error(2)
}

func (m *MockMessageRepository) MarkAsRead(ctx context.Context, id, actorID uint) error {
	args := m.Called(ctx, id, actorID)
	return args.Error(0)
}

func (m *MockMessageRepository) Delete(ctx context.Context, id, actorID uint) error {
	args := m.Called(ctx, id, actorID)
	return args.Error(0)
}

func (m *MockMessageRepository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessageRepository) ListConversationPartners(ctx context.Context, userID uint) ([]models.ConversationPartner, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ConversationPartner), args.Error(1)
}

func (m *MockMessageRepository) ApplyAction(ctx context.Context, id, actorID uint, action models.RequestAction) (*models.Message, error) {
	args := m.Called(ctx, id, actorID, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

// MockRequestRepository implements repository.ContributionRequestRepository
type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) Send(ctx context.Context, senderID, recipientID uint) (*models.ContributionRequest, error) {
	args := m.Called(ctx, senderID, recipientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContributionRequest), args.Error(1)
}

func (m *MockRequestRepository) Respond(ctx context.Context, id, actorID uint, action models.RequestAction) (*models.ContributionRequest, error) {
	args := m.Called(ctx, id, actorID, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContributionRequest), args.Error(1)
}

func (m *MockRequestRepository) UpsertFromMessage(ctx context.Context, senderID, recipientID uint, accepted bool) (*models.ContributionRequest, error) {
	args := m.Called(ctx, senderID, recipientID, accepted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContributionRequest), args.Error(1)
}

func (m *MockRequestRepository) HasUnusedGrant(ctx context.Context, userID uint) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRequestRepository) ListIncoming(ctx context.Context, userID uint) ([]models.ContributionRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ContributionRequest), args.Error(1)
}

func (m *MockRequestRepository) ListOutgoing(ctx context.Context, userID uint) ([]models.ContributionRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ContributionRequest), args.Error(1)
}

// MockContributionRepository implements repository.ContributionRepository
type MockContributionRepository struct {
	mock.Mock
}

func (m *MockContributionRepository) CreateGated(ctx context.Context, contribution *models.Contribution) error {
	args := m.Called(ctx, contribution)
	return args.Error(0)
}

func (m *MockContributionRepository) GetByID(ctx context.Context, id uint) (*models.Contribution, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contribution), args.Error(1)
}

func (m *MockContributionRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Contribution, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.Contribution), args.Get(1).(int64), args.Error(2)
}

func (m *MockContributionRepository) Update(ctx context.Context, contribution *models.Contribution) error {
	args := m.Called(ctx, contribution)
	return args.Error(0)
}

func (m *MockContributionRepository) Delete(ctx context.Context, id, ownerID uint) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

func (m *MockContributionRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockEndorsementRepository implements repository.EndorsementRepository
type MockEndorsementRepository struct {
	mock.Mock
}

func (m *MockEndorsementRepository) Create(ctx context.Context, endorsement *models.Endorsement) error {
	args := m.Called(ctx, endorsement)
	return args.Error(0)
}

func (m *MockEndorsementRepository) ListForUser(ctx context.Context, userID uint) ([]models.Endorsement, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Endorsement), args.Error(1)
}

func (m *MockEndorsementRepository) CountForUser(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockVideoRepository implements repository.VideoRepository
type MockVideoRepository struct {
	mock.Mock
}

func (m *MockVideoRepository) Create(ctx context.Context, video *models.MentoringVideo) error {
	args := m.Called(ctx, video)
	return args.Error(0)
}

func (m *MockVideoRepository) GetByID(ctx context.Context, id uint) (*models.MentoringVideo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MentoringVideo), args.Error(1)
}

func (m *MockVideoRepository) List(ctx context.Context, limit, offset int) ([]models.MentoringVideo, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.MentoringVideo), args.Get(1).(int64), args.Error(2)
}

func (m *MockVideoRepository) ListByUser(ctx context.Context, userID uint) ([]models.MentoringVideo, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MentoringVideo), args.Error(1)
}

func (m *MockVideoRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVideoRepository) Delete(ctx context.Context, id, ownerID uint) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

// MockResumeRepository implements repository.ResumeRepository
type MockResumeRepository struct {
	mock.Mock
}

func (m *MockResumeRepository) Create(ctx context.Context, entry *models.ResumeEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockResumeRepository) GetOwned(ctx context.Context, id, ownerID uint) (*models.ResumeEntry, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ResumeEntry), args.Error(1)
}

func (m *MockResumeRepository) ListByUser(ctx context.Context, userID uint) ([]models.ResumeEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ResumeEntry), args.Error(1)
}

func (m *MockResumeRepository) ExistsForUser(ctx context.Context, userID uint) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}
