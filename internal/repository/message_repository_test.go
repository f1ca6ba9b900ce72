package repository

import (
	"context"
	"testing"

	"github.com/devcred/devcred-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MessageRepositoryTestSuite is the test suite for MessageRepository
type MessageRepositoryTestSuite struct {
	suite.Suite
	db          *gorm.DB
	repo        MessageRepository
	requestRepo ContributionRequestRepository
	alice       *models.User
	bob         *models.User
}

// SetupSuite runs once before all tests
func (s *MessageRepositoryTestSuite) SetupSuite() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err)

	db.Exec("PRAGMA foreign_keys = ON")

	err = db.AutoMigrate(&models.User{}, &models.Message{}, &models.ContributionRequest{}, &models.Contribution{})
	require.NoError(s.T(), err)

	s.db = db
	s.repo = NewMessageRepository(db)
	s.requestRepo = NewContributionRequestRepository(db)
}

// TearDownSuite runs once after all tests
func (s *MessageRepositoryTestSuite) TearDownSuite() {
	sqlDB, _ := s.db.DB()
	if sqlDB != nil {
		sqlDB.Close()
	}
}

// SetupTest runs before each test - clean up data and create test fixtures
func (s *MessageRepositoryTestSuite) SetupTest() {
	s.db.Exec("DELETE FROM contributions")
	s.db.Exec("DELETE FROM contribution_requests")
	s.db.Exec("DELETE FROM messages")
	s.db.Exec("DELETE FROM users")

	s.alice = &models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(s.T(), s.db.Create(s.alice).Error)

	s.bob = &models.User{Username: "bob", Email: "bob@example.com", PasswordHash: "x"}
	require.NoError(s.T(), s.db.Create(s.bob).Error)
}

// TestMessageRepositoryTestSuite runs the test suite
func TestMessageRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(MessageRepositoryTestSuite))
}

// sendMessage creates a pending message from sender to recipient
func (s *MessageRepositoryTestSuite) sendMessage(senderID, recipientID uint, body string) *models.Message {
	message := &models.Message{SenderID: senderID, RecipientID: recipientID, Body: body}
	require.NoError(s.T(), s.repo.Create(context.Background(), message))
	return message
}

// ==================== Create Tests ====================

func (s *MessageRepositoryTestSuite) TestCreate_Success() {
	message := s.sendMessage(s.bob.ID, s.alice.ID, "could you log my mentoring session?")

	assert.NotZero(s.T(), message.ID)
	assert.False(s.T(), message.Read)
	assert.NotZero(s.T(), message.CreatedAt)

	saved, err := s.repo.GetByID(context.Background(), message.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.MessageStatusPending, saved.Status)
}

func (s *MessageRepositoryTestSuite) TestCreate_SelfMessage() {
	message := &models.Message{SenderID: s.alice.ID, RecipientID: s.alice.ID, Body: "hi me"}
	err := s.repo.Create(context.Background(), message)
	assert.ErrorIs(s.T(), err, ErrSelfRequest)
}

// ==================== ApplyAction Tests ====================

func (s *MessageRepositoryTestSuite) TestApplyAction_AcceptOpensGate() {
	// Bob messages Alice; Alice accepts
	message := s.sendMessage(s.bob.ID, s.alice.ID, "endorse my work?")

	updated, err := s.repo.ApplyAction(context.Background(), message.ID, s.alice.ID, models.RequestActionAccept)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.MessageStatusAccepted, updated.Status)

	// The upserted ledger entry grants Alice, not Bob
	var request models.ContributionRequest
	require.NoError(s.T(), s.db.Where("sender_id = ? AND recipient_id = ?", s.bob.ID, s.alice.ID).First(&request).Error)
	assert.True(s.T(), request.Accepted)
	assert.True(s.T(), request.ViaMessage)
	assert.False(s.T(), request.Used)

	allowed, err := s.requestRepo.HasUnusedGrant(context.Background(), s.alice.ID)
	require.NoError(s.T(), err)
	assert.True(s.T(), allowed)

	allowed, err = s.requestRepo.HasUnusedGrant(context.Background(), s.bob.ID)
	require.NoError(s.T(), err)
	assert.False(s.T(), allowed)
}

func (s *MessageRepositoryTestSuite) TestApplyAction_AcceptTwiceKeepsSingleEntry() {
	first := s.sendMessage(s.bob.ID, s.alice.ID, "first")
	second := s.sendMessage(s.bob.ID, s.alice.ID, "second")

	_, err := s.repo.ApplyAction(context.Background(), first.ID, s.alice.ID, models.RequestActionAccept)
	require.NoError(s.T(), err)
	_, err = s.repo.ApplyAction(context.Background(), second.ID, s.alice.ID, models.RequestActionAccept)
	require.NoError(s.T(), err)

	var count int64
	s.db.Model(&models.ContributionRequest{}).
		Where("sender_id = ? AND recipient_id = ?", s.bob.ID, s.alice.ID).
		Count(&count)
	assert.EqualValues(s.T(), 1, count)
}

func (s *MessageRepositoryTestSuite) TestApplyAction_RejectClosesGate() {
	message := s.sendMessage(s.bob.ID, s.alice.ID, "please?")
	_, err := s.repo.ApplyAction(context.Background(), message.ID, s.alice.ID, models.RequestActionAccept)
	require.NoError(s.T(), err)

	another := s.sendMessage(s.bob.ID, s.alice.ID, "changed my mind")
	updated, err := s.repo.ApplyAction(context.Background(), another.ID, s.alice.ID, models.RequestActionReject)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.MessageStatusRejected, updated.Status)

	allowed, err := s.requestRepo.HasUnusedGrant(context.Background(), s.alice.ID)
	require.NoError(s.T(), err)
	assert.False(s.T(), allowed)

	// The entry survives for a potential re-accept
	var request models.ContributionRequest
	require.NoError(s.T(), s.db.Where("sender_id = ? AND recipient_id = ?", s.bob.ID, s.alice.ID).First(&request).Error)
	assert.False(s.T(), request.Accepted)
	assert.True(s.T(), request.ViaMessage)
}

func (s *MessageRepositoryTestSuite) TestApplyAction_RejectWithoutEntryIsNoOp() {
	message := s.sendMessage(s.bob.ID, s.alice.ID, "nope")

	updated, err := s.repo.ApplyAction(context.Background(), message.ID, s.alice.ID, models.RequestActionReject)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.MessageStatusRejected, updated.Status)

	var count int64
	s.db.Model(&models.ContributionRequest{}).Count(&count)
	assert.Zero(s.T(), count)
}

func (s *MessageRepositoryTestSuite) TestApplyAction_RejectDoesNotTouchDirectRequests() {
	// A direct (non-message) request for the same pair keeps its state
	direct := &models.ContributionRequest{SenderID: s.bob.ID, RecipientID: s.alice.ID, Accepted: true}
	require.NoError(s.T(), s.db.Create(direct).Error)

	message := s.sendMessage(s.bob.ID, s.alice.ID, "separate channel")
	_, err := s.repo.ApplyAction(context.Background(), message.ID, s.alice.ID, models.RequestActionReject)
	require.NoError(s.T(), err)

	var request models.ContributionRequest
	require.NoError(s.T(), s.db.First(&request, direct.ID).Error)
	assert.True(s.T(), request.Accepted)
}

func (s *MessageRepositoryTestSuite) TestApplyAction_OnlyRecipient() {
	message := s.sendMessage(s.bob.ID, s.alice.ID, "hello")

	_, err := s.repo.ApplyAction(context.Background(), message.ID, s.bob.ID, models.RequestActionAccept)
	assert.ErrorIs(s.T(), err, ErrForbidden)

	// Message unchanged, no ledger entry created
	saved, err := s.repo.GetByID(context.Background(), message.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.MessageStatusPending, saved.Status)

	var count int64
	s.db.Model(&models.ContributionRequest{}).Count(&count)
	assert.Zero(s.T(), count)
}

func (s *MessageRepositoryTestSuite) TestApplyAction_InvalidAction() {
	message := s.sendMessage(s.bob.ID, s.alice.ID, "hello")

	_, err := s.repo.ApplyAction(context.Background(), message.ID, s.alice.ID, models.RequestAction("archive"))
	assert.ErrorIs(s.T(), err, ErrInvalidInput)
}

func (s *MessageRepositoryTestSuite) TestApplyAction_NotFound() {
	_, err := s.repo.ApplyAction(context.Background(), 9999, s.alice.ID, models.RequestActionAccept)
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

// ==================== Read / unread Tests ====================

func (s *MessageRepositoryTestSuite) TestMarkAsRead_RecipientOnly() {
	message := s.sendMessage(s.bob.ID, s.alice.ID, "unread")

	err := s.repo.MarkAsRead(context.Background(), message.ID, s.bob.ID)
	assert.ErrorIs(s.T(), err, ErrForbidden)

	err = s.repo.MarkAsRead(context.Background(), message.ID, s.alice.ID)
	assert.NoError(s.T(), err)

	saved, err := s.repo.GetByID(context.Background(), message.ID)
	require.NoError(s.T(), err)
	assert.True(s.T(), saved.Read)
}

func (s *MessageRepositoryTestSuite) TestCountUnread() {
	s.sendMessage(s.bob.ID, s.alice.ID, "one")
	read := s.sendMessage(s.bob.ID, s.alice.ID, "two")
	require.NoError(s.T(), s.repo.MarkAsRead(context.Background(), read.ID, s.alice.ID))
	s.sendMessage(s.alice.ID, s.bob.ID, "outbound does not count")

	count, err := s.repo.CountUnread(context.Background(), s.alice.ID)
	assert.NoError(s.T(), err)
	assert.EqualValues(s.T(), 1, count)
}

// ==================== List Tests ====================

func (s *MessageRepositoryTestSuite) TestListForUser_ParticipantsOnly() {
	carol := &models.User{Username: "carol", Email: "carol@example.com", PasswordHash: "x"}
	require.NoError(s.T(), s.db.Create(carol).Error)

	s.sendMessage(s.bob.ID, s.alice.ID, "to alice")
	s.sendMessage(s.alice.ID, s.bob.ID, "to bob")
	s.sendMessage(s.bob.ID, carol.ID, "private")

	messages, total, err := s.repo.ListForUser(context.Background(), s.alice.ID, 20, 0)
	assert.NoError(s.T(), err)
	assert.EqualValues(s.T(), 2, total)
	assert.Len(s.T(), messages, 2)
}

func (s *MessageRepositoryTestSuite) TestListConversationPartners() {
	carol := &models.User{Username: "carol", Email: "carol@example.com", PasswordHash: "x"}
	require.NoError(s.T(), s.db.Create(carol).Error)

	s.sendMessage(s.bob.ID, s.alice.ID, "hi")
	s.sendMessage(s.alice.ID, carol.ID, "hello")

	partners, err := s.repo.ListConversationPartners(context.Background(), s.alice.ID)
	assert.NoError(s.T(), err)
	require.Len(s.T(), partners, 2)
	assert.Equal(s.T(), "bob", partners[0].Username)
	assert.Equal(s.T(), "carol", partners[1].Username)
}

func (s *MessageRepositoryTestSuite) TestDelete_ParticipantOnly() {
	carol := &models.User{Username: "carol", Email: "carol@example.com", PasswordHash: "x"}
	require.NoError(s.T(), s.db.Create(carol).Error)

	message := s.sendMessage(s.bob.ID, s.alice.ID, "temp")

	err := s.repo.Delete(context.Background(), message.ID, carol.ID)
	assert.ErrorIs(s.T(), err, ErrNotFound)

	err = s.repo.Delete(context.Background(), message.ID, s.bob.ID)
	assert.NoError(s.T(), err)
}
