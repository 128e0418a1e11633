package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"friends-service/internal/directory"
	"friends-service/internal/friends"
	"friends-service/internal/models"
	"friends-service/internal/rabbitmq"
	"friends-service/internal/repositories"
)

// MockFriendRequestRepository mocks store behavior for service and handler tests.
type MockFriendRequestRepository struct {
	mock.Mock
}

func (m *MockFriendRequestRepository) Insert(ctx context.Context, senderID, receiverID int64) (*models.FriendRequest, error) {
	args := m.Called(ctx, senderID, receiverID)
	var req *models.FriendRequest
	if val := args.Get(0); val != nil {
		req = val.(*models.FriendRequest)
	}
	return req, args.Error(1)
}

func (m *MockFriendRequestRepository) GetByID(ctx context.Context, id int64) (*models.FriendRequest, error) {
	args := m.Called(ctx, id)
	var req *models.FriendRequest
	if val := args.Get(0); val != nil {
		req = val.(*models.FriendRequest)
	}
	return req, args.Error(1)
}

func (m *MockFriendRequestRepository) FindByPair(ctx context.Context, a, b int64) (*models.FriendRequest, error) {
	args := m.Called(ctx, a, b)
	var req *models.FriendRequest
	if val := args.Get(0); val != nil {
		req = val.(*models.FriendRequest)
	}
	return req, args.Error(1)
}

func (m *MockFriendRequestRepository) FindByParticipant(ctx context.Context, userID int64, state models.State) ([]models.FriendRequest, error) {
	args := m.Called(ctx, userID, state)
	var reqs []models.FriendRequest
	if val := args.Get(0); val != nil {
		reqs = val.([]models.FriendRequest)
	}
	return reqs, args.Error(1)
}

func (m *MockFriendRequestRepository) ListFriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	args := m.Called(ctx, userID)
	var ids []int64
	if val := args.Get(0); val != nil {
		ids = val.([]int64)
	}
	return ids, args.Error(1)
}

func (m *MockFriendRequestRepository) HasPendingRequest(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFriendRequestRepository) Transition(ctx context.Context, id int64, apply repositories.TransitionFunc) (*models.FriendRequest, error) {
	args := m.Called(ctx, id, apply)
	var req *models.FriendRequest
	if val := args.Get(0); val != nil {
		req = val.(*models.FriendRequest)
	}
	return req, args.Error(1)
}

var _ repositories.FriendRequestRepository = (*MockFriendRequestRepository)(nil)

// MockDirectory mocks the account directory collaborator.
type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) GetAccount(ctx context.Context, id int64) (*directory.Account, error) {
	args := m.Called(ctx, id)
	var account *directory.Account
	if val := args.Get(0); val != nil {
		account = val.(*directory.Account)
	}
	return account, args.Error(1)
}

var _ friends.Directory = (*MockDirectory)(nil)

// MockPublisher mocks RabbitMQ publisher behavior for events and audit.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, event any) error {
	args := m.Called(ctx, routingKey, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

var _ rabbitmq.Publisher = (*MockPublisher)(nil)
