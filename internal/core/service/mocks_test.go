package service

import (
	"context"

	"stockchat/internal/core/domain"
	"stockchat/internal/core/port"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockMessageStore struct{ mock.Mock }

func (m *MockMessageStore) StoreMessage(ctx context.Context, message domain.ChatMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockMessageStore) LatestMessages(ctx context.Context, roomID uuid.UUID, limit int) ([]domain.ChatMessage, error) {
	args := m.Called(ctx, roomID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChatMessage), args.Error(1)
}

type MockRoomStore struct{ mock.Mock }

func (m *MockRoomStore) CreateRoom(ctx context.Context, room domain.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *MockRoomStore) GetRoom(ctx context.Context, id uuid.UUID) (domain.Room, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Room), args.Error(1)
}

func (m *MockRoomStore) ListRooms(ctx context.Context) ([]domain.Room, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Room), args.Error(1)
}

type MockUserStore struct{ mock.Mock }

func (m *MockUserStore) CreateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) GetUserByName(ctx context.Context, name string) (domain.User, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(domain.User), args.Error(1)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, exchange, routingKey string, payload any) error {
	args := m.Called(ctx, exchange, routingKey, payload)
	return args.Error(0)
}

type MockBroadcaster struct{ mock.Mock }

func (m *MockBroadcaster) Join(roomID string, s port.Subscriber) {
	m.Called(roomID, s)
}

func (m *MockBroadcaster) Leave(roomID string, s port.Subscriber) {
	m.Called(roomID, s)
}

func (m *MockBroadcaster) Broadcast(roomID string, event string, payload any) {
	m.Called(roomID, event, payload)
}

type MockSubscriber struct{ mock.Mock }

func (m *MockSubscriber) Deliver(event string, payload any) error {
	args := m.Called(event, payload)
	return args.Error(0)
}

type MockQuoteFetcher struct{ mock.Mock }

func (m *MockQuoteFetcher) FetchQuote(ctx context.Context, code string) string {
	args := m.Called(ctx, code)
	return args.String(0)
}
