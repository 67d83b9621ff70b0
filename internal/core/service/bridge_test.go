package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"stockchat/internal/core/domain"
	"stockchat/internal/core/port"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestEventBridge_HandleEvent(t *testing.T) {
	roomID := uuid.New()
	createdAt := time.Now().UTC().Truncate(time.Second)

	validEvent, err := json.Marshal(domain.BotMessage{
		RoomID:       roomID,
		Message:      "AAPL.US quote is $179.66 per share",
		CreatedAtUTC: createdAt,
	})
	require.NoError(t, err)

	tests := []struct {
		name        string
		body        []byte
		storeErr    error
		wantStore   bool
		wantErr     bool
		wantDiscard bool
	}{
		{
			name:      "well-formed event persisted and broadcast",
			body:      validEvent,
			wantStore: true,
		},
		{
			name:        "malformed payload discarded without requeue",
			body:        []byte("not even json"),
			wantErr:     true,
			wantDiscard: true,
		},
		{
			name:        "event without room discarded",
			body:        []byte(`{"message":"hi"}`),
			wantErr:     true,
			wantDiscard: true,
		},
		{
			name:      "store failure requeues",
			body:      validEvent,
			storeErr:  errors.New("store unavailable"),
			wantStore: true,
			wantErr:   true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			messages := new(MockMessageStore)
			hub := new(MockBroadcaster)

			if tc.wantStore {
				messages.On("StoreMessage", mock.Anything, mock.MatchedBy(func(m domain.ChatMessage) bool {
					return m.RoomID == roomID &&
						m.IsBotMessage &&
						m.AuthorName == domain.BotName &&
						m.AuthorID == nil &&
						m.CreatedAtUTC.Equal(createdAt)
				})).Return(tc.storeErr)
			}
			if tc.wantStore && tc.storeErr == nil {
				hub.On("Broadcast", roomID.String(), port.EventReceiveMessage,
					mock.AnythingOfType("domain.ChatMessageDTO")).Return()
			}

			bridge := NewEventBridge(nil, messages, hub, testStreams())

			err := bridge.HandleEvent(context.Background(), tc.body)

			if tc.wantErr {
				require.Error(t, err)
				assert.Equal(t, tc.wantDiscard, errors.Is(err, port.ErrDiscardMessage))
			} else {
				require.NoError(t, err)
			}
			messages.AssertExpectations(t)
			hub.AssertExpectations(t)
			if !tc.wantStore {
				messages.AssertNotCalled(t, "StoreMessage", mock.Anything, mock.Anything)
				hub.AssertNotCalled(t, "Broadcast", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestEventBridge_HandleEvent_MissingTimestampDefaultsToNow(t *testing.T) {
	roomID := uuid.New()
	messages := new(MockMessageStore)
	hub := new(MockBroadcaster)

	messages.On("StoreMessage", mock.Anything, mock.MatchedBy(func(m domain.ChatMessage) bool {
		return !m.CreatedAtUTC.IsZero()
	})).Return(nil)
	hub.On("Broadcast", mock.Anything, mock.Anything, mock.Anything).Return()

	bridge := NewEventBridge(nil, messages, hub, testStreams())

	body := []byte(`{"roomId":"` + roomID.String() + `","message":"hello"}`)
	require.NoError(t, bridge.HandleEvent(context.Background(), body))

	messages.AssertExpectations(t)
}

func TestEventBridge_RoomIsolation(t *testing.T) {
	roomA := uuid.New()
	roomB := uuid.New()
	messages := new(MockMessageStore)
	hub := new(MockBroadcaster)

	messages.On("StoreMessage", mock.Anything, mock.Anything).Return(nil)
	hub.On("Broadcast", roomA.String(), port.EventReceiveMessage, mock.MatchedBy(func(dto domain.ChatMessageDTO) bool {
		return dto.Content == "quote for room A"
	})).Return().Once()
	hub.On("Broadcast", roomB.String(), port.EventReceiveMessage, mock.MatchedBy(func(dto domain.ChatMessageDTO) bool {
		return dto.Content == "quote for room B"
	})).Return().Once()

	bridge := NewEventBridge(nil, messages, hub, testStreams())

	eventA, _ := json.Marshal(domain.BotMessage{RoomID: roomA, Message: "quote for room A", CreatedAtUTC: time.Now()})
	eventB, _ := json.Marshal(domain.BotMessage{RoomID: roomB, Message: "quote for room B", CreatedAtUTC: time.Now()})

	done := make(chan error, 2)
	go func() { done <- bridge.HandleEvent(context.Background(), eventA) }()
	go func() { done <- bridge.HandleEvent(context.Background(), eventB) }()

	require.NoError(t, <-done)
	require.NoError(t, <-done)
	hub.AssertExpectations(t)
}
