package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"stockchat/internal/core/domain"
	"stockchat/internal/core/port"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// EventBridge consumes bot message events, persists them as bot-authored chat
// messages and broadcasts them to the room's live subscribers. Duplicate
// delivery shows up as a duplicate bot message, never as corrupted state.
type EventBridge struct {
	consumer port.Consumer
	messages port.MessageStore
	hub      port.Broadcaster
	streams  Streams
}

func NewEventBridge(consumer port.Consumer, messages port.MessageStore, hub port.Broadcaster,
	streams Streams) *EventBridge {
	return &EventBridge{consumer: consumer, messages: messages, hub: hub, streams: streams}
}

// Run consumes the events queue until ctx is cancelled.
func (b *EventBridge) Run(ctx context.Context) error {
	log.Info().Str("queue", b.streams.EventsQueue).Msg("event bridge starting")
	return b.consumer.Consume(ctx, b.streams.EventsQueue, b.HandleEvent)
}

func (b *EventBridge) HandleEvent(ctx context.Context, body []byte) error {
	var event domain.BotMessage
	if err := json.Unmarshal(body, &event); err != nil {
		log.Warn().Err(err).Str("body", string(body)).Msg("undeserializable bot message event")
		return fmt.Errorf("decoding bot message: %w", port.ErrDiscardMessage)
	}

	if event.RoomID == uuid.Nil || event.Message == "" {
		log.Warn().Str("body", string(body)).Msg("bot message event missing room or content")
		return fmt.Errorf("incomplete bot message: %w", port.ErrDiscardMessage)
	}

	createdAt := event.CreatedAtUTC
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	message := domain.ChatMessage{
		ID:           uuid.New(),
		RoomID:       event.RoomID,
		Content:      event.Message,
		AuthorName:   domain.BotName,
		CreatedAtUTC: createdAt,
		IsBotMessage: true,
	}

	if err := b.messages.StoreMessage(ctx, message); err != nil {
		return fmt.Errorf("storing bot message: %w", err)
	}

	b.hub.Broadcast(event.RoomID.String(), port.EventReceiveMessage, message.DTO())

	log.Debug().Str("roomId", event.RoomID.String()).Msg("bot message delivered to room")
	return nil
}
