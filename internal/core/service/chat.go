package service

import (
	"context"
	"fmt"
	"time"

	"stockchat/internal/core/domain"
	"stockchat/internal/core/port"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// Chat is the room hub service: join/leave with history replay, the plain
// message path and the stock command path. Commands never touch persistence
// here; they go out through the commands stream and come back asynchronously
// through the event bridge.
type Chat struct {
	messages  port.MessageStore
	rooms     port.RoomStore
	publisher port.Publisher
	hub       port.Broadcaster
	streams   Streams
}

func NewChat(messages port.MessageStore, rooms port.RoomStore, publisher port.Publisher,
	hub port.Broadcaster, streams Streams) *Chat {
	return &Chat{messages: messages, rooms: rooms, publisher: publisher, hub: hub, streams: streams}
}

// Join adds the subscriber to the room group and replays the most recent
// messages, oldest first, to the joiner only.
func (c *Chat) Join(ctx context.Context, roomID uuid.UUID, sub port.Subscriber) error {
	if _, err := c.rooms.GetRoom(ctx, roomID); err != nil {
		return err
	}

	c.hub.Join(roomID.String(), sub)

	history, err := c.messages.LatestMessages(ctx, roomID, domain.HistoryLimit)
	if err != nil {
		return fmt.Errorf("loading room history: %w", err)
	}

	dtos := lo.Map(history, func(m domain.ChatMessage, _ int) domain.ChatMessageDTO {
		return m.DTO()
	})

	return sub.Deliver(port.EventLoadMessages, dtos)
}

func (c *Chat) Leave(roomID uuid.UUID, sub port.Subscriber) {
	c.hub.Leave(roomID.String(), sub)
}

// Send routes chat text. Stock commands with a code are published to the
// commands stream and return immediately; malformed commands get instant
// in-room usage feedback; everything else is persisted and broadcast.
func (c *Chat) Send(ctx context.Context, roomID uuid.UUID, user domain.User, content string) error {
	parse := domain.ParseStock(content)
	if parse.IsCommand {
		if !parse.HasCode {
			return c.PostBotMessage(ctx, roomID, parse.UsageError)
		}

		command := domain.StockCommand{
			StockCode:     parse.Code,
			RoomID:        roomID,
			RequestUserID: user.ID.String(),
		}

		if err := c.publisher.Publish(ctx, c.streams.CommandsExchange, c.streams.CommandsKey, command); err != nil {
			return fmt.Errorf("publishing stock command: %w", err)
		}

		log.Debug().
			Str("stockCode", command.StockCode).
			Str("roomId", roomID.String()).
			Msg("stock command published")
		return nil
	}

	userID := user.ID
	message := domain.ChatMessage{
		ID:           uuid.New(),
		RoomID:       roomID,
		Content:      content,
		AuthorName:   user.Name,
		AuthorID:     &userID,
		CreatedAtUTC: time.Now().UTC(),
	}

	if err := c.messages.StoreMessage(ctx, message); err != nil {
		return fmt.Errorf("storing message: %w", err)
	}

	c.hub.Broadcast(roomID.String(), port.EventReceiveMessage, message.DTO())
	return nil
}

// PostBotMessage persists a bot-authored message and broadcasts it to the
// room, bypassing the broker. Used for synchronous feedback such as usage
// errors.
func (c *Chat) PostBotMessage(ctx context.Context, roomID uuid.UUID, content string) error {
	message := domain.ChatMessage{
		ID:           uuid.New(),
		RoomID:       roomID,
		Content:      content,
		AuthorName:   domain.BotName,
		CreatedAtUTC: time.Now().UTC(),
		IsBotMessage: true,
	}

	if err := c.messages.StoreMessage(ctx, message); err != nil {
		return fmt.Errorf("storing bot message: %w", err)
	}

	c.hub.Broadcast(roomID.String(), port.EventReceiveMessage, message.DTO())
	return nil
}
