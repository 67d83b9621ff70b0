package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Name         string
	PasswordHash string
	CreatedAtUTC time.Time
}

type Room struct {
	ID           uuid.UUID
	Name         string
	CreatedAtUTC time.Time
}

// ChatMessage is the persisted form of anything said in a room, whether by a
// user or by the bot pipeline. AuthorID is nil for bot messages.
type ChatMessage struct {
	ID           uuid.UUID
	RoomID       uuid.UUID
	Content      string
	AuthorName   string
	AuthorID     *uuid.UUID
	CreatedAtUTC time.Time
	IsBotMessage bool
}

// ChatMessageDTO is the payload broadcast to room subscribers. The shape is
// identical for human and bot messages.
type ChatMessageDTO struct {
	ID           uuid.UUID `json:"id"`
	Content      string    `json:"content"`
	UserName     string    `json:"userName"`
	CreatedAtUTC time.Time `json:"createdAtUtc"`
	IsBotMessage bool      `json:"isBotMessage"`
}

func (m ChatMessage) DTO() ChatMessageDTO {
	return ChatMessageDTO{
		ID:           m.ID,
		Content:      m.Content,
		UserName:     m.AuthorName,
		CreatedAtUTC: m.CreatedAtUTC,
		IsBotMessage: m.IsBotMessage,
	}
}

// StockCommand travels over the commands stream from chat ingress to the bot
// worker. It is never persisted.
type StockCommand struct {
	StockCode     string    `json:"stockCode"`
	RoomID        uuid.UUID `json:"roomId"`
	RequestUserID string    `json:"requestUserId"`
}

// BotMessage travels over the events stream from the bot worker back into
// chat, where the event bridge turns it into a ChatMessage.
type BotMessage struct {
	RoomID       uuid.UUID `json:"roomId"`
	Message      string    `json:"message"`
	CreatedAtUTC time.Time `json:"createdAtUtc"`
}
