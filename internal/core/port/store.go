package port

import (
	"context"
	"stockchat/internal/core/domain"

	"github.com/google/uuid"
)

type UserStore interface {
	// CreateUser persists a new user; returns domain.ErrUserExists if the
	// name is already taken.
	CreateUser(ctx context.Context, user domain.User) error
	// GetUserByName returns domain.ErrUserNotFound when no such user exists.
	GetUserByName(ctx context.Context, name string) (domain.User, error)
}

type RoomStore interface {
	// CreateRoom persists a new room; returns domain.ErrRoomExists if a room
	// with the same name already exists.
	CreateRoom(ctx context.Context, room domain.Room) error
	GetRoom(ctx context.Context, id uuid.UUID) (domain.Room, error)
	// ListRooms returns all rooms sorted by name.
	ListRooms(ctx context.Context) ([]domain.Room, error)
}

type MessageStore interface {
	StoreMessage(ctx context.Context, message domain.ChatMessage) error
	// LatestMessages returns up to limit of the most recent messages for the
	// room, ordered oldest to newest.
	LatestMessages(ctx context.Context, roomID uuid.UUID, limit int) ([]domain.ChatMessage, error)
}
