package domain

import "errors"

// BotName is the display name attached to every message the pipeline writes
// back into a room.
const BotName = "StockBot"

// HistoryLimit is how many messages a joining subscriber gets replayed.
const HistoryLimit = 50

var (
	ErrUserExists         = errors.New("username already taken")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRoomExists         = errors.New("room with this name already exists")
	ErrRoomNotFound       = errors.New("room not found")
)
