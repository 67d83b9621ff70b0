package ws

import (
	"sync"

	"stockchat/internal/core/port"

	"github.com/rs/zerolog/log"
)

// Hub is the in-memory room fan-out registry. Membership changes and
// broadcasts can arrive from any goroutine.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[port.Subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[port.Subscriber]struct{})}
}

func (h *Hub) Join(roomID string, s port.Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	group, ok := h.rooms[roomID]
	if !ok {
		group = make(map[port.Subscriber]struct{})
		h.rooms[roomID] = group
	}
	group[s] = struct{}{}

	log.Debug().Str("roomId", roomID).Int("subscribers", len(group)).Msg("subscriber joined room")
}

func (h *Hub) Leave(roomID string, s port.Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	group, ok := h.rooms[roomID]
	if !ok {
		return
	}
	delete(group, s)
	if len(group) == 0 {
		delete(h.rooms, roomID)
	}
}

// Broadcast delivers the event to every current subscriber of the room. A
// subscriber that cannot keep up is skipped; its own read/write pump is
// responsible for tearing the connection down.
func (h *Hub) Broadcast(roomID string, event string, payload any) {
	h.mu.RLock()
	subscribers := make([]port.Subscriber, 0, len(h.rooms[roomID]))
	for s := range h.rooms[roomID] {
		subscribers = append(subscribers, s)
	}
	h.mu.RUnlock()

	for _, s := range subscribers {
		if err := s.Deliver(event, payload); err != nil {
			log.Warn().Err(err).Str("roomId", roomID).Msg("failed to deliver to subscriber")
		}
	}
}

// Subscribers reports the current group size, used by tests and diagnostics.
func (h *Hub) Subscribers(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}
