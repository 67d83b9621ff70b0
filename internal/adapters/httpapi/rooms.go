package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"stockchat/internal/core/domain"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type roomDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type createRoomRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.rooms.ListRooms(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list rooms")
		return
	}

	dtos := lo.Map(rooms, func(room domain.Room, _ int) roomDTO {
		return roomDTO{ID: room.ID, Name: room.Name}
	})

	writeJSON(w, http.StatusOK, dtos)
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "room name is required")
		return
	}

	room := domain.Room{ID: uuid.New(), Name: name, CreatedAtUTC: time.Now().UTC()}
	if err := s.rooms.CreateRoom(r.Context(), room); err != nil {
		if errors.Is(err, domain.ErrRoomExists) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create room")
		return
	}

	writeJSON(w, http.StatusOK, roomDTO{ID: room.ID, Name: room.Name})
}
