package httpapi

import (
	"net/http"

	"stockchat/internal/adapters/ws"
	"stockchat/internal/core/domain"
	"stockchat/internal/core/port"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// handleWebsocket upgrades the connection and runs it as a room subscriber:
// join with history replay, inbound chat text through the chat service,
// leave on disconnect.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	roomID, err := uuid.Parse(r.URL.Query().Get("room"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid room id")
		return
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token subject")
		return
	}
	user := domain.User{ID: userID, Name: claims.UserName}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := ws.NewClient(conn)
	defer client.Close()

	l := log.With().
		Str("roomId", roomID.String()).
		Str("user", user.Name).
		Logger()

	if err := s.chat.Join(r.Context(), roomID, client); err != nil {
		l.Warn().Err(err).Msg("room join failed")
		return
	}
	defer s.chat.Leave(roomID, client)

	go client.WritePump(r.Context())
	client.PrepareRead()

	l.Info().Msg("subscriber connected")

	for {
		in, err := client.ReadInbound()
		if err != nil {
			l.Debug().Err(err).Msg("subscriber disconnected")
			return
		}
		if in.Content == "" {
			continue
		}

		if err := s.chat.Send(r.Context(), roomID, user, in.Content); err != nil {
			l.Error().Err(err).Msg("failed to send message")
			if derr := client.Deliver(port.EventError, "failed to send message, please retry"); derr != nil {
				l.Debug().Err(derr).Msg("failed to deliver error frame")
			}
		}
	}
}
