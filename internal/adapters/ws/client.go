package ws

import (
	"context"
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 64
)

// Frame is the envelope for everything pushed to a client.
type Frame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Inbound is what a connected client sends: chat text for its room.
type Inbound struct {
	Content string `json:"content"`
}

// Client wraps one websocket connection. Deliver may be called from any
// goroutine; the write pump is the only writer on the connection.
type Client struct {
	conn *websocket.Conn
	send chan Frame
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{conn: conn, send: make(chan Frame, sendBufferSize)}
}

func (c *Client) Deliver(event string, payload any) error {
	select {
	case c.send <- Frame{Event: event, Data: payload}:
		return nil
	default:
		return errors.New("subscriber send buffer full")
	}
}

// WritePump drains the send buffer onto the connection and keeps the
// connection alive with pings. Returns when ctx is cancelled or the
// connection dies.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			return
		case frame := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(frame); err != nil {
				log.Debug().Err(err).Msg("websocket write failed")
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadInbound blocks for the next chat message from the client.
func (c *Client) ReadInbound() (Inbound, error) {
	var in Inbound
	if err := c.conn.ReadJSON(&in); err != nil {
		return Inbound{}, err
	}
	return in, nil
}

func (c *Client) PrepareRead() {
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
}

func (c *Client) Close() error {
	return c.conn.Close()
}
