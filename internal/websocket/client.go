package websocket

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10 // must stay below pongWait
	maxMessageSize = 512
	sendBufferSize = 256
)

// Conn is the part of *websocket.Conn a Client drives
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

// ClientMessage is the only inbound frame a client may send.
// {"action":"follow","siteId":12} narrows the stream to one site, siteId 0 widens it again.
type ClientMessage struct {
	Action string `json:"action"`
	SiteID int32  `json:"siteId"`
}

// ActionFollow switches the site a client receives events for
const ActionFollow = "follow"

// Client is one WebSocket connection scoped to a workspace and optionally a site
type Client struct {
	id          string
	workspaceID int32
	siteID      atomic.Int32
	conn        Conn
	hub         *Hub
	send        chan []byte
	closed      bool
	mu          sync.RWMutex
	closeOnce   sync.Once
}

// NewClient creates a new WebSocket client. A siteID of 0 follows every site.
func NewClient(conn Conn, workspaceID, siteID int32, hub *Hub) *Client {
	c := &Client{
		id:          uuid.New().String(),
		workspaceID: workspaceID,
		conn:        conn,
		hub:         hub,
		send:        make(chan []byte, sendBufferSize),
	}
	c.siteID.Store(siteID)
	return c
}

func (c *Client) ID() string { return c.id }

func (c *Client) WorkspaceID() int32 { return c.workspaceID }

// SiteID returns the site the client follows, 0 for all
func (c *Client) SiteID() int32 { return c.siteID.Load() }

// Follow changes the followed site
func (c *Client) Follow(siteID int32) { c.siteID.Store(siteID) }

// Send queues a message. A full buffer means the peer stopped reading.
func (c *Client) Send(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrClientClosed
	}

	select {
	case c.send <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Close closes the connection. Safe to call more than once.
func (c *Client) Close() error {
	var closeErr error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()

		closeErr = c.conn.Close()
	})
	return closeErr
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// handleMessage applies an inbound frame. Anything malformed is ignored.
func (c *Client) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Debug().Err(err).Str("client_id", c.id).Msg("Ignoring malformed WebSocket message")
		return
	}

	switch {
	case msg.Action == ActionFollow && msg.SiteID >= 0:
		c.Follow(msg.SiteID)
		log.Debug().
			Str("client_id", c.id).
			Int32("workspace_id", c.workspaceID).
			Int32("site_id", msg.SiteID).
			Msg("WebSocket client changed site")
	default:
		log.Debug().Str("client_id", c.id).Str("action", msg.Action).Msg("Ignoring unknown WebSocket action")
	}
}

// ReadPump reads inbound frames until the peer goes away. Run it in its own goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().
					Err(err).
					Str("client_id", c.id).
					Int32("workspace_id", c.workspaceID).
					Msg("WebSocket unexpected close")
			}
			return
		}
		if messageType == websocket.TextMessage {
			c.handleMessage(data)
		}
	}
}

// WritePump drains the send buffer and keeps the connection alive with pings.
// Run it in its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Warn().
					Err(err).
					Str("client_id", c.id).
					Int32("workspace_id", c.workspaceID).
					Msg("WebSocket write error")
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
