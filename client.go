package main

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	controlBufSize = 256
	stateBufSize   = 4
)

// Client is one WebSocket connection. Control messages go out in order on a
// buffered channel; if that fills up the client is cut off. Snapshots go out
// through a tiny buffer that keeps only the newest frames.
type Client struct {
	id         ConnID
	hub        *Hub
	conn       *websocket.Conn
	log        *zap.Logger
	remoteAddr string
	limiter    *rate.Limiter

	control   chan []byte
	state     chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// NewClient creates a Client with a fresh connection id
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	id := ConnID(uuid.NewString())
	return &Client{
		id:         id,
		hub:        hub,
		conn:       conn,
		log:        hub.log.With(zap.String("conn", string(id))),
		remoteAddr: remoteAddr,
		limiter:    rate.NewLimiter(hub.msgRate, hub.msgBurst),
		control:    make(chan []byte, controlBufSize),
		state:      make(chan []byte, stateBufSize),
		done:       make(chan struct{}),
	}
}

// ReadPump reads messages from the WebSocket connection into the ingress queue
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("ws read error", zap.Error(err))
			}
			return
		}
		if !c.limiter.Allow() {
			c.log.Debug("rate limit exceeded, dropping message")
			continue
		}
		if msgType != websocket.TextMessage {
			continue
		}
		cmd, err := DecodeCommand(message)
		if err != nil {
			c.log.Debug("dropping bad message", zap.Error(err))
			continue
		}
		c.hub.queue.Push(c.id, cmd)
	}
}

// WritePump writes messages to the WebSocket connection. Pending control
// messages always go before a snapshot.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.control:
			if err := c.write(websocket.TextMessage, msg); err != nil {
				return
			}
			continue
		default:
		}

		select {
		case msg := <-c.control:
			if err := c.write(websocket.TextMessage, msg); err != nil {
				return
			}
		case frame := <-c.state:
			if err := c.write(websocket.BinaryMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

func (c *Client) write(msgType int, data []byte) error {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(msgType, data)
}

// SendControl queues a reliable message. A client that cannot keep up is
// disconnected rather than silently losing control traffic.
func (c *Client) SendControl(data []byte) {
	select {
	case c.control <- data:
	case <-c.done:
	default:
		c.log.Warn("control buffer full, disconnecting")
		c.Close()
	}
}

// SendState queues a snapshot frame, evicting the oldest one if the buffer is full
func (c *Client) SendState(frame []byte) {
	for {
		select {
		case c.state <- frame:
			return
		case <-c.done:
			return
		default:
		}
		select {
		case <-c.state:
		default:
		}
	}
}

// Close stops the write pump; the read pump then fails and unregisters
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}
