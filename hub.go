package main

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	maxConnsPerIP = 5
	maxTotalConns = 1000
)

// Hub tracks connected clients and implements Gateway for the world.
// Inbound messages go straight from the clients into the ingress queue.
type Hub struct {
	log   *zap.Logger
	queue *IngressQueue

	mu         sync.RWMutex
	clients    map[ConnID]*Client
	unregister chan *Client
	done       chan struct{}

	// Connection limiting (mutex-protected, accessed from HTTP handlers)
	connMu     sync.Mutex
	ipConns    map[string]int
	totalConns int

	msgRate  rate.Limit
	msgBurst int
}

// NewHub creates a Hub feeding queue
func NewHub(queue *IngressQueue, cfg Config, log *zap.Logger) *Hub {
	return &Hub{
		log:        log,
		queue:      queue,
		clients:    make(map[ConnID]*Client),
		unregister: make(chan *Client, 64),
		done:       make(chan struct{}),
		ipConns:    make(map[string]int),
		msgRate:    rate.Limit(cfg.MsgRate),
		msgBurst:   cfg.MsgBurst,
	}
}

func (h *Hub) CanAccept(ip string) bool {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	if h.totalConns >= maxTotalConns {
		return false
	}
	if h.ipConns[ip] >= maxConnsPerIP {
		return false
	}
	return true
}

func (h *Hub) TrackConnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]++
	h.totalConns++
}

func (h *Hub) TrackDisconnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]--
	if h.ipConns[ip] <= 0 {
		delete(h.ipConns, ip)
	}
	h.totalConns--
}

// Run processes unregister events until ctx is cancelled
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return nil

		case client := <-h.unregister:
			h.mu.Lock()
			_, ok := h.clients[client.id]
			delete(h.clients, client.id)
			h.mu.Unlock()
			if !ok {
				continue
			}
			client.Close()
			// The world removes the player after this tick's messages.
			h.queue.PushDisconnect(client.id)
			h.log.Info("client disconnected", zap.String("conn", string(client.id)))
		}
	}
}

// Register adds a new client. It runs before the client's read pump starts,
// so it always lands before the matching Unregister.
func (h *Hub) Register(c *Client) {
	select {
	case <-h.done:
		c.Close()
		return
	default:
	}
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	h.log.Info("client connected", zap.String("conn", string(c.id)), zap.String("ip", c.remoteAddr))
}

// Unregister hands a finished client to the hub loop
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		c.Close()
		delete(h.clients, id)
	}
}

// Send delivers a control message to one connection
func (h *Hub) Send(conn ConnID, msg Envelope) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Warn("marshal error", zap.String("type", msg.T), zap.Error(err))
		return
	}
	h.mu.RLock()
	c := h.clients[conn]
	h.mu.RUnlock()
	if c != nil {
		c.SendControl(data)
	}
}

// Broadcast delivers a control message to every connection
func (h *Hub) Broadcast(msg Envelope) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Warn("marshal error", zap.String("type", msg.T), zap.Error(err))
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		c.SendControl(data)
	}
}

// BroadcastState delivers a snapshot frame to every connection, best-effort
func (h *Hub) BroadcastState(frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		c.SendState(frame)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// TotalConns returns the tracked connection count
func (h *Hub) TotalConns() int {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	return h.totalConns
}
