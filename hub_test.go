package main

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/zap"
)

// bareClient is a Client with no socket behind it
func bareClient(hub *Hub, id ConnID) *Client {
	return &Client{
		id:      id,
		hub:     hub,
		log:     zap.NewNop(),
		control: make(chan []byte, 2),
		state:   make(chan []byte, 2),
		done:    make(chan struct{}),
	}
}

func newTestHub() *Hub {
	return NewHub(NewIngressQueue(16), DefaultConfig(), zap.NewNop())
}

func TestHubConnectionLimits(t *testing.T) {
	h := newTestHub()
	for i := 0; i < maxConnsPerIP; i++ {
		if !h.CanAccept("1.2.3.4") {
			t.Fatalf("connection %d should be accepted", i)
		}
		h.TrackConnect("1.2.3.4")
	}
	if h.CanAccept("1.2.3.4") {
		t.Error("per-IP limit should be enforced")
	}
	if !h.CanAccept("5.6.7.8") {
		t.Error("other addresses should still be accepted")
	}

	h.TrackDisconnect("1.2.3.4")
	if !h.CanAccept("1.2.3.4") {
		t.Error("a freed slot should be reusable")
	}
	if h.TotalConns() != maxConnsPerIP-1 {
		t.Errorf("expected %d tracked, got %d", maxConnsPerIP-1, h.TotalConns())
	}
}

func TestClientStateKeepsNewest(t *testing.T) {
	c := bareClient(newTestHub(), "c1")
	c.SendState([]byte("1"))
	c.SendState([]byte("2"))
	c.SendState([]byte("3"))

	if got := string(<-c.state); got != "2" {
		t.Errorf("oldest frame should be evicted, got %s", got)
	}
	if got := string(<-c.state); got != "3" {
		t.Errorf("expected newest frame, got %s", got)
	}
}

func TestClientControlOverflowDisconnects(t *testing.T) {
	c := bareClient(newTestHub(), "c1")
	c.SendControl([]byte("a"))
	c.SendControl([]byte("b"))

	select {
	case <-c.done:
		t.Fatal("client should still be connected")
	default:
	}

	c.SendControl([]byte("c"))
	select {
	case <-c.done:
	default:
		t.Fatal("a full control buffer should disconnect the client")
	}
	if len(c.control) != 2 {
		t.Error("control messages already queued should not be lost")
	}
}

func TestHubSendAndBroadcast(t *testing.T) {
	h := newTestHub()
	c1 := bareClient(h, "c1")
	c2 := bareClient(h, "c2")
	h.clients[c1.id] = c1
	h.clients[c2.id] = c2

	h.Send("c1", Envelope{T: MsgLoginOK, Data: LoginOKMsg{ID: 5}})
	if len(c1.control) != 1 || len(c2.control) != 0 {
		t.Fatal("send should reach only its connection")
	}
	var env InEnvelope
	if err := json.Unmarshal(<-c1.control, &env); err != nil || env.T != MsgLoginOK {
		t.Errorf("unexpected frame %+v, %v", env, err)
	}

	h.Send("gone", Envelope{T: MsgLoginOK})
	h.Broadcast(Envelope{T: MsgDied, Data: DiedMsg{ID: 5}})
	h.BroadcastState([]byte{1, 2, 3})
	if len(c1.control) != 1 || len(c2.control) != 1 {
		t.Error("broadcast should reach every connection")
	}
	if len(c1.state) != 1 || len(c2.state) != 1 {
		t.Error("state should reach every connection")
	}
}

func TestHubUnregisterQueuesDisconnect(t *testing.T) {
	h := newTestHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	c := bareClient(h, "c1")
	h.Register(c)
	h.Unregister(c)

	deadline := time.Now().Add(2 * time.Second)
	var gone []ConnID
	for len(gone) == 0 && time.Now().Before(deadline) {
		_, gone = h.queue.Drain(nil, gone)
		time.Sleep(5 * time.Millisecond)
	}
	if len(gone) != 1 || gone[0] != "c1" {
		t.Fatalf("expected a queued disconnect for c1, got %v", gone)
	}
	select {
	case <-c.done:
	default:
		t.Error("unregistered client should be closed")
	}
	if h.ClientCount() != 0 {
		t.Error("client should be removed")
	}
}
