package main

import "sync"

// DefaultIngressCapacity bounds the number of undrained inbound messages
const DefaultIngressCapacity = 4096

// Inbound is a decoded message paired with the connection it arrived on
type Inbound struct {
	Conn ConnID
	Cmd  Command
}

// bestEffort reports whether cmd travels on the lossy channel. These are the
// first to go when the queue overflows.
func bestEffort(cmd Command) bool {
	switch cmd.(type) {
	case MoveCmd, ShootCmd:
		return true
	}
	return false
}

// IngressQueue hands messages from the connection goroutines to the
// simulation goroutine. Push never blocks: when the queue is full the oldest
// move or shoot is dropped, or the oldest message if none is queued.
// Disconnects are kept in a separate list that never drops; its size is
// bounded by the connection limit.
type IngressQueue struct {
	mu      sync.Mutex
	ring    []Inbound
	head    int
	n       int
	dropped uint64

	disconnects []ConnID
}

// NewIngressQueue creates a queue holding at most capacity messages
func NewIngressQueue(capacity int) *IngressQueue {
	if capacity <= 0 {
		capacity = DefaultIngressCapacity
	}
	return &IngressQueue{ring: make([]Inbound, capacity)}
}

// Push enqueues a message. It returns false if an older message had to be
// dropped to make room.
func (q *IngressQueue) Push(conn ConnID, cmd Command) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	ok := true
	if q.n == len(q.ring) {
		q.evict()
		ok = false
	}
	q.ring[(q.head+q.n)%len(q.ring)] = Inbound{Conn: conn, Cmd: cmd}
	q.n++
	return ok
}

// evict removes the oldest best-effort message, falling back to the oldest
// message overall. Caller holds mu.
func (q *IngressQueue) evict() {
	size := len(q.ring)
	victim := 0
	for i := 0; i < q.n; i++ {
		if bestEffort(q.ring[(q.head+i)%size].Cmd) {
			victim = i
			break
		}
	}
	// close the gap by sliding the older entries up one slot
	for i := victim; i > 0; i-- {
		q.ring[(q.head+i)%size] = q.ring[(q.head+i-1)%size]
	}
	q.ring[q.head] = Inbound{}
	q.head = (q.head + 1) % size
	q.n--
	q.dropped++
}

// PushDisconnect records that conn has gone away
func (q *IngressQueue) PushDisconnect(conn ConnID) {
	q.mu.Lock()
	q.disconnects = append(q.disconnects, conn)
	q.mu.Unlock()
}

// Drain appends every queued message to msgs, oldest first, and every queued
// disconnect to gone, emptying both under one lock. A disconnect is therefore
// never taken before a message its connection pushed earlier; anything pushed
// after the call waits for the next drain.
func (q *IngressQueue) Drain(msgs []Inbound, gone []ConnID) ([]Inbound, []ConnID) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i := 0; i < q.n; i++ {
		idx := (q.head + i) % len(q.ring)
		msgs = append(msgs, q.ring[idx])
		q.ring[idx] = Inbound{}
	}
	q.head = 0
	q.n = 0

	gone = append(gone, q.disconnects...)
	clear(q.disconnects)
	q.disconnects = q.disconnects[:0]
	return msgs, gone
}

// Len returns the number of queued messages
func (q *IngressQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.n
}

// Dropped returns how many messages were overwritten since creation
func (q *IngressQueue) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
