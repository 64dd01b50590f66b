package main

import "errors"

// MaxPlayerIDs is the number of player identifiers the pool can hand out
const MaxPlayerIDs = 100

// ErrPoolExhausted is returned by Acquire when every identifier is checked out
var ErrPoolExhausted = errors.New("player id pool exhausted")

// IDPool hands out small integer player ids in FIFO order and takes them back
// on logout. Released ids go to the back of the queue.
//
// Not safe for concurrent use; the simulation goroutine owns it.
type IDPool struct {
	free []int
	held map[int]bool
}

// NewIDPool creates a pool holding ids 1..size
func NewIDPool(size int) *IDPool {
	p := &IDPool{
		free: make([]int, 0, size),
		held: make(map[int]bool, size),
	}
	for id := 1; id <= size; id++ {
		p.free = append(p.free, id)
	}
	return p
}

// Acquire removes the oldest free id from the pool
func (p *IDPool) Acquire() (int, error) {
	if len(p.free) == 0 {
		return 0, ErrPoolExhausted
	}
	id := p.free[0]
	p.free = p.free[1:]
	p.held[id] = true
	return id, nil
}

// Release returns id to the pool. Ids that are not currently held are ignored
// and reported as false, so a double release cannot duplicate an id.
func (p *IDPool) Release(id int) bool {
	if !p.held[id] {
		return false
	}
	delete(p.held, id)
	p.free = append(p.free, id)
	return true
}

// Held reports whether id is currently checked out
func (p *IDPool) Held(id int) bool {
	return p.held[id]
}

// Available returns the number of ids left
func (p *IDPool) Available() int {
	return len(p.free)
}
