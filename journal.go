package main

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event types recorded by the journal
const (
	EvtLogin        = "login"
	EvtLoginReject  = "login_rejected"
	EvtLogout       = "logout"
	EvtDeath        = "death"
	EvtDisconnect   = "disconnect"
	EvtQueueDropped = "ingress_dropped"
)

const (
	journalBuffer     = 1024
	journalBatch      = 50
	journalFlushEvery = 5 * time.Second
)

// JournalEvent is one noteworthy world event
type JournalEvent struct {
	Type      string
	PlayerID  int
	Conn      ConnID
	Tick      uint64
	Timestamp time.Time
}

// Journal collects world events off the tick path and writes them to the log
// in batches from a background goroutine.
type Journal struct {
	log    *zap.Logger
	events chan JournalEvent
	stop   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once

	mu     sync.Mutex
	counts map[string]int
}

// NewJournal creates and starts the journal writer
func NewJournal(log *zap.Logger) *Journal {
	j := &Journal{
		log:    log,
		events: make(chan JournalEvent, journalBuffer),
		stop:   make(chan struct{}),
		counts: make(map[string]int),
	}
	j.wg.Add(1)
	go j.writer()
	return j
}

// Track enqueues an event (non-blocking)
func (j *Journal) Track(evtType string, playerID int, conn ConnID, tick uint64) {
	select {
	case j.events <- JournalEvent{
		Type:      evtType,
		PlayerID:  playerID,
		Conn:      conn,
		Tick:      tick,
		Timestamp: time.Now().UTC(),
	}:
	default:
		// full: drop rather than stall the tick
	}
}

// Counts returns how many events of each type have been flushed so far
func (j *Journal) Counts() map[string]int {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make(map[string]int, len(j.counts))
	for k, v := range j.counts {
		out[k] = v
	}
	return out
}

// Stop flushes what is pending and shuts the writer down
func (j *Journal) Stop() {
	j.once.Do(func() {
		close(j.stop)
		j.wg.Wait()
	})
}

func (j *Journal) writer() {
	defer j.wg.Done()

	batch := make([]JournalEvent, 0, journalBatch)
	ticker := time.NewTicker(journalFlushEvery)
	defer ticker.Stop()

	for {
		select {
		case evt := <-j.events:
			batch = append(batch, evt)
			if len(batch) >= journalBatch {
				j.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				j.flush(batch)
				batch = batch[:0]
			}
		case <-j.stop:
			for {
				select {
				case evt := <-j.events:
					batch = append(batch, evt)
				default:
					j.flush(batch)
					return
				}
			}
		}
	}
}

func (j *Journal) flush(events []JournalEvent) {
	if len(events) == 0 {
		return
	}
	j.mu.Lock()
	for _, evt := range events {
		j.counts[evt.Type]++
	}
	j.mu.Unlock()

	for _, evt := range events {
		j.log.Info("world event",
			zap.String("type", evt.Type),
			zap.Int("player", evt.PlayerID),
			zap.String("conn", string(evt.Conn)),
			zap.Uint64("tick", evt.Tick),
			zap.Time("at", evt.Timestamp),
		)
	}
}
