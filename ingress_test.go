package main

import (
	"sync"
	"testing"
)

func TestIngressFIFO(t *testing.T) {
	q := NewIngressQueue(8)
	for i := 1; i <= 3; i++ {
		if !q.Push("c1", MoveCmd{PlayerID: i}) {
			t.Fatal("push below capacity should not drop")
		}
	}

	got, _ := q.Drain(nil, nil)
	if len(got) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(got))
	}
	for i, in := range got {
		if in.Cmd.(MoveCmd).PlayerID != i+1 {
			t.Errorf("message %d out of order: %+v", i, in)
		}
	}
	if q.Len() != 0 {
		t.Error("drain should empty the queue")
	}

	q.Push("c1", MoveCmd{PlayerID: 4})
	if got, _ := q.Drain(nil, nil); len(got) != 1 {
		t.Errorf("later push should wait for the next drain, got %d", len(got))
	}
}

func TestIngressDropsOldest(t *testing.T) {
	q := NewIngressQueue(3)
	for i := 1; i <= 5; i++ {
		ok := q.Push("c1", MoveCmd{PlayerID: i})
		if ok != (i <= 3) {
			t.Errorf("push %d: ok=%v", i, ok)
		}
	}

	got, _ := q.Drain(nil, nil)
	if len(got) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(got))
	}
	for i, in := range got {
		if in.Cmd.(MoveCmd).PlayerID != i+3 {
			t.Errorf("expected the newest three, got %+v", got)
		}
	}
	if q.Dropped() != 2 {
		t.Errorf("expected 2 dropped, got %d", q.Dropped())
	}
}

func TestIngressOverflowKeepsControlMessages(t *testing.T) {
	q := NewIngressQueue(4)
	q.Push("c1", LogoutCmd{PlayerID: 1})
	q.Push("c2", MoveCmd{PlayerID: 2, Dir: DirUp})
	q.Push("c1", ReloadCmd{PlayerID: 1})
	q.Push("c2", ShootCmd{PlayerID: 2})

	if q.Push("c2", MoveCmd{PlayerID: 2, Dir: DirDown}) {
		t.Error("push into a full queue should report a drop")
	}
	got, _ := q.Drain(nil, nil)
	want := []Command{
		LogoutCmd{PlayerID: 1},
		ReloadCmd{PlayerID: 1},
		ShootCmd{PlayerID: 2},
		MoveCmd{PlayerID: 2, Dir: DirDown},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d messages, got %v", len(want), got)
	}
	for i := range want {
		if got[i].Cmd != want[i] {
			t.Errorf("message %d: got %#v, want %#v", i, got[i].Cmd, want[i])
		}
	}

	// with nothing lossy left the oldest message goes
	for i := 0; i < 5; i++ {
		q.Push("c1", UndoSpikeCmd{PlayerID: i})
	}
	got, _ = q.Drain(nil, nil)
	if len(got) != 4 || got[0].Cmd.(UndoSpikeCmd).PlayerID != 1 {
		t.Errorf("expected the newest four, got %v", got)
	}
	if q.Dropped() != 2 {
		t.Errorf("expected 2 dropped, got %d", q.Dropped())
	}
}

func TestIngressDrainTakesDisconnectsWithMessages(t *testing.T) {
	q := NewIngressQueue(8)
	q.Push("c1", MoveCmd{PlayerID: 1})

	msgs, gone := q.Drain(nil, nil)
	if len(msgs) != 1 || len(gone) != 0 {
		t.Fatalf("unexpected first drain: %v %v", msgs, gone)
	}

	// pushed after the drain: both wait for the next one, message first
	q.Push("c1", LoginCmd{})
	q.PushDisconnect("c1")
	msgs, gone = q.Drain(msgs[:0], gone[:0])
	if len(msgs) != 1 || len(gone) != 1 || gone[0] != "c1" {
		t.Errorf("message and disconnect should drain together, got %v %v", msgs, gone)
	}
}

func TestIngressDisconnectsNeverDrop(t *testing.T) {
	q := NewIngressQueue(1)
	for i := 0; i < 1000; i++ {
		q.PushDisconnect(ConnID("c"))
	}
	if _, got := q.Drain(nil, nil); len(got) != 1000 {
		t.Errorf("expected 1000 disconnects, got %d", len(got))
	}
	if _, got := q.Drain(nil, nil); len(got) != 0 {
		t.Errorf("second drain should be empty, got %d", len(got))
	}
}

func TestIngressConcurrentProducers(t *testing.T) {
	const producers, perProducer = 8, 500
	q := NewIngressQueue(producers * perProducer)

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(conn ConnID) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(conn, MoveCmd{PlayerID: i})
			}
		}(ConnID(rune('a' + p)))
	}

	done := make(chan struct{})
	var drained []Inbound
	go func() {
		defer close(done)
		for len(drained) < producers*perProducer {
			drained, _ = q.Drain(drained, nil)
		}
	}()
	wg.Wait()
	<-done

	if q.Dropped() != 0 {
		t.Errorf("nothing should be dropped below capacity, got %d", q.Dropped())
	}
	next := make(map[ConnID]int)
	for _, in := range drained {
		id := in.Cmd.(MoveCmd).PlayerID
		if id != next[in.Conn] {
			t.Fatalf("conn %s: expected %d, got %d", in.Conn, next[in.Conn], id)
		}
		next[in.Conn]++
	}
}
