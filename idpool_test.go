package main

import (
	"errors"
	"testing"

	"pgregory.net/rapid"
)

func TestIDPoolFIFO(t *testing.T) {
	pool := NewIDPool(MaxPlayerIDs)
	for want := 1; want <= MaxPlayerIDs; want++ {
		id, err := pool.Acquire()
		if err != nil {
			t.Fatalf("acquire %d: %v", want, err)
		}
		if id != want {
			t.Fatalf("expected id %d, got %d", want, id)
		}
	}

	if _, err := pool.Acquire(); !errors.Is(err, ErrPoolExhausted) {
		t.Fatalf("expected ErrPoolExhausted, got %v", err)
	}

	pool.Release(7)
	pool.Release(3)
	if id, _ := pool.Acquire(); id != 7 {
		t.Errorf("released ids should come back in release order, got %d", id)
	}
	if id, _ := pool.Acquire(); id != 3 {
		t.Errorf("expected 3, got %d", id)
	}
}

func TestIDPoolReleaseUnknown(t *testing.T) {
	pool := NewIDPool(3)
	id, _ := pool.Acquire()

	if !pool.Release(id) {
		t.Error("releasing a held id should succeed")
	}
	if pool.Release(id) {
		t.Error("double release should be ignored")
	}
	if pool.Release(0) || pool.Release(4) {
		t.Error("ids outside the pool should be ignored")
	}
	if pool.Available() != 3 {
		t.Errorf("expected 3 free ids, got %d", pool.Available())
	}
}

func TestIDPoolNeverDuplicates(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		size := rapid.IntRange(1, 20).Draw(t, "size")
		pool := NewIDPool(size)
		held := make(map[int]bool)

		t.Repeat(map[string]func(*rapid.T){
			"acquire": func(t *rapid.T) {
				id, err := pool.Acquire()
				if len(held) == size {
					if !errors.Is(err, ErrPoolExhausted) {
						t.Fatalf("full pool returned %d, %v", id, err)
					}
					return
				}
				if err != nil {
					t.Fatal(err)
				}
				if held[id] {
					t.Fatalf("id %d handed out twice", id)
				}
				if id < 1 || id > size {
					t.Fatalf("id %d out of range", id)
				}
				held[id] = true
			},
			"release": func(t *rapid.T) {
				id := rapid.IntRange(0, size+1).Draw(t, "id")
				if pool.Release(id) != held[id] {
					t.Fatalf("release of %d disagreed with the model", id)
				}
				delete(held, id)
			},
			"": func(t *rapid.T) {
				if pool.Available()+len(held) != size {
					t.Fatalf("%d free + %d held != %d", pool.Available(), len(held), size)
				}
			},
		})
	})
}
