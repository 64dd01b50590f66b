package main

import "github.com/vmihailenco/msgpack/v5"

// Record widths of the flattened snapshot arrays
const (
	EnemyStride       = 2 // x, y
	PlayerStride      = 6 // x, y, id, health, hasShield, shieldHealth
	BulletStride      = 3 // x, y, size
	SpikeStride       = 3 // x, y, size
	PlacedSpikeStride = 4 // x, y, size, rotation
	PowerUpStride     = 4 // x, y, size, type
)

// WorldSnapshot is the full live state sent to every connection each tick.
// Every array is a flat run of fixed-width tuples.
type WorldSnapshot struct {
	Tick         uint64    `msgpack:"tick"`
	Enemies      []float32 `msgpack:"e"`
	Players      []float32 `msgpack:"p"`
	Bullets      []float32 `msgpack:"b"`
	Spikes       []float32 `msgpack:"s"`
	PlacedSpikes []float32 `msgpack:"ps"`
	PowerUps     []float32 `msgpack:"pu"`
}

// BuildSnapshot flattens the arena at simulation time now
func BuildSnapshot(a *Arena, tick uint64, now float64) WorldSnapshot {
	s := WorldSnapshot{
		Tick:         tick,
		Enemies:      make([]float32, 0, len(a.Enemies)*EnemyStride),
		Players:      make([]float32, 0, len(a.Players)*PlayerStride),
		Bullets:      make([]float32, 0, len(a.Bullets)*BulletStride),
		Spikes:       make([]float32, 0, len(a.Spikes)*SpikeStride),
		PlacedSpikes: make([]float32, 0, len(a.PlacedSpikes)*PlacedSpikeStride),
		PowerUps:     make([]float32, 0, len(a.PowerUps)*PowerUpStride),
	}
	for _, e := range a.Enemies {
		if e.Visible {
			s.Enemies = append(s.Enemies, f32(e.Pos.X), f32(e.Pos.Y))
		}
	}
	for _, p := range a.Players {
		if !p.Alive {
			continue
		}
		var shield float32
		if p.HasShield(now) {
			shield = 1
		}
		s.Players = append(s.Players,
			f32(p.Pos.X), f32(p.Pos.Y), float32(p.ID), float32(p.HP),
			shield, float32(p.ShieldHP(now)))
	}
	for _, b := range a.Bullets {
		if b.Visible {
			s.Bullets = append(s.Bullets, f32(b.Pos.X), f32(b.Pos.Y), f32(b.Size))
		}
	}
	for _, sp := range a.Spikes {
		if sp.Visible {
			s.Spikes = append(s.Spikes, f32(sp.Pos.X), f32(sp.Pos.Y), f32(sp.Size))
		}
	}
	for _, ps := range a.PlacedSpikes {
		if ps.Armed() {
			s.PlacedSpikes = append(s.PlacedSpikes, f32(ps.Pos.X), f32(ps.Pos.Y), f32(ps.Size), f32(ps.Rotation))
		}
	}
	for _, pu := range a.PowerUps {
		if pu.Visible {
			s.PowerUps = append(s.PowerUps, f32(pu.Pos.X), f32(pu.Pos.Y), f32(pu.Size), float32(pu.Type))
		}
	}
	return s
}

// EncodeSnapshot marshals a snapshot for the best-effort channel
func EncodeSnapshot(s WorldSnapshot) ([]byte, error) {
	return msgpack.Marshal(&s)
}

func f32(v float64) float32 { return float32(v) }
