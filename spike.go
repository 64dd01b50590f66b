package main

const (
	SpikeSize   = 24.0
	SpikeDamage = 20
)

// Spike is a pickup that adds one spike to a player's inventory
type Spike struct {
	Pos     Vec2
	Size    float64
	Visible bool
}

// NewSpike creates a spike pickup at pos
func NewSpike(pos Vec2) *Spike {
	return &Spike{Pos: pos, Size: SpikeSize, Visible: true}
}

// Bound returns the pickup's collision box
func (s *Spike) Bound() Rect {
	return BoundAt(s.Pos, s.Size)
}

// PlacedSpike is a trap dropped by a player. It hurts the first other player
// to touch it and is gone afterwards.
type PlacedSpike struct {
	OwnerID  int
	Pos      Vec2
	Size     float64
	Rotation float64 // degrees
	Consumed bool
	Visible  bool
}

// NewPlacedSpike drops a trap for owner at pos
func NewPlacedSpike(ownerID int, pos Vec2, rotation float64) *PlacedSpike {
	return &PlacedSpike{
		OwnerID:  ownerID,
		Pos:      pos,
		Size:     SpikeSize,
		Rotation: rotation,
		Visible:  true,
	}
}

// Bound returns the trap's collision box
func (s *PlacedSpike) Bound() Rect {
	return BoundAt(s.Pos, s.Size)
}

// Armed reports whether the trap can still hurt someone
func (s *PlacedSpike) Armed() bool {
	return s.Visible && !s.Consumed
}
