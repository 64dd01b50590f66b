package main

import "math/rand/v2"

const EnemySize = 32.0

// Enemy is a computer-controlled target. Bullets destroy it in one hit.
type Enemy struct {
	Pos      Vec2
	Size     float64
	Visible  bool
	Behavior Behavior
}

// NewEnemy spawns an enemy on a random arena edge
func NewEnemy(rng *rand.Rand, arenaW, arenaH float64, behavior Behavior) *Enemy {
	e := &Enemy{
		Size:     EnemySize,
		Visible:  true,
		Behavior: behavior,
	}
	half := EnemySize / 2
	// 0=left, 1=right, 2=top, 3=bottom
	switch rng.IntN(4) {
	case 0:
		e.Pos = Vec2{half, randRange(rng, half, arenaH-half)}
	case 1:
		e.Pos = Vec2{arenaW - half, randRange(rng, half, arenaH-half)}
	case 2:
		e.Pos = Vec2{randRange(rng, half, arenaW-half), half}
	default:
		e.Pos = Vec2{randRange(rng, half, arenaW-half), arenaH - half}
	}
	return e
}

// Update moves the enemy per its behavior and keeps it inside the arena
func (e *Enemy) Update(players []Vec2, dt, arenaW, arenaH float64) {
	if !e.Visible || e.Behavior == nil {
		return
	}
	next := e.Behavior.Next(e.Pos, players, dt)
	half := e.Size / 2
	e.Pos = Vec2{
		X: Clamp(next.X, half, arenaW-half),
		Y: Clamp(next.Y, half, arenaH-half),
	}
}

// Bound returns the enemy's collision box
func (e *Enemy) Bound() Rect {
	return BoundAt(e.Pos, e.Size)
}
