package main

import (
	"math"
	"math/rand/v2"
)

const (
	EnemySpeed          = 110.0 // pixels/s
	DefensiveSafeRadius = 250.0
	FlankRadius         = 180.0
	ErraticMinReroll    = 0.5 // seconds
	ErraticMaxReroll    = 2.0
	ErraticHuntChance   = 0.15
)

// Behavior decides where an enemy moves next. players holds the positions of
// every live player.
type Behavior interface {
	Next(pos Vec2, players []Vec2, dt float64) Vec2
	Name() string
}

// nearest returns the closest player position and its distance
func nearest(pos Vec2, players []Vec2) (Vec2, float64, bool) {
	best := math.MaxFloat64
	var target Vec2
	for _, p := range players {
		if d := Distance(pos, p); d < best {
			best = d
			target = p
		}
	}
	return target, best, len(players) > 0
}

// Aggressive heads straight for the nearest player
type Aggressive struct {
	Speed float64
}

func (a *Aggressive) Name() string { return "aggressive" }

func (a *Aggressive) Next(pos Vec2, players []Vec2, dt float64) Vec2 {
	target, dist, ok := nearest(pos, players)
	if !ok || dist == 0 {
		return pos
	}
	step := a.Speed * dt
	if step >= dist {
		return target
	}
	return pos.Add(target.Sub(pos).Normalize().Scale(step))
}

// Defensive backs away from every player inside SafeRadius, harder the closer
// they are.
type Defensive struct {
	Speed      float64
	SafeRadius float64
}

func (d *Defensive) Name() string { return "defensive" }

func (d *Defensive) Next(pos Vec2, players []Vec2, dt float64) Vec2 {
	var push Vec2
	for _, p := range players {
		away := pos.Sub(p)
		dist := away.Len()
		if dist >= d.SafeRadius {
			continue
		}
		penetration := (d.SafeRadius - dist) / d.SafeRadius
		if dist == 0 {
			away = Vec2{1, 0}
		}
		push = push.Add(away.Normalize().Scale(penetration))
	}
	if push.Len() > 1 {
		push = push.Normalize()
	}
	return pos.Add(push.Scale(d.Speed * dt))
}

// Erratic wanders on a random heading that is re-rolled every so often.
// Occasionally the new heading points at a random player instead.
type Erratic struct {
	Speed    float64
	rng      *rand.Rand
	heading  float64
	cooldown float64
}

// NewErratic creates an erratic behavior drawing from rng
func NewErratic(speed float64, rng *rand.Rand) *Erratic {
	return &Erratic{Speed: speed, rng: rng}
}

func (e *Erratic) Name() string { return "erratic" }

func (e *Erratic) Next(pos Vec2, players []Vec2, dt float64) Vec2 {
	e.cooldown -= dt
	if e.cooldown <= 0 {
		e.reroll(pos, players)
	}
	return pos.Add(FromAngle(e.heading).Scale(e.Speed * dt))
}

func (e *Erratic) reroll(pos Vec2, players []Vec2) {
	e.cooldown = randRange(e.rng, ErraticMinReroll, ErraticMaxReroll)
	if len(players) > 0 && e.rng.Float64() < ErraticHuntChance {
		target := players[e.rng.IntN(len(players))]
		to := target.Sub(pos)
		e.heading = math.Atan2(to.Y, to.X)
		return
	}
	e.heading = e.rng.Float64() * 2 * math.Pi
}

// Flanking circles the nearest player at Radius, closing in or backing off
// when off the ring.
type Flanking struct {
	Speed  float64
	Radius float64
}

func (f *Flanking) Name() string { return "flanking" }

func (f *Flanking) Next(pos Vec2, players []Vec2, dt float64) Vec2 {
	target, dist, ok := nearest(pos, players)
	if !ok || dist == 0 {
		return pos
	}
	radial := target.Sub(pos).Normalize()
	tangent := Vec2{-radial.Y, radial.X}
	var move Vec2
	switch {
	case dist > f.Radius*1.2:
		move = radial.Scale(0.8).Add(tangent.Scale(0.2))
	case dist < f.Radius*0.8:
		move = radial.Scale(-0.8).Add(tangent.Scale(0.2))
	default:
		move = tangent
	}
	return pos.Add(move.Normalize().Scale(f.Speed * dt))
}

// RandomBehavior picks one of the four policies
func RandomBehavior(rng *rand.Rand) Behavior {
	switch rng.IntN(4) {
	case 0:
		return &Aggressive{Speed: EnemySpeed}
	case 1:
		return &Defensive{Speed: EnemySpeed, SafeRadius: DefensiveSafeRadius}
	case 2:
		return NewErratic(EnemySpeed, rng)
	default:
		return &Flanking{Speed: EnemySpeed, Radius: FlankRadius}
	}
}
