package main

import "math"

const (
	PlayerSize      = 32.0
	PlayerMaxHP     = 100
	PlayerSpeed     = 220.0 // pixels/s
	EnemyKillReward = 5     // health restored to the shooter on an enemy kill
)

// Direction is a movement intent along one axis
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Vector returns the unit step for the direction. Screen coordinates: y grows down.
func (d Direction) Vector() Vec2 {
	switch d {
	case DirUp:
		return Vec2{0, -1}
	case DirDown:
		return Vec2{0, 1}
	case DirLeft:
		return Vec2{-1, 0}
	case DirRight:
		return Vec2{1, 0}
	}
	return Vec2{}
}

// TimedMultiplier scales a stat until its expiry (simulation seconds)
type TimedMultiplier struct {
	Factor float64
	Until  float64
}

// Shield absorbs damage before health until it runs out or expires
type Shield struct {
	Pool  int
	Until float64
}

// Player is a logged-in participant
type Player struct {
	ID     int
	ConnID ConnID
	Team   int
	Pos    Vec2
	HP     int
	Alive  bool
	Weapon *Weapon
	Spikes int

	Speed  *TimedMultiplier
	Damage *TimedMultiplier
	Shield *Shield

	// set once PlayerDied has been sent; pruned at the end of the tick
	deathNotified bool
}

// NewPlayer creates a live player at pos with full health
func NewPlayer(id int, conn ConnID, pos Vec2) *Player {
	return &Player{
		ID:     id,
		ConnID: conn,
		Pos:    pos,
		HP:     PlayerMaxHP,
		Alive:  true,
	}
}

// Bound returns the player's collision box
func (p *Player) Bound() Rect {
	return BoundAt(p.Pos, PlayerSize)
}

// Move nudges the player along dir for one tick, scaled by any speed effect,
// and keeps it inside the arena.
func (p *Player) Move(dir Direction, dt, now, arenaW, arenaH float64) {
	if !p.Alive {
		return
	}
	step := dir.Vector().Scale(PlayerSpeed * dt * p.SpeedMultiplier(now))
	p.Pos = p.Pos.Add(step)
	half := PlayerSize / 2
	p.Pos.X = Clamp(p.Pos.X, half, arenaW-half)
	p.Pos.Y = Clamp(p.Pos.Y, half, arenaH-half)
}

// SpeedMultiplier returns the active speed factor at time now
func (p *Player) SpeedMultiplier(now float64) float64 {
	if p.Speed == nil || p.Speed.Until <= now {
		return 1
	}
	return p.Speed.Factor
}

// DamageMultiplier returns the active damage factor at time now
func (p *Player) DamageMultiplier(now float64) float64 {
	if p.Damage == nil || p.Damage.Until <= now {
		return 1
	}
	return p.Damage.Factor
}

// HasShield reports whether a shield is up at time now
func (p *Player) HasShield(now float64) bool {
	return p.Shield != nil && p.Shield.Pool > 0 && p.Shield.Until > now
}

// ShieldHP returns the remaining shield pool, 0 if none is active
func (p *Player) ShieldHP(now float64) int {
	if !p.HasShield(now) {
		return 0
	}
	return p.Shield.Pool
}

// ExpireEffects clears every effect whose expiry is at or before now
func (p *Player) ExpireEffects(now float64) {
	if p.Speed != nil && p.Speed.Until <= now {
		p.Speed = nil
	}
	if p.Damage != nil && p.Damage.Until <= now {
		p.Damage = nil
	}
	if p.Shield != nil && (p.Shield.Until <= now || p.Shield.Pool <= 0) {
		p.Shield = nil
	}
}

// TakeDamage applies dmg through the shield first and returns true if the
// player died from it.
func (p *Player) TakeDamage(dmg int, now float64) bool {
	if !p.Alive || dmg <= 0 {
		return false
	}
	if p.HasShield(now) {
		if dmg <= p.Shield.Pool {
			p.Shield.Pool -= dmg
			return false
		}
		dmg -= p.Shield.Pool
		p.Shield.Pool = 0
	}
	p.HP -= dmg
	if p.HP <= 0 {
		p.HP = 0
		p.Alive = false
		return true
	}
	return false
}

// Heal restores health up to the cap
func (p *Player) Heal(amount int) {
	if !p.Alive || amount <= 0 {
		return
	}
	p.HP += amount
	if p.HP > PlayerMaxHP {
		p.HP = PlayerMaxHP
	}
}

// WeaponDamage returns the damage one of this player's bullets deals at time now
func (p *Player) WeaponDamage(now float64) int {
	if p.Weapon == nil {
		return 0
	}
	return int(math.Round(p.Weapon.Stats.Damage * p.DamageMultiplier(now)))
}
