package main

const (
	PowerUpSize       = 28.0
	PowerUpDuration   = 10.0 // seconds
	SpeedBoostFactor  = 1.5
	DamageBoostFactor = 2.0
	ShieldCapacity    = 50
)

// PowerUpType selects the effect a power-up applies. The ordinal is sent on the wire.
type PowerUpType int

const (
	PowerUpSpeed PowerUpType = iota
	PowerUpDamage
	PowerUpShield
	PowerUpAmmo
	powerUpTypeCount
)

func (t PowerUpType) String() string {
	switch t {
	case PowerUpSpeed:
		return "speed"
	case PowerUpDamage:
		return "damage"
	case PowerUpShield:
		return "shield"
	case PowerUpAmmo:
		return "ammo"
	}
	return "unknown"
}

// PowerUp is a collectible that grants a timed effect
type PowerUp struct {
	ID       int
	Type     PowerUpType
	Pos      Vec2
	Size     float64
	Duration float64
	Visible  bool
}

// NewPowerUp creates a power-up with the default duration
func NewPowerUp(id int, typ PowerUpType, pos Vec2) *PowerUp {
	return &PowerUp{
		ID:       id,
		Type:     typ,
		Pos:      pos,
		Size:     PowerUpSize,
		Duration: PowerUpDuration,
		Visible:  true,
	}
}

// Bound returns the collision box
func (pu *PowerUp) Bound() Rect {
	return BoundAt(pu.Pos, pu.Size)
}

// Apply grants the effect to p at time now. It returns true when the player's
// inventory changed and should be re-sent.
func (pu *PowerUp) Apply(p *Player, now float64) bool {
	until := now + pu.Duration
	switch pu.Type {
	case PowerUpSpeed:
		p.Speed = &TimedMultiplier{Factor: SpeedBoostFactor, Until: until}
	case PowerUpDamage:
		p.Damage = &TimedMultiplier{Factor: DamageBoostFactor, Until: until}
	case PowerUpShield:
		p.Shield = &Shield{Pool: ShieldCapacity, Until: until}
	case PowerUpAmmo:
		if p.Weapon != nil {
			p.Weapon.Refill()
		}
		return true
	}
	return false
}
