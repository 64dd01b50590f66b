package main

import "math"

// BulletKind selects speed, size and lifetime ceiling
type BulletKind int

const (
	BulletStandard BulletKind = iota
	BulletFast
	BulletHeavy
)

// BulletDef holds the stats of a bullet kind
type BulletDef struct {
	Speed  float64 // pixels/s
	Size   float64 // bound edge in pixels
	MaxTTL int     // ticks
}

var bulletDefs = [3]BulletDef{
	BulletStandard: {Speed: 500, Size: 8, MaxTTL: 120},
	BulletFast:     {Speed: 800, Size: 5, MaxTTL: 90},
	BulletHeavy:    {Speed: 350, Size: 14, MaxTTL: 150},
}

// GetBulletDef returns the definition for a bullet kind
func GetBulletDef(kind BulletKind) BulletDef {
	if kind < 0 || int(kind) >= len(bulletDefs) {
		return bulletDefs[BulletStandard]
	}
	return bulletDefs[kind]
}

// Bullet is a projectile fired by a player
type Bullet struct {
	Kind    BulletKind
	OwnerID int
	Pos     Vec2
	Angle   float64 // radians
	Size    float64
	TTL     int // ticks remaining
	Damage  float64
	Visible bool
}

// NewBullet fires a bullet from pos in the direction of angle (radians).
// The lifetime is the weapon's range divided by the bullet speed, capped at the
// kind's ceiling.
func NewBullet(ownerID int, pos Vec2, angle float64, stats WeaponStats, tickRate int) *Bullet {
	def := GetBulletDef(stats.Bullet)
	ttl := def.MaxTTL
	if stats.Range > 0 && def.Speed > 0 {
		byRange := int(math.Ceil(stats.Range / def.Speed * float64(tickRate)))
		if byRange < ttl {
			ttl = byRange
		}
	}
	scale := stats.BulletScale
	if scale <= 0 {
		scale = 1
	}
	return &Bullet{
		Kind:    stats.Bullet,
		OwnerID: ownerID,
		Pos:     pos,
		Angle:   NormalizeAngle(angle),
		Size:    def.Size * scale,
		TTL:     ttl,
		Damage:  stats.Damage,
		Visible: true,
	}
}

// Update moves the bullet one tick and counts down its lifetime
func (b *Bullet) Update(dt float64) {
	if !b.Visible {
		return
	}
	def := GetBulletDef(b.Kind)
	b.Pos = b.Pos.Add(FromAngle(b.Angle).Scale(def.Speed * dt))
	b.TTL--
	if b.TTL <= 0 {
		b.Visible = false
	}
}

// Bound returns the bullet's collision box
func (b *Bullet) Bound() Rect {
	return BoundAt(b.Pos, b.Size)
}
