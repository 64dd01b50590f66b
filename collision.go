package main

import "math"

// Notifier receives the point-to-point events a collision produces. They are
// sent as they happen, not batched into the snapshot.
type Notifier interface {
	PlayerDied(p *Player)
	InventoryChanged(p *Player)
}

// Mediator resolves every cross-entity interaction for a tick. It runs after
// all entities have moved, on the simulation goroutine.
//
// Order is fixed: bullets first in list order, then players in list order.
// Within a bullet enemies take priority over players, and the first overlap wins.
type Mediator struct {
	arena  *Arena
	notify Notifier
}

// NewMediator creates a mediator over arena
func NewMediator(arena *Arena, notify Notifier) *Mediator {
	return &Mediator{arena: arena, notify: notify}
}

// Resolve runs one collision pass at simulation time now
func (m *Mediator) Resolve(now float64) {
	for _, b := range m.arena.Bullets {
		if b.Visible {
			m.resolveBullet(b, now)
		}
	}
	for _, p := range m.arena.Players {
		if p.Alive {
			m.resolvePlayer(p, now)
		}
	}
}

func (m *Mediator) resolveBullet(b *Bullet, now float64) {
	bound := b.Bound()

	for _, e := range m.arena.Enemies {
		if !e.Visible || !bound.Overlaps(e.Bound()) {
			continue
		}
		b.Visible = false
		e.Visible = false
		if owner := m.arena.Player(b.OwnerID); owner != nil {
			owner.Heal(EnemyKillReward)
		}
		return
	}

	for _, p := range m.arena.Players {
		if !p.Alive || p.ID == b.OwnerID || !bound.Overlaps(p.Bound()) {
			continue
		}
		b.Visible = false
		if p.TakeDamage(m.bulletDamage(b, now), now) {
			m.died(p)
		}
		return
	}
}

// bulletDamage uses the owner's current weapon and multiplier. If the owner
// has left, the damage recorded at fire time is used.
func (m *Mediator) bulletDamage(b *Bullet, now float64) int {
	if owner := m.arena.Player(b.OwnerID); owner != nil && owner.Weapon != nil {
		return owner.WeaponDamage(now)
	}
	return int(math.Round(b.Damage))
}

func (m *Mediator) resolvePlayer(p *Player, now float64) {
	bound := p.Bound()

	for _, s := range m.arena.Spikes {
		if !s.Visible || !bound.Overlaps(s.Bound()) {
			continue
		}
		s.Visible = false
		p.Spikes++
		m.notify.InventoryChanged(p)
	}

	for _, s := range m.arena.PlacedSpikes {
		if !s.Armed() || s.OwnerID == p.ID || !bound.Overlaps(s.Bound()) {
			continue
		}
		s.Consumed = true
		s.Visible = false
		if p.TakeDamage(SpikeDamage, now) {
			m.died(p)
			return
		}
	}

	// copy: pickups are removed from the arena while we walk them
	pickups := append([]*PowerUp(nil), m.arena.PowerUps...)
	for _, pu := range pickups {
		if !pu.Visible || !bound.Overlaps(pu.Bound()) {
			continue
		}
		if pu.Apply(p, now) {
			m.notify.InventoryChanged(p)
		}
		m.arena.RemovePowerUp(pu.ID)
	}
}

func (m *Mediator) died(p *Player) {
	if p.deathNotified {
		return
	}
	p.deathNotified = true
	m.notify.PlayerDied(p)
}
