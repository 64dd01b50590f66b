package main

// Arena holds the authoritative entity collections. Only the simulation
// goroutine touches it, so nothing here locks.
type Arena struct {
	Width, Height float64

	Players      []*Player
	Enemies      []*Enemy
	Bullets      []*Bullet
	Spikes       []*Spike
	PlacedSpikes []*PlacedSpike
	PowerUps     []*PowerUp

	playersByID  map[int]*Player
	playersByCon map[ConnID]*Player
	powerUpsByID map[int]*PowerUp
}

// NewArena creates an empty arena of the given size
func NewArena(width, height float64) *Arena {
	return &Arena{
		Width:        width,
		Height:       height,
		playersByID:  make(map[int]*Player),
		playersByCon: make(map[ConnID]*Player),
		powerUpsByID: make(map[int]*PowerUp),
	}
}

// AddPlayer puts p on the live roster
func (a *Arena) AddPlayer(p *Player) {
	a.Players = append(a.Players, p)
	a.playersByID[p.ID] = p
	if p.ConnID != "" {
		a.playersByCon[p.ConnID] = p
	}
}

// Player returns the live player with id, or nil
func (a *Arena) Player(id int) *Player {
	return a.playersByID[id]
}

// PlayerByConn returns the player logged in on conn, or nil
func (a *Arena) PlayerByConn(conn ConnID) *Player {
	return a.playersByCon[conn]
}

// RemovePlayer takes the player off the roster. Removing an unknown id is a no-op.
func (a *Arena) RemovePlayer(id int) *Player {
	p, ok := a.playersByID[id]
	if !ok {
		return nil
	}
	delete(a.playersByID, id)
	if a.playersByCon[p.ConnID] == p {
		delete(a.playersByCon, p.ConnID)
	}
	a.Players = removeFirst(a.Players, p)
	return p
}

// AddPowerUp tracks pu in every power-up collection
func (a *Arena) AddPowerUp(pu *PowerUp) {
	a.PowerUps = append(a.PowerUps, pu)
	a.powerUpsByID[pu.ID] = pu
}

// RemovePowerUp drops the power-up from every collection that tracks it.
// Removing it again is a no-op.
func (a *Arena) RemovePowerUp(id int) {
	pu, ok := a.powerUpsByID[id]
	if !ok {
		return
	}
	pu.Visible = false
	delete(a.powerUpsByID, id)
	a.PowerUps = removeFirst(a.PowerUps, pu)
}

// PlayerPositions returns the positions of every live player
func (a *Arena) PlayerPositions(buf []Vec2) []Vec2 {
	buf = buf[:0]
	for _, p := range a.Players {
		if p.Alive {
			buf = append(buf, p.Pos)
		}
	}
	return buf
}

// Prune drops hidden and consumed entities, and dead players whose death has
// been announced. It returns the removed players so their ids can be released.
func (a *Arena) Prune() []*Player {
	var gone []*Player
	kept := a.Players[:0]
	for _, p := range a.Players {
		if !p.Alive && p.deathNotified {
			gone = append(gone, p)
			delete(a.playersByID, p.ID)
			if a.playersByCon[p.ConnID] == p {
				delete(a.playersByCon, p.ConnID)
			}
			continue
		}
		kept = append(kept, p)
	}
	clear(a.Players[len(kept):])
	a.Players = kept

	a.Enemies = keepIf(a.Enemies, func(e *Enemy) bool { return e.Visible })
	a.Bullets = keepIf(a.Bullets, func(b *Bullet) bool { return b.Visible })
	a.Spikes = keepIf(a.Spikes, func(s *Spike) bool { return s.Visible })
	a.PlacedSpikes = keepIf(a.PlacedSpikes, func(s *PlacedSpike) bool { return s.Armed() })
	a.PowerUps = keepIf(a.PowerUps, func(pu *PowerUp) bool {
		if !pu.Visible {
			delete(a.powerUpsByID, pu.ID)
		}
		return pu.Visible
	})
	return gone
}

// keepIf filters s in place
func keepIf[T any](s []T, keep func(T) bool) []T {
	out := s[:0]
	for _, v := range s {
		if keep(v) {
			out = append(out, v)
		}
	}
	clear(s[len(out):])
	return out
}

// removeFirst deletes the first occurrence of v, preserving order
func removeFirst[T comparable](s []T, v T) []T {
	for i, x := range s {
		if x == v {
			copy(s[i:], s[i+1:])
			var zero T
			s[len(s)-1] = zero
			return s[:len(s)-1]
		}
	}
	return s
}
