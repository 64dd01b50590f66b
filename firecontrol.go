package main

// ReloadDuration is how long a reload takes, in seconds
const ReloadDuration = 1.5

// FireState is the fire-control state of a weapon
type FireState int

const (
	StateReady FireState = iota
	StateCooldown
	StateEmpty
	StateReloading
)

func (s FireState) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateCooldown:
		return "cooldown"
	case StateEmpty:
		return "empty"
	case StateReloading:
		return "reloading"
	}
	return "unknown"
}

// State returns the current fire-control state
func (w *Weapon) State() FireState {
	return w.state
}

// TryFire attempts a shot and returns true if a bullet should be produced.
// Only a Ready weapon with ammo fires; everything else is ignored.
func (w *Weapon) TryFire() bool {
	if w.state != StateReady {
		return false
	}
	if w.Ammo <= 0 {
		w.Ammo = 0
		w.enter(StateEmpty)
		return false
	}
	w.Ammo--
	if w.Ammo == 0 {
		w.enter(StateEmpty)
	} else {
		w.enter(StateCooldown)
	}
	return true
}

// TryReload starts a reload. Only an Empty weapon can reload.
func (w *Weapon) TryReload() bool {
	if w.state != StateEmpty {
		return false
	}
	w.enter(StateReloading)
	return true
}

// Refill restores ammo to capacity at once (ammo power-up)
func (w *Weapon) Refill() {
	w.Ammo = w.Stats.Capacity
	if w.state == StateEmpty || w.state == StateReloading {
		w.enter(StateReady)
	}
}

// Update advances timed states by dt seconds
func (w *Weapon) Update(dt float64) {
	switch w.state {
	case StateCooldown:
		w.elapsed += dt
		if w.elapsed >= w.cooldown() {
			if w.Ammo == 0 {
				w.enter(StateEmpty)
			} else {
				w.enter(StateReady)
			}
		}
	case StateReloading:
		w.elapsed += dt
		if w.elapsed >= ReloadDuration {
			w.Ammo = w.Stats.Capacity
			w.enter(StateReady)
		}
	}
}

func (w *Weapon) cooldown() float64 {
	if w.Stats.FireRate <= 0 {
		return 0
	}
	return 1 / w.Stats.FireRate
}

func (w *Weapon) enter(s FireState) {
	w.state = s
	w.elapsed = 0
}
