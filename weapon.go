package main

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyWeaponConfig = errors.New("empty weapon config")
	ErrUnknownWeapon     = errors.New("unknown weapon")
	ErrUnknownAttachment = errors.New("unknown attachment")
)

// DefaultWeaponConfig is equipped on login
const DefaultWeaponConfig = "pistol"

// WeaponStats are the derived numbers a weapon fires with
type WeaponStats struct {
	Name        string
	Damage      float64
	Range       float64 // pixels
	FireRate    float64 // shots per second
	Capacity    int
	Bullet      BulletKind
	BulletScale float64 // multiplier on the bullet kind's size
}

var baseWeapons = map[string]WeaponStats{
	"pistol": {Name: "pistol", Damage: 15, Range: 400, FireRate: 4, Capacity: 12, Bullet: BulletStandard, BulletScale: 1},
	"rifle":  {Name: "rifle", Damage: 10, Range: 600, FireRate: 10, Capacity: 30, Bullet: BulletFast, BulletScale: 1},
	"cannon": {Name: "cannon", Damage: 35, Range: 350, FireRate: 1, Capacity: 4, Bullet: BulletHeavy, BulletScale: 1},
}

// Attachment names a stat modifier applied on top of a base weapon
type Attachment string

const (
	AttachScope    Attachment = "scope"
	AttachMagazine Attachment = "magazine"
	AttachGrip     Attachment = "grip"
	AttachSilencer Attachment = "silencer"
	AttachDamage   Attachment = "damage"
)

var attachmentEffects = map[Attachment]func(WeaponStats) WeaponStats{
	AttachScope: func(s WeaponStats) WeaponStats {
		s.Range *= 1.5
		return s
	},
	AttachMagazine: func(s WeaponStats) WeaponStats {
		s.Capacity += s.Capacity / 2
		return s
	},
	AttachGrip: func(s WeaponStats) WeaponStats {
		s.FireRate *= 1.25
		return s
	},
	AttachSilencer: func(s WeaponStats) WeaponStats {
		s.Damage *= 0.9
		s.BulletScale *= 0.75
		return s
	},
	AttachDamage: func(s WeaponStats) WeaponStats {
		s.Damage *= 1.25
		return s
	},
}

// WeaponSpec is a base weapon plus the attachments folded over it, in order
type WeaponSpec struct {
	Base        string
	Attachments []Attachment
}

// ParseWeaponConfig reads "base[+attachment]*", e.g. "rifle+scope+grip"
func ParseWeaponConfig(cfg string) (WeaponSpec, error) {
	cfg = strings.TrimSpace(strings.ToLower(cfg))
	if cfg == "" {
		return WeaponSpec{}, ErrEmptyWeaponConfig
	}
	parts := strings.Split(cfg, "+")
	spec := WeaponSpec{Base: strings.TrimSpace(parts[0])}
	if _, ok := baseWeapons[spec.Base]; !ok {
		return WeaponSpec{}, fmt.Errorf("%w: %q", ErrUnknownWeapon, spec.Base)
	}
	for _, part := range parts[1:] {
		a := Attachment(strings.TrimSpace(part))
		if _, ok := attachmentEffects[a]; !ok {
			return WeaponSpec{}, fmt.Errorf("%w: %q", ErrUnknownAttachment, a)
		}
		spec.Attachments = append(spec.Attachments, a)
	}
	return spec, nil
}

// Stats folds the attachments over the base stats without touching the table
func (s WeaponSpec) Stats() (WeaponStats, error) {
	stats, ok := baseWeapons[s.Base]
	if !ok {
		return WeaponStats{}, fmt.Errorf("%w: %q", ErrUnknownWeapon, s.Base)
	}
	for _, a := range s.Attachments {
		apply, ok := attachmentEffects[a]
		if !ok {
			return WeaponStats{}, fmt.Errorf("%w: %q", ErrUnknownAttachment, a)
		}
		stats = apply(stats)
	}
	return stats, nil
}

// Weapon is an equipped weapon instance with its own fire-control state
type Weapon struct {
	Spec  WeaponSpec
	Stats WeaponStats
	Ammo  int

	state   FireState
	elapsed float64
}

// NewWeapon builds a loaded, ready weapon from a WeaponSpec
func NewWeapon(spec WeaponSpec) (*Weapon, error) {
	stats, err := spec.Stats()
	if err != nil {
		return nil, err
	}
	return &Weapon{
		Spec:  spec,
		Stats: stats,
		Ammo:  stats.Capacity,
		state: StateReady,
	}, nil
}

// NewWeaponFromConfig parses cfg and builds the weapon
func NewWeaponFromConfig(cfg string) (*Weapon, error) {
	spec, err := ParseWeaponConfig(cfg)
	if err != nil {
		return nil, err
	}
	return NewWeapon(spec)
}
