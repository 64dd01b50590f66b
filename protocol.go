package main

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ConnID identifies one transport connection
type ConnID string

// Client -> Server message types. Control messages travel on the reliable
// channel; move and shoot are high-frequency and may be lost.
const (
	MsgLogin      = "login"
	MsgLogout     = "logout"
	MsgWeapon     = "weapon"
	MsgPlaceSpike = "place_spike"
	MsgUndoSpike  = "undo_spike"
	MsgReload     = "reload"
	MsgMove       = "move"
	MsgShoot      = "shoot"
)

// Server -> Client message types. The world snapshot is a binary frame and has
// no type name.
const (
	MsgLoginOK       = "login_ok"
	MsgLoginRejected = "login_rejected"
	MsgDied          = "died"
	MsgInventory     = "inventory"
)

var (
	ErrUnknownMessage = errors.New("unknown message type")
	ErrNotFinite      = errors.New("non-finite number")
)

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages; D is decoded once the type is known
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// LoginMsg asks for a player at (x, y)
type LoginMsg struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Team int     `json:"team,omitempty"`
}

// PlayerMsg carries only a player id (logout, undo_spike, reload)
type PlayerMsg struct {
	ID int `json:"id"`
}

// MoveMsg nudges a player one step along dir ("up", "down", "left", "right")
type MoveMsg struct {
	ID  int    `json:"id"`
	Dir string `json:"dir"`
}

// ShootMsg fires the equipped weapon at angle degrees
type ShootMsg struct {
	ID    int     `json:"id"`
	Angle float64 `json:"angle"`
}

// WeaponMsg re-equips a weapon from a config string such as "rifle+scope"
type WeaponMsg struct {
	ID  int    `json:"id"`
	Cfg string `json:"cfg"`
}

// PlaceSpikeMsg drops a spike trap rotated rot degrees
type PlaceSpikeMsg struct {
	ID  int     `json:"id"`
	Rot float64 `json:"rot"`
}

// LoginOKMsg echoes the assigned player id to the sender
type LoginOKMsg struct {
	ID int `json:"id"`
}

// LoginRejectedMsg tells the sender no player was created
type LoginRejectedMsg struct {
	Reason string `json:"reason"`
}

// DiedMsg is broadcast when a player dies
type DiedMsg struct {
	ID int `json:"id"`
}

// InventoryMsg tells a player its spike count, and whether its ammo changed
type InventoryMsg struct {
	ID     int  `json:"id"`
	Spikes int  `json:"spikes"`
	Reload bool `json:"reload"`
}

// Command is one decoded inbound request. The concrete types below are the
// complete set; the world dispatches on them with a type switch.
type Command interface {
	command()
}

type LoginCmd struct {
	Pos  Vec2
	Team int
}

type LogoutCmd struct{ PlayerID int }

type MoveCmd struct {
	PlayerID int
	Dir      Direction
}

type ShootCmd struct {
	PlayerID int
	Angle    float64 // degrees
}

type WeaponChangeCmd struct {
	PlayerID int
	Config   string
}

type PlaceSpikeCmd struct {
	PlayerID int
	Rotation float64 // degrees
}

type UndoSpikeCmd struct{ PlayerID int }

type ReloadCmd struct{ PlayerID int }

func (LoginCmd) command()        {}
func (LogoutCmd) command()       {}
func (MoveCmd) command()         {}
func (ShootCmd) command()        {}
func (WeaponChangeCmd) command() {}
func (PlaceSpikeCmd) command()   {}
func (UndoSpikeCmd) command()    {}
func (ReloadCmd) command()       {}

// ParseDirection maps a wire direction name to a Direction
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "up":
		return DirUp, true
	case "down":
		return DirDown, true
	case "left":
		return DirLeft, true
	case "right":
		return DirRight, true
	}
	return 0, false
}

// DecodeCommand parses one text frame (single-pass decode via InEnvelope)
func DecodeCommand(raw []byte) (Command, error) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	switch env.T {
	case MsgLogin:
		var msg LoginMsg
		if err := unmarshalPayload(env, &msg); err != nil {
			return nil, err
		}
		if !finite(msg.X, msg.Y) {
			return nil, fmt.Errorf("login: %w", ErrNotFinite)
		}
		return LoginCmd{Pos: Vec2{msg.X, msg.Y}, Team: msg.Team}, nil
	case MsgLogout:
		var msg PlayerMsg
		if err := unmarshalPayload(env, &msg); err != nil {
			return nil, err
		}
		return LogoutCmd{PlayerID: msg.ID}, nil
	case MsgMove:
		var msg MoveMsg
		if err := unmarshalPayload(env, &msg); err != nil {
			return nil, err
		}
		dir, ok := ParseDirection(msg.Dir)
		if !ok {
			return nil, fmt.Errorf("move: bad direction %q", msg.Dir)
		}
		return MoveCmd{PlayerID: msg.ID, Dir: dir}, nil
	case MsgShoot:
		var msg ShootMsg
		if err := unmarshalPayload(env, &msg); err != nil {
			return nil, err
		}
		if !finite(msg.Angle) {
			return nil, fmt.Errorf("shoot: %w", ErrNotFinite)
		}
		return ShootCmd{PlayerID: msg.ID, Angle: msg.Angle}, nil
	case MsgWeapon:
		var msg WeaponMsg
		if err := unmarshalPayload(env, &msg); err != nil {
			return nil, err
		}
		return WeaponChangeCmd{PlayerID: msg.ID, Config: msg.Cfg}, nil
	case MsgPlaceSpike:
		var msg PlaceSpikeMsg
		if err := unmarshalPayload(env, &msg); err != nil {
			return nil, err
		}
		if !finite(msg.Rot) {
			return nil, fmt.Errorf("place_spike: %w", ErrNotFinite)
		}
		return PlaceSpikeCmd{PlayerID: msg.ID, Rotation: msg.Rot}, nil
	case MsgUndoSpike:
		var msg PlayerMsg
		if err := unmarshalPayload(env, &msg); err != nil {
			return nil, err
		}
		return UndoSpikeCmd{PlayerID: msg.ID}, nil
	case MsgReload:
		var msg PlayerMsg
		if err := unmarshalPayload(env, &msg); err != nil {
			return nil, err
		}
		return ReloadCmd{PlayerID: msg.ID}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, env.T)
}

func unmarshalPayload(env InEnvelope, v interface{}) error {
	if len(env.D) == 0 {
		return fmt.Errorf("%s: missing payload", env.T)
	}
	if err := json.Unmarshal(env.D, v); err != nil {
		return fmt.Errorf("%s: %w", env.T, err)
	}
	return nil
}
