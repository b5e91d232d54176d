package main

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Client -> Server message types
const (
	MsgPilot   = "pilot"   // claim the local ship with a pairing token
	MsgInput   = "input"   // control event for the local ship
	MsgControl = "control" // pause, resume or reset (pilot only)
)

// Server -> Client message types
const (
	MsgWelcome = "welcome"
	MsgPilotOK = "pilot_ok"
	MsgEvent   = "event"
	MsgWin     = "win"
	MsgError   = "error"
)

// Control commands carried by MsgControl
const (
	CtrlPause  = "pause"
	CtrlResume = "resume"
	CtrlReset  = "reset"
)

// binaryInputTag marks the compact 2-byte input frame [tag, event]
const binaryInputTag = 0x01

// Envelope wraps all outgoing JSON messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages; json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// PilotMsg carries the token scanned from the pairing QR code
type PilotMsg struct {
	Token string `json:"token"`
}

// InputMsg names one input event, e.g. "thrust" or "-fire"
type InputMsg struct {
	Event string `json:"ev"`
}

// ControlMsg names a match control command
type ControlMsg struct {
	Cmd string `json:"cmd"`
}

// WelcomeMsg is sent to every viewer on connect
type WelcomeMsg struct {
	ID          string `json:"id"`
	LevelWidth  int    `json:"lw"`
	LevelHeight int    `json:"lh"`
	FPS         int    `json:"fps"`
	Local       int    `json:"local"`
}

// WinMsg announces the team that owns every planet
type WinMsg struct {
	Team  string `json:"team"`
	Frame uint64 `json:"frame"`
}

// ErrorMsg sends error to client
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// ShipState is broadcast per roster slot
type ShipState struct {
	Slot      int    `json:"slot" msgpack:"slot"`
	Kind      int    `json:"k" msgpack:"k"`
	X         int    `json:"x" msgpack:"x"`
	Y         int    `json:"y" msgpack:"y"`
	Size      int    `json:"sz" msgpack:"sz"`
	Heading   int    `json:"h" msgpack:"h"`
	Thrust    bool   `json:"th,omitempty" msgpack:"th,omitempty"`
	Health    int    `json:"hp" msgpack:"hp"`
	Shield    int    `json:"sh" msgpack:"sh"`
	MaxShield int    `json:"msh" msgpack:"msh"`
	Flash     bool   `json:"fl,omitempty" msgpack:"fl,omitempty"`
	Revealed  bool   `json:"rv,omitempty" msgpack:"rv,omitempty"`
	State     string `json:"st" msgpack:"st"`
	AI        string `json:"ai,omitempty" msgpack:"ai,omitempty"`
}

// ProjectileState is broadcast per active projectile
type ProjectileState struct {
	Owner int `json:"o" msgpack:"o"`
	X     int `json:"x" msgpack:"x"`
	Y     int `json:"y" msgpack:"y"`
	VX    int `json:"vx" msgpack:"vx"`
	VY    int `json:"vy" msgpack:"vy"`
}

// PodState is broadcast per escape pod in flight
type PodState struct {
	Owner   int `json:"o" msgpack:"o"`
	X       int `json:"x" msgpack:"x"`
	Y       int `json:"y" msgpack:"y"`
	Heading int `json:"h" msgpack:"h"`
}

// PlanetState is broadcast per planet
type PlanetState struct {
	Index     int `json:"i" msgpack:"i"`
	Type      int `json:"ty" msgpack:"ty"`
	X         int `json:"x" msgpack:"x"`
	Y         int `json:"y" msgpack:"y"`
	W         int `json:"w" msgpack:"w"`
	H         int `json:"h" msgpack:"h"`
	Owner     int `json:"ow" msgpack:"ow"`
	ProgressA int `json:"pa" msgpack:"pa"`
	ProgressB int `json:"pb" msgpack:"pb"`
	Cap       int `json:"cap" msgpack:"cap"`
}

// ExplosionState is broadcast per running explosion
type ExplosionState struct {
	Owner int `json:"o" msgpack:"o"`
	X     int `json:"x" msgpack:"x"`
	Y     int `json:"y" msgpack:"y"`
	Class int `json:"c" msgpack:"c"`
	Frame int `json:"f" msgpack:"f"`
}

// StarState is broadcast per shooting star
type StarState struct {
	X int `json:"x" msgpack:"x"`
	Y int `json:"y" msgpack:"y"`
}

// Snapshot is the full renderable state of one frame
type Snapshot struct {
	Frame       uint64            `json:"f" msgpack:"f"`
	Paused      bool              `json:"pz,omitempty" msgpack:"pz,omitempty"`
	Winner      int               `json:"win" msgpack:"win"`
	Local       int               `json:"local" msgpack:"local"`
	Ships       []ShipState       `json:"s" msgpack:"s"`
	Projectiles []ProjectileState `json:"pr" msgpack:"pr"`
	Pods        []PodState        `json:"pd" msgpack:"pd"`
	Planets     []PlanetState     `json:"pl" msgpack:"pl"`
	Explosions  []ExplosionState  `json:"ex" msgpack:"ex"`
	Stars       []StarState       `json:"st" msgpack:"st"`
}

// EncodeSnapshot packs a snapshot for a binary websocket frame
func EncodeSnapshot(s *Snapshot) ([]byte, error) {
	b, err := msgpack.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return b, nil
}

// DecodeSnapshot is the inverse of EncodeSnapshot
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &s, nil
}

// DecodeBinaryInput parses the compact [tag, event] input frame
func DecodeBinaryInput(msg []byte) (InputEvent, bool) {
	if len(msg) != 2 || msg[0] != binaryInputTag {
		return 0, false
	}
	ev := InputEvent(msg[1])
	if int(ev) >= len(inputNames) {
		return 0, false
	}
	return ev, true
}
