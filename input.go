package main

import "fmt"

// InputEvent is a discrete control event for the locally controlled ship
type InputEvent int

const (
	InputThrustBegin InputEvent = iota
	InputThrustEnd
	InputLeftBegin
	InputLeftEnd
	InputRightBegin
	InputRightEnd
	InputBrakeBegin
	InputBrakeEnd
	InputFireBegin
	InputFireEnd
	InputRespawnLight
	InputRespawnHeavy
)

var inputNames = [...]string{
	"thrust", "-thrust",
	"left", "-left",
	"right", "-right",
	"brake", "-brake",
	"fire", "-fire",
	"respawn-light", "respawn-heavy",
}

func (e InputEvent) String() string {
	if e < 0 || int(e) >= len(inputNames) {
		return fmt.Sprintf("input(%d)", int(e))
	}
	return inputNames[e]
}

// ParseInputEvent maps a wire name such as "thrust" or "-fire" to its event
func ParseInputEvent(name string) (InputEvent, error) {
	for i, n := range inputNames {
		if n == name {
			return InputEvent(i), nil
		}
	}
	return 0, fmt.Errorf("unknown input event %q", name)
}

// IsRespawn reports whether the event asks for a new ship
func (e InputEvent) IsRespawn() bool {
	return e == InputRespawnLight || e == InputRespawnHeavy
}

// HandleInput applies a control event to a player-controlled ship.
// Events are ignored while the ship is destroyed.
func (s *Ship) HandleInput(ev InputEvent) {
	if !s.Alive {
		return
	}
	switch ev {
	case InputThrustBegin:
		s.Thrusting = true
	case InputThrustEnd:
		s.Thrusting = false
		s.DriftX += float64(s.VX)
		s.DriftY += float64(s.VY)
		s.VX = 0
		s.VY = 0
		s.Accel = 0
	case InputLeftBegin:
		s.Rotate = -1
	case InputLeftEnd:
		if s.Rotate == -1 {
			s.Rotate = 0
		}
	case InputRightBegin:
		s.Rotate = 1
	case InputRightEnd:
		if s.Rotate == 1 {
			s.Rotate = 0
		}
	case InputBrakeBegin:
		s.Braking = true
	case InputBrakeEnd:
		s.Braking = false
	case InputFireBegin:
		s.Firing = true
	case InputFireEnd:
		s.Firing = false
	}
}
