package main

const ExplosionFrames = 8

// Explosion is the death animation of a ship. It plays once; Start is ignored
// until Reset re-arms it on respawn.
type Explosion struct {
	X, Y    int
	Class   ShipClass
	Stage   int
	Active  bool
	started bool
}

// Start begins the animation at (x, y)
func (e *Explosion) Start(x, y int, class ShipClass) {
	if e.started {
		return
	}
	e.X = x
	e.Y = y
	e.Class = class
	e.Stage = 0
	e.Active = true
	e.started = true
}

// Update advances one frame
func (e *Explosion) Update() {
	if !e.Active {
		return
	}
	if e.Stage+1 >= ExplosionFrames {
		e.Active = false
		return
	}
	e.Stage++
}

// Reset re-arms the explosion
func (e *Explosion) Reset() {
	*e = Explosion{}
}

// ToState converts to protocol state
func (e *Explosion) ToState(owner int) ExplosionState {
	return ExplosionState{
		Owner: owner,
		X:     e.X,
		Y:     e.Y,
		Class: int(e.Class),
		Frame: e.Stage,
	}
}
