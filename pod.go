package main

const (
	PodRadius     = 90
	PodSpeed      = 60
	PodThinkDelay = 5  // frames skipped between homing recomputes
	PodDockRange  = 70 // manhattan distance to the mothership centre
)

// EscapePod carries a destroyed ship's crew back to its mothership.
// A zero radius means no pod is in flight.
type EscapePod struct {
	Circle  Circle
	Heading Heading
	Desired Heading
	think   int
}

// Active reports whether the pod is in flight
func (p *EscapePod) Active() bool {
	return p.Circle.R > 0
}

// Spawn launches the pod at (x, y)
func (p *EscapePod) Spawn(x, y int) {
	p.Circle = Circle{X: x, Y: y, R: PodRadius}
	p.think = 0
}

// Destroy removes the pod
func (p *EscapePod) Destroy() {
	p.Circle.R = 0
}

// Clear resets the pod to its unspawned state
func (p *EscapePod) Clear() {
	*p = EscapePod{}
}

// Update homes the pod one frame toward home.
// Returns true on the frame the pod docks, after which it is inactive.
func (p *EscapePod) Update(home Circle) bool {
	if !p.Active() {
		return false
	}
	if p.think < 0 {
		p.think++
	} else {
		p.think = -PodThinkDelay
		p.Desired = SetAngle(p.Circle, home, p.Heading)
	}
	p.Heading = TurnToward(p.Heading, p.Desired)

	dx, dy := p.Heading.Scaled(PodSpeed)
	p.Circle.X += dx
	p.Circle.Y += dy

	if Manhattan(home, p.Circle) < PodDockRange {
		p.Destroy()
		return true
	}
	return false
}

// ToState converts to protocol state
func (p *EscapePod) ToState(owner int) PodState {
	return PodState{
		Owner:   owner,
		X:       p.Circle.X,
		Y:       p.Circle.Y,
		Heading: int(p.Heading),
	}
}
