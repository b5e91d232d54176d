package main

// Planet is a capturable node. Each team accumulates progress toward the
// planet's capture time; reaching it flips ownership.
type Planet struct {
	Type        int
	Box         Box
	CaptureTime int
	Owner       Team
	ProgressA   int
	ProgressB   int
}

// NewPlanet creates a planet of the given type with its top-left corner at (x, y)
func NewPlanet(typ int, def PlanetTypeDef, x, y int) Planet {
	return Planet{
		Type:        typ,
		Box:         Box{X: x, Y: y, W: def.Width, H: def.Height},
		CaptureTime: def.CaptureTime,
	}
}

// Circle returns the planet's capture circle, centred on its box
func (p *Planet) Circle() Circle {
	cx, cy := p.Box.Center()
	return Circle{X: cx, Y: cy, R: p.Box.W / 2}
}

// Progress returns the capture progress of a team
func (p *Planet) Progress(team Team) int {
	switch team {
	case TeamA:
		return p.ProgressA
	case TeamB:
		return p.ProgressB
	}
	return 0
}

// Capture adds strength to team's progress and drains the opponent by the same amount.
// Both counters stay within [0, CaptureTime].
func (p *Planet) Capture(strength int, team Team) {
	if strength <= 0 {
		return
	}
	switch team {
	case TeamA:
		p.ProgressA = gain(p.ProgressA, strength, p.CaptureTime)
		p.ProgressB = drain(p.ProgressB, strength)
	case TeamB:
		p.ProgressB = gain(p.ProgressB, strength, p.CaptureTime)
		p.ProgressA = drain(p.ProgressA, strength)
	default:
		return
	}
	if p.ProgressB >= p.CaptureTime {
		p.Owner = TeamB
	}
	if p.ProgressA >= p.CaptureTime {
		p.Owner = TeamA
	}
}

func gain(v, by, limit int) int {
	if v >= limit {
		return limit
	}
	v += by
	if v > limit {
		v = limit
	}
	return v
}

func drain(v, by int) int {
	v -= by
	if v < 0 {
		v = 0
	}
	return v
}

// ToState converts to protocol state
func (p *Planet) ToState(idx int) PlanetState {
	return PlanetState{
		Index:     idx,
		Type:      p.Type,
		X:         p.Box.X,
		Y:         p.Box.Y,
		W:         p.Box.W,
		H:         p.Box.H,
		Owner:     int(p.Owner),
		ProgressA: p.ProgressA,
		ProgressB: p.ProgressB,
		Cap:       p.CaptureTime,
	}
}
