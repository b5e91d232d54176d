package main

import "fmt"

const (
	AIThinkDelay   = 4   // frames skipped between target re-acquisitions
	EngageRange    = 750 // manhattan distance at which AI ships open fire
	aiBrakeDivisor = 2
)

// Personality selects how an AI ship picks its target
type Personality int

const (
	Scout Personality = iota
	Guardian
	Hunter
	MothershipAI
)

var personalityNames = [...]string{"scout", "guardian", "hunter", "mothership"}

// Name returns the personality's wire name
func (p Personality) Name() string {
	if p < 0 || int(p) >= len(personalityNames) {
		return fmt.Sprintf("personality(%d)", int(p))
	}
	return personalityNames[p]
}

func (p Personality) String() string {
	return p.Name()
}

// Decide picks a target and whether to fire at it. ok is false when nothing
// qualifies as a target this think tick, in which case the previous target is kept.
func (p Personality) Decide(s *Ship, w *World) (target Circle, shoot bool, ok bool) {
	switch p {
	case Hunter:
		if i := w.NearestRevealedEnemy(s); i >= 0 {
			target, ok = w.Ships[i].Circle(), true
		} else if i := w.NearestPlanet(s); i >= 0 {
			target, ok = w.Planets[i].Circle(), true
			target.X += jitter(w.rng, target.R)
			target.Y += jitter(w.rng, target.R)
		}
		if i := w.EnemyInRange(s); i >= 0 {
			return w.Ships[i].Circle(), true, true
		}
		return target, false, ok

	case Guardian:
		if m := w.Mothership(s.Team()); m != nil && m.Alive {
			target, ok = m.Circle(), true
		}
		if i := w.EnemyInRange(s); i >= 0 {
			return w.Ships[i].Circle(), true, true
		}
		return target, false, ok

	case Scout:
		if i := w.NearestPlanet(s); i >= 0 {
			target, ok = w.Planets[i].Circle(), true
		}
		if i := w.EnemyInRange(s); i >= 0 && w.OverPlanet(s) {
			return w.Ships[i].Circle(), true, true
		}
		return target, false, ok

	case MothershipAI:
		if i := w.NearestPlanet(s); i >= 0 {
			return w.Planets[i].Circle(), false, true
		}
	}
	return target, false, false
}

// jitter returns a random offset in (-r, r) used to spread hunters over a planet
func jitter(rng Rand, r int) int {
	return randRange(rng, r) - randRange(rng, r)
}

// Brain is the AI state carried by computer-controlled ships
type Brain struct {
	Personality Personality
	Target      Circle
	Desired     Heading
	Shoot       bool
	think       int
}

// NewBrain returns a brain for kind. Motherships always get MothershipAI,
// other ships a random pick of Scout, Guardian or Hunter.
func NewBrain(kind ShipKind, rng Rand) *Brain {
	if kind.IsMothership() {
		return &Brain{Personality: MothershipAI}
	}
	return &Brain{Personality: Personality(rng.Intn(3))}
}

func (b *Brain) reset(s *Ship) {
	b.Target = s.Circle()
	b.Desired = s.Heading
	b.Shoot = false
	b.think = 1
}

// steerAI runs the AI control path for one frame. Thinking happens every
// AIThinkDelay+1 frames; turning and thrust are applied every frame.
func (s *Ship) steerAI(w *World) {
	b := s.AI
	if b.think >= 1 {
		target, shoot, ok := b.Personality.Decide(s, w)
		if ok {
			b.Target = target
		}
		b.Shoot = shoot
		b.think = -AIThinkDelay + 1
		b.Desired = SetAngle(s.Circle(), b.Target, s.Heading)
	} else {
		b.think++
	}

	s.Heading = TurnToward(s.Heading, b.Desired)

	if Manhattan(s.Circle(), b.Target) > b.Target.R {
		s.Braking = false
		s.Thrusting = true
	} else {
		s.Braking = true
	}
	if s.Braking && s.Thrusting {
		s.DriftX = float64(s.VX)
		s.DriftY = float64(s.VY)
		s.Thrusting = false
		s.Accel = 0
		s.VX, s.VY = 0, 0
	}
	if s.Braking {
		s.DriftX -= s.DriftX / aiBrakeDivisor
		s.DriftY -= s.DriftY / aiBrakeDivisor
	}
	if s.Thrusting {
		if s.Accel < float64(s.Speed) {
			s.Accel++
		}
		s.VX, s.VY = s.Heading.Scaled(s.Accel)
		s.DriftX = approachZero(s.DriftX, thrustDriftCancel)
		s.DriftY = approachZero(s.DriftY, thrustDriftCancel)
	} else {
		s.DriftX = approachZero(s.DriftX, driftDecay)
		s.DriftY = approachZero(s.DriftY, driftDecay)
	}

	if b.Shoot {
		s.fire()
	}
}
