package main

const (
	RevealFrames      = 200 // frames a ship stays visible to enemy hunters after a hit
	ShieldFlashFrames = 3

	driftDecay        = 0.2 // per frame while coasting
	thrustDriftCancel = 1.0 // per frame while thrusting
	brakeDivisor      = 10  // player brake removes 1/10 of drift per frame
)

// Lifecycle is the destruction/respawn state of a ship
type Lifecycle int

const (
	LifeAlive Lifecycle = iota
	LifePodActive
	LifeDestroyed
)

func (l Lifecycle) String() string {
	switch l {
	case LifeAlive:
		return "alive"
	case LifePodActive:
		return "pod"
	}
	return "destroyed"
}

// Ship is a roster entry. It owns its projectile, escape pod and explosion.
type Ship struct {
	Slot int
	Kind ShipKind
	Box  Box

	Heading   Heading
	Rotate    int // -1, 0, +1
	Thrusting bool
	Braking   bool
	Firing    bool
	Accel     float64
	VX, VY    int
	DriftX    float64
	DriftY    float64

	Speed       int
	Damage      int
	Health      int
	Shield      int
	MaxShield   int
	Reveal      int
	ShieldFlash int
	Alive       bool

	Projectile Projectile
	Pod        EscapePod
	Explosion  Explosion

	// AI is nil for the player-controlled ship
	AI *Brain

	recharge bool
	wrecked  bool // destruction side effects already applied
}

// Spawn (re)initializes the ship as kind at (x, y) with full stats
func (s *Ship) Spawn(kind ShipKind, def ShipClassDef, x, y int) {
	s.Kind = kind
	s.Box = Box{X: x, Y: y, W: def.Size, H: def.Size}
	s.Heading = 0
	s.Rotate = 0
	s.Thrusting = false
	s.Braking = false
	s.Firing = false
	s.Accel = 0
	s.VX, s.VY = 0, 0
	s.DriftX, s.DriftY = 0, 0

	s.Speed = def.Speed
	s.Damage = def.Damage
	s.Health = def.Health
	s.MaxShield = def.MaxShield
	s.Shield = def.MaxShield
	s.Reveal = 0
	s.ShieldFlash = 0
	s.Alive = true
	s.recharge = false
	s.wrecked = false

	s.Explosion.Reset()
	s.Pod.Clear()
	s.Projectile.Deactivate()
	if s.AI != nil {
		s.AI.reset(s)
	}
}

// Team returns the ship's side
func (s *Ship) Team() Team {
	return s.Kind.Team()
}

// Circle returns the ship's collision circle
func (s *Ship) Circle() Circle {
	cx, cy := s.Box.Center()
	return Circle{X: cx, Y: cy, R: s.Box.W / 2}
}

// Lifecycle returns where the ship is in the destroy/respawn cycle
func (s *Ship) Lifecycle() Lifecycle {
	switch {
	case s.Alive:
		return LifeAlive
	case s.Pod.Active():
		return LifePodActive
	}
	return LifeDestroyed
}

// Revealed reports whether enemies can currently see the ship
func (s *Ship) Revealed() bool {
	return s.Reveal > 0
}

// RechargeShield flags the ship to regain one shield point next frame
func (s *Ship) RechargeShield() {
	s.recharge = true
}

// Update advances the ship one frame: timers, steering, physics and firing
func (s *Ship) Update(w *World) {
	if !s.Alive {
		return
	}
	if s.Reveal > 0 {
		s.Reveal--
	}
	if s.ShieldFlash > 0 {
		s.ShieldFlash--
	}
	if s.Kind.IsMothership() {
		s.recharge = true
	}
	if s.recharge {
		if s.Shield < s.MaxShield {
			s.Shield++
		}
		s.recharge = false
	}

	if s.AI != nil {
		s.steerAI(w)
	} else {
		s.steerPlayer()
	}
	s.displace(w.cfg.LevelWidth, w.cfg.LevelHeight)
}

// steerPlayer applies the held controls
func (s *Ship) steerPlayer() {
	s.Heading = s.Heading.Turn(s.Rotate)

	if s.Thrusting && s.Accel < float64(s.Speed) {
		s.Accel++
	}
	lastX, lastY := s.Heading.Scaled(s.Accel)

	if s.Firing {
		s.fire()
	}
	if s.Braking {
		s.VX, s.VY = 0, 0
		s.DriftX -= s.DriftX / brakeDivisor
		s.DriftY -= s.DriftY / brakeDivisor
	}
	if s.Thrusting {
		s.VX, s.VY = lastX, lastY
		s.DriftX = approachZero(s.DriftX, thrustDriftCancel)
		s.DriftY = approachZero(s.DriftY, thrustDriftCancel)
	} else {
		s.DriftX = approachZero(s.DriftX, driftDecay)
		s.DriftY = approachZero(s.DriftY, driftDecay)
	}
}

// fire launches the ship's projectile from its centre if the slot is free
func (s *Ship) fire() bool {
	cx, cy := s.Box.Center()
	return s.Projectile.Shoot(cx, cy, s.Heading)
}

// displace moves the box by velocity plus truncated drift. Each axis is
// dropped entirely if it would push the box outside the level.
func (s *Ship) displace(levelW, levelH int) {
	dx := s.VX + int(s.DriftX)
	if nx := s.Box.X + dx; nx >= 0 && nx+s.Box.W <= levelW {
		s.Box.X = nx
	}
	dy := s.VY + int(s.DriftY)
	if ny := s.Box.Y + dy; ny >= 0 && ny+s.Box.H <= levelH {
		s.Box.Y = ny
	}
}

// Hurt applies damage through the shield first. It always flashes the shield
// and reveals the ship. Returns true if this hit destroyed the ship.
func (s *Ship) Hurt(amount int) bool {
	if !s.Alive {
		return false
	}
	s.ShieldFlash = ShieldFlashFrames
	switch {
	case s.Shield > amount:
		s.Shield -= amount
	case s.Shield > 0:
		rest := amount - s.Shield
		s.Shield = 0
		if rest > 0 && rest >= s.Health {
			s.Destroy()
		} else {
			s.Health -= rest
		}
	default:
		if s.Health > amount {
			s.Health -= amount
		} else {
			s.Destroy()
		}
	}
	s.Reveal = RevealFrames
	return !s.Alive
}

// Destroy zeroes the ship's health and motion and drops its shot in flight.
// Wreck effects (explosion, pod) are applied by the world at the end of the tick.
func (s *Ship) Destroy() {
	s.Alive = false
	s.Health = 0
	s.Shield = 0
	s.Thrusting = false
	s.Braking = false
	s.Firing = false
	s.Rotate = 0
	s.Accel = 0
	s.VX, s.VY = 0, 0
	s.DriftX, s.DriftY = 0, 0
	s.Projectile.Deactivate()
}

// ToState converts to protocol state
func (s *Ship) ToState() ShipState {
	st := ShipState{
		Slot:      s.Slot,
		Kind:      int(s.Kind),
		X:         s.Box.X,
		Y:         s.Box.Y,
		Size:      s.Box.W,
		Heading:   int(s.Heading),
		Thrust:    s.Thrusting,
		Health:    s.Health,
		Shield:    s.Shield,
		MaxShield: s.MaxShield,
		Flash:     s.ShieldFlash > 0 && s.Shield > 0,
		Revealed:  s.Revealed(),
		State:     s.Lifecycle().String(),
	}
	if s.AI != nil {
		st.AI = s.AI.Personality.Name()
	}
	return st
}
