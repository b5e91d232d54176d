package main

import "sort"

// Roster slots of the two motherships
const (
	SlotLocal   = 0
	SlotMotherA = 1
	SlotMotherB = 2
)

// EventKind names a notable simulation outcome
type EventKind string

const (
	EventKill      EventKind = "kill"      // Slot destroyed Other
	EventDestroyed EventKind = "destroyed" // Slot was destroyed
	EventCapture   EventKind = "capture"   // Team took Planet
	EventDocked    EventKind = "docked"    // Slot's pod reached its mothership
	EventRespawn   EventKind = "respawn"   // Slot is flying again
	EventWin       EventKind = "win"       // Team owns every planet
)

// Event is emitted by Tick so the shell can log, broadcast and record outcomes
type Event struct {
	Kind   EventKind `json:"kind" msgpack:"kind"`
	Frame  uint64    `json:"frame" msgpack:"frame"`
	Slot   int       `json:"slot" msgpack:"slot"`
	Other  int       `json:"other" msgpack:"other"`
	Team   Team      `json:"team" msgpack:"team"`
	Planet int       `json:"planet" msgpack:"planet"`
}

// World is the simulation context: every entity of one match plus the
// random source and level bounds. It is not safe for concurrent use.
type World struct {
	cfg    MatchConfig
	tables *Tables
	rng    Rand

	Ships   []Ship
	Planets []Planet
	Stars   []ShootingStar

	Frame  uint64
	Winner Team

	grid   *SpatialGrid
	refs   []EntityRef
	events []Event
}

// NewWorld builds a match from cfg. The config must already be validated.
func NewWorld(cfg MatchConfig, tables *Tables, rng Rand) *World {
	w := &World{
		cfg:    cfg,
		tables: tables,
		rng:    rng,
		grid:   NewSpatialGrid(cfg.LevelWidth, cfg.LevelHeight),
	}
	w.Reset()
	return w
}

// Config returns the match settings
func (w *World) Config() MatchConfig {
	return w.cfg
}

// Local returns the locally controlled ship
func (w *World) Local() *Ship {
	return &w.Ships[SlotLocal]
}

// Mothership returns the mothership of team, or nil for TeamNone
func (w *World) Mothership(team Team) *Ship {
	switch team {
	case TeamA:
		return &w.Ships[SlotMotherA]
	case TeamB:
		return &w.Ships[SlotMotherB]
	}
	return nil
}

// Reset re-creates planets, stars and every ship with the match-start rules
func (w *World) Reset() {
	w.Frame = 0
	w.Winner = TeamNone
	w.events = w.events[:0]

	w.placePlanets()

	w.Stars = w.Stars[:0]
	for i := 0; i < w.cfg.Stars; i++ {
		w.Stars = append(w.Stars, NewShootingStar(w.rng, w.cfg.LevelWidth, w.cfg.LevelHeight))
	}

	n := w.cfg.Ships
	w.Ships = make([]Ship, n)
	kinds := w.rosterKinds()
	for i := range w.Ships {
		s := &w.Ships[i]
		s.Slot = i
		if i != SlotLocal || w.cfg.Autopilot {
			s.AI = NewBrain(kinds[i], w.rng)
		}
	}

	// motherships first so escorts can spawn next to them
	w.spawnShip(SlotMotherA, MotherA)
	w.spawnShip(SlotMotherB, MotherB)
	a, b := w.Ships[SlotMotherA].Circle(), w.Ships[SlotMotherB].Circle()
	for try := 0; try < placementAttempts && GetDistance(a, b) < MothershipSeparation; try++ {
		w.spawnShip(SlotMotherB, MotherB)
		b = w.Ships[SlotMotherB].Circle()
	}

	for i := range w.Ships {
		if i == SlotMotherA || i == SlotMotherB {
			continue
		}
		w.spawnShip(i, kinds[i])
	}
}

// rosterKinds lays out the teams: local ship, both motherships, then escorts
// filling team A up to half the roster and team B with the rest.
func (w *World) rosterKinds() []ShipKind {
	n := w.cfg.Ships
	kinds := make([]ShipKind, n)
	kinds[SlotLocal] = w.cfg.PlayerKind
	kinds[SlotMotherA] = MotherA
	kinds[SlotMotherB] = MotherB

	countA := 1
	if w.cfg.PlayerKind.Team() == TeamA {
		countA++
	}
	for i := 3; i < n; i++ {
		team := TeamB
		if countA < n/2 {
			team = TeamA
			countA++
		}
		kinds[i] = KindFor(team, ShipClass(w.rng.Intn(2)))
	}
	return kinds
}

func (w *World) placePlanets() {
	w.Planets = w.Planets[:0]
	maxX := w.cfg.LevelWidth - PlanetMargin
	maxY := w.cfg.LevelHeight - PlanetMargin
	for len(w.Planets) < w.cfg.Planets {
		typ := randRange(w.rng, len(w.tables.Planets))
		def := w.tables.PlanetType(typ)
		var p Planet
		for try := 0; try < placementAttempts; try++ {
			p = NewPlanet(typ, def, randRange(w.rng, maxX), randRange(w.rng, maxY))
			if w.planetClear(p) {
				break
			}
		}
		w.Planets = append(w.Planets, p)
	}
}

func (w *World) planetClear(p Planet) bool {
	c := p.Circle()
	for i := range w.Planets {
		if GetDistance(c, w.Planets[i].Circle()) < PlanetSeparation {
			return false
		}
	}
	return true
}

// spawnShip (re)creates slot as kind. Motherships are placed anywhere in the
// level; other ships inside the top-left quarter of their mothership.
func (w *World) spawnShip(slot int, kind ShipKind) {
	def := w.tables.Def(kind, len(w.Ships))
	var x, y int
	if kind.IsMothership() {
		x = randRange(w.rng, w.cfg.LevelWidth-def.Size+1)
		y = randRange(w.rng, w.cfg.LevelHeight-def.Size+1)
	} else {
		m := w.Mothership(kind.Team())
		x = m.Box.X + randRange(w.rng, m.Box.W/2)
		y = m.Box.Y + randRange(w.rng, m.Box.W/2)
	}
	w.Ships[slot].Spawn(kind, def, x, y)
}

// Respawn puts the destroyed local ship back in play as class. It only succeeds
// once the ship's pod has docked or been lost and its mothership is alive.
func (w *World) Respawn(class ShipClass) bool {
	s := w.Local()
	if class == ClassMothership || s.Lifecycle() != LifeDestroyed {
		return false
	}
	if m := w.Mothership(s.Team()); m == nil || !m.Alive {
		return false
	}
	w.spawnShip(SlotLocal, KindFor(s.Team(), class))
	w.emit(Event{Kind: EventRespawn, Slot: SlotLocal, Team: s.Team()})
	return true
}

func (w *World) emit(ev Event) {
	ev.Frame = w.Frame
	w.events = append(w.events, ev)
}

// Tick advances the match one frame. Input events apply to the local ship
// before anything moves. The returned events are valid until the next Tick.
func (w *World) Tick(inputs []InputEvent) []Event {
	w.Frame++
	w.events = w.events[:0]

	local := w.Local()
	for _, ev := range inputs {
		switch {
		case ev == InputRespawnLight:
			w.Respawn(ClassLight)
		case ev == InputRespawnHeavy:
			w.Respawn(ClassHeavy)
		case local.AI == nil:
			local.HandleInput(ev)
		}
	}

	for i := range w.Ships {
		w.Ships[i].Update(w)
	}
	for i := range w.Ships {
		if w.Ships[i].Alive {
			w.Ships[i].Projectile.Update()
		}
	}
	w.updatePods()
	for i := range w.Ships {
		w.Ships[i].Explosion.Update()
	}
	for i := range w.Stars {
		w.Stars[i].Update(w.cfg.LevelWidth, w.cfg.LevelHeight)
	}

	w.resolveCollisions()
	w.checkWin()
	w.resolveWrecks()
	return w.events
}

// updatePods homes every active pod. A pod whose mothership is gone is lost.
func (w *World) updatePods() {
	for i := range w.Ships {
		s := &w.Ships[i]
		if !s.Pod.Active() {
			continue
		}
		home := w.Mothership(s.Team())
		if home == nil || !home.Alive {
			s.Pod.Destroy()
			continue
		}
		if !s.Pod.Update(home.Circle()) {
			continue
		}
		w.emit(Event{Kind: EventDocked, Slot: i, Team: s.Team()})
		if s.AI != nil {
			w.spawnShip(i, s.Kind)
			w.emit(Event{Kind: EventRespawn, Slot: i, Team: s.Team()})
		}
	}
}

func (w *World) resolveCollisions() {
	w.grid.Clear()
	for i := range w.Ships {
		if w.Ships[i].Alive {
			w.grid.InsertBox(w.Ships[i].Box, EntityRef{Kind: 's', Idx: i})
		}
	}

	// ship-ship: only the own-mothership recharge effect, no bounce
	for i := range w.Ships {
		s := &w.Ships[i]
		if !s.Alive || s.Kind.IsMothership() {
			continue
		}
		m := w.Mothership(s.Team())
		if m.Alive && CheckCollision(s.Circle(), m.Circle()) {
			s.RechargeShield()
		}
	}

	// projectile-ship, candidates in roster order
	for i := range w.Ships {
		shooter := &w.Ships[i]
		if !shooter.Alive || !shooter.Projectile.Active {
			continue
		}
		for _, c := range w.shipsNear(shooter.Projectile.Box) {
			if c == i {
				continue
			}
			target := &w.Ships[c]
			if !target.Alive || !BoxCollision(shooter.Projectile.Box, target.Box) {
				continue
			}
			if target.Team() == shooter.Team() {
				continue
			}
			shooter.Projectile.Deactivate()
			if target.Hurt(shooter.Damage) {
				w.emit(Event{Kind: EventKill, Slot: i, Other: c, Team: shooter.Team()})
			}
			break
		}
	}

	// planet-ship capture
	for p := range w.Planets {
		planet := &w.Planets[p]
		for _, c := range w.shipsNear(planet.Box) {
			s := &w.Ships[c]
			if !s.Alive || !BoxCollision(planet.Box, s.Box) {
				continue
			}
			before := planet.Owner
			planet.Capture(s.Damage/2, s.Team())
			if planet.Owner != before {
				w.emit(Event{Kind: EventCapture, Slot: c, Team: planet.Owner, Planet: p})
			}
		}
	}
}

// shipsNear returns the distinct ship slots whose grid cells overlap b, sorted
func (w *World) shipsNear(b Box) []int {
	w.refs = w.grid.QueryBuf(b, w.refs[:0])
	out := make([]int, 0, len(w.refs))
	for _, r := range w.refs {
		if r.Kind == 's' {
			out = append(out, r.Idx)
		}
	}
	sort.Ints(out)
	j := 0
	for i, v := range out {
		if i == 0 || v != out[j-1] {
			out[j] = v
			j++
		}
	}
	return out[:j]
}

// checkWin declares a team that owns every planet the winner. The winner
// stays latched when ownership later splits, and changes (with a new win
// event) if the other side takes every planet. While a team owns every
// planet, a local ship on the losing side is destroyed.
func (w *World) checkWin() {
	team := WinnerOf(w.Planets)
	if team == TeamNone {
		return
	}
	if w.Winner != team {
		w.Winner = team
		w.emit(Event{Kind: EventWin, Team: team})
	}
	if local := w.Local(); local.Alive && local.Team() != team {
		local.Destroy()
	}
}

// resolveWrecks applies the one-time effects of ships destroyed this tick
func (w *World) resolveWrecks() {
	for i := range w.Ships {
		s := &w.Ships[i]
		if s.Alive || s.wrecked {
			continue
		}
		s.wrecked = true
		s.Explosion.Start(s.Box.X, s.Box.Y, s.Kind.Class())
		w.emit(Event{Kind: EventDestroyed, Slot: i, Team: s.Team()})
		if s.Kind.IsMothership() {
			continue
		}
		if m := w.Mothership(s.Team()); m != nil && m.Alive {
			c := s.Circle()
			s.Pod.Spawn(c.X, c.Y)
		}
	}
}

// NearestPlanet returns the closest planet not owned by s's team, or -1
func (w *World) NearestPlanet(s *Ship) int {
	from := s.Circle()
	best, bestDist := -1, 0
	for i := range w.Planets {
		if w.Planets[i].Owner == s.Team() {
			continue
		}
		d := Manhattan(from, w.Planets[i].Circle())
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// NearestRevealedEnemy returns the closest live enemy currently revealed, or -1
func (w *World) NearestRevealedEnemy(s *Ship) int {
	return w.nearestEnemy(s, func(e *Ship, _ int) bool { return e.Revealed() })
}

// EnemyInRange returns the closest live enemy within EngageRange, or -1
func (w *World) EnemyInRange(s *Ship) int {
	return w.nearestEnemy(s, func(_ *Ship, d int) bool { return d < EngageRange })
}

func (w *World) nearestEnemy(s *Ship, keep func(e *Ship, dist int) bool) int {
	from := s.Circle()
	best, bestDist := -1, 0
	for i := range w.Ships {
		e := &w.Ships[i]
		if !e.Alive || e.Team() == s.Team() {
			continue
		}
		d := Manhattan(from, e.Circle())
		if !keep(e, d) {
			continue
		}
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// OverPlanet reports whether s is within the capture radius of any planet
func (w *World) OverPlanet(s *Ship) bool {
	from := s.Circle()
	for i := range w.Planets {
		c := w.Planets[i].Circle()
		if Manhattan(from, c) <= c.R {
			return true
		}
	}
	return false
}

// Snapshot copies the renderable state of the current frame
func (w *World) Snapshot() Snapshot {
	snap := Snapshot{
		Frame:       w.Frame,
		Winner:      int(w.Winner),
		Local:       SlotLocal,
		Ships:       make([]ShipState, 0, len(w.Ships)),
		Projectiles: make([]ProjectileState, 0, len(w.Ships)),
		Planets:     make([]PlanetState, 0, len(w.Planets)),
		Stars:       make([]StarState, 0, len(w.Stars)),
	}
	for i := range w.Ships {
		s := &w.Ships[i]
		snap.Ships = append(snap.Ships, s.ToState())
		if s.Projectile.Active {
			snap.Projectiles = append(snap.Projectiles, s.Projectile.ToState(i))
		}
		if s.Pod.Active() {
			snap.Pods = append(snap.Pods, s.Pod.ToState(i))
		}
		if s.Explosion.Active {
			snap.Explosions = append(snap.Explosions, s.Explosion.ToState(i))
		}
	}
	for i := range w.Planets {
		snap.Planets = append(snap.Planets, w.Planets[i].ToState(i))
	}
	for i := range w.Stars {
		snap.Stars = append(snap.Stars, StarState{X: w.Stars[i].Box.X, Y: w.Stars[i].Box.Y})
	}
	return snap
}
