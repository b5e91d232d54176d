package main

import (
	"fmt"
	"strings"
)

// MatchPhase represents the lifecycle of a match
type MatchPhase int

const (
	PhasePlaying MatchPhase = 0
	PhaseResult  MatchPhase = 1
)

func (p MatchPhase) String() string {
	if p == PhaseResult {
		return "result"
	}
	return "playing"
}

const (
	DefaultShips       = 10
	DefaultPlanets     = 12
	DefaultStars       = 25
	DefaultLevelWidth  = 15000
	DefaultLevelHeight = 14990

	PlanetSeparation     = 1200  // minimum distance between planet centres
	PlanetMargin         = 800   // planets are placed in [0, level-margin)
	MothershipSeparation = 10000 // minimum distance between mothership centres
	placementAttempts    = 1000
)

// MatchConfig holds the roster and level settings for a match
type MatchConfig struct {
	Ships       int
	Planets     int
	Stars       int
	LevelWidth  int
	LevelHeight int
	PlayerKind  ShipKind
	Autopilot   bool // the local ship is flown by the AI
}

// DefaultMatchConfig returns the quick-start match
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		Ships:       DefaultShips,
		Planets:     DefaultPlanets,
		Stars:       DefaultStars,
		LevelWidth:  DefaultLevelWidth,
		LevelHeight: DefaultLevelHeight,
		PlayerKind:  LightA,
	}
}

// Validate checks that a world can be built from the config
func (c MatchConfig) Validate() error {
	if c.Ships < 3 {
		return fmt.Errorf("match needs at least 3 ships, got %d", c.Ships)
	}
	if c.Planets < 1 {
		return fmt.Errorf("match needs at least 1 planet, got %d", c.Planets)
	}
	if c.Stars < 0 {
		return fmt.Errorf("negative star count %d", c.Stars)
	}
	if c.LevelWidth <= PlanetMargin || c.LevelHeight <= PlanetMargin {
		return fmt.Errorf("level %dx%d is too small", c.LevelWidth, c.LevelHeight)
	}
	if !c.PlayerKind.Valid() || c.PlayerKind.IsMothership() {
		return fmt.Errorf("player kind %s must be a light or heavy ship", c.PlayerKind)
	}
	return nil
}

// ParseShipKind maps names like "light-a" or "heavy-b" to a kind
func ParseShipKind(name string) (ShipKind, error) {
	for k := LightA; k <= MotherB; k++ {
		if strings.EqualFold(k.String(), name) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown ship kind %q", name)
}

// TallyOwners counts planets owned by each team
func TallyOwners(planets []Planet) (a, b int) {
	for i := range planets {
		switch planets[i].Owner {
		case TeamA:
			a++
		case TeamB:
			b++
		}
	}
	return a, b
}

// WinnerOf returns the team owning every planet, or TeamNone
func WinnerOf(planets []Planet) Team {
	if len(planets) == 0 {
		return TeamNone
	}
	a, b := TallyOwners(planets)
	switch {
	case a >= len(planets):
		return TeamA
	case b >= len(planets):
		return TeamB
	}
	return TeamNone
}

// TeamStats tracks per-team totals for a match
type TeamStats struct {
	Kills    int `json:"kills"`
	Losses   int `json:"losses"`
	Captures int `json:"captures"`
	Respawns int `json:"respawns"`
}

// MatchStats accumulates the event stream of one match
type MatchStats struct {
	Phase  MatchPhase
	Winner Team
	Frames uint64
	Teams  [3]TeamStats
}

// Record folds one simulation event into the totals
func (ms *MatchStats) Record(ev Event) {
	if ev.Frame > ms.Frames {
		ms.Frames = ev.Frame
	}
	switch ev.Kind {
	case EventKill:
		ms.Teams[ev.Team].Kills++
	case EventDestroyed:
		ms.Teams[ev.Team].Losses++
	case EventCapture:
		ms.Teams[ev.Team].Captures++
	case EventRespawn:
		ms.Teams[ev.Team].Respawns++
	case EventWin:
		ms.Phase = PhaseResult
		ms.Winner = ev.Team
	}
}
