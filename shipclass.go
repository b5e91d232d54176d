package main

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed ships.yaml
var defaultTables []byte

// Team identifies a side. TeamNone marks unowned planets.
type Team int

const (
	TeamNone Team = 0
	TeamA    Team = 1
	TeamB    Team = 2
)

// Opponent returns the other team
func (t Team) Opponent() Team {
	switch t {
	case TeamA:
		return TeamB
	case TeamB:
		return TeamA
	}
	return TeamNone
}

func (t Team) String() string {
	switch t {
	case TeamA:
		return "A"
	case TeamB:
		return "B"
	}
	return "none"
}

// ShipClass is the size class shared by both teams
type ShipClass int

const (
	ClassLight ShipClass = iota
	ClassHeavy
	ClassMothership
)

var classNames = [...]string{"light", "heavy", "mothership"}

func (c ShipClass) String() string {
	if c < 0 || int(c) >= len(classNames) {
		return "unknown"
	}
	return classNames[c]
}

// ShipKind is the concrete ship variant: a class on a team
type ShipKind int

const (
	LightA ShipKind = iota
	HeavyA
	MotherA
	LightB
	HeavyB
	MotherB
)

// KindFor returns the kind of the given class on the given team
func KindFor(team Team, class ShipClass) ShipKind {
	if team == TeamB {
		return ShipKind(int(class) + 3)
	}
	return ShipKind(class)
}

// Team returns the side the kind fights for
func (k ShipKind) Team() Team {
	if k < 3 {
		return TeamA
	}
	return TeamB
}

// Class returns the size class of the kind
func (k ShipKind) Class() ShipClass {
	return ShipClass(int(k) % 3)
}

// IsMothership reports whether the kind is one of the two motherships
func (k ShipKind) IsMothership() bool {
	return k.Class() == ClassMothership
}

func (k ShipKind) String() string {
	return k.Class().String() + "-" + k.Team().String()
}

// Valid reports whether k names one of the six variants
func (k ShipKind) Valid() bool {
	return k >= LightA && k <= MotherB
}

// ShipClassDef holds the stats for a ship class
type ShipClassDef struct {
	Size            int  `yaml:"size"`
	Speed           int  `yaml:"speed"`
	Health          int  `yaml:"health"`
	MaxShield       int  `yaml:"maxShield"`
	Damage          int  `yaml:"damage"`
	ScaleWithRoster bool `yaml:"scaleWithRoster"`
}

// PlanetTypeDef holds the geometry and capture cap of a planet type
type PlanetTypeDef struct {
	Width       int `yaml:"width"`
	Height      int `yaml:"height"`
	CaptureTime int `yaml:"captureTime"`
}

// Tables is the static data the simulation is parameterized by
type Tables struct {
	Classes map[string]ShipClassDef `yaml:"classes"`
	Planets []PlanetTypeDef         `yaml:"planets"`

	byClass [3]ShipClassDef
}

// LoadTables parses the ship/planet table at path, or the embedded default when path is empty
func LoadTables(path string) (*Tables, error) {
	data := defaultTables
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read ship table: %w", err)
		}
		data = b
	}
	return ParseTables(data)
}

// ParseTables decodes and validates a YAML table
func ParseTables(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse ship table: %w", err)
	}
	for i, name := range classNames {
		def, ok := t.Classes[name]
		if !ok {
			return nil, fmt.Errorf("ship table: missing class %q", name)
		}
		if def.Size <= 0 || def.Speed <= 0 || def.Health <= 0 || def.MaxShield < 0 || def.Damage < 0 {
			return nil, fmt.Errorf("ship table: class %q has non-positive stats", name)
		}
		t.byClass[i] = def
	}
	if len(t.Planets) == 0 {
		return nil, fmt.Errorf("ship table: no planet types")
	}
	for i, p := range t.Planets {
		if p.Width <= 0 || p.Height <= 0 || p.CaptureTime <= 0 {
			return nil, fmt.Errorf("ship table: planet type %d has non-positive values", i)
		}
	}
	return &t, nil
}

// Def returns the stats for a kind with roster scaling applied
func (t *Tables) Def(kind ShipKind, rosterSize int) ShipClassDef {
	def := t.byClass[kind.Class()]
	if def.ScaleWithRoster {
		mul := rosterSize / 10
		if mul < 1 {
			mul = 1
		}
		def.Health *= mul
		def.MaxShield *= mul
	}
	return def
}

// PlanetType returns the definition for a planet type index
func (t *Tables) PlanetType(i int) PlanetTypeDef {
	if i < 0 || i >= len(t.Planets) {
		return t.Planets[0]
	}
	return t.Planets[i]
}
