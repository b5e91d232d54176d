package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlanet() Planet {
	return NewPlanet(0, PlanetTypeDef{Width: 366, Height: 366, CaptureTime: 900}, 1000, 2000)
}

func TestPlanetCircleIsCentred(t *testing.T) {
	p := testPlanet()
	c := p.Circle()
	assert.Equal(t, 1183, c.X)
	assert.Equal(t, 2183, c.Y)
	assert.Equal(t, 183, c.R)
}

func TestPlanetCaptureMonotonic(t *testing.T) {
	p := testPlanet()
	prev := 0
	for i := 0; i < 17; i++ {
		p.Capture(50, TeamA)
		require.Greater(t, p.ProgressA, prev)
		prev = p.ProgressA
		assert.Equal(t, TeamNone, p.Owner)
	}
	p.Capture(50, TeamA)
	assert.Equal(t, 900, p.ProgressA)
	assert.Equal(t, TeamA, p.Owner)

	p.Capture(50, TeamA)
	assert.Equal(t, 900, p.ProgressA, "progress is capped")
}

func TestPlanetContestedDrain(t *testing.T) {
	p := testPlanet()
	p.ProgressA = 500

	p.Capture(100, TeamB)
	assert.Equal(t, 100, p.ProgressB)
	assert.Equal(t, 400, p.ProgressA)

	p.ProgressA = 30
	p.Capture(100, TeamB)
	assert.Equal(t, 0, p.ProgressA, "drain stops at zero")
}

func TestPlanetOwnerFlip(t *testing.T) {
	p := testPlanet()
	p.ProgressA = 900
	p.Owner = TeamA

	p.Capture(50, TeamB)
	assert.Equal(t, TeamA, p.Owner, "owner holds until the opponent fills up")
	assert.Equal(t, 850, p.ProgressA)

	for i := 0; i < 17; i++ {
		p.Capture(50, TeamB)
	}
	assert.Equal(t, 900, p.ProgressB)
	assert.Equal(t, 0, p.ProgressA)
	assert.Equal(t, TeamB, p.Owner)
}

func TestPlanetCaptureIgnoresNoise(t *testing.T) {
	p := testPlanet()
	p.Capture(0, TeamA)
	p.Capture(-5, TeamA)
	p.Capture(50, TeamNone)
	assert.Zero(t, p.ProgressA)
	assert.Zero(t, p.ProgressB)
	assert.Zero(t, p.Progress(TeamNone))
}

func TestPlanetToState(t *testing.T) {
	p := testPlanet()
	p.Capture(10, TeamB)
	st := p.ToState(3)
	assert.Equal(t, 3, st.Index)
	assert.Equal(t, 10, st.ProgressB)
	assert.Equal(t, 900, st.Cap)
	assert.Equal(t, int(TeamNone), st.Owner)
}
