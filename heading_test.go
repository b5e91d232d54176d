package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeadingTurnWraps(t *testing.T) {
	assert.Equal(t, Heading(15), Heading(0).Turn(-1))
	assert.Equal(t, Heading(0), Heading(15).Turn(1))
	assert.Equal(t, Heading(6), Heading(5).Turn(1))
	assert.Equal(t, Heading(4), Heading(5).Turn(-1))
	assert.Equal(t, Heading(7), Heading(7).Turn(0))
}

func TestHeadingVector(t *testing.T) {
	tests := []struct {
		h      Heading
		dx, dy float64
	}{
		{0, 0, -1},
		{4, 1, 0},
		{8, 0, 1},
		{12, -1, 0},
	}
	for _, tt := range tests {
		x, y := tt.h.Vector()
		assert.InDelta(t, tt.dx, x, 1e-9, "heading %d", tt.h)
		assert.InDelta(t, tt.dy, y, 1e-9, "heading %d", tt.h)
	}

	dx, dy := Heading(4).Scaled(ProjectileAim)
	assert.Equal(t, ProjectileAim, dx)
	assert.Equal(t, 0, dy)
}

func TestSetAngleCardinals(t *testing.T) {
	origin := Circle{X: 1000, Y: 1000}
	tests := []struct {
		name string
		to   Circle
		want Heading
	}{
		{"up", Circle{X: 1000, Y: 500}, 0},
		{"right", Circle{X: 1500, Y: 1000}, 4},
		{"down", Circle{X: 1000, Y: 1500}, 8},
		{"left", Circle{X: 500, Y: 1000}, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SetAngle(origin, tt.to, 9))
		})
	}
}

func TestSetAngleSamePointKeepsCurrent(t *testing.T) {
	c := Circle{X: 10, Y: 10}
	assert.Equal(t, Heading(11), SetAngle(c, c, 11))
}

func TestSetAngleDiagonals(t *testing.T) {
	origin := Circle{X: 0, Y: 0}

	assert.Equal(t, Heading(2), SetAngle(origin, Circle{X: 10, Y: -10}, 0), "up-right")
	assert.Equal(t, Heading(6), SetAngle(origin, Circle{X: 10, Y: 10}, 0), "down-right")
	assert.Equal(t, Heading(10), SetAngle(origin, Circle{X: -10, Y: 10}, 0), "down-left")
	assert.Equal(t, Heading(14), SetAngle(origin, Circle{X: -10, Y: -10}, 0), "up-left")
}

func TestSetAngleDownRightIsMirrored(t *testing.T) {
	// mostly right and slightly down lands near "down"
	assert.Equal(t, Heading(7), SetAngle(Circle{}, Circle{X: 10, Y: 1}, 0))
}

func TestTurnTowardNeverCrossesSeam(t *testing.T) {
	assert.Equal(t, Heading(4), TurnToward(3, 5))
	assert.Equal(t, Heading(4), TurnToward(5, 3))
	assert.Equal(t, Heading(9), TurnToward(9, 9))
	// 15 toward 0 goes the long way round
	assert.Equal(t, Heading(14), TurnToward(15, 0))
	assert.Equal(t, Heading(1), TurnToward(0, 15))
}
