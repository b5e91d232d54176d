package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckCollision(t *testing.T) {
	tests := []struct {
		name string
		a, b Circle
		want bool
	}{
		{"overlapping", Circle{0, 0, 10}, Circle{15, 0, 10}, true},
		{"touching", Circle{0, 0, 10}, Circle{20, 0, 10}, false},
		{"apart", Circle{0, 0, 10}, Circle{25, 0, 10}, false},
		{"same position", Circle{5, 5, 1}, Circle{5, 5, 1}, true},
		{"diagonal", Circle{0, 0, 10}, Circle{10, 10, 5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckCollision(tt.a, tt.b))
			assert.Equal(t, tt.want, CheckCollision(tt.b, tt.a))
		})
	}
}

func TestBoxCollision(t *testing.T) {
	a := Box{X: 0, Y: 0, W: 10, H: 10}

	assert.True(t, BoxCollision(a, Box{X: 5, Y: 5, W: 10, H: 10}))
	assert.True(t, BoxCollision(a, Box{X: 2, Y: 2, W: 2, H: 2}), "contained")
	assert.False(t, BoxCollision(a, Box{X: 10, Y: 0, W: 10, H: 10}), "shared vertical edge")
	assert.False(t, BoxCollision(a, Box{X: 0, Y: 10, W: 10, H: 10}), "shared horizontal edge")
	assert.False(t, BoxCollision(a, Box{X: 50, Y: 50, W: 10, H: 10}))
}

func TestDistances(t *testing.T) {
	a := Circle{X: 0, Y: 0}
	b := Circle{X: 3, Y: -4}

	assert.InDelta(t, 5.0, Distance(0, 0, 3, 4), 0.001)
	assert.Equal(t, 5, GetDistance(a, b))
	assert.Equal(t, 7, Manhattan(a, b))
	assert.Equal(t, 7, Manhattan(b, a))
}

func TestBoxCenter(t *testing.T) {
	x, y := Box{X: 100, Y: 200, W: 110, H: 50}.Center()
	assert.Equal(t, 155, x)
	assert.Equal(t, 225, y)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5, Clamp(5, 0, 10))
	assert.Equal(t, 0, Clamp(-5, 0, 10))
	assert.Equal(t, 10, Clamp(15, 0, 10))
}

func TestApproachZero(t *testing.T) {
	assert.InDelta(t, 0.8, approachZero(1.0, 0.2), 1e-9)
	assert.InDelta(t, -0.8, approachZero(-1.0, 0.2), 1e-9)
	assert.Equal(t, 0.0, approachZero(0.1, 0.2), "does not cross zero")
	assert.Equal(t, 0.0, approachZero(-0.1, 0.2))
	assert.Equal(t, 0.0, approachZero(0, 0.2))
}

func TestGenerateIDLength(t *testing.T) {
	id := GenerateID(8)
	assert.Len(t, id, 16)
	assert.NotEqual(t, id, GenerateID(8))
}
