package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPodHomesAndDocks(t *testing.T) {
	var p EscapePod
	p.Spawn(5000, 6000)
	require.True(t, p.Active())

	home := Circle{X: 5000, Y: 5000, R: 235}
	frames := 0
	for ; frames < 100; frames++ {
		if p.Update(home) {
			break
		}
	}
	// 1000 units at 60 per frame, docking inside 70
	assert.Equal(t, 15, frames)
	assert.False(t, p.Active())
	assert.Equal(t, Heading(0), p.Heading)
}

func TestPodTurnsGradually(t *testing.T) {
	var p EscapePod
	p.Spawn(0, 0)
	p.Update(Circle{X: 5000, Y: 0})
	assert.Equal(t, Heading(4), p.Desired)
	assert.Equal(t, Heading(1), p.Heading, "one notch per frame")
}

func TestInactivePodDoesNothing(t *testing.T) {
	var p EscapePod
	assert.False(t, p.Update(Circle{}))

	p.Spawn(10, 10)
	p.Destroy()
	assert.False(t, p.Active())
	assert.False(t, p.Update(Circle{X: 10, Y: 10}))

	p.Clear()
	assert.Equal(t, EscapePod{}, p)
}
