package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectileShoot(t *testing.T) {
	var p Projectile
	require.True(t, p.Shoot(100, 200, 4))
	assert.True(t, p.Active)
	assert.Equal(t, Box{X: 100, Y: 200, W: ProjectileSize, H: ProjectileSize}, p.Box)
	assert.Equal(t, ProjectileAim*ProjectileSpeedMul, p.VX)
	assert.Equal(t, 0, p.VY)

	assert.False(t, p.Shoot(0, 0, 8), "only one shot in flight")
	assert.Equal(t, 100, p.Box.X)
}

func TestProjectileUpdate(t *testing.T) {
	var p Projectile
	p.Shoot(100, 200, 8)
	p.Update()
	assert.Equal(t, 100, p.Box.X)
	assert.Equal(t, 200+ProjectileAim*ProjectileSpeedMul, p.Box.Y)
	assert.Equal(t, 1, p.Distance)
}

func TestProjectileExpiry(t *testing.T) {
	var p Projectile
	p.Shoot(0, 0, 4)
	for i := 0; i < ProjectileMaxRange-1; i++ {
		p.Update()
		require.True(t, p.Active, "frame %d", i)
	}
	p.Update()
	assert.False(t, p.Active)

	assert.True(t, p.Shoot(0, 0, 4), "slot re-arms after expiry")
}

func TestProjectileDeactivate(t *testing.T) {
	var p Projectile
	p.Shoot(0, 0, 4)
	p.Deactivate()
	assert.False(t, p.Active)
	assert.Zero(t, p.VX)

	x := p.Box.X
	p.Update()
	assert.Equal(t, x, p.Box.X, "inactive projectiles do not move")
}

func TestProjectileToState(t *testing.T) {
	var p Projectile
	p.Shoot(10, 20, 4)
	st := p.ToState(7)
	assert.Equal(t, 7, st.Owner)
	assert.Equal(t, 10, st.X)
	assert.Equal(t, p.VX, st.VX)
}
