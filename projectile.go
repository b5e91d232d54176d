package main

const (
	ProjectileSize     = 20
	ProjectileAim      = 30 // heading vector scale before the speed multiplier
	ProjectileSpeedMul = 3
	ProjectileMaxRange = 5 // frames in flight
)

// Projectile is the single shot slot owned by a ship. It is never freed, only
// re-armed by Shoot once the previous shot has gone inactive.
type Projectile struct {
	Box      Box
	VX, VY   int
	Distance int
	Active   bool
}

// Shoot launches the projectile from (x, y) along heading h.
// Returns false without touching the slot if a shot is already in flight.
func (p *Projectile) Shoot(x, y int, h Heading) bool {
	if p.Active {
		return false
	}
	vx, vy := h.Scaled(ProjectileAim)
	p.Box = Box{X: x, Y: y, W: ProjectileSize, H: ProjectileSize}
	p.VX = vx * ProjectileSpeedMul
	p.VY = vy * ProjectileSpeedMul
	p.Distance = 0
	p.Active = true
	return true
}

// Update moves the projectile one frame
func (p *Projectile) Update() {
	if !p.Active {
		return
	}
	p.Box.X += p.VX
	p.Box.Y += p.VY
	p.Distance++
	if p.Distance >= ProjectileMaxRange {
		p.Active = false
	}
}

// Deactivate stops the projectile after an impact
func (p *Projectile) Deactivate() {
	p.Active = false
	p.VX = 0
	p.VY = 0
}

// ToState converts to protocol state
func (p *Projectile) ToState(owner int) ProjectileState {
	return ProjectileState{
		Owner: owner,
		X:     p.Box.X,
		Y:     p.Box.Y,
		VX:    p.VX,
		VY:    p.VY,
	}
}
