package main

const (
	StarSize     = 2
	starMaxSpeed = 40
	starMinFast  = 25
)

// ShootingStar is a background decoration that bounces around the level
type ShootingStar struct {
	Box    Box
	VX, VY int
}

// NewShootingStar places a star at random. At least one axis moves at
// starMinFast or more so every star visibly streaks.
func NewShootingStar(rng Rand, levelW, levelH int) ShootingStar {
	s := ShootingStar{
		Box: Box{X: randRange(rng, levelW-StarSize+1), Y: randRange(rng, levelH-StarSize+1), W: StarSize, H: StarSize},
	}
	s.VX = rng.Intn(starMaxSpeed)
	if s.VX < starMinFast {
		s.VY = starMinFast + rng.Intn(starMaxSpeed-starMinFast)
	} else {
		s.VY = rng.Intn(starMaxSpeed)
	}
	return s
}

// Update moves the star, reflecting off the level edges
func (s *ShootingStar) Update(levelW, levelH int) {
	if s.Box.X+s.VX < 0 || s.Box.X+s.VX+s.Box.W > levelW {
		s.VX = -s.VX
	}
	s.Box.X += s.VX
	if s.Box.Y+s.VY < 0 || s.Box.Y+s.VY+s.Box.H > levelH {
		s.VY = -s.VY
	}
	s.Box.Y += s.VY
}
