package main

import "math"

// Circle is an integer circle used for proximity and overlap checks
type Circle struct {
	X, Y int
	R    int
}

// Box is an axis-aligned rectangle anchored at its top-left corner
type Box struct {
	X, Y int
	W, H int
}

// Center returns the centre point of the box
func (b Box) Center() (int, int) {
	return b.X + b.W/2, b.Y + b.H/2
}

// Distance returns the euclidean distance between two points
func Distance(x1, y1, x2, y2 int) float64 {
	dx := float64(x2 - x1)
	dy := float64(y2 - y1)
	return math.Sqrt(dx*dx + dy*dy)
}

// GetDistance returns the euclidean distance between two circle centres, truncated
func GetDistance(a, b Circle) int {
	return int(Distance(a.X, a.Y, b.X, b.Y))
}

// Manhattan returns |dx| + |dy| between two circle centres.
// Steering and docking use this metric rather than the euclidean one.
func Manhattan(a, b Circle) int {
	return absInt(a.X-b.X) + absInt(a.Y-b.Y)
}

// CheckCollision reports whether two circles overlap (touching does not count)
func CheckCollision(a, b Circle) bool {
	return Distance(a.X, a.Y, b.X, b.Y) < float64(a.R+b.R)
}

// BoxCollision reports whether two boxes overlap. Shared edges do not count.
func BoxCollision(a, b Box) bool {
	if a.Y+a.H <= b.Y {
		return false
	}
	if a.Y >= b.Y+b.H {
		return false
	}
	if a.X+a.W <= b.X {
		return false
	}
	if a.X >= b.X+b.W {
		return false
	}
	return true
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
