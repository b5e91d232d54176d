package main

import "math"

const (
	HeadingSteps = 16
	headingStep  = 2 * math.Pi / HeadingSteps

	// bin width used when quantizing steering angles
	headingBin float32 = 0.392697
)

// Heading is one of 16 discrete compass directions. 0 points up (negative y),
// 4 right, 8 down, 12 left.
type Heading int

// Turn rotates the heading one step in dir (-1 or +1), wrapping at both ends
func (h Heading) Turn(dir int) Heading {
	switch {
	case dir < 0:
		if h-1 > -1 {
			return h - 1
		}
		return HeadingSteps - 1
	case dir > 0:
		if h+1 < HeadingSteps {
			return h + 1
		}
		return 0
	}
	return h
}

// Vector returns the unit direction for the heading
func (h Heading) Vector() (float64, float64) {
	rad := headingStep * float64(int(h)-4)
	return math.Cos(rad), math.Sin(rad)
}

// Scaled returns the heading direction multiplied by mag, truncated to whole units
func (h Heading) Scaled(mag float64) (int, int) {
	cx, cy := h.Vector()
	return int(cx * mag), int(cy * mag)
}

// TurnToward steps current one notch toward desired. The direction is picked by
// plain index comparison, so it never turns through the 15/0 seam.
func TurnToward(current, desired Heading) Heading {
	if current == desired {
		return current
	}
	if current < desired {
		return current.Turn(1)
	}
	return current.Turn(-1)
}

// SetAngle computes the heading that points from one toward two.
// Exact cardinal alignments are resolved first. Everything else takes
// atan(|dx|/|dy|) plus a per-quadrant offset and is quantized into 16 bins.
// The down-right quadrant adds 90 degrees to the raw angle, which mirrors it
// about the diagonal; steering relies on that exact table.
func SetAngle(one, two Circle, current Heading) Heading {
	switch {
	case one.X == two.X && one.Y == two.Y:
		return current
	case one.X == two.X && one.Y > two.Y:
		return 0
	case one.X < two.X && one.Y == two.Y:
		return 4
	case one.X == two.X && one.Y < two.Y:
		return 8
	case one.X > two.X && one.Y == two.Y:
		return 12
	}

	x := absInt(two.X - one.X)
	y := absInt(two.Y - one.Y)
	radians := float32(math.Atan(float64(float32(x) / float32(y))))

	switch {
	case one.X < two.X && one.Y > two.Y:
		// up-right: as is
	case one.X < two.X && one.Y < two.Y:
		radians += 1.57079633
	case one.X > two.X && one.Y < two.Y:
		radians += 3.14159265
	case one.X > two.X && one.Y > two.Y:
		radians = 6.28318531 - radians
	}

	return Heading(int(radians/headingBin) % HeadingSteps)
}
