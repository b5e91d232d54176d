package main

import (
	"crypto/rand"
	"encoding/hex"
)

// Rand is the random source consumed by spawning and AI.
// *math/rand.Rand satisfies it; tests inject seeded sources.
type Rand interface {
	Intn(n int) int
}

// GenerateID returns a random hex string of the given byte length
func GenerateID(byteLen int) string {
	b := make([]byte, byteLen)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Clamp restricts v to [min, max]
func Clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// approachZero moves v toward zero by step without crossing it
func approachZero(v, step float64) float64 {
	if v > 0 {
		v -= step
		if v < 0 {
			v = 0
		}
	} else if v < 0 {
		v += step
		if v > 0 {
			v = 0
		}
	}
	return v
}

// randRange returns a value in [0, n) or 0 when n is not positive
func randRange(rng Rand, n int) int {
	if n <= 0 {
		return 0
	}
	return rng.Intn(n)
}
