package workflow

import "math/rand/v2"

// Rand is the source of randomness for workflow decisions. Transition
// outcomes are control flow here, so the draw is injected rather than
// called inline.
type Rand interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
}

type systemRand struct{}

func (systemRand) Float64() float64 {
	return rand.Float64()
}

// SystemRand returns the production randomness source.
func SystemRand() Rand {
	return systemRand{}
}
