package compose

import (
	"math/rand"
	"time"
)

// chooser is the single source of randomness for one generation request.
// Every random pick in the generators goes through it, so a fixed seed
// reproduces the whole composition.
type chooser struct {
	rng *rand.Rand
}

func newChooser(seed *int64) *chooser {
	s := time.Now().UnixNano()
	if seed != nil {
		s = *seed
	}
	return &chooser{rng: rand.New(rand.NewSource(s))}
}

// index returns a uniform index in [0, n).
func (c *chooser) index(n int) int {
	return c.rng.Intn(n)
}

// float returns one uniform draw in [0, 1).
func (c *chooser) float() float64 {
	return c.rng.Float64()
}

// duration picks uniformly from a table of note lengths.
func (c *chooser) duration(choices []float64) float64 {
	if len(choices) == 1 {
		return choices[0]
	}
	return choices[c.rng.Intn(len(choices))]
}
