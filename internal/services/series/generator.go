package series

import (
	"math"
	"math/rand/v2"
	"time"
)

// Generator produces synthetic metric series with trend, weekly seasonality
// and bounded noise. A Generator is not safe for concurrent use.
type Generator struct {
	rnd *rand.Rand
}

// NewGenerator returns a generator drawing from src, or from a time-seeded
// source when src is nil.
func NewGenerator(src rand.Source) *Generator {
	if src == nil {
		src = rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15)
	}
	return &Generator{rnd: rand.New(src)}
}

// NewSeededGenerator is NewGenerator over a PCG source seeded with seed.
func NewSeededGenerator(seed uint64) *Generator {
	return NewGenerator(rand.NewPCG(seed, seed^0x5851f42d4c957f2d))
}

// Series returns n values: max(0, base + trend*i + seasonal(i) + noise).
func (g *Generator) Series(n int, base, variance, trend float64) []float64 {
	if n <= 0 {
		return []float64{}
	}
	season := float64(min(7, n))
	out := make([]float64, n)
	for i := range out {
		seasonal := math.Sin(2*math.Pi*float64(i)/season) * variance * 0.3
		noise := (g.rnd.Float64() - 0.5) * variance * 0.8
		out[i] = math.Max(0, base+trend*float64(i)+seasonal+noise)
	}
	return out
}

// Uniform returns a value in [lo, hi).
func (g *Generator) Uniform(lo, hi float64) float64 {
	return lo + g.rnd.Float64()*(hi-lo)
}
