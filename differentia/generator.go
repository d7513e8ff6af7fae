package differentia

import (
	"math/rand/v2"
	"sync"
)

// pcgStream is the fixed second PCG word; only the seed varies between generators.
const pcgStream = 0x9e3779b97f4a7c15

// Generator draws uniformly distributed fingerprints.
// It is safe for concurrent use; columns cloned from one another share a
// Generator so their subsequent draws stay independent.
type Generator struct {
	mu   sync.Mutex
	rand *rand.Rand
	seed uint64
}

// NewGenerator returns a Generator whose stream is fully determined by seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{
		rand: rand.New(rand.NewPCG(seed, pcgStream)),
		seed: seed,
	}
}

// NewRandomGenerator returns a Generator seeded from the runtime's entropy source.
func NewRandomGenerator() *Generator {
	return NewGenerator(rand.Uint64())
}

// Seed returns the seed the generator was created or last reset with.
func (g *Generator) Seed() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.seed
}

// Reset restarts the stream from seed.
func (g *Generator) Reset(seed uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.rand = rand.New(rand.NewPCG(seed, pcgStream))
	g.seed = seed
}

// Draw returns a fingerprint uniform over [0, 2^width).
// It panics with ErrInvalidWidth if width < 1.
func (g *Generator) Draw(width int) Differentia {
	checkWidth(width)

	g.mu.Lock()
	defer g.mu.Unlock()

	if width <= 64 {
		return Differentia{lo: g.rand.Uint64() >> (64 - width)}
	}

	n := ByteLen(width)
	buf := make([]byte, n)
	for i := 0; i < n; i += 8 {
		v := g.rand.Uint64()
		for j := i; j < min(i+8, n); j++ {
			buf[j] = byte(v)
			v >>= 8
		}
	}

	return FromBytes(width, buf)
}

// DrawN returns count fingerprints drawn in sequence.
func (g *Generator) DrawN(width, count int) []Differentia {
	out := make([]Differentia, count)
	for i := range out {
		out[i] = g.Draw(width)
	}
	return out
}
