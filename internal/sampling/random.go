package sampling

import "math/rand/v2"

// random is the draw interface the engine consumes. Both sources return values in [0,1).
type random interface {
	Float32() float32
	IntN(n int) int
}

// Unseeded stream shared by every output point, runs are not reproducible.
func newUnseededRandom() random {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Stream owned by a single output index. Two runs with the same seed produce the same
// draws for the same index regardless of how indices are spread over workers.
func newIndexRandom(seed uint64, index int) random {
	return rand.New(rand.NewPCG(seed, uint64(index)))
}

// uniform value in [-amount, amount)
func symmetric(rng random, amount float32) float32 {
	return (rng.Float32()*2 - 1) * amount
}
