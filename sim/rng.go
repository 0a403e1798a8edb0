package sim

import (
	crand "crypto/rand"
	"encoding/binary"
	"hash/fnv"
	"math/rand/v2"
)

// === Random ===

// Random is the uniform source consumed by the Monte Carlo kernels.
// Implementations must be deterministic for a fixed seed if reproducible runs
// are wanted; the kernels never depend on a particular generator.
type Random interface {
	// Uniform01 returns a value in [0, 1).
	Uniform01() float64
	// UniformIndex returns an index in [0, n). n must be > 0.
	UniformIndex(n int) int
	// Bernoulli returns true with probability p.
	Bernoulli(p float64) bool
}

// === SimulationKey ===

// SimulationKey identifies a reproducible simulation run.
// Two runs with the same SimulationKey and identical configuration
// MUST produce bit-for-bit identical results.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// EntropyKey draws a fresh SimulationKey from the operating system.
// Callers log it so an unseeded run can be repeated.
func EntropyKey() SimulationKey {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		panic("rng: reading entropy: " + err.Error())
	}
	return SimulationKey(int64(binary.LittleEndian.Uint64(b[:]) >> 1))
}

// ChainKey derives the key of independent chain id from a master key.
// Chain 0 uses the master key directly so single-chain runs match --seed.
func (k SimulationKey) ChainKey(id int) SimulationKey {
	if id == 0 {
		return k
	}
	h := fnv.New64a()
	_ = binary.Write(h, binary.LittleEndian, int64(id))
	return SimulationKey(int64(k) ^ int64(h.Sum64()))
}

// === PCGRandom ===

// PCGRandom is the default Random, a PCG generator seeded through splitmix64.
//
// Thread-safety: NOT thread-safe. Must be called from a single goroutine.
type PCGRandom struct {
	key SimulationKey
	r   *rand.Rand
}

// NewRandom creates a PCGRandom for key.
func NewRandom(key SimulationKey) *PCGRandom {
	x := uint64(key) ^ 0x9e3779b97f4a7c15
	hi := splitmix64(x)
	lo := splitmix64(x ^ 0xda942042e4dd58b5)
	return &PCGRandom{key: key, r: rand.New(rand.NewPCG(hi, lo))}
}

// NewEntropyRandom creates a PCGRandom from a fresh entropy key.
func NewEntropyRandom() *PCGRandom {
	return NewRandom(EntropyKey())
}

// Key returns the SimulationKey used to seed this generator.
func (p *PCGRandom) Key() SimulationKey { return p.key }

// Uniform01 returns a float64 in [0, 1) with 53 bits of precision.
func (p *PCGRandom) Uniform01() float64 { return p.r.Float64() }

// UniformIndex returns an int in [0, n). Panics if n <= 0.
func (p *PCGRandom) UniformIndex(n int) int { return p.r.IntN(n) }

// Bernoulli returns true with probability p.
func (p *PCGRandom) Bernoulli(prob float64) bool { return p.r.Float64() < prob }

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
