// Package rng provides the seeded pseudo-random source used by the simulation.
//
// The generator is a Lehmer (Park-Miller) linear congruential generator. It is
// an explicit value: every simulation owns its own instance and threads it
// through the systems, so two worlds built from the same seed stay
// bit-identical for as long as they are advanced identically.
package rng

const (
	// Multiplier is the Lehmer recurrence multiplier.
	Multiplier = 16807
	// Modulus is the Mersenne prime 2^31-1.
	Modulus = 2147483647
)

// RNG is a deterministic pseudo-random source. The zero value is not usable;
// construct one with New.
type RNG struct {
	seed  int64 // normalized seed the generator was last reset to
	state int64 // current recurrence state, always in [1, Modulus-1]
}

// New returns a generator seeded with seed.
func New(seed int64) *RNG {
	r := &RNG{}
	r.Seed(seed)
	return r
}

// Normalize maps an arbitrary seed into the valid state range [1, Modulus-1].
// Zero and negative residues are shifted up rather than rejected.
func Normalize(seed int64) int64 {
	s := seed % Modulus
	if s <= 0 {
		s += Modulus - 1
	}
	if s <= 0 {
		s = Modulus - 1
	}
	return s
}

// Seed fully resets the generator to the sequence for seed.
func (r *RNG) Seed(seed int64) {
	r.seed = Normalize(seed)
	r.state = r.seed
}

// Reset rewinds the generator to the start of its current seed's sequence.
func (r *RNG) Reset() {
	r.state = r.seed
}

// InitialSeed returns the normalized seed the generator was last reset to.
func (r *RNG) InitialSeed() int64 {
	return r.seed
}

// State returns the current recurrence state, for snapshots.
func (r *RNG) State() int64 {
	return r.state
}

// Restore sets the recurrence state captured by State. The stored seed is
// left untouched so Reset still rewinds to the original sequence.
func (r *RNG) Restore(state int64) {
	r.state = Normalize(state)
}

// Next advances the recurrence and returns a value in [0, 1).
func (r *RNG) Next() float64 {
	r.state = (r.state * Multiplier) % Modulus
	return float64(r.state-1) / float64(Modulus-1)
}

// Int returns an integer in the half-open range [min, max).
func (r *RNG) Int(min, max int) int {
	return int(r.Next()*float64(max-min)) + min
}

// Float returns a value in [min, max).
func (r *RNG) Float(min, max float64) float64 {
	return r.Next()*(max-min) + min
}

// Float32 returns a float32 in [min, max).
func (r *RNG) Float32(min, max float32) float32 {
	return float32(r.Float(float64(min), float64(max)))
}

// Bool returns true with probability p.
func (r *RNG) Bool(p float64) bool {
	return r.Next() < p
}

// Element returns a uniformly chosen element of s. An empty slice yields the
// zero value without advancing the generator.
func Element[T any](r *RNG, s []T) T {
	var zero T
	if len(s) == 0 {
		return zero
	}
	return s[r.Int(0, len(s))]
}
