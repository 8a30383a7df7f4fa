package engine

import (
	"encoding/binary"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// Source supplies uniform draws in [0,1) and unique ids. Statistical
// uniformity is enough; nothing here needs cryptographic strength.
type Source interface {
	Float64() float64
	NewID() string
}

// RandSource is the default Source. A non-zero seed makes both the draws and
// the generated ids reproducible.
type RandSource struct {
	rng    *rand.Rand
	chacha *rand.ChaCha8
	seeded bool
}

// NewSource returns a ChaCha8-backed source. Seed 0 picks a time-based seed.
func NewSource(seed uint64) *RandSource {
	seeded := seed != 0
	if !seeded {
		seed = uint64(time.Now().UnixNano())
	}
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], seed)
	binary.LittleEndian.PutUint64(key[8:16], ^seed)
	c := rand.NewChaCha8(key)
	return &RandSource{rng: rand.New(c), chacha: c, seeded: seeded}
}

// Float64 returns a uniform draw in [0,1).
func (r *RandSource) Float64() float64 { return r.rng.Float64() }

// NewID returns a random UUID string.
func (r *RandSource) NewID() string {
	if !r.seeded {
		return uuid.NewString()
	}
	id, err := uuid.NewRandomFromReader(r.chacha)
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// randomBetween returns an integer in [lo, hi] inclusive.
func randomBetween(src Source, lo, hi int) int {
	return int(math.Floor(src.Float64()*float64(hi-lo+1))) + lo
}

// pickIndex returns a uniform index into a collection of length n (n > 0).
func pickIndex(src Source, n int) int {
	i := int(math.Floor(src.Float64() * float64(n)))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
