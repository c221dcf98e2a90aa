package rng

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"sync"
)

// Source is the randomness every probabilistic rule draws from. Engines take it
// explicitly so a seeded source replays a run exactly.
type Source interface {
	Float64() float64
	IntN(n int) int
}

// New returns a deterministic source for the given seed.
func New(seed int64) *rand.Rand {
	// Non-cryptographic PRNG is intentional for deterministic simulation behavior.
	// #nosec G404
	return rand.New(rand.NewPCG(seedWord(seed, "a"), seedWord(seed, "b")))
}

// NewRandom returns an unseeded source for regular play.
func NewRandom() *rand.Rand {
	// #nosec G404
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Locked serialises access to src so one source can back concurrent
// requests.
func Locked(src Source) Source {
	return &lockedSource{src: src}
}

type lockedSource struct {
	mu  sync.Mutex
	src Source
}

func (l *lockedSource) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}

func (l *lockedSource) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.IntN(n)
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s", seed, salt)))
	return h.Sum64()
}

// RandomInt returns a value in [0, max). Non-positive max yields 0.
func RandomInt(src Source, max int) int {
	if max <= 0 {
		return 0
	}
	return src.IntN(max)
}

// PickOne returns a uniformly chosen element, or false for an empty slice.
func PickOne[T any](src Source, items []T) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	return items[RandomInt(src, len(items))], true
}
