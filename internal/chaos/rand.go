// Package chaos implements the fault-injection engine: a seeded randomness
// source, the experiment variants (random delay, modal overlay, network
// chaos), the controller that fans interception hooks out to them, and the
// session interceptor that feeds it.
package chaos

import (
	"math/rand"
	"time"
)

// Rand is the sole source of chance for every experiment in a run. For a
// fixed seed the sequence of draws is identical on every invocation and
// platform, which is what makes a chaos run replayable.
//
// Rand is not safe for concurrent use. All draws happen on the foreground
// goroutine that drives the bot; background restore timers never draw.
type Rand struct {
	src *rand.Rand
}

// NewRand creates a randomness source from a single seed.
func NewRand(seed int64) *Rand {
	return &Rand{src: rand.New(rand.NewSource(seed))}
}

// Float64 draws a uniform value in [0, 1).
func (r *Rand) Float64() float64 {
	return r.src.Float64()
}

// IntBetween draws a uniform integer in [min, max]. min == max yields min
// without consuming a draw beyond the one required.
func (r *Rand) IntBetween(min, max int) int {
	if max < min {
		min, max = max, min
	}
	return min + r.src.Intn(max-min+1)
}

// DurationBetween draws a uniform duration in [min, max]. It always consumes
// exactly one draw, so min == max yields a fixed magnitude without disturbing
// the sequence.
func (r *Rand) DurationBetween(min, max time.Duration) time.Duration {
	if max < min {
		min, max = max, min
	}
	return min + time.Duration(r.src.Int63n(int64(max-min)+1))
}

// DeriveSeed mixes a base seed with a run index so that every run in an
// invocation sees a distinct draw sequence while the whole invocation stays
// reproducible from the base seed alone. The mixing is a splitmix64 step,
// fixed forever: changing it would silently change every recorded seed.
func DeriveSeed(base int64, runIndex int) int64 {
	z := uint64(base) + uint64(runIndex+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	z = z ^ (z >> 31)
	return int64(z)
}
