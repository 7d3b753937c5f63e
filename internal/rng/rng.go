// Package rng provides the draw primitives for every gamble in the engine.
// Draws come from crypto/rand so outcomes cannot be predicted or biased by
// clients; the selection math is pure so resolution is testable with a
// fixed roll.
package rng

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/caseopen-dev/kazino/internal/domain"
)

// Float64 returns a uniform draw in [0, 1) from crypto/rand.
// Every call produces a fresh draw; results are never memoized.
func Float64() float64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		// crypto/rand failing means the process has bigger problems;
		// refusing the draw is safer than a weak fallback.
		panic(fmt.Sprintf("rng: crypto source unavailable: %v", err))
	}
	// 53 bits of mantissa, same construction as math/rand.Float64.
	return float64(binary.BigEndian.Uint64(b[:])>>11) / (1 << 53)
}

// Pick selects an index from the weight table using a uniform roll in
// [0, 1): the roll is scaled to [0, totalWeight) and walked across the
// cumulative prefix sums. Entries with non-positive weight are skipped.
// Returns domain.ErrInvalidDropTable if no entry can be drawn.
func Pick(weights []float64, roll float64) (int, error) {
	var total float64
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if len(weights) == 0 || total <= 0 {
		return 0, domain.ErrInvalidDropTable
	}

	r := roll * total
	var cum float64
	last := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		cum += w
		last = i
		if r < cum {
			return i, nil
		}
	}
	// Float accumulation can leave r a hair above the final sum.
	return last, nil
}

// Trial reports success for a percent chance in [0, 100] given a uniform
// roll in [0, 1): success iff roll*100 < chance.
func Trial(chance int, roll float64) bool {
	if chance <= 0 {
		return false
	}
	if chance >= 100 {
		return true
	}
	return roll*100 < float64(chance)
}
