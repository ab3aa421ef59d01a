package leitner

import "math/rand"

// DefaultShuffleAttempts is the number of full reshuffles tried by
// ShuffleWithoutConsecutiveDuplicates before it settles for the best result.
const DefaultShuffleAttempts = 10

// Shuffle returns a uniformly shuffled copy of items (Fisher–Yates).
// The input slice is left untouched.
func Shuffle[T any](rng *rand.Rand, items []T) []T {
	out := append([]T(nil), items...)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// ShuffleWithoutConsecutiveDuplicates shuffles items so that no two adjacent
// elements share the same key, on a best-effort basis.
//
// Each attempt shuffles, then runs a local repair pass over the remaining
// collisions. When an attempt ends collision-free it is returned. After
// maxAttempts (DefaultShuffleAttempts when maxAttempts <= 0) the permutation
// with the fewest collisions is returned. Some inputs cannot be repaired at all,
// e.g. when one key owns more than half of the elements.
//
// The result is always a permutation of items; nothing is dropped or repeated.
func ShuffleWithoutConsecutiveDuplicates[T any, K comparable](
	rng *rand.Rand,
	items []T,
	keyOf func(T) K,
	maxAttempts int,
) []T {
	if len(items) <= 1 {
		return append([]T(nil), items...)
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultShuffleAttempts
	}

	var best []T
	bestCollisions := -1

	for attempt := 0; attempt < maxAttempts; attempt++ {
		candidate := Shuffle(rng, items)
		if countCollisions(candidate, keyOf) > 0 {
			repairCollisions(candidate, keyOf)
		}

		n := countCollisions(candidate, keyOf)
		if n == 0 {
			return candidate
		}
		if bestCollisions < 0 || n < bestCollisions {
			best, bestCollisions = candidate, n
		}
	}

	return best
}

// countCollisions returns the number of adjacent pairs sharing a key.
func countCollisions[T any, K comparable](items []T, keyOf func(T) K) int {
	n := 0
	for i := 1; i < len(items); i++ {
		if keyOf(items[i]) == keyOf(items[i-1]) {
			n++
		}
	}
	return n
}

// repairCollisions walks the slice and, for every element equal to its left
// neighbour, looks forward and then backward for a swap partner that fits
// between the new neighbours on both sides. Unresolvable collisions are left
// in place.
func repairCollisions[T any, K comparable](items []T, keyOf func(T) K) {
	for i := 1; i < len(items); i++ {
		if keyOf(items[i]) != keyOf(items[i-1]) {
			continue
		}

		swapped := false
		for j := i + 1; j < len(items) && !swapped; j++ {
			swapped = trySwap(items, i, j, keyOf)
		}
		for j := i - 2; j >= 0 && !swapped; j-- {
			swapped = trySwap(items, i, j, keyOf)
		}
	}
}

// trySwap swaps i and j if the swap leaves both positions collision-free,
// and reports whether it did.
func trySwap[T any, K comparable](items []T, i, j int, keyOf func(T) K) bool {
	if keyOf(items[i]) == keyOf(items[j]) {
		return false
	}

	items[i], items[j] = items[j], items[i]
	if fitsAt(items, i, keyOf) && fitsAt(items, j, keyOf) {
		return true
	}
	items[i], items[j] = items[j], items[i]

	return false
}

// fitsAt reports whether the element at pos differs from both neighbours.
func fitsAt[T any, K comparable](items []T, pos int, keyOf func(T) K) bool {
	k := keyOf(items[pos])
	if pos > 0 && keyOf(items[pos-1]) == k {
		return false
	}
	if pos < len(items)-1 && keyOf(items[pos+1]) == k {
		return false
	}
	return true
}
