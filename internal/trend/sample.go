package trend

import "math/rand/v2"

// RandomPick selects up to n distinct elements uniformly at random. The
// input is not modified. With fewer than n elements, all are returned in a
// shuffled order.
func RandomPick[T any](items []T, n int) []T {
	if n <= 0 {
		return []T{}
	}
	out := make([]T, len(items))
	copy(out, items)
	// Partial Fisher-Yates: only the first n slots need to be settled.
	k := min(n, len(out))
	for i := 0; i < k; i++ {
		j := i + rand.IntN(len(out)-i)
		out[i], out[j] = out[j], out[i]
	}
	return out[:k]
}
