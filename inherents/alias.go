package inherents

import "github.com/albatross-chain/albacore/primitives"

// AliasMethod is an O(1) weighted-sampling table (Vose's alias method),
// used to tie-break the reward-pot remainder in a way that is
// deterministic, reproducible from the macro block's VRF seed, and
// proportional to validator weight over many draws.
type AliasMethod struct {
	prob  []float64
	alias []int
}

// NewAliasMethod builds a sampling table over the given non-negative
// integer weights. A zero-length weight vector yields a table whose
// Sample returns -1; an all-zero vector yields a table that draws every
// index with equal probability. Bind builds tables only over accepted
// rewards with a nonzero num_eligible weight, so neither case arises
// there.
func NewAliasMethod(weights []uint64) *AliasMethod {
	n := len(weights)
	am := &AliasMethod{prob: make([]float64, n), alias: make([]int, n)}
	if n == 0 {
		return am
	}

	var total uint64
	for _, w := range weights {
		total += w
	}
	if total == 0 {
		for i := range am.prob {
			am.prob[i] = 1
		}
		return am
	}

	scaled := make([]float64, n)
	for i, w := range weights {
		scaled[i] = float64(w) * float64(n) / float64(total)
	}

	var small, large []int
	for i, p := range scaled {
		if p < 1.0 {
			small = append(small, i)
		} else {
			large = append(large, i)
		}
	}

	for len(small) > 0 && len(large) > 0 {
		s := small[len(small)-1]
		small = small[:len(small)-1]
		l := large[len(large)-1]
		large = large[:len(large)-1]

		am.prob[s] = scaled[s]
		am.alias[s] = l

		scaled[l] = scaled[l] + scaled[s] - 1.0
		if scaled[l] < 1.0 {
			small = append(small, l)
		} else {
			large = append(large, l)
		}
	}
	for _, l := range large {
		am.prob[l] = 1.0
	}
	for _, s := range small {
		am.prob[s] = 1.0
	}

	return am
}

// Sample draws one index using the given Rng.
func (am *AliasMethod) Sample(rng *primitives.Rng) int {
	n := len(am.prob)
	if n == 0 {
		return -1
	}
	i := int(rng.NextU64Max(uint64(n)))
	coin := float64(rng.NextU64Max(1<<53)) / float64(uint64(1)<<53)
	if coin < am.prob[i] {
		return i
	}
	return am.alias[i]
}
