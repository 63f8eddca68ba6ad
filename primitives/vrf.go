package primitives

import (
	"encoding/binary"
	"math/bits"

	"golang.org/x/crypto/blake2s"
)

// VrfSeedSize is the width of a compressed BLS12-381 signature
// (cryptoio.SignatureSize), used as the VRF seed.
const VrfSeedSize = 96

// VrfSeed is the BLS signature of the previous seed's entropy under the
// proposer's voting key; it chains block-to-block and is the sole
// source of unbiasable randomness for slot selection and reward
// tie-breaking.
type VrfSeed [VrfSeedSize]byte

// VrfUseCase domain-separates PRNG draws so that slot-selection draws
// can never collide with reward-distribution draws even given the same
// entropy.
type VrfUseCase uint8

const (
	VrfUseCaseViewSlotSelection VrfUseCase = iota
	VrfUseCaseRewardDistribution
	VrfUseCaseSkipBlockProposer
	VrfUseCaseValidatorSelection
)

// Entropy derives the 32-byte domain-separated entropy of this seed:
// Blake2s(compressed signature).
func (s VrfSeed) Entropy() [32]byte {
	h, _ := blake2s.New256(nil)
	h.Write(s[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Rng returns a deterministic PRNG seeded by this seed's entropy and
// the given use case.
func (s VrfSeed) Rng(useCase VrfUseCase) *Rng {
	entropy := s.Entropy()
	return NewRng(entropy, useCase)
}

// Rng is a deterministic, domain-separated pseudo-random generator over
// VRF entropy. It is reseeded by re-hashing (entropy ∥ use_case ∥
// counter) with Blake2s for every 8-byte draw, which keeps the stream
// reproducible across implementations without needing a stateful CSPRNG
// interface.
type Rng struct {
	entropy [32]byte
	use     VrfUseCase
	counter uint64
}

// NewRng constructs a Rng directly from raw entropy, bypassing VrfSeed
// (used by callers that only have entropy, e.g. skip-block info).
func NewRng(entropy [32]byte, useCase VrfUseCase) *Rng {
	return &Rng{entropy: entropy, use: useCase}
}

func (r *Rng) draw() uint64 {
	h, _ := blake2s.New256(nil)
	h.Write(r.entropy[:])
	h.Write([]byte{byte(r.use)})
	var ctr [8]byte
	binary.BigEndian.PutUint64(ctr[:], r.counter)
	h.Write(ctr[:])
	r.counter++
	sum := h.Sum(nil)
	return binary.BigEndian.Uint64(sum[:8])
}

// NextU64Max returns a uniform random value in [0, bound) using
// Lemire's rejection-free-in-expectation widening-multiply method,
// avoiding modulo bias for non-power-of-two bounds.
func (r *Rng) NextU64Max(bound uint64) uint64 {
	if bound == 0 {
		return 0
	}
	x := r.draw()
	hi, lo := bits.Mul64(x, bound)
	if lo < bound {
		threshold := -bound % bound
		for lo < threshold {
			x = r.draw()
			hi, lo = bits.Mul64(x, bound)
		}
	}
	return hi
}
