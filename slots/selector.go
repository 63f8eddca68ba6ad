// Package slots implements deterministic validator-slot selection: the
// VRF-keyed Fisher-Yates shuffle that binds a block height to a
// proposer, given the disabled-slots set committed by the most recent
// preceding macro block.
package slots

import (
	"github.com/albatross-chain/albacore/primitives"
)

// Band identifies the contiguous slot range owned by a single
// validator within [0, Policy.Slots).
type Band struct {
	ValidatorIndex int
	FirstSlot      uint32
	NumSlots       uint32
}

// Validators is an ordered sequence of validator slot bands; slot ids
// [0, Slots) are partitioned into contiguous, non-overlapping bands in
// this order.
type Validators struct {
	Bands []Band
}

// ValidatorAt returns the validator index owning the given slot, or -1
// if the slot is not covered by any band.
func (v Validators) ValidatorAt(slot uint32) int {
	for _, b := range v.Bands {
		if slot >= b.FirstSlot && slot < b.FirstSlot+b.NumSlots {
			return b.ValidatorIndex
		}
	}
	return -1
}

// Selection is the result of a proposer-selection draw.
type Selection struct {
	SlotNumber     uint32
	ValidatorIndex int
}

// Selector computes deterministic slot selection for a fixed Policy.
type Selector struct {
	policy primitives.Policy
}

// New returns a Selector bound to the given policy.
func New(policy primitives.Policy) Selector {
	return Selector{policy: policy}
}

// ProposerAt runs the VRF-keyed Fisher-Yates shuffle and returns the
// chosen slot and its owning validator.
//
// offset is the draw index: for regular micro/macro proposer lookup it
// equals the target block_number; for slash-inherent proposer
// reconstruction it equals the reported offending block_number — the
// caller decides, this function only consumes whatever offset is given.
func (s Selector) ProposerAt(offset uint64, entropy [32]byte, disabled *primitives.BitSet, validators Validators) Selection {
	candidates := s.candidates(disabled)
	rng := primitives.NewRng(entropy, primitives.VrfUseCaseViewSlotSelection)
	shuffle(candidates, rng)
	chosen := candidates[offset%uint64(len(candidates))]
	return Selection{
		SlotNumber:     chosen,
		ValidatorIndex: validators.ValidatorAt(chosen),
	}
}

// candidates builds [0, Slots) filtered by ¬disabled, falling back to
// the full unfiltered range if every slot is disabled (the liveness
// override: the chain must still be able to pick a proposer even if
// the committed disabled-set would otherwise empty the candidate
// list).
func (s Selector) candidates(disabled *primitives.BitSet) []uint32 {
	out := make([]uint32, 0, s.policy.Slots)
	for i := uint32(0); i < s.policy.Slots; i++ {
		if disabled == nil || !disabled.Contains(i) {
			out = append(out, i)
		}
	}
	if len(out) == 0 {
		out = out[:0]
		for i := uint32(0); i < s.policy.Slots; i++ {
			out = append(out, i)
		}
	}
	return out
}

// shuffle performs an in-place Fisher-Yates shuffle, drawing
// rng.NextU64Max(i+1) for i from len-1 down to 1 and swapping with the
// drawn index. The draw order is part of the consensus contract: every
// node must shuffle identically.
func shuffle(candidates []uint32, rng *primitives.Rng) {
	for i := len(candidates) - 1; i >= 1; i-- {
		j := rng.NextU64Max(uint64(i) + 1)
		candidates[i], candidates[j] = candidates[j], candidates[i]
	}
}
