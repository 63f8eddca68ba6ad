// Package inherents implements batch/epoch finalization: reward
// computation, slashing bookkeeping, burned-reward accounting, and the
// VRF-seeded alias-method tie-break for the reward remainder.
//
// The effectful parts (Accounts trie probes) are split from the pure
// parts (slot bands × rewards × eligibility) so that reward
// conservation and slash accounting are testable as pure properties:
// Plan is pure, Bind is effectful.
package inherents

import "github.com/albatross-chain/albacore/primitives"

// Kind discriminates the inherent variants.
type Kind int

const (
	KindReward Kind = iota
	KindSlash
	KindFinalizeBatch
	KindFinalizeEpoch
)

// Inherent is a protocol-generated, signature-less state mutation.
type Inherent struct {
	Kind Kind

	// Reward fields.
	RewardTarget primitives.Address
	RewardValue  primitives.Coin

	// Slash fields.
	SlashSlot        uint32
	SlashValidator   primitives.Address
	SlashEventBlock  uint64
}

// ValidatorBand is one validator's slot band plus the address its
// rewards are paid to, extending slots.Band with the fields the reward
// engine needs.
type ValidatorBand struct {
	ValidatorAddress primitives.Address
	RewardAddress    primitives.Address
	FirstSlot        uint32
	NumSlots         uint32
}

// Validators is an ordered, non-overlapping sequence of ValidatorBand
// covering [0, Slots).
type Validators struct {
	Bands []ValidatorBand
}

// StakingSnapshot is the subset of the StakingContract that batch
// finalization reads and clears.
type StakingSnapshot struct {
	PreviousLostRewards  *primitives.BitSet
	PreviousDisabledSlots *primitives.BitSet
}
