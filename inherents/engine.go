package inherents

import (
	"github.com/albatross-chain/albacore/primitives"
)

// BatchFinalizationParams bundles the inputs to FinalizeBatch.
type BatchFinalizationParams struct {
	Policy primitives.Policy

	// PrevMacroBatchIndex is policy.BatchIndex(prevMacroHeader.BlockNumber):
	// the batch index the previous macro block concluded. Index 0 means
	// the previous macro was genesis, which carries no rewards.
	PrevMacroBatchIndex uint64
	// PrevCumTxFees accumulated since the previous macro block, within
	// the batch now being finalized.
	PrevCumTxFees primitives.Coin

	// CurrentMacroBatchIndex is policy.BatchIndex(currentMacroHeader.BlockNumber).
	CurrentMacroBatchIndex uint64
	// CurrentMacroBlockNumber is the height of the macro block being
	// applied (used to decide IsFirstBatchOfEpoch and IsElection).
	CurrentMacroBlockNumber uint64
	// RewardSeed is the current macro header's VRF seed, used to derive
	// the remainder tie-break draw.
	RewardSeed primitives.VrfSeed

	GenesisSupply    primitives.Coin
	GenesisTimestamp uint64

	Staking StakingSnapshot

	// CurrentSlots / PreviousSlots are the validator sets for the
	// current and previous epoch; exactly one of them is selected,
	// depending on whether the batch being finalized falls in the first
	// batch of a new epoch. Both are accepted so the engine — not the
	// caller — enforces the "missing set is fatal" invariant.
	CurrentSlots  *Validators
	PreviousSlots *Validators

	Accept AcceptFunc
}

// FatalInvariantError signals a programming-bug-level violation that
// must crash rather than be masked (e.g. a missing validator-slot
// snapshot, or arithmetic overflow in reward bookkeeping).
type FatalInvariantError struct {
	Msg string
}

func (e *FatalInvariantError) Error() string { return "inherents: fatal invariant: " + e.Msg }

// FinalizeBatch runs batch finalization in full, including the
// election-block FinalizeEpoch addendum. It panics on the documented
// fatal invariants (overflow, missing slot snapshot) rather than
// returning an error for them, since those conditions indicate a
// programming bug rather than bad input.
func FinalizeBatch(p BatchFinalizationParams) []Inherent {
	if p.PrevMacroBatchIndex == 0 {
		return nil
	}

	var validators *Validators
	if p.Policy.IsFirstBatchOfEpoch(p.CurrentMacroBlockNumber) {
		validators = p.PreviousSlots
	} else {
		validators = p.CurrentSlots
	}
	if validators == nil {
		panic(&FatalInvariantError{Msg: "missing current_slots/previous_slots for batch finalization"})
	}

	slashed, err := unionOrEmpty(p.Staking.PreviousLostRewards, p.Staking.PreviousDisabledSlots, p.Policy.Slots)
	if err != nil {
		panic(&FatalInvariantError{Msg: err.Error()})
	}

	blockReward := p.Policy.BlockRewardForBatch(p.GenesisSupply, p.PrevMacroBatchIndex-1, p.CurrentMacroBatchIndex-1)
	rewardPot, err := blockReward.Add(p.PrevCumTxFees)
	if err != nil {
		panic(&FatalInvariantError{Msg: "reward pot arithmetic overflow"})
	}

	plan, err := PlanBatchRewards(*validators, slashed, rewardPot, p.Policy.Slots)
	if err != nil {
		panic(&FatalInvariantError{Msg: err.Error()})
	}

	rng := p.RewardSeed.Rng(primitives.VrfUseCaseRewardDistribution)
	bound, err := Bind(plan, p.Accept, rng)
	if err != nil {
		panic(&FatalInvariantError{Msg: err.Error()})
	}

	out := append([]Inherent{}, bound...)
	out = append(out, Inherent{Kind: KindFinalizeBatch})
	if p.Policy.IsElectionBlock(p.CurrentMacroBlockNumber) {
		out = append(out, Inherent{Kind: KindFinalizeEpoch})
	}
	return out
}

func unionOrEmpty(a, b *primitives.BitSet, slots uint32) (*primitives.BitSet, error) {
	if a == nil {
		a = primitives.NewBitSet(slots)
	}
	if b == nil {
		b = primitives.NewBitSet(slots)
	}
	return a.Union(b)
}
