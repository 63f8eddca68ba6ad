package inherents

import (
	"fmt"

	"github.com/albatross-chain/albacore/primitives"
)

// PlannedReward is one validator band's provisional reward: pure slot
// arithmetic, before the Accounts-trie acceptance probe and before the
// remainder tie-break are applied.
type PlannedReward struct {
	RewardAddress primitives.Address
	NumEligible   uint32
	Value         primitives.Coin
}

// Plan is the pure output of batch-reward arithmetic: everything
// computable without touching the Accounts trie.
type Plan struct {
	SlotReward      primitives.Coin
	Remainder       primitives.Coin
	Rewards         []PlannedReward
	BurnedFromSlash primitives.Coin
}

// PlanBatchRewards computes the pure half of batch finalization:
// slashed-set accounting, slot/remainder division, and the
// per-validator-band eligible/slashed split. It never touches the
// Accounts trie — Bind does that.
//
// validators.Bands must be sorted ascending by FirstSlot and partition
// [0, slots) without gaps or overlaps; this is the same invariant
// slots.Validators relies on.
func PlanBatchRewards(validators Validators, slashedSet *primitives.BitSet, rewardPot primitives.Coin, slots uint32) (*Plan, error) {
	if slashedSet == nil {
		slashedSet = primitives.NewBitSet(slots)
	}

	slotReward, remainder := rewardPot.DivMod(primitives.Coin(slots))

	plan := &Plan{SlotReward: slotReward, Remainder: remainder}
	var covered uint32
	for _, band := range validators.Bands {
		if band.FirstSlot != covered {
			return nil, fmt.Errorf("inherents: validator bands have a gap at slot %d (band starts at %d)", covered, band.FirstSlot)
		}
		var numSlashed uint32
		for i := band.FirstSlot; i < band.FirstSlot+band.NumSlots; i++ {
			if slashedSet.Contains(i) {
				numSlashed++
			}
		}
		numEligible := band.NumSlots - numSlashed

		slashedValue, err := slotReward.Mul(primitives.Coin(numSlashed))
		if err != nil {
			return nil, fmt.Errorf("inherents: slashed-reward overflow: %w", err)
		}
		plan.BurnedFromSlash, err = plan.BurnedFromSlash.Add(slashedValue)
		if err != nil {
			return nil, fmt.Errorf("inherents: burned-reward accumulation overflow: %w", err)
		}

		rewardValue, err := slotReward.Mul(primitives.Coin(numEligible))
		if err != nil {
			return nil, fmt.Errorf("inherents: eligible-reward overflow: %w", err)
		}

		plan.Rewards = append(plan.Rewards, PlannedReward{
			RewardAddress: band.RewardAddress,
			NumEligible:   numEligible,
			Value:         rewardValue,
		})

		covered += band.NumSlots
	}
	if covered != slots {
		return nil, fmt.Errorf("inherents: validator bands cover %d slots, want %d", covered, slots)
	}

	return plan, nil
}
