package inherents

import (
	"github.com/albatross-chain/albacore/primitives"
	"github.com/albatross-chain/albacore/slots"
)

// ToSlotSelectorValidators projects the reward-bearing ValidatorBand
// list down to the plain slots.Validators shape ProposerAt needs.
func (v Validators) ToSlotSelectorValidators() slots.Validators {
	out := slots.Validators{Bands: make([]slots.Band, len(v.Bands))}
	for i, b := range v.Bands {
		out.Bands[i] = slots.Band{ValidatorIndex: i, FirstSlot: b.FirstSlot, NumSlots: b.NumSlots}
	}
	return out
}

// AddressAt returns the validator address owning the given slot, or the
// zero address if no band covers it.
func (v Validators) AddressAt(slot uint32) primitives.Address {
	for _, b := range v.Bands {
		if slot >= b.FirstSlot && slot < b.FirstSlot+b.NumSlots {
			return b.ValidatorAddress
		}
	}
	return primitives.Address{}
}

// SlashInherentForForkProof reconstructs the offending proposer by
// calling SlotSelector with the fork proof's reported height as both
// the target height and the draw offset, and the fork proof's
// prev_vrf_seed entropy.
func SlashInherentForForkProof(selector slots.Selector, blockNumber uint64, prevSeedEntropy [32]byte, disabled *primitives.BitSet, validators Validators) Inherent {
	sel := selector.ProposerAt(blockNumber, prevSeedEntropy, disabled, validators.ToSlotSelectorValidators())
	return Inherent{
		Kind:            KindSlash,
		SlashSlot:       sel.SlotNumber,
		SlashValidator:  validators.AddressAt(sel.SlotNumber),
		SlashEventBlock: blockNumber,
	}
}

// SlashInherentForSkipBlock reconstructs the skipped proposer from the
// skip block's own vrf_entropy, analogous to SlashInherentForForkProof.
func SlashInherentForSkipBlock(selector slots.Selector, blockNumber uint64, vrfEntropy [32]byte, disabled *primitives.BitSet, validators Validators) Inherent {
	sel := selector.ProposerAt(blockNumber, vrfEntropy, disabled, validators.ToSlotSelectorValidators())
	return Inherent{
		Kind:            KindSlash,
		SlashSlot:       sel.SlotNumber,
		SlashValidator:  validators.AddressAt(sel.SlotNumber),
		SlashEventBlock: blockNumber,
	}
}
