package zkp

import (
	"github.com/albatross-chain/albacore/block"
	"github.com/albatross-chain/albacore/cryptoio"
	"github.com/albatross-chain/albacore/primitives"
)

// VerifyTendermint checks that b's TendermintProof carries at least
// policy.TwoFPlusOne() distinct slots and that the aggregated BLS
// signature verifies over b's nano-zkp hash under those slots' voting
// keys.
func VerifyTendermint(b *block.MacroBlock, policy primitives.Policy, votingKeyForSlot func(slot uint32) *cryptoio.VotingKey) bool {
	proof := b.Justification
	if proof == nil || proof.Signers == nil {
		return false
	}
	if uint32(proof.Signers.Count()) < policy.TwoFPlusOne() {
		return false
	}

	hash, err := NanoZKPHash(b, policy, true)
	if err != nil {
		return false
	}

	var keys []*cryptoio.VotingKey
	ok := true
	proof.Signers.Iter(func(slot uint32) {
		k := votingKeyForSlot(slot)
		if k == nil {
			ok = false
			return
		}
		keys = append(keys, k)
	})
	if !ok {
		return false
	}
	return cryptoio.VerifyAggregate(keys, hash[:], proof.Signature)
}
