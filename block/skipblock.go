package block

import (
	"golang.org/x/crypto/blake2b"

	"github.com/albatross-chain/albacore/cryptoio"
	"github.com/albatross-chain/albacore/primitives"
	"github.com/albatross-chain/albacore/wire"
)

// SkipBlockInfo is the message a SkipBlockProof signs: the height being
// skipped to, plus the VRF entropy of the predecessor block (the same
// entropy SlotSelector would have used to pick the missing proposer).
type SkipBlockInfo struct {
	BlockNumber uint64
	VrfEntropy  [32]byte
}

// Hash returns the canonical message hash signed by skip-block voters.
func (s *SkipBlockInfo) Hash() [32]byte {
	buf := make([]byte, 0, 48)
	buf = wire.PutUint64(buf, s.BlockNumber)
	buf = append(buf, s.VrfEntropy[:]...)
	return blake2b.Sum256(buf)
}

// SkipBlockProof is an aggregated BLS signature over a SkipBlockInfo by
// at least TwoFPlusOne distinct slots.
type SkipBlockProof struct {
	Signature *cryptoio.Signature
	Signers   *primitives.BitSet
}

// Verify checks that the proof verifies iff the signer set has at
// least policy.TwoFPlusOne() distinct slots AND the aggregated BLS
// signature over info's hash passes under the signers' voting keys.
//
// votingKeyForSlot resolves a slot id to its owning validator's voting
// key; it is supplied by the caller (Blockchain.push, via the epoch's
// Validators) rather than looked up here, keeping this function pure.
func (p *SkipBlockProof) Verify(info *SkipBlockInfo, policy primitives.Policy, votingKeyForSlot func(slot uint32) *cryptoio.VotingKey) bool {
	if p.Signers == nil || uint32(p.Signers.Count()) < policy.TwoFPlusOne() {
		return false
	}
	var keys []*cryptoio.VotingKey
	p.Signers.Iter(func(slot uint32) {
		if k := votingKeyForSlot(slot); k != nil {
			keys = append(keys, k)
		}
	})
	if len(keys) != p.Signers.Count() {
		// Some signer slot did not resolve to a validator — reject
		// rather than silently verifying against a partial key set.
		return false
	}
	msg := info.Hash()
	return cryptoio.VerifyAggregate(keys, msg[:], p.Signature)
}
