package block

import (
	"testing"

	"github.com/albatross-chain/albacore/cryptoio"
	"github.com/albatross-chain/albacore/primitives"
)

func TestSkipBlockProofVerify(t *testing.T) {
	policy := primitives.DefaultPolicy()
	policy.Slots = 10
	required := int(policy.TwoFPlusOne())

	keys := make(map[uint32]*cryptoio.VotingKey)
	info := &SkipBlockInfo{BlockNumber: 7, VrfEntropy: [32]byte{1}}
	msg := info.Hash()

	signers := primitives.NewBitSet(policy.Slots)
	var sigs []*cryptoio.Signature
	for i := 0; i < required; i++ {
		sk, err := cryptoio.GenerateVotingKey()
		if err != nil {
			t.Fatal(err)
		}
		keys[uint32(i)] = sk.PublicKey()
		signers.Set(uint32(i))
		sigs = append(sigs, sk.Sign(msg[:]))
	}
	agg := cryptoio.AggregateSignatures(sigs)
	proof := &SkipBlockProof{Signature: agg, Signers: signers}

	lookup := func(slot uint32) *cryptoio.VotingKey { return keys[slot] }
	if !proof.Verify(info, policy, lookup) {
		t.Fatal("expected skip block proof with enough signers to verify")
	}
}

func TestSkipBlockProofRejectsTooFewSigners(t *testing.T) {
	policy := primitives.DefaultPolicy()
	policy.Slots = 10

	info := &SkipBlockInfo{BlockNumber: 1}
	msg := info.Hash()

	signers := primitives.NewBitSet(policy.Slots)
	sk, err := cryptoio.GenerateVotingKey()
	if err != nil {
		t.Fatal(err)
	}
	signers.Set(0)
	proof := &SkipBlockProof{Signature: sk.Sign(msg[:]), Signers: signers}

	lookup := func(slot uint32) *cryptoio.VotingKey { return sk.PublicKey() }
	if proof.Verify(info, policy, lookup) {
		t.Fatal("expected proof with too few signers to fail verification")
	}
}
