package block

import (
	"bytes"

	"golang.org/x/crypto/blake2b"

	"github.com/albatross-chain/albacore/primitives"
	"github.com/albatross-chain/albacore/wire"
)

// ForkProof evidences two conflicting micro headers produced at the
// same height, under the same predecessor VRF seed, by the same
// proposer — proof that a validator equivocated.
type ForkProof struct {
	Header1     *MicroHeader
	Header2     *MicroHeader
	Signature1  []byte
	Signature2  []byte
	PrevVrfSeed primitives.VrfSeed
}

// BlockNumber returns the shared height both conflicting headers claim.
func (f *ForkProof) BlockNumber() uint64 { return f.Header1.BlockNumber }

// CanonicalHash is the identity used for ordering and uniqueness
// checking.
func (f *ForkProof) CanonicalHash() [32]byte {
	buf := make([]byte, 0, 128)
	h1 := f.Header1.Hash()
	h2 := f.Header2.Hash()
	buf = append(buf, h1[:]...)
	buf = append(buf, h2[:]...)
	buf = wire.PutBytes(buf, f.Signature1)
	buf = wire.PutBytes(buf, f.Signature2)
	buf = append(buf, f.PrevVrfSeed[:]...)
	return blake2b.Sum256(buf)
}

// Less implements the strict ascent ordering fork proofs must respect
// within a MicroBody: lexicographic (block_number, canonical hash).
func (f *ForkProof) Less(other *ForkProof) bool {
	if f.BlockNumber() != other.BlockNumber() {
		return f.BlockNumber() < other.BlockNumber()
	}
	ha, hb := f.CanonicalHash(), other.CanonicalHash()
	return bytes.Compare(ha[:], hb[:]) < 0
}

// IsConflicting reports whether the two headers constitute genuine
// equivocation evidence: the same claimed height but distinct headers.
// A proof duplicating one honestly-signed header (Header1 == Header2)
// is not evidence of anything and must be rejected before its
// signatures are even checked.
func (f *ForkProof) IsConflicting() bool {
	return f.Header1.BlockNumber == f.Header2.BlockNumber && f.Header1.Hash() != f.Header2.Hash()
}

// IsValidAt treats the reporting window as epoch-scoped: a fork proof
// may be included in any block that falls within the same epoch as the
// proof's reported height. This keeps proof creation and verification
// consistent because both sides compute the epoch from the same
// Policy.
func (f *ForkProof) IsValidAt(blockNumber uint64, policy primitives.Policy) bool {
	bpe := uint64(policy.BlocksPerEpoch())
	if bpe == 0 {
		return false
	}
	return f.BlockNumber()/bpe == blockNumber/bpe
}

// VerifySignatures checks that both headers were indeed signed by the
// same proposer key, i.e. that this is evidence against one proposer
// rather than two headers from different proposers. Header distinctness
// is IsConflicting's job; seed binding to PrevVrfSeed is the caller's
// (it needs the proposer's voting key, not the signing key given here).
func (f *ForkProof) VerifySignatures(proposer interface {
	Verify(message, sig []byte) bool
}) bool {
	h1 := f.Header1.Hash()
	h2 := f.Header2.Hash()
	return proposer.Verify(h1[:], f.Signature1) && proposer.Verify(h2[:], f.Signature2)
}
