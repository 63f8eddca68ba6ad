package block

import (
	"golang.org/x/crypto/blake2b"

	"github.com/albatross-chain/albacore/primitives"
	"github.com/albatross-chain/albacore/wire"
)

// MicroBody carries the evidence and transactions of a regular or skip
// micro block.
type MicroBody struct {
	ForkProofs   []*ForkProof
	Transactions []*Transaction
}

// Hash returns the canonical Blake2b-256 body hash, which must equal
// the enclosing header's BodyRoot.
func (b *MicroBody) Hash() [32]byte {
	buf := make([]byte, 0, 256)
	buf = wire.PutUint32(buf, uint32(len(b.ForkProofs)))
	for _, fp := range b.ForkProofs {
		h := fp.CanonicalHash()
		buf = append(buf, h[:]...)
	}
	buf = wire.PutUint32(buf, uint32(len(b.Transactions)))
	for _, tx := range b.Transactions {
		buf = append(buf, tx.Hash[:]...)
	}
	return blake2b.Sum256(buf)
}

// SerializedSize approximates the wire size used against
// Policy.MaxSizeMicroBody.
func (b *MicroBody) SerializedSize() uint32 {
	size := uint32(8)
	for _, fp := range b.ForkProofs {
		size += uint32(len(fp.Signature1) + len(fp.Signature2) + 64 + 96)
	}
	for _, tx := range b.Transactions {
		size += uint32(32 + len(tx.Payload))
	}
	return size
}

// MacroBody carries the batch/epoch bookkeeping for a macro block.
type MacroBody struct {
	// Validators is non-nil iff this is an election block.
	Validators []*ValidatorInfo
	// PkTreeRoot is non-nil iff this is an election block.
	PkTreeRoot  []byte
	LostRewardSet *primitives.BitSet
	DisabledSet   *primitives.BitSet
}

// ValidatorInfo is the election-block snapshot of one validator's slot
// band and keys, sufficient to reconstruct slots.Validators and the
// pk_tree leaves.
type ValidatorInfo struct {
	Address        primitives.Address
	VotingKey      []byte
	SigningKey     []byte
	RewardAddress  primitives.Address
	NumSlots       uint32
}

// Hash returns the canonical Blake2b-256 body hash.
func (b *MacroBody) Hash() [32]byte {
	buf := make([]byte, 0, 256)
	if b.Validators != nil {
		buf = wire.PutUint32(buf, uint32(len(b.Validators)))
		for _, v := range b.Validators {
			buf = append(buf, v.Address[:]...)
			buf = wire.PutBytes(buf, v.VotingKey)
			buf = wire.PutBytes(buf, v.SigningKey)
			buf = append(buf, v.RewardAddress[:]...)
			buf = wire.PutUint32(buf, v.NumSlots)
		}
	} else {
		buf = wire.PutUint32(buf, 0)
	}
	buf = wire.PutBytes(buf, b.PkTreeRoot)
	if b.LostRewardSet != nil {
		lr, _ := b.LostRewardSet.MarshalBinary()
		buf = wire.PutBytes(buf, lr)
	} else {
		buf = wire.PutBytes(buf, nil)
	}
	if b.DisabledSet != nil {
		ds, _ := b.DisabledSet.MarshalBinary()
		buf = wire.PutBytes(buf, ds)
	} else {
		buf = wire.PutBytes(buf, nil)
	}
	return blake2b.Sum256(buf)
}

// IsElection reports whether this body carries election-block data.
func (b *MacroBody) IsElection() bool {
	return b.Validators != nil
}
