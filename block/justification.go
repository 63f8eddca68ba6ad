package block

import (
	"github.com/albatross-chain/albacore/cryptoio"
	"github.com/albatross-chain/albacore/primitives"
)

// JustificationKind discriminates the two MicroBlock justification
// variants.
type JustificationKind int

const (
	JustificationMicro JustificationKind = iota
	JustificationSkip
)

// MicroJustification is either a direct proposer signature (Micro) or
// an aggregated skip-block proof (Skip).
type MicroJustification struct {
	Kind      JustificationKind
	Signature []byte
	SkipProof *SkipBlockProof
}

// IsSkip reports whether this justification is the Skip variant, which
// is what structurally makes the enclosing block a skip block.
func (j *MicroJustification) IsSkip() bool { return j.Kind == JustificationSkip }

// TendermintProof is the BFT justification of a macro block: an
// aggregated BLS signature by at least TwoFPlusOne distinct slots over
// the block's nano-zkp hash.
type TendermintProof struct {
	Round     uint32
	Signature *cryptoio.Signature
	Signers   *primitives.BitSet
}
