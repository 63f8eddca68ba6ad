package block

import (
	"bytes"

	"github.com/albatross-chain/albacore/primitives"
)

// MacroBlock is a batch-checkpoint or epoch-election block.
type MacroBlock struct {
	Header        *MacroHeader
	Body          *MacroBody
	Justification *TendermintProof
}

// Hash returns the block's identity: its header hash.
func (b *MacroBlock) Hash() [32]byte { return b.Header.Hash() }

// MacroVerifyDeps supplies the pure-function callbacks VerifyMacro
// needs but cannot compute itself without importing package zkp (which
// imports package block) — keeping block a dependency-free leaf package
// with pure functions and no state access.
type MacroVerifyDeps struct {
	// RecomputePkTreeRoot rebuilds the pk_tree_root commitment from the
	// election block's validator set.
	RecomputePkTreeRoot func(validators []*ValidatorInfo) ([]byte, error)
	// VerifyJustification checks the TendermintProof against the
	// block's nano-zkp hash and validator set.
	VerifyJustification func(b *MacroBlock) bool
}

// VerifyMacro runs the pure structural checks.
func VerifyMacro(b *MacroBlock, policy primitives.Policy, isElection bool, strictPkTreeRoot bool, deps MacroVerifyDeps) *Error {
	h := &b.Header.MicroHeader
	if h.Version != policy.Version {
		return newErr(KindUnsupportedVersion)
	}
	if len(h.ExtraData) > MaxExtraDataLen {
		return newErr(KindExtraDataTooLarge)
	}
	if b.Body == nil {
		return newErr(KindMissingBody)
	}
	if bodyHash := b.Body.Hash(); bodyHash != h.BodyRoot {
		return newErr(KindBodyHashMismatch)
	}

	if isElection {
		if b.Body.Validators == nil {
			return newErr(KindInvalidValidators)
		}
		if b.Body.PkTreeRoot == nil {
			return newErr(KindInvalidPkTreeRoot)
		}
		if strictPkTreeRoot && deps.RecomputePkTreeRoot != nil {
			recomputed, err := deps.RecomputePkTreeRoot(b.Body.Validators)
			if err != nil {
				return wrapErr(KindInvalidPkTreeRoot, err)
			}
			if !bytes.Equal(recomputed, b.Body.PkTreeRoot) {
				return newErr(KindInvalidPkTreeRoot)
			}
		}
	} else {
		if b.Body.Validators != nil {
			return newErr(KindInvalidValidators)
		}
		if b.Body.PkTreeRoot != nil {
			return newErr(KindInvalidPkTreeRoot)
		}
	}

	if b.Justification == nil {
		return newErr(KindInvalidJustification)
	}
	if deps.VerifyJustification != nil && !deps.VerifyJustification(b) {
		return newErr(KindInvalidJustification)
	}
	return nil
}
