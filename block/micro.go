package block

import (
	"github.com/albatross-chain/albacore/primitives"
)

// MicroBlock is a regular or skip block in the producer chain.
type MicroBlock struct {
	Header        *MicroHeader
	Body          *MicroBody
	Justification *MicroJustification
}

// IsSkipBlock reports whether this block was produced via the skip
// path (no available proposer).
func (b *MicroBlock) IsSkipBlock() bool {
	return b.Justification != nil && b.Justification.IsSkip()
}

// Hash returns the block's identity: its header hash.
func (b *MicroBlock) Hash() [32]byte { return b.Header.Hash() }

// VerifyMicro runs the pure structural checks.
// headerOnly permits Body to be nil (a header-only push request);
// otherwise a nil Body is MissingBody.
func VerifyMicro(b *MicroBlock, policy primitives.Policy, headerOnly bool) *Error {
	h := b.Header
	if h.Version != policy.Version {
		return newErr(KindUnsupportedVersion)
	}
	if len(h.ExtraData) > MaxExtraDataLen {
		return newErr(KindExtraDataTooLarge)
	}

	isSkip := b.IsSkipBlock()
	if isSkip && len(h.ExtraData) != 0 {
		return newErr(KindExtraDataTooLarge)
	}

	if b.Justification == nil {
		return newErr(KindInvalidJustification)
	}
	if isSkip {
		if b.Justification.SkipProof == nil || b.Justification.Signature != nil {
			return newErr(KindInvalidJustification)
		}
	} else {
		if b.Justification.Signature == nil || b.Justification.SkipProof != nil {
			return newErr(KindInvalidJustification)
		}
	}

	if b.Body == nil {
		if headerOnly {
			return nil
		}
		return newErr(KindMissingBody)
	}

	if bodyHash := b.Body.Hash(); bodyHash != h.BodyRoot {
		return newErr(KindBodyHashMismatch)
	}
	if b.Body.SerializedSize() > policy.MaxSizeMicroBody {
		return newErr(KindSizeExceeded)
	}

	if isSkip {
		if len(b.Body.ForkProofs) != 0 || len(b.Body.Transactions) != 0 {
			return newErr(KindInvalidSkipBlockBody)
		}
		return nil
	}

	if err := verifyForkProofOrdering(b.Body.ForkProofs, h.BlockNumber, policy); err != nil {
		return err
	}
	if err := verifyTransactionUniqueness(b.Body.Transactions, h.BlockNumber); err != nil {
		return err
	}
	return nil
}

func verifyForkProofOrdering(proofs []*ForkProof, blockNumber uint64, policy primitives.Policy) *Error {
	seen := map[[32]byte]bool{}
	var prev *ForkProof
	for _, fp := range proofs {
		hash := fp.CanonicalHash()
		if seen[hash] {
			return newErr(KindDuplicateForkProof)
		}
		seen[hash] = true
		if prev != nil && !prev.Less(fp) {
			return newErr(KindForkProofsNotOrdered)
		}
		if !fp.IsConflicting() {
			return newErr(KindInvalidForkProof)
		}
		if !fp.IsValidAt(blockNumber, policy) {
			return newErr(KindInvalidForkProof)
		}
		prev = fp
	}
	return nil
}

func verifyTransactionUniqueness(txs []*Transaction, blockNumber uint64) *Error {
	seen := map[[32]byte]bool{}
	for _, tx := range txs {
		if seen[tx.Hash] {
			return newErr(KindDuplicateTransaction)
		}
		seen[tx.Hash] = true
		if !tx.IsValidAt(blockNumber) {
			return newErr(KindExpiredTransaction)
		}
	}
	return nil
}
