package zkp

import (
	"golang.org/x/crypto/blake2s"

	"github.com/albatross-chain/albacore/block"
	"github.com/albatross-chain/albacore/primitives"
)

// NanoZKPHash computes message = Blake2b(header) ∥ pk_tree_root (election
// blocks only) and returns Blake2s(message).
//
// recalculate re-derives pk_tree_root from b.Body.Validators instead of
// trusting b.Body.PkTreeRoot — used when verifying a block authored by
// a peer rather than one's own proposal.
func NanoZKPHash(b *block.MacroBlock, policy primitives.Policy, recalculate bool) ([32]byte, error) {
	headerHash := b.Header.Hash()
	message := make([]byte, 0, 32+32)
	message = append(message, headerHash[:]...)

	if b.Body != nil && b.Body.IsElection() {
		root := b.Body.PkTreeRoot
		if recalculate {
			recomputed, err := PkTreeRoot(b.Body.Validators, policy)
			if err != nil {
				return [32]byte{}, err
			}
			root = recomputed
		}
		message = append(message, root...)
	}

	return blake2s.Sum256(message), nil
}
