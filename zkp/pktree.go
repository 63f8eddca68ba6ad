// Package zkp computes the pk_tree_root and nano_zkp_hash commitments
// consumed by the (out-of-core) zk-SNARK successor-proof circuit, and
// verifies the Tendermint BFT justification of macro blocks. The proof
// system itself is treated as a collaborator; this package only
// produces/checks the values the circuit is keyed on.
package zkp

import (
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/albatross-chain/albacore/block"
	"github.com/albatross-chain/albacore/primitives"
)

var (
	leafDomain     = []byte("albacore/pk_tree/leaf")
	internalDomain = []byte("albacore/pk_tree/node")
)

// PkTreeRoot builds the fixed-arity Merkle commitment over an election
// block's validator voting keys.
//
// Requires len(validators) expanded to exactly policy.Slots leaves (one
// per slot, duplicated across a validator's band) and that Slots is
// evenly divisible by PkTreeBreadth, else InvalidValidators.
func PkTreeRoot(validators []*block.ValidatorInfo, policy primitives.Policy) ([]byte, error) {
	var total uint32
	for _, v := range validators {
		total += v.NumSlots
	}
	if total != policy.Slots {
		return nil, fmt.Errorf("zkp: validator slot bands sum to %d, want %d slots", total, policy.Slots)
	}
	if policy.Slots%policy.PkTreeBreadth != 0 {
		return nil, fmt.Errorf("zkp: slots %d not divisible by pk_tree breadth %d", policy.Slots, policy.PkTreeBreadth)
	}

	leaves := make([][]byte, 0, policy.Slots)
	for _, v := range validators {
		for i := uint32(0); i < v.NumSlots; i++ {
			h, _ := blake2b.New256(leafDomain)
			h.Write(v.VotingKey)
			leaves = append(leaves, h.Sum(nil))
		}
	}

	return pkTreeConstruct(leaves, int(policy.PkTreeBreadth)), nil
}

// pkTreeConstruct reduces leaves to a single root by repeatedly hashing
// fixed-size groups of `breadth` nodes together until one remains.
func pkTreeConstruct(level [][]byte, breadth int) []byte {
	for len(level) > 1 {
		next := make([][]byte, 0, (len(level)+breadth-1)/breadth)
		for i := 0; i < len(level); i += breadth {
			end := i + breadth
			if end > len(level) {
				end = len(level)
			}
			h, _ := blake2b.New256(internalDomain)
			for _, child := range level[i:end] {
				h.Write(child)
			}
			next = append(next, h.Sum(nil))
		}
		level = next
	}
	if len(level) == 0 {
		return make([]byte, 32)
	}
	return level[0]
}
