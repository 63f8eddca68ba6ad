package blockchain

import (
	"github.com/albatross-chain/albacore/block"
	"github.com/albatross-chain/albacore/primitives"
)

// Candidate is a block offered to Push — exactly one of Micro or Macro
// is set. Height, hash, and parent accessors are unified here so push's
// state machine does not need to branch on variant for the checks
// shared by both block kinds.
type Candidate struct {
	Micro *block.MicroBlock
	Macro *block.MacroBlock
}

// IsMacro reports whether this candidate is a batch/epoch checkpoint.
func (c Candidate) IsMacro() bool { return c.Macro != nil }

func (c Candidate) header() *block.MicroHeader {
	if c.Macro != nil {
		return &c.Macro.Header.MicroHeader
	}
	return c.Micro.Header
}

// Hash returns the candidate's header hash, its chain identity.
func (c Candidate) Hash() [32]byte {
	if c.Macro != nil {
		return c.Macro.Hash()
	}
	return c.Micro.Hash()
}

// BlockNumber returns the candidate's claimed height.
func (c Candidate) BlockNumber() uint64 { return c.header().BlockNumber }

// ParentHash returns the candidate's claimed predecessor.
func (c Candidate) ParentHash() [32]byte { return c.header().ParentHash }

// Timestamp returns the candidate's claimed production time (ms).
func (c Candidate) Timestamp() uint64 { return c.header().Timestamp }

// Seed returns the candidate's VRF seed.
func (c Candidate) Seed() primitives.VrfSeed { return c.header().Seed }

// IsSkip reports whether a micro candidate took the skip-block path.
// Always false for macro candidates.
func (c Candidate) IsSkip() bool {
	return c.Micro != nil && c.Micro.IsSkipBlock()
}
