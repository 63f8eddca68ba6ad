// Package primitives holds the process-wide constants and small value
// types shared by every other core package: coins, addresses, bitsets
// and the VRF seed/entropy chain.
package primitives

// Policy bundles the protocol-wide constants that size and schedule the
// two-tier chain. A single Policy value is threaded through the core
// rather than read from package-level globals, so tests can exercise
// small SLOTS/BLOCKS_PER_BATCH values without rebuilding the binary.
type Policy struct {
	Version uint16

	Slots uint32

	BlocksPerBatch  uint32
	BatchesPerEpoch uint32

	// MaxSizeMicroBody bounds the serialized size of a MicroBody.
	MaxSizeMicroBody uint32

	// BlockSeparationTime is the minimum timestamp delta, in
	// milliseconds, between a micro block and its parent.
	BlockSeparationTime uint64

	// BlockProducerTimeout is the minimum timestamp delta required
	// before a skip block may be produced in place of a missing
	// regular proposer.
	BlockProducerTimeout uint64

	// PkTreeBreadth is the fixed fan-out of the pk_tree_root Merkle
	// tree. Slots must be evenly divisible by it.
	PkTreeBreadth uint32

	// TotalSupply is the asymptotic maximum issued Coin supply.
	TotalSupply Coin
	// SupplyDecayBatches controls how quickly the per-batch reward
	// approaches zero: the undistributed portion of TotalSupply halves
	// every SupplyDecayBatches batches.
	SupplyDecayBatches uint64
}

// BlocksPerEpoch returns BatchesPerEpoch * BlocksPerBatch.
func (p Policy) BlocksPerEpoch() uint32 {
	return p.BatchesPerEpoch * p.BlocksPerBatch
}

// TwoFPlusOne returns the minimum number of distinct slots required to
// finalize a BFT justification: ceil(2*Slots/3) + 1.
func (p Policy) TwoFPlusOne() uint32 {
	return (2*p.Slots+2)/3 + 1
}

// IsMacroBlock reports whether the block at the given height is a macro
// (batch-boundary) block.
func (p Policy) IsMacroBlock(height uint64) bool {
	return height%uint64(p.BlocksPerBatch) == 0
}

// IsElectionBlock reports whether the block at the given height is an
// election (epoch-boundary) macro block.
func (p Policy) IsElectionBlock(height uint64) bool {
	bpe := uint64(p.BlocksPerEpoch())
	return bpe != 0 && height%bpe == 0
}

// EpochAt returns the epoch a block at the given height belongs to.
// The election block closing an epoch belongs to that epoch, so
// EpochAt(BlocksPerEpoch) = 1 and the first block after it opens epoch
// 2. Height 0 (the genesis election) is epoch 0.
func (p Policy) EpochAt(height uint64) uint64 {
	bpe := uint64(p.BlocksPerEpoch())
	if bpe == 0 {
		return 0
	}
	return (height + bpe - 1) / bpe
}

// BatchIndex returns the zero-based index of the batch a macro block at
// the given height concludes.
func (p Policy) BatchIndex(macroHeight uint64) uint64 {
	if p.BlocksPerBatch == 0 {
		return 0
	}
	return macroHeight / uint64(p.BlocksPerBatch)
}

// IsFirstBatchOfEpoch reports whether the macro block at macroHeight is
// the first batch checkpoint within its epoch (used by InherentEngine
// to pick previous_slots vs. current_slots).
func (p Policy) IsFirstBatchOfEpoch(macroHeight uint64) bool {
	if p.BlocksPerBatch == 0 {
		return false
	}
	return p.BatchIndex(macroHeight)%uint64(p.BatchesPerEpoch) == 1
}

// DefaultPolicy returns the production-sized constants: 512 slots, 1
// macro per 32 micro blocks, 8 batches per epoch, pk_tree arity of 4 so
// that Slots divides evenly.
func DefaultPolicy() Policy {
	return Policy{
		Version:              1,
		Slots:                512,
		BlocksPerBatch:       32,
		BatchesPerEpoch:      8,
		MaxSizeMicroBody:     1 << 20,
		BlockSeparationTime:  1000,
		BlockProducerTimeout: 4000,
		PkTreeBreadth:        4,
		TotalSupply:          21_000_000_00000000,
		SupplyDecayBatches:   1_000_000,
	}
}

// SupplyAt returns the cumulative issued supply once batchIndex batches
// have been finalized since genesisSupply, under a halving-per-
// SupplyDecayBatches curve: within each decay period of
// SupplyDecayBatches batches, half of the remaining gap between
// TotalSupply and the period-start supply is issued linearly, one equal
// tranche per batch. Issuance is non-decreasing, asymptotic to
// TotalSupply, and uses only integer shifts and division, so it stays
// bit-reproducible across implementations.
func (p Policy) SupplyAt(genesisSupply Coin, batchIndex uint64) Coin {
	if p.SupplyDecayBatches == 0 {
		return p.TotalSupply
	}
	gap := uint64(p.TotalSupply - genesisSupply)
	period := batchIndex / p.SupplyDecayBatches
	if period >= 63 {
		return p.TotalSupply
	}
	gapAtStart := gap >> period
	perBatch := gapAtStart / (2 * p.SupplyDecayBatches)
	within := batchIndex % p.SupplyDecayBatches
	return p.TotalSupply - Coin(gapAtStart) + Coin(perBatch*within)
}

// BlockRewardForBatch returns the newly issued Coin between the batch
// that ended at prevBatchIndex and the one ending at currBatchIndex,
// i.e. SupplyAt(curr) - SupplyAt(prev). Never negative because SupplyAt
// is monotonically non-decreasing in batchIndex.
func (p Policy) BlockRewardForBatch(genesisSupply Coin, prevBatchIndex, currBatchIndex uint64) Coin {
	return p.SupplyAt(genesisSupply, currBatchIndex) - p.SupplyAt(genesisSupply, prevBatchIndex)
}
