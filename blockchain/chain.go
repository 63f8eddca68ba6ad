// Package blockchain implements the push state machine: structural and
// semantic verification, proposer binding, chain-work comparison,
// extension, forking, and rebranching across the micro/macro two-tier
// chain, plus macro-block batch finalization via package inherents.
//
// Shaped after a mutex-guarded struct wrapping a KV-backed store,
// exposing a single locked "process a candidate" entry point and small
// locked read queries, widened here to an RWMutex for a single-writer,
// multi-reader model.
package blockchain

import (
	"fmt"
	"sync"
	"time"

	"github.com/albatross-chain/albacore/block"
	"github.com/albatross-chain/albacore/chainstore"
	"github.com/albatross-chain/albacore/cryptoio"
	"github.com/albatross-chain/albacore/inherents"
	"github.com/albatross-chain/albacore/observability/logging"
	"github.com/albatross-chain/albacore/primitives"
	"github.com/albatross-chain/albacore/slots"
	"github.com/albatross-chain/albacore/zkp"
)

var log = logging.NewComponentLogger(logging.CompBlockchain)

// blockInfo is the in-memory chain index entry: cheap metadata kept
// resident for every known block (main-chain or tracked fork) so chain
// work comparisons and ancestor walks never touch the KV engine.
// Durable block bytes still round-trip through chainstore.Store so a
// restarted node can reconstruct this index; package blockchain treats
// that reconstruction as the host binary's job (cmd/albacored), not
// its own.
type blockInfo struct {
	Hash        [32]byte
	ParentHash  [32]byte
	Height      uint64
	IsMacro     bool
	IsElection  bool
	SkipCount   uint32
	ReverseDiff []byte
	// TxFees is the transaction-fee income this block's own application
	// contributed to the open batch's cum_tx_fees, 0 for macro blocks.
	TxFees primitives.Coin
	// SlashInherents is the evidence (fork proofs and, for a skip
	// block, the skipped proposer) this block itself carries, already
	// resolved to Slash inherents; folded into the next macro block's
	// inherent set by collectBatchSlashInherents.
	SlashInherents []inherents.Inherent
	Candidate      Candidate
}

// MacroInfo mirrors the chain state's running macro_info: the last
// finalized macro block plus the tx fees accumulated in the batch
// since it.
type MacroInfo struct {
	Hash             [32]byte
	Height           uint64
	CumTxFeesInBatch primitives.Coin
}

// epochValidators bundles the two views of a validator set the chain
// needs: address/reward bands for inherents, and a slot->voting-key
// index for cryptographic verification.
type epochValidators struct {
	Rewards     inherents.Validators
	Keys        *votingKeyIndex
	SigningKeys *signingKeyIndex
}

// signingKeyIndex resolves a slot id to its owning validator's proposer
// signing key, mirroring votingKeyIndex but over the Ed25519 keys
// bound by cryptoio.SigningPublicKey.
type signingKeyIndex struct {
	bands []*block.ValidatorInfo
	cache map[int]*cryptoio.SigningPublicKey
	mu    sync.Mutex
}

func newSigningKeyIndex(bands []*block.ValidatorInfo) *signingKeyIndex {
	return &signingKeyIndex{bands: bands, cache: map[int]*cryptoio.SigningPublicKey{}}
}

// KeyForSlot returns the signing key owning slot, or nil if no band
// covers it or the key fails to parse.
func (v *signingKeyIndex) KeyForSlot(slot uint32) *cryptoio.SigningPublicKey {
	first := uint32(0)
	for i, b := range v.bands {
		if slot >= first && slot < first+b.NumSlots {
			v.mu.Lock()
			defer v.mu.Unlock()
			if k, ok := v.cache[i]; ok {
				return k
			}
			k, err := cryptoio.SigningPublicKeyFromBytes(b.SigningKey)
			if err != nil {
				return nil
			}
			v.cache[i] = k
			return k
		}
		first += b.NumSlots
	}
	return nil
}

// Chain is the locked, single-process view of BlockchainState.
type Chain struct {
	mu sync.RWMutex

	policy   primitives.Policy
	selector slots.Selector
	store    *chainstore.Store
	accounts Accounts

	blocks map[[32]byte]*blockInfo
	tip    [32]byte

	lastMacroHeight uint64
	macroInfo       MacroInfo

	currentSlots  *epochValidators
	previousSlots *epochValidators
	// currentEpoch is the epoch currentSlots serves: the epoch after
	// the one the last applied election block closed.
	currentEpoch uint64

	disabledSet   *primitives.BitSet
	lostRewardSet *primitives.BitSet

	// genesisSupply/genesisTimestamp anchor Policy.SupplyAt's curve.
	// This chain only ever boots from a zero-premine genesis — there is
	// no way to set a premined genesis since GenesisConfig carries no
	// supply field — so genesisSupply is always 0.
	genesisSupply    primitives.Coin
	genesisTimestamp uint64
}

// New bootstraps a Chain from a genesis macro (election) block and the
// Accounts collaborator's initial trie, persisting genesis and
// recording it as the main-chain tip at height 0.
func New(policy primitives.Policy, store *chainstore.Store, accounts Accounts, genesis *block.MacroBlock) (*Chain, error) {
	if genesis.Body == nil || !genesis.Body.IsElection() {
		return nil, fmt.Errorf("blockchain: genesis must be an election macro block")
	}
	rewards, keys, signingKeys, err := validatorsFromInfos(genesis.Body.Validators)
	if err != nil {
		return nil, fmt.Errorf("blockchain: genesis validators: %w", err)
	}
	hash := genesis.Hash()
	c := &Chain{
		policy:   policy,
		selector: slots.New(policy),
		store:    store,
		accounts: accounts,
		blocks:   map[[32]byte]*blockInfo{},
		tip:      hash,
		macroInfo: MacroInfo{
			Hash:   hash,
			Height: genesis.Header.BlockNumber,
		},
		currentSlots:     &epochValidators{Rewards: rewards, Keys: keys, SigningKeys: signingKeys},
		currentEpoch:     policy.EpochAt(genesis.Header.BlockNumber) + 1,
		disabledSet:      primitives.NewBitSet(policy.Slots),
		lostRewardSet:    primitives.NewBitSet(policy.Slots),
		genesisTimestamp: genesis.Header.Timestamp,
	}
	info := &blockInfo{
		Hash:       hash,
		ParentHash: genesis.Header.ParentHash,
		Height:     genesis.Header.BlockNumber,
		IsMacro:    true,
		IsElection: true,
		Candidate:  Candidate{Macro: genesis},
	}
	c.blocks[hash] = info
	c.lastMacroHeight = genesis.Header.BlockNumber
	data, err := encodeCandidate(info.Candidate)
	if err != nil {
		return nil, err
	}
	if err := store.PutBlock(&chainstore.Record{Hash: hash, Height: info.Height, IsMacro: true, IsElection: true, Data: data}, true); err != nil {
		return nil, err
	}
	if err := store.SetMainChainTip(hash); err != nil {
		return nil, err
	}
	return c, nil
}

// Tip returns the current main-chain tip hash.
func (c *Chain) Tip() [32]byte {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tip
}

// HeadHeight returns the height of the current main-chain tip.
func (c *Chain) HeadHeight() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks[c.tip].Height
}

// GetBlock returns a previously pushed block (main-chain or tracked
// fork) by hash.
func (c *Chain) GetBlock(hash [32]byte) (Candidate, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.blocks[hash]
	if !ok {
		return Candidate{}, false
	}
	return info.Candidate, true
}

// LastMacroHeight returns the height of the most recently finalized
// (committed) macro block — the finality boundary a candidate's parent
// can never fall below without being Ignored outright.
func (c *Chain) LastMacroHeight() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastMacroHeight
}

func chainWorkGreater(heightA uint64, skipA uint32, heightB uint64, skipB uint32) bool {
	if heightA != heightB {
		return heightA > heightB
	}
	return skipA < skipB
}

func timeSince(start time.Time) float64 { return time.Since(start).Seconds() }

// votingKeyIndex resolves a slot id to its owning validator's voting
// key, lazily parsing compressed keys from a block.ValidatorInfo band
// list (the election block's body.Validators).
type votingKeyIndex struct {
	bands []*block.ValidatorInfo
	cache map[int]*cryptoio.VotingKey
	mu    sync.Mutex
}

func newVotingKeyIndex(bands []*block.ValidatorInfo) *votingKeyIndex {
	return &votingKeyIndex{bands: bands, cache: map[int]*cryptoio.VotingKey{}}
}

// KeyForSlot returns the voting key owning slot, or nil if no band
// covers it or the key fails to parse.
func (v *votingKeyIndex) KeyForSlot(slot uint32) *cryptoio.VotingKey {
	first := uint32(0)
	for i, b := range v.bands {
		if slot >= first && slot < first+b.NumSlots {
			v.mu.Lock()
			defer v.mu.Unlock()
			if k, ok := v.cache[i]; ok {
				return k
			}
			k, err := cryptoio.VotingKeyFromBytes(b.VotingKey)
			if err != nil {
				return nil
			}
			v.cache[i] = k
			return k
		}
		first += b.NumSlots
	}
	return nil
}

// validatorsFromInfos projects an election block's body.Validators
// into the reward-bookkeeping Validators shape plus a voting-key index
// and a signing-key index, all built from the same ordering so slot
// band i means the same validator in every view.
func validatorsFromInfos(infos []*block.ValidatorInfo) (inherents.Validators, *votingKeyIndex, *signingKeyIndex, error) {
	out := inherents.Validators{Bands: make([]inherents.ValidatorBand, len(infos))}
	first := uint32(0)
	for i, v := range infos {
		out.Bands[i] = inherents.ValidatorBand{
			ValidatorAddress: v.Address,
			RewardAddress:    v.RewardAddress,
			FirstSlot:        first,
			NumSlots:         v.NumSlots,
		}
		first += v.NumSlots
	}
	return out, newVotingKeyIndex(infos), newSigningKeyIndex(infos), nil
}

// macroVerifyDeps builds the block.MacroVerifyDeps the
// structural verifier needs, bound to this chain's current voting-key
// index.
func (c *Chain) macroVerifyDeps(keys *votingKeyIndex) block.MacroVerifyDeps {
	return block.MacroVerifyDeps{
		RecomputePkTreeRoot: func(validators []*block.ValidatorInfo) ([]byte, error) {
			return zkp.PkTreeRoot(validators, c.policy)
		},
		VerifyJustification: func(b *block.MacroBlock) bool {
			return zkp.VerifyTendermint(b, c.policy, keys.KeyForSlot)
		},
	}
}
