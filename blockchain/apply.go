package blockchain

import (
	"fmt"
	"time"

	"github.com/albatross-chain/albacore/block"
	"github.com/albatross-chain/albacore/chainstore"
	"github.com/albatross-chain/albacore/inherents"
	"github.com/albatross-chain/albacore/primitives"
)

// applyAndCommit mutates Accounts for a single candidate, checks the
// resulting root against the header's claim, and durably persists the
// block (main-chain or fork) alongside its reverse diff. Used both by
// the fast-path Extend in Push and, block-by-block, by rebranch.
func (c *Chain) applyAndCommit(cand Candidate, parent *blockInfo, skip uint32, isMainChain bool) (*blockInfo, error) {
	hash := cand.Hash()
	height := parent.Height + 1
	isMacro := cand.IsMacro()
	isElection := isMacro && c.policy.IsElectionBlock(height)

	var reverseDiff []byte
	var fees primitives.Coin
	var slashInherents []inherents.Inherent
	var err error
	if isMacro {
		reverseDiff, err = c.applyMacro(cand.Macro, height, isElection)
	} else {
		reverseDiff, fees, err = c.accounts.ApplyMicro(cand.Micro)
		if err == nil {
			slashInherents = c.slashInherentsForMicro(cand.Micro, cand.IsSkip(), parent)
		}
	}
	if err != nil {
		return nil, err
	}

	if c.accounts.StateRoot() != cand.header().StateRoot {
		if rerr := c.accounts.Revert(reverseDiff); rerr != nil {
			log.Error("revert after state root mismatch failed", "err", rerr)
		}
		return nil, &PushError{Kind: KindStateRootMismatch}
	}

	if isMainChain && !isMacro {
		c.macroInfo.CumTxFeesInBatch += fees
	}

	info := &blockInfo{
		Hash:           hash,
		ParentHash:     cand.ParentHash(),
		Height:         height,
		IsMacro:        isMacro,
		IsElection:     isElection,
		SkipCount:      parent.SkipCount + skip,
		ReverseDiff:    reverseDiff,
		TxFees:         fees,
		SlashInherents: slashInherents,
		Candidate:      cand,
	}
	data, err := encodeCandidate(cand)
	if err != nil {
		return nil, err
	}
	if err := c.store.PutBlock(&chainstore.Record{
		Hash: hash, Height: height, IsMacro: isMacro, IsElection: isElection,
		Data: data, ReverseDiff: reverseDiff,
	}, isMainChain); err != nil {
		return nil, err
	}
	if err := c.store.SetChainInfo(hash, isMainChain, c.macroInfo.CumTxFeesInBatch); err != nil {
		return nil, err
	}
	if isMainChain {
		if err := c.store.SetMainChainTip(hash); err != nil {
			return nil, err
		}
	}
	return info, nil
}

// applyMacro finalizes the batch the macro block closes (computing and
// applying its inherents) and, at an election boundary, rotates the
// active validator set. The macro body's committed disabled/lost-reward
// sets are both the input to this batch's finalization and, once
// applied, the new running state those sets track going forward.
func (c *Chain) applyMacro(m *block.MacroBlock, height uint64, isElection bool) ([]byte, error) {
	start := time.Now()
	defer func() { InherentPlanningTime.Observe(timeSince(start)) }()

	prevBatchIndex := c.policy.BatchIndex(c.macroInfo.Height)
	currBatchIndex := c.policy.BatchIndex(height)

	var prevSlots *inherents.Validators
	if c.previousSlots != nil {
		prevSlots = &c.previousSlots.Rewards
	}
	currSlots := c.currentSlots.Rewards

	ins := inherents.FinalizeBatch(inherents.BatchFinalizationParams{
		Policy:                  c.policy,
		PrevMacroBatchIndex:     prevBatchIndex,
		PrevCumTxFees:           c.macroInfo.CumTxFeesInBatch,
		CurrentMacroBatchIndex:  currBatchIndex,
		CurrentMacroBlockNumber: height,
		RewardSeed:              m.Header.MicroHeader.Seed,
		GenesisSupply:           c.genesisSupply,
		GenesisTimestamp:        c.genesisTimestamp,
		Staking: inherents.StakingSnapshot{
			PreviousLostRewards:   m.Body.LostRewardSet,
			PreviousDisabledSlots: m.Body.DisabledSet,
		},
		CurrentSlots:  &currSlots,
		PreviousSlots: prevSlots,
		Accept:        c.accounts.Accept,
	})

	if slashes := c.collectBatchSlashInherents(m.Header.ParentHash); len(slashes) > 0 {
		merged := make([]inherents.Inherent, 0, len(slashes)+len(ins))
		merged = append(merged, slashes...)
		merged = append(merged, ins...)
		ins = merged
	}

	if prevBatchIndex != 0 {
		rewardPot := c.policy.BlockRewardForBatch(c.genesisSupply, prevBatchIndex-1, currBatchIndex-1) + c.macroInfo.CumTxFeesInBatch
		var burned primitives.Coin
		for _, in := range ins {
			if in.Kind == inherents.KindReward && in.RewardTarget == primitives.BurnAddress {
				burned += in.RewardValue
			}
		}
		RewardPotPerBatch.Observe(float64(rewardPot))
		BurnedRewardPerBatch.Observe(float64(burned))
	}

	reverseDiff, err := c.accounts.ApplyMacro(m, ins)
	if err != nil {
		return nil, err
	}

	c.lastMacroHeight = height
	c.macroInfo = MacroInfo{Hash: m.Hash(), Height: height}
	c.disabledSet = m.Body.DisabledSet
	c.lostRewardSet = m.Body.LostRewardSet

	if isElection {
		rewards, keys, signingKeys, verr := validatorsFromInfos(m.Body.Validators)
		if verr != nil {
			return nil, verr
		}
		c.previousSlots = c.currentSlots
		c.currentSlots = &epochValidators{Rewards: rewards, Keys: keys, SigningKeys: signingKeys}
		c.currentEpoch = c.policy.EpochAt(height) + 1
	}

	return reverseDiff, nil
}

// slashInherentsForMicro computes the Slash inherents this block's own
// evidence accuses: one per carried fork proof, keyed by the proof's
// own reported height and prev_vrf_seed entropy, plus — if the block
// itself took the skip path — one for the proposer it skipped, keyed
// by the parent's vrf_entropy. Both reconstruct the offending slot via
// the same SlotSelector the chain uses for ordinary proposer binding.
// These accumulate on the blockInfo and are folded into the batch's
// inherent set when the next macro block finalizes it.
func (c *Chain) slashInherentsForMicro(m *block.MicroBlock, isSkip bool, parent *blockInfo) []inherents.Inherent {
	var out []inherents.Inherent
	for _, fp := range m.Body.ForkProofs {
		bn := fp.BlockNumber()
		validators := c.validatorsFor(bn)
		out = append(out, inherents.SlashInherentForForkProof(c.selector, bn, fp.PrevVrfSeed.Entropy(), c.disabledSet, validators))
	}
	if isSkip {
		bn := m.Header.BlockNumber
		parentEntropy := parent.Candidate.header().Seed.Entropy()
		validators := c.validatorsFor(bn)
		out = append(out, inherents.SlashInherentForSkipBlock(c.selector, bn, parentEntropy, c.disabledSet, validators))
	}
	return out
}

// collectBatchSlashInherents walks the main chain from parentHash back
// to (not including) the last finalized macro block, gathering every
// micro block's accumulated Slash inherents — the batch's full set of
// equivocation/skip evidence, ready to fold into the closing macro
// block's inherent list.
func (c *Chain) collectBatchSlashInherents(parentHash [32]byte) []inherents.Inherent {
	var out []inherents.Inherent
	cur := parentHash
	for {
		info, ok := c.blocks[cur]
		if !ok || info.Height <= c.lastMacroHeight {
			break
		}
		out = append(out, info.SlashInherents...)
		cur = info.ParentHash
	}
	return out
}

// applyStep is one link of the apply-path computed by
// collectApplyPath: a candidate plus the skip delta it contributes.
type applyStep struct {
	cand Candidate
	skip uint32
}

// findCommonAncestor walks the current tip and parent back to equal
// height, then together, until their hashes match. Rebranching never
// needs to cross the last finalized macro height — the finality rule
// already rejected that candidate before reaching here — so hitting
// that floor without converging means the two chains are not actually
// related.
func (c *Chain) findCommonAncestor(parent *blockInfo) (*blockInfo, bool) {
	a := parent
	b := c.blocks[c.tip]
	for a.Height > b.Height {
		p, ok := c.blocks[a.ParentHash]
		if !ok {
			return nil, false
		}
		a = p
	}
	for b.Height > a.Height {
		p, ok := c.blocks[b.ParentHash]
		if !ok {
			return nil, false
		}
		b = p
	}
	for a.Hash != b.Hash {
		if a.Height <= c.lastMacroHeight {
			return nil, false
		}
		pa, ok := c.blocks[a.ParentHash]
		if !ok {
			return nil, false
		}
		pb, ok := c.blocks[b.ParentHash]
		if !ok {
			return nil, false
		}
		a, b = pa, pb
	}
	return a, true
}

// collectRevertPath returns the current tip's blocks back to (not
// including) ancestor, tip-first, so Revert can be replayed in that
// order against the account trie's reverse diffs.
func (c *Chain) collectRevertPath(ancestor *blockInfo) ([]*blockInfo, bool) {
	var out []*blockInfo
	cur := c.blocks[c.tip]
	for cur.Hash != ancestor.Hash {
		out = append(out, cur)
		p, ok := c.blocks[cur.ParentHash]
		if !ok {
			return nil, false
		}
		cur = p
	}
	return out, true
}

// collectApplyPath walks the candidate's ancestry back to ancestor and
// returns the steps in forward (ancestor-first) order.
func (c *Chain) collectApplyPath(cand Candidate, ancestor *blockInfo) ([]applyStep, bool) {
	var steps []applyStep
	cur := cand
	for {
		skip := uint32(0)
		if cur.IsSkip() {
			skip = 1
		}
		steps = append([]applyStep{{cand: cur, skip: skip}}, steps...)
		ph := cur.ParentHash()
		if ph == ancestor.Hash {
			break
		}
		info, ok := c.blocks[ph]
		if !ok {
			return nil, false
		}
		cur = info.Candidate
	}
	return steps, true
}

// rebranch reverts the current chain back to the fork point, applies
// the new branch, and if any step of the new branch fails, restores
// the original tip exactly so a push either commits all of its writes
// or none.
func (c *Chain) rebranch(cand Candidate, parent *blockInfo, skip uint32) error {
	ancestor, ok := c.findCommonAncestor(parent)
	if !ok {
		return &PushError{Kind: KindInvalidFork}
	}
	toRevert, ok := c.collectRevertPath(ancestor)
	if !ok {
		return &PushError{Kind: KindInvalidFork}
	}
	newChain, ok := c.collectApplyPath(cand, ancestor)
	if !ok {
		return &PushError{Kind: KindInvalidFork}
	}

	for _, b := range toRevert {
		if b.ReverseDiff == nil {
			continue
		}
		if err := c.accounts.Revert(b.ReverseDiff); err != nil {
			return &PushError{Kind: KindInvalidFork, Cause: err}
		}
		c.macroInfo.CumTxFeesInBatch -= b.TxFees
	}

	applyParent := ancestor
	var applied []*blockInfo
	var failed error
	for _, step := range newChain {
		info, err := c.applyAndCommit(step.cand, applyParent, step.skip, true)
		if err != nil {
			failed = err
			break
		}
		c.blocks[info.Hash] = info
		applied = append(applied, info)
		applyParent = info
	}

	if failed != nil {
		for i := len(applied) - 1; i >= 0; i-- {
			if applied[i].ReverseDiff != nil {
				_ = c.accounts.Revert(applied[i].ReverseDiff)
			}
			c.macroInfo.CumTxFeesInBatch -= applied[i].TxFees
		}
		restoreParent := ancestor
		for i := len(toRevert) - 1; i >= 0; i-- {
			b := toRevert[i]
			skipDelta := b.SkipCount - restoreParent.SkipCount
			info, err := c.applyAndCommit(b.Candidate, restoreParent, skipDelta, true)
			if err != nil {
				return &PushError{Kind: KindInvalidFork, Cause: fmt.Errorf("rebranch: restore original tip failed: %w", err)}
			}
			c.blocks[info.Hash] = info
			restoreParent = info
		}
		c.tip = restoreParent.Hash
		if err := c.store.SetMainChainTip(c.tip); err != nil {
			return err
		}
		return &PushError{Kind: KindInvalidFork, Cause: failed}
	}

	c.tip = applyParent.Hash
	return c.store.SetMainChainTip(c.tip)
}
