package inherents

import (
	"fmt"

	"github.com/albatross-chain/albacore/primitives"
)

// AcceptFunc probes the Accounts trie for a reward target: it returns
// true if the address is absent or holds a Basic account (eligible to
// receive batch rewards), false if it holds a contract (rewards to
// contracts are dropped and burned instead).
type AcceptFunc func(addr primitives.Address) bool

// Bind runs the Accounts-trie acceptance probe, followed by the
// VRF-seeded alias-method tie-break of the reward-pot remainder across
// the accepted rewards.
//
// rng must already be seeded by macro_header.seed under
// VrfUseCaseRewardDistribution; Bind draws at most one sample from it.
func Bind(plan *Plan, accept AcceptFunc, rng *primitives.Rng) ([]Inherent, error) {
	var out []Inherent
	var weights []uint64
	burned := plan.BurnedFromSlash

	for _, pr := range plan.Rewards {
		if pr.NumEligible == 0 {
			continue
		}
		if accept(pr.RewardAddress) {
			out = append(out, Inherent{Kind: KindReward, RewardTarget: pr.RewardAddress, RewardValue: pr.Value})
			weights = append(weights, uint64(pr.NumEligible))
			continue
		}
		var err error
		burned, err = burned.Add(pr.Value)
		if err != nil {
			return nil, fmt.Errorf("inherents: burned-reward overflow on rejected account: %w", err)
		}
	}

	if plan.Remainder > 0 {
		if len(out) > 0 {
			am := NewAliasMethod(weights)
			idx := am.Sample(rng)
			var err error
			out[idx].RewardValue, err = out[idx].RewardValue.Add(plan.Remainder)
			if err != nil {
				return nil, fmt.Errorf("inherents: remainder addition overflow: %w", err)
			}
		} else {
			var err error
			burned, err = burned.Add(plan.Remainder)
			if err != nil {
				return nil, fmt.Errorf("inherents: burned-remainder overflow: %w", err)
			}
		}
	}

	if burned > 0 {
		out = append(out, Inherent{Kind: KindReward, RewardTarget: primitives.BurnAddress, RewardValue: burned})
	}

	return out, nil
}
