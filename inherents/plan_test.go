package inherents

import (
	"testing"

	"github.com/albatross-chain/albacore/primitives"
)

func threeBandValidators() Validators {
	return Validators{Bands: []ValidatorBand{
		{ValidatorAddress: primitives.Address{1}, RewardAddress: primitives.Address{1}, FirstSlot: 0, NumSlots: 4},
		{ValidatorAddress: primitives.Address{2}, RewardAddress: primitives.Address{2}, FirstSlot: 4, NumSlots: 4},
		{ValidatorAddress: primitives.Address{3}, RewardAddress: primitives.Address{3}, FirstSlot: 8, NumSlots: 4},
	}}
}

func TestPlanBatchRewardsConservation(t *testing.T) {
	vs := threeBandValidators()
	slashed := primitives.NewBitSet(12)
	slashed.Set(1) // one slashed slot inside validator 1's band

	rewardPot := primitives.Coin(1009) // not evenly divisible by 12 -> nonzero remainder
	plan, err := PlanBatchRewards(vs, slashed, rewardPot, 12)
	if err != nil {
		t.Fatal(err)
	}

	var sumRewards primitives.Coin
	for _, r := range plan.Rewards {
		var err error
		sumRewards, err = sumRewards.Add(r.Value)
		if err != nil {
			t.Fatal(err)
		}
	}
	total, err := sumRewards.Add(plan.BurnedFromSlash)
	if err != nil {
		t.Fatal(err)
	}
	total, err = total.Add(plan.Remainder)
	if err != nil {
		t.Fatal(err)
	}
	if total != rewardPot {
		t.Fatalf("reward conservation violated: sum(rewards)+burned+remainder = %d, want %d", total, rewardPot)
	}
	if uint32(plan.Remainder) >= 12 {
		t.Fatalf("remainder %d should be < slots (12)", plan.Remainder)
	}
}

func TestPlanBatchRewardsSlashAccounting(t *testing.T) {
	vs := threeBandValidators()
	slashed := primitives.NewBitSet(12)
	slashed.Set(1)
	slashed.Set(9)
	slashed.Set(10)

	plan, err := PlanBatchRewards(vs, slashed, primitives.Coin(1200), 12)
	if err != nil {
		t.Fatal(err)
	}
	// Validator 0 (slots 0-3): 1 slashed -> 3 eligible.
	if plan.Rewards[0].NumEligible != 3 {
		t.Fatalf("band 0 eligible = %d, want 3", plan.Rewards[0].NumEligible)
	}
	// Validator 1 (slots 4-7): none slashed -> 4 eligible.
	if plan.Rewards[1].NumEligible != 4 {
		t.Fatalf("band 1 eligible = %d, want 4", plan.Rewards[1].NumEligible)
	}
	// Validator 2 (slots 8-11): 2 slashed -> 2 eligible.
	if plan.Rewards[2].NumEligible != 2 {
		t.Fatalf("band 2 eligible = %d, want 2", plan.Rewards[2].NumEligible)
	}
	// slotReward = 1200/12 = 100; burned = 100*3 (3 total slashed slots).
	if plan.BurnedFromSlash != 300 {
		t.Fatalf("burned = %d, want 300", plan.BurnedFromSlash)
	}
}

func TestPlanBatchRewardsRejectsGappyBands(t *testing.T) {
	vs := Validators{Bands: []ValidatorBand{{FirstSlot: 0, NumSlots: 4}, {FirstSlot: 5, NumSlots: 4}}}
	if _, err := PlanBatchRewards(vs, nil, 100, 9); err == nil {
		t.Fatal("expected error for gappy validator bands")
	}
}
