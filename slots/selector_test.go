package slots

import (
	"testing"

	"github.com/albatross-chain/albacore/primitives"
)

func testPolicy() primitives.Policy {
	p := primitives.DefaultPolicy()
	p.Slots = 16
	return p
}

func flatValidators(slots uint32) Validators {
	return Validators{Bands: []Band{{ValidatorIndex: 0, FirstSlot: 0, NumSlots: slots}}}
}

func TestProposerAtDeterministic(t *testing.T) {
	sel := New(testPolicy())
	entropy := [32]byte{7, 7, 7}
	vs := flatValidators(16)

	a := sel.ProposerAt(3, entropy, nil, vs)
	b := sel.ProposerAt(3, entropy, nil, vs)
	if a != b {
		t.Fatalf("selection not deterministic: %+v != %+v", a, b)
	}
}

func TestCandidatesArePermutationExcludingDisabled(t *testing.T) {
	policy := testPolicy()
	sel := New(policy)
	disabled := primitives.NewBitSet(policy.Slots)
	disabled.Set(2)
	disabled.Set(9)

	cands := sel.candidates(disabled)
	if len(cands) != int(policy.Slots)-2 {
		t.Fatalf("candidate count = %d, want %d", len(cands), policy.Slots-2)
	}
	seen := map[uint32]bool{}
	for _, c := range cands {
		if c == 2 || c == 9 {
			t.Fatalf("disabled slot %d present in candidates", c)
		}
		if seen[c] {
			t.Fatalf("duplicate candidate %d", c)
		}
		seen[c] = true
	}
}

func TestCandidatesLivenessOverrideWhenAllDisabled(t *testing.T) {
	policy := testPolicy()
	sel := New(policy)
	disabled := primitives.NewBitSet(policy.Slots)
	for i := uint32(0); i < policy.Slots; i++ {
		disabled.Set(i)
	}
	cands := sel.candidates(disabled)
	if len(cands) != int(policy.Slots) {
		t.Fatalf("expected liveness override to yield full slot range, got %d", len(cands))
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	policy := testPolicy()
	sel := New(policy)
	cands := sel.candidates(nil)
	rng := primitives.NewRng([32]byte{1}, primitives.VrfUseCaseViewSlotSelection)
	shuffle(cands, rng)

	seen := make([]bool, policy.Slots)
	for _, c := range cands {
		if seen[c] {
			t.Fatalf("shuffle produced duplicate %d", c)
		}
		seen[c] = true
	}
	for i, s := range seen {
		if !s {
			t.Fatalf("shuffle dropped slot %d", i)
		}
	}
}

func TestProposerAtRespectsDisabledSetMembership(t *testing.T) {
	policy := testPolicy()
	sel := New(policy)
	vs := flatValidators(policy.Slots)
	disabled := primitives.NewBitSet(policy.Slots)
	disabled.Set(0)
	disabled.Set(1)

	for offset := uint64(0); offset < 50; offset++ {
		res := sel.ProposerAt(offset, [32]byte{byte(offset)}, disabled, vs)
		if disabled.Contains(res.SlotNumber) {
			t.Fatalf("offset %d selected disabled slot %d", offset, res.SlotNumber)
		}
	}
}
