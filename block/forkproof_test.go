package block

import (
	"testing"

	"github.com/albatross-chain/albacore/primitives"
)

func TestForkProofIsValidAtEpochScoped(t *testing.T) {
	policy := primitives.DefaultPolicy()
	fp := &ForkProof{Header1: &MicroHeader{BlockNumber: 10}, Header2: &MicroHeader{BlockNumber: 10}}
	bpe := uint64(policy.BlocksPerEpoch())

	if !fp.IsValidAt(10, policy) {
		t.Fatal("proof should be valid within its own epoch")
	}
	if !fp.IsValidAt(bpe-1, policy) {
		t.Fatal("proof should be valid anywhere within the same epoch")
	}
	if fp.IsValidAt(bpe+1, policy) {
		t.Fatal("proof should not be valid in the following epoch")
	}
}

func TestForkProofIsConflicting(t *testing.T) {
	h1 := &MicroHeader{BlockNumber: 5, Timestamp: 1000}
	h2 := &MicroHeader{BlockNumber: 5, Timestamp: 2000}

	fp := &ForkProof{Header1: h1, Header2: h2}
	if !fp.IsConflicting() {
		t.Fatal("distinct headers at the same height are conflicting")
	}

	dup := &ForkProof{Header1: h1, Header2: h1}
	if dup.IsConflicting() {
		t.Fatal("a duplicated header is not equivocation evidence")
	}

	diff := &ForkProof{Header1: h1, Header2: &MicroHeader{BlockNumber: 6}}
	if diff.IsConflicting() {
		t.Fatal("headers at different heights are not equivocation evidence")
	}
}

func TestForkProofOrderingLess(t *testing.T) {
	a := &ForkProof{Header1: &MicroHeader{BlockNumber: 5}, Header2: &MicroHeader{BlockNumber: 5}}
	b := &ForkProof{Header1: &MicroHeader{BlockNumber: 6}, Header2: &MicroHeader{BlockNumber: 6}}
	if !a.Less(b) {
		t.Fatal("lower block number should sort first")
	}
	if b.Less(a) {
		t.Fatal("higher block number should not sort first")
	}
}
