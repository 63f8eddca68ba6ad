package primitives

import "testing"

func TestTwoFPlusOne(t *testing.T) {
	cases := []struct {
		slots uint32
		want  uint32
	}{
		{512, 343},
		{4, 4},
		{9, 7},
	}
	for _, c := range cases {
		p := Policy{Slots: c.slots}
		if got := p.TwoFPlusOne(); got != c.want {
			t.Fatalf("TwoFPlusOne(%d) = %d, want %d", c.slots, got, c.want)
		}
	}
}

func TestMacroAndElectionHeights(t *testing.T) {
	p := Policy{BlocksPerBatch: 32, BatchesPerEpoch: 8}
	if !p.IsMacroBlock(0) || !p.IsElectionBlock(0) {
		t.Fatal("genesis must be an election macro block")
	}
	if p.IsMacroBlock(31) {
		t.Fatal("height 31 is not a batch boundary")
	}
	if !p.IsMacroBlock(32) || p.IsElectionBlock(32) {
		t.Fatal("height 32 is a checkpoint, not an election")
	}
	if !p.IsElectionBlock(256) {
		t.Fatal("height 256 is an epoch boundary")
	}
}

func TestEpochAt(t *testing.T) {
	p := Policy{BlocksPerBatch: 32, BatchesPerEpoch: 8} // 256 blocks per epoch
	cases := []struct {
		height uint64
		want   uint64
	}{
		{0, 0},
		{1, 1},
		{255, 1},
		{256, 1}, // the election block belongs to the epoch it closes
		{257, 2},
		{512, 2},
	}
	for _, c := range cases {
		if got := p.EpochAt(c.height); got != c.want {
			t.Fatalf("EpochAt(%d) = %d, want %d", c.height, got, c.want)
		}
	}
}

func TestIsFirstBatchOfEpoch(t *testing.T) {
	p := Policy{BlocksPerBatch: 32, BatchesPerEpoch: 8}
	if !p.IsFirstBatchOfEpoch(32) {
		t.Fatal("the first checkpoint after genesis closes the epoch's first batch")
	}
	if p.IsFirstBatchOfEpoch(64) {
		t.Fatal("height 64 closes the second batch")
	}
	if p.IsFirstBatchOfEpoch(256) {
		t.Fatal("an election block closes its epoch's last batch")
	}
	if !p.IsFirstBatchOfEpoch(256 + 32) {
		t.Fatal("the checkpoint after an election closes the next epoch's first batch")
	}
}

func TestSupplyAtMonotonicNonZeroReward(t *testing.T) {
	p := DefaultPolicy()
	prev := p.SupplyAt(0, 0)
	for idx := uint64(1); idx <= 64; idx++ {
		cur := p.SupplyAt(0, idx)
		if cur < prev {
			t.Fatalf("supply decreased at batch %d: %d -> %d", idx, prev, cur)
		}
		prev = cur
	}
	if r := p.BlockRewardForBatch(0, 0, 1); r == 0 {
		t.Fatal("per-batch reward should be nonzero at the start of the curve")
	}
}

func TestSupplyAtMonotonicAcrossDecayBoundary(t *testing.T) {
	p := DefaultPolicy()
	p.SupplyDecayBatches = 100
	boundary := p.SupplyDecayBatches
	before := p.SupplyAt(0, boundary-1)
	at := p.SupplyAt(0, boundary)
	after := p.SupplyAt(0, boundary+1)
	if at < before || after < at {
		t.Fatalf("supply not monotonic across decay boundary: %d, %d, %d", before, at, after)
	}
	if p.SupplyAt(0, boundary*200) != p.TotalSupply {
		t.Fatal("supply should saturate at TotalSupply deep into the curve")
	}
}
