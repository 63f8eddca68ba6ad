package block

import "testing"

func TestMicroHeaderRoundTrip(t *testing.T) {
	h := &MicroHeader{
		Version:     3,
		BlockNumber: 42,
		Timestamp:   123456,
		ParentHash:  [32]byte{1, 2, 3},
		ExtraData:   []byte("hello"),
		StateRoot:   [32]byte{4},
		BodyRoot:    [32]byte{5},
		HistoryRoot: [32]byte{6},
	}
	data, err := h.MarshalSSZ()
	if err != nil {
		t.Fatal(err)
	}
	var out MicroHeader
	if err := out.UnmarshalSSZ(data); err != nil {
		t.Fatal(err)
	}
	if out.Hash() != h.Hash() {
		t.Fatal("round-tripped header hash mismatch")
	}
	if string(out.ExtraData) != "hello" {
		t.Fatalf("extra data mismatch: %q", out.ExtraData)
	}
}

func TestMacroHeaderRoundTrip(t *testing.T) {
	h := &MacroHeader{
		MicroHeader: MicroHeader{
			Version:     2,
			BlockNumber: 320,
			Timestamp:   999,
			ParentHash:  [32]byte{9},
		},
		Round:              3,
		ParentElectionHash: [32]byte{8},
	}
	data, err := h.MarshalSSZ()
	if err != nil {
		t.Fatal(err)
	}
	var out MacroHeader
	if err := out.UnmarshalSSZ(data); err != nil {
		t.Fatal(err)
	}
	if out.Round != 3 || out.ParentElectionHash != h.ParentElectionHash {
		t.Fatalf("macro-only fields lost in round-trip: %+v", out)
	}
	if out.Hash() != h.Hash() {
		t.Fatal("round-tripped macro header hash mismatch")
	}
}

func TestHeaderHashSensitiveToFields(t *testing.T) {
	h1 := &MicroHeader{Version: 1, BlockNumber: 1}
	h2 := &MicroHeader{Version: 1, BlockNumber: 2}
	if h1.Hash() == h2.Hash() {
		t.Fatal("expected different headers to hash differently")
	}
}
