package chainstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/albatross-chain/albacore/primitives"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "chain.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutAndGetBlockByHash(t *testing.T) {
	s := openTestStore(t)
	hash := [32]byte{1, 2, 3}
	rec := &Record{Hash: hash, Height: 10, Data: []byte("micro-block-bytes")}
	if err := s.PutBlock(rec, true); err != nil {
		t.Fatal(err)
	}
	got, found, err := s.GetBlockByHash(hash)
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("expected block to be found")
	}
	if string(got.Data) != "micro-block-bytes" {
		t.Fatalf("data = %q", got.Data)
	}
}

func TestGetBlockByHashNotFound(t *testing.T) {
	s := openTestStore(t)
	_, found, err := s.GetBlockByHash([32]byte{9, 9})
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Fatal("expected not found")
	}
}

func TestMainChainIndexLookup(t *testing.T) {
	s := openTestStore(t)
	h1 := [32]byte{1}
	h2 := [32]byte{2}
	if err := s.PutBlock(&Record{Hash: h1, Height: 1, Data: []byte("a")}, true); err != nil {
		t.Fatal(err)
	}
	if err := s.PutBlock(&Record{Hash: h2, Height: 1, Data: []byte("fork")}, false); err != nil {
		t.Fatal(err)
	}
	got, found, err := s.GetBlockAt(1)
	if err != nil {
		t.Fatal(err)
	}
	if !found || got.Hash != h1 {
		t.Fatalf("expected main chain block at height 1 to be h1, got %+v found=%v", got, found)
	}
}

func TestSetAndGetMainChainTip(t *testing.T) {
	s := openTestStore(t)
	hash := [32]byte{7}
	if _, found, _ := s.Tip(); found {
		t.Fatal("expected no tip on fresh store")
	}
	if err := s.SetMainChainTip(hash); err != nil {
		t.Fatal(err)
	}
	got, found, err := s.Tip()
	if err != nil {
		t.Fatal(err)
	}
	if !found || got != hash {
		t.Fatalf("tip = %x found=%v, want %x", got, found, hash)
	}
}

func TestChainInfoRoundTrip(t *testing.T) {
	s := openTestStore(t)
	hash := [32]byte{4}
	if err := s.PutBlock(&Record{Hash: hash, Height: 5, Data: []byte("x")}, true); err != nil {
		t.Fatal(err)
	}
	if err := s.SetChainInfo(hash, true, primitives.Coin(42)); err != nil {
		t.Fatal(err)
	}
	info, err := s.GetChainInfo(hash)
	if err != nil {
		t.Fatal(err)
	}
	if info == nil || !info.OnMainChain || info.CumTxFeesInBatch != 42 {
		t.Fatalf("chain info = %+v", info)
	}
}

func TestGetMacroBlocksAscendingAndElectionFilter(t *testing.T) {
	s := openTestStore(t)
	for i, h := range []uint64{32, 64, 96} {
		hash := [32]byte{byte(i + 1)}
		isElection := h == 64
		if err := s.PutBlock(&Record{Hash: hash, Height: h, IsMacro: true, IsElection: isElection, Data: []byte("macro")}, true); err != nil {
			t.Fatal(err)
		}
	}
	all, err := s.GetMacroBlocks(0, 10, 1, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 macro blocks, got %d", len(all))
	}
	if all[0].Height != 32 || all[2].Height != 96 {
		t.Fatalf("expected ascending height order, got %+v", all)
	}

	elections, err := s.GetMacroBlocks(0, 10, 1, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(elections) != 1 || elections[0].Height != 64 {
		t.Fatalf("expected exactly the election block at 64, got %+v", elections)
	}
}

func TestOpenCreatesParentBucketsOnce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "chain.db")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()
	s2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	s2.Close()
}
