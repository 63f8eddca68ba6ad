// Package chainstore persists blocks and the main-chain index over a
// transactional embedded key-value engine. It deliberately stays
// ignorant of block internals — the KV engine is a collaborator
// abstracted as "a transactional ordered key-value store" — callers
// (package blockchain) hand it opaque, pre-serialized block bytes and
// get them back unchanged.
//
// Bound to go.etcd.io/bbolt, grounded in prysm's bbolt +
// prysmaticlabs/prombbolt dependency pair: a real embedded,
// single-writer/multi-reader transactional store rather than a
// hand-rolled one.
package chainstore

import (
	"encoding/binary"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/albatross-chain/albacore/primitives"
)

var (
	bucketBlocksByHash  = []byte("blocks-by-hash")
	bucketMainChainIdx  = []byte("main-chain-index")
	bucketMacroIdx      = []byte("macro-info")
	bucketReverseDiffs  = []byte("reverse-diffs")
	bucketChainInfo     = []byte("chain-info")
	bucketMeta          = []byte("zkp-state")
)

var keyTip = []byte("tip")

// Record is an opaque, already-serialized block plus the indexing
// metadata ChainStore needs. Encoding/decoding the Data payload is the
// caller's responsibility (package blockchain, via package wire).
type Record struct {
	Hash        [32]byte
	Height      uint64
	IsMacro     bool
	IsElection  bool
	Data        []byte
	ReverseDiff []byte
}

// ChainInfo is the lookup result for get_chain_info.
type ChainInfo struct {
	Hash             [32]byte
	OnMainChain      bool
	CumTxFeesInBatch primitives.Coin
}

// Store is a bbolt-backed ChainStore.
type Store struct {
	db *bolt.DB
}

// Open creates or opens a chainstore database at path, initializing
// every logical namespace bucket on first use.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("chainstore: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{bucketBlocksByHash, bucketMainChainIdx, bucketMacroIdx, bucketReverseDiffs, bucketChainInfo, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("chainstore: init buckets: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

func heightKey(h uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], h)
	return b[:]
}

func encodeMacroIndexValue(hash [32]byte, isElection bool) []byte {
	buf := make([]byte, 33)
	copy(buf, hash[:])
	if isElection {
		buf[32] = 1
	}
	return buf
}

func decodeMacroIndexValue(v []byte) (hash [32]byte, isElection bool) {
	copy(hash[:], v)
	if len(v) > 32 {
		isElection = v[32] != 0
	}
	return
}

// PutBlock persists a record under a single bbolt write transaction —
// block bytes, optional reverse diff, and (if isMainChain) the
// height index and chain-info flag all commit atomically or not at
// all. SetChainInfo and SetMainChainTip each run in a transaction of
// their own, so a caller that invokes all three for one block does not
// commit those writes as a single unit.
func (s *Store) PutBlock(rec *Record, isMainChain bool) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketBlocksByHash).Put(rec.Hash[:], rec.Data); err != nil {
			return err
		}
		if rec.ReverseDiff != nil {
			if err := tx.Bucket(bucketReverseDiffs).Put(rec.Hash[:], rec.ReverseDiff); err != nil {
				return err
			}
		}
		if rec.IsMacro {
			if err := tx.Bucket(bucketMacroIdx).Put(heightKey(rec.Height), encodeMacroIndexValue(rec.Hash, rec.IsElection)); err != nil {
				return err
			}
		}
		info := &ChainInfo{Hash: rec.Hash, OnMainChain: isMainChain}
		if existing, err := getChainInfoTx(tx, rec.Hash); err == nil && existing != nil {
			info.CumTxFeesInBatch = existing.CumTxFeesInBatch
		}
		if err := putChainInfoTx(tx, info); err != nil {
			return err
		}
		if isMainChain {
			if err := tx.Bucket(bucketMainChainIdx).Put(heightKey(rec.Height), rec.Hash[:]); err != nil {
				return err
			}
		}
		return nil
	})
}

// SetChainInfo updates the cumulative-tx-fees-in-batch counter for a
// stored block (maintained incrementally as the batch progresses).
func (s *Store) SetChainInfo(hash [32]byte, onMainChain bool, cumTxFees primitives.Coin) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return putChainInfoTx(tx, &ChainInfo{Hash: hash, OnMainChain: onMainChain, CumTxFeesInBatch: cumTxFees})
	})
}

// GetBlockByHash looks up a block regardless of whether it is on the
// main chain.
func (s *Store) GetBlockByHash(hash [32]byte) (*Record, bool, error) {
	var rec *Record
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketBlocksByHash).Get(hash[:])
		if data == nil {
			return nil
		}
		cp := make([]byte, len(data))
		copy(cp, data)
		rd := tx.Bucket(bucketReverseDiffs).Get(hash[:])
		var rdCopy []byte
		if rd != nil {
			rdCopy = make([]byte, len(rd))
			copy(rdCopy, rd)
		}
		rec = &Record{Hash: hash, Data: cp, ReverseDiff: rdCopy}
		return nil
	})
	return rec, rec != nil, err
}

// GetBlockAt returns the main-chain block at the given height, or
// found=false if there is none (NotFound).
func (s *Store) GetBlockAt(height uint64) (*Record, bool, error) {
	var hash [32]byte
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		h := tx.Bucket(bucketMainChainIdx).Get(heightKey(height))
		if h == nil {
			return nil
		}
		copy(hash[:], h)
		found = true
		return nil
	})
	if err != nil || !found {
		return nil, false, err
	}
	return s.GetBlockByHash(hash)
}

// SetMainChainTip records the current main-chain tip hash.
func (s *Store) SetMainChainTip(hash [32]byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketMeta).Put(keyTip, hash[:])
	})
}

// Tip returns the current main-chain tip hash, or found=false if none
// has ever been set (a fresh store before genesis).
func (s *Store) Tip() ([32]byte, bool, error) {
	var hash [32]byte
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		h := tx.Bucket(bucketMeta).Get(keyTip)
		if h == nil {
			return nil
		}
		copy(hash[:], h)
		found = true
		return nil
	})
	return hash, found, err
}

// GetChainInfo returns the on-main-chain flag and cumulative batch tx
// fees recorded for hash.
func (s *Store) GetChainInfo(hash [32]byte) (*ChainInfo, error) {
	var info *ChainInfo
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		info, err = getChainInfoTx(tx, hash)
		return err
	})
	return info, err
}

func getChainInfoTx(tx *bolt.Tx, hash [32]byte) (*ChainInfo, error) {
	data := tx.Bucket(bucketChainInfo).Get(hash[:])
	if data == nil {
		return nil, nil
	}
	if len(data) < 9 {
		return nil, fmt.Errorf("chainstore: truncated chain-info record")
	}
	info := &ChainInfo{Hash: hash, OnMainChain: data[0] != 0}
	info.CumTxFeesInBatch = primitives.Coin(binary.BigEndian.Uint64(data[1:9]))
	return info, nil
}

func putChainInfoTx(tx *bolt.Tx, info *ChainInfo) error {
	var buf [9]byte
	if info.OnMainChain {
		buf[0] = 1
	}
	binary.BigEndian.PutUint64(buf[1:9], uint64(info.CumTxFeesInBatch))
	return tx.Bucket(bucketChainInfo).Put(info.Hash[:], buf[:])
}

// GetMacroBlocks walks the macro-block index starting at startHeight
// for up to count entries, in ascending (direction >= 0) or descending
// (direction < 0) height order, optionally restricted to election
// blocks (the election flag is read from each macro index entry).
func (s *Store) GetMacroBlocks(startHeight uint64, count int, direction int, onlyElection bool) ([]*Record, error) {
	var out []*Record
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketMacroIdx).Cursor()
		var k, v []byte
		if direction >= 0 {
			k, v = c.Seek(heightKey(startHeight))
		} else {
			k, v = c.Seek(heightKey(startHeight))
			if k == nil {
				k, v = c.Last()
			} else if binary.BigEndian.Uint64(k) > startHeight {
				k, v = c.Prev()
			}
		}
		for k != nil && len(out) < count {
			hash, isElection := decodeMacroIndexValue(v)
			data := tx.Bucket(bucketBlocksByHash).Get(hash[:])
			if data != nil {
				rec := &Record{Hash: hash, Height: binary.BigEndian.Uint64(k), IsMacro: true, IsElection: isElection}
				rec.Data = append([]byte(nil), data...)
				if !onlyElection || rec.IsElection {
					out = append(out, rec)
				}
			}
			if direction >= 0 {
				k, v = c.Next()
			} else {
				k, v = c.Prev()
			}
		}
		return nil
	})
	return out, err
}
