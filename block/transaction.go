package block

// Transaction is an opaque payload as far as the core is concerned —
// transaction execution is an external Accounts collaborator. The core
// only needs a stable hash for uniqueness checking and a validity
// window for expiry checking.
type Transaction struct {
	Hash       [32]byte
	ValidFrom  uint64
	ValidUntil uint64
	Payload    []byte
}

// IsValidAt reports whether the transaction may be included in a block
// at the given height.
func (t *Transaction) IsValidAt(blockNumber uint64) bool {
	return blockNumber >= t.ValidFrom && blockNumber < t.ValidUntil
}
