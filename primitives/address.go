package primitives

import "encoding/hex"

// Address is a 20-byte account identifier, matching the width used by
// the Accounts trie collaborator.
type Address [20]byte

// BurnAddress is the canonical sink for burned rewards (slashed slots'
// share of the reward pot, and rewards rejected by non-Basic accounts).
var BurnAddress = Address{}

func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// IsZero reports whether a is the zero address.
func (a Address) IsZero() bool {
	return a == Address{}
}
