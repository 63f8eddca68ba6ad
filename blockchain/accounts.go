package blockchain

import (
	"github.com/albatross-chain/albacore/block"
	"github.com/albatross-chain/albacore/inherents"
	"github.com/albatross-chain/albacore/primitives"
)

// Accounts is the opaque trie mutator collaborator: a Merkleized
// account/staking trie whose root must equal the applied block's
// state_root. The core never inspects its internals — it only applies
// blocks/inherents, reverts via the diff it is handed back, and reads
// the resulting root.
type Accounts interface {
	// StateRoot returns the current trie root.
	StateRoot() [32]byte

	// Accept reports whether addr is absent or holds a Basic account,
	// i.e. is eligible to receive a batch reward. A contract address
	// returns false; its share is burned instead.
	Accept(addr primitives.Address) bool

	// ApplyMicro applies a micro block's transactions and returns an
	// opaque reverse diff that can later undo exactly this mutation,
	// plus the transaction fees it collected — the core treats
	// transaction execution as opaque and has no other way to learn
	// this, but still needs it to accumulate cum_tx_fees for the next
	// batch's reward pot.
	ApplyMicro(b *block.MicroBlock) (reverseDiff []byte, fees primitives.Coin, err error)

	// ApplyMacro applies a macro block's inherents (and the reward
	// pot removal for what is about to be minted) and returns a
	// reverse diff.
	ApplyMacro(b *block.MacroBlock, ins []inherents.Inherent) ([]byte, error)

	// Revert undoes exactly the mutation a prior ApplyMicro/ApplyMacro
	// call produced, identified by its reverse diff.
	Revert(reverseDiff []byte) error
}
