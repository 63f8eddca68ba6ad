// Package block defines the micro/macro block model and its structural
// verification rules. Verification functions here are pure: no
// chain-state lookups, no side effects.
package block

import (
	"golang.org/x/crypto/blake2b"

	"github.com/albatross-chain/albacore/primitives"
	"github.com/albatross-chain/albacore/wire"
)

// MaxExtraDataLen bounds MicroHeader/MacroHeader.ExtraData.
const MaxExtraDataLen = 32

// MicroHeader is the common header shared by normal and skip micro
// blocks.
type MicroHeader struct {
	Version     uint16
	BlockNumber uint64
	Timestamp   uint64
	ParentHash  [32]byte
	Seed        primitives.VrfSeed
	ExtraData   []byte
	StateRoot   [32]byte
	BodyRoot    [32]byte
	HistoryRoot [32]byte
}

// Hash computes the canonical Blake2b-256 header hash.
func (h *MicroHeader) Hash() [32]byte {
	return blake2b.Sum256(h.canonicalBytes())
}

func (h *MicroHeader) canonicalBytes() []byte {
	buf := make([]byte, 0, 256)
	buf = wire.PutUint16(buf, h.Version)
	buf = wire.PutUint64(buf, h.BlockNumber)
	buf = wire.PutUint64(buf, h.Timestamp)
	buf = append(buf, h.ParentHash[:]...)
	buf = append(buf, h.Seed[:]...)
	buf = wire.PutBytes(buf, h.ExtraData)
	buf = append(buf, h.StateRoot[:]...)
	buf = append(buf, h.BodyRoot[:]...)
	buf = append(buf, h.HistoryRoot[:]...)
	return buf
}

// MarshalSSZ encodes the header in the fastssz fixed-then-variable
// field order.
func (h *MicroHeader) MarshalSSZ() ([]byte, error) {
	return h.canonicalBytes(), nil
}

// UnmarshalSSZ decodes a header produced by MarshalSSZ.
func (h *MicroHeader) UnmarshalSSZ(buf []byte) error {
	var err error
	h.Version, buf, err = wire.ReadUint16(buf)
	if err != nil {
		return err
	}
	h.BlockNumber, buf, err = wire.ReadUint64(buf)
	if err != nil {
		return err
	}
	h.Timestamp, buf, err = wire.ReadUint64(buf)
	if err != nil {
		return err
	}
	buf, err = wire.ReadFixed(buf, h.ParentHash[:])
	if err != nil {
		return err
	}
	buf, err = wire.ReadFixed(buf, h.Seed[:])
	if err != nil {
		return err
	}
	h.ExtraData, buf, err = wire.ReadBytes(buf)
	if err != nil {
		return err
	}
	buf, err = wire.ReadFixed(buf, h.StateRoot[:])
	if err != nil {
		return err
	}
	buf, err = wire.ReadFixed(buf, h.BodyRoot[:])
	if err != nil {
		return err
	}
	_, err = wire.ReadFixed(buf, h.HistoryRoot[:])
	return err
}

// MacroHeader extends MicroHeader with the Tendermint round and the
// hash of the last election block.
type MacroHeader struct {
	MicroHeader
	Round             uint32
	ParentElectionHash [32]byte
}

// Hash computes the canonical Blake2b-256 header hash over the full
// macro header, including the fields MicroHeader does not carry.
func (h *MacroHeader) Hash() [32]byte {
	return blake2b.Sum256(h.canonicalBytes())
}

func (h *MacroHeader) canonicalBytes() []byte {
	buf := h.MicroHeader.canonicalBytes()
	buf = wire.PutUint32(buf, h.Round)
	buf = append(buf, h.ParentElectionHash[:]...)
	return buf
}

// MarshalSSZ encodes the macro header.
func (h *MacroHeader) MarshalSSZ() ([]byte, error) {
	return h.canonicalBytes(), nil
}

// UnmarshalSSZ decodes a macro header produced by MarshalSSZ.
func (h *MacroHeader) UnmarshalSSZ(buf []byte) error {
	if err := h.MicroHeader.UnmarshalSSZ(buf); err != nil {
		return err
	}
	// Re-walk past the MicroHeader-shaped prefix to reach the
	// macro-only suffix; canonicalBytes is append-only so the suffix
	// starts where a freshly (re-)encoded MicroHeader would end.
	prefixLen := len(h.MicroHeader.canonicalBytes())
	if len(buf) < prefixLen {
		return errTruncated
	}
	rest := buf[prefixLen:]
	var err error
	h.Round, rest, err = wire.ReadUint32(rest)
	if err != nil {
		return err
	}
	_, err = wire.ReadFixed(rest, h.ParentElectionHash[:])
	return err
}
