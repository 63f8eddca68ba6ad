// Package wire provides the small shared encode/decode helpers used by
// every canonically-serialized type in the core (headers, bodies,
// proofs, bitsets): fixed-offset fixed fields followed by
// length-prefixed variable fields, big-endian and deterministic.
// Header hashes are Blake2b-256 over this exact byte layout, which is
// incompatible with an SSZ merkle hash-tree-root, so this package
// hand-rolls the framing rather than depending on fastssz.
package wire

import (
	"encoding/binary"
	"fmt"
)

// ErrTruncated is returned by callers decoding a buffer too short to
// contain even its leading discriminant/tag byte.
var ErrTruncated = fmt.Errorf("wire: truncated data")

// PutUint16, PutUint32, PutUint64 append big-endian encodings, matching
// the "big-endian, length-prefixed, deterministic" wire contract.
func PutUint16(buf []byte, v uint16) []byte {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	return append(buf, tmp[:]...)
}

func PutUint32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func PutUint64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}

// PutBytes appends a u32 length prefix followed by data, for variable
// length fields (extra_data, fork proof lists, transaction lists).
func PutBytes(buf []byte, data []byte) []byte {
	buf = PutUint32(buf, uint32(len(data)))
	return append(buf, data...)
}

// ReadUint16 consumes 2 bytes from the front of buf.
func ReadUint16(buf []byte) (uint16, []byte, error) {
	if len(buf) < 2 {
		return 0, nil, fmt.Errorf("wire: truncated uint16")
	}
	return binary.BigEndian.Uint16(buf[:2]), buf[2:], nil
}

// ReadUint32 consumes 4 bytes from the front of buf.
func ReadUint32(buf []byte) (uint32, []byte, error) {
	if len(buf) < 4 {
		return 0, nil, fmt.Errorf("wire: truncated uint32")
	}
	return binary.BigEndian.Uint32(buf[:4]), buf[4:], nil
}

// ReadUint64 consumes 8 bytes from the front of buf.
func ReadUint64(buf []byte) (uint64, []byte, error) {
	if len(buf) < 8 {
		return 0, nil, fmt.Errorf("wire: truncated uint64")
	}
	return binary.BigEndian.Uint64(buf[:8]), buf[8:], nil
}

// ReadBytes consumes a u32-length-prefixed byte slice.
func ReadBytes(buf []byte) ([]byte, []byte, error) {
	n, rest, err := ReadUint32(buf)
	if err != nil {
		return nil, nil, err
	}
	if uint32(len(rest)) < n {
		return nil, nil, fmt.Errorf("wire: truncated byte field, want %d have %d", n, len(rest))
	}
	return rest[:n], rest[n:], nil
}

// ReadFixed consumes exactly n bytes and copies them into out.
func ReadFixed(buf []byte, out []byte) ([]byte, error) {
	if len(buf) < len(out) {
		return nil, fmt.Errorf("wire: truncated fixed field, want %d have %d", len(out), len(buf))
	}
	copy(out, buf[:len(out)])
	return buf[len(out):], nil
}
