package transport

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/golang/snappy"
)

// maxFrameLen bounds a single decoded payload to guard against a
// malicious or corrupt length prefix forcing an unbounded allocation.
const maxFrameLen = 16 << 20

// WriteFrame writes one length-prefixed, snappy-compressed payload: a
// u16 RequestType, a big-endian u32 uncompressed length, a big-endian
// u32 compressed length, then the snappy-compressed bytes. Mirrors a
// reqresp varint+snappy framing, with the length prefixes widened to
// an explicit big-endian, length-prefixed contract.
func WriteFrame(w io.Writer, reqType RequestType, payload []byte) error {
	compressed := snappy.Encode(nil, payload)

	var header [10]byte
	binary.BigEndian.PutUint16(header[0:2], uint16(reqType))
	binary.BigEndian.PutUint32(header[2:6], uint32(len(payload)))
	binary.BigEndian.PutUint32(header[6:10], uint32(len(compressed)))
	if _, err := w.Write(header[:]); err != nil {
		return &Error{Kind: ErrSendError, Cause: err}
	}
	if _, err := w.Write(compressed); err != nil {
		return &Error{Kind: ErrSendError, Cause: err}
	}
	return nil
}

// ReadFrame reads and decodes one frame written by WriteFrame. A
// RequestType whose TypeID the caller does not recognize should be
// rejected by the caller as InvalidData; ReadFrame itself only handles
// wire-level framing.
func ReadFrame(r io.Reader) (RequestType, []byte, error) {
	var header [10]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if err == io.EOF {
			return 0, nil, &Error{Kind: ErrConnectionClosed, Cause: err}
		}
		return 0, nil, &Error{Kind: ErrDeSerializationError, Cause: err}
	}
	reqType := RequestType(binary.BigEndian.Uint16(header[0:2]))
	uncompressedLen := binary.BigEndian.Uint32(header[2:6])
	compressedLen := binary.BigEndian.Uint32(header[6:10])
	if uncompressedLen > maxFrameLen || compressedLen > maxFrameLen {
		return 0, nil, &Error{Kind: ErrDeSerializationError, Cause: fmt.Errorf("frame length exceeds max %d", maxFrameLen)}
	}

	compressed := make([]byte, compressedLen)
	if _, err := io.ReadFull(r, compressed); err != nil {
		return 0, nil, &Error{Kind: ErrDeSerializationError, Cause: err}
	}
	payload, err := snappy.Decode(nil, compressed)
	if err != nil {
		return 0, nil, &Error{Kind: ErrDeSerializationError, Cause: err}
	}
	if uint32(len(payload)) != uncompressedLen {
		return 0, nil, &Error{Kind: ErrDeSerializationError, Cause: fmt.Errorf("decoded length %d != declared %d", len(payload), uncompressedLen)}
	}
	return reqType, payload, nil
}
