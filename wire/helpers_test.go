package wire

import (
	"bytes"
	"testing"
)

func TestIntRoundTrips(t *testing.T) {
	buf := PutUint16(nil, 0xbeef)
	buf = PutUint32(buf, 0xdeadbeef)
	buf = PutUint64(buf, 0x0102030405060708)

	v16, rest, err := ReadUint16(buf)
	if err != nil || v16 != 0xbeef {
		t.Fatalf("ReadUint16 = %x, %v", v16, err)
	}
	v32, rest, err := ReadUint32(rest)
	if err != nil || v32 != 0xdeadbeef {
		t.Fatalf("ReadUint32 = %x, %v", v32, err)
	}
	v64, rest, err := ReadUint64(rest)
	if err != nil || v64 != 0x0102030405060708 {
		t.Fatalf("ReadUint64 = %x, %v", v64, err)
	}
	if len(rest) != 0 {
		t.Fatalf("trailing bytes: %d", len(rest))
	}
}

func TestBytesRoundTrip(t *testing.T) {
	payload := []byte("extra-data")
	buf := PutBytes(nil, payload)
	got, rest, err := ReadBytes(buf)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) || len(rest) != 0 {
		t.Fatalf("got %q rest=%d", got, len(rest))
	}

	empty, _, err := ReadBytes(PutBytes(nil, nil))
	if err != nil || len(empty) != 0 {
		t.Fatalf("empty field round-trip: %q, %v", empty, err)
	}
}

func TestReadsRejectTruncation(t *testing.T) {
	if _, _, err := ReadUint32([]byte{1, 2}); err == nil {
		t.Fatal("expected truncation error for short uint32")
	}
	if _, _, err := ReadBytes(PutUint32(nil, 100)); err == nil {
		t.Fatal("expected truncation error for undersized byte field")
	}
	var out [32]byte
	if _, err := ReadFixed([]byte{1}, out[:]); err == nil {
		t.Fatal("expected truncation error for short fixed field")
	}
}

func TestReadFixedConsumesExactly(t *testing.T) {
	src := append(bytes.Repeat([]byte{0xab}, 32), 0xff)
	var out [32]byte
	rest, err := ReadFixed(src, out[:])
	if err != nil {
		t.Fatal(err)
	}
	if out[0] != 0xab || out[31] != 0xab {
		t.Fatal("fixed field not copied")
	}
	if len(rest) != 1 || rest[0] != 0xff {
		t.Fatalf("rest = %x", rest)
	}
}
