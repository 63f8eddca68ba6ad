package transport

import (
	"bytes"
	"context"
	"testing"
)

func TestRequestTypePacking(t *testing.T) {
	rt := NewRequestType(TypeIDBlocksByRoot, true)
	if rt.TypeID() != TypeIDBlocksByRoot {
		t.Fatalf("TypeID() = %d, want %d", rt.TypeID(), TypeIDBlocksByRoot)
	}
	if !rt.ExpectsResponse() {
		t.Fatal("expected ExpectsResponse() true")
	}

	rt2 := NewRequestType(TypeIDStatus, false)
	if rt2.ExpectsResponse() {
		t.Fatal("expected ExpectsResponse() false")
	}
}

func TestFrameRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("albatross"), 100)
	var buf bytes.Buffer
	if err := WriteFrame(&buf, NewRequestType(TypeIDStatus, true), payload); err != nil {
		t.Fatal(err)
	}

	reqType, got, err := ReadFrame(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if reqType.TypeID() != TypeIDStatus || !reqType.ExpectsResponse() {
		t.Fatalf("unexpected reqType: %v", reqType)
	}
	if !bytes.Equal(got, payload) {
		t.Fatal("payload did not round-trip")
	}
}

func TestFrameTruncated(t *testing.T) {
	if _, _, err := ReadFrame(bytes.NewReader(nil)); err == nil {
		t.Fatal("expected error reading an empty frame")
	}
}

func TestRegistryDispatch(t *testing.T) {
	reg := NewRegistry()
	statusType := NewRequestType(TypeIDStatus, true)
	reg.Register(statusType, func(ctx context.Context, payload []byte) ([]byte, error) {
		return append([]byte("pong:"), payload...), nil
	})

	resp, err := reg.Handle(context.Background(), statusType, []byte("ping"))
	if err != nil {
		t.Fatal(err)
	}
	if string(resp) != "pong:ping" {
		t.Fatalf("resp = %q", resp)
	}
}

func TestRegistryUnsupportedType(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Handle(context.Background(), NewRequestType(TypeIDBlocksByRange, true), nil)
	terr, ok := err.(*Error)
	if !ok || terr.Kind != ErrUnsupportedProtocols {
		t.Fatalf("expected ErrUnsupportedProtocols, got %v", err)
	}
}

func TestRegistryDuplicateRegisterPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	reg := NewRegistry()
	h := func(ctx context.Context, payload []byte) ([]byte, error) { return nil, nil }
	reg.Register(NewRequestType(TypeIDStatus, true), h)
	reg.Register(NewRequestType(TypeIDStatus, true), h)
}
