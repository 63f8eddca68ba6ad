package zkp

import (
	"context"
	"testing"
	"time"
)

func TestProofStreamPublishesCompletedProof(t *testing.T) {
	s := NewProofStream(func(ctx context.Context, electionHash [32]byte, pkTreeRoot []byte) ([]byte, error) {
		return append([]byte("proof:"), pkTreeRoot...), nil
	})
	defer s.Close()

	s.Submit([32]byte{1}, []byte{0xaa})

	select {
	case p := <-s.Proofs():
		if p.ElectionHash != ([32]byte{1}) {
			t.Fatalf("proof for wrong election: %x", p.ElectionHash)
		}
		if string(p.Data) != "proof:\xaa" {
			t.Fatalf("proof data = %q", p.Data)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for proof")
	}
}

func TestProofStreamCancelledTaskNeverPublishes(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	s := NewProofStream(func(ctx context.Context, electionHash [32]byte, pkTreeRoot []byte) ([]byte, error) {
		if electionHash == ([32]byte{1}) {
			close(started)
			select {
			case <-release:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		return []byte{electionHash[0]}, nil
	})
	defer s.Close()

	s.Submit([32]byte{1}, nil)
	<-started
	// A new election supersedes the in-flight task.
	s.Submit([32]byte{2}, nil)

	select {
	case p := <-s.Proofs():
		if p.ElectionHash != ([32]byte{2}) {
			t.Fatalf("superseded task published: %x", p.ElectionHash)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the superseding proof")
	}

	// Even if the first task is released now, it must not publish.
	close(release)
	select {
	case p := <-s.Proofs():
		t.Fatalf("cancelled task published %x", p.ElectionHash)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestProofStreamCloseStopsPublishing(t *testing.T) {
	s := NewProofStream(func(ctx context.Context, electionHash [32]byte, pkTreeRoot []byte) ([]byte, error) {
		return []byte{1}, nil
	})
	s.Close()
	s.Submit([32]byte{1}, nil)
	select {
	case <-s.Proofs():
		t.Fatal("closed stream published a proof")
	case <-time.After(100 * time.Millisecond):
	}
}
