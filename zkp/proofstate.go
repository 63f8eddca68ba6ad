package zkp

import (
	"context"
	"sync"
)

// Proof is one entry of the successor-proof stream: the election block
// it proves plus the opaque proof bytes produced by the external
// circuit.
type Proof struct {
	ElectionHash [32]byte
	Data         []byte
}

// Prover computes a successor proof for an election block. The actual
// zk-SNARK proving system is a collaborator; implementations must
// return promptly once ctx is cancelled.
type Prover func(ctx context.Context, electionHash [32]byte, pkTreeRoot []byte) ([]byte, error)

// ProofStream runs at most one proof task at a time and publishes
// completed proofs on an append-only channel. Submitting a new election
// block cancels any in-flight task and starts a fresh one; a cancelled
// task never publishes, even if its prover had already returned.
type ProofStream struct {
	mu     sync.Mutex
	prove  Prover
	cancel context.CancelFunc
	out    chan Proof
	closed bool
}

// NewProofStream returns a stream bound to the given prover.
func NewProofStream(prove Prover) *ProofStream {
	return &ProofStream{prove: prove, out: make(chan Proof, 1)}
}

// Proofs returns the stream of completed proofs.
func (s *ProofStream) Proofs() <-chan Proof { return s.out }

// Submit starts proving the given election block, cancelling any
// in-flight task first. Safe to call from the push path at every
// election boundary.
func (s *ProofStream) Submit(electionHash [32]byte, pkTreeRoot []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.run(ctx, electionHash, pkTreeRoot)
}

func (s *ProofStream) run(ctx context.Context, electionHash [32]byte, pkTreeRoot []byte) {
	data, err := s.prove(ctx, electionHash, pkTreeRoot)
	if err != nil || ctx.Err() != nil {
		return
	}
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return
	}
	select {
	case s.out <- Proof{ElectionHash: electionHash, Data: data}:
	case <-ctx.Done():
	}
}

// Close cancels any in-flight task and stops the stream. No proof is
// published after Close returns.
func (s *ProofStream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
}
