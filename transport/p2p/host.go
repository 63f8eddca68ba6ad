// Package p2p stands up a libp2p host and a gossipsub topic pair for
// block/fork-proof gossip, exercising the libp2p/go-libp2p-pubsub/
// multiaddr dependency stack. It deliberately implements no peer
// discovery and no sync protocol — only the publish/subscribe surface
// a host binary needs to propagate newly produced blocks.
//
// Shaped after a libp2p.New + gossipsub wiring pattern: topic naming,
// join/publish via a dedicated host type.
package p2p

import (
	"context"
	"crypto/rand"
	"fmt"

	libp2p "github.com/libp2p/go-libp2p"
	pubsub "github.com/libp2p/go-libp2p-pubsub"
	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/multiformats/go-multiaddr"
)

// Topic names for the gossip surface. Payloads are opaque wire-encoded
// blocks/fork proofs; this package never parses them.
const (
	MicroBlockTopicFmt = "/albacore/%s/micro-block/ssz_snappy"
	MacroBlockTopicFmt = "/albacore/%s/macro-block/ssz_snappy"
	ForkProofTopicFmt  = "/albacore/%s/fork-proof/ssz_snappy"
)

// Host wraps a libp2p host plus its gossipsub router.
type Host struct {
	P2P    host.Host
	PubSub *pubsub.PubSub
}

// New creates a libp2p host listening on the given multiaddr and
// attaches a gossipsub router to it. A fresh Ed25519 identity key is
// generated per call; callers that need a stable peer id persist and
// reload the key themselves (a cmd/albacored concern, not this
// package's).
func New(ctx context.Context, listenAddr string) (*Host, error) {
	priv, _, err := crypto.GenerateEd25519Key(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("p2p: generate identity key: %w", err)
	}

	addr, err := multiaddr.NewMultiaddr(listenAddr)
	if err != nil {
		return nil, fmt.Errorf("p2p: parse listen addr: %w", err)
	}

	h, err := libp2p.New(
		libp2p.Identity(priv),
		libp2p.ListenAddrs(addr),
	)
	if err != nil {
		return nil, fmt.Errorf("p2p: create host: %w", err)
	}

	ps, err := pubsub.NewGossipSub(ctx, h)
	if err != nil {
		h.Close()
		return nil, fmt.Errorf("p2p: create gossipsub router: %w", err)
	}

	return &Host{P2P: h, PubSub: ps}, nil
}

// Connect dials a known peer by its full multiaddr (including its
// /p2p/<peerID> suffix). No discovery is performed; the caller supplies
// the address.
func (h *Host) Connect(ctx context.Context, peerAddr string) error {
	addr, err := multiaddr.NewMultiaddr(peerAddr)
	if err != nil {
		return fmt.Errorf("p2p: parse peer addr: %w", err)
	}
	info, err := peer.AddrInfoFromP2pAddr(addr)
	if err != nil {
		return fmt.Errorf("p2p: resolve peer info: %w", err)
	}
	if err := h.P2P.Connect(ctx, *info); err != nil {
		return fmt.Errorf("p2p: connect: %w", err)
	}
	return nil
}

// PeerCount returns the number of currently connected peers.
func (h *Host) PeerCount() int {
	return len(h.P2P.Network().Peers())
}

// Close tears down the host and its gossipsub router.
func (h *Host) Close() error {
	return h.P2P.Close()
}
