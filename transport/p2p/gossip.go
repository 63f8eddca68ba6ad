package p2p

import (
	"context"
	"fmt"

	pubsub "github.com/libp2p/go-libp2p-pubsub"
)

// Topic is a joined gossipsub topic, carrying opaque wire-encoded
// payloads (blocks or fork proofs). Decoding is the subscriber's job.
type Topic struct {
	topic *pubsub.Topic
	sub   *pubsub.Subscription
}

// JoinTopic joins (and subscribes to) a gossipsub topic by name.
func (h *Host) JoinTopic(name string) (*Topic, error) {
	t, err := h.PubSub.Join(name)
	if err != nil {
		return nil, fmt.Errorf("p2p: join topic %q: %w", name, err)
	}
	sub, err := t.Subscribe()
	if err != nil {
		return nil, fmt.Errorf("p2p: subscribe topic %q: %w", name, err)
	}
	return &Topic{topic: t, sub: sub}, nil
}

// Publish broadcasts an opaque payload to every subscriber of the
// topic, including this node (gossipsub self-delivers by default).
func (t *Topic) Publish(ctx context.Context, payload []byte) error {
	return t.topic.Publish(ctx, payload)
}

// Next blocks until the next message arrives on the topic and returns
// its raw payload. Messages published by this node's own self-delivery
// are included; callers that need to filter self-origin should compare
// against their own peer id.
func (t *Topic) Next(ctx context.Context) ([]byte, error) {
	msg, err := t.sub.Next(ctx)
	if err != nil {
		return nil, fmt.Errorf("p2p: receive: %w", err)
	}
	return msg.GetData(), nil
}

// Close cancels the subscription and leaves the topic.
func (t *Topic) Close() {
	t.sub.Cancel()
	t.topic.Close()
}
