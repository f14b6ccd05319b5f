package reflux

import (
	"context"
	"fmt"
	"sync"
)

// Publisher is a Watcher for actions produced inside the process, such as
// by request handlers or tests. Published batches are encoded with the
// codec, so a Feed decodes, validates, and dispatches them exactly as it
// does batches read from a file.
//
//	pub := reflux.NewPublisher(reflux.JSONCodec{}, 16)
//	feed := reflux.NewFeed(store, pub)
//	go feed.Start(ctx)
//	_ = pub.Publish(ctx, reflux.Basic{Type: "BUY_CAKE"})
type Publisher struct {
	codec     Codec
	batches   chan []byte
	done      chan struct{}
	closeOnce sync.Once
	direct    bool
}

// NewPublisher creates a Publisher that queues up to buffer batches.
// The codec must match the one the consuming Feed decodes with.
func NewPublisher(codec Codec, buffer int) *Publisher {
	return &Publisher{
		codec:   codec,
		batches: make(chan []byte, buffer),
		done:    make(chan struct{}),
	}
}

// Direct makes Watch return the queue itself instead of a forwarding
// channel. Pair it with Feed.SyncMode so each Process call sees every batch
// published before it. The queue is never closed in direct mode.
func (p *Publisher) Direct() *Publisher {
	p.direct = true
	return p
}

// Publish encodes actions as one batch and queues it. An empty batch and an
// envelope without a type are rejected here, before they reach the Feed.
func (p *Publisher) Publish(ctx context.Context, actions ...Basic) error {
	if len(actions) == 0 {
		return ErrEmptyBatch
	}
	for i := range actions {
		if err := validate.StructCtx(ctx, actions[i]); err != nil {
			return fmt.Errorf("envelope %d: %w", i, err)
		}
	}

	raw, err := p.codec.Marshal(actions)
	if err != nil {
		return fmt.Errorf("encode %s batch: %w", p.codec.ContentType(), err)
	}
	return p.PublishRaw(ctx, raw)
}

// PublishRaw queues an already encoded batch. Malformed input is not
// checked here; the Feed records it as a decode failure.
func (p *Publisher) PublishRaw(ctx context.Context, raw []byte) error {
	select {
	case <-p.done:
		return ErrPublisherClosed
	default:
	}

	select {
	case p.batches <- raw:
		return nil
	case <-p.done:
		return ErrPublisherClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting batches. A forwarding channel from Watch delivers
// what is already queued, then closes.
func (p *Publisher) Close() {
	p.closeOnce.Do(func() { close(p.done) })
}

// Watch returns the channel a Feed reads batches from.
func (p *Publisher) Watch(ctx context.Context) (<-chan []byte, error) {
	if p.direct {
		return p.batches, nil
	}

	out := make(chan []byte)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case raw := <-p.batches:
				if !p.forward(ctx, out, raw) {
					return
				}
			case <-p.done:
				p.drain(ctx, out)
				return
			}
		}
	}()
	return out, nil
}

func (p *Publisher) forward(ctx context.Context, out chan<- []byte, raw []byte) bool {
	select {
	case out <- raw:
		return true
	case <-ctx.Done():
		return false
	}
}

// drain delivers batches queued before Close.
func (p *Publisher) drain(ctx context.Context, out chan<- []byte) {
	for {
		select {
		case raw := <-p.batches:
			if !p.forward(ctx, out, raw) {
				return
			}
		default:
			return
		}
	}
}

var _ Watcher = (*Publisher)(nil)
