package room

import (
	"context"
	"sync"
)

// LocalBus is an in-process Bus for single-node deployments and tests.
// Delivery per channel follows publish order; a subscriber that falls more
// than its buffer behind loses messages, matching the registry's
// at-most-once contract.
type LocalBus struct {
	mu   sync.Mutex
	subs map[string]map[int]chan []byte
	next int
}

func NewLocalBus() *LocalBus {
	return &LocalBus{subs: make(map[string]map[int]chan []byte)}
}

func (b *LocalBus) Publish(_ context.Context, channel string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs[channel] {
		select {
		case ch <- payload:
		default:
		}
	}
	return nil
}

func (b *LocalBus) Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error) {
	b.mu.Lock()
	id := b.next
	b.next++
	ch := make(chan []byte, sessionBuffer)
	if b.subs[channel] == nil {
		b.subs[channel] = make(map[int]chan []byte)
	}
	b.subs[channel][id] = ch
	b.mu.Unlock()

	out := make(chan []byte, sessionBuffer)
	done := make(chan struct{})

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case msg := <-ch:
				select {
				case out <- msg:
				case <-ctx.Done():
					return
				case <-done:
					return
				}
			}
		}
	}()

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[channel], id)
			if len(b.subs[channel]) == 0 {
				delete(b.subs, channel)
			}
			b.mu.Unlock()
			close(done)
		})
	}

	return out, cleanup, nil
}
