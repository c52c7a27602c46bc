package events

import (
	"context"
	"sync"
)

// subscriberBuffer is how many events a slow listener may lag behind before
// further events are dropped for it.
const subscriberBuffer = 64

// LocalBus delivers events to subscribers of the same process.
type LocalBus struct {
	mu   sync.Mutex
	subs map[chan []byte]struct{}
}

// NewLocalBus creates an empty LocalBus.
func NewLocalBus() *LocalBus {
	return &LocalBus{subs: make(map[chan []byte]struct{})}
}

// Publish implements Publisher. It never blocks on slow subscribers.
func (b *LocalBus) Publish(_ context.Context, e Event) error {
	payload, err := encode(e)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- payload:
		default:
		}
	}
	return nil
}

// Subscribe implements Bus.
func (b *LocalBus) Subscribe(_ context.Context) (*Subscription, error) {
	ch := make(chan []byte, subscriberBuffer)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	return &Subscription{
		C: ch,
		close: func() error {
			once.Do(func() {
				b.mu.Lock()
				delete(b.subs, ch)
				b.mu.Unlock()
				close(ch)
			})
			return nil
		},
	}, nil
}
