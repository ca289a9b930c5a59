package session

import (
	"sync"

	"github.com/raysh454/vulnscan-web/internal/submission"
)

const subscriberBuffer = 16

// Broker fans submission transitions out to the session's websocket
// subscribers. Slow subscribers miss events rather than block the form.
type Broker struct {
	mu   sync.Mutex
	subs map[chan submission.Transition]struct{}
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[chan submission.Transition]struct{})}
}

// Subscribe registers a new subscriber. The returned cancel func closes the
// channel and must be called once the subscriber is done.
func (b *Broker) Subscribe() (<-chan submission.Transition, func()) {
	ch := make(chan submission.Transition, subscriberBuffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Publish delivers t to every subscriber without blocking.
func (b *Broker) Publish(t submission.Transition) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- t:
		default:
		}
	}
}

// Subscribers returns the number of live subscribers.
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
