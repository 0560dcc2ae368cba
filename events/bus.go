/*
Package events delivers committed state transitions to in-process
subscribers.

The application publishes events only after the block that produced them is
committed. Each subscription owns an unbounded queue drained by its own
goroutine, so a slow consumer never blocks the publisher. Delivery is at
least once; consumers are expected to refresh their view idempotently.
*/
package events

import (
	"bytes"
	"sync"

	"github.com/iov-one/ledger"
	"github.com/tendermint/tendermint/libs/log"
)

// Bus is a publish/subscribe hub keyed by the event key, ie. an escrow id.
type Bus struct {
	logger log.Logger

	mu     sync.Mutex
	subs   map[*Subscription]struct{}
	closed bool
}

// NewBus returns an empty bus.
func NewBus(logger log.Logger) *Bus {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Bus{
		logger: logger.With("module", "events"),
		subs:   make(map[*Subscription]struct{}),
	}
}

// Subscribe returns a subscription to events about key. A nil key
// subscribes to all events. Subscribing to a closed bus returns a closed
// subscription.
func (b *Bus) Subscribe(key []byte) *Subscription {
	s := newSubscription(b, key)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		s.stop()
		return s
	}
	b.subs[s] = struct{}{}
	return s
}

// Publish queues events for every matching subscription. It never blocks
// on a subscriber.
func (b *Bus) Publish(events ...ledger.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, e := range events {
		for s := range b.subs {
			if s.matches(e) {
				s.push(e)
			}
		}
		b.logger.Debug("event published", "kind", e.Kind, "key", e.Key, "height", e.Height)
	}
}

// Close closes all subscriptions. Publishing afterwards is a no-op.
func (b *Bus) Close() {
	b.mu.Lock()
	subs := b.subs
	b.subs = make(map[*Subscription]struct{})
	b.closed = true
	b.mu.Unlock()

	for s := range subs {
		s.stop()
	}
}

func (b *Bus) remove(s *Subscription) {
	b.mu.Lock()
	delete(b.subs, s)
	b.mu.Unlock()
}

// Subscription receives events from a bus.
type Subscription struct {
	bus *Bus
	key []byte
	out chan ledger.Event

	mu     sync.Mutex
	queue  []ledger.Event
	wake   chan struct{}
	done   chan struct{}
	closer sync.Once
}

func newSubscription(b *Bus, key []byte) *Subscription {
	s := &Subscription{
		bus:  b,
		key:  key,
		out:  make(chan ledger.Event),
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go s.run()
	return s
}

// Events returns the channel events are delivered on. It is closed once
// the subscription or the bus is closed.
func (s *Subscription) Events() <-chan ledger.Event {
	return s.out
}

// Close stops the delivery. Queued events are dropped.
func (s *Subscription) Close() {
	s.bus.remove(s)
	s.stop()
}

func (s *Subscription) stop() {
	s.closer.Do(func() { close(s.done) })
}

func (s *Subscription) matches(e ledger.Event) bool {
	return s.key == nil || bytes.Equal(s.key, e.Key)
}

func (s *Subscription) push(e ledger.Event) {
	s.mu.Lock()
	s.queue = append(s.queue, e)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Subscription) pop() (ledger.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return ledger.Event{}, false
	}
	e := s.queue[0]
	s.queue[0] = ledger.Event{}
	s.queue = s.queue[1:]
	return e, true
}

func (s *Subscription) run() {
	defer close(s.out)
	for {
		e, ok := s.pop()
		if !ok {
			select {
			case <-s.wake:
				continue
			case <-s.done:
				return
			}
		}
		select {
		case s.out <- e:
		case <-s.done:
			return
		}
	}
}
