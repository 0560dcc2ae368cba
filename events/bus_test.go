package events

import (
	"testing"
	"time"

	"github.com/iov-one/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, s *Subscription) ledger.Event {
	t.Helper()
	select {
	case e, ok := <-s.Events():
		require.True(t, ok, "subscription closed")
		return e
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
	return ledger.Event{}
}

func TestBusDeliversByKey(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()

	first := bus.Subscribe([]byte{1})
	second := bus.Subscribe([]byte{2})
	all := bus.Subscribe(nil)

	bus.Publish(
		ledger.Event{Kind: "escrow.deployed", Key: []byte{1}, Height: 3},
		ledger.Event{Kind: "escrow.approved", Key: []byte{2}, Height: 3},
	)

	assert.Equal(t, "escrow.deployed", receive(t, first).Kind)
	assert.Equal(t, "escrow.approved", receive(t, second).Kind)
	assert.Equal(t, []byte{1}, receive(t, all).Key)
	assert.Equal(t, []byte{2}, receive(t, all).Key)

	select {
	case e := <-first.Events():
		t.Fatalf("unexpected event %v", e)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestBusSlowSubscriberDoesNotBlock(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()
	s := bus.Subscribe(nil)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			bus.Publish(ledger.Event{Kind: "escrow.approved", Height: int64(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a subscriber that does not read")
	}

	for i := 0; i < 1000; i++ {
		assert.Equal(t, int64(i), receive(t, s).Height)
	}
}

func TestSubscriptionClose(t *testing.T) {
	bus := NewBus(nil)
	s := bus.Subscribe(nil)
	s.Close()
	s.Close()

	_, ok := <-s.Events()
	assert.False(t, ok)

	other := bus.Subscribe(nil)
	bus.Close()
	_, ok = <-other.Events()
	assert.False(t, ok)

	late := bus.Subscribe(nil)
	_, ok = <-late.Events()
	assert.False(t, ok)

	bus.Publish(ledger.Event{Kind: "escrow.deployed"})
}
