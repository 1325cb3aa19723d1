package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yebeniyam/bingo/models"
)

func newTestHub() *Hub {
	return NewHub(zap.NewNop().Sugar())
}

func TestHub_PublishReachesAllSubscribers(t *testing.T) {
	h := newTestHub()

	a := h.Subscribe("s1")
	b := h.Subscribe("s1")
	other := h.Subscribe("s2")

	h.Publish("s1", models.Event{Type: models.EventDraw, Data: "B7"})

	for _, sub := range []*Subscriber{a, b} {
		select {
		case ev := <-sub.Events():
			assert.Equal(t, models.EventDraw, ev.Type)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive the event")
		}
	}

	select {
	case ev := <-other.Events():
		t.Fatalf("subscriber of another session received %v", ev)
	default:
	}
}

func TestHub_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	h := newTestHub()
	sub := h.Subscribe("s1")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < subscriberBuffer+10; i++ {
			h.Publish("s1", models.Event{Type: models.EventCountdown, Data: i})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber queue")
	}

	// The queue holds exactly its bound; the overflow was dropped.
	received := 0
	for {
		select {
		case <-sub.Events():
			received++
			continue
		default:
		}
		break
	}
	assert.Equal(t, subscriberBuffer, received)
}

func TestHub_Unsubscribe(t *testing.T) {
	h := newTestHub()
	sub := h.Subscribe("s1")
	require.Equal(t, 1, h.SubscriberCount("s1"))

	h.Unsubscribe("s1", sub.ID)
	assert.Equal(t, 0, h.SubscriberCount("s1"))

	_, ok := <-sub.Events()
	assert.False(t, ok, "channel closed on unsubscribe")

	// Double unsubscribe is harmless.
	h.Unsubscribe("s1", sub.ID)
}

func TestHub_PublishRacesTeardown(t *testing.T) {
	h := newTestHub()

	// Publishers hold a snapshot of the subscriber while Unsubscribe and
	// CloseSession close it; a send after the close must be a silent drop,
	// not a panic. Run with -race.
	for i := 0; i < 200; i++ {
		a := h.Subscribe("s1")
		b := h.Subscribe("s1")

		var wg sync.WaitGroup
		wg.Add(3)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				h.Publish("s1", models.Event{Type: models.EventDraw, Data: j})
			}
		}()
		go func() {
			defer wg.Done()
			h.Unsubscribe("s1", a.ID)
		}()
		go func() {
			defer wg.Done()
			h.CloseSession("s1")
		}()
		wg.Wait()

		for range a.Events() {
		}
		for range b.Events() {
		}
	}
}

func TestHub_CloseSession(t *testing.T) {
	h := newTestHub()
	a := h.Subscribe("s1")
	b := h.Subscribe("s1")

	h.Publish("s1", models.Event{Type: models.EventGameEnd})
	h.CloseSession("s1")

	// Final event is still delivered, then the channel closes.
	ev, ok := <-a.Events()
	require.True(t, ok)
	assert.Equal(t, models.EventGameEnd, ev.Type)
	_, ok = <-a.Events()
	assert.False(t, ok)

	<-b.Events()
	_, ok = <-b.Events()
	assert.False(t, ok)

	assert.Equal(t, 0, h.SubscriberCount("s1"))

	// Unsubscribing after the session closed must not panic.
	h.Unsubscribe("s1", a.ID)
}
