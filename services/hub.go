package services

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yebeniyam/bingo/models"
)

// subscriberBuffer bounds each subscriber's outbound queue. A stalled client
// loses events instead of growing memory without bound.
const subscriberBuffer = 32

// Subscriber is one client connection listening to a session's events.
type Subscriber struct {
	ID string

	mu     sync.Mutex
	closed bool
	ch     chan models.Event
}

// Events is the subscriber's receive channel. It is closed when the client
// unsubscribes or the session finishes.
func (s *Subscriber) Events() <-chan models.Event { return s.ch }

// trySend delivers the event unless the queue is full or the subscriber is
// already closed. The closed check and the send happen under the same lock as
// closeCh, so a concurrent Publish can never hit a closed channel.
func (s *Subscriber) trySend(ev models.Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.ch <- ev:
		return true
	default:
		return false
	}
}

func (s *Subscriber) closeCh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// Hub is the publish/subscribe channel keyed by session id.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]map[string]*Subscriber
	log      *zap.SugaredLogger
}

func NewHub(log *zap.SugaredLogger) *Hub {
	return &Hub{sessions: make(map[string]map[string]*Subscriber), log: log}
}

// Subscribe registers a new subscriber for a session.
func (h *Hub) Subscribe(sessionID string) *Subscriber {
	sub := &Subscriber{ID: uuid.NewString(), ch: make(chan models.Event, subscriberBuffer)}

	h.mu.Lock()
	subs, ok := h.sessions[sessionID]
	if !ok {
		subs = make(map[string]*Subscriber)
		h.sessions[sessionID] = subs
	}
	subs[sub.ID] = sub
	h.mu.Unlock()

	return sub
}

// Unsubscribe removes one subscriber and closes its channel.
func (h *Hub) Unsubscribe(sessionID, subID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.sessions[sessionID]
	if !ok {
		return
	}
	sub, ok := subs[subID]
	if !ok {
		return
	}
	delete(subs, subID)
	if len(subs) == 0 {
		delete(h.sessions, sessionID)
	}
	sub.closeCh()
}

// Publish pushes an event to every subscriber of the session. Sends never
// block: a full queue drops the event for that subscriber.
func (h *Hub) Publish(sessionID string, ev models.Event) {
	h.mu.RLock()
	subs := make([]*Subscriber, 0, len(h.sessions[sessionID]))
	for _, sub := range h.sessions[sessionID] {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	for _, sub := range subs {
		if !sub.trySend(ev) {
			h.log.Warnf("session %s: dropping %s event for subscriber %s", sessionID, ev.Type, sub.ID)
		}
	}
}

// CloseSession closes every subscriber of a finished session. The caller
// publishes the final event first.
func (h *Hub) CloseSession(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, sub := range h.sessions[sessionID] {
		sub.closeCh()
	}
	delete(h.sessions, sessionID)
}

// SubscriberCount reports the current subscribers of a session.
func (h *Hub) SubscriberCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}
