// Package feed is the in-process change feed bridging the store to session
// consumers. It provides best-effort fan-out with no guarantees regarding
// durability or retries: a slow subscriber loses events rather than blocking
// writers, and the periodic reconcile pass covers the gap.
package feed

import (
	"log/slog"
	"sync"

	"workchat/domain/event"

	"github.com/google/uuid"
)

type subscription struct {
	id             int
	conversationID uuid.UUID
	mask           event.Mask
	ch             chan event.ChangeEvent
}

type Feed struct {
	mu         sync.RWMutex
	log        *slog.Logger
	nextID     int
	bufferSize int
	subs       map[int]*subscription
}

func New(log *slog.Logger, bufferSize int) *Feed {
	return &Feed{
		log:        log,
		bufferSize: bufferSize,
		subs:       make(map[int]*subscription),
	}
}

// Subscribe registers a consumer for events matching the mask.
// conversationID == uuid.Nil observes every conversation. The returned stop
// function must be called on teardown; it closes the channel.
func (f *Feed) Subscribe(conversationID uuid.UUID, mask event.Mask) (<-chan event.ChangeEvent, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	sub := &subscription{
		id:             f.nextID,
		conversationID: conversationID,
		mask:           mask,
		ch:             make(chan event.ChangeEvent, f.bufferSize),
	}
	f.subs[sub.id] = sub

	return sub.ch, func() { f.unsubscribe(sub.id) }
}

func (f *Feed) unsubscribe(id int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if sub, ok := f.subs[id]; ok {
		delete(f.subs, id)
		close(sub.ch)
	}
}

// Publish delivers the event to every matching subscriber without blocking.
// A full subscriber buffer drops the event for that subscriber only.
func (f *Feed) Publish(e event.ChangeEvent) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, sub := range f.subs {
		if sub.conversationID != uuid.Nil && sub.conversationID != e.ConversationID {
			continue
		}
		if !sub.mask.Matches(e.Entity) {
			continue
		}
		select {
		case sub.ch <- e:
		default:
			f.log.Debug("Change-feed subscriber buffer full, event dropped",
				"entity", string(e.Entity), "event_id", e.ID.String())
		}
	}
}
