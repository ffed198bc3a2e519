package notify

import (
	"sync"

	"workchat/domain/event"
	"workchat/observability"

	"github.com/google/uuid"
)

// QueueCapacity bounds the visible notification stack. The oldest entry is
// silently evicted when a sixth arrives.
const QueueCapacity = 5

// dismissedRetention bounds the dismissed-ID set so reconcile passes never
// resurrect a dismissed notification while keeping memory flat.
const dismissedRetention = 256

// Queue is the bounded, newest-first notification stack shown to the user.
type Queue struct {
	mu        sync.Mutex
	capacity  int
	items     []event.Notification
	dismissed *ringSet
	stats     *observability.StatsManager
	subs      map[int]chan []event.Notification
	nextSub   int
}

func NewQueue(capacity int, stats *observability.StatsManager) *Queue {
	if capacity <= 0 {
		capacity = QueueCapacity
	}
	return &Queue{
		capacity:  capacity,
		dismissed: newRingSet(dismissedRetention),
		stats:     stats,
		subs:      make(map[int]chan []event.Notification),
	}
}

// Push prepends the notification. Already-dismissed or already-queued IDs are
// ignored, which is what keeps reconcile passes idempotent.
func (q *Queue) Push(n event.Notification) {
	q.mu.Lock()
	if q.dismissed.has(n.ID) {
		q.mu.Unlock()
		return
	}
	for _, item := range q.items {
		if item.ID == n.ID {
			q.mu.Unlock()
			return
		}
	}

	q.items = append([]event.Notification{n}, q.items...)
	if len(q.items) > q.capacity {
		q.items = q.items[:q.capacity]
		if q.stats != nil {
			q.stats.IncrQueueEvictions()
		}
	}
	snapshot := q.snapshotLocked()
	q.mu.Unlock()

	q.broadcast(snapshot)
}

// Dismiss removes the notification and remembers its ID so it never comes
// back through a later push or reconcile.
func (q *Queue) Dismiss(id uuid.UUID) {
	q.mu.Lock()
	q.dismissed.add(id)
	kept := q.items[:0]
	for _, item := range q.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	q.items = kept
	snapshot := q.snapshotLocked()
	q.mu.Unlock()

	q.broadcast(snapshot)
}

func (q *Queue) Items() []event.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.snapshotLocked()
}

func (q *Queue) Dismissed(id uuid.UUID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dismissed.has(id)
}

// Subscribe delivers a snapshot of the stack after every change. A slow
// consumer misses intermediate snapshots, never the latest state shape.
func (q *Queue) Subscribe() (<-chan []event.Notification, func()) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.nextSub++
	id := q.nextSub
	ch := make(chan []event.Notification, 1)
	q.subs[id] = ch

	return ch, func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		if sub, ok := q.subs[id]; ok {
			delete(q.subs, id)
			close(sub)
		}
	}
}

func (q *Queue) snapshotLocked() []event.Notification {
	snapshot := make([]event.Notification, len(q.items))
	copy(snapshot, q.items)
	return snapshot
}

func (q *Queue) broadcast(snapshot []event.Notification) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, sub := range q.subs {
		select {
		case sub <- snapshot:
		default:
			// Drain the stale snapshot and replace it with the fresh one.
			select {
			case <-sub:
			default:
			}
			select {
			case sub <- snapshot:
			default:
			}
		}
	}
}

// ringSet is a fixed-size set with FIFO eviction.
type ringSet struct {
	capacity int
	order    []uuid.UUID
	members  map[uuid.UUID]struct{}
}

func newRingSet(capacity int) *ringSet {
	return &ringSet{
		capacity: capacity,
		members:  make(map[uuid.UUID]struct{}, capacity),
	}
}

func (s *ringSet) add(id uuid.UUID) {
	if _, ok := s.members[id]; ok {
		return
	}
	s.members[id] = struct{}{}
	s.order = append(s.order, id)
	if len(s.order) > s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.members, oldest)
	}
}

func (s *ringSet) has(id uuid.UUID) bool {
	_, ok := s.members[id]
	return ok
}
