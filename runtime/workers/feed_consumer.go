package workers

import (
	"context"
	"hash/fnv"
	"log/slog"
	"sync"

	"workchat/contract"
	"workchat/domain/event"

	"github.com/google/uuid"
)

// FeedConsumerWorker drains the change feed into the registered sinks.
// Events are partitioned over a fixed set of lanes keyed by conversation, so
// handling within one conversation is serialized while distinct conversations
// proceed concurrently. Notification events with no owning conversation key
// on their receiver instead.
type FeedConsumerWorker struct {
	log        *slog.Logger
	events     <-chan event.ChangeEvent
	sinks      []contract.EventSink
	laneCount  int
	laneBuffer int
}

func NewFeedConsumerWorker(log *slog.Logger, events <-chan event.ChangeEvent, laneCount, laneBuffer int, sinks ...contract.EventSink) *FeedConsumerWorker {
	if laneCount <= 0 {
		laneCount = 4
	}
	if laneBuffer <= 0 {
		laneBuffer = 64
	}
	return &FeedConsumerWorker{
		log:        log,
		events:     events,
		sinks:      sinks,
		laneCount:  laneCount,
		laneBuffer: laneBuffer,
	}
}

func (w *FeedConsumerWorker) Run(ctx context.Context) error {
	lanes := make([]chan event.ChangeEvent, w.laneCount)
	var wg sync.WaitGroup
	for i := range lanes {
		lanes[i] = make(chan event.ChangeEvent, w.laneBuffer)
		wg.Add(1)
		go func(lane <-chan event.ChangeEvent) {
			defer wg.Done()
			for e := range lane {
				w.consume(ctx, e)
			}
		}(lanes[i])
	}

	defer func() {
		for _, lane := range lanes {
			close(lane)
		}
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Feed consumer stopping")
			return nil
		case e, ok := <-w.events:
			if !ok {
				w.log.Debug("Change feed closed")
				return nil
			}
			lane := lanes[w.laneFor(e)]
			select {
			case <-ctx.Done():
				return nil
			case lane <- e:
			}
		}
	}
}

func (w *FeedConsumerWorker) consume(ctx context.Context, e event.ChangeEvent) {
	for _, sink := range w.sinks {
		if err := sink.Consume(ctx, e); err != nil {
			w.log.Warn("Event sink failed",
				"entity", string(e.Entity), "event_id", e.ID.String(), "err", err)
		}
	}
}

// laneFor keys the event onto a lane. The key is the conversation when there
// is one, the notification receiver otherwise, so per-conversation and
// per-receiver ordering both hold.
func (w *FeedConsumerWorker) laneFor(e event.ChangeEvent) int {
	key := e.ConversationID
	if key == uuid.Nil {
		if n, ok := e.Payload.(event.Notification); ok {
			key = n.ReceiverID
		} else {
			key = e.ID
		}
	}

	h := fnv.New32a()
	_, _ = h.Write(key[:])
	return int(h.Sum32() % uint32(w.laneCount))
}
