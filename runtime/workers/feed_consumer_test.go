package workers

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"workchat/domain/event"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// recordingSink captures consumed events grouped by conversation.
type recordingSink struct {
	mu     sync.Mutex
	byConv map[uuid.UUID][]uuid.UUID
}

func newRecordingSink() *recordingSink {
	return &recordingSink{byConv: make(map[uuid.UUID][]uuid.UUID)}
}

func (s *recordingSink) Consume(_ context.Context, e event.ChangeEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byConv[e.ConversationID] = append(s.byConv[e.ConversationID], e.ID)
	return nil
}

func (s *recordingSink) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, ids := range s.byConv {
		n += len(ids)
	}
	return n
}

func (s *recordingSink) order(conversationID uuid.UUID) []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]uuid.UUID, len(s.byConv[conversationID]))
	copy(out, s.byConv[conversationID])
	return out
}

func TestFeedConsumer_PreservesPerConversationOrder(t *testing.T) {
	req := require.New(t)
	sink := newRecordingSink()
	events := make(chan event.ChangeEvent, 128)
	worker := NewFeedConsumerWorker(slog.Default(), events, 4, 16, sink)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = worker.Run(ctx)
		close(done)
	}()

	convA := uuid.New()
	convB := uuid.New()
	var wantA, wantB []uuid.UUID
	for i := 0; i < 20; i++ {
		ea := event.ChangeEvent{ID: uuid.New(), Entity: event.EntityMessage, Op: event.OpInsert, ConversationID: convA, At: time.Now().UTC()}
		eb := event.ChangeEvent{ID: uuid.New(), Entity: event.EntityMessage, Op: event.OpInsert, ConversationID: convB, At: time.Now().UTC()}
		wantA = append(wantA, ea.ID)
		wantB = append(wantB, eb.ID)
		events <- ea
		events <- eb
	}

	req.Eventually(func() bool { return sink.total() == 40 }, 2*time.Second, 10*time.Millisecond)
	req.Equal(wantA, sink.order(convA))
	req.Equal(wantB, sink.order(convB))

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("consumer should stop on context cancel")
	}
}

type failingSink struct{}

func (failingSink) Consume(context.Context, event.ChangeEvent) error {
	return stderrors.New("sink down")
}

func TestFeedConsumer_SinkFailureDoesNotStopOthers(t *testing.T) {
	req := require.New(t)
	sink := newRecordingSink()
	events := make(chan event.ChangeEvent, 8)
	worker := NewFeedConsumerWorker(slog.Default(), events, 2, 8, failingSink{}, sink)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	events <- event.ChangeEvent{ID: uuid.New(), Entity: event.EntityMessage, Op: event.OpInsert, ConversationID: uuid.New(), At: time.Now().UTC()}

	req.Eventually(func() bool { return sink.total() == 1 }, time.Second, 10*time.Millisecond)
}

func TestFeedConsumer_StopsWhenFeedCloses(t *testing.T) {
	req := require.New(t)
	events := make(chan event.ChangeEvent)
	worker := NewFeedConsumerWorker(slog.Default(), events, 2, 8, newRecordingSink())

	done := make(chan error, 1)
	go func() { done <- worker.Run(context.Background()) }()

	close(events)
	select {
	case err := <-done:
		req.NoError(err)
	case <-time.After(time.Second):
		req.Fail("consumer should return when the feed channel closes")
	}
}
