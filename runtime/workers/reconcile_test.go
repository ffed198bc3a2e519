package workers

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"workchat/directory"
	"workchat/domain"
	"workchat/domain/event"
	"workchat/feed"
	"workchat/notify"
	"workchat/observability"
	"workchat/readstate"
	"workchat/repositories"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeDispatcher struct{ unread int }

func (d *fakeDispatcher) Dispatch(context.Context, event.Notification) {}
func (d *fakeDispatcher) SetUnread(count int)                          { d.unread = count }
func (d *fakeDispatcher) Unread() int                                  { return d.unread }

type fakeDirectory struct{ invalidations int }

func (d *fakeDirectory) ListByCategory(context.Context, uuid.UUID, domain.Category) ([]directory.Row, error) {
	return nil, nil
}
func (d *fakeDirectory) Invalidate(domain.Category) {}
func (d *fakeDirectory) InvalidateAll()             { d.invalidations++ }

func TestReconcile_RebuildsUnreadAndQueue(t *testing.T) {
	req := require.New(t)

	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	t.Cleanup(func() { _ = db.Close() })

	log := slog.Default()
	f := feed.New(log, 64)
	userID := uuid.New()

	conversations := repositories.NewConversationRepository(db, log, f)
	members := repositories.NewMemberRepository(db, log, f)
	indexes := repositories.NewIndexRepository(db, log, f)
	notifications := repositories.NewNotificationRepository(db, log, f)
	tracker := readstate.NewTracker(log, userID, members, conversations, indexes)

	stats := observability.NewStatsManager()
	queue := notify.NewQueue(notify.QueueCapacity, stats)
	dispatcher := &fakeDispatcher{}
	dir := &fakeDirectory{}

	worker := NewReconcileWorker(
		log, DefaultReconcileInterval, userID,
		tracker, dispatcher, queue, dir,
		conversations, indexes, notifications, stats,
	)

	// One conversation with activity the user has not read.
	conversation := domain.Conversation{ID: uuid.New(), Type: domain.Team, Name: "team", CreatedAt: time.Now().UTC()}
	req.NoError(conversations.Create(conversation, []domain.Member{{UserID: userID, IsAdmin: true}}))
	req.NoError(indexes.Upsert(domain.Index{
		ConversationID: conversation.ID,
		LastMessage:    "ping",
		LastMessageAt:  time.Now().UTC(),
	}))

	// Three stored notifications: one dismissed, one of a kind that never
	// queues. Only the plain message survives the rebuild.
	kept := event.Notification{ID: uuid.New(), Kind: event.KindMessage, ReceiverID: userID, Body: "kept", CreatedAt: time.Now().UTC()}
	dismissed := event.Notification{ID: uuid.New(), Kind: event.KindMessage, ReceiverID: userID, Body: "dismissed", CreatedAt: time.Now().UTC().Add(time.Second)}
	announcement := event.Notification{ID: uuid.New(), Kind: event.KindAnnouncement, ReceiverID: userID, Body: "all hands", CreatedAt: time.Now().UTC().Add(2 * time.Second)}
	req.NoError(notifications.Insert(kept))
	req.NoError(notifications.Insert(dismissed))
	req.NoError(notifications.Insert(announcement))
	queue.Dismiss(dismissed.ID)

	worker.reconcile(context.Background())

	req.Equal(1, dispatcher.Unread())
	req.Equal(1, dir.invalidations)
	req.Equal(uint64(1), stats.Snapshot().ReconcileRuns)

	items := queue.Items()
	req.Len(items, 1)
	req.Equal(kept.ID, items[0].ID)

	// A second pass changes nothing: the queue refuses duplicates.
	worker.reconcile(context.Background())
	req.Len(queue.Items(), 1)
}

func TestReconcile_ClearsUnreadAfterRead(t *testing.T) {
	req := require.New(t)

	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	t.Cleanup(func() { _ = db.Close() })

	log := slog.Default()
	f := feed.New(log, 64)
	userID := uuid.New()

	conversations := repositories.NewConversationRepository(db, log, f)
	members := repositories.NewMemberRepository(db, log, f)
	indexes := repositories.NewIndexRepository(db, log, f)
	notifications := repositories.NewNotificationRepository(db, log, f)
	tracker := readstate.NewTracker(log, userID, members, conversations, indexes)

	stats := observability.NewStatsManager()
	dispatcher := &fakeDispatcher{unread: 3}
	worker := NewReconcileWorker(
		log, 0, userID,
		tracker, dispatcher, notify.NewQueue(notify.QueueCapacity, stats), &fakeDirectory{},
		conversations, indexes, notifications, stats,
	)

	conversation := domain.Conversation{ID: uuid.New(), Type: domain.Team, Name: "team", CreatedAt: time.Now().UTC()}
	req.NoError(conversations.Create(conversation, []domain.Member{{UserID: userID, IsAdmin: true}}))
	req.NoError(indexes.Upsert(domain.Index{
		ConversationID: conversation.ID,
		LastMessage:    "ping",
		LastMessageAt:  time.Now().UTC().Add(-time.Minute),
	}))
	tracker.Merge(conversation.ID, time.Now().UTC())

	worker.reconcile(context.Background())
	req.Zero(dispatcher.Unread())
}
