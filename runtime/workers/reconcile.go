package workers

import (
	"context"
	"log/slog"
	"time"

	"workchat/directory"
	"workchat/domain/event"
	"workchat/notify"
	"workchat/observability"
	"workchat/readstate"
	"workchat/repositories"

	"github.com/google/uuid"
)

// DefaultReconcileInterval is the poll fallback cadence covering events the
// feed dropped or the session missed while disconnected.
const DefaultReconcileInterval = 30 * time.Second

// ReconcileWorker periodically re-derives unread and directory state from the
// store. Every step is idempotent: read cursors only merge forward, the queue
// refuses dismissed IDs, and the directory cache simply refills on next read.
type ReconcileWorker struct {
	log           *slog.Logger
	interval      time.Duration
	sessionUserID uuid.UUID
	tracker       readstate.ITracker
	dispatcher    notify.IDispatcher
	queue         *notify.Queue
	directory     directory.IDirectory
	conversations repositories.IConversationRepository
	indexes       repositories.IIndexRepository
	notifications repositories.INotificationRepository
	stats         *observability.StatsManager
}

func NewReconcileWorker(
	log *slog.Logger,
	interval time.Duration,
	sessionUserID uuid.UUID,
	tracker readstate.ITracker,
	dispatcher notify.IDispatcher,
	queue *notify.Queue,
	dir directory.IDirectory,
	conversations repositories.IConversationRepository,
	indexes repositories.IIndexRepository,
	notifications repositories.INotificationRepository,
	stats *observability.StatsManager,
) *ReconcileWorker {
	if interval <= 0 {
		interval = DefaultReconcileInterval
	}
	return &ReconcileWorker{
		log:           log,
		interval:      interval,
		sessionUserID: sessionUserID,
		tracker:       tracker,
		dispatcher:    dispatcher,
		queue:         queue,
		directory:     dir,
		conversations: conversations,
		indexes:       indexes,
		notifications: notifications,
		stats:         stats,
	}
}

func (w *ReconcileWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Reconcile worker stopping")
			return nil
		case <-ticker.C:
			w.reconcile(ctx)
		}
	}
}

func (w *ReconcileWorker) reconcile(ctx context.Context) {
	w.stats.IncrReconcileRuns()

	// Forward-only merge of persisted cursors; local advances win.
	w.tracker.Hydrate(ctx)

	conversations, err := w.conversations.ListForUser(w.sessionUserID)
	if err != nil {
		w.log.Warn("Reconcile skipped, conversation listing failed", "err", err)
		return
	}

	unread := 0
	for _, conversation := range conversations {
		index, found, err := w.indexes.Get(conversation.ID)
		if err != nil || !found {
			continue
		}
		if index.Unread(w.tracker.LastReadAt(conversation.ID)) {
			unread++
		}
	}
	w.dispatcher.SetUnread(unread)
	w.directory.InvalidateAll()

	// Re-offer recent message notifications; the queue drops anything
	// already queued or dismissed. Other kinds only flash the title on
	// dispatch and are never queued, so they are skipped here too.
	recent, err := w.notifications.ListForReceiver(w.sessionUserID, notify.QueueCapacity)
	if err != nil {
		w.log.Debug("Reconcile notification pull failed", "err", err)
		return
	}
	for i := len(recent) - 1; i >= 0; i-- {
		if recent[i].Kind != event.KindMessage {
			continue
		}
		w.queue.Push(recent[i])
	}
}
