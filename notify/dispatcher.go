//go:generate go run go.uber.org/mock/mockgen -source=dispatcher.go -destination=../mocks/mock_dispatcher.go -package=mocks
// Package notify turns inbound notification events into user-facing signals:
// the bounded queue, toasts, system notifications, sound and the title blink.
package notify

import (
	"context"
	"log/slog"
	"sync"

	"workchat/contract"
	"workchat/domain/event"
	"workchat/observability"
	"workchat/repositories"

	"github.com/google/uuid"
)

// seenRetention bounds the dedup set. Reconnect replay bursts are far smaller
// than this; an ID aged out of the set has long left the replay horizon.
const seenRetention = 1024

type IDispatcher interface {
	Dispatch(ctx context.Context, n event.Notification)
	SetUnread(count int)
	Unread() int
}

type Dispatcher struct {
	mu     sync.Mutex
	seen   *ringSet
	unread int

	log           *slog.Logger
	stats         *observability.StatsManager
	queue         *Queue
	title         *TitleController
	toaster       contract.IToaster
	system        contract.ISystemNotifier
	sound         contract.ISoundPlayer
	directory     interface{ InvalidateAll() }
	profiles      repositories.IProfileRepository
	conversations repositories.IConversationRepository
	sessionUserID uuid.UUID
}

func NewDispatcher(
	log *slog.Logger,
	stats *observability.StatsManager,
	queue *Queue,
	title *TitleController,
	toaster contract.IToaster,
	system contract.ISystemNotifier,
	sound contract.ISoundPlayer,
	directory interface{ InvalidateAll() },
	profiles repositories.IProfileRepository,
	conversations repositories.IConversationRepository,
	sessionUserID uuid.UUID,
) *Dispatcher {
	return &Dispatcher{
		seen:          newRingSet(seenRetention),
		log:           log,
		stats:         stats,
		queue:         queue,
		title:         title,
		toaster:       toaster,
		system:        system,
		sound:         sound,
		directory:     directory,
		profiles:      profiles,
		conversations: conversations,
		sessionUserID: sessionUserID,
	}
}

// Dispatch handles one inbound notification. Replayed deliveries of an
// already-seen ID are dropped before any counter or queue is touched, so a
// reconnect burst cannot double-count unreads or double-queue entries.
func (d *Dispatcher) Dispatch(_ context.Context, n event.Notification) {
	d.mu.Lock()
	if d.seen.has(n.ID) {
		d.mu.Unlock()
		d.stats.IncrDuplicateDropped()
		d.log.Debug("Duplicate notification dropped", "id", n.ID.String())
		return
	}
	d.seen.add(n.ID)
	if n.Kind == event.KindMessage {
		d.unread++
		d.title.SetUnread(d.unread)
	}
	d.mu.Unlock()

	d.stats.IncrDispatched()

	toast := contract.Toast{
		Body:       n.Body,
		Kind:       n.Kind,
		SenderName: n.SenderName,
	}

	if n.Kind == event.KindMessage {
		d.directory.InvalidateAll()
		toast = d.enrich(n, toast)
		d.queue.Push(n)
	} else {
		d.title.Flash(n.Title(), maxFlashTicks)
	}

	d.fanout(n, toast)
}

// SetUnread overrides the unread counter, used by the reconcile pass when it
// re-derives state from the store.
func (d *Dispatcher) SetUnread(count int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.unread = count
	d.title.SetUnread(count)
}

func (d *Dispatcher) Unread() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.unread
}

// enrich resolves sender metadata and the owning DM for the toast. Every
// lookup is best-effort: on failure the toast stays generic and the
// notification still goes out.
func (d *Dispatcher) enrich(n event.Notification, toast contract.Toast) contract.Toast {
	if n.SenderID == uuid.Nil {
		return toast
	}

	profile, err := d.profiles.Get(n.SenderID)
	if err != nil {
		d.log.Debug("Sender profile lookup failed, generic notification", "sender_id", n.SenderID.String(), "err", err)
		return toast
	}
	toast.SenderName = profile.DisplayName()
	toast.AvatarURL = profile.AvatarURL

	conversation, found, err := d.conversations.FindDirect(d.sessionUserID, n.SenderID)
	if err != nil || !found {
		if err != nil {
			d.log.Debug("Owning conversation lookup failed", "sender_id", n.SenderID.String(), "err", err)
		}
		return toast
	}
	toast.ConversationID = conversation.ID
	return toast
}

// fanout pushes the notification to every sink. A sink failure is logged and
// counted, never propagated: one broken surface must not mute the others.
func (d *Dispatcher) fanout(n event.Notification, toast contract.Toast) {
	d.toaster.Show(toast)

	if d.system.PermissionGranted() {
		if err := d.system.Notify(n.Title(), n.Body, toast.AvatarURL); err != nil {
			d.stats.IncrSinkFailures()
			d.log.Warn("System notification failed", "id", n.ID.String(), "err", err)
		}
	}

	if err := d.sound.Play(); err != nil {
		d.stats.IncrSinkFailures()
		d.log.Debug("Notification sound failed", "err", err)
	}
}
