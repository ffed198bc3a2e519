package notify

import (
	"context"
	"log/slog"
	"time"

	"workchat/domain/event"
	"workchat/repositories"

	"github.com/google/uuid"
)

// StoreDeliverer implements out-of-band delivery by writing notification rows
// per receiver; other sessions pick them up off the change feed. Delivery is
// best-effort end to end: a receiver that cannot be written is skipped, never
// failing the batch.
type StoreDeliverer struct {
	log           *slog.Logger
	notifications repositories.INotificationRepository
	senderID      uuid.UUID
	senderName    string
}

func NewStoreDeliverer(log *slog.Logger, notifications repositories.INotificationRepository, senderID uuid.UUID, senderName string) *StoreDeliverer {
	return &StoreDeliverer{
		log:           log,
		notifications: notifications,
		senderID:      senderID,
		senderName:    senderName,
	}
}

func (d *StoreDeliverer) Deliver(_ context.Context, userIDs []uuid.UUID, title, body, deepLink string) error {
	_ = title // title is re-derived per kind on the receiving side
	_ = deepLink

	for _, userID := range userIDs {
		err := d.notifications.Insert(event.Notification{
			ID:         uuid.New(),
			Kind:       event.KindMessage,
			ReceiverID: userID,
			SenderID:   d.senderID,
			SenderName: d.senderName,
			Body:       body,
			CreatedAt:  time.Now().UTC(),
		})
		if err != nil {
			d.log.Warn("Notification delivery skipped receiver", "receiver_id", userID.String(), "err", err)
		}
	}
	return nil
}

// DeliverToMany fans one announcement-style notification out to many
// receivers with an explicit kind. Used by bulk sends; never returns an error.
func (d *StoreDeliverer) DeliverToMany(_ context.Context, userIDs []uuid.UUID, kind event.NotificationKind, body string) {
	for _, userID := range userIDs {
		err := d.notifications.Insert(event.Notification{
			ID:         uuid.New(),
			Kind:       kind,
			ReceiverID: userID,
			SenderID:   d.senderID,
			SenderName: d.senderName,
			Body:       body,
			CreatedAt:  time.Now().UTC(),
		})
		if err != nil {
			d.log.Warn("Bulk notification skipped receiver", "receiver_id", userID.String(), "err", err)
		}
	}
}
