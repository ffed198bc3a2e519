//go:generate go run go.uber.org/mock/mockgen -source=notification.go -destination=../mocks/mock_notification_repository.go -package=mocks
package repositories

import (
	"log/slog"

	"workchat/contract"
	"workchat/domain/event"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type INotificationRepository interface {
	// Insert persists the notification and publishes it on the change feed,
	// which is what wakes the dispatcher.
	Insert(notification event.Notification) error
	ListForReceiver(receiverID uuid.UUID, limit int) ([]event.Notification, error)
}

type NotificationRepository struct {
	db   *badger.DB
	log  *slog.Logger
	feed contract.IFeed
}

func NewNotificationRepository(db *badger.DB, log *slog.Logger, feed contract.IFeed) NotificationRepository {
	return NotificationRepository{db: db, log: log, feed: feed}
}

func (r NotificationRepository) Insert(notification event.Notification) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		key := notificationKey(notification.ReceiverID, notification.CreatedAt, notification.ID)
		return setValue(txn, key, notification)
	})
	if err != nil {
		return storeErr(err)
	}

	// The event reuses the notification's ID so duplicate deliveries collapse
	// in the dispatcher's seen set.
	r.feed.Publish(event.ChangeEvent{
		ID:      notification.ID,
		Entity:  event.EntityNotification,
		Op:      event.OpInsert,
		At:      notification.CreatedAt,
		Payload: notification,
	})
	return nil
}

// ListForReceiver returns the receiver's notifications newest-first.
func (r NotificationRepository) ListForReceiver(receiverID uuid.UUID, limit int) ([]event.Notification, error) {
	var notifications []event.Notification
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte("notif:" + receiverID.String() + ":")
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		it.Seek(append(prefix, []byte("9999999999999999999")...))
		for ; it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(notifications) == limit {
				break
			}
			var notification event.Notification
			err := it.Item().Value(func(data []byte) error {
				return decode(data, &notification)
			})
			if err != nil {
				return err
			}
			notifications = append(notifications, notification)
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return notifications, nil
}
