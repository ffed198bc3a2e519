//go:generate go run go.uber.org/mock/mockgen -source=attachment.go -destination=../mocks/mock_attachment_repository.go -package=mocks
package repositories

import (
	"log/slog"

	"workchat/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IAttachmentRepository interface {
	Add(attachment domain.Attachment) error
	ListForMessage(messageID uuid.UUID) ([]domain.Attachment, error)
	// DeleteForMessage removes the metadata rows and returns them, so the
	// caller can release the stored blobs afterwards.
	DeleteForMessage(messageID uuid.UUID) ([]domain.Attachment, error)
}

type AttachmentRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewAttachmentRepository(db *badger.DB, log *slog.Logger) AttachmentRepository {
	return AttachmentRepository{db: db, log: log}
}

func (r AttachmentRepository) Add(attachment domain.Attachment) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		return setValue(txn, attachmentKey(attachment.MessageID, attachment.ID), attachment)
	})
	return storeErr(err)
}

func (r AttachmentRepository) ListForMessage(messageID uuid.UUID) ([]domain.Attachment, error) {
	var attachments []domain.Attachment
	err := r.db.View(func(txn *badger.Txn) error {
		return iterateAttachments(txn, messageID, func(a domain.Attachment) {
			attachments = append(attachments, a)
		})
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return attachments, nil
}

func (r AttachmentRepository) DeleteForMessage(messageID uuid.UUID) ([]domain.Attachment, error) {
	var removed []domain.Attachment
	err := r.db.Update(func(txn *badger.Txn) error {
		if err := iterateAttachments(txn, messageID, func(a domain.Attachment) {
			removed = append(removed, a)
		}); err != nil {
			return err
		}
		for _, a := range removed {
			if err := txn.Delete(attachmentKey(messageID, a.ID)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return removed, nil
}

func iterateAttachments(txn *badger.Txn, messageID uuid.UUID, fn func(domain.Attachment)) error {
	prefix := attachmentPrefix(messageID)
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		var attachment domain.Attachment
		err := it.Item().Value(func(data []byte) error {
			return decode(data, &attachment)
		})
		if err != nil {
			return err
		}
		fn(attachment)
	}
	return nil
}
