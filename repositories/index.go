//go:generate go run go.uber.org/mock/mockgen -source=index.go -destination=../mocks/mock_index_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"log/slog"
	"time"

	"workchat/contract"
	"workchat/domain"
	"workchat/domain/event"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IIndexRepository interface {
	Get(conversationID uuid.UUID) (domain.Index, bool, error)
	GetAll() (map[uuid.UUID]domain.Index, error)
	// Upsert advances the denormalized last-activity row. Rows never move
	// backwards: an update carrying an older LastMessageAt than the stored one
	// is dropped.
	Upsert(index domain.Index) error
	// RepairPreview fills in a missing preview without advancing the activity
	// timestamp, so a repaired conversation does not jump to the top of the
	// directory.
	RepairPreview(conversationID uuid.UUID, preview string, at time.Time) error
	Delete(conversationID uuid.UUID) error
}

type IndexRepository struct {
	db   *badger.DB
	log  *slog.Logger
	feed contract.IFeed
}

func NewIndexRepository(db *badger.DB, log *slog.Logger, feed contract.IFeed) IndexRepository {
	return IndexRepository{db: db, log: log, feed: feed}
}

func (r IndexRepository) Get(conversationID uuid.UUID) (domain.Index, bool, error) {
	var index domain.Index
	var found bool
	err := r.db.View(func(txn *badger.Txn) error {
		err := getValue(txn, indexKey(conversationID), &index)
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return domain.Index{}, false, storeErr(err)
	}
	return index, found, nil
}

func (r IndexRepository) GetAll() (map[uuid.UUID]domain.Index, error) {
	indexes := make(map[uuid.UUID]domain.Index)
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte("convindex:")
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var index domain.Index
			err := it.Item().Value(func(data []byte) error {
				return decode(data, &index)
			})
			if err != nil {
				return err
			}
			indexes[index.ConversationID] = index
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return indexes, nil
}

func (r IndexRepository) Upsert(index domain.Index) error {
	var applied bool
	err := r.db.Update(func(txn *badger.Txn) error {
		var current domain.Index
		err := getValue(txn, indexKey(index.ConversationID), &current)
		if err != nil && !stderrors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err == nil && current.LastMessageAt.After(index.LastMessageAt) {
			r.log.Debug("Dropping stale index update",
				"conversation_id", index.ConversationID,
				"stored", current.LastMessageAt,
				"incoming", index.LastMessageAt)
			return nil
		}
		applied = true
		index.UpdatedAt = time.Now().UTC()
		return setValue(txn, indexKey(index.ConversationID), index)
	})
	if err != nil {
		return storeErr(err)
	}

	if applied {
		r.publish(event.OpUpdate, index.ConversationID, index)
	}
	return nil
}

func (r IndexRepository) RepairPreview(conversationID uuid.UUID, preview string, at time.Time) error {
	var repaired domain.Index
	var applied bool
	err := r.db.Update(func(txn *badger.Txn) error {
		var current domain.Index
		err := getValue(txn, indexKey(conversationID), &current)
		switch {
		case stderrors.Is(err, badger.ErrKeyNotFound):
			current = domain.Index{ConversationID: conversationID}
		case err != nil:
			return err
		}
		if current.LastMessage != "" && !current.LastMessageAt.IsZero() {
			// Another writer repaired it first.
			return nil
		}
		current.LastMessage = preview
		current.LastMessageAt = at
		current.UpdatedAt = time.Now().UTC()
		repaired = current
		applied = true
		return setValue(txn, indexKey(conversationID), current)
	})
	if err != nil {
		return storeErr(err)
	}

	if applied {
		r.publish(event.OpUpdate, conversationID, repaired)
	}
	return nil
}

func (r IndexRepository) Delete(conversationID uuid.UUID) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(indexKey(conversationID))
	})
	if err != nil {
		return storeErr(err)
	}

	r.publish(event.OpDelete, conversationID, domain.Index{ConversationID: conversationID})
	return nil
}

func (r IndexRepository) publish(op event.Operation, conversationID uuid.UUID, index domain.Index) {
	r.feed.Publish(event.ChangeEvent{
		ID:             uuid.New(),
		Entity:         event.EntityIndex,
		Op:             op,
		ConversationID: conversationID,
		At:             time.Now().UTC(),
		Payload:        index,
	})
}
