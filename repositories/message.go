//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"workchat/contract"
	"workchat/domain"
	"workchat/domain/event"
	apperrors "workchat/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IMessageRepository interface {
	Store(message domain.Message) error
	Get(messageID uuid.UUID) (domain.Message, error)
	// Latest returns the newest message of the conversation, used by the
	// directory to repair index rows with a missing preview.
	Latest(conversationID uuid.UUID) (domain.Message, bool, error)
	List(conversationID uuid.UUID, cursor *string) ([]domain.Message, *string, error)
	ListIDs(conversationID uuid.UUID) ([]uuid.UUID, error)
	// MarkDeleted performs the irreversible delete-for-everyone mutation:
	// content becomes the sentinel, IsDeleted is set.
	MarkDeleted(messageID uuid.UUID) (domain.Message, error)
	// AddDeletedFor idempotently appends the user to the per-message
	// exclusion set. Global content is never touched.
	AddDeletedFor(messageID, userID uuid.UUID) error
	// NullifyReplies clears reply pointers ahead of a conversation cascade,
	// so no dangling references survive the batch delete.
	NullifyReplies(conversationID uuid.UUID) error
	DeleteAll(conversationID uuid.UUID) error
}

type MessageRepository struct {
	db           *badger.DB
	log          *slog.Logger
	feed         contract.IFeed
	limitPerPage *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, feed contract.IFeed, limitPerPage *int) MessageRepository {
	return MessageRepository{db: db, log: log, feed: feed, limitPerPage: limitPerPage}
}

// Store persists a message under its timeline key plus an id pointer.
// The key is formatted as "msg:{conversation}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Prevent data loss by using UUID as a collision disconnector if two messages
//     arrive at the same nanosecond.
func (r MessageRepository) Store(message domain.Message) error {
	key := messageKey(message.ConversationID, message.CreatedAt, message.ID)
	err := r.db.Update(func(txn *badger.Txn) error {
		if err := setValue(txn, key, message); err != nil {
			return err
		}
		return txn.Set(messageIdxKey(message.ID), key)
	})
	if err != nil {
		return storeErr(err)
	}

	// The event carries the message's own ID so that replayed deliveries of
	// the same insert are recognizable downstream.
	r.feed.Publish(event.ChangeEvent{
		ID:             message.ID,
		Entity:         event.EntityMessage,
		Op:             event.OpInsert,
		ConversationID: message.ConversationID,
		At:             message.CreatedAt,
		Payload:        message,
	})
	return nil
}

func (r MessageRepository) Get(messageID uuid.UUID) (domain.Message, error) {
	var message domain.Message
	err := r.db.View(func(txn *badger.Txn) error {
		_, msg, err := resolveMessage(txn, messageID)
		if err != nil {
			return err
		}
		message = msg
		return nil
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Message{}, apperrors.ErrMessageNotFound
	}
	if err != nil {
		return domain.Message{}, storeErr(err)
	}
	return message, nil
}

func (r MessageRepository) Latest(conversationID uuid.UUID) (domain.Message, bool, error) {
	var message domain.Message
	var found bool
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := messagePrefix(conversationID)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Seek past the newest possible timestamp, then the first valid key
		// under the prefix is the latest message.
		it.Seek(append(prefix, []byte("9999999999999999999")...))
		if !it.ValidForPrefix(prefix) {
			return nil
		}
		found = true
		return it.Item().Value(func(data []byte) error {
			return decode(data, &message)
		})
	})
	if err != nil {
		return domain.Message{}, false, storeErr(err)
	}
	return message, found, nil
}

// List retrieves messages newest-first using a reverse prefix scan.
// Thanks to the padded timestamp in the key, messages are naturally sorted by
// time; the returned cursor resumes the scan on the next page.
func (r MessageRepository) List(conversationID uuid.UUID, cursor *string) ([]domain.Message, *string, error) {
	var messages []domain.Message
	var lastKey string
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := messagePrefix(conversationID)
		prefixLen := len(prefix)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			seekKey = append(prefix, []byte("9999999999999999999")...)
		default:
			seekKey = append(prefix, []byte(*cursor)...)
		}

		it.Seek(seekKey)
		if cursor != nil && it.ValidForPrefix(prefix) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if r.limitPerPage != nil && len(messages) == *r.limitPerPage {
				r.log.Debug(fmt.Sprintf("Maximum of %d messages reached", *r.limitPerPage))
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[prefixLen:])
			var message domain.Message
			err := item.Value(func(data []byte) error {
				return decode(data, &message)
			})
			if err != nil {
				return err
			}
			messages = append(messages, message)
		}
		return nil
	})
	if err != nil {
		return nil, nil, storeErr(err)
	}
	if len(messages) == 0 {
		// Nothing read, nothing to resume from.
		return nil, nil, nil
	}
	return messages, &lastKey, nil
}

func (r MessageRepository) ListIDs(conversationID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := messagePrefix(conversationID)
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			// The message ID is the last segment of the timeline key.
			id, err := uuid.Parse(key[len(key)-36:])
			if err != nil {
				return fmt.Errorf("malformed timeline key %q: %w", key, err)
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return ids, nil
}

func (r MessageRepository) MarkDeleted(messageID uuid.UUID) (domain.Message, error) {
	var updated domain.Message
	err := r.db.Update(func(txn *badger.Txn) error {
		key, message, err := resolveMessage(txn, messageID)
		if err != nil {
			return err
		}
		message.Content = domain.DeletedSentinel
		message.IsDeleted = true
		updated = message
		return setValue(txn, key, message)
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Message{}, apperrors.ErrMessageNotFound
	}
	if err != nil {
		return domain.Message{}, storeErr(err)
	}

	r.publishUpdate(updated)
	return updated, nil
}

func (r MessageRepository) AddDeletedFor(messageID, userID uuid.UUID) error {
	var updated domain.Message
	var changed bool
	err := r.db.Update(func(txn *badger.Txn) error {
		key, message, err := resolveMessage(txn, messageID)
		if err != nil {
			return err
		}
		if message.HiddenFor(userID) {
			return nil
		}
		message.DeletedFor = append(message.DeletedFor, userID)
		updated = message
		changed = true
		return setValue(txn, key, message)
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return apperrors.ErrMessageNotFound
	}
	if err != nil {
		return storeErr(err)
	}

	if changed {
		r.publishUpdate(updated)
	}
	return nil
}

func (r MessageRepository) NullifyReplies(conversationID uuid.UUID) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		prefix := messagePrefix(conversationID)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		type patch struct {
			key     []byte
			message domain.Message
		}
		var patches []patch
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			var message domain.Message
			err := item.Value(func(data []byte) error {
				return decode(data, &message)
			})
			if err != nil {
				return err
			}
			if message.ReplyTo == nil {
				continue
			}
			message.ReplyTo = nil
			patches = append(patches, patch{key: item.KeyCopy(nil), message: message})
		}
		for _, p := range patches {
			if err := setValue(txn, p.key, p.message); err != nil {
				return err
			}
		}
		return nil
	})
	return storeErr(err)
}

func (r MessageRepository) DeleteAll(conversationID uuid.UUID) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		prefix := messagePrefix(conversationID)
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		var keys [][]byte
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		for _, key := range keys {
			id := string(key[len(key)-36:])
			if parsed, err := uuid.Parse(id); err == nil {
				if err := txn.Delete(messageIdxKey(parsed)); err != nil {
					return err
				}
			}
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
	return storeErr(err)
}

func (r MessageRepository) publishUpdate(message domain.Message) {
	r.feed.Publish(event.ChangeEvent{
		ID:             uuid.New(),
		Entity:         event.EntityMessage,
		Op:             event.OpUpdate,
		ConversationID: message.ConversationID,
		At:             time.Now().UTC(),
		Payload:        message,
	})
}

// resolveMessage follows the id pointer to the timeline row.
func resolveMessage(txn *badger.Txn, messageID uuid.UUID) ([]byte, domain.Message, error) {
	item, err := txn.Get(messageIdxKey(messageID))
	if err != nil {
		return nil, domain.Message{}, err
	}
	key, err := item.ValueCopy(nil)
	if err != nil {
		return nil, domain.Message{}, err
	}
	var message domain.Message
	if err := getValue(txn, key, &message); err != nil {
		return nil, domain.Message{}, err
	}
	return key, message, nil
}
