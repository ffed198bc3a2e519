//go:generate go run go.uber.org/mock/mockgen -source=reaction.go -destination=../mocks/mock_reaction_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"log/slog"
	"sort"
	"time"

	"workchat/contract"
	"workchat/domain"
	"workchat/domain/event"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IReactionRepository interface {
	// Toggle inserts the (message, user, emoji) reaction if absent, removes it
	// if present. Read and write run in one transaction so two racing toggles
	// for the same triple resolve to one of the two single-toggle outcomes.
	Toggle(conversationID uuid.UUID, reaction domain.Reaction) (added bool, err error)
	ListForMessage(messageID uuid.UUID) ([]domain.Reaction, error)
	DeleteAllForMessages(messageIDs []uuid.UUID) error
}

type ReactionRepository struct {
	db   *badger.DB
	log  *slog.Logger
	feed contract.IFeed
}

func NewReactionRepository(db *badger.DB, log *slog.Logger, feed contract.IFeed) ReactionRepository {
	return ReactionRepository{db: db, log: log, feed: feed}
}

func (r ReactionRepository) Toggle(conversationID uuid.UUID, reaction domain.Reaction) (bool, error) {
	key := reactionKey(reaction.MessageID, reaction.Emoji, reaction.UserID)
	var added bool
	err := r.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		switch {
		case err == nil:
			return txn.Delete(key)
		case stderrors.Is(err, badger.ErrKeyNotFound):
			added = true
			return setValue(txn, key, reaction)
		default:
			return err
		}
	})
	if err != nil {
		return false, storeErr(err)
	}

	op := event.OpDelete
	if added {
		op = event.OpInsert
	}
	r.feed.Publish(event.ChangeEvent{
		ID:             uuid.New(),
		Entity:         event.EntityReaction,
		Op:             op,
		ConversationID: conversationID,
		At:             time.Now().UTC(),
		Payload:        reaction,
	})
	return added, nil
}

// ListForMessage returns reactions ordered by creation time, so aggregated
// user lists read first-reacted-first.
func (r ReactionRepository) ListForMessage(messageID uuid.UUID) ([]domain.Reaction, error) {
	var reactions []domain.Reaction
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := reactionPrefix(messageID)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var reaction domain.Reaction
			err := it.Item().Value(func(data []byte) error {
				return decode(data, &reaction)
			})
			if err != nil {
				return err
			}
			reactions = append(reactions, reaction)
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err)
	}

	sort.SliceStable(reactions, func(i, j int) bool {
		return reactions[i].CreatedAt.Before(reactions[j].CreatedAt)
	})
	return reactions, nil
}

func (r ReactionRepository) DeleteAllForMessages(messageIDs []uuid.UUID) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		for _, messageID := range messageIDs {
			if err := deletePrefix(txn, reactionPrefix(messageID)); err != nil {
				return err
			}
		}
		return nil
	})
	return storeErr(err)
}

// deletePrefix collects then deletes every key under the prefix. The collect
// pass avoids mutating the store while an iterator is open on it.
func deletePrefix(txn *badger.Txn, prefix []byte) error {
	options := badger.DefaultIteratorOptions
	options.PrefetchValues = false
	it := txn.NewIterator(options)

	var keys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	it.Close()

	for _, key := range keys {
		if err := txn.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
