//go:generate go run go.uber.org/mock/mockgen -source=conversation.go -destination=../mocks/mock_conversation_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"log/slog"
	"time"

	"workchat/contract"
	"workchat/domain"
	"workchat/domain/event"
	apperrors "workchat/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IConversationRepository interface {
	Create(conversation domain.Conversation, members []domain.Member) error
	Get(id uuid.UUID) (domain.Conversation, error)
	Rename(id uuid.UUID, name string) error
	Delete(id uuid.UUID) error
	ListForUser(userID uuid.UUID) ([]domain.Conversation, error)
	FindDirect(userA, userB uuid.UUID) (domain.Conversation, bool, error)
	FindOrg(orgID string) (domain.Conversation, bool, error)
}

type ConversationRepository struct {
	db   *badger.DB
	log  *slog.Logger
	feed contract.IFeed
}

func NewConversationRepository(db *badger.DB, log *slog.Logger, feed contract.IFeed) ConversationRepository {
	return ConversationRepository{db: db, log: log, feed: feed}
}

// Create persists the conversation and its initial member set in one
// transaction, so a conversation is never observable without members.
func (r ConversationRepository) Create(conversation domain.Conversation, members []domain.Member) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		if err := setValue(txn, conversationKey(conversation.ID), conversation); err != nil {
			return err
		}
		for _, m := range members {
			m.ConversationID = conversation.ID
			if err := setValue(txn, memberKey(conversation.ID, m.UserID), m); err != nil {
				return err
			}
			if err := txn.Set(userConvKey(m.UserID, conversation.ID), nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return storeErr(err)
	}

	r.feed.Publish(event.ChangeEvent{
		ID:             uuid.New(),
		Entity:         event.EntityConversation,
		Op:             event.OpInsert,
		ConversationID: conversation.ID,
		At:             time.Now().UTC(),
		Payload:        conversation,
	})
	return nil
}

func (r ConversationRepository) Get(id uuid.UUID) (domain.Conversation, error) {
	var conversation domain.Conversation
	err := r.db.View(func(txn *badger.Txn) error {
		return getValue(txn, conversationKey(id), &conversation)
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Conversation{}, apperrors.ErrConversationNotFound
	}
	if err != nil {
		return domain.Conversation{}, storeErr(err)
	}
	return conversation, nil
}

func (r ConversationRepository) Rename(id uuid.UUID, name string) error {
	var renamed domain.Conversation
	err := r.db.Update(func(txn *badger.Txn) error {
		var conversation domain.Conversation
		if err := getValue(txn, conversationKey(id), &conversation); err != nil {
			return err
		}
		conversation.Name = name
		renamed = conversation
		return setValue(txn, conversationKey(id), conversation)
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return apperrors.ErrConversationNotFound
	}
	if err != nil {
		return storeErr(err)
	}

	r.feed.Publish(event.ChangeEvent{
		ID:             uuid.New(),
		Entity:         event.EntityConversation,
		Op:             event.OpUpdate,
		ConversationID: id,
		At:             time.Now().UTC(),
		Payload:        renamed,
	})
	return nil
}

// Delete removes only the conversation row. Cascading of dependent rows is
// the caller's responsibility and must happen before this call.
func (r ConversationRepository) Delete(id uuid.UUID) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(conversationKey(id))
	})
	if err != nil {
		return storeErr(err)
	}

	r.feed.Publish(event.ChangeEvent{
		ID:             uuid.New(),
		Entity:         event.EntityConversation,
		Op:             event.OpDelete,
		ConversationID: id,
		At:             time.Now().UTC(),
	})
	return nil
}

// ListForUser resolves the user's membership index into conversation rows.
// Index entries pointing at since-deleted conversations are skipped.
func (r ConversationRepository) ListForUser(userID uuid.UUID) ([]domain.Conversation, error) {
	var conversations []domain.Conversation
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := userConvPrefix(userID)
		prefixLen := len(prefix)

		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			rawID := string(it.Item().Key()[prefixLen:])
			conversationID, err := uuid.Parse(rawID)
			if err != nil {
				r.log.Warn("Skipping malformed membership index key", "key", string(it.Item().Key()))
				continue
			}

			var conversation domain.Conversation
			err = getValue(txn, conversationKey(conversationID), &conversation)
			if stderrors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			conversations = append(conversations, conversation)
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return conversations, nil
}

// FindDirect looks for an existing DM between the two users, regardless of
// which one is listed first.
func (r ConversationRepository) FindDirect(userA, userB uuid.UUID) (domain.Conversation, bool, error) {
	candidates, err := r.ListForUser(userA)
	if err != nil {
		return domain.Conversation{}, false, err
	}

	for _, conversation := range candidates {
		if conversation.Type != domain.Direct {
			continue
		}
		var found bool
		err = r.db.View(func(txn *badger.Txn) error {
			_, err := txn.Get(memberKey(conversation.ID, userB))
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
			return domain.Conversation{}, false, storeErr(err)
		}
		if found {
			return conversation, true, nil
		}
	}
	return domain.Conversation{}, false, nil
}

// FindOrg returns the single org-wide conversation of the organization.
func (r ConversationRepository) FindOrg(orgID string) (domain.Conversation, bool, error) {
	var result domain.Conversation
	var found bool
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte("conv:")
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var conversation domain.Conversation
			err := it.Item().Value(func(data []byte) error {
				return decode(data, &conversation)
			})
			if err != nil {
				return err
			}
			if conversation.Type == domain.Org && conversation.OrgID == orgID {
				result = conversation
				found = true
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return domain.Conversation{}, false, storeErr(err)
	}
	return result, found, nil
}
