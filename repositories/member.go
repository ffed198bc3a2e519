//go:generate go run go.uber.org/mock/mockgen -source=member.go -destination=../mocks/mock_member_repository.go -package=mocks
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

type IMemberRepository interface {
	Get(conversationID, userID uuid.UUID) (domain.Member, error)
	List(conversationID uuid.UUID) ([]domain.Member, error)
	Add(member domain.Member) error
	// Remove deletes the membership. With guardLastAdmin set, the removal is
	// rejected with ErrLastAdmin when the target is the conversation's only
	// admin; the check and the delete run in one transaction.
	Remove(conversationID, userID uuid.UUID, guardLastAdmin bool) error
	// SetAdmin flips the admin flag. Demotions guard the last admin the same
	// way Remove does.
	SetAdmin(conversationID, userID uuid.UUID, isAdmin bool) error
	AdminCount(conversationID uuid.UUID) (int, error)
	// AdvanceLastRead raises the persisted read cursor to at, never lowering
	// an already newer value.
	AdvanceLastRead(conversationID, userID uuid.UUID, at time.Time) error
	DeleteAll(conversationID uuid.UUID) error
}

type MemberRepository struct {
	db   *badger.DB
	log  *slog.Logger
	feed contract.IFeed
}

func NewMemberRepository(db *badger.DB, log *slog.Logger, feed contract.IFeed) MemberRepository {
	return MemberRepository{db: db, log: log, feed: feed}
}

func (r MemberRepository) Get(conversationID, userID uuid.UUID) (domain.Member, error) {
	var member domain.Member
	err := r.db.View(func(txn *badger.Txn) error {
		return getValue(txn, memberKey(conversationID, userID), &member)
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Member{}, apperrors.ErrMemberNotFound
	}
	if err != nil {
		return domain.Member{}, storeErr(err)
	}
	return member, nil
}

func (r MemberRepository) List(conversationID uuid.UUID) ([]domain.Member, error) {
	var members []domain.Member
	err := r.db.View(func(txn *badger.Txn) error {
		return iterateMembers(txn, conversationID, func(m domain.Member) {
			members = append(members, m)
		})
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return members, nil
}

func (r MemberRepository) Add(member domain.Member) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		key := memberKey(member.ConversationID, member.UserID)
		if _, err := txn.Get(key); err == nil {
			return apperrors.ErrAlreadyMember
		} else if !stderrors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := setValue(txn, key, member); err != nil {
			return err
		}
		return txn.Set(userConvKey(member.UserID, member.ConversationID), nil)
	})
	if stderrors.Is(err, apperrors.ErrAlreadyMember) {
		return err
	}
	if err != nil {
		return storeErr(err)
	}

	r.publish(event.OpInsert, member.ConversationID, member)
	return nil
}

func (r MemberRepository) Remove(conversationID, userID uuid.UUID, guardLastAdmin bool) error {
	var removed domain.Member
	err := r.db.Update(func(txn *badger.Txn) error {
		var member domain.Member
		if err := getValue(txn, memberKey(conversationID, userID), &member); err != nil {
			return err
		}
		if guardLastAdmin && member.IsAdmin {
			admins, err := countAdmins(txn, conversationID)
			if err != nil {
				return err
			}
			if admins <= 1 {
				return apperrors.ErrLastAdmin
			}
		}
		removed = member
		if err := txn.Delete(memberKey(conversationID, userID)); err != nil {
			return err
		}
		return txn.Delete(userConvKey(userID, conversationID))
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return apperrors.ErrMemberNotFound
	}
	if stderrors.Is(err, apperrors.ErrLastAdmin) {
		return err
	}
	if err != nil {
		return storeErr(err)
	}

	r.publish(event.OpDelete, conversationID, removed)
	return nil
}

func (r MemberRepository) SetAdmin(conversationID, userID uuid.UUID, isAdmin bool) error {
	var updated domain.Member
	err := r.db.Update(func(txn *badger.Txn) error {
		var member domain.Member
		if err := getValue(txn, memberKey(conversationID, userID), &member); err != nil {
			return err
		}
		if member.IsAdmin == isAdmin {
			updated = member
			return nil
		}
		if !isAdmin {
			admins, err := countAdmins(txn, conversationID)
			if err != nil {
				return err
			}
			if member.IsAdmin && admins <= 1 {
				return apperrors.ErrLastAdmin
			}
		}
		member.IsAdmin = isAdmin
		updated = member
		return setValue(txn, memberKey(conversationID, userID), member)
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return apperrors.ErrMemberNotFound
	}
	if stderrors.Is(err, apperrors.ErrLastAdmin) {
		return err
	}
	if err != nil {
		return storeErr(err)
	}

	r.publish(event.OpUpdate, conversationID, updated)
	return nil
}

func (r MemberRepository) AdminCount(conversationID uuid.UUID) (int, error) {
	var count int
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		count, err = countAdmins(txn, conversationID)
		return err
	})
	if err != nil {
		return 0, storeErr(err)
	}
	return count, nil
}

func (r MemberRepository) AdvanceLastRead(conversationID, userID uuid.UUID, at time.Time) error {
	var updated domain.Member
	var advanced bool
	err := r.db.Update(func(txn *badger.Txn) error {
		var member domain.Member
		if err := getValue(txn, memberKey(conversationID, userID), &member); err != nil {
			return err
		}
		if !at.After(member.LastReadAt) {
			// A stale persist must never lower an already advanced cursor.
			return nil
		}
		member.LastReadAt = at
		updated = member
		advanced = true
		return setValue(txn, memberKey(conversationID, userID), member)
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return apperrors.ErrMemberNotFound
	}
	if err != nil {
		return storeErr(err)
	}

	// Other sessions of the same user fold the cursor in off the feed
	// instead of waiting for their next reconcile pass.
	if advanced {
		r.publish(event.OpUpdate, conversationID, updated)
	}
	return nil
}

func (r MemberRepository) DeleteAll(conversationID uuid.UUID) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		var members []domain.Member
		if err := iterateMembers(txn, conversationID, func(m domain.Member) {
			members = append(members, m)
		}); err != nil {
			return err
		}
		for _, m := range members {
			if err := txn.Delete(memberKey(conversationID, m.UserID)); err != nil {
				return err
			}
			if err := txn.Delete(userConvKey(m.UserID, conversationID)); err != nil {
				return err
			}
		}
		return nil
	})
	return storeErr(err)
}

func (r MemberRepository) publish(op event.Operation, conversationID uuid.UUID, member domain.Member) {
	r.feed.Publish(event.ChangeEvent{
		ID:             uuid.New(),
		Entity:         event.EntityMember,
		Op:             op,
		ConversationID: conversationID,
		At:             time.Now().UTC(),
		Payload:        member,
	})
}

func iterateMembers(txn *badger.Txn, conversationID uuid.UUID, fn func(domain.Member)) error {
	prefix := memberPrefix(conversationID)
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		var member domain.Member
		err := it.Item().Value(func(data []byte) error {
			return decode(data, &member)
		})
		if err != nil {
			return err
		}
		fn(member)
	}
	return nil
}

func countAdmins(txn *badger.Txn, conversationID uuid.UUID) (int, error) {
	count := 0
	err := iterateMembers(txn, conversationID, func(m domain.Member) {
		if m.IsAdmin {
			count++
		}
	})
	return count, err
}
