//go:generate go run go.uber.org/mock/mockgen -source=vote.go -destination=../mocks/mock_vote_repository.go -package=mocks
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

type IVoteRepository interface {
	// Cast records a vote for the option. Semantics depend on allowMultiple:
	// single-choice polls replace the voter's previous selection in the same
	// transaction; multi-choice polls toggle the option independently.
	Cast(conversationID uuid.UUID, vote domain.Vote, allowMultiple bool) error
	ListForMessage(messageID uuid.UUID) ([]domain.Vote, error)
	DeleteAllForMessages(messageIDs []uuid.UUID) error
}

type VoteRepository struct {
	db   *badger.DB
	log  *slog.Logger
	feed contract.IFeed
}

func NewVoteRepository(db *badger.DB, log *slog.Logger, feed contract.IFeed) VoteRepository {
	return VoteRepository{db: db, log: log, feed: feed}
}

func (r VoteRepository) Cast(conversationID uuid.UUID, vote domain.Vote, allowMultiple bool) error {
	key := voteKey(vote.MessageID, vote.UserID, vote.OptionIndex)
	err := r.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		switch {
		case err == nil:
			// Re-voting an option the user already holds withdraws it.
			return txn.Delete(key)
		case !stderrors.Is(err, badger.ErrKeyNotFound):
			return err
		}

		if !allowMultiple {
			// Single choice: drop any prior selection before recording the
			// new one, all inside this transaction.
			if err := deletePrefix(txn, voteUserPrefix(vote.MessageID, vote.UserID)); err != nil {
				return err
			}
		}
		return setValue(txn, key, vote)
	})
	if err != nil {
		return storeErr(err)
	}

	r.feed.Publish(event.ChangeEvent{
		ID:             uuid.New(),
		Entity:         event.EntityVote,
		Op:             event.OpUpdate,
		ConversationID: conversationID,
		At:             time.Now().UTC(),
		Payload:        vote,
	})
	return nil
}

func (r VoteRepository) ListForMessage(messageID uuid.UUID) ([]domain.Vote, error) {
	var votes []domain.Vote
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := votePrefix(messageID)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var vote domain.Vote
			err := it.Item().Value(func(data []byte) error {
				return decode(data, &vote)
			})
			if err != nil {
				return err
			}
			votes = append(votes, vote)
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err)
	}

	sort.SliceStable(votes, func(i, j int) bool {
		return votes[i].CreatedAt.Before(votes[j].CreatedAt)
	})
	return votes, nil
}

func (r VoteRepository) DeleteAllForMessages(messageIDs []uuid.UUID) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		for _, messageID := range messageIDs {
			if err := deletePrefix(txn, votePrefix(messageID)); err != nil {
				return err
			}
		}
		return nil
	})
	return storeErr(err)
}
