package repositories

import (
	"log/slog"
	"testing"
	"time"

	"workchat/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func Test_Cast_SingleChoice_Should_Replace_Previous_Selection(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	repo := NewVoteRepository(db, slog.Default(), newTestFeed())

	conversationID := uuid.New()
	messageID := uuid.New()
	voter := uuid.New()
	at := time.Now().UTC()

	req.NoError(repo.Cast(conversationID, domain.Vote{MessageID: messageID, UserID: voter, OptionIndex: 0, CreatedAt: at}, false))
	req.NoError(repo.Cast(conversationID, domain.Vote{MessageID: messageID, UserID: voter, OptionIndex: 2, CreatedAt: at.Add(time.Second)}, false))

	rows, err := repo.ListForMessage(messageID)
	req.NoError(err)
	req.Len(rows, 1)
	req.Equal(2, rows[0].OptionIndex)
}

func Test_Cast_Same_Option_Twice_Should_Withdraw(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	repo := NewVoteRepository(db, slog.Default(), newTestFeed())

	conversationID := uuid.New()
	messageID := uuid.New()
	voter := uuid.New()
	vote := domain.Vote{MessageID: messageID, UserID: voter, OptionIndex: 1, CreatedAt: time.Now().UTC()}

	req.NoError(repo.Cast(conversationID, vote, false))
	req.NoError(repo.Cast(conversationID, vote, false))

	rows, err := repo.ListForMessage(messageID)
	req.NoError(err)
	req.Empty(rows)
}

func Test_Cast_MultiChoice_Should_Toggle_Options_Independently(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	repo := NewVoteRepository(db, slog.Default(), newTestFeed())

	conversationID := uuid.New()
	messageID := uuid.New()
	voter := uuid.New()
	at := time.Now().UTC()

	req.NoError(repo.Cast(conversationID, domain.Vote{MessageID: messageID, UserID: voter, OptionIndex: 0, CreatedAt: at}, true))
	req.NoError(repo.Cast(conversationID, domain.Vote{MessageID: messageID, UserID: voter, OptionIndex: 1, CreatedAt: at.Add(time.Second)}, true))

	rows, err := repo.ListForMessage(messageID)
	req.NoError(err)
	req.Len(rows, 2)

	// Withdrawing one option leaves the other in place.
	req.NoError(repo.Cast(conversationID, domain.Vote{MessageID: messageID, UserID: voter, OptionIndex: 0, CreatedAt: at.Add(2 * time.Second)}, true))
	rows, err = repo.ListForMessage(messageID)
	req.NoError(err)
	req.Len(rows, 1)
	req.Equal(1, rows[0].OptionIndex)
}
