package polls

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"workchat/domain"
	apperrors "workchat/errors"
	"workchat/feed"
	"workchat/mocks"
	"workchat/repositories"
	"workchat/timeline"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	engine   *Engine
	messages repositories.IMessageRepository
	members  repositories.IMemberRepository
	indexes  repositories.IIndexRepository
	profiles repositories.IProfileRepository
}

func newFixture(t *testing.T) fixture {
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := slog.Default()
	f := feed.New(log, 64)
	ctrl := gomock.NewController(t)

	messages := repositories.NewMessageRepository(db, log, f, nil)
	members := repositories.NewMemberRepository(db, log, f)
	profiles := repositories.NewProfileRepository(db, log)
	attachments := repositories.NewAttachmentRepository(db, log)
	indexes := repositories.NewIndexRepository(db, log, f)
	votes := repositories.NewVoteRepository(db, log, f)

	tl := timeline.NewTimeline(log, nil, messages, members, profiles, attachments, indexes, mocks.NewMockIAttachmentStore(ctrl))
	engine := NewEngine(log, tl, messages, members, votes, profiles)
	return fixture{engine: engine, messages: messages, members: members, indexes: indexes, profiles: profiles}
}

func sendPoll(t *testing.T, fx fixture, allowMultiple bool) (domain.Message, uuid.UUID) {
	conversationID := uuid.New()
	sender := uuid.New()
	require.NoError(t, fx.members.Add(domain.Member{ConversationID: conversationID, UserID: sender, JoinedAt: time.Now().UTC()}))

	message, err := fx.engine.SendPoll(context.Background(), domain.PollCommand{
		ConversationID: conversationID,
		SenderID:       sender,
		Question:       "Lunch place?",
		Options:        []string{"Ramen", "Pizza", "Salad"},
		AllowMultiple:  allowMultiple,
	})
	require.NoError(t, err)
	return message, sender
}

func Test_SendPoll_Should_Require_Two_Options(t *testing.T) {
	req := require.New(t)
	fx := newFixture(t)

	_, err := fx.engine.SendPoll(context.Background(), domain.PollCommand{
		ConversationID: uuid.New(),
		SenderID:       uuid.New(),
		Question:       "Yes?",
		Options:        []string{"only one"},
	})
	req.ErrorIs(err, apperrors.ErrTooFewPollOptions)
}

func Test_SendPoll_Should_Require_Membership(t *testing.T) {
	req := require.New(t)
	fx := newFixture(t)

	_, err := fx.engine.SendPoll(context.Background(), domain.PollCommand{
		ConversationID: uuid.New(),
		SenderID:       uuid.New(),
		Question:       "Lunch place?",
		Options:        []string{"Ramen", "Pizza"},
	})
	req.ErrorIs(err, apperrors.ErrNotMember)
}

func Test_SendPoll_Should_Store_Poll_Message_With_Marker_Preview(t *testing.T) {
	req := require.New(t)
	fx := newFixture(t)

	message, _ := sendPoll(t, fx, false)
	req.Equal(domain.KindPoll, message.Kind)
	req.NotNil(message.Poll)
	req.Len(message.Poll.Options, 3)

	index, found, err := fx.indexes.Get(message.ConversationID)
	req.NoError(err)
	req.True(found)
	req.Equal(domain.PollMarkerPrefix+"Lunch place?", index.LastMessage)
}

func Test_Vote_Should_Reject_Non_Poll_Message(t *testing.T) {
	req := require.New(t)
	fx := newFixture(t)

	chat := domain.Message{
		ID:             uuid.New(),
		ConversationID: uuid.New(),
		SenderID:       uuid.New(),
		Content:        "not a poll",
		Kind:           domain.KindChat,
		CreatedAt:      time.Now().UTC(),
	}
	req.NoError(fx.messages.Store(chat))

	req.ErrorIs(fx.engine.Vote(context.Background(), chat.ID, uuid.New(), 0), apperrors.ErrNotAPoll)
}

func Test_Vote_Should_Reject_Out_Of_Range_Option(t *testing.T) {
	req := require.New(t)
	fx := newFixture(t)

	message, voter := sendPoll(t, fx, false)
	req.ErrorIs(fx.engine.Vote(context.Background(), message.ID, voter, -1), apperrors.ErrInvalidOptionIndex)
	req.ErrorIs(fx.engine.Vote(context.Background(), message.ID, voter, 3), apperrors.ErrInvalidOptionIndex)
}

func Test_Vote_SingleChoice_Should_Replace_Selection(t *testing.T) {
	req := require.New(t)
	fx := newFixture(t)
	ctx := context.Background()

	message, voter := sendPoll(t, fx, false)
	req.NoError(fx.engine.Vote(ctx, message.ID, voter, 0))
	req.NoError(fx.engine.Vote(ctx, message.ID, voter, 2))

	votes, err := fx.engine.Votes(ctx, message.ID)
	req.NoError(err)
	req.Len(votes, 1)
	req.Equal(2, votes[0].Vote.OptionIndex)
}

func Test_Vote_MultiChoice_Should_Accumulate_And_Withdraw(t *testing.T) {
	req := require.New(t)
	fx := newFixture(t)
	ctx := context.Background()

	message, voter := sendPoll(t, fx, true)
	req.NoError(fx.engine.Vote(ctx, message.ID, voter, 0))
	req.NoError(fx.engine.Vote(ctx, message.ID, voter, 1))

	votes, err := fx.engine.Votes(ctx, message.ID)
	req.NoError(err)
	req.Len(votes, 2)

	// Voting the selected option again withdraws it.
	req.NoError(fx.engine.Vote(ctx, message.ID, voter, 0))
	votes, err = fx.engine.Votes(ctx, message.ID)
	req.NoError(err)
	req.Len(votes, 1)
	req.Equal(1, votes[0].Vote.OptionIndex)
}

func Test_Votes_Should_Join_Voter_Profiles(t *testing.T) {
	req := require.New(t)
	fx := newFixture(t)
	ctx := context.Background()

	message, voter := sendPoll(t, fx, false)
	req.NoError(fx.profiles.Put(domain.Profile{ID: voter, FullName: "Alice"}))
	req.NoError(fx.engine.Vote(ctx, message.ID, voter, 1))

	votes, err := fx.engine.Votes(ctx, message.ID)
	req.NoError(err)
	req.Len(votes, 1)
	req.Equal("Alice", votes[0].Voter.DisplayName())
}
