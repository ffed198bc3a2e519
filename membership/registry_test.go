package membership

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

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	registry      *Registry
	conversations repositories.IConversationRepository
	members       repositories.IMemberRepository
	messages      repositories.IMessageRepository
	reactions     repositories.IReactionRepository
	votes         repositories.IVoteRepository
	attachments   repositories.IAttachmentRepository
	indexes       repositories.IIndexRepository
	blobs         *mocks.MockIAttachmentStore
}

func newFixture(t *testing.T) fixture {
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := slog.Default()
	f := feed.New(log, 64)
	ctrl := gomock.NewController(t)
	blobs := mocks.NewMockIAttachmentStore(ctrl)

	fx := fixture{
		conversations: repositories.NewConversationRepository(db, log, f),
		members:       repositories.NewMemberRepository(db, log, f),
		messages:      repositories.NewMessageRepository(db, log, f, nil),
		reactions:     repositories.NewReactionRepository(db, log, f),
		votes:         repositories.NewVoteRepository(db, log, f),
		attachments:   repositories.NewAttachmentRepository(db, log),
		indexes:       repositories.NewIndexRepository(db, log, f),
		blobs:         blobs,
	}
	fx.registry = NewRegistry(log, fx.conversations, fx.members, fx.messages, fx.reactions, fx.votes, fx.attachments, fx.indexes, blobs)
	return fx
}

func createTeam(t *testing.T, fx fixture, admin uuid.UUID, members ...uuid.UUID) domain.Conversation {
	conversation, err := fx.registry.CreateTeam(context.Background(), domain.CreateTeamCommand{
		Name:      "platform",
		OrgID:     "acme",
		CreatorID: admin,
		MemberIDs: append([]uuid.UUID{admin}, members...),
	})
	require.NoError(t, err)
	return conversation
}

func Test_CreateDirect_Should_Reuse_Existing_Conversation(t *testing.T) {
	req := require.New(t)
	fx := newFixture(t)
	ctx := context.Background()

	alice := uuid.New()
	bob := uuid.New()
	first, err := fx.registry.CreateDirect(ctx, alice, bob)
	req.NoError(err)

	// Same pair in reverse order resolves to the same DM.
	second, err := fx.registry.CreateDirect(ctx, bob, alice)
	req.NoError(err)
	req.Equal(first.ID, second.ID)
}

func Test_CreateTeam_Should_Reject_Blank_Name(t *testing.T) {
	req := require.New(t)
	fx := newFixture(t)

	_, err := fx.registry.CreateTeam(context.Background(), domain.CreateTeamCommand{
		Name:      "   ",
		CreatorID: uuid.New(),
		MemberIDs: []uuid.UUID{uuid.New()},
	})
	req.ErrorIs(err, apperrors.ErrEmptyName)
}

func Test_CreateTeam_Should_Make_Creator_Admin(t *testing.T) {
	req := require.New(t)
	fx := newFixture(t)

	admin := uuid.New()
	other := uuid.New()
	conversation := createTeam(t, fx, admin, other)

	member, err := fx.members.Get(conversation.ID, admin)
	req.NoError(err)
	req.True(member.IsAdmin)

	member, err = fx.members.Get(conversation.ID, other)
	req.NoError(err)
	req.False(member.IsAdmin)
}

func Test_Structural_Changes_Should_Require_Team_Admin(t *testing.T) {
	req := require.New(t)
	fx := newFixture(t)
	ctx := context.Background()

	admin := uuid.New()
	regular := uuid.New()
	outsider := uuid.New()
	conversation := createTeam(t, fx, admin, regular)

	req.ErrorIs(fx.registry.AddMember(ctx, conversation.ID, regular, uuid.New()), apperrors.ErrNotAdmin)
	req.ErrorIs(fx.registry.AddMember(ctx, conversation.ID, outsider, uuid.New()), apperrors.ErrNotMember)
	req.ErrorIs(fx.registry.Rename(ctx, conversation.ID, regular, "renamed"), apperrors.ErrNotAdmin)

	req.NoError(fx.registry.Rename(ctx, conversation.ID, admin, "renamed"))
	renamed, err := fx.conversations.Get(conversation.ID)
	req.NoError(err)
	req.Equal("renamed", renamed.Name)
}

func Test_Direct_Conversation_Should_Be_Immutable(t *testing.T) {
	req := require.New(t)
	fx := newFixture(t)
	ctx := context.Background()

	alice := uuid.New()
	bob := uuid.New()
	dm, err := fx.registry.CreateDirect(ctx, alice, bob)
	req.NoError(err)

	req.ErrorIs(fx.registry.AddMember(ctx, dm.ID, alice, uuid.New()), apperrors.ErrDirectConversationImmutable)
	req.ErrorIs(fx.registry.Leave(ctx, dm.ID, alice), apperrors.ErrDirectConversationImmutable)
	req.ErrorIs(fx.registry.DeleteConversation(ctx, dm.ID, alice), apperrors.ErrDirectConversationImmutable)
}

func Test_Demote_Last_Admin_Should_Fail(t *testing.T) {
	req := require.New(t)
	fx := newFixture(t)
	ctx := context.Background()

	admin := uuid.New()
	other := uuid.New()
	conversation := createTeam(t, fx, admin, other)

	req.ErrorIs(fx.registry.Demote(ctx, conversation.ID, admin, admin), apperrors.ErrLastAdmin)

	// Promoting someone else first unblocks the demotion.
	req.NoError(fx.registry.Promote(ctx, conversation.ID, admin, other))
	req.NoError(fx.registry.Demote(ctx, conversation.ID, admin, admin))
}

func Test_Leave_Should_Block_Sole_Team_Admin(t *testing.T) {
	req := require.New(t)
	fx := newFixture(t)
	ctx := context.Background()

	admin := uuid.New()
	other := uuid.New()
	conversation := createTeam(t, fx, admin, other)

	req.ErrorIs(fx.registry.Leave(ctx, conversation.ID, admin), apperrors.ErrLastAdmin)
	req.NoError(fx.registry.Leave(ctx, conversation.ID, other))
}

func Test_GetOrCreateOrg_Should_Join_Existing_Conversation(t *testing.T) {
	req := require.New(t)
	fx := newFixture(t)
	ctx := context.Background()

	founder := uuid.New()
	first, err := fx.registry.GetOrCreateOrg(ctx, "acme", founder)
	req.NoError(err)
	req.Equal(domain.Org, first.Type)
	req.Equal("General", first.Name)

	joiner := uuid.New()
	second, err := fx.registry.GetOrCreateOrg(ctx, "acme", joiner)
	req.NoError(err)
	req.Equal(first.ID, second.ID)

	members, err := fx.registry.Members(ctx, first.ID)
	req.NoError(err)
	req.Len(members, 2)

	// Rejoining is a no-op.
	req.NoError(fx.registry.Join(ctx, first.ID, joiner))
}

func Test_DeleteConversation_Should_Cascade(t *testing.T) {
	req := require.New(t)
	fx := newFixture(t)
	ctx := context.Background()

	admin := uuid.New()
	conversation := createTeam(t, fx, admin)

	message := domain.Message{
		ID:             uuid.New(),
		ConversationID: conversation.ID,
		SenderID:       admin,
		Content:        "hello",
		Kind:           domain.KindChat,
		CreatedAt:      time.Now().UTC(),
	}
	req.NoError(fx.messages.Store(message))
	_, err := fx.reactions.Toggle(conversation.ID, domain.Reaction{MessageID: message.ID, UserID: admin, Emoji: "👍", CreatedAt: time.Now().UTC()})
	req.NoError(err)
	req.NoError(fx.votes.Cast(conversation.ID, domain.Vote{MessageID: message.ID, UserID: admin, OptionIndex: 0, CreatedAt: time.Now().UTC()}, true))
	req.NoError(fx.indexes.Upsert(domain.Index{ConversationID: conversation.ID, LastMessage: "hello", LastMessageAt: message.CreatedAt}))

	fx.blobs.EXPECT().DeleteForMessage(gomock.Any(), message.ID).Return(nil)

	req.NoError(fx.registry.DeleteConversation(ctx, conversation.ID, admin))

	_, err = fx.conversations.Get(conversation.ID)
	req.ErrorIs(err, apperrors.ErrConversationNotFound)
	_, err = fx.messages.Get(message.ID)
	req.ErrorIs(err, apperrors.ErrMessageNotFound)

	reactions, err := fx.reactions.ListForMessage(message.ID)
	req.NoError(err)
	req.Empty(reactions)
	votes, err := fx.votes.ListForMessage(message.ID)
	req.NoError(err)
	req.Empty(votes)
	_, found, err := fx.indexes.Get(conversation.ID)
	req.NoError(err)
	req.False(found)
}
