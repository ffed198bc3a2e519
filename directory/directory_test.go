package directory

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"workchat/domain"
	"workchat/feed"
	"workchat/observability"
	"workchat/repositories"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	dir           *Directory
	conversations repositories.IConversationRepository
	indexes       repositories.IIndexRepository
	messages      repositories.IMessageRepository
}

func newFixture(t *testing.T) fixture {
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := slog.Default()
	f := feed.New(log, 64)
	conversations := repositories.NewConversationRepository(db, log, f)
	indexes := repositories.NewIndexRepository(db, log, f)
	messages := repositories.NewMessageRepository(db, log, f, nil)
	dir := NewDirectory(log, NewCache(), conversations, indexes, messages, observability.NewStatsManager())
	return fixture{dir: dir, conversations: conversations, indexes: indexes, messages: messages}
}

func seedConversation(t *testing.T, fx fixture, userID uuid.UUID, category domain.Category, name string, createdAt time.Time) domain.Conversation {
	conversation := domain.Conversation{ID: uuid.New(), Type: category, Name: name, CreatedAt: createdAt}
	require.NoError(t, fx.conversations.Create(conversation, []domain.Member{{UserID: userID, IsAdmin: true}}))
	return conversation
}

func Test_ListByCategory_Should_Sort_By_Recent_Activity(t *testing.T) {
	req := require.New(t)
	fx := newFixture(t)
	userID := uuid.New()
	now := time.Now().UTC()

	quiet := seedConversation(t, fx, userID, domain.Team, "quiet", now)
	busy := seedConversation(t, fx, userID, domain.Team, "busy", now.Add(time.Second))
	idle := seedConversation(t, fx, userID, domain.Team, "idle", now.Add(2*time.Second))

	req.NoError(fx.indexes.Upsert(domain.Index{ConversationID: quiet.ID, LastMessage: "old news", LastMessageAt: now.Add(-time.Hour)}))
	req.NoError(fx.indexes.Upsert(domain.Index{ConversationID: busy.ID, LastMessage: "just now", LastMessageAt: now}))

	rows, err := fx.dir.ListByCategory(context.Background(), userID, domain.Team)
	req.NoError(err)
	req.Len(rows, 3)
	req.Equal(busy.ID, rows[0].Conversation.ID)
	req.Equal(quiet.ID, rows[1].Conversation.ID)
	// No activity sorts last.
	req.Equal(idle.ID, rows[2].Conversation.ID)
}

func Test_ListByCategory_Should_Filter_By_Category(t *testing.T) {
	req := require.New(t)
	fx := newFixture(t)
	userID := uuid.New()
	now := time.Now().UTC()

	seedConversation(t, fx, userID, domain.Team, "team", now)
	seedConversation(t, fx, userID, domain.Direct, "", now)

	teams, err := fx.dir.ListByCategory(context.Background(), userID, domain.Team)
	req.NoError(err)
	req.Len(teams, 1)

	directs, err := fx.dir.ListByCategory(context.Background(), userID, domain.Direct)
	req.NoError(err)
	req.Len(directs, 1)
}

func Test_ListByCategory_Should_Serve_From_Cache_Until_Invalidated(t *testing.T) {
	req := require.New(t)
	fx := newFixture(t)
	userID := uuid.New()
	now := time.Now().UTC()

	seedConversation(t, fx, userID, domain.Team, "first", now)
	rows, err := fx.dir.ListByCategory(context.Background(), userID, domain.Team)
	req.NoError(err)
	req.Len(rows, 1)

	seedConversation(t, fx, userID, domain.Team, "second", now.Add(time.Second))

	// Cached listing does not see the new conversation yet.
	rows, err = fx.dir.ListByCategory(context.Background(), userID, domain.Team)
	req.NoError(err)
	req.Len(rows, 1)

	fx.dir.Invalidate(domain.Team)
	rows, err = fx.dir.ListByCategory(context.Background(), userID, domain.Team)
	req.NoError(err)
	req.Len(rows, 2)
}

func Test_ListByCategory_Should_Repair_Index_Missing_Preview(t *testing.T) {
	req := require.New(t)
	fx := newFixture(t)
	userID := uuid.New()
	now := time.Now().UTC()

	conversation := seedConversation(t, fx, userID, domain.Team, "broken", now)
	message := domain.Message{
		ID:             uuid.New(),
		ConversationID: conversation.ID,
		SenderID:       userID,
		Content:        "latest words",
		Kind:           domain.KindChat,
		CreatedAt:      now,
	}
	req.NoError(fx.messages.Store(message))
	// Half-written index: timestamp without preview.
	req.NoError(fx.indexes.Upsert(domain.Index{ConversationID: conversation.ID, LastMessageAt: now}))

	rows, err := fx.dir.ListByCategory(context.Background(), userID, domain.Team)
	req.NoError(err)
	req.Len(rows, 1)
	req.Equal("latest words", rows[0].Index.LastMessage)

	// The write-back is asynchronous; poll for it.
	req.Eventually(func() bool {
		index, found, err := fx.indexes.Get(conversation.ID)
		return err == nil && found && index.LastMessage == "latest words"
	}, 2*time.Second, 20*time.Millisecond)
}

func Test_ListByCategory_Should_Degrade_To_Empty_On_Store_Failure(t *testing.T) {
	req := require.New(t)

	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)

	log := slog.Default()
	f := feed.New(log, 64)
	dir := NewDirectory(
		log,
		NewCache(),
		repositories.NewConversationRepository(db, log, f),
		repositories.NewIndexRepository(db, log, f),
		repositories.NewMessageRepository(db, log, f, nil),
		observability.NewStatsManager(),
	)
	req.NoError(db.Close())

	rows, err := dir.ListByCategory(context.Background(), uuid.New(), domain.Team)
	req.NoError(err)
	req.Empty(rows)
}
