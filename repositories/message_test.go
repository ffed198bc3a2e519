package repositories

import (
	"log/slog"
	"testing"
	"time"

	"workchat/domain"
	apperrors "workchat/errors"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func storedMessage(conversationID uuid.UUID, content string, at time.Time) domain.Message {
	return domain.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderID:       uuid.New(),
		Content:        content,
		Kind:           domain.KindChat,
		CreatedAt:      at,
	}
}

func Test_List_Should_Return_Messages_Newest_First(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	repo := NewMessageRepository(db, slog.Default(), newTestFeed(), nil)

	conversationID := uuid.New()
	at := time.Now().UTC()
	for i, content := range []string{"first", "second", "third"} {
		req.NoError(repo.Store(storedMessage(conversationID, content, at.Add(time.Duration(i)*time.Minute))))
	}

	page, _, err := repo.List(conversationID, nil)
	req.NoError(err)
	req.Len(page, 3)
	req.Equal("third", page[0].Content)
	req.Equal("second", page[1].Content)
	req.Equal("first", page[2].Content)
}

func Test_List_Should_Paginate_With_Cursor(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	repo := NewMessageRepository(db, slog.Default(), newTestFeed(), lo.ToPtr(2))

	conversationID := uuid.New()
	at := time.Now().UTC()
	for i := 0; i < 5; i++ {
		req.NoError(repo.Store(storedMessage(conversationID, "msg", at.Add(time.Duration(i)*time.Second))))
	}

	first, cursor, err := repo.List(conversationID, nil)
	req.NoError(err)
	req.Len(first, 2)
	req.NotNil(cursor)

	second, _, err := repo.List(conversationID, cursor)
	req.NoError(err)
	req.Len(second, 2)
	// No overlap between pages.
	req.NotEqual(first[1].ID, second[0].ID)
	req.True(first[1].CreatedAt.After(second[0].CreatedAt))
}

func Test_List_Should_Return_Nil_Cursor_On_Empty_Page(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	repo := NewMessageRepository(db, slog.Default(), newTestFeed(), lo.ToPtr(2))

	conversationID := uuid.New()
	at := time.Now().UTC()
	for i := 0; i < 2; i++ {
		req.NoError(repo.Store(storedMessage(conversationID, "msg", at.Add(time.Duration(i)*time.Second))))
	}

	page, cursor, err := repo.List(conversationID, nil)
	req.NoError(err)
	req.Len(page, 2)
	req.NotNil(cursor)

	// Scanning past the last message yields nothing to resume from.
	rest, next, err := repo.List(conversationID, cursor)
	req.NoError(err)
	req.Empty(rest)
	req.Nil(next)

	// An empty conversation behaves the same.
	none, next, err := repo.List(uuid.New(), nil)
	req.NoError(err)
	req.Empty(none)
	req.Nil(next)
}

func Test_Latest_Should_Return_Newest_Message(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	repo := NewMessageRepository(db, slog.Default(), newTestFeed(), nil)

	conversationID := uuid.New()
	at := time.Now().UTC()
	req.NoError(repo.Store(storedMessage(conversationID, "old", at)))
	req.NoError(repo.Store(storedMessage(conversationID, "new", at.Add(time.Minute))))

	latest, found, err := repo.Latest(conversationID)
	req.NoError(err)
	req.True(found)
	req.Equal("new", latest.Content)

	_, found, err = repo.Latest(uuid.New())
	req.NoError(err)
	req.False(found)
}

func Test_MarkDeleted_Should_Replace_Content_With_Sentinel(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	repo := NewMessageRepository(db, slog.Default(), newTestFeed(), nil)

	message := storedMessage(uuid.New(), "secret", time.Now().UTC())
	req.NoError(repo.Store(message))

	deleted, err := repo.MarkDeleted(message.ID)
	req.NoError(err)
	req.True(deleted.IsDeleted)
	req.Equal(domain.DeletedSentinel, deleted.Content)

	fetched, err := repo.Get(message.ID)
	req.NoError(err)
	req.Equal(domain.DeletedSentinel, fetched.Content)
}

func Test_AddDeletedFor_Should_Be_Idempotent(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	repo := NewMessageRepository(db, slog.Default(), newTestFeed(), nil)

	message := storedMessage(uuid.New(), "hello", time.Now().UTC())
	req.NoError(repo.Store(message))

	viewer := uuid.New()
	req.NoError(repo.AddDeletedFor(message.ID, viewer))
	req.NoError(repo.AddDeletedFor(message.ID, viewer))

	fetched, err := repo.Get(message.ID)
	req.NoError(err)
	req.Len(fetched.DeletedFor, 1)
	req.True(fetched.HiddenFor(viewer))
	// Content untouched for everyone else.
	req.Equal("hello", fetched.Content)
}

func Test_Get_Unknown_Message_Should_Return_NotFound(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	repo := NewMessageRepository(db, slog.Default(), newTestFeed(), nil)

	_, err := repo.Get(uuid.New())
	req.ErrorIs(err, apperrors.ErrMessageNotFound)
}

func Test_DeleteAll_Should_Remove_Rows_And_Pointers(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	repo := NewMessageRepository(db, slog.Default(), newTestFeed(), nil)

	conversationID := uuid.New()
	message := storedMessage(conversationID, "bye", time.Now().UTC())
	req.NoError(repo.Store(message))

	req.NoError(repo.DeleteAll(conversationID))

	page, _, err := repo.List(conversationID, nil)
	req.NoError(err)
	req.Empty(page)

	_, err = repo.Get(message.ID)
	req.ErrorIs(err, apperrors.ErrMessageNotFound)
}

func Test_NullifyReplies_Should_Clear_Pointers_But_Keep_Snapshots(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	repo := NewMessageRepository(db, slog.Default(), newTestFeed(), nil)

	conversationID := uuid.New()
	original := storedMessage(conversationID, "original", time.Now().UTC())
	req.NoError(repo.Store(original))

	reply := storedMessage(conversationID, "reply", time.Now().UTC().Add(time.Second))
	reply.ReplyTo = &original.ID
	reply.ReplySnapshot = &domain.ReplySnapshot{Content: "original", SenderName: "Alice"}
	req.NoError(repo.Store(reply))

	req.NoError(repo.NullifyReplies(conversationID))

	fetched, err := repo.Get(reply.ID)
	req.NoError(err)
	req.Nil(fetched.ReplyTo)
	req.NotNil(fetched.ReplySnapshot)
	req.Equal("Alice", fetched.ReplySnapshot.SenderName)
}
