//go:generate go run go.uber.org/mock/mockgen -source=tracker.go -destination=../mocks/mock_readstate.go -package=mocks
// Package readstate tracks what the session's user has read. The in-memory
// state is authoritative for the session; the store copy is a best-effort
// shadow advanced asynchronously.
package readstate

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"workchat/repositories"

	"github.com/google/uuid"
)

type ITracker interface {
	MarkAsRead(conversationID uuid.UUID)
	IsUnread(conversationID uuid.UUID) bool
	LastReadAt(conversationID uuid.UUID) time.Time
	Hydrate(ctx context.Context)
	Merge(conversationID uuid.UUID, at time.Time)
}

type Tracker struct {
	mu            sync.RWMutex
	log           *slog.Logger
	userID        uuid.UUID
	lastRead      map[uuid.UUID]time.Time
	members       repositories.IMemberRepository
	conversations repositories.IConversationRepository
	indexes       repositories.IIndexRepository
}

func NewTracker(
	log *slog.Logger,
	userID uuid.UUID,
	members repositories.IMemberRepository,
	conversations repositories.IConversationRepository,
	indexes repositories.IIndexRepository,
) *Tracker {
	return &Tracker{
		log:           log,
		userID:        userID,
		lastRead:      make(map[uuid.UUID]time.Time),
		members:       members,
		conversations: conversations,
		indexes:       indexes,
	}
}

// MarkAsRead advances the cursor to now and persists in the background.
// The cursor only moves forward; a persist failure is logged and the local
// state stays authoritative until the next attempt.
func (t *Tracker) MarkAsRead(conversationID uuid.UUID) {
	now := time.Now().UTC()

	t.mu.Lock()
	if now.After(t.lastRead[conversationID]) {
		t.lastRead[conversationID] = now
	}
	at := t.lastRead[conversationID]
	t.mu.Unlock()

	go func() {
		if err := t.members.AdvanceLastRead(conversationID, t.userID, at); err != nil {
			t.log.Warn("Read-state persist failed",
				"conversation_id", conversationID.String(), "err", err)
		}
	}()
}

// IsUnread compares the conversation's last activity against the read cursor.
// A conversation without an index row is never unread.
func (t *Tracker) IsUnread(conversationID uuid.UUID) bool {
	index, found, err := t.indexes.Get(conversationID)
	if err != nil || !found {
		return false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	return index.Unread(t.lastRead[conversationID])
}

func (t *Tracker) LastReadAt(conversationID uuid.UUID) time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastRead[conversationID]
}

// Hydrate loads the persisted cursors and merges them in. Merging takes the
// max per conversation, so a hydrate racing local reads never regresses.
func (t *Tracker) Hydrate(_ context.Context) {
	conversations, err := t.conversations.ListForUser(t.userID)
	if err != nil {
		t.log.Warn("Read-state hydrate failed", "err", err)
		return
	}

	for _, conversation := range conversations {
		member, err := t.members.Get(conversation.ID, t.userID)
		if err != nil {
			continue
		}
		t.Merge(conversation.ID, member.LastReadAt)
	}
}

// Merge folds an externally observed cursor into the local state, keeping the
// newer of the two.
func (t *Tracker) Merge(conversationID uuid.UUID, at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if at.After(t.lastRead[conversationID]) {
		t.lastRead[conversationID] = at
	}
}
