//go:generate go run go.uber.org/mock/mockgen -source=aggregator.go -destination=../mocks/mock_reactions.go -package=mocks
// Package reactions toggles and aggregates per-message emoji reactions.
package reactions

import (
	"context"
	"log/slog"
	"time"

	"workchat/domain"
	"workchat/repositories"

	"github.com/google/uuid"
)

// EmojiSummary aggregates one emoji on one message. Users are ordered by who
// reacted first.
type EmojiSummary struct {
	Count int
	Users []uuid.UUID
}

type IAggregator interface {
	Toggle(ctx context.Context, messageID, userID uuid.UUID, emoji string) (added bool, err error)
	Summary(ctx context.Context, messageID uuid.UUID) (map[string]EmojiSummary, error)
}

type Aggregator struct {
	log       *slog.Logger
	reactions repositories.IReactionRepository
	messages  repositories.IMessageRepository
}

func NewAggregator(log *slog.Logger, reactions repositories.IReactionRepository, messages repositories.IMessageRepository) *Aggregator {
	return &Aggregator{log: log, reactions: reactions, messages: messages}
}

// Toggle flips the caller's reaction: first call adds, second removes.
func (a *Aggregator) Toggle(_ context.Context, messageID, userID uuid.UUID, emoji string) (bool, error) {
	message, err := a.messages.Get(messageID)
	if err != nil {
		return false, err
	}
	return a.reactions.Toggle(message.ConversationID, domain.Reaction{
		MessageID: messageID,
		UserID:    userID,
		Emoji:     emoji,
		CreatedAt: time.Now().UTC(),
	})
}

// Summary groups reactions per emoji. A transient store failure degrades to
// an empty map; reaction pills simply render empty.
func (a *Aggregator) Summary(_ context.Context, messageID uuid.UUID) (map[string]EmojiSummary, error) {
	rows, err := a.reactions.ListForMessage(messageID)
	if err != nil {
		a.log.Warn("Reaction summary degraded to empty", "message_id", messageID.String(), "err", err)
		return map[string]EmojiSummary{}, nil
	}

	summary := make(map[string]EmojiSummary, len(rows))
	for _, row := range rows {
		entry := summary[row.Emoji]
		entry.Count++
		entry.Users = append(entry.Users, row.UserID)
		summary[row.Emoji] = entry
	}
	return summary, nil
}
