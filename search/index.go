//go:generate go run go.uber.org/mock/mockgen -source=index.go -destination=../mocks/mock_search_index.go -package=mocks
// Package search maintains a bluge full-text index over sent messages.
// Indexing is best-effort: the timeline stays the source of truth and a failed
// index write never fails the send that triggered it.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"workchat/domain"
	"workchat/domain/event"

	"github.com/blugelabs/bluge"
	"github.com/google/uuid"
)

type Hit struct {
	MessageID      uuid.UUID
	ConversationID uuid.UUID
	Score          float64
}

type IMessageIndex interface {
	Index(message domain.Message) error
	Remove(messageID uuid.UUID) error
	Search(ctx context.Context, conversationID uuid.UUID, query string, limit int) ([]Hit, error)
}

type MessageIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewMessageIndex(writer *bluge.Writer, log *slog.Logger) *MessageIndex {
	return &MessageIndex{writer: writer, log: log}
}

func (i *MessageIndex) Index(message domain.Message) error {
	doc := bluge.NewDocument(message.ID.String()).
		AddField(bluge.NewKeywordField("conversation_id", message.ConversationID.String()).StoreValue()).
		AddField(bluge.NewTextField("content", message.Content)).
		AddField(bluge.NewDateTimeField("created_at", message.CreatedAt))

	if err := i.writer.Update(doc.ID(), doc); err != nil {
		return fmt.Errorf("indexing message %s: %w", message.ID, err)
	}
	return nil
}

func (i *MessageIndex) Remove(messageID uuid.UUID) error {
	doc := bluge.NewDocument(messageID.String())
	if err := i.writer.Delete(doc.ID()); err != nil {
		return fmt.Errorf("removing message %s from index: %w", messageID, err)
	}
	return nil
}

// Search returns matching message hits, best score first, scoped to one
// conversation when conversationID is non-nil.
func (i *MessageIndex) Search(ctx context.Context, conversationID uuid.UUID, query string, limit int) ([]Hit, error) {
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, fmt.Errorf("opening index reader: %w", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	match := bluge.NewMatchQuery(query).SetField("content")
	var q bluge.Query = match
	if conversationID != uuid.Nil {
		q = bluge.NewBooleanQuery().
			AddMust(match).
			AddMust(bluge.NewTermQuery(conversationID.String()).SetField("conversation_id"))
	}

	if limit <= 0 {
		limit = 20
	}
	iter, err := reader.Search(ctx, bluge.NewTopNSearch(limit, q))
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	var hits []Hit
	for {
		next, err := iter.Next()
		if err != nil {
			return nil, fmt.Errorf("reading search result: %w", err)
		}
		if next == nil {
			break
		}

		hit := Hit{Score: next.Score}
		err = next.VisitStoredFields(func(field string, value []byte) bool {
			if field == "conversation_id" {
				if id, perr := uuid.Parse(string(value)); perr == nil {
					hit.ConversationID = id
				}
			}
			if field == "_id" {
				if id, perr := uuid.Parse(string(value)); perr == nil {
					hit.MessageID = id
				}
			}
			return true
		})
		if err != nil {
			return nil, fmt.Errorf("visiting stored fields: %w", err)
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// Sink adapts the index to the change feed: message inserts are indexed,
// delete-for-everyone updates drop the document. Errors are logged, never
// returned up the fanout.
type Sink struct {
	index IMessageIndex
	log   *slog.Logger
}

func NewSink(index IMessageIndex, log *slog.Logger) *Sink {
	return &Sink{index: index, log: log}
}

func (s *Sink) Consume(_ context.Context, e event.ChangeEvent) error {
	message, ok := e.Payload.(domain.Message)
	if !ok || e.Entity != event.EntityMessage {
		return nil
	}

	start := time.Now()
	var err error
	switch {
	case e.Op == event.OpInsert && !message.IsDeleted:
		err = s.index.Index(message)
	case message.IsDeleted:
		err = s.index.Remove(message.ID)
	}
	if err != nil {
		s.log.Warn("Search index write failed",
			"message_id", message.ID.String(),
			"latency_us", time.Since(start).Microseconds(),
			"err", err)
	}
	return nil
}
