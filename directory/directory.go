//go:generate go run go.uber.org/mock/mockgen -source=directory.go -destination=../mocks/mock_directory.go -package=mocks
// Package directory serves the conversation sidebar: category-bucketed
// listings backed by the denormalized index, with a per-category cache and
// self-healing of index rows that lost their preview.
package directory

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"workchat/domain"
	"workchat/observability"
	"workchat/repositories"

	"github.com/google/uuid"
)

// Row is one sidebar entry: the conversation plus its last-activity info.
type Row struct {
	Conversation domain.Conversation
	Index        domain.Index
}

type IDirectory interface {
	ListByCategory(ctx context.Context, userID uuid.UUID, category domain.Category) ([]Row, error)
	Invalidate(category domain.Category)
	InvalidateAll()
}

// Cache holds the per-category listings of one session. It is a pure
// read-through cache; invalidation is signaled by local sends, conversation
// lifecycle changes and remote index updates observed on the feed.
type Cache struct {
	mu      sync.RWMutex
	entries map[domain.Category][]Row
}

func NewCache() *Cache {
	return &Cache{entries: make(map[domain.Category][]Row)}
}

func (c *Cache) get(category domain.Category) ([]Row, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rows, ok := c.entries[category]
	return rows, ok
}

func (c *Cache) put(category domain.Category, rows []Row) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[category] = rows
}

func (c *Cache) Invalidate(category domain.Category) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, category)
}

func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[domain.Category][]Row)
}

type Directory struct {
	log           *slog.Logger
	cache         *Cache
	conversations repositories.IConversationRepository
	indexes       repositories.IIndexRepository
	messages      repositories.IMessageRepository
	stats         *observability.StatsManager
}

func NewDirectory(
	log *slog.Logger,
	cache *Cache,
	conversations repositories.IConversationRepository,
	indexes repositories.IIndexRepository,
	messages repositories.IMessageRepository,
	stats *observability.StatsManager,
) *Directory {
	return &Directory{
		log:           log,
		cache:         cache,
		conversations: conversations,
		indexes:       indexes,
		messages:      messages,
		stats:         stats,
	}
}

// ListByCategory returns the user's conversations of the category, most
// recent activity first. Conversations without any index row sort last,
// keeping their creation order. A transient store failure degrades to an
// empty listing; the sidebar renders empty rather than erroring.
func (d *Directory) ListByCategory(ctx context.Context, userID uuid.UUID, category domain.Category) ([]Row, error) {
	if rows, ok := d.cache.get(category); ok {
		return rows, nil
	}

	conversations, err := d.conversations.ListForUser(userID)
	if err != nil {
		d.log.Warn("Directory listing degraded to empty", "category", string(category), "err", err)
		return []Row{}, nil
	}

	indexes, err := d.indexes.GetAll()
	if err != nil {
		d.log.Warn("Directory listing degraded to empty", "category", string(category), "err", err)
		return []Row{}, nil
	}

	var rows []Row
	for _, conversation := range conversations {
		if conversation.Type != category {
			continue
		}
		row := Row{Conversation: conversation, Index: indexes[conversation.ID]}
		row.Index.ConversationID = conversation.ID
		if needsRepair(row.Index) {
			row = d.repair(ctx, row)
		}
		rows = append(rows, row)
	}

	sortRows(rows)
	d.cache.put(category, rows)
	return rows, nil
}

func (d *Directory) Invalidate(category domain.Category) {
	d.cache.Invalidate(category)
}

func (d *Directory) InvalidateAll() {
	d.cache.InvalidateAll()
}

// needsRepair spots the half-written index state: activity timestamp present
// but no preview text.
func needsRepair(index domain.Index) bool {
	return !index.LastMessageAt.IsZero() && index.LastMessage == ""
}

// repair patches the returned row from the newest timeline message and
// schedules the index write-back without waiting on it. The caller's listing
// must not block or fail on the persistence of a cache repair.
func (d *Directory) repair(_ context.Context, row Row) Row {
	latest, found, err := d.messages.Latest(row.Conversation.ID)
	if err != nil || !found {
		if err != nil {
			d.log.Debug("Index repair lookup failed", "conversation_id", row.Conversation.ID.String(), "err", err)
		}
		return row
	}

	preview := latest.Preview()
	row.Index.LastMessage = preview
	if row.Index.LastMessageAt.IsZero() {
		row.Index.LastMessageAt = latest.CreatedAt
	}
	d.stats.IncrIndexRepairs()

	conversationID := row.Conversation.ID
	at := row.Index.LastMessageAt
	go func() {
		if err := d.indexes.RepairPreview(conversationID, preview, at); err != nil {
			d.log.Warn("Index repair write-back failed", "conversation_id", conversationID.String(), "err", err)
		}
	}()
	return row
}

func sortRows(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Index.LastMessageAt, rows[j].Index.LastMessageAt
		switch {
		case a.IsZero() && b.IsZero():
			// Both inactive: stable sort keeps creation order.
			return false
		case a.IsZero():
			return false
		case b.IsZero():
			return true
		default:
			return a.After(b)
		}
	})
}
