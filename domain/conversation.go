// Package domain holds the messaging entities and the rules that travel with
// them. It has no knowledge of storage, workers, or delivery channels.
package domain

import (
	"time"

	"github.com/google/uuid"
)

type ConversationType string

const (
	Direct ConversationType = "direct"
	Team   ConversationType = "team"
	Org    ConversationType = "org"
)

// Category is the listing bucket of the conversation sidebar.
// Categories map one-to-one onto conversation types.
type Category = ConversationType

type Conversation struct {
	ID        uuid.UUID
	Type      ConversationType
	Name      string
	OrgID     string
	CreatedBy uuid.UUID // uuid.Nil when the creator is not tracked (direct, org)
	CreatedAt time.Time
}

// Member ties a user to a conversation. LastReadAt is the persisted read
// cursor; the in-session authoritative value lives in the read-state tracker.
type Member struct {
	ConversationID uuid.UUID
	UserID         uuid.UUID
	IsAdmin        bool
	LastReadAt     time.Time
	JoinedAt       time.Time
}

// Index is the denormalized last-activity row per conversation.
// It is a cache, never a source of truth: LastMessageAt is monotonically
// non-decreasing, and a set timestamp with an empty preview means the row
// needs repair from the timeline before being trusted.
type Index struct {
	ConversationID uuid.UUID
	LastMessage    string
	LastMessageAt  time.Time
	UpdatedAt      time.Time
}

// Unread reports whether the index carries activity newer than the read cursor.
// An absent index (zero LastMessageAt) never counts as unread.
func (i Index) Unread(lastReadAt time.Time) bool {
	if i.LastMessageAt.IsZero() {
		return false
	}
	return i.LastMessageAt.After(lastReadAt)
}

// Profile is the minimal directory entry used to render senders and voters.
type Profile struct {
	ID        uuid.UUID
	FullName  string
	Email     string
	AvatarURL string
}

// DisplayName prefers the full name and falls back on the email.
func (p Profile) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	if p.Email != "" {
		return p.Email
	}
	return "Unknown"
}
