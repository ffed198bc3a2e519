package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type MessageKind string

const (
	KindChat MessageKind = "chat"
	KindPoll MessageKind = "poll"
)

// DeletedSentinel replaces the content of a message deleted for everyone.
const DeletedSentinel = "This message was deleted"

// AttachmentMarker is the index preview used when a message carries
// attachments but no text.
const AttachmentMarker = "📎 Attachment"

// ReplySnapshot is a by-value copy of the replied-to message captured at send
// time. Later edits or deletes of the original never alter it.
type ReplySnapshot struct {
	Content    string
	SenderName string
}

type Message struct {
	ID             uuid.UUID
	ConversationID uuid.UUID
	SenderID       uuid.UUID
	Content        string
	Kind           MessageKind
	ReplyTo        *uuid.UUID
	ReplySnapshot  *ReplySnapshot
	Poll           *Poll
	IsDeleted      bool
	DeletedFor     []uuid.UUID
	CreatedAt      time.Time
}

// HiddenFor reports whether the message was deleted-for-me by the given user.
func (m Message) HiddenFor(userID uuid.UUID) bool {
	return lo.Contains(m.DeletedFor, userID)
}

// PollMarkerPrefix leads the index preview of a poll message.
const PollMarkerPrefix = "📊 Poll: "

// Preview renders the one-line sidebar preview of the message.
func (m Message) Preview() string {
	switch {
	case m.IsDeleted:
		return DeletedSentinel
	case m.Kind == KindPoll && m.Poll != nil:
		return PollMarkerPrefix + m.Poll.Question
	case m.Content == "":
		return AttachmentMarker
	default:
		return m.Content
	}
}

// Poll is the immutable option list embedded on a poll-kind message.
type Poll struct {
	Question      string
	Options       []string
	AllowMultiple bool
}

type Attachment struct {
	ID          uuid.UUID
	MessageID   uuid.UUID
	FileName    string
	ContentType string
	Size        int64
	StoragePath string
	URL         string
}

// Reaction is unique per (message, user, emoji). CreatedAt orders the
// first-reacted-first user list in summaries.
type Reaction struct {
	MessageID uuid.UUID
	UserID    uuid.UUID
	Emoji     string
	CreatedAt time.Time
}

type Vote struct {
	MessageID   uuid.UUID
	UserID      uuid.UUID
	OptionIndex int
	CreatedAt   time.Time
}
