// Package event defines the change-feed envelope and the payloads the store
// pushes to subscribed sessions. Events describe what already happened; they
// carry no behavior.
package event

import (
	"time"

	"github.com/google/uuid"
)

type Entity string

const (
	EntityConversation Entity = "conversation"
	EntityMember       Entity = "member"
	EntityMessage      Entity = "message"
	EntityReaction     Entity = "reaction"
	EntityVote         Entity = "vote"
	EntityIndex        Entity = "index"
	EntityNotification Entity = "notification"
)

type Operation string

const (
	OpInsert Operation = "insert"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Mask selects which entities a subscriber wants to observe.
type Mask map[Entity]struct{}

func NewMask(entities ...Entity) Mask {
	m := make(Mask, len(entities))
	for _, e := range entities {
		m[e] = struct{}{}
	}
	return m
}

// Matches reports whether the entity passes the mask. An empty mask lets
// everything through.
func (m Mask) Matches(e Entity) bool {
	if len(m) == 0 {
		return true
	}
	_, ok := m[e]
	return ok
}

// ChangeEvent is the feed envelope. ID identifies the event itself and is the
// deduplication key under reconnect replay.
type ChangeEvent struct {
	ID             uuid.UUID
	Entity         Entity
	Op             Operation
	ConversationID uuid.UUID // uuid.Nil for events with no owning conversation
	At             time.Time
	Payload        any
}

type NotificationKind string

const (
	KindMessage         NotificationKind = "message"
	KindTaskAssigned    NotificationKind = "task_assigned"
	KindTaskClosed      NotificationKind = "task_closed"
	KindAccessRequested NotificationKind = "access_requested"
	KindAccessApproved  NotificationKind = "access_approved"
	KindAnnouncement    NotificationKind = "announcement"
	KindOther           NotificationKind = "other"
)

// Notification is the payload of an EntityNotification insert addressed to
// one receiving user.
type Notification struct {
	ID         uuid.UUID
	Kind       NotificationKind
	ReceiverID uuid.UUID
	SenderID   uuid.UUID
	SenderName string
	Body       string
	CreatedAt  time.Time
}

// Title renders the per-kind system notification title.
func (n Notification) Title() string {
	switch n.Kind {
	case KindMessage:
		sender := n.SenderName
		if sender == "" {
			sender = "User"
		}
		return "New Message from " + sender
	case KindTaskAssigned:
		return "New Task Assigned"
	case KindTaskClosed:
		return "Task Update"
	case KindAccessRequested:
		return "Access Requested"
	case KindAccessApproved:
		return "Access Approved"
	case KindAnnouncement:
		return "New Announcement"
	default:
		return "New Notification"
	}
}
