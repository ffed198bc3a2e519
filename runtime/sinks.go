// Package runtime assembles the session's background machinery: the feed
// sinks and the supervised workers that keep local state in step with the
// store.
package runtime

import (
	"context"
	"log/slog"

	"workchat/directory"
	"workchat/domain"
	"workchat/domain/event"
	"workchat/notify"
	"workchat/readstate"

	"github.com/google/uuid"
)

// NotificationSink routes notification inserts addressed to the session's
// user into the dispatcher.
type NotificationSink struct {
	dispatcher    notify.IDispatcher
	sessionUserID uuid.UUID
}

func NewNotificationSink(dispatcher notify.IDispatcher, sessionUserID uuid.UUID) *NotificationSink {
	return &NotificationSink{dispatcher: dispatcher, sessionUserID: sessionUserID}
}

func (s *NotificationSink) Consume(ctx context.Context, e event.ChangeEvent) error {
	if e.Entity != event.EntityNotification || e.Op != event.OpInsert {
		return nil
	}
	n, ok := e.Payload.(event.Notification)
	if !ok || n.ReceiverID != s.sessionUserID {
		return nil
	}
	s.dispatcher.Dispatch(ctx, n)
	return nil
}

// DirectorySink invalidates the sidebar cache whenever something that shapes
// it changes remotely: conversations, messages, index rows.
type DirectorySink struct {
	directory directory.IDirectory
}

func NewDirectorySink(d directory.IDirectory) *DirectorySink {
	return &DirectorySink{directory: d}
}

func (s *DirectorySink) Consume(_ context.Context, e event.ChangeEvent) error {
	switch e.Entity {
	case event.EntityConversation, event.EntityMessage, event.EntityIndex:
		s.directory.InvalidateAll()
	}
	return nil
}

// ReadStateSink folds remotely persisted read cursors of the session's user
// into the local tracker. Merging is max-based, so it never regresses a
// cursor the session already advanced.
type ReadStateSink struct {
	log           *slog.Logger
	tracker       readstate.ITracker
	sessionUserID uuid.UUID
}

func NewReadStateSink(log *slog.Logger, tracker readstate.ITracker, sessionUserID uuid.UUID) *ReadStateSink {
	return &ReadStateSink{log: log, tracker: tracker, sessionUserID: sessionUserID}
}

func (s *ReadStateSink) Consume(_ context.Context, e event.ChangeEvent) error {
	if e.Entity != event.EntityMember || e.Op != event.OpUpdate {
		return nil
	}
	member, ok := e.Payload.(domain.Member)
	if !ok || member.UserID != s.sessionUserID {
		return nil
	}
	s.tracker.Merge(member.ConversationID, member.LastReadAt)
	return nil
}
