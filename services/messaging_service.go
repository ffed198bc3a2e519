//go:generate go run go.uber.org/mock/mockgen -source=messaging_service.go -destination=../mocks/mock_messaging_service.go -package=mocks
// Package services exposes the session facade: one type bundling every
// conversation, timeline, poll, reaction, read-state, search and notification
// operation the surrounding application calls.
package services

import (
	"context"
	"log/slog"
	"time"

	"workchat/directory"
	"workchat/domain"
	"workchat/domain/event"
	"workchat/membership"
	"workchat/notify"
	"workchat/polls"
	"workchat/reactions"
	"workchat/readstate"
	"workchat/search"
	"workchat/timeline"

	"github.com/google/uuid"
)

type IMessagingService interface {
	// Directory
	ListByCategory(ctx context.Context, category domain.Category) ([]directory.Row, error)

	// Membership & conversation lifecycle
	CreateDirect(ctx context.Context, otherUserID uuid.UUID) (domain.Conversation, error)
	CreateTeam(ctx context.Context, cmd domain.CreateTeamCommand) (domain.Conversation, error)
	GetOrCreateOrg(ctx context.Context, orgID string) (domain.Conversation, error)
	AddMember(ctx context.Context, conversationID, userID uuid.UUID) error
	RemoveMember(ctx context.Context, conversationID, userID uuid.UUID) error
	Promote(ctx context.Context, conversationID, userID uuid.UUID) error
	Demote(ctx context.Context, conversationID, userID uuid.UUID) error
	Rename(ctx context.Context, conversationID uuid.UUID, name string) error
	Leave(ctx context.Context, conversationID uuid.UUID) error
	DeleteConversation(ctx context.Context, conversationID uuid.UUID) error
	Members(ctx context.Context, conversationID uuid.UUID) ([]domain.Member, error)

	// Timeline
	Send(ctx context.Context, cmd domain.SendCommand) (domain.Message, error)
	DeleteForEveryone(ctx context.Context, messageID uuid.UUID) error
	DeleteForMe(ctx context.Context, messageID uuid.UUID) error
	Messages(ctx context.Context, conversationID uuid.UUID, cursor *string) ([]domain.Message, *string, error)

	// Reactions & polls
	ToggleReaction(ctx context.Context, messageID uuid.UUID, emoji string) (bool, error)
	ReactionSummary(ctx context.Context, messageID uuid.UUID) (map[string]reactions.EmojiSummary, error)
	SendPoll(ctx context.Context, cmd domain.PollCommand) (domain.Message, error)
	VotePoll(ctx context.Context, messageID uuid.UUID, optionIndex int) error
	PollVotes(ctx context.Context, messageID uuid.UUID) ([]polls.VoterVote, error)

	// Read state & notifications
	MarkAsRead(conversationID uuid.UUID)
	IsUnread(conversationID uuid.UUID) bool
	Notifications() []event.Notification
	DismissNotification(id uuid.UUID)
	QuickReply(ctx context.Context, n event.Notification, content string) error
	Announce(ctx context.Context, userIDs []uuid.UUID, body string)

	// Search
	SearchMessages(ctx context.Context, conversationID uuid.UUID, query string, limit int) ([]search.Hit, error)
}

// MessagingService binds every component to one session user.
type MessagingService struct {
	log       *slog.Logger
	userID    uuid.UUID
	directory directory.IDirectory
	registry  membership.IRegistry
	timeline  timeline.ITimeline
	reactions reactions.IAggregator
	polls     polls.IEngine
	tracker   readstate.ITracker
	queue     *notify.Queue
	deliverer *notify.StoreDeliverer
	index     search.IMessageIndex
}

func NewMessagingService(
	log *slog.Logger,
	userID uuid.UUID,
	dir directory.IDirectory,
	registry membership.IRegistry,
	tl timeline.ITimeline,
	agg reactions.IAggregator,
	engine polls.IEngine,
	tracker readstate.ITracker,
	queue *notify.Queue,
	deliverer *notify.StoreDeliverer,
	index search.IMessageIndex,
) *MessagingService {
	return &MessagingService{
		log:       log,
		userID:    userID,
		directory: dir,
		registry:  registry,
		timeline:  tl,
		reactions: agg,
		polls:     engine,
		tracker:   tracker,
		queue:     queue,
		deliverer: deliverer,
		index:     index,
	}
}

func (s *MessagingService) ListByCategory(ctx context.Context, category domain.Category) ([]directory.Row, error) {
	return s.directory.ListByCategory(ctx, s.userID, category)
}

func (s *MessagingService) CreateDirect(ctx context.Context, otherUserID uuid.UUID) (domain.Conversation, error) {
	conversation, err := s.registry.CreateDirect(ctx, s.userID, otherUserID)
	if err == nil {
		s.directory.Invalidate(domain.Direct)
	}
	return conversation, err
}

func (s *MessagingService) CreateTeam(ctx context.Context, cmd domain.CreateTeamCommand) (domain.Conversation, error) {
	cmd.CreatorID = s.userID
	conversation, err := s.registry.CreateTeam(ctx, cmd)
	if err == nil {
		s.directory.Invalidate(domain.Team)
	}
	return conversation, err
}

func (s *MessagingService) GetOrCreateOrg(ctx context.Context, orgID string) (domain.Conversation, error) {
	conversation, err := s.registry.GetOrCreateOrg(ctx, orgID, s.userID)
	if err == nil {
		s.directory.Invalidate(domain.Org)
	}
	return conversation, err
}

func (s *MessagingService) AddMember(ctx context.Context, conversationID, userID uuid.UUID) error {
	return s.registry.AddMember(ctx, conversationID, s.userID, userID)
}

func (s *MessagingService) RemoveMember(ctx context.Context, conversationID, userID uuid.UUID) error {
	return s.registry.RemoveMember(ctx, conversationID, s.userID, userID)
}

func (s *MessagingService) Promote(ctx context.Context, conversationID, userID uuid.UUID) error {
	return s.registry.Promote(ctx, conversationID, s.userID, userID)
}

func (s *MessagingService) Demote(ctx context.Context, conversationID, userID uuid.UUID) error {
	return s.registry.Demote(ctx, conversationID, s.userID, userID)
}

func (s *MessagingService) Rename(ctx context.Context, conversationID uuid.UUID, name string) error {
	err := s.registry.Rename(ctx, conversationID, s.userID, name)
	if err == nil {
		s.directory.InvalidateAll()
	}
	return err
}

func (s *MessagingService) Leave(ctx context.Context, conversationID uuid.UUID) error {
	err := s.registry.Leave(ctx, conversationID, s.userID)
	if err == nil {
		s.directory.InvalidateAll()
	}
	return err
}

func (s *MessagingService) DeleteConversation(ctx context.Context, conversationID uuid.UUID) error {
	err := s.registry.DeleteConversation(ctx, conversationID, s.userID)
	if err == nil {
		s.directory.InvalidateAll()
	}
	return err
}

func (s *MessagingService) Members(ctx context.Context, conversationID uuid.UUID) ([]domain.Member, error) {
	return s.registry.Members(ctx, conversationID)
}

// Send posts as the session user and counts as reading the conversation:
// your own message never shows up as unread to you. Every other member gets
// a push notification.
func (s *MessagingService) Send(ctx context.Context, cmd domain.SendCommand) (domain.Message, error) {
	cmd.SenderID = s.userID
	message, err := s.timeline.Send(ctx, cmd)
	if err != nil {
		return domain.Message{}, err
	}
	s.tracker.MarkAsRead(cmd.ConversationID)
	s.directory.InvalidateAll()
	s.notifyRecipients(ctx, message)
	return message, nil
}

// notifyRecipients pushes the message to every member except the sender.
// Best-effort: a failed lookup or delivery never fails the send itself.
func (s *MessagingService) notifyRecipients(ctx context.Context, message domain.Message) {
	members, err := s.registry.Members(ctx, message.ConversationID)
	if err != nil {
		s.log.Debug("Recipient lookup failed, message not pushed",
			"conversation_id", message.ConversationID.String(), "err", err)
		return
	}

	receivers := make([]uuid.UUID, 0, len(members))
	for _, member := range members {
		if member.UserID == s.userID {
			continue
		}
		receivers = append(receivers, member.UserID)
	}
	if len(receivers) == 0 {
		return
	}

	if err := s.deliverer.Deliver(ctx, receivers, "", message.Content, message.ConversationID.String()); err != nil {
		s.log.Debug("Message push delivery failed", "err", err)
	}
}

func (s *MessagingService) DeleteForEveryone(ctx context.Context, messageID uuid.UUID) error {
	return s.timeline.DeleteForEveryone(ctx, messageID, s.userID)
}

func (s *MessagingService) DeleteForMe(ctx context.Context, messageID uuid.UUID) error {
	return s.timeline.DeleteForMe(ctx, messageID, s.userID)
}

func (s *MessagingService) Messages(ctx context.Context, conversationID uuid.UUID, cursor *string) ([]domain.Message, *string, error) {
	return s.timeline.Messages(ctx, conversationID, s.userID, cursor)
}

func (s *MessagingService) ToggleReaction(ctx context.Context, messageID uuid.UUID, emoji string) (bool, error) {
	return s.reactions.Toggle(ctx, messageID, s.userID, emoji)
}

func (s *MessagingService) ReactionSummary(ctx context.Context, messageID uuid.UUID) (map[string]reactions.EmojiSummary, error) {
	return s.reactions.Summary(ctx, messageID)
}

func (s *MessagingService) SendPoll(ctx context.Context, cmd domain.PollCommand) (domain.Message, error) {
	cmd.SenderID = s.userID
	message, err := s.polls.SendPoll(ctx, cmd)
	if err != nil {
		return domain.Message{}, err
	}
	s.tracker.MarkAsRead(cmd.ConversationID)
	s.directory.InvalidateAll()
	return message, nil
}

func (s *MessagingService) VotePoll(ctx context.Context, messageID uuid.UUID, optionIndex int) error {
	return s.polls.Vote(ctx, messageID, s.userID, optionIndex)
}

func (s *MessagingService) PollVotes(ctx context.Context, messageID uuid.UUID) ([]polls.VoterVote, error) {
	return s.polls.Votes(ctx, messageID)
}

func (s *MessagingService) MarkAsRead(conversationID uuid.UUID) {
	s.tracker.MarkAsRead(conversationID)
}

func (s *MessagingService) IsUnread(conversationID uuid.UUID) bool {
	return s.tracker.IsUnread(conversationID)
}

func (s *MessagingService) Notifications() []event.Notification {
	return s.queue.Items()
}

func (s *MessagingService) DismissNotification(id uuid.UUID) {
	s.queue.Dismiss(id)
}

// QuickReply answers a queued message notification without opening the
// conversation: it resolves (or creates) the DM with the sender, posts the
// reply (which pushes it back to the sender) and dismisses the notification.
func (s *MessagingService) QuickReply(ctx context.Context, n event.Notification, content string) error {
	conversation, err := s.registry.CreateDirect(ctx, s.userID, n.SenderID)
	if err != nil {
		return err
	}

	if _, err := s.Send(ctx, domain.SendCommand{
		ConversationID: conversation.ID,
		Content:        content,
	}); err != nil {
		return err
	}

	s.queue.Dismiss(n.ID)
	return nil
}

// Announce fans an announcement out to the given users. Best-effort by
// construction, it never returns an error.
func (s *MessagingService) Announce(ctx context.Context, userIDs []uuid.UUID, body string) {
	s.deliverer.DeliverToMany(ctx, userIDs, event.KindAnnouncement, body)
}

func (s *MessagingService) SearchMessages(ctx context.Context, conversationID uuid.UUID, query string, limit int) ([]search.Hit, error) {
	start := time.Now()
	hits, err := s.index.Search(ctx, conversationID, query, limit)
	if err != nil {
		return nil, err
	}
	s.log.Debug("Message search",
		"query", query, "hits", len(hits), "latency_us", time.Since(start).Microseconds())
	return hits, nil
}
