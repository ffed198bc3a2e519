//go:generate go run go.uber.org/mock/mockgen -source=registry.go -destination=../mocks/mock_registry.go -package=mocks
// Package membership owns conversation lifecycle and the member/admin rules:
// who is in a conversation, who may change it, and the cascade that removes a
// conversation with everything hanging off it.
package membership

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"workchat/contract"
	"workchat/domain"
	apperrors "workchat/errors"
	"workchat/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type IRegistry interface {
	CreateDirect(ctx context.Context, userA, userB uuid.UUID) (domain.Conversation, error)
	CreateTeam(ctx context.Context, cmd domain.CreateTeamCommand) (domain.Conversation, error)
	GetOrCreateOrg(ctx context.Context, orgID string, userID uuid.UUID) (domain.Conversation, error)
	Join(ctx context.Context, conversationID, userID uuid.UUID) error
	AddMember(ctx context.Context, conversationID, callerID, userID uuid.UUID) error
	RemoveMember(ctx context.Context, conversationID, callerID, userID uuid.UUID) error
	Promote(ctx context.Context, conversationID, callerID, userID uuid.UUID) error
	Demote(ctx context.Context, conversationID, callerID, userID uuid.UUID) error
	Rename(ctx context.Context, conversationID, callerID uuid.UUID, name string) error
	Leave(ctx context.Context, conversationID, userID uuid.UUID) error
	DeleteConversation(ctx context.Context, conversationID, callerID uuid.UUID) error
	Members(ctx context.Context, conversationID uuid.UUID) ([]domain.Member, error)
}

type Registry struct {
	log           *slog.Logger
	validate      *validator.Validate
	conversations repositories.IConversationRepository
	members       repositories.IMemberRepository
	messages      repositories.IMessageRepository
	reactions     repositories.IReactionRepository
	votes         repositories.IVoteRepository
	attachments   repositories.IAttachmentRepository
	indexes       repositories.IIndexRepository
	blobs         contract.IAttachmentStore
}

func NewRegistry(
	log *slog.Logger,
	conversations repositories.IConversationRepository,
	members repositories.IMemberRepository,
	messages repositories.IMessageRepository,
	reactions repositories.IReactionRepository,
	votes repositories.IVoteRepository,
	attachments repositories.IAttachmentRepository,
	indexes repositories.IIndexRepository,
	blobs contract.IAttachmentStore,
) *Registry {
	return &Registry{
		log:           log,
		validate:      validator.New(),
		conversations: conversations,
		members:       members,
		messages:      messages,
		reactions:     reactions,
		votes:         votes,
		attachments:   attachments,
		indexes:       indexes,
		blobs:         blobs,
	}
}

// CreateDirect returns the existing DM between the two users or creates a new
// one. Direct conversations are unnamed and carry no admins.
func (r *Registry) CreateDirect(_ context.Context, userA, userB uuid.UUID) (domain.Conversation, error) {
	if existing, found, err := r.conversations.FindDirect(userA, userB); err != nil {
		return domain.Conversation{}, err
	} else if found {
		return existing, nil
	}

	now := time.Now().UTC()
	conversation := domain.Conversation{
		ID:        uuid.New(),
		Type:      domain.Direct,
		CreatedAt: now,
	}
	members := []domain.Member{
		{UserID: userA, JoinedAt: now},
		{UserID: userB, JoinedAt: now},
	}
	if err := r.conversations.Create(conversation, members); err != nil {
		return domain.Conversation{}, err
	}
	return conversation, nil
}

func (r *Registry) CreateTeam(_ context.Context, cmd domain.CreateTeamCommand) (domain.Conversation, error) {
	if strings.TrimSpace(cmd.Name) == "" {
		return domain.Conversation{}, apperrors.ErrEmptyName
	}
	if err := r.validate.Struct(cmd); err != nil {
		return domain.Conversation{}, fmt.Errorf("invalid team command: %w", err)
	}

	now := time.Now().UTC()
	conversation := domain.Conversation{
		ID:        uuid.New(),
		Type:      domain.Team,
		Name:      strings.TrimSpace(cmd.Name),
		OrgID:     cmd.OrgID,
		CreatedBy: cmd.CreatorID,
		CreatedAt: now,
	}

	members := []domain.Member{{UserID: cmd.CreatorID, IsAdmin: true, JoinedAt: now}}
	for _, userID := range cmd.MemberIDs {
		if userID == cmd.CreatorID {
			continue
		}
		members = append(members, domain.Member{UserID: userID, JoinedAt: now})
	}

	if err := r.conversations.Create(conversation, members); err != nil {
		return domain.Conversation{}, err
	}
	return conversation, nil
}

// GetOrCreateOrg returns the organization's single org-wide conversation,
// creating it on first access and joining the caller in either case.
func (r *Registry) GetOrCreateOrg(ctx context.Context, orgID string, userID uuid.UUID) (domain.Conversation, error) {
	existing, found, err := r.conversations.FindOrg(orgID)
	if err != nil {
		return domain.Conversation{}, err
	}
	if found {
		if err := r.Join(ctx, existing.ID, userID); err != nil {
			return domain.Conversation{}, err
		}
		return existing, nil
	}

	now := time.Now().UTC()
	conversation := domain.Conversation{
		ID:        uuid.New(),
		Type:      domain.Org,
		Name:      "General",
		OrgID:     orgID,
		CreatedAt: now,
	}
	members := []domain.Member{{UserID: userID, JoinedAt: now}}
	if err := r.conversations.Create(conversation, members); err != nil {
		return domain.Conversation{}, err
	}
	return conversation, nil
}

// Join is the self-service entry into an org conversation. Joining a
// conversation the user already belongs to is a no-op.
func (r *Registry) Join(_ context.Context, conversationID, userID uuid.UUID) error {
	conversation, err := r.conversations.Get(conversationID)
	if err != nil {
		return err
	}
	if conversation.Type != domain.Org {
		return apperrors.ErrNotAdmin
	}

	err = r.members.Add(domain.Member{
		ConversationID: conversationID,
		UserID:         userID,
		JoinedAt:       time.Now().UTC(),
	})
	if stderrors.Is(err, apperrors.ErrAlreadyMember) {
		return nil
	}
	return err
}

func (r *Registry) AddMember(_ context.Context, conversationID, callerID, userID uuid.UUID) error {
	if err := r.authorize(conversationID, callerID); err != nil {
		return err
	}
	return r.members.Add(domain.Member{
		ConversationID: conversationID,
		UserID:         userID,
		JoinedAt:       time.Now().UTC(),
	})
}

func (r *Registry) RemoveMember(_ context.Context, conversationID, callerID, userID uuid.UUID) error {
	if err := r.authorize(conversationID, callerID); err != nil {
		return err
	}
	return r.members.Remove(conversationID, userID, true)
}

func (r *Registry) Promote(_ context.Context, conversationID, callerID, userID uuid.UUID) error {
	if err := r.authorize(conversationID, callerID); err != nil {
		return err
	}
	return r.members.SetAdmin(conversationID, userID, true)
}

func (r *Registry) Demote(_ context.Context, conversationID, callerID, userID uuid.UUID) error {
	if err := r.authorize(conversationID, callerID); err != nil {
		return err
	}
	return r.members.SetAdmin(conversationID, userID, false)
}

func (r *Registry) Rename(_ context.Context, conversationID, callerID uuid.UUID, name string) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.ErrEmptyName
	}
	if err := r.authorize(conversationID, callerID); err != nil {
		return err
	}
	return r.conversations.Rename(conversationID, strings.TrimSpace(name))
}

// Leave removes the caller's own membership. No admin rights required, but
// the sole admin of a team must promote someone first.
func (r *Registry) Leave(_ context.Context, conversationID, userID uuid.UUID) error {
	conversation, err := r.conversations.Get(conversationID)
	if err != nil {
		return err
	}
	if conversation.Type == domain.Direct {
		return apperrors.ErrDirectConversationImmutable
	}
	return r.members.Remove(conversationID, userID, conversation.Type == domain.Team)
}

// DeleteConversation tears down the conversation and everything referencing
// it. The cascade runs leaf-first so a crash mid-way leaves orphans that are
// unreachable rather than dangling references: votes, reactions, attachments,
// reply pointers, messages, members, index, then the conversation row itself.
func (r *Registry) DeleteConversation(ctx context.Context, conversationID, callerID uuid.UUID) error {
	if err := r.authorize(conversationID, callerID); err != nil {
		return err
	}

	messageIDs, err := r.messages.ListIDs(conversationID)
	if err != nil {
		return err
	}

	if err := r.votes.DeleteAllForMessages(messageIDs); err != nil {
		return err
	}
	if err := r.reactions.DeleteAllForMessages(messageIDs); err != nil {
		return err
	}
	for _, messageID := range messageIDs {
		if _, err := r.attachments.DeleteForMessage(messageID); err != nil {
			return err
		}
		if err := r.blobs.DeleteForMessage(ctx, messageID); err != nil {
			// Blob store cleanup is best-effort; metadata is already gone.
			r.log.Warn("Attachment blob cleanup failed", "message_id", messageID.String(), "err", err)
		}
	}
	if err := r.messages.NullifyReplies(conversationID); err != nil {
		return err
	}
	if err := r.messages.DeleteAll(conversationID); err != nil {
		return err
	}
	if err := r.members.DeleteAll(conversationID); err != nil {
		return err
	}
	if err := r.indexes.Delete(conversationID); err != nil {
		return err
	}
	return r.conversations.Delete(conversationID)
}

func (r *Registry) Members(_ context.Context, conversationID uuid.UUID) ([]domain.Member, error) {
	return r.members.List(conversationID)
}

// authorize is the single permission gate for structural changes: the caller
// must be an admin member of a team conversation. Direct conversations have
// no admins and never change shape; org conversations are managed by nobody.
func (r *Registry) authorize(conversationID, callerID uuid.UUID) error {
	conversation, err := r.conversations.Get(conversationID)
	if err != nil {
		return err
	}
	if conversation.Type == domain.Direct {
		return apperrors.ErrDirectConversationImmutable
	}
	if conversation.Type != domain.Team {
		return apperrors.ErrNotAdmin
	}

	caller, err := r.members.Get(conversationID, callerID)
	if stderrors.Is(err, apperrors.ErrMemberNotFound) {
		return apperrors.ErrNotMember
	}
	if err != nil {
		return err
	}
	if !caller.IsAdmin {
		return apperrors.ErrNotAdmin
	}
	return nil
}
