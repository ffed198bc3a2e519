//go:generate go run go.uber.org/mock/mockgen -source=timeline.go -destination=../mocks/mock_timeline.go -package=mocks
// Package timeline is the append-mostly message history of a conversation:
// sending, the two delete flavors, and paginated reads.
package timeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"workchat/contract"
	"workchat/domain"
	apperrors "workchat/errors"
	"workchat/moderation"
	"workchat/repositories"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// deleteWindow is the grace period during which the sender may still delete
// for everyone.
const deleteWindow = 5 * time.Minute

type ITimeline interface {
	Send(ctx context.Context, cmd domain.SendCommand) (domain.Message, error)
	DeleteForEveryone(ctx context.Context, messageID, callerID uuid.UUID) error
	DeleteForMe(ctx context.Context, messageID, userID uuid.UUID) error
	Messages(ctx context.Context, conversationID, viewerID uuid.UUID, cursor *string) ([]domain.Message, *string, error)
	Attachments(ctx context.Context, messageID uuid.UUID) ([]domain.Attachment, error)
}

type Timeline struct {
	log         *slog.Logger
	validate    *validator.Validate
	moderator   *moderation.Moderator
	messages    repositories.IMessageRepository
	members     repositories.IMemberRepository
	profiles    repositories.IProfileRepository
	attachments repositories.IAttachmentRepository
	indexes     repositories.IIndexRepository
	blobs       contract.IAttachmentStore
}

func NewTimeline(
	log *slog.Logger,
	moderator *moderation.Moderator,
	messages repositories.IMessageRepository,
	members repositories.IMemberRepository,
	profiles repositories.IProfileRepository,
	attachments repositories.IAttachmentRepository,
	indexes repositories.IIndexRepository,
	blobs contract.IAttachmentStore,
) *Timeline {
	return &Timeline{
		log:         log,
		validate:    validator.New(),
		moderator:   moderator,
		messages:    messages,
		members:     members,
		profiles:    profiles,
		attachments: attachments,
		indexes:     indexes,
		blobs:       blobs,
	}
}

// Send validates, censors and persists the message, then advances the
// conversation's index row. The reply snapshot is captured by value here:
// whatever happens to the original message later, the quote keeps showing
// what the replier saw.
func (t *Timeline) Send(ctx context.Context, cmd domain.SendCommand) (domain.Message, error) {
	if err := t.validate.Struct(cmd); err != nil {
		return domain.Message{}, fmt.Errorf("invalid send command: %w", err)
	}
	if !cmd.HasBody() {
		return domain.Message{}, apperrors.ErrEmptyMessage
	}
	if _, err := t.members.Get(cmd.ConversationID, cmd.SenderID); err != nil {
		if stderrors.Is(err, apperrors.ErrMemberNotFound) {
			return domain.Message{}, apperrors.ErrNotMember
		}
		return domain.Message{}, err
	}

	content := cmd.Content
	if t.moderator != nil && content != "" {
		censored, matched := t.moderator.Censor(content)
		if len(matched) > 0 {
			t.log.Info("Outbound content censored",
				"conversation_id", cmd.ConversationID.String(),
				"words", len(matched),
				"lang", moderation.LanguageTag(content))
			content = censored
		}
	}

	message := domain.Message{
		ID:             uuid.New(),
		ConversationID: cmd.ConversationID,
		SenderID:       cmd.SenderID,
		Content:        content,
		Kind:           domain.KindChat,
		ReplyTo:        cmd.ReplyTo,
		CreatedAt:      time.Now().UTC(),
	}

	if cmd.ReplyTo != nil {
		snapshot, err := t.snapshotReply(*cmd.ReplyTo)
		if err != nil {
			return domain.Message{}, err
		}
		message.ReplySnapshot = &snapshot
	}

	if err := t.messages.Store(message); err != nil {
		return domain.Message{}, err
	}

	for _, upload := range cmd.Attachments {
		if err := t.uploadAttachment(ctx, upload, message); err != nil {
			// The message is already visible; a failed attachment surfaces
			// as a missing file, not a lost message.
			t.log.Warn("Attachment upload failed",
				"message_id", message.ID.String(), "file", upload.FileName, "err", err)
		}
	}

	if err := t.indexes.Upsert(domain.Index{
		ConversationID: message.ConversationID,
		LastMessage:    message.Preview(),
		LastMessageAt:  message.CreatedAt,
	}); err != nil {
		t.log.Warn("Index update failed after send",
			"conversation_id", message.ConversationID.String(), "err", err)
	}
	return message, nil
}

// StorePrebuilt persists an already-shaped message (polls) and advances the
// index with the given preview.
func (t *Timeline) StorePrebuilt(message domain.Message, preview string) error {
	if err := t.messages.Store(message); err != nil {
		return err
	}
	if err := t.indexes.Upsert(domain.Index{
		ConversationID: message.ConversationID,
		LastMessage:    preview,
		LastMessageAt:  message.CreatedAt,
	}); err != nil {
		t.log.Warn("Index update failed after send",
			"conversation_id", message.ConversationID.String(), "err", err)
	}
	return nil
}

// DeleteForEveryone is restricted to the sender and to the grace window.
// Attachments are stripped immediately; the message row survives carrying the
// sentinel, so the timeline keeps its shape.
func (t *Timeline) DeleteForEveryone(ctx context.Context, messageID, callerID uuid.UUID) error {
	message, err := t.messages.Get(messageID)
	if err != nil {
		return err
	}
	if message.SenderID != callerID {
		return apperrors.ErrNotSender
	}
	if time.Since(message.CreatedAt) > deleteWindow {
		return apperrors.ErrDeleteWindowExpired
	}

	if _, err := t.messages.MarkDeleted(messageID); err != nil {
		return err
	}
	if _, err := t.attachments.DeleteForMessage(messageID); err != nil {
		t.log.Warn("Attachment metadata cleanup failed", "message_id", messageID.String(), "err", err)
	}
	if err := t.blobs.DeleteForMessage(ctx, messageID); err != nil {
		t.log.Warn("Attachment blob cleanup failed", "message_id", messageID.String(), "err", err)
	}
	return nil
}

// DeleteForMe hides the message for one viewer only. Idempotent, no sender or
// time restriction.
func (t *Timeline) DeleteForMe(_ context.Context, messageID, userID uuid.UUID) error {
	return t.messages.AddDeletedFor(messageID, userID)
}

// Messages pages through the conversation newest-first, dropping rows the
// viewer has hidden for themselves.
func (t *Timeline) Messages(_ context.Context, conversationID, viewerID uuid.UUID, cursor *string) ([]domain.Message, *string, error) {
	page, next, err := t.messages.List(conversationID, cursor)
	if err != nil {
		return nil, nil, err
	}

	visible := make([]domain.Message, 0, len(page))
	for _, message := range page {
		if message.HiddenFor(viewerID) {
			continue
		}
		visible = append(visible, message)
	}
	return visible, next, nil
}

func (t *Timeline) Attachments(_ context.Context, messageID uuid.UUID) ([]domain.Attachment, error) {
	return t.attachments.ListForMessage(messageID)
}

func (t *Timeline) snapshotReply(repliedID uuid.UUID) (domain.ReplySnapshot, error) {
	replied, err := t.messages.Get(repliedID)
	if err != nil {
		return domain.ReplySnapshot{}, err
	}
	sender, err := t.profiles.Get(replied.SenderID)
	if err != nil {
		// Snapshot still works with the fallback display name.
		t.log.Debug("Reply sender profile lookup failed", "user_id", replied.SenderID.String(), "err", err)
		sender = domain.Profile{ID: replied.SenderID}
	}
	return domain.ReplySnapshot{
		Content:    replied.Preview(),
		SenderName: sender.DisplayName(),
	}, nil
}

func (t *Timeline) uploadAttachment(ctx context.Context, upload domain.AttachmentUpload, message domain.Message) error {
	attachment, err := t.blobs.Upload(ctx, upload, message.ConversationID, message.ID)
	if err != nil {
		return err
	}
	if attachment.ID == uuid.Nil {
		attachment.ID = uuid.New()
	}
	attachment.MessageID = message.ID
	if attachment.ContentType == "" {
		attachment.ContentType = mimetype.Detect(upload.Data).String()
	}
	if attachment.Size == 0 {
		attachment.Size = int64(len(upload.Data))
	}
	return t.attachments.Add(attachment)
}
