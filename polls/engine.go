//go:generate go run go.uber.org/mock/mockgen -source=engine.go -destination=../mocks/mock_polls.go -package=mocks
// Package polls runs in-conversation polls: a poll is a message of poll kind
// carrying an immutable option list, votes are per-option rows.
package polls

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"workchat/domain"
	apperrors "workchat/errors"
	"workchat/repositories"
	"workchat/timeline"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// VoterVote is one vote row joined with the voter's directory profile.
type VoterVote struct {
	Vote  domain.Vote
	Voter domain.Profile
}

type IEngine interface {
	SendPoll(ctx context.Context, cmd domain.PollCommand) (domain.Message, error)
	Vote(ctx context.Context, messageID, userID uuid.UUID, optionIndex int) error
	Votes(ctx context.Context, messageID uuid.UUID) ([]VoterVote, error)
}

type Engine struct {
	log      *slog.Logger
	validate *validator.Validate
	timeline *timeline.Timeline
	messages repositories.IMessageRepository
	members  repositories.IMemberRepository
	votes    repositories.IVoteRepository
	profiles repositories.IProfileRepository
}

func NewEngine(
	log *slog.Logger,
	tl *timeline.Timeline,
	messages repositories.IMessageRepository,
	members repositories.IMemberRepository,
	votes repositories.IVoteRepository,
	profiles repositories.IProfileRepository,
) *Engine {
	return &Engine{
		log:      log,
		validate: validator.New(),
		timeline: tl,
		messages: messages,
		members:  members,
		votes:    votes,
		profiles: profiles,
	}
}

// SendPoll posts a poll message. The option list is frozen at creation; there
// is no edit operation on polls.
func (e *Engine) SendPoll(_ context.Context, cmd domain.PollCommand) (domain.Message, error) {
	if len(cmd.Options) < 2 {
		return domain.Message{}, apperrors.ErrTooFewPollOptions
	}
	if err := e.validate.Struct(cmd); err != nil {
		return domain.Message{}, fmt.Errorf("invalid poll command: %w", err)
	}
	if _, err := e.members.Get(cmd.ConversationID, cmd.SenderID); err != nil {
		if stderrors.Is(err, apperrors.ErrMemberNotFound) {
			return domain.Message{}, apperrors.ErrNotMember
		}
		return domain.Message{}, err
	}

	message := domain.Message{
		ID:             uuid.New(),
		ConversationID: cmd.ConversationID,
		SenderID:       cmd.SenderID,
		Content:        cmd.Question,
		Kind:           domain.KindPoll,
		Poll: &domain.Poll{
			Question:      cmd.Question,
			Options:       cmd.Options,
			AllowMultiple: cmd.AllowMultiple,
		},
		CreatedAt: time.Now().UTC(),
	}

	if err := e.timeline.StorePrebuilt(message, domain.PollMarkerPrefix+cmd.Question); err != nil {
		return domain.Message{}, err
	}
	return message, nil
}

// Vote toggles the user's selection of the option. On single-choice polls the
// previous selection is replaced in the same store transaction; voting the
// already-selected option withdraws it.
func (e *Engine) Vote(_ context.Context, messageID, userID uuid.UUID, optionIndex int) error {
	message, err := e.messages.Get(messageID)
	if err != nil {
		return err
	}
	if message.Kind != domain.KindPoll || message.Poll == nil {
		return apperrors.ErrNotAPoll
	}
	if optionIndex < 0 || optionIndex >= len(message.Poll.Options) {
		return apperrors.ErrInvalidOptionIndex
	}

	return e.votes.Cast(message.ConversationID, domain.Vote{
		MessageID:   messageID,
		UserID:      userID,
		OptionIndex: optionIndex,
		CreatedAt:   time.Now().UTC(),
	}, message.Poll.AllowMultiple)
}

// Votes returns the raw vote rows with voter metadata. A transient store
// failure on the vote read degrades to an empty result.
func (e *Engine) Votes(_ context.Context, messageID uuid.UUID) ([]VoterVote, error) {
	rows, err := e.votes.ListForMessage(messageID)
	if err != nil {
		e.log.Warn("Poll votes read degraded to empty", "message_id", messageID.String(), "err", err)
		return []VoterVote{}, nil
	}

	voterIDs := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		voterIDs = append(voterIDs, row.UserID)
	}
	profiles, err := e.profiles.GetMany(voterIDs)
	if err != nil {
		e.log.Debug("Voter profile lookup failed", "message_id", messageID.String(), "err", err)
		profiles = map[uuid.UUID]domain.Profile{}
	}

	result := make([]VoterVote, 0, len(rows))
	for _, row := range rows {
		voter, ok := profiles[row.UserID]
		if !ok {
			voter = domain.Profile{ID: row.UserID}
		}
		result = append(result, VoterVote{Vote: row, Voter: voter})
	}
	return result, nil
}
