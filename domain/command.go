package domain

import (
	"github.com/google/uuid"
)

// SendCommand is the inbound payload for posting a chat message.
// Validation tags are enforced at the service boundary before any store call.
type SendCommand struct {
	ConversationID uuid.UUID `validate:"required"`
	SenderID       uuid.UUID `validate:"required"`
	Content        string
	Attachments    []AttachmentUpload
	ReplyTo        *uuid.UUID
}

// HasBody reports whether there is anything to send at all.
// An empty content is acceptable only when attachments ride along.
func (c SendCommand) HasBody() bool {
	return c.Content != "" || len(c.Attachments) > 0
}

// AttachmentUpload is a file handed over for upload alongside a message.
type AttachmentUpload struct {
	FileName string `validate:"required"`
	Data     []byte `validate:"required"`
}

type PollCommand struct {
	ConversationID uuid.UUID `validate:"required"`
	SenderID       uuid.UUID `validate:"required"`
	Question       string    `validate:"required"`
	Options        []string  `validate:"min=2,dive,required"`
	AllowMultiple  bool
}

type CreateTeamCommand struct {
	CreatorID uuid.UUID   `validate:"required"`
	OrgID     string      `validate:"required"`
	Name      string      `validate:"required"`
	MemberIDs []uuid.UUID `validate:"min=1"`
}
