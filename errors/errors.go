package errors

import "fmt"

// Validation failures. Surfaced synchronously on writes, before any store call.
var (
	ErrEmptyName          = fmt.Errorf("conversation name cannot be empty")
	ErrEmptyMessage       = fmt.Errorf("message has no content and no attachment")
	ErrTooFewPollOptions  = fmt.Errorf("a poll needs at least two options")
	ErrInvalidOptionIndex = fmt.Errorf("option index out of range")
	ErrNotAPoll           = fmt.Errorf("message is not a poll")
)

// Permission failures.
var (
	ErrNotAdmin  = fmt.Errorf("caller is not an admin of this conversation")
	ErrNotMember = fmt.Errorf("caller is not a member of this conversation")
	ErrLastAdmin = fmt.Errorf("cannot remove the last admin of a team conversation")
	ErrNotSender = fmt.Errorf("only the original sender may delete for everyone")

	// Direct conversations are fixed at exactly two members for their whole life.
	ErrDirectConversationImmutable = fmt.Errorf("membership of a direct conversation cannot change")
)

// Lookup failures.
var (
	ErrConversationNotFound = fmt.Errorf("conversation not found")
	ErrMessageNotFound      = fmt.Errorf("message not found")
	ErrMemberNotFound       = fmt.Errorf("member not found")
	ErrAlreadyMember        = fmt.Errorf("user is already a member of this conversation")
)

// ErrStoreUnavailable marks a transient store or network failure.
// Reads degrade to empty results on it; writes surface it as retryable.
var ErrStoreUnavailable = fmt.Errorf("store unavailable")

// ErrDeleteWindowExpired is returned when a delete-for-everyone is attempted
// after the grace window has elapsed.
var ErrDeleteWindowExpired = fmt.Errorf("delete window expired")

var ErrWorkerPanic = fmt.Errorf("worker panic")
