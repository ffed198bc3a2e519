package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Keyspace layout. Timestamped keys use 19-digit zero padding so that
// lexicographical order equals chronological order:
//
//	conv:{conversation_id}                    conversation row
//	member:{conversation_id}:{user_id}        membership row
//	idx:userconv:{user_id}:{conversation_id}  membership lookup by user
//	msg:{conversation_id}:{ts19}:{msg_id}     message row, timeline-ordered
//	idx:msg:{msg_id}                          pointer to the timeline key
//	attach:{msg_id}:{attachment_id}           attachment metadata
//	react:{msg_id}:{emoji}:{user_id}          reaction row
//	vote:{msg_id}:{user_id}:{option_index}    poll vote row
//	convindex:{conversation_id}               denormalized last-activity row
//	profile:{user_id}                         directory profile
//	notif:{receiver_id}:{ts19}:{id}           notification row

func conversationKey(id uuid.UUID) []byte {
	return []byte("conv:" + id.String())
}

func memberKey(conversationID, userID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("member:%s:%s", conversationID, userID))
}

func memberPrefix(conversationID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("member:%s:", conversationID))
}

func userConvKey(userID, conversationID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("idx:userconv:%s:%s", userID, conversationID))
}

func userConvPrefix(userID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("idx:userconv:%s:", userID))
}

func messageKey(conversationID uuid.UUID, at time.Time, messageID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("msg:%s:%019d:%s", conversationID, at.UnixNano(), messageID))
}

func messagePrefix(conversationID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("msg:%s:", conversationID))
}

func messageIdxKey(messageID uuid.UUID) []byte {
	return []byte("idx:msg:" + messageID.String())
}

func attachmentKey(messageID, attachmentID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("attach:%s:%s", messageID, attachmentID))
}

func attachmentPrefix(messageID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("attach:%s:", messageID))
}

func reactionKey(messageID uuid.UUID, emoji string, userID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("react:%s:%s:%s", messageID, emoji, userID))
}

func reactionPrefix(messageID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("react:%s:", messageID))
}

func voteKey(messageID, userID uuid.UUID, optionIndex int) []byte {
	return []byte(fmt.Sprintf("vote:%s:%s:%d", messageID, userID, optionIndex))
}

func votePrefix(messageID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("vote:%s:", messageID))
}

func voteUserPrefix(messageID, userID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("vote:%s:%s:", messageID, userID))
}

func indexKey(conversationID uuid.UUID) []byte {
	return []byte("convindex:" + conversationID.String())
}

func profileKey(userID uuid.UUID) []byte {
	return []byte("profile:" + userID.String())
}

func notificationKey(receiverID uuid.UUID, at time.Time, id uuid.UUID) []byte {
	return []byte(fmt.Sprintf("notif:%s:%019d:%s", receiverID, at.UnixNano(), id))
}
