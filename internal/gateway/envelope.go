package gateway

import (
	"encoding/json"
	"strconv"

	"github.com/mbeoliero/concord/internal/entity"
)

// Inbound envelope types accepted on the chat socket
const (
	EventMessage = "message"
	EventEdit    = "edit"
	EventDelete  = "delete"
	EventPin     = "pin"
	EventUnpin   = "unpin"
)

// Inbound envelope types accepted on the voice socket
const (
	SignalOffer     = "offer"
	SignalAnswer    = "answer"
	SignalCandidate = "candidate"
)

// Outbound envelope types
const (
	PushChatMessage   = "chat_message"
	PushEditMessage   = "edit_message"
	PushDeleteMessage = "delete_message"
	PushPinMessage    = "pin_message"
	PushUnpinMessage  = "unpin_message"
	PushFriendStatus  = "friend_status"
	PushUserJoined    = "user_joined"
	PushUserLeft      = "user_left"
	PushError         = "error"
)

// ChatEvent is one decoded inbound chat envelope
type ChatEvent interface{ chatEvent() }

// MessageEvent asks to persist and broadcast a new message
type MessageEvent struct {
	Content string
}

// EditEvent asks to edit a message owned by the caller
type EditEvent struct {
	MessageId int64
	Content   string
}

// DeleteEvent asks to soft-delete a message owned by the caller
type DeleteEvent struct {
	MessageId int64
}

// PinEvent asks to pin a message in the conversation
type PinEvent struct {
	MessageId int64
}

// UnpinEvent asks to clear the conversation's pin
type UnpinEvent struct{}

func (MessageEvent) chatEvent() {}
func (EditEvent) chatEvent()    {}
func (DeleteEvent) chatEvent()  {}
func (PinEvent) chatEvent()     {}
func (UnpinEvent) chatEvent()   {}

type inboundChatFrame struct {
	Type      string `json:"type"`
	Content   string `json:"content"`
	MessageId int64  `json:"message_id"`
}

// DecodeChatEvent decodes one inbound chat frame into its event.
// Unknown types and missing required fields are errors; the caller
// drops the event and keeps the socket open.
func DecodeChatEvent(frame []byte) (ChatEvent, error) {
	var in inboundChatFrame
	if err := json.Unmarshal(frame, &in); err != nil {
		return nil, err
	}

	switch in.Type {
	case EventMessage:
		if in.Content == "" {
			return nil, ErrMissingField
		}
		return MessageEvent{Content: in.Content}, nil
	case EventEdit:
		if in.MessageId == 0 || in.Content == "" {
			return nil, ErrMissingField
		}
		return EditEvent{MessageId: in.MessageId, Content: in.Content}, nil
	case EventDelete:
		if in.MessageId == 0 {
			return nil, ErrMissingField
		}
		return DeleteEvent{MessageId: in.MessageId}, nil
	case EventPin:
		if in.MessageId == 0 {
			return nil, ErrMissingField
		}
		return PinEvent{MessageId: in.MessageId}, nil
	case EventUnpin:
		return UnpinEvent{}, nil
	default:
		return nil, ErrUnknownEventType
	}
}

// DecodeVoiceSignal decodes one inbound voice frame. The payload is
// kept opaque: only the type tag is inspected, SDP/ICE content is
// relayed as-is.
func DecodeVoiceSignal(frame []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(frame, &fields); err != nil {
		return nil, err
	}

	var kind string
	if raw, ok := fields["type"]; ok {
		_ = json.Unmarshal(raw, &kind)
	}
	switch kind {
	case SignalOffer, SignalAnswer, SignalCandidate:
		return fields, nil
	default:
		return nil, ErrUnknownEventType
	}
}

// StampSender injects the authenticated sender id into a relayed
// signal so peers know who it came from.
func StampSender(fields map[string]json.RawMessage, userId int64) ([]byte, error) {
	fields["sender_id"] = json.RawMessage(strconv.FormatInt(userId, 10))
	return json.Marshal(fields)
}

// StatusChangeEvent is the single inbound event of the status socket
type StatusChangeEvent struct {
	Status string
}

type inboundStatusFrame struct {
	Type   string `json:"type"`
	Status string `json:"status"`
}

// DecodeStatusEvent decodes one inbound status frame
func DecodeStatusEvent(frame []byte) (StatusChangeEvent, error) {
	var in inboundStatusFrame
	if err := json.Unmarshal(frame, &in); err != nil {
		return StatusChangeEvent{}, err
	}
	if in.Type != "status_change" {
		return StatusChangeEvent{}, ErrUnknownEventType
	}
	if in.Status == "" {
		return StatusChangeEvent{}, ErrMissingField
	}
	return StatusChangeEvent{Status: in.Status}, nil
}

// ChatMessagePush is the echo of a newly persisted message
type ChatMessagePush struct {
	Type      string            `json:"type"`
	MessageId int64             `json:"message_id"`
	Sender    *entity.UserBrief `json:"sender"`
	Content   string            `json:"content"`
	Timestamp int64             `json:"timestamp"`
	StickerId *int64            `json:"sticker_id,omitempty"`
	File      *entity.FileMeta  `json:"file,omitempty"`
}

// NewChatMessagePush builds the chat_message envelope for a message
func NewChatMessagePush(msg *entity.Message, sender *entity.UserBrief) *ChatMessagePush {
	return &ChatMessagePush{
		Type:      PushChatMessage,
		MessageId: msg.Id,
		Sender:    sender,
		Content:   msg.Content,
		Timestamp: msg.CreatedAt,
		StickerId: msg.StickerId,
		File:      msg.Attachment(),
	}
}

// EditMessagePush announces an edited message
type EditMessagePush struct {
	Type      string `json:"type"`
	MessageId int64  `json:"message_id"`
	Content   string `json:"content"`
	EditedAt  int64  `json:"edited_at"`
}

// DeleteMessagePush announces a soft-deleted message; clients hide
// the content locally.
type DeleteMessagePush struct {
	Type      string `json:"type"`
	MessageId int64  `json:"message_id"`
}

// PinMessagePush announces the conversation's new pinned message
type PinMessagePush struct {
	Type      string `json:"type"`
	MessageId int64  `json:"message_id"`
	PinnedBy  int64  `json:"pinned_by"`
}

// UnpinMessagePush announces that the conversation's pin was cleared
type UnpinMessagePush struct {
	Type string `json:"type"`
}

// FriendStatusPush announces a friend's presence change
type FriendStatusPush struct {
	Type   string `json:"type"`
	UserId int64  `json:"user_id"`
	Status string `json:"status"`
}

// UserJoinedPush announces a user joining a voice room
type UserJoinedPush struct {
	Type     string `json:"type"`
	UserId   int64  `json:"user_id"`
	Username string `json:"username"`
}

// UserLeftPush announces a user leaving a voice room
type UserLeftPush struct {
	Type   string `json:"type"`
	UserId int64  `json:"user_id"`
}

// ErrorPush is a direct error reply to the offending connection only
type ErrorPush struct {
	Type string `json:"type"`
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// Encode serializes an outbound envelope to one JSON frame
func Encode(v interface{}) []byte {
	data, _ := json.Marshal(v)
	return data
}
