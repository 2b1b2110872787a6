package gateway

import (
	"context"
	"sync/atomic"

	"github.com/mbeoliero/concord/internal/entity"
	"github.com/mbeoliero/concord/pkg/errcode"
	"github.com/mbeoliero/kit/log"
)

// SessionState is one state of a socket session's lifecycle
type SessionState int32

const (
	StateConnecting SessionState = iota
	StateAdmitted
	StateActive
	StateRejected
	StateClosed
)

func (s SessionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAdmitted:
		return "admitted"
	case StateActive:
		return "active"
	case StateRejected:
		return "rejected"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// ChatSession drives one text-conversation socket:
// Connecting -> Admitted -> Active -> Closed, or
// Connecting -> Rejected -> Closed.
type ChatSession struct {
	userId         int64
	conversationId int64
	sender         *entity.UserBrief
	conn           Conn
	handle         *Handle
	registry       *Registry
	store          MessageStore
	guard          MembershipGuard
	users          UserDirectory
	state          atomic.Int32
}

// NewChatSession creates a session for an upgraded connection.
// userId == 0 means the connection carried no valid identity and the
// session will reject it.
func NewChatSession(conn Conn, userId, conversationId int64, registry *Registry, store MessageStore, guard MembershipGuard, users UserDirectory) *ChatSession {
	s := &ChatSession{
		userId:         userId,
		conversationId: conversationId,
		conn:           conn,
		handle:         NewHandle(conn),
		registry:       registry,
		store:          store,
		guard:          guard,
		users:          users,
	}
	s.state.Store(int32(StateConnecting))
	return s
}

// State returns the session's current lifecycle state
func (s *ChatSession) State() SessionState {
	return SessionState(s.state.Load())
}

// HandleId returns the registry handle id of this session
func (s *ChatSession) HandleId() string {
	return s.handle.Id
}

// Run drives the session to completion. Registry cleanup is guaranteed
// even when admission never completed or the transport died abruptly.
func (s *ChatSession) Run(ctx context.Context) {
	defer s.shutdown()

	if !s.admit(ctx) {
		return
	}
	s.readLoop(ctx)
}

func (s *ChatSession) admit(ctx context.Context) bool {
	if s.userId == 0 {
		log.CtxWarn(ctx, "anonymous connection rejected: conversation_id=%d", s.conversationId)
		s.reject(CloseUnauthenticated, "unauthenticated")
		return false
	}

	if !s.guard.CanJoinChat(ctx, s.userId, s.conversationId) {
		log.CtxWarn(ctx, "chat admission denied: user_id=%d, conversation_id=%d", s.userId, s.conversationId)
		s.reject(CloseForbidden, "forbidden")
		return false
	}

	sender, err := s.users.GetUserBrief(ctx, s.userId)
	if err != nil {
		log.CtxError(ctx, "resolve sender failed: user_id=%d, error=%v", s.userId, err)
		s.reject(CloseInternalError, "internal error")
		return false
	}
	s.sender = sender

	s.registry.Join(ChatRoomKey(s.conversationId), s.handle)
	s.state.Store(int32(StateAdmitted))
	s.state.Store(int32(StateActive))

	log.CtxInfo(ctx, "chat session admitted: user_id=%d, conversation_id=%d, conn_id=%s",
		s.userId, s.conversationId, s.handle.Id)
	return true
}

func (s *ChatSession) readLoop(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.CtxError(ctx, "chat session panic: user_id=%d, error=%v", s.userId, r)
		}
	}()

	for {
		frame, err := s.conn.ReadMessage()
		if err != nil {
			log.CtxDebug(ctx, "chat read loop done: user_id=%d, error=%v", s.userId, err)
			return
		}
		s.handleFrame(ctx, frame)
	}
}

// handleFrame decodes and dispatches one inbound envelope. Malformed
// and unauthorized events are dropped; the socket stays open.
func (s *ChatSession) handleFrame(ctx context.Context, frame []byte) {
	ev, err := DecodeChatEvent(frame)
	if err != nil {
		log.CtxWarn(ctx, "dropping malformed envelope: user_id=%d, conversation_id=%d, error=%v",
			s.userId, s.conversationId, err)
		return
	}

	switch ev := ev.(type) {
	case MessageEvent:
		s.handleMessage(ctx, ev)
	case EditEvent:
		s.handleEdit(ctx, ev)
	case DeleteEvent:
		s.handleDelete(ctx, ev)
	case PinEvent:
		s.handlePin(ctx, ev)
	case UnpinEvent:
		s.handleUnpin(ctx)
	}
}

func (s *ChatSession) handleMessage(ctx context.Context, ev MessageEvent) {
	msg, err := s.store.CreateMessage(ctx, s.userId, s.conversationId, ev.Content)
	if err != nil {
		s.dropEvent(ctx, EventMessage, err)
		return
	}

	// No exclusion: the sender's echo carries the server-assigned
	// id and timestamp
	s.broadcast(Encode(NewChatMessagePush(msg, s.sender)), "")
}

func (s *ChatSession) handleEdit(ctx context.Context, ev EditEvent) {
	msg, err := s.store.EditMessage(ctx, s.userId, ev.MessageId, ev.Content)
	if err != nil {
		s.dropEvent(ctx, EventEdit, err)
		return
	}

	editedAt := int64(0)
	if msg.EditedAt != nil {
		editedAt = *msg.EditedAt
	}
	s.broadcast(Encode(&EditMessagePush{
		Type:      PushEditMessage,
		MessageId: msg.Id,
		Content:   msg.Content,
		EditedAt:  editedAt,
	}), "")
}

func (s *ChatSession) handleDelete(ctx context.Context, ev DeleteEvent) {
	msg, err := s.store.DeleteMessage(ctx, s.userId, ev.MessageId)
	if err != nil {
		s.dropEvent(ctx, EventDelete, err)
		return
	}

	s.broadcast(Encode(&DeleteMessagePush{
		Type:      PushDeleteMessage,
		MessageId: msg.Id,
	}), "")
}

func (s *ChatSession) handlePin(ctx context.Context, ev PinEvent) {
	pin, err := s.store.PinMessage(ctx, s.userId, s.conversationId, ev.MessageId)
	if err != nil {
		s.dropEvent(ctx, EventPin, err)
		return
	}

	s.broadcast(Encode(&PinMessagePush{
		Type:      PushPinMessage,
		MessageId: pin.MessageId,
		PinnedBy:  pin.PinnedBy,
	}), "")
}

func (s *ChatSession) handleUnpin(ctx context.Context) {
	if err := s.store.UnpinMessage(ctx, s.userId, s.conversationId); err != nil {
		s.dropEvent(ctx, EventUnpin, err)
		return
	}

	s.broadcast(Encode(&UnpinMessagePush{Type: PushUnpinMessage}), "")
}

// dropEvent records a failed event and replies to the offending
// connection only. An unauthorized or failed event never closes an
// admitted session.
func (s *ChatSession) dropEvent(ctx context.Context, eventType string, err error) {
	log.CtxWarn(ctx, "event dropped: type=%s, user_id=%d, conversation_id=%d, error=%v",
		eventType, s.userId, s.conversationId, err)

	e, ok := err.(*errcode.Error)
	if !ok {
		e = errcode.ErrInternalServer
	}
	_ = s.handle.Send(Encode(&ErrorPush{Type: PushError, Code: e.Code, Msg: e.Msg}))
}

func (s *ChatSession) broadcast(payload []byte, excludeId string) {
	s.registry.Broadcast(ChatRoomKey(s.conversationId), payload, excludeId)
}

func (s *ChatSession) reject(code int, reason string) {
	s.state.Store(int32(StateRejected))
	_ = s.conn.Close(code, reason)
}

func (s *ChatSession) shutdown() {
	s.registry.LeaveAll(s.handle)
	_ = s.conn.Close(CloseNormal, "")
	s.state.Store(int32(StateClosed))
}
