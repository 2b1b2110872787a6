package gateway

import (
	"context"
	"sync/atomic"

	"github.com/mbeoliero/kit/log"
)

// VoiceSession drives one voice-room signaling socket. The session is
// an opaque relay: offer/answer/candidate payloads are stamped with the
// sender id and forwarded to every other room member, never inspected.
//
// Closing the socket does not remove the user from the room's
// active_users set; joining and leaving the room are explicit actions
// handled by the REST layer.
type VoiceSession struct {
	userId      int64
	voiceRoomId int64
	conn        Conn
	handle      *Handle
	registry    *Registry
	guard       MembershipGuard
	state       atomic.Int32
}

// NewVoiceSession creates a session for an upgraded voice connection
func NewVoiceSession(conn Conn, userId, voiceRoomId int64, registry *Registry, guard MembershipGuard) *VoiceSession {
	s := &VoiceSession{
		userId:      userId,
		voiceRoomId: voiceRoomId,
		conn:        conn,
		handle:      NewHandle(conn),
		registry:    registry,
		guard:       guard,
	}
	s.state.Store(int32(StateConnecting))
	return s
}

// State returns the session's current lifecycle state
func (s *VoiceSession) State() SessionState {
	return SessionState(s.state.Load())
}

// HandleId returns the registry handle id of this session
func (s *VoiceSession) HandleId() string {
	return s.handle.Id
}

// Run drives the session to completion
func (s *VoiceSession) Run(ctx context.Context) {
	defer s.shutdown()

	if !s.admit(ctx) {
		return
	}
	s.relayLoop(ctx)
}

func (s *VoiceSession) admit(ctx context.Context) bool {
	if s.userId == 0 {
		log.CtxWarn(ctx, "anonymous connection rejected: voice_room_id=%d", s.voiceRoomId)
		s.reject(CloseUnauthenticated, "unauthenticated")
		return false
	}

	// A missing room and a non-member both resolve to false
	if !s.guard.CanJoinVoice(ctx, s.userId, s.voiceRoomId) {
		log.CtxWarn(ctx, "voice admission denied: user_id=%d, voice_room_id=%d", s.userId, s.voiceRoomId)
		s.reject(CloseForbidden, "forbidden")
		return false
	}

	s.registry.Join(VoiceRoomKey(s.voiceRoomId), s.handle)
	s.state.Store(int32(StateAdmitted))
	s.state.Store(int32(StateActive))

	log.CtxInfo(ctx, "voice session admitted: user_id=%d, voice_room_id=%d, conn_id=%s",
		s.userId, s.voiceRoomId, s.handle.Id)
	return true
}

func (s *VoiceSession) relayLoop(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.CtxError(ctx, "voice session panic: user_id=%d, error=%v", s.userId, r)
		}
	}()

	for {
		frame, err := s.conn.ReadMessage()
		if err != nil {
			log.CtxDebug(ctx, "voice relay loop done: user_id=%d, error=%v", s.userId, err)
			return
		}
		s.relayFrame(ctx, frame)
	}
}

// relayFrame stamps and forwards one signaling payload, suppressing the
// sender's own echo
func (s *VoiceSession) relayFrame(ctx context.Context, frame []byte) {
	fields, err := DecodeVoiceSignal(frame)
	if err != nil {
		log.CtxWarn(ctx, "dropping malformed signal: user_id=%d, voice_room_id=%d, error=%v",
			s.userId, s.voiceRoomId, err)
		return
	}

	payload, err := StampSender(fields, s.userId)
	if err != nil {
		log.CtxWarn(ctx, "stamp signal failed: user_id=%d, error=%v", s.userId, err)
		return
	}

	s.registry.Broadcast(VoiceRoomKey(s.voiceRoomId), payload, s.handle.Id)
}

func (s *VoiceSession) reject(code int, reason string) {
	s.state.Store(int32(StateRejected))
	_ = s.conn.Close(code, reason)
}

func (s *VoiceSession) shutdown() {
	s.registry.LeaveAll(s.handle)
	_ = s.conn.Close(CloseNormal, "")
	s.state.Store(int32(StateClosed))
}
