package gateway

import (
	"context"
	"sync/atomic"

	"github.com/mbeoliero/concord/pkg/constant"
	"github.com/mbeoliero/kit/log"
)

// validManualStatus is the set of statuses a client may switch to
var validManualStatus = map[string]bool{
	constant.StatusOnline:    true,
	constant.StatusIdle:      true,
	constant.StatusOffline:   true,
	constant.StatusInvisible: true,
}

// StatusSession drives one per-user presence socket: it joins the
// user's presence group and fans status changes out to accepted
// friends. Invisible users connect silently.
type StatusSession struct {
	userId   int64
	conn     Conn
	handle   *Handle
	presence *Presence
	store    StatusStore
	state    atomic.Int32

	invisible bool
}

// NewStatusSession creates a session for an upgraded status connection
func NewStatusSession(conn Conn, userId int64, presence *Presence, store StatusStore) *StatusSession {
	s := &StatusSession{
		userId:   userId,
		conn:     conn,
		handle:   NewHandle(conn),
		presence: presence,
		store:    store,
	}
	s.state.Store(int32(StateConnecting))
	return s
}

// State returns the session's current lifecycle state
func (s *StatusSession) State() SessionState {
	return SessionState(s.state.Load())
}

// Run drives the session to completion
func (s *StatusSession) Run(ctx context.Context) {
	defer s.shutdown(ctx)

	if s.userId == 0 {
		log.CtxWarn(ctx, "anonymous connection rejected from status socket")
		s.state.Store(int32(StateRejected))
		_ = s.conn.Close(CloseUnauthenticated, "unauthenticated")
		return
	}

	user, err := s.store.GetUser(ctx, s.userId)
	if err != nil {
		log.CtxError(ctx, "load user failed: user_id=%d, error=%v", s.userId, err)
		s.state.Store(int32(StateRejected))
		_ = s.conn.Close(CloseInternalError, "internal error")
		return
	}
	s.invisible = user.IsInvisible()

	s.presence.Join(ctx, s.userId, s.handle)
	s.state.Store(int32(StateAdmitted))
	s.state.Store(int32(StateActive))

	if !s.invisible {
		s.broadcastStatus(ctx, constant.StatusOnline)
	}
	log.CtxInfo(ctx, "status session connected: user_id=%d", s.userId)

	for {
		frame, err := s.conn.ReadMessage()
		if err != nil {
			log.CtxDebug(ctx, "status read loop done: user_id=%d, error=%v", s.userId, err)
			return
		}
		s.handleFrame(ctx, frame)
	}
}

func (s *StatusSession) handleFrame(ctx context.Context, frame []byte) {
	ev, err := DecodeStatusEvent(frame)
	if err != nil {
		log.CtxWarn(ctx, "dropping malformed status envelope: user_id=%d, error=%v", s.userId, err)
		return
	}
	if !validManualStatus[ev.Status] {
		log.CtxWarn(ctx, "dropping unknown status value: user_id=%d, status=%s", s.userId, ev.Status)
		return
	}

	if err := s.store.SetManualStatus(ctx, s.userId, ev.Status); err != nil {
		log.CtxError(ctx, "set manual status failed: user_id=%d, error=%v", s.userId, err)
		return
	}

	s.invisible = ev.Status == constant.StatusInvisible
	if !s.invisible {
		s.broadcastStatus(ctx, ev.Status)
	}
	log.CtxInfo(ctx, "status changed: user_id=%d, status=%s", s.userId, ev.Status)
}

// broadcastStatus pushes a friend_status envelope to every accepted
// friend's presence group
func (s *StatusSession) broadcastStatus(ctx context.Context, status string) {
	friendIds, err := s.store.FriendIds(ctx, s.userId)
	if err != nil {
		log.CtxError(ctx, "load friends failed: user_id=%d, error=%v", s.userId, err)
		return
	}

	payload := Encode(&FriendStatusPush{
		Type:   PushFriendStatus,
		UserId: s.userId,
		Status: status,
	})
	for _, friendId := range friendIds {
		s.presence.SendToUser(friendId, payload)
	}
}

func (s *StatusSession) shutdown(ctx context.Context) {
	if s.State() == StateActive {
		if !s.invisible {
			s.broadcastStatus(ctx, constant.StatusOffline)
		}
		s.presence.Leave(ctx, s.userId, s.handle)
	}
	_ = s.conn.Close(CloseNormal, "")
	s.state.Store(int32(StateClosed))
}
