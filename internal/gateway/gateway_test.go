package gateway

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/mbeoliero/concord/internal/entity"
	"github.com/mbeoliero/concord/pkg/errcode"
)

// fakeConn is an in-memory Conn for driving sessions without a socket.
// Frames queued with push are read in order; endInput makes ReadMessage
// return io.EOF so Run unwinds. Only the first Close is recorded,
// matching the close-once behavior of the real connections.
type fakeConn struct {
	mu          sync.Mutex
	in          chan []byte
	writes      [][]byte
	failWrite   bool
	closed      bool
	closeCode   int
	closeReason string
}

func newFakeConn() *fakeConn {
	return &fakeConn{in: make(chan []byte, 32)}
}

func (f *fakeConn) ReadMessage() ([]byte, error) {
	frame, ok := <-f.in
	if !ok {
		return nil, io.EOF
	}
	return frame, nil
}

func (f *fakeConn) WriteMessage(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrite {
		return ErrConnClosed
	}
	f.writes = append(f.writes, data)
	return nil
}

func (f *fakeConn) Close(code int, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true
	f.closeCode = code
	f.closeReason = reason
	return nil
}

func (f *fakeConn) push(frame string) {
	f.in <- []byte(frame)
}

func (f *fakeConn) endInput() {
	close(f.in)
}

func (f *fakeConn) sentFrames() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]byte, len(f.writes))
	copy(out, f.writes)
	return out
}

func (f *fakeConn) sentTypes() []string {
	var types []string
	for _, frame := range f.sentFrames() {
		var envelope struct {
			Type string `json:"type"`
		}
		_ = json.Unmarshal(frame, &envelope)
		types = append(types, envelope.Type)
	}
	return types
}

func (f *fakeConn) recordedClose() (int, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closeCode, f.closeReason
}

// fakeMessageStore is an in-memory MessageStore with scriptable failures
type fakeMessageStore struct {
	mu         sync.Mutex
	nextId     int64
	created    []*entity.Message
	failCreate *errcode.Error
	failEdit   *errcode.Error
	failPin    *errcode.Error
}

func newFakeMessageStore() *fakeMessageStore {
	return &fakeMessageStore{nextId: 1000}
}

func (s *fakeMessageStore) CreateMessage(ctx context.Context, senderId, conversationId int64, content string) (*entity.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreate != nil {
		return nil, s.failCreate
	}
	s.nextId++
	msg := &entity.Message{
		Id:             s.nextId,
		ConversationId: conversationId,
		SenderId:       &senderId,
		Content:        content,
		CreatedAt:      entity.NowUnixMilli(),
	}
	s.created = append(s.created, msg)
	return msg, nil
}

func (s *fakeMessageStore) EditMessage(ctx context.Context, editorId, messageId int64, content string) (*entity.Message, error) {
	if s.failEdit != nil {
		return nil, s.failEdit
	}
	now := entity.NowUnixMilli()
	return &entity.Message{Id: messageId, SenderId: &editorId, Content: content, EditedAt: &now}, nil
}

func (s *fakeMessageStore) DeleteMessage(ctx context.Context, requesterId, messageId int64) (*entity.Message, error) {
	return &entity.Message{Id: messageId, SenderId: &requesterId, IsDeleted: true}, nil
}

func (s *fakeMessageStore) PinMessage(ctx context.Context, userId, conversationId, messageId int64) (*entity.PinnedMessage, error) {
	if s.failPin != nil {
		return nil, s.failPin
	}
	return &entity.PinnedMessage{ConversationId: conversationId, MessageId: messageId, PinnedBy: userId}, nil
}

func (s *fakeMessageStore) UnpinMessage(ctx context.Context, userId, conversationId int64) error {
	return nil
}

func (s *fakeMessageStore) createdCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.created)
}

// fakeGuard answers join checks with fixed verdicts
type fakeGuard struct {
	allowChat  bool
	allowVoice bool
}

func (g *fakeGuard) CanJoinChat(ctx context.Context, userId, conversationId int64) bool {
	return g.allowChat
}

func (g *fakeGuard) CanJoinVoice(ctx context.Context, userId, voiceRoomId int64) bool {
	return g.allowVoice
}

// fakeDirectory resolves user briefs from a fixed table
type fakeDirectory struct {
	briefs map[int64]*entity.UserBrief
}

func newFakeDirectory(users ...*entity.UserBrief) *fakeDirectory {
	d := &fakeDirectory{briefs: make(map[int64]*entity.UserBrief)}
	for _, u := range users {
		d.briefs[u.Id] = u
	}
	return d
}

func (d *fakeDirectory) GetUserBrief(ctx context.Context, userId int64) (*entity.UserBrief, error) {
	if brief, ok := d.briefs[userId]; ok {
		return brief, nil
	}
	return nil, errcode.ErrUserNotFound
}

// fakeStatusStore backs status sessions in tests
type fakeStatusStore struct {
	mu       sync.Mutex
	users    map[int64]*entity.User
	friends  map[int64][]int64
	statuses []string
}

func newFakeStatusStore() *fakeStatusStore {
	return &fakeStatusStore{
		users:   make(map[int64]*entity.User),
		friends: make(map[int64][]int64),
	}
}

func (s *fakeStatusStore) GetUser(ctx context.Context, userId int64) (*entity.User, error) {
	if u, ok := s.users[userId]; ok {
		return u, nil
	}
	return nil, errcode.ErrUserNotFound
}

func (s *fakeStatusStore) SetManualStatus(ctx context.Context, userId int64, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses = append(s.statuses, status)
	if u, ok := s.users[userId]; ok {
		u.ManualStatus = status
	}
	return nil
}

func (s *fakeStatusStore) FriendIds(ctx context.Context, userId int64) ([]int64, error) {
	return s.friends[userId], nil
}

func (s *fakeStatusStore) recordedStatuses() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.statuses))
	copy(out, s.statuses)
	return out
}
