package gateway

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mbeoliero/concord/internal/entity"
	"github.com/mbeoliero/concord/pkg/constant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusFixture struct {
	presence   *Presence
	store      *fakeStatusStore
	friendConn *fakeConn
}

// newStatusFixture wires user 1 with one online friend (user 2) whose
// status connection the tests observe
func newStatusFixture(manualStatus string) *statusFixture {
	f := &statusFixture{
		presence:   NewPresence(nil),
		store:      newFakeStatusStore(),
		friendConn: newFakeConn(),
	}
	f.store.users[1] = &entity.User{Id: 1, Username: "alice", ManualStatus: manualStatus}
	f.store.friends[1] = []int64{2}
	f.presence.Join(context.Background(), 2, NewHandle(f.friendConn))
	return f
}

func (f *statusFixture) friendPushes(t *testing.T) []FriendStatusPush {
	t.Helper()
	var pushes []FriendStatusPush
	for _, frame := range f.friendConn.sentFrames() {
		var push FriendStatusPush
		require.NoError(t, json.Unmarshal(frame, &push))
		pushes = append(pushes, push)
	}
	return pushes
}

func TestStatusSessionRejectsAnonymous(t *testing.T) {
	f := newStatusFixture(constant.StatusOnline)
	conn := newFakeConn()

	s := NewStatusSession(conn, 0, f.presence, f.store)
	s.Run(context.Background())

	code, _ := conn.recordedClose()
	assert.Equal(t, CloseUnauthenticated, code)
	assert.Empty(t, f.friendConn.sentFrames())
}

func TestStatusSessionBroadcastsOnlineAndOffline(t *testing.T) {
	f := newStatusFixture(constant.StatusOnline)
	conn := newFakeConn()
	conn.endInput()

	s := NewStatusSession(conn, 1, f.presence, f.store)
	s.Run(context.Background())

	pushes := f.friendPushes(t)
	require.Len(t, pushes, 2)
	assert.Equal(t, constant.StatusOnline, pushes[0].Status)
	assert.Equal(t, constant.StatusOffline, pushes[1].Status)
	for _, push := range pushes {
		assert.Equal(t, PushFriendStatus, push.Type)
		assert.Equal(t, int64(1), push.UserId)
	}

	assert.False(t, f.presence.HasConnection(1))
}

func TestStatusSessionManualStatusChange(t *testing.T) {
	f := newStatusFixture(constant.StatusOnline)
	conn := newFakeConn()
	conn.push(`{"type":"status_change","status":"idle"}`)
	conn.endInput()

	s := NewStatusSession(conn, 1, f.presence, f.store)
	s.Run(context.Background())

	assert.Equal(t, []string{constant.StatusIdle}, f.store.recordedStatuses())

	pushes := f.friendPushes(t)
	require.Len(t, pushes, 3)
	assert.Equal(t, constant.StatusOnline, pushes[0].Status)
	assert.Equal(t, constant.StatusIdle, pushes[1].Status)
	assert.Equal(t, constant.StatusOffline, pushes[2].Status)
}

func TestStatusSessionDropsUnknownStatus(t *testing.T) {
	f := newStatusFixture(constant.StatusOnline)
	conn := newFakeConn()
	conn.push(`{"type":"status_change","status":"banana"}`)
	conn.push(`not json`)
	conn.endInput()

	s := NewStatusSession(conn, 1, f.presence, f.store)
	s.Run(context.Background())

	// nothing persisted, and only the connect/disconnect pair went out
	assert.Empty(t, f.store.recordedStatuses())
	pushes := f.friendPushes(t)
	require.Len(t, pushes, 2)
	assert.Equal(t, constant.StatusOnline, pushes[0].Status)
	assert.Equal(t, constant.StatusOffline, pushes[1].Status)
}

func TestStatusSessionInvisibleConnectsSilently(t *testing.T) {
	f := newStatusFixture(constant.StatusInvisible)
	conn := newFakeConn()
	conn.endInput()

	s := NewStatusSession(conn, 1, f.presence, f.store)
	s.Run(context.Background())

	// neither the connect nor the disconnect leaked to friends
	assert.Empty(t, f.friendConn.sentFrames())
}

func TestStatusSessionSwitchToInvisibleSuppressesOffline(t *testing.T) {
	f := newStatusFixture(constant.StatusOnline)
	conn := newFakeConn()
	conn.push(`{"type":"status_change","status":"invisible"}`)
	conn.endInput()

	s := NewStatusSession(conn, 1, f.presence, f.store)
	s.Run(context.Background())

	// the switch itself is silent, and so is the disconnect after it;
	// otherwise the offline push would reveal the user's activity timing
	pushes := f.friendPushes(t)
	require.Len(t, pushes, 1)
	assert.Equal(t, constant.StatusOnline, pushes[0].Status)
	assert.Equal(t, []string{constant.StatusInvisible}, f.store.recordedStatuses())
}

func TestStatusSessionInvisibleToVisible(t *testing.T) {
	f := newStatusFixture(constant.StatusInvisible)
	conn := newFakeConn()
	conn.push(`{"type":"status_change","status":"online"}`)
	conn.endInput()

	s := NewStatusSession(conn, 1, f.presence, f.store)
	s.Run(context.Background())

	pushes := f.friendPushes(t)
	require.Len(t, pushes, 2)
	assert.Equal(t, constant.StatusOnline, pushes[0].Status)
	assert.Equal(t, constant.StatusOffline, pushes[1].Status)
}
