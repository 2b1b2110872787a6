package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPresenceFirstAndLastConnection(t *testing.T) {
	p := NewPresence(nil)
	ctx := context.Background()
	h1 := NewHandle(newFakeConn())
	h2 := NewHandle(newFakeConn())

	assert.True(t, p.Join(ctx, 1, h1))
	assert.False(t, p.Join(ctx, 1, h2))
	assert.True(t, p.HasConnection(1))

	assert.False(t, p.Leave(ctx, 1, h1))
	assert.True(t, p.Leave(ctx, 1, h2))
	assert.False(t, p.HasConnection(1))
}

func TestPresenceSendToUser(t *testing.T) {
	p := NewPresence(nil)
	ctx := context.Background()
	connA := newFakeConn()
	connB := newFakeConn()
	p.Join(ctx, 1, NewHandle(connA))
	p.Join(ctx, 1, NewHandle(connB))

	sent := p.SendToUser(1, []byte(`{"type":"friend_status"}`))
	assert.Equal(t, 2, sent)
	assert.Len(t, connA.sentFrames(), 1)
	assert.Len(t, connB.sentFrames(), 1)

	// an offline user is a no-op
	assert.Equal(t, 0, p.SendToUser(99, []byte(`{}`)))
}

func TestPresenceSendSkipsDeadConnections(t *testing.T) {
	p := NewPresence(nil)
	ctx := context.Background()
	dead := newFakeConn()
	dead.failWrite = true
	live := newFakeConn()
	p.Join(ctx, 1, NewHandle(dead))
	p.Join(ctx, 1, NewHandle(live))

	sent := p.SendToUser(1, []byte(`{}`))
	assert.Equal(t, 1, sent)
	assert.Len(t, live.sentFrames(), 1)
}

func TestPresenceNilRedisSafe(t *testing.T) {
	p := NewPresence(nil)
	ctx := context.Background()
	h := NewHandle(newFakeConn())

	p.Join(ctx, 1, h)
	assert.True(t, p.IsOnline(ctx, 1))
	p.RefreshOnlineStatus(ctx, 1)
	p.Leave(ctx, 1, h)
	assert.False(t, p.IsOnline(ctx, 1))
}
