package gateway

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoiceSessionRejectsAnonymous(t *testing.T) {
	registry := NewRegistry()
	conn := newFakeConn()

	s := NewVoiceSession(conn, 0, 3, registry, &fakeGuard{allowVoice: true})
	s.Run(context.Background())

	code, _ := conn.recordedClose()
	assert.Equal(t, CloseUnauthenticated, code)
	assert.Equal(t, 0, registry.MemberCount(VoiceRoomKey(3)))
}

func TestVoiceSessionRejectsNonMember(t *testing.T) {
	registry := NewRegistry()
	conn := newFakeConn()

	// a missing room and a non-member both deny admission
	s := NewVoiceSession(conn, 7, 3, registry, &fakeGuard{allowVoice: false})
	s.Run(context.Background())

	code, _ := conn.recordedClose()
	assert.Equal(t, CloseForbidden, code)
	assert.Equal(t, StateClosed, s.State())
}

func TestVoiceSessionRelayExcludesSender(t *testing.T) {
	registry := NewRegistry()
	peerConn := newFakeConn()
	registry.Join(VoiceRoomKey(3), NewHandle(peerConn))

	conn := newFakeConn()
	conn.push(`{"type":"offer","sdp":"v=0 m=audio"}`)
	conn.endInput()

	s := NewVoiceSession(conn, 7, 3, registry, &fakeGuard{allowVoice: true})
	s.Run(context.Background())

	// the sender never hears its own signal
	assert.Empty(t, conn.sentFrames())

	frames := peerConn.sentFrames()
	require.Len(t, frames, 1)

	var relayed map[string]interface{}
	require.NoError(t, json.Unmarshal(frames[0], &relayed))
	assert.Equal(t, "offer", relayed["type"])
	assert.Equal(t, "v=0 m=audio", relayed["sdp"])
	assert.Equal(t, float64(7), relayed["sender_id"])
}

func TestVoiceSessionDropsMalformedSignals(t *testing.T) {
	registry := NewRegistry()
	peerConn := newFakeConn()
	registry.Join(VoiceRoomKey(3), NewHandle(peerConn))

	conn := newFakeConn()
	conn.push(`garbage`)
	conn.push(`{"type":"mute"}`)
	conn.push(`{"sdp":"no type tag"}`)
	conn.push(`{"type":"candidate","candidate":"c=0"}`)
	conn.endInput()

	s := NewVoiceSession(conn, 7, 3, registry, &fakeGuard{allowVoice: true})
	s.Run(context.Background())

	// only the valid candidate got through; bad frames never closed the socket
	frames := peerConn.sentFrames()
	require.Len(t, frames, 1)
	var relayed map[string]interface{}
	require.NoError(t, json.Unmarshal(frames[0], &relayed))
	assert.Equal(t, "candidate", relayed["type"])

	code, _ := conn.recordedClose()
	assert.Equal(t, CloseNormal, code)
}

func TestVoiceSessionDisconnectLeavesRegistryOnly(t *testing.T) {
	registry := NewRegistry()
	conn := newFakeConn()
	conn.endInput()

	s := NewVoiceSession(conn, 7, 3, registry, &fakeGuard{allowVoice: true})
	s.Run(context.Background())

	// cleanup is registry-scoped; room membership rows are untouched by
	// a socket drop and only change through explicit join/leave calls
	assert.Equal(t, 0, registry.MemberCount(VoiceRoomKey(3)))
	assert.Equal(t, StateClosed, s.State())
}
