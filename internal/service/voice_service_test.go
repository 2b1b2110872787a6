package service

import (
	"context"
	"testing"

	"github.com/mbeoliero/concord/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoiceServiceRoomPerConversation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	mallory := env.user(t, "mallory")
	conv := env.group(t, alice.Id)

	room, err := env.voice.GetRoomForConversation(ctx, alice.Id, conv.Id)
	require.NoError(t, err)
	assert.False(t, room.IsActive)

	// idempotent: the same conversation maps to the same room
	again, err := env.voice.GetRoomForConversation(ctx, alice.Id, conv.Id)
	require.NoError(t, err)
	assert.Equal(t, room.Id, again.Id)

	_, err = env.voice.GetRoomForConversation(ctx, mallory.Id, conv.Id)
	assert.Equal(t, errcode.ErrNotParticipant, err)
}

func TestVoiceServiceJoinLeaveRecomputesActive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	conv := env.group(t, alice.Id, bob.Id)

	room, err := env.voice.GetRoomForConversation(ctx, alice.Id, conv.Id)
	require.NoError(t, err)

	_, err = env.voice.JoinRoom(ctx, alice.Id, room.Id)
	require.NoError(t, err)
	_, err = env.voice.JoinRoom(ctx, bob.Id, room.Id)
	require.NoError(t, err)

	// joining twice adds nothing
	_, err = env.voice.JoinRoom(ctx, alice.Id, room.Id)
	require.NoError(t, err)

	members, err := env.voice.ListMembers(ctx, alice.Id, room.Id)
	require.NoError(t, err)
	assert.Len(t, members, 2)

	got, err := env.repos.Voice.GetById(ctx, room.Id)
	require.NoError(t, err)
	assert.True(t, got.IsActive)

	// the room stays live until the last member leaves
	require.NoError(t, env.voice.LeaveRoom(ctx, alice.Id, room.Id))
	got, err = env.repos.Voice.GetById(ctx, room.Id)
	require.NoError(t, err)
	assert.True(t, got.IsActive)

	require.NoError(t, env.voice.LeaveRoom(ctx, bob.Id, room.Id))
	got, err = env.repos.Voice.GetById(ctx, room.Id)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestVoiceServiceOutsiderDenied(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	mallory := env.user(t, "mallory")
	conv := env.group(t, alice.Id)

	room, err := env.voice.GetRoomForConversation(ctx, alice.Id, conv.Id)
	require.NoError(t, err)

	_, err = env.voice.JoinRoom(ctx, mallory.Id, room.Id)
	assert.Equal(t, errcode.ErrNotParticipant, err)

	_, err = env.voice.JoinRoom(ctx, alice.Id, 999)
	assert.Equal(t, errcode.ErrVoiceRoomNotFound, err)
}

func TestVoiceServiceGuard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	mallory := env.user(t, "mallory")
	conv := env.group(t, alice.Id)

	room, err := env.voice.GetRoomForConversation(ctx, alice.Id, conv.Id)
	require.NoError(t, err)

	assert.True(t, env.convSvc.CanJoinVoice(ctx, alice.Id, room.Id))
	assert.False(t, env.convSvc.CanJoinVoice(ctx, mallory.Id, room.Id))

	// a missing room denies instead of erroring
	assert.False(t, env.convSvc.CanJoinVoice(ctx, alice.Id, 999))
}
