package service

import (
	"context"
	"testing"

	"github.com/mbeoliero/concord/internal/entity"
	"github.com/mbeoliero/concord/pkg/constant"
	"github.com/mbeoliero/concord/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func befriend(t *testing.T, env *testEnv, a, b int64) {
	t.Helper()
	require.NoError(t, env.repos.User.CreateFriendship(context.Background(), &entity.Friendship{
		FromUserId: a, ToUserId: b, Status: constant.FriendshipAccepted,
	}))
}

func TestConversationServicePrivateRequiresFriendship(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")

	_, err := env.convSvc.GetOrCreatePrivate(ctx, alice.Id, alice.Id)
	assert.Equal(t, errcode.ErrSelfConversation, err)

	_, err = env.convSvc.GetOrCreatePrivate(ctx, alice.Id, 999)
	assert.Equal(t, errcode.ErrUserNotFound, err)

	_, err = env.convSvc.GetOrCreatePrivate(ctx, alice.Id, bob.Id)
	assert.Equal(t, errcode.ErrNotFriends, err)

	befriend(t, env, alice.Id, bob.Id)
	conv, err := env.convSvc.GetOrCreatePrivate(ctx, alice.Id, bob.Id)
	require.NoError(t, err)
	assert.Equal(t, constant.ConvKindPrivate, conv.Kind)

	// opening from either side resolves to the same conversation
	again, err := env.convSvc.GetOrCreatePrivate(ctx, bob.Id, alice.Id)
	require.NoError(t, err)
	assert.Equal(t, conv.Id, again.Id)
}

func TestConversationServiceCreateGroup(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")

	_, err := env.convSvc.CreateGroup(ctx, alice.Id, &CreateGroupRequest{Name: ""})
	assert.Equal(t, errcode.ErrInvalidParam, err)

	conv := env.group(t, alice.Id, bob.Id)

	// the creator is admin, invited members are not
	isAdmin, err := env.repos.Conversation.IsAdmin(ctx, alice.Id, conv.Id)
	require.NoError(t, err)
	assert.True(t, isAdmin)
	isAdmin, err = env.repos.Conversation.IsAdmin(ctx, bob.Id, conv.Id)
	require.NoError(t, err)
	assert.False(t, isAdmin)

	members, err := env.convSvc.ListMembers(ctx, alice.Id, conv.Id)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestConversationServiceChatGuard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	mallory := env.user(t, "mallory")
	conv := env.group(t, alice.Id)

	assert.True(t, env.convSvc.CanJoinChat(ctx, alice.Id, conv.Id))
	assert.False(t, env.convSvc.CanJoinChat(ctx, mallory.Id, conv.Id))
	assert.False(t, env.convSvc.CanJoinChat(ctx, alice.Id, 999))
}

func TestConversationServiceLeaveRevokesAccess(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	conv := env.group(t, alice.Id, bob.Id)

	require.NoError(t, env.convSvc.LeaveConversation(ctx, bob.Id, conv.Id))
	assert.False(t, env.convSvc.CanJoinChat(ctx, bob.Id, conv.Id))

	_, err := env.convSvc.GetConversation(ctx, bob.Id, conv.Id)
	assert.Equal(t, errcode.ErrNotParticipant, err)
}

func TestConversationServiceEnsureFavorite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")

	fav, err := env.convSvc.EnsureFavorite(ctx, alice.Id)
	require.NoError(t, err)
	assert.Equal(t, constant.ConvKindFavorite, fav.Kind)

	again, err := env.convSvc.EnsureFavorite(ctx, alice.Id)
	require.NoError(t, err)
	assert.Equal(t, fav.Id, again.Id)
}

func TestConversationServiceMarkRead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	conv := env.group(t, alice.Id, bob.Id)
	other := env.group(t, alice.Id)

	msg, err := env.msgSvc.CreateMessage(ctx, bob.Id, conv.Id, "unread")
	require.NoError(t, err)

	// a marker from another conversation is rejected
	err = env.convSvc.MarkRead(ctx, alice.Id, other.Id, msg.Id)
	assert.Equal(t, errcode.ErrMessageNotFound, err)

	require.NoError(t, env.convSvc.MarkRead(ctx, alice.Id, conv.Id, msg.Id))

	p, err := env.repos.Conversation.GetParticipant(ctx, alice.Id, conv.Id)
	require.NoError(t, err)
	require.NotNil(t, p.LastRead)
	assert.Equal(t, msg.Id, *p.LastRead)
}
