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

func newUserSvc(t *testing.T, env *testEnv) *UserService {
	t.Helper()
	return NewUserService(env.repos.User, nil)
}

func TestUserServiceFriendRequestFlow(t *testing.T) {
	env := newTestEnv(t)
	svc := newUserSvc(t, env)
	ctx := context.Background()
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")

	_, err := svc.SendFriendRequest(ctx, alice.Id, "alice", "0001")
	assert.Equal(t, errcode.ErrSelfFriendRequest, err)

	_, err = svc.SendFriendRequest(ctx, alice.Id, "nobody", "0001")
	assert.Equal(t, errcode.ErrUserNotFound, err)

	req, err := svc.SendFriendRequest(ctx, alice.Id, "bob", "0001")
	require.NoError(t, err)
	assert.Equal(t, constant.FriendshipPending, req.Status)

	// duplicates are refused in both directions while pending
	_, err = svc.SendFriendRequest(ctx, alice.Id, "bob", "0001")
	assert.Equal(t, errcode.ErrFriendRequestExists, err)
	_, err = svc.SendFriendRequest(ctx, bob.Id, "alice", "0001")
	assert.Equal(t, errcode.ErrFriendRequestExists, err)

	pending, err := svc.ListPendingRequests(ctx, bob.Id)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, alice.Id, pending[0].From.Id)

	// only the addressee may answer
	_, err = svc.RespondFriendRequest(ctx, alice.Id, req.Id, true)
	assert.Equal(t, errcode.ErrNoPermission, err)

	accepted, err := svc.RespondFriendRequest(ctx, bob.Id, req.Id, true)
	require.NoError(t, err)
	assert.Equal(t, constant.FriendshipAccepted, accepted.Status)

	ok, err := svc.AreFriends(ctx, alice.Id, bob.Id)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUserServiceRejectedPairCanRetry(t *testing.T) {
	env := newTestEnv(t)
	svc := newUserSvc(t, env)
	ctx := context.Background()
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")

	req, err := svc.SendFriendRequest(ctx, alice.Id, "bob", "0001")
	require.NoError(t, err)
	_, err = svc.RespondFriendRequest(ctx, bob.Id, req.Id, false)
	require.NoError(t, err)

	// a rejected request may be answered only once
	_, err = svc.RespondFriendRequest(ctx, bob.Id, req.Id, true)
	assert.Equal(t, errcode.ErrNoPermission, err)

	// and the pair can start over
	again, err := svc.SendFriendRequest(ctx, bob.Id, "alice", "0001")
	require.NoError(t, err)
	assert.Equal(t, constant.FriendshipPending, again.Status)
}

func TestUserServiceRemoveFriend(t *testing.T) {
	env := newTestEnv(t)
	svc := newUserSvc(t, env)
	ctx := context.Background()
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")

	err := svc.RemoveFriend(ctx, alice.Id, bob.Id)
	assert.Equal(t, errcode.ErrNotFriends, err)

	require.NoError(t, env.repos.User.CreateFriendship(ctx, &entity.Friendship{
		FromUserId: alice.Id, ToUserId: bob.Id, Status: constant.FriendshipAccepted,
	}))

	require.NoError(t, svc.RemoveFriend(ctx, bob.Id, alice.Id))
	ok, err := svc.AreFriends(ctx, alice.Id, bob.Id)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUserServiceEffectiveStatusInvisible(t *testing.T) {
	env := newTestEnv(t)
	svc := newUserSvc(t, env)

	u := &entity.User{Id: 1, ManualStatus: constant.StatusInvisible}
	assert.Equal(t, constant.StatusOffline, svc.EffectiveStatus(context.Background(), u))
}

func TestUserServiceSetManualStatus(t *testing.T) {
	env := newTestEnv(t)
	svc := newUserSvc(t, env)
	ctx := context.Background()
	alice := env.user(t, "alice")

	err := svc.SetManualStatus(ctx, alice.Id, "banana")
	assert.Equal(t, errcode.ErrInvalidParam, err)

	require.NoError(t, svc.SetManualStatus(ctx, alice.Id, constant.StatusIdle))
	got, err := svc.GetUser(ctx, alice.Id)
	require.NoError(t, err)
	assert.Equal(t, constant.StatusIdle, got.ManualStatus)
}

func TestUserServiceUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	svc := newUserSvc(t, env)
	ctx := context.Background()
	alice := env.user(t, "alice")

	bio := "hello there"
	got, err := svc.UpdateProfile(ctx, alice.Id, &UpdateProfileRequest{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, bio, got.Bio)

	// untouched fields survive a partial update
	avatar := "https://cdn.example.com/a.png"
	got, err = svc.UpdateProfile(ctx, alice.Id, &UpdateProfileRequest{Avatar: &avatar})
	require.NoError(t, err)
	assert.Equal(t, bio, got.Bio)
	assert.Equal(t, avatar, got.Avatar)
}
