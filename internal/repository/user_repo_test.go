package repository

import (
	"testing"

	"github.com/mbeoliero/concord/internal/entity"
	"github.com/mbeoliero/concord/pkg/constant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, repos *Repositories, username, discriminator, email string) *entity.User {
	t.Helper()
	user := &entity.User{
		Username:      username,
		Discriminator: discriminator,
		Email:         email,
		ManualStatus:  constant.StatusOnline,
	}
	require.NoError(t, repos.User.Create(testCtx(), user))
	return user
}

func TestUserRepoLookup(t *testing.T) {
	repos := newTestRepos(t)
	ctx := testCtx()
	alice := seedUser(t, repos, "alice", "0001", "alice@example.com")

	got, err := repos.User.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, alice.Id, got.Id)

	got, err = repos.User.GetByUsername(ctx, "alice", "0001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, alice.Id, got.Id)

	got, err = repos.User.GetByUsername(ctx, "alice", "9999")
	require.NoError(t, err)
	assert.Nil(t, got)

	taken, err := repos.User.DiscriminatorTaken(ctx, "alice", "0001")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repos.User.DiscriminatorTaken(ctx, "alice", "0002")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestUserRepoSharedUsernameDistinctTags(t *testing.T) {
	repos := newTestRepos(t)
	ctx := testCtx()
	first := seedUser(t, repos, "alice", "0001", "a1@example.com")
	second := seedUser(t, repos, "alice", "0002", "a2@example.com")
	assert.NotEqual(t, first.Id, second.Id)

	// same username+tag pair is rejected by the schema
	err := repos.User.Create(ctx, &entity.User{
		Username:      "alice",
		Discriminator: "0001",
		Email:         "a3@example.com",
	})
	assert.Error(t, err)

	got, err := repos.User.GetByUsername(ctx, "alice", "0002")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, second.Id, got.Id)
}

func TestUserRepoFriendIds(t *testing.T) {
	repos := newTestRepos(t)
	ctx := testCtx()
	alice := seedUser(t, repos, "alice", "0001", "alice@example.com")
	bob := seedUser(t, repos, "bob", "0001", "bob@example.com")
	carol := seedUser(t, repos, "carol", "0001", "carol@example.com")
	dave := seedUser(t, repos, "dave", "0001", "dave@example.com")

	// accepted in both directions, pending never counts
	require.NoError(t, repos.User.CreateFriendship(ctx, &entity.Friendship{
		FromUserId: alice.Id, ToUserId: bob.Id, Status: constant.FriendshipAccepted,
	}))
	require.NoError(t, repos.User.CreateFriendship(ctx, &entity.Friendship{
		FromUserId: carol.Id, ToUserId: alice.Id, Status: constant.FriendshipAccepted,
	}))
	require.NoError(t, repos.User.CreateFriendship(ctx, &entity.Friendship{
		FromUserId: alice.Id, ToUserId: dave.Id, Status: constant.FriendshipPending,
	}))

	ids, err := repos.User.FriendIds(ctx, alice.Id)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{bob.Id, carol.Id}, ids)

	ids, err = repos.User.FriendIds(ctx, dave.Id)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestUserRepoFriendshipLifecycle(t *testing.T) {
	repos := newTestRepos(t)
	ctx := testCtx()
	alice := seedUser(t, repos, "alice", "0001", "alice@example.com")
	bob := seedUser(t, repos, "bob", "0001", "bob@example.com")

	require.NoError(t, repos.User.CreateFriendship(ctx, &entity.Friendship{
		FromUserId: alice.Id, ToUserId: bob.Id, Status: constant.FriendshipPending,
	}))

	pending, err := repos.User.ListPendingRequests(ctx, bob.Id)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, alice.Id, pending[0].FromUserId)

	// the pair resolves regardless of direction
	f, err := repos.User.GetFriendship(ctx, bob.Id, alice.Id)
	require.NoError(t, err)
	require.NotNil(t, f)

	require.NoError(t, repos.User.UpdateFriendshipStatus(ctx, f.Id, constant.FriendshipAccepted))
	pending, err = repos.User.ListPendingRequests(ctx, bob.Id)
	require.NoError(t, err)
	assert.Empty(t, pending)

	require.NoError(t, repos.User.DeleteFriendship(ctx, f.Id))
	f, err = repos.User.GetFriendship(ctx, alice.Id, bob.Id)
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestUserRepoSetManualStatus(t *testing.T) {
	repos := newTestRepos(t)
	ctx := testCtx()
	alice := seedUser(t, repos, "alice", "0001", "alice@example.com")

	require.NoError(t, repos.User.SetManualStatus(ctx, alice.Id, constant.StatusInvisible))
	got, err := repos.User.GetById(ctx, alice.Id)
	require.NoError(t, err)
	assert.Equal(t, constant.StatusInvisible, got.ManualStatus)
	assert.True(t, got.IsInvisible())
}
