package repository

import (
	"testing"

	"github.com/mbeoliero/concord/internal/entity"
	"github.com/mbeoliero/concord/pkg/constant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createConversation(t *testing.T, repos *Repositories, kind string, userIds ...int64) *entity.Conversation {
	t.Helper()
	ctx := testCtx()

	conv := &entity.Conversation{Kind: kind}
	require.NoError(t, repos.Conversation.Create(ctx, nil, conv))
	for _, userId := range userIds {
		require.NoError(t, repos.Conversation.AddParticipant(ctx, nil, &entity.Participant{
			UserId:         userId,
			ConversationId: conv.Id,
		}))
	}
	return conv
}

func TestConversationRepoParticipantRevive(t *testing.T) {
	repos := newTestRepos(t)
	ctx := testCtx()
	conv := createConversation(t, repos, constant.ConvKindGroup, 7)

	require.NoError(t, repos.Conversation.RemoveParticipant(ctx, 7, conv.Id))
	ok, err := repos.Conversation.IsParticipant(ctx, 7, conv.Id)
	require.NoError(t, err)
	assert.False(t, ok)

	// re-adding revives the soft-deleted row instead of violating the
	// unique (user_id, conversation_id) index
	require.NoError(t, repos.Conversation.AddParticipant(ctx, nil, &entity.Participant{
		UserId:         7,
		ConversationId: conv.Id,
	}))
	ok, err = repos.Conversation.IsParticipant(ctx, 7, conv.Id)
	require.NoError(t, err)
	assert.True(t, ok)

	var count int64
	require.NoError(t, repos.DB.Model(&entity.Participant{}).
		Where("user_id = ? AND conversation_id = ?", 7, conv.Id).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestConversationRepoGetPrivateBetween(t *testing.T) {
	repos := newTestRepos(t)
	ctx := testCtx()
	conv := createConversation(t, repos, constant.ConvKindPrivate, 7, 8)
	createConversation(t, repos, constant.ConvKindPrivate, 7, 9)

	got, err := repos.Conversation.GetPrivateBetween(ctx, 7, 8)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, conv.Id, got.Id)

	// order of the pair does not matter
	got, err = repos.Conversation.GetPrivateBetween(ctx, 8, 7)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, conv.Id, got.Id)

	got, err = repos.Conversation.GetPrivateBetween(ctx, 8, 9)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestConversationRepoAdminFlag(t *testing.T) {
	repos := newTestRepos(t)
	ctx := testCtx()
	conv := createConversation(t, repos, constant.ConvKindGroup, 8)

	require.NoError(t, repos.Conversation.AddParticipant(ctx, nil, &entity.Participant{
		UserId:         7,
		ConversationId: conv.Id,
		IsAdmin:        true,
	}))

	isAdmin, err := repos.Conversation.IsAdmin(ctx, 7, conv.Id)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	isAdmin, err = repos.Conversation.IsAdmin(ctx, 8, conv.Id)
	require.NoError(t, err)
	assert.False(t, isAdmin)

	require.NoError(t, repos.Conversation.SetAdmin(ctx, 8, conv.Id, true))
	isAdmin, err = repos.Conversation.IsAdmin(ctx, 8, conv.Id)
	require.NoError(t, err)
	assert.True(t, isAdmin)
}

func TestConversationRepoListUserConversations(t *testing.T) {
	repos := newTestRepos(t)
	ctx := testCtx()
	convA := createConversation(t, repos, constant.ConvKindGroup, 7)
	convB := createConversation(t, repos, constant.ConvKindGroup, 7)
	createConversation(t, repos, constant.ConvKindGroup, 8)

	// leaving a conversation drops it from the list
	require.NoError(t, repos.Conversation.RemoveParticipant(ctx, 7, convB.Id))

	convs, participants, err := repos.Conversation.ListUserConversations(ctx, 7)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	require.Len(t, participants, 1)
	assert.Equal(t, convA.Id, convs[0].Id)
	assert.Equal(t, convA.Id, participants[0].ConversationId)
}

func TestConversationRepoLastReadAndPin(t *testing.T) {
	repos := newTestRepos(t)
	ctx := testCtx()
	conv := createConversation(t, repos, constant.ConvKindGroup, 7)

	require.NoError(t, repos.Conversation.SetPinned(ctx, 7, conv.Id, true))
	require.NoError(t, repos.Conversation.UpdateLastRead(ctx, 7, conv.Id, 500))

	p, err := repos.Conversation.GetParticipant(ctx, 7, conv.Id)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.True(t, p.IsPinned)
	require.NotNil(t, p.LastRead)
	assert.Equal(t, int64(500), *p.LastRead)
}

func TestConversationRepoUpdateLastMessage(t *testing.T) {
	repos := newTestRepos(t)
	ctx := testCtx()
	conv := createConversation(t, repos, constant.ConvKindGroup, 7)

	require.NoError(t, repos.Conversation.UpdateLastMessage(ctx, nil, conv.Id, 12345))

	got, err := repos.Conversation.GetById(ctx, conv.Id)
	require.NoError(t, err)
	require.NotNil(t, got.LastMessageId)
	assert.Equal(t, int64(12345), *got.LastMessageId)
}
