package repository

import (
	"testing"

	"github.com/mbeoliero/concord/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMessage(t *testing.T, repos *Repositories, id, convId, senderId, createdAt int64, content string) *entity.Message {
	t.Helper()
	msg := &entity.Message{
		Id:             id,
		ConversationId: convId,
		SenderId:       &senderId,
		Content:        content,
		CreatedAt:      createdAt,
	}
	require.NoError(t, repos.Message.Create(testCtx(), nil, msg))
	return msg
}

func TestMessageRepoListNewestFirst(t *testing.T) {
	repos := newTestRepos(t)
	ctx := testCtx()

	seedMessage(t, repos, 1, 1, 7, 100, "first")
	seedMessage(t, repos, 2, 1, 8, 200, "second")
	seedMessage(t, repos, 3, 1, 7, 300, "third")
	seedMessage(t, repos, 4, 2, 7, 400, "other conversation")

	msgs, err := repos.Message.ListByConversation(ctx, 1, 0, 50)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "third", msgs[0].Content)
	assert.Equal(t, "second", msgs[1].Content)
	assert.Equal(t, "first", msgs[2].Content)

	// paging: only messages strictly older than the cursor
	msgs, err = repos.Message.ListByConversation(ctx, 1, 300, 50)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "second", msgs[0].Content)

	msgs, err = repos.Message.ListByConversation(ctx, 1, 0, 1)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "third", msgs[0].Content)
}

func TestMessageRepoEditAndSoftDelete(t *testing.T) {
	repos := newTestRepos(t)
	ctx := testCtx()
	seedMessage(t, repos, 1, 1, 7, 100, "typo")

	editedAt := entity.NowUnixMilli()
	require.NoError(t, repos.Message.Edit(ctx, 1, "fixed", editedAt))
	msg, err := repos.Message.GetById(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "fixed", msg.Content)
	require.NotNil(t, msg.EditedAt)
	assert.Equal(t, editedAt, *msg.EditedAt)

	// the tombstone keeps the row but blanks the content
	require.NoError(t, repos.Message.SoftDelete(ctx, 1))
	msg, err = repos.Message.GetById(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.True(t, msg.IsDeleted)
	assert.Empty(t, msg.Content)
}

func TestMessageRepoCountUnread(t *testing.T) {
	repos := newTestRepos(t)
	ctx := testCtx()

	seedMessage(t, repos, 1, 1, 8, 100, "a")
	seedMessage(t, repos, 2, 1, 8, 200, "b")
	seedMessage(t, repos, 3, 1, 7, 300, "own message")
	deleted := seedMessage(t, repos, 4, 1, 8, 400, "c")
	require.NoError(t, repos.Message.SoftDelete(ctx, deleted.Id))

	// never read: everything from others counts, tombstones excluded
	count, err := repos.Message.CountUnread(ctx, 1, 7, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	lastRead := int64(1)
	count, err = repos.Message.CountUnread(ctx, 1, 7, &lastRead)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMessageRepoGetMissing(t *testing.T) {
	repos := newTestRepos(t)

	msg, err := repos.Message.GetById(testCtx(), 999)
	require.NoError(t, err)
	assert.Nil(t, msg)
}
