package repository

import (
	"testing"

	"github.com/mbeoliero/concord/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPinRepoSingleRowPerConversation(t *testing.T) {
	repos := newTestRepos(t)
	ctx := testCtx()

	require.NoError(t, repos.Pin.Set(ctx, &entity.PinnedMessage{
		ConversationId: 1, MessageId: 100, PinnedBy: 7,
	}))

	// pinning again replaces the row instead of stacking a second one
	require.NoError(t, repos.Pin.Set(ctx, &entity.PinnedMessage{
		ConversationId: 1, MessageId: 200, PinnedBy: 8,
	}))

	pin, err := repos.Pin.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, pin)
	assert.Equal(t, int64(200), pin.MessageId)
	assert.Equal(t, int64(8), pin.PinnedBy)
	assert.NotZero(t, pin.PinnedAt)

	var count int64
	require.NoError(t, repos.DB.Model(&entity.PinnedMessage{}).Where("conversation_id = ?", 1).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestPinRepoGetMissing(t *testing.T) {
	repos := newTestRepos(t)

	pin, err := repos.Pin.Get(testCtx(), 99)
	require.NoError(t, err)
	assert.Nil(t, pin)
}

func TestPinRepoClearIdempotent(t *testing.T) {
	repos := newTestRepos(t)
	ctx := testCtx()

	require.NoError(t, repos.Pin.Set(ctx, &entity.PinnedMessage{
		ConversationId: 1, MessageId: 100, PinnedBy: 7,
	}))
	require.NoError(t, repos.Pin.Clear(ctx, 1))
	require.NoError(t, repos.Pin.Clear(ctx, 1))

	pin, err := repos.Pin.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, pin)
}
