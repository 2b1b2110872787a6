package entity

import (
	"testing"

	"github.com/mbeoliero/concord/pkg/constant"
	"github.com/stretchr/testify/assert"
)

func TestUserDisplayName(t *testing.T) {
	u := &User{Username: "alice", Discriminator: "0042"}
	assert.Equal(t, "alice#0042", u.DisplayName())
}

func TestInviteExpiry(t *testing.T) {
	now := NowUnixMilli()

	open := &Invite{}
	assert.False(t, open.IsExpired(now))

	future := now + 60_000
	assert.False(t, (&Invite{ExpiresAt: &future}).IsExpired(now))

	past := now - 1
	assert.True(t, (&Invite{ExpiresAt: &past}).IsExpired(now))
}

func TestInviteExhaustion(t *testing.T) {
	// zero max_uses means unlimited
	assert.False(t, (&Invite{MaxUses: 0, Uses: 10000}).IsExhausted())
	assert.False(t, (&Invite{MaxUses: 2, Uses: 1}).IsExhausted())
	assert.True(t, (&Invite{MaxUses: 2, Uses: 2}).IsExhausted())
}

func TestMessageInfoBlanksDeletedContent(t *testing.T) {
	sender := int64(7)
	msg := &Message{Id: 1, SenderId: &sender, Content: "secret", IsDeleted: true}

	info := msg.ToMessageInfo(nil)
	assert.True(t, info.IsDeleted)
	assert.Empty(t, info.Content)
}

func TestUserInvisible(t *testing.T) {
	assert.True(t, (&User{ManualStatus: constant.StatusInvisible}).IsInvisible())
	assert.False(t, (&User{ManualStatus: constant.StatusOnline}).IsInvisible())
}
