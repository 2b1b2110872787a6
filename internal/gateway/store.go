package gateway

import (
	"context"

	"github.com/mbeoliero/concord/internal/entity"
)

// MessageStore is the persistence boundary the sessions call into.
// Every call is synchronous and atomic; broadcast happens only after
// a call returns without error.
type MessageStore interface {
	// CreateMessage persists a new message and updates the
	// conversation's last_message pointer
	CreateMessage(ctx context.Context, senderId, conversationId int64, content string) (*entity.Message, error)

	// EditMessage updates content and edited timestamp on a message
	// owned by editorId
	EditMessage(ctx context.Context, editorId, messageId int64, content string) (*entity.Message, error)

	// DeleteMessage sets the soft-delete flag on a message owned by
	// requesterId
	DeleteMessage(ctx context.Context, requesterId, messageId int64) (*entity.Message, error)

	// PinMessage replaces the conversation's single pinned message.
	// Allowed for admins and for the original sender.
	PinMessage(ctx context.Context, userId, conversationId, messageId int64) (*entity.PinnedMessage, error)

	// UnpinMessage clears the conversation's pin. Admin only.
	UnpinMessage(ctx context.Context, userId, conversationId int64) error
}

// MembershipGuard decides whether a user may join a room's broadcast
// group. Pure read-only predicates; lookups that fail resolve to false.
type MembershipGuard interface {
	CanJoinChat(ctx context.Context, userId, conversationId int64) bool
	CanJoinVoice(ctx context.Context, userId, voiceRoomId int64) bool
}

// UserDirectory resolves sender views for outbound envelopes
type UserDirectory interface {
	GetUserBrief(ctx context.Context, userId int64) (*entity.UserBrief, error)
}

// StatusStore backs the status socket: manual status writes and the
// friend set that presence changes fan out to.
type StatusStore interface {
	GetUser(ctx context.Context, userId int64) (*entity.User, error)
	SetManualStatus(ctx context.Context, userId int64, status string) error
	FriendIds(ctx context.Context, userId int64) ([]int64, error)
}
