package entity

import "github.com/mbeoliero/concord/pkg/constant"

// Conversation represents a chat: private pair, group, or single-owner favorite
type Conversation struct {
	Id            int64  `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Kind          string `json:"kind" gorm:"column:kind;size:10;index"`
	Name          string `json:"name" gorm:"column:name;size:100"`
	Avatar        string `json:"avatar" gorm:"column:avatar"`
	LastMessageId *int64 `json:"last_message_id" gorm:"column:last_message_id"`
	CreatedAt     int64  `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt     int64  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:milli"`
}

// TableName returns the table name for Conversation
func (Conversation) TableName() string {
	return "conversations"
}

// IsPrivate reports whether the conversation is a two-party private chat
func (c *Conversation) IsPrivate() bool {
	return c.Kind == constant.ConvKindPrivate
}

// IsGroup reports whether the conversation is a group chat
func (c *Conversation) IsGroup() bool {
	return c.Kind == constant.ConvKindGroup
}

// Participant links a user to a conversation with per-user state.
// Rows are soft-deleted on leave so history keeps resolving.
type Participant struct {
	Id             int64  `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	UserId         int64  `json:"user_id" gorm:"column:user_id;uniqueIndex:idx_user_conv"`
	ConversationId int64  `json:"conversation_id" gorm:"column:conversation_id;uniqueIndex:idx_user_conv"`
	IsAdmin        bool   `json:"is_admin" gorm:"column:is_admin"`
	IsPinned       bool   `json:"is_pinned" gorm:"column:is_pinned"`
	LastRead       *int64 `json:"last_read" gorm:"column:last_read"`
	IsDeleted      bool   `json:"is_deleted" gorm:"column:is_deleted"`
	JoinedAt       int64  `json:"joined_at" gorm:"column:joined_at;autoCreateTime:milli"`
	UpdatedAt      int64  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:milli"`
}

// TableName returns the table name for Participant
func (Participant) TableName() string {
	return "participants"
}

// IsActive reports whether the participant row still grants membership
func (p *Participant) IsActive() bool {
	return !p.IsDeleted
}

// ConversationInfo represents conversation info for API response
type ConversationInfo struct {
	Id          int64        `json:"id"`
	Kind        string       `json:"kind"`
	Name        string       `json:"name"`
	Avatar      string       `json:"avatar"`
	IsAdmin     bool         `json:"is_admin"`
	IsPinned    bool         `json:"is_pinned"`
	LastMessage *MessageInfo `json:"last_message,omitempty"`
	UnreadCount int64        `json:"unread_count"`
	UpdatedAt   int64        `json:"updated_at"`
}
