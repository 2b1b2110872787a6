package sdk

import "encoding/json"

// Response represents the standard API response
type Response struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data,omitempty"`
}

// UserBrief represents the compact user view used in most payloads
type UserBrief struct {
	Id          int64  `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar"`
}

// UserInfo represents a full user profile
type UserInfo struct {
	Id            int64  `json:"id"`
	Username      string `json:"username"`
	Discriminator string `json:"discriminator"`
	Email         string `json:"email"`
	Avatar        string `json:"avatar"`
	Bio           string `json:"bio"`
	ManualStatus  string `json:"manual_status"`
	CreatedAt     int64  `json:"created_at"`
}

// FileMeta describes a file attachment
type FileMeta struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}

// MessageInfo represents a message
type MessageInfo struct {
	Id             int64      `json:"id"`
	ConversationId int64      `json:"conversation_id"`
	Sender         *UserBrief `json:"sender,omitempty"`
	Content        string     `json:"content"`
	CreatedAt      int64      `json:"created_at"`
	EditedAt       *int64     `json:"edited_at,omitempty"`
	IsDeleted      bool       `json:"is_deleted"`
	StickerId      *int64     `json:"sticker_id,omitempty"`
	File           *FileMeta  `json:"file,omitempty"`
}

// ConversationInfo represents a chat list entry
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

// Conversation represents a conversation row
type Conversation struct {
	Id        int64  `json:"id"`
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar"`
	CreatedAt int64  `json:"created_at"`
}

// Invite represents an invite link
type Invite struct {
	Id             int64  `json:"id"`
	Token          string `json:"token"`
	ConversationId int64  `json:"conversation_id"`
	CreatorId      int64  `json:"creator_id"`
	ExpiresAt      *int64 `json:"expires_at,omitempty"`
	MaxUses        int    `json:"max_uses"`
	Uses           int    `json:"uses"`
	CreatedAt      int64  `json:"created_at"`
}

// VoiceRoom represents a voice room
type VoiceRoom struct {
	Id             int64 `json:"id"`
	ConversationId int64 `json:"conversation_id"`
	IsActive       bool  `json:"is_active"`
}

// FriendInfo represents a friend entry with presence
type FriendInfo struct {
	User   *UserBrief `json:"user"`
	Status string     `json:"status"`
}

// FriendRequestInfo represents a pending friend request
type FriendRequestInfo struct {
	Id        int64      `json:"id"`
	From      *UserBrief `json:"from"`
	CreatedAt int64      `json:"created_at"`
}

// Sticker represents a sticker
type Sticker struct {
	Id    int64  `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}
