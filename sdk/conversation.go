package sdk

import (
	"context"
	"fmt"
)

// ListConversations lists the authenticated user's chats, pinned first
func (c *Client) ListConversations(ctx context.Context) ([]*ConversationInfo, error) {
	var result []*ConversationInfo
	if err := c.get(ctx, "/conversation/list", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// OpenPrivate opens (or returns) the private conversation with a friend
func (c *Client) OpenPrivate(ctx context.Context, userId int64) (*Conversation, error) {
	var result Conversation
	if err := c.post(ctx, "/conversation/private", map[string]int64{"user_id": userId}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateGroupRequest represents group creation
type CreateGroupRequest struct {
	Name      string  `json:"name"`
	Avatar    string  `json:"avatar,omitempty"`
	MemberIds []int64 `json:"member_ids"`
}

// CreateGroup creates a group conversation
func (c *Client) CreateGroup(ctx context.Context, req *CreateGroupRequest) (*Conversation, error) {
	var result Conversation
	if err := c.post(ctx, "/conversation/group", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetFavorite returns the user's favorites conversation
func (c *Client) GetFavorite(ctx context.Context) (*Conversation, error) {
	var result Conversation
	if err := c.get(ctx, "/conversation/favorite", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListMembers lists participants of a conversation
func (c *Client) ListMembers(ctx context.Context, conversationId int64) ([]*UserBrief, error) {
	var result []*UserBrief
	if err := c.get(ctx, fmt.Sprintf("/conversation/%d/members", conversationId), nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// PinChat pins or unpins the conversation in the user's chat list
func (c *Client) PinChat(ctx context.Context, conversationId int64, pinned bool) error {
	return c.put(ctx, fmt.Sprintf("/conversation/%d/pin", conversationId), map[string]bool{"pinned": pinned}, nil)
}

// MarkRead moves the user's read marker in a conversation
func (c *Client) MarkRead(ctx context.Context, conversationId, messageId int64) error {
	return c.post(ctx, fmt.Sprintf("/conversation/%d/read", conversationId), map[string]int64{"message_id": messageId}, nil)
}

// LeaveConversation removes the user from a conversation
func (c *Client) LeaveConversation(ctx context.Context, conversationId int64) error {
	return c.delete(ctx, fmt.Sprintf("/conversation/%d", conversationId), nil)
}

// CreateInviteRequest represents invite creation
type CreateInviteRequest struct {
	ConversationId int64  `json:"conversation_id"`
	MaxUses        int    `json:"max_uses"`
	ExpiresAt      *int64 `json:"expires_at,omitempty"`
}

// CreateInvite mints an invite link for a group conversation
func (c *Client) CreateInvite(ctx context.Context, req *CreateInviteRequest) (*Invite, error) {
	var result Invite
	if err := c.post(ctx, "/invite/create", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// InvitePreview shows what a token opens
type InvitePreview struct {
	Invite       *Invite       `json:"invite"`
	Conversation *Conversation `json:"conversation"`
}

// PreviewInvite resolves a token without consuming a use
func (c *Client) PreviewInvite(ctx context.Context, token string) (*InvitePreview, error) {
	var result InvitePreview
	if err := c.get(ctx, "/invite/"+token, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ConsumeInvite redeems a token and joins the conversation
func (c *Client) ConsumeInvite(ctx context.Context, token string) (*Conversation, error) {
	var result Conversation
	if err := c.post(ctx, "/invite/"+token+"/join", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RevokeInvite deletes an invite token
func (c *Client) RevokeInvite(ctx context.Context, token string) error {
	return c.delete(ctx, "/invite/"+token, nil)
}
