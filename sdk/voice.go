package sdk

import (
	"context"
	"fmt"
)

// GetVoiceRoom resolves the voice room backing a conversation
func (c *Client) GetVoiceRoom(ctx context.Context, conversationId int64) (*VoiceRoom, error) {
	var result VoiceRoom
	if err := c.get(ctx, fmt.Sprintf("/voice/conversation/%d", conversationId), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// JoinVoiceRoom adds the user to a voice room's active set
func (c *Client) JoinVoiceRoom(ctx context.Context, voiceRoomId int64) (*VoiceRoom, error) {
	var result VoiceRoom
	if err := c.post(ctx, fmt.Sprintf("/voice/%d/join", voiceRoomId), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// LeaveVoiceRoom removes the user from a voice room's active set
func (c *Client) LeaveVoiceRoom(ctx context.Context, voiceRoomId int64) error {
	return c.post(ctx, fmt.Sprintf("/voice/%d/leave", voiceRoomId), nil, nil)
}

// ListVoiceMembers lists users currently in a voice room
func (c *Client) ListVoiceMembers(ctx context.Context, voiceRoomId int64) ([]*UserBrief, error) {
	var result []*UserBrief
	if err := c.get(ctx, fmt.Sprintf("/voice/%d/members", voiceRoomId), nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}
