package sdk

import (
	"context"
	"fmt"
	"strconv"
)

// History pages message history of a conversation, newest first.
// before of 0 means from the latest.
func (c *Client) History(ctx context.Context, conversationId int64, before int64, limit int) ([]*MessageInfo, error) {
	params := map[string]string{}
	if before > 0 {
		params["before"] = strconv.FormatInt(before, 10)
	}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}

	var result []*MessageInfo
	if err := c.get(ctx, fmt.Sprintf("/msg/%d/history", conversationId), params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetPinned returns the conversation's pinned message, nil if none
func (c *Client) GetPinned(ctx context.Context, conversationId int64) (*MessageInfo, error) {
	var result *MessageInfo
	if err := c.get(ctx, fmt.Sprintf("/msg/%d/pinned", conversationId), nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// SendSticker sends a sticker message into a conversation
func (c *Client) SendSticker(ctx context.Context, conversationId, stickerId int64) (*MessageInfo, error) {
	var result MessageInfo
	if err := c.post(ctx, fmt.Sprintf("/msg/%d/sticker", conversationId), map[string]int64{"sticker_id": stickerId}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListStickers lists stickers available to the user
func (c *Client) ListStickers(ctx context.Context) ([]*Sticker, error) {
	var result []*Sticker
	if err := c.get(ctx, "/msg/stickers", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}
