package sdk

import (
	"context"
	"fmt"
)

// Me returns the authenticated user's profile
func (c *Client) Me(ctx context.Context) (*UserInfo, error) {
	var result UserInfo
	if err := c.get(ctx, "/user/me", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateProfileRequest represents a profile update
type UpdateProfileRequest struct {
	Avatar *string `json:"avatar,omitempty"`
	Bio    *string `json:"bio,omitempty"`
}

// UpdateProfile updates the authenticated user's profile
func (c *Client) UpdateProfile(ctx context.Context, req *UpdateProfileRequest) (*UserInfo, error) {
	var result UserInfo
	if err := c.put(ctx, "/user/me", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SetStatus sets the authenticated user's manual status
func (c *Client) SetStatus(ctx context.Context, status string) error {
	return c.put(ctx, "/user/me/status", map[string]string{"status": status}, nil)
}

// UserProfile is another user's public profile
type UserProfile struct {
	User   *UserBrief `json:"user"`
	Bio    string     `json:"bio"`
	Status string     `json:"status"`
}

// GetUser returns another user's public profile with presence
func (c *Client) GetUser(ctx context.Context, userId int64) (*UserProfile, error) {
	var result UserProfile
	if err := c.get(ctx, fmt.Sprintf("/user/%d", userId), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListFriends lists accepted friends with presence
func (c *Client) ListFriends(ctx context.Context) ([]*FriendInfo, error) {
	var result []*FriendInfo
	if err := c.get(ctx, "/friend/list", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// SendFriendRequest sends a friend request by username and discriminator
func (c *Client) SendFriendRequest(ctx context.Context, username, discriminator string) error {
	return c.post(ctx, "/friend/request", map[string]string{
		"username":      username,
		"discriminator": discriminator,
	}, nil)
}

// ListPendingRequests lists friend requests awaiting the user's answer
func (c *Client) ListPendingRequests(ctx context.Context) ([]*FriendRequestInfo, error) {
	var result []*FriendRequestInfo
	if err := c.get(ctx, "/friend/requests", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// RespondFriendRequest accepts or rejects a pending friend request
func (c *Client) RespondFriendRequest(ctx context.Context, requestId int64, accept bool) error {
	return c.post(ctx, fmt.Sprintf("/friend/requests/%d", requestId), map[string]bool{"accept": accept}, nil)
}

// RemoveFriend deletes an accepted friendship
func (c *Client) RemoveFriend(ctx context.Context, friendId int64) error {
	return c.delete(ctx, fmt.Sprintf("/friend/%d", friendId), nil)
}
