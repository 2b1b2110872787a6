package handler

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/mbeoliero/concord/internal/middleware"
	"github.com/mbeoliero/concord/internal/service"
	"github.com/mbeoliero/concord/pkg/errcode"
	"github.com/mbeoliero/concord/pkg/response"
)

// UserHandler handles user profile and friendship requests
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// paramId parses an int64 path parameter
func paramId(c *app.RequestContext, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Me returns the authenticated user's profile
func (h *UserHandler) Me(ctx context.Context, c *app.RequestContext) {
	user, err := h.userService.GetUser(ctx, middleware.GetUserId(c))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, user)
}

// UpdateProfile updates the authenticated user's profile
func (h *UserHandler) UpdateProfile(ctx context.Context, c *app.RequestContext) {
	var req service.UpdateProfileRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	user, err := h.userService.UpdateProfile(ctx, middleware.GetUserId(c), &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, user)
}

// GetUser returns another user's public profile with presence
func (h *UserHandler) GetUser(ctx context.Context, c *app.RequestContext) {
	userId, ok := paramId(c, "user_id")
	if !ok {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	user, err := h.userService.GetUser(ctx, userId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, map[string]interface{}{
		"user":   user.Brief(),
		"bio":    user.Bio,
		"status": h.userService.EffectiveStatus(ctx, user),
	})
}

// SetStatusRequest represents a manual status change
type SetStatusRequest struct {
	Status string `json:"status"`
}

// SetStatus sets the authenticated user's manual status
func (h *UserHandler) SetStatus(ctx context.Context, c *app.RequestContext) {
	var req SetStatusRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	if err := h.userService.SetManualStatus(ctx, middleware.GetUserId(c), req.Status); err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, nil)
}

// ListFriends lists accepted friends with presence
func (h *UserHandler) ListFriends(ctx context.Context, c *app.RequestContext) {
	friends, err := h.userService.ListFriends(ctx, middleware.GetUserId(c))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, friends)
}

// FriendRequest represents sending a friend request by display name
type FriendRequest struct {
	Username      string `json:"username"`
	Discriminator string `json:"discriminator"`
}

// SendFriendRequest sends a friend request
func (h *UserHandler) SendFriendRequest(ctx context.Context, c *app.RequestContext) {
	var req FriendRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	f, err := h.userService.SendFriendRequest(ctx, middleware.GetUserId(c), req.Username, req.Discriminator)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, f)
}

// ListPendingRequests lists friend requests awaiting the user's answer
func (h *UserHandler) ListPendingRequests(ctx context.Context, c *app.RequestContext) {
	pending, err := h.userService.ListPendingRequests(ctx, middleware.GetUserId(c))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, pending)
}

// RespondFriendRequestBody represents accepting or rejecting a request
type RespondFriendRequestBody struct {
	Accept bool `json:"accept"`
}

// RespondFriendRequest accepts or rejects a pending friend request
func (h *UserHandler) RespondFriendRequest(ctx context.Context, c *app.RequestContext) {
	requestId, ok := paramId(c, "request_id")
	if !ok {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	var req RespondFriendRequestBody
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	f, err := h.userService.RespondFriendRequest(ctx, middleware.GetUserId(c), requestId, req.Accept)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, f)
}

// RemoveFriend deletes an accepted friendship
func (h *UserHandler) RemoveFriend(ctx context.Context, c *app.RequestContext) {
	friendId, ok := paramId(c, "friend_id")
	if !ok {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	if err := h.userService.RemoveFriend(ctx, middleware.GetUserId(c), friendId); err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, nil)
}
