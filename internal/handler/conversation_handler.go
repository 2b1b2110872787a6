package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/mbeoliero/concord/internal/middleware"
	"github.com/mbeoliero/concord/internal/service"
	"github.com/mbeoliero/concord/pkg/errcode"
	"github.com/mbeoliero/concord/pkg/response"
)

// ConversationHandler handles conversation and invite requests
type ConversationHandler struct {
	convService   *service.ConversationService
	inviteService *service.InviteService
}

// NewConversationHandler creates a new ConversationHandler
func NewConversationHandler(convService *service.ConversationService, inviteService *service.InviteService) *ConversationHandler {
	return &ConversationHandler{
		convService:   convService,
		inviteService: inviteService,
	}
}

// List lists the authenticated user's conversations
func (h *ConversationHandler) List(ctx context.Context, c *app.RequestContext) {
	infos, err := h.convService.ListConversations(ctx, middleware.GetUserId(c))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, infos)
}

// OpenPrivateRequest represents opening a direct chat
type OpenPrivateRequest struct {
	UserId int64 `json:"user_id"`
}

// OpenPrivate opens (or returns) the private conversation with a friend
func (h *ConversationHandler) OpenPrivate(ctx context.Context, c *app.RequestContext) {
	var req OpenPrivateRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	conv, err := h.convService.GetOrCreatePrivate(ctx, middleware.GetUserId(c), req.UserId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, conv)
}

// CreateGroup creates a group conversation
func (h *ConversationHandler) CreateGroup(ctx context.Context, c *app.RequestContext) {
	var req service.CreateGroupRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	conv, err := h.convService.CreateGroup(ctx, middleware.GetUserId(c), &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, conv)
}

// GetFavorite returns the user's favorites conversation
func (h *ConversationHandler) GetFavorite(ctx context.Context, c *app.RequestContext) {
	conv, err := h.convService.EnsureFavorite(ctx, middleware.GetUserId(c))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, conv)
}

// ListMembers lists participants of a conversation
func (h *ConversationHandler) ListMembers(ctx context.Context, c *app.RequestContext) {
	convId, ok := paramId(c, "conversation_id")
	if !ok {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	members, err := h.convService.ListMembers(ctx, middleware.GetUserId(c), convId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, members)
}

// PinChatRequest represents pinning a chat in the user's list
type PinChatRequest struct {
	Pinned bool `json:"pinned"`
}

// PinChat pins or unpins the conversation in the user's chat list
func (h *ConversationHandler) PinChat(ctx context.Context, c *app.RequestContext) {
	convId, ok := paramId(c, "conversation_id")
	if !ok {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	var req PinChatRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	if err := h.convService.SetChatPinned(ctx, middleware.GetUserId(c), convId, req.Pinned); err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, nil)
}

// MarkReadRequest represents moving the read marker
type MarkReadRequest struct {
	MessageId int64 `json:"message_id"`
}

// MarkRead moves the user's read marker in a conversation
func (h *ConversationHandler) MarkRead(ctx context.Context, c *app.RequestContext) {
	convId, ok := paramId(c, "conversation_id")
	if !ok {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	var req MarkReadRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	if err := h.convService.MarkRead(ctx, middleware.GetUserId(c), convId, req.MessageId); err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, nil)
}

// Leave removes the user from a conversation
func (h *ConversationHandler) Leave(ctx context.Context, c *app.RequestContext) {
	convId, ok := paramId(c, "conversation_id")
	if !ok {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	if err := h.convService.LeaveConversation(ctx, middleware.GetUserId(c), convId); err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, nil)
}

// CreateInvite mints an invite link for a group conversation
func (h *ConversationHandler) CreateInvite(ctx context.Context, c *app.RequestContext) {
	var req service.CreateInviteRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	invite, err := h.inviteService.CreateInvite(ctx, middleware.GetUserId(c), &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, invite)
}

// PreviewInvite shows what a token opens without consuming it
func (h *ConversationHandler) PreviewInvite(ctx context.Context, c *app.RequestContext) {
	token := c.Param("token")
	if token == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	invite, conv, err := h.inviteService.PreviewInvite(ctx, token)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, map[string]interface{}{
		"invite":       invite,
		"conversation": conv,
	})
}

// ConsumeInvite redeems a token and joins the conversation
func (h *ConversationHandler) ConsumeInvite(ctx context.Context, c *app.RequestContext) {
	token := c.Param("token")
	if token == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	conv, err := h.inviteService.ConsumeInvite(ctx, middleware.GetUserId(c), token)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, conv)
}

// ListInvites lists invites of a conversation
func (h *ConversationHandler) ListInvites(ctx context.Context, c *app.RequestContext) {
	convId, ok := paramId(c, "conversation_id")
	if !ok {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	invites, err := h.inviteService.ListInvites(ctx, middleware.GetUserId(c), convId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, invites)
}

// RevokeInvite deletes an invite token
func (h *ConversationHandler) RevokeInvite(ctx context.Context, c *app.RequestContext) {
	token := c.Param("token")
	if token == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	if err := h.inviteService.RevokeInvite(ctx, middleware.GetUserId(c), token); err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, nil)
}
