package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/mbeoliero/concord/internal/middleware"
	"github.com/mbeoliero/concord/internal/service"
	"github.com/mbeoliero/concord/pkg/errcode"
	"github.com/mbeoliero/concord/pkg/response"
)

// VoiceHandler handles voice room membership requests
type VoiceHandler struct {
	voiceService *service.VoiceService
}

// NewVoiceHandler creates a new VoiceHandler
func NewVoiceHandler(voiceService *service.VoiceService) *VoiceHandler {
	return &VoiceHandler{voiceService: voiceService}
}

// GetRoom resolves the voice room backing a conversation
func (h *VoiceHandler) GetRoom(ctx context.Context, c *app.RequestContext) {
	convId, ok := paramId(c, "conversation_id")
	if !ok {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	room, err := h.voiceService.GetRoomForConversation(ctx, middleware.GetUserId(c), convId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, room)
}

// Join adds the user to a voice room's active set
func (h *VoiceHandler) Join(ctx context.Context, c *app.RequestContext) {
	roomId, ok := paramId(c, "voice_room_id")
	if !ok {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	room, err := h.voiceService.JoinRoom(ctx, middleware.GetUserId(c), roomId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, room)
}

// Leave removes the user from a voice room's active set
func (h *VoiceHandler) Leave(ctx context.Context, c *app.RequestContext) {
	roomId, ok := paramId(c, "voice_room_id")
	if !ok {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	if err := h.voiceService.LeaveRoom(ctx, middleware.GetUserId(c), roomId); err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, nil)
}

// Members lists users currently in a voice room
func (h *VoiceHandler) Members(ctx context.Context, c *app.RequestContext) {
	roomId, ok := paramId(c, "voice_room_id")
	if !ok {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	members, err := h.voiceService.ListMembers(ctx, middleware.GetUserId(c), roomId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, members)
}
