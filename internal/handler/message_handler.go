package handler

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/mbeoliero/concord/internal/config"
	"github.com/mbeoliero/concord/internal/entity"
	"github.com/mbeoliero/concord/internal/middleware"
	"github.com/mbeoliero/concord/internal/service"
	"github.com/mbeoliero/concord/pkg/errcode"
	"github.com/mbeoliero/concord/pkg/response"
)

// MessageHandler handles message history and rich message requests
type MessageHandler struct {
	msgService *service.MessageService
	cfg        *config.Config
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(msgService *service.MessageService, cfg *config.Config) *MessageHandler {
	return &MessageHandler{msgService: msgService, cfg: cfg}
}

// History pages message history of a conversation, newest first
func (h *MessageHandler) History(ctx context.Context, c *app.RequestContext) {
	convId, ok := paramId(c, "conversation_id")
	if !ok {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	before, _ := strconv.ParseInt(c.Query("before"), 10, 64)
	limit, _ := strconv.Atoi(c.Query("limit"))

	msgs, err := h.msgService.ListMessages(ctx, middleware.GetUserId(c), convId, before, limit)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, msgs)
}

// GetPinned returns the conversation's pinned message, null if none
func (h *MessageHandler) GetPinned(ctx context.Context, c *app.RequestContext) {
	convId, ok := paramId(c, "conversation_id")
	if !ok {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	pinned, err := h.msgService.GetPinnedMessage(ctx, middleware.GetUserId(c), convId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, pinned)
}

// SendFile accepts a multipart upload and sends it as a file message
func (h *MessageHandler) SendFile(ctx context.Context, c *app.RequestContext) {
	convId, ok := paramId(c, "conversation_id")
	if !ok {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}
	if fileHeader.Size > h.cfg.Upload.MaxFileSize {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	meta := &entity.FileMeta{
		Name: fileHeader.Filename,
		Size: fileHeader.Size,
		Type: fileHeader.Header.Get("Content-Type"),
	}

	msg, err := h.msgService.SendFileMessage(ctx, middleware.GetUserId(c), convId, meta)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, msg)
}

// SendStickerRequest represents sending a sticker message
type SendStickerRequest struct {
	StickerId int64 `json:"sticker_id"`
}

// SendSticker sends a sticker message into a conversation
func (h *MessageHandler) SendSticker(ctx context.Context, c *app.RequestContext) {
	convId, ok := paramId(c, "conversation_id")
	if !ok {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	var req SendStickerRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	msg, err := h.msgService.SendStickerMessage(ctx, middleware.GetUserId(c), convId, req.StickerId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, msg)
}

// ListStickers lists stickers available to the user
func (h *MessageHandler) ListStickers(ctx context.Context, c *app.RequestContext) {
	stickers, err := h.msgService.ListStickers(ctx, middleware.GetUserId(c))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, stickers)
}
