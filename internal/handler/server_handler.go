package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/mbeoliero/concord/internal/middleware"
	"github.com/mbeoliero/concord/internal/service"
	"github.com/mbeoliero/concord/pkg/errcode"
	"github.com/mbeoliero/concord/pkg/response"
)

// ServerHandler handles community server requests
type ServerHandler struct {
	serverService *service.ServerService
}

// NewServerHandler creates a new ServerHandler
func NewServerHandler(serverService *service.ServerService) *ServerHandler {
	return &ServerHandler{serverService: serverService}
}

// CreateServerRequest represents server creation
type CreateServerRequest struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// Create creates a community server
func (h *ServerHandler) Create(ctx context.Context, c *app.RequestContext) {
	var req CreateServerRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	srv, err := h.serverService.CreateServer(ctx, middleware.GetUserId(c), req.Name, req.Avatar)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, srv)
}

// List lists servers the user belongs to
func (h *ServerHandler) List(ctx context.Context, c *app.RequestContext) {
	servers, err := h.serverService.ListServers(ctx, middleware.GetUserId(c))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, servers)
}

// Join adds the user to a server
func (h *ServerHandler) Join(ctx context.Context, c *app.RequestContext) {
	serverId, ok := paramId(c, "server_id")
	if !ok {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	if err := h.serverService.JoinServer(ctx, middleware.GetUserId(c), serverId); err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, nil)
}

// ListChannels lists channels of a server
func (h *ServerHandler) ListChannels(ctx context.Context, c *app.RequestContext) {
	serverId, ok := paramId(c, "server_id")
	if !ok {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	channels, err := h.serverService.ListChannels(ctx, middleware.GetUserId(c), serverId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, channels)
}

// CreateChannelRequest represents channel creation
type CreateChannelRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Position int    `json:"position"`
}

// CreateChannel adds a channel to a server
func (h *ServerHandler) CreateChannel(ctx context.Context, c *app.RequestContext) {
	serverId, ok := paramId(c, "server_id")
	if !ok {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	var req CreateChannelRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	ch, err := h.serverService.CreateChannel(ctx, middleware.GetUserId(c), serverId, req.Name, req.Type, req.Position)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, ch)
}
