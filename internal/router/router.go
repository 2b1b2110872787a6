package router

import (
	"context"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/websocket"
	"github.com/mbeoliero/concord/internal/config"
	"github.com/mbeoliero/concord/internal/gateway"
	"github.com/mbeoliero/concord/internal/handler"
	"github.com/mbeoliero/concord/internal/middleware"
)

// SetupRouter sets up all routes
func SetupRouter(h *server.Hertz, handlers *Handlers, gw *gateway.Gateway) {
	cfg := config.GlobalConfig

	// CORS middleware
	h.Use(middleware.CORS())

	// Health check
	h.GET("/health", func(ctx context.Context, c *app.RequestContext) {
		c.JSON(consts.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth routes (no auth required)
	authGroup := h.Group("/auth")
	{
		authGroup.POST("/register", handlers.Auth.Register)
		authGroup.POST("/login", handlers.Auth.Login)
		authGroup.POST("/logout", middleware.JWTAuth(), handlers.Auth.Logout)
	}

	// User routes (auth required)
	userGroup := h.Group("/user", middleware.JWTAuth())
	{
		userGroup.GET("/me", handlers.User.Me)
		userGroup.PUT("/me", handlers.User.UpdateProfile)
		userGroup.PUT("/me/status", handlers.User.SetStatus)
		userGroup.GET("/:user_id", handlers.User.GetUser)
	}

	// Friend routes (auth required)
	friendGroup := h.Group("/friend", middleware.JWTAuth())
	{
		friendGroup.GET("/list", handlers.User.ListFriends)
		friendGroup.POST("/request", handlers.User.SendFriendRequest)
		friendGroup.GET("/requests", handlers.User.ListPendingRequests)
		friendGroup.POST("/requests/:request_id", handlers.User.RespondFriendRequest)
		friendGroup.DELETE("/:friend_id", handlers.User.RemoveFriend)
	}

	// Conversation routes (auth required)
	convGroup := h.Group("/conversation", middleware.JWTAuth())
	{
		convGroup.GET("/list", handlers.Conversation.List)
		convGroup.POST("/private", handlers.Conversation.OpenPrivate)
		convGroup.POST("/group", handlers.Conversation.CreateGroup)
		convGroup.GET("/favorite", handlers.Conversation.GetFavorite)
		convGroup.GET("/:conversation_id/members", handlers.Conversation.ListMembers)
		convGroup.PUT("/:conversation_id/pin", handlers.Conversation.PinChat)
		convGroup.POST("/:conversation_id/read", handlers.Conversation.MarkRead)
		convGroup.DELETE("/:conversation_id", handlers.Conversation.Leave)
		convGroup.GET("/:conversation_id/invites", handlers.Conversation.ListInvites)
	}

	// Invite routes (auth required)
	inviteGroup := h.Group("/invite", middleware.JWTAuth())
	{
		inviteGroup.POST("/create", handlers.Conversation.CreateInvite)
		inviteGroup.GET("/:token", handlers.Conversation.PreviewInvite)
		inviteGroup.POST("/:token/join", handlers.Conversation.ConsumeInvite)
		inviteGroup.DELETE("/:token", handlers.Conversation.RevokeInvite)
	}

	// Message routes (auth required)
	msgGroup := h.Group("/msg", middleware.JWTAuth())
	{
		msgGroup.GET("/stickers", handlers.Message.ListStickers)
		msgGroup.GET("/:conversation_id/history", handlers.Message.History)
		msgGroup.GET("/:conversation_id/pinned", handlers.Message.GetPinned)
		msgGroup.POST("/:conversation_id/file", handlers.Message.SendFile)
		msgGroup.POST("/:conversation_id/sticker", handlers.Message.SendSticker)
	}

	// Voice routes (auth required)
	voiceGroup := h.Group("/voice", middleware.JWTAuth())
	{
		voiceGroup.GET("/conversation/:conversation_id", handlers.Voice.GetRoom)
		voiceGroup.POST("/:voice_room_id/join", handlers.Voice.Join)
		voiceGroup.POST("/:voice_room_id/leave", handlers.Voice.Leave)
		voiceGroup.GET("/:voice_room_id/members", handlers.Voice.Members)
	}

	// Server routes (auth required)
	serverGroup := h.Group("/server", middleware.JWTAuth())
	{
		serverGroup.POST("/create", handlers.Server.Create)
		serverGroup.GET("/list", handlers.Server.List)
		serverGroup.POST("/:server_id/join", handlers.Server.Join)
		serverGroup.GET("/:server_id/channels", handlers.Server.ListChannels)
		serverGroup.POST("/:server_id/channels", handlers.Server.CreateChannel)
	}

	// WebSocket routes using hertz-contrib/websocket with origin validation.
	// Auth happens inside the upgrade handlers so a bad token closes the
	// socket with a close code instead of failing the HTTP handshake.
	allowedOrigins := cfg.Server.AllowedOrigins
	upgrader := &websocket.HertzUpgrader{
		CheckOrigin: func(ctx *app.RequestContext) bool {
			return checkOrigin(ctx, allowedOrigins)
		},
	}

	h.GET("/ws/chat/:conversation_id", func(ctx context.Context, c *app.RequestContext) {
		gw.HandleChat(ctx, c, upgrader)
	})
	h.GET("/ws/voice/:voice_room_id", func(ctx context.Context, c *app.RequestContext) {
		gw.HandleVoice(ctx, c, upgrader)
	})
	h.GET("/ws/status", func(ctx context.Context, c *app.RequestContext) {
		gw.HandleStatus(ctx, c, upgrader)
	})
}

// checkOrigin validates the Origin header against allowed origins
func checkOrigin(ctx *app.RequestContext, allowedOrigins []string) bool {
	origin := string(ctx.Request.Header.Peek("Origin"))

	// If no origin header, allow (same-origin request or non-browser client)
	if origin == "" {
		return true
	}

	// If no allowed origins configured, reject all cross-origin requests in production
	if len(allowedOrigins) == 0 {
		return false
	}

	// Check against allowed origins
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			// Wildcard - allow all (only use in development!)
			return true
		}
		if strings.EqualFold(origin, allowed) {
			return true
		}
	}

	return false
}

// Handlers holds all HTTP handlers
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Conversation *handler.ConversationHandler
	Message      *handler.MessageHandler
	Voice        *handler.VoiceHandler
	Server       *handler.ServerHandler
}
