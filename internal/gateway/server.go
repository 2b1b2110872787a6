package gateway

import (
	"context"
	"strconv"
	"sync/atomic"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/hertz-contrib/websocket"
	"github.com/mbeoliero/concord/internal/config"
	"github.com/mbeoliero/concord/internal/entity"
	"github.com/mbeoliero/concord/pkg/jwt"
	"github.com/mbeoliero/kit/log"
	"github.com/redis/go-redis/v9"
)

// Gateway owns the registry and presence group and upgrades the three
// socket routes. It is constructed once at process start and injected
// into sessions; registry state never lives in package globals.
type Gateway struct {
	cfg      *config.Config
	registry *Registry
	presence *Presence
	store    MessageStore
	guard    MembershipGuard
	users    UserDirectory
	status   StatusStore

	onlineConnNum atomic.Int64
	maxConnNum    int64
}

// New creates a Gateway
func New(cfg *config.Config, rdb *redis.Client, store MessageStore, guard MembershipGuard, users UserDirectory, status StatusStore) *Gateway {
	return &Gateway{
		cfg:        cfg,
		registry:   NewRegistry(),
		presence:   NewPresence(rdb),
		store:      store,
		guard:      guard,
		users:      users,
		status:     status,
		maxConnNum: cfg.WebSocket.MaxConnNum,
	}
}

// Registry exposes the connection registry for the REST-path fan-out
func (g *Gateway) Registry() *Registry {
	return g.registry
}

// Presence exposes the presence group
func (g *Gateway) Presence() *Presence {
	return g.presence
}

// OnlineConnCount returns the number of live socket connections
func (g *Gateway) OnlineConnCount() int64 {
	return g.onlineConnNum.Load()
}

// authenticate extracts the user identity from the token query
// parameter. Returns 0 for anonymous connections; the session rejects
// those with the unauthenticated close code after the upgrade so the
// client sees a proper close frame.
func (g *Gateway) authenticate(ctx context.Context, c *app.RequestContext) int64 {
	token := c.Query(QueryToken)
	if token == "" {
		return 0
	}
	claims, err := jwt.ParseToken(token, g.cfg.JWT.Secret)
	if err != nil {
		log.CtxDebug(ctx, "socket token validation failed: %v", err)
		return 0
	}
	return claims.UserId
}

func (g *Gateway) pathId(c *app.RequestContext, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// HandleChat upgrades /ws/chat/:conversation_id and runs a ChatSession
func (g *Gateway) HandleChat(ctx context.Context, c *app.RequestContext, upgrader *websocket.HertzUpgrader) {
	if g.onlineConnNum.Load() >= g.maxConnNum {
		c.String(503, "connection limit exceeded")
		return
	}
	conversationId, ok := g.pathId(c, "conversation_id")
	if !ok {
		c.String(400, "invalid conversation id")
		return
	}
	userId := g.authenticate(ctx, c)

	err := upgrader.Upgrade(c, func(wsConn *websocket.Conn) {
		conn := NewHertzConn(wsConn, g.cfg.WebSocket.MaxMessageSize, PongWait, PingPeriod)
		sess := NewChatSession(conn, userId, conversationId, g.registry, g.store, g.guard, g.users)

		g.onlineConnNum.Add(1)
		defer g.onlineConnNum.Add(-1)
		sess.Run(ctx)
	})
	if err != nil {
		log.CtxWarn(ctx, "chat websocket upgrade failed: %v", err)
	}
}

// HandleVoice upgrades /ws/voice/:voice_room_id and runs a VoiceSession
func (g *Gateway) HandleVoice(ctx context.Context, c *app.RequestContext, upgrader *websocket.HertzUpgrader) {
	if g.onlineConnNum.Load() >= g.maxConnNum {
		c.String(503, "connection limit exceeded")
		return
	}
	voiceRoomId, ok := g.pathId(c, "voice_room_id")
	if !ok {
		c.String(400, "invalid voice room id")
		return
	}
	userId := g.authenticate(ctx, c)

	err := upgrader.Upgrade(c, func(wsConn *websocket.Conn) {
		conn := NewHertzConn(wsConn, g.cfg.WebSocket.MaxMessageSize, PongWait, PingPeriod)
		sess := NewVoiceSession(conn, userId, voiceRoomId, g.registry, g.guard)

		g.onlineConnNum.Add(1)
		defer g.onlineConnNum.Add(-1)
		sess.Run(ctx)
	})
	if err != nil {
		log.CtxWarn(ctx, "voice websocket upgrade failed: %v", err)
	}
}

// HandleStatus upgrades /ws/status and runs a StatusSession
func (g *Gateway) HandleStatus(ctx context.Context, c *app.RequestContext, upgrader *websocket.HertzUpgrader) {
	if g.onlineConnNum.Load() >= g.maxConnNum {
		c.String(503, "connection limit exceeded")
		return
	}
	userId := g.authenticate(ctx, c)

	err := upgrader.Upgrade(c, func(wsConn *websocket.Conn) {
		conn := NewHertzConn(wsConn, g.cfg.WebSocket.MaxMessageSize, PongWait, PingPeriod)
		sess := NewStatusSession(conn, userId, g.presence, g.status)

		g.onlineConnNum.Add(1)
		defer g.onlineConnNum.Add(-1)
		sess.Run(ctx)
	})
	if err != nil {
		log.CtxWarn(ctx, "status websocket upgrade failed: %v", err)
	}
}

// BroadcastChatMessage fans a message created on the REST path (file
// uploads, sticker sends) out to the conversation's room. The socket
// path and the request path share this fan-out.
func (g *Gateway) BroadcastChatMessage(conversationId int64, msg *entity.Message, sender *entity.UserBrief) {
	g.registry.Broadcast(ChatRoomKey(conversationId), Encode(NewChatMessagePush(msg, sender)), "")
}

// BroadcastVoiceJoin announces a user joining a voice room
func (g *Gateway) BroadcastVoiceJoin(voiceRoomId int64, user *entity.UserBrief) {
	g.registry.Broadcast(VoiceRoomKey(voiceRoomId), Encode(&UserJoinedPush{
		Type:     PushUserJoined,
		UserId:   user.Id,
		Username: user.DisplayName,
	}), "")
}

// BroadcastVoiceLeave announces a user leaving a voice room
func (g *Gateway) BroadcastVoiceLeave(voiceRoomId, userId int64) {
	g.registry.Broadcast(VoiceRoomKey(voiceRoomId), Encode(&UserLeftPush{
		Type:   PushUserLeft,
		UserId: userId,
	}), "")
}
