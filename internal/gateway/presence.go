package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mbeoliero/concord/pkg/constant"
	"github.com/redis/go-redis/v9"
)

// Presence maps a user id to that user's live status connections, used
// for direct pushes independent of room membership. Online state is
// mirrored into Redis with a TTL so other instances can read it.
type Presence struct {
	mu    sync.RWMutex
	users map[int64][]*Handle
	rdb   *redis.Client
}

// NewPresence creates a new Presence group
func NewPresence(rdb *redis.Client) *Presence {
	return &Presence{
		users: make(map[int64][]*Handle),
		rdb:   rdb,
	}
}

// Join registers a handle for the user. Returns true if this is the
// user's first live connection.
func (p *Presence) Join(ctx context.Context, userId int64, h *Handle) bool {
	p.mu.Lock()
	first := len(p.users[userId]) == 0
	p.users[userId] = append(p.users[userId], h)
	p.mu.Unlock()

	p.setOnline(ctx, userId)
	return first
}

// Leave removes a handle for the user. Returns true if the user has no
// connections left.
func (p *Presence) Leave(ctx context.Context, userId int64, h *Handle) bool {
	p.mu.Lock()
	handles := p.users[userId]
	kept := handles[:0]
	for _, other := range handles {
		if other.Id != h.Id {
			kept = append(kept, other)
		}
	}
	last := len(kept) == 0
	if last {
		delete(p.users, userId)
	} else {
		p.users[userId] = kept
	}
	p.mu.Unlock()

	if last {
		p.setOffline(ctx, userId)
	}
	return last
}

// SendToUser delivers payload to every live connection of the user.
// Returns the number of deliveries; an offline user is a no-op.
func (p *Presence) SendToUser(userId int64, payload []byte) int {
	p.mu.RLock()
	handles := make([]*Handle, len(p.users[userId]))
	copy(handles, p.users[userId])
	p.mu.RUnlock()

	sent := 0
	for _, h := range handles {
		if err := h.Send(payload); err == nil {
			sent++
		}
	}
	return sent
}

// HasConnection checks if the user has any live connection on this instance
func (p *Presence) HasConnection(userId int64) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.users[userId]) > 0
}

// IsOnline checks local connections first, then Redis for other instances
func (p *Presence) IsOnline(ctx context.Context, userId int64) bool {
	if p.HasConnection(userId) {
		return true
	}
	if p.rdb != nil {
		key := fmt.Sprintf(constant.RedisKeyOnline(), userId)
		exists, _ := p.rdb.Exists(ctx, key).Result()
		return exists > 0
	}
	return false
}

// RefreshOnlineStatus extends the online TTL for a still-connected user
func (p *Presence) RefreshOnlineStatus(ctx context.Context, userId int64) {
	if p.rdb == nil {
		return
	}
	if p.HasConnection(userId) {
		key := fmt.Sprintf(constant.RedisKeyOnline(), userId)
		p.rdb.Expire(ctx, key, 60*time.Second)
	}
}

func (p *Presence) setOnline(ctx context.Context, userId int64) {
	if p.rdb == nil {
		return
	}
	key := fmt.Sprintf(constant.RedisKeyOnline(), userId)
	p.rdb.Set(ctx, key, "1", 60*time.Second)
}

func (p *Presence) setOffline(ctx context.Context, userId int64) {
	if p.rdb == nil {
		return
	}
	key := fmt.Sprintf(constant.RedisKeyOnline(), userId)
	p.rdb.Del(ctx, key)
}
