package gateway

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/mbeoliero/kit/log"
)

// RoomKey identifies a broadcast group, namespaced by kind
type RoomKey string

// ChatRoomKey returns the room key for a text conversation
func ChatRoomKey(conversationId int64) RoomKey {
	return RoomKey(fmt.Sprintf("chat:%d", conversationId))
}

// VoiceRoomKey returns the room key for a voice room
func VoiceRoomKey(voiceRoomId int64) RoomKey {
	return RoomKey(fmt.Sprintf("voice:%d", voiceRoomId))
}

// Handle is one live connection as seen by the registry. A handle is
// owned by exactly one session for its lifetime.
type Handle struct {
	Id   string
	conn Conn
}

// NewHandle creates a handle wrapping the given connection
func NewHandle(conn Conn) *Handle {
	return &Handle{Id: uuid.New().String(), conn: conn}
}

// Send enqueues payload on the handle's connection
func (h *Handle) Send(payload []byte) error {
	return h.conn.WriteMessage(payload)
}

// Registry is the process-wide table of room memberships. It is
// created once at startup and injected into sessions; all access is
// behind one mutex so that broadcasts within a room observe a single
// total order.
type Registry struct {
	mu          sync.Mutex
	rooms       map[RoomKey]map[string]*Handle
	handleRooms map[string]map[RoomKey]struct{}
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		rooms:       make(map[RoomKey]map[string]*Handle),
		handleRooms: make(map[string]map[RoomKey]struct{}),
	}
}

// Join adds the handle to the room. Duplicate joins are no-ops.
func (r *Registry) Join(room RoomKey, h *Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[room]
	if !ok {
		members = make(map[string]*Handle)
		r.rooms[room] = members
	}
	members[h.Id] = h

	joined, ok := r.handleRooms[h.Id]
	if !ok {
		joined = make(map[RoomKey]struct{})
		r.handleRooms[h.Id] = joined
	}
	joined[room] = struct{}{}
}

// Leave removes the handle from the room. Leaving a room the handle
// never joined is a no-op.
func (r *Registry) Leave(room RoomKey, h *Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(room, h.Id)
}

// LeaveAll removes the handle from every room it joined. Called on
// disconnect so cleanup is guaranteed regardless of how far admission got.
func (r *Registry) LeaveAll(h *Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for room := range r.handleRooms[h.Id] {
		r.removeLocked(room, h.Id)
	}
}

func (r *Registry) removeLocked(room RoomKey, handleId string) {
	if members, ok := r.rooms[room]; ok {
		delete(members, handleId)
		if len(members) == 0 {
			delete(r.rooms, room)
		}
	}
	if joined, ok := r.handleRooms[handleId]; ok {
		delete(joined, room)
		if len(joined) == 0 {
			delete(r.handleRooms, handleId)
		}
	}
}

// Broadcast delivers payload to every current member of the room except
// the optionally excluded handle. Enqueueing happens under the registry
// lock, so all members observe broadcasts to one room in the same order.
// A member whose send fails is treated as implicitly disconnected and is
// removed from every room. Returns the number of successful deliveries.
func (r *Registry) Broadcast(room RoomKey, payload []byte, excludeId string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[room]
	if !ok {
		return 0
	}

	var dead []string
	sent := 0
	for id, h := range members {
		if excludeId != "" && id == excludeId {
			continue
		}
		if err := h.Send(payload); err != nil {
			log.Debug("broadcast to handle failed: room=%s, handle=%s, error=%v", room, id, err)
			dead = append(dead, id)
			continue
		}
		sent++
	}

	for _, id := range dead {
		for joined := range r.handleRooms[id] {
			r.removeLocked(joined, id)
		}
	}

	return sent
}

// MemberCount returns the number of handles currently in the room
func (r *Registry) MemberCount(room RoomKey) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms[room])
}

// Contains reports whether the handle is currently a member of the room
func (r *Registry) Contains(room RoomKey, handleId string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rooms[room][handleId]
	return ok
}
