package app

import (
	"sync"

	"github.com/ecolive50-hue/backend/internal/core"
	"github.com/ecolive50-hue/backend/internal/domain"
)

// RoomRegistry is the sole authority that creates and indexes
// RoomState instances. Resolve always hands back the same shared
// instance for a given id.
type RoomRegistry struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]*core.RoomState
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{rooms: make(map[domain.RoomID]*core.RoomState)}
}

// Resolve returns the room for id, creating it with default state
// (8 empty unlocked seats, nobody muted, empty leaderboard) if absent.
func (r *RoomRegistry) Resolve(id domain.RoomID) *core.RoomState {
	r.mu.RLock()
	room, ok := r.rooms[id]
	r.mu.RUnlock()
	if ok {
		return room
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if room, ok = r.rooms[id]; ok {
		return room
	}
	room = core.NewRoomState(id)
	r.rooms[id] = room
	return room
}

// Lookup is the non-creating variant, used by seat and moderation
// handlers which must be no-ops on unknown rooms.
func (r *RoomRegistry) Lookup(id domain.RoomID) (*core.RoomState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[id]
	return room, ok
}

type RoomInfo struct {
	ID       domain.RoomID `json:"id"`
	Occupied int           `json:"occupied"`
}

func (r *RoomRegistry) List() []RoomInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]RoomInfo, 0, len(r.rooms))
	for id, room := range r.rooms {
		out = append(out, RoomInfo{ID: id, Occupied: room.OccupiedSeats()})
	}
	return out
}
