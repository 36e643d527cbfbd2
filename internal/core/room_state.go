package core

import (
	"sort"
	"sync"

	"github.com/ecolive50-hue/backend/internal/domain"

	"github.com/rs/zerolog/log"
)

// RoomState is the seat/lock/mute state machine for one room.
// It is a threadsafe in-memory value holder with guarded mutators;
// every mutator is atomic with respect to the room, so no caller can
// observe a half-applied seat move. Broadcasting is the caller's job.
type RoomState struct {
	id domain.RoomID

	mu     sync.RWMutex
	seats  [domain.NumSeats]domain.UserID // empty string means free
	locked [domain.NumSeats]bool
	muted  map[domain.UserID]struct{}
	scores map[domain.UserID]int64
}

func NewRoomState(id domain.RoomID) *RoomState {
	return &RoomState{
		id:     id,
		muted:  make(map[domain.UserID]struct{}),
		scores: make(map[domain.UserID]int64),
	}
}

func (r *RoomState) ID() domain.RoomID { return r.id }

// TakeSeat seats uid at idx, vacating any seat uid already holds first
// so a user never occupies two slots. The current occupant of idx is
// overwritten without notice: last writer wins. Returns false without
// mutating on an out-of-range index or a locked slot.
func (r *RoomState) TakeSeat(uid domain.UserID, idx int) bool {
	if idx < 0 || idx >= domain.NumSeats {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.locked[idx] {
		return false
	}
	for i, occupant := range r.seats {
		if occupant == uid {
			r.seats[i] = ""
		}
	}
	r.seats[idx] = uid
	log.Debug().Str("module", "core.room").Str("room", string(r.id)).Str("user", string(uid)).Int("seat", idx).Msg("seat taken")
	return true
}

// LeaveSeat vacates whichever slot uid holds. Returns whether a slot
// actually changed.
func (r *RoomState) LeaveSeat(uid domain.UserID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	changed := false
	for i, occupant := range r.seats {
		if occupant == uid {
			r.seats[i] = ""
			changed = true
		}
	}
	return changed
}

// ToggleLock flips the lock on idx. A locked slot rejects new
// occupants but keeps its current one. Returns false on an
// out-of-range index.
func (r *RoomState) ToggleLock(idx int) bool {
	if idx < 0 || idx >= domain.NumSeats {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locked[idx] = !r.locked[idx]
	return true
}

// Kick frees uid's seat. The user's subscription survives: a kicked
// user keeps receiving room events and may sit down again.
func (r *RoomState) Kick(uid domain.UserID) bool {
	return r.LeaveSeat(uid)
}

// Mute and Unmute are idempotent set operations. Mute state is
// advisory: the transport consults IsMuted before relaying audio or
// chat, the room itself suppresses nothing.
func (r *RoomState) Mute(uid domain.UserID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.muted[uid] = struct{}{}
}

func (r *RoomState) Unmute(uid domain.UserID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.muted, uid)
}

func (r *RoomState) IsMuted(uid domain.UserID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.muted[uid]
	return ok
}

// AddScore accumulates gift value for uid on this room's leaderboard.
// Scores only ever grow; there is no decrement operation.
func (r *RoomState) AddScore(uid domain.UserID, amount int64) {
	if amount <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scores[uid] += amount
}

// SeatOf reports the slot uid occupies, if any.
func (r *RoomState) SeatOf(uid domain.UserID) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i, occupant := range r.seats {
		if occupant == uid {
			return i, true
		}
	}
	return 0, false
}

// RoomSnapshot is a read-only full-state view for broadcast. Free
// seats marshal as null so clients can index the array directly.
type RoomSnapshot struct {
	Seats      []*domain.UserID `json:"seats"`
	Locked     []bool           `json:"locked"`
	MutedUsers []domain.UserID  `json:"mutedUsers"`
}

func (r *RoomState) Snapshot() RoomSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snap := RoomSnapshot{
		Seats:      make([]*domain.UserID, domain.NumSeats),
		Locked:     make([]bool, domain.NumSeats),
		MutedUsers: make([]domain.UserID, 0, len(r.muted)),
	}
	for i, occupant := range r.seats {
		if occupant != "" {
			uid := occupant
			snap.Seats[i] = &uid
		}
		snap.Locked[i] = r.locked[i]
	}
	for uid := range r.muted {
		snap.MutedUsers = append(snap.MutedUsers, uid)
	}
	sort.Slice(snap.MutedUsers, func(i, j int) bool { return snap.MutedUsers[i] < snap.MutedUsers[j] })
	return snap
}

// Leaderboard returns a copy of the full score mapping.
func (r *RoomState) Leaderboard() map[domain.UserID]int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[domain.UserID]int64, len(r.scores))
	for uid, score := range r.scores {
		out[uid] = score
	}
	return out
}

// OccupiedSeats counts non-empty slots, for the rooms listing API.
func (r *RoomState) OccupiedSeats() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, occupant := range r.seats {
		if occupant != "" {
			n++
		}
	}
	return n
}
