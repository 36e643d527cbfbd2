package core

import (
	"testing"

	"github.com/ecolive50-hue/backend/internal/domain"

	"github.com/stretchr/testify/require"
)

// seatCount reports how many slots uid holds; the invariant is <= 1.
func seatCount(r *RoomState, uid domain.UserID) int {
	n := 0
	for _, occ := range r.Snapshot().Seats {
		if occ != nil && *occ == uid {
			n++
		}
	}
	return n
}

func TestTakeSeatPlacesUser(t *testing.T) {
	req := require.New(t)
	r := NewRoomState("r1")

	req.True(r.TakeSeat("u1", 2))
	idx, ok := r.SeatOf("u1")
	req.True(ok)
	req.Equal(2, idx)
}

func TestTakeSeatMovesUserOffOldSlot(t *testing.T) {
	req := require.New(t)
	r := NewRoomState("r1")

	req.True(r.TakeSeat("u1", 0))
	req.True(r.TakeSeat("u1", 5))

	req.Equal(1, seatCount(r, "u1"))
	idx, ok := r.SeatOf("u1")
	req.True(ok)
	req.Equal(5, idx)
}

func TestTakeSeatLastWriterWins(t *testing.T) {
	req := require.New(t)
	r := NewRoomState("r1")

	req.True(r.TakeSeat("u1", 3))
	req.True(r.TakeSeat("u2", 3))

	idx, ok := r.SeatOf("u2")
	req.True(ok)
	req.Equal(3, idx)
	_, ok = r.SeatOf("u1")
	req.False(ok, "evicted occupant should hold no seat")
}

func TestTakeSeatLockedSlot(t *testing.T) {
	req := require.New(t)
	r := NewRoomState("r1")

	req.True(r.ToggleLock(3))
	req.False(r.TakeSeat("u3", 3))
	req.Nil(r.Snapshot().Seats[3])
}

func TestTakeSeatOutOfRange(t *testing.T) {
	req := require.New(t)
	r := NewRoomState("r1")

	req.False(r.TakeSeat("u1", -1))
	req.False(r.TakeSeat("u1", domain.NumSeats))
	req.Equal(0, seatCount(r, "u1"))
}

func TestLockKeepsOccupant(t *testing.T) {
	req := require.New(t)
	r := NewRoomState("r1")

	req.True(r.TakeSeat("u1", 1))
	req.True(r.ToggleLock(1))

	snap := r.Snapshot()
	req.True(snap.Locked[1])
	req.NotNil(snap.Seats[1])
	req.Equal(domain.UserID("u1"), *snap.Seats[1])

	// Toggling again unlocks.
	req.True(r.ToggleLock(1))
	req.False(r.Snapshot().Locked[1])
}

func TestToggleLockOutOfRange(t *testing.T) {
	req := require.New(t)
	r := NewRoomState("r1")
	req.False(r.ToggleLock(8))
	req.False(r.ToggleLock(-2))
}

func TestLeaveSeat(t *testing.T) {
	req := require.New(t)
	r := NewRoomState("r1")

	req.True(r.TakeSeat("u1", 4))
	req.True(r.LeaveSeat("u1"))
	_, ok := r.SeatOf("u1")
	req.False(ok)

	req.False(r.LeaveSeat("u1"), "leaving twice changes nothing")
}

func TestKickFreesSeatOnly(t *testing.T) {
	req := require.New(t)
	r := NewRoomState("r1")

	req.True(r.TakeSeat("u1", 0))
	r.Mute("u1")
	req.True(r.Kick("u1"))

	_, ok := r.SeatOf("u1")
	req.False(ok)
	// Kick is seat-only: mute state and scores are untouched.
	req.True(r.IsMuted("u1"))

	// Nothing stops the kicked user from sitting back down.
	req.True(r.TakeSeat("u1", 0))
}

func TestMuteIdempotent(t *testing.T) {
	req := require.New(t)
	r := NewRoomState("r1")

	r.Mute("u1")
	r.Mute("u1")
	snap := r.Snapshot()
	req.Equal([]domain.UserID{"u1"}, snap.MutedUsers)
	req.True(r.IsMuted("u1"))

	r.Unmute("u1")
	r.Unmute("u1")
	req.False(r.IsMuted("u1"))
	req.Empty(r.Snapshot().MutedUsers)
}

func TestLeaderboardMonotonic(t *testing.T) {
	req := require.New(t)
	r := NewRoomState("r1")

	r.AddScore("u1", 100)
	r.AddScore("u1", 50)
	r.AddScore("u2", 10)
	r.AddScore("u1", -30) // ignored
	r.AddScore("u1", 0)   // ignored

	lb := r.Leaderboard()
	req.Equal(int64(150), lb["u1"])
	req.Equal(int64(10), lb["u2"])
	for _, score := range lb {
		req.GreaterOrEqual(score, int64(0))
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	req := require.New(t)
	r := NewRoomState("r1")
	req.True(r.TakeSeat("u1", 0))

	snap := r.Snapshot()
	snap.Seats[0] = nil
	snap.Locked[0] = true

	fresh := r.Snapshot()
	req.NotNil(fresh.Seats[0])
	req.False(fresh.Locked[0])

	lb := r.Leaderboard()
	lb["u9"] = 999
	req.NotContains(r.Leaderboard(), domain.UserID("u9"))
}

func TestSeatInvariantUnderMixedOps(t *testing.T) {
	req := require.New(t)
	r := NewRoomState("r1")
	users := []domain.UserID{"a", "b", "c"}

	ops := []func(){
		func() { r.TakeSeat("a", 0) },
		func() { r.TakeSeat("b", 0) },
		func() { r.TakeSeat("a", 7) },
		func() { r.Kick("c") },
		func() { r.TakeSeat("c", 2) },
		func() { r.LeaveSeat("b") },
		func() { r.TakeSeat("c", 7) },
		func() { r.TakeSeat("a", 2) },
	}
	for _, op := range ops {
		op()
		for _, uid := range users {
			req.LessOrEqual(seatCount(r, uid), 1)
		}
	}
}
