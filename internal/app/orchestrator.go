package app

import (
	"errors"

	"github.com/ecolive50-hue/backend/internal/core"
	"github.com/ecolive50-hue/backend/internal/domain"

	"github.com/rs/zerolog/log"
)

// Orchestrator applies inbound client actions to room and ledger
// state, then fans the resulting events out through the hub. One
// method per inbound event; each method runs its read-modify-write
// to completion before any broadcast leaves, so subscribers never
// observe a half-applied action.
type Orchestrator struct {
	Rooms  *RoomRegistry
	Ledger *core.UserLedger
	Hub    *BroadcastHub
}

// JoinRoom subscribes the session and lazily creates room and ledger
// entries, then pushes the full room state and leaderboard to every
// subscriber so late joiners and the room converge on one view.
func (o *Orchestrator) JoinRoom(sid core.SessionID, roomID domain.RoomID, uid domain.UserID) {
	room := o.Rooms.Resolve(roomID)
	o.Ledger.Ensure(uid)
	o.Hub.Subscribe(sid, roomID)
	log.Info().Str("module", "app.orchestrator").Str("sid", string(sid)).Str("room", string(roomID)).Str("user", string(uid)).Msg("joined room")

	o.Hub.Publish(roomID, EventRoomState, room.Snapshot())
	o.Hub.Publish(roomID, EventLeaderboardUpdate, room.Leaderboard())
}

// TakeSeat seats the user if the slot exists and is unlocked.
// Unknown rooms and refused claims are silent no-ops: nothing is
// broadcast, the claimant simply sees no state change.
func (o *Orchestrator) TakeSeat(roomID domain.RoomID, uid domain.UserID, idx int) {
	room, ok := o.Rooms.Lookup(roomID)
	if !ok {
		return
	}
	if !room.TakeSeat(uid, idx) {
		return
	}
	o.Hub.Publish(roomID, EventRoomState, room.Snapshot())
}

func (o *Orchestrator) LeaveSeat(roomID domain.RoomID, uid domain.UserID) {
	room, ok := o.Rooms.Lookup(roomID)
	if !ok {
		return
	}
	room.LeaveSeat(uid)
	o.Hub.Publish(roomID, EventRoomState, room.Snapshot())
}

func (o *Orchestrator) LockSeat(roomID domain.RoomID, idx int) {
	room, ok := o.Rooms.Lookup(roomID)
	if !ok {
		return
	}
	if !room.ToggleLock(idx) {
		return
	}
	o.Hub.Publish(roomID, EventRoomState, room.Snapshot())
}

// KickUser frees the target's seat. The target's subscription stays
// intact: they keep receiving events and may retake a seat.
func (o *Orchestrator) KickUser(roomID domain.RoomID, uid domain.UserID) {
	room, ok := o.Rooms.Lookup(roomID)
	if !ok {
		return
	}
	room.Kick(uid)
	log.Info().Str("module", "app.orchestrator").Str("room", string(roomID)).Str("user", string(uid)).Msg("user kicked")
	o.Hub.Publish(roomID, EventRoomState, room.Snapshot())
}

func (o *Orchestrator) MuteUser(roomID domain.RoomID, uid domain.UserID) {
	room, ok := o.Rooms.Lookup(roomID)
	if !ok {
		return
	}
	room.Mute(uid)
	o.Hub.Publish(roomID, EventUserMuted, MutedUser{UserID: uid})
}

func (o *Orchestrator) UnmuteUser(roomID domain.RoomID, uid domain.UserID) {
	room, ok := o.Rooms.Lookup(roomID)
	if !ok {
		return
	}
	room.Unmute(uid)
	o.Hub.Publish(roomID, EventUserUnmuted, MutedUser{UserID: uid})
}

// SendGift debits the sender and credits the room leaderboard for the
// recipient; the recipient's own balance never moves. A rejected gift
// mutates nothing and the room hears nothing about it, only the
// sender's session gets a rejection notice. On success the room
// receives, in order: gift-received, coin-update for the sender,
// leaderboard-update. Clients animate the gift off the first event
// before the scoreboard moves.
func (o *Orchestrator) SendGift(sid core.SessionID, roomID domain.RoomID, gift domain.Gift) error {
	room := o.Rooms.Resolve(roomID)
	if err := o.Ledger.Debit(gift.From, gift.Price); err != nil {
		log.Info().Str("module", "app.orchestrator").Str("room", string(roomID)).Str("from", string(gift.From)).Int64("price", gift.Price).Err(err).Msg("gift rejected")
		o.Hub.SendTo(sid, EventGiftRejected, GiftRejected{GiftID: gift.GiftID, Reason: rejectionReason(err)})
		return err
	}
	room.AddScore(gift.To, gift.Price)

	o.Hub.Publish(roomID, EventGiftReceived, gift)
	o.Hub.Publish(roomID, EventCoinUpdate, CoinUpdate{UserID: gift.From, Balance: o.Ledger.BalanceOf(gift.From)})
	o.Hub.Publish(roomID, EventLeaderboardUpdate, room.Leaderboard())
	return nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, core.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, core.ErrInvalidAmount):
		return "invalid_price"
	default:
		return "rejected"
	}
}
