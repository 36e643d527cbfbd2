package app

import "github.com/ecolive50-hue/backend/internal/domain"

// Outbound event names. Clients switch on these, so they are part of
// the wire contract and never change casing.
const (
	EventRoomState         = "room-state"
	EventLeaderboardUpdate = "leaderboard-update"
	EventUserMuted         = "user-muted"
	EventUserUnmuted       = "user-unmuted"
	EventGiftReceived      = "gift-received"
	EventCoinUpdate        = "coin-update"
	EventGiftRejected      = "gift-rejected"
)

type MutedUser struct {
	UserID domain.UserID `json:"userId"`
}

type CoinUpdate struct {
	UserID  domain.UserID `json:"userId"`
	Balance int64         `json:"balance"`
}

// GiftRejected goes to the sender's session only, never to the room.
type GiftRejected struct {
	GiftID string `json:"giftId"`
	Reason string `json:"reason"`
}
