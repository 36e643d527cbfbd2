package domain

// Gift is one transfer of coins into a room's leaderboard. The sender
// pays Price; the recipient gains score, never coins.
type Gift struct {
	From   UserID `json:"from"`
	To     UserID `json:"to"`
	GiftID string `json:"giftId"`
	Price  int64  `json:"price"`
}
