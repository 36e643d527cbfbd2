package signal

import (
	"github.com/ecolive50-hue/backend/internal/core"
	"github.com/ecolive50-hue/backend/internal/domain"
)

func (ctl *Controller) handleSendGift(sid core.SessionID, c *wsConn, data []byte) {
	var p struct {
		RoomID string `json:"roomId" validate:"required"`
		From   string `json:"from" validate:"required"`
		To     string `json:"to" validate:"required"`
		GiftID string `json:"giftId" validate:"required"`
		Price  int64  `json:"price" validate:"gt=0"`
	}
	if !ctl.decode(c, data, &p) {
		return
	}
	gift := domain.Gift{
		From:   domain.UserID(p.From),
		To:     domain.UserID(p.To),
		GiftID: p.GiftID,
		Price:  p.Price,
	}
	// Rejections are reported to the sender inside SendGift; the
	// room never hears about a failed gift.
	_ = ctl.Orch.SendGift(sid, domain.RoomID(p.RoomID), gift)
}
