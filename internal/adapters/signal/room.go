package signal

import (
	"github.com/ecolive50-hue/backend/internal/core"
	"github.com/ecolive50-hue/backend/internal/domain"

	"github.com/rs/zerolog/log"
)

func (ctl *Controller) handleJoinRoom(sid core.SessionID, c *wsConn, data []byte) {
	var p struct {
		RoomID string `json:"roomId" validate:"required"`
		UserID string `json:"userId" validate:"required"`
	}
	if !ctl.decode(c, data, &p) {
		return
	}
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", p.RoomID).Str("user", p.UserID).Msg("join-room")
	ctl.Orch.JoinRoom(sid, domain.RoomID(p.RoomID), domain.UserID(p.UserID))
}

func (ctl *Controller) handleTakeSeat(sid core.SessionID, c *wsConn, data []byte) {
	var p struct {
		RoomID    string `json:"roomId" validate:"required"`
		SeatIndex int    `json:"seatIndex"`
		UserID    string `json:"userId" validate:"required"`
	}
	if !ctl.decode(c, data, &p) {
		return
	}
	ctl.Orch.TakeSeat(domain.RoomID(p.RoomID), domain.UserID(p.UserID), p.SeatIndex)
}

func (ctl *Controller) handleLeaveSeat(sid core.SessionID, c *wsConn, data []byte) {
	var p struct {
		RoomID string `json:"roomId" validate:"required"`
		UserID string `json:"userId" validate:"required"`
	}
	if !ctl.decode(c, data, &p) {
		return
	}
	ctl.Orch.LeaveSeat(domain.RoomID(p.RoomID), domain.UserID(p.UserID))
}

func (ctl *Controller) handleLockSeat(sid core.SessionID, c *wsConn, data []byte) {
	var p struct {
		RoomID    string `json:"roomId" validate:"required"`
		SeatIndex int    `json:"seatIndex"`
	}
	if !ctl.decode(c, data, &p) {
		return
	}
	ctl.Orch.LockSeat(domain.RoomID(p.RoomID), p.SeatIndex)
}
