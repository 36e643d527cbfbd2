package signal

import (
	"github.com/ecolive50-hue/backend/internal/core"
	"github.com/ecolive50-hue/backend/internal/domain"

	"github.com/rs/zerolog/log"
)

type moderationPayload struct {
	RoomID string `json:"roomId" validate:"required"`
	UserID string `json:"userId" validate:"required"`
}

func (ctl *Controller) handleKickUser(sid core.SessionID, c *wsConn, data []byte) {
	var p moderationPayload
	if !ctl.decode(c, data, &p) {
		return
	}
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", p.RoomID).Str("user", p.UserID).Msg("kick-user")
	ctl.Orch.KickUser(domain.RoomID(p.RoomID), domain.UserID(p.UserID))
}

func (ctl *Controller) handleMuteUser(sid core.SessionID, c *wsConn, data []byte) {
	var p moderationPayload
	if !ctl.decode(c, data, &p) {
		return
	}
	ctl.Orch.MuteUser(domain.RoomID(p.RoomID), domain.UserID(p.UserID))
}

func (ctl *Controller) handleUnmuteUser(sid core.SessionID, c *wsConn, data []byte) {
	var p moderationPayload
	if !ctl.decode(c, data, &p) {
		return
	}
	ctl.Orch.UnmuteUser(domain.RoomID(p.RoomID), domain.UserID(p.UserID))
}
