package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ecolive50-hue/backend/internal/core"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (ctl *Controller) writePump(ctx context.Context, c *wsConn) {
	ticker := time.NewTicker(ctl.Cfg.PingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Msg("writePump ctx done")
			return
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Warn().Err(err).Str("module", "signal").Msg("writePump ping")
				return
			}
		case data, ok := <-c.send:
			if !ok {
				log.Warn().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

// readPump owns session teardown: when the read side ends, for any
// reason, the session is dropped from the hub. Seats and mutes stay
// as they are; only the fan-out set forgets the session.
func (ctl *Controller) readPump(ctx context.Context, cancel context.CancelFunc, sid core.SessionID, c *wsConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump closing")
		cancel()
		ctl.Orch.Hub.Drop(sid, c)
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Info().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("readPump read error")
				return
			}
			ctl.handleEvent(sid, c, data)
		}
	}
}

func (ctl *Controller) handleEvent(sid core.SessionID, c *wsConn, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		ctl.sendError(c, "bad_payload")
		return
	}

	switch env.Type {
	case "join-room":
		ctl.handleJoinRoom(sid, c, data)
	case "take-seat":
		ctl.handleTakeSeat(sid, c, data)
	case "leave-seat":
		ctl.handleLeaveSeat(sid, c, data)
	case "lock-seat":
		ctl.handleLockSeat(sid, c, data)
	case "kick-user":
		ctl.handleKickUser(sid, c, data)
	case "mute-user":
		ctl.handleMuteUser(sid, c, data)
	case "unmute-user":
		ctl.handleUnmuteUser(sid, c, data)
	case "send-gift":
		ctl.handleSendGift(sid, c, data)
	case "ping":
		ctl.handlePing(c)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown event")
	}
}

// decode unmarshals an inbound payload into p and validates it.
// Malformed or incomplete payloads get an error frame and are
// otherwise ignored; they never reach the orchestrator.
func (ctl *Controller) decode(c *wsConn, data []byte, p any) bool {
	if err := json.Unmarshal(data, p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad payload")
		ctl.sendError(c, "bad_payload")
		return false
	}
	if err := validate.Struct(p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("invalid payload")
		ctl.sendError(c, "invalid_payload")
		return false
	}
	return true
}

func (ctl *Controller) sendJSON(c *wsConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}

func (ctl *Controller) sendError(c *wsConn, msg string) {
	ctl.sendJSON(c, map[string]any{
		"type":  "error",
		"error": msg,
	})
}
