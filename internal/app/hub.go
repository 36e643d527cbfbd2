package app

import (
	"encoding/json"
	"sync"

	"github.com/ecolive50-hue/backend/internal/core"
	"github.com/ecolive50-hue/backend/internal/domain"

	"github.com/rs/zerolog/log"
)

// envelope is the outbound wire frame.
type envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// BroadcastHub tracks which sessions subscribe to which rooms and
// fans events out to them. Delivery is best effort: a slow or closed
// connection is skipped for that event, nothing is queued or retried.
type BroadcastHub struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]core.SignalConnection
	rooms    map[domain.RoomID]map[core.SessionID]struct{}
}

func NewBroadcastHub() *BroadcastHub {
	return &BroadcastHub{
		sessions: make(map[core.SessionID]core.SignalConnection),
		rooms:    make(map[domain.RoomID]map[core.SessionID]struct{}),
	}
}

// Bind registers a session's transport. A rebinding session (page
// reload with the same token) replaces its old connection; the
// displaced one is closed so its write pump stops right away instead
// of lingering until the next failed ping.
func (h *BroadcastHub) Bind(sid core.SessionID, conn core.SignalConnection) {
	h.mu.Lock()
	old, ok := h.sessions[sid]
	h.sessions[sid] = conn
	h.mu.Unlock()
	if ok && old != conn {
		old.Close()
	}
	log.Info().Str("module", "app.hub").Str("sid", string(sid)).Msg("session bound")
}

// Subscribe adds sid to roomID's fan-out set. Idempotent; a session
// may subscribe to any number of rooms and there is no unsubscribe
// short of Drop.
func (h *BroadcastHub) Subscribe(sid core.SessionID, roomID domain.RoomID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.rooms[roomID]
	if !ok {
		set = make(map[core.SessionID]struct{})
		h.rooms[roomID] = set
	}
	set[sid] = struct{}{}
}

// Drop removes the session from every room, but only while conn is
// still the session's bound connection. A dying socket that was
// already replaced by a reconnect arrives here late; its teardown
// must not strip the live session's subscriptions.
func (h *BroadcastHub) Drop(sid core.SessionID, conn core.SignalConnection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if cur, ok := h.sessions[sid]; !ok || cur != conn {
		log.Debug().Str("module", "app.hub").Str("sid", string(sid)).Msg("stale drop ignored")
		return
	}
	delete(h.sessions, sid)
	for roomID, set := range h.rooms {
		delete(set, sid)
		if len(set) == 0 {
			delete(h.rooms, roomID)
		}
	}
	log.Info().Str("module", "app.hub").Str("sid", string(sid)).Msg("session dropped")
}

// Publish marshals the event once and delivers it to every subscriber
// of roomID, the publisher's own session included. Each subscriber
// sees the frame whole or not at all.
func (h *BroadcastHub) Publish(roomID domain.RoomID, event string, payload any) {
	data, err := json.Marshal(envelope{Type: event, Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("module", "app.hub").Str("event", event).Msg("marshal event")
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	sent, dropped := 0, 0
	for sid := range h.rooms[roomID] {
		conn, ok := h.sessions[sid]
		if !ok {
			continue
		}
		if err := conn.TrySend(core.Frame(data)); err != nil {
			dropped++
			continue
		}
		sent++
	}
	log.Debug().Str("module", "app.hub").Str("room", string(roomID)).Str("event", event).Int("sent", sent).Int("dropped", dropped).Msg("publish")
}

// SendTo delivers one event to a single session, bypassing room
// membership. Used for sender-only notices.
func (h *BroadcastHub) SendTo(sid core.SessionID, event string, payload any) {
	data, err := json.Marshal(envelope{Type: event, Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("module", "app.hub").Str("event", event).Msg("marshal event")
		return
	}
	h.mu.RLock()
	conn, ok := h.sessions[sid]
	h.mu.RUnlock()
	if !ok {
		return
	}
	_ = conn.TrySend(core.Frame(data))
}

// Subscribers reports the fan-out set size for roomID.
func (h *BroadcastHub) Subscribers(roomID domain.RoomID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}
