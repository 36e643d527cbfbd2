package app

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/ecolive50-hue/backend/internal/core"

	"github.com/stretchr/testify/require"
)

// fakeConn records delivered frames; with full=true it refuses every
// send, standing in for a subscriber with a saturated buffer.
type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
	full   bool
	closed bool
}

func (c *fakeConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.full {
		return errors.New("backpressure")
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

type wireEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func (c *fakeConn) events(t *testing.T) []wireEvent {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]wireEvent, 0, len(c.frames))
	for _, f := range c.frames {
		var ev wireEvent
		require.NoError(t, json.Unmarshal(f, &ev))
		out = append(out, ev)
	}
	return out
}

func newBoundHub(sids ...core.SessionID) (*BroadcastHub, map[core.SessionID]*fakeConn) {
	hub := NewBroadcastHub()
	conns := make(map[core.SessionID]*fakeConn, len(sids))
	for _, sid := range sids {
		conn := &fakeConn{}
		hub.Bind(sid, conn)
		conns[sid] = conn
	}
	return hub, conns
}

func TestHubPublishReachesAllSubscribersIncludingPublisher(t *testing.T) {
	req := require.New(t)
	hub, conns := newBoundHub("s1", "s2", "s3")
	hub.Subscribe("s1", "r1")
	hub.Subscribe("s2", "r1")

	hub.Publish("r1", EventUserMuted, MutedUser{UserID: "u1"})

	req.Len(conns["s1"].events(t), 1)
	req.Len(conns["s2"].events(t), 1)
	req.Empty(conns["s3"].events(t), "non-subscriber must not hear the room")
	req.Equal(EventUserMuted, conns["s1"].events(t)[0].Type)
}

func TestHubSubscribeIdempotent(t *testing.T) {
	req := require.New(t)
	hub, conns := newBoundHub("s1")
	hub.Subscribe("s1", "r1")
	hub.Subscribe("s1", "r1")

	req.Equal(1, hub.Subscribers("r1"))
	hub.Publish("r1", EventUserMuted, MutedUser{UserID: "u1"})
	req.Len(conns["s1"].events(t), 1, "double subscribe must not double deliver")
}

func TestHubSessionMaySubscribeToManyRooms(t *testing.T) {
	req := require.New(t)
	hub, conns := newBoundHub("s1")
	hub.Subscribe("s1", "r1")
	hub.Subscribe("s1", "r2")

	hub.Publish("r1", EventUserMuted, MutedUser{UserID: "a"})
	hub.Publish("r2", EventUserUnmuted, MutedUser{UserID: "b"})

	evs := conns["s1"].events(t)
	req.Len(evs, 2)
	req.Equal(EventUserMuted, evs[0].Type)
	req.Equal(EventUserUnmuted, evs[1].Type)
}

func TestHubDropRemovesSessionEverywhere(t *testing.T) {
	req := require.New(t)
	hub, conns := newBoundHub("s1", "s2")
	hub.Subscribe("s1", "r1")
	hub.Subscribe("s1", "r2")
	hub.Subscribe("s2", "r1")

	hub.Drop("s1", conns["s1"])

	hub.Publish("r1", EventUserMuted, MutedUser{UserID: "u1"})
	hub.Publish("r2", EventUserMuted, MutedUser{UserID: "u1"})

	req.Empty(conns["s1"].events(t))
	req.Len(conns["s2"].events(t), 1)
	req.Equal(0, hub.Subscribers("r2"))
}

func TestHubSlowSubscriberIsSkippedNotRetried(t *testing.T) {
	req := require.New(t)
	hub := NewBroadcastHub()
	slow := &fakeConn{full: true}
	fine := &fakeConn{}
	hub.Bind("slow", slow)
	hub.Bind("fine", fine)
	hub.Subscribe("slow", "r1")
	hub.Subscribe("fine", "r1")

	hub.Publish("r1", EventUserMuted, MutedUser{UserID: "u1"})

	req.Empty(slow.events(t))
	req.Len(fine.events(t), 1)

	// The slow session stays subscribed; future events still try it.
	slow.full = false
	hub.Publish("r1", EventUserMuted, MutedUser{UserID: "u2"})
	req.Len(slow.events(t), 1)
}

func TestHubRebindSurvivesStaleDrop(t *testing.T) {
	req := require.New(t)
	hub := NewBroadcastHub()
	old := &fakeConn{}
	hub.Bind("s1", old)
	hub.Subscribe("s1", "r1")

	// Reconnect: same cookie-derived session, fresh socket. The old
	// socket's read pump reports its death only afterwards.
	fresh := &fakeConn{}
	hub.Bind("s1", fresh)
	hub.Subscribe("s1", "r1")
	hub.Drop("s1", old)

	req.Equal(1, hub.Subscribers("r1"), "stale teardown must not unsubscribe the live session")
	hub.Publish("r1", EventUserMuted, MutedUser{UserID: "u1"})
	req.Len(fresh.events(t), 1)

	// Teardown from the live connection still works.
	hub.Drop("s1", fresh)
	req.Equal(0, hub.Subscribers("r1"))
}

func TestHubBindClosesDisplacedConnection(t *testing.T) {
	req := require.New(t)
	hub := NewBroadcastHub()
	old := &fakeConn{}
	fresh := &fakeConn{}

	hub.Bind("s1", old)
	hub.Bind("s1", fresh)

	req.True(old.isClosed(), "displaced connection must be closed on rebind")
	req.False(fresh.isClosed())
}

func TestHubSendToSingleSession(t *testing.T) {
	req := require.New(t)
	hub, conns := newBoundHub("s1", "s2")
	hub.Subscribe("s1", "r1")
	hub.Subscribe("s2", "r1")

	hub.SendTo("s1", EventGiftRejected, GiftRejected{GiftID: "g1", Reason: "insufficient_funds"})

	req.Len(conns["s1"].events(t), 1)
	req.Empty(conns["s2"].events(t), "room mates must not see sender-only notices")
}
