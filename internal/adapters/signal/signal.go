package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/ecolive50-hue/backend/internal/app"
	"github.com/ecolive50-hue/backend/internal/config"
	"github.com/ecolive50-hue/backend/internal/core"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var ErrBackpressure = errors.New("backpressure")

var validate = validator.New()

type Controller struct {
	Orch *app.Orchestrator
	Cfg  *config.Config
}

func NewController(orch *app.Orchestrator, cfg *config.Config) *Controller {
	return &Controller{Orch: orch, Cfg: cfg}
}

// wsConn adapts one gorilla connection to core.SignalConnection.
// TrySend never blocks: a full send buffer drops the frame.
type wsConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *wsConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSession upgrades the request and runs the read/write pumps
// until the client goes away. The session id comes from the client
// token cookie, so a reconnect keeps its identity.
func (ctl *Controller) HandleSession(ctx context.Context, c *gin.Context) {
	sid := core.SessionID(c.GetString("client_token"))
	log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws upgrade")
		return
	}
	ws.SetReadLimit(ctl.Cfg.ReadLimit)

	conn := &wsConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}

	ctl.Orch.Hub.Bind(sid, conn)
	ctx, cancel := context.WithCancel(ctx)

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, sid, conn)
}
