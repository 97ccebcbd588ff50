// Package signal is the WebSocket transport adapter. It upgrades the
// connection, assigns the connection its identity, and translates JSON
// events into orchestrator calls. All state lives behind the
// orchestrator; this package only marshals and pumps frames.
package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/teleclinic/rtc/internal/app/orch"
	"github.com/teleclinic/rtc/internal/core"
	"github.com/teleclinic/rtc/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

type SignalWSController struct {
	Orch    *orch.Orchestrator
	Limiter *ChatRateLimiter

	sendBuffer int
	readLimit  int64
}

func NewSignalWSController(o *orch.Orchestrator, limiter *ChatRateLimiter, sendBuffer int, readLimit int64) *SignalWSController {
	if sendBuffer <= 0 {
		sendBuffer = 32
	}
	return &SignalWSController{
		Orch:       o,
		Limiter:    limiter,
		sendBuffer: sendBuffer,
		readLimit:  readLimit,
	}
}

// WsSignalConn wraps one websocket with a bounded send queue. TrySend
// never blocks; a full queue is reported as backpressure and the frame
// is dropped for that peer.
type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
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

func (c *WsSignalConn) Close() {
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

// HandleSignal upgrades the request and registers the connection. The
// client learns its own identity from the me event before anything
// else: the frame is enqueued ahead of the pumps starting, so nothing
// can overtake it.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	identity := domain.Anonymous()
	if v, ok := c.Get("identity"); ok {
		if id, ok := v.(domain.Identity); ok {
			identity = id
		}
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	if ctl.readLimit > 0 {
		ws.SetReadLimit(ctl.readLimit)
	}

	cid := domain.NewClientID()
	log.Info().Str("module", "signal").Str("cid", string(cid)).Str("user", identity.UserID).Msg("new WS connection")

	conn := &WsSignalConn{
		conn: ws,
		send: make(chan core.Frame, ctl.sendBuffer),
	}

	sess := core.NewClientSession(cid, identity, conn)
	ctx, cancel := context.WithCancel(ctx)
	ctl.Orch.Registry.Bind(cid, sess, cancel)

	ctl.sendJSON(conn, struct {
		Type     string          `json:"type"`
		ClientID domain.ClientID `json:"clientId"`
	}{
		Type:     "me",
		ClientID: cid,
	})

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cid, conn)
}

func (ctl *SignalWSController) broadcastTo(peers []core.ClientSession, v any) {
	for _, peer := range peers {
		ctl.sendJSON(peer.Signal(), v)
	}
}
