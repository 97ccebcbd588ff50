package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/teleclinic/rtc/internal/core"
	"github.com/teleclinic/rtc/internal/domain"
)

const writeDeadline = 5 * time.Second

// writePump owns the transport write side. Closing the conn on exit
// unblocks the read pump, so a canceled session tears down fully.
func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	defer c.Close()
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Warn().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
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

func (ctl *SignalWSController) readPump(ctx context.Context, cid domain.ClientID, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("cid", string(cid)).Msg("readPump closing")
		ctl.onDisconnect(cid)
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("cid", string(cid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Info().Err(err).Str("module", "signal").Str("cid", string(cid)).Msg("readPump read error")
				return
			}
			ctl.handleEvent(cid, c, data)
		}
	}
}

// onDisconnect runs the lifecycle cleanup exactly once per connection
// (readPump exits once) and notifies only the peers the departure
// actually concerns.
func (ctl *SignalWSController) onDisconnect(cid domain.ClientID) {
	dep := ctl.Orch.OnDisconnect(cid)
	if ctl.Limiter != nil {
		ctl.Limiter.Forget(cid)
	}
	if len(dep.RoomPeers) > 0 {
		ctl.broadcastTo(dep.RoomPeers, struct {
			Type     string          `json:"type"`
			ClientID domain.ClientID `json:"clientId"`
		}{
			Type:     "userLeft",
			ClientID: cid,
		})
	}
	if len(dep.CallPeers) > 0 {
		ctl.broadcastTo(dep.CallPeers, struct {
			Type string          `json:"type"`
			From domain.ClientID `json:"from"`
		}{
			Type: "callEnded",
			From: cid,
		})
	}
}

func (ctl *SignalWSController) handleEvent(cid domain.ClientID, c *WsSignalConn, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		ctl.sendError(c, "bad_payload")
		return
	}

	switch env.Type {
	case "join":
		ctl.handleJoin(cid, c, data)
	case "leave":
		ctl.handleLeave(cid, c)
	case "callUser":
		ctl.handleCallUser(cid, c, data)
	case "answerCall":
		ctl.handleAnswerCall(cid, c, data)
	case "iceCandidate":
		ctl.handleCandidate(cid, c, data)
	case "chat_message":
		ctl.handleChat(cid, c, data)
	case "ping":
		ctl.handlePing(c)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown event")
	}
}

func (ctl *SignalWSController) sendJSON(c core.SignalConnection, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}

func (ctl *SignalWSController) sendError(c core.SignalConnection, msg string) {
	ctl.sendJSON(c, map[string]any{
		"type":  "error",
		"error": msg,
	})
}
