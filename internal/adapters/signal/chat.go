package signal

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/teleclinic/rtc/internal/domain"
)

// handleChat forwards a chat message to every other member of its
// room. The relay assigns a messageId only when the sender omitted one
// (idempotent retry support: a caller-supplied id is never overwritten)
// and stamps senderId from the connection identity, ignoring whatever
// the client put there.
func (ctl *SignalWSController) handleChat(
	cid domain.ClientID,
	conn *WsSignalConn,
	data []byte,
) {
	if ctl.Limiter != nil && !ctl.Limiter.Allow(cid) {
		log.Warn().Str("module", "signal").Str("cid", string(cid)).Msg("chat rate limited")
		ctl.sendError(conn, "rate_limited")
		return
	}

	var msg map[string]any
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad chat payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	roomID, ok := roomIDField(msg["roomId"])
	if !ok {
		log.Error().Str("module", "signal").Msg("chat without roomId")
		ctl.sendError(conn, "bad_payload")
		return
	}

	id, _ := msg["messageId"].(string)
	if id == "" {
		id = uuid.NewString()
		msg["messageId"] = id
	}
	msg["senderId"] = string(cid)

	frame, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("marshal chat")
		return
	}

	res := ctl.Orch.RelayChat(cid, roomID, frame)
	log.Debug().Str("module", "signal").Str("cid", string(cid)).Str("room", string(roomID)).Int("sent_to", res.SentTo).Msg("chat relayed")

	identity := domain.Anonymous()
	if sess, ok := ctl.Orch.Registry.GetSession(cid); ok {
		identity = sess.Identity()
	}
	ctl.Orch.ArchiveChat(domain.ChatMessage{
		ID:       id,
		RoomID:   roomID,
		SenderID: cid,
		Sender:   identity,
		Payload:  frame,
		SentAt:   time.Now(),
	})
}

// roomIDField accepts the caller-defined roomId as a string or a
// number (chatroom ids are numeric in the appointment schema).
func roomIDField(v any) (domain.RoomID, bool) {
	switch id := v.(type) {
	case string:
		if id == "" {
			return "", false
		}
		return domain.RoomID(id), true
	case float64:
		return domain.RoomID(strconv.FormatFloat(id, 'f', -1, 64)), true
	case json.Number:
		return domain.RoomID(id.String()), true
	default:
		return "", false
	}
}
