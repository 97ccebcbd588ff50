package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/teleclinic/rtc/internal/core"
	"github.com/teleclinic/rtc/internal/domain"
)

func (ctl *SignalWSController) handleJoin(
	cid domain.ClientID,
	conn *WsSignalConn,
	data []byte,
) {
	type joinPayload struct {
		Type   string `json:"type"`
		RoomID string `json:"roomId"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	roomID := domain.RoomID(p.RoomID)

	log.Info().Str("module", "signal").Str("cid", string(cid)).Str("room", p.RoomID).Msg("join")
	peers, left, joined := ctl.Orch.Join(cid, roomID)
	if len(left) > 0 {
		ctl.broadcastTo(left, struct {
			Type     string          `json:"type"`
			ClientID domain.ClientID `json:"clientId"`
		}{
			Type:     "userLeft",
			ClientID: cid,
		})
	}

	if !joined {
		// Already a member (or unknown client): report the current
		// state without re-notifying anyone.
		var members []core.MemberDTO
		if room, ok := ctl.Orch.Rooms.Get(roomID); ok {
			members = room.MembersSnapshot()
		}
		ctl.sendRoomState(conn, roomID, members)
		return
	}

	// The joiner learns about exactly the members that were present at
	// the moment it was added, and exactly they learn about the joiner.
	members := make([]core.MemberDTO, 0, len(peers)+1)
	for _, peer := range peers {
		members = append(members, memberDTO(peer))
	}
	if sess, ok := ctl.Orch.Registry.GetSession(cid); ok {
		members = append(members, memberDTO(sess))
	}
	ctl.sendRoomState(conn, roomID, members)

	ctl.broadcastTo(peers, struct {
		Type     string          `json:"type"`
		ClientID domain.ClientID `json:"clientId"`
	}{
		Type:     "userJoined",
		ClientID: cid,
	})
}

func memberDTO(s core.ClientSession) core.MemberDTO {
	id := s.Identity()
	return core.MemberDTO{ClientID: s.ID(), UserID: id.UserID, Role: id.Role}
}

func (ctl *SignalWSController) sendRoomState(conn *WsSignalConn, roomID domain.RoomID, members []core.MemberDTO) {
	ctl.sendJSON(conn, struct {
		Type    string           `json:"type"`
		RoomID  domain.RoomID    `json:"roomId"`
		Members []core.MemberDTO `json:"members"`
		Count   int              `json:"count"`
	}{
		Type:    "room_state",
		RoomID:  roomID,
		Members: members,
		Count:   len(members),
	})
}

// handleLeave exits the current room without dropping the connection.
func (ctl *SignalWSController) handleLeave(
	cid domain.ClientID,
	conn *WsSignalConn,
) {
	log.Info().Str("module", "signal").Str("cid", string(cid)).Msg("leave")
	_, peers, ok := ctl.Orch.Leave(cid)
	ctl.sendJSON(conn, map[string]any{
		"type": "left",
	})
	if !ok {
		return
	}
	ctl.broadcastTo(peers, struct {
		Type     string          `json:"type"`
		ClientID domain.ClientID `json:"clientId"`
	}{
		Type:     "userLeft",
		ClientID: cid,
	})
}
