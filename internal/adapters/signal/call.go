package signal

import (
	"encoding/json"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/teleclinic/rtc/internal/domain"
)

// Call signals are relayed point-to-point by connection identity. The
// server never terminates the media negotiation itself; offer, answer
// and candidate payloads pass through opaquely. The from field is
// always stamped with the sending connection's identity so a client
// cannot impersonate another caller.

func (ctl *SignalWSController) handleCallUser(
	cid domain.ClientID,
	conn *WsSignalConn,
	data []byte,
) {
	type callPayload struct {
		Type       string                    `json:"type"`
		UserToCall string                    `json:"userToCall"`
		SignalData webrtc.SessionDescription `json:"signalData"`
		From       string                    `json:"from"`
	}
	var p callPayload
	if err := json.Unmarshal(data, &p); err != nil || p.UserToCall == "" {
		log.Error().Err(err).Str("module", "signal").Msg("bad callUser payload")
		ctl.sendError(conn, "bad_payload")
		return
	}

	to := domain.ClientID(p.UserToCall)
	log.Info().Str("module", "signal").Str("from", string(cid)).Str("to", string(to)).Msg("call invite")

	frame, err := json.Marshal(struct {
		Type   string                    `json:"type"`
		Signal webrtc.SessionDescription `json:"signal"`
		From   domain.ClientID           `json:"from"`
	}{
		Type:   "callUser",
		Signal: p.SignalData,
		From:   cid,
	})
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("marshal callUser")
		return
	}
	if !ctl.Orch.Invite(cid, to, frame) {
		log.Warn().Str("module", "signal").Str("to", string(to)).Msg("invite target unreachable")
	}
}

func (ctl *SignalWSController) handleAnswerCall(
	cid domain.ClientID,
	conn *WsSignalConn,
	data []byte,
) {
	type answerPayload struct {
		Type   string                    `json:"type"`
		To     string                    `json:"to"`
		Signal webrtc.SessionDescription `json:"signal"`
	}
	var p answerPayload
	if err := json.Unmarshal(data, &p); err != nil || p.To == "" {
		log.Error().Err(err).Str("module", "signal").Msg("bad answerCall payload")
		ctl.sendError(conn, "bad_payload")
		return
	}

	to := domain.ClientID(p.To)
	log.Info().Str("module", "signal").Str("from", string(cid)).Str("to", string(to)).Msg("call answer")

	frame, err := json.Marshal(struct {
		Type   string                    `json:"type"`
		Signal webrtc.SessionDescription `json:"signal"`
		From   domain.ClientID           `json:"from"`
	}{
		Type:   "callAccepted",
		Signal: p.Signal,
		From:   cid,
	})
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("marshal callAccepted")
		return
	}
	if !ctl.Orch.Answer(cid, to, frame) {
		log.Warn().Str("module", "signal").Str("to", string(to)).Msg("answer target unreachable")
	}
}

// ICE candidates arrive many per call, unordered, in Invited or
// Answered state. They carry no state transition.
func (ctl *SignalWSController) handleCandidate(
	cid domain.ClientID,
	conn *WsSignalConn,
	data []byte,
) {
	type candidatePayload struct {
		Type      string                  `json:"type"`
		To        string                  `json:"to"`
		Candidate webrtc.ICECandidateInit `json:"candidate"`
	}
	var p candidatePayload
	if err := json.Unmarshal(data, &p); err != nil || p.To == "" {
		log.Error().Err(err).Str("module", "signal").Msg("bad candidate payload")
		ctl.sendError(conn, "bad_payload")
		return
	}

	frame, err := json.Marshal(struct {
		Type      string                  `json:"type"`
		Candidate webrtc.ICECandidateInit `json:"candidate"`
		From      domain.ClientID         `json:"from"`
	}{
		Type:      "iceCandidate",
		Candidate: p.Candidate,
		From:      cid,
	})
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("marshal candidate")
		return
	}
	ctl.Orch.DeliverTo(domain.ClientID(p.To), frame)
}
