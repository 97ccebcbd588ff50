package orch

import (
	"github.com/rs/zerolog/log"

	"github.com/teleclinic/rtc/internal/core"
	"github.com/teleclinic/rtc/internal/domain"
)

// DeliverTo sends a frame to one specific client. Unknown or
// just-disconnected targets are a silent drop (fire-and-forget).
func (o *Orchestrator) DeliverTo(to domain.ClientID, frame core.Frame) bool {
	sess, ok := o.Registry.GetSession(to)
	if !ok {
		return false
	}
	if err := sess.Signal().TrySend(frame); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("to", string(to)).Msg("direct delivery dropped")
		return false
	}
	return true
}

// Invite delivers a call offer to the invited client only and records
// the pending call attempt.
func (o *Orchestrator) Invite(from, to domain.ClientID, frame core.Frame) bool {
	if !o.DeliverTo(to, frame) {
		return false
	}
	o.Calls.Invite(from, to)
	return true
}

// Answer delivers the answer back to the inviting client only.
func (o *Orchestrator) Answer(from, to domain.ClientID, frame core.Frame) bool {
	if !o.DeliverTo(to, frame) {
		return false
	}
	o.Calls.Answer(from, to)
	return true
}
