// Package orch coordinates registry, rooms and call state. It owns
// every membership mutation; adapters only marshal events and hand
// frames in.
package orch

import (
	"github.com/rs/zerolog/log"

	"github.com/teleclinic/rtc/internal/app"
	"github.com/teleclinic/rtc/internal/core"
	"github.com/teleclinic/rtc/internal/domain"
	"github.com/teleclinic/rtc/internal/store"
)

type Orchestrator struct {
	Registry *app.Registry
	Rooms    core.RoomManager
	Calls    *app.CallTable
	Policy   app.Policy
	Archive  store.ChatArchive
}

// Departure is what remains to be notified after a disconnect: the
// room the client occupied and the peers of any call it was part of.
type Departure struct {
	RoomID    domain.RoomID
	RoomPeers []core.ClientSession
	CallPeers []core.ClientSession
}

// OnDisconnect removes the client from the registry, its room and the
// call table. Safe to call for clients that never joined a room or
// started a call; calling it twice for the same cid is a no-op the
// second time.
func (o *Orchestrator) OnDisconnect(cid domain.ClientID) Departure {
	var dep Departure
	if _, ok := o.Registry.GetSession(cid); !ok {
		return dep
	}

	if roomID, ok := o.Registry.RoomOf(cid); ok {
		dep.RoomID = roomID
		dep.RoomPeers = o.removeFromRoom(cid, roomID)
	}
	for _, peer := range o.Calls.End(cid) {
		if sess, ok := o.Registry.GetSession(peer); ok {
			dep.CallPeers = append(dep.CallPeers, sess)
		}
	}
	o.Registry.Unbind(cid)
	log.Info().Str("module", "orch").Str("cid", string(cid)).Msg("disconnected")
	return dep
}

func (o *Orchestrator) removeFromRoom(cid domain.ClientID, roomID domain.RoomID) []core.ClientSession {
	room, ok := o.Rooms.Get(roomID)
	if !ok {
		return nil
	}
	peers := o.sessionsOf(room, cid)
	if room.RemoveMember(cid) == 0 {
		o.Rooms.Reap(roomID)
	}
	o.Registry.ClearRoom(cid)
	return peers
}

func (o *Orchestrator) sessionsOf(room core.RoomService, except domain.ClientID) []core.ClientSession {
	members := room.MembersSnapshot()
	out := make([]core.ClientSession, 0, len(members))
	for _, m := range members {
		if m.ClientID == except {
			continue
		}
		if sess, ok := o.Registry.GetSession(m.ClientID); ok {
			out = append(out, sess)
		}
	}
	return out
}

func (o *Orchestrator) applyBackpressure(room core.RoomService, res core.PublishResult) {
	if o.Policy == nil {
		return
	}
	for _, slow := range res.Dropped {
		switch o.Policy.OnBackPressure(room, slow) {
		case app.KickMember:
			o.Registry.Cancel(slow.ID())
		case app.MarkSlow, app.DropFrame, app.NoAction:
		}
	}
}
