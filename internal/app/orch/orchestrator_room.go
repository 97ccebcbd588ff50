package orch

import (
	"github.com/rs/zerolog/log"

	"github.com/teleclinic/rtc/internal/core"
	"github.com/teleclinic/rtc/internal/domain"
)

// Join adds cid to the room and returns the peers that were members at
// the moment of the add, captured atomically with it: the adapter
// notifies them of the joiner, and tells the joiner about exactly
// them, so concurrent joiners discover each other exactly once. A
// client occupies one room at a time: joining while in another room
// leaves that room first, and its former peers come back in left.
// Re-joining the current room is a no-op (joined=false, no duplicate
// membership, no re-notification).
func (o *Orchestrator) Join(cid domain.ClientID, roomID domain.RoomID) (peers, left []core.ClientSession, joined bool) {
	session, ok := o.Registry.GetSession(cid)
	if !ok {
		return nil, nil, false
	}
	if current, ok := o.Registry.RoomOf(cid); ok {
		if current == roomID {
			return nil, nil, false
		}
		left = o.removeFromRoom(cid, current)
		log.Info().Str("module", "orch").Str("cid", string(cid)).Str("from_room", string(current)).Msg("left previous room")
	}

	room := o.Rooms.GetOrCreate(roomID)
	prior, added := room.AddMember(cid, session)
	if !added {
		return nil, left, false
	}
	o.Registry.UpdateRoom(cid, roomID)
	log.Info().Str("module", "orch").Str("cid", string(cid)).Str("room", string(roomID)).Msg("joined room")
	return prior, left, true
}

// Leave removes cid from its current room and returns the remaining
// members. ok=false when the client was in no room.
func (o *Orchestrator) Leave(cid domain.ClientID) (domain.RoomID, []core.ClientSession, bool) {
	roomID, ok := o.Registry.RoomOf(cid)
	if !ok {
		return "", nil, false
	}
	peers := o.removeFromRoom(cid, roomID)
	log.Info().Str("module", "orch").Str("cid", string(cid)).Str("room", string(roomID)).Msg("left room")
	return roomID, peers, true
}
