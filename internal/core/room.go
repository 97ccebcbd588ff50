package core

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/teleclinic/rtc/internal/domain"
)

// roomImpl is a threadsafe in-memory room.
// It never closes adapter-owned resources.
type roomImpl struct {
	room    *domain.Room
	mu      sync.RWMutex
	members map[domain.ClientID]ClientSession
}

func NewRoomService(room *domain.Room) RoomService {
	return &roomImpl{
		room:    room,
		members: make(map[domain.ClientID]ClientSession),
	}
}

func (r *roomImpl) Room() *domain.Room { return r.room }

func (r *roomImpl) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

func (r *roomImpl) AddMember(cid domain.ClientID, cs ClientSession) ([]ClientSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[cid]; ok {
		return nil, false
	}
	prior := make([]ClientSession, 0, len(r.members))
	for _, m := range r.members {
		prior = append(prior, m)
	}
	r.members[cid] = cs
	log.Info().Str("module", "core.room").Str("room", string(r.room.ID)).Str("cid", string(cid)).Msg("member added")
	return prior, true
}

func (r *roomImpl) RemoveMember(cid domain.ClientID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[cid]; ok {
		delete(r.members, cid)
		log.Info().Str("module", "core.room").Str("room", string(r.room.ID)).Str("cid", string(cid)).Msg("member removed")
	}
	return len(r.members)
}

func (r *roomImpl) Relay(from domain.ClientID, data Frame) PublishResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := PublishResult{}
	for cid, m := range r.members {
		if cid == from {
			continue
		}
		if err := m.Signal().TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, m)
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "core.room").Str("room", string(r.room.ID)).Str("from", string(from)).Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("relay result")
	return res
}

func (r *roomImpl) MembersSnapshot() []MemberDTO {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]MemberDTO, 0, len(r.members))
	for cid, cs := range r.members {
		id := cs.Identity()
		out = append(out, MemberDTO{ClientID: cid, UserID: id.UserID, Role: id.Role})
	}
	return out
}
