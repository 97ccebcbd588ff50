package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/teleclinic/rtc/internal/domain"
)

type callKey struct {
	Caller domain.ClientID
	Callee domain.ClientID
}

// CallTable tracks call attempts per caller/callee pair so that
// teardown can be scoped to the actual counterpart instead of being
// broadcast process-wide.
type CallTable struct {
	mu    sync.Mutex
	calls map[callKey]domain.CallState
}

func NewCallTable() *CallTable {
	return &CallTable{calls: make(map[callKey]domain.CallState)}
}

// Invite records Idle→Invited for the (from,to) pair. A repeated
// invite resets the pair to Invited (the previous offer is superseded).
func (t *CallTable) Invite(from, to domain.ClientID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls[callKey{Caller: from, Callee: to}] = domain.CallInvited
	log.Debug().Str("module", "app.calls").Str("from", string(from)).Str("to", string(to)).Msg("call invited")
}

// Answer records Invited→Answered. The answer arrives from the callee,
// so the tracked pair is (to, from). Answering a call that was never
// invited reports false; the relay still forwards the signal since
// delivery is advisory.
func (t *CallTable) Answer(from, to domain.ClientID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := callKey{Caller: to, Callee: from}
	if t.calls[key] != domain.CallInvited {
		return false
	}
	t.calls[key] = domain.CallAnswered
	log.Debug().Str("module", "app.calls").Str("caller", string(to)).Str("callee", string(from)).Msg("call answered")
	return true
}

// Active reports whether the pair has a call in Invited or Answered
// state, in either direction.
func (t *CallTable) Active(a, b domain.ClientID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active(a, b)
}

func (t *CallTable) active(a, b domain.ClientID) bool {
	for _, key := range []callKey{{Caller: a, Callee: b}, {Caller: b, Callee: a}} {
		if s, ok := t.calls[key]; ok && (s == domain.CallInvited || s == domain.CallAnswered) {
			return true
		}
	}
	return false
}

// State returns the tracked state for the directed (caller, callee) pair.
func (t *CallTable) State(caller, callee domain.ClientID) domain.CallState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls[callKey{Caller: caller, Callee: callee}]
}

// End moves every call involving cid to Ended, removes them and
// returns the distinct counterparts, so teardown notifications reach
// only peers that actually had a call with cid.
func (t *CallTable) End(cid domain.ClientID) []domain.ClientID {
	t.mu.Lock()
	defer t.mu.Unlock()
	seen := make(map[domain.ClientID]struct{})
	for key, state := range t.calls {
		if key.Caller != cid && key.Callee != cid {
			continue
		}
		delete(t.calls, key)
		if state != domain.CallInvited && state != domain.CallAnswered {
			continue
		}
		peer := key.Caller
		if peer == cid {
			peer = key.Callee
		}
		seen[peer] = struct{}{}
	}
	out := make([]domain.ClientID, 0, len(seen))
	for peer := range seen {
		out = append(out, peer)
	}
	if len(out) > 0 {
		log.Debug().Str("module", "app.calls").Str("cid", string(cid)).Int("peers", len(out)).Msg("calls ended")
	}
	return out
}
