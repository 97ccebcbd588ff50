package app

import "github.com/teleclinic/rtc/internal/core"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	MarkSlow
	KickMember
	DropFrame
)

// Policy decides what happens to a member whose send buffer stayed
// full during a relay.
type Policy interface {
	OnBackPressure(room core.RoomService, member core.ClientSession) BackpressureAction
}

type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(room core.RoomService, member core.ClientSession) BackpressureAction {
	return KickMember
}
