package domain

// CallState tracks one call attempt between a caller/callee pair.
type CallState int

const (
	CallIdle CallState = iota
	CallInvited
	CallAnswered
	CallEnded
)

func (s CallState) String() string {
	switch s {
	case CallIdle:
		return "idle"
	case CallInvited:
		return "invited"
	case CallAnswered:
		return "answered"
	case CallEnded:
		return "ended"
	}
	return "unknown"
}
