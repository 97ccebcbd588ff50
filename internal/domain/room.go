package domain

// RoomID is caller-defined, in practice a chatroom or appointment
// thread identifier. A room has no existence beyond its member set:
// it is created on first join and reaped when the last member leaves.
type RoomID string

type Room struct {
	ID RoomID
}
