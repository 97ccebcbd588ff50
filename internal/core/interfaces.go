package core

import "github.com/teleclinic/rtc/internal/domain"

// Frame is a marshaled outbound event, ready for the wire.
type Frame []byte

// SignalConnection abstracts the messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	// TrySend enqueues a frame without blocking. It fails fast when the
	// peer's send buffer is full or the connection is closed.
	TrySend(Frame) error
	Close()
}

// ClientSession binds a connection identity and its transport endpoint.
// This is what a room stores and fans out to.
type ClientSession interface {
	ID() domain.ClientID
	Identity() domain.Identity
	Signal() SignalConnection
}

// PublishResult reports delivery stats/backpressure to the orchestrator.
type PublishResult struct {
	SentTo  int
	Dropped []ClientSession
}

// MemberDTO is a read-only view for APIs (no transport fields).
type MemberDTO struct {
	ClientID domain.ClientID `json:"clientId"`
	UserID   string          `json:"userId,omitempty"`
	Role     string          `json:"role,omitempty"`
}

// RoomService is the core-facing API of a room.
// It owns the membership set but never touches transport resources.
type RoomService interface {
	Room() *domain.Room
	MemberCount() int
	MembersSnapshot() []MemberDTO

	// AddMember returns the members present before the add, captured in
	// the same critical section, so concurrent joiners discover each
	// other exactly once. added=false means cid was already a member:
	// a repeated join never duplicates membership or notifications.
	AddMember(cid domain.ClientID, cs ClientSession) (prior []ClientSession, added bool)
	// RemoveMember reports the remaining member count so the manager
	// can reap the room once it empties.
	RemoveMember(cid domain.ClientID) int
	// Relay delivers a frame to every member except the sender.
	Relay(from domain.ClientID, data Frame) PublishResult
}

type RoomInfo struct {
	ID          domain.RoomID `json:"id"`
	MemberCount int           `json:"client_count"`
}

type RoomManager interface {
	GetOrCreate(id domain.RoomID) RoomService
	Get(id domain.RoomID) (RoomService, bool)
	List() []RoomInfo
	// Reap drops the room if (and only if) it has no members left.
	Reap(id domain.RoomID)
	StopRoom(id domain.RoomID)
}
