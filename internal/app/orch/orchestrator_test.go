package orch

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teleclinic/rtc/internal/app"
	"github.com/teleclinic/rtc/internal/core"
	"github.com/teleclinic/rtc/internal/domain"
	"github.com/teleclinic/rtc/internal/store"
)

type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
	fail   bool
}

func (f *fakeConn) TrySend(fr core.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("buffer full")
	}
	f.frames = append(f.frames, fr)
	return nil
}

func (f *fakeConn) Close() {}

func (f *fakeConn) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.frames)
}

func newOrchestrator() *Orchestrator {
	return &Orchestrator{
		Registry: app.NewRegistry(),
		Rooms:    app.NewRoomManager(),
		Calls:    app.NewCallTable(),
		Policy:   app.SimplePolicy{},
		Archive:  store.NewMemoryArchive(),
	}
}

func connect(o *Orchestrator, id string) *fakeConn {
	conn := &fakeConn{}
	_, cancel := context.WithCancel(context.Background())
	sess := core.NewClientSession(domain.ClientID(id), domain.Anonymous(), conn)
	o.Registry.Bind(domain.ClientID(id), sess, cancel)
	return conn
}

func peerIDs(peers []core.ClientSession) []domain.ClientID {
	out := make([]domain.ClientID, 0, len(peers))
	for _, p := range peers {
		out = append(out, p.ID())
	}
	return out
}

func TestJoinNotifiesExistingPeersOnly(t *testing.T) {
	o := newOrchestrator()
	connect(o, "a")
	connect(o, "b")

	peers, left, joined := o.Join("a", "r1")
	require.True(t, joined)
	assert.Empty(t, peers, "first joiner has no peers to notify")
	assert.Empty(t, left)

	peers, left, joined = o.Join("b", "r1")
	require.True(t, joined)
	assert.Equal(t, []domain.ClientID{"a"}, peerIDs(peers))
	assert.Empty(t, left)
}

func TestJoinSameRoomTwiceIsNoop(t *testing.T) {
	o := newOrchestrator()
	connect(o, "a")

	_, _, joined := o.Join("a", "r1")
	require.True(t, joined)

	peers, left, joined := o.Join("a", "r1")
	assert.False(t, joined)
	assert.Empty(t, peers)
	assert.Empty(t, left)

	room, ok := o.Rooms.Get("r1")
	require.True(t, ok)
	assert.Equal(t, 1, room.MemberCount())
}

func TestJoinSwitchesRoom(t *testing.T) {
	o := newOrchestrator()
	connect(o, "a")
	connect(o, "b")
	o.Join("a", "r1")
	o.Join("b", "r1")

	_, left, joined := o.Join("a", "r2")
	require.True(t, joined)
	assert.Equal(t, []domain.ClientID{"b"}, peerIDs(left), "old room peers come back so they can be notified")

	roomID, ok := o.Registry.RoomOf("a")
	require.True(t, ok)
	assert.Equal(t, domain.RoomID("r2"), roomID)

	r1, ok := o.Rooms.Get("r1")
	require.True(t, ok)
	assert.Equal(t, 1, r1.MemberCount())
}

func TestJoinUnknownClient(t *testing.T) {
	o := newOrchestrator()
	_, _, joined := o.Join("ghost", "r1")
	assert.False(t, joined)
	_, ok := o.Rooms.Get("r1")
	assert.False(t, ok, "a failed join must not create the room")
}

func TestLeaveReapsEmptyRoom(t *testing.T) {
	o := newOrchestrator()
	connect(o, "a")
	o.Join("a", "r1")

	roomID, peers, ok := o.Leave("a")
	require.True(t, ok)
	assert.Equal(t, domain.RoomID("r1"), roomID)
	assert.Empty(t, peers)

	_, ok = o.Rooms.Get("r1")
	assert.False(t, ok, "empty room must be reaped")

	_, _, ok = o.Leave("a")
	assert.False(t, ok, "leaving twice is a no-op")
}

func TestRelayChatUnknownRoomIsSilentNoop(t *testing.T) {
	o := newOrchestrator()
	connect(o, "a")

	res := o.RelayChat("a", "nowhere", core.Frame(`x`))
	assert.Equal(t, 0, res.SentTo)
	assert.Empty(t, res.Dropped)
}

func TestRelayChatKicksBackpressuredMember(t *testing.T) {
	o := newOrchestrator()
	connect(o, "a")

	slow := &fakeConn{fail: true}
	kicked := false
	sess := core.NewClientSession("b", domain.Anonymous(), slow)
	o.Registry.Bind("b", sess, func() { kicked = true })

	o.Join("a", "r1")
	o.Join("b", "r1")

	res := o.RelayChat("a", "r1", core.Frame(`x`))
	require.Len(t, res.Dropped, 1)
	assert.True(t, kicked, "SimplePolicy must cancel the slow member's session")
}

func TestDeliverTo(t *testing.T) {
	o := newOrchestrator()
	connB := connect(o, "b")

	assert.True(t, o.DeliverTo("b", core.Frame(`x`)))
	assert.Equal(t, 1, connB.count())

	assert.False(t, o.DeliverTo("missing", core.Frame(`x`)), "unknown target is a silent drop")
}

func TestInviteAndAnswerTrackCallState(t *testing.T) {
	o := newOrchestrator()
	connect(o, "a")
	connB := connect(o, "b")

	require.True(t, o.Invite("a", "b", core.Frame(`offer`)))
	assert.Equal(t, 1, connB.count())
	assert.Equal(t, domain.CallInvited, o.Calls.State("a", "b"))

	require.True(t, o.Answer("b", "a", core.Frame(`answer`)))
	assert.Equal(t, domain.CallAnswered, o.Calls.State("a", "b"))
}

func TestInviteUnreachableTargetLeavesNoState(t *testing.T) {
	o := newOrchestrator()
	connect(o, "a")

	assert.False(t, o.Invite("a", "ghost", core.Frame(`offer`)))
	assert.False(t, o.Calls.Active("a", "ghost"))
}

func TestOnDisconnectCleansUpAndScopesNotifications(t *testing.T) {
	o := newOrchestrator()
	connect(o, "a")
	connect(o, "b")
	connect(o, "c")
	connect(o, "d")

	o.Join("a", "r1")
	o.Join("b", "r1")
	require.True(t, o.Invite("a", "c", core.Frame(`offer`)))

	dep := o.OnDisconnect("a")
	assert.Equal(t, domain.RoomID("r1"), dep.RoomID)
	assert.Equal(t, []domain.ClientID{"b"}, peerIDs(dep.RoomPeers))
	assert.Equal(t, []domain.ClientID{"c"}, peerIDs(dep.CallPeers), "teardown reaches call peers only, not d")

	_, ok := o.Registry.GetSession("a")
	assert.False(t, ok)
	room, ok := o.Rooms.Get("r1")
	require.True(t, ok)
	assert.Equal(t, 1, room.MemberCount())

	dep = o.OnDisconnect("a")
	assert.Empty(t, dep.RoomPeers)
	assert.Empty(t, dep.CallPeers)
}

func TestOnDisconnectForIdleClient(t *testing.T) {
	o := newOrchestrator()
	connect(o, "a")

	dep := o.OnDisconnect("a")
	assert.Empty(t, dep.RoomPeers)
	assert.Empty(t, dep.CallPeers)
	_, ok := o.Registry.GetSession("a")
	assert.False(t, ok)
}
