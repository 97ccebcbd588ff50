package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teleclinic/rtc/internal/core"
	"github.com/teleclinic/rtc/internal/domain"
)

func TestRoomManagerGetOrCreate(t *testing.T) {
	rm := NewRoomManager()

	r1 := rm.GetOrCreate("r1")
	r2 := rm.GetOrCreate("r1")
	assert.Same(t, r1, r2, "same id must map to one room instance")

	_, ok := rm.Get("r1")
	assert.True(t, ok)
	_, ok = rm.Get("missing")
	assert.False(t, ok)
}

func TestRoomManagerReapOnlyWhenEmpty(t *testing.T) {
	rm := NewRoomManager()
	room := rm.GetOrCreate("r1")
	sess := core.NewClientSession("a", domain.Anonymous(), nopConn{})
	room.AddMember("a", sess)

	rm.Reap("r1")
	_, ok := rm.Get("r1")
	assert.True(t, ok, "occupied room must not be reaped")

	room.RemoveMember("a")
	rm.Reap("r1")
	_, ok = rm.Get("r1")
	assert.False(t, ok, "empty room must be reaped")
}

func TestRoomManagerList(t *testing.T) {
	rm := NewRoomManager()
	rm.GetOrCreate("r1").AddMember("a", core.NewClientSession("a", domain.Anonymous(), nopConn{}))
	rm.GetOrCreate("r2")

	infos := rm.List()
	require.Len(t, infos, 2)
	counts := map[domain.RoomID]int{}
	for _, info := range infos {
		counts[info.ID] = info.MemberCount
	}
	assert.Equal(t, 1, counts["r1"])
	assert.Equal(t, 0, counts["r2"])
}

func TestRoomManagerStopRoom(t *testing.T) {
	rm := NewRoomManager()
	rm.GetOrCreate("r1")
	rm.StopRoom("r1")
	_, ok := rm.Get("r1")
	assert.False(t, ok)
}
