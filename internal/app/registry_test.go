package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teleclinic/rtc/internal/core"
	"github.com/teleclinic/rtc/internal/domain"
)

type nopConn struct{ fail bool }

func (c nopConn) TrySend(core.Frame) error {
	if c.fail {
		return errors.New("buffer full")
	}
	return nil
}
func (nopConn) Close() {}

func bind(t *testing.T, r *Registry, id string) context.CancelFunc {
	t.Helper()
	_, cancel := context.WithCancel(context.Background())
	sess := core.NewClientSession(domain.ClientID(id), domain.Anonymous(), nopConn{})
	r.Bind(domain.ClientID(id), sess, cancel)
	return cancel
}

func TestRegistryBindAndLookup(t *testing.T) {
	r := NewRegistry()
	cancel := bind(t, r, "a")
	defer cancel()

	sess, ok := r.GetSession("a")
	require.True(t, ok)
	assert.Equal(t, domain.ClientID("a"), sess.ID())
	assert.Equal(t, 1, r.Count())

	_, ok = r.GetSession("missing")
	assert.False(t, ok)
}

func TestRegistryRoomTracking(t *testing.T) {
	r := NewRegistry()
	cancel := bind(t, r, "a")
	defer cancel()

	_, ok := r.RoomOf("a")
	assert.False(t, ok, "fresh session occupies no room")

	require.True(t, r.UpdateRoom("a", "r1"))
	roomID, ok := r.RoomOf("a")
	require.True(t, ok)
	assert.Equal(t, domain.RoomID("r1"), roomID)

	r.ClearRoom("a")
	_, ok = r.RoomOf("a")
	assert.False(t, ok)

	assert.False(t, r.UpdateRoom("missing", "r1"))
}

func TestRegistryUnbindIdempotent(t *testing.T) {
	r := NewRegistry()
	cancel := bind(t, r, "a")
	defer cancel()

	r.Unbind("a")
	r.Unbind("a")
	_, ok := r.GetSession("a")
	assert.False(t, ok)
	assert.Equal(t, 0, r.Count())
}

func TestRegistryCancelFiresSessionContext(t *testing.T) {
	r := NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	sess := core.NewClientSession("a", domain.Anonymous(), nopConn{})
	r.Bind("a", sess, cancel)

	require.True(t, r.Cancel("a"))
	select {
	case <-ctx.Done():
	default:
		t.Fatal("cancel did not fire the session context")
	}
	assert.False(t, r.Cancel("missing"))
}
