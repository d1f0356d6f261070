package app

import (
	"testing"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	roomA domain.RoomID = "11111111-1111-4111-8111-111111111111"
	roomB domain.RoomID = "22222222-2222-4222-9222-222222222222"
)

type nopConn struct{}

func (nopConn) TrySend(core.Frame) error { return nil }
func (nopConn) Close()                   {}

func TestRegistry_RegisterUnregister(t *testing.T) {
	r := NewRegistry()
	require.True(t, r.Register("a", nopConn{}, nil))
	assert.False(t, r.Register("a", nopConn{}, nil))
	assert.True(t, r.Has("a"))
	assert.Equal(t, 1, r.ClientCount())

	conn, ok := r.Conn("a")
	require.True(t, ok)
	assert.NotNil(t, conn)

	assert.True(t, r.Unregister("a"))
	assert.False(t, r.Unregister("a"))
	assert.False(t, r.Has("a"))
	_, ok = r.Conn("a")
	assert.False(t, ok)
}

func TestRegistry_AddRemove(t *testing.T) {
	r := NewRegistry()
	r.Register("a", nopConn{}, nil)
	r.Register("b", nopConn{}, nil)

	assert.False(t, r.Add(roomA, "ghost"))
	require.True(t, r.Add(roomA, "b"))
	require.True(t, r.Add(roomA, "a"))
	assert.False(t, r.Add(roomA, "a"))

	assert.Equal(t, []domain.ClientID{"a", "b"}, r.MembersOf(roomA))
	assert.Equal(t, []domain.RoomID{roomA}, r.RoomsOf("a"))
	assert.True(t, r.IsMember(roomA, "a"))

	assert.True(t, r.Remove(roomA, "a"))
	assert.False(t, r.Remove(roomA, "a"))
	assert.False(t, r.Remove(roomB, "a"))
	assert.Empty(t, r.RoomsOf("a"))
	assert.Equal(t, []domain.RoomID{roomA}, r.Rooms())

	r.Remove(roomA, "b")
	assert.Empty(t, r.Rooms())
	assert.Empty(t, r.MembersOf(roomA))
}

func TestRegistry_UnregisterDropsMembership(t *testing.T) {
	r := NewRegistry()
	r.Register("a", nopConn{}, nil)
	r.Add(roomA, "a")
	r.Add(roomB, "a")

	r.Unregister("a")
	assert.Empty(t, r.Rooms())
	assert.Nil(t, r.RoomsOf("a"))
}

func TestRegistry_RoomsSkipsNonRoomKeys(t *testing.T) {
	r := NewRegistry()
	r.Register("a", nopConn{}, nil)
	r.Add(roomB, "a")
	r.Add(roomA, "a")
	r.Add("a", "a")

	assert.Equal(t, []domain.RoomID{roomA, roomB}, r.Rooms())
	assert.Equal(t, []core.RoomInfo{{ID: roomA, MemberCount: 1}, {ID: roomB, MemberCount: 1}}, r.RoomInfos())
}

func TestRegistry_Names(t *testing.T) {
	r := NewRegistry()
	r.Register("a", nopConn{}, nil)
	r.Register("b", nopConn{}, nil)
	r.Add(roomA, "a")
	r.Add(roomA, "b")

	assert.False(t, r.SetName("ghost", "x"))
	require.True(t, r.SetName("a", "Alice"))

	name, ok := r.Name("a")
	require.True(t, ok)
	assert.Equal(t, "Alice", name)
	name, ok = r.Name("b")
	require.True(t, ok)
	assert.Equal(t, "", name)

	assert.Equal(t, map[domain.ClientID]string{"a": "Alice", "b": "Anon"}, r.NamesOf(roomA, "Anon"))
	assert.Equal(t, []domain.User{{ID: "a", Name: "Alice"}, {ID: "b", Name: "Anon"}}, r.MembersSnapshot(roomA, "Anon"))
	assert.Empty(t, r.NamesOf(roomB, "Anon"))
}

func TestRegistry_Cancel(t *testing.T) {
	r := NewRegistry()
	called := 0
	r.Register("a", nopConn{}, func() { called++ })
	r.Register("b", nopConn{}, nil)

	assert.True(t, r.Cancel("a"))
	assert.True(t, r.Cancel("b"))
	assert.False(t, r.Cancel("ghost"))
	assert.Equal(t, 1, called)
}

func TestPolicyByName(t *testing.T) {
	assert.Equal(t, KickMember, PolicyByName("Kick").OnBackPressure("a"))
	assert.Equal(t, DropFrame, PolicyByName("drop").OnBackPressure("a"))
	assert.Equal(t, DropFrame, PolicyByName("").OnBackPressure("a"))
}
