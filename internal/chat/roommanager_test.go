package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRooms() *RoomManager {
	m := NewRoomManager(ServerRoomID, NewPending(0))
	m.GetOrInsert(ServerRoomID, func() Room {
		return NewServerRoom(ServerRoomID, "irc.example.net")
	})
	m.SetCurrent(ServerRoomID)
	return m
}

func TestRoomManagerCaseInsensitiveKeys(t *testing.T) {
	m := newTestRooms()
	inserted := m.GetOrInsert("#Test", func() Room { return NewChannelRoom("#Test") })

	room, ok := m.Get("#test", StateOpened)
	require.True(t, ok)
	assert.Same(t, inserted, room)

	room, ok = m.Get("#TEST", StateOpened)
	require.True(t, ok)
	assert.Same(t, inserted, room)
}

func TestRoomManagerStateFilters(t *testing.T) {
	m := newTestRooms()
	m.GetOrInsert("#go", func() Room { return NewChannelRoom("#go") })
	m.Close("#go")

	_, ok := m.Get("#go", StateOpened)
	assert.False(t, ok)

	room, ok := m.Get("#go", StateClosed)
	require.True(t, ok)
	assert.True(t, room.IsClosed())

	room, ok = m.Get("#go", StateAny)
	require.True(t, ok)
	assert.True(t, room.IsClosed())
}

func TestRoomManagerKickedRedirect(t *testing.T) {
	m := newTestRooms()
	room := m.GetOrInsert("#go", func() Room { return NewChannelRoom("#go") })
	room.(*ChannelRoom).SetKicked(true)

	// A plain opened lookup still finds the room.
	got, ok := m.Get("#go", StateOpened)
	require.True(t, ok)
	assert.Same(t, room, got)

	// The not-kicked filter redirects to the server room.
	got, ok = m.Get("#go", StateOpenedNotKicked)
	require.True(t, ok)
	_, isServer := got.(*ServerRoom)
	assert.True(t, isServer)
}

func TestRoomManagerSingleActiveRoom(t *testing.T) {
	m := newTestRooms()
	m.GetOrInsert("#a", func() Room { return NewChannelRoom("#a") })
	m.GetOrInsert("#b", func() Room { return NewChannelRoom("#b") })

	m.SetCurrent("#a")
	m.SetCurrent("#b")

	active := 0
	for _, room := range m.Rooms() {
		if room.IsActive() {
			active++
			assert.Equal(t, "#b", room.ID())
		}
	}
	assert.Equal(t, 1, active)
}

func TestRoomManagerSetCurrentClearsUnread(t *testing.T) {
	m := newTestRooms()
	room := m.GetOrInsert("#a", func() Room { return NewChannelRoom("#a") })
	room.AddMessage(NewRoomMessage(Tags{}, MessagePubmsg, "alice", "hi"))
	room.SetHighlighted(true)
	require.Equal(t, 1, room.UnreadMessages())

	m.SetCurrent("#a")
	assert.Equal(t, 0, room.UnreadMessages())
	assert.False(t, room.Highlighted())
}

func TestRoomManagerCloseCurrentFallsBack(t *testing.T) {
	m := newTestRooms()
	m.GetOrInsert("#a", func() Room { return NewChannelRoom("#a") })
	m.GetOrInsert("#b", func() Room { return NewChannelRoom("#b") })
	m.SetCurrent("#b")

	m.Close("#b")

	// The most-recently-inserted open room becomes current.
	cur, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, "#a", cur.ID())
	assert.True(t, cur.IsActive())
}

func TestRoomManagerRemoveCurrentFallsBack(t *testing.T) {
	m := newTestRooms()
	m.GetOrInsert("#a", func() Room { return NewChannelRoom("#a") })
	m.SetCurrent("#a")

	m.Remove("#a")

	_, ok := m.Get("#a", StateAny)
	assert.False(t, ok)

	cur, ok := m.Current()
	require.True(t, ok)
	_, isServer := cur.(*ServerRoom)
	assert.True(t, isServer)
}

func TestRoomManagerCloseAllUnsetsCurrent(t *testing.T) {
	m := NewRoomManager(ServerRoomID, NewPending(0))
	m.GetOrInsert("#a", func() Room { return NewChannelRoom("#a") })
	m.SetCurrent("#a")

	m.Close("#a")

	_, ok := m.Current()
	assert.False(t, ok)
	assert.Panics(t, func() { m.MustCurrent() })
}

func TestRoomManagerGetOrInsertReopens(t *testing.T) {
	m := newTestRooms()
	m.GetOrInsert("#go", func() Room { return NewChannelRoom("#go") })
	m.Close("#go")

	room := m.GetOrInsert("#go", func() Room { return NewChannelRoom("#go") })
	assert.False(t, room.IsClosed())
}

func TestRoomManagerChangeID(t *testing.T) {
	m := newTestRooms()
	room := m.GetOrInsert("anon-42", func() Room { return NewPrivateRoom("anon-42") })
	m.SetCurrent("anon-42")

	m.ChangeID("anon-42", "Alice")

	_, ok := m.Get("anon-42", StateAny)
	assert.False(t, ok)

	got, ok := m.Get("alice", StateOpened)
	require.True(t, ok)
	assert.Same(t, room, got)
	assert.Equal(t, "Alice", got.ID())

	// Current-room status follows the rename.
	cur, ok := m.Current()
	require.True(t, ok)
	assert.Same(t, room, cur)
}

func TestRoomManagerActiveSubstitutions(t *testing.T) {
	m := newTestRooms()
	m.GetOrInsert("list", func() Room { return NewChannelListRoom("list", "channel list") })
	m.SetCurrent("list")

	// A channel-list room never resolves as a message target.
	active := m.Active(StateOpened)
	_, isServer := active.(*ServerRoom)
	assert.True(t, isServer)

	room := m.GetOrInsert("#go", func() Room { return NewChannelRoom("#go") })
	m.SetCurrent("#go")
	room.(*ChannelRoom).SetKicked(true)

	active = m.Active(StateOpenedNotKicked)
	_, isServer = active.(*ServerRoom)
	assert.True(t, isServer)

	// Without the not-kicked filter the kicked channel stays active.
	active = m.Active(StateOpened)
	assert.Same(t, room, active)
}

func TestRoomManagerRoomsInsertionOrder(t *testing.T) {
	m := newTestRooms()
	m.GetOrInsert("#b", func() Room { return NewChannelRoom("#b") })
	m.GetOrInsert("#a", func() Room { return NewChannelRoom("#a") })

	var ids []string
	for _, room := range m.Rooms() {
		ids = append(ids, room.ID())
	}
	assert.Equal(t, []string{ServerRoomID, "#b", "#a"}, ids)
}
