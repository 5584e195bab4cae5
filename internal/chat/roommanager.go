package chat

import (
	"fmt"
	"strings"
	"sync"
)

// RoomState filters RoomManager lookups.
type RoomState int

const (
	// StateAny matches every room.
	StateAny RoomState = iota
	// StateOpened filters out closed rooms.
	StateOpened
	// StateClosed matches only closed rooms.
	StateClosed
	// StateOpenedNotKicked additionally redirects channels the client has
	// been kicked from to the server room, so callers never act against a
	// room the client cannot participate in.
	StateOpenedNotKicked
)

// RoomManager is the session-wide registry of rooms, keyed by
// case-insensitive id, with a single current-room pointer. At most one room
// is active at any time.
type RoomManager struct {
	serverID string
	pending  *Pending

	mu      sync.RWMutex
	rooms   map[string]Room
	order   []string
	current string
}

// NewRoomManager creates a registry whose fallback target is the server
// room with the given id. Pending actions queued against a room are
// cancelled when the room is closed or removed.
func NewRoomManager(serverID string, pending *Pending) *RoomManager {
	return &RoomManager{
		serverID: strings.ToLower(serverID),
		pending:  pending,
		rooms:    make(map[string]Room),
	}
}

func roomKey(id string) string { return strings.ToLower(id) }

// Get returns the room with the given id, subject to the state filter.
func (m *RoomManager) Get(id string, state RoomState) (Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getLocked(id, state)
}

func (m *RoomManager) getLocked(id string, state RoomState) (Room, bool) {
	room, ok := m.rooms[roomKey(id)]
	if !ok {
		return nil, false
	}
	switch state {
	case StateOpened:
		if room.state().IsClosed() {
			return nil, false
		}
	case StateClosed:
		if !room.state().IsClosed() {
			return nil, false
		}
	case StateOpenedNotKicked:
		if room.state().IsClosed() {
			return nil, false
		}
		if ch, isChannel := room.(*ChannelRoom); isChannel && ch.Kicked() {
			return m.getLocked(m.serverID, StateOpened)
		}
	}
	return room, true
}

// Current returns the current room, if one is set.
func (m *RoomManager) Current() (Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentLocked()
}

func (m *RoomManager) currentLocked() (Room, bool) {
	if m.current == "" {
		return nil, false
	}
	room, ok := m.rooms[m.current]
	return room, ok
}

// MustCurrent returns the current room and panics when none is set. Absence
// is a protocol desync, not a recoverable condition: the protocol
// guarantees a current room always exists once connected.
func (m *RoomManager) MustCurrent() Room {
	room, ok := m.Current()
	if !ok {
		panic(fmt.Sprintf("chat: no current room (id %q): client state desynchronized", m.current))
	}
	return room
}

// Active resolves the room used for default-target resolution: the current
// room, except that a channel-list room, or with StateOpenedNotKicked a
// channel the client was kicked from, is substituted by the server room.
func (m *RoomManager) Active(state RoomState) Room {
	room := m.MustCurrent()
	switch r := room.(type) {
	case *ChannelListRoom:
		return m.mustServerRoom()
	case *ChannelRoom:
		if state == StateOpenedNotKicked && r.Kicked() {
			return m.mustServerRoom()
		}
	}
	return room
}

func (m *RoomManager) mustServerRoom() Room {
	room, ok := m.Get(m.serverID, StateOpened)
	if !ok {
		panic(fmt.Sprintf("chat: server room %q missing: client state desynchronized", m.serverID))
	}
	return room
}

// GetOrInsert returns the room with the given id, creating it via create
// when absent. The room is always returned in the open state, so handlers
// never fail merely because the room does not exist yet.
func (m *RoomManager) GetOrInsert(id string, create func() Room) Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := roomKey(id)
	if room, ok := m.rooms[key]; ok {
		room.state().reopen()
		return room
	}
	room := create()
	m.rooms[key] = room
	m.order = append(m.order, key)
	return room
}

// SetCurrent moves the current-room pointer. The previous current room, if
// any, loses its active and highlighted flags; the new one becomes active
// with its unread counters cleared.
func (m *RoomManager) SetCurrent(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCurrentLocked(id)
}

func (m *RoomManager) setCurrentLocked(id string) {
	key := roomKey(id)
	room, ok := m.rooms[key]
	if !ok {
		return
	}
	if prev, ok := m.currentLocked(); ok {
		prev.state().setActive(false)
		prev.SetHighlighted(false)
	}
	m.current = key
	room.state().setActive(true)
	room.SetHighlighted(false)
	room.state().clearUnread()
}

// Close marks the room closed, keeping it queryable under StateClosed. If
// it was the current room another open room becomes current, or the
// pointer is unset when none remains. Deferred actions still queued
// against the room are cancelled.
func (m *RoomManager) Close(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := roomKey(id)
	room, ok := m.rooms[key]
	if !ok {
		return
	}
	m.pending.CancelRoom(key)
	if m.current == key {
		m.current = ""
	}
	room.MarkAsClosed()
	if m.current == "" {
		m.setCurrentToLastLocked()
	}
}

// Remove hard-deletes the room, with the same current-room fallback and
// cancellation as Close.
func (m *RoomManager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := roomKey(id)
	if _, ok := m.rooms[key]; !ok {
		return
	}
	m.pending.CancelRoom(key)
	if m.current == key {
		m.current = ""
	}
	delete(m.rooms, key)
	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	if m.current == "" {
		m.setCurrentToLastLocked()
	}
}

// SetCurrentToLast makes the most-recently-inserted open room current, the
// deterministic fallback after a close. When every room is closed the
// pointer stays unset.
func (m *RoomManager) SetCurrentToLast() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCurrentToLastLocked()
}

func (m *RoomManager) setCurrentToLastLocked() {
	for i := len(m.order) - 1; i >= 0; i-- {
		room, ok := m.rooms[m.order[i]]
		if ok && !room.state().IsClosed() {
			m.setCurrentLocked(m.order[i])
			return
		}
	}
}

// ChangeID re-keys a room, preserving current-room status. Used when the
// server reassigns an id, e.g. on the anonymous-to-registered transition of
// a private conversation.
func (m *RoomManager) ChangeID(old, new string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	oldKey, newKey := roomKey(old), roomKey(new)
	room, ok := m.rooms[oldKey]
	if !ok || oldKey == newKey {
		return
	}
	delete(m.rooms, oldKey)
	m.rooms[newKey] = room
	room.state().rename(new)
	for i, k := range m.order {
		if k == oldKey {
			m.order[i] = newKey
			break
		}
	}
	if m.current == oldKey {
		m.current = newKey
	}
}

// Rooms returns every room in insertion order.
func (m *RoomManager) Rooms() []Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Room, 0, len(m.order))
	for _, key := range m.order {
		if room, ok := m.rooms[key]; ok {
			out = append(out, room)
		}
	}
	return out
}
