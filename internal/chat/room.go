package chat

import "sync"

// History bounds. When a buffer is full the oldest entry is evicted first.
const (
	MessagesLimit     = 250
	InputHistoryLimit = 50
)

// Room is one conversation surface. The concrete types are ServerRoom,
// ChannelRoom, PrivateRoom and ChannelListRoom; callers that need
// type-specific state switch on the concrete type.
type Room interface {
	ID() string
	Name() string
	SetCustomName(name string)
	IsActive() bool
	IsClosed() bool
	Highlighted() bool
	SetHighlighted(on bool)
	UnreadEvents() int
	UnreadMessages() int
	Messages() []*RoomMessage
	InputHistory() []string
	AddMessage(msg *RoomMessage)
	AddInputHistory(text string)
	MarkAsClosed()

	state() *roomState
}

// roomState is the shared surface of every room kind: bounded message and
// input histories, unread counters and the active/closed/highlighted flags.
type roomState struct {
	mu          sync.RWMutex
	id          string
	name        string
	customName  string
	active      bool
	closed      bool
	highlighted bool

	messages     []*RoomMessage
	inputHistory []string

	totalUnreadEvents   int
	totalUnreadMessages int
}

func newRoomState(id, name string) roomState {
	return roomState{
		id:   id,
		name: name,
		// The trailing empty slot is the entry currently being edited.
		inputHistory: []string{""},
	}
}

func (r *roomState) state() *roomState { return r }

func (r *roomState) ID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.id
}

// Name returns the custom name when one is set, the room name otherwise.
func (r *roomState) Name() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.customName != "" {
		return r.customName
	}
	return r.name
}

// SetCustomName overrides the display name of the room.
func (r *roomState) SetCustomName(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customName = name
}

func (r *roomState) IsActive() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

func (r *roomState) IsClosed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.closed
}

func (r *roomState) Highlighted() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.highlighted
}

func (r *roomState) SetHighlighted(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.highlighted = on
}

func (r *roomState) UnreadEvents() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.totalUnreadEvents
}

func (r *roomState) UnreadMessages() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.totalUnreadMessages
}

// Messages returns a snapshot of the message history, oldest first.
func (r *roomState) Messages() []*RoomMessage {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*RoomMessage, len(r.messages))
	copy(out, r.messages)
	return out
}

// InputHistory returns a snapshot of the input history. The last entry is
// the empty editing slot.
func (r *roomState) InputHistory() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.inputHistory))
	copy(out, r.inputHistory)
	return out
}

// AddMessage appends to the bounded message history, evicting the oldest
// entry when full. Unread counters increment only while the room is not the
// active one.
func (r *roomState) AddMessage(msg *RoomMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) >= MessagesLimit {
		r.messages = r.messages[1:]
	}
	r.messages = append(r.messages, msg)
	if !r.active {
		if msg.IsEvent() {
			r.totalUnreadEvents++
		} else {
			r.totalUnreadMessages++
		}
	}
}

// AddInputHistory commits the text being edited. Submitting the same text
// twice in a row collapses to one entry: the editing slot is simply reset.
func (r *roomState) AddInputHistory(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.inputHistory)
	if n >= 2 && r.inputHistory[n-2] == text {
		r.inputHistory[n-1] = ""
		return
	}
	r.inputHistory[n-1] = text
	r.inputHistory = append(r.inputHistory, "")
	if len(r.inputHistory) > InputHistoryLimit {
		r.inputHistory = r.inputHistory[1:]
	}
}

// MarkAsClosed soft-deletes the room. Retained messages are tagged as
// archived; the room stays queryable under the closed state until an
// explicit remove.
func (r *roomState) MarkAsClosed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.active = false
	for _, msg := range r.messages {
		msg.Archived = true
	}
}

func (r *roomState) setActive(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = on
}

func (r *roomState) clearUnread() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.totalUnreadEvents = 0
	r.totalUnreadMessages = 0
}

func (r *roomState) reopen() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = false
}

func (r *roomState) rename(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.id = id
	r.name = id
}

// ServerRoom is the connection log of the network itself, and the fallback
// target when no better room can be resolved.
type ServerRoom struct {
	roomState
}

// NewServerRoom creates the room for the server connection log.
func NewServerRoom(id, name string) *ServerRoom {
	return &ServerRoom{roomState: newRoomState(id, name)}
}

// PrivateRoom is a one-to-one conversation with another user.
type PrivateRoom struct {
	roomState
}

// NewPrivateRoom creates a private conversation surface named after the
// other party.
func NewPrivateRoom(nickname string) *PrivateRoom {
	return &PrivateRoom{roomState: newRoomState(nickname, nickname)}
}

// ChannelListRoom is the synthetic surface presenting the network channel
// list. It never resolves as a message target.
type ChannelListRoom struct {
	roomState
}

// NewChannelListRoom creates a channel-list surface.
func NewChannelListRoom(id, name string) *ChannelListRoom {
	return &ChannelListRoom{roomState: newRoomState(id, name)}
}

// ChannelSettings are the channel modes mirrored from MODE replies.
type ChannelSettings struct {
	InviteOnly       bool
	Moderated        bool
	Key              string
	Limit            int
	Bans             []string
	BanExceptions    []string
	InviteExceptions []string
}

// ChannelRoom is a joinable multi-user room with access-level-gated
// moderation state.
type ChannelRoom struct {
	roomState

	Members *ChannelMembers

	topicMu sync.RWMutex
	topic   string

	settingsMu sync.RWMutex
	settings   ChannelSettings
	kicked     bool
}

// NewChannelRoom creates a channel room with an empty member registry.
func NewChannelRoom(name string) *ChannelRoom {
	return &ChannelRoom{
		roomState: newRoomState(name, name),
		Members:   NewChannelMembers(),
	}
}

// Topic returns the channel topic.
func (c *ChannelRoom) Topic() string {
	c.topicMu.RLock()
	defer c.topicMu.RUnlock()
	return c.topic
}

// SetTopic records the channel topic.
func (c *ChannelRoom) SetTopic(topic string) {
	c.topicMu.Lock()
	defer c.topicMu.Unlock()
	c.topic = topic
}

// Kicked reports whether the client has been kicked from the channel.
func (c *ChannelRoom) Kicked() bool {
	c.settingsMu.RLock()
	defer c.settingsMu.RUnlock()
	return c.kicked
}

// SetKicked flags the client as kicked from (or re-admitted to) the channel.
func (c *ChannelRoom) SetKicked(on bool) {
	c.settingsMu.Lock()
	defer c.settingsMu.Unlock()
	c.kicked = on
}

// Settings returns a snapshot of the channel mode settings.
func (c *ChannelRoom) Settings() ChannelSettings {
	c.settingsMu.RLock()
	defer c.settingsMu.RUnlock()
	s := c.settings
	s.Bans = append([]string(nil), c.settings.Bans...)
	s.BanExceptions = append([]string(nil), c.settings.BanExceptions...)
	s.InviteExceptions = append([]string(nil), c.settings.InviteExceptions...)
	return s
}

func (c *ChannelRoom) updateSettings(fn func(*ChannelSettings)) {
	c.settingsMu.Lock()
	defer c.settingsMu.Unlock()
	fn(&c.settings)
}
