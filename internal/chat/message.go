package chat

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Well-known message types. Types prefixed "event:" or "error:" count
// against the unread-events counter; everything else counts as an unread
// message.
const (
	MessagePrivmsg = "privmsg"
	MessagePubmsg  = "pubmsg"
	MessageNotice  = "notice"

	EventJoin  = "event:join"
	EventPart  = "event:part"
	EventKick  = "event:kick"
	EventMode  = "event:mode"
	EventNick  = "event:nick"
	EventQuit  = "event:quit"
	EventTopic = "event:topic"
)

// RoomMessage is one entry of a room's bounded message history.
type RoomMessage struct {
	ID       string
	Type     string
	Time     time.Time
	Nickname string
	Text     string

	// Archived marks messages retained on a closed room; display-only.
	Archived bool
}

// NewRoomMessage builds a message, minting an id when the server supplied
// no msgid tag.
func NewRoomMessage(tags Tags, typ, nickname, text string) *RoomMessage {
	id := tags.MsgID
	if id == "" {
		id = uuid.NewString()
	}
	return &RoomMessage{
		ID:       id,
		Type:     typ,
		Time:     time.Now(),
		Nickname: nickname,
		Text:     text,
	}
}

// IsEvent reports whether the message counts as an event (system or error
// line) rather than a user message.
func (m *RoomMessage) IsEvent() bool {
	return strings.HasPrefix(m.Type, "event:") || strings.HasPrefix(m.Type, "error:")
}
