package chat

import (
	"fmt"
	"strings"
)

// joinHandler applies inbound JOIN events. The system message lands
// immediately; the membership update is deferred through the pending queue
// so the message renders before the member list changes.
type joinHandler struct {
	s *Session
}

func (h *joinHandler) Handle(ev any) {
	e, ok := ev.(JoinEvent)
	if !ok {
		return
	}
	s := h.s
	user := s.Users.UpsertOrigin(e.Origin)
	user.AddChannel(e.Channel)

	var room Room
	if s.isSelf(e.Origin) {
		room = s.Rooms.GetOrInsert(e.Channel, func() Room {
			return NewChannelRoom(e.Channel)
		})
		if ch, isChannel := room.(*ChannelRoom); isChannel {
			ch.SetKicked(false)
		}
		if !e.Forced {
			s.Rooms.SetCurrent(e.Channel)
		}
	} else {
		// A join for a channel we never opened is a leftover from a prior
		// part; drop it.
		var found bool
		room, found = s.Rooms.Get(e.Channel, StateOpened)
		if !found {
			return
		}
	}

	room.AddMessage(NewRoomMessage(e.Tags, EventJoin, e.Origin.Nickname,
		fmt.Sprintf("%s has joined %s", e.Origin.Nickname, e.Channel)))

	s.Pending.After(e.Channel, func() {
		room, ok := s.Rooms.Get(e.Channel, StateOpened)
		if !ok {
			return
		}
		if ch, isChannel := room.(*ChannelRoom); isChannel {
			ch.Members.Add(NewChannelMember(user))
		}
	})
}

// partHandler applies inbound PART events. A part of the client itself
// closes the room, which also cancels any queued membership update.
type partHandler struct {
	s *Session
}

func (h *partHandler) Handle(ev any) {
	e, ok := ev.(PartEvent)
	if !ok {
		return
	}
	s := h.s
	room, found := s.Rooms.Get(e.Channel, StateOpened)
	if !found {
		return
	}

	text := fmt.Sprintf("%s has left %s", e.Origin.Nickname, e.Channel)
	if e.ForcedBy != "" {
		text = fmt.Sprintf("%s was removed from %s by %s", e.Origin.Nickname, e.Channel, e.ForcedBy)
	}
	if e.Message != "" {
		text += " (" + e.Message + ")"
	}
	room.AddMessage(NewRoomMessage(e.Tags, EventPart, e.Origin.Nickname, text))

	user, found := s.Users.Find(e.Origin.ID)
	if !found {
		user, found = s.Users.FindByNickname(e.Origin.Nickname)
	}
	if found {
		user.DelChannel(e.Channel)
	}

	if s.isSelf(e.Origin) {
		s.Rooms.Close(e.Channel)
		return
	}
	if !found {
		return
	}
	s.Pending.After(e.Channel, func() {
		room, ok := s.Rooms.Get(e.Channel, StateOpened)
		if !ok {
			return
		}
		if ch, isChannel := room.(*ChannelRoom); isChannel {
			ch.Members.Remove(user.ID)
		}
	})
}

// kickHandler applies inbound KICK events. A kick of the client itself
// flags the room as kicked right away, so target resolution redirects
// immediately; only the member-list update is deferred.
type kickHandler struct {
	s *Session
}

func (h *kickHandler) Handle(ev any) {
	e, ok := ev.(KickEvent)
	if !ok {
		return
	}
	s := h.s
	room, found := s.Rooms.Get(e.Channel, StateOpened)
	if !found {
		return
	}
	ch, isChannel := room.(*ChannelRoom)
	if !isChannel {
		return
	}

	text := fmt.Sprintf("%s was kicked from %s by %s", e.KickedNick, e.Channel, e.Origin.Nickname)
	if e.Reason != "" {
		text += " (" + e.Reason + ")"
	}
	ch.AddMessage(NewRoomMessage(e.Tags, EventKick, e.Origin.Nickname, text))

	if s.isSelfNick(e.KickedNick) {
		ch.SetKicked(true)
		s.Pending.After(e.Channel, func() {
			if room, ok := s.Rooms.Get(e.Channel, StateAny); ok {
				if ch, isChannel := room.(*ChannelRoom); isChannel {
					ch.Members.Clear()
				}
			}
		})
		return
	}

	kicked, found := s.Users.FindByNickname(e.KickedNick)
	if !found {
		return
	}
	kicked.DelChannel(e.Channel)
	s.Pending.After(e.Channel, func() {
		room, ok := s.Rooms.Get(e.Channel, StateOpened)
		if !ok {
			return
		}
		if ch, isChannel := room.(*ChannelRoom); isChannel {
			ch.Members.Remove(kicked.ID)
		}
	})
}

// messageHandler applies PRIVMSG, PUBMSG and NOTICE events. Messages from
// blocked users are dropped; the target room is created on first reference.
type messageHandler struct {
	s       *Session
	private bool
	notice  bool
}

func (h *messageHandler) Handle(ev any) {
	e, ok := ev.(MessageEvent)
	if !ok {
		return
	}
	s := h.s
	user := s.Users.UpsertOrigin(e.Origin)
	if s.Users.IsBlocked(user.ID) {
		return
	}

	var room Room
	typ := MessagePubmsg
	switch {
	case h.notice:
		typ = MessageNotice
		// Notices land on the active room rather than opening one.
		cur, ok := s.Rooms.Current()
		if !ok {
			cur, ok = s.Rooms.Get(ServerRoomID, StateOpened)
			if !ok {
				return
			}
		}
		room = cur
	case h.private:
		typ = MessagePrivmsg
		// The conversation surface is named after the other party.
		id := e.Origin.Nickname
		if s.isSelf(e.Origin) {
			id = e.Target
		}
		room = s.Rooms.GetOrInsert(id, func() Room {
			return NewPrivateRoom(id)
		})
	default:
		room = s.Rooms.GetOrInsert(e.Target, func() Room {
			return NewChannelRoom(e.Target)
		})
	}

	room.AddMessage(NewRoomMessage(e.Tags, typ, e.Origin.Nickname, e.Text))

	if self, ok := s.Self(); ok && !s.isSelf(e.Origin) && !room.IsActive() {
		if strings.Contains(strings.ToLower(e.Text), strings.ToLower(self.Nickname)) {
			room.SetHighlighted(true)
		}
	}
}

// topicHandler records channel topic changes.
type topicHandler struct {
	s *Session
}

func (h *topicHandler) Handle(ev any) {
	e, ok := ev.(TopicEvent)
	if !ok {
		return
	}
	room, found := h.s.Rooms.Get(e.Channel, StateOpened)
	if !found {
		return
	}
	ch, isChannel := room.(*ChannelRoom)
	if !isChannel {
		return
	}
	ch.SetTopic(e.Topic)
	if e.Origin.Nickname != "" {
		ch.AddMessage(NewRoomMessage(e.Tags, EventTopic, e.Origin.Nickname,
			fmt.Sprintf("%s changed the topic of %s to: %s", e.Origin.Nickname, e.Channel, e.Topic)))
	}
}

// namesHandler ingests one NAMES reply line, registering the listed users
// and their access flags. NAMES replies are authoritative, so membership is
// applied synchronously.
type namesHandler struct {
	s *Session
}

func (h *namesHandler) Handle(ev any) {
	e, ok := ev.(NamesEvent)
	if !ok {
		return
	}
	s := h.s
	room, found := s.Rooms.Get(e.Channel, StateOpened)
	if !found {
		return
	}
	ch, isChannel := room.(*ChannelRoom)
	if !isChannel {
		return
	}
	for _, nm := range e.Members {
		user := s.Users.UpsertOrigin(nm.Origin)
		user.AddChannel(e.Channel)
		member := NewChannelMember(user)
		for _, flag := range strings.Split(nm.Flags, "") {
			if level, ok := LevelFromFlag(flag); ok {
				member.Grant(level)
			}
		}
		ch.Members.Add(member)
	}
}
