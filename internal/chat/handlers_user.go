package chat

import "fmt"

// nickHandler applies NICK events: the registry entry moves to the new
// nickname and a system message lands in every channel shared with the
// renamed user.
type nickHandler struct {
	s *Session
}

func (h *nickHandler) Handle(ev any) {
	e, ok := ev.(NickEvent)
	if !ok {
		return
	}
	s := h.s
	s.Users.ChangeNickname(e.OldNickname, e.NewNickname)

	user, found := s.Users.FindByNickname(e.NewNickname)
	if !found {
		return
	}
	text := fmt.Sprintf("%s is now known as %s", e.OldNickname, e.NewNickname)
	if s.isSelf(e.Origin) || s.isSelfNick(e.NewNickname) {
		text = fmt.Sprintf("You are now known as %s", e.NewNickname)
	}
	for _, id := range user.Channels() {
		if room, ok := s.Rooms.Get(id, StateOpened); ok {
			room.AddMessage(NewRoomMessage(e.Tags, EventNick, e.NewNickname, text))
		}
	}
	// A private conversation keyed by the old nickname follows the rename.
	if _, ok := s.Rooms.Get(e.OldNickname, StateAny); ok {
		s.Rooms.ChangeID(e.OldNickname, e.NewNickname)
	}
}

// quitHandler applies QUIT events: the user leaves every shared channel and
// is dropped from the registry.
type quitHandler struct {
	s *Session
}

func (h *quitHandler) Handle(ev any) {
	e, ok := ev.(QuitEvent)
	if !ok {
		return
	}
	s := h.s
	user, found := s.Users.Find(e.Origin.ID)
	if !found {
		user, found = s.Users.FindByNickname(e.Origin.Nickname)
	}
	if !found {
		return
	}
	text := fmt.Sprintf("%s has quit", user.Nickname)
	if e.Message != "" {
		text += " (" + e.Message + ")"
	}
	for _, id := range user.Channels() {
		room, ok := s.Rooms.Get(id, StateOpened)
		if !ok {
			continue
		}
		room.AddMessage(NewRoomMessage(e.Tags, EventQuit, user.Nickname, text))
		if ch, isChannel := room.(*ChannelRoom); isChannel {
			ch.Members.Remove(user.ID)
		}
	}
	if !s.isSelf(e.Origin) {
		s.Users.Del(user.ID)
	}
}

// silenceHandler mirrors the server's block list into the user registry.
type silenceHandler struct {
	s *Session
}

func (h *silenceHandler) Handle(ev any) {
	e, ok := ev.(SilenceEvent)
	if !ok {
		return
	}
	s := h.s
	for _, origin := range e.Users {
		user := s.Users.UpsertOrigin(origin)
		switch {
		case e.Added:
			s.Users.Block(user.ID)
		case e.Removed:
			s.Users.Unblock(user.ID)
		}
	}
}

// errorHandler renders server-authoritative error replies as system
// messages on the room the user is looking at. The core never synthesizes
// these locally.
type errorHandler struct {
	s *Session
}

func (h *errorHandler) Handle(ev any) {
	e, ok := ev.(ErrorEvent)
	if !ok {
		return
	}
	room, found := h.s.Rooms.Current()
	if !found {
		room, found = h.s.Rooms.Get(ServerRoomID, StateOpened)
		if !found {
			return
		}
	}
	text := e.Reason
	if e.Target != "" {
		text = e.Target + ": " + text
	}
	room.AddMessage(NewRoomMessage(e.Tags, "error:"+e.Code, e.Origin.Nickname, text))
}
