package chat

import (
	"fmt"
	"strconv"
)

// modeHandler applies MODE replies, the only trigger for local access-level
// and channel-setting changes. Grant/revoke commands (QOP..DEVIP, the ban
// family) never mutate state when sent; two operators editing the same
// channel concurrently therefore cannot make the client diverge from the
// server.
type modeHandler struct {
	s *Session
}

func (h *modeHandler) Handle(ev any) {
	e, ok := ev.(ModeEvent)
	if !ok {
		return
	}
	if !isChannelID(e.Target) {
		h.handleUserMode(e)
		return
	}
	room, found := h.s.Rooms.Get(e.Target, StateOpened)
	if !found {
		return
	}
	ch, isChannel := room.(*ChannelRoom)
	if !isChannel {
		return
	}
	for _, change := range e.Added {
		h.apply(ch, e, change, true)
	}
	for _, change := range e.Removed {
		h.apply(ch, e, change, false)
	}
}

func (h *modeHandler) apply(ch *ChannelRoom, e ModeEvent, change ModeChange, added bool) {
	if level, isLevel := LevelFromFlag(change.Flag); isLevel {
		h.applyLevel(ch, e, change, level, added)
		return
	}

	switch change.Flag {
	case "b":
		ch.updateSettings(func(s *ChannelSettings) {
			s.Bans = updateMasks(s.Bans, change.Arg, added)
		})
	case "e":
		ch.updateSettings(func(s *ChannelSettings) {
			s.BanExceptions = updateMasks(s.BanExceptions, change.Arg, added)
		})
	case "I":
		ch.updateSettings(func(s *ChannelSettings) {
			s.InviteExceptions = updateMasks(s.InviteExceptions, change.Arg, added)
		})
	case "i":
		ch.updateSettings(func(s *ChannelSettings) { s.InviteOnly = added })
	case "m":
		ch.updateSettings(func(s *ChannelSettings) { s.Moderated = added })
	case "k":
		ch.updateSettings(func(s *ChannelSettings) {
			if added {
				s.Key = change.Arg
			} else {
				s.Key = ""
			}
		})
	case "l":
		ch.updateSettings(func(s *ChannelSettings) {
			if added {
				s.Limit, _ = strconv.Atoi(change.Arg)
			} else {
				s.Limit = 0
			}
		})
	default:
		return
	}

	sign := "+"
	if !added {
		sign = "-"
	}
	text := fmt.Sprintf("%s sets mode %s%s", e.Origin.Nickname, sign, change.Flag)
	if change.Arg != "" {
		text += " " + change.Arg
	}
	ch.AddMessage(NewRoomMessage(e.Tags, EventMode, e.Origin.Nickname, text))
}

// applyLevel re-buckets the named member. An unknown target nickname means
// the member list has not caught up yet; the change is dropped, the next
// NAMES reply will carry the authoritative state.
func (h *modeHandler) applyLevel(ch *ChannelRoom, e ModeEvent, change ModeChange, level AccessLevel, added bool) {
	user, found := h.s.Users.FindByNickname(change.Arg)
	if !found {
		return
	}
	if !ch.Members.SetLevel(user.ID, level, added) {
		return
	}
	sign := "+"
	if !added {
		sign = "-"
	}
	ch.AddMessage(NewRoomMessage(e.Tags, EventMode, e.Origin.Nickname,
		fmt.Sprintf("%s sets mode %s%s %s", e.Origin.Nickname, sign, change.Flag, change.Arg)))
}

// handleUserMode folds the few user-scoped flags the client mirrors into
// the user record.
func (h *modeHandler) handleUserMode(e ModeEvent) {
	user, found := h.s.Users.FindByNickname(e.Target)
	if !found {
		return
	}
	applyFlags := func(changes []ModeChange, added bool) {
		for _, change := range changes {
			switch change.Flag {
			case "o":
				if added {
					user.Operator = OperatorGlobal
				} else {
					user.Operator = OperatorNone
				}
			case "O":
				if added {
					user.Operator = OperatorLocal
				} else {
					user.Operator = OperatorNone
				}
			case "a":
				user.Away = added
			}
		}
	}
	applyFlags(e.Added, true)
	applyFlags(e.Removed, false)
}

func updateMasks(masks []string, mask string, added bool) []string {
	if added {
		for _, m := range masks {
			if m == mask {
				return masks
			}
		}
		return append(masks, mask)
	}
	for i, m := range masks {
		if m == mask {
			return append(masks[:i], masks[i+1:]...)
		}
	}
	return masks
}
