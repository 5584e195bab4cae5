package irc

import (
	"strings"

	"github.com/dalnet/webchat/internal/chat"
)

// Mode flag and sign for each access-level and ban-family verb. The wire
// carries these as MODE changes; the distinct verbs exist at the command
// surface only.
var modeVerbs = map[string]struct {
	sign string
	flag string
}{
	chat.VerbQop:   {"+", "q"},
	chat.VerbDeqop: {"-", "q"},
	chat.VerbAop:   {"+", "a"},
	chat.VerbDeaop: {"-", "a"},
	chat.VerbOp:    {"+", "o"},
	chat.VerbDeop:  {"-", "o"},
	chat.VerbHop:   {"+", "h"},
	chat.VerbDehop: {"-", "h"},
	chat.VerbVip:   {"+", "v"},
	chat.VerbDevip: {"-", "v"},

	chat.VerbBan:       {"+", "b"},
	chat.VerbUnban:     {"-", "b"},
	chat.VerbBanex:     {"+", "e"},
	chat.VerbUnbanex:   {"-", "e"},
	chat.VerbInvitex:   {"+", "I"},
	chat.VerbUninvitex: {"-", "I"},
}

// Emit encodes one outbound command payload to wire lines. It implements
// chat.Emitter; payloads pass through unchanged from the command layer.
func (c *Client) Emit(verb string, payload any) {
	if mv, ok := modeVerbs[verb]; ok {
		c.emitModeChange(mv.sign, mv.flag, payload)
		return
	}

	switch req := payload.(type) {
	case chat.JoinRequest:
		params := []string{strings.Join(req.Channels, ",")}
		if len(req.Keys) > 0 {
			params = append(params, strings.Join(req.Keys, ","))
		}
		c.conn.Send("JOIN", params...)
	case chat.PartRequest:
		for _, channel := range req.Channels {
			if req.Message != "" {
				c.conn.Send("PART", channel, req.Message)
			} else {
				c.conn.Send("PART", channel)
			}
		}
	case chat.KickRequest:
		c.conn.Send("KICK", req.Channel, strings.Join(req.Nicknames, ","), req.Comment)
	case chat.NickRequest:
		c.conn.Send("NICK", req.Nickname)
	case chat.MessageRequest:
		for _, target := range req.Targets {
			c.conn.Privmsg(target, req.Text)
		}
	case chat.NoticeRequest:
		target := req.Target
		switch req.MinLevel {
		case chat.LevelOperator:
			target = "@" + target
		case chat.LevelHalfOperator:
			target = "%" + target
		}
		c.conn.Send("NOTICE", target, req.Text)
	case chat.TopicRequest:
		c.conn.Send("TOPIC", req.Channel, req.Topic)
	case chat.SilenceRequest:
		sign := "-"
		if req.Add {
			sign = "+"
		}
		c.conn.Send("SILENCE", sign+req.Nickname)
	}
}

// emitModeChange sends one MODE line per argument, e.g. MODE #chan +o nick.
func (c *Client) emitModeChange(sign, flag string, payload any) {
	var channel string
	var args []string
	switch req := payload.(type) {
	case chat.AccessLevelRequest:
		channel = req.Channel
		args = req.Nicknames
	case chat.MaskRequest:
		channel = req.Channel
		args = req.Masks
	default:
		return
	}
	for _, arg := range args {
		c.conn.Send("MODE", channel, sign+flag, arg)
	}
}
