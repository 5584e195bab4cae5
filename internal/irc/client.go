package irc

import (
	"crypto/tls"
	"fmt"
	"log"
	"strings"

	"github.com/dalnet/webchat/internal/chat"
	"github.com/dalnet/webchat/internal/config"
	"github.com/ergochat/irc-go/ircevent"
	"github.com/ergochat/irc-go/ircmsg"
)

// Version information (set at build time or here)
var (
	Version   = "1.0.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// Client binds an IRC connection to a chat session: inbound lines are
// decoded into chat events and dispatched through the session registry,
// outbound command payloads are encoded back to wire lines. Events are
// delivered to the session serially, in server-emission order.
type Client struct {
	conn    *ircevent.Connection
	cfg     *config.Config
	session *chat.Session
}

// NewClient creates a client ready to dial.
func NewClient(cfg *config.Config) (*Client, error) {
	c := &Client{cfg: cfg}
	c.session = chat.NewSession(c, chat.MemberSyncDelay)

	conn := &ircevent.Connection{
		Server:      fmt.Sprintf("%s:%d", cfg.Server, cfg.Port),
		Nick:        cfg.Nick,
		User:        cfg.Username,
		RealName:    cfg.RealName,
		Password:    cfg.ServerPass,
		QuitMessage: "Leaving",
		Debug:       false,
		UseTLS:      false,
		TLSConfig:   &tls.Config{InsecureSkipVerify: true},
	}
	c.conn = conn

	// Register handlers
	c.registerHandlers()

	return c, nil
}

// Session exposes the state core to the UI layer.
func (c *Client) Session() *chat.Session {
	return c.session
}

func (c *Client) registerHandlers() {
	// Connected (end of MOTD)
	c.conn.AddCallback("376", c.onConnect)
	c.conn.AddCallback("422", c.onConnect) // MOTD missing is also "connected"

	// Room lifecycle
	c.conn.AddCallback("JOIN", c.onJoin)
	c.conn.AddCallback("PART", c.onPart)
	c.conn.AddCallback("KICK", c.onKick)

	// Messaging
	c.conn.AddCallback("PRIVMSG", c.onPrivMsg)
	c.conn.AddCallback("NOTICE", c.onNotice)

	// State updates
	c.conn.AddCallback("MODE", c.onMode)
	c.conn.AddCallback("NICK", c.onNick)
	c.conn.AddCallback("QUIT", c.onQuit)
	c.conn.AddCallback("TOPIC", c.onTopic)
	c.conn.AddCallback("332", c.onTopicReply)    // RPL_TOPIC
	c.conn.AddCallback("353", c.onNamesReply)    // RPL_NAMREPLY
	c.conn.AddCallback("SILENCE", c.onSilence)   // server silence confirmation
	c.conn.AddCallback("271", c.onSilenceList)   // RPL_SILELIST
	c.conn.AddCallback("433", c.onNickInUse)     // ERR_NICKNAMEINUSE
	c.conn.AddCallback("CTCP_VERSION", c.onCtcpVersion)

	// Server-authoritative errors, rendered as system messages
	for _, numeric := range []string{
		"401", // ERR_NOSUCHNICK
		"403", // ERR_NOSUCHCHANNEL
		"404", // ERR_CANNOTSENDTOCHAN
		"442", // ERR_NOTONCHANNEL
		"471", // ERR_CHANNELISFULL
		"473", // ERR_INVITEONLYCHAN
		"474", // ERR_BANNEDFROMCHAN
		"475", // ERR_BADCHANNELKEY
		"482", // ERR_CHANOPRIVSNEEDED
	} {
		numeric := numeric
		c.conn.AddCallback(numeric, func(e ircmsg.Message) {
			c.onErrorReply(numeric, e)
		})
	}
}

// Connect initiates the IRC connection
func (c *Client) Connect() error {
	return c.conn.Connect()
}

// Loop runs the IRC event loop (blocking)
func (c *Client) Loop() {
	c.conn.Loop()
}

// Quit disconnects from IRC
func (c *Client) Quit() {
	c.conn.Quit()
}

// origin decodes the sender of a message. The wire carries no user ids;
// the session mints them and merges by nickname.
func origin(e ircmsg.Message) chat.Origin {
	nuh, err := e.NUH()
	if err != nil {
		return chat.Origin{Nickname: e.Nick()}
	}
	return chat.Origin{
		Nickname: nuh.Name,
		Ident:    nuh.User,
		Host:     nuh.Host,
	}
}

func tags(e ircmsg.Message) chat.Tags {
	_, msgid := e.GetTag("msgid")
	return chat.Tags{MsgID: msgid}
}

func (c *Client) onConnect(e ircmsg.Message) {
	log.Println("Connected to IRC server")

	c.session.Begin(chat.Origin{Nickname: c.conn.CurrentNick()}, e.Source)

	if len(c.cfg.Channels) > 0 {
		c.session.Commands.Join(c.cfg.Channels, nil)
	}
}

func (c *Client) onJoin(e ircmsg.Message) {
	if len(e.Params) < 1 {
		return
	}
	c.session.Dispatch(chat.VerbJoin, chat.JoinEvent{
		Origin:  origin(e),
		Tags:    tags(e),
		Channel: e.Params[0],
	})
}

func (c *Client) onPart(e ircmsg.Message) {
	if len(e.Params) < 1 {
		return
	}
	var message string
	if len(e.Params) > 1 {
		message = e.Params[1]
	}
	c.session.Dispatch(chat.VerbPart, chat.PartEvent{
		Origin:  origin(e),
		Tags:    tags(e),
		Channel: e.Params[0],
		Message: message,
	})
}

func (c *Client) onKick(e ircmsg.Message) {
	if len(e.Params) < 2 {
		return
	}
	var reason string
	if len(e.Params) > 2 {
		reason = e.Params[2]
	}
	c.session.Dispatch(chat.VerbKick, chat.KickEvent{
		Origin:     origin(e),
		Tags:       tags(e),
		Channel:    e.Params[0],
		KickedNick: e.Params[1],
		Reason:     reason,
	})
}

func (c *Client) onPrivMsg(e ircmsg.Message) {
	if len(e.Params) < 2 {
		return
	}
	target := e.Params[0]
	ev := chat.MessageEvent{
		Origin: origin(e),
		Tags:   tags(e),
		Target: target,
		Text:   e.Params[1],
	}
	if strings.HasPrefix(target, "#") || strings.HasPrefix(target, "&") {
		c.session.Dispatch(chat.VerbPubmsg, ev)
		return
	}
	// Private message: the room is named after the other party.
	ev.Target = e.Nick()
	if strings.EqualFold(e.Nick(), c.conn.CurrentNick()) {
		ev.Target = target
	}
	c.session.Dispatch(chat.VerbPrivmsg, ev)
}

func (c *Client) onNotice(e ircmsg.Message) {
	if len(e.Params) < 2 {
		return
	}
	c.session.Dispatch(chat.VerbNotice, chat.MessageEvent{
		Origin: origin(e),
		Tags:   tags(e),
		Target: e.Params[0],
		Text:   e.Params[1],
	})
}

func (c *Client) onMode(e ircmsg.Message) {
	if len(e.Params) < 2 {
		return
	}
	added, removed := parseModeChanges(e.Params[1], e.Params[2:])
	c.session.Dispatch(chat.VerbMode, chat.ModeEvent{
		Origin:  origin(e),
		Tags:    tags(e),
		Target:  e.Params[0],
		Updated: true,
		Added:   added,
		Removed: removed,
	})
}

func (c *Client) onNick(e ircmsg.Message) {
	if len(e.Params) < 1 {
		return
	}
	c.session.Dispatch(chat.VerbNick, chat.NickEvent{
		Origin:      origin(e),
		Tags:        tags(e),
		OldNickname: e.Nick(),
		NewNickname: e.Params[0],
	})
}

func (c *Client) onQuit(e ircmsg.Message) {
	var message string
	if len(e.Params) > 0 {
		message = e.Params[0]
	}
	c.session.Dispatch(chat.VerbQuit, chat.QuitEvent{
		Origin:  origin(e),
		Tags:    tags(e),
		Message: message,
	})
}

func (c *Client) onTopic(e ircmsg.Message) {
	if len(e.Params) < 2 {
		return
	}
	c.session.Dispatch(chat.VerbTopic, chat.TopicEvent{
		Origin:  origin(e),
		Tags:    tags(e),
		Channel: e.Params[0],
		Topic:   e.Params[1],
	})
}

func (c *Client) onTopicReply(e ircmsg.Message) {
	// 332 <me> <channel> :<topic>
	if len(e.Params) < 3 {
		return
	}
	c.session.Dispatch(chat.VerbTopic, chat.TopicEvent{
		Tags:    tags(e),
		Channel: e.Params[1],
		Topic:   e.Params[2],
	})
}

func (c *Client) onNamesReply(e ircmsg.Message) {
	// 353 <me> <symbol> <channel> :@nick1 +nick2 nick3
	if len(e.Params) < 4 {
		return
	}
	channel := e.Params[2]
	var members []chat.NamesMember
	for _, entry := range strings.Fields(e.Params[3]) {
		nick, flags := parseNamesPrefix(entry)
		if nick == "" {
			continue
		}
		members = append(members, chat.NamesMember{
			Origin: chat.Origin{Nickname: nick},
			Flags:  flags,
		})
	}
	c.session.Dispatch(chat.VerbNames, chat.NamesEvent{
		Tags:    tags(e),
		Channel: channel,
		Members: members,
	})
}

func (c *Client) onSilence(e ircmsg.Message) {
	c.dispatchSilence(e, e.Params)
}

func (c *Client) onSilenceList(e ircmsg.Message) {
	// 271 <me> <mask>
	if len(e.Params) < 2 {
		return
	}
	c.dispatchSilence(e, e.Params[1:])
}

func (c *Client) dispatchSilence(e ircmsg.Message, masks []string) {
	added, removed := parseSilenceMasks(masks)
	if len(added) > 0 {
		c.session.Dispatch(chat.VerbSilence, chat.SilenceEvent{
			Origin:  origin(e),
			Tags:    tags(e),
			Users:   added,
			Added:   true,
			Updated: true,
		})
	}
	if len(removed) > 0 {
		c.session.Dispatch(chat.VerbSilence, chat.SilenceEvent{
			Origin:  origin(e),
			Tags:    tags(e),
			Users:   removed,
			Removed: true,
			Updated: true,
		})
	}
}

func (c *Client) onNickInUse(e ircmsg.Message) {
	c.onErrorReply("433", e)
	// Retry once with the configured alternate nick.
	if c.cfg.Alternate == "" || strings.EqualFold(c.conn.CurrentNick(), c.cfg.Alternate) {
		return
	}
	log.Printf("Nick in use, switching to alternate: %s", c.cfg.Alternate)
	c.conn.SetNick(c.cfg.Alternate)
}

func (c *Client) onCtcpVersion(e ircmsg.Message) {
	reply := fmt.Sprintf("webchat %s (built %s, commit %s)", Version, BuildDate, GitCommit)
	c.conn.SendRaw(fmt.Sprintf("NOTICE %s :\x01VERSION %s\x01", e.Nick(), reply))
}

func (c *Client) onErrorReply(numeric string, e ircmsg.Message) {
	// <me> [<target>] :<reason>
	var target, reason string
	if len(e.Params) > 2 {
		target = e.Params[1]
		reason = e.Params[len(e.Params)-1]
	} else if len(e.Params) == 2 {
		reason = e.Params[1]
	}
	c.session.Dispatch(chat.VerbError, chat.ErrorEvent{
		Tags:   tags(e),
		Code:   numeric,
		Target: target,
		Reason: reason,
	})
}

// parseSilenceMasks splits silence masks into added and removed origins. A
// mask is "+nick", "-nick" or bare (treated as added, the RPL_SILELIST
// shape); full nick!user@host masks are reduced to the nickname.
func parseSilenceMasks(masks []string) (added, removed []chat.Origin) {
	for _, mask := range masks {
		adding := true
		switch {
		case strings.HasPrefix(mask, "+"):
			mask = mask[1:]
		case strings.HasPrefix(mask, "-"):
			adding = false
			mask = mask[1:]
		}
		nick := mask
		if i := strings.IndexAny(mask, "!@"); i >= 0 {
			nick = mask[:i]
		}
		if nick == "" || nick == "*" {
			continue
		}
		o := chat.Origin{Nickname: nick}
		if adding {
			added = append(added, o)
		} else {
			removed = append(removed, o)
		}
	}
	return added, removed
}

// parseNamesPrefix splits the access sigils off one NAMES entry and maps
// them to mode flag characters.
func parseNamesPrefix(entry string) (nick, flags string) {
	for len(entry) > 0 {
		var flag string
		switch entry[0] {
		case '~':
			flag = "q"
		case '&':
			flag = "a"
		case '@':
			flag = "o"
		case '%':
			flag = "h"
		case '+':
			flag = "v"
		default:
			return entry, flags
		}
		flags += flag
		entry = entry[1:]
	}
	return "", flags
}

// parseModeChanges decodes a mode string plus arguments into applied
// add/remove tuples. Flags that consume an argument: the access levels
// (qaohv), the masks (beI), the key (k) and, when adding, the limit (l).
func parseModeChanges(modeStr string, args []string) (added, removed []chat.ModeChange) {
	adding := true
	argIndex := 0
	nextArg := func() string {
		if argIndex < len(args) {
			arg := args[argIndex]
			argIndex++
			return arg
		}
		return ""
	}
	for _, ch := range modeStr {
		switch ch {
		case '+':
			adding = true
		case '-':
			adding = false
		default:
			flag := string(ch)
			var arg string
			switch ch {
			case 'q', 'a', 'o', 'h', 'v', 'b', 'e', 'I', 'k':
				arg = nextArg()
			case 'l':
				if adding {
					arg = nextArg()
				}
			}
			change := chat.ModeChange{Flag: flag, Arg: arg}
			if adding {
				added = append(added, change)
			} else {
				removed = append(removed, change)
			}
		}
	}
	return added, removed
}
