package chat

import "strings"

// Emitter is the outbound surface of the transport. Commands hand payloads
// to it unchanged; encoding to the wire is the transport's concern.
type Emitter interface {
	Emit(verb string, payload any)
}

// Protocol verbs.
const (
	VerbJoin    = "JOIN"
	VerbPart    = "PART"
	VerbKick    = "KICK"
	VerbMode    = "MODE"
	VerbNick    = "NICK"
	VerbPrivmsg = "PRIVMSG"
	VerbPubmsg  = "PUBMSG"
	VerbNotice  = "NOTICE"
	VerbTopic   = "TOPIC"
	VerbSilence = "SILENCE"
	VerbQuit    = "QUIT"
	VerbNames   = "NAMES"
	VerbError   = "ERROR"

	VerbQop   = "QOP"
	VerbDeqop = "DEQOP"
	VerbAop   = "AOP"
	VerbDeaop = "DEAOP"
	VerbOp    = "OP"
	VerbDeop  = "DEOP"
	VerbHop   = "HOP"
	VerbDehop = "DEHOP"
	VerbVip   = "VIP"
	VerbDevip = "DEVIP"

	VerbBan       = "BAN"
	VerbUnban     = "UNBAN"
	VerbBanex     = "BANEX"
	VerbUnbanex   = "UNBANEX"
	VerbInvitex   = "INVITEX"
	VerbUninvitex = "UNINVITEX"
)

// Outbound payload shapes, one per verb family.
type (
	JoinRequest struct {
		Channels []string
		Keys     []string
	}
	PartRequest struct {
		Channels []string
		Message  string
	}
	KickRequest struct {
		Channel   string
		Nicknames []string
		Comment   string
	}
	NickRequest struct {
		Nickname string
	}
	MessageRequest struct {
		Targets []string
		Text    string
	}
	// NoticeRequest carries the minimum access level parsed from a @/%
	// target prefix; LevelUser means no restriction.
	NoticeRequest struct {
		Target   string
		Text     string
		MinLevel AccessLevel
	}
	TopicRequest struct {
		Channel string
		Topic   string
	}
	SilenceRequest struct {
		Nickname string
		Add      bool
	}
	// AccessLevelRequest is shared by the QOP..DEVIP family; the verb names
	// the flag and direction.
	AccessLevelRequest struct {
		Channel   string
		Nicknames []string
	}
	// MaskRequest is shared by the BAN/BANEX/INVITEX family.
	MaskRequest struct {
		Channel string
		Masks   []string
	}
)

// Commands encodes user intents into outbound payloads. Commands never
// mutate local state: access-level and ban changes take effect only when
// the server's MODE reply comes back through the handlers.
type Commands struct {
	em Emitter
}

// NewCommands binds the command set to a transport.
func NewCommands(em Emitter) *Commands {
	return &Commands{em: em}
}

// Join requests joining the given channels, with optional keys aligned by
// index.
func (c *Commands) Join(channels []string, keys []string) {
	c.em.Emit(VerbJoin, JoinRequest{Channels: channels, Keys: keys})
}

// Part requests leaving the given channels.
func (c *Commands) Part(channels []string, message string) {
	c.em.Emit(VerbPart, PartRequest{Channels: channels, Message: message})
}

// Kick requests removal of the given members from a channel.
func (c *Commands) Kick(channel string, nicknames []string, comment string) {
	c.em.Emit(VerbKick, KickRequest{Channel: channel, Nicknames: nicknames, Comment: comment})
}

// Nick requests a nickname change for the client.
func (c *Commands) Nick(nickname string) {
	c.em.Emit(VerbNick, NickRequest{Nickname: nickname})
}

// Privmsg sends a private message to the given nicknames.
func (c *Commands) Privmsg(targets []string, text string) {
	c.em.Emit(VerbPrivmsg, MessageRequest{Targets: targets, Text: text})
}

// Pubmsg sends a message to the given channels.
func (c *Commands) Pubmsg(channels []string, text string) {
	c.em.Emit(VerbPubmsg, MessageRequest{Targets: channels, Text: text})
}

// Notice sends a notice. A target prefixed "@" or "%" broadcasts to members
// at or above operator or half-operator; the prefix is parsed here, at
// command-input time, independently of the MODE pipeline.
func (c *Commands) Notice(target, text string) {
	req := NoticeRequest{Target: target, Text: text}
	switch {
	case strings.HasPrefix(target, "@"):
		req.Target = target[1:]
		req.MinLevel = LevelOperator
	case strings.HasPrefix(target, "%"):
		req.Target = target[1:]
		req.MinLevel = LevelHalfOperator
	}
	c.em.Emit(VerbNotice, req)
}

// Topic requests a topic change.
func (c *Commands) Topic(channel, topic string) {
	c.em.Emit(VerbTopic, TopicRequest{Channel: channel, Topic: topic})
}

// Silence adds or removes a server-side block on a nickname.
func (c *Commands) Silence(nickname string, add bool) {
	c.em.Emit(VerbSilence, SilenceRequest{Nickname: nickname, Add: add})
}

// AccessLevel verbs. Each encodes a grant or revoke request; bucket
// membership changes only on the MODE reply.

func (c *Commands) Qop(channel string, nicknames ...string) {
	c.em.Emit(VerbQop, AccessLevelRequest{Channel: channel, Nicknames: nicknames})
}

func (c *Commands) Deqop(channel string, nicknames ...string) {
	c.em.Emit(VerbDeqop, AccessLevelRequest{Channel: channel, Nicknames: nicknames})
}

func (c *Commands) Aop(channel string, nicknames ...string) {
	c.em.Emit(VerbAop, AccessLevelRequest{Channel: channel, Nicknames: nicknames})
}

func (c *Commands) Deaop(channel string, nicknames ...string) {
	c.em.Emit(VerbDeaop, AccessLevelRequest{Channel: channel, Nicknames: nicknames})
}

func (c *Commands) Op(channel string, nicknames ...string) {
	c.em.Emit(VerbOp, AccessLevelRequest{Channel: channel, Nicknames: nicknames})
}

func (c *Commands) Deop(channel string, nicknames ...string) {
	c.em.Emit(VerbDeop, AccessLevelRequest{Channel: channel, Nicknames: nicknames})
}

func (c *Commands) Hop(channel string, nicknames ...string) {
	c.em.Emit(VerbHop, AccessLevelRequest{Channel: channel, Nicknames: nicknames})
}

func (c *Commands) Dehop(channel string, nicknames ...string) {
	c.em.Emit(VerbDehop, AccessLevelRequest{Channel: channel, Nicknames: nicknames})
}

func (c *Commands) Vip(channel string, nicknames ...string) {
	c.em.Emit(VerbVip, AccessLevelRequest{Channel: channel, Nicknames: nicknames})
}

func (c *Commands) Devip(channel string, nicknames ...string) {
	c.em.Emit(VerbDevip, AccessLevelRequest{Channel: channel, Nicknames: nicknames})
}

// Ban-family verbs.

func (c *Commands) Ban(channel string, masks ...string) {
	c.em.Emit(VerbBan, MaskRequest{Channel: channel, Masks: masks})
}

func (c *Commands) Unban(channel string, masks ...string) {
	c.em.Emit(VerbUnban, MaskRequest{Channel: channel, Masks: masks})
}

func (c *Commands) Banex(channel string, masks ...string) {
	c.em.Emit(VerbBanex, MaskRequest{Channel: channel, Masks: masks})
}

func (c *Commands) Unbanex(channel string, masks ...string) {
	c.em.Emit(VerbUnbanex, MaskRequest{Channel: channel, Masks: masks})
}

func (c *Commands) Invitex(channel string, masks ...string) {
	c.em.Emit(VerbInvitex, MaskRequest{Channel: channel, Masks: masks})
}

func (c *Commands) Uninvitex(channel string, masks ...string) {
	c.em.Emit(VerbUninvitex, MaskRequest{Channel: channel, Masks: masks})
}
