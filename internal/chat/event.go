package chat

// UserID is the server-issued identifier for a user. It is stable for the
// lifetime of a connection but the server may reissue it, e.g. when an
// anonymous session registers; see UserManager.ChangeID.
type UserID string

// Origin identifies the sender of an inbound event.
type Origin struct {
	ID       UserID
	Nickname string
	Ident    string
	Host     string
}

// Tags carries the message tags attached to an inbound event.
type Tags struct {
	MsgID string
}

// ModeChange is one applied flag from a MODE reply: the flag character and
// its argument (a nickname for access-level flags, a mask for the ban
// family, a key or limit for channel settings).
type ModeChange struct {
	Flag string
	Arg  string
}

// JoinEvent is delivered when a user joins a channel. Forced is set when the
// server joined the client without a request (e.g. auto-join on connect).
type JoinEvent struct {
	Origin  Origin
	Tags    Tags
	Channel string
	Forced  bool
}

// PartEvent is delivered when a user leaves a channel. ForcedBy names the
// operator when the part was issued on the user's behalf.
type PartEvent struct {
	Origin   Origin
	Tags     Tags
	Channel  string
	Message  string
	ForcedBy string
}

// KickEvent is delivered when a user is kicked from a channel.
type KickEvent struct {
	Origin     Origin
	Tags       Tags
	Channel    string
	KickedNick string
	Reason     string
}

// ModeEvent is the server's authoritative reply to a mode change. Added and
// Removed list the applied flags; local access-level state changes only on
// this event, never when the command is sent.
type ModeEvent struct {
	Origin  Origin
	Tags    Tags
	Target  string
	Updated bool
	Added   []ModeChange
	Removed []ModeChange
}

// NickEvent is delivered when a user changes nickname.
type NickEvent struct {
	Origin      Origin
	Tags        Tags
	OldNickname string
	NewNickname string
}

// MessageEvent is a PRIVMSG or PUBMSG. Target is the other party's nickname
// for private messages and the channel name for channel messages.
type MessageEvent struct {
	Origin Origin
	Tags   Tags
	Target string
	Text   string
}

// SilenceEvent is the server's reply to a SILENCE change.
type SilenceEvent struct {
	Origin  Origin
	Tags    Tags
	Users   []Origin
	Added   bool
	Removed bool
	Updated bool
}

// NamesMember is one entry of a NAMES reply: the member's origin plus the
// access-level flag characters granted to them on the channel.
type NamesMember struct {
	Origin Origin
	Flags  string
}

// NamesEvent is one NAMES reply line for a channel.
type NamesEvent struct {
	Origin  Origin
	Tags    Tags
	Channel string
	Members []NamesMember
}

// TopicEvent is delivered when a channel topic is set or announced.
type TopicEvent struct {
	Origin  Origin
	Tags    Tags
	Channel string
	Topic   string
}

// QuitEvent is delivered when a user disconnects from the server.
type QuitEvent struct {
	Origin  Origin
	Tags    Tags
	Message string
}

// ErrorEvent is a server-authoritative error reply (permission denied,
// banned, nickname in use...). The core never synthesizes these locally.
type ErrorEvent struct {
	Origin Origin
	Tags   Tags
	Code   string
	Target string
	Reason string
}
