package chat

import "strings"

// OperatorKind distinguishes server operator grades.
type OperatorKind int

const (
	OperatorNone OperatorKind = iota
	OperatorLocal
	OperatorGlobal
)

// Host holds the visible host of a user: the cloaked hostname and, when the
// server assigned one, a vhost.
type Host struct {
	Cloaked string
	VHost   string
}

// User is the identity record for one participant. The channels set is a
// co-membership cache, not authoritative membership; ChannelMembers on each
// room is the authority.
type User struct {
	ID       UserID
	Nickname string
	Ident    string
	Host     Host
	Away     bool
	Operator OperatorKind

	channels map[string]struct{}
}

// NewUser builds a User from an event origin.
func NewUser(origin Origin) *User {
	return &User{
		ID:       origin.ID,
		Nickname: origin.Nickname,
		Ident:    origin.Ident,
		Host:     Host{Cloaked: origin.Host},
		channels: make(map[string]struct{}),
	}
}

// IsOperator reports whether the user holds any operator grade.
func (u *User) IsOperator() bool {
	return u.Operator != OperatorNone
}

// AddChannel records a channel the user is known to be on.
func (u *User) AddChannel(id string) {
	if u.channels == nil {
		u.channels = make(map[string]struct{})
	}
	u.channels[strings.ToLower(id)] = struct{}{}
}

// DelChannel forgets a channel for the user.
func (u *User) DelChannel(id string) {
	delete(u.channels, strings.ToLower(id))
}

// OnChannel reports whether the user is known to be on the channel.
func (u *User) OnChannel(id string) bool {
	_, ok := u.channels[strings.ToLower(id)]
	return ok
}

// Channels returns the ids of the channels the user is known to be on.
func (u *User) Channels() []string {
	out := make([]string, 0, len(u.channels))
	for id := range u.channels {
		out = append(out, id)
	}
	return out
}
