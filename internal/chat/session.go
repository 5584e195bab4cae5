package chat

import (
	"strings"
	"sync"
	"time"
)

// ServerRoomID is the id of the server connection-log room, the well-known
// fallback target.
const ServerRoomID = "server"

// Handler consumes one decoded inbound event and mutates session state.
// Handlers silently drop events whose payload type or target they cannot
// resolve.
type Handler interface {
	Handle(ev any)
}

// Module pairs the outbound command encoder and the inbound handler bound
// to one protocol verb. The command side lives on Commands under the same
// verb constant; reply-driven verbs (the access-level and ban families)
// share the MODE handler.
type Module struct {
	Verb    string
	Handler Handler
}

// Session owns the state of one connection: the room and user registries,
// the pending-action scheduler, the outbound command set and the verb
// registry. Inbound events are dispatched serially by the transport; the
// session never reorders them.
type Session struct {
	Rooms    *RoomManager
	Users    *UserManager
	Pending  *Pending
	Commands *Commands

	mu   sync.RWMutex
	self *User

	modules map[string]Module
}

// NewSession builds a session bound to a transport. memberDelay is the
// cosmetic delay applied to membership updates after JOIN/PART/KICK; pass
// zero to apply them synchronously.
func NewSession(em Emitter, memberDelay time.Duration) *Session {
	s := &Session{
		Users:    NewUserManager(),
		Pending:  NewPending(memberDelay),
		Commands: NewCommands(em),
	}
	s.Rooms = NewRoomManager(ServerRoomID, s.Pending)
	s.modules = buildModules(s)
	return s
}

// Begin records the client's own identity, creates the server room and
// makes it current. The transport calls it once the server has accepted
// registration.
func (s *Session) Begin(origin Origin, networkName string) {
	self := s.Users.UpsertOrigin(origin)
	s.mu.Lock()
	s.self = self
	s.mu.Unlock()

	if networkName == "" {
		networkName = ServerRoomID
	}
	s.Rooms.GetOrInsert(ServerRoomID, func() Room {
		return NewServerRoom(ServerRoomID, networkName)
	})
	s.Rooms.SetCurrent(ServerRoomID)
}

// Self returns the client's own user record, if registration completed.
func (s *Session) Self() (*User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.self, s.self != nil
}

// MustSelf returns the client's own user record and panics when the
// session never registered; that is a protocol desync, not a recoverable
// condition.
func (s *Session) MustSelf() *User {
	u, ok := s.Self()
	if !ok {
		panic("chat: self user missing: session not registered")
	}
	return u
}

// isSelf reports whether the origin is the client itself, by id when both
// sides carry one, by nickname otherwise.
func (s *Session) isSelf(origin Origin) bool {
	u, ok := s.Self()
	if !ok {
		return false
	}
	if origin.ID != "" && u.ID != "" {
		return origin.ID == u.ID
	}
	return strings.EqualFold(origin.Nickname, u.Nickname)
}

func (s *Session) isSelfNick(nickname string) bool {
	u, ok := s.Self()
	return ok && strings.EqualFold(nickname, u.Nickname)
}

// Dispatch routes one decoded inbound event to the handler registered for
// the verb. Unknown verbs are dropped.
func (s *Session) Dispatch(verb string, ev any) {
	mod, ok := s.modules[strings.ToUpper(verb)]
	if !ok || mod.Handler == nil {
		return
	}
	mod.Handler.Handle(ev)
}

// Modules returns the registered verbs, for the transport to wire its
// callbacks from.
func (s *Session) Modules() []string {
	out := make([]string, 0, len(s.modules))
	for verb := range s.modules {
		out = append(out, verb)
	}
	return out
}

// buildModules constructs the verb registry once per session, with the
// shared stores passed in explicitly through the session itself.
func buildModules(s *Session) map[string]Module {
	mode := &modeHandler{s: s}
	mods := []Module{
		{Verb: VerbJoin, Handler: &joinHandler{s: s}},
		{Verb: VerbPart, Handler: &partHandler{s: s}},
		{Verb: VerbKick, Handler: &kickHandler{s: s}},
		{Verb: VerbMode, Handler: mode},
		{Verb: VerbNick, Handler: &nickHandler{s: s}},
		{Verb: VerbPrivmsg, Handler: &messageHandler{s: s, private: true}},
		{Verb: VerbPubmsg, Handler: &messageHandler{s: s}},
		{Verb: VerbNotice, Handler: &messageHandler{s: s, notice: true}},
		{Verb: VerbSilence, Handler: &silenceHandler{s: s}},
		{Verb: VerbNames, Handler: &namesHandler{s: s}},
		{Verb: VerbTopic, Handler: &topicHandler{s: s}},
		{Verb: VerbQuit, Handler: &quitHandler{s: s}},
		{Verb: VerbError, Handler: &errorHandler{s: s}},
	}
	// The grant/revoke verbs are reply-driven: their only inbound effect
	// arrives as a MODE reply.
	for _, verb := range []string{
		VerbQop, VerbDeqop, VerbAop, VerbDeaop, VerbOp, VerbDeop,
		VerbHop, VerbDehop, VerbVip, VerbDevip,
		VerbBan, VerbUnban, VerbBanex, VerbUnbanex, VerbInvitex, VerbUninvitex,
	} {
		mods = append(mods, Module{Verb: verb, Handler: mode})
	}

	out := make(map[string]Module, len(mods))
	for _, mod := range mods {
		out[mod.Verb] = mod
	}
	return out
}

// isChannelID reports whether the id names a channel.
func isChannelID(id string) bool {
	return strings.HasPrefix(id, "#") || strings.HasPrefix(id, "&")
}
