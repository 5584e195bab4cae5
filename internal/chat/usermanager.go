package chat

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// UserManager is the session-wide registry of known users. The primary map
// is keyed by UserID; a secondary lowercased-nickname cache accelerates
// nickname lookups and is lazily rebuilt on miss. The authoritative nickname
// is always the one on the User record itself.
type UserManager struct {
	mu      sync.RWMutex
	users   map[UserID]*User
	nicks   map[string]UserID
	blocked map[UserID]struct{}
}

// NewUserManager creates an empty registry.
func NewUserManager() *UserManager {
	return &UserManager{
		users:   make(map[UserID]*User),
		nicks:   make(map[string]UserID),
		blocked: make(map[UserID]struct{}),
	}
}

// Find returns the user with the given id.
func (m *UserManager) Find(id UserID) (*User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	return u, ok
}

// FindByNickname resolves a nickname to its user, case-insensitively. A
// cache hit is O(1); on miss the full user map is scanned and the cache
// backfilled, which covers nicknames observed before any direct lookup
// indexed them.
func (m *UserManager) FindByNickname(nickname string) (*User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.findByNicknameLocked(nickname)
}

func (m *UserManager) findByNicknameLocked(nickname string) (*User, bool) {
	key := strings.ToLower(nickname)
	if id, ok := m.nicks[key]; ok {
		if u, ok := m.users[id]; ok {
			return u, true
		}
		// Stale cache entry, fall through to the scan.
		delete(m.nicks, key)
	}
	for _, u := range m.users {
		if strings.EqualFold(u.Nickname, nickname) {
			m.nicks[strings.ToLower(u.Nickname)] = u.ID
			return u, true
		}
	}
	return nil, false
}

// Add registers a user. An existing record found by id, or failing that by
// nickname, is merged instead of duplicated; the nickname match covers the
// server reissuing an id to an already-known nickname across a reconnect,
// in which case the record is re-keyed to the incoming id together with its
// nickname cache entry so the cache never points at a stale id.
func (m *UserManager) Add(u *User) *User {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u.ID != "" {
		if found, ok := m.users[u.ID]; ok {
			m.mergeLocked(found, u)
			return found
		}
	}
	if found, ok := m.findByNicknameLocked(u.Nickname); ok {
		if u.ID != "" && found.ID != u.ID {
			m.rekeyLocked(found, u.ID)
		}
		m.mergeLocked(found, u)
		return found
	}
	if u.ID == "" {
		// The transport saw this user without a server-issued id; mint one
		// so the primary map stays id-keyed.
		u.ID = UserID(uuid.NewString())
	}
	m.users[u.ID] = u
	m.nicks[strings.ToLower(u.Nickname)] = u.ID
	return u
}

// UpsertOrigin is Add for a bare event origin.
func (m *UserManager) UpsertOrigin(origin Origin) *User {
	return m.Add(NewUser(origin))
}

// mergeLocked folds src into dst: away is sticky toward true, channels are
// unioned, the remaining fields take the latest value when present.
func (m *UserManager) mergeLocked(dst, src *User) {
	if src.Nickname != "" && src.Nickname != dst.Nickname {
		if !strings.EqualFold(dst.Nickname, src.Nickname) {
			delete(m.nicks, strings.ToLower(dst.Nickname))
		}
		dst.Nickname = src.Nickname
		m.nicks[strings.ToLower(src.Nickname)] = dst.ID
	}
	if src.Ident != "" {
		dst.Ident = src.Ident
	}
	if src.Host != (Host{}) {
		dst.Host = src.Host
	}
	if src.Operator != OperatorNone {
		dst.Operator = src.Operator
	}
	dst.Away = dst.Away || src.Away
	for id := range src.channels {
		dst.AddChannel(id)
	}
}

// rekeyLocked moves a user to a new id, migrating the nickname cache entry
// and any block entry with it.
func (m *UserManager) rekeyLocked(u *User, id UserID) {
	delete(m.users, u.ID)
	if _, ok := m.blocked[u.ID]; ok {
		delete(m.blocked, u.ID)
		m.blocked[id] = struct{}{}
	}
	u.ID = id
	m.users[id] = u
	m.nicks[strings.ToLower(u.Nickname)] = id
}

// ChangeID re-keys the user from old to new. A block entry for the old id
// follows the user.
func (m *UserManager) ChangeID(old, new UserID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[old]
	if !ok {
		return
	}
	m.rekeyLocked(u, new)
}

// ChangeNickname renames a user. Renames that only differ by case are a
// no-op, avoiding redundant cache churn.
func (m *UserManager) ChangeNickname(old, new string) {
	if strings.EqualFold(old, new) {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.findByNicknameLocked(old)
	if !ok {
		return
	}
	delete(m.nicks, strings.ToLower(old))
	u.Nickname = new
	m.nicks[strings.ToLower(new)] = u.ID
}

// Del removes a user and its nickname cache and block entries.
func (m *UserManager) Del(id UserID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return
	}
	delete(m.nicks, strings.ToLower(u.Nickname))
	delete(m.blocked, id)
	delete(m.users, id)
}

// Block marks a user as blocked.
func (m *UserManager) Block(id UserID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blocked[id] = struct{}{}
}

// Unblock removes a block.
func (m *UserManager) Unblock(id UserID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blocked, id)
}

// IsBlocked reports whether the user is blocked.
func (m *UserManager) IsBlocked(id UserID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.blocked[id]
	return ok
}

// Len returns the number of known users.
func (m *UserManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}
