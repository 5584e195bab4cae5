package chat

import (
	"sort"
	"strings"
	"sync"
)

// AccessLevel is a channel-scoped rank. Higher values outrank lower ones.
type AccessLevel int

const (
	LevelUser AccessLevel = iota
	LevelVip
	LevelHalfOperator
	LevelOperator
	LevelAdminOperator
	LevelOwner

	levelCount = int(LevelOwner) + 1
)

// String returns the mode flag character for the level, empty for plain
// users.
func (l AccessLevel) String() string {
	switch l {
	case LevelOwner:
		return "q"
	case LevelAdminOperator:
		return "a"
	case LevelOperator:
		return "o"
	case LevelHalfOperator:
		return "h"
	case LevelVip:
		return "v"
	}
	return ""
}

// LevelFromFlag maps a MODE flag character to its access level.
func LevelFromFlag(flag string) (AccessLevel, bool) {
	switch flag {
	case "q":
		return LevelOwner, true
	case "a":
		return LevelAdminOperator, true
	case "o":
		return LevelOperator, true
	case "h":
		return LevelHalfOperator, true
	case "v":
		return LevelVip, true
	}
	return LevelUser, false
}

// ChannelMember pairs a user with the access flags granted to them on one
// channel.
type ChannelMember struct {
	User *User

	levels map[AccessLevel]struct{}
}

// NewChannelMember creates a member with no access flags.
func NewChannelMember(u *User) *ChannelMember {
	return &ChannelMember{User: u, levels: make(map[AccessLevel]struct{})}
}

// Grant adds an access flag. Granting LevelUser has no effect.
func (m *ChannelMember) Grant(l AccessLevel) {
	if l == LevelUser {
		return
	}
	m.levels[l] = struct{}{}
}

// Revoke removes an access flag.
func (m *ChannelMember) Revoke(l AccessLevel) {
	delete(m.levels, l)
}

// HasLevel reports whether the flag is granted.
func (m *ChannelMember) HasLevel(l AccessLevel) bool {
	_, ok := m.levels[l]
	return ok
}

// HighestLevel returns the member's highest granted flag, LevelUser when
// none is granted. It decides which bucket the member lives in.
func (m *ChannelMember) HighestLevel() AccessLevel {
	highest := LevelUser
	for l := range m.levels {
		if l > highest {
			highest = l
		}
	}
	return highest
}

// ChannelMembers is the per-channel registry of members, partitioned into
// one bucket per access level. A member is always in exactly one bucket,
// the one matching their highest granted flag.
type ChannelMembers struct {
	mu      sync.RWMutex
	buckets [levelCount]map[UserID]*ChannelMember
}

// NewChannelMembers creates an empty registry.
func NewChannelMembers() *ChannelMembers {
	cm := &ChannelMembers{}
	for i := range cm.buckets {
		cm.buckets[i] = make(map[UserID]*ChannelMember)
	}
	return cm
}

// Add places the member in the bucket matching their highest flag. An
// already-present member is moved, not duplicated.
func (cm *ChannelMembers) Add(m *ChannelMember) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.removeLocked(m.User.ID)
	cm.buckets[m.HighestLevel()][m.User.ID] = m
}

// Get scans the buckets for the member. The scan is bounded by the constant
// bucket count.
func (cm *ChannelMembers) Get(id UserID) (*ChannelMember, bool) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	for i := range cm.buckets {
		if m, ok := cm.buckets[i][id]; ok {
			return m, true
		}
	}
	return nil, false
}

// Has reports whether the user is a member.
func (cm *ChannelMembers) Has(id UserID) bool {
	_, ok := cm.Get(id)
	return ok
}

// Remove drops the member from whichever bucket holds them.
func (cm *ChannelMembers) Remove(id UserID) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.removeLocked(id)
}

func (cm *ChannelMembers) removeLocked(id UserID) (*ChannelMember, bool) {
	for i := range cm.buckets {
		if m, ok := cm.buckets[i][id]; ok {
			delete(cm.buckets[i], id)
			return m, true
		}
	}
	return nil, false
}

// SetLevel grants or revokes one access flag and re-buckets the member
// accordingly. It reports whether the member was found.
func (cm *ChannelMembers) SetLevel(id UserID, l AccessLevel, granted bool) bool {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	m, ok := cm.removeLocked(id)
	if !ok {
		return false
	}
	if granted {
		m.Grant(l)
	} else {
		m.Revoke(l)
	}
	cm.buckets[m.HighestLevel()][m.User.ID] = m
	return true
}

// Clear empties every bucket.
func (cm *ChannelMembers) Clear() {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	for i := range cm.buckets {
		cm.buckets[i] = make(map[UserID]*ChannelMember)
	}
}

// Size returns the total member count across all buckets.
func (cm *ChannelMembers) Size() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	n := 0
	for i := range cm.buckets {
		n += len(cm.buckets[i])
	}
	return n
}

// Level returns one bucket sorted case-insensitively by nickname.
func (cm *ChannelMembers) Level(l AccessLevel) []*ChannelMember {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return sortedBucket(cm.buckets[l])
}

// Moderators returns owners, admin-operators, operators and half-operators
// concatenated in priority order, each group sorted by nickname.
func (cm *ChannelMembers) Moderators() []*ChannelMember {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	out := sortedBucket(cm.buckets[LevelOwner])
	out = append(out, sortedBucket(cm.buckets[LevelAdminOperator])...)
	out = append(out, sortedBucket(cm.buckets[LevelOperator])...)
	out = append(out, sortedBucket(cm.buckets[LevelHalfOperator])...)
	return out
}

// Vips returns the vip bucket sorted by nickname.
func (cm *ChannelMembers) Vips() []*ChannelMember {
	return cm.Level(LevelVip)
}

// Users returns the plain-user bucket sorted by nickname.
func (cm *ChannelMembers) Users() []*ChannelMember {
	return cm.Level(LevelUser)
}

func sortedBucket(bucket map[UserID]*ChannelMember) []*ChannelMember {
	out := make([]*ChannelMember, 0, len(bucket))
	for _, m := range bucket {
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].User.Nickname), strings.ToLower(out[j].User.Nickname)
		if a != b {
			return a < b
		}
		// Map iteration order varies; the id keeps equal nicknames stable
		// across calls.
		return out[i].User.ID < out[j].User.ID
	})
	return out
}
