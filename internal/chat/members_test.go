package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func member(id, nick string, levels ...AccessLevel) *ChannelMember {
	m := NewChannelMember(&User{ID: UserID(id), Nickname: nick})
	for _, l := range levels {
		m.Grant(l)
	}
	return m
}

func TestChannelMembersBuckets(t *testing.T) {
	cm := NewChannelMembers()
	cm.Add(member("1", "alice", LevelOwner))
	cm.Add(member("2", "bob", LevelOperator))
	cm.Add(member("3", "carol", LevelVip))
	cm.Add(member("4", "dave"))

	assert.Equal(t, 4, cm.Size())
	assert.Len(t, cm.Level(LevelOwner), 1)
	assert.Len(t, cm.Level(LevelOperator), 1)
	assert.Len(t, cm.Vips(), 1)
	assert.Len(t, cm.Users(), 1)

	// Size always equals the sum of the six buckets, and every member is
	// in exactly one bucket.
	total := 0
	for l := LevelUser; l <= LevelOwner; l++ {
		total += len(cm.Level(l))
	}
	assert.Equal(t, cm.Size(), total)
}

func TestChannelMembersHighestFlagWins(t *testing.T) {
	cm := NewChannelMembers()
	cm.Add(member("1", "alice", LevelVip, LevelOperator))

	assert.Len(t, cm.Level(LevelOperator), 1)
	assert.Empty(t, cm.Vips())

	// Revoking the higher flag demotes to the next-highest bucket.
	require.True(t, cm.SetLevel("1", LevelOperator, false))
	assert.Empty(t, cm.Level(LevelOperator))
	assert.Len(t, cm.Vips(), 1)
	assert.Equal(t, 1, cm.Size())
}

func TestChannelMembersAddMoves(t *testing.T) {
	cm := NewChannelMembers()
	cm.Add(member("1", "alice"))
	cm.Add(member("1", "alice", LevelOwner))

	assert.Equal(t, 1, cm.Size())
	assert.Empty(t, cm.Users())
	assert.Len(t, cm.Level(LevelOwner), 1)
}

func TestChannelMembersGetRemove(t *testing.T) {
	cm := NewChannelMembers()
	cm.Add(member("1", "alice", LevelHalfOperator))

	m, ok := cm.Get("1")
	require.True(t, ok)
	assert.Equal(t, "alice", m.User.Nickname)
	assert.True(t, cm.Has("1"))

	cm.Remove("1")
	assert.False(t, cm.Has("1"))
	assert.Equal(t, 0, cm.Size())

	_, ok = cm.Get("1")
	assert.False(t, ok)
}

func TestChannelMembersModeratorsOrder(t *testing.T) {
	cm := NewChannelMembers()
	cm.Add(member("1", "zoe", LevelOperator))
	cm.Add(member("2", "Adam", LevelOperator))
	cm.Add(member("3", "mia", LevelOwner))
	cm.Add(member("4", "ben", LevelHalfOperator))
	cm.Add(member("5", "lee", LevelAdminOperator))

	mods := cm.Moderators()
	require.Len(t, mods, 5)

	var nicks []string
	for _, m := range mods {
		nicks = append(nicks, m.User.Nickname)
	}
	// Owners, admin-operators, operators, half-operators; each group
	// sorted case-insensitively.
	assert.Equal(t, []string{"mia", "lee", "Adam", "zoe", "ben"}, nicks)
}

func TestChannelMembersSortStableForEqualNicknames(t *testing.T) {
	cm := NewChannelMembers()
	cm.Add(member("b", "Twin", LevelVip))
	cm.Add(member("a", "twin", LevelVip))
	cm.Add(member("c", "Twin", LevelVip))

	var want []UserID
	for _, m := range cm.Vips() {
		want = append(want, m.User.ID)
	}
	assert.Equal(t, []UserID{"a", "b", "c"}, want)

	// Repeated calls return the same order regardless of map iteration.
	for i := 0; i < 10; i++ {
		var got []UserID
		for _, m := range cm.Vips() {
			got = append(got, m.User.ID)
		}
		assert.Equal(t, want, got)
	}
}

func TestChannelMembersSetLevelUnknown(t *testing.T) {
	cm := NewChannelMembers()
	assert.False(t, cm.SetLevel("nope", LevelVip, true))
}

func TestChannelMembersClear(t *testing.T) {
	cm := NewChannelMembers()
	cm.Add(member("1", "alice", LevelOwner))
	cm.Add(member("2", "bob"))
	cm.Clear()
	assert.Equal(t, 0, cm.Size())
}

func TestLevelFromFlag(t *testing.T) {
	tests := []struct {
		flag  string
		level AccessLevel
		ok    bool
	}{
		{"q", LevelOwner, true},
		{"a", LevelAdminOperator, true},
		{"o", LevelOperator, true},
		{"h", LevelHalfOperator, true},
		{"v", LevelVip, true},
		{"b", LevelUser, false},
		{"", LevelUser, false},
	}
	for _, tc := range tests {
		level, ok := LevelFromFlag(tc.flag)
		assert.Equal(t, tc.ok, ok, "flag %q", tc.flag)
		assert.Equal(t, tc.level, level, "flag %q", tc.flag)
	}
}
