package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsEmitPayloads(t *testing.T) {
	em := &fakeEmitter{}
	c := NewCommands(em)

	c.Join([]string{"#go", "#dev"}, []string{"key"})
	c.Part([]string{"#go"}, "bye")
	c.Kick("#go", []string{"troll"}, "enough")
	c.Nick("gopher")
	c.Privmsg([]string{"Alice"}, "hi")
	c.Pubmsg([]string{"#go"}, "hello all")
	c.Topic("#go", "new topic")
	c.Silence("troll", true)
	c.Op("#go", "Alice", "Bob")
	c.Ban("#go", "*!*@spam.example")

	require.Len(t, em.emits, 10)
	assert.Equal(t, VerbJoin, em.emits[0].verb)
	assert.Equal(t, JoinRequest{Channels: []string{"#go", "#dev"}, Keys: []string{"key"}}, em.emits[0].payload)
	assert.Equal(t, VerbKick, em.emits[2].verb)
	assert.Equal(t, KickRequest{Channel: "#go", Nicknames: []string{"troll"}, Comment: "enough"}, em.emits[2].payload)
	assert.Equal(t, VerbSilence, em.emits[7].verb)
	assert.Equal(t, SilenceRequest{Nickname: "troll", Add: true}, em.emits[7].payload)
	assert.Equal(t, VerbOp, em.emits[8].verb)
	assert.Equal(t, AccessLevelRequest{Channel: "#go", Nicknames: []string{"Alice", "Bob"}}, em.emits[8].payload)
	assert.Equal(t, VerbBan, em.emits[9].verb)
	assert.Equal(t, MaskRequest{Channel: "#go", Masks: []string{"*!*@spam.example"}}, em.emits[9].payload)
}

func TestNoticeTargetPrefix(t *testing.T) {
	tests := []struct {
		target    string
		wantTo    string
		wantLevel AccessLevel
	}{
		{"#go", "#go", LevelUser},
		{"@#go", "#go", LevelOperator},
		{"%#go", "#go", LevelHalfOperator},
		{"Alice", "Alice", LevelUser},
	}
	for _, tt := range tests {
		em := &fakeEmitter{}
		NewCommands(em).Notice(tt.target, "heads up")

		rec, ok := em.last()
		require.True(t, ok)
		assert.Equal(t, VerbNotice, rec.verb)
		req, isNotice := rec.payload.(NoticeRequest)
		require.True(t, isNotice, "target %q", tt.target)
		assert.Equal(t, tt.wantTo, req.Target)
		assert.Equal(t, tt.wantLevel, req.MinLevel)
		assert.Equal(t, "heads up", req.Text)
	}
}

func TestGrantVerbsNeverTouchState(t *testing.T) {
	s, em := newTestSession(t)
	ch := selfJoin(t, s, "#go")
	s.Dispatch(VerbJoin, JoinEvent{Origin: Origin{ID: "b1", Nickname: "B"}, Channel: "#go"})

	s.Commands.Qop("#go", "B")
	s.Commands.Op("#go", "B")
	s.Commands.Ban("#go", "B!*@*")

	assert.Len(t, em.emits, 3)
	b, ok := ch.Members.Get("b1")
	require.True(t, ok)
	assert.Equal(t, LevelUser, b.HighestLevel())
	assert.Empty(t, ch.Settings().Bans)
}
