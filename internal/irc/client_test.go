package irc

import (
	"testing"

	"github.com/dalnet/webchat/internal/chat"
	"github.com/ergochat/irc-go/ircmsg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOriginDecode(t *testing.T) {
	e, err := ircmsg.ParseLine(":alice!ident@host.example PRIVMSG #go :hi")
	require.NoError(t, err)
	got := origin(e)
	assert.Equal(t, chat.Origin{Nickname: "alice", Ident: "ident", Host: "host.example"}, got)

	// Server-originated lines carry no user/host split.
	e, err = ircmsg.ParseLine(":irc.example.net NOTICE * :Looking up your hostname")
	require.NoError(t, err)
	assert.Equal(t, "irc.example.net", origin(e).Nickname)
}

func TestTagsDecode(t *testing.T) {
	e, err := ircmsg.ParseLine("@msgid=abc123 :alice!i@h PRIVMSG #go :hi")
	require.NoError(t, err)
	assert.Equal(t, chat.Tags{MsgID: "abc123"}, tags(e))

	e, err = ircmsg.ParseLine(":alice!i@h PRIVMSG #go :hi")
	require.NoError(t, err)
	assert.Equal(t, chat.Tags{}, tags(e))
}

func TestParseNamesPrefix(t *testing.T) {
	tests := []struct {
		entry     string
		wantNick  string
		wantFlags string
	}{
		{"plainuser", "plainuser", ""},
		{"+voiced", "voiced", "v"},
		{"@opuser", "opuser", "o"},
		{"%halfop", "halfop", "h"},
		{"&admin", "admin", "a"},
		{"~owner", "owner", "q"},
		{"~@stacked", "stacked", "qo"},
		{"@+both", "both", "ov"},
		{"", "", ""},
		{"~", "", "q"},
	}
	for _, tt := range tests {
		nick, flags := parseNamesPrefix(tt.entry)
		assert.Equal(t, tt.wantNick, nick, "entry %q", tt.entry)
		assert.Equal(t, tt.wantFlags, flags, "entry %q", tt.entry)
	}
}

func TestParseSilenceMasks(t *testing.T) {
	added, removed := parseSilenceMasks([]string{"+troll", "-reformed", "quiet!*@*", "+", "*"})

	assert.Equal(t, []chat.Origin{{Nickname: "troll"}, {Nickname: "quiet"}}, added)
	assert.Equal(t, []chat.Origin{{Nickname: "reformed"}}, removed)
}

func TestParseModeChanges(t *testing.T) {
	tests := []struct {
		name        string
		modeStr     string
		args        []string
		wantAdded   []chat.ModeChange
		wantRemoved []chat.ModeChange
	}{
		{
			name:      "single voice grant",
			modeStr:   "+v",
			args:      []string{"B"},
			wantAdded: []chat.ModeChange{{Flag: "v", Arg: "B"}},
		},
		{
			name:    "mixed signs consume args in order",
			modeStr: "+o-v+b",
			args:    []string{"alice", "bob", "*!*@spam.example"},
			wantAdded: []chat.ModeChange{
				{Flag: "o", Arg: "alice"},
				{Flag: "b", Arg: "*!*@spam.example"},
			},
			wantRemoved: []chat.ModeChange{{Flag: "v", Arg: "bob"}},
		},
		{
			name:    "limit only consumes when adding",
			modeStr: "+l",
			args:    []string{"25"},
			wantAdded: []chat.ModeChange{
				{Flag: "l", Arg: "25"},
			},
		},
		{
			name:        "limit removal takes no argument",
			modeStr:     "-l",
			args:        nil,
			wantRemoved: []chat.ModeChange{{Flag: "l"}},
		},
		{
			name:      "argless flags",
			modeStr:   "+im",
			args:      nil,
			wantAdded: []chat.ModeChange{{Flag: "i"}, {Flag: "m"}},
		},
		{
			name:      "key consumes argument",
			modeStr:   "+k",
			args:      []string{"sekret"},
			wantAdded: []chat.ModeChange{{Flag: "k", Arg: "sekret"}},
		},
		{
			name:      "missing arguments become empty",
			modeStr:   "+oo",
			args:      []string{"alice"},
			wantAdded: []chat.ModeChange{{Flag: "o", Arg: "alice"}, {Flag: "o"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			added, removed := parseModeChanges(tt.modeStr, tt.args)
			assert.Equal(t, tt.wantAdded, added)
			assert.Equal(t, tt.wantRemoved, removed)
		})
	}
}
