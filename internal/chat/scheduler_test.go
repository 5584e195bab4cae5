package chat

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPendingZeroDelayRunsSynchronously(t *testing.T) {
	p := NewPending(0)
	ran := false
	p.After("#go", func() { ran = true })
	assert.True(t, ran)
	assert.Equal(t, 0, p.Len("#go"))
}

func TestPendingDelayedRun(t *testing.T) {
	p := NewPending(5 * time.Millisecond)
	var ran atomic.Bool
	p.After("#go", func() { ran.Store(true) })
	assert.False(t, ran.Load())
	assert.Eventually(t, ran.Load, time.Second, time.Millisecond)
	assert.Equal(t, 0, p.Len("#go"))
}

func TestPendingCancelRoom(t *testing.T) {
	p := NewPending(20 * time.Millisecond)
	var ran atomic.Bool
	p.After("#go", func() { ran.Store(true) })
	p.After("#go", func() { ran.Store(true) })
	p.After("#other", func() {})
	assert.Equal(t, 2, p.Len("#go"))
	assert.Equal(t, 1, p.Len("#other"))

	// Keys are case-insensitive, like room ids.
	p.CancelRoom("#GO")

	assert.Equal(t, 0, p.Len("#go"))
	time.Sleep(60 * time.Millisecond)
	assert.False(t, ran.Load())
	assert.Equal(t, 0, p.Len("#other"))
}

func TestClosingRoomCancelsQueuedMembershipUpdate(t *testing.T) {
	em := &fakeEmitter{}
	s := NewSession(em, 20*time.Millisecond)
	s.Begin(Origin{ID: "self", Nickname: "me"}, "irc.example.net")

	s.Dispatch(VerbJoin, JoinEvent{Origin: Origin{ID: "self", Nickname: "me"}, Channel: "#go"})
	ch, ok := s.Rooms.Get("#go", StateOpened)
	assert.True(t, ok)
	s.Dispatch(VerbJoin, JoinEvent{Origin: Origin{ID: "b1", Nickname: "B"}, Channel: "#go"})

	// Close before the delayed updates fire; they must never apply.
	s.Rooms.Close("#go")
	assert.Equal(t, 0, s.Pending.Len("#go"))

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 0, ch.(*ChannelRoom).Members.Size())
}
