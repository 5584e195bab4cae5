package chat

import (
	"strings"
	"sync"
	"time"
)

// MemberSyncDelay sequences the system message for a JOIN/PART/KICK before
// the member list visually updates. Cosmetic only; no logic may depend on
// its value.
const MemberSyncDelay = 64 * time.Millisecond

// Pending tracks deferred mutations keyed by room id so that closing or
// removing a room cancels anything still queued against it, instead of the
// deferred action firing against missing state.
type Pending struct {
	mu     sync.Mutex
	delay  time.Duration
	seq    int
	timers map[string]map[int]*time.Timer
}

// NewPending creates a scheduler with the given delay. A zero delay runs
// actions synchronously, which keeps tests deterministic.
func NewPending(delay time.Duration) *Pending {
	return &Pending{
		delay:  delay,
		timers: make(map[string]map[int]*time.Timer),
	}
}

// After queues fn against the room. With a zero delay fn runs immediately.
func (p *Pending) After(roomID string, fn func()) {
	if p.delay == 0 {
		fn()
		return
	}
	key := strings.ToLower(roomID)

	p.mu.Lock()
	p.seq++
	id := p.seq
	if p.timers[key] == nil {
		p.timers[key] = make(map[int]*time.Timer)
	}
	timer := time.AfterFunc(p.delay, func() {
		p.mu.Lock()
		_, live := p.timers[key][id]
		delete(p.timers[key], id)
		p.mu.Unlock()
		if live {
			fn()
		}
	})
	p.timers[key][id] = timer
	p.mu.Unlock()
}

// CancelRoom drops every action still queued against the room.
func (p *Pending) CancelRoom(roomID string) {
	key := strings.ToLower(roomID)
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, timer := range p.timers[key] {
		timer.Stop()
		delete(p.timers[key], id)
	}
	delete(p.timers, key)
}

// Len returns the number of actions still queued against the room.
func (p *Pending) Len(roomID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.timers[strings.ToLower(roomID)])
}
