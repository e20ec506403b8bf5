// Package waitcmd keeps track of the local player's wait commands.
package waitcmd

import (
	"sync"

	"groupcmd/internal/command"
)

// Acknowledger is notified of wait commands issued by the local player.
type Acknowledger interface {
	Acknowledge(c command.Command)
}

// Tracker records acknowledged wait commands in arrival order.
type Tracker struct {
	mu   sync.Mutex
	acks []command.Command
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker { return &Tracker{} }

// Acknowledge implements Acknowledger. Non-wait commands are ignored.
func (t *Tracker) Acknowledge(c command.Command) {
	if c.Kind != command.Wait {
		return
	}
	t.mu.Lock()
	t.acks = append(t.acks, c.Clone())
	t.mu.Unlock()
}

// Count returns how many waits were acknowledged.
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.acks)
}

// Acks returns a copy of the acknowledged commands.
func (t *Tracker) Acks() []command.Command {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]command.Command, len(t.acks))
	for i, c := range t.acks {
		out[i] = c.Clone()
	}
	return out
}
