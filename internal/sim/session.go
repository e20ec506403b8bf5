// Session orchestrating dispatches against one scenario world
package sim

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"groupcmd/internal/command"
	"groupcmd/internal/config"
	"groupcmd/internal/dispatch"
	"groupcmd/internal/journal"
	"groupcmd/internal/logging"
	"groupcmd/internal/spatial"
	"groupcmd/internal/unit"
	"groupcmd/internal/waitcmd"
)

// Session owns a world and serializes every dispatch against it, so HTTP
// handlers and script runs can share one.
type Session struct {
	mu         sync.Mutex
	world      *config.World
	disp       *dispatch.Dispatcher
	journal    *journal.Journal
	waits      *waitcmd.Tracker
	selections map[int][]int
	issued     int
}

// NewSession wires a dispatcher over w. j may be nil to skip journaling.
func NewSession(w *config.World, j *journal.Journal) *Session {
	var reg unit.Registry = w.Store
	if j != nil {
		reg = unit.NewRecorder(w.Store, j)
	}
	waits := waitcmd.NewTracker()
	s := &Session{
		world:      w,
		disp:       dispatch.New(reg, spatial.NewIndex(w.Store), w.Heights, waits, w.Local, w.Players),
		journal:    j,
		waits:      waits,
		selections: make(map[int][]int, len(w.Selections)),
	}
	for p, sel := range w.Selections {
		s.selections[p] = slices.Clone(sel)
	}
	return s
}

// Select replaces a player's selection. Duplicates are dropped, first occurrence wins.
func (s *Session) Select(player int, ids []int) {
	sel := make([]int, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(sel, id) {
			sel = append(sel, id)
		}
	}
	s.mu.Lock()
	s.selections[player] = sel
	s.mu.Unlock()
}

// Selection returns a copy of a player's selection.
func (s *Session) Selection(player int) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.selections[player])
}

// Issue dispatches c for player's current selection.
func (s *Session) Issue(ctx context.Context, player int, c command.Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel := s.selections[player]
	if s.journal != nil {
		s.journal.BeginIssue(player, sel, c)
	}
	err := s.disp.Dispatch(ctx, player, sel, c)
	if s.journal != nil {
		if jerr := s.journal.EndIssue(); jerr != nil {
			logging.FromContext(ctx).Warn("journal write failed", "err", jerr)
		}
	}
	if err != nil {
		return err
	}
	s.issued++
	return nil
}

// Step runs one scripted step: an optional reselection followed by the command.
func (s *Session) Step(ctx context.Context, st config.Step) error {
	c, err := st.Command()
	if err != nil {
		return err
	}
	if st.Units != nil {
		s.Select(st.Player, st.Units)
	}
	return s.Issue(ctx, st.Player, c)
}

// Run executes steps in order, one per interval. An interval <= 0 runs them
// back to back. Run stops at the first failing step or when ctx is done.
func (s *Session) Run(ctx context.Context, steps []config.Step, interval time.Duration) error {
	log := logging.FromContext(ctx)
	var tick <-chan time.Time
	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}
	for i, st := range steps {
		if tick != nil && i > 0 {
			select {
			case <-tick:
			case <-ctx.Done():
				return ctx.Err()
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Step(ctx, st); err != nil {
			return fmt.Errorf("step %d (%s): %w", i, st.Kind, err)
		}
		log.Debug("step dispatched", "step", i, "kind", st.Kind, "player", st.Player)
	}
	return nil
}

// Units returns deep copies of every unit in ascending id order.
func (s *Session) Units() []unit.Unit {
	s.mu.Lock()
	defer s.mu.Unlock()
	units := s.world.Store.Units()
	out := make([]unit.Unit, len(units))
	for i, u := range units {
		out[i] = snapshot(u)
	}
	return out
}

func snapshot(u *unit.Unit) unit.Unit {
	c := *u
	c.Queue = make([]command.Command, len(u.Queue))
	for i, q := range u.Queue {
		c.Queue[i] = q.Clone()
	}
	if u.Visibility != nil {
		c.Visibility = make(map[int]unit.Visibility, len(u.Visibility))
		for k, v := range u.Visibility {
			c.Visibility[k] = v
		}
	}
	return c
}

// Stats summarizes the session.
type Stats struct {
	Issued      int    `json:"issued"`
	Orders      int    `json:"orders"`
	Digest      string `json:"digest"`
	WaitsAcked  int    `json:"waits_acknowledged"`
	RunID       string `json:"run_id,omitempty"`
	UnitsAlive  int    `json:"units"`
	LocalPlayer int    `json:"local_player"`
}

// Stats returns counters and the order digest.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Stats{
		Issued:      s.issued,
		WaitsAcked:  s.waits.Count(),
		UnitsAlive:  len(s.world.Store.IDs()),
		LocalPlayer: s.world.Local,
	}
	if s.journal != nil {
		st.Orders = s.journal.Orders()
		st.Digest = fmt.Sprintf("%016x", s.journal.Sum64())
		st.RunID = s.journal.RunID()
	}
	return st
}
