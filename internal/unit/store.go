package unit

import (
	"fmt"
	"slices"

	"groupcmd/internal/command"
)

// Store is an in-memory Registry. It is not safe for concurrent use; callers
// serialize access the way a simulation step does.
type Store struct {
	units map[int]*Unit
	ids   []int // ascending, for deterministic iteration
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{units: make(map[int]*Unit)}
}

// Add registers u. Ids must be unique.
func (s *Store) Add(u *Unit) error {
	if _, ok := s.units[u.ID]; ok {
		return fmt.Errorf("duplicate unit id %d", u.ID)
	}
	if u.Visibility == nil {
		u.Visibility = make(map[int]Visibility)
	}
	s.units[u.ID] = u
	i, _ := slices.BinarySearch(s.ids, u.ID)
	s.ids = slices.Insert(s.ids, i, u.ID)
	return nil
}

// Remove drops a unit, as when it dies.
func (s *Store) Remove(id int) {
	if _, ok := s.units[id]; !ok {
		return
	}
	delete(s.units, id)
	if i, found := slices.BinarySearch(s.ids, id); found {
		s.ids = slices.Delete(s.ids, i, i+1)
	}
}

// Unit implements Registry.
func (s *Store) Unit(id int) (*Unit, bool) {
	u, ok := s.units[id]
	return u, ok
}

// IDs returns all unit ids in ascending order.
func (s *Store) IDs() []int {
	return slices.Clone(s.ids)
}

// Units returns all units in ascending id order.
func (s *Store) Units() []*Unit {
	out := make([]*Unit, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, s.units[id])
	}
	return out
}

// SupportsSpeedOverride implements Registry. Only mobile units accept a wanted max speed.
func (s *Store) SupportsSpeedOverride(id int) bool {
	u, ok := s.units[id]
	return ok && u.Mobile
}

// Submit implements Registry.
//
// State commands apply immediately and never enter the queue. A queued order
// equal to a pending one cancels it instead of being appended twice.
func (s *Store) Submit(id int, c command.Command, queued bool) {
	u, ok := s.units[id]
	if !ok {
		return
	}
	c = c.Clone()
	switch c.Kind {
	case command.SetWantedMaxSpeed:
		if !u.Mobile || len(c.Params) == 0 {
			return
		}
		speed := c.Params[0]
		if speed > u.MaxSpeed {
			speed = u.MaxSpeed
		}
		if speed < 0 {
			speed = 0
		}
		u.WantedMaxSpeed = speed
		return
	case command.FireState, command.MoveState, command.OnOff, command.Repeat, command.SelfDestruct:
		return
	case command.Stop:
		u.Queue = u.Queue[:0]
		u.WantedMaxSpeed = u.MaxSpeed
		return
	}

	if !queued && !c.Options.Has(command.OptQueue) {
		u.Queue = append(u.Queue[:0], c)
		return
	}
	for i, q := range u.Queue {
		if q.SameOrder(c) {
			u.Queue = slices.Delete(u.Queue, i, i+1)
			return
		}
	}
	u.Queue = append(u.Queue, c)
}
