// Unit state and the registry contract used by the order pipeline
package unit

import (
	"fmt"
	"strings"

	"groupcmd/internal/command"
	"groupcmd/internal/geom"
)

// Visibility is how well an ally-team currently sees a unit.
type Visibility int

const (
	VisNone Visibility = iota
	VisRadar
	VisLOS
)

func (v Visibility) String() string {
	switch v {
	case VisRadar:
		return "radar"
	case VisLOS:
		return "los"
	default:
		return "none"
	}
}

// ParseVisibility resolves a visibility by name.
func ParseVisibility(s string) (Visibility, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return VisNone, nil
	case "radar":
		return VisRadar, nil
	case "los":
		return VisLOS, nil
	}
	return VisNone, fmt.Errorf("unknown visibility %q", s)
}

// Profile is the behaviour profile of a unit's command handling.
type Profile int

const (
	ProfileGeneric Profile = iota
	ProfileAir
	ProfileBuilder
	ProfileFactory
	ProfileMobile
)

var profileNames = [...]string{"generic", "air", "builder", "factory", "mobile"}

func (p Profile) String() string {
	if p < 0 || int(p) >= len(profileNames) {
		return "generic"
	}
	return profileNames[p]
}

// ParseProfile resolves a profile by name.
func ParseProfile(s string) (Profile, error) {
	if s == "" {
		return ProfileGeneric, nil
	}
	for i, n := range profileNames {
		if strings.EqualFold(n, s) {
			return Profile(i), nil
		}
	}
	return ProfileGeneric, fmt.Errorf("unknown profile %q", s)
}

// Unit holds the state of one simulated unit.
type Unit struct {
	ID       int
	Name     string
	Team     int
	AllyTeam int
	Profile  Profile
	Pos      geom.Vec3

	// Footprint in grid squares.
	XSize int
	ZSize int

	Mobile         bool
	MaxSpeed       float64 // current, may be overridden by scripts
	DefMaxSpeed    float64 // static definition value
	WantedMaxSpeed float64

	MetalCost      float64
	EnergyCost     float64
	Health         float64
	MaxWeaponRange float64

	// Visibility of this unit to each observing ally-team.
	Visibility map[int]Visibility

	Queue []command.Command
}

// Footprint returns the averaged footprint edge in grid squares.
func (u *Unit) Footprint() int {
	return (u.XSize + u.ZSize) / 2
}

// VisibleTo reports whether allyTeam sees the unit in LOS or on radar.
func (u *Unit) VisibleTo(allyTeam int) bool {
	if u.AllyTeam == allyTeam {
		return true
	}
	v := u.Visibility[allyTeam]
	return v == VisLOS || v == VisRadar
}

// LastQueuePosition returns the position of the last queued command that carries one,
// or the unit's current position.
func (u *Unit) LastQueuePosition() geom.Vec3 {
	for i := len(u.Queue) - 1; i >= 0; i-- {
		if u.Queue[i].HasPos() {
			return u.Queue[i].Pos(0)
		}
	}
	return u.Pos
}

// HasQueued reports whether an order equal to c is pending.
func (u *Unit) HasQueued(c command.Command) bool {
	for _, q := range u.Queue {
		if q.SameOrder(c) {
			return true
		}
	}
	return false
}

// Registry resolves unit ids and accepts commands for them.
type Registry interface {
	Unit(id int) (*Unit, bool)
	// Submit hands a command to the unit. When queued is true the command is
	// appended; otherwise the command's own queue modifier decides.
	Submit(id int, c command.Command, queued bool)
	SupportsSpeedOverride(id int) bool
}
