// Command value types exchanged between issuers, the dispatcher and the unit registry
package command

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"groupcmd/internal/geom"
)

// Kind identifies a command action. Values match the wire ids used by existing issuers.
type Kind int

const (
	Stop              Kind = 0
	Wait              Kind = 5
	Move              Kind = 10
	Patrol            Kind = 15
	Fight             Kind = 16
	Attack            Kind = 20
	Guard             Kind = 25
	Repair            Kind = 40
	FireState         Kind = 45
	MoveState         Kind = 50
	SelfDestruct      Kind = 65
	SetWantedMaxSpeed Kind = 70
	OnOff             Kind = 85
	Reclaim           Kind = 90
	Repeat            Kind = 115
)

var kindNames = map[Kind]string{
	Stop:              "stop",
	Wait:              "wait",
	Move:              "move",
	Patrol:            "patrol",
	Fight:             "fight",
	Attack:            "attack",
	Guard:             "guard",
	Repair:            "repair",
	FireState:         "fire_state",
	MoveState:         "move_state",
	SelfDestruct:      "self_destruct",
	SetWantedMaxSpeed: "set_wanted_max_speed",
	OnOff:             "on_off",
	Reclaim:           "reclaim",
	Repeat:            "repeat",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind resolves a kind by name.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: kind %q", ErrUnknownName, name)
}

// Options is the input modifier bit-set carried by a command.
type Options uint8

const (
	OptMeta    Options = 1 << 2
	OptQueue   Options = 1 << 5 // shift: append instead of replace
	OptControl Options = 1 << 6 // group lock / group speed / delete queued
	OptAlt     Options = 1 << 7 // group front
)

var optionNames = []struct {
	opt  Options
	name string
}{
	{OptMeta, "meta"},
	{OptQueue, "queue"},
	{OptControl, "control"},
	{OptAlt, "alt"},
}

// Has reports whether every bit of o2 is set in o.
func (o Options) Has(o2 Options) bool { return o&o2 == o2 }

func (o Options) String() string {
	var parts []string
	for _, on := range optionNames {
		if o.Has(on.opt) {
			parts = append(parts, on.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseOptions builds an option set from modifier names.
func ParseOptions(names []string) (Options, error) {
	var o Options
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "shift" {
			n = "queue"
		}
		found := false
		for _, on := range optionNames {
			if on.name == n {
				o |= on.opt
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("%w: option %q", ErrUnknownName, n)
		}
	}
	return o, nil
}

// Command is a tagged action with an ordered parameter list.
type Command struct {
	Kind    Kind      `json:"kind"`
	Params  []float64 `json:"params,omitempty"`
	Options Options   `json:"options"`
}

// New returns a command of kind k with the given parameters.
func New(k Kind, opts Options, params ...float64) Command {
	return Command{Kind: k, Options: opts, Params: params}
}

// Clone returns a deep copy of c.
func (c Command) Clone() Command {
	c.Params = slices.Clone(c.Params)
	return c
}

// Pos returns the position triple starting at parameter i.
func (c Command) Pos(i int) geom.Vec3 {
	return geom.Vec3{X: c.Params[i], Y: c.Params[i+1], Z: c.Params[i+2]}
}

// SetPos overwrites the position triple starting at parameter i.
func (c *Command) SetPos(i int, p geom.Vec3) {
	c.Params[i], c.Params[i+1], c.Params[i+2] = p.X, p.Y, p.Z
}

// PushPos appends a position triple.
func (c *Command) PushPos(p geom.Vec3) {
	c.Params = append(c.Params, p.X, p.Y, p.Z)
}

// HasPos reports whether the command carries a leading position.
func (c Command) HasPos() bool { return len(c.Params) >= 3 }

// Equal reports whether two commands have the same kind, options and parameters.
func (c Command) Equal(o Command) bool {
	return c.Kind == o.Kind && c.Options == o.Options && slices.Equal(c.Params, o.Params)
}

// SameOrder reports whether two commands target the same thing, ignoring modifiers.
func (c Command) SameOrder(o Command) bool {
	return c.Kind == o.Kind && slices.Equal(c.Params, o.Params)
}

func (c Command) String() string {
	if c.Options == 0 {
		return fmt.Sprintf("%s%v", c.Kind, c.Params)
	}
	return fmt.Sprintf("%s%v[%s]", c.Kind, c.Params, c.Options)
}

// ErrUnknownName is returned when a kind or option name does not resolve.
var ErrUnknownName = errors.New("unknown command name")

// ErrBadParams is returned for a parameter count the command kind does not accept.
var ErrBadParams = errors.New("bad command parameters")

var paramCounts = map[Kind][]int{
	Stop:              {0},
	Wait:              {0},
	SelfDestruct:      {0},
	Move:              {3, 6},
	Patrol:            {3},
	Fight:             {3, 4, 6},
	Attack:            {1, 3, 4, 6},
	Guard:             {1},
	FireState:         {1},
	MoveState:         {1},
	OnOff:             {1},
	Repeat:            {1},
	SetWantedMaxSpeed: {1},
	Repair:            {1, 4},
	Reclaim:           {1, 4},
}

// Validate checks the parameter count against the kind's contract.
// Kinds without a registered contract accept any count.
func (c Command) Validate() error {
	counts, ok := paramCounts[c.Kind]
	if !ok {
		return nil
	}
	if !slices.Contains(counts, len(c.Params)) {
		return fmt.Errorf("%w: %s with %d params, want one of %v", ErrBadParams, c.Kind, len(c.Params), counts)
	}
	return nil
}
