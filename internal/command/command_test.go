package command

import (
	"errors"
	"testing"

	"groupcmd/internal/geom"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		cmd  Command
		ok   bool
	}{
		{"stop", New(Stop, 0), true},
		{"stop with params", New(Stop, 0, 1), false},
		{"move point", New(Move, 0, 1, 2, 3), true},
		{"move front", New(Move, 0, 1, 2, 3, 4, 5, 6), true},
		{"move short", New(Move, 0, 1, 2), false},
		{"attack unit", New(Attack, 0, 7), true},
		{"attack circle", New(Attack, 0, 1, 2, 3, 50), true},
		{"attack box", New(Attack, 0, 1, 2, 3, 4, 5, 6), true},
		{"attack five", New(Attack, 0, 1, 2, 3, 4, 5), false},
		{"unregistered kind", New(Kind(999), 0, 1, 2), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cmd.Validate()
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrBadParams) {
				t.Fatalf("expected ErrBadParams, got %v", err)
			}
		})
	}
}

func TestParseOptions(t *testing.T) {
	o, err := ParseOptions([]string{"shift", "Control"})
	if err != nil {
		t.Fatalf("ParseOptions: %v", err)
	}
	if !o.Has(OptQueue) || !o.Has(OptControl) || o.Has(OptAlt) {
		t.Fatalf("unexpected options %s", o)
	}
	if _, err := ParseOptions([]string{"hyper"}); err == nil {
		t.Fatalf("expected error for unknown option")
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Fight")
	if err != nil || k != Fight {
		t.Fatalf("ParseKind = %v, %v", k, err)
	}
	if _, err := ParseKind("dance"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	c := New(Move, OptQueue, 1, 2, 3)
	cp := c.Clone()
	cp.SetPos(0, geom.Vec3{X: 9, Y: 9, Z: 9})
	if c.Params[0] != 1 {
		t.Fatalf("clone shares parameter storage")
	}
	cp.PushPos(geom.Vec3{X: 4, Y: 5, Z: 6})
	if got := cp.Pos(3); got != (geom.Vec3{X: 4, Y: 5, Z: 6}) {
		t.Fatalf("Pos(3) = %+v", got)
	}
}

func TestSameOrderIgnoresOptions(t *testing.T) {
	a := New(Attack, OptQueue, 12)
	b := New(Attack, 0, 12)
	if !a.SameOrder(b) {
		t.Fatalf("expected same order")
	}
	if a.Equal(b) {
		t.Fatalf("expected options to differ")
	}
}
