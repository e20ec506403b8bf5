package formation

import (
	"context"
	"slices"
	"testing"

	"groupcmd/internal/command"
	"groupcmd/internal/geom"
	"groupcmd/internal/group"
	"groupcmd/internal/terrain"
	"groupcmd/internal/unit"
)

type fixture struct {
	store *unit.Store
	sink  *unit.SliceSink
	reg   *unit.Recorder
}

func newFixture(t *testing.T, units ...*unit.Unit) fixture {
	t.Helper()
	s := unit.NewStore()
	for _, u := range units {
		if err := s.Add(u); err != nil {
			t.Fatalf("add %d: %v", u.ID, err)
		}
	}
	sink := &unit.SliceSink{}
	return fixture{store: s, sink: sink, reg: unit.NewRecorder(s, sink)}
}

// tank builds a mobile unit whose formation score is metal*60.
func tank(id, footprint int, metal float64) *unit.Unit {
	return &unit.Unit{ID: id, XSize: footprint, ZSize: footprint, Mobile: true, MaxSpeed: 50,
		MetalCost: metal, Health: 1, MaxWeaponRange: 1}
}

func front(center, right geom.Vec3) command.Command {
	return command.New(command.Move, 0, center.X, center.Y, center.Z, right.X, right.Y, right.Z)
}

func place(f fixture, s *Scratch, c command.Command, sel []int) Result {
	m := group.Calculate(f.reg, sel, false)
	return NewEngine(f.reg, terrain.Flat(0)).Place(context.Background(), s, c, sel, m)
}

func TestPlaceSingleRow(t *testing.T) {
	f := newFixture(t, tank(1, 2, 1), tank(2, 4, 2), tank(3, 2, 3))
	res := place(f, nil, front(geom.Vec3{}, geom.Vec3{X: 200}), []int{3, 1, 2})

	if res.Degenerate || res.Rows != 1 || res.Orders != 3 {
		t.Fatalf("unexpected result %+v", res)
	}
	want := map[int]float64{1: 184, 2: 0, 3: -184}
	gotOrder := make([]int, 0, 3)
	for _, o := range f.sink.Orders {
		gotOrder = append(gotOrder, o.UnitID)
		p := o.Command.Pos(0)
		if p.X != want[o.UnitID] || p.Z != 0 || p.Y != 0 {
			t.Fatalf("unit %d at %+v, want x=%f", o.UnitID, p, want[o.UnitID])
		}
		if o.Command.Kind != command.Move || len(o.Command.Params) != 3 || o.Queued {
			t.Fatalf("unexpected order %+v", o)
		}
	}
	if !slices.Equal(gotOrder, []int{1, 2, 3}) {
		t.Fatalf("submission order %v", gotOrder)
	}
}

func TestPlaceDegenerateFront(t *testing.T) {
	f := newFixture(t, tank(1, 2, 1), tank(2, 2, 1))
	c := front(geom.Vec3{X: 10}, geom.Vec3{X: 20})
	res := place(f, nil, c, []int{1, 2, 9})
	if !res.Degenerate || res.Orders != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
	for _, o := range f.sink.Orders {
		if !o.Command.Equal(c) {
			t.Fatalf("expected original command, got %v", o.Command)
		}
	}
}

func TestPlaceWrapsRows(t *testing.T) {
	var units []*unit.Unit
	var sel []int
	for id := 1; id <= 10; id++ {
		units = append(units, tank(id, 2, 1))
		sel = append(sel, id)
	}
	f := newFixture(t, units...)
	res := place(f, nil, front(geom.Vec3{}, geom.Vec3{X: 50}), sel)
	if res.Rows != 3 || res.Orders != 10 {
		t.Fatalf("unexpected result %+v", res)
	}
	// no spare front, so slots sit 32 apart starting 16 in from the right edge
	for i, o := range f.sink.Orders {
		if o.UnitID != i+1 {
			t.Fatalf("order %d went to unit %d", i, o.UnitID)
		}
		row, col := i/4, i%4
		p := o.Command.Pos(0)
		wantX := 50 - float64(16+32*col)
		wantZ := float64(32 * row)
		if p.X != wantX || p.Z != wantZ {
			t.Fatalf("unit %d at (%f,%f), want (%f,%f)", o.UnitID, p.X, p.Z, wantX, wantZ)
		}
	}
}

func TestPlaceUsesTerrainHeight(t *testing.T) {
	g, err := terrain.NewGrid(2, 2, 1000, []float64{7, 7, 7, 7})
	if err != nil {
		t.Fatal(err)
	}
	f := newFixture(t, tank(1, 2, 1), tank(2, 2, 1))
	sel := []int{1, 2}
	m := group.Calculate(f.reg, sel, false)
	NewEngine(f.reg, g).Place(context.Background(), nil, front(geom.Vec3{}, geom.Vec3{X: 100}), sel, m)
	for _, o := range f.sink.Orders {
		if y := o.Command.Pos(0).Y; y != 7 {
			t.Fatalf("unit %d y=%f, want 7", o.UnitID, y)
		}
	}
}

func TestMixTieBreakAndBalance(t *testing.T) {
	buckets := []bucket{
		{key: 1, ids: []int{10, 11}},
		{key: 2, ids: []int{20}},
	}
	got := mix(buckets, 3, nil)
	if want := []int{10, 20, 11}; !slices.Equal(got, want) {
		t.Fatalf("mix = %v, want %v", got, want)
	}
}

func TestMixPicksLowestFill(t *testing.T) {
	buckets := []bucket{
		{key: 0, ids: []int{1, 2, 3, 4, 5, 6}},
		{key: 1, ids: []int{7, 8}},
		{key: 2, ids: []int{9, 10, 11}},
	}
	var out []int
	for step := 0; step < 11; step++ {
		before := slices.Clone(buckets)
		out = mix(buckets, 1, out)
		picked := out[len(out)-1]
		var pb bucket
		for _, b := range before {
			if slices.Contains(b.ids, picked) {
				pb = b
			}
		}
		for _, b := range before {
			if b.placed < len(b.ids) && lowerFill(b, pb) {
				t.Fatalf("step %d: picked %d while bucket %v was emptier", step, picked, b.ids)
			}
		}
	}
	slices.Sort(out)
	if len(out) != 11 || out[0] != 1 || out[10] != 11 {
		t.Fatalf("not every unit placed exactly once: %v", out)
	}
	if extra := mix(buckets, 2, nil); len(extra) != 0 {
		t.Fatalf("exhausted buckets still yielded %v", extra)
	}
}

func TestPlaceDeterministicWithReusedScratch(t *testing.T) {
	build := func() fixture {
		var units []*unit.Unit
		for id := 1; id <= 12; id++ {
			units = append(units, tank(id, 1+id%3, float64(id%4)))
		}
		return newFixture(t, units...)
	}
	sel := []int{12, 3, 7, 1, 9, 4, 11, 2, 8, 6, 10, 5}
	c := front(geom.Vec3{X: 300, Z: 120}, geom.Vec3{X: 420, Z: 40})

	var scratch Scratch
	a, b := build(), build()
	place(a, &scratch, c, sel)
	place(b, &scratch, c, sel)

	if len(a.sink.Orders) != len(sel) || len(a.sink.Orders) != len(b.sink.Orders) {
		t.Fatalf("order counts %d vs %d", len(a.sink.Orders), len(b.sink.Orders))
	}
	for i := range a.sink.Orders {
		oa, ob := a.sink.Orders[i], b.sink.Orders[i]
		if oa.UnitID != ob.UnitID || !oa.Command.Equal(ob.Command) {
			t.Fatalf("order %d differs: %+v vs %+v", i, oa, ob)
		}
	}
}

func TestMixFirstPickFavoursLargestBucket(t *testing.T) {
	buckets := []bucket{
		{key: 1, ids: []int{10}},
		{key: 2, ids: []int{20, 21, 22}},
	}
	got := mix(buckets, 4, nil)
	if want := []int{20, 10, 21, 22}; !slices.Equal(got, want) {
		t.Fatalf("mix = %v, want %v", got, want)
	}
}

func TestPlaceBucketsByExactScore(t *testing.T) {
	// energy/health*range gives scores 10.2, 10.7 and 20
	scored := func(id int, energy float64) *unit.Unit {
		return &unit.Unit{ID: id, XSize: 2, ZSize: 2, Mobile: true, MaxSpeed: 50,
			EnergyCost: energy, Health: 1, MaxWeaponRange: 1}
	}
	f := newFixture(t, scored(1, 10.2), scored(2, 10.7), scored(3, 20))
	res := place(f, nil, front(geom.Vec3{}, geom.Vec3{X: 200}), []int{3, 2, 1})
	if res.Rows != 1 || res.Orders != 3 {
		t.Fatalf("unexpected result %+v", res)
	}
	want := map[int]float64{1: 184, 2: 0, 3: -184}
	var got []int
	for _, o := range f.sink.Orders {
		got = append(got, o.UnitID)
		if x := o.Command.Pos(0).X; x != want[o.UnitID] {
			t.Fatalf("unit %d at x=%f, want %f", o.UnitID, x, want[o.UnitID])
		}
	}
	if !slices.Equal(got, []int{1, 2, 3}) {
		t.Fatalf("submission order %v, want [1 2 3]", got)
	}
}

func TestPlaceSpacingUsesUntruncatedFootprint(t *testing.T) {
	// 3x2 footprints: slots are 2 cells wide but the front budget counts 2.5 each
	f := newFixture(t,
		&unit.Unit{ID: 1, XSize: 3, ZSize: 2, Mobile: true, MaxSpeed: 50, MetalCost: 1, Health: 1, MaxWeaponRange: 1},
		&unit.Unit{ID: 2, XSize: 3, ZSize: 2, Mobile: true, MaxSpeed: 50, MetalCost: 2, Health: 1, MaxWeaponRange: 1},
	)
	place(f, nil, front(geom.Vec3{}, geom.Vec3{X: 200}), []int{1, 2})
	want := map[int]float64{1: 184, 2: -168}
	if len(f.sink.Orders) != 2 {
		t.Fatalf("orders = %v", f.sink.Orders)
	}
	for _, o := range f.sink.Orders {
		if x := o.Command.Pos(0).X; x != want[o.UnitID] {
			t.Fatalf("unit %d at x=%f, want %f", o.UnitID, x, want[o.UnitID])
		}
	}
}
