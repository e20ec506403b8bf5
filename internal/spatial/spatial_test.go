package spatial

import (
	"slices"
	"testing"

	"groupcmd/internal/geom"
	"groupcmd/internal/unit"
)

func newWorld(t *testing.T) *unit.Store {
	t.Helper()
	s := unit.NewStore()
	units := []*unit.Unit{
		// own ally-team
		{ID: 1, AllyTeam: 0, Pos: geom.Vec3{X: 0, Z: 0}},
		// enemies at various visibility levels
		{ID: 2, AllyTeam: 1, Pos: geom.Vec3{X: 10, Z: 0}, Visibility: map[int]unit.Visibility{0: unit.VisLOS}},
		{ID: 3, AllyTeam: 1, Pos: geom.Vec3{X: 0, Y: 500, Z: 20}, Visibility: map[int]unit.Visibility{0: unit.VisRadar}},
		{ID: 4, AllyTeam: 1, Pos: geom.Vec3{X: 5, Z: 5}},
		{ID: 5, AllyTeam: 2, Pos: geom.Vec3{X: 100, Z: 100}, Visibility: map[int]unit.Visibility{0: unit.VisLOS}},
	}
	for _, u := range units {
		if err := s.Add(u); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	return s
}

func TestQueryCircle(t *testing.T) {
	idx := NewIndex(newWorld(t))
	got := idx.QueryCircle(geom.Vec3{}, 25, 0)
	if want := []int{2, 3}; !slices.Equal(got, want) {
		t.Fatalf("QueryCircle = %v, want %v", got, want)
	}
	// the other side sees unit 1 only when it is visible to them
	if got := idx.QueryCircle(geom.Vec3{}, 25, 1); len(got) != 0 {
		t.Fatalf("expected no visible enemies for ally-team 1, got %v", got)
	}
}

func TestQueryBoxAnyCornerOrder(t *testing.T) {
	idx := NewIndex(newWorld(t))
	a := idx.QueryBox(geom.Vec3{X: -1, Z: -1}, geom.Vec3{X: 200, Z: 200}, 0)
	b := idx.QueryBox(geom.Vec3{X: 200, Z: 200}, geom.Vec3{X: -1, Z: -1}, 0)
	if want := []int{2, 3, 5}; !slices.Equal(a, want) || !slices.Equal(b, want) {
		t.Fatalf("QueryBox = %v / %v, want %v", a, b, want)
	}
}
