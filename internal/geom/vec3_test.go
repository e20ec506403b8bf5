package geom

import (
	"math"
	"testing"
)

func TestCrossWithUp(t *testing.T) {
	got := Cross(Vec3{X: 1}, Up)
	want := Vec3{X: 0, Y: 0, Z: 1}
	if got != want {
		t.Fatalf("Cross = %+v, want %+v", got, want)
	}
}

func TestNormalizeZero(t *testing.T) {
	if got := Normalize(Vec3{}); got != (Vec3{}) {
		t.Fatalf("expected zero vector, got %+v", got)
	}
	n := Normalize(Vec3{X: 3, Z: 4})
	if math.Abs(Length(n)-1) > 1e-12 {
		t.Fatalf("expected unit length, got %f", Length(n))
	}
}

func TestSqDistance2DIgnoresHeight(t *testing.T) {
	a := Vec3{X: 1, Y: 100, Z: 1}
	b := Vec3{X: 4, Y: -50, Z: 5}
	if got := SqDistance2D(a, b); got != 25 {
		t.Fatalf("SqDistance2D = %f, want 25", got)
	}
}

func TestMinMax(t *testing.T) {
	a := Vec3{X: 1, Y: 5, Z: -2}
	b := Vec3{X: -3, Y: 7, Z: 0}
	if got := Min(a, b); got != (Vec3{X: -3, Y: 5, Z: -2}) {
		t.Fatalf("Min = %+v", got)
	}
	if got := Max(a, b); got != (Vec3{X: 1, Y: 7, Z: 0}) {
		t.Fatalf("Max = %+v", got)
	}
}
