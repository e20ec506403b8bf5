// Vector math shared by the order pipeline
package geom

import "math"

// SquareSize is the world-space edge length of one footprint grid square.
const SquareSize = 8.0

// Vec3 is a world-space point or direction. Y is up.
type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Up is the world up vector.
var Up = Vec3{Y: 1}

// Add returns a+b.
func Add(a, b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

// Sub returns a-b.
func Sub(a, b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

// Scale returns v*s.
func Scale(v Vec3, s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Div returns v/s.
func Div(v Vec3, s float64) Vec3 {
	return Vec3{v.X / s, v.Y / s, v.Z / s}
}

// Cross returns a×b.
func Cross(a, b Vec3) Vec3 {
	// explicit conversions keep each product rounded before the subtraction
	return Vec3{
		float64(a.Y*b.Z) - float64(a.Z*b.Y),
		float64(a.Z*b.X) - float64(a.X*b.Z),
		float64(a.X*b.Y) - float64(a.Y*b.X),
	}
}

// SqLength returns |v|².
func SqLength(v Vec3) float64 {
	return float64(v.X*v.X) + float64(v.Y*v.Y) + float64(v.Z*v.Z)
}

// SqLength2D returns the squared planar (xz) length of v.
func SqLength2D(v Vec3) float64 {
	return float64(v.X*v.X) + float64(v.Z*v.Z)
}

// Length returns |v|.
func Length(v Vec3) float64 {
	return math.Sqrt(SqLength(v))
}

// Distance returns |a-b|.
func Distance(a, b Vec3) float64 {
	return Length(Sub(a, b))
}

// SqDistance2D returns the squared planar distance between a and b.
func SqDistance2D(a, b Vec3) float64 {
	return SqLength2D(Sub(a, b))
}

// Normalize returns v scaled to unit length, or the zero vector when v is zero.
func Normalize(v Vec3) Vec3 {
	l := Length(v)
	if l == 0 {
		return Vec3{}
	}
	return Div(v, l)
}

// Flat returns v with Y cleared.
func Flat(v Vec3) Vec3 {
	return Vec3{X: v.X, Z: v.Z}
}

// Min returns the component-wise minimum of a and b.
func Min(a, b Vec3) Vec3 {
	return Vec3{math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)}
}

// Max returns the component-wise maximum of a and b.
func Max(a, b Vec3) Vec3 {
	return Vec3{math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)}
}
