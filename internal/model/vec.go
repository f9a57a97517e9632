package model

import "math"

// Vec2 — точка или вектор на плоскости (world units).
// Value type, передаётся по значению.
type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// V returns Vec2{x, y}.
func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2       { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2       { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(k float64) Vec2  { return Vec2{v.X * k, v.Y * k} }
func (v Vec2) Dot(o Vec2) float64    { return v.X*o.X + v.Y*o.Y }
func (v Vec2) LenSq() float64        { return v.X*v.X + v.Y*v.Y }
func (v Vec2) Len() float64          { return math.Sqrt(v.LenSq()) }
func (v Vec2) IsZero() bool          { return v.X == 0 && v.Y == 0 }
func (v Vec2) DistSq(o Vec2) float64 { return v.Sub(o).LenSq() }
func (v Vec2) Dist(o Vec2) float64   { return v.Sub(o).Len() }

// Normalize returns the unit vector of v, or zero for a zero vector.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Rotate returns v rotated counter-clockwise by angle radians.
func (v Vec2) Rotate(angle float64) Vec2 {
	sin, cos := math.Sincos(angle)
	return Vec2{v.X*cos - v.Y*sin, v.X*sin + v.Y*cos}
}

// Perp returns v rotated by 90 degrees.
func (v Vec2) Perp() Vec2 { return Vec2{-v.Y, v.X} }

// FromAngle returns the unit vector pointing at angle radians.
func FromAngle(angle float64) Vec2 {
	sin, cos := math.Sincos(angle)
	return Vec2{cos, sin}
}
