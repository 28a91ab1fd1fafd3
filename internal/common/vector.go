package common

import "math"

// Vec2 represents a 2D vector or point in world coordinates (meters).
type Vec2 struct {
	X, Y float64
}

// FromHeading returns the unit vector pointing along theta (radians).
func FromHeading(theta float64) Vec2 {
	return Vec2{math.Cos(theta), math.Sin(theta)}
}

// Add adds two vectors.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub subtracts other from v.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Scale multiplies the vector by a scalar.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Dot returns the dot product of v and other.
func (v Vec2) Dot(other Vec2) float64 {
	return v.X*other.X + v.Y*other.Y
}

// Len returns the length (magnitude) of the vector.
func (v Vec2) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// LenSq returns the squared length of the vector.
func (v Vec2) LenSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

// DistanceTo returns the Euclidean distance between v and other.
func (v Vec2) DistanceTo(other Vec2) float64 {
	return v.Sub(other).Len()
}

// Heading returns the angle of the vector in radians, in [-Pi, Pi].
func (v Vec2) Heading() float64 {
	return math.Atan2(v.Y, v.X)
}

// Normalize returns a unit vector in the same direction.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return v.Scale(1 / l)
}

// Rad2Deg converts radians to degrees.
func Rad2Deg(x float64) float64 { return x * 180 / math.Pi }

// AngleDiff returns the minimal unsigned difference between two angles,
// wrapped into [0, Pi].
func AngleDiff(a, b float64) float64 {
	angle := math.Mod(math.Abs(a-b), 2*math.Pi)
	return math.Min(2*math.Pi-angle, angle)
}
