package track

import (
	"errors"
	"fmt"
	"math"

	"highway-path-planner/internal/common"

	"gonum.org/v1/gonum/floats"
)

// DefaultSignRef is the reference point used to sign lateral offsets when no
// other point is configured. It lies off the simulator's highway loop on the
// left-hand side of travel.
var DefaultSignRef = common.Vec2{X: 1000, Y: 2000}

var (
	ErrEmptyMap          = errors.New("track: map has no waypoints")
	ErrTooFewWaypoints   = errors.New("track: map needs at least 2 waypoints")
	ErrDuplicateWaypoint = errors.New("track: duplicate consecutive waypoints")
	ErrNonMonotonicS     = errors.New("track: arc length must be strictly increasing")
	ErrNonFinite         = errors.New("track: waypoint values must be finite")
)

// Waypoint represents a point on the road centerline.
type Waypoint struct {
	ID       int
	Position common.Vec2 // World coordinates (x, y)
	Normal   common.Vec2 // Unit vector perpendicular to the road, pointing right. Zero if unknown.
	S        float64     // Cumulative arc length from waypoint 0
}

// Map is a closed loop of centerline waypoints with their cumulative arc
// lengths. It is immutable after construction and safe for concurrent reads.
type Map struct {
	Waypoints []Waypoint
	TotalLen  float64     // Arc length of the full loop, including the closing segment
	SignRef   common.Vec2 // Point off the course that fixes the sign of d
}

// Option configures a Map during construction.
type Option func(*Map)

// WithSignRef sets the reference point used to sign lateral offsets.
func WithSignRef(ref common.Vec2) Option {
	return func(m *Map) { m.SignRef = ref }
}

// NewMap builds a Map from centerline points, computing cumulative arc
// length from the first point.
func NewMap(points []common.Vec2, opts ...Option) (*Map, error) {
	if len(points) < 2 {
		return nil, ErrTooFewWaypoints
	}

	seg := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		seg[i] = points[i].DistanceTo(points[i-1])
	}
	s := floats.CumSum(make([]float64, len(points)), seg)

	waypoints := make([]Waypoint, len(points))
	for i, p := range points {
		waypoints[i] = Waypoint{ID: i, Position: p, S: s[i]}
	}
	return NewMapWithS(waypoints, opts...)
}

// NewMapWithS builds a Map from waypoints whose S values are already known,
// such as those read from a simulator map file. The slice is used as-is.
func NewMapWithS(waypoints []Waypoint, opts ...Option) (*Map, error) {
	if len(waypoints) == 0 {
		return nil, ErrEmptyMap
	}
	if len(waypoints) < 2 {
		return nil, ErrTooFewWaypoints
	}

	n := len(waypoints)
	for i, wp := range waypoints {
		if !isFinite(wp.Position.X) || !isFinite(wp.Position.Y) || !isFinite(wp.S) {
			return nil, fmt.Errorf("%w: index %d (%g, %g) s=%g", ErrNonFinite, i, wp.Position.X, wp.Position.Y, wp.S)
		}
	}
	for i := 0; i < n; i++ {
		next := (i + 1) % n
		if waypoints[i].Position == waypoints[next].Position {
			return nil, fmt.Errorf("%w: index %d and %d", ErrDuplicateWaypoint, i, next)
		}
		if next != 0 && !(waypoints[next].S > waypoints[i].S) {
			return nil, fmt.Errorf("%w: s[%d]=%g, s[%d]=%g", ErrNonMonotonicS, i, waypoints[i].S, next, waypoints[next].S)
		}
	}

	last := waypoints[n-1]
	m := &Map{
		Waypoints: waypoints,
		TotalLen:  last.S + last.Position.DistanceTo(waypoints[0].Position),
		SignRef:   DefaultSignRef,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Len returns the number of waypoints.
func (m *Map) Len() int {
	return len(m.Waypoints)
}

// At returns the waypoint at index i, wrapping around the loop.
func (m *Map) At(i int) Waypoint {
	n := len(m.Waypoints)
	return m.Waypoints[((i%n)+n)%n]
}

// WrapS normalizes s into [0, TotalLen).
func (m *Map) WrapS(s float64) float64 {
	if m.TotalLen <= 0 {
		return s
	}
	s = math.Mod(s, m.TotalLen)
	if s < 0 {
		s += m.TotalLen
	}
	return s
}
