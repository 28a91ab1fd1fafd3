package track

import (
	"math"

	"highway-path-planner/internal/common"
)

// GenerateLoop builds an elliptical loop map around center, traversed
// counter-clockwise with n waypoints. The center is used as SignRef, so
// offsets towards the outside of the loop are positive.
func GenerateLoop(center common.Vec2, radiusX, radiusY float64, n int) (*Map, error) {
	if n < 2 {
		return nil, ErrTooFewWaypoints
	}

	points := make([]common.Vec2, n)
	for i := range points {
		angle := 2 * math.Pi * float64(i) / float64(n)
		points[i] = common.Vec2{
			X: center.X + radiusX*math.Cos(angle),
			Y: center.Y + radiusY*math.Sin(angle),
		}
	}

	m, err := NewMap(points, WithSignRef(center))
	if err != nil {
		return nil, err
	}

	// Normals from the neighbours, rotated to point right of travel
	for i := range m.Waypoints {
		prev := m.At(i - 1)
		next := m.At(i + 1)
		t := next.Position.Sub(prev.Position).Normalize()
		m.Waypoints[i].Normal = common.Vec2{X: t.Y, Y: -t.X}
	}
	return m, nil
}
