package physics

import (
	"math"

	"highway-path-planner/internal/common"
	"highway-path-planner/internal/track"
)

// Obstacle is another vehicle as reported by sensor fusion.
type Obstacle struct {
	ID       int
	Position common.Vec2 // m
	Velocity common.Vec2 // m/s
}

// Speed returns the scalar speed.
func (o Obstacle) Speed() float64 {
	return o.Velocity.Len()
}

// Heading returns the direction of travel in [-Pi, Pi], derived from the
// velocity. Below minSpeed the direction is meaningless and 0 is returned.
func (o Obstacle) Heading(minSpeed float64) float64 {
	v := o.Speed()
	if v == 0 || v < minSpeed {
		return 0
	}
	c := math.Max(-1, math.Min(1, o.Velocity.X/v))
	if o.Velocity.Y >= 0 {
		return math.Acos(c)
	}
	return -math.Acos(c)
}

// Frenet places the obstacle on the map, using its velocity heading to pick
// the segment ahead of it.
func (o Obstacle) Frenet(m *track.Map, minSpeed float64) (track.Frenet, error) {
	return m.ToFrenet(o.Position, o.Heading(minSpeed))
}
