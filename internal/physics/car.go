package physics

import (
	"math"

	"highway-path-planner/internal/common"
	"highway-path-planner/internal/track"
)

const (
	MaxAcceleration = 5.0 // m/s^2
	MaxBraking      = 8.0 // m/s^2
	LateralSpeed    = 2.0 // m/s of lateral (d) movement during a lane change
	CarLength       = 4.0 // m
	CarWidth        = 2.0 // m
)

// Car is the ego vehicle. It drives along the map in Frenet space and keeps
// its world pose in sync.
type Car struct {
	Position common.Vec2
	Heading  float64 // Radians
	Speed    float64 // m/s
	Frenet   track.Frenet

	// Dimensions (in meters)
	Width  float64
	Length float64
}

// NewCar places a car on the map at f.
func NewCar(m *track.Map, f track.Frenet, speed float64) *Car {
	c := &Car{
		Frenet: f,
		Speed:  speed,
		Width:  CarWidth,
		Length: CarLength,
	}
	c.Position = m.ToCartesian(f)
	ahead := m.ToCartesian(track.Frenet{S: f.S + 1, D: f.D})
	c.Heading = ahead.Sub(c.Position).Heading()
	return c
}

// Update advances the car by dt seconds towards a target lateral offset and
// speed. Acceleration and lateral movement are rate limited.
func (c *Car) Update(m *track.Map, targetD, targetSpeed, dt float64) {
	// 1. Speed
	dv := targetSpeed - c.Speed
	dv = math.Max(-MaxBraking*dt, math.Min(MaxAcceleration*dt, dv))
	c.Speed = math.Max(0, c.Speed+dv)

	// 2. Lateral
	dd := targetD - c.Frenet.D
	maxDD := LateralSpeed * dt
	dd = math.Max(-maxDD, math.Min(maxDD, dd))

	// 3. Integrate in Frenet space, then map back to world
	c.Frenet.S = m.WrapS(c.Frenet.S + c.Speed*dt)
	c.Frenet.D += dd

	newPos := m.ToCartesian(c.Frenet)
	if move := newPos.Sub(c.Position); move.LenSq() > 1e-12 {
		c.Heading = move.Heading()
	}
	c.Position = newPos
}

// Lane returns the lane the car is currently in.
func (c *Car) Lane(laneWidth float64) int {
	return track.Lane(c.Frenet.D, laneWidth)
}
