package physics

import (
	"math/rand"

	"highway-path-planner/internal/track"
)

// FollowGap is the distance at which traffic cars slow to the car ahead.
const FollowGap = 30.0 // m

// TrafficCar is a simulated vehicle that keeps its lane at constant speed,
// slowing down only for the car in front of it.
type TrafficCar struct {
	ID           int
	Frenet       track.Frenet
	Speed        float64
	DesiredSpeed float64
}

// Traffic moves a set of cars along a map.
type Traffic struct {
	Map       *track.Map
	LaneWidth float64
	Cars      []TrafficCar
}

// NewTraffic creates a traffic simulation on m.
func NewTraffic(m *track.Map, laneWidth float64, cars []TrafficCar) *Traffic {
	return &Traffic{Map: m, LaneWidth: laneWidth, Cars: cars}
}

// RandomTraffic spawns n cars spread over lanes with speeds in
// [minSpeed, maxSpeed).
func RandomTraffic(m *track.Map, laneWidth float64, lanes, n int, minSpeed, maxSpeed float64, rng *rand.Rand) *Traffic {
	cars := make([]TrafficCar, n)
	for i := range cars {
		speed := minSpeed + rng.Float64()*(maxSpeed-minSpeed)
		cars[i] = TrafficCar{
			ID: i,
			Frenet: track.Frenet{
				S: rng.Float64() * m.TotalLen,
				D: track.LaneCenter(rng.Intn(lanes), laneWidth),
			},
			Speed:        speed,
			DesiredSpeed: speed,
		}
	}
	return NewTraffic(m, laneWidth, cars)
}

// Step advances all cars by dt seconds.
func (t *Traffic) Step(dt float64) {
	for i := range t.Cars {
		car := &t.Cars[i]
		car.Speed = car.DesiredSpeed
		if lead, gap, ok := t.leadOf(i); ok && gap < FollowGap && lead.Speed < car.Speed {
			car.Speed = lead.Speed
		}
	}
	for i := range t.Cars {
		car := &t.Cars[i]
		car.Frenet.S = t.Map.WrapS(car.Frenet.S + car.Speed*dt)
	}
}

// leadOf returns the nearest car ahead of car i in the same lane.
func (t *Traffic) leadOf(i int) (TrafficCar, float64, bool) {
	car := t.Cars[i]
	lane := track.Lane(car.Frenet.D, t.LaneWidth)

	var lead TrafficCar
	best := t.Map.TotalLen
	found := false
	for j, other := range t.Cars {
		if j == i || track.Lane(other.Frenet.D, t.LaneWidth) != lane {
			continue
		}
		gap := t.Map.WrapS(other.Frenet.S - car.Frenet.S)
		if gap > 0 && gap < best {
			best, lead, found = gap, other, true
		}
	}
	return lead, best, found
}

// Obstacles reports the cars as sensor fusion records in world coordinates.
func (t *Traffic) Obstacles() []Obstacle {
	obstacles := make([]Obstacle, len(t.Cars))
	for i, car := range t.Cars {
		pos := t.Map.ToCartesian(car.Frenet)
		ahead := t.Map.ToCartesian(track.Frenet{S: car.Frenet.S + 1, D: car.Frenet.D})
		obstacles[i] = Obstacle{
			ID:       car.ID,
			Position: pos,
			Velocity: ahead.Sub(pos).Normalize().Scale(car.Speed),
		}
	}
	return obstacles
}
