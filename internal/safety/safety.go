package safety

import (
	"math"

	"highway-path-planner/internal/physics"
	"highway-path-planner/internal/track"
)

// Params holds the constants of the lane change check.
type Params struct {
	VehicleLength  float64 // m
	Buffer         float64 // m, added to the vehicle length for the minimum gap
	ReferenceSpeed float64 // m/s, speed at which the gap is smallest
	FreeFlowSpeed  float64 // m/s, assumed speed of an empty lane
	Horizon        float64 // s, time to collision below this is dangerous
	MinSpeed       float64 // m/s, below this an obstacle has no usable heading
}

// DefaultParams returns the tuning used on the simulator highway.
func DefaultParams() Params {
	return Params{
		VehicleLength:  4.0,
		Buffer:         5.0,
		ReferenceSpeed: 22.3,
		FreeFlowSpeed:  25.0,
		Horizon:        3.0,
		MinSpeed:       1e-6,
	}
}

// ObstacleCheck is the per-obstacle outcome of SafeToChangeLane.
type ObstacleCheck struct {
	ID            int
	S             float64 // obstacle s on the map
	Distance      float64 // obstacle s - ego s
	RelativeSpeed float64 // ego speed - obstacle speed
	TTC           float64 // s, +Inf when not closing
	InMargin      bool
	Dangerous     bool
}

// Report is the result of a lane change safety check.
type Report struct {
	Safe   bool
	Margin float64
	Checks []ObstacleCheck
}

// Closest returns the check with the smallest absolute distance.
func (r Report) Closest() (ObstacleCheck, bool) {
	if len(r.Checks) == 0 {
		return ObstacleCheck{}, false
	}
	best := r.Checks[0]
	for _, c := range r.Checks[1:] {
		if math.Abs(c.Distance) < math.Abs(best.Distance) {
			best = c
		}
	}
	return best, true
}

// SafetyMargin is the minimum longitudinal gap at the given ego speed. It
// grows as the ego speed moves away from the reference speed.
func SafetyMargin(egoSpeed float64, p Params) float64 {
	return p.VehicleLength + p.Buffer + math.Abs(p.ReferenceSpeed-egoSpeed)
}

// TimeToCollision estimates when the gap to an obstacle closes, accounting
// for the length of whichever vehicle is in front. A zero relative speed
// never closes and yields +Inf.
func TimeToCollision(distance, relativeSpeed, vehicleLength float64) float64 {
	if math.Abs(relativeSpeed) < 1e-9 {
		return math.Inf(1)
	}
	if distance >= 0 {
		return (distance - vehicleLength) / relativeSpeed
	}
	return (distance + vehicleLength) / relativeSpeed
}

// SafeToChangeLane checks the obstacles of a target lane against the ego
// vehicle. An obstacle inside the safety margin ends the check immediately;
// otherwise every obstacle is checked and the lane is safe only if none would
// collide within the horizon.
func SafeToChangeLane(obstacles []physics.Obstacle, egoS, egoSpeed float64, m *track.Map, p Params) (Report, error) {
	report := Report{
		Safe:   true,
		Margin: SafetyMargin(egoSpeed, p),
		Checks: make([]ObstacleCheck, 0, len(obstacles)),
	}

	for _, o := range obstacles {
		f, err := o.Frenet(m, p.MinSpeed)
		if err != nil {
			return Report{}, err
		}

		check := ObstacleCheck{
			ID:            o.ID,
			S:             f.S,
			Distance:      f.S - egoS,
			RelativeSpeed: egoSpeed - o.Speed(),
			TTC:           math.Inf(1),
		}

		// Too close already
		if math.Abs(check.Distance) <= report.Margin {
			check.InMargin = true
			report.Checks = append(report.Checks, check)
			report.Safe = false
			return report, nil
		}

		check.TTC = TimeToCollision(check.Distance, check.RelativeSpeed, p.VehicleLength)
		if check.TTC >= 0 && check.TTC <= p.Horizon {
			check.Dangerous = true
			report.Safe = false
		}
		report.Checks = append(report.Checks, check)
	}

	return report, nil
}
