package track

import (
	"math"
	"sort"

	"highway-path-planner/internal/common"
)

// Frenet is a road-relative coordinate.
// S: distance along the centerline from waypoint 0
// D: signed lateral offset, negative on the side of the map's SignRef
type Frenet struct {
	S, D float64
}

// ClosestWaypoint returns the index of the waypoint closest to pos.
// Ties go to the lowest index.
// TODO: the scan is linear in the number of waypoints; a spatial index would help for large maps.
func (m *Map) ClosestWaypoint(pos common.Vec2) (int, error) {
	if m == nil || len(m.Waypoints) == 0 {
		return -1, ErrEmptyMap
	}

	minDistSq := math.MaxFloat64
	closestIdx := 0
	for i, wp := range m.Waypoints {
		distSq := pos.Sub(wp.Position).LenSq()
		if distSq < minDistSq {
			minDistSq = distSq
			closestIdx = i
		}
	}
	return closestIdx, nil
}

// NextWaypoint returns the index of the next waypoint ahead of a vehicle at
// pos travelling along theta. If the closest waypoint is more than 90 degrees
// off the heading it is behind us, so the one after it is returned.
func (m *Map) NextWaypoint(pos common.Vec2, theta float64) (int, error) {
	closest, err := m.ClosestWaypoint(pos)
	if err != nil {
		return -1, err
	}

	heading := m.Waypoints[closest].Position.Sub(pos).Heading()
	if common.AngleDiff(theta, heading) > math.Pi/2 {
		closest++
		if closest == len(m.Waypoints) {
			closest = 0
		}
	}
	return closest, nil
}

// ToFrenet converts world coordinates to Frenet (s, d).
func (m *Map) ToFrenet(pos common.Vec2, theta float64) (Frenet, error) {
	next, err := m.NextWaypoint(pos, theta)
	if err != nil {
		return Frenet{}, err
	}
	prev := next - 1
	if next == 0 {
		prev = len(m.Waypoints) - 1
	}

	origin := m.Waypoints[prev].Position
	n := m.Waypoints[next].Position.Sub(origin)
	x := pos.Sub(origin)

	// Projection of x onto the segment n
	proj := n.Scale(x.Dot(n) / n.LenSq())
	d := x.DistanceTo(proj)

	// The sign comes from which side of the segment the reference point is on,
	// expressed in the same frame as x.
	center := m.SignRef.Sub(origin)
	if center.DistanceTo(x) <= center.DistanceTo(proj) {
		d = -d
	}

	s := m.Waypoints[prev].S + proj.Len()
	return Frenet{S: s, D: d}, nil
}

// segmentFor returns the index of the waypoint starting the segment that
// contains s: the last waypoint with S strictly below s. A value exactly on a
// waypoint therefore resolves to the segment ending there. Values at or
// before the first waypoint clamp to segment 0.
func (m *Map) segmentFor(s float64) int {
	i := sort.Search(len(m.Waypoints), func(i int) bool {
		return m.Waypoints[i].S >= s
	})
	if i == 0 {
		return 0
	}
	return i - 1
}

// ToCartesian converts Frenet (s, d) to world coordinates. s beyond the last
// waypoint continues along the closing segment back to waypoint 0.
func (m *Map) ToCartesian(f Frenet) common.Vec2 {
	prev := m.segmentFor(f.S)
	wp2 := (prev + 1) % len(m.Waypoints)

	start := m.Waypoints[prev]
	heading := m.Waypoints[wp2].Position.Sub(start.Position).Heading()

	// The x,y along the segment
	seg := start.Position.Add(common.FromHeading(heading).Scale(f.S - start.S))

	perp := heading - math.Pi/2
	return seg.Add(common.FromHeading(perp).Scale(f.D))
}

// Lane returns the lane index for a lateral offset, lane 0 being the one
// adjacent to the centerline on the positive side.
func Lane(d, laneWidth float64) int {
	return int(math.Floor(d / laneWidth))
}

// LaneCenter returns the d value of the middle of a lane.
func LaneCenter(lane int, laneWidth float64) float64 {
	return laneWidth/2 + laneWidth*float64(lane)
}
