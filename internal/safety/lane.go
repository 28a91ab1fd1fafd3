package safety

import (
	"highway-path-planner/internal/physics"

	"gonum.org/v1/gonum/stat"
)

// LaneInfo summarizes the traffic observed in one lane.
type LaneInfo struct {
	AvgSpeed float64 // m/s
	Count    int
}

// LaneSummary returns the mean speed and number of obstacles in a lane. An
// empty lane reports the free-flow speed.
func LaneSummary(obstacles []physics.Obstacle, p Params) LaneInfo {
	if len(obstacles) == 0 {
		return LaneInfo{AvgSpeed: p.FreeFlowSpeed}
	}

	speeds := make([]float64, len(obstacles))
	for i, o := range obstacles {
		speeds[i] = o.Speed()
	}
	return LaneInfo{
		AvgSpeed: stat.Mean(speeds, nil),
		Count:    len(obstacles),
	}
}

// LaneScore is the cost function behind CompareLanes: positive favours left.
func LaneScore(left, right LaneInfo) float64 {
	return (left.AvgSpeed - right.AvgSpeed) + float64(right.Count-left.Count)
}

// CompareLanes reports whether the left lane is preferred over the right.
// Faster and emptier wins, ties go left. The score says nothing about gaps,
// so callers must still check SafeToChangeLane.
func CompareLanes(left, right LaneInfo) bool {
	return LaneScore(left, right) >= 0
}
