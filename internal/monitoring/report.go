package monitoring

import (
	"math"
	"strconv"

	"highway-path-planner/internal/safety"
	"highway-path-planner/internal/units"
)

// LogLaneInfo writes a lane summary, with the speed in mph.
func LogLaneInfo(lane int, info safety.LaneInfo) {
	Logf("lane %d: speed=%.1fmph cars=%d", lane, units.ConvertSpeed(info.AvgSpeed, units.MPH), info.Count)
}

// LogLaneChoice writes the outcome of comparing two candidate lanes.
func LogLaneChoice(left, right safety.LaneInfo) {
	pick := "right"
	if safety.CompareLanes(left, right) {
		pick = "left"
	}
	Logf("lane score=%.2f pick=%s", safety.LaneScore(left, right), pick)
}

// LogSafetyReport writes one line per obstacle check followed by the verdict.
func LogSafetyReport(lane int, r safety.Report) {
	for _, c := range r.Checks {
		verdict := "safe"
		switch {
		case c.InMargin:
			verdict = "inside margin"
		case c.Dangerous:
			verdict = "dangerous"
		}
		Logf("lane %d car %d: rel_pos=%.1fm rel_speed=%.1fm/s ttc=%s %s",
			lane, c.ID, c.Distance, c.RelativeSpeed, formatTTC(c.TTC), verdict)
	}
	if closest, ok := r.Closest(); ok {
		Logf("lane %d closest car %d at %.1fm (margin %.1fm)", lane, closest.ID, closest.Distance, r.Margin)
	}
	Logf("lane %d safety check done: safe=%t", lane, r.Safe)
}

func formatTTC(ttc float64) string {
	if math.IsInf(ttc, 0) {
		return "inf"
	}
	return strconv.FormatFloat(ttc, 'f', 2, 64) + "s"
}
