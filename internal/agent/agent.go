package agent

import (
	"fmt"
	"math"

	"highway-path-planner/internal/config"
	"highway-path-planner/internal/physics"
	"highway-path-planner/internal/safety"
	"highway-path-planner/internal/track"
)

// Actions
const (
	ActionKeepLane = iota
	ActionChangeLeft
	ActionChangeRight
	ActionCount
)

// ActionName returns a short label for an action.
func ActionName(action int) string {
	switch action {
	case ActionKeepLane:
		return "keep lane"
	case ActionChangeLeft:
		return "change left"
	case ActionChangeRight:
		return "change right"
	}
	return "unknown"
}

// State is the planner's view of the road for one tick.
type State struct {
	EgoS     float64
	EgoSpeed float64
	EgoLane  int

	// Lanes holds the obstacles in each lane, indexed by lane number.
	// Obstacles outside the configured lanes are dropped.
	Lanes [][]physics.Obstacle

	// Car ahead in the ego lane. LeadGap is +Inf when the lane is clear.
	LeadGap   float64
	LeadSpeed float64
}

// Decision is the agent's output for one tick.
type Decision struct {
	Action      int
	TargetLane  int
	TargetSpeed float64 // m/s

	// Diagnostics for the lanes that were considered
	LaneInfo   map[int]safety.LaneInfo
	Reports    map[int]safety.Report
	Comparison *LaneComparison // nil unless both adjacent lanes exist
}

// LaneComparison records how the two adjacent lanes were ranked.
type LaneComparison struct {
	Left, Right int
	LeftInfo    safety.LaneInfo
	RightInfo   safety.LaneInfo
	PickLeft    bool
}

// Agent picks a lane and target speed from the current State.
type Agent interface {
	SelectAction(state State) (Decision, error)
	DebugInfoStr() string
}

// BuildState sorts sensor fusion obstacles into lanes around the ego car.
func BuildState(car *physics.Car, obstacles []physics.Obstacle, m *track.Map, cfg *config.PlannerConfig) (State, error) {
	laneWidth := cfg.GetLaneWidth()
	minSpeed := cfg.SafetyParams().MinSpeed

	state := State{
		EgoS:     car.Frenet.S,
		EgoSpeed: car.Speed,
		EgoLane:  car.Lane(laneWidth),
		Lanes:    make([][]physics.Obstacle, cfg.GetLaneCount()),
		LeadGap:  math.Inf(1),
	}

	for _, o := range obstacles {
		f, err := o.Frenet(m, minSpeed)
		if err != nil {
			return State{}, err
		}
		lane := track.Lane(f.D, laneWidth)
		if lane < 0 || lane >= len(state.Lanes) {
			continue
		}
		state.Lanes[lane] = append(state.Lanes[lane], o)

		if lane != state.EgoLane {
			continue
		}
		// Only look half a loop ahead so cars just behind do not wrap around
		gap := m.WrapS(f.S - car.Frenet.S)
		if gap > 0 && gap < m.TotalLen/2 && gap < state.LeadGap {
			state.LeadGap = gap
			state.LeadSpeed = o.Speed()
		}
	}

	return state, nil
}

// RuleAgent keeps its lane until it is held up by a slower car, then moves to
// the better adjacent lane that passes the safety check.
type RuleAgent struct {
	Map    *track.Map
	Config *config.PlannerConfig

	decisions   int
	laneChanges int
}

// NewAgent returns a RuleAgent for the given map and tuning.
// A RuleAgent keeps counters and is not safe for concurrent use.
func NewAgent(m *track.Map, cfg *config.PlannerConfig) Agent {
	return &RuleAgent{Map: m, Config: cfg}
}

// SelectAction decides whether to keep the lane or change lanes.
func (a *RuleAgent) SelectAction(state State) (Decision, error) {
	a.decisions++

	limit := a.Config.GetSpeedLimit()
	decision := Decision{
		Action:      ActionKeepLane,
		TargetLane:  state.EgoLane,
		TargetSpeed: limit,
		LaneInfo:    make(map[int]safety.LaneInfo),
		Reports:     make(map[int]safety.Report),
	}

	if state.LeadGap >= a.Config.GetFollowDistance() {
		return decision, nil
	}

	// Held up: match the lead unless a lane change works out.
	decision.TargetSpeed = math.Min(limit, state.LeadSpeed)

	params := a.Config.SafetyParams()
	lanes, comparison := a.candidates(state, params)
	decision.Comparison = comparison
	for _, lane := range lanes {
		report, err := safety.SafeToChangeLane(state.Lanes[lane], state.EgoS, state.EgoSpeed, a.Map, params)
		if err != nil {
			return Decision{}, fmt.Errorf("lane %d: %w", lane, err)
		}
		decision.Reports[lane] = report
		if !report.Safe {
			continue
		}

		decision.TargetLane = lane
		decision.TargetSpeed = limit
		decision.Action = ActionChangeRight
		if lane < state.EgoLane {
			decision.Action = ActionChangeLeft
		}
		a.laneChanges++
		break
	}

	for lane := range decision.Reports {
		decision.LaneInfo[lane] = safety.LaneSummary(state.Lanes[lane], params)
	}
	return decision, nil
}

// candidates returns the adjacent lanes in the order they should be tried,
// along with the ranking when there was a choice to make.
func (a *RuleAgent) candidates(state State, params safety.Params) ([]int, *LaneComparison) {
	left, right := state.EgoLane-1, state.EgoLane+1
	hasLeft := left >= 0 && left < len(state.Lanes)
	hasRight := right >= 0 && right < len(state.Lanes)

	switch {
	case hasLeft && hasRight:
		c := &LaneComparison{
			Left:      left,
			Right:     right,
			LeftInfo:  safety.LaneSummary(state.Lanes[left], params),
			RightInfo: safety.LaneSummary(state.Lanes[right], params),
		}
		c.PickLeft = safety.CompareLanes(c.LeftInfo, c.RightInfo)
		if c.PickLeft {
			return []int{left, right}, c
		}
		return []int{right, left}, c
	case hasLeft:
		return []int{left}, nil
	case hasRight:
		return []int{right}, nil
	}
	return nil, nil
}

func (a *RuleAgent) DebugInfoStr() string {
	return fmt.Sprintf("Agent Type: Rules\nDecisions: %d\nLane changes: %d", a.decisions, a.laneChanges)
}
