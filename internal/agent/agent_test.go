package agent

import (
	"math"
	"testing"

	"highway-path-planner/internal/common"
	"highway-path-planner/internal/config"
	"highway-path-planner/internal/physics"
	"highway-path-planner/internal/safety"
	"highway-path-planner/internal/track"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func straightMap(t *testing.T) *track.Map {
	t.Helper()
	points := make([]common.Vec2, 101)
	for i := range points {
		points[i] = common.Vec2{X: float64(i) * 10}
	}
	m, err := track.NewMap(points)
	require.NoError(t, err)
	return m
}

// car returns an obstacle driving along +x at lateral offset d.
func car(id int, x, d, speed float64) physics.Obstacle {
	return physics.Obstacle{ID: id, Position: common.Vec2{X: x, Y: -d}, Velocity: common.Vec2{X: speed}}
}

func decide(t *testing.T, ego *physics.Car, obstacles []physics.Obstacle) (Decision, *RuleAgent) {
	t.Helper()
	m := straightMap(t)
	cfg := config.DefaultPlannerConfig()

	state, err := BuildState(ego, obstacles, m, cfg)
	require.NoError(t, err)

	a := NewAgent(m, cfg).(*RuleAgent)
	d, err := a.SelectAction(state)
	require.NoError(t, err)
	return d, a
}

func TestBuildState(t *testing.T) {
	t.Parallel()
	m := straightMap(t)
	ego := physics.NewCar(m, track.Frenet{S: 100, D: 6}, 20)

	state, err := BuildState(ego, []physics.Obstacle{
		car(1, 150, -2, 20), // off the road on the far side
		car(2, 90, 6, 25),   // behind in our lane
		car(3, 300, 10, 18),
		car(4, 140, 6, 12),
	}, m, config.DefaultPlannerConfig())
	require.NoError(t, err)

	assert.Equal(t, 1, state.EgoLane)
	assert.InDelta(t, 100.0, state.EgoS, 1e-9)
	assert.Equal(t, 20.0, state.EgoSpeed)
	require.Len(t, state.Lanes, 3)
	assert.Empty(t, state.Lanes[0])
	assert.Len(t, state.Lanes[1], 2)
	require.Len(t, state.Lanes[2], 1)
	assert.Equal(t, 3, state.Lanes[2][0].ID)
	assert.InDelta(t, 40.0, state.LeadGap, 1e-9)
	assert.Equal(t, 12.0, state.LeadSpeed)
}

func TestBuildStateClearLane(t *testing.T) {
	t.Parallel()
	m := straightMap(t)
	ego := physics.NewCar(m, track.Frenet{S: 100, D: 2}, 20)

	state, err := BuildState(ego, nil, m, config.DefaultPlannerConfig())
	require.NoError(t, err)
	assert.True(t, math.IsInf(state.LeadGap, 1))
}

func TestBuildStateEmptyMap(t *testing.T) {
	t.Parallel()
	m := straightMap(t)
	ego := physics.NewCar(m, track.Frenet{S: 100, D: 2}, 20)

	_, err := BuildState(ego, []physics.Obstacle{car(1, 120, 2, 10)}, &track.Map{}, config.DefaultPlannerConfig())
	assert.ErrorIs(t, err, track.ErrEmptyMap)
}

func TestSelectAction(t *testing.T) {
	t.Parallel()
	m := straightMap(t)

	t.Run("clear road keeps lane at the limit", func(t *testing.T) {
		d, _ := decide(t, physics.NewCar(m, track.Frenet{S: 100, D: 6}, 20), []physics.Obstacle{car(1, 150, 6, 15)})
		assert.Equal(t, ActionKeepLane, d.Action)
		assert.Equal(t, 1, d.TargetLane)
		assert.Equal(t, 22.0, d.TargetSpeed)
		assert.Empty(t, d.Reports)
		assert.Nil(t, d.Comparison)
	})

	t.Run("blocked with both sides free prefers left", func(t *testing.T) {
		d, a := decide(t, physics.NewCar(m, track.Frenet{S: 100, D: 6}, 20), []physics.Obstacle{car(1, 120, 6, 15)})
		assert.Equal(t, ActionChangeLeft, d.Action)
		assert.Equal(t, 0, d.TargetLane)
		assert.Equal(t, 22.0, d.TargetSpeed)
		require.Contains(t, d.Reports, 0)
		assert.True(t, d.Reports[0].Safe)
		assert.NotContains(t, d.Reports, 2)
		assert.Equal(t, safety.LaneInfo{AvgSpeed: 25, Count: 0}, d.LaneInfo[0])
		assert.Equal(t, &LaneComparison{
			Left:      0,
			Right:     2,
			LeftInfo:  safety.LaneInfo{AvgSpeed: 25},
			RightInfo: safety.LaneInfo{AvgSpeed: 25},
			PickLeft:  true,
		}, d.Comparison)
		assert.Equal(t, "Agent Type: Rules\nDecisions: 1\nLane changes: 1", a.DebugInfoStr())
	})

	t.Run("preferred lane unsafe falls back to the other", func(t *testing.T) {
		d, _ := decide(t, physics.NewCar(m, track.Frenet{S: 100, D: 6}, 20), []physics.Obstacle{
			car(1, 120, 6, 15),
			car(2, 105, 2, 40), // fast left lane, but right beside us
		})
		assert.Equal(t, ActionChangeRight, d.Action)
		assert.Equal(t, 2, d.TargetLane)
		require.Contains(t, d.Reports, 0)
		assert.False(t, d.Reports[0].Safe)
		assert.True(t, d.Reports[0].Checks[0].InMargin)
		assert.True(t, d.Reports[2].Safe)
		assert.Equal(t, 1, d.LaneInfo[0].Count)
		require.NotNil(t, d.Comparison)
		assert.True(t, d.Comparison.PickLeft)
		assert.Equal(t, 40.0, d.Comparison.LeftInfo.AvgSpeed)
	})

	t.Run("no safe lane follows the lead", func(t *testing.T) {
		d, a := decide(t, physics.NewCar(m, track.Frenet{S: 100, D: 2}, 20), []physics.Obstacle{
			car(1, 120, 2, 15),
			car(2, 102, 6, 20),
		})
		assert.Equal(t, ActionKeepLane, d.Action)
		assert.Equal(t, 0, d.TargetLane)
		assert.Equal(t, 15.0, d.TargetSpeed)
		require.Len(t, d.Reports, 1)
		assert.Nil(t, d.Comparison, "only one adjacent lane, nothing to rank")
		assert.False(t, d.Reports[1].Safe)
		assert.Equal(t, "Agent Type: Rules\nDecisions: 1\nLane changes: 0", a.DebugInfoStr())
	})
}

func TestActionName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "keep lane", ActionName(ActionKeepLane))
	assert.Equal(t, "change left", ActionName(ActionChangeLeft))
	assert.Equal(t, "change right", ActionName(ActionChangeRight))
	assert.Equal(t, "unknown", ActionName(ActionCount))
}
