package track

import (
	"math"
	"testing"

	"highway-path-planner/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMap(t *testing.T) {
	t.Parallel()
	m := squareMap(t)

	require.Equal(t, 4, m.Len())
	for i, want := range []float64{0, 10, 20, 30} {
		assert.Equal(t, i, m.Waypoints[i].ID)
		assert.InDelta(t, want, m.Waypoints[i].S, tol, "s[%d]", i)
	}
	assert.InDelta(t, 40.0, m.TotalLen, tol)
	assert.Equal(t, DefaultSignRef, m.SignRef)
}

func TestNewMapErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		points []common.Vec2
		want   error
	}{
		{"no points", nil, ErrTooFewWaypoints},
		{"single point", []common.Vec2{{X: 1, Y: 1}}, ErrTooFewWaypoints},
		{"duplicate consecutive", []common.Vec2{{X: 0}, {X: 1}, {X: 1}, {X: 2}}, ErrDuplicateWaypoint},
		{"duplicate across the wrap", []common.Vec2{{X: 0}, {X: 1}, {X: 0}}, ErrDuplicateWaypoint},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMap(tt.points)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewMapWithSErrors(t *testing.T) {
	t.Parallel()

	_, err := NewMapWithS(nil)
	assert.ErrorIs(t, err, ErrEmptyMap)

	_, err = NewMapWithS([]Waypoint{
		{Position: common.Vec2{X: 0}, S: 0},
		{Position: common.Vec2{X: 10}, S: 10},
		{Position: common.Vec2{X: 20}, S: 10},
	})
	assert.ErrorIs(t, err, ErrNonMonotonicS)

	_, err = NewMapWithS([]Waypoint{
		{Position: common.Vec2{X: 0}, S: 0},
		{Position: common.Vec2{X: 10}, S: math.NaN()},
		{Position: common.Vec2{X: 20}, S: 20},
	})
	assert.ErrorIs(t, err, ErrNonFinite)

	_, err = NewMap([]common.Vec2{{X: 0}, {X: math.Inf(1)}, {X: 20}})
	assert.ErrorIs(t, err, ErrNonFinite)
}

func TestMapAtAndWrapS(t *testing.T) {
	t.Parallel()
	m := squareMap(t)

	assert.Equal(t, 3, m.At(-1).ID)
	assert.Equal(t, 0, m.At(4).ID)
	assert.Equal(t, 1, m.At(9).ID)

	assert.InDelta(t, 5.0, m.WrapS(45), tol)
	assert.InDelta(t, 35.0, m.WrapS(-5), tol)
	assert.InDelta(t, 0.0, m.WrapS(40), tol)
	assert.InDelta(t, 12.0, m.WrapS(12), tol)
}

func TestGenerateLoop(t *testing.T) {
	t.Parallel()
	center := common.Vec2{X: 500, Y: 300}
	m, err := GenerateLoop(center, 200, 100, 120)
	require.NoError(t, err)

	require.Equal(t, 120, m.Len())
	assert.Equal(t, center, m.SignRef)
	assert.Greater(t, m.TotalLen, 2*math.Pi*100)
	assert.Less(t, m.TotalLen, 2*math.Pi*200)

	for _, wp := range m.Waypoints {
		assert.InDelta(t, 1.0, wp.Normal.Len(), tol)
		// Right of counter-clockwise travel is the outside of the loop.
		outward := wp.Position.Sub(center)
		assert.Greater(t, outward.Dot(wp.Normal), 0.0)
	}

	_, err = GenerateLoop(center, 10, 10, 1)
	assert.ErrorIs(t, err, ErrTooFewWaypoints)
}
