package track

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"highway-path-planner/internal/common"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMap = `# x y s dx dy
784.6001 1135.571 0 -0.02359831 -0.9997216
815.2679 1134.93 30.6744785308838 -0.01099479 -0.9999396

844.6398 1134.911 60.0463714599609 -0.002048373 -0.9999979
`

func TestReadMap(t *testing.T) {
	t.Parallel()

	m, err := ReadMap(strings.NewReader(sampleMap))
	require.NoError(t, err)
	require.Equal(t, 3, m.Len())

	want := Waypoint{
		ID:       1,
		Position: common.Vec2{X: 815.2679, Y: 1134.93},
		Normal:   common.Vec2{X: -0.01099479, Y: -0.9999396},
		S:        30.6744785308838,
	}
	if diff := cmp.Diff(want, m.Waypoints[1]); diff != "" {
		t.Errorf("waypoint mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, DefaultSignRef, m.SignRef)
}

func TestReadMapThreeColumns(t *testing.T) {
	t.Parallel()

	m, err := ReadMap(strings.NewReader("0 0 0\n10 0 10\n10 10 20\n"), WithSignRef(common.Vec2{X: 5, Y: 5}))
	require.NoError(t, err)
	assert.Equal(t, common.Vec2{}, m.Waypoints[2].Normal)
	assert.Equal(t, common.Vec2{X: 5, Y: 5}, m.SignRef)
}

func TestReadMapErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"wrong field count", "1 2 3 4\n", "line 1: expected 3 or 5 fields"},
		{"bad number", "0 0 0\n1 x 1\n", "line 2: field 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadMap(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := ReadMap(strings.NewReader("# nothing here\n"))
	assert.ErrorIs(t, err, ErrEmptyMap)
}

func TestReadMapRejectsNonFinite(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"NaN s", "0 0 0\n10 0 NaN\n20 0 20\n"},
		{"Inf s", "0 0 0\n10 0 +Inf\n20 0 20\n"},
		{"NaN x", "0 0 0\nNaN 0 10\n20 0 20\n"},
		{"Inf y", "0 0 0\n10 -Inf 10\n20 0 20\n"},
		{"NaN sign_ref", "# sign_ref NaN 0\n0 0 0\n10 0 10\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadMap(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, ErrNonFinite)
		})
	}
}

func TestReadMapSignRefLine(t *testing.T) {
	t.Parallel()

	input := "# sign_ref 5 -7\n0 0 0\n10 0 10\n10 10 20\n"

	m, err := ReadMap(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, common.Vec2{X: 5, Y: -7}, m.SignRef)

	// The file's own point wins over the caller's
	m, err = ReadMap(strings.NewReader(input), WithSignRef(DefaultSignRef))
	require.NoError(t, err)
	assert.Equal(t, common.Vec2{X: 5, Y: -7}, m.SignRef)

	_, err = ReadMap(strings.NewReader("# sign_ref 5\n0 0 0\n10 0 10\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1: sign_ref")
}

func TestWriteMapReadBack(t *testing.T) {
	t.Parallel()

	m, err := GenerateLoop(common.Vec2{X: 100, Y: 100}, 50, 30, 16)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteMap(&buf, m))

	assert.True(t, strings.HasPrefix(buf.String(), "# sign_ref 100 100\n"))

	got, err := ReadMap(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(m, got); diff != "" {
		t.Errorf("map mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMapCSV(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "highway_map.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleMap), 0644))

	m, err := LoadMapCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Len())

	_, err = LoadMapCSV(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("0 0 0\n0 0 1\n"), 0644))
	_, err = LoadMapCSV(bad)
	assert.ErrorIs(t, err, ErrDuplicateWaypoint)
	assert.Contains(t, err.Error(), "bad.csv")
}
