package track

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"highway-path-planner/internal/common"
)

// LoadMapCSV loads a waypoint file in the simulator's highway_map.csv format:
// one waypoint per line as whitespace separated "x y s dx dy".
func LoadMapCSV(path string, opts ...Option) (*Map, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	m, err := ReadMap(file, opts...)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return m, nil
}

// signRefPrefix marks the comment line WriteMap uses to store the map's
// sign reference point.
const signRefPrefix = "# sign_ref "

// ReadMap parses waypoints from r. Blank lines and lines starting with '#'
// are skipped, except a "# sign_ref x y" line: the point it names describes
// the file's own geometry and takes precedence over WithSignRef.
func ReadMap(r io.Reader, opts ...Option) (*Map, error) {
	var waypoints []Waypoint
	var signRef *common.Vec2

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, signRefPrefix) {
			ref, err := parseSignRef(strings.TrimPrefix(line, signRefPrefix))
			if err != nil {
				return nil, fmt.Errorf("line %d: sign_ref: %w", lineNo, err)
			}
			signRef = &ref
			continue
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 3 && len(fields) != 5 {
			return nil, fmt.Errorf("line %d: expected 3 or 5 fields, got %d", lineNo, len(fields))
		}

		vals := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: field %d: %w", lineNo, i+1, err)
			}
			vals[i] = v
		}

		wp := Waypoint{
			ID:       len(waypoints),
			Position: common.Vec2{X: vals[0], Y: vals[1]},
			S:        vals[2],
		}
		if len(vals) == 5 {
			wp.Normal = common.Vec2{X: vals[3], Y: vals[4]}
		}
		waypoints = append(waypoints, wp)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if signRef != nil {
		opts = append(opts[:len(opts):len(opts)], WithSignRef(*signRef))
	}
	return NewMapWithS(waypoints, opts...)
}

func parseSignRef(s string) (common.Vec2, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return common.Vec2{}, fmt.Errorf("expected 2 fields, got %d", len(fields))
	}
	x, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return common.Vec2{}, err
	}
	y, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return common.Vec2{}, err
	}
	if !isFinite(x) || !isFinite(y) {
		return common.Vec2{}, ErrNonFinite
	}
	return common.Vec2{X: x, Y: y}, nil
}

// WriteMap writes m in the same format ReadMap accepts, starting with a
// sign_ref line so the sign of d survives the round trip.
func WriteMap(w io.Writer, m *Map) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%s%s %s\n", signRefPrefix, formatFloat(m.SignRef.X), formatFloat(m.SignRef.Y)); err != nil {
		return err
	}
	for _, wp := range m.Waypoints {
		if _, err := fmt.Fprintf(bw, "%s %s %s %s %s\n",
			formatFloat(wp.Position.X), formatFloat(wp.Position.Y), formatFloat(wp.S),
			formatFloat(wp.Normal.X), formatFloat(wp.Normal.Y)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
