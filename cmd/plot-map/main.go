package main

import (
	"errors"
	"flag"
	"image/color"
	"log"

	"highway-path-planner/internal/common"
	"highway-path-planner/internal/config"
	"highway-path-planner/internal/track"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

func main() {
	mapPath := flag.String("map", "", "waypoint file; a loop is generated if empty")
	configPath := flag.String("config", config.DefaultConfigPath, "planner config JSON; built-in defaults if empty")
	out := flag.String("out", "map.png", "output image (.png, .svg or .pdf)")
	step := flag.Float64("step", 5, "sample spacing along s (m)")
	flag.Parse()

	if !(*step > 0) {
		log.Fatalf("-step must be positive, got %g", *step)
	}

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	var m *track.Map
	if *mapPath != "" {
		m, err = track.LoadMapCSV(*mapPath, track.WithSignRef(cfg.GetSignRef()))
	} else {
		m, err = track.GenerateLoop(common.Vec2{}, 300, 180, 181)
	}
	if err != nil {
		log.Fatal(err)
	}

	p, err := Plot(m, cfg.GetLaneWidth(), cfg.GetLaneCount(), *step)
	if err != nil {
		log.Fatal(err)
	}
	if err := p.Save(10*vg.Inch, 8*vg.Inch, *out); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s", *out)
}

var errInvalidStep = errors.New("sample step must be positive")

// Plot draws the waypoints, the sign reference point and one line per lane
// boundary, each reconstructed through ToCartesian.
func Plot(m *track.Map, laneWidth float64, lanes int, step float64) (*plot.Plot, error) {
	if !(step > 0) {
		return nil, errInvalidStep
	}

	p := plot.New()
	p.Title.Text = "Waypoint map"
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"

	for k := 0; k <= lanes; k++ {
		line, err := plotter.NewLine(offsetLine(m, laneWidth*float64(k), step))
		if err != nil {
			return nil, err
		}
		line.LineStyle.Width = vg.Points(1)
		if k == 0 {
			line.LineStyle.Color = color.RGBA{R: 220, G: 170, A: 255}
		} else {
			line.LineStyle.Color = color.RGBA{R: 90, G: 90, B: 90, A: 255}
			line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		}
		p.Add(line)
	}

	waypoints := make(plotter.XYs, m.Len())
	for i, wp := range m.Waypoints {
		waypoints[i] = plotter.XY{X: wp.Position.X, Y: wp.Position.Y}
	}
	scatter, err := plotter.NewScatter(waypoints)
	if err != nil {
		return nil, err
	}
	scatter.GlyphStyle.Color = color.RGBA{B: 200, A: 255}
	scatter.GlyphStyle.Radius = vg.Points(1.5)
	p.Add(scatter)
	p.Legend.Add("waypoints", scatter)

	ref, err := plotter.NewScatter(plotter.XYs{{X: m.SignRef.X, Y: m.SignRef.Y}})
	if err != nil {
		return nil, err
	}
	ref.GlyphStyle.Color = color.RGBA{R: 200, A: 255}
	ref.GlyphStyle.Radius = vg.Points(4)
	p.Add(ref)
	p.Legend.Add("sign reference", ref)

	return p, nil
}

// offsetLine samples the loop at lateral offset d every step meters.
func offsetLine(m *track.Map, d, step float64) plotter.XYs {
	var pts plotter.XYs
	for s := 0.0; s <= m.TotalLen; s += step {
		pos := m.ToCartesian(track.Frenet{S: s, D: d})
		pts = append(pts, plotter.XY{X: pos.X, Y: pos.Y})
	}
	return pts
}
