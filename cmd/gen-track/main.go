package main

import (
	"flag"
	"log"
	"os"

	"highway-path-planner/internal/common"
	"highway-path-planner/internal/track"
)

func main() {
	out := flag.String("out", "loop_map.csv", "output waypoint file")
	centerX := flag.Float64("cx", 0, "loop center x (m)")
	centerY := flag.Float64("cy", 0, "loop center y (m)")
	radiusX := flag.Float64("rx", 300, "loop radius along x (m)")
	radiusY := flag.Float64("ry", 180, "loop radius along y (m)")
	n := flag.Int("n", 181, "number of waypoints")
	flag.Parse()

	// A simple oval, traversed counter-clockwise
	m, err := track.GenerateLoop(common.Vec2{X: *centerX, Y: *centerY}, *radiusX, *radiusY, *n)
	if err != nil {
		log.Fatal(err)
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	if err := track.WriteMap(f, m); err != nil {
		log.Fatal(err)
	}
	// The sign_ref line WriteMap emits keeps lane numbering right when the
	// file is loaded with a different configured reference.
	log.Printf("wrote %d waypoints (%.1fm loop, sign ref %g,%g) to %s",
		m.Len(), m.TotalLen, m.SignRef.X, m.SignRef.Y, *out)
}
