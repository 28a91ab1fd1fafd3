package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"math"
	"math/rand"

	"highway-path-planner/internal/agent"
	"highway-path-planner/internal/common"
	"highway-path-planner/internal/config"
	"highway-path-planner/internal/monitoring"
	"highway-path-planner/internal/physics"
	"highway-path-planner/internal/track"
	"highway-path-planner/internal/units"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// ============================================================================
// CONFIGURATION - Adjust these values to customize the simulation
// ============================================================================

// Render window dimensions
const (
	WindowWidth  = 1200
	WindowHeight = 800
)

// Simulation settings
const (
	TickRate            = 60   // Simulation ticks per second of simulated time
	FastSpeedMultiplier = 20   // Ticks per frame in fast mode
	ViewScaleMargin     = 0.95 // Margin for fitting the map in the window
	LaneSampleStep      = 5.0  // m between samples when drawing lane lines
	LaneChangeTolerance = 0.3  // m from the target lane center before deciding again
)

// Default generated loop when no map file is given
const (
	LoopRadiusX   = 300.0
	LoopRadiusY   = 180.0
	LoopWaypoints = 181
)

var (
	ColorBackground = color.RGBA{20, 60, 20, 255}
	ColorRoad       = color.RGBA{80, 80, 80, 255}
	ColorLaneLine   = color.RGBA{230, 230, 230, 200}
	ColorCenterLine = color.RGBA{255, 200, 0, 255}
	ColorEgo        = color.RGBA{255, 0, 0, 255}
	ColorEgoHeading = color.RGBA{255, 255, 0, 255}
	ColorTraffic    = color.RGBA{60, 140, 255, 255}
	ColorDanger     = color.RGBA{255, 120, 0, 255}
)

// ============================================================================

type Game struct {
	Map     *track.Map
	Config  *config.PlannerConfig
	Traffic *physics.Traffic
	Car     *physics.Car
	Agent   agent.Agent
	Fast    bool
	Units   string // HUD speed units

	Decision    agent.Decision
	LaneTarget  int
	Ticks       int
	LaneChanges int
	Err         error

	// Rendering transform (world y up, screen y down)
	ViewScale float64
	MinX      float64
	MaxY      float64
	OffsetX   float64
	OffsetY   float64
}

func (g *Game) Update() error {
	if g.Err != nil {
		return g.Err
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Fast = !g.Fast
	}

	ticks := 1
	if g.Fast {
		ticks = FastSpeedMultiplier
	}
	for i := 0; i < ticks; i++ {
		if err := g.step(1.0 / TickRate); err != nil {
			g.Err = err
			return err
		}
	}
	return nil
}

func (g *Game) step(dt float64) error {
	g.Ticks++
	g.Traffic.Step(dt)

	laneWidth := g.Config.GetLaneWidth()
	targetD := track.LaneCenter(g.LaneTarget, laneWidth)

	// Only re-plan once the previous lane change has settled
	if math.Abs(g.Car.Frenet.D-targetD) < LaneChangeTolerance {
		state, err := agent.BuildState(g.Car, g.Traffic.Obstacles(), g.Map, g.Config)
		if err != nil {
			return err
		}
		decision, err := g.Agent.SelectAction(state)
		if err != nil {
			return err
		}
		if decision.Action != agent.ActionKeepLane {
			g.LaneChanges++
			if c := decision.Comparison; c != nil {
				monitoring.LogLaneChoice(c.LeftInfo, c.RightInfo)
			}
			for lane, info := range decision.LaneInfo {
				monitoring.LogLaneInfo(lane, info)
			}
			for lane, report := range decision.Reports {
				monitoring.LogSafetyReport(lane, report)
			}
			monitoring.Logf("tick %d: %s to lane %d", g.Ticks, agent.ActionName(decision.Action), decision.TargetLane)
		}
		g.Decision = decision
		g.LaneTarget = decision.TargetLane
		targetD = track.LaneCenter(g.LaneTarget, laneWidth)
	}

	g.Car.Update(g.Map, targetD, g.Decision.TargetSpeed, dt)
	return nil
}

// toScreen transforms world coordinates to screen coordinates.
func (g *Game) toScreen(p common.Vec2) (float32, float32) {
	return float32((p.X-g.MinX)*g.ViewScale + g.OffsetX), float32((g.MaxY-p.Y)*g.ViewScale + g.OffsetY)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(ColorBackground)

	laneWidth := g.Config.GetLaneWidth()
	lanes := g.Config.GetLaneCount()

	// Road surface, then lane lines on top
	roadWidth := float32(laneWidth * float64(lanes) * g.ViewScale)
	g.strokeOffset(screen, laneWidth*float64(lanes)/2, roadWidth, ColorRoad)
	for k := 0; k <= lanes; k++ {
		col := ColorLaneLine
		if k == 0 {
			col = ColorCenterLine
		}
		g.strokeOffset(screen, laneWidth*float64(k), 1, col)
	}

	// Traffic, highlighting cars that made the last check fail
	flagged := make(map[int]bool)
	for _, report := range g.Decision.Reports {
		for _, c := range report.Checks {
			if c.InMargin || c.Dangerous {
				flagged[c.ID] = true
			}
		}
	}
	minSpeed := g.Config.SafetyParams().MinSpeed
	for _, o := range g.Traffic.Obstacles() {
		col := ColorTraffic
		if flagged[o.ID] {
			col = ColorDanger
		}
		g.drawCar(screen, o.Position, o.Heading(minSpeed), physics.CarLength, physics.CarWidth, col)
	}

	// Ego car and heading
	g.drawCar(screen, g.Car.Position, g.Car.Heading, g.Car.Length, g.Car.Width, ColorEgo)
	headX, headY := g.toScreen(g.Car.Position)
	tipX, tipY := g.toScreen(g.Car.Position.Add(common.FromHeading(g.Car.Heading).Scale(g.Car.Length/2 + 5)))
	vector.StrokeLine(screen, headX, headY, tipX, tipY, 2, ColorEgoHeading, true)

	// HUD
	vector.FillRect(screen, 0, 0, 200, 185, color.RGBA{0, 0, 0, 180}, true)

	msg := "STATUS MONITOR\n"
	msg += "----------------\n"
	msg += fmt.Sprintf("Speed:  %.1f %s\n", units.ConvertSpeed(g.Car.Speed, g.Units), g.Units)
	msg += fmt.Sprintf("Head:   %.0f deg\n", common.Rad2Deg(g.Car.Heading))
	msg += fmt.Sprintf("s:      %.1f m\n", g.Car.Frenet.S)
	msg += fmt.Sprintf("d:      %.2f m\n", g.Car.Frenet.D)
	msg += fmt.Sprintf("Lane:   %d -> %d\n", g.Car.Lane(laneWidth), g.LaneTarget)
	msg += fmt.Sprintf("Action: %s\n", agent.ActionName(g.Decision.Action))
	msg += fmt.Sprintf("Changes: %d\n", g.LaneChanges)
	if g.Fast {
		msg += "[Fast]"
	} else {
		msg += "[Real-time]"
	}
	msg += "\nS = Toggle Fast Mode"
	ebitenutil.DebugPrint(screen, msg)

	panelW := 180.0
	targetX := float32(WindowWidth) - float32(panelW) - 10
	vector.FillRect(screen, targetX, 0, float32(panelW), 70, color.RGBA{0, 0, 0, 180}, true)
	ebitenutil.DebugPrintAt(screen, "AGENT\n-----\n"+g.Agent.DebugInfoStr(), int(targetX)+10, 5)
}

// strokeOffset draws the line at lateral offset d along the whole loop.
func (g *Game) strokeOffset(screen *ebiten.Image, d float64, width float32, col color.Color) {
	prev := g.Map.ToCartesian(track.Frenet{S: 0, D: d})
	for s := LaneSampleStep; s <= g.Map.TotalLen; s += LaneSampleStep {
		curr := g.Map.ToCartesian(track.Frenet{S: s, D: d})
		x0, y0 := g.toScreen(prev)
		x1, y1 := g.toScreen(curr)
		vector.StrokeLine(screen, x0, y0, x1, y1, width, col, true)
		prev = curr
	}
}

// drawCar draws a rotated rectangle centered on pos.
func (g *Game) drawCar(screen *ebiten.Image, pos common.Vec2, heading, length, width float64, col color.RGBA) {
	cosH := math.Cos(heading)
	sinH := math.Sin(heading)
	halfW := width / 2
	halfL := length / 2

	corners := [4][2]float64{
		{halfL, halfW},
		{halfL, -halfW},
		{-halfL, -halfW},
		{-halfL, halfW},
	}

	var path vector.Path
	for i, p := range corners {
		world := common.Vec2{
			X: pos.X + p[0]*cosH - p[1]*sinH,
			Y: pos.Y + p[0]*sinH + p[1]*cosH,
		}
		sx, sy := g.toScreen(world)
		if i == 0 {
			path.MoveTo(sx, sy)
		} else {
			path.LineTo(sx, sy)
		}
	}
	path.Close()

	var cs ebiten.ColorScale
	cs.ScaleWithColor(col)
	vector.FillPath(screen, &path, nil, &vector.DrawPathOptions{
		AntiAlias:  true,
		ColorScale: cs,
	})
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return WindowWidth, WindowHeight
}

// fitView computes the world to screen transform so the whole map fits.
func (g *Game) fitView() {
	margin := g.Config.GetLaneWidth() * float64(g.Config.GetLaneCount())
	minX, minY := math.MaxFloat64, math.MaxFloat64
	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64
	for _, wp := range g.Map.Waypoints {
		minX = math.Min(minX, wp.Position.X-margin)
		maxX = math.Max(maxX, wp.Position.X+margin)
		minY = math.Min(minY, wp.Position.Y-margin)
		maxY = math.Max(maxY, wp.Position.Y+margin)
	}

	scale := math.Min(WindowWidth/(maxX-minX), WindowHeight/(maxY-minY)) * ViewScaleMargin
	g.ViewScale = scale
	g.MinX = minX
	g.MaxY = maxY
	g.OffsetX = (WindowWidth - (maxX-minX)*scale) / 2
	g.OffsetY = (WindowHeight - (maxY-minY)*scale) / 2
}

func main() {
	mapPath := flag.String("map", "", "waypoint file (x y s dx dy per line); a loop is generated if empty")
	configPath := flag.String("config", config.DefaultConfigPath, "planner config JSON; built-in defaults if empty")
	numCars := flag.Int("cars", 12, "number of traffic cars")
	seed := flag.Int64("seed", 1, "traffic random seed")
	speedUnits := flag.String("units", units.MPH, "HUD speed units: mps, mph or kmph")
	flag.Parse()

	if !units.IsValid(*speedUnits) {
		log.Fatalf("invalid -units %q, want one of %v", *speedUnits, units.ValidUnits)
	}

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	var m *track.Map
	if *mapPath != "" {
		m, err = track.LoadMapCSV(*mapPath, track.WithSignRef(cfg.GetSignRef()))
	} else {
		m, err = track.GenerateLoop(common.Vec2{}, LoopRadiusX, LoopRadiusY, LoopWaypoints)
	}
	if err != nil {
		log.Fatal(err)
	}

	laneWidth := cfg.GetLaneWidth()
	lanes := cfg.GetLaneCount()
	rng := rand.New(rand.NewSource(*seed))
	traffic := physics.RandomTraffic(m, laneWidth, lanes, *numCars, 12, cfg.GetSpeedLimit(), rng)

	startLane := lanes / 2
	car := physics.NewCar(m, track.Frenet{S: 0, D: track.LaneCenter(startLane, laneWidth)}, 0)

	game := &Game{
		Map:        m,
		Config:     cfg,
		Traffic:    traffic,
		Car:        car,
		Agent:      agent.NewAgent(m, cfg),
		Units:      *speedUnits,
		LaneTarget: startLane,
		Decision:   agent.Decision{TargetLane: startLane, TargetSpeed: cfg.GetSpeedLimit()},
	}
	game.fitView()

	ebiten.SetWindowSize(WindowWidth, WindowHeight)
	ebiten.SetWindowTitle("Highway Path Planner")

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
