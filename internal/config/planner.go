package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"highway-path-planner/internal/common"
	"highway-path-planner/internal/safety"
	"highway-path-planner/internal/track"
)

// DefaultConfigPath is the path to the canonical planner defaults file.
const DefaultConfigPath = "config/planner.defaults.json"

// PlannerConfig holds the tuning for the coordinate system, the lane change
// check and the lane decision agent. Every field is optional; the Get*
// methods fall back to the built-in defaults.
type PlannerConfig struct {
	// Road geometry
	LaneWidth *float64 `json:"lane_width,omitempty"` // m
	LaneCount *int     `json:"lane_count,omitempty"`
	SignRefX  *float64 `json:"sign_ref_x,omitempty"` // point off the course fixing the sign of d
	SignRefY  *float64 `json:"sign_ref_y,omitempty"`

	// Lane change safety
	VehicleLength    *float64 `json:"vehicle_length,omitempty"`     // m
	SafetyBuffer     *float64 `json:"safety_buffer,omitempty"`      // m
	ReferenceSpeed   *float64 `json:"reference_speed,omitempty"`    // m/s
	FreeFlowSpeed    *float64 `json:"free_flow_speed,omitempty"`    // m/s
	HorizonSeconds   *float64 `json:"horizon_seconds,omitempty"`    // s
	MinObstacleSpeed *float64 `json:"min_obstacle_speed,omitempty"` // m/s

	// Lane decision
	SpeedLimit     *float64 `json:"speed_limit,omitempty"`     // m/s
	FollowDistance *float64 `json:"follow_distance,omitempty"` // m
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyPlannerConfig returns a PlannerConfig with all fields set to nil.
func EmptyPlannerConfig() *PlannerConfig {
	return &PlannerConfig{}
}

// DefaultPlannerConfig returns a PlannerConfig with every field set to its default.
func DefaultPlannerConfig() *PlannerConfig {
	p := safety.DefaultParams()
	return &PlannerConfig{
		LaneWidth:        ptrFloat64(4.0),
		LaneCount:        ptrInt(3),
		SignRefX:         ptrFloat64(1000),
		SignRefY:         ptrFloat64(2000),
		VehicleLength:    ptrFloat64(p.VehicleLength),
		SafetyBuffer:     ptrFloat64(p.Buffer),
		ReferenceSpeed:   ptrFloat64(p.ReferenceSpeed),
		FreeFlowSpeed:    ptrFloat64(p.FreeFlowSpeed),
		HorizonSeconds:   ptrFloat64(p.Horizon),
		MinObstacleSpeed: ptrFloat64(p.MinSpeed),
		SpeedLimit:       ptrFloat64(22.0),
		FollowDistance:   ptrFloat64(30.0),
	}
}

// LoadPlannerConfig loads a PlannerConfig from a JSON file.
// The file must have a .json extension and be under 1MB. Omitted fields keep
// their defaults, so partial configs are safe.
func LoadPlannerConfig(path string) (*PlannerConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyPlannerConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads path, or returns DefaultPlannerConfig when path is empty.
func LoadOrDefault(path string) (*PlannerConfig, error) {
	if path == "" {
		return DefaultPlannerConfig(), nil
	}
	return LoadPlannerConfig(path)
}

// Validate checks that the configuration values are valid.
func (c *PlannerConfig) Validate() error {
	positive := []struct {
		name string
		v    *float64
	}{
		{"lane_width", c.LaneWidth},
		{"vehicle_length", c.VehicleLength},
		{"reference_speed", c.ReferenceSpeed},
		{"free_flow_speed", c.FreeFlowSpeed},
		{"horizon_seconds", c.HorizonSeconds},
		{"speed_limit", c.SpeedLimit},
		{"follow_distance", c.FollowDistance},
	}
	for _, f := range positive {
		if f.v != nil && *f.v <= 0 {
			return fmt.Errorf("%s must be positive, got %f", f.name, *f.v)
		}
	}

	if c.SafetyBuffer != nil && *c.SafetyBuffer < 0 {
		return fmt.Errorf("safety_buffer must be non-negative, got %f", *c.SafetyBuffer)
	}
	if c.MinObstacleSpeed != nil && *c.MinObstacleSpeed < 0 {
		return fmt.Errorf("min_obstacle_speed must be non-negative, got %f", *c.MinObstacleSpeed)
	}
	if c.LaneCount != nil && *c.LaneCount < 1 {
		return fmt.Errorf("lane_count must be at least 1, got %d", *c.LaneCount)
	}
	if (c.SignRefX == nil) != (c.SignRefY == nil) {
		return fmt.Errorf("sign_ref_x and sign_ref_y must be set together")
	}

	return nil
}

func getFloat(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// GetLaneWidth returns the lane_width value or the default.
func (c *PlannerConfig) GetLaneWidth() float64 { return getFloat(c.LaneWidth, 4.0) }

// GetLaneCount returns the lane_count value or the default.
func (c *PlannerConfig) GetLaneCount() int {
	if c.LaneCount == nil {
		return 3
	}
	return *c.LaneCount
}

// GetSignRef returns the configured sign reference point or the default.
func (c *PlannerConfig) GetSignRef() common.Vec2 {
	if c.SignRefX == nil || c.SignRefY == nil {
		return track.DefaultSignRef
	}
	return common.Vec2{X: *c.SignRefX, Y: *c.SignRefY}
}

// GetSpeedLimit returns the speed_limit value or the default.
func (c *PlannerConfig) GetSpeedLimit() float64 { return getFloat(c.SpeedLimit, 22.0) }

// GetFollowDistance returns the follow_distance value or the default.
func (c *PlannerConfig) GetFollowDistance() float64 { return getFloat(c.FollowDistance, 30.0) }

// SafetyParams returns the lane change check parameters.
func (c *PlannerConfig) SafetyParams() safety.Params {
	def := safety.DefaultParams()
	return safety.Params{
		VehicleLength:  getFloat(c.VehicleLength, def.VehicleLength),
		Buffer:         getFloat(c.SafetyBuffer, def.Buffer),
		ReferenceSpeed: getFloat(c.ReferenceSpeed, def.ReferenceSpeed),
		FreeFlowSpeed:  getFloat(c.FreeFlowSpeed, def.FreeFlowSpeed),
		Horizon:        getFloat(c.HorizonSeconds, def.Horizon),
		MinSpeed:       getFloat(c.MinObstacleSpeed, def.MinSpeed),
	}
}
