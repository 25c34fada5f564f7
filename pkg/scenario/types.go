package scenario

import "github.com/Benkess/CrossSim/pkg/geo"

// Metadata describes a scenario for listings and provenance. Timestamps
// are RFC 3339 strings; empty means never stamped.
type Metadata struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Author      string   `yaml:"author" json:"author"`
	Version     string   `yaml:"version" json:"version"`
	Tags        []string `yaml:"tags" json:"tags"`
	CreatedAt   string   `yaml:"created_at" json:"created_at"`
	ModifiedAt  string   `yaml:"modified_at" json:"modified_at"`
}

// Size is a rectangular extent in meters.
type Size struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// EnvironmentConfig sizes the world an editor presents before any
// occupancy grid exists.
type EnvironmentConfig struct {
	Size       Size        `yaml:"size" json:"size"`
	Resolution float64     `yaml:"resolution" json:"resolution"`
	Origin     geo.Point2D `yaml:"origin" json:"origin"`
}

// DefaultEnvironmentConfig returns a 10x10m world at 5cm resolution.
func DefaultEnvironmentConfig() EnvironmentConfig {
	return EnvironmentConfig{
		Size:       Size{Width: 10.0, Height: 10.0},
		Resolution: 0.05,
	}
}

// SimulationConfig carries the runtime parameters a simulator consumes.
// The editor only validates them.
type SimulationConfig struct {
	TimeStep       float64 `yaml:"time_step" json:"time_step"`
	Duration       float64 `yaml:"duration" json:"duration"`
	RealTimeFactor float64 `yaml:"real_time_factor" json:"real_time_factor"`
	RecordData     bool    `yaml:"record_data" json:"record_data"`
	OutputFormat   string  `yaml:"output_format" json:"output_format"`
}

// DefaultSimulationConfig returns a 60s run at 10Hz with recording on.
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		TimeStep:       0.1,
		Duration:       60.0,
		RealTimeFactor: 1.0,
		RecordData:     true,
		OutputFormat:   "json",
	}
}
