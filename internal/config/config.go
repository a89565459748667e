// Package config handles tool configuration loading and management.
package config

import "time"

// Config holds all tool settings.
type Config struct {
	Remesher RemesherConfig `yaml:"remesher"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// RemesherConfig holds settings for the external remeshing executable.
type RemesherConfig struct {
	// ExecutablePath is the path to the Instant Meshes binary.
	ExecutablePath string `yaml:"executable_path"`
	// ProbeTimeout bounds the --help capability probe.
	ProbeTimeout time.Duration `yaml:"probe_timeout"`
	// RunTimeout bounds a full remeshing run.
	RunTimeout time.Duration `yaml:"run_timeout"`
}

// DefaultsConfig holds default remeshing request parameters.
type DefaultsConfig struct {
	TargetKind        string  `yaml:"target_kind"` // "faces" or "vertices"
	FaceCount         int     `yaml:"face_count"`
	VertexCount       int     `yaml:"vertex_count"`
	PreserveSharp     bool    `yaml:"preserve_sharp"`
	AlignToBoundaries bool    `yaml:"align_to_boundaries"`
	Deterministic     bool    `yaml:"deterministic"`
	CreaseAngle       float64 `yaml:"crease_angle"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Remesher: RemesherConfig{
			ExecutablePath: "",
			ProbeTimeout:   5 * time.Second,
			RunTimeout:     120 * time.Second,
		},
		Defaults: DefaultsConfig{
			TargetKind:        "faces",
			FaceCount:         5000,
			VertexCount:       5000,
			PreserveSharp:     true,
			AlignToBoundaries: true,
			Deterministic:     false,
			CreaseAngle:       30.0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
