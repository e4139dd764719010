// Package config handles objremap configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all objremap settings.
type Config struct {
	Parse   ParseConfig   `yaml:"parse"`
	Remap   RemapConfig   `yaml:"remap"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// ParseConfig holds OBJ and MTL reader settings.
type ParseConfig struct {
	Encoding      string `yaml:"encoding"`       // Source charset of OBJ/MTL files
	ProgressEvery int    `yaml:"progress_every"` // Log progress every N lines, 0 disables
}

// RemapConfig holds vertex remapping settings.
type RemapConfig struct {
	Workers int    `yaml:"workers"` // Concurrent sub-meshes, 0 uses GOMAXPROCS
	Normals string `yaml:"normals"` // uniform, area or angle
}

// ExportConfig holds output settings.
type ExportConfig struct {
	Format    string `yaml:"format"` // gltf, glb or obj
	OutputDir string `yaml:"output_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Parse: ParseConfig{
			Encoding:      "utf-8",
			ProgressEvery: 0,
		},
		Remap: RemapConfig{
			Workers: 0,
			Normals: "area",
		},
		Export: ExportConfig{
			Format:    "glb",
			OutputDir: "out",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Remap.Normals) {
	case "uniform", "area", "angle":
	default:
		return fmt.Errorf("%w: remap.normals %q", ErrInvalidConfig, c.Remap.Normals)
	}
	switch strings.ToLower(c.Export.Format) {
	case "gltf", "glb", "obj":
	default:
		return fmt.Errorf("%w: export.format %q", ErrInvalidConfig, c.Export.Format)
	}
	if c.Remap.Workers < 0 {
		return fmt.Errorf("%w: remap.workers %d", ErrInvalidConfig, c.Remap.Workers)
	}
	if c.Parse.ProgressEvery < 0 {
		return fmt.Errorf("%w: parse.progress_every %d", ErrInvalidConfig, c.Parse.ProgressEvery)
	}
	return nil
}
