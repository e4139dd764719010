package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagEncoding = flag.String("encoding", "", "Source charset of OBJ/MTL files (utf-8, latin1, windows-1252, euc-kr)")
	flagProgress = flag.Int("progress", 0, "Log parse progress every N lines")
	flagWorkers  = flag.Int("workers", 0, "Sub-meshes remapped concurrently")
	flagNormals  = flag.String("normals", "", "Normal weighting (uniform, area, angle)")
	flagFormat   = flag.String("format", "", "Export format (gltf, glb, obj)")
	flagOut      = flag.String("out", "", "Output directory")
	flagLogFile  = flag.String("log", "", "Also write logs to this file")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag arguments.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagEncoding != "" {
		cfg.Parse.Encoding = *flagEncoding
	}
	if *flagProgress > 0 {
		cfg.Parse.ProgressEvery = *flagProgress
	}
	if *flagWorkers > 0 {
		cfg.Remap.Workers = *flagWorkers
	}
	if *flagNormals != "" {
		cfg.Remap.Normals = *flagNormals
	}
	if *flagFormat != "" {
		cfg.Export.Format = *flagFormat
	}
	if *flagOut != "" {
		cfg.Export.OutputDir = *flagOut
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
