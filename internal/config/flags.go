package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagExe     = flag.String("exe", "", "Path to the Instant Meshes executable")
	flagTimeout = flag.Duration("timeout", 0, "Remeshing run timeout (e.g. 90s)")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
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
	if *flagExe != "" {
		cfg.Remesher.ExecutablePath = *flagExe
	}
	if *flagTimeout > 0 {
		cfg.Remesher.RunTimeout = *flagTimeout
	}
}
