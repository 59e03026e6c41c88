package config

// NewDefaultConfig creates a new Config with default values
func NewDefaultConfig() *Config {
	return &Config{
		Core: Core{
			Logging: LoggingConfig{
				Enabled: true,
				Level:   "debug",
				Rotation: RotationConfig{
					MaxSize:  "10MB",
					MaxFiles: 3,
				},
			},
		},
		Scan: ScanConfig{
			UnusedAfter: "180 days",
			Workers:     0, // fastwalk default
			DetectMIME:  false,
			Exclude: ExcludeConfig{
				Files: []string{
					// In macOS, .DS_Store is a file that stores custom attributes of its
					// containing folder and gets read by Finder all the time
					".DS_Store",
				},
				Patterns: []string{},
				Globs:    []string{},
				Size: SizeConfig{
					Min: "",
					Max: "",
				},
			},
		},
		Monitor: MonitorConfig{
			Backend: "auto",
		},
		Recover: RecoverConfig{
			OnConflict: "fail",
			Verbose:    true,
		},
		UI: UI{
			Progress: "bar",
			Style: StyleConfig{
				Unused:  "#F0F080", // Yellow
				Success: "#5FB458", // Green
				Failure: "#FF5F87", // Pink
			},
		},
	}
}
