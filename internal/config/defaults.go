package config

const (
	defaultLogDir              = "~/.local/share/nvcheck/logs"
	defaultStateDir            = "~/.local/share/nvcheck/state"
	defaultQueryTimeoutSeconds = 10
	defaultPreloadOnFailure    = "warn"
	defaultHistoryRetention    = 90
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults: a single
// NVENC API 12.0 gate, which is what PyNvVideoCodec-era encoders need.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:   defaultLogDir,
			StateDir: defaultStateDir,
		},
		Driver: Driver{
			QueryTimeoutSeconds: defaultQueryTimeoutSeconds,
		},
		Requirements: []Requirement{
			{Feature: "nvenc-api", Minimum: "12.0", Kind: "nvenc-api"},
		},
		Preload: Preload{
			Enabled: true,
			Libraries: []string{
				"libnvidia-encode.so.1",
				"libcuda.so.1",
			},
			OnFailure: defaultPreloadOnFailure,
		},
		History: History{
			Enabled:       true,
			RetentionDays: defaultHistoryRetention,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
