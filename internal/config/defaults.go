package config

const (
	defaultConfigPath      = "~/.config/narrasync/config.toml"
	projectConfigName      = "narrasync.toml"
	cacheFileName          = "timings.db"
	defaultOutputDir       = "~/narrasync"
	defaultCacheDir        = "~/.cache/narrasync"
	defaultLogDir          = "~/.local/share/narrasync/logs"
	defaultSynthesisCmd    = "edge-tts"
	defaultVoice           = "ru-RU-DmitryNeural"
	defaultSpeed           = 1.0
	defaultTimeoutSeconds  = 600
	defaultMaxWords        = 15
	defaultGroupSize       = 2
	defaultOutputFormat    = "srt"
	defaultCacheEnabled    = true
	defaultCacheMaxAgeDays = 30
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	maxSpeed               = 3.0
)

// OutputFormats lists the block serializations the pipeline can write.
var OutputFormats = []string{"srt", "json", "yaml"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			CacheDir:  defaultCacheDir,
			LogDir:    defaultLogDir,
		},
		Synthesis: Synthesis{
			Command:        defaultSynthesisCmd,
			Voice:          defaultVoice,
			Speed:          defaultSpeed,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Segmentation: Segmentation{
			MaxWords:     defaultMaxWords,
			GroupSize:    defaultGroupSize,
			OutputFormat: defaultOutputFormat,
		},
		Cache: Cache{
			Enabled:    defaultCacheEnabled,
			MaxAgeDays: defaultCacheMaxAgeDays,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
