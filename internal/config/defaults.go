package config

const (
	defaultDataDir        = "~/.local/share/loom"
	defaultLogDir         = "~/.local/share/loom/logs"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultMaxImageWidth  = 1280
	defaultMaxImageHeight = 1280
	defaultMaxImageKB     = 200
	defaultJPEGQuality    = 85
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Import: Import{
			MaxImageWidth:  defaultMaxImageWidth,
			MaxImageHeight: defaultMaxImageHeight,
			MaxImageKB:     defaultMaxImageKB,
			JPEGQuality:    defaultJPEGQuality,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
