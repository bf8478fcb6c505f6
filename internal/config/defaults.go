package config

const (
	defaultProjectsDir        = "~/.local/share/ledproj/projects"
	defaultLogDir             = "~/.local/share/ledproj/logs"
	defaultLibraryDB          = "~/.local/share/ledproj/library.db"
	defaultLockTimeoutSeconds = 10
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultColorOrder         = "RGB"
	defaultFrameDurationMS    = 100
	defaultUseRLE             = true
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ProjectsDir: defaultProjectsDir,
			LogDir:      defaultLogDir,
		},
		Library: Library{
			DatabasePath:       defaultLibraryDB,
			LockTimeoutSeconds: defaultLockTimeoutSeconds,
		},
		Serialization: Serialization{
			UseRLE:                 defaultUseRLE,
			DefaultColorOrder:      defaultColorOrder,
			DefaultFrameDurationMS: defaultFrameDurationMS,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
