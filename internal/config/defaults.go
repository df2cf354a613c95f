package config

const (
	projectConfigFile = "lightdance.toml"
	dotEnvFile        = ".env"
	lockFileName      = ".lightdance.lock"

	defaultInputDir       = "."
	defaultOutputDir      = "."
	defaultControlFile    = "control.json"
	defaultLEDFile        = "LED.json"
	defaultOFFile         = "OF.json"
	defaultDataFile       = "lightdance_data.txt"
	defaultTimesFile      = "frame_times.txt"
	defaultVariant        = "hex"
	defaultSingleColor    = "broadcast"
	defaultFadePolicy     = "last"
	defaultDebounceMillis = 250
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			InputDir:    defaultInputDir,
			OutputDir:   defaultOutputDir,
			ControlFile: defaultControlFile,
			LEDFile:     defaultLEDFile,
			OFFile:      defaultOFFile,
			DataFile:    defaultDataFile,
			TimesFile:   defaultTimesFile,
		},
		Output: Output{
			Variant:      defaultVariant,
			SingleColor:  defaultSingleColor,
			FadePolicy:   defaultFadePolicy,
			DeviceLimits: true,
		},
		Watch: Watch{
			DebounceMillis: defaultDebounceMillis,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
