package engine

type ApplicationConfig struct {
	// The application name, used in logs.
	Name string
	// TOML file with the engine configuration. Empty means the defaults.
	ConfigPath string
	// Reload ConfigPath when it changes on disk.
	WatchConfig bool
	// Number of frames to run, 0 runs until Stop is called.
	FrameCount uint64
	// Frames per second the loop is paced to, 0 runs unpaced.
	TargetFrameRate float64
}
