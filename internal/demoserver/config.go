package demoserver

// Config holds configuration for the demo backend.
type Config struct {
	// Port is the port on which the demo backend listens.
	Port int

	// HistoryCap bounds how many past scans are remembered.
	HistoryCap int

	// FreeThreatLimit is how many detections a non-premium log scan lists.
	FreeThreatLimit int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Port:            8000,
		HistoryCap:      500,
		FreeThreatLimit: 5,
	}
}
