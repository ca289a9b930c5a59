package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// CLIArgs are the command-line overrides for a single run of the web front
// end. Empty strings mean "use the config file or environment".
type CLIArgs struct {
	// ConfigPath is an optional YAML config file.
	ConfigPath string

	// ListenAddr overrides the HTTP listen address.
	ListenAddr string

	// APIBaseURL overrides the scanning backend base URL.
	APIBaseURL string

	// LogLevel overrides the minimum log level (debug|info|warn|error).
	LogLevel string

	// RawArgs is the original args slice (useful for debugging/tests).
	RawArgs []string
}

// ParseArgs parses a slice of args and returns CLIArgs. Use in tests by passing
// arbitrary slices. The function is deterministic and does not read os.Args.
func ParseArgs(args []string) (*CLIArgs, error) {
	fs := flag.NewFlagSet("vulnscan-web", flag.ContinueOnError)
	var (
		configPath = fs.String("config", "", "Path to a YAML config file")
		addr       = fs.String("addr", "", "HTTP listen address, e.g. :8080")
		apiBase    = fs.String("api-base", "", "Base URL of the scanning backend")
		logLevel   = fs.String("log-level", "", "Log level: debug|info|warn|error")
	)

	// Ensure Parse doesn't write to stdout/stderr in tests
	fs.SetOutput(io.Discard)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	switch strings.ToLower(strings.TrimSpace(*logLevel)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return nil, fmt.Errorf("invalid -log-level %q", *logLevel)
	}

	return &CLIArgs{
		ConfigPath: strings.TrimSpace(*configPath),
		ListenAddr: strings.TrimSpace(*addr),
		APIBaseURL: strings.TrimSpace(*apiBase),
		LogLevel:   strings.TrimSpace(*logLevel),
		RawArgs:    args,
	}, nil
}
