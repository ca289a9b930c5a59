package webclient

import "time"

// DefaultTimeout bounds a whole request, including reading the body.
const DefaultTimeout = 30 * time.Second

type Config struct {
	// Timeout is applied when NewNetHTTPClient has to build its own
	// *http.Client. Zero means DefaultTimeout.
	Timeout time.Duration
}
