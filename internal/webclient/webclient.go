package webclient

import (
	"context"
	"errors"
)

var (
	// ErrRequestSetup marks failures that happen before anything is sent.
	ErrRequestSetup = errors.New("request setup failed")
	// ErrNoResponse marks requests that were sent but never answered
	// (connection failures, timeouts, cancellation).
	ErrNoResponse = errors.New("no response from server")
)

type WebClient interface {
	Do(ctx context.Context, req *Request) (*Response, error)

	Close() error
}
