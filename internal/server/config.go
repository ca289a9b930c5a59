package server

import "time"

type Config struct {
	// ListenAddr is the HTTP listen address of the web front end.
	ListenAddr string

	ReadTimeout time.Duration

	// HistoryLimit is how many entries the history page requests.
	HistoryLimit int
}
