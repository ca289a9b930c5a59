package session

import (
	"sync"
	"time"

	"github.com/raysh454/vulnscan-web/internal/history"
	"github.com/raysh454/vulnscan-web/internal/model"
	"github.com/raysh454/vulnscan-web/internal/submission"
)

// State is everything the server keeps for one browser session.
type State struct {
	ID     string
	Form   *submission.Form
	Broker *Broker

	mu       sync.Mutex
	nav      *model.Navigation
	history  *history.Page
	lastSeen time.Time
}

// Navigate stores nav as the one-shot state for the next request to nav.Path.
func (s *State) Navigate(nav model.Navigation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nav = &nav
}

// TakeNavigation consumes the pending navigation. It returns the carried
// result only when the pending navigation targets path; any other pending
// state is discarded, as it would be after a normal page change.
func (s *State) TakeNavigation(path string) *model.ScanResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	nav := s.nav
	s.nav = nil
	if nav == nil || nav.Path != path {
		return nil
	}
	return nav.State
}

// SetHistory records the last loaded history page.
func (s *State) SetHistory(p *history.Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = p
}

// History returns the last loaded history page, or nil.
func (s *State) History() *history.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history
}

func (s *State) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *State) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}
