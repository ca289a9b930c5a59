// Package history loads the past-scan list and turns a chosen entry into a
// navigation to the result route.
package history

import (
	"context"

	"github.com/raysh454/vulnscan-web/internal/interfaces"
	"github.com/raysh454/vulnscan-web/internal/logging"
	"github.com/raysh454/vulnscan-web/internal/model"
)

// DefaultLimit is how many entries the history page asks for.
const DefaultLimit = 100

// MsgLoadFailed is shown when the list cannot be fetched.
const MsgLoadFailed = "Failed to load scan history"

// Status is the render state of a Page.
type Status string

const (
	StatusLoading Status = "loading"
	StatusError   Status = "error"
	StatusLoaded  Status = "loaded"
)

// Page is one load of the history list.
type Page struct {
	Status  Status
	Entries []model.HistoryEntry
	Error   string
}

// NewPage returns a page in the loading state.
func NewPage() *Page {
	return &Page{Status: StatusLoading}
}

// Empty reports a loaded page without entries.
func (p *Page) Empty() bool {
	return p.Status == StatusLoaded && len(p.Entries) == 0
}

// Open returns the navigation for the entry with scanID, carrying the
// entry's summary as the result so the result route does not refetch.
func (p *Page) Open(scanID string) (model.Navigation, bool) {
	if p == nil {
		return model.Navigation{}, false
	}
	for _, e := range p.Entries {
		if e.ScanID == scanID {
			return model.Navigation{Path: model.ResultPath(e.ScanID), State: e.AsResult()}, true
		}
	}
	return model.Navigation{}, false
}

// Loader fetches pages from the backend.
type Loader struct {
	api    interfaces.HistoryFetcher
	limit  int
	logger logging.Logger
}

// NewLoader returns a Loader; limit <= 0 means DefaultLimit.
func NewLoader(api interfaces.HistoryFetcher, limit int, logger logging.Logger) *Loader {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Loader{
		api:    api,
		limit:  limit,
		logger: logger.With(logging.Field{Key: "component", Value: "history"}),
	}
}

// Load issues one history request and returns the resulting page, which is
// either loaded (possibly empty) or in the error state.
func (l *Loader) Load(ctx context.Context) *Page {
	page := NewPage()
	h, err := l.api.FetchHistory(ctx, l.limit)
	if err != nil {
		l.logger.Warn("loading history", logging.Field{Key: "error", Value: err.Error()})
		page.Status = StatusError
		page.Error = MsgLoadFailed
		return page
	}
	page.Status = StatusLoaded
	if h != nil {
		page.Entries = h.Scans
	}
	return page
}
