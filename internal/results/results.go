// Package results resolves which scan result the result route shows and
// derives the tabs and panels rendered for it.
package results

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/raysh454/vulnscan-web/internal/logging"
	"github.com/raysh454/vulnscan-web/internal/model"
	"github.com/raysh454/vulnscan-web/internal/resultcache"
)

// Source records where a View's result came from.
type Source string

const (
	SourceNavigation Source = "navigation"
	SourceStorage    Source = "storage"
	SourceNone       Source = "none"
)

// Tab identifies a result panel.
type Tab string

const (
	TabOverview        Tab = "overview"
	TabHeaders         Tab = "headers"
	TabThreats         Tab = "threats"
	TabRecommendations Tab = "recommendations"
)

// ErrTabUnavailable is returned by Select for a tab the result does not have.
var ErrTabUnavailable = errors.New("tab not available for this result")

// View is the resolved state of the result route.
type View struct {
	Result *model.ScanResult
	Source Source
	active Tab
}

// Resolve picks the result once, on entry: navigation state first, then the
// session's cached result. It never contacts the backend. A cache read error
// is logged and treated as an empty cache.
func Resolve(ctx context.Context, nav *model.ScanResult, reader resultcache.Reader, logger logging.Logger) *View {
	if nav != nil {
		return &View{Result: nav, Source: SourceNavigation, active: TabOverview}
	}
	if reader != nil {
		res, err := reader.Get(ctx)
		switch {
		case err == nil && res != nil:
			return &View{Result: res, Source: SourceStorage, active: TabOverview}
		case err != nil && !errors.Is(err, resultcache.ErrEmpty):
			logger.Warn("reading cached result", logging.Field{Key: "error", Value: err.Error()})
		}
	}
	return &View{Source: SourceNone, active: TabOverview}
}

// Found reports whether a result was resolved.
func (v *View) Found() bool {
	return v.Result != nil
}

func (v *View) IsURL() bool {
	return v.Result != nil && v.Result.Kind == model.ScanKindURL
}

func (v *View) IsLog() bool {
	return v.Result != nil && v.Result.Kind == model.ScanKindLog
}

// IsUnknown reports a result that is neither a url nor a log scan.
func (v *View) IsUnknown() bool {
	return v.Result != nil && v.Result.Kind == model.ScanKindUnknown
}

// Tabs lists the visible tabs in display order.
func (v *View) Tabs() []Tab {
	tabs := []Tab{TabOverview}
	if v.IsURL() {
		tabs = append(tabs, TabHeaders)
	}
	if v.IsLog() {
		tabs = append(tabs, TabThreats)
	}
	return append(tabs, TabRecommendations)
}

// Has reports whether tab is visible.
func (v *View) Has(tab Tab) bool {
	for _, t := range v.Tabs() {
		if t == tab {
			return true
		}
	}
	return false
}

// Select makes tab the active one. It is a local state change only.
func (v *View) Select(tab Tab) error {
	if !v.Has(tab) {
		return ErrTabUnavailable
	}
	v.active = tab
	return nil
}

// Active returns the selected tab.
func (v *View) Active() Tab {
	if v.active == "" {
		return TabOverview
	}
	return v.active
}

// Label is the tab's button text.
func (v *View) Label(tab Tab) string {
	switch tab {
	case TabOverview:
		return "Overview"
	case TabHeaders:
		return "Security Headers"
	case TabThreats:
		n := 0
		if v.Result != nil {
			n = v.Result.ThreatCount
		}
		return "Threats (" + strconv.Itoa(n) + ")"
	case TabRecommendations:
		return "Recommendations"
	}
	return string(tab)
}

// Recommendations returns the recommendations, falling back to findings.
func (v *View) Recommendations() []string {
	if v.Result == nil {
		return nil
	}
	if v.Result.Recommendations != nil {
		return v.Result.Recommendations
	}
	return v.Result.Findings
}

// HeaderCard is one entry of the detailed header analysis.
type HeaderCard struct {
	Title       string
	Severity    model.Severity
	Description string
	Details     string
	Remediation string
}

// HeaderCards derives the detailed header analysis of a url scan.
func (v *View) HeaderCards() []HeaderCard {
	if !v.IsURL() {
		return nil
	}
	cards := make([]HeaderCard, 0, len(v.Result.URL.SecurityHeaders))
	for _, h := range v.Result.URL.SecurityHeaders {
		c := HeaderCard{
			Title:       h.HeaderName,
			Severity:    model.SeverityMedium,
			Description: "Security header is missing",
			Details:     h.Recommended,
			Remediation: h.Recommended,
		}
		if h.Present {
			c.Severity = model.SeverityLow
			c.Description = "Security header is configured"
		}
		if h.Value != nil && *h.Value != "" {
			c.Details = *h.Value
		}
		cards = append(cards, c)
	}
	return cards
}

// BreakdownEntry is one threat type and its count.
type BreakdownEntry struct {
	Type  string
	Label string
	Count int
}

// Breakdown returns the log scan's threat breakdown, largest count first.
func (v *View) Breakdown() []BreakdownEntry {
	if !v.IsLog() || len(v.Result.Log.ThreatBreakdown) == 0 {
		return nil
	}
	out := make([]BreakdownEntry, 0, len(v.Result.Log.ThreatBreakdown))
	for k, n := range v.Result.Log.ThreatBreakdown {
		out = append(out, BreakdownEntry{Type: k, Label: strings.ReplaceAll(k, "_", " "), Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// PremiumInsights returns the url scan's premium notes.
func (v *View) PremiumInsights() []string {
	if !v.IsURL() {
		return nil
	}
	return v.Result.URL.PremiumInsights
}

// PremiumThreats returns the log scan's premium detections.
func (v *View) PremiumThreats() []model.ThreatDetection {
	if !v.IsLog() {
		return nil
	}
	return v.Result.Log.PremiumThreats
}
