package model

import "strings"

// HistoryEntry is the summary of a past scan returned by the history endpoint.
type HistoryEntry struct {
	ScanID      string   `json:"scan_id"`
	ScanType    string   `json:"scan_type"`
	Target      string   `json:"target"`
	Severity    Severity `json:"severity"`
	ThreatCount int      `json:"threat_count"`
	ScannedAt   string   `json:"scanned_at"`
	Premium     bool     `json:"premium"`
}

// History is the body of GET /v1/scans/history.
type History struct {
	TotalScans int            `json:"total_scans"`
	Scans      []HistoryEntry `json:"scans"`
}

// IsURL reports whether the entry summarises a URL scan.
func (e HistoryEntry) IsURL() bool {
	return strings.EqualFold(e.ScanType, "URL")
}

// AsResult projects the summary into a ScanResult so the result view can
// render it without fetching the full record.
func (e HistoryEntry) AsResult() *ScanResult {
	r := &ScanResult{
		Kind:        ScanKindUnknown,
		ScanID:      e.ScanID,
		Severity:    e.Severity,
		ScannedAt:   e.ScannedAt,
		ThreatCount: e.ThreatCount,
	}
	switch strings.ToUpper(e.ScanType) {
	case "URL":
		r.Kind = ScanKindURL
		r.URL = &URLScan{TargetURL: e.Target}
	case "LOG":
		r.Kind = ScanKindLog
		r.Log = &LogScan{Filename: e.Target}
	}
	return r
}

// Feature describes one backend capability from GET /info/features.
type Feature struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Endpoint    string   `json:"endpoint,omitempty"`
	Checks      []string `json:"checks,omitempty"`
	Threats     []string `json:"threats,omitempty"`
}

// FeatureInfo is the body of GET /info/features.
type FeatureInfo struct {
	Features []Feature `json:"features"`
}

// Tier describes one service tier from GET /info/tiers.
type Tier struct {
	Name        string   `json:"name"`
	Cost        string   `json:"cost"`
	Features    []string `json:"features"`
	Limitations []string `json:"limitations,omitempty"`
	Benefits    []string `json:"benefits,omitempty"`
}

// TierInfo is the body of GET /info/tiers, keyed by tier id ("free", "premium").
type TierInfo struct {
	Tiers map[string]Tier `json:"tiers"`
}
