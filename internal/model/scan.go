package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Severity is the backend-assigned risk tier.
type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// ScanKind tags both scan requests and decoded scan results.
type ScanKind string

const (
	ScanKindURL ScanKind = "url"
	ScanKindLog ScanKind = "log"
	// ScanKindUnknown marks a result whose payload matches neither scan type.
	ScanKindUnknown ScanKind = "unknown"
)

// DefaultLogFilename is sent when the user leaves the log filename blank.
const DefaultLogFilename = "pasted_log.txt"

var ErrInvalidScanRequest = errors.New("invalid scan request")

// ScanRequest is a discriminated union: Kind selects which of the URL or
// log fields are meaningful.
type ScanRequest struct {
	Kind     ScanKind
	URL      string
	Filename string
	Content  string
	Premium  bool
}

// NewURLScanRequest builds the url variant.
func NewURLScanRequest(url string, premium bool) ScanRequest {
	return ScanRequest{Kind: ScanKindURL, URL: url, Premium: premium}
}

// NewLogScanRequest builds the log variant. A blank filename becomes DefaultLogFilename.
func NewLogScanRequest(filename, content string, premium bool) ScanRequest {
	if strings.TrimSpace(filename) == "" {
		filename = DefaultLogFilename
	}
	return ScanRequest{Kind: ScanKindLog, Filename: filename, Content: content, Premium: premium}
}

// Validate checks that exactly one variant is populated.
func (r ScanRequest) Validate() error {
	switch r.Kind {
	case ScanKindURL:
		if r.URL == "" || r.Filename != "" || r.Content != "" {
			return fmt.Errorf("%w: url variant requires only a url", ErrInvalidScanRequest)
		}
	case ScanKindLog:
		if strings.TrimSpace(r.Content) == "" || r.URL != "" {
			return fmt.Errorf("%w: log variant requires non-empty content and no url", ErrInvalidScanRequest)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidScanRequest, r.Kind)
	}
	return nil
}

// URLScanPayload is the body of POST /v1/scan/url.
type URLScanPayload struct {
	URL     string `json:"url"`
	Premium bool   `json:"premium"`
}

// LogScanPayload is the body of POST /v1/scan/log.
type LogScanPayload struct {
	Filename   string `json:"filename"`
	LogContent string `json:"log_content"`
	Premium    bool   `json:"premium"`
}

// SecurityHeader is one header check from a URL scan.
type SecurityHeader struct {
	HeaderName  string  `json:"header_name"`
	Present     bool    `json:"present"`
	Value       *string `json:"value,omitempty"`
	Recommended string  `json:"recommended"`
}

// ThreatDetection is one threat found in a log scan.
type ThreatDetection struct {
	ThreatType     string   `json:"threat_type"`
	Severity       Severity `json:"severity"`
	LineNumber     int      `json:"line_number"`
	MatchedPattern string   `json:"matched_pattern"`
	Details        string   `json:"details"`
}

// URLScan holds the fields only a URL scan carries.
type URLScan struct {
	TargetURL       string
	HTTPSEnabled    *bool
	StatusCode      *int
	ServerInfo      string
	SecurityHeaders []SecurityHeader
	PremiumInsights []string
}

// LogScan holds the fields only a log scan carries.
type LogScan struct {
	Filename        string
	TotalLines      *int
	ThreatBreakdown map[string]int
	ThreatsDetected []ThreatDetection
	PremiumThreats  []ThreatDetection
}

// ScanResult is a decoded backend result. Exactly one of URL and Log is set
// for the url and log kinds; neither is set for ScanKindUnknown.
type ScanResult struct {
	Kind            ScanKind
	ScanID          string
	Severity        Severity
	SeverityScore   *float64
	ScannedAt       string
	ThreatCount     int
	Findings        []string
	Recommendations []string

	URL *URLScan
	Log *LogScan

	// Raw is the payload exactly as the backend sent it.
	Raw json.RawMessage
	// Dropped lists payload fields ignored because their type did not match.
	Dropped []string
}

// Target is the scanned URL or log filename, empty for unknown results.
func (r *ScanResult) Target() string {
	switch {
	case r.URL != nil:
		return r.URL.TargetURL
	case r.Log != nil:
		return r.Log.Filename
	}
	return ""
}

// MarshalJSON returns the original payload so that a cached result is
// byte-for-byte what the backend produced.
func (r *ScanResult) MarshalJSON() ([]byte, error) {
	if len(r.Raw) > 0 {
		return r.Raw, nil
	}
	return json.Marshal(r.toWire())
}

// Navigation is an in-process route change that carries a result along so
// the destination view does not need to look it up again.
type Navigation struct {
	Path  string
	State *ScanResult
}

// ResultPath is the result route for a scan id.
func ResultPath(scanID string) string {
	return "/scan-result/" + scanID
}
