package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("scan_id: %w", err)
	}
	*f = flexString(n.String())
	return nil
}

type wireResult struct {
	ScanID          flexString        `json:"scan_id"`
	Severity        Severity          `json:"severity"`
	SeverityScore   *float64          `json:"severity_score,omitempty"`
	ScannedAt       string            `json:"scanned_at"`
	ThreatCount     int               `json:"threat_count"`
	Findings        []string          `json:"findings,omitempty"`
	Recommendations []string          `json:"recommendations,omitempty"`
	TargetURL       string            `json:"target_url,omitempty"`
	HTTPSEnabled    *bool             `json:"https_enabled,omitempty"`
	StatusCode      *int              `json:"status_code,omitempty"`
	ServerInfo      *string           `json:"server_info,omitempty"`
	SecurityHeaders []SecurityHeader  `json:"security_headers,omitempty"`
	Filename        string            `json:"filename,omitempty"`
	TotalLines      *int              `json:"total_lines,omitempty"`
	ThreatBreakdown map[string]int    `json:"threat_breakdown,omitempty"`
	ThreatsDetected []ThreatDetection `json:"threats_detected,omitempty"`
	PremiumInsights json.RawMessage   `json:"premium_insights,omitempty"`
}

// DecodeScanResult parses a backend payload and tags it by the fields it
// carries: target_url alone makes a url result, filename alone a log
// result, and anything else (both or neither) an unknown result.
//
// Only a body that is not a JSON object is an error. A field whose type does
// not match is left zero and its name recorded in Dropped.
func DecodeScanResult(raw []byte) (*ScanResult, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode scan result: %w", err)
	}
	if fields == nil {
		return nil, errors.New("decode scan result: null payload")
	}

	d := &fieldDecoder{fields: fields}
	var w wireResult
	decodeField(d, "scan_id", &w.ScanID)
	decodeField(d, "severity", &w.Severity)
	decodeField(d, "severity_score", &w.SeverityScore)
	decodeField(d, "scanned_at", &w.ScannedAt)
	decodeField(d, "threat_count", &w.ThreatCount)
	decodeField(d, "findings", &w.Findings)
	decodeField(d, "recommendations", &w.Recommendations)
	decodeField(d, "target_url", &w.TargetURL)
	decodeField(d, "filename", &w.Filename)

	r := &ScanResult{
		ScanID:          string(w.ScanID),
		Severity:        w.Severity,
		SeverityScore:   w.SeverityScore,
		ScannedAt:       w.ScannedAt,
		ThreatCount:     w.ThreatCount,
		Findings:        w.Findings,
		Recommendations: w.Recommendations,
		Raw:             append(json.RawMessage(nil), raw...),
	}
	if r.ThreatCount < 0 {
		r.ThreatCount = 0
	}

	switch {
	case w.TargetURL != "" && w.Filename == "":
		r.Kind = ScanKindURL
		u := &URLScan{TargetURL: w.TargetURL}
		decodeField(d, "https_enabled", &u.HTTPSEnabled)
		decodeField(d, "status_code", &u.StatusCode)
		decodeField(d, "server_info", &u.ServerInfo)
		decodeField(d, "security_headers", &u.SecurityHeaders)
		// premium insights are plain strings for URL scans
		decodeField(d, "premium_insights", &u.PremiumInsights)
		r.URL = u
	case w.Filename != "" && w.TargetURL == "":
		r.Kind = ScanKindLog
		l := &LogScan{Filename: w.Filename}
		decodeField(d, "total_lines", &l.TotalLines)
		decodeField(d, "threat_breakdown", &l.ThreatBreakdown)
		decodeField(d, "threats_detected", &l.ThreatsDetected)
		decodeField(d, "premium_insights", &l.PremiumThreats)
		r.Log = l
	default:
		r.Kind = ScanKindUnknown
	}
	r.Dropped = d.dropped
	return r, nil
}

type fieldDecoder struct {
	fields  map[string]json.RawMessage
	dropped []string
}

// decodeField sets *dst from the named field, leaving it untouched when the
// field is absent or null and recording the name when the type mismatches.
func decodeField[T any](d *fieldDecoder, name string, dst *T) {
	raw, ok := d.fields[name]
	if !ok {
		return
	}
	var v T
	if err := decodeOptional(raw, &v); err != nil {
		d.dropped = append(d.dropped, name)
		return
	}
	*dst = v
}

func decodeOptional(raw json.RawMessage, v any) error {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	return json.Unmarshal(raw, v)
}

// toWire rebuilds a payload for results that were not decoded from bytes,
// such as history projections.
func (r *ScanResult) toWire() wireResult {
	w := wireResult{
		ScanID:          flexString(r.ScanID),
		Severity:        r.Severity,
		SeverityScore:   r.SeverityScore,
		ScannedAt:       r.ScannedAt,
		ThreatCount:     r.ThreatCount,
		Findings:        r.Findings,
		Recommendations: r.Recommendations,
	}
	if r.URL != nil {
		w.TargetURL = r.URL.TargetURL
		w.HTTPSEnabled = r.URL.HTTPSEnabled
		w.StatusCode = r.URL.StatusCode
		if r.URL.ServerInfo != "" {
			s := r.URL.ServerInfo
			w.ServerInfo = &s
		}
		w.SecurityHeaders = r.URL.SecurityHeaders
		if len(r.URL.PremiumInsights) > 0 {
			w.PremiumInsights, _ = json.Marshal(r.URL.PremiumInsights)
		}
	}
	if r.Log != nil {
		w.Filename = r.Log.Filename
		w.TotalLines = r.Log.TotalLines
		w.ThreatBreakdown = r.Log.ThreatBreakdown
		w.ThreatsDetected = r.Log.ThreatsDetected
		if len(r.Log.PremiumThreats) > 0 {
			w.PremiumInsights, _ = json.Marshal(r.Log.PremiumThreats)
		}
	}
	return w
}

// FormatScore renders a severity score with one decimal, or N/A.
func (r *ScanResult) FormatScore() string {
	if r.SeverityScore == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*r.SeverityScore, 'f', 1, 64)
}
