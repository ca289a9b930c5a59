package model_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/raysh454/vulnscan-web/internal/model"
)

const urlPayload = `{
	"scan_id": "abc123",
	"target_url": "https://example.com",
	"https_enabled": true,
	"status_code": 200,
	"server_info": "nginx/1.21.0",
	"security_headers": [{"header_name": "Content-Security-Policy", "present": false, "value": null, "recommended": "default-src 'self'"}],
	"threat_count": 2,
	"severity": "MEDIUM",
	"severity_score": 5.5,
	"findings": ["Missing Content-Security-Policy header"],
	"premium_insights": ["Consider implementing CSP"],
	"scanned_at": "2026-01-15T10:30:00"
}`

const logPayload = `{
	"scan_id": "xyz789",
	"filename": "access.log",
	"total_lines": 1000,
	"threat_count": 15,
	"severity": "HIGH",
	"severity_score": 8.2,
	"threat_breakdown": {"brute_force": 8, "sql_injection": 7},
	"threats_detected": [{"threat_type": "brute_force", "severity": "MEDIUM", "line_number": 50, "matched_pattern": "401", "details": "10 attempts"}],
	"premium_insights": [{"threat_type": "xss", "severity": "LOW", "line_number": 3, "matched_pattern": "<script>", "details": "reflected"}],
	"recommendations": ["Implement rate limiting"],
	"scanned_at": "2026-01-15T10:30:00"
}`

func TestDecodeScanResult_URL(t *testing.T) {
	t.Parallel()
	r, err := model.DecodeScanResult([]byte(urlPayload))
	if err != nil {
		t.Fatalf("DecodeScanResult: %v", err)
	}
	if r.Kind != model.ScanKindURL || r.URL == nil || r.Log != nil {
		t.Fatalf("expected url kind with only URL set, got kind=%s url=%v log=%v", r.Kind, r.URL, r.Log)
	}
	if r.ScanID != "abc123" || r.Severity != model.SeverityMedium || r.ThreatCount != 2 {
		t.Errorf("unexpected common fields: %+v", r)
	}
	if r.URL.ServerInfo != "nginx/1.21.0" || len(r.URL.SecurityHeaders) != 1 || r.URL.SecurityHeaders[0].Value != nil {
		t.Errorf("unexpected url fields: %+v", r.URL)
	}
	if len(r.URL.PremiumInsights) != 1 {
		t.Errorf("expected 1 premium insight, got %v", r.URL.PremiumInsights)
	}
	if r.FormatScore() != "5.5" {
		t.Errorf("expected score 5.5, got %s", r.FormatScore())
	}
	if r.Target() != "https://example.com" {
		t.Errorf("unexpected target %q", r.Target())
	}
}

func TestDecodeScanResult_Log(t *testing.T) {
	t.Parallel()
	r, err := model.DecodeScanResult([]byte(logPayload))
	if err != nil {
		t.Fatalf("DecodeScanResult: %v", err)
	}
	if r.Kind != model.ScanKindLog || r.Log == nil || r.URL != nil {
		t.Fatalf("expected log kind, got %s", r.Kind)
	}
	if r.Log.ThreatBreakdown["brute_force"] != 8 || len(r.Log.ThreatsDetected) != 1 || len(r.Log.PremiumThreats) != 1 {
		t.Errorf("unexpected log fields: %+v", r.Log)
	}
	if r.Log.TotalLines == nil || *r.Log.TotalLines != 1000 {
		t.Errorf("expected total_lines 1000")
	}
}

func TestDecodeScanResult_AmbiguousPayloadsAreUnknown(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"neither": `{"scan_id": "n1", "severity": "LOW"}`,
		"both":    `{"scan_id": "b1", "target_url": "https://a", "filename": "x.log"}`,
	}
	for name, payload := range cases {
		r, err := model.DecodeScanResult([]byte(payload))
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if r.Kind != model.ScanKindUnknown || r.URL != nil || r.Log != nil {
			t.Errorf("%s: expected unknown with no variant, got %s", name, r.Kind)
		}
	}
}

func TestDecodeScanResult_NumericScanID(t *testing.T) {
	t.Parallel()
	r, err := model.DecodeScanResult([]byte(`{"scan_id": 42, "filename": "a.log"}`))
	if err != nil {
		t.Fatalf("DecodeScanResult: %v", err)
	}
	if r.ScanID != "42" {
		t.Errorf("expected scan id 42, got %q", r.ScanID)
	}
}

func TestDecodeScanResult_MissingScanIDIsEmpty(t *testing.T) {
	t.Parallel()
	r, err := model.DecodeScanResult([]byte(`{"target_url": "https://a"}`))
	if err != nil {
		t.Fatalf("DecodeScanResult: %v", err)
	}
	if r.ScanID != "" {
		t.Errorf("expected empty scan id, got %q", r.ScanID)
	}
}

func TestDecodeScanResult_InvalidJSON(t *testing.T) {
	t.Parallel()
	if _, err := model.DecodeScanResult([]byte(`{nope`)); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestDecodeScanResult_NonObjectIsError(t *testing.T) {
	t.Parallel()
	for _, body := range []string{`[]`, `"ok"`, `42`, `null`, `<html></html>`} {
		if _, err := model.DecodeScanResult([]byte(body)); err == nil {
			t.Errorf("expected error for %s", body)
		}
	}
}

func TestDecodeScanResult_MismatchedOptionalFieldsAreDropped(t *testing.T) {
	t.Parallel()
	payload := `{
		"scan_id": "abc123",
		"target_url": "https://example.com",
		"severity": "LOW",
		"threat_count": "2",
		"findings": [{"title": "x"}],
		"status_code": "200",
		"https_enabled": true,
		"premium_insights": {"note": "x"}
	}`
	r, err := model.DecodeScanResult([]byte(payload))
	if err != nil {
		t.Fatalf("DecodeScanResult: %v", err)
	}
	if r.ScanID != "abc123" || r.Kind != model.ScanKindURL || r.Severity != "LOW" {
		t.Fatalf("unexpected result: %+v", r)
	}
	if r.ThreatCount != 0 || r.Findings != nil {
		t.Errorf("mismatched fields should be zero, got count %d findings %v", r.ThreatCount, r.Findings)
	}
	if r.URL.StatusCode != nil || r.URL.HTTPSEnabled == nil || !*r.URL.HTTPSEnabled {
		t.Errorf("unexpected url details: %+v", r.URL)
	}
	want := []string{"threat_count", "findings", "status_code", "premium_insights"}
	if len(r.Dropped) != len(want) {
		t.Fatalf("dropped = %v, want %v", r.Dropped, want)
	}
	for i, name := range want {
		if r.Dropped[i] != name {
			t.Errorf("dropped[%d] = %q, want %q", i, r.Dropped[i], name)
		}
	}
	if !bytes.Equal(r.Raw, []byte(payload)) {
		t.Errorf("raw payload should be kept as sent")
	}
}

func TestDecodeScanResult_MismatchedScanIDIsEmpty(t *testing.T) {
	t.Parallel()
	r, err := model.DecodeScanResult([]byte(`{"scan_id": {"id": 1}, "target_url": "https://a"}`))
	if err != nil {
		t.Fatalf("DecodeScanResult: %v", err)
	}
	if r.ScanID != "" || len(r.Dropped) != 1 || r.Dropped[0] != "scan_id" {
		t.Errorf("expected empty scan id and scan_id dropped, got %q %v", r.ScanID, r.Dropped)
	}
}

func TestScanResult_MarshalReturnsRawPayload(t *testing.T) {
	t.Parallel()
	r, err := model.DecodeScanResult([]byte(urlPayload))
	if err != nil {
		t.Fatalf("DecodeScanResult: %v", err)
	}
	out, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var want bytes.Buffer
	if err := json.Compact(&want, []byte(urlPayload)); err != nil {
		t.Fatalf("Compact: %v", err)
	}
	if string(out) != want.String() {
		t.Errorf("expected raw payload back, got %s", out)
	}
}

func TestHistoryEntry_AsResult(t *testing.T) {
	t.Parallel()
	cases := []struct {
		scanType string
		kind     model.ScanKind
	}{
		{"URL", model.ScanKindURL},
		{"LOG", model.ScanKindLog},
		{"log", model.ScanKindLog},
		{"FTP", model.ScanKindUnknown},
	}
	for _, tc := range cases {
		e := model.HistoryEntry{ScanID: "h1", ScanType: tc.scanType, Target: "t", Severity: model.SeverityLow, ThreatCount: 1}
		r := e.AsResult()
		if r.Kind != tc.kind {
			t.Errorf("%s: expected kind %s, got %s", tc.scanType, tc.kind, r.Kind)
		}
		if tc.kind != model.ScanKindUnknown && r.Target() != "t" {
			t.Errorf("%s: expected target t, got %q", tc.scanType, r.Target())
		}
		if r.ScanID != "h1" || r.ThreatCount != 1 {
			t.Errorf("%s: summary fields lost: %+v", tc.scanType, r)
		}
	}
}

func TestHistoryProjection_MarshalsWithoutRaw(t *testing.T) {
	t.Parallel()
	r := model.HistoryEntry{ScanID: "h2", ScanType: "LOG", Target: "auth.log", Severity: model.SeverityHigh}.AsResult()
	out, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := model.DecodeScanResult(out)
	if err != nil {
		t.Fatalf("DecodeScanResult: %v", err)
	}
	if back.Kind != model.ScanKindLog || back.Target() != "auth.log" || back.ScanID != "h2" {
		t.Errorf("projection did not survive storage: %+v", back)
	}
}

func TestScanRequest_Validate(t *testing.T) {
	t.Parallel()
	valid := []model.ScanRequest{
		model.NewURLScanRequest("https://example.com", true),
		model.NewLogScanRequest("", "line", false),
	}
	for _, r := range valid {
		if err := r.Validate(); err != nil {
			t.Errorf("expected %+v valid, got %v", r, err)
		}
	}
	invalid := []model.ScanRequest{
		{Kind: model.ScanKindURL},
		{Kind: model.ScanKindURL, URL: "https://a", Content: "x"},
		model.NewLogScanRequest("a.log", "   ", false),
		{Kind: "ftp"},
	}
	for _, r := range invalid {
		if err := r.Validate(); !errors.Is(err, model.ErrInvalidScanRequest) {
			t.Errorf("expected ErrInvalidScanRequest for %+v, got %v", r, err)
		}
	}
}

func TestNewLogScanRequest_DefaultFilename(t *testing.T) {
	t.Parallel()
	r := model.NewLogScanRequest("  ", "data", false)
	if r.Filename != model.DefaultLogFilename {
		t.Errorf("expected default filename, got %q", r.Filename)
	}
}
