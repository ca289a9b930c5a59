package demoserver_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/raysh454/vulnscan-web/internal/api"
	"github.com/raysh454/vulnscan-web/internal/demoserver"
	"github.com/raysh454/vulnscan-web/internal/model"
	"github.com/raysh454/vulnscan-web/internal/testutil"
)

// newClient starts the demo backend and returns an api.Client pointed at it.
func newClient(t *testing.T) *api.Client {
	t.Helper()
	logger := &testutil.DummyLogger{}
	srv := httptest.NewServer(demoserver.NewDemoServer(demoserver.DefaultConfig(), logger).Handler())
	t.Cleanup(srv.Close)
	c, err := api.NewClient(srv.URL, nil, logger)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestURLScan_ReturnsURLResult(t *testing.T) {
	t.Parallel()
	c := newClient(t)

	res, err := c.SubmitURLScan(context.Background(), "https://example.com", true)
	if err != nil {
		t.Fatalf("SubmitURLScan: %v", err)
	}
	if res.Kind != model.ScanKindURL || res.ScanID == "" {
		t.Fatalf("unexpected result kind=%s id=%q", res.Kind, res.ScanID)
	}
	if res.URL.TargetURL != "https://example.com" {
		t.Errorf("target = %q", res.URL.TargetURL)
	}
	if res.URL.HTTPSEnabled == nil || !*res.URL.HTTPSEnabled {
		t.Error("expected https_enabled")
	}
	if len(res.URL.SecurityHeaders) != 6 {
		t.Errorf("expected 6 header checks, got %d", len(res.URL.SecurityHeaders))
	}
	if len(res.URL.PremiumInsights) != 2 {
		t.Errorf("expected premium insights, got %v", res.URL.PremiumInsights)
	}
	if res.SeverityScore == nil || *res.SeverityScore > 10 {
		t.Errorf("score out of range: %v", res.SeverityScore)
	}
}

func TestURLScan_IsDeterministicPerHost(t *testing.T) {
	t.Parallel()
	c := newClient(t)
	a, err := c.SubmitURLScan(context.Background(), "https://example.com/a", false)
	if err != nil {
		t.Fatalf("SubmitURLScan: %v", err)
	}
	b, err := c.SubmitURLScan(context.Background(), "https://EXAMPLE.com/b", false)
	if err != nil {
		t.Fatalf("SubmitURLScan: %v", err)
	}
	if a.ScanID == b.ScanID {
		t.Error("scan ids should be unique")
	}
	if *a.SeverityScore != *b.SeverityScore || a.Severity != b.Severity {
		t.Errorf("same host scored differently: %v/%s vs %v/%s", *a.SeverityScore, a.Severity, *b.SeverityScore, b.Severity)
	}
	if a.URL.PremiumInsights != nil {
		t.Error("premium insights without premium")
	}
}

func TestURLScan_InvalidURLGivesDetail(t *testing.T) {
	t.Parallel()
	c := newClient(t)
	_, err := c.SubmitURLScan(context.Background(), "not a url", false)

	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *api.Error, got %v", err)
	}
	if apiErr.Kind != api.KindServer || apiErr.StatusCode != 422 {
		t.Errorf("kind=%s status=%d", apiErr.Kind, apiErr.StatusCode)
	}
	if apiErr.Detail != "Input should be a valid URL" {
		t.Errorf("detail = %q", apiErr.Detail)
	}
}

func TestLogScan_DetectsThreats(t *testing.T) {
	t.Parallel()
	c := newClient(t)
	log := strings.Join([]string{
		`10.0.0.1 - - "GET /login?user=admin' OR '1'='1 HTTP/1.1" 200`,
		``,
		`sshd[42]: Failed password for root from 10.0.0.9`,
		`10.0.0.2 - - "GET /index.html HTTP/1.1" 200`,
	}, "\n")

	res, err := c.SubmitLogScan(context.Background(), "", log, false)
	if err != nil {
		t.Fatalf("SubmitLogScan: %v", err)
	}
	if res.Kind != model.ScanKindLog {
		t.Fatalf("kind = %s", res.Kind)
	}
	if res.Log.Filename != model.DefaultLogFilename {
		t.Errorf("filename = %q", res.Log.Filename)
	}
	if res.ThreatCount != 2 || res.Severity != model.SeverityHigh {
		t.Errorf("threats=%d severity=%s", res.ThreatCount, res.Severity)
	}
	if res.Log.ThreatBreakdown["sql_injection"] != 1 || res.Log.ThreatBreakdown["brute_force"] != 1 {
		t.Errorf("breakdown = %v", res.Log.ThreatBreakdown)
	}
	if res.Log.TotalLines == nil || *res.Log.TotalLines != 3 {
		t.Errorf("total lines = %v", res.Log.TotalLines)
	}
	if got := res.Log.ThreatsDetected[1].LineNumber; got != 3 {
		t.Errorf("line number = %d", got)
	}
}

func TestLogScan_FreeTierListsFirstThreatsOnly(t *testing.T) {
	t.Parallel()
	c := newClient(t)
	log := strings.Repeat("GET /?id=1 UNION SELECT password FROM users\n", 7)

	free, err := c.SubmitLogScan(context.Background(), "access.log", log, false)
	if err != nil {
		t.Fatalf("SubmitLogScan: %v", err)
	}
	if free.ThreatCount != 7 || len(free.Log.ThreatsDetected) != 5 || free.Log.PremiumThreats != nil {
		t.Errorf("free: count=%d listed=%d premium=%d", free.ThreatCount, len(free.Log.ThreatsDetected), len(free.Log.PremiumThreats))
	}

	premium, err := c.SubmitLogScan(context.Background(), "access.log", log, true)
	if err != nil {
		t.Fatalf("SubmitLogScan: %v", err)
	}
	if len(premium.Log.ThreatsDetected) != 7 || len(premium.Log.PremiumThreats) != 7 {
		t.Errorf("premium: listed=%d premium=%d", len(premium.Log.ThreatsDetected), len(premium.Log.PremiumThreats))
	}
}

func TestLogScan_EmptyContentGivesDetail(t *testing.T) {
	t.Parallel()
	c := newClient(t)
	_, err := c.SubmitLogScan(context.Background(), "a.log", "  \n ", false)
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Detail != "Log content cannot be empty" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestHistory_NewestFirstWithLimit(t *testing.T) {
	t.Parallel()
	c := newClient(t)
	ctx := context.Background()
	if _, err := c.SubmitURLScan(ctx, "https://example.com", false); err != nil {
		t.Fatalf("SubmitURLScan: %v", err)
	}
	logRes, err := c.SubmitLogScan(ctx, "app.log", "<script>alert(1)</script>", true)
	if err != nil {
		t.Fatalf("SubmitLogScan: %v", err)
	}

	h, err := c.FetchHistory(ctx, 1)
	if err != nil {
		t.Fatalf("FetchHistory: %v", err)
	}
	if h.TotalScans != 2 || len(h.Scans) != 1 {
		t.Fatalf("total=%d len=%d", h.TotalScans, len(h.Scans))
	}
	got := h.Scans[0]
	if got.ScanID != logRes.ScanID || got.ScanType != "LOG" || got.Target != "app.log" || !got.Premium {
		t.Errorf("unexpected newest entry %+v", got)
	}
	if got.AsResult().Kind != model.ScanKindLog {
		t.Error("history entry should project to a log result")
	}
}

func TestInfoEndpoints(t *testing.T) {
	t.Parallel()
	c := newClient(t)
	features, err := c.FetchFeatures(context.Background())
	if err != nil || len(features.Features) != 2 {
		t.Fatalf("features = %+v (%v)", features, err)
	}
	tiers, err := c.FetchTiers(context.Background())
	if err != nil {
		t.Fatalf("FetchTiers: %v", err)
	}
	if _, ok := tiers.Tiers["premium"]; !ok {
		t.Errorf("tiers = %+v", tiers.Tiers)
	}
}
