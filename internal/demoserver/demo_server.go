package demoserver

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/raysh454/vulnscan-web/internal/logging"
	"github.com/raysh454/vulnscan-web/internal/model"
)

// scannedAtLayout matches the backend's zone-less ISO timestamps.
const scannedAtLayout = "2006-01-02T15:04:05.999999"

// DemoServer is a stand-in scanning backend for local development. URL
// scans are simulated from the target name without fetching it; log scans
// run a small signature set over the submitted lines.
type DemoServer struct {
	cfg    Config
	logger logging.Logger
	now    func() time.Time

	mu    sync.RWMutex
	scans []model.HistoryEntry // newest first
}

// NewDemoServer creates a new demo backend instance.
func NewDemoServer(cfg Config, logger logging.Logger) *DemoServer {
	if cfg.HistoryCap <= 0 {
		cfg.HistoryCap = DefaultConfig().HistoryCap
	}
	if cfg.FreeThreatLimit <= 0 {
		cfg.FreeThreatLimit = DefaultConfig().FreeThreatLimit
	}
	return &DemoServer{
		cfg:    cfg,
		logger: logger.With(logging.Field{Key: "component", Value: "demoserver"}),
		now:    time.Now,
	}
}

// Handler returns the backend's routes.
func (s *DemoServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/scan/url", s.urlScanHandler)
	mux.HandleFunc("POST /v1/scan/log", s.logScanHandler)
	mux.HandleFunc("GET /v1/scans/history", s.historyHandler)
	mux.HandleFunc("GET /info/features", s.featuresHandler)
	mux.HandleFunc("GET /info/tiers", s.tiersHandler)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Not Found"})
	})
	return mux
}

// Start starts the demo backend.
func (s *DemoServer) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.logger.Info("demo backend starting", logging.Field{Key: "addr", Value: "http://localhost" + addr})
	return http.ListenAndServe(addr, s.Handler())
}

// urlScanHandler simulates a passive header and transport check of a URL.
func (s *DemoServer) urlScanHandler(w http.ResponseWriter, r *http.Request) {
	var req model.URLScanPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		validationError(w, "Invalid JSON body")
		return
	}
	u, err := url.Parse(strings.TrimSpace(req.URL))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		validationError(w, "Input should be a valid URL")
		return
	}

	seed := hashOf(strings.ToLower(u.Hostname()))
	https := u.Scheme == "https"
	status := 200
	serverInfo := []string{"nginx", "Apache", "cloudflare", "Microsoft-IIS/10.0"}[seed%4]

	res := &model.ScanResult{
		Kind:      model.ScanKindURL,
		ScanID:    xid.New().String(),
		ScannedAt: s.now().UTC().Format(scannedAtLayout),
		URL: &model.URLScan{
			TargetURL:    u.String(),
			HTTPSEnabled: &https,
			StatusCode:   &status,
			ServerInfo:   serverInfo,
		},
	}

	score := 0.0
	if !https {
		score += 3
		res.Findings = append(res.Findings, "Site is served over plain HTTP")
		res.Recommendations = append(res.Recommendations, "Serve the site over HTTPS and redirect plain HTTP requests")
	}
	for i, h := range headerChecks {
		present := seed&(1<<uint(i)) != 0
		check := model.SecurityHeader{HeaderName: h.name, Present: present, Recommended: h.recommended}
		if present {
			value := h.recommended
			check.Value = &value
		} else {
			score += 1.2
			res.Findings = append(res.Findings, "Missing "+h.name+" header")
			res.Recommendations = append(res.Recommendations, "Add "+h.name+": "+h.recommended)
		}
		res.URL.SecurityHeaders = append(res.URL.SecurityHeaders, check)
	}
	score = math.Min(10, math.Round(score*10)/10)
	res.SeverityScore = &score
	res.Severity = severityForScore(score)
	res.ThreatCount = len(res.Findings)

	if req.Premium {
		res.URL.PremiumInsights = []string{
			fmt.Sprintf("Server banner discloses %q", serverInfo),
			fmt.Sprintf("%d of %d recommended security headers are configured", len(headerChecks)-countMissing(res.URL.SecurityHeaders), len(headerChecks)),
		}
	}

	s.record(res, "URL", req.Premium)
	writeJSON(w, http.StatusOK, res)
}

// logScanHandler runs the signature set over a pasted log.
func (s *DemoServer) logScanHandler(w http.ResponseWriter, r *http.Request) {
	var req model.LogScanPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		validationError(w, "Invalid JSON body")
		return
	}
	if strings.TrimSpace(req.LogContent) == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": "Log content cannot be empty"})
		return
	}
	if strings.TrimSpace(req.Filename) == "" {
		req.Filename = model.DefaultLogFilename
	}

	lines, threats := detect(req.LogContent)
	breakdown := map[string]int{}
	for _, t := range threats {
		breakdown[t.ThreatType]++
	}

	score := 0.0
	for _, t := range threats {
		if t.Severity == model.SeverityHigh {
			score += 2
		} else {
			score++
		}
	}
	score = math.Min(10, score)

	res := &model.ScanResult{
		Kind:          model.ScanKindLog,
		ScanID:        xid.New().String(),
		ScannedAt:     s.now().UTC().Format(scannedAtLayout),
		Severity:      maxSeverity(threats),
		SeverityScore: &score,
		ThreatCount:   len(threats),
		Log: &model.LogScan{
			Filename:        req.Filename,
			TotalLines:      &lines,
			ThreatBreakdown: breakdown,
			ThreatsDetected: threats,
		},
	}
	if len(threats) > s.cfg.FreeThreatLimit && !req.Premium {
		res.Log.ThreatsDetected = threats[:s.cfg.FreeThreatLimit]
	}
	if req.Premium {
		res.Log.PremiumThreats = threats
	}

	types := make([]string, 0, len(breakdown))
	for k := range breakdown {
		types = append(types, k)
	}
	sort.Strings(types)
	for _, k := range types {
		res.Findings = append(res.Findings, fmt.Sprintf("Detected %d %s event(s)", breakdown[k], strings.ReplaceAll(k, "_", " ")))
		res.Recommendations = append(res.Recommendations, recommendationFor(k))
	}

	s.record(res, "LOG", req.Premium)
	writeJSON(w, http.StatusOK, res)
}

func (s *DemoServer) historyHandler(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			validationError(w, "limit must be a positive integer")
			return
		}
		limit = n
	}

	s.mu.RLock()
	total := len(s.scans)
	scans := make([]model.HistoryEntry, 0, min(limit, total))
	scans = append(scans, s.scans[:min(limit, total)]...)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, model.History{TotalScans: total, Scans: scans})
}

func (s *DemoServer) featuresHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.FeatureInfo{Features: []model.Feature{
		{
			Name:        "URL Security Scanning",
			Description: "Passive analysis of transport security and response headers",
			Endpoint:    "/v1/scan/url",
			Checks:      []string{"HTTPS enforcement", "Security headers", "Server banner disclosure"},
		},
		{
			Name:        "Log Threat Detection",
			Description: "Signature-based detection of attacks in application and server logs",
			Endpoint:    "/v1/scan/log",
			Threats:     []string{"SQL injection", "Cross-site scripting", "Brute force", "Suspicious activity"},
		},
	}})
}

func (s *DemoServer) tiersHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.TierInfo{Tiers: map[string]model.Tier{
		"free": {
			Name:        "Free Tier",
			Cost:        "$0",
			Features:    []string{"URL scanning", "Log scanning", "Scan history"},
			Limitations: []string{fmt.Sprintf("First %d threats listed per log scan", s.cfg.FreeThreatLimit)},
		},
		"premium": {
			Name:     "Premium Tier",
			Cost:     "$9.99/month (simulated)",
			Features: []string{"Everything in Free", "Premium insights"},
			Benefits: []string{"Complete threat visibility", "Server fingerprint insights"},
		},
	}})
}

// record prepends the scan to the history, dropping the oldest past the cap.
func (s *DemoServer) record(res *model.ScanResult, scanType string, premium bool) {
	entry := model.HistoryEntry{
		ScanID:      res.ScanID,
		ScanType:    scanType,
		Target:      res.Target(),
		Severity:    res.Severity,
		ThreatCount: res.ThreatCount,
		ScannedAt:   res.ScannedAt,
		Premium:     premium,
	}
	s.mu.Lock()
	s.scans = append([]model.HistoryEntry{entry}, s.scans...)
	if len(s.scans) > s.cfg.HistoryCap {
		s.scans = s.scans[:s.cfg.HistoryCap]
	}
	s.mu.Unlock()

	s.logger.Info("scan completed",
		logging.Field{Key: "scan_id", Value: res.ScanID},
		logging.Field{Key: "type", Value: scanType},
		logging.Field{Key: "severity", Value: string(res.Severity)},
		logging.Field{Key: "threats", Value: res.ThreatCount})
}

func recommendationFor(threat string) string {
	switch threat {
	case "sql_injection":
		return "Use parameterized queries and validate input server-side"
	case "xss":
		return "Encode output and deploy a Content-Security-Policy"
	case "suspicious_activity":
		return "Canonicalize file paths and never pass request input to a shell"
	case "brute_force":
		return "Rate-limit authentication and enable account lockout"
	}
	return "Review the affected requests"
}

func countMissing(headers []model.SecurityHeader) int {
	n := 0
	for _, h := range headers {
		if !h.Present {
			n++
		}
	}
	return n
}

func hashOf(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}

// validationError mirrors the backend's list-shaped validation detail.
func validationError(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"detail": []map[string]any{{"msg": msg, "type": "value_error"}},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
