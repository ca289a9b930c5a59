package demoserver

import (
	"regexp"
	"strings"

	"github.com/raysh454/vulnscan-web/internal/model"
)

// rule is one log line signature.
type rule struct {
	threat   string
	severity model.Severity
	pattern  *regexp.Regexp
	details  string
}

var logRules = []rule{
	{
		threat:   "sql_injection",
		severity: model.SeverityHigh,
		pattern:  regexp.MustCompile(`(?i)(union\s+select|or\s+1\s*=\s*1|'\s*or\s*'|;\s*drop\s+table|sleep\(\d+\))`),
		details:  "SQL injection attempt in request",
	},
	{
		threat:   "xss",
		severity: model.SeverityHigh,
		pattern:  regexp.MustCompile(`(?i)(<script|javascript:|onerror\s*=|onload\s*=|%3cscript|<iframe)`),
		details:  "Cross-site scripting payload in request",
	},
	{
		threat:   "suspicious_activity",
		severity: model.SeverityMedium,
		pattern:  regexp.MustCompile(`(?i)(\.\./|%2e%2e|/etc/passwd|/etc/shadow|;\s*(cat|wget|curl)\s)`),
		details:  "Path traversal or command probing",
	},
	{
		threat:   "brute_force",
		severity: model.SeverityMedium,
		pattern:  regexp.MustCompile(`(?i)(failed password|authentication failure|invalid user)`),
		details:  "Failed authentication attempt",
	},
}

// detect runs every rule over every line. A line can match several rules.
func detect(content string) (lines int, found []model.ThreatDetection) {
	all := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	for i, line := range all {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines++
		for _, r := range logRules {
			m := r.pattern.FindString(line)
			if m == "" {
				continue
			}
			found = append(found, model.ThreatDetection{
				ThreatType:     r.threat,
				Severity:       r.severity,
				LineNumber:     i + 1,
				MatchedPattern: m,
				Details:        r.details,
			})
		}
	}
	return lines, found
}

// headerChecks are the response headers a URL scan reports on.
var headerChecks = []struct {
	name        string
	recommended string
}{
	{"Strict-Transport-Security", "max-age=31536000; includeSubDomains"},
	{"Content-Security-Policy", "default-src 'self'"},
	{"X-Frame-Options", "DENY"},
	{"X-Content-Type-Options", "nosniff"},
	{"Referrer-Policy", "strict-origin-when-cross-origin"},
	{"Permissions-Policy", "geolocation=(), camera=(), microphone=()"},
}

func maxSeverity(threats []model.ThreatDetection) model.Severity {
	sev := model.SeverityLow
	for _, t := range threats {
		switch t.Severity {
		case model.SeverityHigh:
			return model.SeverityHigh
		case model.SeverityMedium:
			sev = model.SeverityMedium
		}
	}
	return sev
}

func severityForScore(score float64) model.Severity {
	switch {
	case score >= 7:
		return model.SeverityHigh
	case score >= 4:
		return model.SeverityMedium
	}
	return model.SeverityLow
}
