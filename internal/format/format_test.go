package format_test

import (
	"testing"
	"time"

	"github.com/raysh454/vulnscan-web/internal/format"
	"github.com/raysh454/vulnscan-web/internal/model"
)

func TestSeverityLookups(t *testing.T) {
	t.Parallel()
	cases := []struct {
		sev   model.Severity
		color string
		emoji string
	}{
		{model.SeverityLow, "#10b981", "✅"},
		{model.SeverityMedium, "#f59e0b", "⚠️"},
		{model.SeverityHigh, "#ef4444", "🚨"},
		{"CRITICAL", format.DefaultSeverityColor, format.DefaultSeverityEmoji},
		{"high", format.DefaultSeverityColor, format.DefaultSeverityEmoji},
		{"", format.DefaultSeverityColor, format.DefaultSeverityEmoji},
	}
	for _, tc := range cases {
		// repeated calls must agree
		for i := 0; i < 3; i++ {
			if got := format.SeverityColor(tc.sev); got != tc.color {
				t.Errorf("SeverityColor(%q) = %q, want %q", tc.sev, got, tc.color)
			}
			if got := format.SeverityEmoji(tc.sev); got != tc.emoji {
				t.Errorf("SeverityEmoji(%q) = %q, want %q", tc.sev, got, tc.emoji)
			}
		}
	}
	if got := format.SeverityBadgeClass("nope"); got != format.DefaultBadgeClass {
		t.Errorf("unexpected default badge %q", got)
	}
	if got := format.SeverityBadgeClass(model.SeverityHigh); got == format.DefaultBadgeClass {
		t.Errorf("HIGH should not use the default badge")
	}
}

func TestFormatDate(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"2026-01-15T10:30:00":        "Jan 15, 2026, 10:30 AM",
		"2026-01-15T22:05:09.123456": "Jan 15, 2026, 10:05 PM",
		"2026-01-15T10:30:00Z":       "Jan 15, 2026, 10:30 AM",
		"2026-01-15T12:30:00+02:00":  "Jan 15, 2026, 10:30 AM",
		"2026-01-15":                 "Jan 15, 2026, 12:00 AM",
		"":                           "Unknown",
		"yesterday":                  "Invalid date",
	}
	for in, want := range cases {
		if got := format.FormatDate(in); got != want {
			t.Errorf("FormatDate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatTimeAgo(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 1, 20, 12, 0, 0, 0, time.UTC)
	cases := map[string]string{
		"2026-01-20T11:59:30": "Just now",
		"2026-01-20T11:45:00": "15 mins ago",
		"2026-01-20T09:00:00": "3 hours ago",
		"2026-01-18T12:00:00": "2 days ago",
		"2026-01-01T08:00:00": "Jan 1, 2026, 08:00 AM",
		"":                    "Unknown",
		"garbage":             "Invalid date",
	}
	for in, want := range cases {
		if got := format.FormatTimeAgo(in, now); got != want {
			t.Errorf("FormatTimeAgo(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHelpers(t *testing.T) {
	t.Parallel()
	if got := format.Count(1234567); got != "1,234,567" {
		t.Errorf("Count = %q", got)
	}
	if got := format.Size(2048); got != "2.0 kB" {
		t.Errorf("Size = %q", got)
	}
	if format.Plural(1) != "" || format.Plural(0) != "s" || format.Plural(2) != "s" {
		t.Errorf("Plural mismatch")
	}
	if got := format.ThreatLabel("sql_injection"); got != "Sql Injection" {
		t.Errorf("ThreatLabel = %q", got)
	}
	if got := format.ThreatLabel("brute_force_login"); got != "Brute Force Login" {
		t.Errorf("ThreatLabel = %q", got)
	}
}
