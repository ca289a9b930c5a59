// Package format holds the pure lookup and formatting helpers used by the
// HTML views. Every function is deterministic and total: unknown input maps
// to a fixed default.
package format

import "github.com/raysh454/vulnscan-web/internal/model"

const (
	DefaultSeverityColor = "#64748b"
	DefaultSeverityEmoji = "❓"
	DefaultBadgeClass    = "bg-slate-800 text-slate-300"
)

var severityColors = map[model.Severity]string{
	model.SeverityLow:    "#10b981",
	model.SeverityMedium: "#f59e0b",
	model.SeverityHigh:   "#ef4444",
}

var severityEmojis = map[model.Severity]string{
	model.SeverityLow:    "✅",
	model.SeverityMedium: "⚠️",
	model.SeverityHigh:   "🚨",
}

var severityBadges = map[model.Severity]string{
	model.SeverityLow:    "bg-green-900/30 text-green-300 border-green-800/50",
	model.SeverityMedium: "bg-amber-900/30 text-amber-300 border-amber-800/50",
	model.SeverityHigh:   "bg-red-900/30 text-red-300 border-red-800/50",
}

// SeverityColor returns the hex colour for a severity.
func SeverityColor(s model.Severity) string {
	if c, ok := severityColors[s]; ok {
		return c
	}
	return DefaultSeverityColor
}

// SeverityEmoji returns the emoji for a severity.
func SeverityEmoji(s model.Severity) string {
	if e, ok := severityEmojis[s]; ok {
		return e
	}
	return DefaultSeverityEmoji
}

// SeverityBadgeClass returns the CSS classes for a severity badge.
func SeverityBadgeClass(s model.Severity) string {
	if c, ok := severityBadges[s]; ok {
		return c
	}
	return DefaultBadgeClass
}
