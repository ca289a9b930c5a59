package format

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/dustin/go-humanize"
)

const displayLayout = "Jan 2, 2006, 03:04 PM"

// Timestamps without a zone are read as UTC.
var inputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp parses the ISO-8601 variants the backend emits.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders an ISO timestamp as "Jan 15, 2026, 10:30 AM" (UTC).
func FormatDate(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	t, ok := ParseTimestamp(s)
	if !ok {
		return "Invalid date"
	}
	return t.UTC().Format(displayLayout)
}

// FormatTimeAgo renders a timestamp relative to now, falling back to
// FormatDate after a week.
func FormatTimeAgo(s string, now time.Time) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	t, ok := ParseTimestamp(s)
	if !ok {
		return "Invalid date"
	}
	secs := int64(now.Sub(t) / time.Second)
	switch {
	case secs < 60:
		return "Just now"
	case secs < 3600:
		return fmt.Sprintf("%d mins ago", secs/60)
	case secs < 86400:
		return fmt.Sprintf("%d hours ago", secs/3600)
	case secs < 604800:
		return fmt.Sprintf("%d days ago", secs/86400)
	}
	return FormatDate(s)
}

// Count renders an integer with thousands separators.
func Count(n int) string {
	return humanize.Comma(int64(n))
}

// Size renders a byte count such as the length of a pasted log.
func Size(n int) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

// Plural returns "" for 1 and "s" otherwise.
func Plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// ThreatLabel turns a threat type like "sql_injection" into "Sql Injection".
func ThreatLabel(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
