package utils

import (
	"errors"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

var (
	ErrEmptyURL    = errors.New("empty url")
	ErrMissingHost = errors.New("missing host")
	ErrBadScheme   = errors.New("scheme must be http or https")
	ErrBadHost     = errors.New("invalid host")
)

// WithDefaultScheme trims raw and prepends scheme + "://" when raw does not
// already start with http:// or https:// (case-insensitive).
func WithDefaultScheme(raw, scheme string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw
	}
	return scheme + "://" + raw
}

// NormalizeTargetURL applies the https default scheme and checks that the
// result is a well-formed absolute http(s) URL with a valid host name.
// It returns the string that should be submitted, which is the trimmed input
// with the scheme applied; it does not otherwise rewrite the URL.
func NormalizeTargetURL(raw string) (string, error) {
	candidate := WithDefaultScheme(raw, "https")
	if candidate == "" {
		return "", &url.Error{Op: "parse", URL: raw, Err: ErrEmptyURL}
	}

	u, err := url.Parse(candidate)
	if err != nil {
		return "", err
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return "", &url.Error{Op: "parse", URL: candidate, Err: ErrBadScheme}
	}
	host := u.Hostname()
	if host == "" {
		return "", &url.Error{Op: "parse", URL: candidate, Err: ErrMissingHost}
	}
	if !validHost(host) {
		return "", &url.Error{Op: "parse", URL: candidate, Err: ErrBadHost}
	}
	return candidate, nil
}

// validHost accepts IP literals and names that survive IDNA lookup
// conversion (which also rejects spaces and empty labels).
func validHost(host string) bool {
	if strings.HasPrefix(host, "[") || strings.Count(host, ":") > 1 {
		return true // IPv6 literal; url.Parse already checked the brackets
	}
	_, err := idna.Lookup.ToASCII(strings.ToLower(host))
	return err == nil
}
